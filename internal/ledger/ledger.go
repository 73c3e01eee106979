package ledger

import (
	"sync"
	"time"

	"chatwithme/internal/content"
	"chatwithme/internal/models"

	"github.com/c-pro/geche"
	"github.com/google/uuid"
)

// UserSource validates identifiers against the user registry.
// The directory implements it.
type UserSource interface {
	Get(id string) (models.User, error)
}

// Summarizer produces a display string describing the conversation between
// two users given its latest message. It is treated as an external
// collaborator with no side effects.
type Summarizer func(userA, userB, latestMessage string) string

// Ledger is the append-only record of messages and invitations plus the
// derived per-pair conversation summaries. State lives for the process
// lifetime only.
type Ledger struct {
	users     UserSource
	summarize Summarizer

	mu          sync.Mutex
	messages    []models.Message
	invitations []*models.ActivityInvitation

	summaries geche.Geche[string, models.ConversationSummary]

	now func() time.Time
}

func New(users UserSource, summarize Summarizer) *Ledger {
	return &Ledger{
		users:     users,
		summarize: summarize,
		summaries: geche.NewMapCache[string, models.ConversationSummary](),
		now:       time.Now,
	}
}

// AppendMessage validates the participants, records the message at the end
// of the sequence and, for private messages, refreshes the pair's
// conversation summary via the summarizer collaborator.
func (l *Ledger) AppendMessage(senderID, recipientID, text string, isPublic bool) (models.Message, error) {
	if _, err := l.users.Get(senderID); err != nil {
		return models.Message{}, err
	}
	if recipientID != "" {
		if _, err := l.users.Get(recipientID); err != nil {
			return models.Message{}, err
		}
	}

	room := models.RoomPlayground
	if !isPublic {
		room = models.RoomPrivate
	}

	msg := models.Message{
		ID:          uuid.NewString(),
		SenderID:    senderID,
		RecipientID: recipientID,
		Content:     text,
		Rendered:    content.Render(text),
		Timestamp:   l.now().Unix(),
		IsPublic:    isPublic,
		Room:        room,
	}

	l.mu.Lock()
	l.messages = append(l.messages, msg)
	l.mu.Unlock()

	if !isPublic && recipientID != "" {
		summary := l.summarize(senderID, recipientID, text)
		l.summaries.Set(PairKey(senderID, recipientID), models.ConversationSummary{
			UserID:      senderID,
			OtherUserID: recipientID,
			Summary:     summary,
			LastUpdated: l.now().Unix(),
		})
	}

	return msg, nil
}

// ListPublic returns the most recent limit public messages in
// chronological (oldest-first) order. The selection always favors the
// newest messages: with more than limit public messages in existence only
// the latest limit are returned.
func (l *Ledger) ListPublic(limit int) []models.Message {
	l.mu.Lock()
	defer l.mu.Unlock()

	public := make([]models.Message, 0, limit)
	for _, msg := range l.messages {
		if msg.IsPublic {
			public = append(public, msg)
		}
	}

	if limit >= 0 && len(public) > limit {
		public = public[len(public)-limit:]
	}

	return public
}

// CreateInvitation records a pending activity invitation. Both users must
// exist, the activity must be one of the fixed set, and the users must sit
// on opposite chat sides.
func (l *Ledger) CreateInvitation(fromID, toID, activity, note string) (models.ActivityInvitation, error) {
	from, err := l.users.Get(fromID)
	if err != nil {
		return models.ActivityInvitation{}, err
	}
	to, err := l.users.Get(toID)
	if err != nil {
		return models.ActivityInvitation{}, err
	}

	if !ValidActivity(activity) {
		return models.ActivityInvitation{}, models.ErrInvalidActivity
	}

	if from.ChatSide == to.ChatSide {
		return models.ActivityInvitation{}, models.ErrSameSide
	}

	inv := &models.ActivityInvitation{
		ID:         uuid.NewString(),
		FromUserID: fromID,
		ToUserID:   toID,
		Activity:   activity,
		Note:       note,
		Status:     models.InvitationPending,
		Timestamp:  l.now().Unix(),
	}

	l.mu.Lock()
	l.invitations = append(l.invitations, inv)
	l.mu.Unlock()

	return *inv, nil
}

// Respond resolves a pending invitation. Only the designated recipient may
// respond, and only once: a second response fails with ErrAlreadyResolved
// regardless of the accept value.
func (l *Ledger) Respond(invitationID, responderID string, accept bool) (models.ActivityInvitation, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	var inv *models.ActivityInvitation
	for _, candidate := range l.invitations {
		if candidate.ID == invitationID {
			inv = candidate
			break
		}
	}
	if inv == nil {
		return models.ActivityInvitation{}, models.ErrNotFound
	}

	if inv.ToUserID != responderID {
		return models.ActivityInvitation{}, models.ErrForbidden
	}

	if inv.Status != models.InvitationPending {
		return models.ActivityInvitation{}, models.ErrAlreadyResolved
	}

	if accept {
		inv.Status = models.InvitationAccepted
	} else {
		inv.Status = models.InvitationDeclined
	}

	return *inv, nil
}

// Summary looks up the conversation summary for a pair of users in either
// argument order.
func (l *Ledger) Summary(userA, userB string) (models.ConversationSummary, bool) {
	summary, err := l.summaries.Get(PairKey(userA, userB))
	if err != nil {
		return models.ConversationSummary{}, false
	}
	return summary, true
}

// PairKey derives the canonical order-independent key for a pair of user
// identifiers: the lexicographically smaller one always comes first.
func PairKey(a, b string) string {
	if b < a {
		a, b = b, a
	}
	return a + "_" + b
}
