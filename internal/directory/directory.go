package directory

import (
	"fmt"
	"net/url"
	"sort"
	"sync"

	"chatwithme/internal/content"
	"chatwithme/internal/models"

	"github.com/google/uuid"
)

// NoConversationSummary is the placeholder shown for contact pairs that
// have never exchanged a private message.
const NoConversationSummary = "No conversation yet"

// SummarySource looks up the conversation summary for a pair of users.
// The ledger implements it.
type SummarySource interface {
	Summary(userA, userB string) (models.ConversationSummary, bool)
}

// Directory is the in-memory user registry. It issues identities and
// assigns chat sides by strict alternation over total registrations.
type Directory struct {
	mu    sync.RWMutex
	users map[string]models.User
	// Total registrations so far, drives side alternation.
	registered int
}

func New() *Directory {
	return &Directory{
		users: make(map[string]models.User),
	}
}

// Register creates a user with a fresh identifier. Even-indexed
// registrations land on the chatwithme side, odd-indexed on the mirrored
// side. An empty avatarRef is replaced with a placeholder derived from the
// display name. Register never fails.
func (d *Directory) Register(displayName, avatarRef string) models.User {
	displayName = content.SanitizeStrict(displayName)
	if avatarRef == "" {
		avatarRef = defaultAvatarURL(displayName)
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	side := models.SideChatWithMe
	if d.registered%2 == 1 {
		side = models.SideBeloved
	}
	d.registered++

	user := models.User{
		ID:          uuid.NewString(),
		DisplayName: displayName,
		AvatarURL:   avatarRef,
		ChatSide:    side,
		Active:      true,
	}
	d.users[user.ID] = user

	return user
}

func (d *Directory) Get(id string) (models.User, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	user, ok := d.users[id]
	if !ok {
		return models.User{}, models.ErrNotFound
	}
	return user, nil
}

func (d *Directory) ListAll() []models.User {
	d.mu.RLock()
	defer d.mu.RUnlock()

	users := make([]models.User, 0, len(d.users))
	for _, u := range d.users {
		users = append(users, u)
	}

	sort.Slice(users, func(i, j int) bool {
		return users[i].DisplayName < users[j].DisplayName
	})

	return users
}

// SetActive flips the liveness flag. Unknown ids are ignored so that
// disconnect cleanup stays idempotent.
func (d *Directory) SetActive(id string, active bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	user, ok := d.users[id]
	if !ok {
		return
	}
	user.Active = active
	d.users[id] = user
}

// SetAvatarURL updates a user's avatar reference after an upload.
func (d *Directory) SetAvatarURL(id, avatarURL string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	user, ok := d.users[id]
	if !ok {
		return models.ErrNotFound
	}
	user.AvatarURL = avatarURL
	d.users[id] = user
	return nil
}

// ListContacts returns every other registered user together with the
// pair's conversation summary, falling back to the placeholder when the
// pair has no summary yet.
func (d *Directory) ListContacts(id string, summaries SummarySource) ([]models.Contact, error) {
	d.mu.RLock()
	if _, ok := d.users[id]; !ok {
		d.mu.RUnlock()
		return nil, models.ErrNotFound
	}

	others := make([]models.User, 0, len(d.users)-1)
	for otherID, other := range d.users {
		if otherID == id {
			continue
		}
		others = append(others, other)
	}
	d.mu.RUnlock()

	contacts := make([]models.Contact, 0, len(others))
	for _, other := range others {
		contact := models.Contact{
			User:    other,
			Summary: NoConversationSummary,
		}
		if summary, ok := summaries.Summary(id, other.ID); ok {
			contact.Summary = summary.Summary
			contact.LastInteraction = summary.LastUpdated
		}
		contacts = append(contacts, contact)
	}

	sort.Slice(contacts, func(i, j int) bool {
		return contacts[i].User.DisplayName < contacts[j].User.DisplayName
	})

	return contacts, nil
}

func defaultAvatarURL(displayName string) string {
	return fmt.Sprintf("https://ui-avatars.com/api/?name=%s&background=random", url.QueryEscape(displayName))
}
