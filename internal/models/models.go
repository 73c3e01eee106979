package models

import "errors"

var (
	ErrNotFound        = errors.New("not found")
	ErrInvalidActivity = errors.New("invalid activity")
	ErrSameSide        = errors.New("users are on the same chat side")
	ErrForbidden       = errors.New("forbidden")
	ErrAlreadyResolved = errors.New("invitation already resolved")
)

// ChatSide is one of the two mirrored chat windows a user belongs to.
// Assigned at registration and never changes.
type ChatSide string

const (
	SideChatWithMe ChatSide = "chatwithme"
	SideBeloved    ChatSide = "towhomilovethemost"
)

// User represents a registered user.
type User struct {
	ID          string   `json:"id"`
	DisplayName string   `json:"displayName"`
	AvatarURL   string   `json:"avatarUrl"`
	ChatSide    ChatSide `json:"chatSide"`
	Active      bool     `json:"active"`
}

const (
	RoomPlayground = "playground"
	RoomPrivate    = "private"
)

// Message is a single chat message. Immutable after creation.
type Message struct {
	ID          string `json:"id"`
	SenderID    string `json:"senderId"`
	RecipientID string `json:"recipientId,omitempty"` // empty for public messages
	Content     string `json:"content"`
	Rendered    string `json:"rendered"` // sanitized HTML rendering of Content
	Timestamp   int64  `json:"timestamp"`
	IsPublic    bool   `json:"isPublic"`
	Room        string `json:"room"`
}

type InvitationStatus string

const (
	InvitationPending  InvitationStatus = "pending"
	InvitationAccepted InvitationStatus = "accepted"
	InvitationDeclined InvitationStatus = "declined"
)

// ActivityInvitation is an invite from one chat side to the other.
// Status is the only mutable field and moves from pending to a terminal
// state exactly once.
type ActivityInvitation struct {
	ID         string           `json:"id"`
	FromUserID string           `json:"fromUserId"`
	ToUserID   string           `json:"toUserId"`
	Activity   string           `json:"activity"`
	Note       string           `json:"note"`
	Status     InvitationStatus `json:"status"`
	Timestamp  int64            `json:"timestamp"`
}

// ConversationSummary describes the private conversation between two
// users. Keyed by the canonical pair key regardless of argument order.
type ConversationSummary struct {
	UserID      string `json:"userId"`
	OtherUserID string `json:"otherUserId"`
	Summary     string `json:"summary"`
	LastUpdated int64  `json:"lastUpdated"`
}

// Contact is one row of a user's contact list: another user plus the
// pair's conversation summary, if any.
type Contact struct {
	User            User   `json:"user"`
	Summary         string `json:"summary"`
	LastInteraction int64  `json:"lastInteraction,omitempty"`
}
