package models

// Event type tags sent over the websocket.
const (
	EventTypeNewMessage         = "new_message"
	EventTypeActivityInvitation = "activity_invitation"
	EventTypeInvitationResponse = "invitation_response"
)

// Event is the envelope for everything pushed to a client. Exactly one of
// the payload fields is set, matching Type.
type Event struct {
	Type       string           `json:"type"`
	Message    *MessageEvent    `json:"message,omitempty"`
	Invitation *InvitationEvent `json:"invitation,omitempty"`
	Response   *ResponseEvent   `json:"response,omitempty"`
}

// MessageEvent carries a new message with the full sender (and recipient,
// if private) records embedded.
type MessageEvent struct {
	ID        string `json:"id"`
	Sender    User   `json:"sender"`
	Recipient *User  `json:"recipient,omitempty"`
	Content   string `json:"content"`
	Rendered  string `json:"rendered"`
	Timestamp int64  `json:"timestamp"`
	IsPublic  bool   `json:"isPublic"`
}

// InvitationEvent notifies a recipient about a new activity invitation.
type InvitationEvent struct {
	ID        string `json:"id"`
	FromUser  User   `json:"fromUser"`
	Activity  string `json:"activity"`
	Note      string `json:"note"`
	Timestamp int64  `json:"timestamp"`
}

// ResponseEvent notifies the original sender about the recipient's answer.
type ResponseEvent struct {
	InvitationID string `json:"invitationId"`
	Activity     string `json:"activity"`
	Accepted     bool   `json:"accepted"`
	Responder    User   `json:"responder"`
}

func NewMessageEvent(msg Message, sender User, recipient *User) Event {
	return Event{
		Type: EventTypeNewMessage,
		Message: &MessageEvent{
			ID:        msg.ID,
			Sender:    sender,
			Recipient: recipient,
			Content:   msg.Content,
			Rendered:  msg.Rendered,
			Timestamp: msg.Timestamp,
			IsPublic:  msg.IsPublic,
		},
	}
}

func NewInvitationEvent(inv ActivityInvitation, from User) Event {
	return Event{
		Type: EventTypeActivityInvitation,
		Invitation: &InvitationEvent{
			ID:        inv.ID,
			FromUser:  from,
			Activity:  inv.Activity,
			Note:      inv.Note,
			Timestamp: inv.Timestamp,
		},
	}
}

func NewResponseEvent(inv ActivityInvitation, responder User) Event {
	return Event{
		Type: EventTypeInvitationResponse,
		Response: &ResponseEvent{
			InvitationID: inv.ID,
			Activity:     inv.Activity,
			Accepted:     inv.Status == InvitationAccepted,
			Responder:    responder,
		},
	}
}
