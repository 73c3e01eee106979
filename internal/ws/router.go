package ws

import (
	"encoding/json"
	"log/slog"

	"chatwithme/internal/models"
)

// Notifier delivers a payload to a user with no live session. Best-effort.
type Notifier interface {
	Push(userID string, payload []byte)
}

// Router translates domain events into {targets, payload} pairs and hands
// them to the delivery engine. All routing is fire-and-forget relative to
// the request that triggered it.
type Router struct {
	users    userDirectory
	registry *Registry
	notify   Notifier
}

func NewRouter(users userDirectory, registry *Registry, notify Notifier) *Router {
	return &Router{
		users:    users,
		registry: registry,
		notify:   notify,
	}
}

// MessageCreated routes a freshly recorded message: public messages go to
// every bound session, private ones to exactly the sender and recipient
// (both receive their own echo). An offline private recipient gets a web
// push instead.
func (rt *Router) MessageCreated(msg models.Message) {
	sender, err := rt.users.Get(msg.SenderID)
	if err != nil {
		slog.Warn("routing message for unknown sender", "sender_id", msg.SenderID)
		return
	}

	var recipient *models.User
	if msg.RecipientID != "" {
		if u, err := rt.users.Get(msg.RecipientID); err == nil {
			recipient = &u
		}
	}

	event := models.NewMessageEvent(msg, sender, recipient)

	if msg.IsPublic {
		rt.registry.Broadcast(event)
		return
	}

	targets := []string{msg.SenderID}
	if msg.RecipientID != "" {
		targets = append(targets, msg.RecipientID)
	}

	missed := rt.registry.Send(event, targets...)
	for _, id := range missed {
		if id != msg.SenderID {
			rt.pushOffline(id, event)
		}
	}
}

// InvitationCreated routes a new invitation to its recipient only.
func (rt *Router) InvitationCreated(inv models.ActivityInvitation) {
	from, err := rt.users.Get(inv.FromUserID)
	if err != nil {
		slog.Warn("routing invitation for unknown sender", "from_user_id", inv.FromUserID)
		return
	}

	event := models.NewInvitationEvent(inv, from)
	for _, id := range rt.registry.Send(event, inv.ToUserID) {
		rt.pushOffline(id, event)
	}
}

// InvitationResponded routes the response back to the original sender.
func (rt *Router) InvitationResponded(inv models.ActivityInvitation) {
	responder, err := rt.users.Get(inv.ToUserID)
	if err != nil {
		slog.Warn("routing response for unknown responder", "to_user_id", inv.ToUserID)
		return
	}

	event := models.NewResponseEvent(inv, responder)
	for _, id := range rt.registry.Send(event, inv.FromUserID) {
		rt.pushOffline(id, event)
	}
}

func (rt *Router) pushOffline(userID string, event models.Event) {
	if rt.notify == nil {
		return
	}
	payload, err := json.Marshal(event)
	if err != nil {
		slog.Error("failed to marshal event for push", "error", err)
		return
	}
	rt.notify.Push(userID, payload)
}
