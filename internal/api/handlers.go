package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"

	"chatwithme/internal/content"
	"chatwithme/internal/directory"
	"chatwithme/internal/filestore"
	"chatwithme/internal/ledger"
	"chatwithme/internal/models"
	"chatwithme/internal/notify"
	"chatwithme/internal/ws"

	webpush "github.com/SherClockHolmes/webpush-go"
)

type API struct {
	users    *directory.Directory
	ledger   *ledger.Ledger
	router   *ws.Router
	notifier *notify.Notifier
	avatars  filestore.Store

	baseURL        string
	historyLimit   int
	avatarMaxBytes int64
}

type Config struct {
	BaseURL        string
	HistoryLimit   int
	AvatarMaxBytes int64
}

func New(users *directory.Directory, lg *ledger.Ledger, router *ws.Router, notifier *notify.Notifier, avatars filestore.Store, cfg Config) *API {
	return &API{
		users:          users,
		ledger:         lg,
		router:         router,
		notifier:       notifier,
		avatars:        avatars,
		baseURL:        cfg.BaseURL,
		historyLimit:   cfg.HistoryLimit,
		avatarMaxBytes: cfg.AvatarMaxBytes,
	}
}

// writeError maps each domain error kind to its own status signal.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, models.ErrNotFound):
		http.Error(w, "Not found", http.StatusNotFound)
	case errors.Is(err, models.ErrForbidden):
		http.Error(w, "Not authorized", http.StatusForbidden)
	case errors.Is(err, models.ErrAlreadyResolved):
		http.Error(w, "Invitation already resolved", http.StatusConflict)
	case errors.Is(err, models.ErrInvalidActivity):
		http.Error(w, "Invalid activity", http.StatusBadRequest)
	case errors.Is(err, models.ErrSameSide):
		http.Error(w, "Can only invite users from the opposite chat", http.StatusBadRequest)
	default:
		http.Error(w, "Internal error", http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("failed to encode response: %v", err)
	}
}

// CreateUserHandler registers a new user and assigns a chat side.
func (a *API) CreateUserHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username  string `json:"username"`
		AvatarURL string `json:"avatarUrl"`
	}

	// Support both JSON and Form (the frontend uses x-www-form-urlencoded)
	if r.Header.Get("Content-Type") == "application/json" {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}
	} else {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Failed to parse form", http.StatusBadRequest)
			return
		}
		req.Username = r.FormValue("username")
		req.AvatarURL = r.FormValue("avatar_url")
	}

	if err := content.ValidateDisplayName(req.Username); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	user := a.users.Register(req.Username, req.AvatarURL)

	writeJSON(w, map[string]any{
		"user":    user,
		"message": fmt.Sprintf("User created and assigned to %s", user.ChatSide),
	})
}

func (a *API) GetUserHandler(w http.ResponseWriter, r *http.Request) {
	user, err := a.users.Get(r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, user)
}

func (a *API) ListUsersHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, a.users.ListAll())
}

func (a *API) ContactsHandler(w http.ResponseWriter, r *http.Request) {
	contacts, err := a.users.ListContacts(r.PathValue("id"), a.ledger)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, contacts)
}

// SendMessageHandler records a message and hands it to the router. The
// response does not wait for delivery; the push is fire-and-forget.
func (a *API) SendMessageHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		SenderID    string `json:"senderId"`
		RecipientID string `json:"recipientId"`
		Content     string `json:"content"`
		IsPublic    *bool  `json:"isPublic"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if req.Content == "" {
		http.Error(w, "Message content cannot be empty", http.StatusBadRequest)
		return
	}

	isPublic := true
	if req.IsPublic != nil {
		isPublic = *req.IsPublic
	}

	msg, err := a.ledger.AppendMessage(req.SenderID, req.RecipientID, req.Content, isPublic)
	if err != nil {
		writeError(w, err)
		return
	}

	go a.router.MessageCreated(msg)

	writeJSON(w, map[string]any{
		"message":   "Message sent successfully",
		"messageId": msg.ID,
	})
}

// PublicMessagesHandler returns recent playground messages, oldest first,
// with sender records embedded.
func (a *API) PublicMessagesHandler(w http.ResponseWriter, r *http.Request) {
	limit := a.historyLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			http.Error(w, "Invalid limit", http.StatusBadRequest)
			return
		}
		limit = n
	}

	messages := a.ledger.ListPublic(limit)

	enriched := make([]models.MessageEvent, 0, len(messages))
	for _, msg := range messages {
		sender, err := a.users.Get(msg.SenderID)
		if err != nil {
			continue
		}
		enriched = append(enriched, models.MessageEvent{
			ID:        msg.ID,
			Sender:    sender,
			Content:   msg.Content,
			Rendered:  msg.Rendered,
			Timestamp: msg.Timestamp,
			IsPublic:  msg.IsPublic,
		})
	}

	writeJSON(w, enriched)
}

func (a *API) ActivitiesHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]any{"activities": ledger.Activities()})
}

func (a *API) InviteHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		FromUserID string `json:"fromUserId"`
		ToUserID   string `json:"toUserId"`
		Activity   string `json:"activity"`
		Note       string `json:"note"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	inv, err := a.ledger.CreateInvitation(req.FromUserID, req.ToUserID, req.Activity, req.Note)
	if err != nil {
		writeError(w, err)
		return
	}

	go a.router.InvitationCreated(inv)

	writeJSON(w, map[string]any{
		"message":      "Activity invitation sent",
		"invitationId": inv.ID,
	})
}

func (a *API) RespondHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserID string `json:"userId"`
		Accept bool   `json:"accept"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	inv, err := a.ledger.Respond(r.PathValue("id"), req.UserID, req.Accept)
	if err != nil {
		writeError(w, err)
		return
	}

	go a.router.InvitationResponded(inv)

	verdict := "declined"
	if inv.Status == models.InvitationAccepted {
		verdict = "accepted"
	}

	writeJSON(w, map[string]any{
		"message":    fmt.Sprintf("Invitation %s", verdict),
		"invitation": inv,
	})
}

// SubscribeHandler stores a browser push subscription for offline
// notification delivery.
func (a *API) SubscribeHandler(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("id")
	if _, err := a.users.Get(userID); err != nil {
		writeError(w, err)
		return
	}

	var sub webpush.Subscription
	if err := json.NewDecoder(r.Body).Decode(&sub); err != nil || sub.Endpoint == "" {
		http.Error(w, "Invalid subscription", http.StatusBadRequest)
		return
	}

	a.notifier.Subscribe(userID, sub)
	w.WriteHeader(http.StatusNoContent)
}
