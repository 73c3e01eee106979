package ws

import (
	"log/slog"
	"sync"

	"chatwithme/internal/models"
)

type userDirectory interface {
	Get(id string) (models.User, error)
	SetActive(id string, active bool)
}

// Registry maps user identifiers to their live push connection. Each user
// has at most one session; a reconnect replaces the previous handle after
// telling it goodbye.
type Registry struct {
	users userDirectory

	mu       sync.RWMutex
	sessions map[string]Conn
}

func NewRegistry(users userDirectory) *Registry {
	return &Registry{
		users:    users,
		sessions: make(map[string]Conn),
	}
}

// Bind stores the connection handle for a registered user. Connections for
// unknown users are refused: closed with CloseUnknownUser before any
// receive loop runs. A prior handle for the same user is sent a close
// frame and dropped (last connect wins).
func (r *Registry) Bind(userID string, conn Conn) error {
	if _, err := r.users.Get(userID); err != nil {
		_ = conn.WriteClose(CloseUnknownUser, "unknown user")
		_ = conn.Close()
		return models.ErrNotFound
	}

	r.mu.Lock()
	old, replaced := r.sessions[userID]
	r.sessions[userID] = conn
	r.mu.Unlock()

	if replaced {
		_ = old.WriteClose(CloseSuperseded, "superseded by a new connection")
		_ = old.Close()
		slog.Debug("session replaced", "user_id", userID)
	}

	r.users.SetActive(userID, true)
	return nil
}

// Unbind removes the session mapping if present and flips the user's
// liveness flag. Safe to call repeatedly.
func (r *Registry) Unbind(userID string) {
	r.mu.Lock()
	delete(r.sessions, userID)
	r.mu.Unlock()

	r.users.SetActive(userID, false)
}

// UnbindConn removes the mapping only if it still points at conn. A
// superseded connection's cleanup must not tear down the session that
// replaced it.
func (r *Registry) UnbindConn(userID string, conn Conn) {
	r.mu.Lock()
	current, ok := r.sessions[userID]
	if !ok || current != conn {
		r.mu.Unlock()
		return
	}
	delete(r.sessions, userID)
	r.mu.Unlock()

	r.users.SetActive(userID, false)
}

func (r *Registry) Get(userID string) (Conn, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	conn, ok := r.sessions[userID]
	return conn, ok
}

// Broadcast pushes the event to every bound session. Delivery is
// best-effort: failed targets are pruned from the registry and do not
// affect the rest.
func (r *Registry) Broadcast(event any) {
	r.mu.RLock()
	targets := make(map[string]Conn, len(r.sessions))
	for id, conn := range r.sessions {
		targets[id] = conn
	}
	r.mu.RUnlock()

	r.deliver(event, targets)
}

// Send pushes the event to the given users only. Users without a bound
// session are returned in missed so the caller can fall back to an
// offline notification.
func (r *Registry) Send(event any, userIDs ...string) (missed []string) {
	targets := make(map[string]Conn, len(userIDs))

	r.mu.RLock()
	for _, id := range userIDs {
		if conn, ok := r.sessions[id]; ok {
			targets[id] = conn
		} else {
			missed = append(missed, id)
		}
	}
	r.mu.RUnlock()

	r.deliver(event, targets)
	return missed
}

// deliver fans out sends concurrently over a snapshot of targets, then
// prunes the sessions that failed. One dead target never blocks or fails
// the others.
func (r *Registry) deliver(event any, targets map[string]Conn) {
	var (
		mu     sync.Mutex
		failed []string
	)

	var wg sync.WaitGroup
	for id, conn := range targets {
		wg.Go(func() {
			if err := conn.WriteJSON(event); err != nil {
				slog.Warn("push failed, pruning session", "user_id", id, "error", err)
				mu.Lock()
				failed = append(failed, id)
				mu.Unlock()
			}
		})
	}
	wg.Wait()

	for _, id := range failed {
		r.UnbindConn(id, targets[id])
		_ = targets[id].Close()
	}
}
