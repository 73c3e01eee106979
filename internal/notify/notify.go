// Package notify delivers best-effort web push notifications to users who
// have no live websocket session.
package notify

import (
	"log/slog"

	webpush "github.com/SherClockHolmes/webpush-go"
	"github.com/c-pro/geche"
)

const pushTTL = 60 // seconds

type Config struct {
	// Empty keys disable push entirely; Subscribe and Push become no-ops.
	VAPIDPublicKey  string
	VAPIDPrivateKey string
	Subscriber      string
}

// Notifier holds browser push subscriptions in memory for the process
// lifetime and sends events to them. Failures drop the subscription; there
// are no retries.
type Notifier struct {
	cfg  Config
	subs geche.Geche[string, webpush.Subscription]
}

func New(cfg Config) *Notifier {
	return &Notifier{
		cfg:  cfg,
		subs: geche.NewMapCache[string, webpush.Subscription](),
	}
}

func (n *Notifier) Enabled() bool {
	return n.cfg.VAPIDPublicKey != "" && n.cfg.VAPIDPrivateKey != ""
}

// Subscribe registers the browser push subscription for a user, replacing
// any previous one.
func (n *Notifier) Subscribe(userID string, sub webpush.Subscription) {
	if !n.Enabled() {
		return
	}
	n.subs.Set(userID, sub)
}

// Push sends the payload to the user's subscription, if any. A failed send
// removes the subscription.
func (n *Notifier) Push(userID string, payload []byte) {
	if !n.Enabled() {
		return
	}

	sub, err := n.subs.Get(userID)
	if err != nil {
		return
	}

	resp, err := webpush.SendNotification(payload, &sub, &webpush.Options{
		Subscriber:      n.cfg.Subscriber,
		VAPIDPublicKey:  n.cfg.VAPIDPublicKey,
		VAPIDPrivateKey: n.cfg.VAPIDPrivateKey,
		TTL:             pushTTL,
	})
	if resp != nil {
		_ = resp.Body.Close()
	}
	if err != nil {
		slog.Warn("web push failed, dropping subscription", "user_id", userID, "error", err)
		_ = n.subs.Del(userID)
	}
}
