package notify

import (
	"testing"

	webpush "github.com/SherClockHolmes/webpush-go"
	"github.com/stretchr/testify/assert"
)

func TestDisabledNotifier(t *testing.T) {
	n := New(Config{})
	assert.False(t, n.Enabled())

	// Everything is a no-op without VAPID keys.
	n.Subscribe("u1", webpush.Subscription{Endpoint: "https://push.example.com/x"})
	n.Push("u1", []byte(`{"type":"new_message"}`))

	_, err := n.subs.Get("u1")
	assert.Error(t, err, "disabled notifier must not store subscriptions")
}

func TestEnabledNotifier_StoresSubscriptions(t *testing.T) {
	priv, pub, err := webpush.GenerateVAPIDKeys()
	assert.NoError(t, err)

	n := New(Config{
		VAPIDPublicKey:  pub,
		VAPIDPrivateKey: priv,
		Subscriber:      "mailto:test@localhost",
	})
	assert.True(t, n.Enabled())

	sub := webpush.Subscription{Endpoint: "https://push.example.com/x"}
	n.Subscribe("u1", sub)

	stored, err := n.subs.Get("u1")
	assert.NoError(t, err)
	assert.Equal(t, sub, stored)

	// Push to a user without a subscription is silently skipped.
	n.Push("u2", []byte("{}"))
}
