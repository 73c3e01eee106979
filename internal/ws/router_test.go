package ws

import (
	"sync"
	"testing"

	"chatwithme/internal/models"
)

type mockNotifier struct {
	mu     sync.Mutex
	pushed map[string][][]byte
}

func newMockNotifier() *mockNotifier {
	return &mockNotifier{pushed: make(map[string][][]byte)}
}

func (m *mockNotifier) Push(userID string, payload []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pushed[userID] = append(m.pushed[userID], payload)
}

func (m *mockNotifier) pushCount(userID string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.pushed[userID])
}

func routerFixture(ids ...string) (*Router, *Registry, *mockNotifier, *mockDirectory) {
	dir := newMockDirectory(ids...)
	reg := NewRegistry(dir)
	notifier := newMockNotifier()
	return NewRouter(dir, reg, notifier), reg, notifier, dir
}

func TestRouter_PublicMessageBroadcasts(t *testing.T) {
	rt, reg, _, _ := routerFixture("u1", "u2", "u3")

	c1, c2, c3 := &mockConn{}, &mockConn{}, &mockConn{}
	mustBind(t, reg, "u1", c1)
	mustBind(t, reg, "u2", c2)
	mustBind(t, reg, "u3", c3)

	rt.MessageCreated(models.Message{ID: "m1", SenderID: "u1", Content: "hi", IsPublic: true})

	for i, c := range []*mockConn{c1, c2, c3} {
		if c.writtenCount() != 1 {
			t.Errorf("conn %d received %d events, want 1", i, c.writtenCount())
			continue
		}
		event, ok := c.written[0].(models.Event)
		if !ok {
			t.Fatalf("conn %d received %T, want models.Event", i, c.written[0])
		}
		if event.Type != models.EventTypeNewMessage {
			t.Errorf("event type = %s, want %s", event.Type, models.EventTypeNewMessage)
		}
		if event.Message == nil || event.Message.Sender.ID != "u1" {
			t.Error("event missing embedded sender record")
		}
	}
}

func TestRouter_PrivateMessageTargetsPairOnly(t *testing.T) {
	rt, reg, _, _ := routerFixture("u1", "u2", "u3")

	c1, c2, c3 := &mockConn{}, &mockConn{}, &mockConn{}
	mustBind(t, reg, "u1", c1)
	mustBind(t, reg, "u2", c2)
	mustBind(t, reg, "u3", c3)

	rt.MessageCreated(models.Message{ID: "m1", SenderID: "u1", RecipientID: "u2", Content: "psst"})

	// Both participants get their own echo.
	if c1.writtenCount() != 1 {
		t.Errorf("sender received %d events, want 1", c1.writtenCount())
	}
	if c2.writtenCount() != 1 {
		t.Errorf("recipient received %d events, want 1", c2.writtenCount())
	}
	if c3.writtenCount() != 0 {
		t.Errorf("bystander received %d events, want 0", c3.writtenCount())
	}

	event := c2.written[0].(models.Event)
	if event.Message == nil || event.Message.Recipient == nil || event.Message.Recipient.ID != "u2" {
		t.Error("private event missing embedded recipient record")
	}
}

func TestRouter_OfflineRecipientGetsWebPush(t *testing.T) {
	rt, reg, notifier, _ := routerFixture("u1", "u2")

	c1 := &mockConn{}
	mustBind(t, reg, "u1", c1)

	rt.MessageCreated(models.Message{ID: "m1", SenderID: "u1", RecipientID: "u2", Content: "psst"})

	if notifier.pushCount("u2") != 1 {
		t.Errorf("offline recipient got %d pushes, want 1", notifier.pushCount("u2"))
	}
	// The sender being offline is not push-worthy; it was their request.
	if notifier.pushCount("u1") != 0 {
		t.Errorf("sender got %d pushes, want 0", notifier.pushCount("u1"))
	}
}

func TestRouter_InvitationTargetsRecipient(t *testing.T) {
	rt, reg, notifier, _ := routerFixture("u1", "u2")

	c2 := &mockConn{}
	mustBind(t, reg, "u2", c2)

	rt.InvitationCreated(models.ActivityInvitation{
		ID:         "i1",
		FromUserID: "u1",
		ToUserID:   "u2",
		Activity:   "Chess",
		Status:     models.InvitationPending,
	})

	if c2.writtenCount() != 1 {
		t.Fatalf("recipient received %d events, want 1", c2.writtenCount())
	}
	event := c2.written[0].(models.Event)
	if event.Type != models.EventTypeActivityInvitation {
		t.Errorf("event type = %s, want %s", event.Type, models.EventTypeActivityInvitation)
	}
	if event.Invitation == nil || event.Invitation.FromUser.ID != "u1" {
		t.Error("invitation event missing embedded sender record")
	}
	if notifier.pushCount("u2") != 0 {
		t.Error("online recipient should not get a web push")
	}
}

func TestRouter_ResponseTargetsOriginalSender(t *testing.T) {
	rt, reg, notifier, _ := routerFixture("u1", "u2")

	// Original sender is offline: response falls through to web push.
	rt.InvitationResponded(models.ActivityInvitation{
		ID:         "i1",
		FromUserID: "u1",
		ToUserID:   "u2",
		Activity:   "Chess",
		Status:     models.InvitationAccepted,
	})

	if notifier.pushCount("u1") != 1 {
		t.Errorf("offline sender got %d pushes, want 1", notifier.pushCount("u1"))
	}

	// Now online: delivered over the session instead.
	c1 := &mockConn{}
	mustBind(t, reg, "u1", c1)

	rt.InvitationResponded(models.ActivityInvitation{
		ID:         "i1",
		FromUserID: "u1",
		ToUserID:   "u2",
		Activity:   "Chess",
		Status:     models.InvitationDeclined,
	})

	if c1.writtenCount() != 1 {
		t.Fatalf("sender received %d events, want 1", c1.writtenCount())
	}
	event := c1.written[0].(models.Event)
	if event.Response == nil || event.Response.Accepted {
		t.Error("response event should carry accepted=false")
	}
	if event.Response != nil && event.Response.Responder.ID != "u2" {
		t.Error("response event missing embedded responder record")
	}
}
