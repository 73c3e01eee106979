package directory

import (
	"fmt"
	"testing"

	"chatwithme/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubSummaries map[string]models.ConversationSummary

func (s stubSummaries) Summary(a, b string) (models.ConversationSummary, bool) {
	if b < a {
		a, b = b, a
	}
	summary, ok := s[a+"_"+b]
	return summary, ok
}

func TestRegister_SideAlternation(t *testing.T) {
	d := New()

	for i := 0; i < 10; i++ {
		user := d.Register(fmt.Sprintf("user%d", i), "")

		want := models.SideChatWithMe
		if i%2 == 1 {
			want = models.SideBeloved
		}
		assert.Equal(t, want, user.ChatSide, "registration %d", i)
	}
}

func TestRegister_Defaults(t *testing.T) {
	d := New()

	user := d.Register("Alice Smith", "")
	require.NotEmpty(t, user.ID)
	assert.True(t, user.Active)
	assert.Equal(t, "https://ui-avatars.com/api/?name=Alice+Smith&background=random", user.AvatarURL)

	custom := d.Register("Bob", "https://example.com/bob.png")
	assert.Equal(t, "https://example.com/bob.png", custom.AvatarURL)

	// Fresh identifiers every time
	assert.NotEqual(t, user.ID, custom.ID)
}

func TestRegister_SanitizesDisplayName(t *testing.T) {
	d := New()

	user := d.Register("<script>alert(1)</script>Eve", "x")
	assert.Equal(t, "Eve", user.DisplayName)
}

func TestGet(t *testing.T) {
	d := New()
	user := d.Register("Alice", "")

	got, err := d.Get(user.ID)
	require.NoError(t, err)
	assert.Equal(t, user, got)

	_, err = d.Get("nope")
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestSetActive(t *testing.T) {
	d := New()
	user := d.Register("Alice", "")

	d.SetActive(user.ID, false)
	got, err := d.Get(user.ID)
	require.NoError(t, err)
	assert.False(t, got.Active)

	// Unknown ids are a no-op
	d.SetActive("nope", true)
}

func TestSetAvatarURL(t *testing.T) {
	d := New()
	user := d.Register("Alice", "")

	require.NoError(t, d.SetAvatarURL(user.ID, "http://localhost/avatars/abc"))
	got, err := d.Get(user.ID)
	require.NoError(t, err)
	assert.Equal(t, "http://localhost/avatars/abc", got.AvatarURL)

	assert.ErrorIs(t, d.SetAvatarURL("nope", "x"), models.ErrNotFound)
}

func TestListContacts(t *testing.T) {
	d := New()
	alice := d.Register("Alice", "")
	bob := d.Register("Bob", "")
	carol := d.Register("Carol", "")

	key := alice.ID + "_" + bob.ID
	if bob.ID < alice.ID {
		key = bob.ID + "_" + alice.ID
	}
	summaries := stubSummaries{
		key: {
			UserID:      alice.ID,
			OtherUserID: bob.ID,
			Summary:     "You made plans together",
			LastUpdated: 1700000000,
		},
	}

	contacts, err := d.ListContacts(alice.ID, summaries)
	require.NoError(t, err)
	require.Len(t, contacts, 2)

	// Sorted by display name: Bob then Carol
	assert.Equal(t, bob.ID, contacts[0].User.ID)
	assert.Equal(t, "You made plans together", contacts[0].Summary)
	assert.EqualValues(t, 1700000000, contacts[0].LastInteraction)

	assert.Equal(t, carol.ID, contacts[1].User.ID)
	assert.Equal(t, NoConversationSummary, contacts[1].Summary)
	assert.Zero(t, contacts[1].LastInteraction)

	_, err = d.ListContacts("nope", summaries)
	assert.ErrorIs(t, err, models.ErrNotFound)
}
