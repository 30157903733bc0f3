package views

import (
	"context"
	"testing"
	"time"

	"socialbook/app/apptest"
	"socialbook/models"
	"socialbook/nav"
	"socialbook/session"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotificationsView(t *testing.T) {
	b := apptest.New(t)
	ctx := context.Background()
	alice := signedUp(t, b, "alice")
	bob := signedUp(t, b, "bob")
	post := alice.post(t, "hello")
	bob.follow(t, "alice")
	_, err := bob.api().Posts.Like(ctx, post.ID)
	require.NoError(t, err)

	v := NewNotifications(alice.deps)
	v.Mount(ctx)
	st := v.State()
	require.Len(t, st.Items, 2)
	assert.Equal(t, 2, st.Unread)
	assert.Equal(t, []time.Duration{DefaultPollInterval}, alice.sched.Intervals())

	_, err = bob.api().Comments.Create(ctx, post.ID, "nice")
	require.NoError(t, err)
	alice.sched.Tick()
	st = v.State()
	require.Len(t, st.Items, 3)
	assert.Equal(t, 3, st.Unread)

	require.NoError(t, v.MarkRead(ctx, st.Items[0].ID))
	st = v.State()
	assert.Equal(t, 2, st.Unread)
	assert.True(t, st.Items[0].Read)

	require.NoError(t, v.MarkAllRead(ctx))
	st = v.State()
	assert.Zero(t, st.Unread)
	for _, n := range st.Items {
		assert.True(t, n.Read)
	}

	// never below zero
	require.NoError(t, v.MarkRead(ctx, st.Items[1].ID))
	assert.Zero(t, v.State().Unread)

	v.Unmount()
	assert.Zero(t, alice.sched.Len())
}

func TestNotificationsOpen(t *testing.T) {
	b := apptest.New(t)
	ctx := context.Background()
	alice := signedUp(t, b, "alice")
	signedUp(t, b, "bob").follow(t, "alice")

	v := NewNotifications(alice.deps)
	v.Load(ctx)
	st := v.State()
	require.Len(t, st.Items, 1)
	n := st.Items[0]
	assert.Equal(t, models.NotifFollow, n.NotifType)

	v.Open(ctx, n)
	assert.Zero(t, v.State().Unread)
	assert.Equal(t, nav.ProfilePath("bob"), alice.history.Current())

	list, err := alice.api().Notifications.List(ctx)
	require.NoError(t, err)
	assert.True(t, list[0].Read)
}

func TestNotificationsListen(t *testing.T) {
	b := apptest.New(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	alice := signedUp(t, b, "alice")
	bob := signedUp(t, b, "bob")

	v := NewNotifications(alice.deps)
	v.Load(ctx)
	require.NoError(t, v.Listen(ctx))
	assert.Eventually(t, func() bool {
		return b.App.Handler.WS.Connected("alice") == 1
	}, 2*time.Second, 10*time.Millisecond)

	bob.follow(t, "alice")
	assert.Eventually(t, func() bool {
		return v.State().Unread == 1
	}, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, "bob", v.State().Items[0].Actor)
}

func TestNavbar(t *testing.T) {
	b := apptest.New(t)
	ctx := context.Background()
	signedUp(t, b, "alice")
	bob := signedUp(t, b, "bob")

	a := newActor(t, b)
	require.Equal(t, session.Anonymous, a.deps.Session.Init(ctx))
	bar := NewNavbar(a.deps)
	bar.Mount(ctx)
	assert.False(t, bar.Polling())
	assert.Zero(t, a.sched.Len())

	bob.follow(t, "alice")
	require.NoError(t, a.deps.Session.Login(ctx, "alice", "pw-123456"))
	assert.True(t, bar.Polling())
	assert.Equal(t, 1, a.sched.Len())
	assert.Equal(t, 1, bar.Unread())

	post := a.post(t, "hi")
	_, err := bob.api().Posts.Like(ctx, post.ID)
	require.NoError(t, err)
	a.sched.Tick()
	assert.Equal(t, 2, bar.Unread())

	bar.Logout(ctx)
	assert.Equal(t, nav.Login, a.history.Current())
	assert.False(t, a.deps.Session.IsAuthenticated())
	assert.False(t, bar.Polling())
	assert.Zero(t, bar.Unread())
	assert.Zero(t, a.sched.Len())

	bar.Unmount()
	require.NoError(t, a.deps.Session.Login(ctx, "alice", "pw-123456"))
	assert.False(t, bar.Polling())
	assert.Zero(t, a.sched.Len())
}
