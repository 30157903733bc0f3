package services

import (
	"context"
	"testing"

	"socialbook/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFollowToggle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.register(t, "alice")
	bob := f.register(t, "bob")

	follow, err := f.follows.Toggle(ctx, alice, "bob")
	require.NoError(t, err)
	require.NotNil(t, follow)
	assert.Equal(t, "alice", follow.Follower)
	assert.Equal(t, "bob", follow.User)
	require.NotNil(t, follow.UserProfile)
	assert.Equal(t, "bob", follow.UserProfile.Username)

	followers, err := f.follows.Followers(ctx, bob, "")
	require.NoError(t, err)
	require.Len(t, followers, 1)
	assert.Equal(t, "alice", followers[0].Follower)

	notifs, err := f.notifications.List(ctx, bob)
	require.NoError(t, err)
	require.Len(t, notifs, 1)
	assert.Equal(t, models.NotifFollow, notifs[0].NotifType)
	assert.Equal(t, "/profile/alice", notifs[0].URL)

	follow, err = f.follows.Toggle(ctx, alice, "bob")
	require.NoError(t, err)
	assert.Nil(t, follow)
	following, err := f.follows.Following(ctx, alice, "alice")
	require.NoError(t, err)
	assert.Empty(t, following)
}

func TestFollowValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.register(t, "alice")

	_, err := f.follows.Toggle(ctx, alice, "")
	assert.ErrorIs(t, err, ErrFollowUserRequired)
	_, err = f.follows.Toggle(ctx, alice, "alice")
	assert.ErrorIs(t, err, ErrFollowSelf)
	_, err = f.follows.Toggle(ctx, alice, "ghost")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestBlockToggleRemovesFollowsBothWays(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.register(t, "alice")
	bob := f.register(t, "bob")

	_, err := f.follows.Toggle(ctx, alice, "bob")
	require.NoError(t, err)
	_, err = f.follows.Toggle(ctx, bob, "alice")
	require.NoError(t, err)

	block, err := f.blocks.Toggle(ctx, alice, "bob")
	require.NoError(t, err)
	require.NotNil(t, block)
	assert.Equal(t, "bob", block.Blocked)
	require.NotNil(t, block.BlockedProfile)

	all, err := f.follows.List(ctx, alice, "", "")
	require.NoError(t, err)
	assert.Empty(t, all)

	blocks, err := f.blocks.List(ctx, alice)
	require.NoError(t, err)
	require.Len(t, blocks, 1)
	others, err := f.blocks.List(ctx, bob)
	require.NoError(t, err)
	assert.Empty(t, others)

	block, err = f.blocks.Toggle(ctx, alice, "bob")
	require.NoError(t, err)
	assert.Nil(t, block)
	blocks, err = f.blocks.List(ctx, alice)
	require.NoError(t, err)
	assert.Empty(t, blocks)
}

func TestBlockCreateAndDelete(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.register(t, "alice")
	bob := f.register(t, "bob")

	_, err := f.blocks.Create(ctx, alice, "alice")
	assert.ErrorIs(t, err, ErrBlockSelf)
	_, err = f.blocks.Create(ctx, alice, "")
	assert.ErrorIs(t, err, ErrBlockedRequired)

	block, err := f.blocks.Create(ctx, alice, "bob")
	require.NoError(t, err)
	_, err = f.blocks.Create(ctx, alice, "bob")
	assert.ErrorIs(t, err, ErrInvalidInput)

	assert.ErrorIs(t, f.blocks.Delete(ctx, bob, block.ID), ErrNotFound)
	require.NoError(t, f.blocks.Delete(ctx, alice, block.ID))
}

func TestCommentsLifecycle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.register(t, "alice")
	bob := f.register(t, "bob")
	post := f.post(t, alice, "hello")

	_, err := f.comments.Create(ctx, bob, post.ID, "   ")
	assert.ErrorIs(t, err, ErrCommentBodyEmpty)
	_, err = f.comments.Create(ctx, bob, "missing", "hi")
	assert.ErrorIs(t, err, ErrInvalidInput)

	first, err := f.comments.Create(ctx, bob, post.ID, "first")
	require.NoError(t, err)
	_, err = f.comments.Create(ctx, alice, post.ID, "second")
	require.NoError(t, err)

	list, err := f.comments.List(ctx, alice, post.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "first", list[0].Body)
	require.NotNil(t, list[0].UserProfile)
	assert.Equal(t, "bob", list[0].UserProfile.Username)

	got, err := f.posts.Get(ctx, alice, post.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, got.CommentsCount)

	// только комментарий bob порождает уведомление
	notifs, err := f.notifications.List(ctx, alice)
	require.NoError(t, err)
	require.Len(t, notifs, 1)
	assert.Equal(t, models.NotifComment, notifs[0].NotifType)

	assert.ErrorIs(t, f.comments.Delete(ctx, alice, first.ID), ErrPermissionDenied)
	require.NoError(t, f.comments.Delete(ctx, bob, first.ID))
	_, err = f.comments.Get(ctx, bob, first.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}
