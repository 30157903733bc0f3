package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"socialbook/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreatePostRequiresImage(t *testing.T) {
	f := newFixture(t)
	alice := f.register(t, "alice")

	_, err := f.posts.Create(context.Background(), alice, "no image", nil)
	assert.ErrorIs(t, err, ErrImageRequired)
}

func TestCreatePostDecorates(t *testing.T) {
	f := newFixture(t)
	alice := f.register(t, "alice")

	post := f.post(t, alice, "hello")
	assert.Equal(t, "alice", post.User)
	assert.True(t, strings.HasPrefix(post.Image, PostImagesDir+"/"))
	assert.Equal(t, "http://testserver/media/"+post.Image, post.ImageURL)
	require.NotNil(t, post.UserProfile)
	assert.Equal(t, "alice", post.UserProfile.Username)
	assert.False(t, post.IsLiked)
	assert.Zero(t, post.NoOfLikes)
}

func TestLikeUnlikeIsIdempotent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.register(t, "alice")
	bob := f.register(t, "bob")
	post := f.post(t, alice, "hello")

	res, created, err := f.posts.Like(ctx, bob, post.ID)
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, models.LikeResult{Status: models.LikeStatusLiked, Likes: 1}, res)

	res, created, err = f.posts.Like(ctx, bob, post.ID)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, 1, res.Likes)

	got, err := f.posts.Get(ctx, bob, post.ID)
	require.NoError(t, err)
	assert.True(t, got.IsLiked)

	res, err = f.posts.Unlike(ctx, bob, post.ID)
	require.NoError(t, err)
	assert.Equal(t, models.LikeResult{Status: models.LikeStatusUnliked, Likes: 0}, res)

	// второй unlike не уводит счетчик в минус
	res, err = f.posts.Unlike(ctx, bob, post.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, res.Likes)
}

func TestLikeNotifiesAuthorButNotSelf(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.register(t, "alice")
	bob := f.register(t, "bob")
	post := f.post(t, alice, "hello")

	_, _, err := f.posts.Like(ctx, alice, post.ID)
	require.NoError(t, err)
	_, _, err = f.posts.Like(ctx, bob, post.ID)
	require.NoError(t, err)

	list, err := f.notifications.List(ctx, alice)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "bob", list[0].Actor)
	assert.Equal(t, models.NotifLike, list[0].NotifType)
	require.NotNil(t, list[0].PostID)
	assert.Equal(t, post.ID, *list[0].PostID)
	assert.Equal(t, "/profile/alice", list[0].URL)
}

func TestDeletePostPermissions(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.register(t, "alice")
	bob := f.register(t, "bob")
	admin := f.register(t, "admin")
	admin.IsSuperuser = true

	first := f.post(t, alice, "one")
	second := f.post(t, alice, "two")
	_, err := f.comments.Create(ctx, bob, first.ID, "nice")
	require.NoError(t, err)

	assert.ErrorIs(t, f.posts.Delete(ctx, bob, first.ID), ErrPermissionDenied)
	require.NoError(t, f.posts.Delete(ctx, alice, first.ID))
	require.NoError(t, f.posts.Delete(ctx, admin, second.ID))
	assert.ErrorIs(t, f.posts.Delete(ctx, alice, first.ID), ErrNotFound)

	comments, err := f.comments.List(ctx, alice, first.ID)
	require.NoError(t, err)
	assert.Empty(t, comments)
}

func TestUpdatePostOwnerOnly(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.register(t, "alice")
	bob := f.register(t, "bob")
	post := f.post(t, alice, "before")

	caption := "after"
	_, err := f.posts.Update(ctx, bob, post.ID, PostChanges{Caption: &caption})
	assert.ErrorIs(t, err, ErrPermissionDenied)

	updated, err := f.posts.Update(ctx, alice, post.ID, PostChanges{Caption: &caption})
	require.NoError(t, err)
	assert.Equal(t, "after", updated.Caption)
	assert.Equal(t, post.Image, updated.Image)
}

func TestFeedFollowsAndBlocks(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	me := f.register(t, "me")
	alice := f.register(t, "alice")
	bob := f.register(t, "bob")
	carol := f.register(t, "carol")

	older := f.post(t, alice, "older")
	newer := f.post(t, alice, "newer")
	bobs := f.post(t, bob, "bob's")
	f.post(t, carol, "not followed")

	base := time.Now().Add(-time.Hour).UTC()
	for i, id := range []string{older.ID, bobs.ID, newer.ID} {
		require.NoError(t, f.db.Write(ctx).Model(&models.Post{}).Where("id = ?", id).
			Update("created_at", base.Add(time.Duration(i)*time.Minute)).Error)
	}

	for _, name := range []string{"alice", "bob"} {
		_, err := f.follows.Toggle(ctx, me, name)
		require.NoError(t, err)
	}

	feed, err := f.posts.Feed(ctx, me)
	require.NoError(t, err)
	ids := make([]string, 0, len(feed))
	for _, p := range feed {
		ids = append(ids, p.ID)
	}
	assert.Equal(t, []string{newer.ID, bobs.ID, older.ID}, ids)

	// bob блокирует меня: его посты пропадают, подписка тоже
	_, err = f.blocks.Toggle(ctx, bob, "me")
	require.NoError(t, err)
	feed, err = f.posts.Feed(ctx, me)
	require.NoError(t, err)
	for _, p := range feed {
		assert.Equal(t, "alice", p.User)
	}
	assert.Len(t, feed, 2)
}

func TestSuggestionsExcludeSelfFollowedAndBlocked(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	me := f.register(t, "me")
	for _, name := range []string{"a1", "a2", "a3", "a4", "a5", "followed", "blocked", "blocker"} {
		f.register(t, name)
	}
	blocker := Viewer{Username: "blocker"}
	_, err := f.follows.Toggle(ctx, me, "followed")
	require.NoError(t, err)
	_, err = f.blocks.Toggle(ctx, me, "blocked")
	require.NoError(t, err)
	_, err = f.blocks.Toggle(ctx, blocker, "me")
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		suggestions, err := f.posts.Suggestions(ctx, me)
		require.NoError(t, err)
		assert.Len(t, suggestions, MaxSuggestions)
		for _, p := range suggestions {
			assert.NotContains(t, []string{"me", "followed", "blocked", "blocker"}, p.Username)
		}
	}
}
