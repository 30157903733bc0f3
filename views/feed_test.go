package views

import (
	"context"
	"strings"
	"testing"

	"socialbook/app/apptest"
	"socialbook/client"
	"socialbook/models"
	"socialbook/nav"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFeedLoadAndDelete(t *testing.T) {
	b := apptest.New(t)
	ctx := context.Background()
	alice := signedUp(t, b, "alice")
	bob := signedUp(t, b, "bob")
	alice.follow(t, "bob")
	first := bob.post(t, "one")
	second := bob.post(t, "two")
	third := bob.post(t, "three")

	feed := NewFeed(alice.deps)
	assert.True(t, feed.State().Loading)
	require.NoError(t, feed.Load(ctx))
	st := feed.State()
	assert.False(t, st.Loading)
	require.Len(t, st.Posts, 3)
	assert.Equal(t, third.ID, st.Posts[0].ID)

	feed.PostDeleted(second.ID)
	ids := []string{}
	for _, p := range feed.State().Posts {
		ids = append(ids, p.ID)
	}
	assert.Equal(t, []string{third.ID, first.ID}, ids)

	feed.PostDeleted("missing")
	assert.Len(t, feed.State().Posts, 2)

	bob.post(t, "four")
	feed.PostCreated(ctx, nil)
	assert.Len(t, feed.State().Posts, 4)
}

func TestFeedUnauthenticatedGoesToLogin(t *testing.T) {
	b := apptest.New(t)
	a := newActor(t, b)
	feed := NewFeed(a.deps)

	assert.Error(t, feed.Load(context.Background()))
	assert.Equal(t, MsgFeedFailed, feed.State().Error)
	assert.Equal(t, nav.Login, a.history.Current())
}

func TestPostCardLikeToggle(t *testing.T) {
	b := apptest.New(t)
	ctx := context.Background()
	alice := signedUp(t, b, "alice")
	bob := signedUp(t, b, "bob")
	post := bob.post(t, "hello")

	card := NewPostCard(alice.deps, *post, nil, nil)
	card.ToggleLike(ctx)
	st := card.State()
	assert.True(t, st.Post.IsLiked)
	assert.Equal(t, 1, st.Post.NoOfLikes)

	card.ToggleLike(ctx)
	st = card.State()
	assert.False(t, st.Post.IsLiked)
	assert.Equal(t, 0, st.Post.NoOfLikes)

	// the server count wins over the local guess
	_, err := bob.api().Posts.Like(ctx, post.ID)
	require.NoError(t, err)
	card.ToggleLike(ctx)
	st = card.State()
	assert.True(t, st.Post.IsLiked)
	assert.Equal(t, 2, st.Post.NoOfLikes)
}

func TestPostCardLikeRollback(t *testing.T) {
	b := apptest.New(t)
	alice := signedUp(t, b, "alice")

	card := NewPostCard(alice.deps, models.Post{ID: "missing", NoOfLikes: 5}, nil, nil)
	card.ToggleLike(context.Background())
	st := card.State()
	assert.False(t, st.Post.IsLiked)
	assert.Equal(t, 5, st.Post.NoOfLikes)
}

func TestPostCardComments(t *testing.T) {
	b := apptest.New(t)
	ctx := context.Background()
	alice := signedUp(t, b, "alice")
	bob := signedUp(t, b, "bob")
	post := bob.post(t, "hello")
	_, err := bob.api().Comments.Create(ctx, post.ID, "first!")
	require.NoError(t, err)

	updates := 0
	card := NewPostCard(alice.deps, *post, nil, func(context.Context) { updates++ })
	card.ToggleComments(ctx)
	st := card.State()
	assert.True(t, st.ShowComments)
	require.Len(t, st.Comments, 1)
	assert.False(t, card.CanDeleteComment(st.Comments[0]))

	before := alice.requests.Load()
	assert.ErrorIs(t, card.AddComment(ctx, "   "), ErrBlankComment)
	assert.Equal(t, before, alice.requests.Load())

	require.NoError(t, card.AddComment(ctx, "nice"))
	assert.Equal(t, 1, updates)
	st = card.State()
	require.Len(t, st.Comments, 2)
	mine := st.Comments[1]
	assert.Equal(t, "nice", mine.Body)
	assert.Equal(t, "alice", mine.User)
	assert.True(t, card.CanDeleteComment(mine))

	require.NoError(t, card.DeleteComment(ctx, mine.ID))
	st = card.State()
	require.Len(t, st.Comments, 1)
	assert.Equal(t, "first!", st.Comments[0].Body)

	assert.Error(t, card.DeleteComment(ctx, st.Comments[0].ID))
	assert.Len(t, card.State().Comments, 1)

	card.ToggleComments(ctx)
	assert.False(t, card.State().ShowComments)
}

func TestPostCardDelete(t *testing.T) {
	b := apptest.New(t)
	ctx := context.Background()
	alice := signedUp(t, b, "alice")
	bob := signedUp(t, b, "bob")
	mine := alice.post(t, "mine")
	theirs := bob.post(t, "theirs")

	var deleted []string
	onDelete := func(id string) { deleted = append(deleted, id) }

	card := NewPostCard(alice.deps, *theirs, onDelete, nil)
	assert.False(t, card.CanDelete())
	assert.Error(t, card.Delete(ctx))
	assert.Equal(t, MsgPostDeleteFailed, card.State().Error)
	assert.Empty(t, deleted)

	card = NewPostCard(alice.deps, *mine, onDelete, nil)
	assert.True(t, card.CanDelete())
	require.NoError(t, card.Delete(ctx))
	assert.Equal(t, []string{mine.ID}, deleted)
}

func TestSuperuserCanDeleteAnyPost(t *testing.T) {
	b := apptest.New(t)
	ctx := context.Background()
	admin := signedUp(t, b, "admin")
	bob := signedUp(t, b, "bob")
	post := bob.post(t, "theirs")

	require.NoError(t, b.App.DB.Write(ctx).Model(&models.User{}).
		Where("username = ?", "admin").Update("is_superuser", true).Error)
	admin.deps.Session.Init(ctx)

	card := NewPostCard(admin.deps, *post, nil, nil)
	assert.True(t, card.CanDelete())
	require.NoError(t, card.Delete(ctx))
}

func TestCreatePost(t *testing.T) {
	b := apptest.New(t)
	ctx := context.Background()
	alice := signedUp(t, b, "alice")

	var created []*models.Post
	v := NewCreatePost(alice.deps, func(_ context.Context, p *models.Post) { created = append(created, p) })
	v.SetCaption("sunset")

	before := alice.requests.Load()
	_, err := v.Submit(ctx)
	assert.ErrorIs(t, err, ErrImageRequired)
	assert.Equal(t, MsgImageRequired, v.State().Error)
	assert.Equal(t, before, alice.requests.Load())

	v.SetImage(client.Upload{Filename: "s.jpg", Content: strings.NewReader("jpg")})
	alice.offline.Store(true)
	_, err = v.Submit(ctx)
	assert.Error(t, err)
	assert.Equal(t, MsgPostCreateFailed, v.State().Error)
	assert.True(t, v.State().HasImage)
	alice.offline.Store(false)

	v.SetImage(client.Upload{Filename: "s.jpg", Content: strings.NewReader("jpg")})
	post, err := v.Submit(ctx)
	require.NoError(t, err)
	assert.Equal(t, "sunset", post.Caption)
	require.Len(t, created, 1)
	assert.Equal(t, post.ID, created[0].ID)
	st := v.State()
	assert.Empty(t, st.Caption)
	assert.False(t, st.HasImage)
	assert.Empty(t, st.Error)
}

func TestCreatePostRefreshesOwnersFeed(t *testing.T) {
	b := apptest.New(t)
	ctx := context.Background()
	alice := signedUp(t, b, "alice")
	bob := signedUp(t, b, "bob")
	bob.follow(t, "alice")

	feed := NewFeed(bob.deps)
	require.NoError(t, feed.Load(ctx))
	assert.Empty(t, feed.State().Posts)

	alice.post(t, "new")
	v := NewCreatePost(bob.deps, feed.PostCreated)
	v.SetImage(client.Upload{Filename: "x.png", Content: strings.NewReader("png")})
	_, err := v.Submit(ctx)
	require.NoError(t, err)
	assert.Len(t, feed.State().Posts, 1)
}

func TestUserSuggestions(t *testing.T) {
	b := apptest.New(t)
	ctx := context.Background()
	alice := signedUp(t, b, "alice")
	signedUp(t, b, "bob")
	signedUp(t, b, "carol")

	v := NewUserSuggestions(alice.deps)
	assert.False(t, v.Visible())
	v.Load(ctx)
	assert.True(t, v.Visible())
	assert.Len(t, v.State().Profiles, 2)

	v.Follow(ctx, "bob")
	profiles := v.State().Profiles
	require.Len(t, profiles, 1)
	assert.Equal(t, "carol", profiles[0].Username)

	alice.offline.Store(true)
	v.Load(ctx)
	assert.Len(t, v.State().Profiles, 1)
}
