package client_test

import (
	"context"
	"net/http"
	"strings"
	"testing"
	"time"

	"socialbook/app/apptest"
	"socialbook/client"
	"socialbook/models"
	"socialbook/nav"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signup(t *testing.T, b *apptest.Backend, username string) (*client.Client, *nav.History) {
	t.Helper()
	history := nav.NewHistory(nav.Home)
	c, err := client.New(b.URL(), client.WithNavigator(history))
	require.NoError(t, err)
	res, err := c.Auth.Signup(context.Background(), models.SignupRequest{
		Username: username, Email: username + "@example.com", Password: "pw-123456", Password2: "pw-123456",
	})
	require.NoError(t, err)
	require.Equal(t, username, res.User.Username)
	return c, history
}

func upload(name string) client.Upload {
	return client.Upload{Filename: name, Content: strings.NewReader("image-bytes")}
}

func TestAuthAPI(t *testing.T) {
	b := apptest.New(t)
	ctx := context.Background()
	c, history := signup(t, b, "alice")

	info, err := c.Auth.UserInfo(ctx)
	require.NoError(t, err)
	assert.Equal(t, "alice", info.Profile.Username)

	require.NoError(t, c.Auth.Logout(ctx))
	_, err = c.Auth.UserInfo(ctx)
	assert.Equal(t, http.StatusUnauthorized, client.StatusCode(err))
	assert.Equal(t, nav.Login, history.Current())

	_, err = c.Auth.Login(ctx, "alice", "bad")
	assert.Equal(t, "Invalid credentials", client.ErrorMessage(err, "Login failed"))
	res, err := c.Auth.Login(ctx, "alice", "pw-123456")
	require.NoError(t, err)
	assert.Equal(t, "Login successful", res.Message)
}

func TestProfilesAPI(t *testing.T) {
	b := apptest.New(t)
	ctx := context.Background()
	alice, _ := signup(t, b, "alice")
	bob, _ := signup(t, b, "bob")

	me, err := alice.Profiles.Me(ctx)
	require.NoError(t, err)

	updated, err := alice.Profiles.PartialUpdateMe(ctx, client.ProfileUpdate{Bio: client.String("hi"), ProfileImg: &client.Upload{Filename: "me.png", Content: strings.NewReader("x")}})
	require.NoError(t, err)
	assert.Equal(t, "hi", updated.Bio)
	assert.Contains(t, updated.ProfileImgURL, "profile_images/")

	updated, err = alice.Profiles.UpdateMe(ctx, client.ProfileUpdate{Location: client.String("Oslo")})
	require.NoError(t, err)
	assert.Equal(t, "hi", updated.Bio)
	assert.Equal(t, "Oslo", updated.Location)

	_, err = bob.Profiles.PartialUpdate(ctx, me.ID, client.ProfileUpdate{Bio: client.String("x")})
	assert.Equal(t, http.StatusForbidden, client.StatusCode(err))
	_, err = alice.Profiles.Update(ctx, me.ID, client.NewForm().Set("location", "Bergen"))
	require.NoError(t, err)

	got, err := bob.Profiles.Get(ctx, me.ID)
	require.NoError(t, err)
	assert.Equal(t, "Bergen", got.Location)

	found, err := bob.Profiles.List(ctx, "ALI")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "alice", found[0].Username)
}

func TestPostsAndCommentsAPI(t *testing.T) {
	b := apptest.New(t)
	ctx := context.Background()
	alice, _ := signup(t, b, "alice")
	bob, _ := signup(t, b, "bob")

	post, err := alice.Posts.Create(ctx, "sunset", upload("sunset.jpg"))
	require.NoError(t, err)

	like, err := bob.Posts.Like(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, like.Likes)
	got, err := bob.Posts.Get(ctx, post.ID)
	require.NoError(t, err)
	assert.True(t, got.IsLiked)
	like, err = bob.Posts.Unlike(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, like.Likes)

	comment, err := bob.Comments.Create(ctx, post.ID, "wow")
	require.NoError(t, err)
	assert.Equal(t, "bob", comment.User)
	list, err := alice.Comments.List(ctx, post.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	one, err := alice.Comments.Get(ctx, comment.ID)
	require.NoError(t, err)
	assert.Equal(t, "wow", one.Body)
	assert.Equal(t, http.StatusForbidden, client.StatusCode(alice.Comments.Delete(ctx, comment.ID)))
	require.NoError(t, bob.Comments.Delete(ctx, comment.ID))

	edited, err := alice.Posts.PartialUpdate(ctx, post.ID, client.PostUpdate{Caption: client.String("dusk")})
	require.NoError(t, err)
	assert.Equal(t, "dusk", edited.Caption)
	edited, err = alice.Posts.Update(ctx, post.ID, client.PostUpdate{Caption: client.String("night"), Image: &client.Upload{Filename: "n.png", Content: strings.NewReader("n")}})
	require.NoError(t, err)
	assert.Equal(t, "night", edited.Caption)
	assert.NotEqual(t, post.Image, edited.Image)

	mine, err := bob.Posts.List(ctx, "alice")
	require.NoError(t, err)
	assert.Len(t, mine, 1)

	suggestions, err := bob.Posts.Suggestions(ctx)
	require.NoError(t, err)
	require.Len(t, suggestions, 1)
	assert.Equal(t, "alice", suggestions[0].Username)

	require.NoError(t, alice.Posts.Delete(ctx, post.ID))
	all, err := bob.Posts.List(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestFollowersBlocksAndNotificationsAPI(t *testing.T) {
	b := apptest.New(t)
	ctx := context.Background()
	alice, _ := signup(t, b, "alice")
	bob, _ := signup(t, b, "bob")

	res, err := bob.Followers.Toggle(ctx, "alice")
	require.NoError(t, err)
	assert.True(t, res.IsFollowing())
	assert.Equal(t, "alice", res.User)

	followers, err := alice.Followers.Followers(ctx, "")
	require.NoError(t, err)
	require.Len(t, followers, 1)
	following, err := alice.Followers.Following(ctx, "bob")
	require.NoError(t, err)
	require.Len(t, following, 1)
	edges, err := alice.Followers.List(ctx, "alice", "bob")
	require.NoError(t, err)
	assert.Len(t, edges, 1)

	notifs, err := alice.Notifications.List(ctx)
	require.NoError(t, err)
	require.Len(t, notifs, 1)
	n, err := alice.Notifications.Get(ctx, notifs[0].ID)
	require.NoError(t, err)
	assert.False(t, n.Read)
	require.NoError(t, alice.Notifications.MarkRead(ctx, n.ID))
	require.NoError(t, alice.Notifications.MarkAllRead(ctx))

	block, err := alice.Blocks.Toggle(ctx, "bob")
	require.NoError(t, err)
	assert.True(t, block.IsBlocked())
	assert.Equal(t, "bob", block.Block.Blocked)
	edges, err = alice.Followers.List(ctx, "", "")
	require.NoError(t, err)
	assert.Empty(t, edges)

	blocks, err := alice.Blocks.List(ctx)
	require.NoError(t, err)
	require.Len(t, blocks, 1)
	require.NoError(t, alice.Blocks.Delete(ctx, blocks[0].ID))

	res, err = bob.Followers.Toggle(ctx, "alice")
	require.NoError(t, err)
	res, err = bob.Followers.Toggle(ctx, "alice")
	require.NoError(t, err)
	assert.False(t, res.IsFollowing())
}

func TestNotificationStream(t *testing.T) {
	b := apptest.New(t)
	alice, _ := signup(t, b, "alice")
	bob, _ := signup(t, b, "bob")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	events, err := alice.Notifications.Stream(ctx)
	require.NoError(t, err)
	require.Eventually(t, func() bool { return b.App.Handler.WS.Connected("alice") == 1 }, time.Second, 10*time.Millisecond)

	_, err = bob.Followers.Toggle(context.Background(), "alice")
	require.NoError(t, err)

	select {
	case event := <-events:
		assert.Equal(t, "bob", event.Notification.Actor)
		assert.Equal(t, models.NotifFollow, event.Notification.NotifType)
	case <-ctx.Done():
		t.Fatal("no notification pushed")
	}
}
