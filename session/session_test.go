package session

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"sync/atomic"
	"testing"

	"socialbook/app/apptest"
	"socialbook/client"
	"socialbook/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSession(t *testing.T, b *apptest.Backend, opts ...client.Option) *Session {
	t.Helper()
	api, err := client.New(b.URL(), opts...)
	require.NoError(t, err)
	return New(api)
}

func form(username string) SignupForm {
	return SignupForm{
		Username:  username,
		Email:     username + "@example.com",
		Password:  "pw-123456",
		Password2: "pw-123456",
	}
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "unknown", Unknown.String())
	assert.Equal(t, "authenticated", Authenticated.String())
	assert.Equal(t, "anonymous", Anonymous.String())
}

func TestInitAnonymous(t *testing.T) {
	b := apptest.New(t)
	s := newSession(t, b)
	assert.Equal(t, Unknown, s.State())

	assert.Equal(t, Anonymous, s.Init(context.Background()))
	assert.False(t, s.IsAuthenticated())
	assert.Nil(t, s.User())
	assert.Nil(t, s.Profile())
}

func TestSignupLoginLogout(t *testing.T) {
	b := apptest.New(t)
	ctx := context.Background()
	s := newSession(t, b)

	var changes []State
	unsubscribe := s.OnChange(func(st State) { changes = append(changes, st) })

	require.NoError(t, s.Signup(ctx, form("alice")))
	assert.True(t, s.IsAuthenticated())
	assert.Equal(t, "alice", s.User().Username)
	assert.Equal(t, "alice", s.Profile().Username)
	assert.True(t, s.IsOwner("alice"))
	assert.False(t, s.IsOwner("bob"))

	// cookie survives, a fresh Init sees the same user
	assert.Equal(t, Authenticated, s.Init(ctx))

	s.Logout(ctx)
	assert.Equal(t, Anonymous, s.State())
	assert.Nil(t, s.User())
	assert.False(t, s.IsOwner(""))

	err := s.Login(ctx, "alice", "wrong")
	var serr *Error
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, "Invalid credentials", serr.Message)
	assert.Equal(t, http.StatusUnauthorized, client.StatusCode(err))

	require.NoError(t, s.Login(ctx, "alice", "pw-123456"))
	assert.True(t, s.IsAuthenticated())

	unsubscribe()
	s.Logout(ctx)
	assert.Equal(t, []State{Authenticated, Authenticated, Anonymous, Anonymous, Authenticated}, changes)
}

func TestSignupValidatesLocally(t *testing.T) {
	b := apptest.New(t)
	var requests int32
	s := newSession(t, b, client.WithRequestInterceptor(func(*http.Request) error {
		atomic.AddInt32(&requests, 1)
		return nil
	}))
	ctx := context.Background()

	f := form("alice")
	f.Password2 = "other"
	err := s.Signup(ctx, f)
	assert.ErrorIs(t, err, ErrPasswordMismatch)
	assert.Equal(t, "Passwords do not match", err.Error())

	f = form("alice")
	f.Password2 = ""
	assert.ErrorIs(t, s.Signup(ctx, f), ErrPasswordMismatch)

	f = form("alice")
	f.Username = ""
	assert.ErrorIs(t, s.Signup(ctx, f), ErrFieldsRequired)

	f = form("alice")
	f.Email = "not-an-email"
	assert.ErrorIs(t, s.Signup(ctx, f), ErrInvalidEmail)

	assert.Zero(t, atomic.LoadInt32(&requests))
	assert.Equal(t, Unknown, s.State())
}

func TestFailedLoginKeepsIdentity(t *testing.T) {
	b := apptest.New(t)
	ctx := context.Background()
	s := newSession(t, b)
	require.NoError(t, s.Signup(ctx, form("alice")))

	var changes []State
	s.OnChange(func(st State) { changes = append(changes, st) })

	err := s.Login(ctx, "alice", "wrong")
	var serr *Error
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, "Invalid credentials", serr.Message)
	assert.Equal(t, Authenticated, s.State())
	assert.Equal(t, "alice", s.User().Username)
	assert.Equal(t, "alice", s.Profile().Username)
	assert.Empty(t, changes)
}

func TestSignupServerError(t *testing.T) {
	b := apptest.New(t)
	ctx := context.Background()
	require.NoError(t, newSession(t, b).Signup(ctx, form("alice")))

	s := newSession(t, b)
	err := s.Signup(ctx, form("alice"))
	var serr *Error
	require.ErrorAs(t, err, &serr)
	assert.NotEmpty(t, serr.Message)
	assert.Equal(t, http.StatusBadRequest, client.StatusCode(err))
	assert.Equal(t, Anonymous, s.State())
}

func TestUpdateProfile(t *testing.T) {
	b := apptest.New(t)
	ctx := context.Background()
	s := newSession(t, b)
	require.NoError(t, s.Signup(ctx, form("alice")))

	require.NoError(t, s.UpdateProfile(ctx, client.ProfileUpdate{Bio: client.String("hello")}))
	assert.Equal(t, "hello", s.Profile().Bio)

	require.NoError(t, s.UpdateProfile(ctx, &client.ProfileUpdate{
		Location:   client.String("Berlin"),
		ProfileImg: &client.Upload{Filename: "me.PNG", Content: strings.NewReader("png")},
	}))
	p := s.Profile()
	assert.Equal(t, "hello", p.Bio)
	assert.Equal(t, "Berlin", p.Location)
	assert.True(t, strings.HasSuffix(p.ProfileImg, ".png"))

	require.NoError(t, s.UpdateProfile(ctx, client.NewForm().Set("bio", "again")))
	assert.Equal(t, "again", s.Profile().Bio)

	err := s.UpdateProfile(ctx, client.JSON(map[string]string{"bio": "x"}))
	assert.ErrorIs(t, err, ErrUnsupportedUpdate)

	err = s.UpdateProfile(ctx, client.ProfileUpdate{Location: client.String(strings.Repeat("x", 101))})
	var serr *Error
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, http.StatusBadRequest, client.StatusCode(err))
}

func TestCanDeletePost(t *testing.T) {
	b := apptest.New(t)
	ctx := context.Background()
	s := newSession(t, b)
	assert.False(t, s.CanDeletePost(models.Post{User: "alice"}))

	require.NoError(t, s.Signup(ctx, form("alice")))
	assert.True(t, s.CanDeletePost(models.Post{User: "alice"}))
	assert.False(t, s.CanDeletePost(models.Post{User: "bob"}))

	s.mu.Lock()
	s.user.IsSuperuser = true
	s.mu.Unlock()
	assert.True(t, s.CanDeletePost(models.Post{User: "bob"}))
}

func TestErrorUnwrap(t *testing.T) {
	cause := errors.New("boom")
	err := &Error{Message: "Update failed", Err: cause}
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "Update failed", err.Error())
}
