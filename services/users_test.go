package services

import (
	"context"
	"testing"

	"socialbook/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterCreatesUserAndProfile(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	user, profile, err := f.users.Register(ctx, models.SignupRequest{
		Username: "alice", Email: "alice@example.com", Password: "pw-123456", Password2: "pw-123456",
	})
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)
	assert.NotEqual(t, "pw-123456", user.Password)
	assert.Equal(t, user.ID, profile.UserID)
	assert.Equal(t, models.DefaultProfileImage, profile.ProfileImg)

	got, err := f.users.Authenticate(ctx, "alice", "pw-123456")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)
}

func TestRegisterValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.register(t, "alice")

	tests := []struct {
		name string
		req  models.SignupRequest
		want error
	}{
		{"missing fields", models.SignupRequest{Username: "bob"}, ErrAllFieldsRequired},
		{"mismatch", models.SignupRequest{Username: "bob", Email: "bob@example.com", Password: "a", Password2: "b"}, ErrPasswordMismatch},
		{"email taken", models.SignupRequest{Username: "bob", Email: "alice@example.com", Password: "a", Password2: "a"}, ErrEmailTaken},
		{"username taken", models.SignupRequest{Username: "alice", Email: "other@example.com", Password: "a", Password2: "a"}, ErrUsernameTaken},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := f.users.Register(ctx, tt.req)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestAuthenticateRejectsBadCredentials(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.register(t, "alice")

	_, err := f.users.Authenticate(ctx, "alice", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = f.users.Authenticate(ctx, "nobody", "secret-pass")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = f.users.Authenticate(ctx, "", "")
	assert.ErrorIs(t, err, ErrCredentialsRequired)
}

func TestPromoteSuperuser(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	v := f.register(t, "admin")

	require.NoError(t, f.users.PromoteSuperuser(ctx, "admin"))
	user, err := f.users.Get(ctx, v.UserID)
	require.NoError(t, err)
	assert.True(t, user.IsSuperuser)
	assert.ErrorIs(t, f.users.PromoteSuperuser(ctx, "ghost"), ErrNotFound)
}
