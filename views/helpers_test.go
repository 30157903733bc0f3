package views

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
	"socialbook/nav"
	"socialbook/scheduler"
	"socialbook/session"

	"github.com/stretchr/testify/require"
)

var errOffline = errors.New("offline")

// actor - один залогиненный клиент со своей историей переходов
type actor struct {
	deps     Deps
	history  *nav.History
	sched    *scheduler.Manual
	requests atomic.Int32
	offline  atomic.Bool
}

func newActor(t *testing.T, b *apptest.Backend) *actor {
	t.Helper()
	a := &actor{history: nav.NewHistory(nav.Home), sched: scheduler.NewManual()}
	api, err := client.New(b.URL(),
		client.WithNavigator(a.history),
		client.WithRequestInterceptor(func(*http.Request) error {
			a.requests.Add(1)
			if a.offline.Load() {
				return errOffline
			}
			return nil
		}),
	)
	require.NoError(t, err)
	a.deps = Deps{Session: session.New(api), Nav: a.history, Scheduler: a.sched}
	return a
}

func signupForm(username string) session.SignupForm {
	return session.SignupForm{
		Username:  username,
		Email:     username + "@example.com",
		Password:  "pw-123456",
		Password2: "pw-123456",
	}
}

func signedUp(t *testing.T, b *apptest.Backend, username string) *actor {
	t.Helper()
	a := newActor(t, b)
	require.NoError(t, a.deps.Session.Signup(context.Background(), signupForm(username)))
	return a
}

func (a *actor) api() *client.Client { return a.deps.api() }

func (a *actor) post(t *testing.T, caption string) *models.Post {
	t.Helper()
	p, err := a.api().Posts.Create(context.Background(), caption, client.Upload{Filename: "p.jpg", Content: strings.NewReader("jpg")})
	require.NoError(t, err)
	return p
}

func (a *actor) follow(t *testing.T, username string) {
	t.Helper()
	_, err := a.api().Followers.Toggle(context.Background(), username)
	require.NoError(t, err)
}
