// Package views holds the screen state of the client: what is loaded, what failed,
// and what each user action does to it. Rendering is left to the caller.
package views

import (
	"time"

	"socialbook/client"
	"socialbook/nav"
	"socialbook/scheduler"
	"socialbook/session"
)

const DefaultPollInterval = 30 * time.Second

const (
	MsgFeedFailed          = "Failed to load feed"
	MsgProfileFailed       = "Failed to load profile"
	MsgProfileNotFound     = "Profile not found"
	MsgPostDeleteFailed    = "Failed to delete post"
	MsgPostCreateFailed    = "Failed to create post"
	MsgImageRequired       = "Please select an image"
	MsgProfileUpdated      = "Profile updated successfully!"
	MsgProfileUpdateFailed = "Failed to update profile"
)

// Deps - общее окружение всех view, передается явно
type Deps struct {
	Session   *session.Session
	Nav       nav.Navigator
	Scheduler scheduler.Scheduler
	// PollInterval defaults to DefaultPollInterval.
	PollInterval time.Duration
}

func (d Deps) api() *client.Client {
	return d.Session.API()
}

func (d Deps) poll() time.Duration {
	if d.PollInterval > 0 {
		return d.PollInterval
	}
	return DefaultPollInterval
}

func (d Deps) navigate(path string) {
	if d.Nav != nil {
		d.Nav.Navigate(path)
	}
}
