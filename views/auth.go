package views

import (
	"context"
	"sync"

	"socialbook/nav"
	"socialbook/session"
)

type FormState struct {
	Loading bool
	Error   string
}

// Login submits credentials through the session and goes home on success.
type Login struct {
	deps Deps

	mu    sync.Mutex
	state FormState
}

func NewLogin(deps Deps) *Login {
	return &Login{deps: deps}
}

func (v *Login) Submit(ctx context.Context, username, password string) bool {
	v.mu.Lock()
	v.state = FormState{Loading: true}
	v.mu.Unlock()

	err := v.deps.Session.Login(ctx, username, password)

	v.mu.Lock()
	v.state.Loading = false
	if err != nil {
		v.state.Error = err.Error()
	}
	v.mu.Unlock()
	if err != nil {
		return false
	}
	v.deps.navigate(nav.Home)
	return true
}

func (v *Login) State() FormState {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.state
}

type Signup struct {
	deps Deps

	mu    sync.Mutex
	state FormState
}

func NewSignup(deps Deps) *Signup {
	return &Signup{deps: deps}
}

func (v *Signup) Submit(ctx context.Context, form session.SignupForm) bool {
	v.mu.Lock()
	v.state = FormState{Loading: true}
	v.mu.Unlock()

	err := v.deps.Session.Signup(ctx, form)

	v.mu.Lock()
	v.state.Loading = false
	if err != nil {
		v.state.Error = err.Error()
	}
	v.mu.Unlock()
	if err != nil {
		return false
	}
	v.deps.navigate(nav.Home)
	return true
}

func (v *Signup) State() FormState {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.state
}
