// Package session holds who is logged in on the client side.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"socialbook/client"
	"socialbook/logger"
	"socialbook/models"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

type State int

const (
	Unknown State = iota
	Authenticated
	Anonymous
)

func (s State) String() string {
	switch s {
	case Authenticated:
		return "authenticated"
	case Anonymous:
		return "anonymous"
	default:
		return "unknown"
	}
}

const (
	MsgLoginFailed  = "Login failed"
	MsgSignupFailed = "Signup failed"
	MsgUpdateFailed = "Update failed"
)

var (
	ErrPasswordMismatch  = errors.New("Passwords do not match")
	ErrFieldsRequired    = errors.New("All fields are required")
	ErrInvalidEmail      = errors.New("Enter a valid email address")
	ErrNotAuthenticated  = errors.New("not authenticated")
	ErrUnsupportedUpdate = errors.New("unsupported profile update payload")
)

// Error carries the message to show the user; the cause stays reachable through errors.As.
type Error struct {
	Message string
	Err     error
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Err }

func failure(err error, fallback string) *Error {
	return &Error{Message: client.ErrorMessage(err, fallback), Err: err}
}

// SignupForm is checked locally before anything is sent.
type SignupForm struct {
	Username  string `validate:"required"`
	Email     string `validate:"required,email"`
	Password  string `validate:"required"`
	Password2 string `validate:"required,eqfield=Password"`
}

// Session - кто вошел в систему. Передается явно во все view, глобальных копий нет.
type Session struct {
	api      *client.Client
	validate *validator.Validate

	mu      sync.RWMutex
	state   State
	user    *models.User
	profile *models.Profile

	subsMu  sync.Mutex
	subs    map[int]func(State)
	nextSub int
}

func New(api *client.Client) *Session {
	return &Session{
		api:      api,
		validate: validator.New(),
		subs:     make(map[int]func(State)),
	}
}

func (s *Session) set(state State, user *models.User, profile *models.Profile) {
	s.mu.Lock()
	s.state, s.user, s.profile = state, user, profile
	s.mu.Unlock()
	s.notify(state)
}

// failed settles an undecided session as Anonymous; a logged-in identity is kept.
func (s *Session) failed() {
	s.mu.Lock()
	if s.state == Authenticated {
		s.mu.Unlock()
		return
	}
	s.state, s.user, s.profile = Anonymous, nil, nil
	s.mu.Unlock()
	s.notify(Anonymous)
}

func (s *Session) notify(state State) {
	s.subsMu.Lock()
	subs := make([]func(State), 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	s.subsMu.Unlock()
	for _, fn := range subs {
		fn(state)
	}
}

// OnChange calls fn after every login, signup, logout or Init. The returned
// function removes the subscription.
func (s *Session) OnChange(fn func(State)) (unsubscribe func()) {
	s.subsMu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.subsMu.Unlock()
	return func() {
		s.subsMu.Lock()
		delete(s.subs, id)
		s.subsMu.Unlock()
	}
}

// Init asks the backend who is logged in; any failure means Anonymous.
func (s *Session) Init(ctx context.Context) State {
	res, err := s.api.Auth.UserInfo(ctx)
	if err != nil || res.User == nil {
		s.set(Anonymous, nil, nil)
		return Anonymous
	}
	s.set(Authenticated, res.User, res.Profile)
	return Authenticated
}

func (s *Session) Login(ctx context.Context, username, password string) error {
	res, err := s.api.Auth.Login(ctx, username, password)
	if err != nil {
		s.failed()
		return failure(err, MsgLoginFailed)
	}
	s.set(Authenticated, res.User, res.Profile)
	logger.Debug("logged in", zap.String("username", username))
	return nil
}

// Signup validates the form, then registers and logs in.
func (s *Session) Signup(ctx context.Context, form SignupForm) error {
	if err := s.check(form); err != nil {
		return &Error{Message: err.Error(), Err: err}
	}
	res, err := s.api.Auth.Signup(ctx, models.SignupRequest{
		Username:  form.Username,
		Email:     form.Email,
		Password:  form.Password,
		Password2: form.Password2,
	})
	if err != nil {
		s.failed()
		return failure(err, MsgSignupFailed)
	}
	s.set(Authenticated, res.User, res.Profile)
	return nil
}

func (s *Session) check(form SignupForm) error {
	// пароли сверяются раньше остальных полей, пустое подтверждение тоже несовпадение
	if form.Password != form.Password2 {
		return ErrPasswordMismatch
	}
	err := s.validate.Struct(form)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	for _, fe := range verrs {
		if fe.Tag() == "eqfield" {
			return ErrPasswordMismatch
		}
	}
	for _, fe := range verrs {
		if fe.Tag() == "email" {
			return ErrInvalidEmail
		}
	}
	return ErrFieldsRequired
}

// Logout always clears the local identity; a server failure is only logged.
func (s *Session) Logout(ctx context.Context) {
	if err := s.api.Auth.Logout(ctx); err != nil {
		logger.Warn("logout failed", zap.Error(err))
	}
	s.set(Anonymous, nil, nil)
}

// UpdateProfile sends a ProfileUpdate or a ready *client.Form as multipart and
// caches the profile the server returns.
func (s *Session) UpdateProfile(ctx context.Context, payload client.Payload) error {
	var form *client.Form
	switch p := payload.(type) {
	case *client.Form:
		form = p
	case client.ProfileUpdate:
		form = p.Form()
	case *client.ProfileUpdate:
		form = p.Form()
	default:
		return &Error{Message: MsgUpdateFailed, Err: fmt.Errorf("%w: %T", ErrUnsupportedUpdate, payload)}
	}
	profile, err := s.api.Profiles.PartialUpdateMe(ctx, form)
	if err != nil {
		return failure(err, MsgUpdateFailed)
	}
	s.mu.Lock()
	s.profile = profile
	s.mu.Unlock()
	return nil
}

func (s *Session) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

func (s *Session) IsAuthenticated() bool {
	return s.State() == Authenticated
}

// User returns a copy of the current user, or nil.
func (s *Session) User() *models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

// Profile returns a copy of the current profile, or nil.
func (s *Session) Profile() *models.Profile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.profile == nil {
		return nil
	}
	p := *s.profile
	return &p
}

func (s *Session) Username() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return ""
	}
	return s.user.Username
}

func (s *Session) IsOwner(username string) bool {
	name := s.Username()
	return name != "" && name == username
}

// CanDeletePost: автор поста или суперпользователь
func (s *Session) CanDeletePost(post models.Post) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return false
	}
	return s.user.Username == post.User || s.user.IsSuperuser
}

// API exposes the client the session talks through.
func (s *Session) API() *client.Client {
	return s.api
}
