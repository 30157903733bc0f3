package views

import (
	"context"
	"sync"

	"socialbook/logger"
	"socialbook/models"
	"socialbook/nav"
	"socialbook/scheduler"
	"socialbook/session"

	"go.uber.org/zap"
)

// poller runs load now and then every interval until stopped.
type poller struct {
	sub    scheduler.Subscription
	cancel context.CancelFunc
}

func startPoll(ctx context.Context, deps Deps, load func(ctx context.Context)) *poller {
	ctx, cancel := context.WithCancel(ctx)
	load(ctx)
	var sub scheduler.Subscription
	if deps.Scheduler != nil {
		sub = deps.Scheduler.Subscribe(deps.poll(), func() { load(ctx) })
	}
	return &poller{sub: sub, cancel: cancel}
}

func (p *poller) stop() {
	if p == nil {
		return
	}
	if p.sub != nil {
		p.sub.Unsubscribe()
	}
	p.cancel()
}

type NotificationsState struct {
	Items   []models.Notification
	Unread  int
	Loading bool
}

// Notifications - список уведомлений, обновляется по таймеру пока смонтирован
type Notifications struct {
	deps Deps

	mu    sync.Mutex
	state NotificationsState
	poll  *poller
}

func NewNotifications(deps Deps) *Notifications {
	return &Notifications{deps: deps, state: NotificationsState{Loading: true}}
}

// Mount loads the list and keeps refreshing it until Unmount.
func (v *Notifications) Mount(ctx context.Context) {
	v.Unmount()
	p := startPoll(ctx, v.deps, v.Load)
	v.mu.Lock()
	v.poll = p
	v.mu.Unlock()
}

func (v *Notifications) Unmount() {
	v.mu.Lock()
	p := v.poll
	v.poll = nil
	v.mu.Unlock()
	p.stop()
}

func (v *Notifications) Load(ctx context.Context) {
	items, err := v.deps.api().Notifications.List(ctx)

	v.mu.Lock()
	defer v.mu.Unlock()
	v.state.Loading = false
	if err != nil {
		logger.Warn("notifications error", zap.Error(err))
		return
	}
	v.state.Items = items
	v.state.Unread = models.CountUnread(items)
}

// MarkRead marks one notification; the unread counter drops by one and never below zero.
func (v *Notifications) MarkRead(ctx context.Context, id int64) error {
	if err := v.deps.api().Notifications.MarkRead(ctx, id); err != nil {
		logger.Warn("mark read error", zap.Int64("id", id), zap.Error(err))
		return err
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	for i := range v.state.Items {
		if v.state.Items[i].ID == id {
			v.state.Items[i].Read = true
		}
	}
	v.state.Unread = max(0, v.state.Unread-1)
	return nil
}

func (v *Notifications) MarkAllRead(ctx context.Context) error {
	if err := v.deps.api().Notifications.MarkAllRead(ctx); err != nil {
		logger.Warn("mark all read error", zap.Error(err))
		return err
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	for i := range v.state.Items {
		v.state.Items[i].Read = true
	}
	v.state.Unread = 0
	return nil
}

// Open marks an unread notification read and follows its link.
func (v *Notifications) Open(ctx context.Context, n models.Notification) {
	if !n.Read {
		_ = v.MarkRead(ctx, n.ID)
	}
	if n.URL != "" {
		v.deps.navigate(n.URL)
	}
}

// Listen applies pushed notifications until ctx ends or the stream closes.
func (v *Notifications) Listen(ctx context.Context) error {
	events, err := v.deps.api().Notifications.Stream(ctx)
	if err != nil {
		return err
	}
	go func() {
		for ev := range events {
			v.push(ev.Notification)
		}
	}()
	return nil
}

func (v *Notifications) push(n models.Notification) {
	v.mu.Lock()
	defer v.mu.Unlock()
	for _, item := range v.state.Items {
		if item.ID == n.ID {
			return
		}
	}
	v.state.Items = append([]models.Notification{n}, v.state.Items...)
	if !n.Read {
		v.state.Unread++
	}
}

func (v *Notifications) State() NotificationsState {
	v.mu.Lock()
	defer v.mu.Unlock()
	s := v.state
	s.Items = append([]models.Notification(nil), v.state.Items...)
	return s
}

// Navbar shows the unread count while someone is logged in.
type Navbar struct {
	deps Deps

	mu          sync.Mutex
	ctx         context.Context
	unread      int
	poll        *poller
	unsubscribe func()
}

func NewNavbar(deps Deps) *Navbar {
	return &Navbar{deps: deps}
}

// Mount starts polling if a user is present and follows later logins and logouts.
func (v *Navbar) Mount(ctx context.Context) {
	v.Unmount()
	v.mu.Lock()
	v.ctx = ctx
	v.mu.Unlock()

	unsubscribe := v.deps.Session.OnChange(v.sessionChanged)
	v.mu.Lock()
	v.unsubscribe = unsubscribe
	v.mu.Unlock()
	v.sessionChanged(v.deps.Session.State())
}

func (v *Navbar) Unmount() {
	v.mu.Lock()
	unsubscribe, p := v.unsubscribe, v.poll
	v.unsubscribe, v.poll = nil, nil
	v.mu.Unlock()
	if unsubscribe != nil {
		unsubscribe()
	}
	p.stop()
}

func (v *Navbar) sessionChanged(state session.State) {
	v.mu.Lock()
	ctx, running := v.ctx, v.poll != nil
	v.mu.Unlock()

	if state != session.Authenticated {
		v.mu.Lock()
		p := v.poll
		v.poll, v.unread = nil, 0
		v.mu.Unlock()
		p.stop()
		return
	}
	if running || ctx == nil {
		return
	}
	p := startPoll(ctx, v.deps, v.loadUnread)
	v.mu.Lock()
	if v.poll != nil {
		v.mu.Unlock()
		p.stop()
		return
	}
	v.poll = p
	v.mu.Unlock()
}

func (v *Navbar) loadUnread(ctx context.Context) {
	items, err := v.deps.api().Notifications.List(ctx)
	if err != nil {
		logger.Debug("unread count error", zap.Error(err))
		return
	}
	v.mu.Lock()
	v.unread = models.CountUnread(items)
	v.mu.Unlock()
}

func (v *Navbar) Unread() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.unread
}

// Polling reports whether the unread count is being refreshed.
func (v *Navbar) Polling() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.poll != nil
}

func (v *Navbar) Logout(ctx context.Context) {
	v.deps.Session.Logout(ctx)
	v.deps.navigate(nav.Login)
}
