// Package scheduler runs periodic background jobs such as unread-count polling.
package scheduler

import (
	"sort"
	"sync"
	"time"

	"socialbook/logger"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

type Task func()

// Subscription is a running periodic task.
type Subscription interface {
	Unsubscribe()
}

type Scheduler interface {
	Subscribe(interval time.Duration, task Task) Subscription
}

// cronLogger пишет логи cron через zap
type cronLogger struct {
	l *zap.SugaredLogger
}

func (c cronLogger) Info(msg string, keysAndValues ...interface{}) {
	c.l.Debugw(msg, keysAndValues...)
}

func (c cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	c.l.Errorw(msg, append(keysAndValues, "error", err)...)
}

// Cron runs tasks on a robfig/cron instance. A task that is still running when
// its next tick comes is skipped, a panicking task is logged and recovered.
type Cron struct {
	c    *cron.Cron
	once sync.Once
}

func NewCron() *Cron {
	log := cronLogger{l: logger.L().Sugar()}
	return &Cron{c: cron.New(
		cron.WithLogger(log),
		cron.WithChain(cron.Recover(log), cron.SkipIfStillRunning(log)),
	)}
}

type cronSubscription struct {
	c    *cron.Cron
	id   cron.EntryID
	once sync.Once
}

func (s *cronSubscription) Unsubscribe() {
	s.once.Do(func() { s.c.Remove(s.id) })
}

// Subscribe schedules task every interval; cron rounds intervals below a second up to one second.
func (s *Cron) Subscribe(interval time.Duration, task Task) Subscription {
	s.once.Do(s.c.Start)
	id := s.c.Schedule(cron.Every(interval), cron.FuncJob(task))
	logger.Debug("scheduled job", zap.Int("entry", int(id)), zap.Duration("interval", interval))
	return &cronSubscription{c: s.c, id: id}
}

// Len is the number of scheduled jobs.
func (s *Cron) Len() int {
	return len(s.c.Entries())
}

// Stop stops the scheduler and waits for running jobs.
func (s *Cron) Stop() {
	<-s.c.Stop().Done()
}

// Manual runs tasks only when Tick is called.
type Manual struct {
	mu     sync.Mutex
	next   int
	tasks  map[int]Task
	period map[int]time.Duration
}

func NewManual() *Manual {
	return &Manual{tasks: make(map[int]Task), period: make(map[int]time.Duration)}
}

type manualSubscription struct {
	m  *Manual
	id int
}

func (s manualSubscription) Unsubscribe() {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	delete(s.m.tasks, s.id)
	delete(s.m.period, s.id)
}

func (m *Manual) Subscribe(interval time.Duration, task Task) Subscription {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := m.next
	m.next++
	m.tasks[id] = task
	m.period[id] = interval
	return manualSubscription{m: m, id: id}
}

// Tick runs every subscribed task once, in subscription order.
func (m *Manual) Tick() {
	m.mu.Lock()
	ids := make([]int, 0, len(m.tasks))
	for id := range m.tasks {
		ids = append(ids, id)
	}
	m.mu.Unlock()
	sort.Ints(ids)
	for _, id := range ids {
		m.mu.Lock()
		task, ok := m.tasks[id]
		m.mu.Unlock()
		if ok {
			task()
		}
	}
}

func (m *Manual) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.tasks)
}

// Intervals returns the intervals of the live subscriptions.
func (m *Manual) Intervals() []time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	ids := make([]int, 0, len(m.period))
	for id := range m.period {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	out := make([]time.Duration, 0, len(ids))
	for _, id := range ids {
		out = append(out, m.period[id])
	}
	return out
}
