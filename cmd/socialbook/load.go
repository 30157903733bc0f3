package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"socialbook/client"
	"socialbook/logger"
	"socialbook/models"

	"github.com/brianvoe/gofakeit/v7"
	"go.uber.org/zap"
)

type LoadConfig struct {
	Enabled        bool
	BaseURL        string
	Workers        int
	Duration       time.Duration
	RequestsPerSec int
}

var errBadLoadConfig = errors.New("invalid load config")

// tickInterval is the pause between requests of one worker, never zero.
func tickInterval(rps int) time.Duration {
	if rps < 1 {
		return time.Second
	}
	return max(time.Second/time.Duration(rps), time.Nanosecond)
}

type Stats struct {
	TotalRequests   int64
	SuccessRequests int64
	FailedRequests  int64
	TotalDuration   int64
}

func (s *Stats) record(start time.Time, err error) {
	atomic.AddInt64(&s.TotalRequests, 1)
	atomic.AddInt64(&s.TotalDuration, time.Since(start).Milliseconds())
	if err != nil {
		atomic.AddInt64(&s.FailedRequests, 1)
	} else {
		atomic.AddInt64(&s.SuccessRequests, 1)
	}
}

func (s *Stats) snapshot() (total, success, failed, avgLatency int64, successRate float64) {
	total = atomic.LoadInt64(&s.TotalRequests)
	success = atomic.LoadInt64(&s.SuccessRequests)
	failed = atomic.LoadInt64(&s.FailedRequests)
	if total > 0 {
		avgLatency = atomic.LoadInt64(&s.TotalDuration) / total
		successRate = float64(success) / float64(total) * 100
	}
	return
}

func (s *Stats) Print(w io.Writer) {
	total, success, failed, avgLatency, successRate := s.snapshot()
	fmt.Fprintln(w, "========== FINAL STATISTICS ==========")
	fmt.Fprintf(w, "Total Requests:     %d\n", total)
	fmt.Fprintf(w, "Successful:         %d\n", success)
	fmt.Fprintf(w, "Failed:             %d\n", failed)
	fmt.Fprintf(w, "Success Rate:       %.2f%%\n", successRate)
	fmt.Fprintf(w, "Average Latency:    %dms\n", avgLatency)
	fmt.Fprintln(w, "======================================")
}

// RunLoad signs up one fake user per worker and has each of them browse,
// like, comment and follow until ctx ends or the duration passes.
func RunLoad(ctx context.Context, conf LoadConfig) (*Stats, error) {
	if conf.Workers < 1 {
		return nil, fmt.Errorf("%w: workers must be at least 1, got %d", errBadLoadConfig, conf.Workers)
	}
	if conf.RequestsPerSec < 1 {
		return nil, fmt.Errorf("%w: rps must be at least 1, got %d", errBadLoadConfig, conf.RequestsPerSec)
	}
	stats := &Stats{}
	if conf.Duration > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, conf.Duration)
		defer cancel()
	}
	perWorker := conf.RequestsPerSec / conf.Workers
	if perWorker == 0 {
		perWorker = 1
	}

	var wg sync.WaitGroup
	for i := 0; i < conf.Workers; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			loadWorker(ctx, id, conf.BaseURL, perWorker, stats)
		}(i)
	}

	go func() {
		ticker := time.NewTicker(5 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				total, success, failed, avgLatency, successRate := stats.snapshot()
				logger.Info("[STATS]", zap.Int64("total", total), zap.Int64("success", success),
					zap.Int64("failed", failed), zap.Float64("success_rate", successRate),
					zap.Int64("avg_latency_ms", avgLatency))
			}
		}
	}()

	wg.Wait()
	return stats, nil
}

// loadUser - один виртуальный пользователь нагрузочного теста
type loadUser struct {
	api      *client.Client
	username string
	posts    []string
}

func loadWorker(ctx context.Context, id int, baseURL string, rps int, stats *Stats) {
	api, err := client.New(baseURL)
	if err != nil {
		logger.Error("failed to create client", zap.Error(err))
		return
	}
	password := gofakeit.Password(true, true, true, false, false, 12)
	u := &loadUser{
		api:      api,
		username: fmt.Sprintf("%s_%d_%s", strings.ToLower(gofakeit.FirstName()), id, gofakeit.Numerify("####")),
	}
	start := time.Now()
	_, err = api.Auth.Signup(ctx, models.SignupRequest{
		Username:  u.username,
		Email:     u.username + "@" + gofakeit.DomainName(),
		Password:  password,
		Password2: password,
	})
	stats.record(start, err)
	if err != nil {
		logger.Warn("load user signup failed", zap.Int("worker", id), zap.Error(err))
		return
	}

	ticker := time.NewTicker(tickInterval(rps))
	defer ticker.Stop()
	sent := 0
	for {
		select {
		case <-ctx.Done():
			logger.Info("worker stopping", zap.Int("worker", id), zap.Int("requests", sent))
			return
		case <-ticker.C:
			start := time.Now()
			err := u.step(ctx)
			if ctx.Err() != nil {
				return
			}
			stats.record(start, err)
			sent++
		}
	}
}

func (u *loadUser) step(ctx context.Context) error {
	switch rand.Intn(6) {
	case 0:
		posts, err := u.api.Posts.Feed(ctx)
		if err == nil {
			u.remember(posts)
		}
		return err
	case 1:
		profiles, err := u.api.Posts.Suggestions(ctx)
		if err != nil || len(profiles) == 0 {
			return err
		}
		_, err = u.api.Followers.Toggle(ctx, profiles[rand.Intn(len(profiles))].Username)
		return err
	case 2:
		if id, ok := u.pick(); ok {
			_, err := u.api.Posts.Like(ctx, id)
			return err
		}
		_, err := u.api.Posts.Create(ctx, gofakeit.Sentence(6), client.Upload{
			Filename: gofakeit.Word() + ".jpg",
			Content:  strings.NewReader(gofakeit.LoremIpsumSentence(20)),
		})
		return err
	case 3:
		if id, ok := u.pick(); ok {
			_, err := u.api.Comments.Create(ctx, id, gofakeit.Sentence(8))
			return err
		}
		_, err := u.api.Profiles.Me(ctx)
		return err
	case 4:
		_, err := u.api.Notifications.List(ctx)
		return err
	default:
		_, err := u.api.Profiles.List(ctx, gofakeit.Letter())
		return err
	}
}

func (u *loadUser) remember(posts []models.Post) {
	for _, p := range posts {
		u.posts = append(u.posts, p.ID)
	}
	if len(u.posts) > 100 {
		u.posts = u.posts[len(u.posts)-100:]
	}
}

func (u *loadUser) pick() (string, bool) {
	if len(u.posts) == 0 {
		return "", false
	}
	return u.posts[rand.Intn(len(u.posts))], true
}
