package services

import (
	"context"
	"fmt"
	"strings"

	"socialbook/logger"
	"socialbook/models"

	"github.com/brianvoe/gofakeit/v7"
	"go.uber.org/zap"
)

// Seeder заполняет базу фейковыми пользователями и подписками для локальной разработки
type Seeder struct {
	Users    *UserService
	Profiles *ProfileService
	Follows  *FollowService
	// Password is shared by every generated account so they can log in.
	Password string
}

// Seed creates count users with profiles and a few random follows between them.
func (s *Seeder) Seed(ctx context.Context, count int) ([]string, error) {
	password := s.Password
	if password == "" {
		password = gofakeit.Password(true, false, true, true, false, 10)
	}
	usernames := make([]string, 0, count)
	for i := 0; i < count; i++ {
		name := gofakeit.FirstName()
		username := fmt.Sprintf("%s_%s", strings.ToLower(name), gofakeit.Numerify("######"))
		user, _, err := s.Users.Register(ctx, models.SignupRequest{
			Username:  username,
			Email:     username + "@" + gofakeit.DomainName(),
			Password:  password,
			Password2: password,
		})
		if err != nil {
			return usernames, fmt.Errorf("failed to seed user %s: %w", username, err)
		}
		v := Viewer{UserID: user.ID, Username: user.Username}
		bio := gofakeit.JobTitle()
		location := gofakeit.City()
		if _, err = s.Profiles.UpdateMe(ctx, v, ProfileChanges{Bio: &bio, Location: &location}); err != nil {
			return usernames, err
		}
		usernames = append(usernames, username)
	}

	follows := 0
	for _, follower := range usernames {
		user, err := s.Users.ByUsername(ctx, follower)
		if err != nil {
			return usernames, err
		}
		v := Viewer{UserID: user.ID, Username: follower}
		for j := 0; j < gofakeit.Number(0, 3) && len(usernames) > 1; j++ {
			target := usernames[gofakeit.Number(0, len(usernames)-1)]
			if target == follower {
				continue
			}
			followed, err := s.Follows.Toggle(ctx, v, target)
			if err != nil {
				return usernames, err
			}
			if followed != nil {
				follows++
			}
		}
	}
	logger.Info("database seeded", zap.Int("users", len(usernames)), zap.Int("follows", follows))
	return usernames, nil
}
