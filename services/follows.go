package services

import (
	"context"
	"errors"
	"fmt"

	"socialbook/db"
	"socialbook/models"

	"gorm.io/gorm"
)

type FollowService struct {
	db            *db.Manager
	users         *UserService
	profiles      *ProfileService
	notifications *NotificationService
}

func NewFollowService(manager *db.Manager, users *UserService, profiles *ProfileService, notifications *NotificationService) *FollowService {
	return &FollowService{db: manager, users: users, profiles: profiles, notifications: notifications}
}

func (s *FollowService) decorate(ctx context.Context, v Viewer, follows []models.Follow) error {
	names := make([]string, 0, len(follows)*2)
	for _, f := range follows {
		names = append(names, f.Follower, f.User)
	}
	profiles, err := s.profiles.ByUsernames(ctx, v, names)
	if err != nil {
		return err
	}
	for i := range follows {
		follows[i].FollowerProfile = profiles[follows[i].Follower]
		follows[i].UserProfile = profiles[follows[i].User]
	}
	return nil
}

// List filters follow edges by followee (user) and/or follower; empty filters match all.
func (s *FollowService) List(ctx context.Context, v Viewer, user, follower string) ([]models.Follow, error) {
	query := s.db.Read(ctx).Order("id")
	if user != "" {
		query = query.Where("followee = ?", user)
	}
	if follower != "" {
		query = query.Where("follower = ?", follower)
	}
	follows := make([]models.Follow, 0)
	if err := query.Find(&follows).Error; err != nil {
		return nil, fmt.Errorf("failed to list follows: %w", err)
	}
	if err := s.decorate(ctx, v, follows); err != nil {
		return nil, err
	}
	return follows, nil
}

// Followers - кто подписан на user
func (s *FollowService) Followers(ctx context.Context, v Viewer, user string) ([]models.Follow, error) {
	if user == "" {
		user = v.Username
	}
	return s.List(ctx, v, user, "")
}

// Following - на кого подписан user
func (s *FollowService) Following(ctx context.Context, v Viewer, user string) ([]models.Follow, error) {
	if user == "" {
		user = v.Username
	}
	return s.List(ctx, v, "", user)
}

// Toggle follows user or removes the existing follow. It returns the new edge, or nil
// when the call unfollowed.
func (s *FollowService) Toggle(ctx context.Context, v Viewer, user string) (*models.Follow, error) {
	if user == "" {
		return nil, ErrFollowUserRequired
	}
	if user == v.Username {
		return nil, ErrFollowSelf
	}
	if err := s.users.Exists(ctx, user); err != nil {
		return nil, err
	}

	var existing models.Follow
	err := s.db.Read(ctx).Where("follower = ? AND followee = ?", v.Username, user).First(&existing).Error
	if err == nil {
		if err = s.db.Write(ctx).Delete(&models.Follow{}, existing.ID).Error; err != nil {
			return nil, fmt.Errorf("failed to unfollow: %w", err)
		}
		return nil, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	follow := models.Follow{Follower: v.Username, User: user}
	if err = s.db.Write(ctx).Create(&follow).Error; err != nil {
		return nil, fmt.Errorf("failed to follow: %w", err)
	}
	s.notifications.Notify(ctx, models.Notification{
		ToUser:    user,
		Actor:     v.Username,
		Verb:      "started following you",
		NotifType: models.NotifFollow,
		URL:       "/profile/" + v.Username,
	})
	follows := []models.Follow{follow}
	if err = s.decorate(ctx, v, follows); err != nil {
		return nil, err
	}
	return &follows[0], nil
}
