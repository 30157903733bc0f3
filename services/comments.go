package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"socialbook/db"
	"socialbook/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CommentService struct {
	db            *db.Manager
	profiles      *ProfileService
	notifications *NotificationService
}

func NewCommentService(manager *db.Manager, profiles *ProfileService, notifications *NotificationService) *CommentService {
	return &CommentService{db: manager, profiles: profiles, notifications: notifications}
}

func (s *CommentService) decorate(ctx context.Context, v Viewer, comments []models.Comment) error {
	names := make([]string, 0, len(comments))
	for _, c := range comments {
		names = append(names, c.User)
	}
	profiles, err := s.profiles.ByUsernames(ctx, v, names)
	if err != nil {
		return err
	}
	for i := range comments {
		comments[i].UserProfile = profiles[comments[i].User]
	}
	return nil
}

// List returns comments oldest first, optionally only those of one post.
func (s *CommentService) List(ctx context.Context, v Viewer, postID string) ([]models.Comment, error) {
	query := s.db.Read(ctx).Order("timestamp").Order("id")
	if postID != "" {
		query = query.Where("post_id = ?", postID)
	}
	comments := make([]models.Comment, 0)
	if err := query.Find(&comments).Error; err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	if err := s.decorate(ctx, v, comments); err != nil {
		return nil, err
	}
	return comments, nil
}

func (s *CommentService) Get(ctx context.Context, v Viewer, id string) (*models.Comment, error) {
	var comment models.Comment
	err := s.db.Read(ctx).Where("id = ?", id).First(&comment).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	comments := []models.Comment{comment}
	if err = s.decorate(ctx, v, comments); err != nil {
		return nil, err
	}
	return &comments[0], nil
}

func (s *CommentService) Create(ctx context.Context, v Viewer, postID, body string) (*models.Comment, error) {
	if strings.TrimSpace(body) == "" {
		return nil, ErrCommentBodyEmpty
	}
	var post models.Post
	err := s.db.Read(ctx).Where("id = ?", postID).First(&post).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: post %q does not exist", ErrInvalidInput, postID)
	}
	if err != nil {
		return nil, err
	}

	comment := &models.Comment{
		ID:        uuid.NewString(),
		PostID:    postID,
		User:      v.Username,
		Body:      body,
		Timestamp: time.Now().UTC(),
	}
	if err = s.db.Write(ctx).Create(comment).Error; err != nil {
		return nil, fmt.Errorf("failed to create comment: %w", err)
	}
	s.notifications.Notify(ctx, models.Notification{
		ToUser:    post.User,
		Actor:     v.Username,
		Verb:      "commented on your post",
		NotifType: models.NotifComment,
		PostID:    &post.ID,
		URL:       "/profile/" + post.User,
	})
	return s.Get(ctx, v, comment.ID)
}

// Delete is allowed to the comment's author only.
func (s *CommentService) Delete(ctx context.Context, v Viewer, id string) error {
	var comment models.Comment
	err := s.db.Read(ctx).Where("id = ?", id).First(&comment).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	if comment.User != v.Username {
		return ErrPermissionDenied
	}
	return s.db.Write(ctx).Where("id = ?", id).Delete(&models.Comment{}).Error
}
