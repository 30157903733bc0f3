package services

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"socialbook/db"
	"socialbook/logger"
	"socialbook/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	MaxSuggestions = 4
	// сколько кандидатов поднимаем из БД до перемешивания
	suggestionCandidates = 10
)

type PostService struct {
	db            *db.Manager
	media         *MediaStore
	profiles      *ProfileService
	notifications *NotificationService
}

func NewPostService(manager *db.Manager, media *MediaStore, profiles *ProfileService, notifications *NotificationService) *PostService {
	return &PostService{db: manager, media: media, profiles: profiles, notifications: notifications}
}

// PostChanges - частичное обновление поста; nil значит "не трогать"
type PostChanges struct {
	Caption *string
	Image   *Upload
}

// decorate заполняет user_profile, image_url, is_liked и comments_count
func (s *PostService) decorate(ctx context.Context, v Viewer, posts []models.Post) error {
	if len(posts) == 0 {
		return nil
	}
	ids := make([]string, 0, len(posts))
	authors := make([]string, 0, len(posts))
	for _, p := range posts {
		ids = append(ids, p.ID)
		authors = append(authors, p.User)
	}

	profiles, err := s.profiles.ByUsernames(ctx, v, authors)
	if err != nil {
		return err
	}

	var liked []string
	err = s.db.Read(ctx).Model(&models.LikePost{}).
		Where("post_id IN ? AND username = ?", ids, v.Username).Pluck("post_id", &liked).Error
	if err != nil {
		return fmt.Errorf("failed to load likes: %w", err)
	}
	likedSet := make(map[string]bool, len(liked))
	for _, id := range liked {
		likedSet[id] = true
	}

	var counts []struct {
		PostID string
		Total  int64
	}
	err = s.db.Read(ctx).Model(&models.Comment{}).Select("post_id, COUNT(*) AS total").
		Where("post_id IN ?", ids).Group("post_id").Scan(&counts).Error
	if err != nil {
		return fmt.Errorf("failed to count comments: %w", err)
	}
	countMap := make(map[string]int64, len(counts))
	for _, c := range counts {
		countMap[c.PostID] = c.Total
	}

	for i := range posts {
		p := &posts[i]
		p.UserProfile = profiles[p.User]
		p.ImageURL = v.MediaURL(p.Image)
		p.IsLiked = likedSet[p.ID]
		p.CommentsCount = countMap[p.ID]
	}
	return nil
}

func (s *PostService) find(ctx context.Context, v Viewer, query *gorm.DB) ([]models.Post, error) {
	posts := make([]models.Post, 0)
	if err := query.Order("created_at DESC").Find(&posts).Error; err != nil {
		return nil, fmt.Errorf("failed to load posts: %w", err)
	}
	if err := s.decorate(ctx, v, posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// List returns all posts, or only those of user, newest first.
func (s *PostService) List(ctx context.Context, v Viewer, user string) ([]models.Post, error) {
	query := s.db.Read(ctx)
	if user != "" {
		query = query.Where("author = ?", user)
	}
	return s.find(ctx, v, query)
}

func (s *PostService) Get(ctx context.Context, v Viewer, id string) (*models.Post, error) {
	var post models.Post
	err := s.db.Read(ctx).Where("id = ?", id).First(&post).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	posts := []models.Post{post}
	if err = s.decorate(ctx, v, posts); err != nil {
		return nil, err
	}
	return &posts[0], nil
}

func (s *PostService) Create(ctx context.Context, v Viewer, caption string, image *Upload) (*models.Post, error) {
	if image == nil {
		return nil, ErrImageRequired
	}
	rel, err := s.media.Save(PostImagesDir, *image)
	if err != nil {
		return nil, err
	}
	post := &models.Post{
		ID:        uuid.NewString(),
		User:      v.Username,
		Image:     rel,
		Caption:   caption,
		CreatedAt: time.Now().UTC(),
	}
	if err = s.db.Write(ctx).Create(post).Error; err != nil {
		s.media.Remove(rel)
		return nil, fmt.Errorf("failed to create post: %w", err)
	}
	logger.Info("post created", zap.String("id", post.ID), zap.String("user", v.Username))
	return s.Get(ctx, v, post.ID)
}

// Update is allowed to the author only.
func (s *PostService) Update(ctx context.Context, v Viewer, id string, changes PostChanges) (*models.Post, error) {
	post, err := s.Get(ctx, v, id)
	if err != nil {
		return nil, err
	}
	if post.User != v.Username {
		return nil, ErrPermissionDenied
	}
	updates := map[string]interface{}{}
	if changes.Caption != nil {
		updates["caption"] = *changes.Caption
	}
	var oldImage string
	if changes.Image != nil {
		rel, err := s.media.Save(PostImagesDir, *changes.Image)
		if err != nil {
			return nil, err
		}
		oldImage = post.Image
		updates["image"] = rel
	}
	if len(updates) > 0 {
		if err = s.db.Write(ctx).Model(&models.Post{}).Where("id = ?", id).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("failed to update post: %w", err)
		}
		s.media.Remove(oldImage)
	}
	return s.Get(ctx, v, id)
}

// Delete is allowed to the author or a superuser; likes and comments go with the post.
func (s *PostService) Delete(ctx context.Context, v Viewer, id string) error {
	var post models.Post
	err := s.db.Read(ctx).Where("id = ?", id).First(&post).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	if post.User != v.Username && !v.IsSuperuser {
		return ErrPermissionDenied
	}
	err = s.db.Write(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", id).Delete(&models.LikePost{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&models.Post{}).Error
	})
	if err != nil {
		return fmt.Errorf("failed to delete post: %w", err)
	}
	s.media.Remove(post.Image)
	logger.Info("post deleted", zap.String("id", id), zap.String("by", v.Username))
	return nil
}

func (s *PostService) likesOf(tx *gorm.DB, id string) (int, error) {
	var post models.Post
	if err := tx.Select("no_of_likes").Where("id = ?", id).First(&post).Error; err != nil {
		return 0, err
	}
	return post.NoOfLikes, nil
}

// Like is idempotent. created reports whether this call added the like.
func (s *PostService) Like(ctx context.Context, v Viewer, id string) (result models.LikeResult, created bool, err error) {
	post, err := s.Get(ctx, v, id)
	if err != nil {
		return result, false, err
	}
	err = s.db.Write(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Clauses(clause.OnConflict{DoNothing: true}).
			Create(&models.LikePost{PostID: id, Username: v.Username})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 1 {
			created = true
			if err := tx.Model(&models.Post{}).Where("id = ?", id).
				Update("no_of_likes", gorm.Expr("no_of_likes + 1")).Error; err != nil {
				return err
			}
		}
		result.Likes, err = s.likesOf(tx, id)
		return err
	})
	if err != nil {
		return result, false, fmt.Errorf("failed to like post: %w", err)
	}
	result.Status = models.LikeStatusLiked
	if created {
		postID := id
		s.notifications.Notify(ctx, models.Notification{
			ToUser:    post.User,
			Actor:     v.Username,
			Verb:      "liked your post",
			NotifType: models.NotifLike,
			PostID:    &postID,
			URL:       "/profile/" + post.User,
		})
	}
	return result, created, nil
}

// Unlike is idempotent; the count never goes below zero.
func (s *PostService) Unlike(ctx context.Context, v Viewer, id string) (result models.LikeResult, err error) {
	if _, err = s.Get(ctx, v, id); err != nil {
		return result, err
	}
	err = s.db.Write(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("post_id = ? AND username = ?", id, v.Username).Delete(&models.LikePost{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected > 0 {
			if err := tx.Model(&models.Post{}).Where("id = ? AND no_of_likes > 0", id).
				Update("no_of_likes", gorm.Expr("no_of_likes - 1")).Error; err != nil {
				return err
			}
		}
		result.Likes, err = s.likesOf(tx, id)
		return err
	})
	if err != nil {
		return result, fmt.Errorf("failed to unlike post: %w", err)
	}
	result.Status = models.LikeStatusUnliked
	return result, nil
}

// Feed - посты тех, на кого подписан viewer, без заблокированных в любую сторону
func (s *PostService) Feed(ctx context.Context, v Viewer) ([]models.Post, error) {
	read := s.db.Read(ctx)
	var following []string
	if err := read.Model(&models.Follow{}).Where("follower = ?", v.Username).Pluck("followee", &following).Error; err != nil {
		return nil, fmt.Errorf("failed to load following: %w", err)
	}
	hidden, err := hiddenFrom(s.db.Read(ctx), v.Username)
	if err != nil {
		return nil, err
	}
	authors := make([]string, 0, len(following))
	for _, name := range following {
		if _, ok := hidden[name]; !ok {
			authors = append(authors, name)
		}
	}
	if len(authors) == 0 {
		return []models.Post{}, nil
	}
	return s.find(ctx, v, s.db.Read(ctx).Where("author IN ?", authors))
}

// Suggestions returns up to MaxSuggestions random profiles the viewer could follow.
func (s *PostService) Suggestions(ctx context.Context, v Viewer) ([]models.Profile, error) {
	var following []string
	if err := s.db.Read(ctx).Model(&models.Follow{}).Where("follower = ?", v.Username).Pluck("followee", &following).Error; err != nil {
		return nil, fmt.Errorf("failed to load following: %w", err)
	}
	hidden, err := hiddenFrom(s.db.Read(ctx), v.Username)
	if err != nil {
		return nil, err
	}
	exclude := []string{v.Username}
	exclude = append(exclude, following...)
	for name := range hidden {
		exclude = append(exclude, name)
	}

	var candidates []string
	if err = s.db.Read(ctx).Model(&models.User{}).Where("username NOT IN ?", exclude).
		Pluck("username", &candidates).Error; err != nil {
		return nil, fmt.Errorf("failed to load users: %w", err)
	}
	rand.Shuffle(len(candidates), func(i, j int) { candidates[i], candidates[j] = candidates[j], candidates[i] })
	if len(candidates) > suggestionCandidates {
		candidates = candidates[:suggestionCandidates]
	}

	byName, err := s.profiles.ByUsernames(ctx, v, candidates)
	if err != nil {
		return nil, err
	}
	res := make([]models.Profile, 0, MaxSuggestions)
	for _, name := range candidates {
		if p, ok := byName[name]; ok {
			res = append(res, *p)
		}
		if len(res) == MaxSuggestions {
			break
		}
	}
	return res, nil
}
