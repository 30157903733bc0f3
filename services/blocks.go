package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"socialbook/db"
	"socialbook/logger"
	"socialbook/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type BlockService struct {
	db       *db.Manager
	profiles *ProfileService
	users    *UserService
}

func NewBlockService(manager *db.Manager, profiles *ProfileService, users *UserService) *BlockService {
	return &BlockService{db: manager, profiles: profiles, users: users}
}

// hiddenFrom возвращает всех, с кем у username есть блокировка в любую сторону
func hiddenFrom(tx *gorm.DB, username string) (map[string]struct{}, error) {
	var blocks []models.Block
	if err := tx.Where("blocker = ? OR blocked = ?", username, username).Find(&blocks).Error; err != nil {
		return nil, fmt.Errorf("failed to load blocks: %w", err)
	}
	res := make(map[string]struct{}, len(blocks))
	for _, b := range blocks {
		if b.Blocker == username {
			res[b.Blocked] = struct{}{}
		} else {
			res[b.Blocker] = struct{}{}
		}
	}
	return res, nil
}

func (s *BlockService) decorate(ctx context.Context, v Viewer, blocks []models.Block) error {
	names := make([]string, 0, len(blocks)*2)
	for _, b := range blocks {
		names = append(names, b.Blocker, b.Blocked)
	}
	profiles, err := s.profiles.ByUsernames(ctx, v, names)
	if err != nil {
		return err
	}
	for i := range blocks {
		blocks[i].BlockerProfile = profiles[blocks[i].Blocker]
		blocks[i].BlockedProfile = profiles[blocks[i].Blocked]
	}
	return nil
}

// List returns the users the viewer blocked, newest first.
func (s *BlockService) List(ctx context.Context, v Viewer) ([]models.Block, error) {
	blocks := make([]models.Block, 0)
	err := s.db.Read(ctx).Where("blocker = ?", v.Username).Order("timestamp DESC").Find(&blocks).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list blocks: %w", err)
	}
	if err = s.decorate(ctx, v, blocks); err != nil {
		return nil, err
	}
	return blocks, nil
}

func (s *BlockService) validate(ctx context.Context, v Viewer, blocked string) error {
	if blocked == "" {
		return ErrBlockedRequired
	}
	if blocked == v.Username {
		return ErrBlockSelf
	}
	return s.users.Exists(ctx, blocked)
}

// Create blocks a user; blocking twice is an error.
func (s *BlockService) Create(ctx context.Context, v Viewer, blocked string) (*models.Block, error) {
	if err := s.validate(ctx, v, blocked); err != nil {
		return nil, err
	}
	var count int64
	if err := s.db.Read(ctx).Model(&models.Block{}).
		Where("blocker = ? AND blocked = ?", v.Username, blocked).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, fmt.Errorf("%w: %s is already blocked", ErrInvalidInput, blocked)
	}
	return s.block(ctx, v, blocked)
}

func (s *BlockService) block(ctx context.Context, v Viewer, blocked string) (*models.Block, error) {
	block := &models.Block{Blocker: v.Username, Blocked: blocked, Timestamp: time.Now().UTC()}
	err := s.db.Write(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(block).Error; err != nil {
			return err
		}
		return unfollowBothWays(tx, v.Username, blocked)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to block user: %w", err)
	}
	logger.Info("user blocked", zap.String("blocker", v.Username), zap.String("blocked", blocked))
	blocks := []models.Block{*block}
	if err = s.decorate(ctx, v, blocks); err != nil {
		return nil, err
	}
	return &blocks[0], nil
}

func unfollowBothWays(tx *gorm.DB, a, b string) error {
	return tx.Where("(follower = ? AND followee = ?) OR (follower = ? AND followee = ?)", a, b, b, a).
		Delete(&models.Follow{}).Error
}

// Toggle blocks or unblocks; the follow edges between the pair are removed either way.
// The returned block is nil when the call unblocked.
func (s *BlockService) Toggle(ctx context.Context, v Viewer, blocked string) (*models.Block, error) {
	if err := s.validate(ctx, v, blocked); err != nil {
		return nil, err
	}
	var existing models.Block
	err := s.db.Read(ctx).Where("blocker = ? AND blocked = ?", v.Username, blocked).First(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return s.block(ctx, v, blocked)
	}
	if err != nil {
		return nil, err
	}
	err = s.db.Write(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&models.Block{}, existing.ID).Error; err != nil {
			return err
		}
		return unfollowBothWays(tx, v.Username, blocked)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to unblock user: %w", err)
	}
	logger.Info("user unblocked", zap.String("blocker", v.Username), zap.String("blocked", blocked))
	return nil, nil
}

// Delete removes one of the viewer's own blocks.
func (s *BlockService) Delete(ctx context.Context, v Viewer, id int64) error {
	res := s.db.Write(ctx).Where("id = ? AND blocker = ?", id, v.Username).Delete(&models.Block{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
