package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"socialbook/db"
	"socialbook/models"

	"gorm.io/gorm"
)

type ProfileService struct {
	db    *db.Manager
	media *MediaStore
}

func NewProfileService(manager *db.Manager, media *MediaStore) *ProfileService {
	return &ProfileService{db: manager, media: media}
}

// ProfileChanges - частичное обновление; nil значит "не трогать"
type ProfileChanges struct {
	Bio      *string
	Location *string
	Image    *Upload
}

func (s *ProfileService) decorate(v Viewer, p *models.Profile) {
	if p.User != nil {
		p.Username = p.User.Username
	}
	p.ProfileImgURL = v.MediaURL(p.ProfileImg)
}

func (s *ProfileService) ByUserID(ctx context.Context, v Viewer, userID int64) (*models.Profile, error) {
	var profile models.Profile
	err := s.db.Read(ctx).Preload("User").Where("id_user = ?", userID).First(&profile).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	s.decorate(v, &profile)
	return &profile, nil
}

// ByUsernames loads the profiles nested into posts, comments, follows and blocks.
func (s *ProfileService) ByUsernames(ctx context.Context, v Viewer, usernames []string) (map[string]*models.Profile, error) {
	res := make(map[string]*models.Profile, len(usernames))
	if len(usernames) == 0 {
		return res, nil
	}
	var profiles []models.Profile
	err := s.db.Read(ctx).Preload("User").
		Where("id_user IN (?)", s.db.Read(ctx).Model(&models.User{}).Select("id").Where("username IN ?", usernames)).
		Find(&profiles).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load profiles: %w", err)
	}
	for i := range profiles {
		s.decorate(v, &profiles[i])
		res[profiles[i].Username] = &profiles[i]
	}
	return res, nil
}

// List returns all profiles, or those whose username contains the filter (case-insensitive).
func (s *ProfileService) List(ctx context.Context, v Viewer, username string) ([]models.Profile, error) {
	query := s.db.Read(ctx).Preload("User").Order("id")
	if username != "" {
		users := s.db.Read(ctx).Model(&models.User{}).Select("id").
			Where("LOWER(username) LIKE ?", "%"+strings.ToLower(username)+"%")
		query = query.Where("id_user IN (?)", users)
	}
	profiles := make([]models.Profile, 0)
	if err := query.Find(&profiles).Error; err != nil {
		return nil, fmt.Errorf("failed to list profiles: %w", err)
	}
	for i := range profiles {
		s.decorate(v, &profiles[i])
	}
	return profiles, nil
}

func (s *ProfileService) Get(ctx context.Context, v Viewer, id int64) (*models.Profile, error) {
	var profile models.Profile
	err := s.db.Read(ctx).Preload("User").First(&profile, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	s.decorate(v, &profile)
	return &profile, nil
}

// Update changes profile id; only its owner may do that.
func (s *ProfileService) Update(ctx context.Context, v Viewer, id int64, changes ProfileChanges) (*models.Profile, error) {
	profile, err := s.Get(ctx, v, id)
	if err != nil {
		return nil, err
	}
	if profile.UserID != v.UserID {
		return nil, ErrPermissionDenied
	}
	return s.apply(ctx, v, profile, changes)
}

func (s *ProfileService) UpdateMe(ctx context.Context, v Viewer, changes ProfileChanges) (*models.Profile, error) {
	profile, err := s.ByUserID(ctx, v, v.UserID)
	if err != nil {
		return nil, err
	}
	return s.apply(ctx, v, profile, changes)
}

func (s *ProfileService) apply(ctx context.Context, v Viewer, profile *models.Profile, changes ProfileChanges) (*models.Profile, error) {
	updates := map[string]interface{}{}
	if changes.Bio != nil {
		updates["bio"] = *changes.Bio
	}
	if changes.Location != nil {
		if len(*changes.Location) > 100 {
			return nil, fmt.Errorf("%w: location is longer than 100 characters", ErrInvalidInput)
		}
		updates["location"] = *changes.Location
	}
	var oldImage string
	if changes.Image != nil {
		rel, err := s.media.Save(ProfileImagesDir, *changes.Image)
		if err != nil {
			return nil, err
		}
		oldImage = profile.ProfileImg
		updates["profileimg"] = rel
	}
	if len(updates) > 0 {
		if err := s.db.Write(ctx).Model(&models.Profile{}).Where("id = ?", profile.ID).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("failed to update profile: %w", err)
		}
		if oldImage != "" {
			s.media.Remove(oldImage)
		}
	}
	return s.Get(ctx, v, profile.ID)
}
