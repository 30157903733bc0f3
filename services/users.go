package services

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"socialbook/db"
	"socialbook/logger"
	"socialbook/models"

	"go.uber.org/zap"
	"golang.org/x/crypto/argon2"
	"gorm.io/gorm"
)

type UserService struct {
	db *db.Manager
}

func NewUserService(manager *db.Manager) *UserService {
	return &UserService{db: manager}
}

func hashPassword(password string) (string, error) {
	salt := make([]byte, 16)
	if _, err := rand.Read(salt); err != nil {
		return "", err
	}
	hash := argon2.IDKey([]byte(password), salt, 1, 64*1024, 4, 32)
	return hex.EncodeToString(salt) + "$" + hex.EncodeToString(hash), nil
}

func checkPassword(stored, password string) (bool, error) {
	parts := strings.Split(stored, "$")
	if len(parts) != 2 {
		return false, errors.New("invalid password format")
	}
	salt, err := hex.DecodeString(parts[0])
	if err != nil {
		return false, err
	}
	want, err := hex.DecodeString(parts[1])
	if err != nil {
		return false, err
	}
	got := argon2.IDKey([]byte(password), salt, 1, 64*1024, 4, 32)
	return subtle.ConstantTimeCompare(got, want) == 1, nil
}

// Register создает пользователя и его профиль в одной транзакции
func (s *UserService) Register(ctx context.Context, req models.SignupRequest) (*models.User, *models.Profile, error) {
	if req.Username == "" || req.Email == "" || req.Password == "" || req.Password2 == "" {
		return nil, nil, ErrAllFieldsRequired
	}
	if req.Password != req.Password2 {
		return nil, nil, ErrPasswordMismatch
	}

	var count int64
	if err := s.db.Read(ctx).Model(&models.User{}).Where("email = ?", req.Email).Count(&count).Error; err != nil {
		return nil, nil, fmt.Errorf("error checking email: %w", err)
	}
	if count > 0 {
		return nil, nil, ErrEmailTaken
	}
	if err := s.db.Read(ctx).Model(&models.User{}).Where("username = ?", req.Username).Count(&count).Error; err != nil {
		return nil, nil, fmt.Errorf("error checking username: %w", err)
	}
	if count > 0 {
		return nil, nil, ErrUsernameTaken
	}

	passwordHash, err := hashPassword(req.Password)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{Username: req.Username, Email: req.Email, Password: passwordHash}
	profile := &models.Profile{ProfileImg: models.DefaultProfileImage}
	err = s.db.Write(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(user).Error; err != nil {
			return err
		}
		profile.UserID = user.ID
		return tx.Create(profile).Error
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create user: %w", err)
	}
	profile.User = user
	logger.Info("user registered", zap.String("username", user.Username), zap.Int64("id", user.ID))
	return user, profile, nil
}

func (s *UserService) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	if username == "" || password == "" {
		return nil, ErrCredentialsRequired
	}
	var user models.User
	err := s.db.Read(ctx).Where("username = ?", username).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	ok, err := checkPassword(user.Password, password)
	if err != nil {
		logger.Warn("stored password unreadable", zap.String("username", username), zap.Error(err))
		return nil, ErrInvalidCredentials
	}
	if !ok {
		return nil, ErrInvalidCredentials
	}
	return &user, nil
}

func (s *UserService) Get(ctx context.Context, id int64) (*models.User, error) {
	var user models.User
	err := s.db.Read(ctx).First(&user, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// PromoteSuperuser is used by the seeder and tests to create an administrator.
func (s *UserService) PromoteSuperuser(ctx context.Context, username string) error {
	res := s.db.Write(ctx).Model(&models.User{}).Where("username = ?", username).Update("is_superuser", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Exists returns ErrNotFound when there is no user with this username.
func (s *UserService) Exists(ctx context.Context, username string) error {
	var count int64
	if err := s.db.Read(ctx).Model(&models.User{}).Where("username = ?", username).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *UserService) ByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	err := s.db.Read(ctx).Where("username = ?", username).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}
