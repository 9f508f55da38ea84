package repo

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/foodfinder/foodfinder-api/internal/models"
)

var (
	ErrUserNotFound = errors.New("user not found")
	ErrUserExists   = errors.New("user already exists")
)

func (s *Store) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	if err := s.DB.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("find user by username: %w", err)
	}
	return &user, nil
}

func (s *Store) FindByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := s.DB.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("find user by id: %w", err)
	}
	return &user, nil
}

// CreateUser checks for a duplicate username before the insert; the unique
// index on the column backs this up against races.
func (s *Store) CreateUser(ctx context.Context, username, passwordHash string) (*models.User, error) {
	var existing models.User
	err := s.DB.WithContext(ctx).Where("username = ?", username).First(&existing).Error
	if err == nil {
		return nil, ErrUserExists
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("check existing user: %w", err)
	}

	user := models.User{
		Username:     username,
		PasswordHash: passwordHash,
	}
	if err := s.DB.WithContext(ctx).Create(&user).Error; err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return &user, nil
}

// SetTokens overwrites both token columns in a single record update.
func (s *Store) SetTokens(ctx context.Context, userID uint, accessToken, refreshToken string) error {
	result := s.DB.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", userID).
		Updates(map[string]any{
			"access_token":  accessToken,
			"refresh_token": refreshToken,
		})
	if result.Error != nil {
		return fmt.Errorf("set tokens: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

// ClearTokens nulls both token columns (sign-out).
func (s *Store) ClearTokens(ctx context.Context, userID uint) error {
	result := s.DB.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", userID).
		Updates(map[string]any{
			"access_token":  nil,
			"refresh_token": nil,
		})
	if result.Error != nil {
		return fmt.Errorf("clear tokens: %w", result.Error)
	}
	return nil
}
