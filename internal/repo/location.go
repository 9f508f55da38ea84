package repo

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/foodfinder/foodfinder-api/internal/models"
)

var ErrLocationNotFound = errors.New("location not found")

func (s *Store) FindAllLocations(ctx context.Context) ([]models.Location, error) {
	var locations []models.Location
	if err := s.DB.WithContext(ctx).Order("name").Find(&locations).Error; err != nil {
		return nil, fmt.Errorf("find locations: %w", err)
	}
	return locations, nil
}

func (s *Store) FindLocationByID(ctx context.Context, id uint) (*models.Location, error) {
	var location models.Location
	if err := s.DB.WithContext(ctx).Where("id = ?", id).First(&location).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLocationNotFound
		}
		return nil, fmt.Errorf("find location by id: %w", err)
	}
	return &location, nil
}

func (s *Store) FindLocationsByCity(ctx context.Context, cityID uint) ([]models.Location, error) {
	var locations []models.Location
	if err := s.DB.WithContext(ctx).Where("city_id = ?", cityID).Order("name").Find(&locations).Error; err != nil {
		return nil, fmt.Errorf("find locations by city: %w", err)
	}
	return locations, nil
}

func (s *Store) CreateLocation(ctx context.Context, location *models.Location) error {
	if err := s.DB.WithContext(ctx).Create(location).Error; err != nil {
		return fmt.Errorf("create location: %w", err)
	}
	return nil
}

func (s *Store) FindAllCities(ctx context.Context) ([]models.City, error) {
	var cities []models.City
	if err := s.DB.WithContext(ctx).Order("name").Find(&cities).Error; err != nil {
		return nil, fmt.Errorf("find cities: %w", err)
	}
	return cities, nil
}
