package locations

import (
	"context"
	"fmt"

	"github.com/angelmondragon/delivery-scheduler-backend/pkg/db/models"
	"gorm.io/gorm"
)

// Repository handles collection-point persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to location operations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// List returns locations, optionally filtered to active ones.
func (r *Repository) List(ctx context.Context, activeOnly bool) ([]models.Location, error) {
	query := r.db.WithContext(ctx).Order("name asc")
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}
	var out []models.Location
	if err := query.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// FindByID loads one location.
func (r *Repository) FindByID(ctx context.Context, id int64) (*models.Location, error) {
	var loc models.Location
	if err := r.db.WithContext(ctx).First(&loc, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &loc, nil
}

// Create persists a new location row.
func (r *Repository) Create(ctx context.Context, loc *models.Location) error {
	if loc == nil {
		return fmt.Errorf("location is required")
	}
	return r.db.WithContext(ctx).Create(loc).Error
}

// Update saves the provided location.
func (r *Repository) Update(ctx context.Context, loc *models.Location) error {
	if loc == nil {
		return fmt.Errorf("location is required")
	}
	return r.db.WithContext(ctx).Save(loc).Error
}

// Delete removes a location by ID.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).Delete(&models.Location{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
