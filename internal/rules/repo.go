package rules

import (
	"context"

	"github.com/angelmondragon/delivery-scheduler-backend/pkg/db/models"
	"gorm.io/gorm"
)

// Repository handles persistence for every scheduling collection. The admin
// dashboard saves whole collections at once, so writes are delete-and-insert
// inside one transaction rather than row-level updates.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to rule operations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// LoadSnapshot reads every collection in a single transaction.
func (r *Repository) LoadSnapshot(ctx context.Context) (*Snapshot, error) {
	var snap Snapshot
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Preload("Prefixes").Find(&snap.DeliveryAreas).Error; err != nil {
			return err
		}
		if err := tx.Find(&snap.GlobalTimeslots).Error; err != nil {
			return err
		}
		if err := tx.Find(&snap.DayAssignments).Error; err != nil {
			return err
		}
		if err := tx.Find(&snap.ExpressTimeslots).Error; err != nil {
			return err
		}
		if err := tx.Find(&snap.ExpressAssignments).Error; err != nil {
			return err
		}
		if err := tx.Find(&snap.BlockedDates).Error; err != nil {
			return err
		}
		if err := tx.Find(&snap.BlockedTimeslots).Error; err != nil {
			return err
		}
		if err := tx.Find(&snap.GlobalAdvanceRules).Error; err != nil {
			return err
		}
		if err := tx.Find(&snap.ProductAdvanceRules).Error; err != nil {
			return err
		}
		return tx.Find(&snap.Locations).Error
	})
	if err != nil {
		return nil, err
	}
	return &snap, nil
}

// replaceAll clears a table and inserts the replacement rows atomically.
func replaceAll[T any](ctx context.Context, db *gorm.DB, rows []T) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var zero T
		if err := tx.Where("1 = 1").Delete(&zero).Error; err != nil {
			return err
		}
		if len(rows) == 0 {
			return nil
		}
		return tx.Create(&rows).Error
	})
}

// ReplaceDeliveryAreas swaps all delivery areas and their prefixes.
func (r *Repository) ReplaceDeliveryAreas(ctx context.Context, areas []models.DeliveryArea) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&models.PostalCodePrefix{}).Error; err != nil {
			return err
		}
		if err := tx.Where("1 = 1").Delete(&models.DeliveryArea{}).Error; err != nil {
			return err
		}
		if len(areas) == 0 {
			return nil
		}
		return tx.Create(&areas).Error
	})
}

// ReplaceGlobalTimeslots swaps all global timeslots.
func (r *Repository) ReplaceGlobalTimeslots(ctx context.Context, slots []models.GlobalTimeslot) error {
	return replaceAll(ctx, r.db, slots)
}

// ReplaceDayAssignments swaps the weekday assignment grid.
func (r *Repository) ReplaceDayAssignments(ctx context.Context, assignments []models.DayTimeslotAssignment) error {
	return replaceAll(ctx, r.db, assignments)
}

// ReplaceExpressTimeslots swaps all express timeslots.
func (r *Repository) ReplaceExpressTimeslots(ctx context.Context, slots []models.ExpressTimeslot) error {
	return replaceAll(ctx, r.db, slots)
}

// ReplaceExpressAssignments swaps the express weekday assignments.
func (r *Repository) ReplaceExpressAssignments(ctx context.Context, assignments []models.ExpressTimeslotAssignment) error {
	return replaceAll(ctx, r.db, assignments)
}

// ReplaceBlockedDates swaps all blocked dates.
func (r *Repository) ReplaceBlockedDates(ctx context.Context, dates []models.BlockedDate) error {
	return replaceAll(ctx, r.db, dates)
}

// ReplaceBlockedTimeslots swaps all blocked-timeslot overrides.
func (r *Repository) ReplaceBlockedTimeslots(ctx context.Context, slots []models.BlockedTimeslot) error {
	return replaceAll(ctx, r.db, slots)
}

// ReplaceGlobalAdvanceRules swaps all global advance-order rules.
func (r *Repository) ReplaceGlobalAdvanceRules(ctx context.Context, rules []models.GlobalAdvanceOrderRule) error {
	return replaceAll(ctx, r.db, rules)
}

// ReplaceProductAdvanceRules swaps all product advance-order rules.
func (r *Repository) ReplaceProductAdvanceRules(ctx context.Context, rules []models.ProductAdvanceOrderRule) error {
	return replaceAll(ctx, r.db, rules)
}

// ReplaceLocations swaps all collection points.
func (r *Repository) ReplaceLocations(ctx context.Context, locations []models.Location) error {
	return replaceAll(ctx, r.db, locations)
}

// CountGlobalTimeslots reports how many global timeslots exist. Used to
// decide whether a fresh install needs seeding.
func (r *Repository) CountGlobalTimeslots(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.GlobalTimeslot{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
