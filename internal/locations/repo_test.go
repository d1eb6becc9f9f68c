package locations

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/angelmondragon/delivery-scheduler-backend/pkg/db/models"
)

func setupLocationsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.Exec(`CREATE TABLE locations (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  name TEXT NOT NULL,
  address1 TEXT NOT NULL,
  address2 TEXT,
  city TEXT NOT NULL,
  province TEXT,
  country TEXT NOT NULL DEFAULT 'Singapore',
  zip TEXT NOT NULL,
  is_active INTEGER NOT NULL DEFAULT 1,
  created_at DATETIME,
  updated_at DATETIME
);`).Error)
	return db
}

func seedLocation(t *testing.T, repo *Repository, name string, active bool) *models.Location {
	t.Helper()

	loc := &models.Location{
		Name: name,
		Address: models.LocationAddress{
			Address1: "123 Orchard Road",
			City:     "Singapore",
			Country:  "Singapore",
			Zip:      "238838",
		},
		IsActive: active,
	}
	require.NoError(t, repo.Create(context.Background(), loc))
	return loc
}

func TestRepositoryListActiveOnlySortsByName(t *testing.T) {
	repo := NewRepository(setupLocationsTestDB(t))

	seedLocation(t, repo, "Westgate Pickup", true)
	seedLocation(t, repo, "Main Store", true)
	seedLocation(t, repo, "Closed Outlet", false)

	active, err := repo.List(context.Background(), true)
	require.NoError(t, err)
	require.Len(t, active, 2)
	assert.Equal(t, "Main Store", active[0].Name)
	assert.Equal(t, "Westgate Pickup", active[1].Name)

	all, err := repo.List(context.Background(), false)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestRepositoryUpdatePersistsChanges(t *testing.T) {
	repo := NewRepository(setupLocationsTestDB(t))
	loc := seedLocation(t, repo, "Main Store", true)

	loc.Name = "Flagship Store"
	loc.IsActive = false
	require.NoError(t, repo.Update(context.Background(), loc))

	got, err := repo.FindByID(context.Background(), loc.ID)
	require.NoError(t, err)
	assert.Equal(t, "Flagship Store", got.Name)
	assert.False(t, got.IsActive)
}

func TestRepositoryDeleteMissingRow(t *testing.T) {
	repo := NewRepository(setupLocationsTestDB(t))

	err := repo.Delete(context.Background(), 99)
	require.Error(t, err)
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
}
