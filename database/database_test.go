package database

import (
	"testing"

	"therapyhub-menus/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestDialector(t *testing.T) {
	for _, driver := range []string{"mysql", "postgres", "sqlserver", "sqlite"} {
		d, err := Dialector(driver, "")
		require.NoError(t, err, driver)
		assert.NotNil(t, d, driver)
	}

	_, err := Dialector("oracle", "")
	assert.Error(t, err)
}

func TestSeedInitialData(t *testing.T) {
	db := SetupTestDB(t)

	require.NoError(t, SeedInitialData(db, zap.NewNop()))

	var menus []models.Menu
	require.NoError(t, db.Find(&menus).Error)
	assert.Len(t, menus, 4)

	var admin models.UserType
	require.NoError(t, db.Where("is_system = ?", true).First(&admin).Error)
	assert.Equal(t, "Administrator", admin.Name)

	var grants int64
	require.NoError(t, db.Model(&models.UserTypeMenu{}).Where("user_type_id = ?", admin.ID).Count(&grants).Error)
	assert.EqualValues(t, 3, grants)

	// A second run must not duplicate anything.
	require.NoError(t, SeedInitialData(db, zap.NewNop()))
	var count int64
	require.NoError(t, db.Model(&models.Menu{}).Count(&count).Error)
	assert.EqualValues(t, 4, count)
}

func TestPing(t *testing.T) {
	db := SetupTestDB(t)
	assert.NoError(t, Ping(db))
}
