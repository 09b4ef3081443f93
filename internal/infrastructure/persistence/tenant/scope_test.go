package tenant

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type row struct {
	ID       uuid.UUID `gorm:"type:uuid;primary_key"`
	TenantID uuid.UUID `gorm:"type:uuid"`
	Name     string
}

func setupDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&row{}))
	return db
}

func TestForTenant_RejectsNilTenant(t *testing.T) {
	scoped := New(setupDB(t))

	_, err := scoped.ForTenant(context.Background(), uuid.Nil)
	assert.ErrorIs(t, err, ErrMissingTenant)

	_, err = scoped.Writer(context.Background(), uuid.Nil)
	assert.ErrorIs(t, err, ErrMissingTenant)
}

func TestForTenant_FiltersRows(t *testing.T) {
	db := setupDB(t)
	scoped := New(db)
	ctx := context.Background()
	tenantA, tenantB := uuid.New(), uuid.New()

	require.NoError(t, db.Create(&row{ID: uuid.New(), TenantID: tenantA, Name: "a"}).Error)
	require.NoError(t, db.Create(&row{ID: uuid.New(), TenantID: tenantB, Name: "b"}).Error)

	q, err := scoped.ForTenant(ctx, tenantA)
	require.NoError(t, err)
	var rows []row
	require.NoError(t, q.Find(&rows).Error)
	require.Len(t, rows, 1)
	assert.Equal(t, "a", rows[0].Name)
}

func TestTransaction_RollsBack(t *testing.T) {
	db := setupDB(t)
	scoped := New(db)
	ctx := context.Background()
	tenantID := uuid.New()

	err := scoped.Transaction(ctx, func(tx *DB) error {
		w, err := tx.Writer(ctx, tenantID)
		require.NoError(t, err)
		require.NoError(t, w.Create(&row{ID: uuid.New(), TenantID: tenantID, Name: "x"}).Error)
		return assert.AnError
	})
	assert.ErrorIs(t, err, assert.AnError)

	var count int64
	require.NoError(t, db.Model(&row{}).Count(&count).Error)
	assert.Zero(t, count)
}
