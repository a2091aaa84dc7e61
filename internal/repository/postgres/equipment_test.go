package postgres_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"farmtap-backend/internal/domain"
	"farmtap-backend/internal/repository"
	"farmtap-backend/internal/repository/postgres"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var equipmentCols = []string{"id", "owner_id", "owner_name", "name", "type", "description",
	"rental_price_per_day_cents", "is_available", "location", "image_url", "image_key", "created_at"}

func TestEquipmentRepository_Create(t *testing.T) {
	db, mock := newMockDB(t)
	repo := postgres.NewEquipmentRepository(db)
	ctx := context.Background()
	now := time.Now()

	t.Run("Success", func(t *testing.T) {
		e := &domain.Equipment{OwnerID: 2, Name: "Tractor", Type: "Tractor", RentalPricePerDayCents: 150000, IsAvailable: true}
		mock.ExpectQuery("INSERT INTO equipment").
			WithArgs(int32(2), "Tractor", "Tractor", "", int64(150000), true, "", "").
			WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "name"}).AddRow(11, now, "Suresh"))

		require.NoError(t, repo.Create(ctx, e))
		assert.Equal(t, int32(11), e.ID)
		assert.Equal(t, "Suresh", e.OwnerName)
	})

	t.Run("Unknown owner", func(t *testing.T) {
		mock.ExpectQuery("INSERT INTO equipment").
			WillReturnError(&pq.Error{Code: "23503", Constraint: "equipment_owner_id_fkey"})

		err := repo.Create(ctx, &domain.Equipment{OwnerID: 99, Name: "Plough", RentalPricePerDayCents: 1})
		assert.ErrorIs(t, err, repository.ErrNotFound)
	})
}

func TestEquipmentRepository_GetByID(t *testing.T) {
	db, mock := newMockDB(t)
	repo := postgres.NewEquipmentRepository(db)
	ctx := context.Background()

	t.Run("Found", func(t *testing.T) {
		mock.ExpectQuery("FROM equipment e JOIN users u ON u.id = e.owner_id WHERE e.id = \\$1").
			WithArgs(int32(11)).
			WillReturnRows(sqlmock.NewRows(equipmentCols).
				AddRow(11, 2, "Suresh", "Tractor", "Tractor", "45 HP", 150000, true, "Rampur", "", "equipment/11/a.png", time.Now()))

		e, err := repo.GetByID(ctx, 11)
		require.NoError(t, err)
		assert.Equal(t, int64(150000), e.RentalPricePerDayCents)
		assert.Equal(t, int32(2), e.OwnerID)
		assert.True(t, e.IsAvailable)
		assert.Equal(t, "equipment/11/a.png", e.ImageKey)
	})

	t.Run("Missing", func(t *testing.T) {
		mock.ExpectQuery("WHERE e.id = \\$1").WithArgs(int32(12)).WillReturnError(sql.ErrNoRows)
		_, err := repo.GetByID(ctx, 12)
		assert.ErrorIs(t, err, repository.ErrNotFound)
	})
}

func TestEquipmentRepository_Lists(t *testing.T) {
	db, mock := newMockDB(t)
	repo := postgres.NewEquipmentRepository(db)
	ctx := context.Background()

	t.Run("Available", func(t *testing.T) {
		mock.ExpectQuery("WHERE e.is_available ORDER BY e.created_at DESC, e.id DESC").
			WillReturnRows(sqlmock.NewRows(equipmentCols).
				AddRow(2, 1, "O", "Sprayer", "Sprayer", "", 5000, true, "", "", "", time.Now()).
				AddRow(1, 1, "O", "Tractor", "Tractor", "", 9000, true, "", "", "", time.Now()))

		items, err := repo.ListAvailable(ctx)
		require.NoError(t, err)
		assert.Len(t, items, 2)
		assert.Equal(t, "Sprayer", items[0].Name)
	})

	t.Run("By owner empty", func(t *testing.T) {
		mock.ExpectQuery("WHERE e.owner_id = \\$1").
			WithArgs(int32(5)).
			WillReturnRows(sqlmock.NewRows(equipmentCols))

		items, err := repo.ListByOwner(ctx, 5)
		require.NoError(t, err)
		assert.NotNil(t, items)
		assert.Empty(t, items)
	})
}

func TestEquipmentRepository_Mutations(t *testing.T) {
	db, mock := newMockDB(t)
	repo := postgres.NewEquipmentRepository(db)
	ctx := context.Background()

	mock.ExpectExec("UPDATE equipment SET is_available").WithArgs(false, int32(3)).WillReturnResult(sqlmock.NewResult(0, 1))
	assert.NoError(t, repo.SetAvailability(ctx, 3, false))

	mock.ExpectExec("UPDATE equipment SET image_key = \\$1, image_url = ''").WithArgs("equipment/3/b.png", int32(3)).WillReturnResult(sqlmock.NewResult(0, 1))
	assert.NoError(t, repo.SetImageKey(ctx, 3, "equipment/3/b.png"))

	mock.ExpectExec("DELETE FROM equipment").WithArgs(int32(4)).WillReturnResult(sqlmock.NewResult(0, 0))
	assert.ErrorIs(t, repo.Delete(ctx, 4), repository.ErrNotFound)

	assert.NoError(t, mock.ExpectationsWereMet())
}
