package postgres

import (
	"context"

	"farmtap-backend/internal/domain"
	"farmtap-backend/internal/logger"
	"farmtap-backend/internal/repository"

	"github.com/jmoiron/sqlx"
)

const equipmentSelect = `SELECT e.id, e.owner_id, u.name AS owner_name, e.name, e.type, e.description,
	e.rental_price_per_day_cents, e.is_available, e.location, e.image_url, e.image_key, e.created_at
	FROM equipment e JOIN users u ON u.id = e.owner_id`

type equipmentRepository struct {
	db *sqlx.DB
}

func NewEquipmentRepository(db *sqlx.DB) repository.EquipmentRepository {
	return &equipmentRepository{db: db}
}

func (r *equipmentRepository) Create(ctx context.Context, e *domain.Equipment) error {
	query := `WITH ins AS (
	              INSERT INTO equipment (owner_id, name, type, description, rental_price_per_day_cents,
	                                     is_available, location, image_url)
	              VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	              RETURNING id, owner_id, created_at
	          )
	          SELECT ins.id, ins.created_at, u.name FROM ins JOIN users u ON u.id = ins.owner_id`
	start := logger.DatabaseCall("equipment.create", query, "owner_id", e.OwnerID)
	err := r.db.QueryRowxContext(ctx, query,
		e.OwnerID, e.Name, e.Type, e.Description, e.RentalPricePerDayCents,
		e.IsAvailable, e.Location, e.ImageURL,
	).Scan(&e.ID, &e.CreatedAt, &e.OwnerName)
	return finish("equipment.create", start, 1, err)
}

func (r *equipmentRepository) GetByID(ctx context.Context, id int32) (*domain.Equipment, error) {
	query := equipmentSelect + ` WHERE e.id = $1`
	start := logger.DatabaseCall("equipment.get_by_id", query, "id", id)
	var e domain.Equipment
	if err := finish("equipment.get_by_id", start, 1, r.db.GetContext(ctx, &e, query, id)); err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *equipmentRepository) ListAvailable(ctx context.Context) ([]domain.Equipment, error) {
	return r.list(ctx, "equipment.list_available", equipmentSelect+` WHERE e.is_available ORDER BY e.created_at DESC, e.id DESC`)
}

func (r *equipmentRepository) ListByOwner(ctx context.Context, ownerID int32) ([]domain.Equipment, error) {
	return r.list(ctx, "equipment.list_by_owner", equipmentSelect+` WHERE e.owner_id = $1 ORDER BY e.created_at DESC, e.id DESC`, ownerID)
}

func (r *equipmentRepository) list(ctx context.Context, operation, query string, args ...any) ([]domain.Equipment, error) {
	start := logger.DatabaseCall(operation, query)
	items := []domain.Equipment{}
	err := r.db.SelectContext(ctx, &items, query, args...)
	if err := finish(operation, start, int64(len(items)), err); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *equipmentRepository) SetAvailability(ctx context.Context, id int32, available bool) error {
	return execAffectingOne(ctx, r.db, "equipment.set_availability",
		`UPDATE equipment SET is_available = $1 WHERE id = $2`, available, id)
}

// SetImageKey points the equipment at an uploaded image and clears any
// external image URL.
func (r *equipmentRepository) SetImageKey(ctx context.Context, id int32, key string) error {
	return execAffectingOne(ctx, r.db, "equipment.set_image_key",
		`UPDATE equipment SET image_key = $1, image_url = '' WHERE id = $2`, key, id)
}

func (r *equipmentRepository) Delete(ctx context.Context, id int32) error {
	return execAffectingOne(ctx, r.db, "equipment.delete", `DELETE FROM equipment WHERE id = $1`, id)
}
