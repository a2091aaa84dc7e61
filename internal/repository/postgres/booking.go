package postgres

import (
	"context"

	"farmtap-backend/internal/domain"
	"farmtap-backend/internal/logger"
	"farmtap-backend/internal/repository"

	"github.com/jmoiron/sqlx"
)

const bookingSelect = `SELECT b.id, b.equipment_id, b.farmer_id,
	to_char(b.start_date, 'YYYY-MM-DD') AS start_date, to_char(b.end_date, 'YYYY-MM-DD') AS end_date,
	b.total_price_cents, b.status, b.created_at, e.name AS equipment_name, e.owner_id
	FROM bookings b JOIN equipment e ON e.id = b.equipment_id`

// Ties on created_at are broken by id so the order is total.
const bookingOrder = ` ORDER BY b.created_at DESC, b.id DESC`

type bookingRepository struct {
	db *sqlx.DB
}

func NewBookingRepository(db *sqlx.DB) repository.BookingRepository {
	return &bookingRepository{db: db}
}

func (r *bookingRepository) Create(ctx context.Context, b *domain.Booking) error {
	query := `INSERT INTO bookings (equipment_id, farmer_id, start_date, end_date, total_price_cents, status)
	          VALUES ($1, $2, $3, $4, $5, $6) RETURNING id, created_at`
	start := logger.DatabaseCall("bookings.create", query, "equipment_id", b.EquipmentID, "farmer_id", b.FarmerID)
	err := r.db.QueryRowxContext(ctx, query,
		b.EquipmentID, b.FarmerID, b.StartDate, b.EndDate, b.TotalPriceCents, b.Status,
	).Scan(&b.ID, &b.CreatedAt)
	return finish("bookings.create", start, 1, err)
}

func (r *bookingRepository) GetByID(ctx context.Context, id int32) (*domain.Booking, error) {
	query := bookingSelect + ` WHERE b.id = $1`
	start := logger.DatabaseCall("bookings.get_by_id", query, "id", id)
	var b domain.Booking
	if err := finish("bookings.get_by_id", start, 1, r.db.GetContext(ctx, &b, query, id)); err != nil {
		return nil, err
	}
	return &b, nil
}

// ListForUser returns bookings made by the user or placed on equipment the user owns.
func (r *bookingRepository) ListForUser(ctx context.Context, userID int32) ([]domain.Booking, error) {
	return r.list(ctx, "bookings.list_for_user", bookingSelect+` WHERE b.farmer_id = $1 OR e.owner_id = $1`+bookingOrder, userID)
}

func (r *bookingRepository) ListByFarmer(ctx context.Context, farmerID int32) ([]domain.Booking, error) {
	return r.list(ctx, "bookings.list_by_farmer", bookingSelect+` WHERE b.farmer_id = $1`+bookingOrder, farmerID)
}

func (r *bookingRepository) ListByOwner(ctx context.Context, ownerID int32) ([]domain.Booking, error) {
	return r.list(ctx, "bookings.list_by_owner", bookingSelect+` WHERE e.owner_id = $1`+bookingOrder, ownerID)
}

func (r *bookingRepository) ListAll(ctx context.Context) ([]domain.Booking, error) {
	return r.list(ctx, "bookings.list_all", bookingSelect+bookingOrder)
}

func (r *bookingRepository) list(ctx context.Context, operation, query string, args ...any) ([]domain.Booking, error) {
	start := logger.DatabaseCall(operation, query)
	bookings := []domain.Booking{}
	err := r.db.SelectContext(ctx, &bookings, query, args...)
	if err := finish(operation, start, int64(len(bookings)), err); err != nil {
		return nil, err
	}
	return bookings, nil
}

func (r *bookingRepository) UpdateStatus(ctx context.Context, id int32, status domain.BookingStatus) error {
	return execAffectingOne(ctx, r.db, "bookings.update_status",
		`UPDATE bookings SET status = $1 WHERE id = $2`, status, id)
}

func (r *bookingRepository) Delete(ctx context.Context, id int32) error {
	return execAffectingOne(ctx, r.db, "bookings.delete", `DELETE FROM bookings WHERE id = $1`, id)
}
