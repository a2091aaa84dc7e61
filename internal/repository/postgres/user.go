package postgres

import (
	"context"

	"farmtap-backend/internal/domain"
	"farmtap-backend/internal/logger"
	"farmtap-backend/internal/repository"

	"github.com/jmoiron/sqlx"
)

const userColumns = `id, email, password_hash, name, role, phone_number, id_document_number,
	village_name, district, state, postal_code, profile_image_url, created_at, updated_at`

type userRepository struct {
	db *sqlx.DB
}

func NewUserRepository(db *sqlx.DB) repository.UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, u *domain.User) error {
	query := `INSERT INTO users (email, password_hash, name, role, phone_number, id_document_number,
	          village_name, district, state, postal_code, profile_image_url)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11) RETURNING id, created_at, updated_at`
	start := logger.DatabaseCall("users.create", query, "email", u.Email)
	err := r.db.QueryRowxContext(ctx, query,
		u.Email, u.PasswordHash, u.Name, u.Role, u.PhoneNumber, u.IDDocumentNumber,
		u.VillageName, u.District, u.State, u.PostalCode, u.ProfileImageURL,
	).Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt)
	return finish("users.create", start, 1, err)
}

func (r *userRepository) GetByID(ctx context.Context, id int32) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	start := logger.DatabaseCall("users.get_by_id", query, "id", id)
	var u domain.User
	if err := finish("users.get_by_id", start, 1, r.db.GetContext(ctx, &u, query, id)); err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE LOWER(email) = LOWER($1)`
	start := logger.DatabaseCall("users.get_by_email", query)
	var u domain.User
	if err := finish("users.get_by_email", start, 1, r.db.GetContext(ctx, &u, query, email)); err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *userRepository) List(ctx context.Context) ([]domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users ORDER BY id`
	start := logger.DatabaseCall("users.list", query)
	users := []domain.User{}
	err := r.db.SelectContext(ctx, &users, query)
	if err := finish("users.list", start, int64(len(users)), err); err != nil {
		return nil, err
	}
	return users, nil
}

func (r *userRepository) UpdateProfile(ctx context.Context, u *domain.User) error {
	query := `UPDATE users SET name = $1, phone_number = $2, village_name = $3, district = $4,
	          state = $5, postal_code = $6, updated_at = NOW()
	          WHERE id = $7 RETURNING updated_at`
	start := logger.DatabaseCall("users.update_profile", query, "id", u.ID)
	err := r.db.QueryRowxContext(ctx, query,
		u.Name, u.PhoneNumber, u.VillageName, u.District, u.State, u.PostalCode, u.ID,
	).Scan(&u.UpdatedAt)
	return finish("users.update_profile", start, 1, err)
}

func (r *userRepository) Delete(ctx context.Context, id int32) error {
	return execAffectingOne(ctx, r.db, "users.delete", `DELETE FROM users WHERE id = $1`, id)
}
