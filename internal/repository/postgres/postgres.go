package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"farmtap-backend/internal/logger"
	"farmtap-backend/internal/repository"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

const (
	pqUniqueViolation     = "23505"
	pqForeignKeyViolation = "23503"
)

type Store struct {
	db *sqlx.DB
	repository.UserRepository
	repository.EquipmentRepository
	repository.BookingRepository
}

func NewStore(db *sqlx.DB) *Store {
	return &Store{
		db:                  db,
		UserRepository:      NewUserRepository(db),
		EquipmentRepository: NewEquipmentRepository(db),
		BookingRepository:   NewBookingRepository(db),
	}
}

// Ping checks that the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Open connects to PostgreSQL and verifies the connection.
func Open(ctx context.Context, dsn string, maxOpen, maxIdle int) (*sqlx.DB, error) {
	db, err := sqlx.ConnectContext(ctx, "postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	db.SetMaxOpenConns(maxOpen)
	db.SetMaxIdleConns(maxIdle)
	db.SetConnMaxLifetime(30 * time.Minute)
	return db, nil
}

// mapError translates driver errors into repository errors.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return repository.ErrNotFound
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case pqUniqueViolation:
			return fmt.Errorf("%w: %s", repository.ErrDuplicate, pqErr.Constraint)
		case pqForeignKeyViolation:
			return fmt.Errorf("%w: %s", repository.ErrNotFound, pqErr.Constraint)
		}
	}
	return err
}

// finish logs the result of a database call and maps its error.
func finish(operation string, start time.Time, rows int64, err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		logger.DatabaseResult(operation, start, 0, nil)
		return repository.ErrNotFound
	}
	logger.DatabaseResult(operation, start, rows, err)
	return mapError(err)
}

// execAffectingOne runs an update or delete that must touch exactly one row.
func execAffectingOne(ctx context.Context, db *sqlx.DB, operation, query string, args ...any) error {
	start := logger.DatabaseCall(operation, query)
	res, err := db.ExecContext(ctx, query, args...)
	if err != nil {
		return finish(operation, start, 0, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return finish(operation, start, 0, err)
	}
	logger.DatabaseResult(operation, start, n, nil)
	if n == 0 {
		return repository.ErrNotFound
	}
	return nil
}
