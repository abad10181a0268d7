package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"costume-rental-backend/internal/domain"
	"costume-rental-backend/internal/repository"
)

// Store is the Postgres-backed repository.Store.
type Store struct {
	db    *sql.DB
	repos *repository.Repositories
}

func NewStore(db *sql.DB) *Store {
	return &Store{
		db:    db,
		repos: newRepositories(db),
	}
}

func newRepositories(q repository.DBTX) *repository.Repositories {
	return &repository.Repositories{
		Costumes:  NewCostumeRepository(q),
		Rentals:   NewRentalRepository(q),
		Penalties: NewPenaltyRepository(q),
		Payments:  NewPaymentRepository(q),
		Users:     NewUserRepository(q),
	}
}

func (s *Store) Repos() *repository.Repositories { return s.repos }

// InTx runs fn against repositories bound to one transaction. fn returning an
// error rolls everything back; the commit error, if any, surfaces as a storage
// error.
func (s *Store) InTx(ctx context.Context, fn func(r *repository.Repositories) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return storageErr("begin transaction", err)
	}

	if err := fn(newRepositories(tx)); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return storageErr("commit transaction", err)
	}
	return nil
}

// storageErr classifies a driver-level failure. Postgres errors keep their
// SQLSTATE and constraint name so the log line is enough to replay the
// operation.
func storageErr(op string, err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return domain.StorageError(fmt.Sprintf("%s (sqlstate=%s constraint=%s)", op, pqErr.Code, pqErr.Constraint), err)
	}
	return domain.StorageError(op, err)
}
