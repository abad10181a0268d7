package postgres

import (
	"context"
	"database/sql"

	"costume-rental-backend/internal/domain"
	"costume-rental-backend/internal/repository"
)

type userRepository struct {
	db repository.DBTX
}

func NewUserRepository(db repository.DBTX) repository.UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	query := `SELECT id, email, full_name, phone, role, status FROM users WHERE id = $1`
	u := &domain.User{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(&u.ID, &u.Email, &u.FullName, &u.Phone, &u.Role, &u.Status)
	if err == sql.ErrNoRows {
		return nil, domain.NotFoundf("user %d not found", id)
	}
	if err != nil {
		return nil, storageErr("get user", err)
	}
	return u, nil
}
