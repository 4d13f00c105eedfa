package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

type UserRow struct {
	ID           string
	Email        string
	FullName     string
	PasswordHash string
	Role         string
	WarehouseID  *int64
	IsActive     bool
}

type UserRepo struct {
	db *pgxpool.Pool
}

func NewUserRepo(db *pgxpool.Pool) *UserRepo {
	return &UserRepo{db: db}
}

func (r *UserRepo) FindByEmail(ctx context.Context, email string) (*UserRow, error) {
	row := r.db.QueryRow(ctx, `
		SELECT id::text, email, full_name, password_hash, role, warehouse_id, is_active
		FROM users
		WHERE email = $1
	`, email)

	var u UserRow
	if err := row.Scan(&u.ID, &u.Email, &u.FullName, &u.PasswordHash, &u.Role, &u.WarehouseID, &u.IsActive); err != nil {
		return nil, err
	}
	return &u, nil
}
