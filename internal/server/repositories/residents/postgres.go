package residents

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/residentportal/internal/common"
	"github.com/dmitrijs2005/residentportal/internal/dbx"
	"github.com/dmitrijs2005/residentportal/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*models.Resident, error) {
	query :=
		`SELECT r.id, r.apartment_id, a.flat_number, r.email, r.name, r.role, r.password_hash, r.created_at
		 FROM residents r JOIN apartments a ON a.id = r.apartment_id
		 WHERE lower(r.email) = lower($1)
		 `

	res := &models.Resident{}
	err := r.db.QueryRowContext(ctx, query, email).Scan(
		&res.ID, &res.ApartmentID, &res.FlatNumber, &res.Email, &res.Name, &res.Role, &res.PasswordHash, &res.CreatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return res, nil
}

func (r *PostgresRepository) ListEmailsByFlat(ctx context.Context, flatNumber string) ([]string, error) {
	query :=
		`SELECT r.email
		 FROM residents r JOIN apartments a ON a.id = r.apartment_id
		 WHERE a.flat_number = $1
		 ORDER BY r.email
		 `

	rows, err := r.db.QueryContext(ctx, query, flatNumber)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	emails := make([]string, 0)
	for rows.Next() {
		var e string
		if err := rows.Scan(&e); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		emails = append(emails, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return emails, nil
}

func (r *PostgresRepository) UpdatePasswordHash(ctx context.Context, residentID, hash string) error {
	query :=
		`UPDATE residents SET password_hash = $2
		 WHERE id = $1
		 `

	res, err := r.db.ExecContext(ctx, query, residentID, hash)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}

	return nil
}
