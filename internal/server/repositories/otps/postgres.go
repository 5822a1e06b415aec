package otps

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

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

func (r *PostgresRepository) Upsert(ctx context.Context, otp *models.OTP) error {
	query :=
		`INSERT INTO otps (email, code_hash, expires_at)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (email) DO UPDATE
		 SET code_hash = EXCLUDED.code_hash, expires_at = EXCLUDED.expires_at, created_at = now()
		 `

	if _, err := r.db.ExecContext(ctx, query, otp.Email, otp.CodeHash, otp.ExpiresAt); err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}

func (r *PostgresRepository) Get(ctx context.Context, email string) (*models.OTP, error) {
	query :=
		`SELECT email, code_hash, expires_at, created_at FROM otps
		 WHERE email = $1
		 `

	otp := &models.OTP{}
	err := r.db.QueryRowContext(ctx, query, email).Scan(&otp.Email, &otp.CodeHash, &otp.ExpiresAt, &otp.CreatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return otp, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, email string) error {
	query :=
		`DELETE FROM otps
		 WHERE email = $1
		 `

	res, err := r.db.ExecContext(ctx, query, email)
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

func (r *PostgresRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	query :=
		`DELETE FROM otps
		 WHERE expires_at <= $1
		 `

	res, err := r.db.ExecContext(ctx, query, now)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}

	return n, nil
}
