package apartments

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/residentportal/internal/dbx"
	"github.com/dmitrijs2005/residentportal/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) List(ctx context.Context) ([]models.Apartment, error) {
	query :=
		`SELECT id, flat_number FROM apartments
		 ORDER BY flat_number
		 `

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make([]models.Apartment, 0)
	for rows.Next() {
		var a models.Apartment
		if err := rows.Scan(&a.ID, &a.FlatNumber); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}
