package residents

import (
	"context"

	"github.com/dmitrijs2005/residentportal/internal/server/models"
)

type Repository interface {
	// GetByEmail matches case-insensitively.
	GetByEmail(ctx context.Context, email string) (*models.Resident, error)
	ListEmailsByFlat(ctx context.Context, flatNumber string) ([]string, error)
	UpdatePasswordHash(ctx context.Context, residentID, hash string) error
}
