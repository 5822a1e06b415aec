package apartments

import (
	"context"

	"github.com/dmitrijs2005/residentportal/internal/server/models"
)

type Repository interface {
	List(ctx context.Context) ([]models.Apartment, error)
}
