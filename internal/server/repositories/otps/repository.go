package otps

import (
	"context"
	"time"

	"github.com/dmitrijs2005/residentportal/internal/server/models"
)

type Repository interface {
	// Upsert replaces any pending code for otp.Email.
	Upsert(ctx context.Context, otp *models.OTP) error
	Get(ctx context.Context, email string) (*models.OTP, error)
	// Delete returns common.ErrorNotFound when there was nothing to delete,
	// which lets a verification consume a code at most once.
	Delete(ctx context.Context, email string) error
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}
