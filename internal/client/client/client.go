package client

import (
	"context"

	"github.com/dmitrijs2005/residentportal/internal/api"
)

type Client interface {
	Ping(ctx context.Context) error
	// GetEmailByFlatNo returns the emails registered for the flat.
	GetEmailByFlatNo(ctx context.Context, flatNo string) ([]string, error)
	RequestPasswordReset(ctx context.Context, flatNo string) error
	// VerifyOTP returns the bearer token issued for a valid code.
	VerifyOTP(ctx context.Context, email, otp string) (string, error)
	Login(ctx context.Context, email, password string) (string, error)
	ChangePassword(ctx context.Context, email, newPassword string) error
	GetAllApartments(ctx context.Context) ([]api.Apartment, error)
}
