// Package services implements the portal backend use cases on top of the
// repositories: apartment lookup, OTP issuance and verification, password
// login and password changes.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/dmitrijs2005/residentportal/internal/common"
	"github.com/dmitrijs2005/residentportal/internal/dbx"
	"github.com/dmitrijs2005/residentportal/internal/logging"
	"github.com/dmitrijs2005/residentportal/internal/server/auth"
	"github.com/dmitrijs2005/residentportal/internal/server/config"
	"github.com/dmitrijs2005/residentportal/internal/server/mailer"
	"github.com/dmitrijs2005/residentportal/internal/server/models"
	"github.com/dmitrijs2005/residentportal/internal/server/ratelimit"
	"github.com/dmitrijs2005/residentportal/internal/server/repositories/repomanager"
	"golang.org/x/crypto/bcrypt"
)

var otpPattern = regexp.MustCompile(`^\d{6}$`)

type PortalService struct {
	db                          *sql.DB
	repomanager                 repomanager.RepositoryManager
	limiter                     ratelimit.Limiter
	mailer                      mailer.Mailer
	logger                      logging.Logger
	jwtSecret                   []byte
	accessTokenValidityDuration time.Duration
	otpValidityDuration         time.Duration

	now      func() time.Time
	genCode  func() (string, error)
	hashCost int
}

func NewPortalService(db *sql.DB, m repomanager.RepositoryManager, limiter ratelimit.Limiter, ml mailer.Mailer,
	cfg *config.Config, logger logging.Logger) *PortalService {
	return &PortalService{
		db:                          db,
		repomanager:                 m,
		limiter:                     limiter,
		mailer:                      ml,
		logger:                      logger.With("module", "portal_service"),
		jwtSecret:                   []byte(cfg.SecretKey),
		accessTokenValidityDuration: cfg.AccessTokenValidityDuration,
		otpValidityDuration:         cfg.OTPValidityDuration,
		now:                         time.Now,
		genCode:                     func() (string, error) { return common.GenerateDigits(common.OTPLength) },
		hashCost:                    bcrypt.DefaultCost,
	}
}

func (s *PortalService) Apartments(ctx context.Context) ([]models.Apartment, error) {
	list, err := s.repomanager.Apartments(s.db).List(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing apartments: %w", err)
	}
	return list, nil
}

// EmailsByFlat returns the emails registered for flatNumber. An unknown
// flat yields an empty slice, not an error.
func (s *PortalService) EmailsByFlat(ctx context.Context, flatNumber string) ([]string, error) {
	flatNumber = strings.TrimSpace(flatNumber)
	if flatNumber == "" {
		return nil, &FieldError{Field: "flatNo", Message: "Flat number is required"}
	}

	emails, err := s.repomanager.Residents(s.db).ListEmailsByFlat(ctx, flatNumber)
	if err != nil {
		return nil, fmt.Errorf("error looking up flat: %w", err)
	}
	return emails, nil
}

// RequestOTP issues one code to every resident of flatNumber, replacing any
// pending code. Codes are stored hashed and delivered after the write commits.
func (s *PortalService) RequestOTP(ctx context.Context, flatNumber string) error {
	flatNumber = strings.TrimSpace(flatNumber)
	if flatNumber == "" {
		return &FieldError{Field: "FlatNumber", Message: "Flat number is required"}
	}

	emails, err := s.repomanager.Residents(s.db).ListEmailsByFlat(ctx, flatNumber)
	if err != nil {
		return fmt.Errorf("error looking up flat: %w", err)
	}
	if len(emails) == 0 {
		return &FieldError{Field: "FlatNumber", Message: "No resident is registered for this flat"}
	}

	allowed, err := s.limiter.Allow(ctx, flatNumber)
	if err != nil {
		// fail open
		s.logger.Warn(ctx, "rate limiter unavailable", "flat", flatNumber, "error", err)
	} else if !allowed {
		return common.ErrOTPRateLimited
	}

	code, err := s.genCode()
	if err != nil {
		return fmt.Errorf("error generating otp: %w", err)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(code), s.hashCost)
	if err != nil {
		return fmt.Errorf("error hashing otp: %w", err)
	}
	expires := s.now().Add(s.otpValidityDuration)

	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.OTPs(tx)
		for _, email := range emails {
			if err := repo.Upsert(ctx, &models.OTP{Email: email, CodeHash: string(hash), ExpiresAt: expires}); err != nil {
				return fmt.Errorf("error storing otp: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	for _, email := range emails {
		if err := s.mailer.SendOTP(ctx, email, code, s.otpValidityDuration); err != nil {
			return fmt.Errorf("error sending otp: %w", err)
		}
	}

	s.logger.Info(ctx, "otp requested", "flat", flatNumber, "recipients", len(emails))
	return nil
}

// VerifyOTP consumes the pending code for email and returns a session token.
// Unknown, expired and mismatching codes all yield common.ErrOTPInvalid.
func (s *PortalService) VerifyOTP(ctx context.Context, email, code string) (string, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return "", &FieldError{Field: "EmailId", Message: "Email is required"}
	}
	if !otpPattern.MatchString(code) {
		return "", &FieldError{Field: "Otp", Message: "Invalid OTP"}
	}

	otps := s.repomanager.OTPs(s.db)

	otp, err := otps.Get(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return "", common.ErrOTPInvalid
		}
		return "", fmt.Errorf("error loading otp: %w", err)
	}

	if otp.Expired(s.now()) {
		if err := otps.Delete(ctx, email); err != nil && !errors.Is(err, common.ErrorNotFound) {
			s.logger.Warn(ctx, "failed to delete expired otp", "error", err)
		}
		return "", common.ErrOTPInvalid
	}

	if bcrypt.CompareHashAndPassword([]byte(otp.CodeHash), []byte(code)) != nil {
		return "", common.ErrOTPInvalid
	}

	var resident *models.Resident
	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.repomanager.OTPs(tx).Delete(ctx, email); err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				return common.ErrOTPInvalid
			}
			return fmt.Errorf("error consuming otp: %w", err)
		}

		r, err := s.repomanager.Residents(tx).GetByEmail(ctx, email)
		if err != nil {
			return fmt.Errorf("error loading resident: %w", err)
		}
		resident = r
		return nil
	})
	if err != nil {
		return "", err
	}

	return s.issueToken(resident)
}

// Login checks the resident's bcrypt password. Every credential failure,
// including an unknown email, yields common.ErrorUnauthorized.
func (s *PortalService) Login(ctx context.Context, email, password string) (string, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return "", common.ErrorUnauthorized
	}

	resident, err := s.repomanager.Residents(s.db).GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return "", common.ErrorUnauthorized
		}
		return "", fmt.Errorf("error loading resident: %w", err)
	}

	if resident.PasswordHash == "" {
		return "", common.ErrorUnauthorized
	}
	if bcrypt.CompareHashAndPassword([]byte(resident.PasswordHash), []byte(password)) != nil {
		return "", common.ErrorUnauthorized
	}

	return s.issueToken(resident)
}

// ChangePassword sets the password of email. Residents may change their own
// password; admins may change anyone's. An empty email means the caller.
func (s *PortalService) ChangePassword(ctx context.Context, caller *auth.Claims, email, newPassword string) error {
	if newPassword == "" {
		return &FieldError{Field: "NewPassword", Message: "New password is required"}
	}

	email = strings.TrimSpace(email)
	if email == "" {
		email = caller.Email
	}
	if !strings.EqualFold(email, caller.Email) && caller.Role != models.RoleAdmin {
		return common.ErrorForbidden
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), s.hashCost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return &FieldError{Field: "NewPassword", Message: "New password is too long"}
		}
		return fmt.Errorf("error hashing password: %w", err)
	}

	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Residents(tx)

		resident, err := repo.GetByEmail(ctx, email)
		if err != nil {
			return err
		}
		if err := repo.UpdatePasswordHash(ctx, resident.ID, string(hash)); err != nil {
			return fmt.Errorf("error updating password: %w", err)
		}

		s.logger.Info(ctx, "password changed", "resident", resident.ID, "by", caller.Subject)
		return nil
	})
}

// PurgeExpiredOTPs removes codes that can no longer be verified.
func (s *PortalService) PurgeExpiredOTPs(ctx context.Context) (int64, error) {
	return s.repomanager.OTPs(s.db).DeleteExpired(ctx, s.now())
}

// ParseToken validates a bearer token issued by this service.
func (s *PortalService) ParseToken(token string) (*auth.Claims, error) {
	return auth.ParseToken(token, s.jwtSecret)
}

func (s *PortalService) issueToken(r *models.Resident) (string, error) {
	claims := auth.Claims{
		Email: r.Email,
		Name:  r.Name,
		Role:  r.Role,
		Flat:  r.FlatNumber,
	}
	claims.Subject = r.ID

	token, err := auth.GenerateToken(claims, s.jwtSecret, s.accessTokenValidityDuration)
	if err != nil {
		return "", fmt.Errorf("error generating token: %w", err)
	}
	return token, nil
}
