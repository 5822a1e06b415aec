package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/residentportal/internal/api"
	"github.com/dmitrijs2005/residentportal/internal/client/client"
	"github.com/dmitrijs2005/residentportal/internal/client/session"
	"github.com/dmitrijs2005/residentportal/internal/client/ui"
	"github.com/dmitrijs2005/residentportal/internal/logging"
)

// AccountService covers everything around the session that is not signing in.
type AccountService struct {
	client    client.Client
	store     session.Store
	notifier  ui.Notifier
	navigator ui.Navigator
	logger    logging.Logger
	logoutURL string
}

func NewAccountService(c client.Client, store session.Store, n ui.Notifier, nav ui.Navigator, logger logging.Logger, logoutURL string) *AccountService {
	return &AccountService{
		client:    c,
		store:     store,
		notifier:  n,
		navigator: nav,
		logger:    logger.With("module", "account"),
		logoutURL: logoutURL,
	}
}

func (a *AccountService) Ping(ctx context.Context) error {
	return a.client.Ping(ctx)
}

// Apartments lists flats for the apartment picker.
func (a *AccountService) Apartments(ctx context.Context) ([]api.Apartment, error) {
	list, err := a.client.GetAllApartments(ctx)
	if err != nil {
		if !client.Notified(err) {
			a.notifier.Error(client.Message(err, "Failed to load apartments"))
		}
		return nil, fmt.Errorf("list apartments: %w", err)
	}
	return list, nil
}

// ChangePassword sets a new password for email. An empty email means the
// signed-in user. Mismatched or empty input never reaches the backend.
func (a *AccountService) ChangePassword(ctx context.Context, email, newPassword, confirm string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		rec, err := a.store.Load(ctx)
		if err != nil {
			a.logger.Warn(ctx, "session unreadable", "error", err)
		}
		email = rec.UserData.Email()
	}

	switch {
	case !ValidEmail(email):
		a.notifier.Error("Please enter a valid email address")
		return ErrInvalidEmail
	case newPassword == "":
		a.notifier.Error("Please enter a new password")
		return ErrEmptyPassword
	case newPassword != confirm:
		a.notifier.Error("Passwords do not match")
		return ErrPasswordMismatch
	}

	if err := a.client.ChangePassword(ctx, email, newPassword); err != nil {
		if !client.Notified(err) {
			a.notifier.Error(client.Message(err, "Failed to change password"))
		}
		return fmt.Errorf("change password: %w", err)
	}

	a.notifier.Success("Password changed successfully")
	return nil
}

// Logout removes both halves of the session and leaves for the logout URL.
func (a *AccountService) Logout(ctx context.Context) error {
	if err := a.store.Clear(ctx); err != nil {
		a.logger.Error(ctx, "failed to clear session", "error", err)
		a.notifier.Error("Logout failed")
		return err
	}
	a.notifier.Success("Logged out")
	a.navigator.Redirect(a.logoutURL)
	return nil
}
