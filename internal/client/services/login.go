// Package services holds the client-side application services: the login
// flow state machine and account housekeeping (password change, logout).
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/dmitrijs2005/residentportal/internal/client/client"
	"github.com/dmitrijs2005/residentportal/internal/client/gate"
	"github.com/dmitrijs2005/residentportal/internal/client/token"
	"github.com/dmitrijs2005/residentportal/internal/client/ui"
	"github.com/dmitrijs2005/residentportal/internal/common"
	"github.com/dmitrijs2005/residentportal/internal/logging"
	"golang.org/x/sync/singleflight"
)

var (
	ErrInvalidApartment    = errors.New("no apartment selected")
	ErrNoEmailForApartment = errors.New("no email found for this apartment")
	ErrInvalidEmail        = errors.New("invalid email address")
	ErrInvalidOTP          = errors.New("otp must be 6 digits")
	ErrEmptyPassword       = errors.New("password is required")
	ErrPasswordMismatch    = errors.New("passwords do not match")
	ErrWrongState          = errors.New("operation not allowed in the current step")
	ErrWrongMode           = errors.New("operation not allowed in the current login mode")
	// ErrStale is returned when a response arrives after the form was reset
	// or the caller gave up. The response is dropped.
	ErrStale = errors.New("login attempt superseded")
)

type Mode string

const (
	ModeOTP      Mode = "otp"
	ModePassword Mode = "password"
)

func ParseMode(s string) (Mode, bool) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case ModeOTP:
		return ModeOTP, true
	case ModePassword:
		return ModePassword, true
	}
	return "", false
}

type State int

const (
	StateSelectingApartment State = iota
	StateApartmentVerified
	StateOTPSent
	// StateOTPVerified is never observed in a Snapshot: a successful verify
	// discards the form and returns it to StateSelectingApartment.
	StateOTPVerified
)

func (s State) String() string {
	switch s {
	case StateApartmentVerified:
		return "apartment-verified"
	case StateOTPSent:
		return "otp-sent"
	case StateOTPVerified:
		return "otp-verified"
	default:
		return "selecting-apartment"
	}
}

// Snapshot is a copy of the form for display. The password is never exposed.
type Snapshot struct {
	Mode          Mode
	State         State
	Apartment     string
	MaskedEmail   string
	OTP           string
	PasswordEmail string
	HasPassword   bool
}

// LoginFlow drives both login modes. Every network-bound operation is
// single-flight per form generation: duplicates join the running call and
// its outcome is applied once.
type LoginFlow struct {
	client       client.Client
	materializer *token.Materializer
	notifier     ui.Notifier
	navigator    ui.Navigator
	logger       logging.Logger

	group singleflight.Group

	// commitMu serializes session commits against Reset/SwitchMode so a
	// superseded attempt can never write the session.
	commitMu sync.Mutex

	mu            sync.Mutex
	gen           uint64
	mode          Mode
	state         State
	apartment     string
	email         string
	otp           string
	passwordEmail string
	password      []byte
}

func NewLoginFlow(c client.Client, m *token.Materializer, n ui.Notifier, nav ui.Navigator, logger logging.Logger) *LoginFlow {
	return &LoginFlow{
		client:       c,
		materializer: m,
		notifier:     n,
		navigator:    nav,
		logger:       logger.With("module", "login_flow"),
		mode:         ModeOTP,
	}
}

func (f *LoginFlow) Snapshot() Snapshot {
	f.mu.Lock()
	defer f.mu.Unlock()
	return Snapshot{
		Mode:          f.mode,
		State:         f.state,
		Apartment:     f.apartment,
		MaskedEmail:   MaskEmail(f.email),
		OTP:           f.otp,
		PasswordEmail: f.passwordEmail,
		HasPassword:   len(f.password) > 0,
	}
}

// Reset clears every transient field and keeps the mode.
func (f *LoginFlow) Reset() {
	f.commitMu.Lock()
	defer f.commitMu.Unlock()
	f.mu.Lock()
	defer f.mu.Unlock()
	f.resetLocked()
}

// SwitchMode clears the form and changes mode. No confirmation is asked.
func (f *LoginFlow) SwitchMode(m Mode) error {
	if _, ok := ParseMode(string(m)); !ok {
		return fmt.Errorf("unknown login mode %q", m)
	}
	f.commitMu.Lock()
	defer f.commitMu.Unlock()
	f.mu.Lock()
	defer f.mu.Unlock()
	f.resetLocked()
	f.mode = m
	return nil
}

func (f *LoginFlow) resetLocked() {
	f.gen++
	f.state = StateSelectingApartment
	f.apartment = ""
	f.email = ""
	f.otp = ""
	f.passwordEmail = ""
	common.WipeByteArray(f.password)
	f.password = nil
}

func (f *LoginFlow) SelectApartment(flat string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.guardLocked(ModeOTP, StateSelectingApartment); err != nil {
		return f.reject(err, "Change apartment by resetting the form first")
	}
	f.apartment = strings.TrimSpace(flat)
	return nil
}

// SetOTP stores the formatted code. Input that is not a digit is dropped.
func (f *LoginFlow) SetOTP(raw string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.otp = FormatOTP(raw)
	return f.otp
}

func (f *LoginFlow) SetPasswordCredentials(email, password string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.mode != ModePassword {
		return f.reject(ErrWrongMode, "Switch to password login first")
	}
	common.WipeByteArray(f.password)
	f.passwordEmail = strings.TrimSpace(email)
	f.password = []byte(password)
	return nil
}

func (f *LoginFlow) CheckApartment(ctx context.Context) error {
	f.mu.Lock()
	if err := f.guardLocked(ModeOTP, StateSelectingApartment); err != nil {
		f.mu.Unlock()
		return f.reject(err, "Apartment already verified")
	}
	apartment, gen := f.apartment, f.gen
	f.mu.Unlock()

	if apartment == "" {
		return f.reject(ErrInvalidApartment, "Please select an apartment number")
	}

	return f.single("apartment", gen, func() error {
		emails, err := f.client.GetEmailByFlatNo(ctx, apartment)
		if err == nil && (len(emails) == 0 || emails[0] == "") {
			err = ErrNoEmailForApartment
		}

		f.mu.Lock()
		if f.staleLocked(ctx, gen) {
			f.mu.Unlock()
			return ErrStale
		}
		if err != nil {
			f.email = ""
			f.mu.Unlock()
			msg := client.Message(err, "Failed to find apartment. Please try again.")
			if errors.Is(err, ErrNoEmailForApartment) {
				msg = "No email found for this apartment"
			}
			return f.fail(ctx, err, msg)
		}
		f.email = emails[0]
		f.state = StateApartmentVerified
		f.mu.Unlock()

		f.notifier.Success("Apartment found! OTP can be sent to " + MaskEmail(emails[0]))
		return nil
	})
}

// SendOTP issues a code to the looked-up email. Calling it again after a code
// was sent resends and stays in StateOTPSent.
func (f *LoginFlow) SendOTP(ctx context.Context) error {
	f.mu.Lock()
	if err := f.guardLocked(ModeOTP, StateApartmentVerified, StateOTPSent); err != nil {
		f.mu.Unlock()
		return f.reject(err, "Verify the apartment first")
	}
	apartment, email, gen := f.apartment, f.email, f.gen
	f.mu.Unlock()

	if email == "" {
		return f.reject(ErrInvalidEmail, "No email address found")
	}
	if !ValidEmail(email) {
		return f.reject(ErrInvalidEmail, "Invalid email address format")
	}

	return f.single("send-otp", gen, func() error {
		err := f.client.RequestPasswordReset(ctx, apartment)

		f.mu.Lock()
		if f.staleLocked(ctx, gen) {
			f.mu.Unlock()
			return ErrStale
		}
		if err != nil {
			f.mu.Unlock()
			return f.fail(ctx, err, client.Message(err, "Failed to send OTP. Please try again."))
		}
		f.state = StateOTPSent
		f.otp = ""
		f.mu.Unlock()

		f.notifier.Success("OTP sent to " + MaskEmail(email))
		return nil
	})
}

// VerifyOTP submits the code once. A code that is not six digits never
// reaches the backend. A rejected code stays in the form for correction.
func (f *LoginFlow) VerifyOTP(ctx context.Context) error {
	f.mu.Lock()
	if err := f.guardLocked(ModeOTP, StateOTPSent); err != nil {
		f.mu.Unlock()
		return f.reject(err, "Send the OTP first")
	}
	email, otp, gen := f.email, f.otp, f.gen
	f.mu.Unlock()

	if !ValidOTP(otp) {
		return f.reject(ErrInvalidOTP, fmt.Sprintf("Please enter a valid %d-digit OTP (numbers only)", common.OTPLength))
	}
	if !ValidEmail(email) {
		return f.reject(ErrInvalidEmail, "Invalid or missing email address")
	}

	return f.single("verify-otp", gen, func() error {
		raw, err := f.client.VerifyOTP(ctx, email, otp)
		if err != nil {
			if f.stale(ctx, gen) {
				return ErrStale
			}
			return f.fail(ctx, err, client.Message(err, "Invalid OTP. Please try again."))
		}
		return f.commit(ctx, gen, raw)
	})
}

func (f *LoginFlow) PasswordLogin(ctx context.Context) error {
	f.mu.Lock()
	if f.mode != ModePassword {
		f.mu.Unlock()
		return f.reject(ErrWrongMode, "Switch to password login first")
	}
	email, password, gen := f.passwordEmail, string(f.password), f.gen
	f.mu.Unlock()

	if !ValidEmail(email) {
		return f.reject(ErrInvalidEmail, "Please enter a valid email address")
	}
	if password == "" {
		return f.reject(ErrEmptyPassword, "Please enter your password")
	}

	return f.single("password-login", gen, func() error {
		raw, err := f.client.Login(ctx, email, password)
		if err != nil {
			if f.stale(ctx, gen) {
				return ErrStale
			}
			return f.fail(ctx, err, client.Message(err, "Login failed. Please check your credentials."))
		}
		return f.commit(ctx, gen, raw)
	})
}

// commit materializes the token, discards the form and navigates to the
// landing route of the role. The mode is kept so the next sign-in after a
// logout starts from a clean form. It holds commitMu so Reset cannot interleave.
func (f *LoginFlow) commit(ctx context.Context, gen uint64, raw string) error {
	f.commitMu.Lock()
	defer f.commitMu.Unlock()

	if f.stale(ctx, gen) {
		return ErrStale
	}

	role, err := f.materializer.Materialize(ctx, raw)
	if err != nil {
		f.logger.Error(ctx, "failed to materialize session", "error", err)
		msg := "Login failed. Please try again."
		if errors.Is(err, token.ErrUnrecognizedRole) {
			msg = "Your account has no portal access"
		}
		f.notifier.Error(msg)
		return err
	}

	f.mu.Lock()
	f.resetLocked()
	f.mu.Unlock()

	f.logger.Info(ctx, "signed in", "role", role.String())
	f.notifier.Success("Login Successfully")
	f.navigator.Navigate(gate.Landing(role))
	return nil
}

func (f *LoginFlow) single(op string, gen uint64, fn func() error) error {
	_, err, _ := f.group.Do(fmt.Sprintf("%s/%d", op, gen), func() (any, error) {
		return nil, fn()
	})
	return err
}

func (f *LoginFlow) guardLocked(mode Mode, states ...State) error {
	if f.mode != mode {
		return ErrWrongMode
	}
	for _, s := range states {
		if f.state == s {
			return nil
		}
	}
	return ErrWrongState
}

func (f *LoginFlow) stale(ctx context.Context, gen uint64) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.staleLocked(ctx, gen)
}

func (f *LoginFlow) staleLocked(ctx context.Context, gen uint64) bool {
	return gen != f.gen || ctx.Err() != nil
}

func (f *LoginFlow) reject(err error, msg string) error {
	f.notifier.Error(msg)
	return err
}

// fail reports a backend failure unless the response interceptor already did.
func (f *LoginFlow) fail(ctx context.Context, err error, msg string) error {
	f.logger.Warn(ctx, "login step failed", "error", err)
	if !client.Notified(err) {
		f.notifier.Error(msg)
	}
	return err
}
