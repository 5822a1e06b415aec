package services

import (
	"context"
	"sync"
	"testing"

	"github.com/dmitrijs2005/residentportal/internal/api"
	"github.com/dmitrijs2005/residentportal/internal/client/session"
	"github.com/dmitrijs2005/residentportal/internal/client/token"
	"github.com/dmitrijs2005/residentportal/internal/logging"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

// fakeClient implements client.Client. Each method delegates to its func
// field when set and counts calls.
type fakeClient struct {
	mu    sync.Mutex
	calls map[string]int

	EmailsFn         func(ctx context.Context, flat string) ([]string, error)
	ResetFn          func(ctx context.Context, flat string) error
	VerifyFn         func(ctx context.Context, email, otp string) (string, error)
	LoginFn          func(ctx context.Context, email, password string) (string, error)
	ChangePasswordFn func(ctx context.Context, email, password string) error
	ApartmentsFn     func(ctx context.Context) ([]api.Apartment, error)

	LastFlat        string
	LastEmail       string
	LastOTP         string
	LastPassword    string
	LastNewPassword string
}

func (f *fakeClient) count(name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.calls == nil {
		f.calls = map[string]int{}
	}
	f.calls[name]++
}

func (f *fakeClient) Calls(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[name]
}

func (f *fakeClient) Ping(context.Context) error {
	f.count("ping")
	return nil
}

func (f *fakeClient) GetEmailByFlatNo(ctx context.Context, flat string) ([]string, error) {
	f.count("emails")
	f.LastFlat = flat
	if f.EmailsFn != nil {
		return f.EmailsFn(ctx, flat)
	}
	return []string{"resident@x.io"}, nil
}

func (f *fakeClient) RequestPasswordReset(ctx context.Context, flat string) error {
	f.count("reset")
	f.LastFlat = flat
	if f.ResetFn != nil {
		return f.ResetFn(ctx, flat)
	}
	return nil
}

func (f *fakeClient) VerifyOTP(ctx context.Context, email, otp string) (string, error) {
	f.count("verify")
	f.LastEmail, f.LastOTP = email, otp
	return f.VerifyFn(ctx, email, otp)
}

func (f *fakeClient) Login(ctx context.Context, email, password string) (string, error) {
	f.count("login")
	f.LastEmail, f.LastPassword = email, password
	return f.LoginFn(ctx, email, password)
}

func (f *fakeClient) ChangePassword(ctx context.Context, email, password string) error {
	f.count("change-password")
	f.LastEmail, f.LastNewPassword = email, password
	if f.ChangePasswordFn != nil {
		return f.ChangePasswordFn(ctx, email, password)
	}
	return nil
}

func (f *fakeClient) GetAllApartments(ctx context.Context) ([]api.Apartment, error) {
	f.count("apartments")
	if f.ApartmentsFn != nil {
		return f.ApartmentsFn(ctx)
	}
	return []api.Apartment{{ID: 1, FlatNumber: "A-101"}}, nil
}

type fakeUI struct {
	mu          sync.Mutex
	location    string
	errs        []string
	oks         []string
	navigations []string
	redirects   []string
}

func (f *fakeUI) Success(msg string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.oks = append(f.oks, msg)
}

func (f *fakeUI) Error(msg string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.errs = append(f.errs, msg)
}

func (f *fakeUI) Location() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.location
}

func (f *fakeUI) Navigate(route string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.location = route
	f.navigations = append(f.navigations, route)
}

func (f *fakeUI) Redirect(url string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.redirects = append(f.redirects, url)
}

func (f *fakeUI) lastError() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.errs) == 0 {
		return ""
	}
	return f.errs[len(f.errs)-1]
}

func signedToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("k"))
	require.NoError(t, err)
	return s
}

type harness struct {
	flow   *LoginFlow
	client *fakeClient
	ui     *fakeUI
	store  *session.MemoryStore
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	fc := &fakeClient{}
	fui := &fakeUI{location: "/login"}
	store := session.NewMemoryStore()
	m := token.NewMaterializer(token.UnverifiedDecoder{}, store)
	return &harness{
		flow:   NewLoginFlow(fc, m, fui, fui, logging.NewNopLogger()),
		client: fc,
		ui:     fui,
		store:  store,
	}
}

// toOTPSent walks the flow through apartment lookup and OTP issue.
func (h *harness) toOTPSent(t *testing.T, flat string) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, h.flow.SelectApartment(flat))
	require.NoError(t, h.flow.CheckApartment(ctx))
	require.NoError(t, h.flow.SendOTP(ctx))
	require.Equal(t, StateOTPSent, h.flow.Snapshot().State)
}
