package services

import (
	"context"
	"database/sql"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/residentportal/internal/common"
	"github.com/dmitrijs2005/residentportal/internal/dbx"
	"github.com/dmitrijs2005/residentportal/internal/logging"
	"github.com/dmitrijs2005/residentportal/internal/server/config"
	"github.com/dmitrijs2005/residentportal/internal/server/models"
	"github.com/dmitrijs2005/residentportal/internal/server/repositories/apartments"
	"github.com/dmitrijs2005/residentportal/internal/server/repositories/otps"
	"github.com/dmitrijs2005/residentportal/internal/server/repositories/residents"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

var testNow = time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

type fakeApartmentsRepo struct {
	out []models.Apartment
	err error
}

func (f *fakeApartmentsRepo) List(context.Context) ([]models.Apartment, error) {
	return f.out, f.err
}

type fakeResidentsRepo struct {
	byEmail map[string]*models.Resident
	getErr  error
	listErr error
	updErr  error
	updated map[string]string
}

func (f *fakeResidentsRepo) GetByEmail(_ context.Context, email string) (*models.Resident, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	r, ok := f.byEmail[email]
	if !ok {
		return nil, common.ErrorNotFound
	}
	cp := *r
	return &cp, nil
}

func (f *fakeResidentsRepo) ListEmailsByFlat(_ context.Context, flat string) ([]string, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]string, 0)
	for _, r := range f.byEmail {
		if r.FlatNumber == flat {
			out = append(out, r.Email)
		}
	}
	return out, nil
}

func (f *fakeResidentsRepo) UpdatePasswordHash(_ context.Context, id, hash string) error {
	if f.updErr != nil {
		return f.updErr
	}
	if f.updated == nil {
		f.updated = map[string]string{}
	}
	f.updated[id] = hash
	return nil
}

type fakeOTPsRepo struct {
	mu           sync.Mutex
	rows         map[string]models.OTP
	upsertErr    error
	beforeDelete func()
	purgedAt     time.Time
}

func (f *fakeOTPsRepo) Upsert(_ context.Context, otp *models.OTP) error {
	if f.upsertErr != nil {
		return f.upsertErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.rows == nil {
		f.rows = map[string]models.OTP{}
	}
	f.rows[otp.Email] = *otp
	return nil
}

func (f *fakeOTPsRepo) Get(_ context.Context, email string) (*models.OTP, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	o, ok := f.rows[email]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return &o, nil
}

func (f *fakeOTPsRepo) Delete(_ context.Context, email string) error {
	if f.beforeDelete != nil {
		f.beforeDelete()
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.rows[email]; !ok {
		return common.ErrorNotFound
	}
	delete(f.rows, email)
	return nil
}

func (f *fakeOTPsRepo) DeleteExpired(_ context.Context, now time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.purgedAt = now
	var n int64
	for k, o := range f.rows {
		if o.Expired(now) {
			delete(f.rows, k)
			n++
		}
	}
	return n, nil
}

type fakeRepoManager struct {
	a *fakeApartmentsRepo
	r *fakeResidentsRepo
	o *fakeOTPsRepo
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *fakeRepoManager) Apartments(dbx.DBTX) apartments.Repository    { return m.a }
func (m *fakeRepoManager) Residents(dbx.DBTX) residents.Repository      { return m.r }
func (m *fakeRepoManager) OTPs(dbx.DBTX) otps.Repository                { return m.o }

type fakeLimiter struct {
	allow bool
	err   error
	keys  []string
}

func (f *fakeLimiter) Allow(_ context.Context, key string) (bool, error) {
	f.keys = append(f.keys, key)
	return f.allow, f.err
}

type sentOTP struct {
	email, code string
	validFor    time.Duration
}

type fakeMailer struct {
	sent []sentOTP
	err  error
}

func (f *fakeMailer) SendOTP(_ context.Context, email, code string, validFor time.Duration) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, sentOTP{email, code, validFor})
	return nil
}

type harness struct {
	svc     *PortalService
	mock    sqlmock.Sqlmock
	repos   *fakeRepoManager
	limiter *fakeLimiter
	mailer  *fakeMailer
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	h := &harness{
		mock: mock,
		repos: &fakeRepoManager{
			a: &fakeApartmentsRepo{},
			r: &fakeResidentsRepo{byEmail: map[string]*models.Resident{
				"resident@x.io": {ID: "r-1", FlatNumber: "A-101", Email: "resident@x.io", Name: "Asha", Role: models.RoleUser},
				"partner@x.io":  {ID: "r-2", FlatNumber: "A-101", Email: "partner@x.io", Name: "Ravi", Role: models.RoleUser},
				"admin@x.io":    {ID: "r-9", FlatNumber: "B-202", Email: "admin@x.io", Name: "Meera", Role: models.RoleAdmin},
			}},
			o: &fakeOTPsRepo{},
		},
		limiter: &fakeLimiter{allow: true},
		mailer:  &fakeMailer{},
	}

	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.SecretKey = "k"

	h.svc = NewPortalService(db, h.repos, h.limiter, h.mailer, cfg, logging.NewNopLogger())
	h.svc.now = func() time.Time { return testNow }
	h.svc.genCode = func() (string, error) { return "123456", nil }
	h.svc.hashCost = bcrypt.MinCost
	return h
}

func (h *harness) seedOTP(t *testing.T, email, code string, expires time.Time) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.MinCost)
	require.NoError(t, err)
	require.NoError(t, h.repos.o.Upsert(context.Background(), &models.OTP{Email: email, CodeHash: string(hash), ExpiresAt: expires}))
}

func (h *harness) setPassword(t *testing.T, email, password string) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	h.repos.r.byEmail[email].PasswordHash = string(hash)
}
