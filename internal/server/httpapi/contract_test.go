package httpapi

import (
	"bytes"
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dmitrijs2005/residentportal/internal/api"
	"github.com/dmitrijs2005/residentportal/internal/client/client"
	"github.com/dmitrijs2005/residentportal/internal/client/session"
	"github.com/dmitrijs2005/residentportal/internal/client/ui"
	"github.com/dmitrijs2005/residentportal/internal/common"
	"github.com/dmitrijs2005/residentportal/internal/logging"
	"github.com/dmitrijs2005/residentportal/internal/server/models"
	"github.com/dmitrijs2005/residentportal/internal/server/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// The portal client and this router must agree on paths, envelopes and
// error bodies.
func TestContract_PortalClient(t *testing.T) {
	p := &fakePortal{
		apartments: []models.Apartment{{ID: 1, FlatNumber: "A-101"}},
		emails:     map[string][]string{"A-101": {"resident@x.io"}},
	}
	srv := httptest.NewServer(NewRouter(p, logging.NewNopLogger(), 1<<20))
	t.Cleanup(srv.Close)

	var out bytes.Buffer
	console := ui.NewConsole(&out, "/login")
	store := session.NewMemoryStore()
	c, err := client.NewHTTPClient(client.Options{
		BaseURL:    srv.URL,
		LogoutURL:  srv.URL + "/login",
		DeviceType: "web",
		Timeout:    5 * time.Second,
	}, store, console, console, logging.NewNopLogger())
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, c.Ping(ctx))

	list, err := c.GetAllApartments(ctx)
	require.NoError(t, err)
	assert.Equal(t, []api.Apartment{{ID: 1, FlatNumber: "A-101"}}, list)

	emails, err := c.GetEmailByFlatNo(ctx, "A-101")
	require.NoError(t, err)
	assert.Equal(t, []string{"resident@x.io"}, emails)

	require.NoError(t, c.RequestPasswordReset(ctx, "A-101"))
	assert.Equal(t, "A-101", p.requestedFlat)

	p.err = &services.FieldError{Field: "FlatNumber", Message: "No resident is registered for this flat"}
	err = c.RequestPasswordReset(ctx, "Z-9")
	var ve *client.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "No resident is registered for this flat", ve.FirstMessage())

	p.err = common.ErrOTPInvalid
	_, err = c.VerifyOTP(ctx, "resident@x.io", "000000")
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "Invalid OTP", ve.FirstMessage())

	p.err = nil
	tok, err := c.VerifyOTP(ctx, "resident@x.io", "123456")
	require.NoError(t, err)
	assert.Equal(t, "otp-token", tok)

	p.err = common.ErrorUnauthorized
	_, err = c.Login(ctx, "resident@x.io", "nope")
	var ae *client.APIError
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, 401, ae.StatusCode)
	assert.Equal(t, "Invalid email or password", ae.Message)

	p.err = nil
	err = c.ChangePassword(ctx, "", "new-secret")
	assert.ErrorIs(t, err, client.ErrUnauthorized, "no session, no bearer")
	assert.Contains(t, out.String(), client.MsgBadCredentials)

	require.NoError(t, store.Save(ctx, session.Record{Token: "good", UserData: session.UserData{"role": "user"}}))
	require.NoError(t, c.ChangePassword(ctx, "", "new-secret"))
	assert.Equal(t, "r-1", p.caller.Subject)
}
