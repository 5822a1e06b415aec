package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/residentportal/internal/api"
	"github.com/dmitrijs2005/residentportal/internal/client/gate"
	"github.com/dmitrijs2005/residentportal/internal/client/session"
	"github.com/dmitrijs2005/residentportal/internal/client/ui"
	"github.com/dmitrijs2005/residentportal/internal/common"
	"github.com/dmitrijs2005/residentportal/internal/logging"
)

const maxResponseBytes = 1 << 20

type Options struct {
	BaseURL       string
	LogoutURL     string
	DeviceType    string
	RedirectDelay time.Duration
	Timeout       time.Duration
}

type HTTPClient struct {
	baseURL       *url.URL
	http          *http.Client
	store         session.Store
	notifier      ui.Notifier
	navigator     ui.Navigator
	logger        logging.Logger
	logoutURL     string
	deviceType    string
	redirectDelay time.Duration

	afterFunc func(d time.Duration, f func())

	mu              sync.Mutex
	redirectPending bool
}

func NewHTTPClient(opts Options, store session.Store, notifier ui.Notifier, navigator ui.Navigator, logger logging.Logger) (*HTTPClient, error) {
	base, err := url.Parse(opts.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid api base url: %w", err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("invalid api base url %q: scheme and host are required", opts.BaseURL)
	}
	if !strings.HasSuffix(base.Path, "/") {
		base.Path += "/"
	}

	return &HTTPClient{
		baseURL:       base,
		http:          &http.Client{Timeout: opts.Timeout},
		store:         store,
		notifier:      notifier,
		navigator:     navigator,
		logger:        logger.With("module", "http_client"),
		logoutURL:     opts.LogoutURL,
		deviceType:    opts.DeviceType,
		redirectDelay: opts.RedirectDelay,
		afterFunc: func(d time.Duration, f func()) {
			time.AfterFunc(d, f)
		},
	}, nil
}

// interceptRequest attaches the session token and the fixed headers.
func (c *HTTPClient) interceptRequest(ctx context.Context, req *http.Request) {
	rec, err := c.store.Load(ctx)
	if err != nil {
		c.logger.Warn(ctx, "session unreadable, sending request without token", "error", err)
	}
	if rec.Token != "" {
		req.Header.Set(common.AuthorizationHeaderName, common.BearerPrefix+rec.Token)
	}
	req.Header.Set(common.DeviceTypeHeaderName, c.deviceType)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
}

// interceptResponse maps a failure status to an error and runs the
// session teardown for 401.
func (c *HTTPClient) interceptResponse(ctx context.Context, status int, body []byte) error {
	if status >= 200 && status < 300 {
		return nil
	}

	if status == http.StatusUnauthorized {
		c.teardown(ctx, MsgBadCredentials, MsgSessionExpired)
		return ErrUnauthorized
	}

	var p api.Problem
	_ = json.Unmarshal(body, &p)

	if status == http.StatusBadRequest && len(p.Errors) > 0 {
		return &ValidationError{Title: p.Title, Fields: p.Errors}
	}

	msg := p.Message
	if msg == "" {
		msg = p.Title
	}
	return &APIError{StatusCode: status, Message: msg}
}

// teardown notifies the user. Off the login screen it also clears the
// session and schedules the logout redirect.
func (c *HTTPClient) teardown(ctx context.Context, onLogin, elsewhere string) {
	if strings.Contains(c.navigator.Location(), gate.LoginRoute) {
		c.notifier.Error(onLogin)
		return
	}

	c.notifier.Error(elsewhere)
	if err := c.store.Clear(context.WithoutCancel(ctx)); err != nil {
		c.logger.Error(ctx, "failed to clear session", "error", err)
	}
	c.scheduleRedirect()
}

// scheduleRedirect coalesces: while one redirect is pending further calls are no-ops.
func (c *HTTPClient) scheduleRedirect() {
	c.mu.Lock()
	if c.redirectPending {
		c.mu.Unlock()
		return
	}
	c.redirectPending = true
	c.mu.Unlock()

	c.afterFunc(c.redirectDelay, func() {
		c.mu.Lock()
		c.redirectPending = false
		c.mu.Unlock()
		c.navigator.Redirect(c.logoutURL)
	})
}

func (c *HTTPClient) do(ctx context.Context, method, endpoint string, query url.Values, in, out any) error {
	u := c.baseURL.ResolveReference(&url.URL{Path: endpoint})
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}

	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return err
	}
	c.interceptRequest(ctx, req)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return c.transportFailure(ctx, endpoint, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return c.transportFailure(ctx, endpoint, err)
	}

	c.logger.Debug(ctx, "request completed", "method", method, "endpoint", endpoint,
		"status", resp.StatusCode, "elapsed", time.Since(start))

	if err := c.interceptResponse(ctx, resp.StatusCode, raw); err != nil {
		return err
	}

	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", endpoint, err)
	}
	return nil
}

// transportFailure leaves caller cancellation alone; everything else is
// treated as the backend being unreachable.
func (c *HTTPClient) transportFailure(ctx context.Context, endpoint string, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	c.logger.Warn(ctx, "request failed", "endpoint", endpoint, "error", err)
	c.teardown(ctx, MsgNetworkError, MsgNetworkError)
	return fmt.Errorf("%w: %v", ErrUnavailable, err)
}

func envelopeErr[T any](env api.Envelope[T]) error {
	if env.Error {
		return &APIError{StatusCode: env.StatusCode, Message: env.Message}
	}
	return nil
}

func (c *HTTPClient) Ping(ctx context.Context) error {
	var h api.Health
	if err := c.do(ctx, http.MethodGet, api.PathHealth, nil, nil, &h); err != nil {
		return err
	}
	if h.Status != "ok" {
		return fmt.Errorf("%w: health status %q", ErrUnavailable, h.Status)
	}
	return nil
}

func (c *HTTPClient) GetEmailByFlatNo(ctx context.Context, flatNo string) ([]string, error) {
	var env api.Envelope[[]string]
	q := url.Values{"flatNo": []string{flatNo}}
	if err := c.do(ctx, http.MethodPost, api.PathEmailByFlat, q, nil, &env); err != nil {
		return nil, err
	}
	if err := envelopeErr(env); err != nil {
		return nil, err
	}
	return env.Data, nil
}

func (c *HTTPClient) RequestPasswordReset(ctx context.Context, flatNo string) error {
	var env api.Envelope[json.RawMessage]
	in := api.PasswordResetRequest{FlatNumber: flatNo}
	if err := c.do(ctx, http.MethodPost, api.PathRequestPasswordReset, nil, in, &env); err != nil {
		return err
	}
	return envelopeErr(env)
}

func (c *HTTPClient) VerifyOTP(ctx context.Context, email, otp string) (string, error) {
	var env api.Envelope[api.TokenData]
	in := api.VerifyOTPRequest{EmailID: email, OTP: otp}
	if err := c.do(ctx, http.MethodPost, api.PathVerifyOTP, nil, in, &env); err != nil {
		return "", err
	}
	if err := envelopeErr(env); err != nil {
		return "", err
	}
	if env.Data.Token == "" {
		return "", ErrEmptyToken
	}
	return env.Data.Token, nil
}

// Login treats anything but an application status of 200 as a failure, even
// when the transport status is 2xx.
func (c *HTTPClient) Login(ctx context.Context, email, password string) (string, error) {
	var env api.Envelope[api.TokenData]
	in := api.LoginRequest{EmailID: email, Password: password}
	if err := c.do(ctx, http.MethodPost, api.PathLogin, nil, in, &env); err != nil {
		return "", err
	}
	if env.StatusCode != http.StatusOK || env.Error {
		return "", &APIError{StatusCode: env.StatusCode, Message: env.Message}
	}
	if env.Data.Token == "" {
		return "", ErrEmptyToken
	}
	return env.Data.Token, nil
}

func (c *HTTPClient) ChangePassword(ctx context.Context, email, newPassword string) error {
	var env api.Envelope[json.RawMessage]
	in := api.ChangePasswordRequest{EmailID: email, NewPassword: newPassword}
	if err := c.do(ctx, http.MethodPost, api.PathChangePassword, nil, in, &env); err != nil {
		return err
	}
	return envelopeErr(env)
}

func (c *HTTPClient) GetAllApartments(ctx context.Context) ([]api.Apartment, error) {
	var env api.Envelope[[]api.Apartment]
	if err := c.do(ctx, http.MethodGet, api.PathApartments, nil, nil, &env); err != nil {
		return nil, err
	}
	if err := envelopeErr(env); err != nil {
		return nil, err
	}
	return env.Data, nil
}

var _ Client = (*HTTPClient)(nil)
