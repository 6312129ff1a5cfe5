// Package client talks to the remote rental REST API.
//
// Every call goes through the same path: build the request, send it with the
// caller's bearer token, classify a failure once into an apierr.Failure, and
// hand successful envelopes to the Extract* normalizers. Resource types wrap
// that path for each endpoint family.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"

	"suitadmin/internal/apierr"
	"suitadmin/internal/config"
)

// maxBodyBytes bounds how much of a response body is read.
const maxBodyBytes = 8 << 20

// RetryConfig configures retries of idempotent requests. MaxRetries of 0
// disables retrying.
type RetryConfig struct {
	MaxRetries      int
	InitialInterval time.Duration
	MaxInterval     time.Duration
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

// WithRetry overrides the retry configuration.
func WithRetry(rc RetryConfig) Option {
	return func(c *Client) {
		c.retry = rc
	}
}

// Client is a rental API client. It is safe for concurrent use.
type Client struct {
	baseURL  string
	http     *http.Client
	retry    RetryConfig
	validate *validator.Validate

	Auth       *AuthService
	Items      *Resource[Item, ItemInput]
	Customers  *Resource[Customer, CustomerInput]
	Bookings   *Resource[Booking, BookingInput]
	Rentals    *Resource[Rental, RentalInput]
	Discounts  *Resource[Discount, DiscountInput]
	Packages   *Resource[Package, PackageInput]
	Attendance *AttendanceService
	TimeOff    *TimeOffService
}

// New creates a client for the API described by cfg.
func New(cfg config.RemoteConfig, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		http:    &http.Client{Timeout: cfg.Timeout},
		retry: RetryConfig{
			MaxRetries:      cfg.MaxRetries,
			InitialInterval: cfg.RetryInitialInterval,
			MaxInterval:     cfg.RetryMaxInterval,
		},
		validate: newValidator(),
	}

	for _, opt := range opts {
		opt(c)
	}

	c.Auth = &AuthService{c: c}
	c.Items = NewResource[Item, ItemInput](c, PathItems)
	c.Customers = NewResource[Customer, CustomerInput](c, PathCustomers)
	c.Bookings = NewResource[Booking, BookingInput](c, PathBookings)
	c.Rentals = NewResource[Rental, RentalInput](c, PathRentals)
	c.Discounts = NewResource[Discount, DiscountInput](c, PathDiscounts)
	c.Packages = NewResource[Package, PackageInput](c, PathPackages)
	c.Attendance = &AttendanceService{Resource: NewResource[Attendance, AttendanceInput](c, PathAttendance)}
	c.TimeOff = &TimeOffService{Resource: NewResource[TimeOff, TimeOffInput](c, PathTimeOff)}

	return c
}

// BaseURL returns the API root every path is joined onto.
func (c *Client) BaseURL() string {
	return c.baseURL
}

type ctxKey int

const (
	tokenKey ctxKey = iota
	requestIDKey
)

// WithToken returns a context whose requests carry token as bearer credentials.
func WithToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, tokenKey, token)
}

// WithRequestID returns a context whose requests carry an X-Request-ID header.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

func tokenFrom(ctx context.Context) string {
	token, _ := ctx.Value(tokenKey).(string)
	return token
}

func requestIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

// Do sends one request and returns the decoded envelope of a 2xx response.
// Any other outcome is returned as an *apierr.Error. GET requests are
// retried when the failure is retryable and retries are enabled.
func (c *Client) Do(ctx context.Context, method, path string, query url.Values, body any) (*Envelope, error) {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return nil, apierr.Wrap(apierr.CodeInvalidInput, "Request body could not be encoded", err)
		}
	}

	target := c.baseURL + "/" + strings.TrimLeft(path, "/")
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	if method != http.MethodGet || c.retry.MaxRetries <= 0 {
		return c.roundTrip(ctx, method, target, payload)
	}

	var env *Envelope
	operation := func() error {
		e, err := c.roundTrip(ctx, method, target, payload)
		if err != nil {
			if apierr.IsRetryableError(err) {
				return err
			}
			return backoff.Permanent(err)
		}
		env = e
		return nil
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = c.retry.InitialInterval
	b.MaxInterval = c.retry.MaxInterval
	b.MaxElapsedTime = 0

	notify := func(err error, wait time.Duration) {
		log.Warn().
			Err(err).
			Str("method", method).
			Str("path", path).
			Dur("retry_in", wait).
			Msg("Retrying rental API request")
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(b, uint64(c.retry.MaxRetries)), ctx)
	if err := backoff.RetryNotify(operation, policy, notify); err != nil {
		var apiErr *apierr.Error
		if !errors.As(err, &apiErr) {
			// Context cancellation surfaces from the backoff loop itself.
			return nil, apierr.Normalize(apierr.NetworkFailure{Cause: err})
		}
		return nil, err
	}
	return env, nil
}

// roundTrip performs a single attempt.
func (c *Client) roundTrip(ctx context.Context, method, target string, payload []byte) (*Envelope, error) {
	start := time.Now()

	var bodyReader io.Reader
	if payload != nil {
		bodyReader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, bodyReader)
	if err != nil {
		return nil, apierr.Wrap(apierr.CodeInvalidInput, "Request could not be built", err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := tokenFrom(ctx); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if id := requestIDFrom(ctx); id != "" {
		req.Header.Set("X-Request-ID", id)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		apiErr := apierr.Normalize(apierr.Decode(0, nil, err))
		log.Error().
			Err(err).
			Str("method", method).
			Str("url", target).
			Str("code", apiErr.Code).
			Dur("duration", time.Since(start)).
			Msg("Rental API request failed")
		return nil, apiErr
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, apierr.Normalize(apierr.Decode(0, nil, err))
	}

	logger := log.With().
		Str("method", method).
		Str("url", target).
		Int("status", resp.StatusCode).
		Dur("duration", time.Since(start)).
		Logger()

	if resp.StatusCode >= http.StatusBadRequest {
		apiErr := apierr.Normalize(apierr.Decode(resp.StatusCode, raw, nil))
		logger.Warn().Str("code", apiErr.Code).Msg("Rental API error response")
		return nil, apiErr
	}

	if resp.StatusCode == http.StatusNoContent || len(bytes.TrimSpace(raw)) == 0 {
		logger.Debug().Msg("Rental API empty response")
		return &Envelope{Success: true, Status: resp.StatusCode}, nil
	}

	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		apiErr := apierr.Wrap(apierr.CodeInvalidResponse, "Server returned an unreadable response", err)
		apiErr.Status = resp.StatusCode
		logger.Warn().Err(err).Msg("Rental API returned an unreadable body")
		return nil, apiErr
	}
	env.Status = resp.StatusCode

	logger.Debug().Bool("success", env.Success).Msg("Rental API response")
	return &env, nil
}
