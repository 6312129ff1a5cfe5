package client

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"suitadmin/internal/apierr"
	"suitadmin/internal/config"
)

func newTestClient(t *testing.T, handler http.HandlerFunc, opts ...Option) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return New(config.RemoteConfig{
		BaseURL: srv.URL + "/api/",
		Timeout: 2 * time.Second,
	}, opts...)
}

func writeJSON(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, body)
}

func TestClientSendsCredentials(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/items/it-1", r.URL.Path)
		assert.Equal(t, "Bearer tok-123", r.Header.Get("Authorization"))
		assert.Equal(t, "req-9", r.Header.Get("X-Request-ID"))
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		writeJSON(w, http.StatusOK, `{"success":true,"data":{"id":"it-1","code":"TX-01"}}`)
	})

	ctx := WithRequestID(WithToken(context.Background(), "tok-123"), "req-9")
	item, err := c.Items.Get(ctx, "it-1")
	require.NoError(t, err)
	assert.Equal(t, "TX-01", item.Code)
}

func TestClientListQuery(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "2", q.Get("page"))
		assert.Equal(t, "10", q.Get("limit"))
		assert.Equal(t, "jas", q.Get("search"))
		assert.Equal(t, "available", q.Get("status"))
		assert.False(t, q.Has("sort"))
		writeJSON(w, http.StatusOK, `{"success":true,"data":[{"id":"it-1"}],"pagination":{"page":2,"limit":10,"total":11,"total_pages":2,"has_next":false,"has_prev":true}}`)
	})

	page, err := c.Items.List(context.Background(), ListParams{
		Page:    2,
		Limit:   10,
		Search:  "jas",
		Filters: map[string]string{"status": ItemAvailable, "category": ""},
	})
	require.NoError(t, err)
	require.Len(t, page.Data, 1)
	assert.Equal(t, 2, page.Pagination.TotalPages)
}

func TestClientErrorNormalization(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		code    string
		message string
	}{
		{"structured error wins over 500", 500, `{"success":false,"error":{"code":"INSUFFICIENT_STOCK","message":"Only 1 left"}}`, "INSUFFICIENT_STOCK", "Only 1 left"},
		{"structured error without message", 409, `{"success":false,"error":{"code":"CONFLICT"}}`, "CONFLICT", "Conflict"},
		{"body message beats status table", 404, `{"success":false,"message":"Item not found"}`, apierr.CodeNotFound, "Item not found"},
		{"error object without code keeps its message", 400, `{"success":false,"error":{"message":"Rental is already returned"}}`, apierr.CodeBadRequest, "Rental is already returned"},
		{"bare string error is a message", 400, `{"error":"bad date"}`, apierr.CodeBadRequest, "bad date"},
		{"unstructured 404", 404, `<html>not here</html>`, apierr.CodeNotFound, "Resource not found"},
		{"empty 500", 500, ``, apierr.CodeServer, "Internal server error"},
		{"401", 401, `{}`, apierr.CodeUnauthorized, "Authentication required"},
		{"403", 403, ``, apierr.CodeForbidden, "Access denied"},
		{"422", 422, ``, apierr.CodeValidation, "Validation failed"},
		{"unlisted status", 418, ``, apierr.CodeUnknown, "Request failed with status 418"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				writeJSON(w, tt.status, tt.body)
			})

			_, err := c.Customers.Get(context.Background(), "c-1")
			var apiErr *apierr.Error
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, tt.code, apiErr.Code)
			assert.Equal(t, tt.message, apiErr.Message)
			assert.Equal(t, tt.status, apiErr.Status)
		})
	}
}

func TestClientSuccessFlagFalseOn200(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `{"success":false,"error":{"code":"TOKEN_EXPIRED","message":"Session expired"}}`)
	})

	_, err := c.Auth.Me(context.Background())
	assert.True(t, apierr.IsAuthError(err))
}

func TestClientCodelessErrorMessageIgnoresStatus(t *testing.T) {
	body := `{"success":false,"error":{"message":"Rental is already returned"}}`

	for _, status := range []int{http.StatusOK, http.StatusBadRequest} {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, status, body)
		})

		_, err := c.Rentals.Get(context.Background(), "r-1")
		var apiErr *apierr.Error
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, "Rental is already returned", apiErr.Message, "status %d", status)
	}
}

func TestClientUnreadableSuccessBody(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `not json`)
	})

	_, err := c.Items.Get(context.Background(), "it-1")
	assert.Equal(t, apierr.CodeInvalidResponse, apierr.CodeOf(err))
}

func TestClientNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := New(config.RemoteConfig{BaseURL: url, Timeout: time.Second})
	_, err := c.Items.Get(context.Background(), "it-1")

	var apiErr *apierr.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, apierr.CodeNetwork, apiErr.Code)
	assert.Equal(t, "Network error. Please check your connection.", apiErr.Message)
	assert.True(t, apierr.IsRetryableError(err))
}

func TestClientTimeout(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}, WithHTTPClient(&http.Client{Timeout: 50 * time.Millisecond}))

	_, err := c.Items.Get(context.Background(), "it-1")
	assert.Equal(t, apierr.CodeTimeout, apierr.CodeOf(err))
}

func TestClientRetriesIdempotentRequests(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			writeJSON(w, http.StatusInternalServerError, ``)
			return
		}
		writeJSON(w, http.StatusOK, `{"success":true,"data":{"id":"it-1"}}`)
	}, WithRetry(RetryConfig{MaxRetries: 3, InitialInterval: time.Millisecond, MaxInterval: 5 * time.Millisecond}))

	item, err := c.Items.Get(context.Background(), "it-1")
	require.NoError(t, err)
	assert.Equal(t, "it-1", item.ID)
	assert.Equal(t, int32(3), calls.Load())
}

func TestClientRetryGivesUp(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		writeJSON(w, http.StatusInternalServerError, `{"success":false,"error":{"code":"SERVER_ERROR","message":"db down"}}`)
	}, WithRetry(RetryConfig{MaxRetries: 2, InitialInterval: time.Millisecond, MaxInterval: time.Millisecond}))

	_, err := c.Items.Get(context.Background(), "it-1")
	assert.Equal(t, apierr.CodeServer, apierr.CodeOf(err))
	assert.Equal(t, int32(3), calls.Load())
}

func TestClientDoesNotRetryWrites(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		writeJSON(w, http.StatusInternalServerError, ``)
	}, WithRetry(RetryConfig{MaxRetries: 3, InitialInterval: time.Millisecond, MaxInterval: time.Millisecond}))

	_, err := c.Customers.Create(context.Background(), CustomerInput{Name: "Ketut", Phone: "08123456789"})
	assert.Equal(t, apierr.CodeServer, apierr.CodeOf(err))
	assert.Equal(t, int32(1), calls.Load())
}

func TestClientDoesNotRetryClientErrors(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		writeJSON(w, http.StatusNotFound, ``)
	}, WithRetry(RetryConfig{MaxRetries: 3, InitialInterval: time.Millisecond, MaxInterval: time.Millisecond}))

	_, err := c.Items.Get(context.Background(), "missing")
	assert.True(t, apierr.IsNotFoundError(err))
	assert.Equal(t, int32(1), calls.Load())
}

func TestClientValidatesBeforeSending(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	})

	_, err := c.Items.Create(context.Background(), ItemInput{Name: "Jas"})
	var apiErr *apierr.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, apierr.CodeValidation, apiErr.Code)
	assert.Equal(t, "code", apiErr.Field)
	assert.Equal(t, "code is required", apiErr.Message)
	assert.Contains(t, apiErr.Details, "category")
	assert.Zero(t, calls.Load())

	_, err = c.Items.Get(context.Background(), "  ")
	assert.True(t, apierr.IsValidationError(err))
	assert.Zero(t, calls.Load())
}

func TestClientCreateUpdateDelete(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/api/packages":
			var in PackageInput
			require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
			assert.Equal(t, []string{"it-1", "it-2"}, in.ItemIDs)
			writeJSON(w, http.StatusCreated, `{"success":true,"data":{"id":"pk-1","name":"Wedding"}}`)
		case r.Method == http.MethodPut && r.URL.Path == "/api/packages/pk-1":
			writeJSON(w, http.StatusOK, `{"success":true,"data":{"id":"pk-1","name":"Wedding Deluxe"}}`)
		case r.Method == http.MethodDelete && r.URL.Path == "/api/packages/pk-1":
			w.WriteHeader(http.StatusNoContent)
		default:
			t.Errorf("unexpected %s %s", r.Method, r.URL.Path)
		}
	})

	ctx := context.Background()
	in := PackageInput{Name: "Wedding", ItemIDs: []string{"it-1", "it-2"}, Price: 1500000, DurationDays: 3}

	created, err := c.Packages.Create(ctx, in)
	require.NoError(t, err)
	assert.Equal(t, "pk-1", created.ID)

	in.Name = "Wedding Deluxe"
	updated, err := c.Packages.Update(ctx, "pk-1", in)
	require.NoError(t, err)
	assert.Equal(t, "Wedding Deluxe", updated.Name)

	require.NoError(t, c.Packages.Delete(ctx, "pk-1"))
}

func TestClientCreateWithoutData(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusCreated, `{"success":true,"message":"ok"}`)
	})

	_, err := c.Customers.Create(context.Background(), CustomerInput{Name: "Ketut", Phone: "08123456789"})
	assert.Equal(t, apierr.CodeNoData, apierr.CodeOf(err))
}

func TestAttendanceClock(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		var req ClockRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.InDelta(t, -8.7877102, req.Latitude, 1e-9)

		switch r.URL.Path {
		case "/api/attendance/clock-in":
			writeJSON(w, http.StatusCreated, `{"success":true,"data":{"id":"at-1","status":"present","clock_in":"2026-10-18T08:01:00+08:00"}}`)
		case "/api/attendance/clock-out":
			writeJSON(w, http.StatusOK, `{"success":true,"data":{"id":"at-1","status":"present","clock_out":"2026-10-18T17:00:00+08:00"}}`)
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	})

	req := ClockRequest{Latitude: -8.7877102, Longitude: 115.2068142}
	in, err := c.Attendance.ClockIn(context.Background(), req)
	require.NoError(t, err)
	require.NotNil(t, in.ClockIn)
	assert.Equal(t, 8, in.ClockIn.Hour())

	out, err := c.Attendance.ClockOut(context.Background(), req)
	require.NoError(t, err)
	require.NotNil(t, out.ClockOut)
}

func TestTimeOffReview(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/time-off/to-1/approve":
			writeJSON(w, http.StatusOK, `{"success":true,"data":{"id":"to-1","status":"approved"}}`)
		case "/api/time-off/to-1/reject":
			writeJSON(w, http.StatusOK, `{"success":true,"data":{"id":"to-1","status":"rejected","review_note":"busy season"}}`)
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	})

	approved, err := c.TimeOff.Approve(context.Background(), "to-1", ReviewInput{})
	require.NoError(t, err)
	assert.Equal(t, TimeOffApproved, approved.Status)

	rejected, err := c.TimeOff.Reject(context.Background(), "to-1", ReviewInput{Note: "busy season"})
	require.NoError(t, err)
	assert.Equal(t, TimeOffRejected, rejected.Status)
	assert.Equal(t, "busy season", rejected.ReviewNote)
}

func TestAuthLogin(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/auth/login", r.URL.Path)
		var req LoginRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		if req.Password != "secret1" {
			writeJSON(w, http.StatusUnauthorized, `{"success":false,"error":{"code":"INVALID_CREDENTIALS","message":"Email or password is wrong"}}`)
			return
		}
		writeJSON(w, http.StatusOK, `{"success":true,"data":{"token":"tok","user":{"id":"u-1","name":"Admin","email":"admin@example.com","role":"admin"}}}`)
	})

	res, err := c.Auth.Login(context.Background(), LoginRequest{Email: "admin@example.com", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, "tok", res.Token)
	assert.Equal(t, RoleAdmin, res.User.Role)

	_, err = c.Auth.Login(context.Background(), LoginRequest{Email: "admin@example.com", Password: "wrong-pass"})
	assert.Equal(t, "INVALID_CREDENTIALS", apierr.CodeOf(err))

	_, err = c.Auth.Login(context.Background(), LoginRequest{Email: "not-an-email", Password: "secret1"})
	var apiErr *apierr.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "email", apiErr.Field)
}
