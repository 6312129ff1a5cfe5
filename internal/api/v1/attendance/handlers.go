// Package attendance implements the geofenced clock-in and clock-out
// endpoints and the attendance audit log.
package attendance

import (
	"context"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"suitadmin/internal/api/auth"
	"suitadmin/internal/api/respond"
	"suitadmin/internal/apierr"
	"suitadmin/internal/client"
	"suitadmin/internal/format"
	"suitadmin/internal/geofence"
	"suitadmin/internal/storage"
)

const (
	defaultLogLimit = 20
	maxLogLimit     = 100
)

// Clocker performs geofenced attendance actions.
type Clocker interface {
	ClockIn(ctx context.Context, userID string, p geofence.Point, notes string) (client.Attendance, error)
	ClockOut(ctx context.Context, userID string, p geofence.Point, notes string) (client.Attendance, error)
	History(ctx context.Context, userID string, limit int) ([]storage.AttendanceLog, error)
	Geofence() *geofence.Validator
}

// ClockBody is the position reported by the browser. Pointers tell a
// missing coordinate apart from 0.
type ClockBody struct {
	Latitude  *float64 `json:"latitude" binding:"required"`
	Longitude *float64 `json:"longitude" binding:"required"`
	Notes     string   `json:"notes" binding:"max=500"`
}

// GeofenceInfo describes the boundary and, when a position was given, the
// decision for it.
type GeofenceInfo struct {
	Office        geofence.Point     `json:"office"`
	MaxDistanceKm float64            `json:"max_distance_km"`
	Decision      *geofence.Decision `json:"decision,omitempty"`
}

// LogEntry is one audit row as shown to the dashboard.
type LogEntry struct {
	ID          uint      `json:"id"`
	UserID      string    `json:"user_id"`
	Action      string    `json:"action"`
	Latitude    float64   `json:"latitude"`
	Longitude   float64   `json:"longitude"`
	DistanceKm  float64   `json:"distance_km"`
	Allowed     bool      `json:"allowed"`
	ErrorCode   string    `json:"error_code,omitempty"`
	RemoteID    string    `json:"remote_id,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	DisplayTime string    `json:"display_time"`
}

// Handler serves attendance clocking and its log.
type Handler struct {
	clock  Clocker
	format *format.Formatter
}

// NewHandler creates an attendance handler that renders times with f.
func NewHandler(clock Clocker, f *format.Formatter) *Handler {
	return &Handler{clock: clock, format: f}
}

// ClockIn handles POST /api/v1/attendance/clock-in
//
// Returns:
//   - 201 Created with the attendance record
//   - 422 VALIDATION_OUTSIDE_GEOFENCE when the position is too far from the office
func (h *Handler) ClockIn(c *gin.Context) {
	h.handleClock(c, h.clock.ClockIn, respond.Created)
}

// ClockOut handles POST /api/v1/attendance/clock-out
func (h *Handler) ClockOut(c *gin.Context) {
	h.handleClock(c, h.clock.ClockOut, respond.OK)
}

type clockFunc func(context.Context, string, geofence.Point, string) (client.Attendance, error)

func (h *Handler) handleClock(c *gin.Context, fn clockFunc, ok func(*gin.Context, any)) {
	var body ClockBody
	if err := c.ShouldBindJSON(&body); err != nil {
		respond.BindError(c, err)
		return
	}

	sess := auth.SessionFrom(c)
	p := geofence.Point{Latitude: *body.Latitude, Longitude: *body.Longitude}

	rec, err := fn(auth.RemoteContext(c), sess.UserID, p, body.Notes)
	if err != nil {
		respond.Error(c, err)
		return
	}
	ok(c, rec)
}

// Geofence handles GET /api/v1/attendance/geofence
//
// Query parameters:
//   - latitude, longitude (optional): evaluate a position without recording it
func (h *Handler) Geofence(c *gin.Context) {
	fence := h.clock.Geofence()
	info := GeofenceInfo{Office: fence.Office, MaxDistanceKm: fence.MaxDistanceKm}

	latStr, lonStr := c.Query("latitude"), c.Query("longitude")
	if latStr != "" || lonStr != "" {
		p, err := parsePoint(latStr, lonStr)
		if err != nil {
			respond.Error(c, err)
			return
		}
		d := fence.Check(p)
		info.Decision = &d
	}

	respond.OK(c, info)
}

// Log handles GET /api/v1/attendance/log
//
// Staff see their own attempts. Admins may pass user_id to see another
// user's.
func (h *Handler) Log(c *gin.Context) {
	sess := auth.SessionFrom(c)

	userID := sess.UserID
	if other := c.Query("user_id"); other != "" && other != userID {
		if sess.Role != client.RoleAdmin {
			respond.Error(c, apierr.New(apierr.CodeForbidden, "Access denied"))
			return
		}
		userID = other
	}

	limit := defaultLogLimit
	if s := c.Query("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 || n > maxLogLimit {
			respond.Error(c, &apierr.Error{
				Code:    apierr.CodeValidation,
				Message: "limit must be between 1 and " + strconv.Itoa(maxLogLimit),
				Field:   "limit",
			})
			return
		}
		limit = n
	}

	rows, err := h.clock.History(c.Request.Context(), userID, limit)
	if err != nil {
		respond.Error(c, err)
		return
	}

	entries := make([]LogEntry, 0, len(rows))
	for _, r := range rows {
		entries = append(entries, LogEntry{
			ID:          r.ID,
			UserID:      r.UserID,
			Action:      r.Action,
			Latitude:    r.Latitude,
			Longitude:   r.Longitude,
			DistanceKm:  r.DistanceKm,
			Allowed:     r.Allowed,
			ErrorCode:   r.ErrorCode,
			RemoteID:    r.RemoteID,
			CreatedAt:   r.CreatedAt,
			DisplayTime: h.format.DateTime(r.CreatedAt),
		})
	}
	respond.OK(c, entries)
}

func parsePoint(latStr, lonStr string) (geofence.Point, error) {
	lat, err := strconv.ParseFloat(latStr, 64)
	if err != nil {
		return geofence.Point{}, &apierr.Error{Code: apierr.CodeValidation, Message: "latitude must be a number", Field: "latitude"}
	}
	lon, err := strconv.ParseFloat(lonStr, 64)
	if err != nil {
		return geofence.Point{}, &apierr.Error{Code: apierr.CodeValidation, Message: "longitude must be a number", Field: "longitude"}
	}

	p := geofence.Point{Latitude: lat, Longitude: lon}
	if err := geofence.ValidatePoint(p); err != nil {
		return geofence.Point{}, apierr.Wrap(apierr.CodeValidation, err.Error(), err).WithField("location")
	}
	return p, nil
}
