// Package attendance gates clock-in and clock-out on the office geofence
// and keeps a local audit trail of every attempt.
package attendance

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"suitadmin/internal/apierr"
	"suitadmin/internal/client"
	"suitadmin/internal/geofence"
	"suitadmin/internal/storage"
)

// Remote is the part of the rental API the service calls once a position
// has passed the geofence.
type Remote interface {
	ClockIn(ctx context.Context, req client.ClockRequest) (client.Attendance, error)
	ClockOut(ctx context.Context, req client.ClockRequest) (client.Attendance, error)
}

// LogStore persists attendance attempts.
type LogStore interface {
	Create(ctx context.Context, entry *storage.AttendanceLog) error
	Recent(ctx context.Context, userID string, limit int) ([]storage.AttendanceLog, error)
}

// Service performs geofenced attendance actions.
type Service struct {
	fence  *geofence.Validator
	remote Remote
	logs   LogStore
	now    func() time.Time
}

// NewService creates a service. A nil fence uses the default office.
func NewService(fence *geofence.Validator, remote Remote, logs LogStore) *Service {
	if fence == nil {
		fence = geofence.Default()
	}
	return &Service{fence: fence, remote: remote, logs: logs, now: time.Now}
}

// Geofence returns the boundary attempts are checked against.
func (s *Service) Geofence() *geofence.Validator {
	return s.fence
}

// ClockIn checks p against the geofence and, when inside, clocks userID in.
func (s *Service) ClockIn(ctx context.Context, userID string, p geofence.Point, notes string) (client.Attendance, error) {
	return s.clock(ctx, storage.ActionClockIn, userID, p, notes, s.remote.ClockIn)
}

// ClockOut checks p against the geofence and, when inside, clocks userID out.
func (s *Service) ClockOut(ctx context.Context, userID string, p geofence.Point, notes string) (client.Attendance, error) {
	return s.clock(ctx, storage.ActionClockOut, userID, p, notes, s.remote.ClockOut)
}

type remoteCall func(context.Context, client.ClockRequest) (client.Attendance, error)

func (s *Service) clock(ctx context.Context, action, userID string, p geofence.Point, notes string, call remoteCall) (client.Attendance, error) {
	if err := geofence.ValidatePoint(p); err != nil {
		return client.Attendance{}, apierr.Wrap(apierr.CodeValidation, err.Error(), err).WithField("location")
	}

	decision := s.fence.Check(p)
	entry := &storage.AttendanceLog{
		UserID:     userID,
		Action:     action,
		Latitude:   p.Latitude,
		Longitude:  p.Longitude,
		DistanceKm: decision.DistanceKm,
		Allowed:    decision.Allowed,
		CreatedAt:  s.now(),
	}

	if !decision.Allowed {
		err := OutsideGeofence(decision)
		entry.ErrorCode = err.Code
		s.record(ctx, entry)
		return client.Attendance{}, err
	}

	rec, err := call(ctx, client.ClockRequest{Latitude: p.Latitude, Longitude: p.Longitude, Notes: notes})
	if err != nil {
		entry.ErrorCode = apierr.CodeOf(err)
		if entry.ErrorCode == "" {
			entry.ErrorCode = apierr.CodeUnknown
		}
	} else {
		entry.RemoteID = rec.ID
	}
	s.record(ctx, entry)
	return rec, err
}

// record writes the audit row. A failed write is logged and does not fail
// the attendance action.
func (s *Service) record(ctx context.Context, entry *storage.AttendanceLog) {
	if err := s.logs.Create(context.WithoutCancel(ctx), entry); err != nil {
		log.Error().
			Err(err).
			Str("user_id", entry.UserID).
			Str("action", entry.Action).
			Msg("Failed to write attendance log")
		return
	}

	log.Info().
		Str("user_id", entry.UserID).
		Str("action", entry.Action).
		Bool("allowed", entry.Allowed).
		Float64("distance_km", entry.DistanceKm).
		Str("code", entry.ErrorCode).
		Msg("Attendance attempt")
}

// History returns the newest audit rows of userID.
func (s *Service) History(ctx context.Context, userID string, limit int) ([]storage.AttendanceLog, error) {
	return s.logs.Recent(ctx, userID, limit)
}

// OutsideGeofence builds the error returned for a position outside the
// allowed radius.
func OutsideGeofence(d geofence.Decision) *apierr.Error {
	return &apierr.Error{
		Code:    apierr.CodeOutsideGeofence,
		Message: "You must be at the office to record attendance",
		Field:   "location",
		Details: map[string]any{
			"distance_km":     d.DistanceKm,
			"max_distance_km": d.MaxDistanceKm,
		},
	}
}
