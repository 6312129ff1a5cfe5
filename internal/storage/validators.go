package storage

import (
	"fmt"
	"math"
	"strings"

	"suitadmin/internal/apierr"
)

// ValidateSession validates a Session before it is written.
func ValidateSession(s *Session) error {
	if strings.TrimSpace(s.ID) == "" {
		return fmt.Errorf("session id cannot be empty")
	}
	if s.Token == "" {
		return fmt.Errorf("session token cannot be empty")
	}
	if strings.TrimSpace(s.UserID) == "" {
		return fmt.Errorf("session user id cannot be empty")
	}
	if s.ExpiresAt.IsZero() {
		return fmt.Errorf("session expiry must be set")
	}
	if !s.CreatedAt.IsZero() && !s.ExpiresAt.After(s.CreatedAt) {
		return fmt.Errorf("session expiry must be after creation time")
	}
	return nil
}

// ValidateAttendanceLog validates an AttendanceLog before it is written.
func ValidateAttendanceLog(l *AttendanceLog) error {
	if strings.TrimSpace(l.UserID) == "" {
		return fmt.Errorf("attendance log user id cannot be empty")
	}

	switch l.Action {
	case ActionClockIn, ActionClockOut:
	default:
		return fmt.Errorf("invalid attendance action: %q", l.Action)
	}

	if math.IsNaN(l.Latitude) || l.Latitude < -90 || l.Latitude > 90 {
		return fmt.Errorf("latitude out of range: %v", l.Latitude)
	}
	if math.IsNaN(l.Longitude) || l.Longitude < -180 || l.Longitude > 180 {
		return fmt.Errorf("longitude out of range: %v", l.Longitude)
	}
	if math.IsNaN(l.DistanceKm) || math.IsInf(l.DistanceKm, 0) || l.DistanceKm < 0 {
		return fmt.Errorf("invalid distance: %v", l.DistanceKm)
	}
	if l.Allowed && l.ErrorCode == apierr.CodeOutsideGeofence {
		return fmt.Errorf("allowed attempt cannot carry a geofence error")
	}
	return nil
}
