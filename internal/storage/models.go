package storage

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Attendance actions recorded in the audit log.
const (
	ActionClockIn  = "clock_in"
	ActionClockOut = "clock_out"
)

// Session maps a browser session to the bearer token issued by the rental
// API. The browser only ever sees ID.
type Session struct {
	// ID is the opaque session identifier sent to the browser.
	ID string `gorm:"primaryKey;size:36"`

	// Token is the bearer token presented to the rental API.
	Token string `gorm:"not null"`

	UserID   string `gorm:"index;not null"`
	UserName string
	Email    string
	Role     string

	// ExpiresAt is taken from the token's exp claim when present,
	// otherwise from the configured session TTL.
	ExpiresAt time.Time `gorm:"index;not null"`

	CreatedAt  time.Time
	LastSeenAt time.Time
}

func (Session) TableName() string { return "sessions" }

// BeforeCreate assigns an id and validates the row.
func (s *Session) BeforeCreate(*gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return ValidateSession(s)
}

// Expired reports whether the session is no longer usable at now.
func (s *Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

// AttendanceLog is one geofenced clock-in or clock-out attempt, allowed or not.
type AttendanceLog struct {
	ID     uint   `gorm:"primaryKey"`
	UserID string `gorm:"index;not null"`

	// Action is ActionClockIn or ActionClockOut.
	Action string `gorm:"size:16;not null"`

	Latitude   float64
	Longitude  float64
	DistanceKm float64
	Allowed    bool

	// ErrorCode is the apierr code the attempt failed with, empty on success.
	ErrorCode string `gorm:"size:64"`

	// RemoteID is the attendance record id returned by the rental API.
	RemoteID string `gorm:"size:64"`

	CreatedAt time.Time `gorm:"index"`
}

func (AttendanceLog) TableName() string { return "attendance_logs" }

// BeforeCreate validates the row.
func (l *AttendanceLog) BeforeCreate(*gorm.DB) error {
	return ValidateAttendanceLog(l)
}
