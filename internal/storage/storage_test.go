package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"suitadmin/internal/apierr"
	"suitadmin/internal/config"
)

func newTestStorage(t *testing.T) *Storage {
	t.Helper()

	s, err := New(config.StorageConfig{
		Driver:          "sqlite",
		DSN:             filepath.Join(t.TempDir(), "test.db"),
		MaxOpenConns:    1,
		MaxIdleConns:    1,
		ConnMaxLifetime: time.Hour,
	})
	if err != nil {
		t.Fatalf("Failed to open storage: %v", err)
	}
	t.Cleanup(func() {
		if err := s.Close(); err != nil {
			t.Errorf("Failed to close storage: %v", err)
		}
	})
	return s
}

func TestNewUnsupportedDriver(t *testing.T) {
	_, err := New(config.StorageConfig{Driver: "mysql"})
	if err == nil {
		t.Fatal("Expected error for unsupported driver")
	}
}

func TestPing(t *testing.T) {
	s := newTestStorage(t)
	if err := s.Ping(context.Background()); err != nil {
		t.Errorf("Expected ping to succeed, got: %v", err)
	}
}

func TestSessionLifecycle(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()
	now := time.Now()

	sess := &Session{
		Token:     "remote-token",
		UserID:    "u-1",
		UserName:  "Admin",
		Role:      "admin",
		ExpiresAt: now.Add(time.Hour),
	}
	if err := s.Sessions.Create(ctx, sess); err != nil {
		t.Fatalf("Failed to create session: %v", err)
	}
	if sess.ID == "" {
		t.Fatal("Expected session id to be generated")
	}

	got, err := s.Sessions.Active(ctx, sess.ID, now)
	if err != nil {
		t.Fatalf("Expected active session, got: %v", err)
	}
	if got.Token != "remote-token" {
		t.Errorf("Expected token 'remote-token', got '%s'", got.Token)
	}

	if err := s.Sessions.Touch(ctx, sess.ID, now.Add(time.Minute)); err != nil {
		t.Fatalf("Failed to touch session: %v", err)
	}
	got, err = s.Sessions.GetByID(ctx, sess.ID)
	if err != nil {
		t.Fatalf("Failed to reload session: %v", err)
	}
	if got.LastSeenAt.IsZero() {
		t.Error("Expected LastSeenAt to be set")
	}

	if err := s.Sessions.Delete(ctx, sess.ID); err != nil {
		t.Fatalf("Failed to delete session: %v", err)
	}
	_, err = s.Sessions.Active(ctx, sess.ID, now)
	if !apierr.IsAuthError(err) {
		t.Errorf("Expected auth error after delete, got: %v", err)
	}
}

func TestSessionExpiry(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()
	now := time.Now()

	sess := &Session{Token: "t", UserID: "u-1", ExpiresAt: now.Add(time.Minute)}
	if err := s.Sessions.Create(ctx, sess); err != nil {
		t.Fatalf("Failed to create session: %v", err)
	}

	_, err := s.Sessions.Active(ctx, sess.ID, now.Add(2*time.Minute))
	if code := apierr.CodeOf(err); code != apierr.CodeTokenExpired {
		t.Errorf("Expected %s, got %q", apierr.CodeTokenExpired, code)
	}

	n, err := s.Sessions.Count(ctx, "")
	if err != nil {
		t.Fatalf("Failed to count sessions: %v", err)
	}
	if n != 0 {
		t.Errorf("Expected expired session to be removed, %d left", n)
	}
}

func TestSessionDeleteExpiredAndByUser(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()
	now := time.Now()

	rows := []*Session{
		{Token: "a", UserID: "u-1", ExpiresAt: now.Add(-time.Minute), CreatedAt: now.Add(-time.Hour)},
		{Token: "b", UserID: "u-1", ExpiresAt: now.Add(time.Hour)},
		{Token: "c", UserID: "u-2", ExpiresAt: now.Add(time.Hour)},
	}
	for _, row := range rows {
		if err := s.Sessions.Create(ctx, row); err != nil {
			t.Fatalf("Failed to create session: %v", err)
		}
	}

	removed, err := s.Sessions.DeleteExpired(ctx, now)
	if err != nil {
		t.Fatalf("DeleteExpired failed: %v", err)
	}
	if removed != 1 {
		t.Errorf("Expected 1 expired session removed, got %d", removed)
	}

	removed, err = s.Sessions.DeleteByUser(ctx, "u-1")
	if err != nil {
		t.Fatalf("DeleteByUser failed: %v", err)
	}
	if removed != 1 {
		t.Errorf("Expected 1 session of u-1 removed, got %d", removed)
	}

	left, err := s.Sessions.Count(ctx, "user_id = ?", "u-2")
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if left != 1 {
		t.Errorf("Expected 1 session left for u-2, got %d", left)
	}
}

func TestRepositoryErrors(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	_, err := s.Sessions.GetByID(ctx, "missing")
	if !apierr.IsNotFoundError(err) {
		t.Errorf("Expected not found, got: %v", err)
	}

	sess := &Session{ID: "fixed-id", Token: "t", UserID: "u-1", ExpiresAt: time.Now().Add(time.Hour)}
	if err := s.Sessions.Create(ctx, sess); err != nil {
		t.Fatalf("Failed to create session: %v", err)
	}

	dup := &Session{ID: "fixed-id", Token: "t2", UserID: "u-2", ExpiresAt: time.Now().Add(time.Hour)}
	err = s.Sessions.Create(ctx, dup)
	if code := apierr.CodeOf(err); code != apierr.CodeConflict {
		t.Errorf("Expected %s for duplicate id, got %q (%v)", apierr.CodeConflict, code, err)
	}

	if err := s.Sessions.Create(ctx, &Session{UserID: "u-3", ExpiresAt: time.Now().Add(time.Hour)}); err == nil {
		t.Error("Expected error for session without token")
	}
}

func TestAttendanceLogRecent(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()
	base := time.Date(2026, 10, 18, 8, 0, 0, 0, time.UTC)

	for i, action := range []string{ActionClockIn, ActionClockOut, ActionClockIn} {
		entry := &AttendanceLog{
			UserID:     "u-1",
			Action:     action,
			Latitude:   -8.7877102,
			Longitude:  115.2068142,
			DistanceKm: 0.01,
			Allowed:    true,
			CreatedAt:  base.Add(time.Duration(i) * time.Hour),
		}
		if err := s.AttendanceLogs.Create(ctx, entry); err != nil {
			t.Fatalf("Failed to create log: %v", err)
		}
	}
	other := &AttendanceLog{UserID: "u-2", Action: ActionClockIn, CreatedAt: base}
	if err := s.AttendanceLogs.Create(ctx, other); err != nil {
		t.Fatalf("Failed to create log: %v", err)
	}

	logs, err := s.AttendanceLogs.Recent(ctx, "u-1", 2)
	if err != nil {
		t.Fatalf("Recent failed: %v", err)
	}
	if len(logs) != 2 {
		t.Fatalf("Expected 2 logs, got %d", len(logs))
	}
	if !logs[0].CreatedAt.After(logs[1].CreatedAt) {
		t.Error("Expected newest log first")
	}
	if logs[1].Action != ActionClockOut {
		t.Errorf("Expected second log to be clock_out, got %s", logs[1].Action)
	}

	all, err := s.AttendanceLogs.Recent(ctx, "u-1", 0)
	if err != nil {
		t.Fatalf("Recent failed: %v", err)
	}
	if len(all) != 3 {
		t.Errorf("Expected 3 logs, got %d", len(all))
	}
}

func TestAttendanceLogDeleteBefore(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()
	cutoff := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)

	for _, at := range []time.Time{cutoff.AddDate(0, -1, 0), cutoff.Add(-time.Second), cutoff, cutoff.AddDate(0, 0, 5)} {
		if err := s.AttendanceLogs.Create(ctx, &AttendanceLog{UserID: "u-1", Action: ActionClockIn, CreatedAt: at}); err != nil {
			t.Fatalf("Failed to create log: %v", err)
		}
	}

	n, err := s.AttendanceLogs.DeleteBefore(ctx, cutoff)
	if err != nil {
		t.Fatalf("DeleteBefore failed: %v", err)
	}
	if n != 2 {
		t.Errorf("Expected 2 pruned logs, got %d", n)
	}

	left, err := s.AttendanceLogs.Count(ctx, "")
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if left != 2 {
		t.Errorf("Expected 2 remaining logs, got %d", left)
	}
}

func TestValidateAttendanceLog(t *testing.T) {
	tests := []struct {
		name    string
		log     AttendanceLog
		wantErr bool
	}{
		{"valid", AttendanceLog{UserID: "u-1", Action: ActionClockIn, Latitude: -8.78, Longitude: 115.2}, false},
		{"missing user", AttendanceLog{Action: ActionClockIn}, true},
		{"bad action", AttendanceLog{UserID: "u-1", Action: "lunch"}, true},
		{"latitude", AttendanceLog{UserID: "u-1", Action: ActionClockIn, Latitude: 91}, true},
		{"longitude", AttendanceLog{UserID: "u-1", Action: ActionClockOut, Longitude: -181}, true},
		{"negative distance", AttendanceLog{UserID: "u-1", Action: ActionClockIn, DistanceKm: -1}, true},
		{"allowed outside", AttendanceLog{UserID: "u-1", Action: ActionClockIn, Allowed: true, ErrorCode: apierr.CodeOutsideGeofence}, true},
		{"denied outside", AttendanceLog{UserID: "u-1", Action: ActionClockIn, ErrorCode: apierr.CodeOutsideGeofence}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateAttendanceLog(&tt.log)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateAttendanceLog() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateSession(t *testing.T) {
	now := time.Now()
	tests := []struct {
		name    string
		session Session
		wantErr bool
	}{
		{"valid", Session{ID: "s", Token: "t", UserID: "u", ExpiresAt: now.Add(time.Hour)}, false},
		{"no id", Session{Token: "t", UserID: "u", ExpiresAt: now}, true},
		{"no token", Session{ID: "s", UserID: "u", ExpiresAt: now}, true},
		{"no user", Session{ID: "s", Token: "t", ExpiresAt: now}, true},
		{"no expiry", Session{ID: "s", Token: "t", UserID: "u"}, true},
		{"expires before creation", Session{ID: "s", Token: "t", UserID: "u", CreatedAt: now, ExpiresAt: now.Add(-time.Second)}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSession(&tt.session)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateSession() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
