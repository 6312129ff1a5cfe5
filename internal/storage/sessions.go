package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"suitadmin/internal/apierr"
)

// SessionRepository stores dashboard sessions.
type SessionRepository struct {
	*Repository[Session]
}

// Active returns the session with the given id if it exists and has not
// expired at now. An expired session is removed and reported as
// TOKEN_EXPIRED.
func (r *SessionRepository) Active(ctx context.Context, id string, now time.Time) (*Session, error) {
	s, err := r.GetByID(ctx, id)
	if err != nil {
		if apierr.IsNotFoundError(err) {
			return nil, apierr.New(apierr.CodeUnauthorized, "Authentication required")
		}
		return nil, err
	}

	if s.Expired(now) {
		if err := r.Delete(ctx, s.ID); err != nil {
			log.Warn().Err(err).Str("session_id", s.ID).Msg("Failed to remove expired session")
		}
		return nil, apierr.New(apierr.CodeTokenExpired, "Session expired")
	}
	return s, nil
}

// Touch records that the session was used at now.
func (r *SessionRepository) Touch(ctx context.Context, id string, now time.Time) error {
	err := r.db.WithContext(ctx).
		Model(&Session{}).
		Where("id = ?", id).
		Update("last_seen_at", now).Error
	if err != nil {
		return fmt.Errorf("failed to touch session: %w", err)
	}
	return nil
}

// DeleteExpired removes every session that expired at or before now.
func (r *SessionRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Where("expires_at <= ?", now).Delete(&Session{})
	if res.Error != nil {
		return 0, fmt.Errorf("failed to delete expired sessions: %w", res.Error)
	}
	return res.RowsAffected, nil
}

// DeleteByUser removes every session of a user.
func (r *SessionRepository) DeleteByUser(ctx context.Context, userID string) (int64, error) {
	res := r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&Session{})
	if res.Error != nil {
		return 0, fmt.Errorf("failed to delete sessions of user: %w", res.Error)
	}
	return res.RowsAffected, nil
}

// AttendanceLogRepository stores the attendance audit trail.
type AttendanceLogRepository struct {
	*Repository[AttendanceLog]
}

// Recent returns the newest log rows of a user, newest first. A limit of
// zero or less returns every row.
func (r *AttendanceLogRepository) Recent(ctx context.Context, userID string, limit int) ([]AttendanceLog, error) {
	tx := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Order("id DESC")
	if limit > 0 {
		tx = tx.Limit(limit)
	}

	var out []AttendanceLog
	if err := tx.Find(&out).Error; err != nil {
		return nil, fmt.Errorf("failed to list attendance logs: %w", err)
	}
	return out, nil
}

// DeleteBefore removes log rows created before cutoff.
func (r *AttendanceLogRepository) DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Where("created_at < ?", cutoff).Delete(&AttendanceLog{})
	if res.Error != nil {
		return 0, fmt.Errorf("failed to prune attendance logs: %w", res.Error)
	}
	return res.RowsAffected, nil
}
