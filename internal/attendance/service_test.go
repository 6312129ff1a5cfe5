package attendance

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"suitadmin/internal/apierr"
	"suitadmin/internal/client"
	"suitadmin/internal/config"
	"suitadmin/internal/geofence"
	"suitadmin/internal/storage"
)

type fakeRemote struct {
	calls []string
	err   error
}

func (f *fakeRemote) ClockIn(_ context.Context, req client.ClockRequest) (client.Attendance, error) {
	f.calls = append(f.calls, "in")
	if f.err != nil {
		return client.Attendance{}, f.err
	}
	now := time.Now()
	return client.Attendance{ID: "at-1", Status: "present", ClockIn: &now}, nil
}

func (f *fakeRemote) ClockOut(_ context.Context, req client.ClockRequest) (client.Attendance, error) {
	f.calls = append(f.calls, "out")
	if f.err != nil {
		return client.Attendance{}, f.err
	}
	now := time.Now()
	return client.Attendance{ID: "at-1", Status: "present", ClockOut: &now}, nil
}

func newTestService(t *testing.T, remote Remote) (*Service, *storage.Storage) {
	t.Helper()
	st, err := storage.New(config.StorageConfig{
		Driver:       "sqlite",
		DSN:          filepath.Join(t.TempDir(), "attendance.db"),
		MaxOpenConns: 1,
		MaxIdleConns: 1,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	return NewService(nil, remote, st.AttendanceLogs), st
}

var office = geofence.Point{Latitude: geofence.DefaultOfficeLatitude, Longitude: geofence.DefaultOfficeLongitude}

func TestClockInInsideGeofence(t *testing.T) {
	remote := &fakeRemote{}
	svc, _ := newTestService(t, remote)

	rec, err := svc.ClockIn(context.Background(), "u-1", office, "")
	require.NoError(t, err)
	assert.Equal(t, "at-1", rec.ID)
	assert.Equal(t, []string{"in"}, remote.calls)

	logs, err := svc.History(context.Background(), "u-1", 10)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.True(t, logs[0].Allowed)
	assert.Equal(t, storage.ActionClockIn, logs[0].Action)
	assert.Equal(t, "at-1", logs[0].RemoteID)
	assert.Empty(t, logs[0].ErrorCode)
}

func TestClockInOutsideGeofence(t *testing.T) {
	remote := &fakeRemote{}
	svc, _ := newTestService(t, remote)

	// About 101 m north of the office.
	p := geofence.Point{Latitude: office.Latitude + 0.00091, Longitude: office.Longitude}
	_, err := svc.ClockIn(context.Background(), "u-1", p, "")

	var apiErr *apierr.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, apierr.CodeOutsideGeofence, apiErr.Code)
	assert.Equal(t, "location", apiErr.Field)
	assert.True(t, apierr.IsValidationError(err))
	assert.InDelta(t, 0.101, apiErr.Details["distance_km"], 0.001)
	assert.Equal(t, geofence.DefaultMaxDistanceKm, apiErr.Details["max_distance_km"])
	assert.Empty(t, remote.calls)

	logs, err := svc.History(context.Background(), "u-1", 0)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.False(t, logs[0].Allowed)
	assert.Equal(t, apierr.CodeOutsideGeofence, logs[0].ErrorCode)
}

func TestClockOutRemoteFailureIsLogged(t *testing.T) {
	remote := &fakeRemote{err: apierr.New(apierr.CodeConflict, "Not clocked in")}
	svc, _ := newTestService(t, remote)

	_, err := svc.ClockOut(context.Background(), "u-1", office, "")
	assert.Equal(t, apierr.CodeConflict, apierr.CodeOf(err))

	logs, err := svc.History(context.Background(), "u-1", 0)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.True(t, logs[0].Allowed)
	assert.Equal(t, storage.ActionClockOut, logs[0].Action)
	assert.Equal(t, apierr.CodeConflict, logs[0].ErrorCode)
}

func TestClockPlainRemoteErrorIsUnknown(t *testing.T) {
	remote := &fakeRemote{err: errors.New("boom")}
	svc, _ := newTestService(t, remote)

	_, err := svc.ClockIn(context.Background(), "u-1", office, "")
	require.Error(t, err)

	logs, err := svc.History(context.Background(), "u-1", 0)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, apierr.CodeUnknown, logs[0].ErrorCode)
}

func TestClockInvalidPoint(t *testing.T) {
	remote := &fakeRemote{}
	svc, st := newTestService(t, remote)

	_, err := svc.ClockIn(context.Background(), "u-1", geofence.Point{Latitude: 120, Longitude: 0}, "")
	var apiErr *apierr.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, apierr.CodeValidation, apiErr.Code)
	assert.Equal(t, "location", apiErr.Field)
	assert.Empty(t, remote.calls)

	n, err := st.AttendanceLogs.Count(context.Background(), "")
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestCustomGeofence(t *testing.T) {
	remote := &fakeRemote{}
	fence := geofence.NewValidator(geofence.Point{Latitude: 0, Longitude: 0}, 1)
	st, err := storage.New(config.StorageConfig{Driver: "sqlite", DSN: filepath.Join(t.TempDir(), "a.db"), MaxOpenConns: 1})
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	svc := NewService(fence, remote, st.AttendanceLogs)
	assert.Same(t, fence, svc.Geofence())

	_, err = svc.ClockIn(context.Background(), "u-1", geofence.Point{Latitude: 0.005, Longitude: 0}, "")
	require.NoError(t, err)

	_, err = svc.ClockIn(context.Background(), "u-1", office, "")
	assert.Equal(t, apierr.CodeOutsideGeofence, apierr.CodeOf(err))
}
