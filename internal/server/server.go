// Package server wires suitadmin's components together and runs them.
//
// The server follows a structured lifecycle:
//  1. Storage initialization
//  2. Rental API client and attendance service
//  3. Housekeeping scheduler
//  4. HTTP API server launch
//  5. Graceful shutdown on context cancellation
package server

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"suitadmin/internal/api"
	"suitadmin/internal/attendance"
	"suitadmin/internal/client"
	"suitadmin/internal/config"
	"suitadmin/internal/format"
	"suitadmin/internal/geofence"
	"suitadmin/internal/jobs"
	"suitadmin/internal/storage"
)

// ShutdownTimeout bounds the graceful shutdown sequence.
const ShutdownTimeout = 30 * time.Second

// Server is the suitadmin orchestrator.
type Server struct {
	cfg *config.Config

	storage   *storage.Storage
	scheduler *jobs.Scheduler
	api       *api.Server
}

// New creates a server. Nothing is opened until Start is called.
func New(cfg *config.Config) *Server {
	return &Server{cfg: cfg}
}

// Start opens storage, starts the housekeeping jobs and serves HTTP until
// ctx is cancelled or the listener fails. Everything it opened is closed
// before it returns.
func (s *Server) Start(ctx context.Context) error {
	if err := s.init(ctx); err != nil {
		s.close()
		return err
	}

	// Buffered so the goroutine never blocks if nobody is listening anymore
	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- s.api.Start()
	}()

	var runErr error
	select {
	case err := <-serverErrors:
		if err != nil {
			runErr = fmt.Errorf("server error: %w", err)
		}
	case <-ctx.Done():
		log.Info().Msg("Shutdown signal received, starting graceful shutdown")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()

	// Stop accepting requests before closing what they depend on
	if err := s.api.Shutdown(shutdownCtx); err != nil {
		runErr = errors.Join(runErr, fmt.Errorf("http shutdown: %w", err))
	}
	if err := s.close(); err != nil {
		runErr = errors.Join(runErr, err)
	}

	if runErr == nil {
		log.Info().Msg("Server stopped gracefully")
	}
	return runErr
}

func (s *Server) init(ctx context.Context) error {
	// Phase 1: storage
	st, err := storage.New(s.cfg.Storage)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	s.storage = st
	log.Info().Str("driver", s.cfg.Storage.Driver).Msg("Storage initialized")

	if n, err := st.Sessions.DeleteExpired(ctx, time.Now()); err != nil {
		log.Warn().Err(err).Msg("Failed to prune expired sessions")
	} else if n > 0 {
		log.Info().Int64("count", n).Msg("Pruned expired sessions")
	}

	// Phase 2: rental API client and attendance
	rc := client.New(s.cfg.Remote)
	fence := geofence.NewValidator(geofence.Point{
		Latitude:  s.cfg.Attendance.OfficeLatitude,
		Longitude: s.cfg.Attendance.OfficeLongitude,
	}, s.cfg.Attendance.MaxDistanceKm)
	clock := attendance.NewService(fence, rc.Attendance, st.AttendanceLogs)

	log.Info().
		Str("base_url", rc.BaseURL()).
		Float64("office_latitude", fence.Office.Latitude).
		Float64("office_longitude", fence.Office.Longitude).
		Float64("max_distance_km", fence.MaxDistanceKm).
		Msg("Rental API client configured")

	// Phase 3: housekeeping
	s.scheduler = jobs.NewScheduler(s.cfg.Scheduler)
	if err := s.scheduler.Start(ctx); err != nil {
		return fmt.Errorf("failed to start scheduler: %w", err)
	}
	for _, job := range jobs.Housekeeping(s.cfg.Scheduler, st.Sessions, st.AttendanceLogs) {
		if err := s.scheduler.AddJob(job); err != nil {
			return fmt.Errorf("failed to schedule %s: %w", job.ID, err)
		}
	}

	// Phase 4: HTTP API
	s.api = api.NewServer(s.cfg.Server, api.Deps{
		Client:     rc,
		Storage:    st,
		Attendance: clock,
		Format:     format.New(nil),
	})
	return nil
}

// close releases the scheduler and storage. It is safe on a partially
// initialized server.
func (s *Server) close() error {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
	if s.storage != nil {
		if err := s.storage.Close(); err != nil {
			return fmt.Errorf("failed to close storage: %w", err)
		}
		s.storage = nil
	}
	return nil
}
