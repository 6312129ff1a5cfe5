package config

import (
	"fmt"
	"math"
	"net"
	"net/url"
	"slices"
	"strconv"
	"strings"
	"time"
)

// Package-level constants for performance optimization
var (
	validLogLevels      = []string{"debug", "info", "warn", "error", "fatal", "panic"}
	validStorageDrivers = []string{"sqlite", "postgres"}
)

// validateConfig validates the configuration and returns an error if invalid.
func validateConfig(c *Config) error {
	for _, validate := range []func() error{
		func() error { return validateServerConfig(c.Server) },
		func() error { return validateRemoteConfig(c.Remote) },
		func() error { return validateStorageConfig(c.Storage) },
		func() error { return validateAttendanceConfig(c.Attendance) },
		func() error { return validateSchedulerConfig(c.Scheduler) },
		func() error { return validateLogConfig(c.Log) },
	} {
		if err := validate(); err != nil {
			return err
		}
	}
	return nil
}

// validateServerConfig validates server configuration.
func validateServerConfig(s ServerConfig) error {
	if s.Addr == "" {
		return fmt.Errorf("server.addr cannot be empty")
	}

	// Validate address format
	_, portStr, err := net.SplitHostPort(s.Addr)
	if err != nil {
		return fmt.Errorf("server.addr invalid format: %w", err)
	}

	// Validate port range
	if portStr != "" {
		port, err := strconv.Atoi(portStr)
		if err != nil {
			return fmt.Errorf("server.addr invalid port: %w", err)
		}
		if port < 1 || port > 65535 {
			return fmt.Errorf("server.addr port out of range (1-65535)")
		}
	}

	// Validate timeouts
	if s.ReadTimeout <= 0 {
		return fmt.Errorf("server.read_timeout must be greater than 0")
	}
	if s.WriteTimeout <= 0 {
		return fmt.Errorf("server.write_timeout must be greater than 0")
	}
	if s.IdleTimeout <= 0 {
		return fmt.Errorf("server.idle_timeout must be greater than 0")
	}
	if s.ReadTimeout > 5*time.Minute {
		return fmt.Errorf("server.read_timeout too large (max 5m)")
	}
	if s.WriteTimeout > 5*time.Minute {
		return fmt.Errorf("server.write_timeout too large (max 5m)")
	}

	if s.EnableCORS && len(s.CORSOrigins) == 0 {
		return fmt.Errorf("server.cors_origins cannot be empty when cors is enabled")
	}

	if s.RateLimit.RequestsPerSecond < 0 {
		return fmt.Errorf("server.rate_limit.requests_per_second cannot be negative")
	}
	if s.RateLimit.RequestsPerSecond > 0 && s.RateLimit.Burst < 1 {
		return fmt.Errorf("server.rate_limit.burst must be at least 1 when rate limiting is enabled")
	}

	if err := validateSessionConfig(s.Session); err != nil {
		return fmt.Errorf("server.session: %w", err)
	}

	return nil
}

// validateSessionConfig validates session cookie configuration.
func validateSessionConfig(s SessionConfig) error {
	if s.CookieName == "" {
		return fmt.Errorf("cookie_name cannot be empty")
	}
	if strings.ContainsAny(s.CookieName, " ;,=") {
		return fmt.Errorf("cookie_name contains invalid characters")
	}
	if s.TTL < 5*time.Minute {
		return fmt.Errorf("ttl too small (minimum 5 minutes)")
	}
	if s.TTL > 30*24*time.Hour {
		return fmt.Errorf("ttl too large (maximum 30 days)")
	}
	return nil
}

// validateRemoteConfig validates the remote API settings.
func validateRemoteConfig(r RemoteConfig) error {
	if r.BaseURL == "" {
		return fmt.Errorf("remote.base_url cannot be empty")
	}
	u, err := url.Parse(r.BaseURL)
	if err != nil {
		return fmt.Errorf("remote.base_url invalid: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("remote.base_url must use http or https")
	}
	if u.Host == "" {
		return fmt.Errorf("remote.base_url must include a host")
	}

	if r.Timeout < time.Second {
		return fmt.Errorf("remote.timeout too small (min 1s)")
	}
	if r.Timeout > 2*time.Minute {
		return fmt.Errorf("remote.timeout too large (max 2m)")
	}

	if r.MaxRetries < 0 {
		return fmt.Errorf("remote.max_retries cannot be negative")
	}
	if r.MaxRetries > 10 {
		return fmt.Errorf("remote.max_retries too large (max 10)")
	}
	if r.MaxRetries > 0 {
		if r.RetryInitialInterval <= 0 {
			return fmt.Errorf("remote.retry_initial_interval must be greater than 0")
		}
		if r.RetryMaxInterval < r.RetryInitialInterval {
			return fmt.Errorf("remote.retry_max_interval cannot be smaller than retry_initial_interval")
		}
	}

	return nil
}

// validateStorageConfig validates storage configuration.
func validateStorageConfig(s StorageConfig) error {
	if !slices.Contains(validStorageDrivers, s.Driver) {
		return fmt.Errorf("storage.driver must be one of: %s", strings.Join(validStorageDrivers, ", "))
	}
	if s.DSN == "" {
		return fmt.Errorf("storage.dsn cannot be empty")
	}
	if s.Driver == "sqlite" && strings.Contains(s.DSN, "..") {
		return fmt.Errorf("storage.dsn cannot contain '..' for security")
	}

	// Validate connection pool settings
	if s.MaxOpenConns <= 0 {
		return fmt.Errorf("storage.max_open_conns must be greater than 0")
	}
	if s.MaxIdleConns < 0 {
		return fmt.Errorf("storage.max_idle_conns cannot be negative")
	}
	if s.MaxIdleConns > s.MaxOpenConns {
		return fmt.Errorf("storage.max_idle_conns cannot be greater than max_open_conns")
	}
	if s.ConnMaxLifetime < time.Minute {
		return fmt.Errorf("storage.conn_max_lifetime too small (min 1m)")
	}
	if s.ConnMaxLifetime > 24*time.Hour {
		return fmt.Errorf("storage.conn_max_lifetime too large (max 24h)")
	}

	return nil
}

// validateAttendanceConfig validates the office geofence.
func validateAttendanceConfig(a AttendanceConfig) error {
	if math.IsNaN(a.OfficeLatitude) || a.OfficeLatitude < -90 || a.OfficeLatitude > 90 {
		return fmt.Errorf("attendance.office_latitude must be between -90 and 90")
	}
	if math.IsNaN(a.OfficeLongitude) || a.OfficeLongitude < -180 || a.OfficeLongitude > 180 {
		return fmt.Errorf("attendance.office_longitude must be between -180 and 180")
	}
	if math.IsNaN(a.MaxDistanceKm) || a.MaxDistanceKm <= 0 {
		return fmt.Errorf("attendance.max_distance_km must be greater than 0")
	}
	if a.MaxDistanceKm > 50 {
		return fmt.Errorf("attendance.max_distance_km too large (max 50)")
	}
	return nil
}

// validateSchedulerConfig validates scheduler configuration.
func validateSchedulerConfig(s SchedulerConfig) error {
	if s.WorkerCount <= 0 {
		return fmt.Errorf("scheduler.worker_count must be greater than 0")
	}
	if s.WorkerCount > 64 {
		return fmt.Errorf("scheduler.worker_count too large (max 64)")
	}
	if s.MaxRetries < 0 || s.MaxRetries > 10 {
		return fmt.Errorf("scheduler.max_retries must be between 0 and 10")
	}
	if s.SessionCleanupInterval < time.Minute {
		return fmt.Errorf("scheduler.session_cleanup_interval too small (min 1m)")
	}
	if s.LogCleanupInterval < time.Minute {
		return fmt.Errorf("scheduler.log_cleanup_interval too small (min 1m)")
	}
	if s.LogRetention < 0 {
		return fmt.Errorf("scheduler.log_retention cannot be negative")
	}
	if s.LogRetention > 0 && s.LogRetention < 24*time.Hour {
		return fmt.Errorf("scheduler.log_retention too small (min 24h)")
	}
	return nil
}

// validateLogConfig validates log configuration.
func validateLogConfig(l LogConfig) error {
	if !slices.Contains(validLogLevels, strings.ToLower(l.Level)) {
		return fmt.Errorf("log.level must be one of: debug, info, warn, error, fatal, panic")
	}
	return nil
}
