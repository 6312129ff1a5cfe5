package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config represents the complete configuration schema for suitadmin.
//
// Configuration sources (in order of precedence):
//  1. Defaults
//  2. Configuration file (optional)
//  3. Environment variables
type Config struct {
	Server     ServerConfig     `mapstructure:"server" yaml:"server"`
	Remote     RemoteConfig     `mapstructure:"remote" yaml:"remote"`
	Storage    StorageConfig    `mapstructure:"storage" yaml:"storage"`
	Attendance AttendanceConfig `mapstructure:"attendance" yaml:"attendance"`
	Scheduler  SchedulerConfig  `mapstructure:"scheduler" yaml:"scheduler"`
	Log        LogConfig        `mapstructure:"log" yaml:"log"`
}

type ServerConfig struct {
	Addr         string          `mapstructure:"addr" yaml:"addr"`
	ReadTimeout  time.Duration   `mapstructure:"read_timeout" yaml:"read_timeout"`
	WriteTimeout time.Duration   `mapstructure:"write_timeout" yaml:"write_timeout"`
	IdleTimeout  time.Duration   `mapstructure:"idle_timeout" yaml:"idle_timeout"`
	EnableCORS   bool            `mapstructure:"enable_cors" yaml:"enable_cors"`
	CORSOrigins  []string        `mapstructure:"cors_origins" yaml:"cors_origins"`
	RateLimit    RateLimitConfig `mapstructure:"rate_limit" yaml:"rate_limit"`
	Session      SessionConfig   `mapstructure:"session" yaml:"session"`
	StaticDir    string          `mapstructure:"static_dir" yaml:"static_dir"`
}

type RateLimitConfig struct {
	RequestsPerSecond float64 `mapstructure:"requests_per_second" yaml:"requests_per_second"`
	Burst             int     `mapstructure:"burst" yaml:"burst"`
}

// SessionConfig controls the cookie that maps a browser to a stored bearer token.
type SessionConfig struct {
	CookieName string        `mapstructure:"cookie_name" yaml:"cookie_name"`
	TTL        time.Duration `mapstructure:"ttl" yaml:"ttl"`
	Secure     bool          `mapstructure:"secure" yaml:"secure"`
}

// RemoteConfig describes the rental REST API suitadmin fronts.
type RemoteConfig struct {
	BaseURL              string        `mapstructure:"base_url" yaml:"base_url"`
	Timeout              time.Duration `mapstructure:"timeout" yaml:"timeout"`
	MaxRetries           int           `mapstructure:"max_retries" yaml:"max_retries"`
	RetryInitialInterval time.Duration `mapstructure:"retry_initial_interval" yaml:"retry_initial_interval"`
	RetryMaxInterval     time.Duration `mapstructure:"retry_max_interval" yaml:"retry_max_interval"`
}

type StorageConfig struct {
	Driver          string        `mapstructure:"driver" yaml:"driver"`
	DSN             string        `mapstructure:"dsn" yaml:"dsn"`
	MaxOpenConns    int           `mapstructure:"max_open_conns" yaml:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns" yaml:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime" yaml:"conn_max_lifetime"`
}

// AttendanceConfig holds the geofence used to gate clock-in and clock-out.
type AttendanceConfig struct {
	OfficeLatitude  float64 `mapstructure:"office_latitude" yaml:"office_latitude"`
	OfficeLongitude float64 `mapstructure:"office_longitude" yaml:"office_longitude"`
	MaxDistanceKm   float64 `mapstructure:"max_distance_km" yaml:"max_distance_km"`
}

// SchedulerConfig controls the background housekeeping jobs.
type SchedulerConfig struct {
	WorkerCount            int           `mapstructure:"worker_count" yaml:"worker_count"`
	MaxRetries             int           `mapstructure:"max_retries" yaml:"max_retries"`
	SessionCleanupInterval time.Duration `mapstructure:"session_cleanup_interval" yaml:"session_cleanup_interval"`
	LogCleanupInterval     time.Duration `mapstructure:"log_cleanup_interval" yaml:"log_cleanup_interval"`
	LogRetention           time.Duration `mapstructure:"log_retention" yaml:"log_retention"` // 0 keeps attendance logs forever
}

type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`   // debug, info, warn, error, fatal, panic
	Pretty bool   `mapstructure:"pretty" yaml:"pretty"` // human-readable console output
}

// Load loads configuration from defaults, configuration file,
// and environment variables, then validates the result.
//
// The function fails fast on:
//   - Invalid configuration file
//   - Invalid or missing required configuration values
func Load() (*Config, error) {
	v := viper.New()

	// Register default values
	setDefaults(v)

	// Environment variable support
	v.SetEnvPrefix("SUITADMIN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AllowEmptyEnv(false)
	v.AutomaticEnv()

	// Optional configuration file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Cross-platform config directory
	if configDir := getConfigDir(); configDir != "" {
		v.AddConfigPath(configDir)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("config file error: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	normalizeConfig(&cfg)

	if err := validateConfig(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// getConfigDir returns the appropriate config directory for the current OS
func getConfigDir() string {
	if runtime.GOOS == "windows" {
		if appData := os.Getenv("APPDATA"); appData != "" {
			return filepath.Join(appData, "suitadmin")
		}
		return ""
	}

	if home := os.Getenv("HOME"); home != "" {
		return filepath.Join(home, ".suitadmin")
	}
	return ""
}
