package config

import "github.com/spf13/viper"

// setDefaults sets default configuration values.
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "30s")
	v.SetDefault("server.idle_timeout", "60s")
	v.SetDefault("server.enable_cors", false)
	v.SetDefault("server.cors_origins", []string{"http://localhost:3000"})
	v.SetDefault("server.rate_limit.requests_per_second", 20.0)
	v.SetDefault("server.rate_limit.burst", 40)
	v.SetDefault("server.session.cookie_name", "suitadmin_session")
	v.SetDefault("server.session.ttl", "12h")
	v.SetDefault("server.session.secure", false)
	v.SetDefault("server.static_dir", "")

	// Remote API defaults
	v.SetDefault("remote.base_url", "http://localhost:3001/api")
	v.SetDefault("remote.timeout", "15s")
	v.SetDefault("remote.max_retries", 0)
	v.SetDefault("remote.retry_initial_interval", "200ms")
	v.SetDefault("remote.retry_max_interval", "2s")

	// Storage defaults
	v.SetDefault("storage.driver", "sqlite")
	v.SetDefault("storage.dsn", "suitadmin.db")
	v.SetDefault("storage.max_open_conns", 16)
	v.SetDefault("storage.max_idle_conns", 4)
	v.SetDefault("storage.conn_max_lifetime", "1h")

	// Attendance defaults
	v.SetDefault("attendance.office_latitude", -8.7877102)
	v.SetDefault("attendance.office_longitude", 115.2068142)
	v.SetDefault("attendance.max_distance_km", 0.1)

	// Scheduler defaults
	v.SetDefault("scheduler.worker_count", 2)
	v.SetDefault("scheduler.max_retries", 2)
	v.SetDefault("scheduler.session_cleanup_interval", "15m")
	v.SetDefault("scheduler.log_cleanup_interval", "24h")
	v.SetDefault("scheduler.log_retention", "2160h")

	// Log defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.pretty", false)
}
