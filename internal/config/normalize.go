package config

import "strings"

// normalizeConfig normalizes configuration values.
func normalizeConfig(c *Config) {
	// Normalize log level to lowercase
	c.Log.Level = strings.ToLower(c.Log.Level)

	c.Storage.Driver = strings.ToLower(c.Storage.Driver)

	// Paths are joined onto the base URL, so drop the trailing slash once here
	c.Remote.BaseURL = strings.TrimRight(strings.TrimSpace(c.Remote.BaseURL), "/")
}
