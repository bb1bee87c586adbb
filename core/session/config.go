package session

import "time"

// Config holds configuration for the session core.
type Config struct {
	// TTLHours is the session lifetime in hours. The expiry is refreshed
	// (never reduced) on every write.
	TTLHours int `mapstructure:"ttl_hours" default:"24"`
	// CodeColumn is the catalog column holding the scannable code.
	// If the uploaded catalog lacks this column, its first column is used.
	CodeColumn string `mapstructure:"code_column" default:"Codigo"`
	// QuantityColumn is the catalog column holding required quantities.
	// When present in an uploaded catalog the session runs in multiset mode.
	QuantityColumn string `mapstructure:"quantity_column" default:"Cantidad"`
}

// TTL returns the configured session lifetime as a duration.
func (c Config) TTL() time.Duration {
	hours := c.TTLHours
	if hours <= 0 {
		hours = 24
	}
	return time.Duration(hours) * time.Hour
}
