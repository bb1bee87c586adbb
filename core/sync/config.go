package sync

import "time"

// Config holds configuration for the synchronizer.
type Config struct {
	// Backend selects the enabled sync surface (relay, poll, both).
	Backend string `mapstructure:"backend" default:"both"`
	// PollIntervalSeconds is the replica re-fetch interval for poll sync.
	PollIntervalSeconds int `mapstructure:"poll_interval_seconds" default:"3"`
	// GracePeriodSeconds is how long the relay hub keeps a session alive
	// after its last member disconnects, so a momentary network blip does
	// not discard in-progress inventory work.
	GracePeriodSeconds int `mapstructure:"grace_period_seconds" default:"300"`
}

const (
	BackendRelay = "relay"
	BackendPoll  = "poll"
	BackendBoth  = "both"
)

// IsValidBackend checks if the configured backend is valid.
func (c Config) IsValidBackend() bool {
	switch c.Backend {
	case BackendRelay, BackendPoll, BackendBoth:
		return true
	default:
		return false
	}
}

// RelayEnabled reports whether the relay surface should be loaded.
func (c Config) RelayEnabled() bool {
	return c.Backend == BackendRelay || c.Backend == BackendBoth
}

// PollEnabled reports whether the poll/REST surface should be loaded.
func (c Config) PollEnabled() bool {
	return c.Backend == BackendPoll || c.Backend == BackendBoth
}

// PollInterval returns the poll interval as a duration.
func (c Config) PollInterval() time.Duration {
	seconds := c.PollIntervalSeconds
	if seconds <= 0 {
		seconds = 3
	}
	return time.Duration(seconds) * time.Second
}

// GracePeriod returns the relay grace period as a duration.
func (c Config) GracePeriod() time.Duration {
	seconds := c.GracePeriodSeconds
	if seconds <= 0 {
		seconds = 300
	}
	return time.Duration(seconds) * time.Second
}
