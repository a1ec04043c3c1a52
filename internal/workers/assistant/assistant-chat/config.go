package assistantchat

import (
	"time"

	"bitsa-assistant/internal/common/config"
)

type Config struct {
	Timeout time.Duration
}

func DefaultConfig() *Config {
	return &Config{Timeout: 150 * time.Second}
}

// ConfigFrom overlays the worker section on the defaults. Two completion
// calls may run per job, so the timeout covers both.
func ConfigFrom(wcfg config.WorkerConfig) *Config {
	cfg := DefaultConfig()
	if wcfg.Timeout > 0 {
		cfg.Timeout = time.Duration(wcfg.Timeout) * time.Millisecond
	}
	return cfg
}
