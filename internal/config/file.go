package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// ErrReadConfigFile is returned when a configuration file cannot be read
var ErrReadConfigFile = errors.New("failed to read config file")

// LoadFile overlays values from a YAML, TOML or JSON configuration file.
// Keys absent from the file leave the current values untouched
func (c *Config) LoadFile(path string) error {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("%w: %w", ErrReadConfigFile, err)
	}

	fileString(v, "api.host", &c.APIHost)
	fileInt(v, "api.port", &c.APIPort)
	fileString(v, "log_level", &c.LogLevel)

	if v.IsSet("offline") {
		c.OfflineForced = v.GetBool("offline")
	}
	fileString(v, "model.provider", &c.Model.Provider)
	fileString(v, "model.api_key", &c.Model.APIKey)
	fileString(v, "model.base_url", &c.Model.BaseURL)
	fileString(v, "model.name", &c.Model.Name)
	fileString(v, "backend_url", &c.BackendURL)

	fileDuration(v, "pacing.status_delay", &c.StatusDelay)
	fileDuration(v, "pacing.frame_delay", &c.FrameDelay)
	fileDuration(v, "timeouts.classify", &c.ClassifyTimeout)
	fileDuration(v, "timeouts.synthesis", &c.SynthesisTimeout)
	fileDuration(v, "timeouts.chat", &c.ChatTimeout)
	fileDuration(v, "timeouts.shutdown", &c.ShutdownTimeout)

	fileString(v, "store.url", &c.Store.URL)
	fileString(v, "store.prefix", &c.Store.Prefix)
	fileInt(v, "store.cache_size", &c.Store.CacheSize)
	return nil
}

func fileString(v *viper.Viper, key string, dst *string) {
	if v.IsSet(key) {
		*dst = v.GetString(key)
	}
}

func fileInt(v *viper.Viper, key string, dst *int) {
	if v.IsSet(key) {
		*dst = v.GetInt(key)
	}
}

func fileDuration(v *viper.Viper, key string, dst *time.Duration) {
	if v.IsSet(key) {
		*dst = v.GetDuration(key)
	}
}
