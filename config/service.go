package config

import (
	"fmt"
	"time"

	"github.com/skillsenselab/wirekit/logger"
)

// WarmupConfig controls the eager resolution of async singletons during
// application startup.
type WarmupConfig struct {
	// Disabled skips the warm-up phase entirely; async singletons then
	// resolve on first use.
	Disabled bool `yaml:"disabled" mapstructure:"disabled"`
	// Timeout bounds the whole warm-up phase. Productions exceeding it keep
	// running in the background; startup just stops waiting for them.
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`
	// FailFast aborts startup if any async singleton fails to warm up.
	// When false, failures are logged and startup continues; the failed keys
	// stay resolvable and will re-invoke their factories on first use.
	FailFast bool `yaml:"fail_fast" mapstructure:"fail_fast"`
}

// ApplyDefaults applies default values to warm-up configuration.
func (c *WarmupConfig) ApplyDefaults() {
	if c.Timeout == 0 {
		c.Timeout = 30 * time.Second
	}
}

// ServiceConfig contains the configuration fields every composition root
// needs. Projects extend it by embedding it in their own config structs.
type ServiceConfig struct {
	Name        string        `yaml:"name" mapstructure:"name"`
	Environment string        `yaml:"environment" mapstructure:"environment"`
	Version     string        `yaml:"version" mapstructure:"version"`
	Debug       bool          `yaml:"debug" mapstructure:"debug"`
	Logging     logger.Config `yaml:"logging" mapstructure:"logging"`
	Warmup      WarmupConfig  `yaml:"warmup" mapstructure:"warmup"`
}

// GetServiceConfig returns the base ServiceConfig. When embedded in a larger
// config struct this method is promoted, so the embedding struct
// automatically satisfies the bootstrap Config interface.
func (c *ServiceConfig) GetServiceConfig() *ServiceConfig {
	return c
}

// ApplyDefaults applies default values to the base configuration. Override
// in embedding structs and call c.ServiceConfig.ApplyDefaults() first.
func (c *ServiceConfig) ApplyDefaults() {
	if c.Environment == "" {
		c.Environment = "development"
	}
	if c.Environment == "development" {
		c.Debug = true
	}
	c.Warmup.ApplyDefaults()
	c.Logging.ApplyDefaults()
	if c.Debug && c.Logging.Level == "info" {
		c.Logging.Level = "debug"
	}
}

// Validate validates the base configuration fields. Override in embedding
// structs and call c.ServiceConfig.Validate() first.
func (c *ServiceConfig) Validate() error {
	if c.Name == "" {
		return fmt.Errorf("config.name is required")
	}
	validEnvs := []string{"development", "staging", "production"}
	for _, v := range validEnvs {
		if c.Environment == v {
			return c.Logging.Validate()
		}
	}
	return fmt.Errorf("config.environment must be one of %v (got: %s)", validEnvs, c.Environment)
}
