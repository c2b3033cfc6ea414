// Package config loads composition-root configuration from YAML files and
// environment variables using viper, with optional .env loading via
// godotenv.
//
// Projects embed ServiceConfig in their own config structs:
//
//	type AppConfig struct {
//	    config.ServiceConfig `yaml:",inline" mapstructure:",squash"`
//	    CacheDir string `yaml:"cache_dir" mapstructure:"cache_dir"`
//	}
//
//	var cfg AppConfig
//	if err := config.Load("my-app", &cfg); err != nil { ... }
package config
