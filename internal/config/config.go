package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"launchpad/internal/validation"
)

// EnvPrefix prefixes every environment override, e.g. LAUNCHPAD_SERVER_LISTEN.
const EnvPrefix = "LAUNCHPAD"

// Config is the orchestrator's runtime configuration.
type Config struct {
	Server   ServerConfig   `mapstructure:"server" validate:"required"`
	Staging  StagingConfig  `mapstructure:"staging" validate:"required"`
	Workload WorkloadConfig `mapstructure:"workload" validate:"required"`
	Engine   EngineConfig   `mapstructure:"engine" validate:"required"`
	Network  NetworkConfig  `mapstructure:"network"`
	Log      LogConfig      `mapstructure:"log" validate:"required"`
}

// ServerConfig configures the HTTP surface.
type ServerConfig struct {
	Listen      string `mapstructure:"listen" validate:"required"`
	CORSOrigins string `mapstructure:"cors_origins"`
	BodyLimitMB int    `mapstructure:"body_limit_mb" validate:"min=1"`
}

// StagingConfig configures where uploads and manifests are written.
type StagingConfig struct {
	Root string `mapstructure:"root" validate:"required"`
	// Keep leaves per-request staging directories on disk after the run.
	Keep bool `mapstructure:"keep"`
	// RequirementsFile is copied into each staging directory; defaults to <root>/requirements.txt.
	RequirementsFile string `mapstructure:"requirements_file"`
}

// WorkloadConfig configures the generated build manifest.
type WorkloadConfig struct {
	BaseImage         string   `mapstructure:"base_image" validate:"required,imageref"`
	AllowedExtensions []string `mapstructure:"allowed_extensions" validate:"required,min=1,dive,ext"`
}

// EngineConfig bounds calls into the container engine.
type EngineConfig struct {
	BuildTimeout  time.Duration `mapstructure:"build_timeout"`
	LaunchTimeout time.Duration `mapstructure:"launch_timeout"`
}

// NetworkConfig controls how reachable URLs are derived.
type NetworkConfig struct {
	// AdvertiseHost replaces the resolved local address in returned URLs when set.
	AdvertiseHost string `mapstructure:"advertise_host"`
}

// LogConfig configures the slog handler.
type LogConfig struct {
	Level  string `mapstructure:"level" validate:"oneof=debug info warn error"`
	Format string `mapstructure:"format" validate:"oneof=json text"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.listen", ":5000")
	v.SetDefault("server.cors_origins", "*")
	v.SetDefault("server.body_limit_mb", 16)
	v.SetDefault("staging.root", "./uploads")
	v.SetDefault("staging.keep", false)
	v.SetDefault("staging.requirements_file", "")
	v.SetDefault("workload.base_image", "python:3.9-slim-buster")
	v.SetDefault("workload.allowed_extensions", []string{".py"})
	v.SetDefault("engine.build_timeout", 10*time.Minute)
	v.SetDefault("engine.launch_timeout", time.Minute)
	v.SetDefault("network.advertise_host", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
}

// Load reads configuration from defaults, an optional YAML file and LAUNCHPAD_* environment variables.
func Load(filePath string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if filePath != "" {
		if _, err := os.Stat(filePath); os.IsNotExist(err) {
			return nil, fmt.Errorf("config file not found: %s", filePath)
		}

		v.SetConfigFile(filePath)
		v.SetConfigType("yaml")

		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config - malformed value: %w", err)
	}

	if err := validation.Struct(&cfg); err != nil {
		return nil, err
	}

	cfg.normalize()
	return &cfg, nil
}

func (c *Config) normalize() {
	if c.Staging.RequirementsFile == "" {
		c.Staging.RequirementsFile = filepath.Join(c.Staging.Root, "requirements.txt")
	}
	for i, ext := range c.Workload.AllowedExtensions {
		c.Workload.AllowedExtensions[i] = strings.ToLower(ext)
	}
}

// BodyLimit returns the maximum accepted request body in bytes.
func (c *Config) BodyLimit() int {
	return c.Server.BodyLimitMB * 1024 * 1024
}
