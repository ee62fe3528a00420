package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v2"

	"kcalcount/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Model     ModelConfig     `yaml:"model"`
	Log       LogConfig       `yaml:"log"`
	Profiling ProfilingConfig `yaml:"profiling"`
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port            string        `yaml:"port"`
	GinMode         string        `yaml:"gin_mode"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// ModelConfig locates the regression artifact loaded at startup
type ModelConfig struct {
	Path      string  `yaml:"path"`
	Type      string  `yaml:"type"`
	BaseScore float64 `yaml:"base_score"`
}

// LogConfig holds logger settings
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	File   string `yaml:"file"`
}

// ProfilingConfig holds performance profiling settings
type ProfilingConfig struct {
	Port    string `yaml:"port"`
	Enabled bool   `yaml:"enabled"`
}

var (
	modelTypes = []string{"xgboost", "linear"}
	ginModes   = []string{"debug", "release", "test"}
	logLevels  = []string{"ERROR", "WARN", "WARNING", "INFO", "DEBUG", "TRACE"}
	logFormats = []string{"console", "json"}
)

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            "8080",
			GinMode:         "release",
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    15 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Model: ModelConfig{
			Path:      "artifacts/calories_xgb.json",
			Type:      "xgboost",
			BaseScore: 0.5,
		},
		Log: LogConfig{
			Level:  "INFO",
			Format: "console",
		},
		Profiling: ProfilingConfig{
			Port:    "6060",
			Enabled: false,
		},
	}
}

// Load builds the configuration from defaults, the optional YAML file named by
// CONFIG_FILE, then environment variables, and validates the result
func Load() (*Config, error) {
	config := Default()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := loadFile(path, config); err != nil {
			return nil, errors.Wrap(err, "failed to load configuration file")
		}
	}

	loadServerConfig(&config.Server)
	loadModelConfig(&config.Model)
	loadLogConfig(&config.Log)
	loadProfilingConfig(&config.Profiling)

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return config, nil
}

// loadFile overlays the YAML document at path onto config.
func loadFile(path string, config *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.WithCode(errors.CodeConfigInvalid, err)
	}
	if err := yaml.UnmarshalStrict(data, config); err != nil {
		return errors.WithCode(errors.CodeConfigInvalid, fmt.Errorf("%s: %w", path, err))
	}
	return nil
}

func loadServerConfig(c *ServerConfig) {
	c.Port = getEnvOrDefault("PORT", c.Port)
	c.GinMode = getEnvOrDefault("GIN_MODE", c.GinMode)
	c.ReadTimeout = getEnvDurationOrDefault("READ_TIMEOUT", c.ReadTimeout)
	c.WriteTimeout = getEnvDurationOrDefault("WRITE_TIMEOUT", c.WriteTimeout)
	c.ShutdownTimeout = getEnvDurationOrDefault("SHUTDOWN_TIMEOUT", c.ShutdownTimeout)
}

func loadModelConfig(c *ModelConfig) {
	c.Path = getEnvOrDefault("MODEL_PATH", c.Path)
	c.Type = strings.ToLower(getEnvOrDefault("MODEL_TYPE", c.Type))
	c.BaseScore = getEnvFloatOrDefault("MODEL_BASE_SCORE", c.BaseScore)
}

func loadLogConfig(c *LogConfig) {
	c.Level = strings.ToUpper(getEnvOrDefault("LOG_LEVEL", c.Level))
	c.Format = strings.ToLower(getEnvOrDefault("LOG_FORMAT", c.Format))
	c.File = getEnvOrDefault("LOG_FILE", c.File)
}

func loadProfilingConfig(c *ProfilingConfig) {
	c.Port = getEnvOrDefault("PPROF_PORT", c.Port)
	c.Enabled = getEnvBoolOrDefault("PPROF_ENABLED", c.Enabled)
}

func validateConfig(config *Config) error {
	if config.Server.Port == "" {
		return errors.ConfigInvalid("server port is required")
	}
	if _, err := strconv.Atoi(config.Server.Port); err != nil {
		return errors.ConfigInvalid(fmt.Sprintf("server port %q is not a number", config.Server.Port))
	}
	if !oneOf(config.Server.GinMode, ginModes) {
		return errors.ConfigInvalid(fmt.Sprintf("GIN_MODE must be one of %v", ginModes))
	}
	if config.Server.ReadTimeout <= 0 || config.Server.WriteTimeout <= 0 || config.Server.ShutdownTimeout <= 0 {
		return errors.ConfigInvalid("server timeouts must be positive")
	}
	if config.Model.Path == "" {
		return errors.ConfigInvalid("model path is required")
	}
	if !oneOf(config.Model.Type, modelTypes) {
		return errors.ConfigInvalid(fmt.Sprintf("model type %q is not one of %v", config.Model.Type, modelTypes))
	}
	if !oneOf(config.Log.Level, logLevels) {
		return errors.ConfigInvalid(fmt.Sprintf("log level %q is not one of %v", config.Log.Level, logLevels))
	}
	if !oneOf(config.Log.Format, logFormats) {
		return errors.ConfigInvalid(fmt.Sprintf("log format %q is not one of %v", config.Log.Format, logFormats))
	}
	if config.Profiling.Enabled && config.Profiling.Port == config.Server.Port {
		return errors.ConfigInvalid("profiling port must differ from the server port")
	}
	return nil
}

func oneOf(v string, allowed []string) bool {
	for _, a := range allowed {
		if v == a {
			return true
		}
	}
	return false
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
