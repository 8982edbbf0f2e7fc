package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/pkg/errors"
)

const defaultPath = "."

// Config is the full application configuration, loaded from a YAML file
// for the active environment and overlaid with environment variables.
type Config struct {
	Env struct {
		Env         string `json:"env" yaml:"env"`
		ServiceName string `json:"serviceName" yaml:"serviceName"`
		Debug       bool   `json:"debug" yaml:"debug"`
		Log         Log    `json:"log" yaml:"log"`
	} `json:"env" yaml:"env"`

	HTTP struct {
		Port     int    `json:"port" yaml:"port"`
		Host     string `json:"host" yaml:"host"`
		Timeouts struct {
			ReadTimeout       time.Duration `json:"readTimeout" yaml:"readTimeout"`
			ReadHeaderTimeout time.Duration `json:"readHeaderTimeout" yaml:"readHeaderTimeout"`
			WriteTimeout      time.Duration `json:"writeTimeout" yaml:"writeTimeout"`
			IdleTimeout       time.Duration `json:"idleTimeout" yaml:"idleTimeout"`
			RequestTimeout    time.Duration `json:"requestTimeout" yaml:"requestTimeout"`
		} `json:"timeouts" yaml:"timeouts"`
		MaxRequestBytes int64 `json:"maxRequestBytes" yaml:"maxRequestBytes"`
	} `json:"http" yaml:"http"`

	Session *SessionConfig `json:"session" yaml:"session"`

	Routing *RoutingConfig `json:"routing" yaml:"routing"`
}

// SessionConfig governs the in-memory registries of internal/session:
// how often the reaper sweeps, and how long an entry survives after it
// was inserted (reading an entry does not extend its life).
type SessionConfig struct {
	CleanupIntervalSecs int `json:"cleanupIntervalSecs" yaml:"cleanupIntervalSecs"`
	DataRetentionHours  int `json:"dataRetentionHours" yaml:"dataRetentionHours"`
}

// RoutingConfig governs solver and distance-matrix defaults.
type RoutingConfig struct {
	DefaultSpeedMPS float64 `json:"defaultSpeedMps" yaml:"defaultSpeedMps"`
}

type Log struct {
	Pretty       bool          `json:"pretty" yaml:"pretty"`
	Level        string        `json:"level" yaml:"level"`
	Path         string        `json:"path" yaml:"path"`
	MaxAge       time.Duration `json:"maxAge" yaml:"maxAge"`
	RotationTime time.Duration `json:"rotationTime" yaml:"rotationTime"`
}

// Operational defaults: 1800s cleanup interval, 12h retention, 15 m/s
// constant speed. Applied after unmarshal so a YAML/env value of zero
// (unset) falls back to these rather than silently solving with 0 m/s.
func (c *Config) applyDefaults() {
	if c.Session == nil {
		c.Session = &SessionConfig{}
	}
	if c.Session.CleanupIntervalSecs == 0 {
		c.Session.CleanupIntervalSecs = 1800
	}
	if c.Session.DataRetentionHours == 0 {
		c.Session.DataRetentionHours = 12
	}

	if c.Routing == nil {
		c.Routing = &RoutingConfig{}
	}
	if c.Routing.DefaultSpeedMPS == 0 {
		c.Routing.DefaultSpeedMPS = 15.0
	}

	if c.HTTP.Port == 0 {
		c.HTTP.Port = 3000
	}
	if c.HTTP.Host == "" {
		c.HTTP.Host = "0.0.0.0"
	}
	if c.HTTP.MaxRequestBytes == 0 {
		c.HTTP.MaxRequestBytes = 500 << 20
	}
	if c.HTTP.Timeouts.RequestTimeout == 0 {
		c.HTTP.Timeouts.RequestTimeout = 600 * time.Second
	}
}

// LoadWithEnv loads .yaml files through koanf.
func LoadWithEnv[T any](currEnv string, configPath ...string) (*T, error) {
	cfg := new(T)
	koanfInstance := koanf.New(".")

	// Build list of paths to search for config file
	searchPaths := []string{defaultPath}
	if len(configPath) != 0 {
		pwd, err := os.Getwd()
		if err != nil {
			return nil, errors.Wrap(err, "os.Getwd")
		}
		for _, path := range configPath {
			abs := filepath.Join(pwd, path)
			searchPaths = append(searchPaths, abs)
		}
	}

	// Try to find and load the config file
	var configFile string
	var found bool
	for _, path := range searchPaths {
		candidate := filepath.Join(path, currEnv+".yaml")
		if _, err := os.Stat(candidate); err == nil {
			configFile = candidate
			found = true

			break
		}
	}

	if !found {
		return nil, fmt.Errorf("config file %s.yaml not found in any search path", currEnv)
	}

	// Load YAML config file
	if err := koanfInstance.Load(file.Provider(configFile), yaml.Parser()); err != nil {
		return nil, fmt.Errorf("read %s config failed: %w", currEnv, err)
	}

	// Load environment variables
	if err := koanfInstance.Load(env.Provider(".", env.Opt{
		TransformFunc: func(k, v string) (string, any) {
			// Convert ENV_VAR_NAME to env.var.name
			key := strings.ReplaceAll(strings.ToLower(k), "_", ".")

			return key, v
		},
	}), nil); err != nil {
		return nil, fmt.Errorf("load env variables failed: %w", err)
	}

	// Unmarshal into the config struct
	if err := koanfInstance.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshal %s config failed: %w", currEnv, err)
	}

	if vrpCfg, ok := any(cfg).(*Config); ok {
		vrpCfg.applyDefaults()
	}

	return cfg, nil
}

func New() (*Config, error) {
	return LoadWithEnv[Config]("config", "config", "../config", "../../config")
}
