package config

import (
	"errors"
	"io/fs"
	"os"
	"regexp"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the process configuration. Gateway credentials live in the
// separate settings file at SettingsPath.
type Config struct {
	SettingsPath string        `yaml:"settings_path"`
	Gateway      GatewayConfig `yaml:"gateway"`
	Server       ServerConfig  `yaml:"server"`
	Log          LogConfig     `yaml:"log"`
}

type GatewayConfig struct {
	Host             string   `yaml:"host"` // skips discovery when set
	DiscoveryTimeout Duration `yaml:"discovery_timeout"`
	RequestTimeout   Duration `yaml:"request_timeout"`
	ObserveInterval  Duration `yaml:"observe_interval"` // 0 disables polling
}

type ServerConfig struct {
	StaticDir       string   `yaml:"static_dir"`
	ShutdownTimeout Duration `yaml:"shutdown_timeout"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	JSON   bool   `yaml:"json"`
	Colors bool   `yaml:"colors"`
}

// Duration is a wrapper around time.Duration for YAML unmarshalling
type Duration time.Duration

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}

// Default returns the configuration used for keys absent from the file.
func Default() *Config {
	return &Config{
		SettingsPath: "settings.json",
		Gateway: GatewayConfig{
			DiscoveryTimeout: Duration(5 * time.Second),
			RequestTimeout:   Duration(10 * time.Second),
			ObserveInterval:  Duration(10 * time.Second),
		},
		Server: ServerConfig{
			StaticDir:       "public",
			ShutdownTimeout: Duration(5 * time.Second),
		},
		Log: LogConfig{
			Level:  "info",
			Colors: true,
		},
	}
}

// Load reads the configuration file over the defaults. A missing file is not
// an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return nil, err
	}

	expanded := expandEnvVars(string(data))
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, err
	}

	if cfg.SettingsPath == "" {
		cfg.SettingsPath = "settings.json"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Gateway.DiscoveryTimeout <= 0 {
		cfg.Gateway.DiscoveryTimeout = Duration(5 * time.Second)
	}
	if cfg.Gateway.RequestTimeout <= 0 {
		cfg.Gateway.RequestTimeout = Duration(10 * time.Second)
	}
	if cfg.Server.ShutdownTimeout <= 0 {
		cfg.Server.ShutdownTimeout = Duration(5 * time.Second)
	}

	return cfg, nil
}

var envPattern = regexp.MustCompile(`\$\{([^}:]+)(?::([^}]*))?\}`)

// expandEnvVars expands ${VAR} and ${VAR:default}
func expandEnvVars(input string) string {
	return envPattern.ReplaceAllStringFunc(input, func(match string) string {
		parts := envPattern.FindStringSubmatch(match)
		if val := os.Getenv(parts[1]); val != "" {
			return val
		}
		return parts[2]
	})
}
