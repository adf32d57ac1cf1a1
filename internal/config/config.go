package config

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	DefaultPort     = 4000
	DefaultDB       = "data/db.json"
	DefaultHost     = ""
	DefaultLogLevel = "info"
)

// ServerConfig configures the mock data server.
type ServerConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	DB       string `mapstructure:"db"`
	ReadOnly bool   `mapstructure:"read_only"`
	Metrics  bool   `mapstructure:"metrics"`
	LogLevel string `mapstructure:"log_level"`
}

// Addr returns the listen address.
func (c ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// flagKeys maps command-line flag names to config keys.
var flagKeys = map[string]string{
	"host":      "host",
	"port":      "port",
	"db":        "db",
	"read-only": "read_only",
	"metrics":   "metrics",
	"log-level": "log_level",
}

// envKeys maps config keys to environment variables.
var envKeys = map[string]string{
	"host":      "HOST",
	"port":      "PORT",
	"db":        "DB_FILE",
	"read_only": "READ_ONLY",
	"metrics":   "METRICS",
	"log_level": "LOG_LEVEL",
}

// LoadServer resolves the server configuration. Precedence: changed flags,
// environment (after loading envFiles, which never override variables that
// are already set), then defaults. Missing env files are ignored.
func LoadServer(flags *pflag.FlagSet, envFiles ...string) (*ServerConfig, error) {
	if len(envFiles) > 0 {
		if err := godotenv.Load(envFiles...); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to load env file: %w", err)
		}
	}

	v := viper.New()
	v.SetDefault("host", DefaultHost)
	v.SetDefault("port", DefaultPort)
	v.SetDefault("db", DefaultDB)
	v.SetDefault("read_only", false)
	v.SetDefault("metrics", false)
	v.SetDefault("log_level", DefaultLogLevel)

	for key, env := range envKeys {
		if err := v.BindEnv(key, env); err != nil {
			return nil, err
		}
	}

	if flags != nil {
		for name, key := range flagKeys {
			f := flags.Lookup(name)
			if f == nil {
				continue
			}
			if err := v.BindPFlag(key, f); err != nil {
				return nil, err
			}
		}
	}

	var cfg ServerConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

// Validate checks the configuration.
func (c *ServerConfig) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535, got %d", c.Port)
	}
	if c.DB == "" {
		return fmt.Errorf("db path is required")
	}
	return nil
}
