package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

const (
	appName   = "tasklog"
	envPrefix = "TASKLOG"
)

// Config is resolved from defaults, an optional YAML file, TASKLOG_*
// environment variables and bound CLI flags, in increasing precedence.
type Config struct {
	DBPath string     `mapstructure:"db"`
	Log    LogConfig  `mapstructure:"log"`
	List   ListConfig `mapstructure:"list"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type ListConfig struct {
	NullsLast bool `mapstructure:"nulls_last"`
}

// New returns a viper instance with defaults and environment lookup set up.
// Callers bind flags to it before Load.
func New() *viper.Viper {
	v := viper.New()
	v.SetDefault("db", DefaultDBPath())
	v.SetDefault("log.level", "warn")
	v.SetDefault("log.format", "console")
	v.SetDefault("list.nulls_last", false)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads configFile when given, otherwise config.yaml from the user
// config dir if one exists.
func Load(v *viper.Viper, configFile string) (Config, error) {
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		if dir, err := os.UserConfigDir(); err == nil {
			v.AddConfigPath(filepath.Join(dir, appName))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	if strings.TrimSpace(c.DBPath) == "" {
		return fmt.Errorf("config: db path is required")
	}
	switch c.Log.Format {
	case "console", "json":
	default:
		return fmt.Errorf("config: unsupported log format %q (supported: console, json)", c.Log.Format)
	}
	return nil
}

func DefaultDBPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return filepath.Join("."+appName, "tasks.db")
	}
	return filepath.Join(dir, appName, "tasks.db")
}
