// Package config provides configuration management for todo.
//
// Values are resolved in this order (later overrides earlier):
//  1. Built-in defaults
//  2. Config file (~/.todo/config.yaml, or --config)
//  3. Environment variables (TODO_*)
//  4. CLI flags
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/randalmurphal/todo/internal/db/driver"
	todoerrors "github.com/randalmurphal/todo/internal/errors"
	"github.com/randalmurphal/todo/internal/util"
)

const (
	// AppDirName is the directory under $HOME holding config and data
	AppDirName = ".todo"
	// ConfigFileName is the default config file name
	ConfigFileName = "config.yaml"
	// DBFileName is the default SQLite database file name
	DBFileName = "todo.db"
	// EnvPrefix prefixes every environment variable override
	EnvPrefix = "TODO"
)

// Color modes for terminal output.
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// DatabaseConfig selects and locates the store.
type DatabaseConfig struct {
	// Driver is sqlite (default) or postgres
	Driver string `mapstructure:"driver" yaml:"driver"`
	// Path of the SQLite file (default: <home>/todo.db)
	Path string `mapstructure:"path" yaml:"path,omitempty"`
	// DSN is the PostgreSQL connection string
	DSN string `mapstructure:"dsn" yaml:"dsn,omitempty"`
}

// LogConfig controls diagnostic logging.
type LogConfig struct {
	Level      string `mapstructure:"level" yaml:"level"`
	File       string `mapstructure:"file" yaml:"file,omitempty"`
	MaxSizeMB  int    `mapstructure:"max_size_mb" yaml:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups" yaml:"max_backups"`
}

// Config represents the todo configuration.
type Config struct {
	// Home is the app directory (default: ~/.todo). Only settable via
	// TODO_HOME, since the config file itself lives there.
	Home     string         `mapstructure:"home" yaml:"-"`
	Database DatabaseConfig `mapstructure:"database" yaml:"database"`
	Log      LogConfig      `mapstructure:"log" yaml:"log"`
	Color    string         `mapstructure:"color" yaml:"color"`

	// ConfigFile is the file the values were read from, empty if none.
	ConfigFile string `mapstructure:"-" yaml:"-"`

	v     *viper.Viper
	flags *pflag.FlagSet
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Database: DatabaseConfig{Driver: string(driver.DialectSQLite)},
		Log:      LogConfig{Level: "warn", MaxSizeMB: 10, MaxBackups: 3},
		Color:    ColorAuto,
	}
}

// FlagBindings maps config keys to the CLI flags that override them.
var FlagBindings = map[string]string{
	"database.path": "db",
	"color":         "color",
}

// LoadOptions controls where Load looks for values.
type LoadOptions struct {
	// ConfigFile overrides the default config file location. A missing
	// explicit file is an error unless AllowMissing is set; a missing
	// default file never is.
	ConfigFile   string
	AllowMissing bool
	// Flags, when set, supplies flag overrides per FlagBindings.
	Flags *pflag.FlagSet
}

// Load resolves the configuration. It does not touch the filesystem
// beyond reading the config file; see EnsureAppDir.
func Load(opts LoadOptions) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	appDir, err := ResolveAppDir(v.GetString("home"))
	if err != nil {
		return nil, err
	}

	read := true
	if opts.ConfigFile != "" {
		exists, err := util.Exists(opts.ConfigFile)
		if err != nil {
			return nil, todoerrors.ErrConfigInvalid("config file", err.Error())
		}
		if !exists && !opts.AllowMissing {
			return nil, todoerrors.ErrConfigInvalid("config file", opts.ConfigFile+" does not exist")
		}
		read = exists
		v.SetConfigFile(opts.ConfigFile)
		v.SetConfigType("yaml")
	} else {
		v.AddConfigPath(appDir)
		v.SetConfigName(strings.TrimSuffix(ConfigFileName, filepath.Ext(ConfigFileName)))
		v.SetConfigType("yaml")
	}

	found := false
	if read {
		err := v.ReadInConfig()
		var notFound viper.ConfigFileNotFoundError
		switch {
		case err == nil:
			found = true
		case !errors.As(err, &notFound):
			return nil, todoerrors.ErrConfigInvalid("config file", err.Error())
		}
	}

	if opts.Flags != nil {
		for key, name := range FlagBindings {
			if f := opts.Flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("bind flag --%s: %w", name, err)
				}
			}
		}
	}

	cfg := Default()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, todoerrors.ErrConfigInvalid("config", err.Error())
	}
	cfg.Home = appDir
	if found {
		cfg.ConfigFile = v.ConfigFileUsed()
	}
	cfg.v = v
	cfg.flags = opts.Flags

	if cfg.Database.Path == "" {
		cfg.Database.Path = filepath.Join(appDir, DBFileName)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("home", "")
	v.SetDefault("database.driver", d.Database.Driver)
	v.SetDefault("database.path", "")
	v.SetDefault("database.dsn", "")
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.file", "")
	v.SetDefault("log.max_size_mb", d.Log.MaxSizeMB)
	v.SetDefault("log.max_backups", d.Log.MaxBackups)
	v.SetDefault("color", d.Color)
}

// Validate checks enumerated and required fields.
func (c *Config) Validate() error {
	dialect, err := driver.ParseDialect(c.Database.Driver)
	if err != nil {
		return todoerrors.ErrConfigInvalid("database.driver", "must be one of: sqlite, postgres")
	}
	if dialect == driver.DialectPostgres && c.Database.DSN == "" {
		return todoerrors.ErrConfigInvalid("database.dsn", "required when database.driver is postgres")
	}
	if _, err := c.Log.SlogLevel(); err != nil {
		return todoerrors.ErrConfigInvalid("log.level", "must be one of: debug, info, warn, error")
	}
	switch c.Color {
	case ColorAuto, ColorAlways, ColorNever:
	default:
		return todoerrors.ErrConfigInvalid("color", "must be one of: auto, always, never")
	}
	return nil
}

// Dialect returns the configured database dialect.
func (c *Config) Dialect() driver.Dialect {
	d, err := driver.ParseDialect(c.Database.Driver)
	if err != nil {
		return driver.DialectSQLite
	}
	return d
}

// DSN returns the value handed to the database driver: the file path for
// SQLite, the connection string for PostgreSQL.
func (c *Config) DSN() string {
	if c.Dialect() == driver.DialectPostgres {
		return c.Database.DSN
	}
	return c.Database.Path
}

// SlogLevel parses Level into a slog.Level.
func (l LogConfig) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(l.Level)); err != nil {
		return 0, err
	}
	return level, nil
}

// ResolveAppDir returns home if set, else ~/.todo.
func ResolveAppDir(home string) (string, error) {
	if home != "" {
		return home, nil
	}
	userHome, err := os.UserHomeDir()
	if err != nil {
		return "", todoerrors.ErrHomeNotFound(err)
	}
	return filepath.Join(userHome, AppDirName), nil
}

// EnsureAppDir creates the app directory if it does not exist.
func EnsureAppDir(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return todoerrors.ErrAppDirCreate(dir, err)
	}
	return nil
}

// DefaultConfigPath returns the config file location inside the app dir.
func (c *Config) DefaultConfigPath() string {
	return filepath.Join(c.Home, ConfigFileName)
}
