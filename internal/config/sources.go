package config

import (
	"fmt"
	"os"
	"sort"
	"strings"
)

// ConfigSource indicates where a configuration value came from.
type ConfigSource string

const (
	// SourceDefault indicates a built-in default value.
	SourceDefault ConfigSource = "default"
	// SourceFile indicates the config file.
	SourceFile ConfigSource = "file"
	// SourceEnv indicates an environment variable override.
	SourceEnv ConfigSource = "env"
	// SourceFlag indicates a CLI flag override.
	SourceFlag ConfigSource = "flag"
)

// Keys lists every configuration key.
var Keys = []string{
	"home",
	"database.driver",
	"database.path",
	"database.dsn",
	"log.level",
	"log.file",
	"log.max_size_mb",
	"log.max_backups",
	"color",
}

// EnvVar returns the environment variable that overrides key.
// e.g. EnvVar("database.path") = "TODO_DATABASE_PATH"
func EnvVar(key string) string {
	return EnvPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
}

// TrackedSource contains both the source type and the file path.
type TrackedSource struct {
	Source ConfigSource
	Path   string // File path or empty for defaults/env/flags
}

// String returns a human-readable source description.
func (ts TrackedSource) String() string {
	if ts.Path == "" {
		return string(ts.Source)
	}
	return fmt.Sprintf("%s: %s", ts.Source, ts.Path)
}

// SourceOf reports which layer supplied key, highest priority first.
func (c *Config) SourceOf(key string) TrackedSource {
	if c.flags != nil {
		if name, ok := FlagBindings[key]; ok {
			if f := c.flags.Lookup(name); f != nil && f.Changed {
				return TrackedSource{Source: SourceFlag}
			}
		}
	}
	if _, ok := os.LookupEnv(EnvVar(key)); ok {
		return TrackedSource{Source: SourceEnv}
	}
	if c.v != nil && c.ConfigFile != "" && c.v.InConfig(key) {
		return TrackedSource{Source: SourceFile, Path: c.ConfigFile}
	}
	return TrackedSource{Source: SourceDefault}
}

// Setting is one resolved key with its value and origin.
type Setting struct {
	Key    string
	Value  string
	Source TrackedSource
}

// Settings returns every key with its effective value, sorted by key.
func (c *Config) Settings() []Setting {
	values := map[string]string{
		"home":            c.Home,
		"database.driver": c.Database.Driver,
		"database.path":   c.Database.Path,
		"database.dsn":    redactDSN(c.Database.DSN),
		"log.level":       c.Log.Level,
		"log.file":        c.Log.File,
		"log.max_size_mb": fmt.Sprint(c.Log.MaxSizeMB),
		"log.max_backups": fmt.Sprint(c.Log.MaxBackups),
		"color":           c.Color,
	}

	out := make([]Setting, 0, len(Keys))
	for _, key := range Keys {
		out = append(out, Setting{Key: key, Value: values[key], Source: c.SourceOf(key)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

// redactDSN hides the password portion of a postgres URL DSN.
func redactDSN(dsn string) string {
	at := strings.LastIndex(dsn, "@")
	scheme := strings.Index(dsn, "://")
	if at < 0 || scheme < 0 || at < scheme {
		return dsn
	}
	userinfo := dsn[scheme+3 : at]
	colon := strings.Index(userinfo, ":")
	if colon < 0 {
		return dsn
	}
	return dsn[:scheme+3] + userinfo[:colon] + ":****" + dsn[at:]
}
