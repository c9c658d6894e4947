// Package config loads the command-line defaults from an optional YAML file
// and TRANSMUTE_* environment variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"transmute/engine"
)

// EnvPrefix prefixes every environment variable read by Load. Nested keys
// are separated by "__", e.g. TRANSMUTE_OUTPUT__FORMAT=yaml.
const EnvPrefix = "TRANSMUTE_"

// Output formats.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// OutputCfg controls how transformed records are written.
type OutputCfg struct {
	Format string `koanf:"format"` // json|yaml
	Pretty bool   `koanf:"pretty"`
}

// LogCfg selects the zap logger level and encoding.
type LogCfg struct {
	Level  string `koanf:"level"`  // debug|info|warn|error
	Format string `koanf:"format"` // json|console
}

// WatchCfg tunes the schema watcher used by apply --watch.
type WatchCfg struct {
	Debounce time.Duration `koanf:"debounce"`
}

// Config is the full transmute configuration, loaded from defaults, an
// optional YAML file and TRANSMUTE_ environment variables.
type Config struct {
	OnMissing string    `koanf:"on_missing"` // null|omit|error
	Workers   int       `koanf:"workers"`
	Output    OutputCfg `koanf:"output"`
	Log       LogCfg    `koanf:"log"`
	Watch     WatchCfg  `koanf:"watch"`
}

// Default returns the configuration used when nothing is set.
func Default() Config {
	var cfg Config
	applyDefaults(&cfg)

	return cfg
}

// Load merges the YAML file at path (if it exists) with the environment.
// An empty path skips the file.
func Load(path string) (Config, error) {
	k := koanf.New(".")

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil &&
			!errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("failed to load config %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, "__", envKey), nil); err != nil {
		return Config{}, fmt.Errorf("failed to read environment: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to decode config: %w", err)
	}

	applyDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// envKey maps TRANSMUTE_OUTPUT__FORMAT to output__format; the provider then
// splits on "__".
func envKey(s string) string {
	return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
}

func applyDefaults(c *Config) {
	if c.OnMissing == "" {
		c.OnMissing = engine.MissingNull.String()
	}

	if c.Workers <= 0 {
		c.Workers = 4
	}

	if c.Output.Format == "" {
		c.Output.Format = FormatJSON
	}

	if c.Log.Level == "" {
		c.Log.Level = "info"
	}

	if c.Log.Format == "" {
		c.Log.Format = "console"
	}

	if c.Watch.Debounce <= 0 {
		c.Watch.Debounce = 200 * time.Millisecond
	}
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	if _, err := engine.ParseMissingPolicy(c.OnMissing); err != nil {
		return fmt.Errorf("on_missing: %w", err)
	}

	switch c.Output.Format {
	case FormatJSON, FormatYAML:
	default:
		return fmt.Errorf("output.format %q not supported (want json or yaml)", c.Output.Format)
	}

	switch c.Log.Format {
	case "json", "console":
	default:
		return fmt.Errorf("log.format %q not supported (want json or console)", c.Log.Format)
	}

	return nil
}

// MissingPolicy returns the parsed on_missing setting.
func (c Config) MissingPolicy() engine.MissingPolicy {
	p, err := engine.ParseMissingPolicy(c.OnMissing)
	if err != nil {
		return engine.MissingNull
	}

	return p
}
