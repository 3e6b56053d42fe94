package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	"github.com/matzehuels/itfstack/pkg/errors"
	"github.com/matzehuels/itfstack/pkg/pipeline"
)

// configFile is the file name looked up in the config directory.
const configFile = "config.toml"

// Config is the on-disk CLI configuration. Command-line flags take
// precedence over every value here.
//
//	[log]
//	level = "info"
//
//	[cache]
//	dir = "/var/cache/itfstack"
//	ttl = "720h"
//	redis_addr = "localhost:6379"
//	disabled = false
//
//	[check]
//	concurrency = 8
//
//	[serve]
//	addr = ":8080"
//	mongo_uri = "mongodb://localhost:27017"
//	mongo_database = "itfstack"
type Config struct {
	Log   LogConfig   `toml:"log"`
	Cache CacheConfig `toml:"cache"`
	Check CheckConfig `toml:"check"`
	Serve ServeConfig `toml:"serve"`
}

// LogConfig holds the [log] section.
type LogConfig struct {
	Level string `toml:"level"`
}

// CacheConfig holds the [cache] section.
type CacheConfig struct {
	Dir       string   `toml:"dir"`
	TTL       Duration `toml:"ttl"`
	RedisAddr string   `toml:"redis_addr"`
	Disabled  bool     `toml:"disabled"`
}

// CheckConfig holds the [check] section.
type CheckConfig struct {
	Concurrency int `toml:"concurrency"`
}

// ServeConfig holds the [serve] section.
type ServeConfig struct {
	Addr          string `toml:"addr"`
	MongoURI      string `toml:"mongo_uri"`
	MongoDatabase string `toml:"mongo_database"`
}

// Duration is a time.Duration written as a string such as "24h".
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func defaultConfig() Config {
	return Config{
		Log:   LogConfig{Level: "info"},
		Cache: CacheConfig{TTL: Duration{pipeline.DefaultTTL}},
		Check: CheckConfig{Concurrency: pipeline.DefaultConcurrency},
		Serve: ServeConfig{Addr: ":8080", MongoDatabase: appName},
	}
}

// loadConfig reads the configuration from path. An empty path means the
// default location, where a missing file yields the defaults. A file given
// explicitly must exist.
func loadConfig(path string) (Config, error) {
	cfg := defaultConfig()

	explicit := path != ""
	if !explicit {
		dir, err := configDir()
		if err != nil {
			return cfg, nil
		}
		path = filepath.Join(dir, configFile)
	}

	if _, err := os.Stat(path); err != nil {
		if !explicit && os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, errors.Wrap(errors.KindIO, err, "read config %s", path)
	}

	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return cfg, errors.Wrap(errors.KindInvalidInput, err, "parse config %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return cfg, errors.New(errors.KindInvalidInput, "unknown config keys in %s: %s", path, strings.Join(keys, ", "))
	}
	if cfg.Check.Concurrency < 0 {
		return cfg, errors.New(errors.KindInvalidInput, "check.concurrency must not be negative")
	}
	return cfg, nil
}

// String renders cfg as TOML.
func (cfg Config) String() string {
	var b strings.Builder
	if err := toml.NewEncoder(&b).Encode(cfg); err != nil {
		return fmt.Sprintf("encode config: %v", err)
	}
	return b.String()
}

// resolvedConfigPath returns the file loadConfig reads.
func (c *CLI) resolvedConfigPath() string {
	if c.configPath != "" {
		return c.configPath
	}
	dir, err := configDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, configFile)
}

// configCommand creates the config command, which prints the effective
// configuration.
func (c *CLI) configCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			path := c.resolvedConfigPath()
			if _, err := os.Stat(path); err != nil {
				printInfo(out, "No config file at %s, using defaults", path)
			} else {
				printInfo(out, "Loaded %s", path)
			}
			fmt.Fprintln(out)
			fmt.Fprint(out, c.Config.String())
			return nil
		},
	}
}
