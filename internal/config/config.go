// Package config turns flags, environment and config files into a typed Config.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
	"golang.org/x/text/unicode/norm"

	"github.com/t3hmun/t3hmun-walk/internal/output"
	"github.com/t3hmun/t3hmun-walk/internal/walk"
)

// EnvPrefix prefixes every environment variable read by the CLI, e.g.
// T3WALK_MAX_CONCURRENCY or T3WALK_WHERE_SKIP_DIR.
const EnvPrefix = "T3WALK"

// Config holds every setting of the t3walk command line.
type Config struct {
	Format         string      `mapstructure:"format"`
	Template       string      `mapstructure:"template"`
	Sort           bool        `mapstructure:"sort"`
	MaxConcurrency int         `mapstructure:"max-concurrency"`
	Progress       bool        `mapstructure:"progress"`
	Verbose        bool        `mapstructure:"verbose"`
	Silent         bool        `mapstructure:"silent"`
	Where          WhereConfig `mapstructure:"where"`
	Watch          WatchConfig `mapstructure:"watch"`
}

// WhereConfig holds the filters of the where and watch commands.
type WhereConfig struct {
	SkipDir       []string `mapstructure:"skip-dir"`
	Name          string   `mapstructure:"name"`
	Path          string   `mapstructure:"path"`
	Ignore        string   `mapstructure:"ignore"`
	Ext           []string `mapstructure:"ext"`
	Suffix        []string `mapstructure:"suffix"`
	Regex         string   `mapstructure:"regex"`
	IncludeHidden bool     `mapstructure:"include-hidden"`
}

// WatchConfig holds the settings of the watch command.
type WatchConfig struct {
	Debounce time.Duration `mapstructure:"debounce"`
}

// Setup points v at the environment and at cfgFile, or at
// $HOME/.t3walk.yaml when cfgFile is empty. It returns the config file
// that was read, if any.
func Setup(v *viper.Viper, cfgFile string) (string, error) {
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			v.AddConfigPath(home)
		}
		v.SetConfigType("yaml")
		v.SetConfigName(".t3walk")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) || (cfgFile == "" && errors.Is(err, fs.ErrNotExist)) {
			return "", nil
		}
		return "", fmt.Errorf("reading config: %w", err)
	}
	return v.ConfigFileUsed(), nil
}

// LoadDotEnv exports the variables of the given .env files into the process
// environment without overriding variables that are already set. Missing
// files are ignored.
func LoadDotEnv(filenames ...string) error {
	for _, name := range filenames {
		if err := godotenv.Load(name); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("(config-godotenv) %w", err)
		}
	}
	return nil
}

// Load decodes the settings of v into a Config and validates it.
// Comma-separated strings, as they come from the environment, decode into
// slices and duration strings into time.Duration.
func Load(v *viper.Viper) (Config, error) {
	var cfg Config
	hook := viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	))
	if err := v.Unmarshal(&cfg, hook); err != nil {
		return Config{}, fmt.Errorf("decoding config: %w", err)
	}
	if cfg.Format == "" {
		cfg.Format = output.FormatText
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports settings that cannot be honoured together.
func (c Config) Validate() error {
	switch c.Format {
	case output.FormatText, output.FormatJSON, output.FormatYAML:
	default:
		return fmt.Errorf("invalid format: %s (want text, json or yaml)", c.Format)
	}
	if c.MaxConcurrency < 0 {
		return fmt.Errorf("invalid max-concurrency: %d", c.MaxConcurrency)
	}
	if c.Verbose && c.Silent {
		return errors.New("verbose and silent are mutually exclusive")
	}
	if c.Watch.Debounce < 0 {
		return fmt.Errorf("invalid watch debounce: %s", c.Watch.Debounce)
	}
	return nil
}

// LogLevel maps the verbosity flags onto a walker log level.
func (c Config) LogLevel() walk.LogLevel {
	switch {
	case c.Verbose:
		return walk.LogLevelDebug
	case c.Silent:
		return walk.LogLevelError
	default:
		return walk.LogLevelWarn
	}
}

// FilterOptions compiles the where settings.
func (w WhereConfig) FilterOptions() (walk.FilterOptions, error) {
	opts := walk.FilterOptions{
		SkipDirs:      trimAll(w.SkipDir),
		NamePattern:   w.Name,
		PathPattern:   w.Path,
		IgnorePattern: w.Ignore,
		Exts:          trimAll(w.Ext),
		Suffixes:      trimAll(w.Suffix),
		IncludeHidden: w.IncludeHidden,
	}
	if w.Regex != "" {
		re, err := regexp.Compile(norm.NFC.String(w.Regex))
		if err != nil {
			return walk.FilterOptions{}, fmt.Errorf("invalid regex pattern: %w", err)
		}
		opts.Regex = re
	}
	return opts, nil
}

// trimAll drops blanks and surrounding spaces left over from comma lists.
func trimAll(values []string) []string {
	var out []string
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
