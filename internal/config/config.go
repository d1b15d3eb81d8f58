// Package config resolves CLI settings from .env files, the environment and
// command-line flags, in increasing order of precedence.
package config

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/speakeasy-api/jsonschema-tools/pkg/loader"
	"github.com/speakeasy-api/jsonschema-tools/pkg/logging"
	"github.com/speakeasy-api/jsonschema-tools/pkg/report"
)

const (
	EnvLogLevel   = "JSONSCHEMA_TOOLS_LOG_LEVEL"
	EnvColor      = "JSONSCHEMA_TOOLS_COLOR"
	EnvCacheSize  = "JSONSCHEMA_TOOLS_CACHE_SIZE"
	EnvTimeFormat = "JSONSCHEMA_TOOLS_TIME_FORMAT"
)

type Config struct {
	LogLevel   logging.Level
	Color      report.ColorMode
	CacheSize  int
	TimeFormat string
}

func Default() Config {
	return Config{
		LogLevel:   logging.LevelOff,
		Color:      report.ColorAuto,
		CacheSize:  loader.DefaultCacheSize,
		TimeFormat: logging.DefaultTimeFormat,
	}
}

// Load reads the given .env files (".env" when none are named; missing files
// are ignored) and then the environment.
func Load(envFiles ...string) (Config, error) {
	_ = godotenv.Load(envFiles...)
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from Default and the variables returned by getenv.
func FromEnv(getenv func(string) string) (Config, error) {
	c := Default()

	if raw := strings.TrimSpace(getenv(EnvLogLevel)); raw != "" {
		level, ok := logging.ParseLevel(raw)
		if !ok {
			return c, fmt.Errorf("invalid %s %q", EnvLogLevel, raw)
		}
		c.LogLevel = level
	}
	if raw := getenv(EnvColor); raw != "" {
		mode, err := report.ParseColorMode(raw)
		if err != nil {
			return c, fmt.Errorf("invalid %s: %w", EnvColor, err)
		}
		c.Color = mode
	}
	if raw := strings.TrimSpace(getenv(EnvCacheSize)); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return c, fmt.Errorf("invalid %s %q: %w", EnvCacheSize, raw, err)
		}
		c.CacheSize = n
	}
	if raw := getenv(EnvTimeFormat); raw != "" {
		if strings.EqualFold(raw, "none") {
			raw = ""
		}
		c.TimeFormat = raw
	}
	return c, nil
}

// RegisterFlags defines the global flags on fs. Parsing fs updates c.
func (c *Config) RegisterFlags(fs *flag.FlagSet) {
	fs.Var((*verbosityFlag)(&c.LogLevel), "v", "verbosity: 0 off, 1 error, 2 warn, 3 info, 4 debug")
	fs.Var((*levelFlag)(&c.LogLevel), "log-level", "log level: off, error, warn, info or debug")
	fs.Var((*colorFlag)(&c.Color), "color", "color output: auto, always or never")
	fs.IntVar(&c.CacheSize, "cache-size", c.CacheSize, "number of parsed schema files to cache, 0 disables")
}

// Logger returns a logger writing to w at the configured level.
func (c Config) Logger(w io.Writer) logging.Logger {
	return logging.New(logging.Options{
		Level:      c.LogLevel,
		Output:     w,
		TimeFormat: c.TimeFormat,
	})
}

type verbosityFlag logging.Level

func (f *verbosityFlag) String() string {
	if f == nil {
		return "0"
	}
	return strconv.Itoa(int(*f) + 1)
}

func (f *verbosityFlag) Set(s string) error {
	n, err := strconv.Atoi(s)
	if err != nil {
		return fmt.Errorf("verbosity must be an integer")
	}
	*f = verbosityFlag(logging.LevelFromVerbosity(n))
	return nil
}

type levelFlag logging.Level

func (f *levelFlag) String() string {
	if f == nil {
		return logging.LevelOff.String()
	}
	return strings.ToLower(logging.Level(*f).String())
}

func (f *levelFlag) Set(s string) error {
	level, ok := logging.ParseLevel(s)
	if !ok {
		return fmt.Errorf("unknown log level %q", s)
	}
	*f = levelFlag(level)
	return nil
}

type colorFlag report.ColorMode

func (f *colorFlag) String() string {
	if f == nil {
		return report.ColorAuto.String()
	}
	return report.ColorMode(*f).String()
}

func (f *colorFlag) Set(s string) error {
	mode, err := report.ParseColorMode(s)
	if err != nil {
		return err
	}
	*f = colorFlag(mode)
	return nil
}
