// Package settings holds the options of the mixin-resolver command.
//
// Values come from defaults, then the process environment (a .env file in
// the working directory is loaded first when present), then command flags.
package settings

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"mixin-resolver/internal/common"
)

// Output formats.
const (
	FormatText = "text"
	FormatYAML = "yaml"
	FormatDump = "dump"
)

// Environment variables.
const (
	EnvPatterns  = "MIXIN_PATTERNS"
	EnvManifests = "MIXIN_MANIFESTS"
	EnvDir       = "MIXIN_DIR"
	EnvFormat    = "MIXIN_FORMAT"
	EnvLogLevel  = "MIXIN_LOG_LEVEL"
	EnvStrict    = "MIXIN_STRICT"
	EnvCacheSize = "MIXIN_CACHE_SIZE"
	EnvTrace     = "MIXIN_TRACE"
)

// DefaultCacheSize bounds the inheritance cache of built configurations.
const DefaultCacheSize = 256

var (
	ErrUnknownFormat   = errors.New("unknown output format")
	ErrUnknownLogLevel = errors.New("unknown log level")
	ErrNoInput         = errors.New("no packages or manifests given")
)

// Settings configures a resolver run.
type Settings struct {
	Patterns  []string   // Go package patterns to load
	Manifests []string   // YAML manifest paths
	Dir       string     // working directory for package patterns
	Format    string     // text, yaml or dump
	LogLevel  slog.Level // minimum level of the stderr logger
	Strict    bool       // treat warnings as errors in check
	CacheSize int        // inheritance cache entries per configuration
	Trace     bool       // export spans to stdout
}

// Default returns the built-in settings.
func Default() Settings {
	return Settings{
		Format:    FormatText,
		LogLevel:  slog.LevelWarn,
		CacheSize: DefaultCacheSize,
	}
}

// Load returns Default overridden by the environment. Variables from
// envFile are added to the environment first; a missing file is ignored.
func Load(envFile string) (Settings, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return Settings{}, fmt.Errorf("failed to load %s: %w", envFile, err)
		}
	}

	s := Default()
	if err := s.ApplyEnv(os.LookupEnv); err != nil {
		return Settings{}, err
	}

	return s, nil
}

// ApplyEnv overrides s with the MIXIN_* variables reported by lookup.
func (s *Settings) ApplyEnv(lookup func(string) (string, bool)) error {
	get := func(key string) (string, bool) {
		v, ok := lookup(key)
		v = strings.TrimSpace(v)

		return v, ok && v != ""
	}

	if v, ok := get(EnvPatterns); ok {
		s.Patterns = SplitList(v)
	}

	if v, ok := get(EnvManifests); ok {
		s.Manifests = SplitList(v)
	}

	if v, ok := get(EnvDir); ok {
		s.Dir = v
	}

	if v, ok := get(EnvFormat); ok {
		s.Format = strings.ToLower(v)
	}

	if v, ok := get(EnvLogLevel); ok {
		level, err := ParseLogLevel(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvLogLevel, err)
		}

		s.LogLevel = level
	}

	if v, ok := get(EnvStrict); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvStrict, err)
		}

		s.Strict = b
	}

	if v, ok := get(EnvCacheSize); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvCacheSize, err)
		}

		s.CacheSize = n
	}

	if v, ok := get(EnvTrace); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvTrace, err)
		}

		s.Trace = b
	}

	return nil
}

// Validate checks that s describes a runnable resolution.
func (s Settings) Validate() error {
	switch s.Format {
	case FormatText, FormatYAML, FormatDump:
	default:
		return fmt.Errorf("%w: %q (want text, yaml or dump)", ErrUnknownFormat, s.Format)
	}

	if s.CacheSize <= 0 {
		return fmt.Errorf("cache size must be positive, got %d", s.CacheSize)
	}

	if len(s.Patterns) == 0 && len(s.Manifests) == 0 {
		return ErrNoInput
	}

	return nil
}

// ParseLogLevel accepts debug, info, warn(ing) and error in any case.
func ParseLogLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("%w: %q", ErrUnknownLogLevel, s)
	}
}

// SplitList splits a comma separated list, dropping empty and repeated elements.
func SplitList(s string) []string {
	var out []string

	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}

	return common.Dedup(out)
}
