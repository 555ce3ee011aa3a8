// Package config holds configuration for the loadable library and for the
// udfctl installer.
//
// The library cannot take flags, so it reads a handful of environment
// variables the first time any function is initialized. The installer reads
// an optional YAML file and lets flags override it.
package config

import (
	"io"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/pluots/udf-suite/pkg/errors"
	"github.com/pluots/udf-suite/pkg/log"
)

// Environment variables read by the library.
const (
	EnvLogLevel  = "UDF_SUITE_LOG_LEVEL"
	EnvLogFormat = "UDF_SUITE_LOG_FORMAT"
	EnvLogBuffer = "UDF_SUITE_LOG_BUFFER"
)

// DefaultLibrary is the shared object name used in CREATE FUNCTION statements.
const DefaultLibrary = "libudf_suite.so"

// Library configures the shared library.
type Library struct {
	LogLevel  string
	LogFormat string

	// LogBuffer is the async log queue length. Entries beyond it are dropped
	// so a slow error log never stalls row processing.
	LogBuffer int
}

// DefaultLibraryConfig returns the library defaults.
func DefaultLibraryConfig() Library {
	return Library{
		LogLevel:  "warn",
		LogFormat: "server",
		LogBuffer: 256,
	}
}

// LibraryFromEnv overlays environment values on the defaults. lookup is
// os.LookupEnv outside tests.
func LibraryFromEnv(lookup func(string) (string, bool)) (Library, error) {
	cfg := DefaultLibraryConfig()
	if lookup == nil {
		lookup = os.LookupEnv
	}

	if v, ok := lookup(EnvLogLevel); ok && v != "" {
		cfg.LogLevel = v
	}
	if v, ok := lookup(EnvLogFormat); ok && v != "" {
		cfg.LogFormat = v
	}
	if v, ok := lookup(EnvLogBuffer); ok && v != "" {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil || n < 0 {
			return cfg, errors.Newf(errors.ErrCodeConfigInvalid, "%s must be a non-negative integer, got %q", EnvLogBuffer, v).Err()
		}
		cfg.LogBuffer = n
	}

	return cfg, cfg.Validate()
}

// Validate checks that level and format names are known.
func (c Library) Validate() error {
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		return errors.Wrap(err, errors.ErrCodeConfigInvalid, "invalid log level").Err()
	}
	if _, err := log.ParseFormat(c.LogFormat); err != nil {
		return errors.Wrap(err, errors.ErrCodeConfigInvalid, "invalid log format").Err()
	}
	return nil
}

// NewLogger builds the logger described by c, writing to w (stderr if nil).
func (c Library) NewLogger(w io.Writer) *log.Logger {
	level, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		level = log.LevelWarn
	}
	format, err := log.ParseFormat(c.LogFormat)
	if err != nil {
		format = log.FormatServer
	}
	return log.New(log.Config{
		DefaultLevel: level,
		Output:       w,
		Format:       format,
		AsyncBuffer:  c.LogBuffer,
	})
}

// Installer is the udfctl configuration file.
type Installer struct {
	// DSN is a go-sql-driver/mysql data source name.
	DSN string `yaml:"dsn"`

	// Library is the SONAME used in CREATE FUNCTION.
	Library string `yaml:"library"`

	// LibraryPath is the built shared object, watched by `install --watch`.
	LibraryPath string `yaml:"library_path"`

	// Functions restricts install/uninstall to these names. Empty means all.
	Functions []string `yaml:"functions"`

	// Replace uses CREATE OR REPLACE (MariaDB) instead of DROP + CREATE.
	Replace bool `yaml:"replace"`

	// PostgresDSN is used by `udfctl parity`.
	PostgresDSN string `yaml:"postgres_dsn"`

	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`
}

// DefaultInstallerConfig returns the installer defaults.
func DefaultInstallerConfig() Installer {
	return Installer{
		Library:   DefaultLibrary,
		LogLevel:  "info",
		LogFormat: "text",
	}
}

// LoadInstaller reads a YAML file over the defaults.
func LoadInstaller(path string) (Installer, error) {
	cfg := DefaultInstallerConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, errors.Wrapf(err, errors.ErrCodeConfigMissing, "read config %s", path).Err()
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, errors.Wrapf(err, errors.ErrCodeConfigParse, "parse config %s", path).Err()
	}
	if cfg.Library == "" {
		cfg.Library = DefaultLibrary
	}
	return cfg, nil
}
