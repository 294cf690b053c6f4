// Package config resolves runtime settings from defaults, an optional YAML
// file, a .env file and the environment, in that order of precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"concertcloud-cli/filter"
)

const (
	AppName        = "concertcloud-cli"
	DefaultAPIURL  = "http://127.0.0.1:8000"
	DefaultEnvFile = ".env"

	EnvAPIURL   = "CONCERTCLOUD_API_URL"
	EnvTimeout  = "CONCERTCLOUD_TIMEOUT"
	EnvLogFile  = "CONCERTCLOUD_LOG_FILE"
	EnvLogLevel = "CONCERTCLOUD_LOG_LEVEL"
)

var validate = validator.New()

type Config struct {
	APIURL   string         `yaml:"api_url" validate:"required,url"`
	Timeout  time.Duration  `yaml:"-" validate:"gte=0"`
	LogFile  string         `yaml:"log_file"`
	LogLevel string         `yaml:"log_level" validate:"omitempty,oneof=debug info warn error"`
	Defaults FilterDefaults `yaml:"defaults"`
}

// FilterDefaults seeds the filter state at session start.
type FilterDefaults struct {
	EventID      int    `yaml:"event_id" validate:"omitempty,gte=1"`
	Quantity     int    `yaml:"quantity" validate:"omitempty,gte=1,lte=8"`
	Sort         string `yaml:"sort" validate:"omitempty,oneof=best cheapest"`
	VerifiedOnly bool   `yaml:"verified_only"`
	Together     bool   `yaml:"together"`
}

func Default() Config {
	return Config{
		APIURL:   DefaultAPIURL,
		LogLevel: "info",
	}
}

// Options tells Load where to look.
type Options struct {
	// File is an explicit config path; it must exist. Empty means the
	// default path, which may be missing.
	File string
	// EnvFile is the dotenv file; empty means DefaultEnvFile. A missing
	// file is ignored.
	EnvFile string
}

func Load(opts Options) (Config, error) {
	cfg := Default()

	path := strings.TrimSpace(opts.File)
	explicit := path != ""
	if !explicit {
		if p, err := DefaultPath(); err == nil {
			path = p
		}
	}
	if path != "" {
		if err := cfg.mergeFile(path); err != nil {
			if explicit || !errors.Is(err, fs.ErrNotExist) {
				return Config{}, err
			}
		}
	}

	envFile := opts.EnvFile
	if envFile == "" {
		envFile = DefaultEnvFile
	}
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load %s: %w", envFile, err)
	}
	if err := cfg.mergeEnv(); err != nil {
		return Config{}, err
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) mergeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}

	// timeout takes the same forms as the environment variable.
	var raw struct {
		Timeout yaml.Node `yaml:"timeout"`
	}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	if raw.Timeout.Kind == yaml.ScalarNode && raw.Timeout.Tag != "!!null" {
		d, err := parseTimeout(strings.TrimSpace(raw.Timeout.Value))
		if err != nil {
			return fmt.Errorf("parse %s: timeout: %w", path, err)
		}
		c.Timeout = d
	}
	return nil
}

func (c *Config) mergeEnv() error {
	if v := getEnv(EnvAPIURL, ""); v != "" {
		c.APIURL = v
	}
	if v := getEnv(EnvTimeout, ""); v != "" {
		d, err := parseTimeout(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvTimeout, err)
		}
		c.Timeout = d
	}
	if v := getEnv(EnvLogFile, ""); v != "" {
		c.LogFile = v
	}
	if v := getEnv(EnvLogLevel, ""); v != "" {
		c.LogLevel = strings.ToLower(v)
	}
	return nil
}

// parseTimeout accepts a Go duration or a bare number of seconds.
func parseTimeout(v string) (time.Duration, error) {
	if secs, err := strconv.Atoi(v); err == nil {
		return time.Duration(secs) * time.Second, nil
	}
	return time.ParseDuration(v)
}

// Validate checks every field.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var invalid validator.ValidationErrors
		if errors.As(err, &invalid) {
			msgs := make([]string, 0, len(invalid))
			for _, fe := range invalid {
				msgs = append(msgs, fmt.Sprintf("%s failed %q", fe.Namespace(), fe.Tag()))
			}
			return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
		}
		return err
	}
	return nil
}

// Filters returns the starting filter state.
func (c Config) Filters() filter.State {
	state := filter.Defaults()
	if c.Defaults.EventID > 0 {
		state = state.WithEventID(c.Defaults.EventID)
	}
	if c.Defaults.Quantity > 0 {
		state = state.WithQuantity(c.Defaults.Quantity)
	}
	if c.Defaults.Sort != "" {
		state.Sort = filter.ParseSort(c.Defaults.Sort)
	}
	state.VerifiedOnly = c.Defaults.VerifiedOnly
	state.Together = c.Defaults.Together
	return state
}

// DefaultPath is config.yaml under the user config dir.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, AppName, "config.yaml"), nil
}

func getEnv(key, fallback string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return fallback
}
