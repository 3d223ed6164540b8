// Package config is the startup configuration surface: per-service
// endpoint overrides, transcript storage, logging, and frontend knobs.
// Configuration is loaded once at startup and never mutated at runtime.
package config

import (
	"fmt"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"dario.cat/mergo"
	"github.com/hashicorp/go-multierror"
	"gopkg.in/yaml.v3"

	"github.com/workmate-dev/workmate/pkg/chat/service"
)

// Config represents the full client configuration
type Config struct {
	Services  map[string]ServiceConfig `yaml:"services" mapstructure:"services"`
	Database  DatabaseConfig           `yaml:"database" mapstructure:"database"`
	History   HistoryConfig            `yaml:"history" mapstructure:"history"`
	Logging   LoggingConfig            `yaml:"logging" mapstructure:"logging"`
	NoticeTTL time.Duration            `yaml:"notice_ttl" mapstructure:"notice_ttl"`
}

// ServiceConfig holds the per-service routing triple plus the request
// timeout. Only endpoints of registered services are configurable; the
// payload shape belongs to the service implementation.
type ServiceConfig struct {
	BaseURL string        `yaml:"base_url" mapstructure:"base_url"`
	Path    string        `yaml:"path" mapstructure:"path"`
	Method  string        `yaml:"method" mapstructure:"method"`
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`
}

// DatabaseConfig holds transcript storage configuration
type DatabaseConfig struct {
	Driver string `yaml:"driver" mapstructure:"driver"`
	DSN    string `yaml:"dsn,omitempty" mapstructure:"dsn"`
}

// HistoryConfig controls local transcript persistence
type HistoryConfig struct {
	Enabled bool `yaml:"enabled" mapstructure:"enabled"`
}

// LoggingConfig holds logger configuration
type LoggingConfig struct {
	Level string `yaml:"level" mapstructure:"level"`
	File  string `yaml:"file,omitempty" mapstructure:"file"`
}

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

var logLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// DefaultConfig returns the built-in configuration: the two predefined
// services on their conventional local ports, sqlite history, 5s notices.
func DefaultConfig() *Config {
	return &Config{
		Services: map[string]ServiceConfig{
			service.TimesheetID: {
				BaseURL: "http://localhost:8000",
				Path:    "/chat",
				Method:  http.MethodPost,
				Timeout: 30 * time.Second,
			},
			service.HRPolicyID: {
				BaseURL: "http://localhost:8001",
				Path:    "/query",
				Method:  http.MethodPost,
				Timeout: 30 * time.Second,
			},
		},
		Database: DatabaseConfig{
			Driver: DriverSQLite,
		},
		History: HistoryConfig{
			Enabled: true,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
		NoticeTTL: 5 * time.Second,
	}
}

// SetDefaults fills every zero field from DefaultConfig, including
// partially specified service entries. Service entries are merged one
// by one: mergo cannot address struct values inside a map.
func (c *Config) SetDefaults() {
	c.normalizeServiceKeys()

	def := DefaultConfig()
	if c.Services == nil {
		c.Services = make(map[string]ServiceConfig, len(def.Services))
	}
	for id, dsc := range def.Services {
		sc := c.Services[id]
		_ = mergo.Merge(&sc, dsc)
		c.Services[id] = sc
	}

	// History.Enabled stays untouched: filling the zero value would flip
	// an explicit false back on. Its default lives in the loader.
	def.Services = nil
	def.History = c.History
	_ = mergo.Merge(c, def)
}

// normalizeServiceKeys canonicalizes service map keys so that file or
// environment spellings like hr_policy merge with the predefined entry.
// When both spellings carry an entry the aliased one is explicit user
// input: its set fields win and the canonical entry fills the rest.
func (c *Config) normalizeServiceKeys() {
	if len(c.Services) == 0 {
		return
	}
	normalized := make(map[string]ServiceConfig, len(c.Services))
	for id, sc := range c.Services {
		if service.NormalizeID(id) == id {
			normalized[id] = sc
		}
	}
	for id, sc := range c.Services {
		canon := service.NormalizeID(id)
		if canon == id {
			continue
		}
		if base, ok := normalized[canon]; ok {
			_ = mergo.Merge(&sc, base)
		}
		normalized[canon] = sc
	}
	c.Services = normalized
}

// Validate checks the configuration, accumulating every problem rather
// than stopping at the first.
func (c *Config) Validate() error {
	var result *multierror.Error

	known := DefaultConfig().Services
	for id, sc := range c.Services {
		if _, ok := known[id]; !ok {
			result = multierror.Append(result, fmt.Errorf(
				"services: unknown service %q (known: %s)", id, strings.Join(knownIDs(known), ", ")))
			continue
		}
		if strings.TrimSpace(sc.BaseURL) == "" {
			result = multierror.Append(result, fmt.Errorf("services.%s: base_url is required", id))
		} else if u, err := url.Parse(sc.BaseURL); err != nil || (u.Scheme != "http" && u.Scheme != "https") {
			result = multierror.Append(result, fmt.Errorf("services.%s: base_url %q must be an http(s) URL", id, sc.BaseURL))
		}
		if !strings.HasPrefix(sc.Path, "/") {
			result = multierror.Append(result, fmt.Errorf("services.%s: path %q must start with /", id, sc.Path))
		}
		if m := strings.ToUpper(sc.Method); m != http.MethodPost && m != http.MethodGet && m != http.MethodPut {
			result = multierror.Append(result, fmt.Errorf("services.%s: unsupported method %q", id, sc.Method))
		}
		if sc.Timeout <= 0 {
			result = multierror.Append(result, fmt.Errorf("services.%s: timeout must be positive", id))
		}
	}

	if c.Database.Driver != DriverSQLite && c.Database.Driver != DriverPostgres {
		result = multierror.Append(result, fmt.Errorf("database: unsupported driver %q", c.Database.Driver))
	}
	if c.Database.Driver == DriverPostgres && strings.TrimSpace(c.Database.DSN) == "" {
		result = multierror.Append(result, fmt.Errorf("database: dsn is required for the postgres driver"))
	}

	if !logLevels[c.Logging.Level] {
		result = multierror.Append(result, fmt.Errorf("logging: unknown level %q", c.Logging.Level))
	}

	if c.NoticeTTL <= 0 {
		result = multierror.Append(result, fmt.Errorf("notice_ttl must be positive"))
	}

	return result.ErrorOrNil()
}

func knownIDs(services map[string]ServiceConfig) []string {
	ids := make([]string, 0, len(services))
	for id := range services {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// ServiceOptions converts one service entry into client options.
func (c *Config) ServiceOptions(id string) []service.Option {
	sc, ok := c.Services[service.NormalizeID(id)]
	if !ok {
		return nil
	}
	return []service.Option{
		service.WithBaseURL(sc.BaseURL),
		service.WithPath(sc.Path),
		service.WithMethod(sc.Method),
		service.WithTimeout(sc.Timeout),
	}
}

// Save writes the configuration to a YAML file, creating parent
// directories as needed.
func Save(config *Config, filePath string) error {
	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(filePath), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(filePath, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
