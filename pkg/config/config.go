package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/dmitrymomot/colony/pkg/db"
	"github.com/dmitrymomot/colony/pkg/logger"
	"github.com/dmitrymomot/colony/pkg/mailer"
	"github.com/dmitrymomot/colony/pkg/mailer/resend"
	"github.com/dmitrymomot/colony/pkg/redis"
	"github.com/dmitrymomot/colony/pkg/route"
)

// ErrConfiguration is returned for a malformed or inconsistent configuration.
var ErrConfiguration = errors.New("config: invalid configuration")

// Session backends.
const (
	SessionDB     = "db"
	SessionRedis  = "redis"
	SessionMemory = "memory"
)

// Settings holds every scalar option. Each one can come from the YAML file
// or the environment.
type Settings struct {
	Addr          string `yaml:"addr" env:"HTTP_ADDR" envDefault:":8080"`
	DefaultAction string `yaml:"default_action" env:"DEFAULT_ACTION" envDefault:"index"`
	BaseURL       string `yaml:"base_url" env:"BASE_URL" envDefault:"/"`
	EntryPoint    string `yaml:"entry_point" env:"ENTRY_POINT"`
	StaticDir     string `yaml:"static_dir" env:"STATIC_DIR"`

	SessionType          string `yaml:"session_type" env:"SESSION_TYPE" envDefault:"db"`
	SessionTimeout       int    `yaml:"session_timeout" env:"SESSION_TIMEOUT" envDefault:"3600"`
	SessionDomain        string `yaml:"session_domain" env:"SESSION_DOMAIN"`
	SessionPath          string `yaml:"session_path" env:"SESSION_PATH" envDefault:"/"`
	SessionSecure        bool   `yaml:"session_secure" env:"SESSION_SECURE"`
	SessionPurgeSchedule string `yaml:"session_purge_schedule" env:"SESSION_PURGE_SCHEDULE" envDefault:"@every 10m"`

	ThrowExceptions        bool   `yaml:"throw_exceptions" env:"THROW_EXCEPTIONS" envDefault:"true"`
	LogExceptions          bool   `yaml:"log_exceptions" env:"LOG_EXCEPTIONS" envDefault:"true"`
	ExceptionLog           string `yaml:"exception_log" env:"EXCEPTION_LOG" envDefault:"var/log/exceptions.log"`
	EmailExceptions        bool   `yaml:"email_exceptions" env:"EMAIL_EXCEPTIONS" envDefault:"false"`
	EmailExceptionsAddress string `yaml:"email_exceptions_address" env:"EMAIL_EXCEPTIONS_ADDRESS"`

	DBType      string `yaml:"db_type" env:"DB_TYPE" envDefault:"sqlite"`
	DatabaseURL string `yaml:"database_url" env:"DATABASE_URL" envDefault:"var/colony.db"`
	RedisURL    string `yaml:"redis_url" env:"REDIS_URL"`

	DisplayBackend string `yaml:"display_backend" env:"DISPLAY_BACKEND" envDefault:"template"`
	ViewsDir       string `yaml:"views_dir" env:"VIEWS_DIR" envDefault:"app/views"`

	LogLevel  string `yaml:"log_level" env:"LOG_LEVEL" envDefault:"info"`
	SentryDSN string `yaml:"sentry_dsn" env:"SENTRY_DSN"`
	Metrics   bool   `yaml:"metrics" env:"METRICS_ENABLED" envDefault:"true"`

	// Environment-only groups.
	Database db.Config     `yaml:"-"`
	Mailer   mailer.Config `yaml:"-"`
	Resend   resend.Config `yaml:"-"`
	Redis    redis.Config  `yaml:"-"`
}

// Config is the full application configuration.
type Config struct {
	Settings `yaml:",inline"`

	// Routing is the ordered rule table.
	Routing []route.RuleSpec `yaml:"routing"`

	// App is a free-form mapping exposed to controllers and views.
	App map[string]any `yaml:"app"`
}

// Default returns the configuration with defaults only.
func Default() (*Config, error) {
	cfg := &Config{}
	if err := env.ParseWithOptions(&cfg.Settings, env.Options{Environment: map[string]string{}}); err != nil {
		return nil, errors.Join(ErrConfiguration, err)
	}
	cfg.sync()
	return cfg, nil
}

// Load reads the YAML file at path (skipped when empty) and applies
// environment overrides.
func Load(path string) (*Config, error) {
	if path == "" {
		return LoadReader(nil)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Join(ErrConfiguration, err)
	}
	defer f.Close()
	return LoadReader(f)
}

// LoadReader is Load for an already opened document. A nil reader means
// defaults and environment only.
func LoadReader(r io.Reader) (*Config, error) {
	return load(r, nil)
}

func load(r io.Reader, environ map[string]string) (*Config, error) {
	cfg, err := Default()
	if err != nil {
		return nil, err
	}

	if r != nil {
		var doc yaml.Node
		err := yaml.NewDecoder(r).Decode(&doc)
		switch {
		case errors.Is(err, io.EOF):
		case err != nil:
			return nil, errors.Join(ErrConfiguration, err)
		default:
			if len(doc.Content) == 0 || doc.Content[0].Kind != yaml.MappingNode {
				return nil, fmt.Errorf("%w: top level must be a mapping", ErrConfiguration)
			}
			if err := doc.Decode(cfg); err != nil {
				return nil, errors.Join(ErrConfiguration, err)
			}
		}
	}

	// Only variables that are actually set override the file.
	opts := env.Options{DefaultValueTagName: "envOverrideDefault"}
	if environ != nil {
		opts.Environment = environ
	}
	if err := env.ParseWithOptions(&cfg.Settings, opts); err != nil {
		return nil, errors.Join(ErrConfiguration, err)
	}

	cfg.sync()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// sync copies top-level settings into the environment-only groups.
func (c *Config) sync() {
	c.Database.Type = c.DBType
	c.Database.URL = c.DatabaseURL
	c.Redis.URL = c.RedisURL
}

// Validate checks option values and their combinations.
func (c *Config) Validate() error {
	if c.DefaultAction == "" {
		return fmt.Errorf("%w: default_action is empty", ErrConfiguration)
	}
	if !slices.Contains([]string{SessionDB, SessionRedis, SessionMemory}, c.SessionType) {
		return fmt.Errorf("%w: unknown session_type %q", ErrConfiguration, c.SessionType)
	}
	if c.SessionType == SessionRedis && c.RedisURL == "" {
		return fmt.Errorf("%w: session_type redis requires redis_url", ErrConfiguration)
	}
	if c.SessionType == SessionDB && (c.DBType == "" || c.DBType == "none") {
		return fmt.Errorf("%w: session_type db requires a database", ErrConfiguration)
	}
	if c.SessionTimeout <= 0 {
		return fmt.Errorf("%w: session_timeout must be positive", ErrConfiguration)
	}
	if _, err := c.Rules(); err != nil {
		return err
	}
	return nil
}

// Timeout returns the session timeout as a duration.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.SessionTimeout) * time.Second
}

// Logger returns the logger settings.
func (c *Config) Logger() logger.Config {
	return logger.Config{
		Level: c.LogLevel,
		Sentry: logger.SentryConfig{
			DSN:         c.SentryDSN,
			Environment: "production",
		},
	}
}

// Rules compiles the routing table.
func (c *Config) Rules() ([]route.Rule, error) {
	rules, err := route.CompileRules(c.Routing)
	if err != nil {
		return nil, errors.Join(ErrConfiguration, err)
	}
	return rules, nil
}

// Get returns the value stored under key in the free-form app mapping.
func (c *Config) Get(key string) (any, bool) {
	v, ok := c.App[key]
	return v, ok
}

// GetString returns the app value under key as a string, or def.
func (c *Config) GetString(key, def string) string {
	if s, ok := c.App[key].(string); ok {
		return s
	}
	return def
}

// ViewData returns the values exposed to every view under "config".
func (c *Config) ViewData() map[string]any {
	out := make(map[string]any, len(c.App)+2)
	for k, v := range c.App {
		out[k] = v
	}
	out["base_url"] = c.BaseURL
	out["default_action"] = c.DefaultAction
	return out
}
