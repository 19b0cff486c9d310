package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Environment string

const (
	EnvDevelopment Environment = "development"
	EnvAcceptance  Environment = "acceptance"
	EnvProduction  Environment = "production"
)

// DefaultAPIKey is accepted outside production when API_KEY is unset.
const DefaultAPIKey = "fake-key"

var (
	ErrUnknownEnvironment = errors.New("unknown environment")
	ErrMissingSetting     = errors.New("missing required setting")
)

type (
	Config struct {
		Env Environment
		HTTP
		Auth
		Database
		Logging
		PublicIP
		Audit
		Tasks
		RateLimit
		Global
	}

	HTTP struct {
		Port int32
		Host string
	}
	Auth struct {
		APIKey string
	}
	Database struct {
		URI string
	}
	Logging struct {
		Level string
	}
	PublicIP struct {
		Address string // Fallback docs host when the metadata lookup fails
		Lookup  bool   // Query EC2 instance metadata at startup
	}
	Audit struct {
		RetentionDays   int    // Days to keep audit events (default: 30)
		CleanupSchedule string // Cron format: "0 3 * * *" = daily at 03:00
	}
	Tasks struct {
		Enabled         bool
		DatabasePath    string
		Workers         int
		ReleaseAfter    time.Duration
		CleanupInterval time.Duration
	}
	RateLimit struct {
		RPS   float64 // Requests per second per client, 0 disables limiting
		Burst int
	}
	Global struct {
		ShutdownTimeoutInSeconds int
	}
)

func (e Environment) IsDevelopment() bool { return e == EnvDevelopment }
func (e Environment) IsProduction() bool  { return e == EnvProduction }

// ParseEnvironment maps an environment name onto a known Environment.
func ParseEnvironment(name string) (Environment, error) {
	switch env := Environment(strings.ToLower(strings.TrimSpace(name))); env {
	case EnvDevelopment, EnvAcceptance, EnvProduction:
		return env, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownEnvironment, name)
	}
}

// environmentName prefers APP_ENV and falls back to the legacy FLASK_ENV.
func environmentName(v *viper.Viper) string {
	if name := v.GetString("APP_ENV"); name != "" {
		return name
	}
	if name := v.GetString("FLASK_ENV"); name != "" {
		return name
	}
	return string(EnvDevelopment)
}

func NewConfig() (*Config, error) {
	v := viper.New()
	v.AutomaticEnv()

	env, err := ParseEnvironment(environmentName(v))
	if err != nil {
		return nil, err
	}

	v.SetDefault("port", 80)
	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("shutdown_timeout_in_seconds", 5)
	v.SetDefault("dev_database_uri", "sqlite:///library.db")
	v.SetDefault("acc_database_uri", "sqlite:///test_library.db")
	v.SetDefault("audit_retention_days", 30)
	v.SetDefault("audit_cleanup_schedule", "0 3 * * *")
	v.SetDefault("public_ip_lookup", !env.IsDevelopment())
	v.SetDefault("rate_limit_rps", 0)
	v.SetDefault("rate_limit_burst", 10)

	if env.IsDevelopment() {
		v.SetDefault("log_level", "debug")
	} else {
		v.SetDefault("log_level", "info")
	}
	if !env.IsProduction() {
		v.SetDefault("api_key", DefaultAPIKey)
	}

	// Task queue defaults
	v.SetDefault("tasks_enabled", true)
	v.SetDefault("tasks_database_path", "./library-tasks.db")
	v.SetDefault("task_workers", 1)
	v.SetDefault("task_release_after", "15m")
	v.SetDefault("task_cleanup_interval", "1h")

	cfg := &Config{
		Env: env,
		HTTP: HTTP{
			Port: v.GetInt32("PORT"),
			Host: v.GetString("HOST"),
		},
		Auth: Auth{
			APIKey: v.GetString("API_KEY"),
		},
		Database: Database{
			URI: databaseURI(v, env),
		},
		Logging: Logging{
			Level: v.GetString("LOG_LEVEL"),
		},
		PublicIP: PublicIP{
			Address: v.GetString("PUBLIC_IP"),
			Lookup:  v.GetBool("PUBLIC_IP_LOOKUP"),
		},
		Audit: Audit{
			RetentionDays:   v.GetInt("AUDIT_RETENTION_DAYS"),
			CleanupSchedule: v.GetString("AUDIT_CLEANUP_SCHEDULE"),
		},
		Tasks: Tasks{
			Enabled:         v.GetBool("TASKS_ENABLED"),
			DatabasePath:    v.GetString("TASKS_DATABASE_PATH"),
			Workers:         v.GetInt("TASK_WORKERS"),
			ReleaseAfter:    v.GetDuration("TASK_RELEASE_AFTER"),
			CleanupInterval: v.GetDuration("TASK_CLEANUP_INTERVAL"),
		},
		RateLimit: RateLimit{
			RPS:   v.GetFloat64("RATE_LIMIT_RPS"),
			Burst: v.GetInt("RATE_LIMIT_BURST"),
		},
		Global: Global{
			ShutdownTimeoutInSeconds: v.GetInt("SHUTDOWN_TIMEOUT_IN_SECONDS"),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func databaseURI(v *viper.Viper, env Environment) string {
	switch env {
	case EnvAcceptance:
		return v.GetString("ACC_DATABASE_URI")
	case EnvProduction:
		return v.GetString("DATABASE_URI")
	default:
		return v.GetString("DEV_DATABASE_URI")
	}
}

func (c *Config) validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("%w: API_KEY", ErrMissingSetting)
	}
	if c.URI == "" {
		return fmt.Errorf("%w: DATABASE_URI", ErrMissingSetting)
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid PORT %d", c.Port)
	}
	if c.RateLimit.RPS < 0 {
		return fmt.Errorf("invalid RATE_LIMIT_RPS %v", c.RateLimit.RPS)
	}
	return nil
}

// Addr is the listen address of the HTTP server.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// ShutdownTimeout is the graceful shutdown budget.
func (c *Config) ShutdownTimeout() time.Duration {
	return time.Duration(c.ShutdownTimeoutInSeconds) * time.Second
}
