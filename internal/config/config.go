package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type AppConfig struct {
	Name     string `envconfig:"APP_NAME" default:"Tally"`
	Port     int    `envconfig:"PORT" default:"8080"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
}

type DBConfig struct {
	Host     string `envconfig:"DB_HOST" default:"localhost"`
	Port     int    `envconfig:"DB_PORT" default:"5432"`
	User     string `envconfig:"DB_USER" default:"postgres"`
	Password string `envconfig:"DB_PASSWORD" default:""`
	Name     string `envconfig:"DB_NAME" default:"tally"`
}

func (c DBConfig) ConnectionString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.User, c.Password, c.Host, c.Port, c.Name)
}

type SchedulerConfig struct {
	Enabled  bool          `envconfig:"SCHEDULER_ENABLED" default:"true"`
	Interval time.Duration `envconfig:"SCHEDULER_INTERVAL" default:"1h"`
	Timezone string        `envconfig:"SCHEDULER_TIMEZONE" default:"UTC"`
}

// Location resolves the zone the scheduler evaluates due dates in.
func (c SchedulerConfig) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("loading scheduler timezone %q: %w", c.Timezone, err)
	}

	return loc, nil
}

func (c SchedulerConfig) validate() error {
	if c.Interval <= 0 {
		return fmt.Errorf("SCHEDULER_INTERVAL must be positive, got %s", c.Interval)
	}

	return nil
}

type Config struct {
	App AppConfig
	DB  DBConfig

	Server struct {
		Timeout     time.Duration `envconfig:"SERVER_TIMEOUT" default:"30s"`
		CORSOrigins []string      `envconfig:"CORS_ALLOWED_ORIGINS" default:"http://localhost:3000"`
	}

	Auth struct {
		Secret   string        `envconfig:"JWT_SECRET" required:"true"`
		TokenTTL time.Duration `envconfig:"JWT_TTL" default:"24h"`
	}

	Scheduler SchedulerConfig
}

func (c *Config) ConnectionString() string {
	return c.DB.ConnectionString()
}

func (c *Config) Location() (*time.Location, error) {
	return c.Scheduler.Location()
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	if err := cfg.Scheduler.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// TUIConfig is the terminal client's configuration. It talks to the database
// directly as a fixed member of one group, so it needs no token settings.
type TUIConfig struct {
	App       AppConfig
	DB        DBConfig
	Scheduler SchedulerConfig

	Session struct {
		UserID  int64 `envconfig:"TALLY_USER_ID"`
		GroupID int64 `envconfig:"TALLY_GROUP_ID"`
	}
}

func LoadTUI() (*TUIConfig, error) {
	var cfg TUIConfig
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	if err := cfg.Scheduler.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}
