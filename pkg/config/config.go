package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const EnvPrefix = ""

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	Scheduler    SchedulerConfig
	CORS         CORSConfig
	FeatureFlags FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	if _, err := cfg.Scheduler.Location(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"SCHEDULER_APP_ENV" default:"dev"`
	Port         string `envconfig:"SCHEDULER_APP_PORT" default:"3001"`
	LogLevel     string `envconfig:"SCHEDULER_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"SCHEDULER_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, "dev")
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, "prod")
}

type DBConfig struct {
	DSN    string `envconfig:"SCHEDULER_DB_DSN"`
	Driver string `envconfig:"SCHEDULER_DB_DRIVER" default:"postgres"`

	Host     string `envconfig:"SCHEDULER_DB_HOST"`
	Port     int    `envconfig:"SCHEDULER_DB_PORT" default:"5432"`
	User     string `envconfig:"SCHEDULER_DB_USER"`
	Password string `envconfig:"SCHEDULER_DB_PASSWORD"`
	Name     string `envconfig:"SCHEDULER_DB_NAME"`
	SSLMode  string `envconfig:"SCHEDULER_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"SCHEDULER_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"SCHEDULER_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"SCHEDULER_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"SCHEDULER_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"SCHEDULER_REDIS_URL"`
	Address      string        `envconfig:"SCHEDULER_REDIS_ADDR"`
	Password     string        `envconfig:"SCHEDULER_REDIS_PASSWORD"`
	DB           int           `envconfig:"SCHEDULER_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"SCHEDULER_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"SCHEDULER_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"SCHEDULER_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"SCHEDULER_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"SCHEDULER_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// SchedulerConfig tunes the availability engine.
type SchedulerConfig struct {
	// Timezone anchors wall-clock cutoffs and "today". All rule data is
	// interpreted in this location.
	Timezone string `envconfig:"SCHEDULER_TIMEZONE" default:"Asia/Singapore"`
	// MaxRangeDays caps the span of a range-availability query.
	MaxRangeDays int `envconfig:"SCHEDULER_MAX_RANGE_DAYS" default:"90"`
	// CounterTTL bounds how long per-date slot counters live in Redis.
	CounterTTL time.Duration `envconfig:"SCHEDULER_COUNTER_TTL" default:"2160h"`
	// GlobalRuleTieBreak selects the policy when several global advance
	// rules match: "conservative" (highest advance days) or "first".
	GlobalRuleTieBreak string `envconfig:"SCHEDULER_GLOBAL_RULE_TIE_BREAK" default:"conservative"`
}

func (s SchedulerConfig) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(s.Timezone)
	if err != nil {
		return nil, fmt.Errorf("loading scheduler timezone %q: %w", s.Timezone, err)
	}
	return loc, nil
}

type CORSConfig struct {
	// AllowedOrigins is a comma-separated list of exact origins. Shopify
	// storefront domains (*.myshopify.com, *.shopify.com) are always allowed.
	AllowedOrigins []string `envconfig:"SCHEDULER_CORS_ALLOWED_ORIGINS" default:"http://localhost:3000"`
}

type FeatureFlagsConfig struct {
	AutoMigrate  bool `envconfig:"SCHEDULER_AUTO_MIGRATE" default:"false"`
	SeedDefaults bool `envconfig:"SCHEDULER_SEED_DEFAULTS" default:"true"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	values := map[string]string{
		"SCHEDULER_DB_HOST": db.Host,
		"SCHEDULER_DB_USER": db.User,
		"SCHEDULER_DB_NAME": db.Name,
	}
	for _, key := range []string{"SCHEDULER_DB_HOST", "SCHEDULER_DB_USER", "SCHEDULER_DB_NAME"} {
		if values[key] == "" {
			missing = append(missing, key)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either SCHEDULER_DB_DSN or %s are required", strings.Join(missing, ", "))
	}

	userInfo := url.User(db.User)
	if db.Password != "" {
		userInfo = url.UserPassword(db.User, db.Password)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.Host, db.Port),
		Path:   db.Name,
	}

	if db.SSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.SSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
