package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = ""

	AppEnvDev  = "development"
	AppEnvProd = "production"

	EnvAppEnv = "SIMULATOR_APP_ENV"
	EnvPort   = "SIMULATOR_APP_PORT"
	EnvDBDSN  = "SIMULATOR_DB_DSN"
	EnvDBHost = "SIMULATOR_DB_HOST"
	EnvDBUser = "SIMULATOR_DB_USER"
	EnvDBName = "SIMULATOR_DB_NAME"
)

type Config struct {
	App          AppConfig
	Service      ServiceConfig
	DB           DBConfig
	Redis        RedisConfig
	Auth         AuthConfig
	GCP          GCPConfig
	PubSub       PubSubConfig
	Simulation   SimulationConfig
	RateLimit    RateLimitConfig
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
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"SIMULATOR_APP_ENV" required:"true"`
	Port         string `envconfig:"SIMULATOR_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"SIMULATOR_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"SIMULATOR_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type ServiceConfig struct {
	Kind string `envconfig:"SIMULATOR_SERVICE_KIND" default:"api"`
}

type DBConfig struct {
	DSN    string `envconfig:"SIMULATOR_DB_DSN"`
	Driver string `envconfig:"SIMULATOR_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"SIMULATOR_DB_HOST"`
	LegacyPort     int    `envconfig:"SIMULATOR_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"SIMULATOR_DB_USER"`
	LegacyPassword string `envconfig:"SIMULATOR_DB_PASSWORD"`
	LegacyName     string `envconfig:"SIMULATOR_DB_NAME"`
	LegacySSLMode  string `envconfig:"SIMULATOR_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"SIMULATOR_DB_MAX_OPEN_CONNS" default:"10"`
	MaxIdleConns    int           `envconfig:"SIMULATOR_DB_MAX_IDLE_CONNS" default:"5"`
	ConnMaxLifetime time.Duration `envconfig:"SIMULATOR_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"SIMULATOR_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"SIMULATOR_REDIS_URL" required:"true"`
	Address      string        `envconfig:"SIMULATOR_REDIS_ADDR"`
	Password     string        `envconfig:"SIMULATOR_REDIS_PASSWORD"`
	DB           int           `envconfig:"SIMULATOR_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"SIMULATOR_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"SIMULATOR_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"SIMULATOR_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"SIMULATOR_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"SIMULATOR_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type AuthConfig struct {
	ServiceTokenSecret string `envconfig:"SIMULATOR_SERVICE_TOKEN_SECRET" required:"true"`
	ServiceTokenIssuer string `envconfig:"SIMULATOR_SERVICE_TOKEN_ISSUER" default:"packfinderz"`
}

type GCPConfig struct {
	ProjectID              string `envconfig:"SIMULATOR_GCP_PROJECT_ID"`
	CredentialsJSON        string `envconfig:"SIMULATOR_GCP_CREDENTIALS_JSON"`
	ApplicationCredentials string `envconfig:"SIMULATOR_GOOGLE_APPLICATION_CREDENTIALS"`
}

type PubSubConfig struct {
	RunRequestTopic        string `envconfig:"SIMULATOR_PUBSUB_RUN_REQUEST_TOPIC" default:"sim-run-requests"`
	RunRequestSubscription string `envconfig:"SIMULATOR_PUBSUB_RUN_REQUEST_SUBSCRIPTION"`
	SummariesTopic         string `envconfig:"SIMULATOR_PUBSUB_SUMMARIES_TOPIC" default:"sim-day-summaries"`
}

type SimulationConfig struct {
	DefaultPopulationSize int           `envconfig:"SIMULATOR_DEFAULT_POPULATION_SIZE" default:"250"`
	MaxPopulationSize     int           `envconfig:"SIMULATOR_MAX_POPULATION_SIZE" default:"5000"`
	MaxHorizonDays        int           `envconfig:"SIMULATOR_MAX_HORIZON_DAYS" default:"365"`
	DayWorkers            int           `envconfig:"SIMULATOR_DAY_WORKERS" default:"4"`
	ResultCacheTTL        time.Duration `envconfig:"SIMULATOR_RESULT_CACHE_TTL" default:"1h"`
}

type RateLimitConfig struct {
	RunLimit  int64         `envconfig:"SIMULATOR_RATE_LIMIT_RUNS" default:"60"`
	RunWindow time.Duration `envconfig:"SIMULATOR_RATE_LIMIT_WINDOW" default:"1m"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"SIMULATOR_AUTO_MIGRATE" default:"false"`
}

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	legacyValues := map[string]string{
		EnvDBHost: db.LegacyHost,
		EnvDBUser: db.LegacyUser,
		EnvDBName: db.LegacyName,
	}
	for _, env := range legacyDBEnvVars {
		if legacyValues[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.LegacyUser)
	if db.LegacyPassword != "" {
		userInfo = url.UserPassword(db.LegacyUser, db.LegacyPassword)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.LegacyHost, db.LegacyPort),
		Path:   db.LegacyName,
	}

	if db.LegacySSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.LegacySSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
