package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = "ASSETNEST"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvDBDSN  = "ASSETNEST_DB_DSN"
	EnvDBHost = "ASSETNEST_DB_HOST"
	EnvDBUser = "ASSETNEST_DB_USER"
	EnvDBName = "ASSETNEST_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	JWT          JWTConfig
	FeatureFlags FeatureFlagsConfig
	Inventory    InventoryConfig
	RateLimit    RateLimitConfig
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
	Env          string `envconfig:"ASSETNEST_APP_ENV" required:"true"`
	Port         string `envconfig:"ASSETNEST_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"ASSETNEST_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"ASSETNEST_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"ASSETNEST_DB_DSN"`
	Driver string `envconfig:"ASSETNEST_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"ASSETNEST_DB_HOST"`
	LegacyPort     int    `envconfig:"ASSETNEST_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"ASSETNEST_DB_USER"`
	LegacyPassword string `envconfig:"ASSETNEST_DB_PASSWORD"`
	LegacyName     string `envconfig:"ASSETNEST_DB_NAME"`
	LegacySSLMode  string `envconfig:"ASSETNEST_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"ASSETNEST_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"ASSETNEST_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"ASSETNEST_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"ASSETNEST_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"ASSETNEST_REDIS_URL"`
	Address      string        `envconfig:"ASSETNEST_REDIS_ADDR"`
	Password     string        `envconfig:"ASSETNEST_REDIS_PASSWORD"`
	DB           int           `envconfig:"ASSETNEST_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"ASSETNEST_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"ASSETNEST_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"ASSETNEST_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"ASSETNEST_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"ASSETNEST_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"ASSETNEST_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"ASSETNEST_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"ASSETNEST_JWT_EXPIRATION_MINUTES" default:"60"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"ASSETNEST_AUTO_MIGRATE" default:"false"`
	Idempotency bool `envconfig:"ASSETNEST_IDEMPOTENCY" default:"true"`
}

type InventoryConfig struct {
	LowStockThreshold int `envconfig:"ASSETNEST_LOW_STOCK_THRESHOLD" default:"10"`
}

type RateLimitConfig struct {
	RegisterWindow     time.Duration `envconfig:"ASSETNEST_RATE_LIMIT_REGISTER_WINDOW" default:"1m"`
	RegisterIPLimit    int           `envconfig:"ASSETNEST_RATE_LIMIT_REGISTER_IP_LIMIT" default:"10"`
	RegisterEmailLimit int           `envconfig:"ASSETNEST_RATE_LIMIT_REGISTER_EMAIL_LIMIT" default:"5"`
}

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
