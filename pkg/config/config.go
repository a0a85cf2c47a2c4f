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

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvDBDSN  = "GUIDEWAY_DB_DSN"
	EnvDBHost = "GUIDEWAY_DB_HOST"
	EnvDBUser = "GUIDEWAY_DB_USER"
	EnvDBName = "GUIDEWAY_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

type Config struct {
	App     AppConfig
	Service ServiceConfig
	DB      DBConfig
	Redis   RedisConfig
	JWT     JWTConfig
	Gateway GatewayConfig
	Flags   FeatureFlagsConfig
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
	Env          string `envconfig:"GUIDEWAY_APP_ENV" required:"true"`
	Port         string `envconfig:"GUIDEWAY_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"GUIDEWAY_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"GUIDEWAY_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type ServiceConfig struct {
	Kind string `envconfig:"GUIDEWAY_SERVICE_KIND" default:"api"`
}

type DBConfig struct {
	DSN    string `envconfig:"GUIDEWAY_DB_DSN"`
	Driver string `envconfig:"GUIDEWAY_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"GUIDEWAY_DB_HOST"`
	LegacyPort     int    `envconfig:"GUIDEWAY_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"GUIDEWAY_DB_USER"`
	LegacyPassword string `envconfig:"GUIDEWAY_DB_PASSWORD"`
	LegacyName     string `envconfig:"GUIDEWAY_DB_NAME"`
	LegacySSLMode  string `envconfig:"GUIDEWAY_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"GUIDEWAY_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"GUIDEWAY_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"GUIDEWAY_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"GUIDEWAY_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"GUIDEWAY_REDIS_URL" required:"true"`
	Address      string        `envconfig:"GUIDEWAY_REDIS_ADDR"`
	Password     string        `envconfig:"GUIDEWAY_REDIS_PASSWORD"`
	DB           int           `envconfig:"GUIDEWAY_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"GUIDEWAY_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"GUIDEWAY_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"GUIDEWAY_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"GUIDEWAY_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"GUIDEWAY_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"GUIDEWAY_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"GUIDEWAY_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"GUIDEWAY_JWT_EXPIRATION_MINUTES" required:"true"`
}

type GatewayConfig struct {
	Mode string `envconfig:"GUIDEWAY_GATEWAY_MODE" default:"sandbox"`
}

// Sandbox reports whether the payment gateway runs against the local mock.
func (g GatewayConfig) Sandbox() bool {
	return !strings.EqualFold(g.Mode, "live")
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"GUIDEWAY_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"GUIDEWAY_AUTO_MIGRATE" default:"false"`
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
