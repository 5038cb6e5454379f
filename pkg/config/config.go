package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix is handed to envconfig when processing the environment.
const EnvPrefix = "sheltersync"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

// Environment variable names referenced outside struct tags.
const (
	EnvAppEnv                 = "SHELTERSYNC_APP_ENV"
	EnvPort                   = "SHELTERSYNC_APP_PORT"
	EnvDBDSN                  = "SHELTERSYNC_DB_DSN"
	EnvDBHost                 = "SHELTERSYNC_DB_HOST"
	EnvDBUser                 = "SHELTERSYNC_DB_USER"
	EnvDBName                 = "SHELTERSYNC_DB_NAME"
	EnvRedisURL               = "SHELTERSYNC_REDIS_URL"
	EnvJWTSecret              = "SHELTERSYNC_JWT_SECRET"
	EnvJWTIssuer              = "SHELTERSYNC_JWT_ISSUER"
	EnvJWTExpMins             = "SHELTERSYNC_JWT_EXPIRATION_MINUTES"
	EnvRefreshTokenTTLMinutes = "SHELTERSYNC_REFRESH_TOKEN_TTL_MINUTES"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

type Config struct {
	App           AppConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Pin           PinConfig
	AuthRateLimit AuthRateLimitConfig
	FeatureFlags  FeatureFlagsConfig
	Gemini        GeminiConfig
	Kiosk         KioskConfig
	Retention     RetentionConfig
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
	Env          string `envconfig:"SHELTERSYNC_APP_ENV" required:"true"`
	Port         string `envconfig:"SHELTERSYNC_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"SHELTERSYNC_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"SHELTERSYNC_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"SHELTERSYNC_DB_DSN"`
	Driver string `envconfig:"SHELTERSYNC_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"SHELTERSYNC_DB_HOST"`
	LegacyPort     int    `envconfig:"SHELTERSYNC_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"SHELTERSYNC_DB_USER"`
	LegacyPassword string `envconfig:"SHELTERSYNC_DB_PASSWORD"`
	LegacyName     string `envconfig:"SHELTERSYNC_DB_NAME"`
	LegacySSLMode  string `envconfig:"SHELTERSYNC_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"SHELTERSYNC_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"SHELTERSYNC_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"SHELTERSYNC_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"SHELTERSYNC_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"SHELTERSYNC_REDIS_URL" required:"true"`
	Address      string        `envconfig:"SHELTERSYNC_REDIS_ADDR"`
	Password     string        `envconfig:"SHELTERSYNC_REDIS_PASSWORD"`
	DB           int           `envconfig:"SHELTERSYNC_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"SHELTERSYNC_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"SHELTERSYNC_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"SHELTERSYNC_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"SHELTERSYNC_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"SHELTERSYNC_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret                 string `envconfig:"SHELTERSYNC_JWT_SECRET" required:"true"`
	Issuer                 string `envconfig:"SHELTERSYNC_JWT_ISSUER" required:"true"`
	ExpirationMinutes      int    `envconfig:"SHELTERSYNC_JWT_EXPIRATION_MINUTES" required:"true"`
	RefreshTokenTTLMinutes int    `envconfig:"SHELTERSYNC_REFRESH_TOKEN_TTL_MINUTES" default:"43200"`
}

// RefreshTokenTTL returns the refresh token TTL configured in minutes.
func (j JWTConfig) RefreshTokenTTL() time.Duration {
	if j.RefreshTokenTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.RefreshTokenTTLMinutes) * time.Minute
}

// PinConfig carries the Argon2id parameters used when hashing staff PINs.
type PinConfig struct {
	ArgonMemoryKB    int `envconfig:"SHELTERSYNC_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"SHELTERSYNC_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"SHELTERSYNC_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"SHELTERSYNC_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"SHELTERSYNC_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"SHELTERSYNC_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginUsernameLimit int           `envconfig:"SHELTERSYNC_AUTH_RATE_LIMIT_LOGIN_USERNAME_LIMIT" default:"5"`
	LoginIPLimit       int           `envconfig:"SHELTERSYNC_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"SHELTERSYNC_AUTO_MIGRATE" default:"false"`
}

// GeminiConfig configures the bio-enhancement client. An empty API key
// disables enhancement and the original bio is returned unchanged.
type GeminiConfig struct {
	APIKey         string        `envconfig:"SHELTERSYNC_GEMINI_API_KEY"`
	Model          string        `envconfig:"SHELTERSYNC_GEMINI_MODEL" default:"gemini-3-flash-preview"`
	RequestTimeout time.Duration `envconfig:"SHELTERSYNC_GEMINI_TIMEOUT" default:"30s"`
}

// KioskConfig lists the browser origins allowed to reach the API.
type KioskConfig struct {
	AllowedOrigins []string `envconfig:"SHELTERSYNC_KIOSK_ALLOWED_ORIGINS" default:"http://localhost:3000"`
}

// RetentionConfig controls the movement log retention window.
type RetentionConfig struct {
	MovementLogCap int           `envconfig:"SHELTERSYNC_MOVEMENT_LOG_CAP" default:"1000"`
	SweepInterval  time.Duration `envconfig:"SHELTERSYNC_RETENTION_SWEEP_INTERVAL" default:"24h"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}
	if db.Driver == "sqlite" {
		return fmt.Errorf("%s is required when the sqlite driver is selected", EnvDBDSN)
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
