package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	JWT          JWTConfig
	FCM          FCMConfig
	Notify       NotifyConfig
	Sequence     SequenceConfig
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
	Env          string `envconfig:"CIRCULATION_APP_ENV" required:"true"`
	Port         string `envconfig:"CIRCULATION_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"CIRCULATION_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"CIRCULATION_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"CIRCULATION_DB_DSN"`
	Driver string `envconfig:"CIRCULATION_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"CIRCULATION_DB_HOST"`
	LegacyPort     int    `envconfig:"CIRCULATION_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"CIRCULATION_DB_USER"`
	LegacyPassword string `envconfig:"CIRCULATION_DB_PASSWORD"`
	LegacyName     string `envconfig:"CIRCULATION_DB_NAME"`
	LegacySSLMode  string `envconfig:"CIRCULATION_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"CIRCULATION_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"CIRCULATION_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"CIRCULATION_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"CIRCULATION_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"CIRCULATION_REDIS_URL" required:"true"`
	Address      string        `envconfig:"CIRCULATION_REDIS_ADDR"`
	Password     string        `envconfig:"CIRCULATION_REDIS_PASSWORD"`
	DB           int           `envconfig:"CIRCULATION_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"CIRCULATION_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"CIRCULATION_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"CIRCULATION_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"CIRCULATION_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"CIRCULATION_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"CIRCULATION_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"CIRCULATION_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"CIRCULATION_JWT_EXPIRATION_MINUTES" default:"43200"`
}

type FCMConfig struct {
	ProjectID       string `envconfig:"CIRCULATION_FCM_PROJECT_ID"`
	CredentialsJSON string `envconfig:"CIRCULATION_FCM_CREDENTIALS_JSON"`
	CredentialsFile string `envconfig:"CIRCULATION_FCM_CREDENTIALS_FILE"`
}

// Enabled reports whether push delivery has usable credentials. Without them
// the dispatcher still runs but reports every send as undelivered.
func (f FCMConfig) Enabled() bool {
	return f.CredentialsJSON != "" || f.CredentialsFile != ""
}

type NotifyConfig struct {
	SendTimeout    time.Duration `envconfig:"CIRCULATION_NOTIFY_SEND_TIMEOUT" default:"5s"`
	IdempotencyTTL time.Duration `envconfig:"CIRCULATION_NOTIFY_IDEMPOTENCY_TTL" default:"168h"`
}

type SequenceConfig struct {
	OrderPrefix string `envconfig:"CIRCULATION_SEQUENCE_ORDER_PREFIX" default:"ORDER"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"CIRCULATION_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"CIRCULATION_AUTO_MIGRATE" default:"false"`
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
