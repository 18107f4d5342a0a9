package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	// EnvPrefix is passed to envconfig; variables carry the CULTURER_ prefix
	// directly in their tags so the prefix itself stays empty.
	EnvPrefix = ""

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvDBDSN  = "CULTURER_DB_DSN"
	EnvDBHost = "CULTURER_DB_HOST"
	EnvDBUser = "CULTURER_DB_USER"
	EnvDBName = "CULTURER_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	JWT          JWTConfig
	Checkout     CheckoutConfig
	Listings     ListingsConfig
	FeatureFlags FeatureFlagsConfig
	GCP          GCPConfig
	GCS          GCSConfig
	PubSub       PubSubConfig
	Cron         CronConfig
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
	Env          string `envconfig:"CULTURER_APP_ENV" required:"true"`
	Port         string `envconfig:"CULTURER_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"CULTURER_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"CULTURER_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"CULTURER_DB_DSN"`
	Driver string `envconfig:"CULTURER_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"CULTURER_DB_HOST"`
	LegacyPort     int    `envconfig:"CULTURER_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"CULTURER_DB_USER"`
	LegacyPassword string `envconfig:"CULTURER_DB_PASSWORD"`
	LegacyName     string `envconfig:"CULTURER_DB_NAME"`
	LegacySSLMode  string `envconfig:"CULTURER_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"CULTURER_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"CULTURER_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"CULTURER_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"CULTURER_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

// IsSQLite reports whether the sqlite driver was requested (local dev).
func (db DBConfig) IsSQLite() bool {
	return strings.EqualFold(db.Driver, "sqlite")
}

type RedisConfig struct {
	URL          string        `envconfig:"CULTURER_REDIS_URL" required:"true"`
	Address      string        `envconfig:"CULTURER_REDIS_ADDR"`
	Password     string        `envconfig:"CULTURER_REDIS_PASSWORD"`
	DB           int           `envconfig:"CULTURER_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"CULTURER_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"CULTURER_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"CULTURER_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"CULTURER_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"CULTURER_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"CULTURER_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"CULTURER_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"CULTURER_JWT_EXPIRATION_MINUTES" default:"60"`
}

// AccessTokenTTL returns the access token lifetime.
func (j JWTConfig) AccessTokenTTL() time.Duration {
	if j.ExpirationMinutes <= 0 {
		return time.Hour
	}
	return time.Duration(j.ExpirationMinutes) * time.Minute
}

type CheckoutConfig struct {
	// TaxRate is a flat fraction of the cart subtotal, not jurisdiction-aware.
	TaxRate float64 `envconfig:"CULTURER_CHECKOUT_TAX_RATE" default:"0.10"`
}

type ListingsConfig struct {
	MaxImages   int `envconfig:"CULTURER_LISTINGS_MAX_IMAGES" default:"8"`
	MaxUploadMB int `envconfig:"CULTURER_LISTINGS_MAX_UPLOAD_MB" default:"10"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"CULTURER_AUTO_MIGRATE" default:"false"`
}

type GCPConfig struct {
	ProjectID              string `envconfig:"CULTURER_GCP_PROJECT_ID"`
	CredentialsJSON        string `envconfig:"CULTURER_GCP_CREDENTIALS_JSON"`
	ApplicationCredentials string `envconfig:"CULTURER_GOOGLE_APPLICATION_CREDENTIALS"`
}

type GCSConfig struct {
	BucketName string `envconfig:"CULTURER_GCS_BUCKET_NAME"`
}

type PubSubConfig struct {
	ActivityTopic string `envconfig:"CULTURER_PUBSUB_ACTIVITY_TOPIC" default:"culturer-activity-events"`
}

type CronConfig struct {
	LockTTL             time.Duration `envconfig:"CULTURER_CRON_LOCK_TTL" default:"5m"`
	RecentRetention     time.Duration `envconfig:"CULTURER_CRON_RECENT_RETENTION" default:"720h"`
	RecentMaxPerUser    int           `envconfig:"CULTURER_CRON_RECENT_MAX_PER_USER" default:"50"`
	StaleDraftRetention time.Duration `envconfig:"CULTURER_CRON_STALE_DRAFT_RETENTION" default:"2160h"`
	JobInterval         time.Duration `envconfig:"CULTURER_CRON_JOB_INTERVAL" default:"1h"`
	ShutdownGracePeriod time.Duration `envconfig:"CULTURER_CRON_SHUTDOWN_GRACE" default:"30s"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" || db.IsSQLite() {
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
