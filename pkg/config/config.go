package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = "MEDIMART"

	AppEnvDev  = "development"
	AppEnvProd = "production"

	EnvAppEnv   = "MEDIMART_APP_ENV"
	EnvPort     = "MEDIMART_APP_PORT"
	EnvDBDSN    = "MEDIMART_DB_DSN"
	EnvDBHost   = "MEDIMART_DB_HOST"
	EnvDBUser   = "MEDIMART_DB_USER"
	EnvDBName   = "MEDIMART_DB_NAME"
	EnvRedisURL = "MEDIMART_REDIS_URL"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	Session      SessionConfig
	Pricing      PricingConfig
	Catalog      CatalogConfig
	Cart         CartConfig
	GCP          GCPConfig
	PubSub       PubSubConfig
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
	Env          string `envconfig:"MEDIMART_APP_ENV" required:"true"`
	Port         string `envconfig:"MEDIMART_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"MEDIMART_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"MEDIMART_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"MEDIMART_DB_DSN"`
	Driver string `envconfig:"MEDIMART_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"MEDIMART_DB_HOST"`
	LegacyPort     int    `envconfig:"MEDIMART_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"MEDIMART_DB_USER"`
	LegacyPassword string `envconfig:"MEDIMART_DB_PASSWORD"`
	LegacyName     string `envconfig:"MEDIMART_DB_NAME"`
	LegacySSLMode  string `envconfig:"MEDIMART_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"MEDIMART_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"MEDIMART_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"MEDIMART_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"MEDIMART_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"MEDIMART_REDIS_URL" required:"true"`
	Address      string        `envconfig:"MEDIMART_REDIS_ADDR"`
	Password     string        `envconfig:"MEDIMART_REDIS_PASSWORD"`
	DB           int           `envconfig:"MEDIMART_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"MEDIMART_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"MEDIMART_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"MEDIMART_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"MEDIMART_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"MEDIMART_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// SessionConfig drives the signed guest-session tokens that key carts,
// wishlists and checkouts.
type SessionConfig struct {
	Secret     string `envconfig:"MEDIMART_SESSION_SECRET" required:"true"`
	Issuer     string `envconfig:"MEDIMART_SESSION_ISSUER" default:"medimart"`
	TTLMinutes int    `envconfig:"MEDIMART_SESSION_TTL_MINUTES" default:"10080"`
}

// TTL returns the session token lifetime.
func (s SessionConfig) TTL() time.Duration {
	if s.TTLMinutes <= 0 {
		return 0
	}
	return time.Duration(s.TTLMinutes) * time.Minute
}

// PricingConfig holds the storefront fee schedule. Defaults match the
// production storefront: free shipping above 999, flat 49 otherwise,
// flat 10 convenience fee on non-empty carts.
type PricingConfig struct {
	FreeShippingAbove int `envconfig:"MEDIMART_PRICING_FREE_SHIPPING_ABOVE" default:"999"`
	ShippingFlatFee   int `envconfig:"MEDIMART_PRICING_SHIPPING_FLAT_FEE" default:"49"`
	ConvenienceFee    int `envconfig:"MEDIMART_PRICING_CONVENIENCE_FEE" default:"10"`
}

type CatalogConfig struct {
	PageSize        int `envconfig:"MEDIMART_CATALOG_PAGE_SIZE" default:"12"`
	DefaultStock    int `envconfig:"MEDIMART_CATALOG_DEFAULT_STOCK" default:"10"`
	LowStockCeiling int `envconfig:"MEDIMART_CATALOG_LOW_STOCK_CEILING" default:"5"`
}

type CartConfig struct {
	TTL time.Duration `envconfig:"MEDIMART_CART_TTL" default:"168h"`
}

type GCPConfig struct {
	ProjectID string `envconfig:"MEDIMART_GCP_PROJECT_ID"`
}

type PubSubConfig struct {
	OrdersTopic  string `envconfig:"MEDIMART_PUBSUB_ORDERS_TOPIC" default:"mm-order-events"`
	EmulatorHost string `envconfig:"MEDIMART_PUBSUB_EMULATOR_HOST"`
}

// Enabled reports whether order events should be published at all.
func (p PubSubConfig) Enabled(gcp GCPConfig) bool {
	return strings.TrimSpace(gcp.ProjectID) != "" && strings.TrimSpace(p.OrdersTopic) != ""
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"MEDIMART_FEATURE_AUTO_MIGRATE" default:"false"`
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
