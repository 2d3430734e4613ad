package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

const (
	StoreMemory   = "memory"
	StoreRedis    = "redis"
	StorePostgres = "postgres"
	StoreMySQL    = "mysql"

	PhotosInline = "inline"
	PhotosMinio  = "minio"

	PasswordsArgon2id  = "argon2id"
	PasswordsPlaintext = "plaintext"
)

type HTTPConfig struct {
	Host         string
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

type StoreConfig struct {
	Driver string
	Prefix string
}

type PostgresConfig struct {
	DSN             string
	MaxOpen         int
	MaxIdle         int
	ConnMaxLifetime time.Duration
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type MySQLConfig struct {
	DSN string
}

type PhotosConfig struct {
	Backend string
}

type StorageConfig struct {
	Endpoint     string
	AccessKey    string
	SecretKey    string
	BucketPhotos string
	UseSSL       bool
	Region       string
}

type SecurityConfig struct {
	JWTAccessSecret string
	JWTAccessTTL    time.Duration
	// PasswordStorage is argon2id, or plaintext for stores shared with the
	// mobile client, which compares passwords verbatim.
	PasswordStorage string
}

type NetworkConfig struct {
	StartOffline  bool
	ProbeURL      string
	ProbeSchedule string
	ProbeTimeout  time.Duration
}

type IntegrityConfig struct {
	StrictReferences bool
}

type RateLimitConfig struct {
	Requests int
	Window   time.Duration
}

type AppConfig struct {
	Environment      string
	HTTP             HTTPConfig
	Store            StoreConfig
	Postgres         PostgresConfig
	Redis            RedisConfig
	MySQL            MySQLConfig
	Photos           PhotosConfig
	Storage          StorageConfig
	Security         SecurityConfig
	Network          NetworkConfig
	Integrity        IntegrityConfig
	RateLimit        RateLimitConfig
	AllowCORSOrigins []string
}

func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("../config")

	return load(v)
}

func load(v *viper.Viper) (*AppConfig, error) {
	v.SetEnvPrefix("FORESTTRACK")
	v.SetEnvKeyReplacer(envKeyReplacer)
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("load config file: %w", err)
		}
	}

	var cfg AppConfig
	if err := v.Unmarshal(&cfg, func(dc *mapstructure.DecoderConfig) {
		dc.TagName = "mapstructure"
		dc.DecodeHook = mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		)
	}); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *AppConfig) Validate() error {
	switch c.Store.Driver {
	case StoreMemory, StoreRedis, StorePostgres, StoreMySQL:
	default:
		return fmt.Errorf("unknown store driver %q", c.Store.Driver)
	}
	switch c.Photos.Backend {
	case PhotosInline, PhotosMinio:
	default:
		return fmt.Errorf("unknown photos backend %q", c.Photos.Backend)
	}
	switch c.Security.PasswordStorage {
	case PasswordsArgon2id, PasswordsPlaintext:
	default:
		return fmt.Errorf("unknown password storage %q", c.Security.PasswordStorage)
	}
	if c.Environment == "production" && c.Security.JWTAccessSecret == defaultJWTSecret {
		return errors.New("security.jwtaccesssecret must be set in production")
	}
	return nil
}

const defaultJWTSecret = "dev-secret-change-me"

func setDefaults(v *viper.Viper) {
	v.SetDefault("environment", "development")

	v.SetDefault("http.host", "127.0.0.1")
	v.SetDefault("http.port", 8080)
	v.SetDefault("http.readtimeout", "10s")
	v.SetDefault("http.writetimeout", "15s")
	v.SetDefault("http.idletimeout", "60s")

	v.SetDefault("store.driver", StoreMemory)
	v.SetDefault("store.prefix", "")

	v.SetDefault("postgres.dsn", "")
	v.SetDefault("postgres.maxopen", 4)
	v.SetDefault("postgres.maxidle", 1)
	v.SetDefault("postgres.connmaxlifetime", "30m")

	v.SetDefault("redis.addr", "127.0.0.1:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("mysql.dsn", "")

	v.SetDefault("photos.backend", PhotosInline)

	v.SetDefault("storage.endpoint", "")
	v.SetDefault("storage.accesskey", "")
	v.SetDefault("storage.secretkey", "")
	v.SetDefault("storage.bucketphotos", "foresttrack-photos")
	v.SetDefault("storage.usessl", false)
	v.SetDefault("storage.region", "us-east-1")

	v.SetDefault("security.jwtaccesssecret", defaultJWTSecret)
	v.SetDefault("security.jwtaccessttl", "12h")
	v.SetDefault("security.passwordstorage", PasswordsArgon2id)

	v.SetDefault("network.startoffline", false)
	v.SetDefault("network.probeurl", "")
	v.SetDefault("network.probeschedule", "@every 30s")
	v.SetDefault("network.probetimeout", "3s")

	v.SetDefault("integrity.strictreferences", false)

	v.SetDefault("ratelimit.requests", 120)
	v.SetDefault("ratelimit.window", "1m")

	v.SetDefault("allowcorsorigins", []string{})
}

var envKeyReplacer = strings.NewReplacer(".", "_")
