package config

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Storage   StorageConfig   `mapstructure:"storage"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Auth      AuthConfig      `mapstructure:"auth"`
	Chat      ChatConfig      `mapstructure:"chat"`
	Countries CountriesConfig `mapstructure:"countries"`
	Security  SecurityConfig  `mapstructure:"security"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

type ServerConfig struct {
	Host              string        `mapstructure:"host"`
	Port              int           `mapstructure:"port"`
	ReadTimeout       time.Duration `mapstructure:"read_timeout"`
	WriteTimeout      time.Duration `mapstructure:"write_timeout"`
	IdleTimeout       time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout   time.Duration `mapstructure:"shutdown_timeout"`
	MiddlewareTimeout time.Duration `mapstructure:"middleware_timeout"`
}

// StorageConfig selects and configures the key-value medium
type StorageConfig struct {
	Driver        string         `mapstructure:"driver"` // memory, sqlite, postgres, mysql, redis, mongo, badger
	LegacyMirror  bool           `mapstructure:"legacy_mirror"`
	EncryptionKey string         `mapstructure:"encryption_key"` // base64, optional
	SQLite        SQLiteConfig   `mapstructure:"sqlite"`
	Postgres      DatabaseConfig `mapstructure:"postgres"`
	MySQL         DatabaseConfig `mapstructure:"mysql"`
	Mongo         MongoConfig    `mapstructure:"mongo"`
	Badger        BadgerConfig   `mapstructure:"badger"`
	Namespace     string         `mapstructure:"namespace"`
}

type SQLiteConfig struct {
	Path string `mapstructure:"path"`
}

type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Database string `mapstructure:"database"`
	SSLMode  string `mapstructure:"ssl_mode"`
	MaxConns int32  `mapstructure:"max_conns"`
	MinConns int32  `mapstructure:"min_conns"`
}

// DSN returns the postgres connection string
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.Database, c.SSLMode,
	)
}

// MySQLDSN returns the go-sql-driver/mysql connection string
func (c DatabaseConfig) MySQLDSN() string {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true&multiStatements=true",
		c.User, c.Password, c.Host, c.Port, c.Database,
	)
	if c.SSLMode == "require" || c.SSLMode == "verify-full" {
		dsn += "&tls=true"
	}
	return dsn
}

type MongoConfig struct {
	URI        string        `mapstructure:"uri"`
	Database   string        `mapstructure:"database"`
	Collection string        `mapstructure:"collection"`
	Timeout    time.Duration `mapstructure:"timeout"`
}

type BadgerConfig struct {
	Dir      string `mapstructure:"dir"`
	InMemory bool   `mapstructure:"in_memory"`
}

type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

func (c RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

type AuthConfig struct {
	JWTSecret      string        `mapstructure:"jwt_secret"`
	AccessTokenTTL time.Duration `mapstructure:"access_token_ttl"`
	OTPDigits      int           `mapstructure:"otp_digits"`
	VerifyDelay    time.Duration `mapstructure:"verify_delay"`
}

// ChatConfig holds the scripted reply behaviour and UI timings
type ChatConfig struct {
	ReplyDelay       time.Duration `mapstructure:"reply_delay"`
	PlaceholderText  string        `mapstructure:"placeholder_text"`
	ReplyText        string        `mapstructure:"reply_text"`
	DefaultRoomTitle string        `mapstructure:"default_room_title"`
	SearchDebounce   time.Duration `mapstructure:"search_debounce"`
	NotificationFeed int           `mapstructure:"notification_feed"`
}

type CountriesConfig struct {
	URL      string        `mapstructure:"url"`
	Timeout  time.Duration `mapstructure:"timeout"`
	CacheTTL time.Duration `mapstructure:"cache_ttl"`
}

type SecurityConfig struct {
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
}

type RateLimitConfig struct {
	RequestsPerMinute int `mapstructure:"requests_per_minute"`
	Burst             int `mapstructure:"burst"`
}

type LoggingConfig struct {
	Level  string        `mapstructure:"level"`
	Format string        `mapstructure:"format"`
	File   string        `mapstructure:"file"` // rotated daily when set
	MaxAge time.Duration `mapstructure:"max_age"`
}

// Load reads configuration from file and environment variables
func Load() (*Config, error) {
	v := viper.New()

	// Set config file path
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "./configs/config.yaml"
	}

	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found, use defaults and env vars
	}

	v.AutomaticEnv()
	bindEnvVars(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// Default returns the configuration built from defaults only
func Default() *Config {
	v := viper.New()
	setDefaults(v)

	var cfg Config
	_ = v.Unmarshal(&cfg)
	return &cfg
}

func setDefaults(v *viper.Viper) {
	// Server
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "30s")
	v.SetDefault("server.idle_timeout", "60s")
	v.SetDefault("server.shutdown_timeout", "10s")
	v.SetDefault("server.middleware_timeout", "60s")

	// Storage
	v.SetDefault("storage.driver", "sqlite")
	v.SetDefault("storage.legacy_mirror", true)
	v.SetDefault("storage.namespace", "chat")
	v.SetDefault("storage.sqlite.path", "./data/chat.db")
	v.SetDefault("storage.postgres.host", "localhost")
	v.SetDefault("storage.postgres.port", 5432)
	v.SetDefault("storage.postgres.user", "chat")
	v.SetDefault("storage.postgres.database", "chat")
	v.SetDefault("storage.postgres.ssl_mode", "disable")
	v.SetDefault("storage.postgres.max_conns", 5)
	v.SetDefault("storage.postgres.min_conns", 1)
	v.SetDefault("storage.mysql.host", "localhost")
	v.SetDefault("storage.mysql.port", 3306)
	v.SetDefault("storage.mysql.user", "chat")
	v.SetDefault("storage.mysql.database", "chat")
	v.SetDefault("storage.mongo.uri", "mongodb://localhost:27017")
	v.SetDefault("storage.mongo.database", "chat")
	v.SetDefault("storage.mongo.collection", "kv")
	v.SetDefault("storage.mongo.timeout", "10s")
	v.SetDefault("storage.badger.dir", "./data/badger")

	// Redis
	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.db", 0)

	// Auth
	v.SetDefault("auth.jwt_secret", "change-me-in-production-32-chars")
	v.SetDefault("auth.access_token_ttl", "24h")
	v.SetDefault("auth.otp_digits", 6)
	v.SetDefault("auth.verify_delay", "3s")

	// Chat
	v.SetDefault("chat.reply_delay", "2s")
	v.SetDefault("chat.placeholder_text", "Gemini is typing...")
	v.SetDefault("chat.reply_text", "Gemini's reply after thinking...")
	v.SetDefault("chat.default_room_title", "New Chat")
	v.SetDefault("chat.search_debounce", "300ms")
	v.SetDefault("chat.notification_feed", 50)

	// Countries
	v.SetDefault("countries.url", "https://restcountries.com/v3.1/all?fields=name,idd")
	v.SetDefault("countries.timeout", "10s")
	v.SetDefault("countries.cache_ttl", "24h")

	// Security
	v.SetDefault("security.rate_limit.requests_per_minute", 120)
	v.SetDefault("security.rate_limit.burst", 20)

	// Logging
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.max_age", "168h") // 7 days
}

func bindEnvVars(v *viper.Viper) {
	v.BindEnv("storage.driver", "STORAGE_DRIVER")
	v.BindEnv("storage.encryption_key", "STORAGE_ENCRYPTION_KEY")
	v.BindEnv("storage.sqlite.path", "SQLITE_PATH")
	v.BindEnv("storage.postgres.password", "POSTGRES_PASSWORD")
	v.BindEnv("storage.mysql.password", "MYSQL_PASSWORD")
	v.BindEnv("storage.mongo.uri", "MONGO_URI")

	v.BindEnv("redis.password", "REDIS_PASSWORD")

	v.BindEnv("auth.jwt_secret", "JWT_SECRET")

	v.BindEnv("server.port", "SERVER_PORT")
	v.BindEnv("logging.level", "LOG_LEVEL")
}
