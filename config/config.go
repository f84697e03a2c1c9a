package config

import (
	"fmt"
	"os"

	"github.com/blacktie/storefront/internal/domain"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

const envPrefix = "STOREFRONT"

type Config struct {
	HTTP     HTTPConfig     `yaml:"http" envconfig:"HTTP"`
	Log      LogConfig      `yaml:"log" envconfig:"LOG"`
	Storage  StorageConfig  `yaml:"storage" envconfig:"STORAGE"`
	Database DatabaseConfig `yaml:"database" envconfig:"DB"`
	Redis    RedisConfig    `yaml:"redis" envconfig:"REDIS"`
	Kafka    KafkaConfig    `yaml:"kafka" envconfig:"KAFKA"`
	Booking  BookingConfig  `yaml:"booking" envconfig:"BOOKING"`
	Hero     HeroConfig     `yaml:"hero" envconfig:"HERO"`
	Admin    AdminConfig    `yaml:"admin" envconfig:"ADMIN"`
}

type HTTPConfig struct {
	Address        string   `yaml:"address" envconfig:"ADDRESS"`
	SwaggerDir     string   `yaml:"swagger_dir" envconfig:"SWAGGER_DIR"`
	AllowedOrigins []string `yaml:"allowed_origins" envconfig:"ALLOWED_ORIGINS"`
}

type LogConfig struct {
	Level       string `yaml:"level" envconfig:"LEVEL"`
	Development bool   `yaml:"development" envconfig:"DEVELOPMENT"`
}

// StorageConfig selects the key-value substrate backing hero media.
// Backend is one of sqlite, redis, postgres, memory.
type StorageConfig struct {
	Backend    string `yaml:"backend" envconfig:"BACKEND"`
	SQLitePath string `yaml:"sqlite_path" envconfig:"SQLITE_PATH"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host" envconfig:"HOST"`
	Port     int    `yaml:"port" envconfig:"PORT"`
	User     string `yaml:"user" envconfig:"USER"`
	Password string `yaml:"password" envconfig:"PASSWORD"`
	Name     string `yaml:"name" envconfig:"NAME"`
	SSLMode  string `yaml:"ssl_mode" envconfig:"SSL_MODE"`
}

func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s", d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode)
}

func (d DatabaseConfig) Enabled() bool {
	return d.Host != ""
}

type RedisConfig struct {
	Addr     string `yaml:"addr" envconfig:"ADDR"`
	Password string `yaml:"password" envconfig:"PASSWORD"`
	DB       int    `yaml:"db" envconfig:"DB"`
}

type KafkaConfig struct {
	Brokers     []string `yaml:"brokers" envconfig:"BROKERS"`
	OrdersTopic string   `yaml:"orders_topic" envconfig:"ORDERS_TOPIC"`
	HeroTopic   string   `yaml:"hero_topic" envconfig:"HERO_TOPIC"`
	GroupID     string   `yaml:"group_id" envconfig:"GROUP_ID"`
}

type BookingConfig struct {
	// RequireFields blocks leaving Details and Payment until the forms validate.
	RequireFields         bool `yaml:"require_fields" envconfig:"REQUIRE_FIELDS"`
	SessionIdleTTLMinutes int  `yaml:"session_idle_ttl_minutes" envconfig:"SESSION_IDLE_TTL_MINUTES"`
	SweepIntervalSeconds  int  `yaml:"sweep_interval_seconds" envconfig:"SWEEP_INTERVAL_SECONDS"`
	EventsCacheTTLSeconds int  `yaml:"events_cache_ttl_seconds" envconfig:"EVENTS_CACHE_TTL_SECONDS"`
}

// HeroConfig.HistoryLimit can only lower the history cap.
type HeroConfig struct {
	HistoryLimit int `yaml:"history_limit" envconfig:"HISTORY_LIMIT"`
}

type AdminConfig struct {
	// JWTSecret protects the admin routes. Empty leaves them open.
	JWTSecret string `yaml:"jwt_secret" envconfig:"JWT_SECRET"`
}

// LoadConfig reads the YAML file at path, then applies STOREFRONT_* environment
// overrides (including ones from .env.local and .env) and fills defaults.
func LoadConfig(path string) (*Config, error) {
	_ = godotenv.Load(".env.local")
	_ = godotenv.Load(".env")

	var cfg Config
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	case os.IsNotExist(err):
		// env-only configuration
	default:
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := envconfig.Process(envPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("failed to apply env overrides: %w", err)
	}

	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.HTTP.Address == "" {
		c.HTTP.Address = ":8080"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Storage.Backend == "" {
		c.Storage.Backend = "sqlite"
	}
	if c.Storage.SQLitePath == "" {
		c.Storage.SQLitePath = "storefront.db"
	}
	if c.Kafka.OrdersTopic == "" {
		c.Kafka.OrdersTopic = "orders"
	}
	if c.Kafka.HeroTopic == "" {
		c.Kafka.HeroTopic = "hero"
	}
	if c.Kafka.GroupID == "" {
		c.Kafka.GroupID = "storefront-receipts"
	}
	if c.Booking.SessionIdleTTLMinutes <= 0 {
		c.Booking.SessionIdleTTLMinutes = 30
	}
	if c.Booking.SweepIntervalSeconds <= 0 {
		c.Booking.SweepIntervalSeconds = 60
	}
	if c.Booking.EventsCacheTTLSeconds <= 0 {
		c.Booking.EventsCacheTTLSeconds = 300
	}
	if c.Hero.HistoryLimit <= 0 || c.Hero.HistoryLimit > domain.HeroHistoryLimit {
		c.Hero.HistoryLimit = domain.HeroHistoryLimit
	}
}
