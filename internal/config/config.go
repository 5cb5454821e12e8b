package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	Server      ServerConfig      `yaml:"server"`
	Postgres    PostgresConfig    `yaml:"postgres"`
	Redis       RedisConfig       `yaml:"redis"`
	Kafka       KafkaConfig       `yaml:"kafka"`
	Auth        AuthConfig        `yaml:"auth"`
	Steam       VendorConfig      `yaml:"steam"`
	Xbox        VendorConfig      `yaml:"xbox"`
	PSN         VendorConfig      `yaml:"psn"`
	IGDB        IGDBConfig        `yaml:"igdb"`
	Aggregation AggregationConfig `yaml:"aggregation"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port         int           `yaml:"port"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
	IdleTimeout  time.Duration `yaml:"idle_timeout"`
	CORSOrigin   string        `yaml:"cors_origin"`
}

// PostgresConfig holds PostgreSQL connection configuration
type PostgresConfig struct {
	Host            string        `yaml:"host"`
	Port            int           `yaml:"port"`
	User            string        `yaml:"user"`
	Password        string        `yaml:"password"`
	Database        string        `yaml:"database"`
	SSLMode         string        `yaml:"ssl_mode"`
	MaxConnections  int           `yaml:"max_connections"`
	MinConnections  int           `yaml:"min_connections"`
	MaxConnLifetime time.Duration `yaml:"max_conn_lifetime"`
	MaxConnIdleTime time.Duration `yaml:"max_conn_idle_time"`
}

// ConnectionString returns the PostgreSQL connection string
func (c *PostgresConfig) ConnectionString() string {
	sslMode := c.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.Database, sslMode,
	)
}

// RedisConfig holds Redis connection configuration
type RedisConfig struct {
	Addr         string        `yaml:"addr"`
	Password     string        `yaml:"password"`
	DB           int           `yaml:"db"`
	PoolSize     int           `yaml:"pool_size"`
	MinIdleConns int           `yaml:"min_idle_conns"`
	DialTimeout  time.Duration `yaml:"dial_timeout"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
	CatalogTTL   time.Duration `yaml:"catalog_ttl"`
	ProfileTTL   time.Duration `yaml:"profile_ttl"`
}

// KafkaConfig holds Kafka connection configuration
type KafkaConfig struct {
	Brokers []string `yaml:"brokers"`
	Topic   string   `yaml:"topic"`
	GroupID string   `yaml:"group_id"`
	Enabled bool     `yaml:"enabled"`
}

// AuthConfig holds token and password hashing configuration
type AuthConfig struct {
	JWTSecret  string        `yaml:"jwt_secret"`
	TokenTTL   time.Duration `yaml:"token_ttl"`
	BcryptCost int           `yaml:"bcrypt_cost"`
}

// VendorConfig holds credentials and tuning for one upstream platform
type VendorConfig struct {
	APIKey            string        `yaml:"api_key"`
	BaseURL           string        `yaml:"base_url"`
	Timeout           time.Duration `yaml:"timeout"`
	RequestsPerSecond float64       `yaml:"requests_per_second"`
	Burst             int           `yaml:"burst"`
}

// IGDBConfig holds IGDB credentials (Twitch client ID + bearer token)
type IGDBConfig struct {
	ClientID          string        `yaml:"client_id"`
	AccessToken       string        `yaml:"access_token"`
	BaseURL           string        `yaml:"base_url"`
	Timeout           time.Duration `yaml:"timeout"`
	RequestsPerSecond float64       `yaml:"requests_per_second"`
	Burst             int           `yaml:"burst"`
}

// AggregationConfig tunes the enrichment fan-out and pagination bounds
type AggregationConfig struct {
	MaxConcurrency  int     `yaml:"max_concurrency"`
	DefaultPageSize int     `yaml:"default_page_size"`
	MaxPageSize     int     `yaml:"max_page_size"`
	RarityThreshold float64 `yaml:"rarity_threshold"`
}

// Load reads configuration from a YAML file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	// Expand environment variables
	data = []byte(os.ExpandEnv(string(data)))

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	// Apply defaults
	cfg.applyDefaults()

	return &cfg, nil
}

// applyDefaults sets default values for missing configuration
func (c *Config) applyDefaults() {
	// Server defaults
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 10 * time.Second
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = 60 * time.Second
	}
	if c.Server.IdleTimeout == 0 {
		c.Server.IdleTimeout = 120 * time.Second
	}
	if c.Server.CORSOrigin == "" {
		c.Server.CORSOrigin = "*"
	}

	// PostgreSQL defaults
	if c.Postgres.Host == "" {
		c.Postgres.Host = "localhost"
	}
	if c.Postgres.Port == 0 {
		c.Postgres.Port = 5432
	}
	if c.Postgres.MaxConnections == 0 {
		c.Postgres.MaxConnections = 25
	}
	if c.Postgres.MinConnections == 0 {
		c.Postgres.MinConnections = 2
	}
	if c.Postgres.MaxConnLifetime == 0 {
		c.Postgres.MaxConnLifetime = 1 * time.Hour
	}
	if c.Postgres.MaxConnIdleTime == 0 {
		c.Postgres.MaxConnIdleTime = 30 * time.Minute
	}

	// Redis defaults
	if c.Redis.Addr == "" {
		c.Redis.Addr = "localhost:6379"
	}
	if c.Redis.PoolSize == 0 {
		c.Redis.PoolSize = 50
	}
	if c.Redis.MinIdleConns == 0 {
		c.Redis.MinIdleConns = 5
	}
	if c.Redis.DialTimeout == 0 {
		c.Redis.DialTimeout = 5 * time.Second
	}
	if c.Redis.ReadTimeout == 0 {
		c.Redis.ReadTimeout = 3 * time.Second
	}
	if c.Redis.WriteTimeout == 0 {
		c.Redis.WriteTimeout = 3 * time.Second
	}
	if c.Redis.CatalogTTL == 0 {
		c.Redis.CatalogTTL = 15 * time.Minute
	}
	if c.Redis.ProfileTTL == 0 {
		c.Redis.ProfileTTL = 5 * time.Minute
	}

	// Kafka defaults
	if len(c.Kafka.Brokers) == 0 {
		c.Kafka.Brokers = []string{"localhost:9092"}
	}
	if c.Kafka.Topic == "" {
		c.Kafka.Topic = "stats-refresh"
	}
	if c.Kafka.GroupID == "" {
		c.Kafka.GroupID = "gamehub-stats"
	}

	// Auth defaults
	if c.Auth.TokenTTL == 0 {
		c.Auth.TokenTTL = 60 * time.Minute
	}
	if c.Auth.BcryptCost == 0 {
		c.Auth.BcryptCost = 12
	}

	// Vendor defaults
	applyVendorDefaults(&c.Steam, "https://api.steampowered.com")
	applyVendorDefaults(&c.Xbox, "https://xbl.io/api/v2")
	applyVendorDefaults(&c.PSN, "https://m.np.playstation.com")
	if c.IGDB.BaseURL == "" {
		c.IGDB.BaseURL = "https://api.igdb.com/v4"
	}
	if c.IGDB.Timeout == 0 {
		c.IGDB.Timeout = 10 * time.Second
	}
	if c.IGDB.RequestsPerSecond == 0 {
		c.IGDB.RequestsPerSecond = 4
	}
	if c.IGDB.Burst == 0 {
		c.IGDB.Burst = 4
	}

	// Aggregation defaults
	if c.Aggregation.MaxConcurrency == 0 {
		c.Aggregation.MaxConcurrency = 8
	}
	if c.Aggregation.DefaultPageSize == 0 {
		c.Aggregation.DefaultPageSize = 10
	}
	if c.Aggregation.MaxPageSize == 0 {
		c.Aggregation.MaxPageSize = 50
	}
	if c.Aggregation.RarityThreshold == 0 {
		c.Aggregation.RarityThreshold = 10.0
	}
}

func applyVendorDefaults(v *VendorConfig, baseURL string) {
	if v.BaseURL == "" {
		v.BaseURL = baseURL
	}
	if v.Timeout == 0 {
		v.Timeout = 10 * time.Second
	}
	if v.RequestsPerSecond == 0 {
		v.RequestsPerSecond = 10
	}
	if v.Burst == 0 {
		v.Burst = 10
	}
}

// DefaultConfig returns a configuration with all defaults
func DefaultConfig() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}
