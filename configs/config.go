package configs

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Memcache MemcacheConfig
	Cache    CacheConfig
	Log      LogConfig
}

type ServerConfig struct {
	Host           string        `env:"SERVER_HOST" envDefault:"0.0.0.0"`
	Port           string        `env:"SERVER_PORT" envDefault:"8080"`
	ReadTimeout    time.Duration `env:"SERVER_READ_TIMEOUT" envDefault:"30s"`
	WriteTimeout   time.Duration `env:"SERVER_WRITE_TIMEOUT" envDefault:"30s"`
	IdleTimeout    time.Duration `env:"SERVER_IDLE_TIMEOUT" envDefault:"120s"`
	TLSCertFile    string        `env:"TLS_CERT_FILE"`
	TLSKeyFile     string        `env:"TLS_KEY_FILE"`
	AllowedOrigins []string      `env:"ALLOWED_ORIGINS" envSeparator:"," envDefault:"*"`
}

type DatabaseConfig struct {
	// Driver is "postgres" or "sqlite".
	Driver     string `env:"DB_DRIVER" envDefault:"postgres"`
	Host       string `env:"DB_HOST" envDefault:"localhost"`
	Port       string `env:"DB_PORT" envDefault:"5432"`
	User       string `env:"DB_USER" envDefault:"postgres"`
	Password   string `env:"DB_PASSWORD" envDefault:"postgres"`
	DBName     string `env:"DB_NAME" envDefault:"items_db"`
	SSLMode    string `env:"DB_SSL_MODE" envDefault:"disable"`
	SQLitePath string `env:"DB_SQLITE_PATH" envDefault:"items.db"`
	// DSN is derived from the fields above unless DB_DSN is set.
	DSN string `env:"DB_DSN"`
	// Connection pool settings
	MaxOpenConns    int           `env:"DB_MAX_OPEN_CONNS" envDefault:"25"`
	MaxIdleConns    int           `env:"DB_MAX_IDLE_CONNS" envDefault:"25"`
	ConnMaxLifetime time.Duration `env:"DB_CONN_MAX_LIFETIME" envDefault:"30m"`
	ConnMaxIdleTime time.Duration `env:"DB_CONN_MAX_IDLE_TIME" envDefault:"5m"`
}

type RedisConfig struct {
	Host     string `env:"REDIS_HOST" envDefault:"localhost"`
	Port     string `env:"REDIS_PORT" envDefault:"6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB" envDefault:"0"`
	// Pool and timeout settings
	PoolSize     int           `env:"REDIS_POOL_SIZE" envDefault:"10"`
	MinIdleConns int           `env:"REDIS_MIN_IDLE_CONNS" envDefault:"2"`
	DialTimeout  time.Duration `env:"REDIS_DIAL_TIMEOUT" envDefault:"5s"`
	ReadTimeout  time.Duration `env:"REDIS_READ_TIMEOUT" envDefault:"3s"`
	WriteTimeout time.Duration `env:"REDIS_WRITE_TIMEOUT" envDefault:"3s"`
	PoolTimeout  time.Duration `env:"REDIS_POOL_TIMEOUT" envDefault:"4s"`
	IdleTimeout  time.Duration `env:"REDIS_IDLE_TIMEOUT" envDefault:"5m"`
}

type MemcacheConfig struct {
	Servers      []string      `env:"MEMCACHE_SERVERS" envSeparator:"," envDefault:"localhost:11211"`
	Timeout      time.Duration `env:"MEMCACHE_TIMEOUT" envDefault:"500ms"`
	MaxIdleConns int           `env:"MEMCACHE_MAX_IDLE_CONNS" envDefault:"4"`
}

type CacheConfig struct {
	// Driver is "redis", "memcache" or "memory".
	Driver    string        `env:"CACHE_DRIVER" envDefault:"redis"`
	TTL       time.Duration `env:"CACHE_TTL" envDefault:"10s"`
	KeyPrefix string        `env:"CACHE_KEY_PREFIX" envDefault:"itemcache"`
	// JanitorInterval only applies to the memory driver.
	JanitorInterval         time.Duration `env:"CACHE_JANITOR_INTERVAL" envDefault:"1m"`
	FlushOnShutdown         bool          `env:"CACHE_FLUSH_ON_SHUTDOWN" envDefault:"true"`
	EvictAggregatesOnCreate bool          `env:"CACHE_EVICT_AGGREGATES_ON_CREATE" envDefault:"false"`
}

type LogConfig struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info"`
	Format string `env:"LOG_FORMAT" envDefault:"json"` // json or text
}

func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}

	switch cfg.Database.Driver {
	case "postgres", "sqlite":
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.Database.Driver)
	}
	switch cfg.Cache.Driver {
	case "redis", "memcache", "memory":
	default:
		return nil, fmt.Errorf("unsupported CACHE_DRIVER %q", cfg.Cache.Driver)
	}
	if cfg.Cache.TTL <= 0 {
		return nil, fmt.Errorf("CACHE_TTL must be positive, got %s", cfg.Cache.TTL)
	}

	if cfg.Database.DSN == "" {
		cfg.Database.DSN = cfg.Database.BuildDSN()
	}

	return cfg, nil
}

// BuildDSN renders the connection string for the configured driver.
func (d DatabaseConfig) BuildDSN() string {
	if d.Driver == "sqlite" {
		return d.SQLitePath + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	}
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		d.Host,
		d.Port,
		d.User,
		d.Password,
		d.DBName,
		d.SSLMode,
	)
}
