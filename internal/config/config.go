package config

import (
	"fmt"
	"net"
	"net/url"
	"os"
	"strconv"
	"time"
)

const (
	FetchModeHTTP    = "http"
	FetchModeBrowser = "browser"

	CacheBackendRedis  = "redis"
	CacheBackendMemory = "memory"
)

type Config struct {
	Server   ServerConfig
	Fetch    FetchConfig
	Cache    CacheConfig
	Redis    RedisConfig
	Search   SearchConfig
	Events   EventsConfig
	Database DatabaseConfig
	Browser  BrowserConfig
	Logging  LoggingConfig
}

type ServerConfig struct {
	Port            int
	BaseURL         string
	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration
}

type FetchConfig struct {
	Mode      string
	Timeout   time.Duration
	UserAgent string
}

type CacheConfig struct {
	Backend string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	Prefix   string
}

type SearchConfig struct {
	MaxPages  int
	PageDelay time.Duration
}

type EventsConfig struct {
	Enabled           bool
	RelayPollInterval time.Duration
	RelayBatchSize    int
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
	MaxConns int32
}

type BrowserConfig struct {
	Headless   bool
	Locale     string
	TimezoneID string
}

type LoggingConfig struct {
	Level  string
	Format string
}

func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:            getEnvInt("PORT", 8000),
			BaseURL:         getEnv("BASE_URL", "https://www.zoom.com.br"),
			RequestTimeout:  getEnvDuration("REQUEST_TIMEOUT", 120*time.Second),
			ShutdownTimeout: getEnvDuration("SHUTDOWN_TIMEOUT", 30*time.Second),
		},
		Fetch: FetchConfig{
			Mode:      getEnv("FETCH_MODE", FetchModeHTTP),
			Timeout:   getEnvDuration("FETCH_TIMEOUT", 30*time.Second),
			UserAgent: getEnv("FETCH_USER_AGENT", "Mozilla/5.0"),
		},
		Cache: CacheConfig{
			Backend: getEnv("CACHE_BACKEND", CacheBackendRedis),
		},
		Redis: RedisConfig{
			Addr:     redisAddr(),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
			Prefix:   getEnv("REDIS_PREFIX", "zoom:product:"),
		},
		Search: SearchConfig{
			MaxPages:  getEnvInt("SEARCH_MAX_PAGES", 0),
			PageDelay: getEnvDuration("SEARCH_PAGE_DELAY", 0),
		},
		Events: EventsConfig{
			Enabled:           getEnvBool("EVENTS_ENABLED", false),
			RelayPollInterval: getEnvDuration("RELAY_POLL_INTERVAL", 5*time.Second),
			RelayBatchSize:    getEnvInt("RELAY_BATCH_SIZE", 100),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			Name:     getEnv("DB_NAME", "zoom_scraper"),
			SSLMode:  getEnv("DB_SSL_MODE", "disable"),
			MaxConns: int32(getEnvInt("DB_MAX_CONNS", 10)),
		},
		Browser: BrowserConfig{
			Headless:   getEnvBool("BROWSER_HEADLESS", true),
			Locale:     getEnv("BROWSER_LOCALE", "pt-BR"),
			TimezoneID: getEnv("BROWSER_TIMEZONE", "America/Sao_Paulo"),
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	u, err := url.Parse(c.Server.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("BASE_URL must be an absolute http(s) URL: %q", c.Server.BaseURL)
	}

	switch c.Fetch.Mode {
	case FetchModeHTTP, FetchModeBrowser:
	default:
		return fmt.Errorf("invalid FETCH_MODE: %q", c.Fetch.Mode)
	}

	switch c.Cache.Backend {
	case CacheBackendRedis, CacheBackendMemory:
	default:
		return fmt.Errorf("invalid CACHE_BACKEND: %q", c.Cache.Backend)
	}

	if c.Cache.Backend == CacheBackendRedis && c.Redis.Addr == "" {
		return fmt.Errorf("redis address is required")
	}

	if c.Search.MaxPages < 0 {
		return fmt.Errorf("SEARCH_MAX_PAGES cannot be negative")
	}

	if c.Search.PageDelay < 0 {
		return fmt.Errorf("SEARCH_PAGE_DELAY cannot be negative")
	}

	if c.Events.Enabled {
		if c.Database.Host == "" {
			return fmt.Errorf("database host is required when events are enabled")
		}
		if c.Database.Name == "" {
			return fmt.Errorf("database name is required when events are enabled")
		}
		if c.Cache.Backend != CacheBackendRedis && c.Redis.Addr == "" {
			return fmt.Errorf("redis address is required when events are enabled")
		}
	}

	return nil
}

// redisAddr prefers REDIS_ADDR and falls back to REDIS_HOST and REDIS_PORT.
func redisAddr() string {
	if addr, exists := os.LookupEnv("REDIS_ADDR"); exists {
		return addr
	}
	return net.JoinHostPort(getEnv("REDIS_HOST", "localhost"), getEnv("REDIS_PORT", "6379"))
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
