package config

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/creasty/defaults"
	"gopkg.in/yaml.v3"
)

// History sources.
const (
	SourceCSV        = "csv"
	SourceXLSX       = "xlsx"
	SourceClickHouse = "clickhouse"
	SourcePostgres   = "postgres"
)

// Cache backends.
const (
	CacheNone    = "none"
	CacheMemory  = "memory"
	CacheRedis   = "redis"
	CacheLayered = "layered"
)

type Config struct {
	Environment string `yaml:"environment" default:"development"`
	Server      struct {
		Port            int           `yaml:"port" default:"8000"`
		ReadTimeout     time.Duration `yaml:"read_timeout" default:"10s"`
		WriteTimeout    time.Duration `yaml:"write_timeout" default:"15s"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout" default:"10s"`
		TrustedProxies  []string      `yaml:"trusted_proxies"`
	} `yaml:"server"`
	CORS struct {
		AllowOrigins []string `yaml:"allow_origins" default:"[\"http://localhost:3000\"]"`
	} `yaml:"cors"`
	RateLimit struct {
		Enabled  bool    `yaml:"enabled"`
		Capacity float64 `yaml:"capacity" default:"20"`
		Refill   float64 `yaml:"refill_per_second" default:"5"`
	} `yaml:"rate_limit"`
	Metrics struct {
		Enabled bool   `yaml:"enabled"`
		Path    string `yaml:"path" default:"/metrics"`
	} `yaml:"metrics"`
	Logger struct {
		Level      string `yaml:"level" default:"info"`
		Format     string `yaml:"format" default:"json"`
		Output     string `yaml:"output" default:"stdout"`
		MaxSizeMB  int    `yaml:"max_size_mb" default:"100"`
		MaxBackups int    `yaml:"max_backups" default:"5"`
		MaxAgeDays int    `yaml:"max_age_days" default:"14"`
		Compress   bool   `yaml:"compress"`
		Collector  struct {
			Enabled   bool          `yaml:"enabled"`
			Interval  time.Duration `yaml:"interval" default:"30s"`
			Threshold int           `yaml:"threshold" default:"100"`
			Topic     string        `yaml:"topic" default:"agricast.errors"`
		} `yaml:"collector"`
	} `yaml:"logger"`
	Predictor struct {
		ServiceURL   string        `yaml:"service_url" default:"http://localhost:5001"`
		ModelVersion string        `yaml:"model_version" default:"random_forest_v1"`
		Timeout      time.Duration `yaml:"timeout" default:"3s"`
		RetryCount   int           `yaml:"retry_count"`
	} `yaml:"predictor"`
	Forecast struct {
		Horizon        int     `yaml:"horizon" default:"5"`
		NoiseAmplitude float64 `yaml:"noise_amplitude" default:"5"`
		Seed           uint64  `yaml:"seed"`
	} `yaml:"forecast"`
	History struct {
		Source string `yaml:"source" default:"csv"`
		Path   string `yaml:"path" default:"data/Price_Agriculture_commodities_Week.csv"`
		Sheet  string `yaml:"sheet"`
		Table  string `yaml:"table" default:"commodity_prices"`
	} `yaml:"history"`
	ClickHouse struct {
		Host             string        `yaml:"host" default:"localhost"`
		Port             int           `yaml:"port" default:"9000"`
		Database         string        `yaml:"database" default:"agricast"`
		User             string        `yaml:"user" default:"default"`
		Password         string        `yaml:"password"`
		UseHTTP          bool          `yaml:"use_http"`
		DialTimeout      time.Duration `yaml:"dial_timeout" default:"5s"`
		ReadTimeout      time.Duration `yaml:"read_timeout" default:"30s"`
		MaxExecutionTime time.Duration `yaml:"max_execution_time"`
	} `yaml:"clickhouse"`
	Postgres struct {
		DSN      string `yaml:"dsn"`
		MaxConns int32  `yaml:"max_conns" default:"4"`
	} `yaml:"postgres"`
	Cache struct {
		Backend string        `yaml:"backend" default:"none"`
		TTL     time.Duration `yaml:"ttl" default:"10m"`
		Size    int           `yaml:"size" default:"1024"`
		Redis   struct {
			Addr     string `yaml:"addr" default:"localhost:6379"`
			Password string `yaml:"password"`
			DB       int    `yaml:"db"`
		} `yaml:"redis"`
	} `yaml:"cache"`
	Kafka struct {
		Brokers      []string      `yaml:"brokers"`
		RequiredAcks int           `yaml:"required_acks" default:"1"`
		Compression  string        `yaml:"compression" default:"gzip"`
		MaxAttempts  int           `yaml:"max_attempts" default:"3"`
		WriteTimeout time.Duration `yaml:"write_timeout" default:"10s"`
		BatchTimeout time.Duration `yaml:"batch_timeout" default:"1s"`
	} `yaml:"kafka"`
}

// Default returns a Config populated only from struct defaults.
func Default() (*Config, error) {
	var c Config
	if err := defaults.Set(&c); err != nil {
		return nil, fmt.Errorf("apply defaults: %w", err)
	}
	return &c, nil
}

// Parse applies defaults, then the YAML document on top, then validates.
func Parse(b []byte) (*Config, error) {
	c, err := Default()
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(b, c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return c, nil
}

// Load reads and parses a YAML configuration file.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return Parse(b)
}

// LoadWithEnv loads config from YAML and overrides with environment variables.
func LoadWithEnv(path string) (*Config, error) {
	c, err := Load(path)
	if err != nil {
		return nil, err
	}
	if err := c.applyEnv(os.Getenv); err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return c, nil
}

func (c *Config) applyEnv(getenv func(string) string) error {
	if v := getenv("PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("PORT: %w", err)
		}
		c.Server.Port = port
	}
	if v := getenv("PREDICTOR_URL"); v != "" {
		c.Predictor.ServiceURL = v
	}
	if v := getenv("HISTORY_SOURCE"); v != "" {
		c.History.Source = v
	}
	if v := getenv("HISTORY_PATH"); v != "" {
		c.History.Path = v
	}
	if v := getenv("POSTGRES_DSN"); v != "" {
		c.Postgres.DSN = v
	}
	if v := getenv("REDIS_ADDR"); v != "" {
		c.Cache.Redis.Addr = v
	}
	if v := getenv("KAFKA_BROKERS"); v != "" {
		c.Kafka.Brokers = strings.Split(v, ",")
	}
	if v := getenv("LOG_LEVEL"); v != "" {
		c.Logger.Level = v
	}
	return nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Environment == "" {
		return fmt.Errorf("environment is required")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port out of range: %d", c.Server.Port)
	}
	if _, err := c.TrustedProxyRanges(); err != nil {
		return err
	}
	if c.Predictor.ServiceURL == "" {
		return fmt.Errorf("predictor.service_url is required")
	}
	if c.Forecast.Horizon <= 0 {
		return fmt.Errorf("forecast.horizon must be positive, got %d", c.Forecast.Horizon)
	}
	if c.Forecast.NoiseAmplitude < 0 {
		return fmt.Errorf("forecast.noise_amplitude must not be negative")
	}
	switch c.History.Source {
	case SourceCSV, SourceXLSX:
		if c.History.Path == "" {
			return fmt.Errorf("history.path is required for source '%s'", c.History.Source)
		}
	case SourceClickHouse:
		if c.History.Table == "" {
			return fmt.Errorf("history.table is required for source 'clickhouse'")
		}
	case SourcePostgres:
		if c.Postgres.DSN == "" {
			return fmt.Errorf("postgres.dsn is required for source 'postgres'")
		}
	default:
		return fmt.Errorf("history.source must be one of csv, xlsx, clickhouse, postgres, got '%s'", c.History.Source)
	}
	switch c.Cache.Backend {
	case CacheNone, CacheMemory, CacheRedis, CacheLayered:
	default:
		return fmt.Errorf("cache.backend must be one of none, memory, redis, layered, got '%s'", c.Cache.Backend)
	}
	if c.Logger.Collector.Enabled && len(c.Kafka.Brokers) == 0 {
		return fmt.Errorf("logger.collector requires kafka.brokers")
	}
	return nil
}

// TrustedProxyRanges parses server.trusted_proxies. Bare addresses are
// treated as single-host ranges.
func (c *Config) TrustedProxyRanges() ([]*net.IPNet, error) {
	out := make([]*net.IPNet, 0, len(c.Server.TrustedProxies))
	for _, p := range c.Server.TrustedProxies {
		p = strings.TrimSpace(p)
		if !strings.Contains(p, "/") {
			ip := net.ParseIP(p)
			if ip == nil {
				return nil, fmt.Errorf("server.trusted_proxies: invalid address %q", p)
			}
			bits := 128
			if ip.To4() != nil {
				ip, bits = ip.To4(), 32
			}
			out = append(out, &net.IPNet{IP: ip, Mask: net.CIDRMask(bits, bits)})
			continue
		}
		_, n, err := net.ParseCIDR(p)
		if err != nil {
			return nil, fmt.Errorf("server.trusted_proxies: %w", err)
		}
		out = append(out, n)
	}
	return out, nil
}

// Addr returns the listen address for the HTTP server.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Server.Port)
}
