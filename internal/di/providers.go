package di

import (
	"context"
	"fmt"
	"time"

	domrepo "AgriCast/internal/domain/repository"
	domsvc "AgriCast/internal/domain/service"
	"AgriCast/internal/handler/api"
	internalrepo "AgriCast/internal/repository"
	icache "AgriCast/internal/service/cache"
	"AgriCast/internal/service/ratelimit"
	"AgriCast/internal/services/noise"
	"AgriCast/internal/services/predictor"
	"AgriCast/internal/services/validation"
	"AgriCast/internal/usecase"
	pkgch "AgriCast/pkg/clickhouse"
	"AgriCast/pkg/config"
	xhttp "AgriCast/pkg/http"
	pkgkafka "AgriCast/pkg/kafka"
	applogger "AgriCast/pkg/logger"
	"AgriCast/pkg/metrics"
	"AgriCast/pkg/server"

	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	serviceName        = "agricast"
	historyLoadTimeout = 2 * time.Minute
)

// ProvideKafkaProducer creates the producer behind the error-log collector.
// Returns nil when the collector is disabled.
func ProvideKafkaProducer(cfg *config.Config) (*pkgkafka.Producer, error) {
	if !cfg.Logger.Collector.Enabled {
		return nil, nil
	}
	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithCompression(cfg.Kafka.Compression),
		pkgkafka.WithRequiredAcks(cfg.Kafka.RequiredAcks),
		pkgkafka.WithMaxAttempts(cfg.Kafka.MaxAttempts),
		pkgkafka.WithWriteTimeout(cfg.Kafka.WriteTimeout),
		pkgkafka.WithBatchTimeout(cfg.Kafka.BatchTimeout),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}
	return producer, nil
}

// ProvideLogger builds the application logger and, when a producer is
// available, attaches the error collector.
func ProvideLogger(cfg *config.Config, producer *pkgkafka.Producer) (*applogger.Logger, error) {
	l, err := applogger.New(&applogger.Config{
		Level:      cfg.Logger.Level,
		Format:     cfg.Logger.Format,
		Output:     cfg.Logger.Output,
		MaxSizeMB:  cfg.Logger.MaxSizeMB,
		MaxBackups: cfg.Logger.MaxBackups,
		MaxAgeDays: cfg.Logger.MaxAgeDays,
		Compress:   cfg.Logger.Compress,
	})
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	if producer != nil {
		l.AddCollector(&applogger.CollectionConfig{
			TimeInterval:   cfg.Logger.Collector.Interval,
			CountThreshold: cfg.Logger.Collector.Threshold,
			Topic:          cfg.Logger.Collector.Topic,
			Publisher:      internalrepo.NewKafkaLogPublisher(producer, serviceName),
		})
	}
	l.Info("logger ready",
		applogger.String("env", cfg.Environment),
		applogger.Bool("error_collector", producer != nil),
	)
	return l, nil
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() domrepo.Metrics {
	return metrics.New(nil)
}

// ProvideClickHouseClient connects only when history is read from ClickHouse.
func ProvideClickHouseClient(cfg *config.Config) (*pkgch.Client, error) {
	if cfg.History.Source != config.SourceClickHouse {
		return nil, nil
	}
	client, err := pkgch.NewClient(context.Background(),
		pkgch.WithHost(cfg.ClickHouse.Host),
		pkgch.WithPort(cfg.ClickHouse.Port),
		pkgch.WithDatabase(cfg.ClickHouse.Database),
		pkgch.WithCredentials(cfg.ClickHouse.User, cfg.ClickHouse.Password),
		pkgch.WithHTTP(cfg.ClickHouse.UseHTTP),
		pkgch.WithTimeouts(cfg.ClickHouse.DialTimeout, cfg.ClickHouse.ReadTimeout),
		pkgch.WithMaxExecutionTime(cfg.ClickHouse.MaxExecutionTime),
	)
	if err != nil {
		return nil, fmt.Errorf("clickhouse client: %w", err)
	}
	return client, nil
}

// ProvidePostgresPool connects only when history is read from PostgreSQL.
func ProvidePostgresPool(cfg *config.Config) (*pgxpool.Pool, error) {
	if cfg.History.Source != config.SourcePostgres {
		return nil, nil
	}
	pcfg, err := pgxpool.ParseConfig(cfg.Postgres.DSN)
	if err != nil {
		return nil, fmt.Errorf("postgres dsn: %w", err)
	}
	if cfg.Postgres.MaxConns > 0 {
		pcfg.MaxConns = cfg.Postgres.MaxConns
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	pool, err := pgxpool.NewWithConfig(ctx, pcfg)
	if err != nil {
		return nil, fmt.Errorf("postgres pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres ping: %w", err)
	}
	return pool, nil
}

// ProvideHistoryLoader selects the loader for history.source.
func ProvideHistoryLoader(cfg *config.Config, ch *pkgch.Client, pg *pgxpool.Pool) (domrepo.HistoryLoader, error) {
	switch cfg.History.Source {
	case config.SourceCSV:
		return internalrepo.NewCSVHistoryLoader(cfg.History.Path), nil
	case config.SourceXLSX:
		return internalrepo.NewXLSXHistoryLoader(cfg.History.Path, cfg.History.Sheet), nil
	case config.SourceClickHouse:
		return internalrepo.NewCHHistoryLoader(ch, cfg.History.Table), nil
	case config.SourcePostgres:
		return internalrepo.NewPGHistoryLoader(pg, cfg.History.Table), nil
	default:
		return nil, fmt.Errorf("unknown history source %q", cfg.History.Source)
	}
}

// ProvideHistory loads the historical table once at startup.
func ProvideHistory(loader domrepo.HistoryLoader, l *applogger.Logger) (*internalrepo.HistorySnapshot, error) {
	ctx, cancel := context.WithTimeout(context.Background(), historyLoadTimeout)
	defer cancel()
	return internalrepo.LoadHistory(ctx, loader, l)
}

// ProvidePredictor creates the model-server client.
func ProvidePredictor(cfg *config.Config, l *applogger.Logger) *predictor.HTTPPredictor {
	p := predictor.NewHTTPPredictor(cfg)
	p.SetLogger(l)
	return p
}

// ProvideNoise creates the forecast perturbation source.
func ProvideNoise(cfg *config.Config) domsvc.NoiseSource {
	return noise.NewUniform(cfg.Forecast.NoiseAmplitude, cfg.Forecast.Seed)
}

// ProvideValidator creates the request validator.
func ProvideValidator() *validation.Validator {
	return validation.New()
}

// ProvideForecastEngine creates the forecasting use case.
func ProvideForecastEngine(
	history *internalrepo.HistorySnapshot,
	p *predictor.HTTPPredictor,
	n domsvc.NoiseSource,
	v *validation.Validator,
	m domrepo.Metrics,
	l *applogger.Logger,
	cfg *config.Config,
) *usecase.ForecastEngine {
	return usecase.NewForecastEngine(history, p, n, v, m, l, cfg.Forecast.Horizon)
}

// ProvideRedisCache connects only when cache.backend uses Redis.
func ProvideRedisCache(cfg *config.Config) (*icache.RedisCache, error) {
	if cfg.Cache.Backend != config.CacheRedis && cfg.Cache.Backend != config.CacheLayered {
		return nil, nil
	}
	rc := icache.NewRedisCache(icache.RedisConfig{
		Addr:     cfg.Cache.Redis.Addr,
		Password: cfg.Cache.Redis.Password,
		DB:       cfg.Cache.Redis.DB,
		Prefix:   serviceName + ":",
	})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rc.Ping(ctx); err != nil {
		_ = rc.Close()
		return nil, fmt.Errorf("redis cache: %w", err)
	}
	return rc, nil
}

// ProvideForecastHandler creates the HTTP handler and attaches the
// configured /predict cache.
func ProvideForecastHandler(
	l *applogger.Logger,
	engine *usecase.ForecastEngine,
	history *internalrepo.HistorySnapshot,
	p *predictor.HTTPPredictor,
	rc *icache.RedisCache,
	cfg *config.Config,
) *api.ForecastEchoHandler {
	h := api.NewForecastEchoHandler(l, engine, api.HealthInfo{
		HistoryRows:  history.Len(),
		ModelVersion: p.ModelVersion(),
		Horizon:      engine.Horizon(),
	})
	switch cfg.Cache.Backend {
	case config.CacheMemory:
		h.SetCache(icache.NewInstrumented(icache.NewMemoryCache(cfg.Cache.Size, cfg.Cache.TTL), config.CacheMemory), cfg.Cache.TTL)
	case config.CacheRedis:
		h.SetCache(icache.NewInstrumented(rc, config.CacheRedis), cfg.Cache.TTL)
	case config.CacheLayered:
		mem := icache.NewMemoryCache(cfg.Cache.Size, cfg.Cache.TTL)
		h.SetCache(icache.NewInstrumented(icache.NewLayeredCache(mem, rc), config.CacheLayered), cfg.Cache.TTL)
	}
	return h
}

// ProvideHTTPServer creates the echo server with the configured middleware.
func ProvideHTTPServer(h *api.ForecastEchoHandler, l *applogger.Logger, cfg *config.Config) (*xhttp.Server, error) {
	proxies, err := cfg.TrustedProxyRanges()
	if err != nil {
		return nil, err
	}
	opts := []xhttp.ServerOption{
		xhttp.WithPort(cfg.Server.Port),
		xhttp.WithTimeouts(cfg.Server.ReadTimeout, cfg.Server.WriteTimeout, cfg.Server.ShutdownTimeout),
		xhttp.WithCORS(cfg.CORS.AllowOrigins),
		xhttp.WithTrustedProxies(proxies),
	}
	if cfg.RateLimit.Enabled {
		opts = append(opts, xhttp.WithRateLimit(ratelimit.New(cfg.RateLimit.Capacity, cfg.RateLimit.Refill)))
	}
	if cfg.Metrics.Enabled {
		opts = append(opts, xhttp.WithMetrics(cfg.Metrics.Path))
	}
	return xhttp.NewServer(h, l, opts...), nil
}

// ProvideClosers collects the resources the app must release on shutdown.
func ProvideClosers(ch *pkgch.Client, pg *pgxpool.Pool, rc *icache.RedisCache, producer *pkgkafka.Producer) server.Closers {
	var cs server.Closers
	if ch != nil {
		cs = append(cs, server.Closer{Name: "clickhouse", Closer: ch})
	}
	if pg != nil {
		cs = append(cs, server.Closer{Name: "postgres", Closer: poolCloser{pg}})
	}
	if rc != nil {
		cs = append(cs, server.Closer{Name: "redis", Closer: rc})
	}
	if producer != nil {
		cs = append(cs, server.Closer{Name: "kafka", Closer: producer})
	}
	return cs
}

// ProvideApp assembles the application.
func ProvideApp(l *applogger.Logger, srv *xhttp.Server, closers server.Closers, cfg *config.Config) *server.App {
	return server.New(l, srv, closers, cfg.Server.ShutdownTimeout)
}

type poolCloser struct{ pool *pgxpool.Pool }

func (p poolCloser) Close() error {
	p.pool.Close()
	return nil
}
