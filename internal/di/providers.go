package di

import (
	"context"
	"fmt"
	"time"

	"SalesPulse/internal/domain/repository"
	"SalesPulse/internal/handler/api"
	internalrepo "SalesPulse/internal/repository"
	"SalesPulse/internal/service/ratelimit"
	"SalesPulse/internal/services/analytics"
	"SalesPulse/internal/services/generator"
	"SalesPulse/internal/services/insights"
	"SalesPulse/internal/usecase"
	"SalesPulse/pkg/cache"
	pkgch "SalesPulse/pkg/clickhouse"
	"SalesPulse/pkg/config"
	pkgkafka "SalesPulse/pkg/kafka"
	applogger "SalesPulse/pkg/logger"
	"SalesPulse/pkg/metrics"
	"SalesPulse/pkg/server"
)

// ProvideLogger creates the application logger.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	format := "json"
	if cfg.Environment == "development" {
		format = "console"
	}
	l, err := applogger.New(&applogger.Config{Level: "info", Format: format, Output: "stdout"})
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	return l, nil
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() repository.Metrics {
	return metrics.New()
}

// ProvideEngine creates the analytics engine.
func ProvideEngine() *analytics.Engine {
	return analytics.NewEngine()
}

// ProvideExporter creates the insight exporter.
func ProvideExporter(engine *analytics.Engine) *insights.Exporter {
	return insights.NewExporter(engine)
}

// ProvideSeriesParams maps configured series onto generator parameters.
func ProvideSeriesParams(cfg *config.Config) []generator.SeriesParams {
	out := make([]generator.SeriesParams, 0, len(cfg.Generator.Series))
	for _, s := range cfg.Generator.Series {
		out = append(out, generator.SeriesParams{
			Name:              s.Name,
			Base:              s.Base,
			Trend:             s.Trend,
			SeasonalAmplitude: s.Seasonality,
			Volatility:        s.Volatility,
		})
	}
	return out
}

// ProvideClickHouseClient creates a ClickHouse client, or nil when no host is
// configured (in-memory only mode).
func ProvideClickHouseClient(cfg *config.Config) (*pkgch.Client, error) {
	if cfg.ClickHouse.Host == "" {
		return nil, nil
	}
	client, err := pkgch.NewClient(
		pkgch.WithHost(cfg.ClickHouse.Host),
		pkgch.WithPort(cfg.ClickHouse.Port),
		pkgch.WithDatabase(cfg.ClickHouse.Database),
		pkgch.WithCredentials(cfg.ClickHouse.User, cfg.ClickHouse.Password),
		pkgch.WithMaxConnections(10, 5),
		pkgch.WithHTTP(cfg.ClickHouse.UseHTTP),
		pkgch.WithAsyncInsert(cfg.ClickHouse.AsyncInsert, cfg.ClickHouse.WaitForAsync),
		pkgch.WithTimeouts(cfg.ClickHouse.DialTimeout, cfg.ClickHouse.ReadTimeout, cfg.ClickHouse.WriteTimeout),
	)
	if err != nil {
		return nil, fmt.Errorf("clickhouse client: %w", err)
	}
	return client, nil
}

// ProvideDatasetStore creates the ClickHouse-backed dataset store.
func ProvideDatasetStore(chClient *pkgch.Client, l *applogger.Logger) (repository.DatasetStore, error) {
	if chClient == nil {
		return nil, nil
	}
	store := internalrepo.NewCHSalesStore(chClient, "sales_monthly")
	store.SetLogger(l)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := store.Init(ctx); err != nil {
		return nil, err
	}
	return store, nil
}

// ProvideKafkaProducer creates a Kafka producer, or nil when no brokers are
// configured.
func ProvideKafkaProducer(cfg *config.Config) (*pkgkafka.Producer, error) {
	if len(cfg.Kafka.Brokers) == 0 {
		return nil, nil
	}
	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithCompression(cfg.Kafka.Compression),
		pkgkafka.WithRequiredAcks(cfg.Kafka.RequiredAcks),
		pkgkafka.WithBatchSize(cfg.Kafka.Producer.BatchSize),
		pkgkafka.WithBatchBytes(cfg.Kafka.Producer.BatchBytes),
		pkgkafka.WithBatchTimeout(cfg.Kafka.Producer.Linger),
		pkgkafka.WithTimeouts(cfg.Kafka.Producer.WriteTimeout, cfg.Kafka.Producer.ReadTimeout),
		pkgkafka.WithMaxAttempts(cfg.Kafka.Producer.MaxAttempts),
		pkgkafka.WithAsync(cfg.Kafka.Producer.Async),
		pkgkafka.WithHashByKey(true),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}
	return producer, nil
}

// ProvideInsightPublisher creates the Kafka insight publisher and, when a log
// topic is configured, attaches the aggregated log collector to the logger.
func ProvideInsightPublisher(producer *pkgkafka.Producer, cfg *config.Config, l *applogger.Logger) repository.InsightPublisher {
	if producer == nil {
		return nil
	}
	pub := internalrepo.NewKafkaInsightPublisher(producer, cfg.Kafka.InsightTopic)

	if cfg.Kafka.LogTopic != "" {
		if sink, ok := pub.(applogger.Publisher); ok {
			l.AddCollector(&applogger.CollectionConfig{
				TimeInterval:   30 * time.Second,
				CountThreshold: 100,
				Topic:          cfg.Kafka.LogTopic,
				Publisher:      sink,
			})
		}
	}
	return pub
}

// ProvideCache creates the insight cache: layered on Redis when enabled,
// in-memory otherwise.
func ProvideCache(cfg *config.Config, l *applogger.Logger) cache.Service {
	if !cfg.Redis.Enabled {
		return cache.NewMemoryCache()
	}

	redisCache, err := cache.NewRedisCache(
		cache.WithRedisHost(cfg.Redis.Host),
		cache.WithRedisPort(cfg.Redis.Port),
		cache.WithRedisPassword(cfg.Redis.Password),
		cache.WithRedisDB(cfg.Redis.DB),
	)
	if err != nil {
		l.Warn("redis unavailable, falling back to memory cache", applogger.Error(err))
		return cache.NewMemoryCache()
	}
	return cache.NewLayeredCache(redisCache)
}

// ProvideReporter creates the outbound insight reporter, or nil when no
// reporting service is configured.
func ProvideReporter(cfg *config.Config) *insights.HTTPReporter {
	if cfg.Reporting.ServiceURL == "" {
		return nil
	}
	return insights.NewHTTPReporter(cfg.Reporting.ServiceURL, cfg.Reporting.Timeout)
}

// ProvideRateLimiter creates the per-client token bucket limiter.
func ProvideRateLimiter() *ratelimit.Limiter {
	return ratelimit.New()
}

// ProvideInsightUseCase wires the orchestrator with its optional collaborators.
func ProvideInsightUseCase(
	cfg *config.Config,
	series []generator.SeriesParams,
	engine *analytics.Engine,
	exporter *insights.Exporter,
	store repository.DatasetStore,
	cacheSvc cache.Service,
	publisher repository.InsightPublisher,
	reporter *insights.HTTPReporter,
	m repository.Metrics,
	l *applogger.Logger,
) *usecase.InsightUseCase {
	opts := []usecase.InsightUseCaseOption{
		usecase.WithMetrics(m),
		usecase.WithLogger(l),
		usecase.WithCache(cacheSvc, cfg.Analytics.CacheTTL),
		usecase.WithZThreshold(cfg.Analytics.ZThreshold),
	}
	if store != nil {
		opts = append(opts, usecase.WithStore(store))
	}
	if publisher != nil {
		opts = append(opts, usecase.WithPublisher(publisher))
	}
	if reporter != nil {
		opts = append(opts, usecase.WithReporter(reporter))
	}
	return usecase.NewInsightUseCase(series, engine, exporter, opts...)
}

// ProvideHandler creates the Echo insight handler.
func ProvideHandler(l *applogger.Logger, uc *usecase.InsightUseCase, limiter *ratelimit.Limiter) *api.InsightsEchoHandler {
	return api.NewInsightsEchoHandler(l, uc, limiter)
}

// ProvideApp creates the application server.
func ProvideApp(
	cfg *config.Config,
	l *applogger.Logger,
	handler *api.InsightsEchoHandler,
	uc *usecase.InsightUseCase,
	chClient *pkgch.Client,
	producer *pkgkafka.Producer,
) *server.App {
	return server.New(cfg, l, handler, uc, chClient, producer)
}
