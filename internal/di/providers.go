package di

import (
	"context"
	"fmt"
	"time"

	"TradeCore/internal/domain/repository"
	"TradeCore/internal/domain/service"
	"TradeCore/internal/gates"
	"TradeCore/internal/handler/api"
	internalrepo "TradeCore/internal/repository"
	"TradeCore/internal/risk"
	"TradeCore/internal/safety"
	"TradeCore/internal/services/producers"
	"TradeCore/internal/workflow"
	"TradeCore/pkg/cache"
	pkgch "TradeCore/pkg/clickhouse"
	"TradeCore/pkg/config"
	xhttp "TradeCore/pkg/http"
	pkgkafka "TradeCore/pkg/kafka"
	"TradeCore/pkg/logger"
	"TradeCore/pkg/metrics"
	"TradeCore/pkg/server"
)

// ProvideLogger creates the application logger.
func ProvideLogger(cfg *config.Config) (*logger.Logger, error) {
	return logger.New(&logger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	})
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() repository.Metrics {
	return metrics.New()
}

// ProvideStore creates the shared durable store. Redis when configured,
// otherwise an in-process store: sufficient for single-node runs, but the
// kill switch and watchdog then do not survive restarts.
func ProvideStore(cfg *config.Config, log *logger.Logger) (cache.Store, error) {
	if !cfg.Redis.Enabled {
		log.Warn("redis disabled, using in-memory store: halt state will not survive restarts")
		return cache.NewMemoryStore(), nil
	}
	store, err := cache.NewRedisStore(
		cache.WithRedisHost(cfg.Redis.Host),
		cache.WithRedisPort(cfg.Redis.Port),
		cache.WithRedisPassword(cfg.Redis.Password),
		cache.WithRedisDB(cfg.Redis.DB),
		cache.WithRedisPrefix(cfg.Redis.Prefix),
	)
	if err != nil {
		return nil, fmt.Errorf("redis store: %w", err)
	}
	return store, nil
}

// ProvideBroker returns the broker adapter. Connectivity lives outside this
// repository; the disconnected adapter keeps the core honest about it.
func ProvideBroker() service.Broker {
	return producers.NoopBroker{}
}

// ProvideProducers assembles the signal producers: HTTP-backed when a model
// service is configured, otherwise no-ops that drive the neutral defaults.
func ProvideProducers(cfg *config.Config, broker service.Broker) workflow.Producers {
	p := workflow.Producers{
		Predictor: producers.NoopPredictor{},
		Temporal:  producers.NoopTemporalPredictor{},
		Timing:    producers.NoopTimingPolicy{},
		Regimes:   producers.NoopRegimeClassifier{},
		Causality: producers.NoopCausalityDetector{},
		Tracker:   producers.NoopLeadershipTracker{},
		Chains:    producers.NewChainAnalyzer(),
		News:      producers.NoopNewsFetcher{},
		Sentiment: producers.NoopSentimentAnalyzer{},
		Broker:    broker,
	}

	if url := cfg.ModelService.URL; url != "" {
		timeout := cfg.ModelService.Timeout
		p.Predictor = producers.NewHTTPPredictor(url, timeout)
		p.Temporal = producers.NewHTTPTemporalPredictor(url, timeout)
		p.Timing = producers.NewHTTPTimingPolicy(url, timeout)
		p.Regimes = producers.NewHTTPRegimeClassifier(url, timeout)
		p.Causality = producers.NewHTTPCausalityDetector(url, timeout)
		p.Tracker = producers.NewHTTPLeadershipTracker(url, timeout)
		p.News = producers.NewHTTPNewsFetcher(url, timeout)
		p.Sentiment = producers.NewHTTPSentimentAnalyzer(url, timeout)
	}
	return p
}

// ProvideKillSwitch creates the durable kill switch.
func ProvideKillSwitch(store cache.Store, broker service.Broker, log *logger.Logger) *safety.KillSwitch {
	return safety.NewKillSwitch(store, broker, log)
}

// ProvideHalt exposes the kill switch as the risk guard's halt check.
func ProvideHalt(ks *safety.KillSwitch) risk.Halt {
	return ks
}

// ProvideGuard creates the account risk guard.
func ProvideGuard(cfg *config.Config, halt risk.Halt, log *logger.Logger, m repository.Metrics) *risk.Guard {
	return risk.NewGuard(cfg.Risk.DailyLossLimit, cfg.Risk.MaxPositionSize, halt, log, m)
}

// ProvideWatchdog creates the per-principal dead-man switch.
func ProvideWatchdog(cfg *config.Config, store cache.Store, log *logger.Logger, m repository.Metrics) *safety.Watchdog {
	return safety.NewWatchdog(store, log, m,
		cfg.Watchdog.PollInterval,
		cfg.Watchdog.HeartbeatTimeout,
		cfg.Watchdog.HeartbeatTTL,
	)
}

// ProvideMetaLabelGate creates the probability-of-success vetting gate.
func ProvideMetaLabelGate(cfg *config.Config, log *logger.Logger) *gates.MetaLabelGate {
	return gates.NewMetaLabelGate(cfg.Decision.MetaLabelThreshold, log)
}

// ProvideJournal creates the decision audit journal. ClickHouse when enabled,
// otherwise a discard journal.
func ProvideJournal(cfg *config.Config, log *logger.Logger) (repository.DecisionJournal, error) {
	if !cfg.ClickHouse.Enabled {
		return internalrepo.NopJournal{}, nil
	}

	client, err := pkgch.NewClient(
		pkgch.WithHost(cfg.ClickHouse.Host),
		pkgch.WithPort(cfg.ClickHouse.Port),
		pkgch.WithDatabase(cfg.ClickHouse.Database),
		pkgch.WithCredentials(cfg.ClickHouse.User, cfg.ClickHouse.Password),
		pkgch.WithTimeouts(cfg.ClickHouse.DialTimeout, cfg.ClickHouse.ReadTimeout, cfg.ClickHouse.WriteTimeout),
	)
	if err != nil {
		return nil, fmt.Errorf("clickhouse client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	journal, err := internalrepo.NewClickHouseJournal(ctx, client, cfg.ClickHouse.Table, log)
	if err != nil {
		_ = client.Close()
		return nil, err
	}
	return journal, nil
}

// ProvidePublisher creates the decision publisher. Kafka when enabled,
// otherwise a discard publisher.
func ProvidePublisher(cfg *config.Config, log *logger.Logger) (repository.DecisionPublisher, error) {
	if !cfg.Kafka.Enabled {
		return internalrepo.NopPublisher{}, nil
	}

	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}
	return internalrepo.NewKafkaPublisher(producer, cfg.Kafka.DecisionTopic, cfg.Kafka.ExitTopic, log), nil
}

// ProvideEngine creates the decision workflow engine.
func ProvideEngine(
	p workflow.Producers,
	guard *risk.Guard,
	meta *gates.MetaLabelGate,
	journal repository.DecisionJournal,
	publisher repository.DecisionPublisher,
	m repository.Metrics,
	log *logger.Logger,
) (*workflow.Engine, error) {
	return workflow.NewEngine(p, guard, meta, journal, publisher, m, log)
}

// ProvideHandler creates the operational HTTP handler.
func ProvideHandler(
	cfg *config.Config,
	log *logger.Logger,
	engine *workflow.Engine,
	guard *risk.Guard,
	ks *safety.KillSwitch,
	wd *safety.Watchdog,
	store cache.Store,
) xhttp.Handler {
	health := func(ctx context.Context) map[string]string {
		deps := map[string]string{"store": "ok"}
		if _, err := store.Exists(ctx, "health:probe"); err != nil {
			deps["store"] = err.Error()
		}
		return deps
	}
	return api.NewControlsHandler(log, engine, guard, ks, wd, health, cfg.Decision.Aggressive)
}

// ProvideApp creates the application.
func ProvideApp(
	cfg *config.Config,
	log *logger.Logger,
	handler xhttp.Handler,
	wd *safety.Watchdog,
	store cache.Store,
	journal repository.DecisionJournal,
	publisher repository.DecisionPublisher,
) *server.App {
	return server.New(cfg, log, handler, wd, store, journal, publisher)
}
