package di

import (
	"context"
	"fmt"
	"io"
	"time"

	"LedgerSeek/internal/domain/repository"
	internalrepo "LedgerSeek/internal/repository"
	"LedgerSeek/internal/service/report"
	"LedgerSeek/internal/service/xrpl"
	"LedgerSeek/internal/usecase"
	pkgch "LedgerSeek/pkg/clickhouse"
	"LedgerSeek/pkg/config"
	pkgkafka "LedgerSeek/pkg/kafka"
	applogger "LedgerSeek/pkg/logger"
	"LedgerSeek/pkg/metrics"
	"LedgerSeek/pkg/server"
)

// ProvideLogger creates the application logger from config.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	lc := &applogger.Config{
		Level:  cfg.Logger.Level,
		Format: cfg.Logger.Format,
		Output: cfg.Logger.Output,
	}
	if lc.Level == "" {
		lc.Level = "info"
	}
	if lc.Format == "" {
		lc.Format = "console"
	}
	if lc.Output == "" {
		lc.Output = "stdout"
	}
	l, err := applogger.New(lc)
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	return l, nil
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() repository.Metrics {
	return metrics.New()
}

// ProvideOracle creates the configured TimeOracle transport.
func ProvideOracle(cfg *config.Config, m repository.Metrics) (repository.TimeOracle, error) {
	timeout := cfg.XRPL.Timeout
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	switch cfg.XRPL.Transport {
	case "ws":
		return xrpl.NewWS(cfg.XRPL.Endpoint, timeout, m), nil
	case "http":
		return xrpl.NewHTTP(cfg.XRPL.Endpoint, timeout, cfg.XRPL.UserAgent, m), nil
	default:
		return nil, fmt.Errorf("unknown xrpl transport %q", cfg.XRPL.Transport)
	}
}

// ProvideOracleCloser exposes the oracle's connection teardown when it has one.
func ProvideOracleCloser(oracle repository.TimeOracle) io.Closer {
	if c, ok := oracle.(io.Closer); ok {
		return c
	}
	return nil
}

// ProvideKafkaProducer creates a Kafka producer when report publishing is
// enabled; otherwise nil.
func ProvideKafkaProducer(cfg *config.Config) (*pkgkafka.Producer, error) {
	kc := cfg.Report.Kafka
	if !kc.Enabled {
		return nil, nil
	}
	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(kc.Brokers),
		pkgkafka.WithCompression(kc.Compression),
		pkgkafka.WithRequiredAcks(kc.RequiredAcks),
		pkgkafka.WithTimeouts(kc.WriteTimeout, kc.ReadTimeout),
		pkgkafka.WithMaxAttempts(kc.MaxAttempts),
		pkgkafka.WithAsync(kc.Async),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}
	return producer, nil
}

// ProvideReporter builds the reporting sink: console always, Kafka when
// configured.
func ProvideReporter(cfg *config.Config, l *applogger.Logger, producer *pkgkafka.Producer) repository.Reporter {
	console := report.NewConsole(l)
	if producer == nil {
		return console
	}
	return report.Multi{console, report.NewKafka(producer, cfg.Report.Kafka.Topic, l)}
}

// ProvideLocator creates the search use case.
func ProvideLocator(oracle repository.TimeOracle, reporter repository.Reporter, cfg *config.Config) *usecase.Locator {
	return usecase.NewLocator(oracle, reporter, cfg.XRPL.SeedWidth)
}

// ProvideClickHouseClient creates a ClickHouse client when lookup history is
// enabled; otherwise nil.
func ProvideClickHouseClient(cfg *config.Config) (*pkgch.Client, error) {
	hc := cfg.History
	if !hc.Enabled {
		return nil, nil
	}
	client, err := pkgch.NewClient(
		pkgch.WithHost(hc.ClickHouse.Host),
		pkgch.WithPort(hc.ClickHouse.Port),
		pkgch.WithDatabase(hc.ClickHouse.Database),
		pkgch.WithCredentials(hc.ClickHouse.User, hc.ClickHouse.Password),
		pkgch.WithMaxConnections(10, 5),
		pkgch.WithHTTP(hc.ClickHouse.UseHTTP),
		pkgch.WithTimeouts(hc.ClickHouse.DialTimeout, hc.ClickHouse.ReadTimeout, hc.ClickHouse.WriteTimeout),
		pkgch.WithMaxExecutionTime(hc.ClickHouse.MaxExecutionTime),
	)
	if err != nil {
		return nil, fmt.Errorf("clickhouse client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	table := hc.ClickHouse.Database + ".lookups"
	if err := client.InitSchema(ctx, internalrepo.Schema(hc.ClickHouse.Database, table)); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("clickhouse schema: %w", err)
	}

	return client, nil
}

// ProvideHistoryStore creates the lookup history repository when enabled.
func ProvideHistoryStore(chClient *pkgch.Client, cfg *config.Config) repository.HistoryStore {
	if chClient == nil {
		return nil
	}
	return internalrepo.NewClickHouseHistory(chClient.DB(), cfg.History.ClickHouse.Database+".lookups")
}

// ProvideApp creates the application.
func ProvideApp(
	cfg *config.Config,
	l *applogger.Logger,
	locator *usecase.Locator,
	m repository.Metrics,
	history repository.HistoryStore,
	chClient *pkgch.Client,
	producer *pkgkafka.Producer,
	oracleCloser io.Closer,
) *server.App {
	return server.New(cfg, l, locator, m, history, chClient, producer, oracleCloser)
}
