//go:build wireinject
// +build wireinject

package di

import (
	"LedgerSeek/pkg/config"
	"LedgerSeek/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		ProvideLogger,
		ProvideMetrics,

		// Oracle transport
		ProvideOracle,
		ProvideOracleCloser,

		// Reporting sink
		ProvideKafkaProducer,
		ProvideReporter,

		// Search use case
		ProvideLocator,

		// Lookup history
		ProvideClickHouseClient,
		ProvideHistoryStore,

		// Application
		ProvideApp,
	)
	return &server.App{}, nil
}
