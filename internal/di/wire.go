//go:build wireinject
// +build wireinject

package di

import (
	"SalesPulse/pkg/config"
	"SalesPulse/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		// Ambient
		ProvideLogger,
		ProvideMetrics,

		// Core services
		ProvideEngine,
		ProvideExporter,
		ProvideSeriesParams,

		// Infrastructure clients
		ProvideClickHouseClient,
		ProvideKafkaProducer,

		// Repositories and collaborators
		ProvideDatasetStore,
		ProvideInsightPublisher,
		ProvideCache,
		ProvideReporter,
		ProvideRateLimiter,

		// Use case and HTTP surface
		ProvideInsightUseCase,
		ProvideHandler,

		// Application server
		ProvideApp,
	)
	return &server.App{}, nil
}
