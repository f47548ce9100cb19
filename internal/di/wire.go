//go:build wireinject
// +build wireinject

package di

import (
	"AgriCast/pkg/config"
	"AgriCast/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		// Observability
		ProvideKafkaProducer,
		ProvideLogger,
		ProvideMetrics,

		// Infrastructure clients
		ProvideClickHouseClient,
		ProvidePostgresPool,
		ProvideRedisCache,

		// Repositories
		ProvideHistoryLoader,
		ProvideHistory,

		// Services and use cases
		ProvidePredictor,
		ProvideNoise,
		ProvideValidator,
		ProvideForecastEngine,

		// Transport
		ProvideForecastHandler,
		ProvideHTTPServer,

		// Application
		ProvideClosers,
		ProvideApp,
	)
	return &server.App{}, nil
}
