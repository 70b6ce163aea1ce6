//go:build wireinject
// +build wireinject

package di

import (
	"TradeCore/pkg/config"
	"TradeCore/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		// Observability
		ProvideLogger,
		ProvideMetrics,

		// Shared store and external adapters
		ProvideStore,
		ProvideBroker,
		ProvideProducers,

		// Safety and risk
		ProvideKillSwitch,
		ProvideHalt,
		ProvideGuard,
		ProvideWatchdog,
		ProvideMetaLabelGate,

		// Persistence and delivery
		ProvideJournal,
		ProvidePublisher,

		// Decision engine and HTTP surface
		ProvideEngine,
		ProvideHandler,

		// Application server
		ProvideApp,
	)
	return &server.App{}, nil
}
