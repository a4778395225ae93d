//go:build wireinject
// +build wireinject

package app

import (
	"github.com/google/wire"
	"github.com/spf13/viper"
	"github.com/trebuchet-org/deploytx/internal/adapters"
	"github.com/trebuchet-org/deploytx/internal/config"
	"github.com/trebuchet-org/deploytx/internal/logging"
	"github.com/trebuchet-org/deploytx/internal/usecase"
)

// InitApp creates a fully wired App instance
func InitApp(v *viper.Viper, sink usecase.ProgressSink) (*App, error) {
	wire.Build(
		// Configuration
		config.Provider,
		logging.LoggingSet,

		// Adapters
		adapters.AllAdapters,

		// Use cases
		usecase.NewResolveArtifact,
		wire.Bind(new(usecase.ArtifactResolver), new(*usecase.ResolveArtifact)),
		usecase.NewBuildDeploymentTransaction,
		usecase.NewPrepareProxyTransaction,
		usecase.NewInspectTransaction,
		usecase.NewListArtifacts,

		// App
		NewApp,
	)
	return nil, nil
}
