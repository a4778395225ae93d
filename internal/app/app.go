package app

import (
	"github.com/trebuchet-org/deploytx/internal/domain/config"
	"github.com/trebuchet-org/deploytx/internal/usecase"
)

// App is the main application container that holds all use cases
type App struct {
	// Configuration
	Config *config.RuntimeConfig

	// Use cases
	BuildDeploymentTransaction *usecase.BuildDeploymentTransaction
	PrepareProxyTransaction    *usecase.PrepareProxyTransaction
	InspectTransaction         *usecase.InspectTransaction
	ListArtifacts              *usecase.ListArtifacts
	ResolveArtifact            *usecase.ResolveArtifact
}

// NewApp creates a new application instance with all use cases
func NewApp(
	cfg *config.RuntimeConfig,
	buildDeploymentTransaction *usecase.BuildDeploymentTransaction,
	prepareProxyTransaction *usecase.PrepareProxyTransaction,
	inspectTransaction *usecase.InspectTransaction,
	listArtifacts *usecase.ListArtifacts,
	resolveArtifact *usecase.ResolveArtifact,
) (*App, error) {
	return &App{
		Config:                     cfg,
		BuildDeploymentTransaction: buildDeploymentTransaction,
		PrepareProxyTransaction:    prepareProxyTransaction,
		InspectTransaction:         inspectTransaction,
		ListArtifacts:              listArtifacts,
		ResolveArtifact:            resolveArtifact,
	}, nil
}
