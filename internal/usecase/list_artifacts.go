package usecase

import (
	"context"

	"github.com/samber/lo"
	"github.com/trebuchet-org/deploytx/internal/domain/models"
)

// ListArtifactsParams contains parameters for listing artifacts
type ListArtifactsParams struct {
	Filter string
	// Deployable hides interfaces and abstract contracts
	Deployable bool
}

// ListArtifactsResult contains the matching artifacts
type ListArtifactsResult struct {
	Artifacts []*models.Artifact
}

// ListArtifacts is a use case for listing compiled contracts
type ListArtifacts struct {
	resolver ArtifactResolver
	repo     ArtifactRepository
}

// NewListArtifacts creates a new ListArtifacts use case
func NewListArtifacts(resolver ArtifactResolver, repo ArtifactRepository) *ListArtifacts {
	return &ListArtifacts{
		resolver: resolver,
		repo:     repo,
	}
}

// Run executes the use case
func (uc *ListArtifacts) Run(ctx context.Context, params ListArtifactsParams) (*ListArtifactsResult, error) {
	if err := uc.resolver.EnsureCompiled(ctx); err != nil {
		return nil, err
	}

	var artifacts []*models.Artifact
	if params.Filter == "" {
		all, err := uc.repo.ListArtifacts(ctx)
		if err != nil {
			return nil, err
		}
		artifacts = all
	} else {
		artifacts = uc.repo.SearchArtifacts(ctx, params.Filter)
	}

	if params.Deployable {
		artifacts = lo.Filter(artifacts, func(a *models.Artifact, _ int) bool {
			return a.HasCreationCode()
		})
	}

	return &ListArtifactsResult{Artifacts: artifacts}, nil
}
