package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/samber/lo"
	"github.com/trebuchet-org/deploytx/internal/domain"
	"github.com/trebuchet-org/deploytx/internal/domain/config"
	"github.com/trebuchet-org/deploytx/internal/domain/models"
)

// ResolveArtifact is the use case for resolving contract references to artifacts
type ResolveArtifact struct {
	config   *config.RuntimeConfig
	repo     ArtifactRepository
	compiler Compiler
	selector InteractiveSelector
	sink     ProgressSink
	compiled bool
}

// NewResolveArtifact creates a new ResolveArtifact use case
func NewResolveArtifact(
	cfg *config.RuntimeConfig,
	repo ArtifactRepository,
	compiler Compiler,
	selector InteractiveSelector,
	sink ProgressSink,
) *ResolveArtifact {
	return &ResolveArtifact{
		config:   cfg,
		repo:     repo,
		compiler: compiler,
		selector: selector,
		sink:     sink,
	}
}

// EnsureCompiled runs the project's build tools once per process when --compile is set
func (uc *ResolveArtifact) EnsureCompiled(ctx context.Context) error {
	if !uc.config.Compile || uc.compiled {
		return nil
	}

	uc.sink.OnProgress(ctx, ProgressEvent{
		Stage:   "compile",
		Message: "Compiling contracts...",
		Spinner: true,
	})

	if err := uc.compiler.Compile(ctx); err != nil {
		uc.sink.OnProgress(ctx, ProgressEvent{Stage: "compile"})
		return &domain.ArtifactError{Err: fmt.Errorf("compilation failed: %w", err)}
	}

	uc.compiled = true
	uc.sink.OnProgress(ctx, ProgressEvent{Stage: "compile", Message: "Compiled contracts"})
	return nil
}

// Resolve turns "Name" or "source:Name" into exactly one artifact.
// Ambiguous names are offered to the interactive selector unless running non-interactively.
func (uc *ResolveArtifact) Resolve(ctx context.Context, ref string) (*models.Artifact, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, &domain.ArtifactError{Err: fmt.Errorf("%w: no contract given", domain.ErrArtifactNotFound)}
	}

	if err := uc.EnsureCompiled(ctx); err != nil {
		return nil, err
	}

	artifact, err := uc.repo.GetArtifact(ctx, ref)
	if err == nil {
		return artifact, nil
	}

	var ambiguous *domain.AmbiguousArtifactError
	if !errors.As(err, &ambiguous) || uc.config.NonInteractive {
		return nil, err
	}

	candidates := lo.Filter(uc.repo.SearchArtifacts(ctx, ref), func(a *models.Artifact, _ int) bool {
		return a.Name == ref
	})
	if len(candidates) == 0 {
		return nil, err
	}

	selected, selErr := uc.selector.SelectArtifact(ctx, candidates, fmt.Sprintf("Multiple artifacts named %s, select one", ref))
	if selErr != nil {
		return nil, &domain.ArtifactError{Contract: ref, Err: selErr}
	}
	return selected, nil
}
