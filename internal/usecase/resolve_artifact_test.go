package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/deploytx/internal/domain"
	"github.com/trebuchet-org/deploytx/internal/domain/models"
)

func ambiguousTokenError() error {
	return &domain.ArtifactError{
		Contract: "Token",
		Err: &domain.AmbiguousArtifactError{
			Contract: "Token",
			Matches: []domain.ArtifactRef{
				{Name: "Token", SourceName: "contracts/Token.sol"},
				{Name: "Token", SourceName: "src/Token.sol"},
			},
		},
	}
}

func TestResolveArtifact(t *testing.T) {
	ctx := context.Background()

	t.Run("empty reference", func(t *testing.T) {
		h := newHarness(t)
		_, err := h.resolver.Resolve(ctx, "  ")
		assert.ErrorIs(t, err, domain.ErrArtifactNotFound)
	})

	t.Run("ambiguous in non-interactive mode", func(t *testing.T) {
		h := newHarness(t)
		h.repo.On("GetArtifact", mock.Anything, "Token").Return(nil, ambiguousTokenError())

		_, err := h.resolver.Resolve(ctx, "Token")
		var ambiguous *domain.AmbiguousArtifactError
		require.ErrorAs(t, err, &ambiguous)
		h.selector.AssertNotCalled(t, "SelectArtifact", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("ambiguous prompts interactively", func(t *testing.T) {
		h := newHarness(t)
		h.cfg.NonInteractive = false

		hardhat := newArtifact(t, "Token", "contracts/Token.sol", tokenABI, tokenCode)
		foundry := newArtifact(t, "Token", "src/Token.sol", tokenABI, tokenCode)
		other := newArtifact(t, "TokenVault", "src/TokenVault.sol", vaultABI, "0x6080")

		h.repo.On("GetArtifact", mock.Anything, "Token").Return(nil, ambiguousTokenError())
		h.repo.On("SearchArtifacts", mock.Anything, "Token").Return([]*models.Artifact{hardhat, foundry, other})
		h.selector.On("SelectArtifact", mock.Anything, []*models.Artifact{hardhat, foundry}, mock.Anything).Return(foundry, nil)

		got, err := h.resolver.Resolve(ctx, "Token")
		require.NoError(t, err)
		assert.Equal(t, "src/Token.sol", got.SourceName)
		h.selector.AssertExpectations(t)
	})

	t.Run("cancelled selection", func(t *testing.T) {
		h := newHarness(t)
		h.cfg.NonInteractive = false

		hardhat := newArtifact(t, "Token", "contracts/Token.sol", tokenABI, tokenCode)
		foundry := newArtifact(t, "Token", "src/Token.sol", tokenABI, tokenCode)
		h.repo.On("GetArtifact", mock.Anything, "Token").Return(nil, ambiguousTokenError())
		h.repo.On("SearchArtifacts", mock.Anything, "Token").Return([]*models.Artifact{hardhat, foundry})
		h.selector.On("SelectArtifact", mock.Anything, mock.Anything, mock.Anything).Return(nil, errors.New("selection cancelled"))

		_, err := h.resolver.Resolve(ctx, "Token")
		var artErr *domain.ArtifactError
		require.ErrorAs(t, err, &artErr)
	})

	t.Run("compiles only once", func(t *testing.T) {
		h := newHarness(t)
		h.cfg.Compile = true
		h.compiler.On("Compile", mock.Anything).Return(nil).Once()

		require.NoError(t, h.resolver.EnsureCompiled(ctx))
		require.NoError(t, h.resolver.EnsureCompiled(ctx))
		h.compiler.AssertNumberOfCalls(t, "Compile", 1)

		require.NotEmpty(t, h.sink.events)
		assert.True(t, h.sink.events[0].Spinner)
	})
}
