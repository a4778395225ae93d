package contracts

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/deploytx/internal/domain"
	"github.com/trebuchet-org/deploytx/internal/domain/config"
	"github.com/trebuchet-org/deploytx/internal/domain/models"
)

const hardhatToken = `{
  "_format": "hh-sol-artifact-1",
  "contractName": "Token",
  "sourceName": "contracts/Token.sol",
  "abi": [
    {"type":"constructor","stateMutability":"nonpayable","inputs":[
      {"name":"name","type":"string","internalType":"string"},
      {"name":"symbol","type":"string","internalType":"string"}
    ]}
  ],
  "bytecode": "0x6080604052",
  "deployedBytecode": "0x6080",
  "linkReferences": {},
  "deployedLinkReferences": {}
}`

const hardhatInterface = `{
  "_format": "hh-sol-artifact-1",
  "contractName": "IToken",
  "sourceName": "contracts/IToken.sol",
  "abi": [],
  "bytecode": "0x",
  "deployedBytecode": "0x",
  "linkReferences": {},
  "deployedLinkReferences": {}
}`

const foundryVault = `{
  "abi": [
    {"type":"constructor","inputs":[{"name":"owner","type":"address","internalType":"address"}],"stateMutability":"payable"}
  ],
  "bytecode": {
    "object": "0x6080__$aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa$__",
    "sourceMap": "",
    "linkReferences": {"src/lib/Math.sol": {"Math": [{"start": 2, "length": 20}]}}
  },
  "deployedBytecode": {"object": "0x"},
  "metadata": {"settings": {"compilationTarget": {"src/Vault.sol": "Vault"}}}
}`

const foundryToken = `{
  "abi": [],
  "bytecode": {"object": "0x60016002", "linkReferences": {}},
  "metadata": {"settings": {"compilationTarget": {"src/Token.sol": "Token"}}}
}`

const hardhatDebug = `{"_format":"hh-sol-dbg-1","buildInfo":"../../build-info/abc.json"}`

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func setupProject(t *testing.T) (*Repository, string) {
	t.Helper()
	root := t.TempDir()

	writeFile(t, filepath.Join(root, "artifacts/contracts/Token.sol/Token.json"), hardhatToken)
	writeFile(t, filepath.Join(root, "artifacts/contracts/Token.sol/Token.dbg.json"), hardhatDebug)
	writeFile(t, filepath.Join(root, "artifacts/contracts/IToken.sol/IToken.json"), hardhatInterface)
	writeFile(t, filepath.Join(root, "artifacts/build-info/abc.json"), `{"id":"abc","input":{}}`)
	writeFile(t, filepath.Join(root, "out/Vault.sol/Vault.json"), foundryVault)
	writeFile(t, filepath.Join(root, "out/Token.sol/Token.json"), foundryToken)
	writeFile(t, filepath.Join(root, "out/notes.json"), `{"hello":"world"}`)

	cfg := &config.RuntimeConfig{
		ProjectRoot:  root,
		ArtifactDirs: []string{filepath.Join(root, "artifacts"), filepath.Join(root, "out")},
	}
	return NewRepository(cfg, slog.New(slog.NewTextHandler(io.Discard, nil))), root
}

func TestRepository_ListArtifacts(t *testing.T) {
	repo, _ := setupProject(t)

	artifacts, err := repo.ListArtifacts(context.Background())
	require.NoError(t, err)

	ids := make([]string, len(artifacts))
	for i, a := range artifacts {
		ids[i] = a.ID()
	}
	assert.Equal(t, []string{
		"contracts/IToken.sol:IToken",
		"contracts/Token.sol:Token",
		"src/Token.sol:Token",
		"src/Vault.sol:Vault",
	}, ids)
}

func TestRepository_GetArtifact(t *testing.T) {
	repo, _ := setupProject(t)
	ctx := context.Background()

	t.Run("hardhat artifact by qualified name", func(t *testing.T) {
		artifact, err := repo.GetArtifact(ctx, "contracts/Token.sol:Token")
		require.NoError(t, err)
		assert.Equal(t, models.ArtifactFormatHardhat, artifact.Format)
		assert.Equal(t, "0x6080604052", artifact.Bytecode)
		assert.Equal(t, filepath.Join("artifacts", "contracts", "Token.sol", "Token.json"), artifact.Path)
		assert.Equal(t, "constructor(string name, string symbol)", artifact.ConstructorSignature())
	})

	t.Run("foundry artifact by unique name", func(t *testing.T) {
		artifact, err := repo.GetArtifact(ctx, "Vault")
		require.NoError(t, err)
		assert.Equal(t, models.ArtifactFormatFoundry, artifact.Format)
		assert.Equal(t, "src/Vault.sol", artifact.SourceName)
		assert.True(t, artifact.NeedsLinking())
		assert.True(t, artifact.IsPayable())
		assert.Equal(t, []models.LinkReference{{Start: 2, Length: 20}}, artifact.LinkReferences["src/lib/Math.sol"]["Math"])
	})

	t.Run("interface is indexed without creation code", func(t *testing.T) {
		artifact, err := repo.GetArtifact(ctx, "IToken")
		require.NoError(t, err)
		assert.False(t, artifact.HasCreationCode())
	})

	t.Run("ambiguous name", func(t *testing.T) {
		_, err := repo.GetArtifact(ctx, "Token")
		var artErr *domain.ArtifactError
		require.ErrorAs(t, err, &artErr)

		var ambiguous *domain.AmbiguousArtifactError
		require.ErrorAs(t, err, &ambiguous)
		assert.Len(t, ambiguous.Matches, 2)
		assert.Contains(t, err.Error(), "contracts/Token.sol")
		assert.Contains(t, err.Error(), "src/Token.sol")
	})

	t.Run("missing with suggestion", func(t *testing.T) {
		_, err := repo.GetArtifact(ctx, "Vlt")
		var artErr *domain.ArtifactError
		require.ErrorAs(t, err, &artErr)
		assert.ErrorIs(t, err, domain.ErrArtifactNotFound)
		assert.Contains(t, err.Error(), "did you mean Vault")
	})

	t.Run("missing qualified name", func(t *testing.T) {
		_, err := repo.GetArtifact(ctx, "src/Nope.sol:Nope")
		assert.ErrorIs(t, err, domain.ErrArtifactNotFound)
	})
}

func TestRepository_SearchArtifacts(t *testing.T) {
	repo, _ := setupProject(t)

	results := repo.SearchArtifacts(context.Background(), "token")
	require.Len(t, results, 3)
	assert.Equal(t, "contracts/IToken.sol:IToken", results[0].ID())

	results = repo.SearchArtifacts(context.Background(), "src/")
	assert.Len(t, results, 2)
}

func TestRepository_EmptyProject(t *testing.T) {
	root := t.TempDir()
	cfg := &config.RuntimeConfig{
		ProjectRoot:  root,
		ArtifactDirs: []string{filepath.Join(root, "artifacts")},
	}
	repo := NewRepository(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))

	_, err := repo.GetArtifact(context.Background(), "Token")
	require.ErrorIs(t, err, domain.ErrArtifactNotFound)
	assert.Contains(t, err.Error(), "--compile")
}
