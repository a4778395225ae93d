package abi

import (
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/deploytx/internal/domain/models"
)

const tokenABI = `[
	{"type":"constructor","stateMutability":"nonpayable","inputs":[
		{"name":"name","type":"string"},
		{"name":"symbol","type":"string"}
	]},
	{"type":"function","name":"transfer","stateMutability":"nonpayable","inputs":[
		{"name":"to","type":"address"},
		{"name":"amount","type":"uint256"}
	],"outputs":[{"name":"","type":"bool"}]}
]`

func mustABI(t *testing.T, raw string) abi.ABI {
	t.Helper()
	parsed, err := abi.JSON(strings.NewReader(raw))
	require.NoError(t, err)
	return parsed
}

func mustType(t *testing.T, typ string, components ...abi.ArgumentMarshaling) abi.Type {
	t.Helper()
	parsed, err := abi.NewType(typ, "", components)
	require.NoError(t, err)
	return parsed
}

func tokenArtifact(t *testing.T) *models.Artifact {
	t.Helper()
	return &models.Artifact{
		Name:       "Token",
		SourceName: "contracts/Token.sol",
		Format:     models.ArtifactFormatHardhat,
		Path:       "artifacts/contracts/Token.sol/Token.json",
		ABI:        mustABI(t, tokenABI),
		Bytecode:   "0x6080604052",
	}
}

func testEncoder() *Encoder {
	return NewEncoder(slog.New(slog.NewTextHandler(io.Discard, nil)))
}
