package fs

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/deploytx/internal/domain"
)

const vaultABI = `[{"type":"constructor","inputs":[
	{"name":"owner","type":"address"},
	{"name":"cap","type":"uint256"},
	{"name":"tags","type":"string[]"}
]}]`

func vaultInputs(t *testing.T) abi.Arguments {
	t.Helper()
	parsed, err := abi.JSON(strings.NewReader(vaultABI))
	require.NoError(t, err)
	return parsed.Constructor.Inputs
}

func writeArgs(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestArgsLoader_Load(t *testing.T) {
	loader := NewArgsLoader()
	ctx := context.Background()
	owner := "0x70997970C51812dc3A010C7d01b50e0d17dc79C8"

	tests := []struct {
		name    string
		file    string
		content string
		want    []any
		wantErr error
	}{
		{
			name:    "yaml list",
			file:    "args.yaml",
			content: "- \"" + owner + "\"\n- 1000\n- [a, b]\n",
			want:    []any{owner, 1000, []any{"a", "b"}},
		},
		{
			name:    "yaml map reordered by input",
			file:    "args.yml",
			content: "tags: [a]\ncap: \"1000000000000000000000\"\nowner: \"" + owner + "\"\n",
			want:    []any{owner, "1000000000000000000000", []any{"a"}},
		},
		{
			name:    "json keeps big numbers",
			file:    "args.json",
			content: `["` + owner + `", 1000000000000000000000, []]`,
			want:    []any{owner, json.Number("1000000000000000000000"), []any{}},
		},
		{
			name:    "json map",
			file:    "args.json",
			content: `{"owner":"` + owner + `","cap":"1","tags":["x"]}`,
			want:    []any{owner, "1", []any{"x"}},
		},
		{
			name:    "missing named argument",
			file:    "args.yaml",
			content: "owner: \"" + owner + "\"\n",
			wantErr: domain.ErrArgumentCount,
		},
		{
			name:    "unknown named argument",
			file:    "args.yaml",
			content: "owner: x\ncap: 1\ntags: []\nextra: 1\n",
			wantErr: domain.ErrArgumentCount,
		},
		{
			name:    "scalar document",
			file:    "args.yaml",
			content: "just a string\n",
			wantErr: domain.ErrArgumentType,
		},
		{
			name:    "invalid json",
			file:    "args.json",
			content: `[1,`,
			wantErr: domain.ErrArgumentType,
		},
		{
			name:    "empty file",
			file:    "args.yaml",
			content: "",
			want:    []any{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeArgs(t, tt.file, tt.content)
			got, err := loader.Load(ctx, path, vaultInputs(t))
			if tt.wantErr != nil {
				var encErr *domain.EncodingError
				require.ErrorAs(t, err, &encErr)
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestArgsLoader_MissingFile(t *testing.T) {
	_, err := NewArgsLoader().Load(context.Background(), filepath.Join(t.TempDir(), "nope.yaml"), nil)
	var ioErr *domain.IOError
	require.ErrorAs(t, err, &ioErr)
}
