package forge

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/creack/pty"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/deploytx/internal/domain/config"
)

func touch(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte{}, 0644))
}

func TestDetectToolchains(t *testing.T) {
	tests := []struct {
		name  string
		files []string
		want  []string
	}{
		{name: "empty project", want: nil},
		{name: "hardhat only", files: []string{"hardhat.config.ts"}, want: []string{"hardhat"}},
		{name: "foundry only", files: []string{"foundry.toml"}, want: []string{"foundry"}},
		{name: "both", files: []string{"foundry.toml", "hardhat.config.js"}, want: []string{"hardhat", "foundry"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := t.TempDir()
			for _, f := range tt.files {
				touch(t, filepath.Join(root, f))
			}

			var names []string
			for _, tc := range DetectToolchains(root) {
				names = append(names, tc.Name)
			}
			assert.Equal(t, tt.want, names)
		})
	}
}

func newTestCompiler(t *testing.T, script string) (*CompilerAdapter, *[]string) {
	t.Helper()
	root := t.TempDir()
	touch(t, filepath.Join(root, "foundry.toml"))

	c := NewCompilerAdapter(&config.RuntimeConfig{ProjectRoot: root}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	var calls []string
	c.command = func(ctx context.Context, name string, args ...string) *exec.Cmd {
		calls = append(calls, name)
		return exec.CommandContext(ctx, "sh", "-c", script)
	}
	return c, &calls
}

func TestCompilerAdapter_Compile(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		c, calls := newTestCompiler(t, "exit 0")
		require.NoError(t, c.Compile(context.Background()))
		assert.Equal(t, []string{"forge"}, *calls)
	})

	t.Run("failure includes output", func(t *testing.T) {
		c, _ := newTestCompiler(t, "echo 'Compiler run failed'; exit 1")
		err := c.Compile(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "forge build failed")
		assert.Contains(t, err.Error(), "Compiler run failed")
	})

	t.Run("debug streams to the output writer", func(t *testing.T) {
		ptmx, tty, err := pty.Open()
		if err != nil {
			t.Skipf("no pty available: %v", err)
		}
		_ = tty.Close()
		_ = ptmx.Close()

		c, _ := newTestCompiler(t, "echo 'Compiling 3 files'")
		assert.Equal(t, os.Stderr, c.output)

		var out bytes.Buffer
		c.stream = true
		c.output = &out

		require.NoError(t, c.Compile(context.Background()))
		assert.Contains(t, out.String(), "Compiling 3 files")
	})

	t.Run("no toolchain", func(t *testing.T) {
		c := NewCompilerAdapter(&config.RuntimeConfig{ProjectRoot: t.TempDir()}, slog.New(slog.NewTextHandler(io.Discard, nil)))
		assert.Error(t, c.Compile(context.Background()))
	})
}
