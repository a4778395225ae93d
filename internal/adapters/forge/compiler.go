package forge

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/creack/pty"
	"github.com/trebuchet-org/deploytx/internal/domain/config"
	"github.com/trebuchet-org/deploytx/internal/usecase"
)

// Toolchain is a build command that produces artifacts
type Toolchain struct {
	Name string
	Cmd  string
	Args []string
}

var (
	hardhatToolchain = Toolchain{Name: "hardhat", Cmd: "npx", Args: []string{"hardhat", "compile"}}
	foundryToolchain = Toolchain{Name: "foundry", Cmd: "forge", Args: []string{"build"}}
)

// CompilerAdapter compiles the project with Hardhat and/or Foundry
type CompilerAdapter struct {
	log         *slog.Logger
	projectRoot string
	stream      bool
	output      io.Writer
	command     func(ctx context.Context, name string, args ...string) *exec.Cmd
}

// NewCompilerAdapter creates a new compiler. In debug mode build output is streamed to stderr.
func NewCompilerAdapter(cfg *config.RuntimeConfig, log *slog.Logger) *CompilerAdapter {
	return &CompilerAdapter{
		log:         log.With("component", "compiler"),
		projectRoot: cfg.ProjectRoot,
		stream:      cfg.Debug,
		output:      os.Stderr,
		command:     exec.CommandContext,
	}
}

// Compile runs every toolchain detected in the project root
func (c *CompilerAdapter) Compile(ctx context.Context) error {
	toolchains := DetectToolchains(c.projectRoot)
	if len(toolchains) == 0 {
		return fmt.Errorf("no hardhat.config.* or foundry.toml in %s", c.projectRoot)
	}

	for _, tc := range toolchains {
		if err := c.run(ctx, tc); err != nil {
			return err
		}
	}
	return nil
}

func (c *CompilerAdapter) run(ctx context.Context, tc Toolchain) error {
	start := time.Now()
	c.log.Debug("compiling", "toolchain", tc.Name, "dir", c.projectRoot)

	cmd := c.command(ctx, tc.Cmd, tc.Args...)
	cmd.Dir = c.projectRoot
	cmd.Env = os.Environ()

	if c.stream {
		// PTY keeps the tool's colored output
		ptyFile, err := pty.Start(cmd)
		if err != nil {
			return fmt.Errorf("failed to start %s: %w", tc.Cmd, err)
		}
		defer func() {
			_ = ptyFile.Close()
		}()

		_, _ = io.Copy(c.output, ptyFile)
		if err := cmd.Wait(); err != nil {
			return fmt.Errorf("%s %s failed: %w", tc.Cmd, strings.Join(tc.Args, " "), err)
		}
		c.log.Debug("compile finished", "toolchain", tc.Name, "duration", time.Since(start))
		return nil
	}

	output, err := cmd.CombinedOutput()
	if err != nil {
		c.log.Error("compile failed", "toolchain", tc.Name, "error", err, "duration", time.Since(start))
		return fmt.Errorf("%s %s failed: %w\nOutput: %s", tc.Cmd, strings.Join(tc.Args, " "), err, string(output))
	}

	c.log.Debug("compile finished", "toolchain", tc.Name, "duration", time.Since(start))
	return nil
}

// DetectToolchains returns the build tools configured in projectRoot, Hardhat first
func DetectToolchains(projectRoot string) []Toolchain {
	var toolchains []Toolchain

	for _, name := range []string{"hardhat.config.ts", "hardhat.config.js", "hardhat.config.cjs", "hardhat.config.mjs"} {
		if fileExists(filepath.Join(projectRoot, name)) {
			toolchains = append(toolchains, hardhatToolchain)
			break
		}
	}
	if fileExists(filepath.Join(projectRoot, "foundry.toml")) {
		toolchains = append(toolchains, foundryToolchain)
	}

	return toolchains
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// Ensure the adapter implements the interface
var _ usecase.Compiler = (*CompilerAdapter)(nil)
