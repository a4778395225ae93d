package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/trebuchet-org/deploytx/internal/domain/config"
)

// projectMarkers are the files that identify a project root, in priority order
var projectMarkers = []string{
	config.ProjectFileName,
	"hardhat.config.ts",
	"hardhat.config.js",
	"hardhat.config.cjs",
	"hardhat.config.mjs",
	"foundry.toml",
}

// Provider creates RuntimeConfig for Wire dependency injection
func Provider(v *viper.Viper) (*config.RuntimeConfig, error) {
	projectRoot := v.GetString("project_root")
	if projectRoot == "" {
		var err error
		projectRoot, err = FindProjectRoot()
		if err != nil {
			return nil, fmt.Errorf("failed to find project root: %w", err)
		}
	}

	projectRoot, err := filepath.Abs(projectRoot)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve project root: %w", err)
	}

	cfg := &config.RuntimeConfig{
		ProjectRoot:    projectRoot,
		Debug:          v.GetBool("debug"),
		NonInteractive: v.GetBool("non_interactive"),
		Compile:        v.GetBool("compile"),
		Timeout:        v.GetDuration("timeout"),
		Libraries:      make(map[string]string),
		Proxy: config.ProxyConfig{
			Artifact: config.DefaultProxy,
		},
	}

	// Foundry libraries come first so the project file can override them
	foundryDefaults, err := loadFoundryDefaults(projectRoot)
	if err != nil {
		return nil, fmt.Errorf("failed to load foundry config: %w", err)
	}

	project, err := loadProjectFile(projectRoot)
	if err != nil {
		return nil, err
	}

	dirs := config.DefaultArtifactDirs
	if foundryDefaults != nil {
		for name, addr := range foundryDefaults.Libraries {
			cfg.Libraries[name] = addr
		}
		if foundryDefaults.OutPath != "" {
			dirs = []string{"artifacts", foundryDefaults.OutPath}
		}
	}

	if project != nil {
		cfg.ConfigSource = config.ProjectFileName
		if len(project.Artifacts) > 0 {
			dirs = project.Artifacts
		}
		cfg.Output = project.Output
		for name, addr := range project.Libraries {
			cfg.Libraries[name] = os.ExpandEnv(addr)
		}
		if project.Proxy.Artifact != "" {
			cfg.Proxy.Artifact = project.Proxy.Artifact
		}
		if project.Proxy.Initializer != "" {
			cfg.Proxy.Initializer = project.Proxy.Initializer
		}
	}

	cfg.ArtifactDirs = resolveDirs(projectRoot, dirs)

	if cfg.Output == "" {
		cfg.Output = config.DefaultOutput
	}
	if !filepath.IsAbs(cfg.Output) {
		cfg.Output = filepath.Join(projectRoot, cfg.Output)
	}

	// Flag and env overrides are relative to the working directory
	if out := v.GetString("out"); out != "" {
		cfg.Output, err = filepath.Abs(out)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve output path: %w", err)
		}
	}
	for _, entry := range v.GetStringSlice("library") {
		name, addr, ok := strings.Cut(entry, "=")
		if !ok || name == "" || addr == "" {
			return nil, fmt.Errorf("invalid --library %q, expected Name=0xAddress", entry)
		}
		cfg.Libraries[strings.TrimSpace(name)] = strings.TrimSpace(addr)
	}

	return cfg, nil
}

// FindProjectRoot walks up from current directory to find a project marker
func FindProjectRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}
	return findProjectRootFrom(dir)
}

func findProjectRootFrom(dir string) (string, error) {
	for {
		for _, marker := range projectMarkers {
			if _, err := os.Stat(filepath.Join(dir, marker)); err == nil {
				return dir, nil
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("not in a contracts project (no %s, hardhat.config.* or foundry.toml found)", config.ProjectFileName)
		}
		dir = parent
	}
}

// SetupViper creates and configures a viper instance
func SetupViper(projectRoot string, cmd *cobra.Command) *viper.Viper {
	v := viper.New()

	v.SetEnvPrefix("DEPLOYTX")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))

	v.SetDefault("timeout", "5m")
	v.SetDefault("debug", false)
	v.SetDefault("non_interactive", false)
	v.SetDefault("compile", false)
	v.SetDefault("project_root", projectRoot)

	if cmd != nil {
		bindFlags(v, cmd.Flags())
		bindFlags(v, cmd.InheritedFlags())
	}

	return v
}

// bindFlags binds every changed flag under its snake_case key
func bindFlags(v *viper.Viper, flags *pflag.FlagSet) {
	flags.VisitAll(func(f *pflag.Flag) {
		if !f.Changed {
			return
		}
		key := strings.ReplaceAll(f.Name, "-", "_")
		if err := v.BindPFlag(key, f); err != nil {
			panic(err)
		}
	})
}

func resolveDirs(projectRoot string, dirs []string) []string {
	resolved := make([]string, 0, len(dirs))
	for _, d := range dirs {
		if !filepath.IsAbs(d) {
			d = filepath.Join(projectRoot, d)
		}
		resolved = append(resolved, filepath.Clean(d))
	}
	return resolved
}
