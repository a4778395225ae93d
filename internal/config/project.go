package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"github.com/trebuchet-org/deploytx/internal/domain/config"
)

// loadEnvFiles loads .env files so ${VAR} references in config can be expanded
func loadEnvFiles(projectRoot string) {
	envFiles := []string{
		filepath.Join(projectRoot, ".env"),
		filepath.Join(projectRoot, ".env.local"),
	}

	for _, envFile := range envFiles {
		if _, err := os.Stat(envFile); err == nil {
			if err := godotenv.Load(envFile); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: Failed to load %s: %v\n", envFile, err)
			}
		}
	}
}

// loadProjectFile loads deploytx.toml. A missing file is not an error.
func loadProjectFile(projectRoot string) (*config.ProjectFile, error) {
	loadEnvFiles(projectRoot)

	path := filepath.Join(projectRoot, config.ProjectFileName)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, nil
	}

	var project config.ProjectFile
	meta, err := toml.DecodeFile(path, &project)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", config.ProjectFileName, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("unknown keys in %s: %v", config.ProjectFileName, undecoded)
	}

	return &project, nil
}
