package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// FoundryTOML is the subset of foundry.toml that affects artifact lookup
type FoundryTOML struct {
	Profile map[string]FoundryProfile `toml:"profile"`
}

// FoundryProfile holds the per-profile settings we read
type FoundryProfile struct {
	OutPath   string   `toml:"out"`
	Libraries []string `toml:"libraries"`
}

// foundryDefaults is what the default profile contributes to the runtime config
type foundryDefaults struct {
	OutPath   string
	Libraries map[string]string
}

// loadFoundryDefaults reads the default profile of foundry.toml if the project has one
func loadFoundryDefaults(projectRoot string) (*foundryDefaults, error) {
	path := filepath.Join(projectRoot, "foundry.toml")
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, nil
	}

	var raw FoundryTOML
	if _, err := toml.DecodeFile(path, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse foundry.toml: %w", err)
	}

	profile := raw.Profile["default"]
	defaults := &foundryDefaults{
		OutPath:   profile.OutPath,
		Libraries: make(map[string]string),
	}

	for _, lib := range profile.Libraries {
		key, addr, err := parseFoundryLibrary(lib)
		if err != nil {
			return nil, err
		}
		defaults.Libraries[key] = addr
	}

	return defaults, nil
}

// parseFoundryLibrary splits "src/Lib.sol:Lib:0xaddr" into "src/Lib.sol:Lib" and the address
func parseFoundryLibrary(entry string) (string, string, error) {
	idx := strings.LastIndex(entry, ":")
	if idx <= 0 || idx == len(entry)-1 {
		return "", "", fmt.Errorf("invalid foundry library entry %q", entry)
	}
	key, addr := entry[:idx], entry[idx+1:]
	if !strings.Contains(key, ":") {
		return "", "", fmt.Errorf("invalid foundry library entry %q, expected path:Name:address", entry)
	}
	return key, os.ExpandEnv(addr), nil
}
