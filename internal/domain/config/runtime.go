package config

import (
	"time"
)

// RuntimeConfig represents the complete runtime configuration
// This is injected into use cases and contains all resolved settings
type RuntimeConfig struct {
	// Core settings
	ProjectRoot string

	// Execution settings
	Debug          bool
	NonInteractive bool
	Compile        bool
	Timeout        time.Duration

	// Output is the absolute path of the default transaction file
	Output string

	// ArtifactDirs are absolute directories scanned for compiled artifacts
	ArtifactDirs []string

	// Libraries maps "Name" or "source:Name" to a deployed library address
	Libraries map[string]string

	Proxy ProxyConfig

	// ConfigSource is "deploytx.toml" when a project file was loaded, empty otherwise
	ConfigSource string
}

// ProxyConfig controls the proxy transaction utility
type ProxyConfig struct {
	// Artifact is the proxy contract to deploy, ERC1967Proxy by default
	Artifact string `toml:"artifact"`
	// Initializer is the implementation function called through the proxy constructor.
	// Empty unless the project file names one; then the conventional names are tried.
	Initializer string `toml:"initializer"`
}
