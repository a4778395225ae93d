package config

// ProjectFile is the raw deploytx.toml structure
type ProjectFile struct {
	Artifacts []string          `toml:"artifacts"`
	Output    string            `toml:"output"`
	Libraries map[string]string `toml:"libraries"`
	Proxy     ProxyConfig       `toml:"proxy"`
}

const (
	DefaultOutput   = "deploytxobj.json"
	DefaultProxy    = "ERC1967Proxy"
	ProjectFileName = "deploytx.toml"
)

// DefaultArtifactDirs are scanned when the project file does not list any
var DefaultArtifactDirs = []string{"artifacts", "out"}
