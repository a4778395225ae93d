package models

import (
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

// ArtifactFormat identifies the toolchain that produced an artifact
type ArtifactFormat string

const (
	ArtifactFormatHardhat ArtifactFormat = "hardhat"
	ArtifactFormatFoundry ArtifactFormat = "foundry"
)

// LinkReference is a byte range in creation bytecode reserved for a library address
type LinkReference struct {
	Start  int `json:"start"`
	Length int `json:"length"`
}

// LinkReferences maps source name -> library name -> placeholder locations
type LinkReferences map[string]map[string][]LinkReference

// Artifact represents a compiled contract as emitted by Hardhat or Foundry
type Artifact struct {
	Name       string
	SourceName string
	Format     ArtifactFormat
	Path       string

	ABI abi.ABI

	// Bytecode is the creation bytecode as hex, including the 0x prefix.
	// Unlinked libraries appear as __$...$__ placeholders.
	Bytecode       string
	LinkReferences LinkReferences
}

// ID returns the fully qualified "source:Name" reference
func (a *Artifact) ID() string {
	return fmt.Sprintf("%s:%s", a.SourceName, a.Name)
}

// HasCreationCode reports whether the artifact can be deployed at all
func (a *Artifact) HasCreationCode() bool {
	code := strings.TrimPrefix(a.Bytecode, "0x")
	return code != ""
}

// HasConstructor reports whether the ABI declares an explicit constructor.
// The zero Method already carries the Constructor type, so the rendered string is checked instead.
func (a *Artifact) HasConstructor() bool {
	return a.ABI.Constructor.String() != ""
}

// IsPayable reports whether the constructor accepts a value
func (a *Artifact) IsPayable() bool {
	return a.ABI.Constructor.Payable || a.ABI.Constructor.StateMutability == "payable"
}

// NeedsLinking reports whether any library placeholders are declared
func (a *Artifact) NeedsLinking() bool {
	for _, libs := range a.LinkReferences {
		if len(libs) > 0 {
			return true
		}
	}
	return false
}

// ConstructorSignature renders the constructor inputs, e.g. "constructor(string name, string symbol)"
func (a *Artifact) ConstructorSignature() string {
	parts := make([]string, 0, len(a.ABI.Constructor.Inputs))
	for _, in := range a.ABI.Constructor.Inputs {
		if in.Name == "" {
			parts = append(parts, in.Type.String())
			continue
		}
		parts = append(parts, fmt.Sprintf("%s %s", in.Type.String(), in.Name))
	}
	sig := fmt.Sprintf("constructor(%s)", strings.Join(parts, ", "))
	if a.IsPayable() {
		sig += " payable"
	}
	return sig
}
