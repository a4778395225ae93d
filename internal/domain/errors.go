package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Sentinel errors for domain operations
var (
	// ErrArtifactNotFound is returned when no compiled artifact matches a contract reference
	ErrArtifactNotFound = errors.New("artifact not found")

	// ErrNoCreationCode is returned for interfaces and abstract contracts
	ErrNoCreationCode = errors.New("artifact has no creation bytecode")

	// ErrUnlinkedLibrary is returned when creation bytecode still holds library placeholders
	ErrUnlinkedLibrary = errors.New("unlinked library reference")

	// ErrMalformedBytecode is returned when creation bytecode is not valid hex
	ErrMalformedBytecode = errors.New("malformed bytecode")

	// ErrArgumentCount is returned when the number of constructor arguments does not match the ABI
	ErrArgumentCount = errors.New("wrong number of arguments")

	// ErrArgumentType is returned when an argument cannot be converted to its ABI type
	ErrArgumentType = errors.New("argument type mismatch")

	// ErrMethodNotFound is returned when a function is missing from a contract ABI
	ErrMethodNotFound = errors.New("method not found in ABI")

	// ErrNotPayable is returned when a value is attached to a non-payable constructor
	ErrNotPayable = errors.New("constructor is not payable")

	// ErrPayloadMismatch is returned when transaction data was not built from the given artifact
	ErrPayloadMismatch = errors.New("payload does not match artifact")

	// ErrInvalidAddress is returned when an address argument is not a valid hex address
	ErrInvalidAddress = errors.New("invalid address")
)

// ArtifactError reports a missing or unusable compiled contract artifact.
type ArtifactError struct {
	Contract string
	Path     string
	Err      error
}

func (e *ArtifactError) Error() string {
	var b strings.Builder
	b.WriteString("artifact error")
	if e.Contract != "" {
		fmt.Fprintf(&b, " for %s", e.Contract)
	}
	if e.Path != "" {
		fmt.Fprintf(&b, " (%s)", e.Path)
	}
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	return b.String()
}

func (e *ArtifactError) Unwrap() error { return e.Err }

// EncodingError reports constructor or call arguments that do not fit the declared ABI.
// Index is -1 when the error is not tied to a single argument.
type EncodingError struct {
	Method string
	Index  int
	Name   string
	Type   string
	Err    error
}

func (e *EncodingError) Error() string {
	method := e.Method
	if method == "" {
		method = "constructor"
	}
	if e.Index < 0 {
		return fmt.Sprintf("encoding error in %s: %v", method, e.Err)
	}
	name := e.Name
	if name == "" {
		name = fmt.Sprintf("#%d", e.Index)
	}
	return fmt.Sprintf("encoding error in %s argument %s (%s): %v", method, name, e.Type, e.Err)
}

func (e *EncodingError) Unwrap() error { return e.Err }

// IOError reports a failed read or write of a transaction file.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

// AmbiguousArtifactError is returned when a bare contract name matches several artifacts
type AmbiguousArtifactError struct {
	Contract string
	Matches  []ArtifactRef
}

// ArtifactRef identifies an artifact without carrying its contents
type ArtifactRef struct {
	Name       string
	SourceName string
}

func (e *AmbiguousArtifactError) Error() string {
	sorted := make([]ArtifactRef, len(e.Matches))
	copy(sorted, e.Matches)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].SourceName+":"+sorted[i].Name < sorted[j].SourceName+":"+sorted[j].Name
	})

	var suggestions []string
	for _, m := range sorted {
		suggestions = append(suggestions, fmt.Sprintf("  - %s (%s)", m.Name, m.SourceName))
	}

	return fmt.Sprintf("multiple artifacts found matching %s - use source:contract format to disambiguate:\n%s",
		e.Contract, strings.Join(suggestions, "\n"))
}
