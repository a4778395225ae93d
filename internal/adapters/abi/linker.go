package abi

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/trebuchet-org/deploytx/internal/domain"
	"github.com/trebuchet-org/deploytx/internal/domain/models"
)

// placeholderMarker prefixes every unresolved library slot in solc output
const placeholderMarker = "__"

// Link replaces library placeholders in the artifact's creation bytecode.
// Libraries are looked up by "source:Name" first, then by bare "Name".
func Link(artifact *models.Artifact, libraries map[string]string) (string, error) {
	code := strings.TrimPrefix(artifact.Bytecode, "0x")

	sources := make([]string, 0, len(artifact.LinkReferences))
	for source := range artifact.LinkReferences {
		sources = append(sources, source)
	}
	sort.Strings(sources)

	for _, source := range sources {
		libs := artifact.LinkReferences[source]
		names := make([]string, 0, len(libs))
		for name := range libs {
			names = append(names, name)
		}
		sort.Strings(names)

		for _, name := range names {
			addr, ok := lookupLibrary(libraries, source, name)
			if !ok {
				return "", fmt.Errorf("%w: %s:%s has no configured address", domain.ErrUnlinkedLibrary, source, name)
			}
			if !common.IsHexAddress(addr) {
				return "", fmt.Errorf("%w: library %s: %q", domain.ErrInvalidAddress, name, addr)
			}
			hexAddr := strings.ToLower(common.HexToAddress(addr).Hex()[2:])

			for _, ref := range libs[name] {
				if ref.Length != common.AddressLength {
					return "", fmt.Errorf("%w: %s:%s reference has length %d", domain.ErrMalformedBytecode, source, name, ref.Length)
				}
				start, end := 2*ref.Start, 2*(ref.Start+ref.Length)
				if start < 0 || end > len(code) {
					return "", fmt.Errorf("%w: %s:%s reference at %d is out of range", domain.ErrMalformedBytecode, source, name, ref.Start)
				}
				code = code[:start] + hexAddr + code[end:]
			}
		}
	}

	if idx := strings.Index(code, placeholderMarker); idx >= 0 {
		return "", fmt.Errorf("%w: placeholder at byte %d", domain.ErrUnlinkedLibrary, idx/2)
	}

	return "0x" + code, nil
}

func lookupLibrary(libraries map[string]string, source, name string) (string, bool) {
	if addr, ok := libraries[source+":"+name]; ok {
		return addr, true
	}
	addr, ok := libraries[name]
	return addr, ok
}
