package fs

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/trebuchet-org/deploytx/internal/domain"
	"github.com/trebuchet-org/deploytx/internal/usecase"
	"gopkg.in/yaml.v3"
)

// ArgsLoader reads constructor arguments from YAML or JSON files.
// A file holds either a list in declaration order or a map keyed by input name.
type ArgsLoader struct{}

// NewArgsLoader creates a new ArgsLoader
func NewArgsLoader() *ArgsLoader {
	return &ArgsLoader{}
}

// Load returns the arguments in the order of inputs
func (l *ArgsLoader) Load(ctx context.Context, path string, inputs abi.Arguments) ([]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &domain.IOError{Op: "read", Path: path, Err: err}
	}

	raw, err := decodeArgs(path, data)
	if err != nil {
		return nil, &domain.EncodingError{
			Index: -1,
			Err:   fmt.Errorf("%w: cannot parse %s: %v", domain.ErrArgumentType, filepath.Base(path), err),
		}
	}

	switch v := raw.(type) {
	case nil:
		return []any{}, nil
	case []any:
		return v, nil
	case map[string]any:
		return argsFromMap(v, inputs)
	default:
		return nil, &domain.EncodingError{
			Index: -1,
			Err:   fmt.Errorf("%w: %s must hold a list or a map of arguments", domain.ErrArgumentType, filepath.Base(path)),
		}
	}
}

func decodeArgs(path string, data []byte) (any, error) {
	var out any
	if strings.EqualFold(filepath.Ext(path), ".json") {
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.UseNumber()
		if err := dec.Decode(&out); err != nil {
			return nil, err
		}
		return out, nil
	}

	if err := yaml.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// argsFromMap orders named arguments by the constructor declaration
func argsFromMap(named map[string]any, inputs abi.Arguments) ([]any, error) {
	args := make([]any, len(inputs))
	known := make(map[string]bool, len(inputs))

	for i, input := range inputs {
		if input.Name == "" {
			return nil, &domain.EncodingError{
				Index: i,
				Type:  input.Type.String(),
				Err:   fmt.Errorf("%w: unnamed inputs must be passed as a list", domain.ErrArgumentType),
			}
		}
		value, ok := named[input.Name]
		if !ok {
			return nil, &domain.EncodingError{
				Index: i,
				Name:  input.Name,
				Type:  input.Type.String(),
				Err:   fmt.Errorf("%w: missing from arguments file", domain.ErrArgumentCount),
			}
		}
		args[i] = value
		known[input.Name] = true
	}

	var unknown []string
	for name := range named {
		if !known[name] {
			unknown = append(unknown, name)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return nil, &domain.EncodingError{
			Index: -1,
			Err:   fmt.Errorf("%w: unknown arguments %s", domain.ErrArgumentCount, strings.Join(unknown, ", ")),
		}
	}

	return args, nil
}

// Ensure the adapter implements the interface
var _ usecase.ArgsLoader = (*ArgsLoader)(nil)
