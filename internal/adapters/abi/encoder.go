package abi

import (
	"bytes"
	"fmt"
	"log/slog"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/trebuchet-org/deploytx/internal/domain"
	"github.com/trebuchet-org/deploytx/internal/domain/models"
	"github.com/trebuchet-org/deploytx/internal/usecase"
)

// Encoder implements usecase.ABIEncoder on top of go-ethereum's abi package
type Encoder struct {
	log *slog.Logger
}

// NewEncoder creates a new ABI encoder
func NewEncoder(log *slog.Logger) *Encoder {
	return &Encoder{log: log.With("component", "abi")}
}

// CreationCode returns the linked creation bytecode of an artifact
func (e *Encoder) CreationCode(artifact *models.Artifact, libraries map[string]string) ([]byte, error) {
	if artifact == nil {
		return nil, &domain.ArtifactError{Err: domain.ErrArtifactNotFound}
	}
	if !artifact.HasCreationCode() {
		return nil, &domain.ArtifactError{Contract: artifact.Name, Path: artifact.Path, Err: domain.ErrNoCreationCode}
	}

	linked, err := Link(artifact, libraries)
	if err != nil {
		return nil, &domain.ArtifactError{Contract: artifact.Name, Path: artifact.Path, Err: err}
	}

	code, err := hexutil.Decode(linked)
	if err != nil {
		return nil, &domain.ArtifactError{
			Contract: artifact.Name,
			Path:     artifact.Path,
			Err:      fmt.Errorf("%w: %v", domain.ErrMalformedBytecode, err),
		}
	}

	e.log.Debug("resolved creation code", "contract", artifact.ID(), "size", len(code), "linked", artifact.NeedsLinking())
	return code, nil
}

// EncodeConstructor packs constructor arguments without a selector
func (e *Encoder) EncodeConstructor(artifact *models.Artifact, args []any) ([]byte, error) {
	if artifact == nil {
		return nil, &domain.ArtifactError{Err: domain.ErrArtifactNotFound}
	}

	inputs := artifact.ABI.Constructor.Inputs
	values, err := CoerceArguments("constructor", inputs, args)
	if err != nil {
		return nil, err
	}
	if len(inputs) == 0 {
		return []byte{}, nil
	}

	packed, err := inputs.Pack(values...)
	if err != nil {
		return nil, &domain.EncodingError{
			Method: "constructor",
			Index:  -1,
			Err:    fmt.Errorf("%w: %v", domain.ErrArgumentType, err),
		}
	}

	e.log.Debug("encoded constructor arguments", "contract", artifact.ID(), "args", len(values), "size", len(packed))
	return packed, nil
}

// EncodeCall packs a function call including its 4-byte selector.
// method is either a bare name or a full signature such as "initialize(address,uint256)".
func (e *Encoder) EncodeCall(contractABI abi.ABI, method string, args []any) ([]byte, error) {
	m, ok := FindMethod(contractABI, method)
	if !ok {
		return nil, &domain.EncodingError{
			Method: method,
			Index:  -1,
			Err:    domain.ErrMethodNotFound,
		}
	}

	values, err := CoerceArguments(m.Sig, m.Inputs, args)
	if err != nil {
		return nil, err
	}

	packed, err := m.Inputs.Pack(values...)
	if err != nil {
		return nil, &domain.EncodingError{
			Method: m.Sig,
			Index:  -1,
			Err:    fmt.Errorf("%w: %v", domain.ErrArgumentType, err),
		}
	}

	data := make([]byte, 0, len(m.ID)+len(packed))
	data = append(data, m.ID...)
	data = append(data, packed...)
	return data, nil
}

// DecodeConstructor unpacks encoded constructor arguments.
// The arguments must re-encode to exactly the same bytes, otherwise the payload was not built from this artifact.
func (e *Encoder) DecodeConstructor(artifact *models.Artifact, encoded []byte) ([]usecase.DecodedArgument, error) {
	if artifact == nil {
		return nil, &domain.ArtifactError{Err: domain.ErrArtifactNotFound}
	}

	inputs := artifact.ABI.Constructor.Inputs
	if len(inputs) == 0 {
		if len(encoded) > 0 {
			return nil, fmt.Errorf("%w: %d trailing bytes for a constructor without arguments", domain.ErrPayloadMismatch, len(encoded))
		}
		return []usecase.DecodedArgument{}, nil
	}

	values, err := inputs.Unpack(encoded)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrPayloadMismatch, err)
	}

	repacked, err := inputs.Pack(values...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrPayloadMismatch, err)
	}
	if !bytes.Equal(repacked, encoded) {
		return nil, fmt.Errorf("%w: constructor arguments do not re-encode to the same bytes", domain.ErrPayloadMismatch)
	}

	decoded := make([]usecase.DecodedArgument, len(inputs))
	for i, input := range inputs {
		decoded[i] = usecase.DecodedArgument{
			Name:  input.Name,
			Type:  input.Type.String(),
			Value: values[i],
		}
	}
	return decoded, nil
}

// DecodeCall identifies the function behind calldata and unpacks its arguments.
// Like DecodeConstructor, the arguments must re-encode to the same bytes.
func (e *Encoder) DecodeCall(contractABI abi.ABI, data []byte) (string, []usecase.DecodedArgument, error) {
	if len(data) < 4 {
		return "", nil, fmt.Errorf("%w: calldata shorter than a selector", domain.ErrPayloadMismatch)
	}

	m, err := contractABI.MethodById(data[:4])
	if err != nil {
		return "", nil, fmt.Errorf("%w: unknown selector %s", domain.ErrMethodNotFound, hexutil.Encode(data[:4]))
	}

	values, err := m.Inputs.Unpack(data[4:])
	if err != nil {
		return "", nil, fmt.Errorf("%w: %v", domain.ErrPayloadMismatch, err)
	}

	repacked, err := m.Inputs.Pack(values...)
	if err != nil || !bytes.Equal(repacked, data[4:]) {
		return "", nil, fmt.Errorf("%w: %s arguments do not re-encode to the same bytes", domain.ErrPayloadMismatch, m.Sig)
	}

	decoded := make([]usecase.DecodedArgument, len(m.Inputs))
	for i, input := range m.Inputs {
		decoded[i] = usecase.DecodedArgument{
			Name:  input.Name,
			Type:  input.Type.String(),
			Value: values[i],
		}
	}
	return m.Sig, decoded, nil
}

// FindMethod looks up a function by name or by canonical signature
func FindMethod(contractABI abi.ABI, method string) (abi.Method, bool) {
	if m, ok := contractABI.Methods[method]; ok {
		return m, true
	}
	for _, m := range contractABI.Methods {
		if m.Sig == method {
			return m, true
		}
	}
	return abi.Method{}, false
}
