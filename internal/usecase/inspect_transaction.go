package usecase

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/trebuchet-org/deploytx/internal/domain"
	"github.com/trebuchet-org/deploytx/internal/domain/config"
	"github.com/trebuchet-org/deploytx/internal/domain/models"
)

// InspectTransactionParams contains parameters for inspecting a transaction file
type InspectTransactionParams struct {
	Path string
	// Contract is required for creation transactions and optional for calls
	Contract string
}

// InspectTransactionResult describes what a transaction file contains
type InspectTransactionResult struct {
	Path        string
	Transaction *models.UnsignedTransaction
	Artifact    *models.Artifact
	Creation    bool
	// CreationCodeSize is the length of the matched bytecode prefix
	CreationCodeSize int
	// Method is the decoded function signature for calls
	Method    string
	Arguments []DecodedArgument
	DataSize  int
}

// InspectTransaction decodes a persisted transaction against an artifact
type InspectTransaction struct {
	config   *config.RuntimeConfig
	resolver ArtifactResolver
	encoder  ABIEncoder
	store    TransactionStore
}

// NewInspectTransaction creates a new InspectTransaction use case
func NewInspectTransaction(
	cfg *config.RuntimeConfig,
	resolver ArtifactResolver,
	encoder ABIEncoder,
	store TransactionStore,
) *InspectTransaction {
	return &InspectTransaction{
		config:   cfg,
		resolver: resolver,
		encoder:  encoder,
		store:    store,
	}
}

// Run loads the file and checks that its data was built from the artifact
func (uc *InspectTransaction) Run(ctx context.Context, params InspectTransactionParams) (*InspectTransactionResult, error) {
	path := outputPath(params.Path, uc.config.Output)

	tx, err := uc.store.Load(ctx, path)
	if err != nil {
		return nil, err
	}

	data, err := hexutil.Decode(tx.Data)
	if err != nil {
		return nil, fmt.Errorf("%w: data is not 0x-prefixed hex: %v", domain.ErrPayloadMismatch, err)
	}

	result := &InspectTransactionResult{
		Path:        path,
		Transaction: tx,
		Creation:    tx.IsCreation(),
		DataSize:    len(data),
	}

	if result.Creation {
		if params.Contract == "" {
			return nil, fmt.Errorf("--contract is required to inspect a creation transaction")
		}
		return uc.inspectCreation(ctx, result, params.Contract, data)
	}
	return uc.inspectCall(ctx, result, params.Contract, data)
}

func (uc *InspectTransaction) inspectCreation(ctx context.Context, result *InspectTransactionResult, ref string, data []byte) (*InspectTransactionResult, error) {
	artifact, err := uc.resolver.Resolve(ctx, ref)
	if err != nil {
		return nil, err
	}
	result.Artifact = artifact

	code, err := uc.encoder.CreationCode(artifact, uc.config.Libraries)
	if err != nil {
		return nil, err
	}
	if !bytes.HasPrefix(data, code) {
		return nil, fmt.Errorf("%w: data does not start with the creation code of %s", domain.ErrPayloadMismatch, artifact.ID())
	}
	result.CreationCodeSize = len(code)

	args, err := uc.encoder.DecodeConstructor(artifact, data[len(code):])
	if err != nil {
		return nil, err
	}
	result.Arguments = args
	return result, nil
}

func (uc *InspectTransaction) inspectCall(ctx context.Context, result *InspectTransactionResult, ref string, data []byte) (*InspectTransactionResult, error) {
	contractABI, err := abi.JSON(strings.NewReader(UpgradeToAndCallABI))
	if err != nil {
		return nil, fmt.Errorf("invalid upgrade ABI: %w", err)
	}

	if ref != "" {
		artifact, err := uc.resolver.Resolve(ctx, ref)
		if err != nil {
			return nil, err
		}
		result.Artifact = artifact
		contractABI = artifact.ABI
	}

	method, args, err := uc.encoder.DecodeCall(contractABI, data)
	if err != nil {
		return nil, err
	}
	result.Method = method
	result.Arguments = args
	return result, nil
}
