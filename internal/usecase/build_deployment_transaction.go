package usecase

import (
	"context"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/holiman/uint256"
	"github.com/trebuchet-org/deploytx/internal/domain"
	"github.com/trebuchet-org/deploytx/internal/domain/config"
	"github.com/trebuchet-org/deploytx/internal/domain/models"
)

// BuildOptions tune a single deployment transaction
type BuildOptions struct {
	// Value is attached to the creation call; nil or zero leaves the field empty
	Value *uint256.Int
	// Libraries maps "Name" or "source:Name" to deployed library addresses
	Libraries map[string]string
}

// BuildDeploymentTransactionParams contains parameters for preparing a deployment
type BuildDeploymentTransactionParams struct {
	Contract  string
	Args      []string
	ArgsFile  string
	Value     string
	Output    string
	Libraries map[string]string
	DryRun    bool
}

// BuildDeploymentTransactionResult contains the prepared transaction
type BuildDeploymentTransactionResult struct {
	Artifact         *models.Artifact
	Transaction      *models.UnsignedTransaction
	Arguments        []DecodedArgument
	CreationCodeSize int
	Output           string
	Written          bool
}

// BuildDeploymentTransaction prepares unsigned contract-creation transactions
type BuildDeploymentTransaction struct {
	config   *config.RuntimeConfig
	resolver ArtifactResolver
	encoder  ABIEncoder
	loader   ArgsLoader
	store    TransactionStore
	sink     ProgressSink
}

// NewBuildDeploymentTransaction creates a new BuildDeploymentTransaction use case
func NewBuildDeploymentTransaction(
	cfg *config.RuntimeConfig,
	resolver ArtifactResolver,
	encoder ABIEncoder,
	loader ArgsLoader,
	store TransactionStore,
	sink ProgressSink,
) *BuildDeploymentTransaction {
	return &BuildDeploymentTransaction{
		config:   cfg,
		resolver: resolver,
		encoder:  encoder,
		loader:   loader,
		store:    store,
		sink:     sink,
	}
}

// Build produces the unsigned creation transaction for artifact. It has no side effects.
func (uc *BuildDeploymentTransaction) Build(artifact *models.Artifact, args []any, opts BuildOptions) (*models.UnsignedTransaction, error) {
	tx, _, err := uc.build(artifact, args, opts)
	return tx, err
}

func (uc *BuildDeploymentTransaction) build(artifact *models.Artifact, args []any, opts BuildOptions) (*models.UnsignedTransaction, int, error) {
	if artifact == nil {
		return nil, 0, &domain.ArtifactError{Err: domain.ErrArtifactNotFound}
	}

	code, err := uc.encoder.CreationCode(artifact, opts.Libraries)
	if err != nil {
		return nil, 0, err
	}

	encodedArgs, err := uc.encoder.EncodeConstructor(artifact, args)
	if err != nil {
		return nil, 0, err
	}

	value, err := transactionValue(opts.Value, artifact.IsPayable())
	if err != nil {
		return nil, 0, err
	}

	data := make([]byte, 0, len(code)+len(encodedArgs))
	data = append(data, code...)
	data = append(data, encodedArgs...)

	return &models.UnsignedTransaction{
		To:    "",
		Value: value,
		Data:  hexutil.Encode(data),
	}, len(code), nil
}

// Run resolves the contract, builds the transaction and writes it unless DryRun is set.
// Nothing is written when any earlier step fails.
func (uc *BuildDeploymentTransaction) Run(ctx context.Context, params BuildDeploymentTransactionParams) (*BuildDeploymentTransactionResult, error) {
	uc.sink.OnProgress(ctx, ProgressEvent{
		Stage:   "resolve",
		Message: fmt.Sprintf("Resolving %s...", params.Contract),
		Spinner: true,
	})
	artifact, err := uc.resolver.Resolve(ctx, params.Contract)
	uc.sink.OnProgress(ctx, ProgressEvent{Stage: "resolve"})
	if err != nil {
		return nil, err
	}

	args, err := uc.loadArgs(ctx, artifact, params)
	if err != nil {
		return nil, err
	}

	value, err := ParseValue(params.Value)
	if err != nil {
		return nil, err
	}

	tx, codeSize, err := uc.build(artifact, args, BuildOptions{
		Value:     value,
		Libraries: mergeLibraries(uc.config.Libraries, params.Libraries),
	})
	if err != nil {
		return nil, err
	}

	payload, err := hexutil.Decode(tx.Data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode built payload: %w", err)
	}
	decoded, err := uc.encoder.DecodeConstructor(artifact, payload[codeSize:])
	if err != nil {
		return nil, fmt.Errorf("built payload does not decode: %w", err)
	}

	result := &BuildDeploymentTransactionResult{
		Artifact:         artifact,
		Transaction:      tx,
		Arguments:        decoded,
		CreationCodeSize: codeSize,
		Output:           outputPath(params.Output, uc.config.Output),
	}

	if params.DryRun {
		return result, nil
	}

	if err := uc.store.Persist(ctx, tx, result.Output); err != nil {
		return nil, err
	}
	result.Written = true

	return result, nil
}

// loadArgs collects constructor arguments from the command line or an arguments file
func (uc *BuildDeploymentTransaction) loadArgs(ctx context.Context, artifact *models.Artifact, params BuildDeploymentTransactionParams) ([]any, error) {
	if params.ArgsFile == "" {
		return stringArgs(params.Args), nil
	}
	if len(params.Args) > 0 {
		return nil, &domain.EncodingError{
			Index: -1,
			Err:   fmt.Errorf("%w: pass arguments either inline or with --args-file, not both", domain.ErrArgumentCount),
		}
	}
	return uc.loader.Load(ctx, params.ArgsFile, artifact.ABI.Constructor.Inputs)
}

// ParseValue parses a wei amount given in decimal or 0x hex; a leading zero is still decimal. Empty means zero.
func ParseValue(raw string) (*uint256.Int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}

	digits, base := raw, 10
	if len(raw) > 2 && raw[0] == '0' && (raw[1] == 'x' || raw[1] == 'X') {
		digits, base = raw[2:], 16
	}

	n, ok := new(big.Int).SetString(digits, base)
	if !ok || n.Sign() < 0 || strings.HasPrefix(digits, "+") {
		return nil, &domain.EncodingError{
			Method: "value",
			Index:  -1,
			Err:    fmt.Errorf("%w: %q is not a wei amount", domain.ErrArgumentType, raw),
		}
	}

	value, overflow := uint256.FromBig(n)
	if overflow {
		return nil, &domain.EncodingError{
			Method: "value",
			Index:  -1,
			Err:    fmt.Errorf("%w: %q does not fit in 256 bits", domain.ErrArgumentType, raw),
		}
	}
	return value, nil
}

// transactionValue renders the value field; zero stays empty like an unset value
func transactionValue(value *uint256.Int, payable bool) (string, error) {
	if value == nil || value.IsZero() {
		return "", nil
	}
	if !payable {
		return "", &domain.EncodingError{Index: -1, Err: domain.ErrNotPayable}
	}
	return value.Dec(), nil
}

func stringArgs(args []string) []any {
	out := make([]any, len(args))
	for i, a := range args {
		out[i] = a
	}
	return out
}

func mergeLibraries(base, overrides map[string]string) map[string]string {
	merged := make(map[string]string, len(base)+len(overrides))
	for k, v := range base {
		merged[k] = v
	}
	for k, v := range overrides {
		merged[k] = v
	}
	return merged
}

func outputPath(requested, fallback string) string {
	if requested != "" {
		return requested
	}
	if fallback != "" {
		return fallback
	}
	return config.DefaultOutput
}
