package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/trebuchet-org/deploytx/internal/domain"
	"github.com/trebuchet-org/deploytx/internal/domain/config"
	"github.com/trebuchet-org/deploytx/internal/domain/models"
)

// UpgradeToAndCallABI is the UUPS upgrade entrypoint used when the implementation ABI lacks one
const UpgradeToAndCallABI = `[{"type":"function","name":"upgradeToAndCall","stateMutability":"payable","inputs":[{"name":"newImplementation","type":"address"},{"name":"data","type":"bytes"}],"outputs":[]}]`

// upgradeMethod is the function name of the upgrade entrypoint
const upgradeMethod = "upgradeToAndCall"

// initializerCandidates are tried in order when no initializer is named
var initializerCandidates = []string{"initialize", "init", "initializer"}

// ProxyDeployParams contains parameters for preparing a proxy deployment
type ProxyDeployParams struct {
	// Proxy is the proxy artifact reference, config proxy.artifact when empty
	Proxy string
	// Implementation is the deployed implementation address
	Implementation string
	// ImplementationContract is the artifact whose ABI encodes the initializer call
	ImplementationContract string
	// Initializer names the function to call; empty picks a conventional name
	Initializer string
	// NoInitializer deploys the proxy with empty init data
	NoInitializer bool
	InitArgs      []string
	Value         string
	Output        string
	DryRun        bool
}

// ProxyUpgradeParams contains parameters for preparing an upgrade call
type ProxyUpgradeParams struct {
	Proxy                  string
	NewImplementation      string
	ImplementationContract string
	// Call optionally names a function to run on the new implementation after the upgrade
	Call     string
	CallArgs []string
	Value    string
	Output   string
	DryRun   bool
}

// ProxyTransactionResult contains a prepared proxy transaction
type ProxyTransactionResult struct {
	Kind        string
	Proxy       *models.Artifact
	Transaction *models.UnsignedTransaction
	// CallSignature is the initializer or post-upgrade call, empty when none
	CallSignature string
	Output        string
	Written       bool
}

// PrepareProxyTransaction prepares proxy deployments and upgrades.
// It is separate from BuildDeploymentTransaction and shares only its encoding rules.
type PrepareProxyTransaction struct {
	config   *config.RuntimeConfig
	resolver ArtifactResolver
	encoder  ABIEncoder
	store    TransactionStore
	builder  *BuildDeploymentTransaction
	sink     ProgressSink
}

// NewPrepareProxyTransaction creates a new PrepareProxyTransaction use case
func NewPrepareProxyTransaction(
	cfg *config.RuntimeConfig,
	resolver ArtifactResolver,
	encoder ABIEncoder,
	store TransactionStore,
	builder *BuildDeploymentTransaction,
	sink ProgressSink,
) *PrepareProxyTransaction {
	return &PrepareProxyTransaction{
		config:   cfg,
		resolver: resolver,
		encoder:  encoder,
		store:    store,
		builder:  builder,
		sink:     sink,
	}
}

// Deploy prepares the creation transaction of a proxy pointing at an existing implementation
func (uc *PrepareProxyTransaction) Deploy(ctx context.Context, params ProxyDeployParams) (*ProxyTransactionResult, error) {
	proxyRef := params.Proxy
	if proxyRef == "" {
		proxyRef = uc.config.Proxy.Artifact
	}

	uc.sink.OnProgress(ctx, ProgressEvent{
		Stage:   "resolve",
		Message: fmt.Sprintf("Resolving %s...", proxyRef),
		Spinner: true,
	})
	proxyArtifact, err := uc.resolver.Resolve(ctx, proxyRef)
	uc.sink.OnProgress(ctx, ProgressEvent{Stage: "resolve"})
	if err != nil {
		return nil, err
	}

	initData, callSig, err := uc.initializerCall(ctx, params)
	if err != nil {
		return nil, err
	}

	value, err := ParseValue(params.Value)
	if err != nil {
		return nil, err
	}

	tx, err := uc.builder.Build(proxyArtifact, []any{params.Implementation, initData}, BuildOptions{
		Value:     value,
		Libraries: uc.config.Libraries,
	})
	if err != nil {
		return nil, err
	}

	result := &ProxyTransactionResult{
		Kind:          "deploy",
		Proxy:         proxyArtifact,
		Transaction:   tx,
		CallSignature: callSig,
		Output:        outputPath(params.Output, uc.config.Output),
	}
	if err := uc.persist(ctx, result, params.DryRun); err != nil {
		return nil, err
	}
	return result, nil
}

// initializerCall encodes the call the proxy constructor forwards to the implementation
func (uc *PrepareProxyTransaction) initializerCall(ctx context.Context, params ProxyDeployParams) ([]byte, string, error) {
	if params.NoInitializer {
		if len(params.InitArgs) > 0 {
			return nil, "", &domain.EncodingError{
				Method: "initializer",
				Index:  -1,
				Err:    fmt.Errorf("%w: init arguments given without an initializer", domain.ErrArgumentCount),
			}
		}
		return []byte{}, "", nil
	}

	if params.ImplementationContract == "" {
		if len(params.InitArgs) > 0 || params.Initializer != "" {
			return nil, "", fmt.Errorf("--contract is required to encode the initializer")
		}
		return []byte{}, "", nil
	}

	impl, err := uc.resolver.Resolve(ctx, params.ImplementationContract)
	if err != nil {
		return nil, "", err
	}

	name := params.Initializer
	if name == "" {
		name = uc.config.Proxy.Initializer
	}

	method, err := FindInitializer(impl.ABI, name)
	if err != nil {
		return nil, "", err
	}

	data, err := uc.encoder.EncodeCall(impl.ABI, method.Sig, stringArgs(params.InitArgs))
	if err != nil {
		return nil, "", err
	}
	return data, method.Sig, nil
}

// Upgrade prepares the upgradeToAndCall transaction sent to an existing proxy
func (uc *PrepareProxyTransaction) Upgrade(ctx context.Context, params ProxyUpgradeParams) (*ProxyTransactionResult, error) {
	if !common.IsHexAddress(params.Proxy) {
		return nil, &domain.EncodingError{
			Method: upgradeMethod,
			Index:  -1,
			Err:    fmt.Errorf("%w: proxy %q", domain.ErrInvalidAddress, params.Proxy),
		}
	}

	upgradeABI, err := abi.JSON(strings.NewReader(UpgradeToAndCallABI))
	if err != nil {
		return nil, fmt.Errorf("invalid upgrade ABI: %w", err)
	}

	callData := []byte{}
	var callSig string
	if params.ImplementationContract != "" {
		impl, err := uc.resolver.Resolve(ctx, params.ImplementationContract)
		if err != nil {
			return nil, err
		}
		if _, ok := impl.ABI.Methods[upgradeMethod]; ok {
			upgradeABI = impl.ABI
		} else {
			uc.sink.Info(fmt.Sprintf("%s has no %s, encoding the standard UUPS entrypoint", impl.Name, upgradeMethod))
		}
		if params.Call != "" {
			callData, err = uc.encoder.EncodeCall(impl.ABI, params.Call, stringArgs(params.CallArgs))
			if err != nil {
				return nil, err
			}
			callSig = params.Call
			if m, err := FindInitializer(impl.ABI, params.Call); err == nil {
				callSig = m.Sig
			}
		}
	} else if params.Call != "" || len(params.CallArgs) > 0 {
		return nil, fmt.Errorf("--contract is required to encode the post-upgrade call")
	}

	data, err := uc.encoder.EncodeCall(upgradeABI, upgradeMethod, []any{params.NewImplementation, callData})
	if err != nil {
		return nil, err
	}

	value, err := ParseValue(params.Value)
	if err != nil {
		return nil, err
	}
	valueStr, err := transactionValue(value, upgradeABI.Methods[upgradeMethod].IsPayable())
	if err != nil {
		return nil, err
	}

	result := &ProxyTransactionResult{
		Kind: "upgrade",
		Transaction: &models.UnsignedTransaction{
			To:    common.HexToAddress(params.Proxy).Hex(),
			Value: valueStr,
			Data:  hexutil.Encode(data),
		},
		CallSignature: callSig,
		Output:        outputPath(params.Output, uc.config.Output),
	}
	if err := uc.persist(ctx, result, params.DryRun); err != nil {
		return nil, err
	}
	return result, nil
}

func (uc *PrepareProxyTransaction) persist(ctx context.Context, result *ProxyTransactionResult, dryRun bool) error {
	if dryRun {
		return nil
	}
	if err := uc.store.Persist(ctx, result.Transaction, result.Output); err != nil {
		return err
	}
	result.Written = true
	return nil
}

// FindInitializer looks up name (a function name or full signature) in the ABI.
// With an empty name the conventional initializer names are tried in order.
func FindInitializer(contractABI abi.ABI, name string) (abi.Method, error) {
	candidates := initializerCandidates
	if name != "" {
		candidates = []string{name}
	}

	for _, candidate := range candidates {
		if m, ok := contractABI.Methods[candidate]; ok {
			return m, nil
		}
		for _, m := range contractABI.Methods {
			if m.Sig == candidate {
				return m, nil
			}
		}
	}

	return abi.Method{}, &domain.EncodingError{
		Method: strings.Join(candidates, "/"),
		Index:  -1,
		Err:    domain.ErrMethodNotFound,
	}
}
