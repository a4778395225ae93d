package usecase_test

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	abiadapter "github.com/trebuchet-org/deploytx/internal/adapters/abi"
	"github.com/trebuchet-org/deploytx/internal/adapters/fs"
	"github.com/trebuchet-org/deploytx/internal/domain/config"
	"github.com/trebuchet-org/deploytx/internal/domain/models"
	"github.com/trebuchet-org/deploytx/internal/usecase"
)

// MockArtifactRepository is a mock implementation of ArtifactRepository
type MockArtifactRepository struct {
	mock.Mock
}

func (m *MockArtifactRepository) GetArtifact(ctx context.Context, ref string) (*models.Artifact, error) {
	args := m.Called(ctx, ref)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Artifact), args.Error(1)
}

func (m *MockArtifactRepository) SearchArtifacts(ctx context.Context, query string) []*models.Artifact {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]*models.Artifact)
}

func (m *MockArtifactRepository) ListArtifacts(ctx context.Context) ([]*models.Artifact, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Artifact), args.Error(1)
}

// MockCompiler is a mock implementation of Compiler
type MockCompiler struct {
	mock.Mock
}

func (m *MockCompiler) Compile(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

// MockSelector is a mock implementation of InteractiveSelector
type MockSelector struct {
	mock.Mock
}

func (m *MockSelector) SelectArtifact(ctx context.Context, artifacts []*models.Artifact, prompt string) (*models.Artifact, error) {
	args := m.Called(ctx, artifacts, prompt)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Artifact), args.Error(1)
}

// MockProgressSink records progress events
type MockProgressSink struct {
	events []usecase.ProgressEvent
}

func (m *MockProgressSink) OnProgress(ctx context.Context, event usecase.ProgressEvent) {
	m.events = append(m.events, event)
}

func (m *MockProgressSink) Info(string)  {}
func (m *MockProgressSink) Error(string) {}

const tokenABI = `[{"type":"constructor","stateMutability":"nonpayable","inputs":[
	{"name":"name","type":"string"},
	{"name":"symbol","type":"string"}
]}]`

const vaultABI = `[{"type":"constructor","stateMutability":"payable","inputs":[
	{"name":"owner","type":"address"}
]}]`

const proxyABI = `[{"type":"constructor","stateMutability":"payable","inputs":[
	{"name":"implementation","type":"address"},
	{"name":"_data","type":"bytes"}
]}]`

const boxABI = `[
	{"type":"function","name":"initialize","stateMutability":"nonpayable","inputs":[{"name":"value","type":"uint256"}],"outputs":[]},
	{"type":"function","name":"store","stateMutability":"nonpayable","inputs":[{"name":"value","type":"uint256"}],"outputs":[]}
]`

const legacyBoxABI = `[
	{"type":"function","name":"init","stateMutability":"nonpayable","inputs":[{"name":"value","type":"uint256"}],"outputs":[]}
]`

const (
	tokenCode = "0x6080604052"
	proxyCode = "0x60806040526040"
	boxCode   = "0x608060405234"

	// encoded ("Test Coin", "TC")
	tokenArgs = "0000000000000000000000000000000000000000000000000000000000000040" +
		"0000000000000000000000000000000000000000000000000000000000000080" +
		"0000000000000000000000000000000000000000000000000000000000000009" +
		"5465737420436f696e0000000000000000000000000000000000000000000000" +
		"0000000000000000000000000000000000000000000000000000000000000002" +
		"5443000000000000000000000000000000000000000000000000000000000000"

	implAddress  = "0x5FbDB2315678afecb367f032d93F642f64180aa3"
	proxyAddress = "0xe7f1725E7734CE288F8367e1Bb143E90bb3F0512"
)

func mustABI(t *testing.T, raw string) abi.ABI {
	t.Helper()
	parsed, err := abi.JSON(strings.NewReader(raw))
	require.NoError(t, err)
	return parsed
}

func newArtifact(t *testing.T, name, source, rawABI, code string) *models.Artifact {
	t.Helper()
	return &models.Artifact{
		Name:       name,
		SourceName: source,
		Format:     models.ArtifactFormatHardhat,
		Path:       "artifacts/" + source + "/" + name + ".json",
		ABI:        mustABI(t, rawABI),
		Bytecode:   code,
	}
}

// harness wires the real encoder and file adapters around a mocked repository
type harness struct {
	cfg      *config.RuntimeConfig
	repo     *MockArtifactRepository
	compiler *MockCompiler
	selector *MockSelector
	sink     *MockProgressSink
	resolver *usecase.ResolveArtifact
	encoder  *abiadapter.Encoder
	store    *fs.TransactionStore
	builder  *usecase.BuildDeploymentTransaction
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	h := &harness{
		cfg: &config.RuntimeConfig{
			ProjectRoot:    t.TempDir(),
			NonInteractive: true,
			Libraries:      map[string]string{},
			Proxy: config.ProxyConfig{
				Artifact: config.DefaultProxy,
			},
		},
		repo:     &MockArtifactRepository{},
		compiler: &MockCompiler{},
		selector: &MockSelector{},
		sink:     &MockProgressSink{},
		encoder:  abiadapter.NewEncoder(log),
		store:    fs.NewTransactionStore(log),
	}
	h.cfg.Output = h.cfg.ProjectRoot + "/deploytxobj.json"
	h.resolver = usecase.NewResolveArtifact(h.cfg, h.repo, h.compiler, h.selector, h.sink)
	h.builder = usecase.NewBuildDeploymentTransaction(h.cfg, h.resolver, h.encoder, fs.NewArgsLoader(), h.store, h.sink)
	return h
}
