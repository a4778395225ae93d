package usecase

import (
	"context"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/trebuchet-org/deploytx/internal/domain/models"
)

// ArtifactRepository provides name-addressable access to compiled contracts
type ArtifactRepository interface {
	// GetArtifact resolves "Name" or "source:Name" to exactly one artifact
	GetArtifact(ctx context.Context, ref string) (*models.Artifact, error)
	// SearchArtifacts returns every artifact whose name or source contains the query
	SearchArtifacts(ctx context.Context, query string) []*models.Artifact
	// ListArtifacts returns all indexed artifacts sorted by ID
	ListArtifacts(ctx context.Context) ([]*models.Artifact, error)
}

// ArtifactResolver turns a user supplied contract reference into one artifact
type ArtifactResolver interface {
	Resolve(ctx context.Context, ref string) (*models.Artifact, error)
	EnsureCompiled(ctx context.Context) error
}

// Compiler refreshes artifacts by invoking the project's build tool
type Compiler interface {
	Compile(ctx context.Context) error
}

// ABIEncoder turns artifacts and loosely typed arguments into payloads
type ABIEncoder interface {
	// CreationCode returns the linked creation bytecode of an artifact
	CreationCode(artifact *models.Artifact, libraries map[string]string) ([]byte, error)
	// EncodeConstructor packs constructor arguments without a selector
	EncodeConstructor(artifact *models.Artifact, args []any) ([]byte, error)
	// EncodeCall packs a function call including its 4-byte selector
	EncodeCall(contractABI abi.ABI, method string, args []any) ([]byte, error)
	// DecodeConstructor unpacks encoded constructor arguments
	DecodeConstructor(artifact *models.Artifact, encoded []byte) ([]DecodedArgument, error)
	// DecodeCall identifies the function behind calldata and unpacks its arguments
	DecodeCall(contractABI abi.ABI, data []byte) (string, []DecodedArgument, error)
}

// TransactionStore persists unsigned transactions as JSON files
type TransactionStore interface {
	Persist(ctx context.Context, tx *models.UnsignedTransaction, path string) error
	Load(ctx context.Context, path string) (*models.UnsignedTransaction, error)
}

// ArgsLoader reads ordered arguments for a set of ABI inputs from a file
type ArgsLoader interface {
	Load(ctx context.Context, path string, inputs abi.Arguments) ([]any, error)
}

// InteractiveSelector lets the user choose between ambiguous artifacts
type InteractiveSelector interface {
	SelectArtifact(ctx context.Context, artifacts []*models.Artifact, prompt string) (*models.Artifact, error)
}

// DecodedArgument is one unpacked constructor argument
type DecodedArgument struct {
	Name  string
	Type  string
	Value any
}

// Progress tracking interfaces

// ProgressEvent represents a progress update
type ProgressEvent struct {
	Stage   string
	Message string
	Spinner bool
}

// ProgressSink receives progress events
type ProgressSink interface {
	OnProgress(ctx context.Context, event ProgressEvent)
	Info(message string)
	Error(message string)
}
