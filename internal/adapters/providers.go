package adapters

import (
	"github.com/google/wire"
	"github.com/trebuchet-org/deploytx/internal/adapters/abi"
	"github.com/trebuchet-org/deploytx/internal/adapters/forge"
	"github.com/trebuchet-org/deploytx/internal/adapters/fs"
	"github.com/trebuchet-org/deploytx/internal/adapters/interactive"
	"github.com/trebuchet-org/deploytx/internal/adapters/repository/contracts"
	"github.com/trebuchet-org/deploytx/internal/usecase"
)

// FSSet provides filesystem-based implementations
var FSSet = wire.NewSet(
	fs.NewTransactionStore,
	wire.Bind(new(usecase.TransactionStore), new(*fs.TransactionStore)),

	fs.NewArgsLoader,
	wire.Bind(new(usecase.ArgsLoader), new(*fs.ArgsLoader)),
)

// ArtifactSet provides artifact discovery and compilation
var ArtifactSet = wire.NewSet(
	contracts.NewRepository,
	wire.Bind(new(usecase.ArtifactRepository), new(*contracts.Repository)),

	forge.NewCompilerAdapter,
	wire.Bind(new(usecase.Compiler), new(*forge.CompilerAdapter)),
)

// ABISet provides the ABI encoder
var ABISet = wire.NewSet(
	abi.NewEncoder,
	wire.Bind(new(usecase.ABIEncoder), new(*abi.Encoder)),
)

// InteractiveSet provides interactive implementations
var InteractiveSet = wire.NewSet(
	interactive.NewSelectorAdapter,
	wire.Bind(new(usecase.InteractiveSelector), new(*interactive.SelectorAdapter)),
)

// AllAdapters includes all adapter sets
var AllAdapters = wire.NewSet(
	FSSet,
	ArtifactSet,
	ABISet,
	InteractiveSet,
)
