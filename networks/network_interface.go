package networks

import (
	"time"
)

type Network interface {
	GetName() string
	GetChainID() uint64
	GetAlternativeNames() []string
	GetNativeTokenSymbol() string
	GetBlockTime() time.Duration

	GetNodeVariableName() string
	GetDefaultNodes() map[string]string

	// GetContractVariableName names the env var that overrides the
	// warranty contract address on this network.
	GetContractVariableName() string
	GetDefaultContract() string
	// GetDeployBlock is where log scans start.
	GetDeployBlock() uint64

	MarshalJSON() ([]byte, error)
}
