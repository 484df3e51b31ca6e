package networks

import (
	"encoding/json"
	"time"
)

type GenericNetworkConfig struct {
	Name                 string            `json:"name"`
	AlternativeNames     []string          `json:"alternative_names"`
	ChainID              uint64            `json:"chain_id"`
	NativeTokenSymbol    string            `json:"native_token_symbol"`
	BlockTime            uint64            `json:"block_time"`
	NodeVariableName     string            `json:"node_variable_name"`
	DefaultNodes         map[string]string `json:"default_nodes"`
	ContractVariableName string            `json:"contract_variable_name"`
	DefaultContract      string            `json:"default_contract"`
	DeployBlock          uint64            `json:"deploy_block"`
}

// GenericNetwork is a network fully described by its config, either
// built in or loaded from ~/.provenance/networks/.
type GenericNetwork struct {
	config GenericNetworkConfig
}

func NewGenericNetwork(config GenericNetworkConfig) *GenericNetwork {
	return &GenericNetwork{config: config}
}

func (gn *GenericNetwork) GetName() string {
	return gn.config.Name
}

func (gn *GenericNetwork) GetChainID() uint64 {
	return gn.config.ChainID
}

func (gn *GenericNetwork) GetAlternativeNames() []string {
	return gn.config.AlternativeNames
}

func (gn *GenericNetwork) GetNativeTokenSymbol() string {
	return gn.config.NativeTokenSymbol
}

func (gn *GenericNetwork) GetBlockTime() time.Duration {
	return time.Duration(gn.config.BlockTime) * time.Second
}

func (gn *GenericNetwork) GetNodeVariableName() string {
	return gn.config.NodeVariableName
}

func (gn *GenericNetwork) GetDefaultNodes() map[string]string {
	return gn.config.DefaultNodes
}

func (gn *GenericNetwork) GetContractVariableName() string {
	return gn.config.ContractVariableName
}

func (gn *GenericNetwork) GetDefaultContract() string {
	return gn.config.DefaultContract
}

func (gn *GenericNetwork) GetDeployBlock() uint64 {
	return gn.config.DeployBlock
}

func (gn *GenericNetwork) MarshalJSON() ([]byte, error) {
	return json.Marshal(gn.config)
}
