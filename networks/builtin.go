package networks

var EthereumMainnet Network = NewGenericNetwork(GenericNetworkConfig{
	Name:                 "mainnet",
	AlternativeNames:     []string{"ethereum"},
	ChainID:              1,
	NativeTokenSymbol:    "ETH",
	BlockTime:            12,
	NodeVariableName:     "ETHEREUM_MAINNET_NODE",
	ContractVariableName: "ETHEREUM_MAINNET_WARRANTY_CONTRACT",
	DefaultNodes: map[string]string{
		"mainnet-llamarpc":  "https://eth.llamarpc.com",
		"mainnet-publicnode": "https://ethereum-rpc.publicnode.com",
	},
})

var Sepolia Network = NewGenericNetwork(GenericNetworkConfig{
	Name:                 "sepolia",
	ChainID:              11155111,
	NativeTokenSymbol:    "ETH",
	BlockTime:            12,
	NodeVariableName:     "ETHEREUM_SEPOLIA_NODE",
	ContractVariableName: "ETHEREUM_SEPOLIA_WARRANTY_CONTRACT",
	DefaultContract:      "0x4B0B29C6aB8A135F0bF9E5Ef471E672c8129fD51",
	DefaultNodes: map[string]string{
		"sepolia-publicnode": "https://ethereum-sepolia-rpc.publicnode.com",
		"sepolia-drpc":       "https://sepolia.drpc.org",
	},
})

var Holesky Network = NewGenericNetwork(GenericNetworkConfig{
	Name:                 "holesky",
	ChainID:              17000,
	NativeTokenSymbol:    "ETH",
	BlockTime:            12,
	NodeVariableName:     "ETHEREUM_HOLESKY_NODE",
	ContractVariableName: "ETHEREUM_HOLESKY_WARRANTY_CONTRACT",
	DefaultNodes: map[string]string{
		"holesky-publicnode": "https://ethereum-holesky-rpc.publicnode.com",
	},
})

var PolygonAmoy Network = NewGenericNetwork(GenericNetworkConfig{
	Name:                 "polygon-amoy",
	AlternativeNames:     []string{"amoy"},
	ChainID:              80002,
	NativeTokenSymbol:    "POL",
	BlockTime:            2,
	NodeVariableName:     "POLYGON_AMOY_NODE",
	ContractVariableName: "POLYGON_AMOY_WARRANTY_CONTRACT",
	DefaultNodes: map[string]string{
		"amoy-polygon": "https://rpc-amoy.polygon.technology",
	},
})

// Localhost is a hardhat or anvil dev chain.
var Localhost Network = NewGenericNetwork(GenericNetworkConfig{
	Name:                 "localhost",
	AlternativeNames:     []string{"hardhat", "anvil"},
	ChainID:              31337,
	NativeTokenSymbol:    "ETH",
	BlockTime:            1,
	NodeVariableName:     "LOCALHOST_NODE",
	ContractVariableName: "LOCALHOST_WARRANTY_CONTRACT",
	DefaultNodes: map[string]string{
		"localhost": "http://127.0.0.1:8545",
	},
})
