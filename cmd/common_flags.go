package cmd

import (
	"github.com/spf13/cobra"

	"github.com/tranvictor/provenance/config"
)

func AddCommonFlagsToTransactionalCmds(c *cobra.Command) {
	c.PersistentFlags().
		Float64VarP(&config.GasPrice, "gasprice", "p", 0, "Gas price in gwei. If default value is used, we will use the node's suggested gas price. The gas price to be used in the tx is gas price + extra gas price")
	c.PersistentFlags().
		Float64VarP(&config.TipGas, "tipgas", "s", 0, "tip in gwei, will be use in dynamic fee tx, default value get from node.")
	c.PersistentFlags().
		Float64VarP(&config.ExtraGasPrice, "extraprice", "P", 0, "Extra gas price in gwei. The gas price to be used in the tx is gas price + extra gas price")
	c.PersistentFlags().
		Uint64VarP(&config.GasLimit, "gas", "g", 0, "Base gas limit for the tx. If default value is used, we will use ethereum nodes to estimate the gas limit. The gas limit to be used in the tx is gas limit + extra gas limit")
	c.PersistentFlags().
		Uint64VarP(&config.ExtraGasLimit, "extragas", "G", 250000, "Extra gas limit for the tx. The gas limit to be used in the tx is gas limit + extra gas limit")
	c.PersistentFlags().
		StringVarP(&config.From, "from", "f", "", "Account to connect. It can be an ethereum address or a hint string fuzzy matched against the keystore accounts")
	c.PersistentFlags().
		BoolVarP(&config.ForceLegacy, "legacy-tx", "L", false, "Force using legacy transaction")
}
