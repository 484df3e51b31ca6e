package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tranvictor/provenance/networks"
)

var NetworkConfig string

var addNetworkCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a new network to the supported networks list locally",
	Long: `--config flag is supported to pass a new network config json filepath OR pass a json string. The json should be in the following format:
	{
		"name": "network_name",
		"alternative_names": ["alternative_name_1"],
		"chain_id": 1337,
		"native_token_symbol": "ETH",
		"block_time": 2,
		"node_variable_name": "MY_NETWORK_NODE",
		"default_nodes": {
			"node_name_1": "node_url_1"
		},
		"contract_variable_name": "MY_NETWORK_WARRANTY_CONTRACT",
		"default_contract": "0x...",
		"deploy_block": 0
	}`,
	Args: func(cmd *cobra.Command, args []string) error {
		if strings.TrimSpace(NetworkConfig) == "" {
			return fmt.Errorf("--config is required")
		}
		return nil
	},
	Run: func(cmd *cobra.Command, args []string) {
		content := []byte(strings.TrimSpace(NetworkConfig))
		if !strings.HasPrefix(string(content), "{") {
			var err error
			content, err = os.ReadFile(string(content))
			if err != nil {
				appUI.Error("Couldn't read the provided json file: %s", err)
				return
			}
		}
		n, err := networks.NewNetworkFromJSON(content)
		if err != nil {
			appUI.Error("The provided json is not a valid network config: %s", err)
			return
		}
		if _, err := networks.GetNetwork(n.GetName()); err == nil {
			appUI.Warn("Network with name %s already exists. It will be replaced.", n.GetName())
		}
		if err := networks.AddNetwork(n); err != nil {
			appUI.Error("Failed to add the new network: %s", err)
			return
		}
		appUI.Success("Network %s with chain ID %d added and saved to ~/.provenance/networks/.", n.GetName(), n.GetChainID())
	},
}

var listNetworkCmd = &cobra.Command{
	Use:   "list",
	Short: "Show all of supported networks",
	Long:  ``,
	Run: func(cmd *cobra.Command, args []string) {
		for i, n := range networks.GetSupportedNetworks() {
			fmt.Printf("%d. Name: %s, Chain ID: %d\n", i+1, n.GetName(), n.GetChainID())
			contract := networks.Contract(n)
			if contract == "" {
				contract = "not deployed, use --contract"
			}
			fmt.Printf("    Warranty contract: %s\n", contract)
			fmt.Printf("    RPC nodes:\n")
			for key, node := range networks.Nodes(n) {
				fmt.Printf("    - %s: %s\n", key, node)
			}
		}

		fmt.Printf("\nProvenance: If you want to add more networks to the list, use following command:\n> provenance network add --config <json>\n")
		fmt.Printf("\nProvenance: If you want to delete a network, just delete the corresponding json file in ~/.provenance/networks/.\n")
	},
}

var networkCmd = &cobra.Command{
	Use:   "network",
	Short: "Manage all networks that provenance supports",
	Long:  ``,
}

func init() {
	addNetworkCmd.Flags().StringVarP(&NetworkConfig, "config", "c", "", "Path to the network config json file, or the json itself")

	networkCmd.AddCommand(listNetworkCmd)
	networkCmd.AddCommand(addNetworkCmd)
	rootCmd.AddCommand(networkCmd)
}
