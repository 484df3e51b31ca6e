// Copyright © 2018 Victor Tran
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE.

package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tranvictor/provenance/config"
	"github.com/tranvictor/provenance/networks"
	"github.com/tranvictor/provenance/util/logger"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "provenance",
	Short: "Register, sell and service products tracked by an on-chain warranty contract",
	Long: fmt.Sprintf(`Provenance is a command line client for a product provenance and
warranty contract. Every product is an NFT carrying its serial number,
model and warranty terms.

Provenance supports you on different ends:

	1. Manufacturers register products and mint them to a first owner.

	2. Retailers sell products to customers, which activates the warranty.

	3. Customers look up their products and submit warranty claims.

	4. Service centers approve or reject claims and record the service done.

Without a subcommand it starts an interactive shell. Accounts come from the
keystore in ~/.provenance/keystore (see provenance wallet) or from
PROVENANCE_PRIVATE_KEY.

Supported networks: %s. You can add your custom node by setting the
network's node env var, for example %s for sepolia, or pass --rpc.

Every flag can also be set in ~/.provenance/config.yaml or as a
PROVENANCE_<FLAG> env var, for example PROVENANCE_NETWORK=localhost.`,
		strings.Join(networks.GetSupportedNetworkNames(), ", "),
		networks.Sepolia.GetNodeVariableName(),
	),
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := config.Load(cmd.Flags()); err != nil {
			return err
		}
		_, err := logger.Setup(logger.Options{
			Level:   config.LogLevel,
			File:    config.LogFile,
			Verbose: config.Verbose,
		})
		return err
	},
	Run: func(cmd *cobra.Command, args []string) {
		runShell(cmd.Context())
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	rootCmd.PersistentFlags().StringVarP(&config.Network, "network", "k", "sepolia", fmt.Sprintf("network to use. Valid values: %s.", strings.Join(networks.GetSupportedNetworkNames(), ", ")))
	rootCmd.PersistentFlags().StringVar(&config.RPC, "rpc", "", "JSON-RPC node url. Replaces the network's default nodes")
	rootCmd.PersistentFlags().StringVar(&config.Contract, "contract", "", "Warranty contract address. Defaults to the network's deployment")
	rootCmd.PersistentFlags().Uint64Var(&config.FromBlock, "from-block", 0, "First block of event scans. Defaults to the network's deploy block")
	rootCmd.PersistentFlags().StringVar(&config.Keystore, "keystore", config.DefaultKeystore(), "Keystore directory")
	rootCmd.PersistentFlags().StringVar(&config.LogLevel, "log-level", "info", "Log level: debug, info, warn or error")
	rootCmd.PersistentFlags().StringVar(&config.LogFile, "log-file", config.DefaultLogFile(), "Rolling log file")
	rootCmd.PersistentFlags().BoolVarP(&config.Verbose, "verbose", "v", false, "Mirror logs to stderr")
	AddCommonFlagsToTransactionalCmds(rootCmd)

	defer logger.Sync()
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Println(err)
		logger.Sync()
		os.Exit(1)
	}
}
