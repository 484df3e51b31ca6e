package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	pcommon "github.com/tranvictor/provenance/common"
	"github.com/tranvictor/provenance/config"
	"github.com/tranvictor/provenance/util/logger"
	"github.com/tranvictor/provenance/wallet"
)

var walletCmd = &cobra.Command{
	Use:   "wallet",
	Short: "Manage your wallets",
	Long:  ``,
}

func keystoreWallet() *wallet.KeystoreWallet {
	return wallet.NewKeystoreWallet(config.Keystore, wallet.KeystoreOptions{Logger: logger.L()})
}

var listWalletCmd = &cobra.Command{
	Use:   "list",
	Short: "Show all of the accounts in your keystore",
	Long:  ``,
	Run: func(cmd *cobra.Command, args []string) {
		w := keystoreWallet()
		defer w.Close()
		accs := w.List()
		appUI.Section("Keystore " + w.Dir())
		if len(accs) == 0 {
			appUI.Info("No accounts yet. Add one with: provenance wallet import")
			return
		}
		rows := make([][]string, 0, len(accs))
		for i, acc := range accs {
			rows = append(rows, []string{fmt.Sprintf("%d", i+1), acc.Address.Hex(), acc.URL.Path})
		}
		appUI.Table([]string{"#", "Address", "Key file"}, rows)
	},
}

var importWalletCmd = &cobra.Command{
	Use:   "import",
	Short: "Import a private key into your keystore",
	Long: `Asks for a hex private key and a passphrase, then stores the key
encrypted in the keystore directory.`,
	Run: func(cmd *cobra.Command, args []string) {
		key, ok := appUI.AskSecret("Private key (hex): ")
		if !ok {
			appUI.Warn("Aborted")
			return
		}
		pass, ok := appUI.AskSecret("Passphrase: ")
		if !ok {
			appUI.Warn("Aborted")
			return
		}
		again, _ := appUI.AskSecret("Repeat passphrase: ")
		if again != pass {
			appUI.Error("Passphrases do not match")
			return
		}

		w := keystoreWallet()
		defer w.Close()
		addr, err := w.ImportKey(strings.TrimSpace(key), pass)
		if err != nil {
			if pcommon.IsUserFacing(err) {
				appUI.Error("%s", err)
			} else {
				appUI.Error("Failed to import key: %s", err)
			}
			return
		}
		appUI.Success("Imported %s into %s", addr.Hex(), w.Dir())
	},
}

func init() {
	walletCmd.AddCommand(listWalletCmd)
	walletCmd.AddCommand(importWalletCmd)
	rootCmd.AddCommand(walletCmd)
}
