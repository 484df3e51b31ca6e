package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"go.uber.org/zap"

	pcommon "github.com/tranvictor/provenance/common"
	"github.com/tranvictor/provenance/config"
	"github.com/tranvictor/provenance/contract"
	"github.com/tranvictor/provenance/networks"
	"github.com/tranvictor/provenance/panel"
	"github.com/tranvictor/provenance/session"
	"github.com/tranvictor/provenance/shell"
	"github.com/tranvictor/provenance/ui"
	"github.com/tranvictor/provenance/util/account"
	"github.com/tranvictor/provenance/util/broadcaster"
	"github.com/tranvictor/provenance/util/logger"
	"github.com/tranvictor/provenance/util/monitor"
	"github.com/tranvictor/provenance/util/reader"
	"github.com/tranvictor/provenance/util/transactor"
	"github.com/tranvictor/provenance/wallet"
)

var appUI ui.UI = ui.NewTerminalUI()

// app is everything one command needs, wired from config.
type app struct {
	network networks.Network
	client  *contract.Client
	wallet  wallet.Wallet
	manager *session.Manager
	env     panel.Env
	shell   *shell.Shell
	logger  *zap.Logger
}

func nodes(n networks.Network) map[string]string {
	if config.RPC != "" {
		return map[string]string{"custom-rpc": config.RPC}
	}
	return networks.Nodes(n)
}

func contractAddress(n networks.Network) string {
	if config.Contract != "" {
		return config.Contract
	}
	return networks.Contract(n)
}

func newWallet(l *zap.Logger) (wallet.Wallet, error) {
	if config.PrivateKey != "" {
		w, err := wallet.NewKeyWalletFromHex(config.PrivateKey)
		if err != nil {
			return nil, fmt.Errorf("invalid PROVENANCE_PRIVATE_KEY: %w", err)
		}
		return w, nil
	}
	w := wallet.NewKeystoreWallet(config.Keystore, wallet.KeystoreOptions{
		Hint:   config.From,
		Logger: l,
	})
	if config.Passphrase != "" {
		n := w.Preauthorize(config.Passphrase)
		l.Debug("preauthorized keystore accounts", zap.Int("count", n))
	}
	return w, nil
}

func newApp() (*app, error) {
	l := logger.L()
	n, err := networks.GetNetwork(config.Network)
	if err != nil {
		return nil, err
	}
	addrText := contractAddress(n)
	if addrText == "" {
		return nil, fmt.Errorf("no warranty contract is deployed on %s, pass --contract", n.GetName())
	}
	addr, err := pcommon.ParseAddress(addrText)
	if err != nil {
		return nil, fmt.Errorf("invalid contract address %s: %w", addrText, err)
	}
	fromBlock := config.FromBlock
	if fromBlock == 0 {
		fromBlock = n.GetDeployBlock()
	}

	r := reader.NewEthReaderGeneric(nodes(n))
	b := broadcaster.NewBroadcaster(r.Nodes()...)
	m := monitor.NewGenericTxMonitor(r)
	t := transactor.NewTransactor(r, b, m, transactor.Settings{
		GasLimit:      config.GasLimit,
		ExtraGasLimit: config.ExtraGasLimit,
		GasPrice:      config.GasPrice,
		ExtraGasPrice: config.ExtraGasPrice,
		TipGas:        config.TipGas,
		ForceLegacy:   config.ForceLegacy,
	})
	client := contract.New(addr, r, t, nil).WithFromBlock(fromBlock)

	w, err := newWallet(l)
	if err != nil {
		return nil, err
	}
	manager := session.NewManager(w, func(s account.Signer) session.RoleReader {
		return client.WithSigner(s)
	}, l)
	env := panel.NewEnv(appUI, panel.ClientBinder(client), l)

	l.Info("provenance started",
		zap.String("network", n.GetName()),
		zap.String("contract", addr.Hex()),
		zap.Uint64("fromBlock", fromBlock),
	)
	return &app{
		network: n,
		client:  client,
		wallet:  w,
		manager: manager,
		env:     env,
		shell:   shell.New(manager, env),
		logger:  l,
	}, nil
}

func (a *app) Close() {
	if c, ok := a.wallet.(interface{ Close() }); ok {
		c.Close()
	}
}

// interruptible cancels on ctrl-c.
func interruptible(ctx context.Context) (context.Context, context.CancelFunc) {
	if ctx == nil {
		ctx = context.Background()
	}
	return signal.NotifyContext(ctx, os.Interrupt)
}

func runShell(ctx context.Context) {
	a, err := newApp()
	if err != nil {
		appUI.Error("%s", err)
		return
	}
	defer a.Close()
	ctx, cancel := interruptible(ctx)
	defer cancel()
	if err := a.shell.Run(ctx); err != nil && ctx.Err() == nil {
		appUI.Error("%s", err)
	}
}

// oneShot runs fn with an established session. Panel failures are
// already reported through the UI by the time fn returns.
func oneShot(ctx context.Context, fn func(ctx context.Context, a *app, sc session.Context)) {
	a, err := newApp()
	if err != nil {
		appUI.Error("%s", err)
		return
	}
	defer a.Close()
	ctx, cancel := interruptible(ctx)
	defer cancel()
	sc, ok := a.shell.Establish(ctx)
	if !ok {
		return
	}
	fn(ctx, a, sc)
}
