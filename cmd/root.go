package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Mohsinsiddi/w3go/internal/config"
	"github.com/Mohsinsiddi/w3go/internal/provider"
	"github.com/Mohsinsiddi/w3go/internal/wallet"
)

// Version is the current release. Overridable via build ldflags:
//
//	go build -ldflags "-X github.com/Mohsinsiddi/w3go/cmd.Version=1.2.3" .
var Version = "0.1.0"

var (
	cfgDir      string
	cfg         *config.Config
	networkFlag string
	rpcFlag     []string
	verbose     bool
)

// rootCmd is the top-level command.
var rootCmd = &cobra.Command{
	Use:   "w3go",
	Short: "EVM chain access from the terminal",
	Long: `w3go — typed reads and writes against EVM chains and their contracts.

Connects to one of an ordered list of RPC endpoints with automatic
failover, dispatches contract calls by ABI, and signs and tracks
transactions through to their receipts.

The RPC endpoint comes from --rpc, then the environment
(RPC_URL > WEB3_PROVIDER_URI > ETH_RPC_URL), then the network's built-in
public endpoint.`,
	Version: Version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "help" || cmd.Name() == "completion" {
			return nil
		}
		var err error
		cfg, err = config.Load(cfgDir)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		if networkFlag == "" {
			networkFlag = cfg.DefaultNetwork
		}
		return nil
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	if envDir := os.Getenv("W3GO_CONFIG_DIR"); envDir != "" {
		cfgDir = envDir
	}

	rootCmd.PersistentFlags().StringVar(&cfgDir, "config", cfgDir, "config directory (default: ~/.w3go)")
	rootCmd.PersistentFlags().StringVar(&networkFlag, "network", "", "network name (default: configured network)")
	rootCmd.PersistentFlags().StringSliceVar(&rpcFlag, "rpc", nil, "RPC endpoint URL(s), in failover order")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	rootCmd.AddCommand(
		balanceCmd,
		blockCmd,
		gasCmd,
		callCmd,
		sendCmd,
		estimateCmd,
		signCmd,
		receiptCmd,
		walletCmd,
		contractCmd,
		networkCmd,
	)
}

// newLogger returns a development logger when --verbose is set, else no-op.
func newLogger() *zap.Logger {
	if !verbose {
		return zap.NewNop()
	}
	log, err := zap.NewDevelopment()
	if err != nil {
		return zap.NewNop()
	}
	return log
}

// newProvider builds a provider for the selected network, resolving RPC
// URLs from flags, configured custom RPCs, environment, or the network's
// built-in public endpoint.
func newProvider() (*provider.Provider, error) {
	urls := rpcFlag
	if len(urls) == 0 {
		urls = cfg.GetRPCs(networkFlag)
	}
	urls, source, err := config.ResolveRPCURLs(urls, networkFlag)
	if err != nil {
		return nil, err
	}
	if verbose {
		fmt.Fprintf(os.Stderr, "using RPC from %s\n", source)
	}
	return provider.ForNetwork(networkFlag, urls, provider.WithLogger(newLogger()))
}

// newSigner builds a signer from --key, the WALLET_PRIVATE_KEY env var, or
// the default stored account, in that order.
func newSigner(explicitKey string) (*wallet.Signer, error) {
	key, err := config.ResolvePrivateKey(explicitKey)
	if err == nil {
		return wallet.New(key)
	}
	m := newWalletManager()
	if acct := m.Default(); acct != nil && acct.Type == wallet.TypeSigning {
		return m.SignerFor(acct.Name)
	}
	return nil, err
}
