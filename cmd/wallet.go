package cmd

import (
	"fmt"
	"os"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/Mohsinsiddi/w3go/internal/ui"
	"github.com/Mohsinsiddi/w3go/internal/wallet"
)

var walletCmd = &cobra.Command{
	Use:   "wallet",
	Short: "Create, import, and export wallets",
}

var walletNewCmd = &cobra.Command{
	Use:   "new",
	Short: "Generate a fresh keypair and print its address",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		signer, err := wallet.Generate()
		if err != nil {
			return err
		}
		fmt.Println(ui.StyleAddress.Render(signer.Address().Hex()))
		fmt.Println(ui.StyleMeta.Render("the key exists only in this process; export it to keep it"))
		return nil
	},
}

var walletExportCmd = &cobra.Command{
	Use:   "export <destination>",
	Short: "Export the key as an encrypted JSON keystore",
	Long: `Export the private key (from --key or WALLET_PRIVATE_KEY) to a
password-encrypted geth keystore file. The password is read from the
terminal, never from flags.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		signer, err := newSigner(walletExportKey)
		if err != nil {
			return err
		}

		password, err := readPassword("keystore password: ")
		if err != nil {
			return err
		}

		if err := signer.Export(password, args[0]); err != nil {
			return err
		}
		fmt.Println("exported", ui.StyleAddress.Render(signer.Address().Hex()), "to", args[0])
		return nil
	},
}

var walletExportKey string

var walletUnlockCmd = &cobra.Command{
	Use:   "unlock <keystore-file>",
	Short: "Decrypt a keystore file and print its address",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		password, err := readPassword("keystore password: ")
		if err != nil {
			return err
		}

		signer, err := wallet.FromKeystore(args[0], password)
		if err != nil {
			return err
		}
		fmt.Println(ui.StyleAddress.Render(signer.Address().Hex()))
		return nil
	},
}

var walletImportCmd = &cobra.Command{
	Use:   "import <name>",
	Short: "Import a private key into the OS keychain under a name",
	Long: `Store a private key in the OS keychain and register a named signing
account for it. The key is read from the terminal, never from flags or
arguments, so it stays out of shell history and the process list.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, err := readPassword("private key: ")
		if err != nil {
			return err
		}

		acct, err := newWalletManager().ImportKey(args[0], key)
		if err != nil {
			return err
		}
		fmt.Println("imported", args[0], "as", ui.StyleAddress.Render(acct.Address))
		return nil
	},
}

var walletListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored accounts",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		accounts := newWalletManager().List()
		if len(accounts) == 0 {
			fmt.Println(ui.StyleMeta.Render("no accounts; use 'wallet import' or 'wallet watch'"))
			return nil
		}
		for _, a := range accounts {
			marker := " "
			if a.IsDefault {
				marker = "*"
			}
			fmt.Printf("%s %-16s %s %s\n",
				marker, a.Name,
				ui.StyleAddress.Render(a.Address),
				ui.StyleMeta.Render(a.Type))
		}
		return nil
	},
}

var walletWatchCmd = &cobra.Command{
	Use:   "watch <name> <address>",
	Short: "Register a watch-only address",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := newWalletManager().AddWatchOnly(args[0], args[1]); err != nil {
			return err
		}
		fmt.Println("watching", ui.StyleAddress.Render(args[1]), "as", args[0])
		return nil
	},
}

var walletUseCmd = &cobra.Command{
	Use:   "use <name>",
	Short: "Make an account the default signer",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return newWalletManager().SetDefault(args[0])
	},
}

var walletRemoveCmd = &cobra.Command{
	Use:   "remove <name>",
	Short: "Remove an account and its stored key",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return newWalletManager().Remove(args[0])
	},
}

// newWalletManager binds the account manager to the config dir's metadata
// file; keys live in the OS keychain.
func newWalletManager() *wallet.Manager {
	return wallet.NewManager(wallet.WithStore(wallet.NewFileStore(cfg.AccountsPath())))
}

func readPassword(prompt string) (string, error) {
	fmt.Fprint(os.Stderr, prompt)
	pw, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("reading password: %w", err)
	}
	return string(pw), nil
}

func init() {
	walletExportCmd.Flags().StringVar(&walletExportKey, "key", "", "hex private key (default: WALLET_PRIVATE_KEY)")
	walletCmd.AddCommand(
		walletNewCmd,
		walletImportCmd,
		walletListCmd,
		walletWatchCmd,
		walletUseCmd,
		walletRemoveCmd,
		walletExportCmd,
		walletUnlockCmd,
	)
}
