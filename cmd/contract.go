package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Mohsinsiddi/w3go/internal/config"
	"github.com/Mohsinsiddi/w3go/internal/contract"
	"github.com/Mohsinsiddi/w3go/internal/ui"
)

var contractAddABI string

var contractCmd = &cobra.Command{
	Use:   "contract",
	Short: "Manage the registered contract list",
	Long: `Register contracts by name so call/send/estimate can refer to them
without repeating the address and --abi every time. Entries live in
contracts.json in the config directory, scoped to a network.`,
}

var contractAddCmd = &cobra.Command{
	Use:   "add <name> <address>",
	Short: "Register a contract under a name",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if contractAddABI == "" {
			return fmt.Errorf("--abi is required")
		}
		raw, err := os.ReadFile(contractAddABI)
		if err != nil {
			return err
		}
		// Validate before persisting; the raw artifact is embedded as-is.
		if _, err := contract.ParseABI(raw); err != nil {
			return fmt.Errorf("invalid ABI %s: %w", contractAddABI, err)
		}

		cf, err := cfg.LoadContracts()
		if err != nil {
			return err
		}
		for _, e := range cf.Contracts {
			if e.Name == args[0] && e.Network == networkFlag {
				return fmt.Errorf("contract %q already registered for network %s", args[0], networkFlag)
			}
		}
		cf.Contracts = append(cf.Contracts, config.ContractEntry{
			Name:    args[0],
			Network: networkFlag,
			Address: args[1],
			ABI:     raw,
		})
		if err := cfg.SaveContracts(cf); err != nil {
			return err
		}
		fmt.Println("registered", args[0], "at", ui.StyleAddress.Render(args[1]))
		return nil
	},
}

var contractListCmd = &cobra.Command{
	Use:   "list",
	Short: "List registered contracts",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cf, err := cfg.LoadContracts()
		if err != nil {
			return err
		}
		if len(cf.Contracts) == 0 {
			fmt.Println(ui.StyleMeta.Render("no contracts registered; use 'contract add'"))
			return nil
		}
		for _, e := range cf.Contracts {
			fmt.Printf("%-16s %s %s\n",
				e.Name,
				ui.StyleAddress.Render(e.Address),
				ui.StyleChain.Render(e.Network))
		}
		return nil
	},
}

var contractRemoveCmd = &cobra.Command{
	Use:   "remove <name>",
	Short: "Remove a registered contract",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cf, err := cfg.LoadContracts()
		if err != nil {
			return err
		}
		kept := cf.Contracts[:0]
		removed := false
		for _, e := range cf.Contracts {
			if e.Name == args[0] && e.Network == networkFlag {
				removed = true
				continue
			}
			kept = append(kept, e)
		}
		if !removed {
			return fmt.Errorf("no contract %q registered for network %s", args[0], networkFlag)
		}
		cf.Contracts = kept
		return cfg.SaveContracts(cf)
	},
}

// findRegisteredContract looks a name up in contracts.json for the selected
// network. Entries without a network match any.
func findRegisteredContract(name string) (*config.ContractEntry, error) {
	cf, err := cfg.LoadContracts()
	if err != nil {
		return nil, err
	}
	for i := range cf.Contracts {
		e := &cf.Contracts[i]
		if e.Name == name && (e.Network == "" || e.Network == networkFlag) {
			return e, nil
		}
	}
	return nil, fmt.Errorf("no contract %q registered for network %s", name, networkFlag)
}

func init() {
	contractAddCmd.Flags().StringVar(&contractAddABI, "abi", "", "path to the contract ABI file")
	contractCmd.AddCommand(contractAddCmd, contractListCmd, contractRemoveCmd)
}
