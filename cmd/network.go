package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Mohsinsiddi/w3go/internal/chain"
	"github.com/Mohsinsiddi/w3go/internal/ui"
)

var networkCmd = &cobra.Command{
	Use:   "network",
	Short: "Inspect supported networks",
}

var networkListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all supported networks",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, n := range chain.NewRegistry().All() {
			poa := ""
			if n.PoA {
				poa = ui.StyleMeta.Render(" (PoA)")
			}
			fmt.Printf("%-12s %s%s  chain-id %d  %s\n",
				n.Name,
				ui.StyleChain.Render(n.DisplayName),
				poa,
				n.ChainID,
				ui.StyleMeta.Render(n.DefaultRPC))
		}
		return nil
	},
}

func init() {
	networkCmd.AddCommand(networkListCmd)
}
