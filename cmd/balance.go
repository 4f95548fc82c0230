package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Mohsinsiddi/w3go/internal/chain"
	"github.com/Mohsinsiddi/w3go/internal/ui"
)

var balanceCmd = &cobra.Command{
	Use:   "balance <address>",
	Short: "Check the native balance of an address",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		prov, err := newProvider()
		if err != nil {
			return err
		}
		defer prov.Close() //nolint:errcheck

		wei, err := prov.BalanceOf(args[0])
		if err != nil {
			return err
		}

		currency := "ETH"
		if n := prov.Network(); n != nil {
			currency = n.NativeCurrency
		}
		fmt.Printf("%s  %s %s\n",
			ui.StyleAddress.Render(args[0]),
			ui.StyleValue.Render(chain.WeiToETH(wei)),
			currency)
		return nil
	},
}

var blockCmd = &cobra.Command{
	Use:   "block-number",
	Short: "Print the latest block number",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		prov, err := newProvider()
		if err != nil {
			return err
		}
		defer prov.Close() //nolint:errcheck

		n, err := prov.BlockNumber()
		if err != nil {
			return err
		}
		fmt.Println(n)
		return nil
	},
}

var gasCmd = &cobra.Command{
	Use:   "gas-price",
	Short: "Print the current gas price in wei",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		prov, err := newProvider()
		if err != nil {
			return err
		}
		defer prov.Close() //nolint:errcheck

		gp, err := prov.GasPrice()
		if err != nil {
			return err
		}
		fmt.Println(gp.String())
		return nil
	},
}
