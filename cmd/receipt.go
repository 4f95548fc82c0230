package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/Mohsinsiddi/w3go/internal/ui"
)

var receiptTimeout time.Duration

var receiptCmd = &cobra.Command{
	Use:   "receipt <tx-hash>",
	Short: "Wait for a transaction receipt",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		prov, err := newProvider()
		if err != nil {
			return err
		}
		defer prov.Close() //nolint:errcheck

		receipt, err := prov.WaitForReceipt(args[0], receiptTimeout)
		if err != nil {
			return err
		}

		status := ui.StyleSuccess.Render("success")
		if receipt.Status == 0 {
			status = ui.StyleError.Render("reverted")
		}
		fmt.Printf("status:   %s\nblock:    %d\ngas used: %d\n", status, receipt.BlockNumber, receipt.GasUsed)
		if receipt.ContractAddress != "" {
			fmt.Printf("deployed: %s\n", ui.StyleAddress.Render(receipt.ContractAddress))
		}
		if n := prov.Network(); n != nil {
			if url := n.TxURL(args[0]); url != "" {
				fmt.Println(ui.StyleMeta.Render(url))
			}
		}
		return nil
	},
}

func init() {
	receiptCmd.Flags().DurationVar(&receiptTimeout, "timeout", 3*time.Minute, "how long to wait for the receipt")
}
