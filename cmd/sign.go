package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Mohsinsiddi/w3go/internal/ui"
)

var signKey string

var signCmd = &cobra.Command{
	Use:   "sign <message>",
	Short: "Sign a message with EIP-191 (personal_sign)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		signer, err := newSigner(signKey)
		if err != nil {
			return err
		}

		sig, err := signer.SignMessage([]byte(args[0]))
		if err != nil {
			return err
		}

		fmt.Println("signer:   ", ui.StyleAddress.Render(signer.Address().Hex()))
		fmt.Printf("signature: 0x%x\n", sig)
		return nil
	},
}

func init() {
	signCmd.Flags().StringVar(&signKey, "key", "", "hex private key (default: WALLET_PRIVATE_KEY)")
}
