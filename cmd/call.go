package cmd

import (
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"

	"github.com/Mohsinsiddi/w3go/internal/config"
	"github.com/Mohsinsiddi/w3go/internal/contract"
	"github.com/Mohsinsiddi/w3go/internal/ui"
)

var (
	callABIFile string
	sendABIFile string
	sendKey     string
	sendValue   string
	sendWait    bool
	estABIFile  string
	estKey      string
)

var callCmd = &cobra.Command{
	Use:   "call <contract-address> <function> [args...]",
	Short: "Call a read-only contract function",
	Long: `Call a view/pure contract function and print the decoded result.

The ABI is loaded from --abi (a bare array or a Hardhat/Foundry artifact).
A name registered with 'contract add' may stand in for address and ABI.

Example:
  w3go call 0xA0b8...eB48 balanceOf 0xd8dA...6045 --abi erc20.json`,
	Args: cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := loadContract(args[0], callABIFile)
		if err != nil {
			return err
		}

		values, err := c.Call(args[1], args[2:]...)
		if err != nil {
			return err
		}
		fmt.Println(strings.Join(values, "\n"))
		return nil
	},
}

var sendCmd = &cobra.Command{
	Use:   "send <contract-address> <function> [args...]",
	Short: "Send a state-changing contract transaction",
	Long: `Encode and send a nonpayable/payable contract call, signed with
--key or WALLET_PRIVATE_KEY. Prints the transaction hash; with --wait the
command blocks until the receipt arrives.`,
	Args: cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := loadContract(args[0], sendABIFile)
		if err != nil {
			return err
		}

		signer, err := newSigner(sendKey)
		if err != nil {
			return err
		}

		opts := &contract.CallOpts{Signer: signer}
		if sendValue != "" {
			v, ok := new(big.Int).SetString(sendValue, 10)
			if !ok {
				return fmt.Errorf("invalid --value %q (wei expected)", sendValue)
			}
			opts.Value = v
		}

		hash, err := c.Send(args[1], opts, args[2:]...)
		if err != nil {
			return err
		}
		fmt.Println(ui.StyleAddress.Render(hash))

		if !sendWait {
			return nil
		}

		prov, err := newProvider()
		if err != nil {
			return err
		}
		defer prov.Close() //nolint:errcheck
		receipt, err := prov.WaitForReceipt(hash, 3*time.Minute)
		if err != nil {
			return err
		}
		if receipt.Status == 1 {
			fmt.Println(ui.StyleSuccess.Render("confirmed"), "block", receipt.BlockNumber)
		} else {
			fmt.Println(ui.StyleError.Render("reverted"), "block", receipt.BlockNumber)
		}
		return nil
	},
}

var estimateCmd = &cobra.Command{
	Use:   "estimate <contract-address> <function> [args...]",
	Short: "Estimate gas for a contract call without sending it",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := loadContract(args[0], estABIFile)
		if err != nil {
			return err
		}

		opts := &contract.CallOpts{}
		if signer, err := newSigner(estKey); err == nil {
			opts.Signer = signer
		}

		gas, err := c.Estimate(args[1], args[2:], opts)
		if err != nil {
			return err
		}
		fmt.Println(gas)
		return nil
	},
}

// loadContract resolves the first positional argument: a 0x address paired
// with --abi, or the name of an entry registered via 'contract add'.
func loadContract(ref, abiFile string) (*contract.Contract, error) {
	address := ref
	var abi []contract.Entry
	var err error

	switch {
	case common.IsHexAddress(ref):
		if abiFile == "" {
			return nil, fmt.Errorf("--abi is required when calling by address")
		}
		abi, err = contract.LoadFromFile(abiFile)
	default:
		var entry *config.ContractEntry
		entry, err = findRegisteredContract(ref)
		if err != nil {
			return nil, err
		}
		address = entry.Address
		switch {
		case abiFile != "":
			abi, err = contract.LoadFromFile(abiFile)
		case len(entry.ABI) > 0:
			abi, err = contract.ParseABI(entry.ABI)
		case entry.ABIFile != "":
			abi, err = contract.LoadFromFile(entry.ABIFile)
		default:
			return nil, fmt.Errorf("contract %q has no ABI registered", ref)
		}
	}
	if err != nil {
		return nil, err
	}

	prov, err := newProvider()
	if err != nil {
		return nil, err
	}
	return contract.New(address, abi, prov)
}

func init() {
	callCmd.Flags().StringVar(&callABIFile, "abi", "", "path to the contract ABI file")
	sendCmd.Flags().StringVar(&sendABIFile, "abi", "", "path to the contract ABI file")
	sendCmd.Flags().StringVar(&sendKey, "key", "", "hex private key (default: WALLET_PRIVATE_KEY)")
	sendCmd.Flags().StringVar(&sendValue, "value", "", "native value to attach, in wei")
	sendCmd.Flags().BoolVar(&sendWait, "wait", false, "block until the receipt arrives")
	estimateCmd.Flags().StringVar(&estABIFile, "abi", "", "path to the contract ABI file")
	estimateCmd.Flags().StringVar(&estKey, "key", "", "hex private key for the from address (optional)")
}
