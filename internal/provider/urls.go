package provider

import "fmt"

// infuraNetwork maps network slugs to Infura network identifiers.
var infuraNetwork = map[string]string{
	"ethereum": "mainnet",
	"sepolia":  "sepolia",
	"polygon":  "polygon-mainnet",
	"arbitrum": "arbitrum-mainnet",
	"optimism": "optimism-mainnet",
}

// alchemyNetwork maps network slugs to Alchemy network identifiers.
var alchemyNetwork = map[string]string{
	"ethereum": "eth-mainnet",
	"sepolia":  "eth-sepolia",
	"polygon":  "polygon-mainnet",
	"arbitrum": "arb-mainnet",
	"optimism": "opt-mainnet",
	"base":     "base-mainnet",
}

// InfuraURL builds an Infura RPC URL for a network slug.
// Unknown networks fall back to Ethereum mainnet.
func InfuraURL(network, apiKey string) string {
	net, ok := infuraNetwork[network]
	if !ok {
		net = "mainnet"
	}
	return fmt.Sprintf("https://%s.infura.io/v3/%s", net, apiKey)
}

// AlchemyURL builds an Alchemy RPC URL for a network slug.
// Unknown networks fall back to Ethereum mainnet.
func AlchemyURL(network, apiKey string) string {
	net, ok := alchemyNetwork[network]
	if !ok {
		net = "eth-mainnet"
	}
	return fmt.Sprintf("https://%s.g.alchemy.com/v2/%s", net, apiKey)
}

// LocalURL builds the URL of a local development node (Hardhat, Anvil).
func LocalURL(port int) string {
	if port == 0 {
		port = 8545
	}
	return fmt.Sprintf("http://127.0.0.1:%d", port)
}
