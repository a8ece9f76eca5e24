package chains

import (
	"github.com/sigweihq/web3provider/pkg/constants"
	"github.com/sigweihq/web3provider/pkg/types"
)

// DefaultDescriptors returns the built-in chain table
// Configuration files override entries by id
func DefaultDescriptors() []types.ChainDescriptor {
	return []types.ChainDescriptor{
		evmChain(constants.ChainEthereum, "Ethereum", "https://etherscan.io", "ETH"),
		evmChain(constants.ChainGoerli, "Goerli", "https://goerli.etherscan.io", "GoerliETH"),
		evmChain(constants.ChainSepolia, "Sepolia", "https://sepolia.etherscan.io", "SepoliaETH"),
		evmChain(constants.ChainPolygonMumbai, "Polygon Mumbai", "https://mumbai.polygonscan.com", "MATIC"),
		evmChain(constants.ChainLocal, "Local Network", "", "LocalETH"),
		evmChain(constants.ChainLocalhost, "Localhost", "", "LocalETH"),
		solanaChain(constants.ChainSolanaDevnet, "Solana Devnet", "https://explorer.solana.com"),
		solanaChain(constants.ChainSolanaTestnet, "Solana Testnet", "https://explorer.solana.com"),
		solanaChain(constants.ChainSolanaMainnet, "Solana", "https://explorer.solana.com"),
	}
}

func evmChain(id, name, explorer, symbol string) types.ChainDescriptor {
	return types.ChainDescriptor{
		ID:          types.ChainID(id),
		Name:        name,
		RPCURL:      firstEndpoint(id),
		ExplorerURL: explorer,
		Symbol:      symbol,
		Decimals:    constants.NativeDecimalsEVM,
		Type:        types.ChainTypeEVM,
	}
}

func solanaChain(id, name, explorer string) types.ChainDescriptor {
	return types.ChainDescriptor{
		ID:          types.ChainID(id),
		Name:        name,
		RPCURL:      firstEndpoint(id),
		ExplorerURL: explorer,
		Symbol:      "SOL",
		Decimals:    constants.NativeDecimalsSolana,
		Type:        types.ChainTypeSolana,
	}
}

func firstEndpoint(id string) string {
	if endpoints := constants.OfficialRPCEndpoints[id]; len(endpoints) > 0 {
		return endpoints[0]
	}
	return ""
}
