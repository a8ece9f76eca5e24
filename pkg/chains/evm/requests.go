package evm

import (
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/sigweihq/web3provider/pkg/types"
)

// SwitchChainParams is the payload of wallet_switchEthereumChain
type SwitchChainParams struct {
	ChainID string `json:"chainId"`
}

// NativeCurrency describes a chain's native coin for wallet_addEthereumChain
type NativeCurrency struct {
	Name     string `json:"name"`
	Symbol   string `json:"symbol"`
	Decimals int    `json:"decimals"`
}

// AddChainParams is the payload of wallet_addEthereumChain
type AddChainParams struct {
	ChainID           string          `json:"chainId"`
	ChainName         string          `json:"chainName"`
	RPCURLs           []string        `json:"rpcUrls"`
	NativeCurrency    *NativeCurrency `json:"nativeCurrency,omitempty"`
	BlockExplorerURLs []string        `json:"blockExplorerUrls,omitempty"`
}

// HexChainID encodes a canonical EVM chain id the way wallets expect it ("0x13881")
func HexChainID(id types.ChainID) (string, error) {
	v, ok := types.CanonicalChainID(id).Uint64()
	if !ok {
		return "", &UnsupportedChainError{ChainID: id.String()}
	}
	return hexutil.EncodeUint64(v), nil
}

// NewSwitchChainParams builds the wallet_switchEthereumChain payload
func NewSwitchChainParams(id types.ChainID) (SwitchChainParams, error) {
	hexID, err := HexChainID(id)
	if err != nil {
		return SwitchChainParams{}, err
	}
	return SwitchChainParams{ChainID: hexID}, nil
}

// NewAddChainParams builds the wallet_addEthereumChain payload
// Currency and explorer come from the descriptor when the chain is known
func NewAddChainParams(id types.ChainID, name, rpcURL string, descriptor types.ChainDescriptor) (AddChainParams, error) {
	hexID, err := HexChainID(id)
	if err != nil {
		return AddChainParams{}, err
	}

	params := AddChainParams{
		ChainID:   hexID,
		ChainName: name,
		RPCURLs:   []string{rpcURL},
	}
	if descriptor.Symbol != "" {
		params.NativeCurrency = &NativeCurrency{
			Name:     descriptor.Symbol,
			Symbol:   descriptor.Symbol,
			Decimals: descriptor.Decimals,
		}
	}
	if descriptor.ExplorerURL != "" {
		params.BlockExplorerURLs = []string{descriptor.ExplorerURL}
	}
	return params, nil
}
