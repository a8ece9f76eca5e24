package evm

import (
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	ethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/sigweihq/web3provider/pkg/chains"
)

// NormalizeTxHash validates a transaction hash and adds the 0x prefix if missing
func NormalizeTxHash(txHash string) (string, error) {
	if txHash == "" {
		return "", fmt.Errorf("empty transaction hash")
	}

	if !strings.HasPrefix(txHash, "0x") {
		txHash = "0x" + txHash
	}

	if len(txHash) != 66 { // 0x + 64 hex chars
		return "", fmt.Errorf("invalid transaction hash format: %s", txHash)
	}

	return txHash, nil
}

// ParseAddress validates and parses a hex account address
func ParseAddress(address string) (common.Address, error) {
	if !common.IsHexAddress(address) {
		return common.Address{}, fmt.Errorf("%w: %q", ErrInvalidAddress, address)
	}
	return common.HexToAddress(address), nil
}

// AddressesEqual compares two addresses
// EVM addresses are case-insensitive due to EIP-55 checksumming
func AddressesEqual(addr1, addr2 string) bool {
	return strings.EqualFold(addr1, addr2)
}

// ReceiptStatus maps a mined receipt to a confirmation status
func ReceiptStatus(receipt *ethtypes.Receipt) chains.TxStatus {
	if receipt == nil {
		return chains.TxPending
	}
	if receipt.Status == ethtypes.ReceiptStatusSuccessful {
		return chains.TxConfirmed
	}
	return chains.TxFailed
}
