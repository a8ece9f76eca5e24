package svm

import (
	"fmt"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/sigweihq/web3provider/pkg/chains"
)

// ParseAddress decodes a base58 account address
func ParseAddress(address string) (solana.PublicKey, error) {
	key, err := solana.PublicKeyFromBase58(address)
	if err != nil {
		return solana.PublicKey{}, fmt.Errorf("invalid SVM address %q: %w", address, err)
	}
	return key, nil
}

// ParseSignature decodes a base58 transaction signature
// SVM signatures never carry a 0x prefix
func ParseSignature(signature string) (solana.Signature, error) {
	sig, err := solana.SignatureFromBase58(signature)
	if err != nil {
		return solana.Signature{}, fmt.Errorf("invalid SVM transaction signature %q: %w", signature, err)
	}
	return sig, nil
}

// AddressesEqual compares two addresses
// SVM addresses are case-sensitive (base58 encoding)
func AddressesEqual(addr1, addr2 string) bool {
	return addr1 == addr2
}

// SignatureStatus maps a signature status to a transaction status
// Unknown signatures and processed-only transactions are still pending
func SignatureStatus(status *rpc.SignatureStatusesResult) chains.TxStatus {
	if status == nil {
		return chains.TxPending
	}
	if status.Err != nil {
		return chains.TxFailed
	}
	switch status.ConfirmationStatus {
	case rpc.ConfirmationStatusConfirmed, rpc.ConfirmationStatusFinalized:
		return chains.TxConfirmed
	default:
		return chains.TxPending
	}
}
