package chains

import (
	"context"
	"math/big"
	"strings"

	"github.com/sigweihq/web3provider/pkg/types"
)

// Endpoint is a read-only handle on a chain (the provider's current endpoint)
type Endpoint interface {
	// ChainID queries the chain id reported by the endpoint
	ChainID(ctx context.Context) (types.ChainID, error)

	// NativeBalance returns the native coin balance of an address in base units
	NativeBalance(ctx context.Context, address string) (*big.Int, error)

	// TransactionStatus reports whether a submitted transaction has been confirmed
	TransactionStatus(ctx context.Context, txHash string) (TxStatus, error)

	// Close releases the underlying connections
	Close()
}

// Signer authorizes state-mutating transactions for a selected account
// Only available while an account is connected
type Signer interface {
	// Address returns the account the signer acts for
	Address() string

	// SendTransaction asks the wallet to sign and broadcast a transaction, returning its hash
	SendTransaction(ctx context.Context, tx TxRequest) (string, error)
}

// TxRequest is a chain-agnostic transaction request
// Fields left empty are filled in by the wallet
type TxRequest struct {
	To    string
	Data  []byte
	Value *big.Int
	Gas   uint64
}

// TxStatus is the confirmation state of a submitted transaction
type TxStatus int

const (
	TxPending TxStatus = iota
	TxConfirmed
	TxFailed
)

func (s TxStatus) String() string {
	switch s {
	case TxConfirmed:
		return "confirmed"
	case TxFailed:
		return "failed"
	default:
		return "pending"
	}
}

// TxURL builds the block explorer link of a transaction
func TxURL(explorerURL, txHash string) string {
	return strings.TrimRight(explorerURL, "/") + "/tx/" + txHash
}

// AddressURL builds the block explorer link of an address
func AddressURL(explorerURL, address string) string {
	return strings.TrimRight(explorerURL, "/") + "/address/" + address
}
