package evm

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/sigweihq/web3provider/pkg/chains"
	"github.com/sigweihq/web3provider/pkg/constants"
	"github.com/sigweihq/web3provider/pkg/walleterrors"
)

// WalletSigner implements chains.Signer by delegating signing to the wallet (eth_sendTransaction)
type WalletSigner struct {
	caller  Caller
	address string
}

// NewWalletSigner creates a signer for the given selected account
func NewWalletSigner(caller Caller, address string) *WalletSigner {
	return &WalletSigner{
		caller:  caller,
		address: address,
	}
}

var _ chains.Signer = (*WalletSigner)(nil)

// Address implements chains.Signer
func (s *WalletSigner) Address() string {
	return s.address
}

// SendTransaction implements chains.Signer
// May block until the user approves or rejects the request in the wallet
func (s *WalletSigner) SendTransaction(ctx context.Context, tx chains.TxRequest) (string, error) {
	from, err := ParseAddress(s.address)
	if err != nil {
		return "", err
	}

	params := map[string]any{
		"from": from,
	}
	if tx.To != "" {
		to, err := ParseAddress(tx.To)
		if err != nil {
			return "", err
		}
		params["to"] = to
	}
	if len(tx.Data) > 0 {
		params["data"] = hexutil.Bytes(tx.Data)
	}
	if tx.Value != nil {
		params["value"] = (*hexutil.Big)(tx.Value)
	}
	if tx.Gas > 0 {
		params["gas"] = hexutil.Uint64(tx.Gas)
	}

	var hash common.Hash
	if err := s.caller.CallContext(ctx, &hash, constants.MethodSendTransaction, params); err != nil {
		return "", walleterrors.Normalize(err)
	}
	return hash.Hex(), nil
}
