package evm

import (
	"context"
	"encoding/json"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/sigweihq/web3provider/pkg/chains"
	"github.com/sigweihq/web3provider/pkg/constants"
	"github.com/sigweihq/web3provider/pkg/types"
	"github.com/sigweihq/web3provider/pkg/walleterrors"
)

// Caller issues JSON-RPC requests
// Satisfied by go-ethereum's *rpc.Client and by every WalletProvider
type Caller interface {
	CallContext(ctx context.Context, result any, method string, args ...any) error
}

// CallerEndpoint implements chains.Endpoint on top of a wallet's own JSON-RPC transport
type CallerEndpoint struct {
	caller Caller
}

// NewCallerEndpoint creates an endpoint that reads through the given caller
func NewCallerEndpoint(caller Caller) *CallerEndpoint {
	return &CallerEndpoint{caller: caller}
}

var _ chains.Endpoint = (*CallerEndpoint)(nil)

// ChainID implements chains.Endpoint
func (e *CallerEndpoint) ChainID(ctx context.Context) (types.ChainID, error) {
	var id hexutil.Big
	if err := e.caller.CallContext(ctx, &id, constants.MethodChainID); err != nil {
		return "", walleterrors.Normalize(err)
	}
	return types.CanonicalChainID(id.ToInt()), nil
}

// NativeBalance implements chains.Endpoint
func (e *CallerEndpoint) NativeBalance(ctx context.Context, address string) (*big.Int, error) {
	account, err := ParseAddress(address)
	if err != nil {
		return nil, err
	}

	var balance hexutil.Big
	if err := e.caller.CallContext(ctx, &balance, constants.MethodGetBalance, account, "latest"); err != nil {
		return nil, walleterrors.Normalize(err)
	}
	return balance.ToInt(), nil
}

// TransactionStatus implements chains.Endpoint
func (e *CallerEndpoint) TransactionStatus(ctx context.Context, txHash string) (chains.TxStatus, error) {
	hash, err := NormalizeTxHash(txHash)
	if err != nil {
		return chains.TxPending, err
	}

	var raw json.RawMessage
	if err := e.caller.CallContext(ctx, &raw, constants.MethodGetReceipt, common.HexToHash(hash)); err != nil {
		return chains.TxPending, walleterrors.Normalize(err)
	}
	if len(raw) == 0 || string(raw) == "null" {
		return chains.TxPending, nil
	}

	// Only the status field matters here
	var receipt struct {
		Status hexutil.Uint64 `json:"status"`
	}
	if err := json.Unmarshal(raw, &receipt); err != nil {
		return chains.TxPending, err
	}
	if receipt.Status == 1 {
		return chains.TxConfirmed, nil
	}
	return chains.TxFailed, nil
}

// Close implements chains.Endpoint
// The caller is owned by the wallet provider and is left open
func (e *CallerEndpoint) Close() {}
