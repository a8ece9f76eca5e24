package evm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"math/rand"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	ethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/sigweihq/web3provider/pkg/chains"
	"github.com/sigweihq/web3provider/pkg/constants"
	"github.com/sigweihq/web3provider/pkg/types"
)

// RPCClient implements chains.Endpoint for EVM chains over plain JSON-RPC HTTP endpoints
// It is read-only and fails over across all configured endpoints
type RPCClient struct {
	chainID   types.ChainID
	endpoints []string
}

// NewRPCClient creates a new EVM RPC client
func NewRPCClient(chainID types.ChainID, endpoints []string) *RPCClient {
	return &RPCClient{
		chainID:   chainID,
		endpoints: endpoints,
	}
}

// Verify RPCClient implements the endpoint interface
var _ chains.Endpoint = (*RPCClient)(nil)

// Endpoints returns the configured endpoints in failover order
func (r *RPCClient) Endpoints() []string {
	return r.endpoints
}

// ChainID implements chains.Endpoint
func (r *RPCClient) ChainID(ctx context.Context) (types.ChainID, error) {
	var id *big.Int
	err := r.withEndpoint(ctx, func(ctx context.Context, client *ethclient.Client) error {
		var err error
		id, err = client.ChainID(ctx)
		return err
	})
	if err != nil {
		return "", err
	}
	return types.CanonicalChainID(id), nil
}

// NativeBalance implements chains.Endpoint
func (r *RPCClient) NativeBalance(ctx context.Context, address string) (*big.Int, error) {
	account, err := ParseAddress(address)
	if err != nil {
		return nil, err
	}

	var balance *big.Int
	err = r.withEndpoint(ctx, func(ctx context.Context, client *ethclient.Client) error {
		var err error
		balance, err = client.BalanceAt(ctx, account, nil)
		return err
	})
	if err != nil {
		return nil, err
	}
	return balance, nil
}

// TransactionStatus implements chains.Endpoint
// A receipt that no endpoint knows yet is reported as pending
func (r *RPCClient) TransactionStatus(ctx context.Context, txHash string) (chains.TxStatus, error) {
	hash, err := NormalizeTxHash(txHash)
	if err != nil {
		return chains.TxPending, err
	}

	status := chains.TxPending
	err = r.withEndpoint(ctx, func(ctx context.Context, client *ethclient.Client) error {
		receiptCtx, cancel := context.WithTimeout(ctx, constants.TransactionReceiptTimeout)
		defer cancel()

		receipt, err := patchedTransactionReceipt(receiptCtx, client, common.HexToHash(hash))
		if errors.Is(err, ethereum.NotFound) {
			status = chains.TxPending
			return nil
		}
		if err != nil {
			return err
		}
		status = ReceiptStatus(receipt)
		return nil
	})
	return status, err
}

// Close implements chains.Endpoint
// Connections are dialed per call, so there is nothing to release
func (r *RPCClient) Close() {}

// IsHealthy performs a health check on the RPC endpoint
func (r *RPCClient) IsHealthy(endpoint string) bool {
	return isEndpointHealthy(context.Background(), endpoint)
}

// withEndpoint runs fn against the endpoints with failover
// Uses random start position for load balancing across RPC endpoints
func (r *RPCClient) withEndpoint(ctx context.Context, fn func(context.Context, *ethclient.Client) error) error {
	if len(r.endpoints) == 0 {
		return &UnsupportedChainError{ChainID: r.chainID.String()}
	}

	// Start at a random position for load balancing
	startIdx := rand.Intn(len(r.endpoints))
	var lastErr error

	for i := 0; i < len(r.endpoints); i++ {
		if i > 0 {
			delay := time.Duration(i*constants.DelayBetweenRPCCalls) * time.Millisecond
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}

		// Wrap around using modulo for round-robin
		endpoint := r.endpoints[(startIdx+i)%len(r.endpoints)]

		client, err := ethclient.DialContext(ctx, endpoint)
		if err != nil {
			lastErr = &RPCError{Endpoint: endpoint, Err: err}
			continue
		}

		callCtx, cancel := context.WithTimeout(ctx, constants.CallContractTimeout)
		err = fn(callCtx, client)
		cancel()
		client.Close()

		if err == nil {
			return nil
		}
		lastErr = &RPCError{Endpoint: endpoint, Err: err}
	}

	return fmt.Errorf("all RPC endpoints failed for chain %s: %w", r.chainID, lastErr)
}

// patchedTransactionReceipt gets a transaction receipt, tolerating non-standard log fields
func patchedTransactionReceipt(ctx context.Context, client *ethclient.Client, txHash common.Hash) (*ethtypes.Receipt, error) {
	var raw json.RawMessage
	err := client.Client().CallContext(ctx, &raw, constants.MethodGetReceipt, txHash)
	if err != nil {
		return nil, err
	}
	if len(raw) == 0 || string(raw) == "null" {
		return nil, ethereum.NotFound
	}

	cleaned, err := stripBlockTimestampFromLogs(raw)
	if err != nil {
		return nil, err
	}

	var receipt ethtypes.Receipt
	err = json.Unmarshal(cleaned, &receipt)
	if err != nil {
		return nil, err
	}

	return &receipt, nil
}

// stripBlockTimestampFromLogs removes the blockTimestamp field from transaction logs
func stripBlockTimestampFromLogs(raw json.RawMessage) ([]byte, error) {
	var receiptMap map[string]interface{}
	if err := json.Unmarshal(raw, &receiptMap); err != nil {
		return nil, err
	}

	logs, ok := receiptMap["logs"].([]interface{})
	if ok {
		for _, log := range logs {
			logMap, ok := log.(map[string]interface{})
			if ok {
				delete(logMap, "blockTimestamp")
			}
		}
	}

	return json.Marshal(receiptMap)
}

func isEndpointHealthy(ctx context.Context, endpoint string) bool {
	ctx, cancel := context.WithTimeout(ctx, constants.HealthCheckTimeout)
	defer cancel()

	client, err := ethclient.DialContext(ctx, endpoint)
	if err != nil {
		return false
	}
	defer client.Close()

	_, err = client.BlockNumber(ctx)
	return err == nil
}
