package svm

import (
	"context"
	"fmt"
	"math/big"
	"math/rand"
	"time"

	"github.com/gagliardetto/solana-go/rpc"
	"github.com/sigweihq/web3provider/pkg/chains"
	"github.com/sigweihq/web3provider/pkg/constants"
	"github.com/sigweihq/web3provider/pkg/types"
)

// genesisNetworks maps cluster genesis hashes to network names
var genesisNetworks = map[string]types.ChainID{
	"5eykt4UsFv8P8NJdTREpY1vzqKqZKvdpKuc147dw2N9d": constants.ChainSolanaMainnet,
	"EtWTRABZaYq6iMfeYKouRu166VU2xqa1wcaWoxPkrZBG": constants.ChainSolanaDevnet,
	"4uhcVJyU9pJkvQyS88uRDiswHXSCkY3zQawwpjk2NsNY": constants.ChainSolanaTestnet,
}

// RPCClient implements chains.Endpoint for Solana clusters
type RPCClient struct {
	network   types.ChainID
	endpoints []string
}

// NewRPCClient creates a new SVM RPC client
func NewRPCClient(network types.ChainID, endpoints []string) *RPCClient {
	return &RPCClient{
		network:   network,
		endpoints: endpoints,
	}
}

// Verify RPCClient implements interface
var _ chains.Endpoint = (*RPCClient)(nil)

// Endpoints returns the configured endpoints in failover order
func (r *RPCClient) Endpoints() []string {
	return r.endpoints
}

// ChainID implements chains.Endpoint
// The cluster is identified by its genesis hash; clusters with an unknown genesis
// (local validators) report the configured network
func (r *RPCClient) ChainID(ctx context.Context) (types.ChainID, error) {
	var genesis string
	err := r.withEndpoint(ctx, func(ctx context.Context, client *rpc.Client) error {
		hash, err := client.GetGenesisHash(ctx)
		if err != nil {
			return err
		}
		genesis = hash.String()
		return nil
	})
	if err != nil {
		return "", err
	}

	if network, ok := genesisNetworks[genesis]; ok {
		return network, nil
	}
	return r.network, nil
}

// NativeBalance implements chains.Endpoint
// The balance is returned in lamports
func (r *RPCClient) NativeBalance(ctx context.Context, address string) (*big.Int, error) {
	account, err := ParseAddress(address)
	if err != nil {
		return nil, err
	}

	var lamports uint64
	err = r.withEndpoint(ctx, func(ctx context.Context, client *rpc.Client) error {
		out, err := client.GetBalance(ctx, account, rpc.CommitmentFinalized)
		if err != nil {
			return err
		}
		lamports = out.Value
		return nil
	})
	if err != nil {
		return nil, err
	}
	return new(big.Int).SetUint64(lamports), nil
}

// TransactionStatus implements chains.Endpoint
func (r *RPCClient) TransactionStatus(ctx context.Context, txHash string) (chains.TxStatus, error) {
	signature, err := ParseSignature(txHash)
	if err != nil {
		return chains.TxPending, err
	}

	status := chains.TxPending
	err = r.withEndpoint(ctx, func(ctx context.Context, client *rpc.Client) error {
		out, err := client.GetSignatureStatuses(ctx, true, signature)
		if err != nil {
			return err
		}
		if len(out.Value) == 0 {
			status = chains.TxPending
			return nil
		}
		status = SignatureStatus(out.Value[0])
		return nil
	})
	return status, err
}

// Close implements chains.Endpoint
func (r *RPCClient) Close() {}

// IsHealthy reports whether the endpoint answers getHealth with "ok"
func (r *RPCClient) IsHealthy(endpoint string) bool {
	ctx, cancel := context.WithTimeout(context.Background(), constants.HealthCheckTimeout)
	defer cancel()

	client := rpc.New(endpoint)
	defer client.Close()

	health, err := client.GetHealth(ctx)
	return err == nil && health == "ok"
}

// withEndpoint runs fn against the endpoints with failover, starting at a random endpoint
func (r *RPCClient) withEndpoint(ctx context.Context, fn func(context.Context, *rpc.Client) error) error {
	if len(r.endpoints) == 0 {
		return fmt.Errorf("no RPC endpoints configured for network %s", r.network)
	}

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

		endpoint := r.endpoints[(startIdx+i)%len(r.endpoints)]
		client := rpc.New(endpoint)

		callCtx, cancel := context.WithTimeout(ctx, constants.CallContractTimeout)
		err := fn(callCtx, client)
		cancel()
		client.Close()

		if err == nil {
			return nil
		}
		lastErr = fmt.Errorf("endpoint %s: %w", endpoint, err)
	}

	return fmt.Errorf("all RPC endpoints failed for network %s: %w", r.network, lastErr)
}
