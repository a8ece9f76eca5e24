package evm

import (
	"math/big"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/rpc"
	"github.com/sigweihq/web3provider/pkg/walleterrors"
	"github.com/stretchr/testify/require"
)

// fakeNode serves the eth_ and wallet_ namespaces for tests
type fakeNode struct {
	mu         sync.Mutex
	chainID    uint64
	accounts   []common.Address
	balance    *big.Int
	receipts   map[common.Hash]map[string]any
	sent       []map[string]any
	rejectSend bool
	failChain  bool
}

func newFakeNode(chainID uint64) *fakeNode {
	return &fakeNode{
		chainID:  chainID,
		balance:  big.NewInt(0),
		receipts: make(map[common.Hash]map[string]any),
	}
}

type ethNamespace struct{ node *fakeNode }

func (e *ethNamespace) ChainId() (hexutil.Uint64, error) {
	e.node.mu.Lock()
	defer e.node.mu.Unlock()
	if e.node.failChain {
		return 0, &walleterrors.CodedError{Code: walleterrors.CodeChainDisconnected, Message: "chain disconnected"}
	}
	return hexutil.Uint64(e.node.chainID), nil
}

func (e *ethNamespace) Accounts() []common.Address {
	e.node.mu.Lock()
	defer e.node.mu.Unlock()
	return append([]common.Address{}, e.node.accounts...)
}

func (e *ethNamespace) BlockNumber() hexutil.Uint64 {
	return 42
}

func (e *ethNamespace) GetBalance(address common.Address, block string) *hexutil.Big {
	e.node.mu.Lock()
	defer e.node.mu.Unlock()
	return (*hexutil.Big)(e.node.balance)
}

func (e *ethNamespace) GetTransactionReceipt(hash common.Hash) map[string]any {
	e.node.mu.Lock()
	defer e.node.mu.Unlock()
	return e.node.receipts[hash]
}

func (e *ethNamespace) SendTransaction(tx map[string]any) (common.Hash, error) {
	e.node.mu.Lock()
	defer e.node.mu.Unlock()
	if e.node.rejectSend {
		return common.Hash{}, &walleterrors.CodedError{Code: walleterrors.CodeUserRejectedRequest, Message: "User denied transaction signature."}
	}
	e.node.sent = append(e.node.sent, tx)
	return common.HexToHash("0x5c504ed432cb51138bcf09aa5e8a410dd4a1e204ef84bfed1be16dfba1b22060"), nil
}

func (n *fakeNode) setReceipt(hash common.Hash, status uint64) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.receipts[hash] = map[string]any{
		"transactionHash":   hash,
		"status":            hexutil.Uint64(status),
		"cumulativeGasUsed": "0x5208",
		"gasUsed":           "0x5208",
		"logsBloom":         "0x" + strings.Repeat("0", 512),
		"logs":              []any{},
		"blockNumber":       "0x1",
		"transactionIndex":  "0x0",
	}
}

func (n *fakeNode) server(t *testing.T) *rpc.Server {
	t.Helper()
	server := rpc.NewServer()
	require.NoError(t, server.RegisterName("eth", &ethNamespace{node: n}))
	t.Cleanup(server.Stop)
	return server
}

// httpURL serves the node over HTTP and returns its URL
func (n *fakeNode) httpURL(t *testing.T) string {
	t.Helper()
	ts := httptest.NewServer(n.server(t))
	t.Cleanup(ts.Close)
	return ts.URL
}

// inProc returns an in-process client connected to the node
func (n *fakeNode) inProc(t *testing.T) *rpc.Client {
	t.Helper()
	client := rpc.DialInProc(n.server(t))
	t.Cleanup(client.Close)
	return client
}
