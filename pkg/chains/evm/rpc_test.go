package evm

import (
	"context"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/sigweihq/web3provider/pkg/chains"
	"github.com/sigweihq/web3provider/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testTxHash = "0x5c504ed432cb51138bcf09aa5e8a410dd4a1e204ef84bfed1be16dfba1b22060"

func TestRPCClientChainIDAndBalance(t *testing.T) {
	node := newFakeNode(80001)
	node.balance = big.NewInt(1_000_000_000)
	client := NewRPCClient("80001", []string{node.httpURL(t)})

	id, err := client.ChainID(context.Background())
	require.NoError(t, err)
	assert.Equal(t, types.ChainID("80001"), id)

	balance, err := client.NativeBalance(context.Background(), "0x00000000000000000000000000000000000000aa")
	require.NoError(t, err)
	assert.Equal(t, int64(1_000_000_000), balance.Int64())
}

func TestRPCClientFailover(t *testing.T) {
	node := newFakeNode(5)
	// The first endpoint refuses connections; the client must fall through to the healthy one
	client := NewRPCClient("5", []string{"http://127.0.0.1:1", node.httpURL(t)})

	for i := 0; i < 3; i++ {
		id, err := client.ChainID(context.Background())
		require.NoError(t, err)
		assert.Equal(t, types.ChainID("5"), id)
	}
}

func TestRPCClientAllEndpointsFail(t *testing.T) {
	client := NewRPCClient("5", []string{"http://127.0.0.1:1"})

	_, err := client.ChainID(context.Background())
	require.Error(t, err)
	var rpcErr *RPCError
	assert.ErrorAs(t, err, &rpcErr)
}

func TestRPCClientNoEndpoints(t *testing.T) {
	client := NewRPCClient("5", nil)

	_, err := client.ChainID(context.Background())
	var unsupported *UnsupportedChainError
	assert.ErrorAs(t, err, &unsupported)
}

func TestRPCClientTransactionStatus(t *testing.T) {
	node := newFakeNode(5)
	client := NewRPCClient("5", []string{node.httpURL(t)})
	ctx := context.Background()

	status, err := client.TransactionStatus(ctx, testTxHash)
	require.NoError(t, err)
	assert.Equal(t, chains.TxPending, status)

	node.setReceipt(common.HexToHash(testTxHash), 1)
	status, err = client.TransactionStatus(ctx, testTxHash)
	require.NoError(t, err)
	assert.Equal(t, chains.TxConfirmed, status)

	node.setReceipt(common.HexToHash(testTxHash), 0)
	status, err = client.TransactionStatus(ctx, testTxHash)
	require.NoError(t, err)
	assert.Equal(t, chains.TxFailed, status)
}

func TestRPCClientRejectsBadInput(t *testing.T) {
	client := NewRPCClient("5", []string{"http://127.0.0.1:1"})

	_, err := client.NativeBalance(context.Background(), "not-an-address")
	assert.ErrorIs(t, err, ErrInvalidAddress)

	_, err = client.TransactionStatus(context.Background(), "0x1234")
	assert.Error(t, err)
}

func TestStripBlockTimestampFromLogs(t *testing.T) {
	raw := []byte(`{"status":"0x1","logs":[{"address":"0x01","blockTimestamp":"0x5"}]}`)

	cleaned, err := stripBlockTimestampFromLogs(raw)
	require.NoError(t, err)
	assert.NotContains(t, string(cleaned), "blockTimestamp")
	assert.Contains(t, string(cleaned), `"address":"0x01"`)
}
