package account

import (
	"context"
	"errors"
	"math/big"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sigweihq/web3provider/pkg/chains"
	"github.com/sigweihq/web3provider/pkg/types"
	"github.com/sigweihq/web3provider/pkg/walleterrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeEndpoint struct {
	balance *big.Int
	err     error
	calls   atomic.Int32
}

func (e *fakeEndpoint) ChainID(context.Context) (types.ChainID, error) { return "1", nil }
func (e *fakeEndpoint) NativeBalance(context.Context, string) (*big.Int, error) {
	e.calls.Add(1)
	return e.balance, e.err
}
func (e *fakeEndpoint) TransactionStatus(context.Context, string) (chains.TxStatus, error) {
	return chains.TxConfirmed, nil
}
func (e *fakeEndpoint) Close() {}

type fakeSource struct {
	mu          sync.Mutex
	state       types.ConnectionState
	endpoint    chains.Endpoint
	subscribers []func(types.ConnectionState)
}

func (s *fakeSource) State() types.ConnectionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *fakeSource) Endpoint() chains.Endpoint {
	return s.endpoint
}

func (s *fakeSource) Subscribe(fn func(types.ConnectionState)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subscribers = append(s.subscribers, fn)
	return func() {}
}

func (s *fakeSource) set(state types.ConnectionState) {
	s.mu.Lock()
	s.state = state
	subscribers := append([]func(types.ConnectionState){}, s.subscribers...)
	s.mu.Unlock()

	for _, fn := range subscribers {
		fn(state)
	}
}

const address = "0x00000000000000000000000000000000000000aa"

func TestRefreshNativeBalance(t *testing.T) {
	endpoint := &fakeEndpoint{balance: big.NewInt(42)}
	source := &fakeSource{
		state:    types.ConnectionState{ChainID: "1", SelectedAddress: address, ChainAvailable: true},
		endpoint: endpoint,
	}
	acc := New(source, nil)

	require.NoError(t, acc.RefreshNativeBalance(context.Background()))
	assert.Equal(t, int64(42), acc.NativeBalance().Int64())
	assert.Equal(t, address, acc.Address())

	// The returned balance is a copy
	acc.NativeBalance().SetInt64(0)
	assert.Equal(t, int64(42), acc.NativeBalance().Int64())
}

func TestRefreshNativeBalanceWithoutAddress(t *testing.T) {
	endpoint := &fakeEndpoint{balance: big.NewInt(1)}
	acc := New(&fakeSource{state: types.ConnectionState{ChainID: "1"}, endpoint: endpoint}, nil)

	require.NoError(t, acc.RefreshNativeBalance(context.Background()))
	assert.Nil(t, acc.NativeBalance())
	assert.Zero(t, endpoint.calls.Load())
}

func TestRefreshNativeBalanceErrors(t *testing.T) {
	state := types.ConnectionState{ChainID: "1", SelectedAddress: address, ChainAvailable: true}

	acc := New(&fakeSource{state: state}, nil)
	assert.ErrorIs(t, acc.RefreshNativeBalance(context.Background()), walleterrors.ErrProviderWrapperMethodNotFound)

	boom := errors.New("rpc down")
	acc = New(&fakeSource{state: state, endpoint: &fakeEndpoint{err: boom}}, nil)
	assert.ErrorIs(t, acc.RefreshNativeBalance(context.Background()), boom)
}

func TestWatchRefreshesOnChange(t *testing.T) {
	endpoint := &fakeEndpoint{balance: big.NewInt(7)}
	source := &fakeSource{endpoint: endpoint}
	acc := New(source, nil)
	acc.Watch(context.Background())

	source.set(types.ConnectionState{ChainID: "1", SelectedAddress: address, ChainAvailable: true})
	require.Eventually(t, func() bool {
		b := acc.NativeBalance()
		return b != nil && b.Int64() == 7
	}, time.Second, 5*time.Millisecond)

	// Unavailable chain: balance is dropped without a fetch
	calls := endpoint.calls.Load()
	source.set(types.ConnectionState{ChainID: "5", SelectedAddress: address})
	assert.Nil(t, acc.NativeBalance())
	assert.Equal(t, calls, endpoint.calls.Load())
}

func TestFormatUnits(t *testing.T) {
	tests := []struct {
		amount   *big.Int
		decimals int
		want     string
	}{
		{amount: nil, decimals: 18, want: "0"},
		{amount: big.NewInt(0), decimals: 18, want: "0"},
		{amount: big.NewInt(1_500_000_000_000_000_000), decimals: 18, want: "1.5"},
		{amount: big.NewInt(1), decimals: 18, want: "0.000000000000000001"},
		{amount: big.NewInt(2_500_000_000), decimals: 9, want: "2.5"},
		{amount: big.NewInt(1234), decimals: 0, want: "1234"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatUnits(tt.amount, tt.decimals))
	}
}
