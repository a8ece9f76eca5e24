package provider

import (
	"context"
	"testing"

	"github.com/sigweihq/web3provider/pkg/constants"
	"github.com/sigweihq/web3provider/pkg/notify"
	"github.com/sigweihq/web3provider/pkg/types"
	"github.com/sigweihq/web3provider/pkg/walleterrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func injected(wallet *fakeWallet) types.DesignatedProvider {
	return types.DesignatedProvider{Kind: types.ProviderInjectedWallet, Instance: wallet}
}

var rpcProvider = types.DesignatedProvider{Kind: types.ProviderRPC}

func TestOrchestratorWithoutAdapter(t *testing.T) {
	o := NewOrchestrator(newTestRegistry("80001"))
	ctx := context.Background()

	assert.ErrorIs(t, o.Connect(ctx), walleterrors.ErrProviderWrapperMethodNotFound)
	assert.ErrorIs(t, o.Disconnect(), walleterrors.ErrProviderWrapperMethodNotFound)
	assert.ErrorIs(t, o.SwitchChain(ctx, "80001"), walleterrors.ErrProviderWrapperMethodNotFound)
	assert.ErrorIs(t, o.AddChain(ctx, "80001", "Mumbai", "https://rpc.example"), walleterrors.ErrProviderWrapperMethodNotFound)
	assert.ErrorIs(t, o.EnsureAvailableChain(ctx), walleterrors.ErrProviderWrapperMethodNotFound)

	_, err := o.TxURL("0xabc")
	assert.ErrorIs(t, err, walleterrors.ErrProviderWrapperMethodNotFound)

	assert.Nil(t, o.Endpoint())
	assert.Nil(t, o.Signer())
	assert.Empty(t, o.SelectedKind())
	assert.False(t, o.IsConnected())
}

func TestOrchestratorRejectsUnsupportedProviders(t *testing.T) {
	o := NewOrchestrator(newTestRegistry("80001"))
	ctx := context.Background()

	err := o.SelectAndInit(ctx, types.DesignatedProvider{Kind: "coinbase"})
	assert.ErrorIs(t, err, walleterrors.ErrProviderNotSupported)
	assert.True(t, walleterrors.IsProgrammingError(err))

	err = o.SelectAndInit(ctx, types.DesignatedProvider{Kind: types.ProviderInjectedWallet, Instance: "not a wallet"})
	assert.ErrorIs(t, err, walleterrors.ErrProviderNotSupported)
	assert.Empty(t, o.SelectedKind())
}

func TestOrchestratorRPCSession(t *testing.T) {
	o := NewOrchestrator(newTestRegistry("80001"))

	require.NoError(t, o.SelectAndInit(context.Background(), rpcProvider))

	assert.Equal(t, types.ProviderRPC, o.SelectedKind())
	assert.Equal(t, types.ChainID("80001"), o.State().ChainID)
	assert.Empty(t, o.State().SelectedAddress)
	assert.False(t, o.IsConnected())
	assert.True(t, o.IsCurrentChainAvailable())
	assert.NotNil(t, o.Endpoint())

	err := o.AddChain(context.Background(), "5", "Goerli", "https://goerli.example.org")
	assert.ErrorIs(t, err, walleterrors.ErrMethodNotFound)
}

func TestOrchestratorExplorerURLs(t *testing.T) {
	o := NewOrchestrator(newTestRegistry("80001", constants.ChainLocal))
	require.NoError(t, o.SelectAndInit(context.Background(), rpcProvider))

	txURL, err := o.TxURL("0xabc")
	require.NoError(t, err)
	assert.Equal(t, "https://mumbai.polygonscan.com/tx/0xabc", txURL)

	addressURL, err := o.AddressURL(testAddress)
	require.NoError(t, err)
	assert.Equal(t, "https://mumbai.polygonscan.com/address/"+testAddress, addressURL)

	require.NoError(t, o.SwitchChain(context.Background(), constants.ChainLocal))
	_, err = o.TxURL("0xabc")
	assert.ErrorIs(t, err, walleterrors.ErrProviderChainNotFound)
	assert.True(t, walleterrors.IsConfigurationError(err))
}

func TestOrchestratorForwardsActiveAdapterState(t *testing.T) {
	wallet := newFakeWallet(80001)
	o := NewOrchestrator(newTestRegistry("80001"))
	ctx := context.Background()

	log := &stateLog{}
	o.Subscribe(log.record)

	require.NoError(t, o.SelectAndInit(ctx, injected(wallet)))
	require.NoError(t, o.Connect(ctx))
	assert.True(t, o.IsConnected())
	require.NotNil(t, o.Signer())

	wallet.emit(constants.EventChainChanged, types.ChainID("5"))
	assert.False(t, o.IsConnected())
	assert.Equal(t, testAddress, o.State().SelectedAddress)

	require.NotEmpty(t, log.states)
	assert.Equal(t, types.ChainID("5"), log.states[len(log.states)-1].ChainID)
}

func TestOrchestratorIgnoresSupersededAdapter(t *testing.T) {
	wallet := newFakeWallet(80001)
	o := NewOrchestrator(newTestRegistry("80001"))
	ctx := context.Background()

	require.NoError(t, o.SelectAndInit(ctx, injected(wallet)))
	require.NoError(t, o.Connect(ctx))
	staleGeneration := o.generation.Load()

	require.NoError(t, o.SelectAndInit(ctx, rpcProvider))
	before := o.State()
	assert.Zero(t, wallet.listenerCount())

	wallet.emit(constants.EventChainChanged, types.ChainID("5"))
	wallet.emit(constants.EventAccountsChanged, []string{"0x00000000000000000000000000000000000000Cc"})
	wallet.emit(constants.EventDisconnect, nil)
	assert.Equal(t, before, o.State())

	// A callback that was already in flight when the adapter was replaced
	o.publish(staleGeneration, types.ConnectionState{ChainID: "5", SelectedAddress: testAddress})
	assert.Equal(t, before, o.State())
	assert.Equal(t, types.ProviderRPC, o.SelectedKind())
}

func TestOrchestratorEnsureAvailableChain(t *testing.T) {
	wallet := newFakeWallet(1)
	o := NewOrchestrator(newTestRegistry("80001"))
	ctx := context.Background()
	require.NoError(t, o.SelectAndInit(ctx, injected(wallet)))

	require.NoError(t, o.EnsureAvailableChain(ctx))
	assert.Equal(t, types.ChainID("80001"), o.State().ChainID)

	// Already available: no switch request
	wallet.switchErr = &walleterrors.CodedError{Code: walleterrors.CodeUserRejectedRequest, Message: "User rejected the request."}
	require.NoError(t, o.EnsureAvailableChain(ctx))

	wallet.setChain(5)
	wallet.emit(constants.EventChainChanged, types.ChainID("5"))
	err := o.EnsureAvailableChain(ctx)
	assert.ErrorIs(t, err, walleterrors.ErrProviderChainInvalid)
	assert.ErrorIs(t, err, walleterrors.ErrUserRejected)
	assert.Equal(t, types.ChainID("5"), o.State().ChainID)
}

func TestOrchestratorProviders(t *testing.T) {
	o := NewOrchestrator(newTestRegistry("80001"))
	o.SetProviders([]types.DesignatedProvider{rpcProvider})
	o.AddProvider(injected(newFakeWallet(1)))

	providers := o.Providers()
	require.Len(t, providers, 2)
	assert.Equal(t, types.ProviderRPC, providers[0].Kind)
	assert.Equal(t, types.ProviderInjectedWallet, providers[1].Kind)

	providers[0].Kind = "mutated"
	assert.Equal(t, types.ProviderRPC, o.Providers()[0].Kind)
}

func TestConnectWalletInjected(t *testing.T) {
	wallet := newFakeWallet(1)
	recorder := &notify.Recorder{}
	o := NewOrchestrator(newTestRegistry("80001"), WithNotifier(recorder))
	o.SetProviders([]types.DesignatedProvider{rpcProvider, injected(wallet)})

	require.NoError(t, o.ConnectWallet(context.Background()))

	assert.Equal(t, types.ProviderInjectedWallet, o.SelectedKind())
	assert.True(t, o.IsConnected())
	assert.Equal(t, types.ChainID("80001"), o.State().ChainID)
	assert.Empty(t, recorder.Notifications())
}

func TestConnectWalletWithKnownAddressPrefersRPC(t *testing.T) {
	wallet := newFakeWallet(80001)
	o := NewOrchestrator(newTestRegistry("80001"))
	o.SetProviders([]types.DesignatedProvider{injected(wallet)})
	require.NoError(t, o.ConnectWallet(context.Background()))
	require.NotEmpty(t, o.State().SelectedAddress)

	// No RPC provider detected: nothing to do
	require.NoError(t, o.ConnectWallet(context.Background()))
	assert.Equal(t, types.ProviderInjectedWallet, o.SelectedKind())

	o.AddProvider(rpcProvider)
	require.NoError(t, o.ConnectWallet(context.Background()))
	assert.Equal(t, types.ProviderRPC, o.SelectedKind())
	assert.Zero(t, wallet.listenerCount())
}

func TestConnectWalletFailures(t *testing.T) {
	tests := []struct {
		name      string
		providers func() []types.DesignatedProvider
		wantErr   error
		wantMsg   string
	}{
		{
			name:      "no injected wallet",
			providers: func() []types.DesignatedProvider { return []types.DesignatedProvider{rpcProvider} },
			wantErr:   walleterrors.ErrProviderUnconnected,
			wantMsg:   "Wallet is not connected",
		},
		{
			name: "user rejects connection",
			providers: func() []types.DesignatedProvider {
				wallet := newFakeWallet(80001)
				wallet.rejectConnect = true
				return []types.DesignatedProvider{injected(wallet)}
			},
			wantErr: walleterrors.ErrProviderUserRejectedRequest,
			wantMsg: "The request was rejected in the wallet",
		},
		{
			name: "chain switch refused",
			providers: func() []types.DesignatedProvider {
				wallet := newFakeWallet(1)
				wallet.switchErr = &walleterrors.CodedError{Code: walleterrors.CodeUserRejectedRequest, Message: "User rejected the request."}
				return []types.DesignatedProvider{injected(wallet)}
			},
			wantErr: walleterrors.ErrProviderChainInvalid,
			wantMsg: "The selected network is not supported",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder := &notify.Recorder{}
			o := NewOrchestrator(newTestRegistry("80001"), WithNotifier(recorder))
			o.SetProviders(tt.providers())

			err := o.ConnectWallet(context.Background())
			assert.ErrorIs(t, err, tt.wantErr)

			last, ok := recorder.Last()
			require.True(t, ok)
			assert.Equal(t, types.NotificationError, last.Kind)
			assert.Equal(t, tt.wantMsg, last.Message)
		})
	}
}

func TestOrchestratorClose(t *testing.T) {
	wallet := newFakeWallet(80001)
	o := NewOrchestrator(newTestRegistry("80001"))
	require.NoError(t, o.SelectAndInit(context.Background(), injected(wallet)))

	o.Close()
	assert.Zero(t, wallet.listenerCount())
	assert.Equal(t, types.ConnectionState{}, o.State())
	assert.Empty(t, o.SelectedKind())
}
