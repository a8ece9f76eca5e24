package evm

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sigweihq/web3provider/pkg/chains"
	"github.com/sigweihq/web3provider/pkg/constants"
	"github.com/sigweihq/web3provider/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sepoliaChainList = `[
	{"chainId": 11155111, "rpc": [
		{"url": "https://sepolia.example.org"},
		{"url": "https://sepolia.infura.io/v3/${INFURA_API_KEY}"},
		{"url": "wss://sepolia.example.org"},
		{"url": "https://rpc.sepolia.org"}
	]},
	{"chainId": 10, "rpc": [{"url": "https://optimism.example.org"}]}
]`

func chainListServer(t *testing.T, status int, body string) string {
	t.Helper()
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
		fmt.Fprint(w, body)
	}))
	t.Cleanup(ts.Close)
	return ts.URL
}

func newTestProvider(t *testing.T, listURL string, healthy map[string]bool) *ChainListEndpointProvider {
	t.Helper()
	p := NewChainListEndpointProvider(slog.Default(), listURL)
	p.healthCheck = func(_ context.Context, endpoint string) bool {
		return healthy[endpoint]
	}
	return p
}

func TestGetEndpointsFallsBackToOfficial(t *testing.T) {
	p := NewChainListEndpointProvider(nil, "")

	assert.Equal(t, constants.OfficialRPCEndpoints[constants.ChainSepolia], p.GetEndpoints(constants.ChainSepolia))
	assert.Empty(t, p.GetEndpoints("424242"))
}

func TestRefreshEndpointsMergesChainList(t *testing.T) {
	url := chainListServer(t, http.StatusOK, sepoliaChainList)
	p := newTestProvider(t, url, map[string]bool{
		"https://sepolia.example.org": true,
	})

	err := p.RefreshEndpoints(context.Background(), []types.ChainID{constants.ChainSepolia})
	require.NoError(t, err)

	// Healthy first; templated, non-https and duplicate URLs dropped
	assert.Equal(t, []string{
		"https://sepolia.example.org",
		"https://rpc.sepolia.org",
	}, p.GetEndpoints(constants.ChainSepolia))

	// Untracked chains are ignored
	assert.Empty(t, p.GetEndpoints("10"))
}

func TestRefreshEndpointsFetchFailure(t *testing.T) {
	url := chainListServer(t, http.StatusInternalServerError, "")
	p := newTestProvider(t, url, nil)

	err := p.RefreshEndpoints(context.Background(), []types.ChainID{constants.ChainSepolia})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 500")
	assert.Equal(t, constants.OfficialRPCEndpoints[constants.ChainSepolia], p.GetEndpoints(constants.ChainSepolia))
}

func TestRefreshEndpointsBadJSON(t *testing.T) {
	url := chainListServer(t, http.StatusOK, "{not json")
	p := newTestProvider(t, url, nil)

	err := p.RefreshEndpoints(context.Background(), []types.ChainID{constants.ChainSepolia})
	assert.ErrorContains(t, err, "decode")
}

func TestEnrichRegistry(t *testing.T) {
	url := chainListServer(t, http.StatusOK, sepoliaChainList)
	p := newTestProvider(t, url, map[string]bool{"https://sepolia.example.org": true})
	registry := chains.NewRegistry(chains.DefaultDescriptors(), []types.ChainID{constants.ChainSepolia, constants.ChainSolanaDevnet})

	require.NoError(t, EnrichRegistry(context.Background(), nil, registry, p))

	endpoints := registry.Endpoints(constants.ChainSepolia)
	assert.Contains(t, endpoints, "https://sepolia.example.org")
	assert.Equal(t, registry.Describe(constants.ChainSepolia).RPCURL, endpoints[0])

	// Solana chains are not enriched from chainlist
	assert.Equal(t, []string{registry.Describe(constants.ChainSolanaDevnet).RPCURL}, registry.Endpoints(constants.ChainSolanaDevnet))
}

func TestEvmChainsSkipsUnknown(t *testing.T) {
	registry := chains.NewRegistry(chains.DefaultDescriptors(), []types.ChainID{"5", "999999", constants.ChainSolanaDevnet})

	assert.Equal(t, []types.ChainID{"5"}, evmChains(registry))
}
