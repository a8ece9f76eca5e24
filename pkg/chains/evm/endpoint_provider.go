package evm

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"

	"github.com/sigweihq/web3provider/pkg/constants"
	"github.com/sigweihq/web3provider/pkg/types"
	"golang.org/x/sync/errgroup"
)

// DefaultChainListURL is the public chainlist.org RPC catalogue
const DefaultChainListURL = "https://chainlist.org/rpcs.json"

// maxConcurrentHealthChecks bounds the number of endpoints probed at once
const maxConcurrentHealthChecks = 8

// ChainListResponse represents a chain entry from chainlist.org/rpcs.json
type ChainListResponse struct {
	ChainID int `json:"chainId"`
	RPC     []struct {
		URL string `json:"url"`
	} `json:"rpc"`
}

// ChainListEndpointProvider fetches RPC endpoints from chainlist.org
// and performs health checks to prioritize reliable endpoints
type ChainListEndpointProvider struct {
	endpoints   map[types.ChainID][]string
	logger      *slog.Logger
	listURL     string
	httpClient  *http.Client
	healthCheck func(ctx context.Context, endpoint string) bool
	mu          sync.RWMutex
}

// NewChainListEndpointProvider creates a provider that fetches from chainlist.org
// An empty listURL uses DefaultChainListURL
func NewChainListEndpointProvider(logger *slog.Logger, listURL string) *ChainListEndpointProvider {
	if logger == nil {
		logger = slog.Default()
	}
	if listURL == "" {
		listURL = DefaultChainListURL
	}
	return &ChainListEndpointProvider{
		endpoints:   make(map[types.ChainID][]string),
		logger:      logger,
		listURL:     listURL,
		httpClient:  &http.Client{Timeout: constants.ChainListTimeout},
		healthCheck: isEndpointHealthy,
	}
}

// GetEndpoints returns the known endpoints of a chain, healthy ones first
func (p *ChainListEndpointProvider) GetEndpoints(chainID types.ChainID) []string {
	p.mu.RLock()
	defer p.mu.RUnlock()

	endpoints := p.endpoints[chainID]
	if len(endpoints) == 0 {
		// Fallback to official endpoints if chainlist fetch hasn't completed
		return constants.OfficialRPCEndpoints[chainID.String()]
	}

	return endpoints
}

// RefreshEndpoints fetches fresh endpoints for the given chains and health checks them
// On fetch failure the official endpoints stay in place and the error is returned
func (p *ChainListEndpointProvider) RefreshEndpoints(ctx context.Context, chainIDs []types.ChainID) error {
	fresh := make(map[types.ChainID][]string, len(chainIDs))
	for _, id := range chainIDs {
		fresh[id] = append([]string(nil), constants.OfficialRPCEndpoints[id.String()]...)
	}

	chainListData, fetchErr := p.fetchAllChains(ctx)
	if fetchErr != nil {
		p.logger.Warn("failed to fetch from chainlist.org, using official endpoints only", "error", fetchErr)
	} else {
		addChainlistEndpoints(fresh, chainListData)
	}

	p.healthCheckAndPrioritize(ctx, fresh)

	p.mu.Lock()
	for id, endpoints := range fresh {
		p.endpoints[id] = endpoints
	}
	p.mu.Unlock()

	return fetchErr
}

// fetchAllChains fetches chain data from chainlist.org
func (p *ChainListEndpointProvider) fetchAllChains(ctx context.Context) ([]ChainListResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.listURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create chainlist request: %w", err)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch chainlist data: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("chainlist.org returned status %d", resp.StatusCode)
	}

	var chains []ChainListResponse
	limited := io.LimitReader(resp.Body, constants.MaxResponseBodySize)
	if err := json.NewDecoder(limited).Decode(&chains); err != nil {
		return nil, fmt.Errorf("failed to decode chainlist data: %w", err)
	}

	return chains, nil
}

// addChainlistEndpoints adds endpoints from chainlist.org for the chains being tracked
func addChainlistEndpoints(endpoints map[types.ChainID][]string, chainListData []ChainListResponse) {
	for _, chain := range chainListData {
		id := types.CanonicalChainID(chain.ChainID)
		existing, tracked := endpoints[id]
		if !tracked {
			continue
		}
		for _, rpc := range chain.RPC {
			// Only include HTTPS URLs and exclude templated URLs
			if strings.HasPrefix(rpc.URL, "https://") && !strings.Contains(rpc.URL, "${") && !containsEndpoint(existing, rpc.URL) {
				existing = append(existing, rpc.URL)
			}
		}
		endpoints[id] = existing
	}
}

// healthCheckAndPrioritize checks endpoint health and prioritizes working ones
func (p *ChainListEndpointProvider) healthCheckAndPrioritize(ctx context.Context, endpoints map[types.ChainID][]string) {
	for chainID, list := range endpoints {
		if len(list) == 0 {
			continue
		}

		healthy := make([]bool, len(list))
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(maxConcurrentHealthChecks)
		for i, endpoint := range list {
			g.Go(func() error {
				healthy[i] = p.healthCheck(gctx, endpoint)
				return nil
			})
		}
		_ = g.Wait()

		// Prioritize healthy endpoints first, then unhealthy as backup
		var healthyEndpoints, unhealthyEndpoints []string
		for i, endpoint := range list {
			if healthy[i] {
				healthyEndpoints = append(healthyEndpoints, endpoint)
			} else {
				unhealthyEndpoints = append(unhealthyEndpoints, endpoint)
			}
		}
		endpoints[chainID] = append(healthyEndpoints, unhealthyEndpoints...)

		p.logger.Debug("health check complete",
			"chainID", chainID,
			"healthy", len(healthyEndpoints),
			"unhealthy", len(unhealthyEndpoints))
	}
}

func containsEndpoint(list []string, endpoint string) bool {
	for _, e := range list {
		if e == endpoint {
			return true
		}
	}
	return false
}
