package evm

import (
	"context"
	"log/slog"
	"time"

	"github.com/sigweihq/web3provider/pkg/chains"
	"github.com/sigweihq/web3provider/pkg/constants"
	"github.com/sigweihq/web3provider/pkg/types"
)

// EnrichRegistry adds discovered failover endpoints to the available EVM chains of the registry
// Configured RPC URLs keep precedence; discovered ones are appended after them
func EnrichRegistry(ctx context.Context, logger *slog.Logger, registry *chains.Registry, provider *ChainListEndpointProvider) error {
	if logger == nil {
		logger = slog.Default()
	}

	chainIDs := evmChains(registry)
	if len(chainIDs) == 0 {
		return nil
	}

	if err := provider.RefreshEndpoints(ctx, chainIDs); err != nil {
		logger.Warn("initial endpoint refresh failed, using official endpoints only", "error", err)
	}

	applyEndpoints(logger, registry, provider, chainIDs)
	return nil
}

// StartBackgroundRefresh refreshes endpoints periodically until ctx is done
func StartBackgroundRefresh(ctx context.Context, logger *slog.Logger, registry *chains.Registry, provider *ChainListEndpointProvider) {
	if logger == nil {
		logger = slog.Default()
	}

	go func() {
		ticker := time.NewTicker(constants.EndpointRefreshInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}

			chainIDs := evmChains(registry)
			if err := provider.RefreshEndpoints(ctx, chainIDs); err != nil {
				logger.Warn("background endpoint refresh failed", "error", err)
				continue
			}
			applyEndpoints(logger, registry, provider, chainIDs)
		}
	}()
}

func evmChains(registry *chains.Registry) []types.ChainID {
	var ids []types.ChainID
	for _, id := range registry.AvailableChains() {
		if d := registry.Describe(id); !d.IsEmpty() && d.Type == types.ChainTypeEVM {
			ids = append(ids, id)
		}
	}
	return ids
}

func applyEndpoints(logger *slog.Logger, registry *chains.Registry, provider *ChainListEndpointProvider, chainIDs []types.ChainID) {
	for _, id := range chainIDs {
		endpoints := provider.GetEndpoints(id)
		if len(endpoints) == 0 {
			logger.Warn("no endpoints available for chain", "chainID", id)
			continue
		}
		registry.SetEndpoints(id, endpoints)
	}
}
