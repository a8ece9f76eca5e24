package svm

import (
	"log/slog"

	"github.com/sigweihq/web3provider/pkg/chains"
	"github.com/sigweihq/web3provider/pkg/constants"
	"github.com/sigweihq/web3provider/pkg/types"
)

// ConfigureEndpoints sets user-provided endpoints for Solana networks in the registry
// A network with no endpoints falls back to the official ones when available
func ConfigureEndpoints(logger *slog.Logger, registry *chains.Registry, endpoints map[string][]string) {
	if logger == nil {
		logger = slog.Default()
	}

	for network, eps := range endpoints {
		id := types.CanonicalChainID(network)
		if d := registry.Describe(id); !d.IsEmpty() && d.Type != types.ChainTypeSolana {
			logger.Warn("skipping non-SVM chain", "network", network)
			continue
		}

		if len(eps) == 0 {
			if officialEps, ok := constants.OfficialRPCEndpoints[id.String()]; ok {
				eps = officialEps
				logger.Info("using official endpoints for SVM network", "network", network)
			} else {
				logger.Warn("no endpoints provided for SVM network", "network", network)
				continue
			}
		}

		registry.SetEndpoints(id, eps)
	}
}
