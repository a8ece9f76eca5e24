package provider

import (
	"context"
	"errors"
	"fmt"

	"github.com/sigweihq/web3provider/pkg/notify"
	"github.com/sigweihq/web3provider/pkg/types"
	"github.com/sigweihq/web3provider/pkg/walleterrors"
)

// SetProviders replaces the list of detected providers
func (o *Orchestrator) SetProviders(providers []types.DesignatedProvider) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.providers = append([]types.DesignatedProvider(nil), providers...)
}

// AddProvider appends a detected provider
func (o *Orchestrator) AddProvider(designated types.DesignatedProvider) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.providers = append(o.providers, designated)
}

// Providers returns the detected providers in detection order
func (o *Orchestrator) Providers() []types.DesignatedProvider {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return append([]types.DesignatedProvider(nil), o.providers...)
}

func (o *Orchestrator) findProvider(kind types.ProviderKind) (types.DesignatedProvider, bool) {
	o.mu.RLock()
	defer o.mu.RUnlock()

	for _, p := range o.providers {
		if p.Kind == kind {
			return p, true
		}
	}
	return types.DesignatedProvider{}, false
}

// ConnectWallet runs the connect flow over the detected providers
//
// With an address already known the session is re-initialized on the RPC provider
// when one was detected, and nothing happens otherwise. Without an address the
// injected wallet is initialized, asked for accounts and moved to the default chain
// when its current chain is not available. Failures are reported to the notifier
// and returned.
func (o *Orchestrator) ConnectWallet(ctx context.Context) error {
	err := o.connectWallet(ctx)
	if err != nil {
		o.report(err)
	}
	return err
}

func (o *Orchestrator) connectWallet(ctx context.Context) error {
	if o.State().SelectedAddress != "" {
		rpc, ok := o.findProvider(types.ProviderRPC)
		if !ok {
			return nil
		}
		return o.SelectAndInit(ctx, rpc)
	}

	injected, ok := o.findProvider(types.ProviderInjectedWallet)
	if !ok {
		return fmt.Errorf("%w: no injected wallet detected", walleterrors.ErrProviderUnconnected)
	}

	if err := o.SelectAndInit(ctx, injected); err != nil {
		return err
	}

	if err := o.Connect(ctx); err != nil {
		return fmt.Errorf("%w: %w", walleterrors.ErrProviderUserRejectedRequest, err)
	}

	return o.EnsureAvailableChain(ctx)
}

// report sends a connection failure to the notifier
// Programming errors are logged as such; the user still sees a message
func (o *Orchestrator) report(err error) {
	if walleterrors.IsProgrammingError(err) {
		o.logger.Error("provider misuse", "error", err)
	} else {
		o.logger.Warn("wallet connection failed", "error", err)
	}

	o.notifier.Notify(notify.New(types.NotificationError, o.localizer.T(messageKey(err)), nil))
}

func messageKey(err error) string {
	switch {
	case errors.Is(err, walleterrors.ErrProviderUnconnected):
		return notify.KeyProviderUnconnected
	case errors.Is(err, walleterrors.ErrProviderUserRejectedRequest):
		return notify.KeyProviderUserRejectedRequest
	case errors.Is(err, walleterrors.ErrProviderChainInvalid):
		return notify.KeyProviderChainInvalid
	case errors.Is(err, walleterrors.ErrProviderChainNotFound):
		return notify.KeyProviderChainNotFound
	case errors.Is(err, walleterrors.ErrProviderNotSupported):
		return notify.KeyProviderNotSupported
	default:
		return notify.KeyProviderUnconnected
	}
}
