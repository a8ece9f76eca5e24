package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/fatih/color"
	"github.com/sigweihq/web3provider/pkg/chains"
	"github.com/sigweihq/web3provider/pkg/chains/evm"
	"github.com/sigweihq/web3provider/pkg/config"
	"github.com/sigweihq/web3provider/pkg/notify"
	"github.com/sigweihq/web3provider/pkg/provider"
	"github.com/sigweihq/web3provider/pkg/types"
)

// session bundles the objects a command needs for one provider session
type session struct {
	cfg          *config.Config
	logger       *slog.Logger
	registry     *chains.Registry
	bus          *notify.Bus
	orchestrator *provider.Orchestrator
	bridge       *evm.WalletBridge
}

func (o *rootOptions) newSession(ctx context.Context) (*session, error) {
	cfg, _, err := config.Load(o.configPath)
	if err != nil {
		return nil, err
	}
	if o.walletURL != "" {
		if err := config.ValidateWalletURL(o.walletURL); err != nil {
			return nil, err
		}
		cfg.Wallet.URL = o.walletURL
	}

	level := cfg.Level()
	if o.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	registry := cfg.Registry(logger)
	if err := cfg.Discover(ctx, logger, registry); err != nil {
		logger.Warn("endpoint discovery failed", "error", err)
	}

	bus := notify.NewBus(logger)
	if err := bus.Subscribe(notify.AllKinds, printNotification); err != nil {
		return nil, fmt.Errorf("failed to subscribe to notifications: %w", err)
	}

	return &session{
		cfg:      cfg,
		logger:   logger,
		registry: registry,
		bus:      bus,
		orchestrator: provider.NewOrchestrator(registry,
			provider.WithLogger(logger),
			provider.WithNotifier(bus),
		),
	}, nil
}

// useRPC selects the read-only provider, optionally on a specific chain
func (s *session) useRPC(ctx context.Context, chainID string) error {
	s.orchestrator.AddProvider(types.DesignatedProvider{Kind: types.ProviderRPC})
	if err := s.orchestrator.SelectAndInit(ctx, types.DesignatedProvider{Kind: types.ProviderRPC}); err != nil {
		return err
	}
	if chainID == "" {
		return nil
	}
	return s.orchestrator.SwitchChain(ctx, chainID)
}

// useWallet dials the wallet bridge and runs the connect flow through it
func (s *session) useWallet(ctx context.Context) error {
	if s.cfg.Wallet.URL == "" {
		return errors.New("no wallet bridge configured, set [wallet].url, WEB3_WALLET_URL or --wallet")
	}

	bridge, err := evm.DialWalletBridge(ctx, s.cfg.Wallet.URL,
		evm.WithPollInterval(s.cfg.Wallet.PollInterval.Or(0)),
		evm.WithBridgeLogger(s.logger),
	)
	if err != nil {
		return err
	}
	s.bridge = bridge
	bridge.Start(ctx)

	s.orchestrator.SetProviders([]types.DesignatedProvider{
		{Kind: types.ProviderInjectedWallet, Instance: bridge},
	})
	return s.orchestrator.ConnectWallet(ctx)
}

func (s *session) Close() {
	s.orchestrator.Close()
	if s.bridge != nil {
		s.bridge.Close()
	}
	s.bus.WaitAsync()
}

func printNotification(n types.Notification) {
	var label string
	switch n.Kind {
	case types.NotificationSuccess:
		label = color.GreenString("✓")
	case types.NotificationWarning:
		label = color.YellowString("!")
	case types.NotificationError:
		label = color.RedString("✗")
	default:
		label = color.CyanString("…")
	}

	fmt.Fprintf(os.Stderr, "%s %s\n", label, n.Message)
	if n.Link != nil {
		fmt.Fprintf(os.Stderr, "  %s: %s\n", n.Link.Label, n.Link.Href)
	}
}
