package transaction

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/sigweihq/web3provider/pkg/chains"
	"github.com/sigweihq/web3provider/pkg/constants"
	"github.com/sigweihq/web3provider/pkg/notify"
	"github.com/sigweihq/web3provider/pkg/types"
	"github.com/sigweihq/web3provider/pkg/walleterrors"
)

// Operation submits one state-changing transaction with the signer and returns its hash
type Operation func(ctx context.Context, signer chains.Signer) (txHash string, err error)

// OperationWithArgs is an Operation that takes named string arguments
type OperationWithArgs func(ctx context.Context, signer chains.Signer, args map[string]string) (txHash string, err error)

// Provider is the part of the orchestrator the submitter depends on
type Provider interface {
	State() types.ConnectionState
	Signer() chains.Signer
	Endpoint() chains.Endpoint
	TxURL(txHash string) (string, error)
}

// BalanceRefresher reloads the native balance after a confirmed transaction
type BalanceRefresher interface {
	RefreshNativeBalance(ctx context.Context) error
}

var errPending = errors.New("transaction pending")

// Submitter runs transactions and reports their lifecycle as notifications
// It is the only place where transaction errors are turned into messages instead of being returned
type Submitter struct {
	provider  Provider
	notifier  notify.Notifier
	balances  BalanceRefresher
	logger    *slog.Logger
	localizer *notify.Localizer

	pollInterval time.Duration
	maxAttempts  uint
	maxErrors    int
}

// Option configures a Submitter
type Option func(*Submitter)

// WithLogger sets the logger
func WithLogger(logger *slog.Logger) Option {
	return func(s *Submitter) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithConfirmationPolling sets how often the transaction status is polled
// Zero attempts polls until the context is done
func WithConfirmationPolling(interval time.Duration, attempts uint) Option {
	return func(s *Submitter) {
		if interval > 0 {
			s.pollInterval = interval
		}
		s.maxAttempts = attempts
	}
}

// WithLocalizer sets the message catalog
func WithLocalizer(localizer *notify.Localizer) Option {
	return func(s *Submitter) {
		if localizer != nil {
			s.localizer = localizer
		}
	}
}

// NewSubmitter creates a submitter; balances may be nil
func NewSubmitter(provider Provider, notifier notify.Notifier, balances BalanceRefresher, opts ...Option) *Submitter {
	if notifier == nil {
		notifier = notify.Discard
	}
	s := &Submitter{
		provider:     provider,
		notifier:     notifier,
		balances:     balances,
		logger:       slog.Default(),
		localizer:    notify.English(),
		pollInterval: constants.ConfirmationPollInterval,
		maxErrors:    constants.MaxRetries,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Submit runs op with the active signer and waits for the transaction to be confirmed
//
// It returns true only after confirmation and the balance refresh. Every failure is
// reported as a warning notification and yields false; nothing is returned or panics.
func (s *Submitter) Submit(ctx context.Context, op Operation) bool {
	state := s.provider.State()
	signer := s.provider.Signer()
	if state.SelectedAddress == "" || signer == nil {
		s.logger.Warn("transaction skipped: no selected account")
		s.notifier.Notify(notify.New(types.NotificationWarning, s.localizer.T(notify.KeyProviderUnconnected), nil))
		return false
	}

	txHash, err := run(ctx, op, signer)
	if err != nil {
		s.fail(err)
		return false
	}

	link := s.link(txHash)
	s.notifier.Notify(notify.New(types.NotificationProcessing, s.localizer.T(notify.KeyTransactionSubmitted, txHash), link))

	status, err := s.awaitConfirmation(ctx, txHash)
	if err != nil {
		s.fail(err)
		return false
	}
	if status == chains.TxFailed {
		s.fail(fmt.Errorf("transaction %s failed on chain", txHash))
		return false
	}

	if s.balances != nil {
		if err := s.balances.RefreshNativeBalance(ctx); err != nil {
			s.logger.Warn("balance refresh after transaction failed", "txHash", txHash, "error", err)
		}
	}

	s.logger.Info("transaction confirmed", "txHash", txHash, "chainID", state.ChainID)
	s.notifier.Notify(notify.New(types.NotificationSuccess, s.localizer.T(notify.KeyTransactionConfirmed, txHash), link))
	return true
}

// SubmitWithArgs is Submit for operations taking named arguments
func (s *Submitter) SubmitWithArgs(ctx context.Context, op OperationWithArgs, args map[string]string) bool {
	return s.Submit(ctx, func(ctx context.Context, signer chains.Signer) (string, error) {
		return op(ctx, signer, args)
	})
}

// run invokes op and turns a panic into an error
func run(ctx context.Context, op Operation, signer chains.Signer) (txHash string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("transaction operation panicked: %v", r)
		}
	}()
	return op(ctx, signer)
}

// awaitConfirmation polls the transaction status until it leaves the pending state
// Consecutive endpoint errors beyond maxErrors stop the polling
func (s *Submitter) awaitConfirmation(ctx context.Context, txHash string) (chains.TxStatus, error) {
	endpoint := s.provider.Endpoint()
	if endpoint == nil {
		return chains.TxPending, fmt.Errorf("%w: no endpoint to await confirmation", walleterrors.ErrProviderWrapperMethodNotFound)
	}

	status := chains.TxPending
	consecutiveErrors := 0
	err := retry.Do(
		func() error {
			st, err := endpoint.TransactionStatus(ctx, txHash)
			if err != nil {
				consecutiveErrors++
				if consecutiveErrors >= s.maxErrors {
					return retry.Unrecoverable(err)
				}
				return err
			}
			consecutiveErrors = 0
			if st == chains.TxPending {
				return errPending
			}
			status = st
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(s.maxAttempts),
		retry.Delay(s.pollInterval),
		retry.DelayType(retry.FixedDelay),
		retry.LastErrorOnly(true),
	)
	if err != nil {
		return chains.TxPending, fmt.Errorf("failed to confirm transaction %s: %w", txHash, err)
	}
	return status, nil
}

// link returns the explorer link of the transaction, nil when the chain has no explorer
func (s *Submitter) link(txHash string) *types.Link {
	url, err := s.provider.TxURL(txHash)
	if err != nil {
		s.logger.Warn("no explorer link for transaction", "txHash", txHash, "error", err)
		return nil
	}
	return &types.Link{Href: url, Label: s.localizer.T(notify.KeyViewOnExplorer)}
}

func (s *Submitter) fail(err error) {
	if walleterrors.IsProgrammingError(err) {
		s.logger.Error("transaction aborted by provider misuse", "error", err)
	} else {
		s.logger.Warn("transaction failed", "error", err)
	}

	message := walleterrors.Reason(err)
	if message == "" {
		message = s.localizer.T(notify.KeyTransactionFailed)
	}
	s.notifier.Notify(notify.New(types.NotificationWarning, message, nil))
}

// Transfer returns an operation that sends value in native currency to the address
func Transfer(to string, value *big.Int) Operation {
	return func(ctx context.Context, signer chains.Signer) (string, error) {
		return signer.SendTransaction(ctx, chains.TxRequest{To: to, Value: value})
	}
}
