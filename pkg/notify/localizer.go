package notify

import (
	"fmt"
	"maps"
)

// Message keys
const (
	KeyProviderUnconnected         = "errors.provider-unconnected"
	KeyProviderUserRejectedRequest = "errors.provider-user-rejected-request"
	KeyProviderChainInvalid        = "errors.provider-chain-invalid"
	KeyProviderChainNotFound       = "errors.provider-chain-not-found"
	KeyProviderNotSupported        = "errors.provider-not-supported"
	KeyTransactionFailed           = "errors.transaction-failed"
	KeyTransactionSubmitted        = "transaction.submitted"
	KeyTransactionConfirmed        = "transaction.confirmed"
	KeyViewOnExplorer              = "links.view-on-explorer"
)

var english = map[string]string{
	KeyProviderUnconnected:         "Wallet is not connected",
	KeyProviderUserRejectedRequest: "The request was rejected in the wallet",
	KeyProviderChainInvalid:        "The selected network is not supported",
	KeyProviderChainNotFound:       "The network is not configured",
	KeyProviderNotSupported:        "This wallet is not supported",
	KeyTransactionFailed:           "Failed to complete the transaction",
	KeyTransactionSubmitted:        "Transaction has been submitted! %s",
	KeyTransactionConfirmed:        "Transaction has been confirmed! %s",
	KeyViewOnExplorer:              "View on explorer",
}

// Localizer resolves message keys against a catalog
type Localizer struct {
	catalog map[string]string
}

// NewLocalizer creates a localizer over the English catalog with overrides applied on top
func NewLocalizer(overrides map[string]string) *Localizer {
	catalog := maps.Clone(english)
	maps.Copy(catalog, overrides)
	return &Localizer{catalog: catalog}
}

// English returns the default localizer
func English() *Localizer {
	return NewLocalizer(nil)
}

// T formats the message for key; unknown keys are returned as-is
func (l *Localizer) T(key string, args ...any) string {
	template, ok := l.catalog[key]
	if !ok {
		return key
	}
	if len(args) == 0 {
		return template
	}
	return fmt.Sprintf(template, args...)
}
