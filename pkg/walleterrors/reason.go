package walleterrors

import (
	"encoding/json"
	"errors"
	"regexp"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

var (
	messageFieldRe = regexp.MustCompile(`"message":"[a-zA-Z\r\n\d :,{}.']*"`)
	quotedRe       = regexp.MustCompile(`'[a-zA-Z\r\n\d :,{}.']*`)
	embeddedJSONRe = regexp.MustCompile(`\{[a-zA-Z"\r\n\d :,{}]*\}`)
	txHashRe       = regexp.MustCompile(`0x[0-9a-fA-F]{64}`)
)

// ExtractReason scrapes a human readable reason out of a wallet or RPC error message
// Preference: a "message":"..." field (narrowed to its quoted revert reason if it has one),
// then a single-quoted fragment of the whole message. Returns "" when nothing matches.
func ExtractReason(msg string) string {
	if msg == "" {
		return ""
	}

	if field := messageFieldRe.FindString(msg); field != "" {
		reason := strings.ReplaceAll(strings.TrimPrefix(field, `"message":`), `"`, "")
		if quoted := quotedFragment(reason); quoted != "" {
			return quoted
		}
		if reason = strings.TrimSpace(reason); reason != "" {
			return reason
		}
	}

	return quotedFragment(msg)
}

func quotedFragment(msg string) string {
	fragment := quotedRe.FindString(msg)
	if fragment == "" {
		return ""
	}
	return strings.TrimSpace(strings.ReplaceAll(fragment, "'", ""))
}

// ExtractTxHash finds a transaction hash embedded in an error message
// Wallets sometimes attach the failed transaction as a JSON object; a bare hash is accepted too
func ExtractTxHash(msg string) string {
	if obj := embeddedJSONRe.FindString(msg); obj != "" {
		var fields map[string]any
		if err := json.Unmarshal([]byte(obj), &fields); err == nil {
			for _, key := range []string{"transactionHash", "hash", "txHash"} {
				if s, ok := fields[key].(string); ok && s != "" {
					return s
				}
			}
		}
	}
	return txHashRe.FindString(msg)
}

// DecodeRevert decodes Error(string) revert data into its reason
func DecodeRevert(data []byte) string {
	reason, err := abi.UnpackRevert(data)
	if err != nil {
		return ""
	}
	return reason
}

// Reason resolves the display reason of a failed call
// Revert data attached to the error wins over message scraping
func Reason(err error) string {
	if err == nil {
		return ""
	}

	var dataErr interface{ ErrorData() any }
	if errors.As(err, &dataErr) {
		if s, ok := dataErr.ErrorData().(string); ok {
			if data, decErr := hexutil.Decode(s); decErr == nil {
				if reason := DecodeRevert(data); reason != "" {
					return reason
				}
			}
		}
	}

	return ExtractReason(err.Error())
}
