package walleterrors

import (
	"encoding/json"
	"errors"
	"math"
	"strconv"
	"strings"
)

// Classify maps an EIP-1193 or EIP-1474 error code to its Kind
// Codes outside both enumerations, and values that are not codes at all, are KindUnknown
func Classify(code any) Kind {
	c, ok := toCode(code)
	if !ok {
		return KindUnknown
	}
	if kind, found := codeToKind[c]; found {
		return kind
	}
	return KindUnknown
}

// CodeOf extracts the protocol error code carried by err
func CodeOf(err error) (int, bool) {
	var coded interface{ ErrorCode() int }
	if errors.As(err, &coded) {
		return coded.ErrorCode(), true
	}
	return 0, false
}

// Normalize classifies err into a *ProviderError
// Errors without a code, or with a code outside both enumerations, are returned unchanged
func Normalize(err error) error {
	if err == nil {
		return nil
	}

	var perr *ProviderError
	if errors.As(err, &perr) {
		return err
	}

	code, ok := CodeOf(err)
	if !ok {
		return err
	}

	kind := Classify(code)
	if kind == KindUnknown {
		return err
	}

	return &ProviderError{
		Kind:    kind,
		Code:    code,
		Message: err.Error(),
		Err:     err,
	}
}

// KindOf returns the Kind of a normalized error, KindUnknown otherwise
func KindOf(err error) Kind {
	var perr *ProviderError
	if errors.As(err, &perr) {
		return perr.Kind
	}
	if code, ok := CodeOf(err); ok {
		return Classify(code)
	}
	return KindUnknown
}

func toCode(code any) (int, bool) {
	switch v := code.(type) {
	case int:
		return v, true
	case int32:
		return int(v), true
	case int64:
		return int(v), true
	case float64:
		if v != math.Trunc(v) {
			return 0, false
		}
		return int(v), true
	case json.Number:
		n, err := v.Int64()
		if err != nil {
			return 0, false
		}
		return int(n), true
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return 0, false
		}
		return n, true
	default:
		return 0, false
	}
}
