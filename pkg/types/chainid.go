package types

import (
	"fmt"
	"math/big"
	"strconv"
	"strings"
)

// ChainID is a chain identifier in canonical string form
// EVM chains use the decimal chain id ("80001"), other chains a network name ("devnet")
type ChainID string

// String implements fmt.Stringer
func (id ChainID) String() string {
	return string(id)
}

// Uint64 returns the numeric value of an EVM chain id
func (id ChainID) Uint64() (uint64, bool) {
	v, err := strconv.ParseUint(string(id), 10, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// CanonicalChainID coerces a chain identifier to its canonical form
// Hex strings reported by wallets ("0x13881") become decimal ("80001"),
// numbers are formatted in base 10 and anything else is kept verbatim
func CanonicalChainID(raw any) ChainID {
	switch v := raw.(type) {
	case nil:
		return ""
	case ChainID:
		return canonicalString(string(v))
	case string:
		return canonicalString(v)
	case int:
		return ChainID(strconv.FormatInt(int64(v), 10))
	case int64:
		return ChainID(strconv.FormatInt(v, 10))
	case uint64:
		return ChainID(strconv.FormatUint(v, 10))
	case float64:
		return ChainID(strconv.FormatFloat(v, 'f', -1, 64))
	case *big.Int:
		if v == nil {
			return ""
		}
		return ChainID(v.String())
	case fmt.Stringer:
		return canonicalString(v.String())
	default:
		return canonicalString(fmt.Sprint(v))
	}
}

func canonicalString(s string) ChainID {
	s = strings.TrimSpace(s)
	if len(s) > 2 && (strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X")) {
		if n, ok := new(big.Int).SetString(s[2:], 16); ok {
			return ChainID(n.String())
		}
	}
	return ChainID(s)
}
