package walleterrors

// EIP-1193 provider error codes
const (
	CodeUserRejectedRequest = 4001
	CodeUnauthorized        = 4100
	CodeUnsupportedMethod   = 4200
	CodeDisconnected        = 4900
	CodeChainDisconnected   = 4901
)

// EIP-1474 JSON-RPC error codes
const (
	CodeParseError                 = -32700
	CodeInvalidRequest             = -32600
	CodeMethodNotFound             = -32601
	CodeInvalidParams              = -32602
	CodeInternalError              = -32603
	CodeInvalidInput               = -32000
	CodeResourceNotFound           = -32001
	CodeResourceUnavailable        = -32002
	CodeTransactionRejected        = -32003
	CodeMethodNotSupported         = -32004
	CodeLimitExceeded              = -32005
	CodeJSONRPCVersionNotSupported = -32006
)

// Kind is the normalized class of a wallet or RPC error
type Kind int

const (
	KindUnknown Kind = iota
	KindUserRejected
	KindUnauthorized
	KindUnsupportedMethod
	KindDisconnected
	KindChainDisconnected
	KindParseError
	KindInvalidRequest
	KindMethodNotFound
	KindInvalidParams
	KindInternalError
	KindInvalidInput
	KindResourceNotFound
	KindResourceUnavailable
	KindTransactionRejected
	KindMethodNotSupported
	KindLimitExceeded
	KindRPCVersionNotSupported
)

var codeToKind = map[int]Kind{
	CodeUserRejectedRequest:        KindUserRejected,
	CodeUnauthorized:               KindUnauthorized,
	CodeUnsupportedMethod:          KindUnsupportedMethod,
	CodeDisconnected:               KindDisconnected,
	CodeChainDisconnected:          KindChainDisconnected,
	CodeParseError:                 KindParseError,
	CodeInvalidRequest:             KindInvalidRequest,
	CodeMethodNotFound:             KindMethodNotFound,
	CodeInvalidParams:              KindInvalidParams,
	CodeInternalError:              KindInternalError,
	CodeInvalidInput:               KindInvalidInput,
	CodeResourceNotFound:           KindResourceNotFound,
	CodeResourceUnavailable:        KindResourceUnavailable,
	CodeTransactionRejected:        KindTransactionRejected,
	CodeMethodNotSupported:         KindMethodNotSupported,
	CodeLimitExceeded:              KindLimitExceeded,
	CodeJSONRPCVersionNotSupported: KindRPCVersionNotSupported,
}

var kindNames = map[Kind]string{
	KindUnknown:                "unknown",
	KindUserRejected:           "user rejected request",
	KindUnauthorized:           "unauthorized",
	KindUnsupportedMethod:      "unsupported method",
	KindDisconnected:           "disconnected",
	KindChainDisconnected:      "chain disconnected",
	KindParseError:             "parse error",
	KindInvalidRequest:         "invalid request",
	KindMethodNotFound:         "method not found",
	KindInvalidParams:          "invalid params",
	KindInternalError:          "internal error",
	KindInvalidInput:           "invalid input",
	KindResourceNotFound:       "resource not found",
	KindResourceUnavailable:    "resource unavailable",
	KindTransactionRejected:    "transaction rejected",
	KindMethodNotSupported:     "method not supported",
	KindLimitExceeded:          "limit exceeded",
	KindRPCVersionNotSupported: "json-rpc version not supported",
}

// String implements fmt.Stringer
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return kindNames[KindUnknown]
}

// Code returns the protocol error code of the kind, 0 for KindUnknown
func (k Kind) Code() int {
	for code, kind := range codeToKind {
		if kind == k {
			return code
		}
	}
	return 0
}
