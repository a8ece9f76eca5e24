package evm

import (
	"errors"
	"fmt"
)

// ErrInvalidAddress is returned for malformed account addresses
var ErrInvalidAddress = errors.New("invalid address")

// UnsupportedChainError is returned when a chain id cannot be used on an EVM transport
type UnsupportedChainError struct {
	ChainID string
}

func (e *UnsupportedChainError) Error() string {
	return fmt.Sprintf("unsupported chain: %s", e.ChainID)
}

// RPCError represents an RPC-related error
type RPCError struct {
	Endpoint string
	Err      error
}

func (e *RPCError) Error() string {
	return fmt.Sprintf("RPC error on %s: %v", e.Endpoint, e.Err)
}

func (e *RPCError) Unwrap() error {
	return e.Err
}
