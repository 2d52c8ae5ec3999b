package bitcoind

import (
	"encoding/json"
	"fmt"
)

// Well-known bitcoind RPC error codes, as reported inside the error member of
// a JSON-RPC response. Protocol-level codes (-32700..-32600 range) live in the
// jsonrpc package.
const (
	ErrCodeMisc                 = -1
	ErrCodeType                 = -3
	ErrCodeInvalidAddressOrKey  = -5
	ErrCodeOutOfMemory          = -7
	ErrCodeInvalidParameter     = -8
	ErrCodeDatabase             = -20
	ErrCodeDeserialization      = -22
	ErrCodeVerify               = -25
	ErrCodeVerifyRejected       = -26
	ErrCodeVerifyAlreadyInChain = -27
	ErrCodeInWarmup             = -28
)

// TransportError reports a failure below the HTTP layer: connection refused,
// DNS resolution, timeout, cancelled context. The underlying error is
// reachable through Unwrap.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return "transport failure: " + e.Err.Error()
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// HTTPStatusError reports a reply with a non-2xx status code. The body is kept
// verbatim and is not interpreted as a JSON-RPC response.
type HTTPStatusError struct {
	StatusCode int
	Status     string
	Body       []byte
}

func (e *HTTPStatusError) Error() string {
	return "unexpected HTTP status: " + e.Status
}

// MalformedResponseError reports a 2xx reply whose body is not a valid
// JSON-RPC response envelope.
type MalformedResponseError struct {
	Body []byte
	Err  error
}

func (e *MalformedResponseError) Error() string {
	return "malformed JSON-RPC response: " + e.Err.Error()
}

func (e *MalformedResponseError) Unwrap() error {
	return e.Err
}

// RPCError is an error reported by the node inside a valid response envelope.
// ID is the id of the request that produced it, so callers issuing concurrent
// calls can attribute the failure.
type RPCError struct {
	ID      any
	Code    int
	Message string
	Data    json.RawMessage
}

func (e *RPCError) Error() string {
	return fmt.Sprintf("%d: %s", e.Code, e.Message)
}

// ConfigurationError reports invalid construction options. It is returned by
// NewClient before any network activity takes place.
type ConfigurationError struct {
	Reason string
	Err    error
}

func (e *ConfigurationError) Error() string {
	return "invalid client configuration: " + e.Reason
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}
