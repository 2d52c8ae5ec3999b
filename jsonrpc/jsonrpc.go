// Package jsonrpc contains the JSON-RPC 2.0 message envelope as described in
// https://www.jsonrpc.org/specification
package jsonrpc

import (
	"encoding/json"
	"errors"
	"reflect"
	"strings"
)

const Version = "2.0"

const (
	InvalidJSON    = -32700 // Invalid JSON was received by the server.
	InvalidRequest = -32600 // The JSON sent is not a valid Request object.
	MethodNotFound = -32601 // The method does not exist / is not available.
	InvalidParams  = -32602 // Invalid method parameter(s).
	InternalError  = -32603 // Internal JSON-RPC error.
)

var (
	ErrInvalidID          = errors.New("id should be a string or an integer")
	ErrMissingID          = errors.New("response is missing the id member")
	ErrMissingResult      = errors.New("response carries neither result nor error")
	ErrUnsupportedVersion = errors.New("unsupported JSON-RPC version")
	ErrNoMethod           = errors.New("no method specified")
)

// Request is a single JSON-RPC call. Params are positional and always
// serialized, even when empty; bitcoind rejects requests without the member.
type Request struct {
	Version string `json:"jsonrpc"`
	ID      any    `json:"id"`
	Method  string `json:"method"`
	Params  []any  `json:"params"`
}

func NewRequest(id any, method string, params []any) *Request {
	if params == nil {
		params = []any{}
	}
	return &Request{
		Version: Version,
		ID:      id,
		Method:  method,
		Params:  params,
	}
}

func (r *Request) Validate() error {
	if r.Version != Version {
		return ErrUnsupportedVersion
	}
	if r.Method == "" {
		return ErrNoMethod
	}
	return validateID(r.ID)
}

// validateID enforces the JSON-RPC 2.0 constraint that an id is a string, an
// integer or null. Fractional ids are rejected the same way numbers decoded
// into json.Number are.
func validateID(id any) error {
	if id == nil {
		return nil
	}
	idType := reflect.TypeOf(id)
	switch idType.Kind() {
	case reflect.String:
		if num, ok := id.(json.Number); ok && strings.Contains(num.String(), ".") {
			return ErrInvalidID
		}
		return nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return nil
	case reflect.Float32, reflect.Float64:
		v := reflect.ValueOf(id).Float()
		if v != float64(int64(v)) {
			return ErrInvalidID
		}
		return nil
	default:
		return ErrInvalidID
	}
}

// Response is the reply to a single Request. The id is kept raw so that a
// missing member can be told apart from an explicit null, and the result is
// kept raw because its shape is method-specific. Bitcoind populates both the
// result and error members on every reply, nulling out the unused one, so a
// null error decodes to a nil pointer rather than an error object.
type Response struct {
	Version string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id,omitempty"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *Error          `json:"error,omitempty"`
}

func (r *Response) Validate() error {
	if len(r.ID) == 0 {
		return ErrMissingID
	}
	if r.Result == nil && r.Error == nil {
		return ErrMissingResult
	}
	return nil
}

type Error struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data,omitempty"`
}

func Err(code int, data json.RawMessage) *Error {
	switch code {
	case InvalidJSON:
		return &Error{Code: InvalidJSON, Message: "Parse error", Data: data}
	case InvalidRequest:
		return &Error{Code: InvalidRequest, Message: "Invalid Request", Data: data}
	case MethodNotFound:
		return &Error{Code: MethodNotFound, Message: "Method not found", Data: data}
	case InvalidParams:
		return &Error{Code: InvalidParams, Message: "Invalid Params", Data: data}
	default:
		return &Error{Code: InternalError, Message: "Internal error", Data: data}
	}
}
