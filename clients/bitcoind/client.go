// Package bitcoind implements a JSON-RPC 2.0 client of a Bitcoin Core node's
// control interface.
//
// Every typed method funnels through Call, which owns request construction,
// id assignment and error classification. Failures are reported as one of
// five distinct kinds, branchable with errors.As: TransportError,
// HTTPStatusError, MalformedResponseError, RPCError and ConfigurationError.
//
// For the list of all available commands, visit:
// https://developer.bitcoin.org/reference/rpc/index.html
package bitcoind

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/blockforge/bitcoinrpc/jsonrpc"
	"github.com/blockforge/bitcoinrpc/utils"
	"github.com/blockforge/bitcoinrpc/validator"
)

const defaultTimeout = 10 * time.Second

// IDGenerator produces the correlation id stamped on an outgoing request. It
// must return a JSON string or integer and is invoked exactly once per call,
// so ids remain attributable to one in-flight request.
type IDGenerator func() any

// Config enumerates the construction options of a Client. Unknown or
// conflicting options are rejected by NewClient with a ConfigurationError
// instead of being deferred to the transport.
type Config struct {
	// URL is the node's RPC endpoint. Mutually exclusive with Network.
	URL string `validate:"omitempty,http_url"`
	// Network selects the default local endpoint of a chain when URL is
	// unset.
	Network utils.Network
	// Username and Password are the rpcuser/rpcpassword credentials sent as
	// HTTP basic auth.
	Username string
	Password string
	// Timeout bounds every call, including connection setup and reading the
	// body. Zero means the 10s default; a per-call context deadline may
	// shorten it further.
	Timeout   time.Duration
	UserAgent string
	// Headers are added to every request. Supplying an Authorization header
	// together with Username/Password is a configuration error.
	Headers http.Header
	// Transport overrides the underlying http.RoundTripper. Mainly useful in
	// tests.
	Transport http.RoundTripper
}

// Client talks to one bitcoind instance. It exclusively owns its transport
// handle and its id generator; neither is shared between clients. Issuing
// calls from multiple goroutines is safe.
type Client struct {
	url       string
	client    *http.Client
	username  string
	password  string
	userAgent string
	header    http.Header
	nextID    IDGenerator
	log       utils.StructuredLogger
	listener  EventListener
}

func NewClient(cfg *Config) (*Client, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	url := cfg.URL
	if url == "" {
		url = cfg.Network.DefaultURL()
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = defaultTimeout
	}

	return &Client{
		url:       strings.TrimSuffix(url, "/"),
		client:    &http.Client{Timeout: timeout, Transport: cfg.Transport},
		username:  cfg.Username,
		password:  cfg.Password,
		userAgent: cfg.UserAgent,
		header:    cfg.Headers.Clone(),
		nextID:    monotonicIDGenerator(),
		log:       utils.NewNopZapLogger(),
		listener:  &SelectiveListener{},
	}, nil
}

func validateConfig(cfg *Config) error {
	if cfg == nil {
		return &ConfigurationError{Reason: "config must not be nil"}
	}
	if cfg.URL == "" && cfg.Network == 0 {
		return &ConfigurationError{Reason: "either URL or Network must be set"}
	}
	if cfg.URL != "" && cfg.Network != 0 {
		return &ConfigurationError{Reason: "URL and Network are mutually exclusive"}
	}
	if cfg.Network != 0 {
		if cfg.Network < utils.Mainnet || cfg.Network > utils.Regtest {
			return &ConfigurationError{Reason: "unknown network", Err: utils.ErrUnknownNetwork}
		}
	}
	if cfg.Timeout < 0 {
		return &ConfigurationError{Reason: "timeout must not be negative"}
	}
	if (cfg.Username != "" || cfg.Password != "") && cfg.Headers.Get("Authorization") != "" {
		return &ConfigurationError{Reason: "auth specified twice, with credentials and an Authorization header"}
	}
	if err := validator.Validator().Struct(cfg); err != nil {
		return &ConfigurationError{Reason: "malformed URL", Err: err}
	}
	return nil
}

// monotonicIDGenerator returns the default id generator: a counter seeded at
// 1, incrementing by 1 per invocation, scoped to one Client.
func monotonicIDGenerator() IDGenerator {
	var counter atomic.Uint64
	return func() any {
		return counter.Add(1)
	}
}

func (c *Client) WithLogger(log utils.StructuredLogger) *Client {
	c.log = log
	return c
}

func (c *Client) WithListener(l EventListener) *Client {
	c.listener = l
	return c
}

func (c *Client) WithIDGenerator(gen IDGenerator) *Client {
	c.nextID = gen
	return c
}

func (c *Client) URL() string {
	return c.url
}

// Close releases the transport's idle connections. The caller must ensure no
// calls are in flight.
func (c *Client) Close() {
	c.client.CloseIdleConnections()
}

// Call invokes method with the given positional params and returns the raw
// result payload. A JSON null result is a valid success value and is returned
// as the literal bytes "null".
//
// The response id is not matched against the request id: HTTP pairs each
// response with the request that produced it, so a mismatch can only come
// from a broken proxy, which the envelope cannot guard against anyway.
func (c *Client) Call(ctx context.Context, method string, params ...any) (json.RawMessage, error) {
	if method == "" {
		return nil, jsonrpc.ErrNoMethod
	}

	req := jsonrpc.NewRequest(c.nextID(), method, params)
	if err := req.Validate(); err != nil {
		return nil, err
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.userAgent != "" {
		httpReq.Header.Set("User-Agent", c.userAgent)
	}
	for key, values := range c.header {
		for _, value := range values {
			httpReq.Header.Add(key, value)
		}
	}
	if c.username != "" || c.password != "" {
		httpReq.SetBasicAuth(c.username, c.password)
	}

	c.listener.OnRequest(method, req.ID)
	c.log.Debugw("Sending request", "method", method, "id", req.ID)

	reqTimer := time.Now()
	res, err := c.client.Do(httpReq)
	if err != nil {
		c.log.Debugw("Request failed", "method", method, "id", req.ID, "err", err)
		return nil, &TransportError{Err: err}
	}
	defer res.Body.Close()
	c.listener.OnResponse(method, res.StatusCode, time.Since(reqTimer))

	raw, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, &TransportError{Err: err}
	}

	if res.StatusCode < http.StatusOK || res.StatusCode >= http.StatusMultipleChoices {
		return nil, &HTTPStatusError{StatusCode: res.StatusCode, Status: res.Status, Body: raw}
	}

	var rpcRes jsonrpc.Response
	if err := json.Unmarshal(raw, &rpcRes); err != nil {
		return nil, &MalformedResponseError{Body: raw, Err: err}
	}
	if err := rpcRes.Validate(); err != nil {
		return nil, &MalformedResponseError{Body: raw, Err: err}
	}

	if rpcRes.Error != nil {
		return nil, &RPCError{
			ID:      req.ID,
			Code:    rpcRes.Error.Code,
			Message: rpcRes.Error.Message,
			Data:    rpcRes.Error.Data,
		}
	}
	return rpcRes.Result, nil
}
