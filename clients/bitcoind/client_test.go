package bitcoind_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/blockforge/bitcoinrpc/clients/bitcoind"
	"github.com/blockforge/bitcoinrpc/jsonrpc"
	"github.com/blockforge/bitcoinrpc/utils"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newStaticServer replies to every request with the given body and status,
// regardless of the method called.
func newStaticServer(t *testing.T, status int, body string) *httptest.Server {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, err := w.Write([]byte(body))
		require.NoError(t, err)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestCountersAreNotShared(t *testing.T) {
	var ids []any
	listener := &bitcoind.SelectiveListener{
		OnRequestCb: func(method string, id any) {
			ids = append(ids, id)
		},
	}

	client1 := bitcoind.NewTestClient(t).WithListener(listener)
	client2 := bitcoind.NewTestClient(t).WithListener(listener)

	_, err := client1.GetBlockCount(context.Background())
	require.NoError(t, err)
	_, err = client2.GetBlockCount(context.Background())
	require.NoError(t, err)

	// Each client owns its own counter, so both first calls carry id 1.
	require.Len(t, ids, 2)
	assert.Equal(t, uint64(1), ids[0])
	assert.Equal(t, ids[0], ids[1])
}

func TestIDsAreMonotonic(t *testing.T) {
	var ids []any
	client := bitcoind.NewTestClient(t).WithListener(&bitcoind.SelectiveListener{
		OnRequestCb: func(method string, id any) {
			ids = append(ids, id)
		},
	})

	for i := 0; i < 3; i++ {
		_, err := client.GetBlockCount(context.Background())
		require.NoError(t, err)
	}
	assert.Equal(t, []any{uint64(1), uint64(2), uint64(3)}, ids)
}

func TestConcurrentCallsGetUniqueIDs(t *testing.T) {
	const calls = 32

	var mu sync.Mutex
	seen := make(map[any]int, calls)
	client := bitcoind.NewTestClient(t).WithListener(&bitcoind.SelectiveListener{
		OnRequestCb: func(method string, id any) {
			mu.Lock()
			seen[id]++
			mu.Unlock()
		},
	})

	var wg sync.WaitGroup
	for i := 0; i < calls; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := client.GetBlockCount(context.Background())
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	require.Len(t, seen, calls)
	for id, count := range seen {
		assert.Equal(t, 1, count, "id %v reused", id)
	}
}

func TestCustomIDGenerator(t *testing.T) {
	var got any
	client := bitcoind.NewTestClient(t).
		WithIDGenerator(func() any { return "going-to-the-moon" }).
		WithListener(&bitcoind.SelectiveListener{
			OnRequestCb: func(method string, id any) { got = id },
		})

	_, err := client.GetBlockCount(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "going-to-the-moon", got)
}

func TestNullResultIsSuccess(t *testing.T) {
	srv := newStaticServer(t, http.StatusOK, `{"jsonrpc":"2.0","id":1,"result":null,"error":null}`)
	client, err := bitcoind.NewClient(&bitcoind.Config{URL: srv.URL})
	require.NoError(t, err)

	res, err := client.Call(context.Background(), "getblocktemplate")
	require.NoError(t, err)
	assert.Equal(t, json.RawMessage("null"), res)
}

func TestRPCErrorCarriesDetails(t *testing.T) {
	srv := newStaticServer(t, http.StatusOK,
		`{"jsonrpc":"2.0","id":1,"result":null,"error":{"code":-8,"message":"unknown named parameter","data":"verbosity"}}`)
	client, err := bitcoind.NewClient(&bitcoind.Config{URL: srv.URL})
	require.NoError(t, err)

	_, err = client.Call(context.Background(), "getblock")
	var rpcErr *bitcoind.RPCError
	require.ErrorAs(t, err, &rpcErr)
	assert.Equal(t, uint64(1), rpcErr.ID)
	assert.Equal(t, bitcoind.ErrCodeInvalidParameter, rpcErr.Code)
	assert.Equal(t, "unknown named parameter", rpcErr.Message)
	assert.Equal(t, json.RawMessage(`"verbosity"`), rpcErr.Data)
}

func TestUnknownMethod(t *testing.T) {
	client := bitcoind.NewTestClient(t)

	_, err := client.Call(context.Background(), "foobar")
	var rpcErr *bitcoind.RPCError
	require.ErrorAs(t, err, &rpcErr)
	assert.Equal(t, jsonrpc.MethodNotFound, rpcErr.Code)
	assert.Equal(t, "Method not found", rpcErr.Message)
}

func TestTransportError(t *testing.T) {
	t.Run("connection refused", func(t *testing.T) {
		srv := httptest.NewServer(http.NotFoundHandler())
		url := srv.URL
		srv.Close()

		client, err := bitcoind.NewClient(&bitcoind.Config{URL: url})
		require.NoError(t, err)

		_, err = client.GetBlockCount(context.Background())
		var transportErr *bitcoind.TransportError
		require.ErrorAs(t, err, &transportErr)

		var rpcErr *bitcoind.RPCError
		assert.False(t, errors.As(err, &rpcErr))
	})

	t.Run("cancelled context", func(t *testing.T) {
		client := bitcoind.NewTestClient(t)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := client.GetBlockCount(ctx)
		var transportErr *bitcoind.TransportError
		require.ErrorAs(t, err, &transportErr)
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestCancellationDoesNotCorruptGenerator(t *testing.T) {
	var ids []any
	client := bitcoind.NewTestClient(t).WithListener(&bitcoind.SelectiveListener{
		OnRequestCb: func(method string, id any) { ids = append(ids, id) },
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := client.GetBlockCount(ctx)
	require.Error(t, err)

	count, err := client.GetBlockCount(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(810000), count)
	assert.Equal(t, []any{uint64(1), uint64(2)}, ids)
}

func TestHTTPStatusError(t *testing.T) {
	// A JSON-RPC error body under a non-2xx status must surface as an
	// HTTPStatusError; the body is not parsed.
	body := `{"jsonrpc":"2.0","id":1,"result":null,"error":{"code":-32601,"message":"Method not found"}}`
	srv := newStaticServer(t, http.StatusInternalServerError, body)
	client, err := bitcoind.NewClient(&bitcoind.Config{URL: srv.URL})
	require.NoError(t, err)

	_, err = client.Call(context.Background(), "foobar")
	var statusErr *bitcoind.HTTPStatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusInternalServerError, statusErr.StatusCode)
	assert.JSONEq(t, body, string(statusErr.Body))

	var rpcErr *bitcoind.RPCError
	assert.False(t, errors.As(err, &rpcErr))
}

func TestMalformedResponse(t *testing.T) {
	tests := map[string]struct {
		body string
		err  error
	}{
		"invalid JSON": {
			body: `pruned data`,
		},
		"missing id": {
			body: `{"jsonrpc":"2.0","result":810000}`,
			err:  jsonrpc.ErrMissingID,
		},
		"neither result nor error": {
			body: `{"jsonrpc":"2.0","id":1}`,
			err:  jsonrpc.ErrMissingResult,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			srv := newStaticServer(t, http.StatusOK, test.body)
			client, err := bitcoind.NewClient(&bitcoind.Config{URL: srv.URL})
			require.NoError(t, err)

			_, err = client.GetBlockCount(context.Background())
			var malformedErr *bitcoind.MalformedResponseError
			require.ErrorAs(t, err, &malformedErr)
			assert.Equal(t, test.body, string(malformedErr.Body))
			if test.err != nil {
				assert.ErrorIs(t, err, test.err)
			}
		})
	}
}

func TestEmptyMethodDoesNotConsumeID(t *testing.T) {
	var ids []any
	client := bitcoind.NewTestClient(t).WithListener(&bitcoind.SelectiveListener{
		OnRequestCb: func(method string, id any) { ids = append(ids, id) },
	})

	_, err := client.Call(context.Background(), "")
	require.ErrorIs(t, err, jsonrpc.ErrNoMethod)

	_, err = client.GetBlockCount(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []any{uint64(1)}, ids)
}

func TestNewClientConfig(t *testing.T) {
	tests := map[string]struct {
		cfg    *bitcoind.Config
		reason string
	}{
		"nil config": {
			cfg:    nil,
			reason: "config must not be nil",
		},
		"no endpoint": {
			cfg:    &bitcoind.Config{},
			reason: "either URL or Network must be set",
		},
		"URL and Network": {
			cfg:    &bitcoind.Config{URL: "http://localhost:8332", Network: utils.Regtest},
			reason: "URL and Network are mutually exclusive",
		},
		"unknown network": {
			cfg:    &bitcoind.Config{Network: utils.Network(99)},
			reason: "unknown network",
		},
		"negative timeout": {
			cfg:    &bitcoind.Config{URL: "http://localhost:8332", Timeout: -time.Second},
			reason: "timeout must not be negative",
		},
		"auth specified twice": {
			cfg: &bitcoind.Config{
				URL:      "http://localhost:8332",
				Username: "rpcuser",
				Password: "rpcpasswd",
				Headers:  http.Header{"Authorization": []string{"Basic dXNlcjpwYXNz"}},
			},
			reason: "auth specified twice, with credentials and an Authorization header",
		},
		"malformed URL": {
			cfg:    &bitcoind.Config{URL: "localhost:8332"},
			reason: "malformed URL",
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			client, err := bitcoind.NewClient(test.cfg)
			require.Nil(t, client)

			var confErr *bitcoind.ConfigurationError
			require.ErrorAs(t, err, &confErr)
			assert.Equal(t, test.reason, confErr.Reason)
		})
	}

	t.Run("network shorthand", func(t *testing.T) {
		client, err := bitcoind.NewClient(&bitcoind.Config{Network: utils.Regtest})
		require.NoError(t, err)
		assert.Equal(t, "http://localhost:18443", client.URL())
	})

	t.Run("trailing slash is trimmed", func(t *testing.T) {
		client, err := bitcoind.NewClient(&bitcoind.Config{URL: "http://localhost:8332/"})
		require.NoError(t, err)
		assert.Equal(t, "http://localhost:8332", client.URL())
	})
}

func TestRequestHeaders(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "bitcoinrpc/test", r.Header.Get("User-Agent"))
		assert.Equal(t, "wallet-7", r.Header.Get("X-Wallet"))

		user, passwd, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "rpcuser", user)
		assert.Equal(t, "rpcpasswd", passwd)

		_, err := w.Write([]byte(`{"jsonrpc":"2.0","id":1,"result":810000,"error":null}`))
		assert.NoError(t, err)
	}))
	t.Cleanup(srv.Close)

	client, err := bitcoind.NewClient(&bitcoind.Config{
		URL:       srv.URL,
		Username:  "rpcuser",
		Password:  "rpcpasswd",
		UserAgent: "bitcoinrpc/test",
		Headers:   http.Header{"X-Wallet": []string{"wallet-7"}},
	})
	require.NoError(t, err)

	count, err := client.GetBlockCount(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(810000), count)
}

func TestEventListener(t *testing.T) {
	isCalled := false
	client := bitcoind.NewTestClient(t).WithListener(&bitcoind.SelectiveListener{
		OnResponseCb: func(method string, status int, took time.Duration) {
			isCalled = true
			require.Equal(t, "getblockcount", method)
			require.Equal(t, http.StatusOK, status)
			require.Positive(t, took)
		},
	})

	_, err := client.GetBlockCount(context.Background())
	require.NoError(t, err)
	require.True(t, isCalled)
}

func TestClientMetrics(t *testing.T) {
	registry := prometheus.NewRegistry()
	client := bitcoind.NewTestClient(t).WithListener(bitcoind.MakeClientMetrics(registry))

	_, err := client.GetBlockCount(context.Background())
	require.NoError(t, err)

	families, err := registry.Gather()
	require.NoError(t, err)
	require.Len(t, families, 1)
	assert.Equal(t, "bitcoind_client_request_latency", families[0].GetName())
}

func TestClose(t *testing.T) {
	client := bitcoind.NewTestClient(t)

	_, err := client.GetBlockCount(context.Background())
	require.NoError(t, err)

	client.Close()

	// Closing only releases idle connections; the client stays usable.
	_, err = client.GetBlockCount(context.Background())
	require.NoError(t, err)
}
