package bitcoind

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/blockforge/bitcoinrpc/jsonrpc"
)

// NewTestClient returns a client backed by an in-process mock node. The mock
// knows a handful of canned replies, echoes request ids, rejects malformed
// block hashes with code -8 and unknown methods with code -32601.
func NewTestClient(t *testing.T) *Client {
	srv := newTestServer()
	t.Cleanup(srv.Close)

	client, err := NewClient(&Config{URL: srv.URL})
	if err != nil {
		t.Fatalf("constructing test client: %v", err)
	}
	return client
}

const (
	testBestBlockHash = "00000000000000000001a66adbcce19ffa90fb72f37115e43b407ea49b4a2dbf"
	testGenesisHash   = "000000000019d6689c085ae165831e934ff763ae46a2a6c172b3f1b60a8ce26f"
)

func isHex(s string) bool {
	for _, r := range s {
		if (r < '0' || r > '9') && (r < 'a' || r > 'f') && (r < 'A' || r > 'F') {
			return false
		}
	}
	return true
}

func newTestServer() *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req jsonrpc.Request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		res := &jsonrpc.Response{Version: jsonrpc.Version}
		res.ID, _ = json.Marshal(req.ID)

		switch req.Method {
		case "getblockcount":
			res.Result = json.RawMessage(`810000`)
		case "getbestblockhash":
			res.Result = json.RawMessage(fmt.Sprintf("%q", testBestBlockHash))
		case "getconnectioncount":
			res.Result = json.RawMessage(`10`)
		case "getdifficulty":
			res.Result = json.RawMessage(`55621444139429.57`)
		case "getnetworkhashps":
			res.Result = json.RawMessage(`4.0184157344595066e+20`)
		case "getblockhash":
			res.Result = json.RawMessage(fmt.Sprintf("%q", testGenesisHash))
		case "getmempoolinfo":
			res.Result = json.RawMessage(`{"loaded":true,"size":52776,"bytes":33583869,"usage":132183152,` +
				`"total_fee":2.38374656,"maxmempool":300000000,"mempoolminfee":0.00001,"minrelaytxfee":0.00001}`)
		case "getmininginfo":
			res.Result = json.RawMessage(`{"blocks":810000,"difficulty":55621444139429.57,` +
				`"networkhashps":4.0184157344595066e+20,"pooledtx":52776,"chain":"main","warnings":""}`)
		case "getnetworkinfo":
			res.Result = json.RawMessage(`{"version":260000,"subversion":"/Satoshi:26.0.0/",` +
				`"protocolversion":70016,"localservices":"0000000000000409","localrelay":true,` +
				`"timeoffset":0,"networkactive":true,"connections":10,` +
				`"networks":[{"name":"ipv4","limited":false,"reachable":true,"proxy":"","proxy_randomize_credentials":false}],` +
				`"relayfee":0.00001,"incrementalfee":0.00001,"localaddresses":[],"warnings":""}`)
		case "getblockchaininfo":
			res.Result = json.RawMessage(`{"chain":"main","blocks":810000,"headers":810000,` +
				`"bestblockhash":"` + testBestBlockHash + `","difficulty":55621444139429.57,` +
				`"mediantime":1696009269,"verificationprogress":0.9999,"initialblockdownload":false,` +
				`"chainwork":"00000000000000000000000000000000000000005544f731fa9c06e6d8fc5af5",` +
				`"size_on_disk":591905481622,"pruned":false,"warnings":""}`)
		case "getchaintips":
			res.Result = json.RawMessage(`[{"height":810000,"hash":"` + testBestBlockHash + `","branchlen":0,"status":"active"}]`)
		case "getblockheader", "getblock":
			hash, _ := req.Params[0].(string)
			if len(hash) != 64 || !isHex(hash) {
				res.Error = &jsonrpc.Error{
					Code:    ErrCodeInvalidParameter,
					Message: fmt.Sprintf("blockhash must be of length 64 (not %d, for '%s')", len(hash), hash),
				}
				break
			}
			res.Result = json.RawMessage(`{"hash":"` + hash + `","confirmations":1,"height":810000,` +
				`"version":536870912,"merkleroot":"d41f8a7f2b1c4cf1452286d3a21c6cdcba0f6ba2c32ff70e3c4069ad54e0bbbc",` +
				`"time":1696009269,"mediantime":1696009269,"nonce":1411662072,"bits":"17053894",` +
				`"difficulty":55621444139429.57,"nTx":4244,"previousblockhash":"` + testGenesisHash + `"}`)
		case "getrawtransaction":
			txID, _ := req.Params[0].(string)
			if len(txID) != 64 || !isHex(txID) {
				res.Error = &jsonrpc.Error{
					Code:    ErrCodeInvalidParameter,
					Message: fmt.Sprintf("parameter 1 must be of length 64 (not %d, for '%s')", len(txID), txID),
				}
				break
			}
			res.Result = json.RawMessage(`{"txid":"` + txID + `","hash":"` + txID + `","version":2,` +
				`"size":222,"vsize":141,"weight":561,"locktime":0,"vin":[],"vout":[],"hex":"0200"}`)
		case "getblockstats":
			res.Result = json.RawMessage(`{"avgfee":3124,"height":810000,"subsidy":625000000,"txs":4244}`)
		case "analyzepsbt":
			res.Result = json.RawMessage(`{"inputs":[{"has_utxo":false,"is_final":false,"next":"updater"}],"next":"updater"}`)
		case "decodepsbt":
			res.Result = json.RawMessage(`{"tx":{"txid":"` + testGenesisHash + `"},"unknown":{},"inputs":[],"outputs":[]}`)
		case "combinepsbt", "joinpsbts", "utxoupdatepsbt":
			res.Result = json.RawMessage(`"cHNidP8BAHECAAAAAA=="`)
		case "finalizepsbt":
			res.Result = json.RawMessage(`{"psbt":"cHNidP8BAHECAAAAAA==","hex":"0200","complete":true}`)
		case "walletprocesspsbt":
			res.Result = json.RawMessage(`{"psbt":"cHNidP8BAHECAAAAAA==","complete":true}`)
		default:
			res.Error = jsonrpc.Err(jsonrpc.MethodNotFound, nil)
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(res); err != nil {
			w.WriteHeader(http.StatusInternalServerError)
		}
	}))
}
