package bitcoind

import "encoding/json"

// Result shapes of the typed methods. Only stable, version-independent members
// are modelled; verbosity-dependent payloads (blocks, headers, transactions,
// PSBT analyses) stay json.RawMessage because their shape depends on the
// request and the node version.

type MempoolInfo struct {
	Loaded        bool    `json:"loaded"`
	Size          int64   `json:"size"`
	Bytes         int64   `json:"bytes"`
	Usage         int64   `json:"usage"`
	TotalFee      float64 `json:"total_fee"`
	MaxMempool    int64   `json:"maxmempool"`
	MempoolMinFee float64 `json:"mempoolminfee"`
	MinRelayTxFee float64 `json:"minrelaytxfee"`
}

type MiningInfo struct {
	Blocks        int64   `json:"blocks"`
	Difficulty    float64 `json:"difficulty"`
	NetworkHashPS float64 `json:"networkhashps"`
	PooledTx      int64   `json:"pooledtx"`
	Chain         string  `json:"chain"`
	Warnings      string  `json:"warnings"`
}

type NetworkDetails struct {
	Name                      string `json:"name"`
	Limited                   bool   `json:"limited"`
	Reachable                 bool   `json:"reachable"`
	Proxy                     string `json:"proxy"`
	ProxyRandomizeCredentials bool   `json:"proxy_randomize_credentials"`
}

type LocalAddress struct {
	Address string  `json:"address"`
	Port    uint16  `json:"port"`
	Score   float64 `json:"score"`
}

type NetworkInfo struct {
	Version         int64            `json:"version"`
	Subversion      string           `json:"subversion"`
	ProtocolVersion int64            `json:"protocolversion"`
	LocalServices   string           `json:"localservices"`
	LocalRelay      bool             `json:"localrelay"`
	TimeOffset      int64            `json:"timeoffset"`
	NetworkActive   bool             `json:"networkactive"`
	Connections     int64            `json:"connections"`
	Networks        []NetworkDetails `json:"networks"`
	RelayFee        float64          `json:"relayfee"`
	IncrementalFee  float64          `json:"incrementalfee"`
	LocalAddresses  []LocalAddress   `json:"localaddresses"`
	Warnings        string           `json:"warnings"`
}

type BlockchainInfo struct {
	Chain                string          `json:"chain"`
	Blocks               int64           `json:"blocks"`
	Headers              int64           `json:"headers"`
	BestBlockHash        string          `json:"bestblockhash"`
	Difficulty           float64         `json:"difficulty"`
	MedianTime           int64           `json:"mediantime"`
	VerificationProgress float64         `json:"verificationprogress"`
	InitialBlockDownload bool            `json:"initialblockdownload"`
	ChainWork            string          `json:"chainwork"`
	SizeOnDisk           int64           `json:"size_on_disk"`
	Pruned               bool            `json:"pruned"`
	SoftForks            json.RawMessage `json:"softforks,omitempty"`
	Warnings             string          `json:"warnings"`
}

type ChainTip struct {
	Height    int64  `json:"height"`
	Hash      string `json:"hash"`
	BranchLen int64  `json:"branchlen"`
	Status    string `json:"status"`
}

type FinalizePSBTResult struct {
	PSBT     string `json:"psbt"`
	Hex      string `json:"hex"`
	Complete bool   `json:"complete"`
}

type WalletProcessPSBTResult struct {
	PSBT     string `json:"psbt"`
	Complete bool   `json:"complete"`
}
