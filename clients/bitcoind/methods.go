package bitcoind

import (
	"context"
	"encoding/json"
)

// Typed wrappers over Call, one per RPC. Type-correctness of the parameters
// is the wrapper's responsibility; Call only requires them to be
// JSON-representable.

// GetMempoolInfo https://developer.bitcoin.org/reference/rpc/getmempoolinfo.html
func (c *Client) GetMempoolInfo(ctx context.Context) (*MempoolInfo, error) {
	res, err := c.Call(ctx, "getmempoolinfo")
	if err != nil {
		return nil, err
	}

	info := new(MempoolInfo)
	if err := json.Unmarshal(res, info); err != nil {
		return nil, err
	}
	return info, nil
}

// GetMiningInfo https://developer.bitcoin.org/reference/rpc/getmininginfo.html
func (c *Client) GetMiningInfo(ctx context.Context) (*MiningInfo, error) {
	res, err := c.Call(ctx, "getmininginfo")
	if err != nil {
		return nil, err
	}

	info := new(MiningInfo)
	if err := json.Unmarshal(res, info); err != nil {
		return nil, err
	}
	return info, nil
}

// GetNetworkInfo https://developer.bitcoin.org/reference/rpc/getnetworkinfo.html
func (c *Client) GetNetworkInfo(ctx context.Context) (*NetworkInfo, error) {
	res, err := c.Call(ctx, "getnetworkinfo")
	if err != nil {
		return nil, err
	}

	info := new(NetworkInfo)
	if err := json.Unmarshal(res, info); err != nil {
		return nil, err
	}
	return info, nil
}

// GetBlockchainInfo https://developer.bitcoin.org/reference/rpc/getblockchaininfo.html
func (c *Client) GetBlockchainInfo(ctx context.Context) (*BlockchainInfo, error) {
	res, err := c.Call(ctx, "getblockchaininfo")
	if err != nil {
		return nil, err
	}

	info := new(BlockchainInfo)
	if err := json.Unmarshal(res, info); err != nil {
		return nil, err
	}
	return info, nil
}

// GetConnectionCount https://developer.bitcoin.org/reference/rpc/getconnectioncount.html
func (c *Client) GetConnectionCount(ctx context.Context) (int64, error) {
	res, err := c.Call(ctx, "getconnectioncount")
	if err != nil {
		return 0, err
	}

	var count int64
	if err := json.Unmarshal(res, &count); err != nil {
		return 0, err
	}
	return count, nil
}

// GetChainTips https://developer.bitcoin.org/reference/rpc/getchaintips.html
func (c *Client) GetChainTips(ctx context.Context) ([]ChainTip, error) {
	res, err := c.Call(ctx, "getchaintips")
	if err != nil {
		return nil, err
	}

	var tips []ChainTip
	if err := json.Unmarshal(res, &tips); err != nil {
		return nil, err
	}
	return tips, nil
}

// GetDifficulty https://developer.bitcoin.org/reference/rpc/getdifficulty.html
func (c *Client) GetDifficulty(ctx context.Context) (float64, error) {
	res, err := c.Call(ctx, "getdifficulty")
	if err != nil {
		return 0, err
	}

	var difficulty float64
	if err := json.Unmarshal(res, &difficulty); err != nil {
		return 0, err
	}
	return difficulty, nil
}

// GetBestBlockHash https://developer.bitcoin.org/reference/rpc/getbestblockhash.html
func (c *Client) GetBestBlockHash(ctx context.Context) (string, error) {
	res, err := c.Call(ctx, "getbestblockhash")
	if err != nil {
		return "", err
	}

	var hash string
	if err := json.Unmarshal(res, &hash); err != nil {
		return "", err
	}
	return hash, nil
}

// GetBlockHash https://developer.bitcoin.org/reference/rpc/getblockhash.html
func (c *Client) GetBlockHash(ctx context.Context, height int64) (string, error) {
	res, err := c.Call(ctx, "getblockhash", height)
	if err != nil {
		return "", err
	}

	var hash string
	if err := json.Unmarshal(res, &hash); err != nil {
		return "", err
	}
	return hash, nil
}

// GetBlockCount https://developer.bitcoin.org/reference/rpc/getblockcount.html
func (c *Client) GetBlockCount(ctx context.Context) (int64, error) {
	res, err := c.Call(ctx, "getblockcount")
	if err != nil {
		return 0, err
	}

	var count int64
	if err := json.Unmarshal(res, &count); err != nil {
		return 0, err
	}
	return count, nil
}

// GetBlockHeader returns the header of the block with the given hash, as a
// JSON object when verbose or a hex-encoded string otherwise.
//
// https://developer.bitcoin.org/reference/rpc/getblockheader.html
func (c *Client) GetBlockHeader(ctx context.Context, blockHash string, verbose bool) (json.RawMessage, error) {
	return c.Call(ctx, "getblockheader", blockHash, verbose)
}

// GetBlockStats computes per-block statistics. Pass keys to restrict the
// response to the named values.
//
// https://developer.bitcoin.org/reference/rpc/getblockstats.html
func (c *Client) GetBlockStats(ctx context.Context, hashOrHeight any, keys ...string) (json.RawMessage, error) {
	if len(keys) == 0 {
		return c.Call(ctx, "getblockstats", hashOrHeight, nil)
	}
	return c.Call(ctx, "getblockstats", hashOrHeight, keys)
}

// GetBlock returns the block with the given hash. Verbosity 0 yields
// hex-encoded block data, 1 block data with a transaction id list, 2 block
// data with full transactions.
//
// https://developer.bitcoin.org/reference/rpc/getblock.html
func (c *Client) GetBlock(ctx context.Context, blockHash string, verbosity int) (json.RawMessage, error) {
	return c.Call(ctx, "getblock", blockHash, verbosity)
}

// GetRawTransaction returns the transaction with the given id, as a JSON
// object when verbose or a hex-encoded string otherwise. For transactions not
// in the mempool, blockHash names the block to look in; leave it empty
// otherwise.
//
// https://developer.bitcoin.org/reference/rpc/getrawtransaction.html
func (c *Client) GetRawTransaction(ctx context.Context, txID string, verbose bool, blockHash string) (json.RawMessage, error) {
	if blockHash == "" {
		return c.Call(ctx, "getrawtransaction", txID, verbose)
	}
	return c.Call(ctx, "getrawtransaction", txID, verbose, blockHash)
}

// GetNetworkHashPS estimates the network hashes per second. nBlocks -1
// averages since the last difficulty change; height -1 means the tip.
//
// https://developer.bitcoin.org/reference/rpc/getnetworkhashps.html
func (c *Client) GetNetworkHashPS(ctx context.Context, nBlocks, height int64) (float64, error) {
	res, err := c.Call(ctx, "getnetworkhashps", nBlocks, height)
	if err != nil {
		return 0, err
	}

	var hashps float64
	if err := json.Unmarshal(res, &hashps); err != nil {
		return 0, err
	}
	return hashps, nil
}

// AnalyzePSBT https://developer.bitcoin.org/reference/rpc/analyzepsbt.html
func (c *Client) AnalyzePSBT(ctx context.Context, psbt string) (json.RawMessage, error) {
	return c.Call(ctx, "analyzepsbt", psbt)
}

// CombinePSBT merges multiple partially signed transactions into one.
//
// https://developer.bitcoin.org/reference/rpc/combinepsbt.html
func (c *Client) CombinePSBT(ctx context.Context, psbts ...string) (string, error) {
	res, err := c.Call(ctx, "combinepsbt", psbts)
	if err != nil {
		return "", err
	}

	var combined string
	if err := json.Unmarshal(res, &combined); err != nil {
		return "", err
	}
	return combined, nil
}

// DecodePSBT https://developer.bitcoin.org/reference/rpc/decodepsbt.html
func (c *Client) DecodePSBT(ctx context.Context, psbt string) (json.RawMessage, error) {
	return c.Call(ctx, "decodepsbt", psbt)
}

// FinalizePSBT https://developer.bitcoin.org/reference/rpc/finalizepsbt.html
func (c *Client) FinalizePSBT(ctx context.Context, psbt string, extract bool) (*FinalizePSBTResult, error) {
	res, err := c.Call(ctx, "finalizepsbt", psbt, extract)
	if err != nil {
		return nil, err
	}

	finalized := new(FinalizePSBTResult)
	if err := json.Unmarshal(res, finalized); err != nil {
		return nil, err
	}
	return finalized, nil
}

// JoinPSBTs https://developer.bitcoin.org/reference/rpc/joinpsbts.html
func (c *Client) JoinPSBTs(ctx context.Context, psbts ...string) (string, error) {
	res, err := c.Call(ctx, "joinpsbts", psbts)
	if err != nil {
		return "", err
	}

	var joined string
	if err := json.Unmarshal(res, &joined); err != nil {
		return "", err
	}
	return joined, nil
}

// UtxoUpdatePSBT updates a PSBT with UTXO information from the node. The
// optional descriptors either are output descriptor strings or maps with an
// output descriptor and a derivation range.
//
// https://developer.bitcoin.org/reference/rpc/utxoupdatepsbt.html
func (c *Client) UtxoUpdatePSBT(ctx context.Context, psbt string, descriptors []any) (string, error) {
	var res json.RawMessage
	var err error
	if descriptors == nil {
		res, err = c.Call(ctx, "utxoupdatepsbt", psbt)
	} else {
		res, err = c.Call(ctx, "utxoupdatepsbt", psbt, descriptors)
	}
	if err != nil {
		return "", err
	}

	var updated string
	if err := json.Unmarshal(res, &updated); err != nil {
		return "", err
	}
	return updated, nil
}

// WalletProcessPSBT https://developer.bitcoin.org/reference/rpc/walletprocesspsbt.html
func (c *Client) WalletProcessPSBT(ctx context.Context, psbt string, sign bool, sighashType string, bip32Derivs bool) (*WalletProcessPSBTResult, error) {
	res, err := c.Call(ctx, "walletprocesspsbt", psbt, sign, sighashType, bip32Derivs)
	if err != nil {
		return nil, err
	}

	processed := new(WalletProcessPSBTResult)
	if err := json.Unmarshal(res, processed); err != nil {
		return nil, err
	}
	return processed, nil
}
