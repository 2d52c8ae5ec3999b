package main

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/blockforge/bitcoinrpc/clients/bitcoind"
	"github.com/blockforge/bitcoinrpc/utils"
	"github.com/mitchellh/mapstructure"
	"github.com/sourcegraph/conc/pool"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var Version string

const (
	configF      = "config"
	urlF         = "url"
	networkF     = "network"
	rpcUserF     = "rpc-user"
	rpcPasswordF = "rpc-password"
	timeoutF     = "timeout"
	verbosityF   = "verbosity"
	colourF      = "colour"

	defaultConfig  = ""
	defaultURL     = ""
	defaultNetwork = utils.Mainnet
	defaultTimeout = 10 * time.Second
	defaultColour  = true

	configFlagUsage    = "The yaml configuration file."
	urlUsage           = "The node's RPC endpoint. Overrides the network default."
	networkUsage       = "The chain the node runs. Options: mainnet, testnet, signet, regtest."
	rpcUserUsage       = "Username for RPC basic auth (bitcoind's rpcuser)."
	rpcPasswordUsage   = "Password for RPC basic auth (bitcoind's rpcpassword)."
	timeoutUsage       = "Per-request timeout."
	verbosityFlagUsage = "Verbosity of the logs. Options: debug, info, warn, error."
	colourUsage        = "Use colour in logs. Use --colour=false for grep-friendly output."

	maxConcurrentFetches = 8
)

// Config is the top-level btcrpc configuration, assembled from defaults, the
// yaml config file and command line flags, in increasing order of precedence.
type Config struct {
	URL       string         `mapstructure:"url"`
	Network   utils.Network  `mapstructure:"network"`
	Username  string         `mapstructure:"rpc-user"`
	Password  string         `mapstructure:"rpc-password"`
	Timeout   time.Duration  `mapstructure:"timeout"`
	Verbosity utils.LogLevel `mapstructure:"verbosity"`
	Colour    bool           `mapstructure:"colour"`
}

// NewClientFn builds the RPC client the subcommands run against. Swappable in
// tests.
type NewClientFn func(cfg *Config) (*bitcoind.Client, error)

func NewClient(cfg *Config) (*bitcoind.Client, error) {
	log, err := utils.NewZapLogger(cfg.Verbosity, cfg.Colour)
	if err != nil {
		return nil, err
	}

	clientCfg := &bitcoind.Config{
		Username: cfg.Username,
		Password: cfg.Password,
		Timeout:  cfg.Timeout,
	}
	if cfg.URL != "" {
		clientCfg.URL = cfg.URL
	} else {
		clientCfg.Network = cfg.Network
	}

	client, err := bitcoind.NewClient(clientCfg)
	if err != nil {
		return nil, err
	}
	return client.WithLogger(log), nil
}

func NewCmd(newClientFn NewClientFn) *cobra.Command {
	var cfgFile string
	var cfg Config
	var client *bitcoind.Client

	btcrpcCmd := &cobra.Command{
		Use:     "btcrpc [command]",
		Short:   "Query a Bitcoin Core node over its JSON-RPC interface.",
		Version: Version,
	}

	verbosity := utils.WARN
	network := defaultNetwork
	btcrpcCmd.PersistentFlags().StringVar(&cfgFile, configF, defaultConfig, configFlagUsage)
	btcrpcCmd.PersistentFlags().String(urlF, defaultURL, urlUsage)
	btcrpcCmd.PersistentFlags().Var(&network, networkF, networkUsage)
	btcrpcCmd.PersistentFlags().String(rpcUserF, "", rpcUserUsage)
	btcrpcCmd.PersistentFlags().String(rpcPasswordF, "", rpcPasswordUsage)
	btcrpcCmd.PersistentFlags().Duration(timeoutF, defaultTimeout, timeoutUsage)
	btcrpcCmd.PersistentFlags().Var(&verbosity, verbosityF, verbosityFlagUsage)
	btcrpcCmd.PersistentFlags().Bool(colourF, defaultColour, colourUsage)

	btcrpcCmd.PersistentPreRunE = func(cmd *cobra.Command, _ []string) error {
		v := viper.New()
		if cfgFile != "" {
			v.SetConfigType("yaml")
			v.SetConfigFile(cfgFile)
			if err := v.ReadInConfig(); err != nil {
				return err
			}
		}

		if err := v.BindPFlags(cmd.Root().PersistentFlags()); err != nil {
			return err
		}

		if err := v.Unmarshal(&cfg, viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
			mapstructure.TextUnmarshallerHookFunc(),
			mapstructure.StringToTimeDurationHookFunc(),
		))); err != nil {
			return err
		}

		var err error
		client, err = newClientFn(&cfg)
		return err
	}
	btcrpcCmd.PersistentPostRun = func(*cobra.Command, []string) {
		if client != nil {
			client.Close()
		}
	}

	blockCountCmd := &cobra.Command{
		Use:   "blockcount",
		Short: "Print the height of the most-work fully-validated chain.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			count, err := client.GetBlockCount(cmd.Context())
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), count)
			return err
		},
	}

	chainInfoCmd := &cobra.Command{
		Use:   "chaininfo",
		Short: "Print blockchain state info.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			info, err := client.GetBlockchainInfo(cmd.Context())
			if err != nil {
				return err
			}
			return printJSON(cmd, info)
		},
	}

	blockCmd := &cobra.Command{
		Use:   "block <hash>",
		Short: "Print the block with the given hash.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			block, err := client.GetBlock(cmd.Context(), args[0], 1)
			if err != nil {
				return err
			}
			return printJSON(cmd, block)
		},
	}

	rawTxCmd := &cobra.Command{
		Use:   "rawtx <txid>",
		Short: "Print the transaction with the given id.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tx, err := client.GetRawTransaction(cmd.Context(), args[0], true, "")
			if err != nil {
				return err
			}
			return printJSON(cmd, tx)
		},
	}

	headersCmd := &cobra.Command{
		Use:   "headers <from> <to>",
		Short: "Print the block headers for a height range.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			from, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return err
			}
			to, err := strconv.ParseInt(args[1], 10, 64)
			if err != nil {
				return err
			}
			if to < from {
				return fmt.Errorf("invalid range [%d, %d]", from, to)
			}

			headers := make([]json.RawMessage, to-from+1)
			fetches := pool.New().
				WithContext(cmd.Context()).
				WithCancelOnError().
				WithMaxGoroutines(maxConcurrentFetches)
			for i := range headers {
				height := from + int64(i)
				fetches.Go(func(ctx context.Context) error {
					hash, err := client.GetBlockHash(ctx, height)
					if err != nil {
						return err
					}
					headers[i], err = client.GetBlockHeader(ctx, hash, true)
					return err
				})
			}
			if err := fetches.Wait(); err != nil {
				return err
			}

			for _, header := range headers {
				if err := printJSON(cmd, header); err != nil {
					return err
				}
			}
			return nil
		},
	}

	btcrpcCmd.AddCommand(blockCountCmd, chainInfoCmd, blockCmd, rawTxCmd, headersCmd)
	return btcrpcCmd
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
