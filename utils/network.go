package utils

import (
	"encoding"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/pflag"
)

var ErrUnknownNetwork = errors.New("unknown network (known: mainnet, testnet, signet, regtest)")

// Network selects the default RPC endpoint of a local bitcoind for one of the
// chains it can run.
type Network int

// The following are necessary for Cobra and Viper, respectively, to unmarshal
// network CLI/config parameters properly.
var (
	_ pflag.Value              = (*Network)(nil)
	_ encoding.TextUnmarshaler = (*Network)(nil)
)

const (
	Mainnet Network = iota + 1
	Testnet
	Signet
	Regtest
)

func (n Network) String() string {
	switch n {
	case Mainnet:
		return "mainnet"
	case Testnet:
		return "testnet"
	case Signet:
		return "signet"
	case Regtest:
		return "regtest"
	default:
		// Should not happen.
		panic(ErrUnknownNetwork)
	}
}

func (n Network) MarshalYAML() (any, error) {
	return n.String(), nil
}

func (n *Network) MarshalJSON() ([]byte, error) {
	return json.RawMessage(`"` + n.String() + `"`), nil
}

func (n *Network) Set(s string) error {
	switch s {
	case "MAINNET", "mainnet":
		*n = Mainnet
	case "TESTNET", "testnet":
		*n = Testnet
	case "SIGNET", "signet":
		*n = Signet
	case "REGTEST", "regtest":
		*n = Regtest
	default:
		return ErrUnknownNetwork
	}
	return nil
}

func (n *Network) Type() string {
	return "Network"
}

func (n *Network) UnmarshalText(text []byte) error {
	return n.Set(string(text))
}

// DefaultRPCPort returns the port bitcoind listens on for RPC by default.
func (n Network) DefaultRPCPort() uint16 {
	switch n {
	case Mainnet:
		return 8332
	case Testnet:
		return 18332
	case Signet:
		return 38332
	case Regtest:
		return 18443
	default:
		// Should not happen.
		panic(ErrUnknownNetwork)
	}
}

// DefaultURL returns the RPC endpoint of a bitcoind running on localhost with
// default settings.
func (n Network) DefaultURL() string {
	return fmt.Sprintf("http://localhost:%d", n.DefaultRPCPort())
}
