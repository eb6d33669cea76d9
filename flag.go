package main

// Things to do with flags should try to live here

import (
	"errors"
	"flag"
	"fmt"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/ipfs/go-log/v2"
	"github.com/libp2p/go-libp2p/core/peer"
	"github.com/multiformats/go-multiaddr"
)

// addrList collects multiaddrs from a flag that may be repeated or given a
// comma separated list, like the matching env variables.
type addrList []string

func (a *addrList) String() string {
	if a == nil {
		return ""
	}
	return strings.Join(*a, ",")
}

func (a *addrList) Set(value string) error {
	for _, part := range strings.Split(value, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			return errors.New("empty address")
		}
		*a = append(*a, part)
	}
	return nil
}

// Config holds the node command configuration. Environment variables seed
// the values and flags override them.
type Config struct {
	DataDir    string   `env:"NODEKEY_DATA_DIR"  envDefault:"./nodekey-data"`
	NodeKeyHex string   `env:"NODEKEY_HEX"`
	Listen     []string `env:"NODEKEY_LISTEN"    envSeparator:"," envDefault:"/ip4/0.0.0.0/tcp/9095,/ip4/0.0.0.0/udp/9095/quic-v1"`
	LogLevel   string   `env:"NODEKEY_LOG_LEVEL" envDefault:"info"`

	// MaxInboundConns caps inbound connections in the host's resource
	// manager; other limits are left open.
	MaxInboundConns int `env:"NODEKEY_MAX_INBOUND_CONNS" envDefault:"1000"`

	GenKey       bool
	WriteAddress bool
	Connect      []string
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	var listen, connect addrList
	fs.StringVar(&cfg.DataDir, "datadir", cfg.DataDir, "directory holding the node key file")
	fs.StringVar(&cfg.NodeKeyHex, "nodekeyhex", cfg.NodeKeyHex, "use this hex private key and save it to the data directory")
	fs.BoolVar(&cfg.GenKey, "genkey", false, "generate a new node key in the data directory and exit")
	fs.BoolVar(&cfg.WriteAddress, "writeaddress", false, "print the node's peer ID and enode ID and exit")
	fs.StringVar(&cfg.LogLevel, "loglevel", cfg.LogLevel, "log level (debug, info, warn, error)")
	fs.IntVar(&cfg.MaxInboundConns, "max-inbound-conns", cfg.MaxInboundConns, "maximum number of inbound connections")
	fs.Var(&listen, "listen", "multiaddrs to listen on, comma separated (can be used multiple times)")
	fs.Var(&connect, "connect", "peer addresses to connect to, comma separated (can be used multiple times)")
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	if len(listen) > 0 {
		cfg.Listen = listen
	}
	cfg.Connect = connect

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (cfg Config) validate() error {
	if cfg.DataDir == "" {
		return errors.New("-datadir must not be empty")
	}
	if cfg.GenKey && cfg.NodeKeyHex != "" {
		return errors.New("options -genkey and -nodekeyhex are mutually exclusive")
	}
	if cfg.MaxInboundConns <= 0 {
		return fmt.Errorf("-max-inbound-conns must be positive, got %d", cfg.MaxInboundConns)
	}
	if _, err := log.LevelFromString(cfg.LogLevel); err != nil {
		return fmt.Errorf("-loglevel: %w", err)
	}
	for _, addr := range cfg.Listen {
		if _, err := multiaddr.NewMultiaddr(addr); err != nil {
			return fmt.Errorf("-listen %q: %w", addr, err)
		}
	}
	for _, addr := range cfg.Connect {
		if _, err := peer.AddrInfoFromString(addr); err != nil {
			return fmt.Errorf("-connect %q: %w", addr, err)
		}
	}
	return nil
}
