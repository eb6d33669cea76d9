package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/ipfs/go-log/v2"
	"github.com/libp2p/go-libp2p/core/peer"

	"github.com/libp2p/universal-connectivity/go-nodekey/identity"
)

var logger = log.Logger("app")

func main() {
	cfg, err := ParseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		printErr("%s\n", err)
		os.Exit(2)
	}
	if err := log.SetLogLevel("*", cfg.LogLevel); err != nil {
		printErr("%s\n", err)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		logger.Errorf("%s", err)
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg Config) error {
	secret, err := resolveIdentity(cfg)
	if err != nil {
		return err
	}

	if cfg.GenKey || cfg.WriteAddress {
		return writeAddress(secret)
	}

	h, err := newHost(secret, cfg)
	if err != nil {
		return fmt.Errorf("create host: %w", err)
	}
	defer h.Close()
	logger.Infof("Host created with PeerID: %s", h.ID())

	for _, addr := range cfg.Connect {
		peerinfo, err := peer.AddrInfoFromString(addr)
		if err != nil {
			logger.Warnf("Failed to parse multiaddr '%s': %v", addr, err)
			continue
		}
		if err := h.Connect(ctx, *peerinfo); err != nil {
			logger.Warnf("Failed to connect to peer %s: %v", peerinfo.ID, err)
			continue
		}
		logger.Infof("Connected to %s", peerinfo.ID)
	}

	for i, addr := range h.Addrs() {
		logger.Infof("Address %d: %s/p2p/%s", i+1, addr, h.ID())
	}
	logger.Infof("enode ID: %s", secret.NodeID())

	<-ctx.Done()
	logger.Infof("Shutting down")
	return nil
}

// resolveIdentity picks the node key according to cfg. Only -genkey treats a
// failed save as fatal, since writing the key is all it is asked to do.
func resolveIdentity(cfg Config) (identity.Secret, error) {
	switch {
	case cfg.GenKey:
		logger.Infof("Generating node key in %s", cfg.DataDir)
		secret, err := identity.GenerateIdentity(cfg.DataDir)
		if err != nil {
			return identity.Secret{}, fmt.Errorf("-genkey: %w", err)
		}
		return secret, nil
	case cfg.NodeKeyHex != "":
		secret, err := identity.ImportIdentity(cfg.DataDir, cfg.NodeKeyHex)
		if !secret.Valid() {
			return identity.Secret{}, fmt.Errorf("-nodekeyhex: %w", err)
		}
		if err != nil {
			logger.Warnf("Node key from -nodekeyhex not saved: %v", err)
		}
		return secret, nil
	default:
		logger.Debugf("Loading node key from %s", identity.KeyPath(cfg.DataDir))
		secret, err := identity.LoadIdentity(cfg.DataDir)
		if err != nil {
			return identity.Secret{}, fmt.Errorf("load node key: %w", err)
		}
		return secret, nil
	}
}

func writeAddress(secret identity.Secret) error {
	id, err := secret.PeerID()
	if err != nil {
		return fmt.Errorf("derive peer ID: %w", err)
	}
	fmt.Printf("peer ID: %s\n", id)
	fmt.Printf("enode ID: %s\n", secret.NodeID())
	return nil
}

// printErr is like fmt.Printf, but writes to stderr.
func printErr(m string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, m, args...)
}
