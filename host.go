package main

import (
	"fmt"

	"github.com/libp2p/go-libp2p"
	"github.com/libp2p/go-libp2p/core/host"
	"github.com/libp2p/go-libp2p/core/network"
	"github.com/libp2p/go-libp2p/core/peer"
	rcmgr "github.com/libp2p/go-libp2p/p2p/host/resource-manager"
	quic "github.com/libp2p/go-libp2p/p2p/transport/quic"
	"github.com/libp2p/go-libp2p/p2p/transport/tcp"

	"github.com/libp2p/universal-connectivity/go-nodekey/identity"
)

// newHost starts a libp2p host whose peer ID is derived from secret.
func newHost(secret identity.Secret, cfg Config) (host.Host, error) {
	rm, err := rcmgr.NewResourceManager(rcmgr.NewFixedLimiter(resourceLimits(cfg.MaxInboundConns)))
	if err != nil {
		return nil, fmt.Errorf("resource manager: %w", err)
	}

	h, err := libp2p.New(
		libp2p.Identity(secret.PrivKey()),
		libp2p.ListenAddrStrings(cfg.Listen...),
		libp2p.ResourceManager(rm),
		libp2p.Transport(tcp.NewTCPTransport),
		libp2p.Transport(quic.NewTransport),
		libp2p.NATPortMap(),
		libp2p.UserAgent("universal-connectivity/go-nodekey"),
	)
	if err != nil {
		return nil, err
	}

	h.Network().Notify(&network.NotifyBundle{
		ConnectedF: func(n network.Network, c network.Conn) {
			logger.Infof("Connected to peer %s via %s", shortID(c.RemotePeer()), c.RemoteMultiaddr())
		},
		DisconnectedF: func(n network.Network, c network.Conn) {
			logger.Infof("Disconnected from peer %s", shortID(c.RemotePeer()))
		},
	})
	return h, nil
}

// shortID returns the last 8 chars of a base58-encoded peer id.
func shortID(p peer.ID) string {
	str := p.String()
	if len(str) <= 8 {
		return str
	}
	return str[len(str)-8:]
}

// resourceLimits leaves every scope unlimited except inbound connections,
// which are capped system-wide and for connections not yet attached to a peer.
func resourceLimits(maxInbound int) rcmgr.ConcreteLimitConfig {
	inbound := rcmgr.ResourceLimits{ConnsInbound: rcmgr.LimitVal(maxInbound)}
	partial := rcmgr.PartialLimitConfig{
		System:    inbound,
		Transient: inbound,
	}
	return partial.Build(rcmgr.InfiniteLimits)
}
