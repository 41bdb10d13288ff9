//go:build !tinygo && !baremetal

// This file is built only for non-embedded targets (host testing and
// cmd/simnet).
package meshtransport

import (
	"github.com/ystepanoff/meshtransport/driver/stub"
	"github.com/ystepanoff/meshtransport/protocol"
	"github.com/ystepanoff/meshtransport/store"
	"github.com/ystepanoff/meshtransport/transport"
)

// NewHostCore wires a Core for host testing/simulation: a stub radio
// driver attached to net, an in-memory store, and signer (nil for
// unsigned).
func NewHostCore(cfg Config, net *stub.Network, signer protocol.Signer) *Core {
	return transport.New(cfg, stub.New(net), store.NewMemory(), signer)
}

// NewHostCoreWithStore is NewHostCore with caller-supplied persistence,
// e.g. a store.SQLite for cmd/node / cmd/gateway.
func NewHostCoreWithStore(cfg Config, net *stub.Network, st store.Store, signer protocol.Signer) *Core {
	return transport.New(cfg, stub.New(net), st, signer)
}
