//go:build tinygo || baremetal

// This file is built only for embedded targets (real radio hardware).
package meshtransport

import (
	"github.com/ystepanoff/meshtransport/driver/nrf"
	"github.com/ystepanoff/meshtransport/protocol"
	"github.com/ystepanoff/meshtransport/store"
	"github.com/ystepanoff/meshtransport/transport"
)

// NewMCUCore wires a Core for an MCU build: the real nRF RADIO driver and
// the RAM-backed Memory store.
func NewMCUCore(cfg Config, signer protocol.Signer) *Core {
	return transport.New(cfg, nrf.New(), store.NewMemory(), signer)
}
