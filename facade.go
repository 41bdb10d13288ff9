// Package meshtransport is a façade over the mesh transport core: the
// state machine and message processor live in package transport, the
// wire format in package protocol; this package just re-exports the
// types an application actually needs to hold onto.
package meshtransport

import (
	"github.com/ystepanoff/meshtransport/protocol"
	"github.com/ystepanoff/meshtransport/transport"
)

// The concrete wiring is split into build-tag specific files:
//   - constructors_nrf.go  (//go:build tinygo || baremetal)
//   - constructors_host.go (//go:build !tinygo && !baremetal)

type (
	Core   = transport.Core
	Config = transport.Config
	Status = transport.Status
	Logger = transport.Logger
	Frame  = protocol.Frame
	Signer = protocol.Signer
)

var (
	ErrNoRoute     = protocol.ErrNoRoute
	ErrNotReady    = protocol.ErrNotReady
	ErrNotRepeater = protocol.ErrNotRepeater
	ErrTimeout     = protocol.ErrTimeout
	ErrNoSignature = protocol.ErrSignatureInvalid
)

const (
	Gateway   = protocol.Gateway
	Broadcast = protocol.Broadcast
)
