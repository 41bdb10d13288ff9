//go:build tinygo || baremetal

// Package nrf implements transport.RadioDriver on top of the nRF51/52
// RADIO peripheral's shockburst mode (adapted from the teacher's
// driver/nrf package, generalized from a fixed address/prefix/channel
// triple to mesh node-id addressing).
package nrf

import (
	"unsafe"

	"github.com/ystepanoff/meshtransport/protocol"
	"github.com/ystepanoff/meshtransport/transport"

	"device/nrf"
)

// Channel is the fixed RF channel every node shares; a real deployment
// would make this provisionable, but channel hopping is out of scope here.
const Channel uint8 = 42

// Driver drives the RADIO peripheral directly. It keeps one static buffer
// for TX/RX, since MCU builds avoid per-frame heap allocation.
type Driver struct {
	addr   byte
	buffer [protocol.MaxFrameSize]byte
}

// New returns a transport.RadioDriver backed by the nRF RADIO peripheral.
func New() transport.RadioDriver { return &Driver{} }

func (d *Driver) Init() bool {
	StartHFCLK()
	return ConfigureRadio(Channel) == nil
}

func (d *Driver) SetAddress(addr byte) {
	d.addr = addr
	SetPrefix(addr)
}

func (d *Driver) GetAddress() byte { return d.addr }

// Send transmits data addressed to to. The RADIO peripheral here has no
// hardware acknowledgement of its own; application-level delivery
// confirmation is the protocol layer's CmdAck, not this driver's job, so
// Send reports success once the transmission completes.
func (d *Driver) Send(to byte, data []byte) bool {
	SetPrefix(to)
	copy(d.buffer[:], data)

	nrf.RADIO.PACKETPTR.Set(uint32(uintptr(unsafe.Pointer(&d.buffer[0]))))
	nrf.RADIO.EVENTS_READY.Set(0)
	nrf.RADIO.EVENTS_END.Set(0)
	nrf.RADIO.TASKS_TXEN.Set(1)
	for nrf.RADIO.EVENTS_READY.Get() == 0 {
	}
	nrf.RADIO.TASKS_START.Set(1)
	for nrf.RADIO.EVENTS_END.Get() == 0 {
	}
	nrf.RADIO.TASKS_DISABLE.Set(1)
	for nrf.RADIO.STATE.Get() != nrf.RADIO_STATE_STATE_Disabled {
	}

	SetPrefix(d.addr)
	return true
}

func (d *Driver) Available() bool {
	return nrf.RADIO.EVENTS_END.Get() != 0
}

// rxSpinBudget bounds how many iterations Receive polls EVENTS_READY/
// EVENTS_END for before giving up on this tick. processFIFO calls Receive
// unconditionally every tick expecting a non-blocking "try once" op, so
// this must never spin for an unbounded time waiting on an over-the-air
// packet that may never come.
const rxSpinBudget = 10000

func (d *Driver) Receive(buf []byte) int {
	nrf.RADIO.PACKETPTR.Set(uint32(uintptr(unsafe.Pointer(&d.buffer[0]))))
	nrf.RADIO.EVENTS_READY.Set(0)
	nrf.RADIO.EVENTS_END.Set(0)
	nrf.RADIO.TASKS_RXEN.Set(1)
	for i := 0; nrf.RADIO.EVENTS_READY.Get() == 0; i++ {
		if i >= rxSpinBudget {
			return 0
		}
	}
	nrf.RADIO.TASKS_START.Set(1)
	for i := 0; nrf.RADIO.EVENTS_END.Get() == 0; i++ {
		if i >= rxSpinBudget {
			nrf.RADIO.TASKS_DISABLE.Set(1)
			return 0
		}
	}
	nrf.RADIO.TASKS_DISABLE.Set(1)
	for nrf.RADIO.STATE.Get() != nrf.RADIO_STATE_STATE_Disabled {
	}

	n := int(d.buffer[0]) + 1
	if n > len(buf) {
		n = len(buf)
	}
	copy(buf, d.buffer[:n])
	return n
}

func (d *Driver) SanityCheck() bool {
	return nrf.RADIO.POWER.Get() != 0
}

func (d *Driver) PowerDown() {
	nrf.RADIO.TASKS_DISABLE.Set(1)
	nrf.RADIO.POWER.Set(0)
}

var _ transport.RadioDriver = (*Driver)(nil)
