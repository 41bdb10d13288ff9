//go:build !tinygo && !baremetal

// Package stub implements transport.RadioDriver over plain in-process
// queues, for host tests and cmd/simnet (adapted from the teacher's
// driver/stub package: generalized from a point-to-point ring buffer to
// per-destination delivery and fault injection, since this mesh's driver
// interface is itself richer than the teacher's point-to-point one).
package stub

import (
	"sync"
)

// Network is the shared medium a set of Driver instances transmit into:
// Send on one Driver pushes onto the addressed Driver's queue (or every
// Driver's queue, for a broadcast destination), exactly as an open-air
// radio channel would deliver to everyone in range.
type Network struct {
	mu      sync.Mutex
	drivers map[byte]*Driver
}

// NewNetwork returns an empty shared medium.
func NewNetwork() *Network {
	return &Network{drivers: make(map[byte]*Driver)}
}

func (n *Network) register(d *Driver) {
	n.mu.Lock()
	n.drivers[d.addr] = d
	n.mu.Unlock()
}

func (n *Network) reregister(old byte, d *Driver) {
	n.mu.Lock()
	delete(n.drivers, old)
	n.drivers[d.addr] = d
	n.mu.Unlock()
}

func (n *Network) deliver(from, to byte, data []byte) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if to == broadcastAddr {
		for addr, d := range n.drivers {
			if addr == from {
				continue
			}
			d.push(data)
		}
		return
	}
	if d, ok := n.drivers[to]; ok {
		d.push(data)
	}
}

const broadcastAddr = 255
const ringCapacity = 64

// Driver is a mock radio attached to a Network. ack, if set, is used to
// decide whether a unicast Send should report an ack; it defaults to
// "always ack", overridable via SetAckFunc for fault-injection tests.
type Driver struct {
	mu      sync.Mutex
	net     *Network
	addr    byte
	rxBuf   ringBuffer
	txLog   [][]byte
	sane    bool
	powered bool
	ack     func(to byte) bool
}

// New attaches a new Driver to net.
func New(net *Network) *Driver {
	// addr starts at the unassigned sentinel, so Init never registers over
	// the gateway's address 0.
	d := &Driver{net: net, addr: broadcastAddr, sane: true, ack: func(byte) bool { return true }}
	return d
}

func (d *Driver) Init() bool {
	d.powered = true
	d.net.register(d)
	return true
}

func (d *Driver) SetAddress(addr byte) {
	old := d.addr
	d.addr = addr
	d.net.reregister(old, d)
}

func (d *Driver) GetAddress() byte { return d.addr }

func (d *Driver) Send(to byte, data []byte) bool {
	d.mu.Lock()
	frame := make([]byte, len(data))
	copy(frame, data)
	d.txLog = append(d.txLog, frame)
	ackFn := d.ack
	d.mu.Unlock()

	d.net.deliver(d.addr, to, frame)
	if to == broadcastAddr {
		return true
	}
	return ackFn(to)
}

func (d *Driver) Available() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.rxBuf.count > 0
}

func (d *Driver) Receive(buf []byte) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	frame, ok := d.rxBuf.pop()
	if !ok {
		return 0
	}
	n := copy(buf, frame)
	return n
}

func (d *Driver) SanityCheck() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.sane
}

func (d *Driver) PowerDown() {
	d.mu.Lock()
	d.powered = false
	d.mu.Unlock()
}

// SetSanityOK lets a test force the next SanityCheck result, modelling a
// hardware fault.
func (d *Driver) SetSanityOK(ok bool) {
	d.mu.Lock()
	d.sane = ok
	d.mu.Unlock()
}

// SetAckFunc overrides which unicast destinations report a link-layer
// ack, modelling a lossy link for retry/failure-path tests.
func (d *Driver) SetAckFunc(fn func(to byte) bool) {
	d.mu.Lock()
	d.ack = fn
	d.mu.Unlock()
}

// TxLog returns every frame this driver has transmitted, for assertions.
func (d *Driver) TxLog() [][]byte {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([][]byte, len(d.txLog))
	copy(out, d.txLog)
	return out
}

func (d *Driver) push(frame []byte) {
	d.mu.Lock()
	d.rxBuf.push(frame)
	d.mu.Unlock()
}

type ringBuffer struct {
	data       [ringCapacity][]byte
	head, tail int
	count      int
}

func (rb *ringBuffer) push(frame []byte) {
	if rb.count == ringCapacity {
		rb.data[rb.tail] = nil
		rb.head = (rb.head + 1) % ringCapacity
		rb.count--
	}
	rb.data[rb.tail] = frame
	rb.tail = (rb.tail + 1) % ringCapacity
	rb.count++
}

func (rb *ringBuffer) pop() ([]byte, bool) {
	if rb.count == 0 {
		return nil, false
	}
	frame := rb.data[rb.head]
	rb.data[rb.head] = nil
	rb.head = (rb.head + 1) % ringCapacity
	rb.count--
	return frame, true
}
