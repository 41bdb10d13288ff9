// Package transport implements the mesh transport core (component C7):
// a cooperative, single-threaded state machine plus message processor
// sitting between a pluggable RadioDriver and the application above it.
package transport

import (
	"fmt"
	"sync"
	"time"

	"go.uber.org/multierr"

	"github.com/ystepanoff/meshtransport/protocol"
	"github.com/ystepanoff/meshtransport/routing"
	"github.com/ystepanoff/meshtransport/store"
)

// Core owns the full transport state: topology, state machine, routing
// table and its driver/store/signer collaborators. One Core per radio,
// owned and driven by a single loop goroutine calling Process() — that
// goroutine is the only caller allowed to use SendRoute, SendBroadcast,
// PingNode or ClearRoutingTable, mirroring the cooperative single-threaded
// node model the driver and state machine assume. mu guards only the
// narrow cross-goroutine observability surface (GetHeartbeat, GetStatus,
// IsReady, IsSearchingParent), so a status server or test harness can poll a node
// from outside its owning goroutine without racing Process().
type Core struct {
	*Context

	mu sync.Mutex

	cfg    Config
	driver RadioDriver
	store  store.Store
	routes routing.Table
	signer protocol.Signer
	log    Logger

	rxBuf [protocol.MaxFrameSize + 16]byte
}

// New wires a Core from its collaborators. signer may be nil, in which
// case protocol.NoopSigner is used: SigningRequested frames still go out,
// carrying a zero tag that receivers reject.
func New(cfg Config, driver RadioDriver, st store.Store, signer protocol.Signer) *Core {
	cfg.withDefaults()
	if signer == nil {
		signer = protocol.NoopSigner{}
	}

	var routes routing.Table
	if cfg.Repeater {
		routes = routing.NewArrayTable(
			func(dest, nextHop byte) { _ = st.SaveRoute(dest, nextHop) },
			func(entries [255]byte) { _ = st.SaveRoutes(entries) },
		)
	} else {
		routes = routing.NoopTable{}
	}

	return &Core{
		Context: newContext(),
		cfg:     cfg,
		driver:  driver,
		store:   st,
		routes:  routes,
		signer:  signer,
		log:     cfg.Log,
	}
}

func (c *Core) clock() time.Time { return c.cfg.Clock() }

// Initialize loads persisted topology from the store and enters Init
// (spec §4.5, §4.6). A single call may walk straight through to Ready or
// FindParent, since Init's transition chains onward synchronously.
func (c *Core) Initialize() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var errs error

	nodeID, err := c.store.LoadNodeID()
	errs = multierr.Append(errs, err)
	parentID, err := c.store.LoadParentID()
	errs = multierr.Append(errs, err)
	distance, err := c.store.LoadDistance()
	errs = multierr.Append(errs, err)
	routes, err := c.store.LoadRoutes()
	errs = multierr.Append(errs, err)
	if errs != nil {
		return fmt.Errorf("transport: initialize: %w", errs)
	}

	c.NodeID = nodeID
	c.ParentNodeID = parentID
	c.Distance = distance
	for dest, nextHop := range routes {
		if nextHop != protocol.Broadcast {
			c.routes.Set(byte(dest), nextHop)
		}
	}

	c.FindingParent = false
	c.PreferredParentFound = false
	c.UplinkOK = false
	c.PingActive = false
	c.TransportActive = false
	c.Retries = 0
	c.FailedUplinkTransmissions = 0

	c.transitionTo(StateInit)
	return nil
}

// Process drains the radio FIFO, runs the current state's update, then
// runs the sanity check if one is due (spec §4.5, §5). It never blocks
// longer than a single bounded wait (protocol.StateTimeout or
// protocol.UplinkWaitTimeout).
func (c *Core) Process() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.processFIFO()
	if fn, ok := stateTable[c.State]; ok && fn.update != nil {
		fn.update(c)
	}
	c.maybeSanityCheck()
}

func (c *Core) maybeSanityCheck() {
	now := c.clock()
	if now.Sub(c.LastSanityCheckAt) < protocol.SanityCheckInterval {
		return
	}
	c.LastSanityCheckAt = now
	if c.State == StateFailure {
		return
	}
	if !c.driver.SanityCheck() {
		c.log.Error("radio sanity check failed")
		c.transitionTo(StateFailure)
	}
}

// IsReady reports whether the transport is in the Ready state.
func (c *Core) IsReady() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.State == StateReady
}

// IsSearchingParent reports whether FindParent is currently in progress.
func (c *Core) IsSearchingParent() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.FindingParent
}

// ClearRoutingTable resets every learned route (repeater nodes only; a
// no-op on leaves, since their table is already a NoopTable).
func (c *Core) ClearRoutingTable() { c.routes.Clear() }

// Status is a read-only snapshot of topology and health, meant for an
// observability surface like monitor.Server.
type Status struct {
	NodeID       byte   `json:"nodeId"`
	ParentNodeID byte   `json:"parentNodeId"`
	Distance     byte   `json:"distance"`
	State        string `json:"state"`
	UplinkOK     bool   `json:"uplinkOk"`
	Repeater     bool   `json:"repeater"`
}

// GetStatus returns the current Status snapshot.
func (c *Core) GetStatus() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Status{
		NodeID:       c.NodeID,
		ParentNodeID: c.ParentNodeID,
		Distance:     c.Distance,
		State:        c.State.String(),
		UplinkOK:     c.UplinkOK,
		Repeater:     c.cfg.Repeater,
	}
}

// GetHeartbeat returns the number of milliseconds elapsed since the
// transport entered its current state (spec §4.6, §9's transportGetHeartbeat).
func (c *Core) GetHeartbeat() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.TransportTimeInState(c.clock()).Milliseconds()
}

// SendRoute originates an application frame addressed to dest, routed via
// the routing table (if repeater-capable and a route is known) or the
// parent otherwise (spec §4.3, P8). It fails immediately unless the
// transport is Ready.
func (c *Core) SendRoute(dest, messageType, sensor byte, payload []byte, requestAck, requestSigning bool) error {
	if c.State != StateReady {
		return protocol.ErrNotReady
	}
	if len(payload) > protocol.MaxPayloadSize {
		return protocol.ErrInvalidPayload
	}
	f := &protocol.Frame{
		Sender:              c.NodeID,
		Destination:         dest,
		Sensor:              sensor,
		Command:             protocol.CmdData,
		AckRequested:        requestAck,
		SigningRequested:    requestSigning,
		MessageType:         messageType,
		FailedUplinkCounter: clamp4(c.FailedUplinkTransmissions),
		Payload:             payload,
	}
	if !c.sendFrame(c.nextHopFor(dest), f) {
		return protocol.ErrNoRoute
	}
	return nil
}

// SendBroadcast originates a flooded Data frame with the given remaining
// hop budget, carried as a leading payload byte rather than the Sensor
// field (see relayBroadcast) so a broadcast Data frame can still carry a
// real application sensor id.
func (c *Core) SendBroadcast(messageType, hops byte, payload []byte) error {
	if c.State != StateReady {
		return protocol.ErrNotReady
	}
	if len(payload) > protocol.MaxPayloadSize-1 {
		return protocol.ErrInvalidPayload
	}
	framed := make([]byte, 1+len(payload))
	framed[0] = hops
	copy(framed[1:], payload)
	f := &protocol.Frame{
		Sender:      c.NodeID,
		Destination: protocol.Broadcast,
		Command:     protocol.CmdData,
		MessageType: messageType,
		Payload:     framed,
	}
	c.sendFrame(protocol.Broadcast, f)
	return nil
}

// PingNode sends a ping to target (routed the same way SendRoute is) and
// waits up to protocol.UplinkWaitTimeout for a pong, returning the hop
// count the pong reports.
func (c *Core) PingNode(target byte) (hops byte, ok bool) {
	if c.State != StateReady {
		return 0, false
	}
	c.PingActive = true
	c.pingIsUplinkCheck = false
	c.pongReceived = false

	f := &protocol.Frame{
		Sender:      c.NodeID,
		Destination: target,
		Command:     protocol.CmdPing,
		Payload:     []byte{0},
	}
	if !c.sendFrame(c.nextHopFor(target), f) {
		c.PingActive = false
		return 0, false
	}

	ok = c.transportWait(protocol.UplinkWaitTimeout, func() bool { return c.pongReceived })
	c.PingActive = false
	if !ok {
		return 0, false
	}
	return c.PingResponse, true
}
