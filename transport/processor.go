package transport

import "github.com/ystepanoff/meshtransport/protocol"

// maxFramesPerTick bounds how much work a single Process() call can do
// draining the radio's receive queue (spec §4.4, §5): it always caps at
// this many frames per invocation, even if more are queued.
const maxFramesPerTick = 5

// processFIFO drains up to maxFramesPerTick frames from the radio and
// dispatches each (component C5).
func (c *Core) processFIFO() {
	for i := 0; i < maxFramesPerTick; i++ {
		n := c.driver.Receive(c.rxBuf[:])
		if n == 0 {
			return
		}
		f, err := protocol.DecodeFrameErr(c.rxBuf[:n])
		if f == nil {
			c.log.Warn("dropped undecodable frame", "err", err)
			continue
		}
		c.handleFrame(f)
	}
}

func (c *Core) handleFrame(f *protocol.Frame) {
	if f.SigningPresent && !c.signer.Verify(f.Payload, f.Signature) {
		c.log.Warn("dropped frame with invalid signature", "sender", f.Sender)
		return
	}

	// Back-route learning: any relayed frame (sender != last-hop) teaches
	// a repeater-capable node how to reach sender, and so does a frame
	// handed over directly by a neighbor other than the parent (a child),
	// so replies routed back down the tree can reach it. NoopTable.Set is
	// a no-op on leaves, so this is safe to call unconditionally.
	if f.Sender != f.LastHop || f.LastHop != c.ParentNodeID {
		c.routes.Set(f.Sender, f.LastHop)
	}

	switch {
	case f.Destination == c.NodeID:
		c.dispatch(f)
	case f.Destination == protocol.Broadcast:
		c.dispatch(f)
		c.relayBroadcast(f)
	default:
		c.forwardElsewhere(f)
	}
}

func (c *Core) dispatch(f *protocol.Frame) {
	switch f.Command {
	case protocol.CmdAck:
		c.deliverToApplication(f)
	case protocol.CmdFindParentRequest:
		c.handleFindParentRequest(f)
	case protocol.CmdFindParentResponse:
		c.handleFindParentResponse(f)
	case protocol.CmdIDRequest:
		c.handleIDRequest(f)
	case protocol.CmdIDResponse:
		c.handleIDResponse(f)
	case protocol.CmdPing:
		c.handlePing(f)
	case protocol.CmdPong:
		c.handlePong(f)
	default:
		c.handleData(f)
	}
}

func (c *Core) handleData(f *protocol.Frame) {
	if f.AckRequested && f.Destination == c.NodeID {
		c.sendAck(f)
	}
	// Broadcast Data frames carry their remaining hop budget as a leading
	// payload byte (relayBroadcast); strip it before the application ever
	// sees the payload it actually sent.
	if f.Destination == protocol.Broadcast && len(f.Payload) > 0 {
		stripped := *f
		stripped.Payload = f.Payload[1:]
		c.deliverToApplication(&stripped)
		return
	}
	c.deliverToApplication(f)
}

func (c *Core) deliverToApplication(f *protocol.Frame) {
	if c.cfg.OnMessage != nil {
		c.cfg.OnMessage(f)
	}
}

func (c *Core) sendAck(f *protocol.Frame) {
	ack := &protocol.Frame{
		Sender:      c.NodeID,
		Destination: f.Sender,
		Command:     protocol.CmdAck,
		MessageType: f.MessageType,
		Sensor:      f.Sensor,
	}
	// Reply to whoever physically handed us this frame, not a route
	// lookup for its original sender — f.LastHop is always our direct
	// radio neighbor, regardless of how many hops f.Sender is away.
	c.sendFrame(f.LastHop, ack)
}

func (c *Core) handlePing(f *protocol.Frame) {
	if f.Destination != c.NodeID {
		return
	}
	hops := byte(0)
	if len(f.Payload) > 0 {
		hops = f.Payload[0]
	}
	pong := &protocol.Frame{
		Sender:      c.NodeID,
		Destination: f.Sender,
		Command:     protocol.CmdPong,
		Payload:     []byte{hops + 1},
	}
	c.sendFrame(f.LastHop, pong)
}

func (c *Core) handlePong(f *protocol.Frame) {
	if !c.PingActive {
		return
	}
	hops := byte(0)
	if len(f.Payload) > 0 {
		hops = f.Payload[0]
	}
	c.PingResponse = hops
	c.pongReceived = true
}

// forwardElsewhere relays a frame destined for a node other than this one.
// Only repeater-capable nodes relay (spec §4.4); leaves drop it.
func (c *Core) forwardElsewhere(f *protocol.Frame) {
	if !c.cfg.Repeater {
		c.log.Warn("dropping frame for unreachable destination", "dest", f.Destination, "err", protocol.ErrNotRepeater)
		return
	}
	// Ping frames accumulate a hop count in their payload as they're
	// relayed toward their destination (handlePing echoes it back + 1).
	if f.Command == protocol.CmdPing && len(f.Payload) > 0 {
		f.Payload[0]++
	}
	c.sendFrame(c.nextHopFor(f.Destination), f)
}

// relayBroadcast re-transmits a broadcast Data frame once, decrementing its
// remaining hop budget. The budget rides as a leading byte of the payload
// (the same convention find-parent/ping frames use for their own hop
// counters, spec §4.4 point 3), never the Sensor field — Sensor is the
// application's own sensor id and SendRoute already uses it as such.
func (c *Core) relayBroadcast(f *protocol.Frame) {
	if !c.cfg.Repeater || f.Command != protocol.CmdData || len(f.Payload) == 0 {
		return
	}
	hops := f.Payload[0]
	if hops == 0 {
		return
	}
	relay := *f
	relayPayload := make([]byte, len(f.Payload))
	copy(relayPayload, f.Payload)
	relayPayload[0] = hops - 1
	relay.Payload = relayPayload
	c.sendFrame(protocol.Broadcast, &relay)
}
