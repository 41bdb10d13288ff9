package transport

import (
	"time"

	"github.com/ystepanoff/meshtransport/protocol"
)

// Config carries the constructor-time choices spec §4.5 and §9 call out as
// per-node configuration (static ids, repeater capability) plus the clock
// seam ambient to the teacher's own tests (MockDriver injection), used here
// so state-timeout logic is exercised deterministically without real sleeps.
type Config struct {
	// StaticNodeID, when StaticNodeIDSet is true, is adopted directly in
	// Init instead of going through RequestId's gateway-assigned flow.
	// A bool guard is needed rather than a Broadcast sentinel default,
	// since 0 (protocol.Gateway) is itself a legitimate static id.
	StaticNodeID    byte
	StaticNodeIDSet bool
	// StaticParentID, when StaticParentIDSet is true, is adopted directly
	// in FindParent with Distance = 1, instead of electing a candidate.
	// Same reasoning as StaticNodeIDSet: 0 is the gateway's real address.
	StaticParentID    byte
	StaticParentIDSet bool

	// Repeater marks this node as repeater-capable: it gets a real
	// routing.ArrayTable instead of routing.NoopTable and will relay
	// frames addressed elsewhere (spec §4.3, §4.4).
	Repeater bool

	// IsGateway marks this node as the mesh root: Init transitions
	// straight to Ready, and the processor answers id-request frames
	// instead of ever sending them.
	IsGateway bool

	// Clock defaults to time.Now; tests substitute a controllable clock
	// to fast-forward past state timeouts without a real sleep.
	Clock func() time.Time

	// OnMessage is handed every application-addressed frame (Data or Ack
	// command, destination self or broadcast) after ack synthesis.
	// May be nil, in which case such frames are silently dropped.
	OnMessage func(*protocol.Frame)

	Log Logger
}

func (c *Config) withDefaults() {
	if c.Clock == nil {
		c.Clock = time.Now
	}
	if c.Log == nil {
		c.Log = NopLogger{}
	}
}
