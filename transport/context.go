package transport

import (
	"time"

	"github.com/ystepanoff/meshtransport/protocol"
)

// stateID tags the six states of spec §4.5. The Design Notes call this a
// function-pointer state table in the source; here it is a tagged variant
// plus a dispatch table (statemachine.go), the Go-idiomatic equivalent the notes
// explicitly sanction in place of polymorphism.
type stateID int

const (
	StateInit stateID = iota
	StateFindParent
	StateRequestID
	StateVerifyUplink
	StateReady
	StateFailure
)

func (s stateID) String() string {
	switch s {
	case StateInit:
		return "Init"
	case StateFindParent:
		return "FindParent"
	case StateRequestID:
		return "RequestId"
	case StateVerifyUplink:
		return "VerifyUplink"
	case StateReady:
		return "Ready"
	case StateFailure:
		return "Failure"
	default:
		return "Unknown"
	}
}

// Context is the owned runtime state of spec §3: topology (nodeId,
// parentNodeId, distance) plus state-machine status (flags, timers,
// counters). Spec §9's Design Notes treat the source's single packed,
// process-wide structure as an implementation detail; this is the struct
// version, owned by one Core and passed nowhere else.
type Context struct {
	NodeID       byte
	ParentNodeID byte
	Distance     byte

	State          stateID
	StateEnteredAt time.Time

	LastUplinkCheckAt time.Time
	LastSanityCheckAt time.Time

	FindingParent        bool
	PreferredParentFound bool
	UplinkOK             bool
	PingActive           bool
	TransportActive      bool

	Retries                   int
	FailedUplinkTransmissions int
	PingResponse              byte

	// Transient parent-election bookkeeping (spec §4.4 find-parent
	// response handling). Not persisted; reset on every FindParent entry.
	candidateParent   byte
	candidateDistance byte
	candidateFound    bool

	// Transient id-assignment bookkeeping (RequestId).
	assignedID      byte
	idAssigned      bool
	idRejected      bool

	// Transient ping bookkeeping, shared by VerifyUplink's internal check
	// and the public PingNode op.
	pingIsUplinkCheck bool
	pongReceived      bool

	// gatewayNextFreeID only matters on the gateway instance, which hands
	// out ids in response to id-request frames.
	gatewayNextFreeID byte
}

func newContext() *Context {
	return &Context{
		NodeID:            protocol.Broadcast,
		ParentNodeID:      protocol.Broadcast,
		Distance:          protocol.InvalidDistance,
		gatewayNextFreeID: protocol.MinNodeID,
	}
}

// TransportTimeInState is the delta between now and StateEnteredAt (§4.5).
func (c *Context) TransportTimeInState(now time.Time) time.Duration {
	return now.Sub(c.StateEnteredAt)
}

// Invariant 1 (spec §3): nodeId ∈ {1..254} whenever currentState ∈
// {VerifyUplink, Ready}.
func (c *Context) nodeIDValid() bool {
	return c.NodeID >= protocol.MinNodeID && c.NodeID <= protocol.MaxNodeID
}
