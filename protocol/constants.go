// Package protocol defines the over-the-air frame format shared by every
// node in the mesh, independent of the radio hardware underneath it.
package protocol

import "time"

// Reserved node addresses (spec §3, §6).
const (
	Gateway   byte = 0   // tree root; terminus of all uplink traffic
	Broadcast byte = 255 // broadcast destination, and the "auto/unassigned" sentinel
)

// Commands carried in the low nibble of the command byte.
const (
	CmdData byte = iota
	CmdAck
	CmdFindParentRequest
	CmdFindParentResponse
	CmdIDRequest
	CmdIDResponse
	CmdPing
	CmdPong
)

// Message types, carried alongside a command so the application callback
// can distinguish payload shapes without inspecting the command.
const (
	MessageTypeGeneric byte = iota
	MessageTypeSensorReading
	MessageTypeControl
)

// Payload types, packed into the high nibble of the length byte.
const (
	PayloadTypeRaw byte = iota
	PayloadTypeJSON
)

// Sizing. Layout (spec §6):
//
//	last-hop(1) sender(1) destination(1) sensor(1) command(1) msgType(1)
//	payloadType|length(1) protoVersion|failedUplink|signingPresent(1)
//	payload(<=MTU) signature(0..32)
const (
	HeaderSize = 8

	// SignatureSize is fixed-width (a truncated keyed MAC, see package
	// signing) rather than variable, so a decoder can split payload from
	// signature without an extra length field: spec §6 allows 0..32
	// trailing signature bytes; this codec's concrete choice is 0 (absent)
	// or exactly SignatureSize (present).
	SignatureSize  = 16
	MaxPayloadSize = 242 // mirrors the teacher's MTU headroom under a 255-byte frame
	MaxFrameSize   = HeaderSize + MaxPayloadSize + SignatureSize

	// CRC32 + 1-byte terminal sentinel, appended after signature bytes, the
	// same outer framing the teacher's protocol.EncodeFrame/DecodeFrame use.
	CRCSize       = 4
	TerminalSize  = 1
	FrameTerminal = 0x55

	LengthFieldSize = 1
)

// ProtocolVersion is the only version this codec accepts on receive.
const ProtocolVersion byte = 1

// Timeouts and intervals (spec §4.5), in their natural Go form.
const (
	StateTimeout        = 2 * time.Second
	MaxStateRetries     = 3
	UplinkCheckInterval = 10 * time.Second
	UplinkWaitTimeout   = 2 * time.Second
	SanityCheckInterval = 15 * time.Second
	FailureRecoveryWait = 10 * time.Second
	FindParentHopZero   = 0
)

// FailedUplinkThresholdLeaf/Repeater (spec §4.5 "Ready").
const (
	FailedUplinkThresholdLeaf     = 5
	FailedUplinkThresholdRepeater = 10
)

// InvalidDistance is the "unknown/invalid" sentinel for distance (spec §3).
const InvalidDistance byte = 255

// MaxNodeID / MinNodeID bound the assignable id range (spec §3: 1..254).
const (
	MinNodeID byte = 1
	MaxNodeID byte = 254
)
