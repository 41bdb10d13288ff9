package transport

// RadioDriver is the interface the core expects of the radio underneath it
// (spec §4.1, component C1). A concrete driver never touches routing,
// framing or state — it only moves bytes and reports link-layer acks.
type RadioDriver interface {
	// Init brings the radio up and reports whether it is usable.
	Init() bool
	SetAddress(addr byte)
	GetAddress() byte

	// Send transmits data to the single-hop destination to. For
	// to == protocol.Broadcast, no link-layer ack is expected and Send
	// reports whether the transmission was attempted, not delivered. For
	// any other destination it reports whether a link-layer ack from to
	// was observed.
	Send(to byte, data []byte) bool

	// Available reports whether a frame is waiting to be drained via
	// Receive.
	Available() bool
	// Receive copies the next queued frame into buf and returns its
	// length, or 0 if none was available.
	Receive(buf []byte) int

	// SanityCheck reports whether the radio hardware is still responding
	// sanely (spec §4.5's periodic Ready/Failure self-test).
	SanityCheck() bool
	// PowerDown puts the radio into its lowest-power state (Failure).
	PowerDown()
}
