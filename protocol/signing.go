package protocol

// Signer is the pluggable signing-module hook spec §4.2 describes: the
// transport calls it around the codec to sign outbound frames that request
// signing and to verify inbound signed frames; this package never
// implements cryptography itself.
type Signer interface {
	// Sign returns a fixed-width SignatureSize tag over data.
	Sign(data []byte) ([]byte, error)
	// Verify reports whether sig is a valid tag over data.
	Verify(data, sig []byte) bool
}

// NoopSigner is used when no signing module is configured. Sign returns a
// zero tag (callers should not set SigningRequested in that case); Verify
// always fails closed so a frame that claims SigningPresent without a real
// signer configured is dropped rather than silently accepted.
type NoopSigner struct{}

func (NoopSigner) Sign([]byte) ([]byte, error) { return make([]byte, SignatureSize), nil }
func (NoopSigner) Verify([]byte, []byte) bool  { return false }
