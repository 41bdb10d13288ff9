package protocol

import (
	"bytes"
	"testing"
)

func TestFrameRoundTrip(t *testing.T) {
	tests := []struct {
		name  string
		frame *Frame
	}{
		{
			name: "empty payload",
			frame: &Frame{
				LastHop: 5, Sender: 9, Destination: 0, Sensor: 1,
				Command: CmdData, MessageType: MessageTypeSensorReading,
				ProtocolVersion: ProtocolVersion,
				Payload:         []byte{},
			},
		},
		{
			name: "small payload, ack requested",
			frame: &Frame{
				LastHop: 3, Sender: 3, Destination: 7, Sensor: 2,
				Command: CmdData, AckRequested: true,
				ProtocolVersion: ProtocolVersion,
				Payload:         []byte{1, 2, 3, 4, 5},
			},
		},
		{
			name: "maximum payload",
			frame: &Frame{
				LastHop: 1, Sender: 1, Destination: 255, Sensor: 0,
				Command: CmdData, ProtocolVersion: ProtocolVersion,
				Payload: bytes.Repeat([]byte{0xAA}, MaxPayloadSize),
			},
		},
		{
			name: "signed frame",
			frame: &Frame{
				LastHop: 4, Sender: 6, Destination: 0, Sensor: 3,
				Command: CmdData, SigningRequested: true, SigningPresent: true,
				ProtocolVersion: ProtocolVersion,
				Payload:         []byte{9, 9, 9},
				Signature:       bytes.Repeat([]byte{0xCD}, SignatureSize),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			encoded := EncodeFrame(tt.frame)
			decoded := DecodeFrame(encoded)
			if decoded == nil {
				t.Fatal("DecodeFrame() returned nil, want successful decode")
			}

			if decoded.LastHop != tt.frame.LastHop {
				t.Errorf("LastHop = %v, want %v", decoded.LastHop, tt.frame.LastHop)
			}
			if decoded.Sender != tt.frame.Sender {
				t.Errorf("Sender = %v, want %v", decoded.Sender, tt.frame.Sender)
			}
			if decoded.Destination != tt.frame.Destination {
				t.Errorf("Destination = %v, want %v", decoded.Destination, tt.frame.Destination)
			}
			if decoded.Command != tt.frame.Command {
				t.Errorf("Command = %v, want %v", decoded.Command, tt.frame.Command)
			}
			if decoded.AckRequested != tt.frame.AckRequested {
				t.Errorf("AckRequested = %v, want %v", decoded.AckRequested, tt.frame.AckRequested)
			}
			if decoded.SigningPresent != tt.frame.SigningPresent {
				t.Errorf("SigningPresent = %v, want %v", decoded.SigningPresent, tt.frame.SigningPresent)
			}

			if !bytes.Equal(decoded.Payload, tt.frame.Payload) {
				t.Errorf("Payload mismatch: got %v want %v", decoded.Payload, tt.frame.Payload)
			}
			if tt.frame.Signature != nil && !bytes.Equal(decoded.Signature, tt.frame.Signature) {
				t.Errorf("Signature mismatch: got %v want %v", decoded.Signature, tt.frame.Signature)
			}
		})
	}
}

// TestFrameLastHopRewrite checks the round-trip law from spec §8: decoding
// then encoding a valid frame reproduces the original bytes except for the
// last-hop field, which is rewritten on every forward.
func TestFrameLastHopRewrite(t *testing.T) {
	original := &Frame{
		LastHop: 2, Sender: 2, Destination: 9, Sensor: 0,
		Command: CmdData, ProtocolVersion: ProtocolVersion,
		Payload: []byte{1, 2, 3},
	}
	encoded := EncodeFrame(original)

	decoded := DecodeFrame(encoded)
	decoded.LastHop = 17 // simulate a forward through node 17
	reEncoded := EncodeFrame(decoded)

	if bytes.Equal(encoded, reEncoded) {
		t.Fatal("re-encoded bytes unexpectedly identical after last-hop rewrite")
	}

	encoded[1] = 17 // patch the original's last-hop byte in place
	if !bytes.Equal(encoded, reEncoded) {
		t.Errorf("forwarded frame bytes differ beyond last-hop:\ngot  %v\nwant %v", reEncoded, encoded)
	}
}

func TestDecodeVersionMismatch(t *testing.T) {
	f := &Frame{
		LastHop: 1, Sender: 1, Destination: 2, Sensor: 0,
		Command: CmdData, ProtocolVersion: ProtocolVersion + 1,
		Payload: []byte{1, 2, 3},
	}
	encoded := EncodeFrame(f)
	if DecodeFrame(encoded) != nil {
		t.Error("DecodeFrame() succeeded despite a protocol version mismatch; want nil (P4)")
	}
}

func TestDecodeFrameErrDistinguishesVersionFromStructuralFailure(t *testing.T) {
	f := &Frame{
		LastHop: 1, Sender: 1, Destination: 2, Sensor: 0,
		Command: CmdData, ProtocolVersion: ProtocolVersion + 1,
		Payload: []byte{1, 2, 3},
	}
	encoded := EncodeFrame(f)
	if _, err := DecodeFrameErr(encoded); err != ErrVersionMismatch {
		t.Errorf("DecodeFrameErr() err = %v, want ErrVersionMismatch", err)
	}
	if _, err := DecodeFrameErr([]byte{0x01, 0x02}); err != ErrInvalidPayload {
		t.Errorf("DecodeFrameErr() err = %v, want ErrInvalidPayload", err)
	}
}

func TestDecodeInvalidFrames(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{name: "nil data", data: nil},
		{name: "too short", data: []byte{0x01, 0x02}},
		{
			name: "bad length byte",
			data: append([]byte{0xFF, 1, 2, 3, 4, 0, 0, 0, ProtocolVersion << 5},
				bytes.Repeat([]byte{0x00}, 10)...),
		},
		{
			name: "wrong terminal byte",
			data: func() []byte {
				f := &Frame{Sender: 1, Destination: 2, Command: CmdData, ProtocolVersion: ProtocolVersion, Payload: []byte{1, 2, 3}}
				d := EncodeFrame(f)
				d[len(d)-1] = 0xAA
				return d
			}(),
		},
		{
			name: "corrupt CRC",
			data: func() []byte {
				f := &Frame{Sender: 1, Destination: 2, Command: CmdData, ProtocolVersion: ProtocolVersion, Payload: []byte{1, 2, 3}}
				d := EncodeFrame(f)
				d[len(d)-2] ^= 0xFF
				return d
			}(),
		},
		{
			name: "signing present but truncated",
			data: func() []byte {
				f := &Frame{Sender: 1, Destination: 2, Command: CmdData, ProtocolVersion: ProtocolVersion, SigningPresent: true}
				d := EncodeFrame(f)
				return d[:len(d)-SignatureSize-CRCSize-TerminalSize+1]
			}(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if DecodeFrame(tt.data) != nil {
				t.Error("DecodeFrame() succeeded, want nil for invalid frame")
			}
		})
	}
}
