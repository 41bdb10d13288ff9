package signing

import "testing"

func TestBlake2bSignerRoundTrip(t *testing.T) {
	s := NewBlake2bSigner([]byte("pairing-secret"))
	data := []byte{1, 2, 3, 4, 5}

	sig, err := s.Sign(data)
	if err != nil {
		t.Fatalf("Sign() error = %v", err)
	}

	if !s.Verify(data, sig) {
		t.Error("Verify() = false for a freshly computed signature, want true")
	}

	tampered := append([]byte{}, data...)
	tampered[0] ^= 0xFF
	if s.Verify(tampered, sig) {
		t.Error("Verify() = true for tampered data, want false")
	}

	other := NewBlake2bSigner([]byte("different-secret"))
	if other.Verify(data, sig) {
		t.Error("Verify() = true under the wrong key, want false")
	}
}
