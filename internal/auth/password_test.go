package auth

import (
	"strings"
	"testing"
)

// Cost 4 is the bcrypt minimum; production cost would add ~250ms per hash.
func newTestPasswordService() *PasswordService {
	return NewPasswordServiceForTest(4)
}

func TestHash_ReturnsNonEmptyHash(t *testing.T) {
	ps := newTestPasswordService()

	hash, err := ps.Hash("my-Secret-passw0rd")
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}
	if hash == "" {
		t.Error("Hash() returned empty string")
	}
	if !strings.HasPrefix(hash, "$2") {
		t.Errorf("Hash() does not look like a bcrypt hash: %q", hash)
	}
}

func TestHash_SamePasswordProducesDifferentHashes(t *testing.T) {
	ps := newTestPasswordService()

	first, err := ps.Hash("Password1")
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}
	second, err := ps.Hash("Password1")
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}
	if first == second {
		t.Error("two hashes of the same password are identical; salt missing?")
	}
}

func TestHash_RejectsOverlongPassword(t *testing.T) {
	ps := newTestPasswordService()

	if _, err := ps.Hash(strings.Repeat("a", 73)); err == nil {
		t.Error("Hash() accepted a 73-byte password, want error")
	}
}

func TestVerify(t *testing.T) {
	ps := newTestPasswordService()

	hash, err := ps.Hash("Password1")
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}

	if err := ps.Verify(hash, "Password1"); err != nil {
		t.Errorf("Verify() with correct password error = %v", err)
	}
	if err := ps.Verify(hash, "Password2"); err == nil {
		t.Error("Verify() with wrong password returned nil, want error")
	}
	if err := ps.Verify("not-a-hash", "Password1"); err == nil {
		t.Error("Verify() with malformed hash returned nil, want error")
	}
}
