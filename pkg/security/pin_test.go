package security

import (
	"strings"
	"testing"

	"github.com/sheltersync/sheltersync-backend/pkg/config"
)

func testPinConfig() config.PinConfig {
	return config.PinConfig{
		ArgonMemoryKB:    64,
		ArgonTime:        1,
		ArgonParallelism: 1,
		ArgonSaltLen:     16,
		ArgonKeyLen:      32,
	}
}

func TestHashAndVerifyPIN(t *testing.T) {
	encoded, err := HashPIN("1234", testPinConfig())
	if err != nil {
		t.Fatalf("hash pin: %v", err)
	}
	if !strings.HasPrefix(encoded, "$argon2id$v=19$") {
		t.Fatalf("unexpected hash format %q", encoded)
	}

	ok, err := VerifyPIN("1234", encoded)
	if err != nil {
		t.Fatalf("verify pin: %v", err)
	}
	if !ok {
		t.Fatal("correct pin should verify")
	}

	ok, err = VerifyPIN("9999", encoded)
	if err != nil {
		t.Fatalf("verify wrong pin: %v", err)
	}
	if ok {
		t.Fatal("wrong pin should not verify")
	}
}

func TestHashPINProducesUniqueSalts(t *testing.T) {
	first, err := HashPIN("1234", testPinConfig())
	if err != nil {
		t.Fatalf("hash pin: %v", err)
	}
	second, err := HashPIN("1234", testPinConfig())
	if err != nil {
		t.Fatalf("hash pin: %v", err)
	}
	if first == second {
		t.Fatal("two hashes of the same pin should differ")
	}
}

func TestHashPINRejectsEmpty(t *testing.T) {
	if _, err := HashPIN("", testPinConfig()); err == nil {
		t.Fatal("expected error for empty pin")
	}
}

func TestVerifyPINMalformedHash(t *testing.T) {
	if _, err := VerifyPIN("1234", "not-a-hash"); err != ErrInvalidHash {
		t.Fatalf("expected ErrInvalidHash, got %v", err)
	}
	if _, err := VerifyPIN("1234", "$bcrypt$whatever$x$y$z"); err != ErrInvalidHash {
		t.Fatalf("expected ErrInvalidHash, got %v", err)
	}
}

func TestGeneratePIN(t *testing.T) {
	pin, err := GeneratePIN(6)
	if err != nil {
		t.Fatalf("generate pin: %v", err)
	}
	if len(pin) != 6 {
		t.Fatalf("expected 6 digits, got %q", pin)
	}
	for _, r := range pin {
		if r < '0' || r > '9' {
			t.Fatalf("expected numeric pin, got %q", pin)
		}
	}
	if _, err := GeneratePIN(0); err == nil {
		t.Fatal("expected error for non-positive length")
	}
}
