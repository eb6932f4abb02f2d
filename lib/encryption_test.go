package lib

import (
	"errors"
	"strings"
	"testing"
)

func TestSealOpen(t *testing.T) {
	key := strings.Repeat("k", 32)

	sealed, err := Seal([]byte(`{"last4":"4242"}`), key)
	if err != nil {
		t.Fatalf("seal: %v", err)
	}
	if strings.Contains(sealed, "4242") {
		t.Fatal("sealed payload leaks plaintext")
	}

	opened, err := Open(sealed, key)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if string(opened) != `{"last4":"4242"}` {
		t.Fatalf("unexpected payload %q", opened)
	}

	if _, err := Open(sealed, strings.Repeat("x", 32)); err == nil {
		t.Fatal("expected error opening with the wrong key")
	}
}

func TestSealRejectsShortKey(t *testing.T) {
	if _, err := Seal([]byte("x"), "short"); !errors.Is(err, ErrSealKeyLength) {
		t.Fatalf("expected ErrSealKeyLength, got %v", err)
	}
}
