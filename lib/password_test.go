package lib

import (
	"storefront_server/structs"
	"testing"
)

// cheap parameters keep the test fast
var testParams = &structs.ArgonParams{Memory: 1024, Time: 1, Threads: 1, KeyLen: 16, SaltLen: 8}

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("correct horse", testParams)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}

	ok, err := VerifyPassword("correct horse", hash)
	if err != nil || !ok {
		t.Fatalf("expected password to verify, ok=%v err=%v", ok, err)
	}

	ok, err = VerifyPassword("battery staple", hash)
	if err != nil || ok {
		t.Fatalf("expected mismatch, ok=%v err=%v", ok, err)
	}
}

func TestVerifyPasswordRejectsMalformedHashes(t *testing.T) {
	for _, encoded := range []string{
		"$bcrypt$nope",
		"$argon2id$v=19$m=1024,t=1,p=1$c2FsdA$",
		"$argon2id$v=18$m=1024,t=1,p=1$c2FsdA$a2V5",
		"argon2id$v=19$m=1024,t=1,p=1$c2FsdA$a2V5$",
	} {
		if ok, err := VerifyPassword("x", encoded); err == nil || ok {
			t.Errorf("VerifyPassword(%q) = %v, %v; want an error", encoded, ok, err)
		}
	}
}

func TestNeedsRehash(t *testing.T) {
	hash, err := HashPassword("pw", testParams)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if NeedsRehash(hash, testParams) {
		t.Error("hash made with the same params needs no rehash")
	}
	if !NeedsRehash(hash, DefaultArgonParams) {
		t.Error("hash made with cheaper params should be rehashed")
	}
	if !NeedsRehash("garbage", testParams) {
		t.Error("unreadable hashes should be rehashed")
	}
}
