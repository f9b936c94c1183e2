// Copyright (c) 2026 Gatherly Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package auth

import (
	"strings"
	"testing"
)

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("correct horse battery staple")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}

	if !strings.HasPrefix(hash, "$argon2id$") {
		t.Errorf("hash has unexpected prefix: %s", hash)
	}

	ok, err := CheckPassword("correct horse battery staple", hash)
	if err != nil {
		t.Fatalf("CheckPassword: %v", err)
	}
	if !ok {
		t.Error("correct password did not verify")
	}

	ok, err = CheckPassword("wrong password", hash)
	if err != nil {
		t.Fatalf("CheckPassword: %v", err)
	}
	if ok {
		t.Error("wrong password verified")
	}
}

func TestHashPasswordUniqueSalts(t *testing.T) {
	h1, err := HashPassword("p1")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	h2, err := HashPassword("p1")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if h1 == h2 {
		t.Error("two hashes of the same password are identical; salt not random")
	}
}

func TestCheckPasswordInvalidFormat(t *testing.T) {
	tests := []string{
		"",
		"not-a-hash",
		"$bcrypt$v=19$m=19456,t=2,p=1$salt$hash",
		"$argon2id$v=19$m=19456,t=2,p=1$!!!$hash",
	}

	for _, encoded := range tests {
		if ok, err := CheckPassword("pw", encoded); err == nil && ok {
			t.Errorf("CheckPassword(%q) verified a malformed hash", encoded)
		}
	}
}

func TestNeedsRehash(t *testing.T) {
	hash, err := HashPassword("pw")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if NeedsRehash(hash) {
		t.Error("fresh hash reported as needing rehash")
	}

	// Old parameters (64MB memory) should trigger a rehash.
	old := "$argon2id$v=19$m=65536,t=1,p=4$c2FsdHNhbHRzYWx0c2FsdA$aGFzaGhhc2hoYXNoaGFzaGhhc2hoYXNoaGFzaGhhc2g"
	if !NeedsRehash(old) {
		t.Error("old-parameter hash not reported as needing rehash")
	}

	if !NeedsRehash("garbage") {
		t.Error("malformed hash not reported as needing rehash")
	}
}
