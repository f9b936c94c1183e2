// Copyright (c) 2026 Gatherly Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package auth

import "testing"

func TestDeriveUserIDDeterministic(t *testing.T) {
	a := DeriveUserID("a@x.com")
	b := DeriveUserID("a@x.com")
	if a != b {
		t.Errorf("DeriveUserID not deterministic: %q vs %q", a, b)
	}
}

func TestDeriveUserIDLength(t *testing.T) {
	emails := []string{
		"a@x.com",
		"organizer@example.com",
		"",
		"very.long.address+tag@subdomain.example.org",
	}

	for _, email := range emails {
		id := DeriveUserID(email)
		if len(id) != UserIDLength {
			t.Errorf("DeriveUserID(%q) length = %d; want %d", email, len(id), UserIDLength)
		}
		for _, c := range id {
			if c < '0' || c > '9' {
				t.Errorf("DeriveUserID(%q) contains non-digit %q", email, c)
			}
		}
	}
}

func TestDeriveUserIDDistinct(t *testing.T) {
	if DeriveUserID("a@x.com") == DeriveUserID("b@x.com") {
		t.Error("different emails derived the same identifier")
	}
}
