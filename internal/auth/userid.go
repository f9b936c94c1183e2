// Copyright (c) 2026 Gatherly Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package auth

import (
	"crypto/sha256"
	"math/big"
	"strings"
)

// UserIDLength is the fixed length of a derived user identifier.
const UserIDLength = 10

// DeriveUserID derives a deterministic numeric identifier from an email
// address. The SHA-256 digest of the email is read as a big integer and its
// decimal expansion is truncated to UserIDLength digits, left-padded with
// zeros. The same email always yields the same identifier. Truncating a
// digest this way is not collision-free; the unique email constraint on the
// users table is what actually guarantees one account per address.
func DeriveUserID(email string) string {
	sum := sha256.Sum256([]byte(email))
	decimal := new(big.Int).SetBytes(sum[:]).String()
	if len(decimal) > UserIDLength {
		decimal = decimal[:UserIDLength]
	}
	if len(decimal) < UserIDLength {
		decimal = strings.Repeat("0", UserIDLength-len(decimal)) + decimal
	}
	return decimal
}
