// Package auth implements the security primitives of C4: password hashing,
// bearer tokens, and password-reset tokens.
package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/crypto/pbkdf2"
)

const (
	pbkdf2Iterations = 50000
	pbkdf2KeyLength  = 32
	saltLength       = 8
)

// HashPassword derives a pbkdf2-sha256 digest of plaintext and encodes it as
// "pbkdf2:sha256:<iterations>$<salt>$<hash>", with the salt and hash
// components hex-encoded.
func HashPassword(plaintext string) (string, error) {
	salt := make([]byte, saltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("auth: generate salt: %w", err)
	}
	digest := pbkdf2.Key([]byte(plaintext), salt, pbkdf2Iterations, pbkdf2KeyLength, sha256.New)

	return fmt.Sprintf(
		"pbkdf2:sha256:%d$%s$%s",
		pbkdf2Iterations,
		hex.EncodeToString(salt),
		hex.EncodeToString(digest),
	), nil
}

// VerifyPassword reports whether plaintext matches encoded, in constant
// time relative to the digest comparison. A malformed encoded value always
// fails closed.
func VerifyPassword(encoded, plaintext string) bool {
	algSpec, rest, ok := strings.Cut(encoded, "$")
	if !ok {
		return false
	}
	saltPart, hashPart, ok := strings.Cut(rest, "$")
	if !ok {
		return false
	}

	fields := strings.Split(algSpec, ":")
	if len(fields) != 3 || fields[0] != "pbkdf2" || fields[1] != "sha256" {
		return false
	}
	iterations, err := strconv.Atoi(fields[2])
	if err != nil || iterations <= 0 {
		return false
	}

	salt, err := hex.DecodeString(saltPart)
	if err != nil {
		return false
	}
	want, err := hex.DecodeString(hashPart)
	if err != nil {
		return false
	}

	got := pbkdf2.Key([]byte(plaintext), salt, iterations, len(want), sha256.New)
	return subtle.ConstantTimeCompare(got, want) == 1
}
