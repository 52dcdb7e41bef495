// Package cryptox derives login material from a password. The server only
// ever sees the salt and the verifier; the client can repeat the derivation
// to log in offline against a cached verifier.
package cryptox

import (
	"crypto/sha256"
	"crypto/subtle"

	"golang.org/x/crypto/argon2"
)

const (
	SaltSize = 16
	keySize  = 32
)

func MakeVerifier(masterKey []byte) []byte {
	hash := sha256.Sum256(masterKey)
	return hash[:]
}

func DeriveMasterKey(password []byte, salt []byte) []byte {
	return argon2.IDKey(password, salt, 1, 64*1024, 4, keySize)
}

// VerifierFor runs the whole derivation: password+salt -> key -> verifier.
// The intermediate key is wiped before returning.
func VerifierFor(password, salt []byte) []byte {
	key := DeriveMasterKey(password, salt)
	defer wipe(key)
	return MakeVerifier(key)
}

// CheckPassword reports whether password reproduces verifier under salt.
func CheckPassword(password, salt, verifier []byte) bool {
	return subtle.ConstantTimeCompare(VerifierFor(password, salt), verifier) == 1
}

func wipe(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
