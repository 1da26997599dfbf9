package auth

import (
	"bytes"
	"crypto/rand"
	"crypto/subtle"
	"errors"
	"fmt"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"golang.org/x/crypto/argon2"
)

const (
	saltSize = 16
	keySize  = 32

	codeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	codeLength   = 6
)

var ErrPasswordMismatch = errors.New("password mismatch")

func deriveKey(password, salt []byte) []byte {
	return argon2.IDKey(password, salt, 1, 64*1024, 4, keySize)
}

// HashPassword returns salt||argon2id(password, salt).
func HashPassword(password []byte) ([]byte, error) {
	salt := make([]byte, saltSize)
	if _, err := rand.Read(salt); err != nil {
		return nil, fmt.Errorf("generate salt: %w", err)
	}
	return append(salt, deriveKey(password, salt)...), nil
}

// CheckPassword compares password against a hash made by HashPassword.
func CheckPassword(hash, password []byte) error {
	if len(hash) != saltSize+keySize {
		return ErrPasswordMismatch
	}
	salt, want := hash[:saltSize], hash[saltSize:]
	got := deriveKey(password, bytes.Clone(salt))
	if subtle.ConstantTimeCompare(got, want) != 1 {
		return ErrPasswordMismatch
	}
	return nil
}

// GenerateCode returns a short upper-case code for mailing to a user.
func GenerateCode() (string, error) {
	return gonanoid.Generate(codeAlphabet, codeLength)
}
