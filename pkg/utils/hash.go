package utils

import (
	"crypto/md5"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// MaxPasswordBytes is the longest password bcrypt accepts.
const MaxPasswordBytes = 72

// ErrPasswordTooLong is returned for passwords bcrypt cannot hash.
var ErrPasswordTooLong = errors.New("password longer than 72 bytes")

// legacyHashLen is the length of the hex md5 digests written by the previous system.
const legacyHashLen = 32

// urlHashNonceLimit bounds the random nonce mixed into url hashes.
const urlHashNonceLimit = 1 << 30

// HashPassword hashes a plain password using bcrypt.
func HashPassword(password string) (string, error) {
	if len(password) > MaxPasswordBytes {
		return "", ErrPasswordTooLong
	}
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

// CheckPassword compares plain password with hashed password. Hex md5 digests
// carried over from imported accounts are still accepted. An empty hash never matches.
func CheckPassword(plain, hashed string) bool {
	if hashed == "" {
		return false
	}
	if IsLegacyHash(hashed) {
		sum := MD5Hex(plain)
		return subtle.ConstantTimeCompare([]byte(sum), []byte(strings.ToLower(hashed))) == 1
	}
	err := bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plain))
	return err == nil
}

// IsLegacyHash reports whether hashed is a hex md5 digest rather than bcrypt.
func IsLegacyHash(hashed string) bool {
	if len(hashed) != legacyHashLen {
		return false
	}
	_, err := hex.DecodeString(hashed)
	return err == nil
}

// MD5Hex returns the lowercase hex md5 digest of s.
func MD5Hex(s string) string {
	sum := md5.Sum([]byte(s))
	return hex.EncodeToString(sum[:])
}

// URLHash derives the 32 character lookup token of a person from its email,
// creation timestamp and nonce.
func URLHash(email string, created time.Time, nonce uint32) string {
	magic := fmt.Sprintf("%s&%s&%d", email, created.Format("2006-01-02 15:04:05.000000"), nonce)
	return MD5Hex(magic)
}

// NewURLHash is URLHash with a fresh random nonce.
func NewURLHash(email string, created time.Time) string {
	return URLHash(email, created, rand.Uint32N(urlHashNonceLimit))
}
