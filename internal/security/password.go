package security

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/crypto/pbkdf2"
)

const (
	// BcryptCost is the cost factor for bcrypt hashing
	BcryptCost = 10

	// PBKDF2Iterations matches the Django 5.x default for pbkdf2_sha256
	PBKDF2Iterations = 870000

	pbkdf2Algorithm = "pbkdf2_sha256"
	saltAlphabet    = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	saltLength      = 22
)

var (
	ErrUnknownHasher   = errors.New("unknown password hasher")
	ErrMalformedHash   = errors.New("malformed password hash")
	ErrPasswordInvalid = errors.New("password does not match")
)

// PasswordHasher turns plaintext passwords into stored credentials.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(hash, password string) error
}

// NewPasswordHasher returns the hasher registered under name.
// An empty name selects bcrypt.
func NewPasswordHasher(name string) (PasswordHasher, error) {
	switch name {
	case "", "bcrypt":
		return BcryptHasher{Cost: BcryptCost}, nil
	case pbkdf2Algorithm:
		return PBKDF2Hasher{Iterations: PBKDF2Iterations}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownHasher, name)
	}
}

type BcryptHasher struct {
	Cost int
}

func (h BcryptHasher) Hash(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), h.Cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

func (h BcryptHasher) Verify(hash, password string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return ErrPasswordInvalid
	}
	return nil
}

// PBKDF2Hasher produces Django-compatible "pbkdf2_sha256$<iter>$<salt>$<b64>" hashes,
// so seeded users can sign in to a Django application sharing the store.
type PBKDF2Hasher struct {
	Iterations int
}

func (h PBKDF2Hasher) Hash(password string) (string, error) {
	salt, err := randomSalt()
	if err != nil {
		return "", err
	}
	return h.encode(password, salt, h.Iterations), nil
}

func (h PBKDF2Hasher) encode(password, salt string, iterations int) string {
	dk := pbkdf2.Key([]byte(password), []byte(salt), iterations, sha256.Size, sha256.New)
	return fmt.Sprintf("%s$%d$%s$%s", pbkdf2Algorithm, iterations, salt, base64.StdEncoding.EncodeToString(dk))
}

func (h PBKDF2Hasher) Verify(hash, password string) error {
	parts := strings.Split(hash, "$")
	if len(parts) != 4 || parts[0] != pbkdf2Algorithm {
		return ErrMalformedHash
	}

	iterations, err := strconv.Atoi(parts[1])
	if err != nil || iterations <= 0 {
		return ErrMalformedHash
	}

	expected := h.encode(password, parts[2], iterations)
	if subtle.ConstantTimeCompare([]byte(expected), []byte(hash)) != 1 {
		return ErrPasswordInvalid
	}
	return nil
}

func randomSalt() (string, error) {
	buf := make([]byte, saltLength)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate salt: %w", err)
	}
	for i, b := range buf {
		buf[i] = saltAlphabet[int(b)%len(saltAlphabet)]
	}
	return string(buf), nil
}
