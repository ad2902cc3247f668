package auth

import (
	"errors"
	"fmt"

	"github.com/dmitrijs2005/donnamis/internal/common"
	"golang.org/x/crypto/bcrypt"
)

// CredentialVerifier hashes passwords and checks them against stored hashes.
type CredentialVerifier interface {
	Hash(password string) (string, error)
	Verify(password, hash string) (bool, error)
}

// BcryptVerifier implements CredentialVerifier with bcrypt.
type BcryptVerifier struct {
	Cost int
}

func NewBcryptVerifier() *BcryptVerifier {
	return &BcryptVerifier{Cost: bcrypt.DefaultCost}
}

// Hash fails with common.ErrorBadInput for passwords over 72 bytes.
func (v *BcryptVerifier) Hash(password string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), v.Cost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return "", fmt.Errorf("%w: password is longer than 72 bytes", common.ErrorBadInput)
	}
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Verify reports false for a mismatch. Only a malformed hash is an error.
func (v *BcryptVerifier) Verify(password, hash string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return false, nil
	}
	return false, err
}
