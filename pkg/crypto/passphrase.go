package crypto

import (
	"errors"
	"strings"

	"github.com/tyler-smith/go-bip39"
)

var ErrInvalidPassphrase = errors.New("invalid bip39 passphrase")

// NewPassphrase returns a new 12 words BIP39 mnemonic.
func NewPassphrase() (string, error) {
	entropy, err := bip39.NewEntropy(128)
	if err != nil {
		return "", err
	}
	return bip39.NewMnemonic(entropy)
}

// ValidatePassphrase checks that the passphrase is a BIP39 mnemonic with valid checksum.
// Ark accepts any secret, this is only used to warn wallet users.
func ValidatePassphrase(passphrase string) error {
	normalized := strings.Join(strings.Fields(passphrase), " ")
	if !bip39.IsMnemonicValid(normalized) {
		return ErrInvalidPassphrase
	}
	return nil
}
