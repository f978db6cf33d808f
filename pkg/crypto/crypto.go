// Package crypto provides the cryptographic primitives of Ark v2 transactions.
//
// It supports secp256k1 ECDSA for signature scheme, sha256 for hash and transaction id,
// ripemd160 with base58check for address and argon2id for passphrase encryption.
package crypto

import (
	"crypto/rand"
	"crypto/sha256"
	"errors"
	"fmt"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"
)

const (
	HashLength       = 32
	PrivateKeyLength = 32
	// PublicKeyLength is the size of compressed secp256k1 public key.
	PublicKeyLength = 33
)

var (
	ErrInvalidPrivateKey = errors.New("invalid private key")
	ErrInvalidPublicKey  = errors.New("invalid public key")
	ErrInvalidSignature  = errors.New("invalid signature")
)

func RandomBytes(size int) []byte {
	r := make([]byte, size)
	if _, err := rand.Read(r); err != nil {
		panic(err)
	}
	return r
}

// GetKeys derives the key pair from passphrase. Private key is sha256 of the passphrase.
func GetKeys(passphrase string) ([]byte, []byte, error) {
	privateKey := Hash([]byte(passphrase))
	publicKey, err := GetPublicKey(privateKey)
	if err != nil {
		return nil, nil, err
	}
	return publicKey, privateKey, nil
}

// GetPublicKey returns compressed public key of the private key.
func GetPublicKey(privateKey []byte) ([]byte, error) {
	key, err := parsePrivateKey(privateKey)
	if err != nil {
		return nil, err
	}
	return key.PubKey().SerializeCompressed(), nil
}

func parsePrivateKey(privateKey []byte) (*secp256k1.PrivateKey, error) {
	if len(privateKey) != PrivateKeyLength {
		return nil, fmt.Errorf("%w: length must be %d but received %d", ErrInvalidPrivateKey, PrivateKeyLength, len(privateKey))
	}
	var scalar secp256k1.ModNScalar
	if overflow := scalar.SetByteSlice(privateKey); overflow || scalar.IsZero() {
		return nil, fmt.Errorf("%w: out of curve order", ErrInvalidPrivateKey)
	}
	return secp256k1.NewPrivateKey(&scalar), nil
}

func Hash(data []byte) []byte {
	hash := sha256.Sum256(data)
	return hash[:]
}

// Sign returns DER encoded deterministic (RFC 6979) signature of sha256(message).
func Sign(privateKey []byte, message []byte) ([]byte, error) {
	key, err := parsePrivateKey(privateKey)
	if err != nil {
		return nil, err
	}
	signature := ecdsa.Sign(key, Hash(message))
	return signature.Serialize(), nil
}

// VerifySignature checks DER encoded signature of sha256(message) by the public key.
func VerifySignature(publicKey, signature []byte, message []byte) error {
	key, err := secp256k1.ParsePubKey(publicKey)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidPublicKey, err)
	}
	sig, err := ecdsa.ParseDERSignature(signature)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidSignature, err)
	}
	if !sig.Verify(Hash(message), key) {
		return fmt.Errorf("%w: %x by %x", ErrInvalidSignature, signature, publicKey)
	}
	return nil
}
