package crypto

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/mr-tron/base58"
	"golang.org/x/crypto/ripemd160" //nolint:staticcheck // ripemd160 is part of the address format
)

const (
	// AddressLength is network marker byte followed by ripemd160 of public key.
	AddressLength  = 21
	checksumLength = 4
)

var (
	ErrInvalidAddress  = errors.New("invalid address")
	ErrInvalidChecksum = errors.New("invalid address checksum")
)

// GetAddressBytes returns raw address of the public key for the network marker.
func GetAddressBytes(publicKey []byte, marker uint8) []byte {
	hasher := ripemd160.New()
	hasher.Write(publicKey)
	return append([]byte{marker}, hasher.Sum(nil)...)
}

// GetAddress returns base58check address of the public key for the network marker.
func GetAddress(publicKey []byte, marker uint8) string {
	return EncodeAddress(GetAddressBytes(publicKey, marker))
}

// EncodeAddress returns base58check representation of raw address.
func EncodeAddress(raw []byte) string {
	return base58.Encode(append(append([]byte{}, raw...), checksum(raw)...))
}

// DecodeAddress decodes base58check address and returns its raw 21 bytes.
func DecodeAddress(address string) ([]byte, error) {
	decoded, err := base58.Decode(address)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidAddress, err)
	}
	if len(decoded) != AddressLength+checksumLength {
		return nil, fmt.Errorf("%w: decoded length must be %d but received %d", ErrInvalidAddress, AddressLength+checksumLength, len(decoded))
	}
	raw := decoded[:AddressLength]
	if !bytes.Equal(checksum(raw), decoded[AddressLength:]) {
		return nil, ErrInvalidChecksum
	}
	return raw, nil
}

// ValidateAddress checks that address decodes and belongs to the network marker.
func ValidateAddress(address string, marker uint8) error {
	raw, err := DecodeAddress(address)
	if err != nil {
		return err
	}
	if raw[0] != marker {
		return fmt.Errorf("%w: network marker %#x does not match %#x", ErrInvalidAddress, raw[0], marker)
	}
	return nil
}

func checksum(data []byte) []byte {
	first := Hash(data)
	second := Hash(first)
	return second[:checksumLength]
}
