package crypto

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

const (
	mainnetMarker = 0x17
	devnetMarker  = 0x1e
)

func TestGetAddress(t *testing.T) {
	fixtures := loadFixtures()
	for _, fixture := range fixtures.Keys {
		pubKey := strToHex(fixture.PubKey)
		assert.Equal(t, fixture.Mainnet, GetAddress(pubKey, mainnetMarker))
		assert.Equal(t, fixture.Devnet, GetAddress(pubKey, devnetMarker))

		raw := GetAddressBytes(pubKey, devnetMarker)
		assert.Len(t, raw, AddressLength)
		assert.Equal(t, byte(devnetMarker), raw[0])
	}
}

func TestGetAddressBytes(t *testing.T) {
	pubKey := strToHex("0x025f81956d5826bad7d30daed2b5c8c98e72046c1ec8323da336445476183fb7ca")
	expected := append([]byte{mainnetMarker}, strToHex("0xaf33b082a81e338a36d9fb9127597d4fb4e6ef6c")...)
	assert.Equal(t, expected, GetAddressBytes(pubKey, mainnetMarker))
}

func TestDecodeAddress(t *testing.T) {
	fixtures := loadFixtures()
	for _, fixture := range fixtures.Keys {
		raw, err := DecodeAddress(fixture.Devnet)
		assert.NoError(t, err)
		assert.Equal(t, GetAddressBytes(strToHex(fixture.PubKey), devnetMarker), raw)
		assert.Equal(t, fixture.Devnet, EncodeAddress(raw))
	}

	_, err := DecodeAddress("0OIl")
	assert.ErrorIs(t, err, ErrInvalidAddress)

	_, err = DecodeAddress("abc")
	assert.ErrorIs(t, err, ErrInvalidAddress)

	_, err = DecodeAddress("AXkFpWya4bFtet2QLxmEQqfCipW6GQtsZf")
	assert.Error(t, err)
}

func TestValidateAddress(t *testing.T) {
	assert.NoError(t, ValidateAddress("AXkFpWya4bFtet2QLxmEQqfCipW6GQtsZe", mainnetMarker))
	assert.ErrorIs(t, ValidateAddress("AXkFpWya4bFtet2QLxmEQqfCipW6GQtsZe", devnetMarker), ErrInvalidAddress)
	assert.NoError(t, ValidateAddress("DM7UiH4b2rW2Nv11Wu6ToiZi8MJhGCEWhP", devnetMarker))
}

func TestPassphrase(t *testing.T) {
	passphrase, err := NewPassphrase()
	assert.NoError(t, err)
	assert.NoError(t, ValidatePassphrase(passphrase))
	assert.ErrorIs(t, ValidatePassphrase("this is a top secret passphrase"), ErrInvalidPassphrase)
}
