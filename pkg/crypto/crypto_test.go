package crypto

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetKeys(t *testing.T) {
	fixtures := loadFixtures()
	for _, fixture := range fixtures.Keys {
		pubKey, privKey, err := GetKeys(fixture.Passphrase)
		assert.NoError(t, err)
		assert.Equal(t, strToHex(fixture.PrivKey), privKey)
		assert.Equal(t, strToHex(fixture.PubKey), pubKey)
		assert.Len(t, pubKey, PublicKeyLength)
	}
}

func TestGetPublicKey(t *testing.T) {
	_, err := GetPublicKey([]byte{1, 2, 3})
	assert.ErrorIs(t, err, ErrInvalidPrivateKey)

	_, err = GetPublicKey(make([]byte, PrivateKeyLength))
	assert.ErrorIs(t, err, ErrInvalidPrivateKey)

	_, err = GetPublicKey(bytes.Repeat([]byte{0xff}, PrivateKeyLength))
	assert.ErrorIs(t, err, ErrInvalidPrivateKey)
}

func TestSignAndVerify(t *testing.T) {
	fixtures := loadFixtures()
	message := []byte("ark")
	for _, fixture := range fixtures.Keys {
		privKey := strToHex(fixture.PrivKey)
		signature, err := Sign(privKey, message)
		assert.NoError(t, err)
		assert.Equal(t, byte(0x30), signature[0])

		again, err := Sign(privKey, message)
		assert.NoError(t, err)
		assert.Equal(t, signature, again)

		assert.NoError(t, VerifySignature(strToHex(fixture.PubKey), signature, message))
		assert.ErrorIs(t, VerifySignature(strToHex(fixture.PubKey), signature, []byte("other")), ErrInvalidSignature)
	}
}

func TestVerifySignature(t *testing.T) {
	fixtures := loadFixtures()
	for _, fixture := range fixtures.Verify {
		err := VerifySignature(strToHex(fixture.Input.PubKey), strToHex(fixture.Input.Signature), []byte(fixture.Input.Message))
		if fixture.Output {
			assert.NoError(t, err)
		} else {
			assert.Error(t, err)
		}
	}

	err := VerifySignature([]byte{1, 2}, []byte{0x30}, []byte("ark"))
	assert.ErrorIs(t, err, ErrInvalidPublicKey)

	pubKey := strToHex(fixtures.Keys[0].PubKey)
	err = VerifySignature(pubKey, []byte{0x30, 0x01}, []byte("ark"))
	assert.ErrorIs(t, err, ErrInvalidSignature)
}

func TestHash(t *testing.T) {
	assert.Equal(t, strToHex("0x9f86d081884c7d659a2feaa0c55ad015a3bf4f1b2b0b822cd15d6c15b0f00a08"), Hash([]byte("test")))
	assert.Len(t, Hash(nil), HashLength)
}

func TestRandomBytes(t *testing.T) {
	assert.Len(t, RandomBytes(16), 16)
	assert.NotEqual(t, RandomBytes(32), RandomBytes(32))
}

func TestOracle(t *testing.T) {
	oracle := Oracle{}
	pubKey, privKey, err := oracle.GetKeys("test")
	assert.NoError(t, err)
	derived, err := oracle.GetPublicKey(privKey)
	assert.NoError(t, err)
	assert.Equal(t, pubKey, derived)

	signature, err := oracle.Sign(privKey, []byte("message"))
	assert.NoError(t, err)
	assert.NoError(t, oracle.VerifySignature(pubKey, signature, []byte("message")))

	raw, err := oracle.DecodeAddress("AXkFpWya4bFtet2QLxmEQqfCipW6GQtsZe")
	assert.NoError(t, err)
	assert.Equal(t, "AXkFpWya4bFtet2QLxmEQqfCipW6GQtsZe", oracle.EncodeAddress(raw))
	assert.Equal(t, Hash([]byte("a")), oracle.Hash([]byte("a")))
}
