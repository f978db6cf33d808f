package payload

import (
	"encoding/hex"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/ArkHQ/ark-engine/pkg/crypto"
)

const (
	testRecipient = "DM7UiH4b2rW2Nv11Wu6ToiZi8MJhGCEWhP"
	testPublicKey = "025f81956d5826bad7d30daed2b5c8c98e72046c1ec8323da336445476183fb7ca"
)

type oracleMock struct {
	mock.Mock
}

func (m *oracleMock) GetKeys(secret string) ([]byte, []byte, error) {
	args := m.Called(secret)
	return args.Get(0).([]byte), args.Get(1).([]byte), args.Error(2)
}

func (m *oracleMock) DecodeAddress(address string) ([]byte, error) {
	args := m.Called(address)
	return args.Get(0).([]byte), args.Error(1)
}

func mustDecodeHex(str string) []byte {
	res, err := hex.DecodeString(str)
	if err != nil {
		panic(err)
	}
	return res
}

func TestEncodeTransfer(t *testing.T) {
	oracle := crypto.Oracle{}
	params := &Transfer{
		Amount:      100000000,
		Expiration:  7,
		RecipientID: testRecipient,
	}
	encoded, err := Encode(oracle, TypeTransfer, params)
	assert.NoError(t, err)
	assert.Len(t, encoded, TransferSize)
	assert.Equal(t, mustDecodeHex("00e1f50500000000"), encoded[:8])
	assert.Equal(t, mustDecodeHex("07000000"), encoded[8:RecipientOffset])

	raw, err := oracle.DecodeAddress(testRecipient)
	assert.NoError(t, err)
	assert.Equal(t, raw, encoded[RecipientOffset:])
	assert.Equal(t, testRecipient, oracle.EncodeAddress(encoded[RecipientOffset:]))

	again, err := Encode(oracle, TypeTransfer, params)
	assert.NoError(t, err)
	assert.Equal(t, encoded, again)

	reduced, err := Encode(oracle, TypeTransfer, params.WithAmount(1))
	assert.NoError(t, err)
	assert.Equal(t, mustDecodeHex("0100000000000000"), reduced[:8])
	assert.Equal(t, uint64(100000000), params.Amount)
}

func TestEncodeTransferInvalidAddress(t *testing.T) {
	oracle := crypto.Oracle{}
	cases := []string{
		"",
		"not an address",
		"DM7UiH4b2rW2Nv11Wu6ToiZi8MJhGCEWhQ",
	}
	for _, recipient := range cases {
		_, err := Encode(oracle, TypeTransfer, &Transfer{Amount: 1, RecipientID: recipient})
		assert.ErrorIs(t, err, ErrInvalidAddress)
	}

	oracleMock := &oracleMock{}
	oracleMock.On("DecodeAddress", "short").Return([]byte{0x1e, 0x01}, nil)
	_, err := Encode(oracleMock, TypeTransfer, &Transfer{Amount: 1, RecipientID: "short"})
	assert.ErrorIs(t, err, ErrInvalidAddress)
	oracleMock.AssertExpectations(t)
}

func TestEncodeSecondSignature(t *testing.T) {
	oracle := crypto.Oracle{}

	fromKey, err := Encode(oracle, TypeSecondSignature, &SecondSignature{SecondPublicKey: mustDecodeHex(testPublicKey)})
	assert.NoError(t, err)
	assert.Equal(t, mustDecodeHex(testPublicKey), fromKey)

	fromSecret, err := Encode(oracle, TypeSecondSignature, &SecondSignature{SecondSecret: "test"})
	assert.NoError(t, err)
	assert.Equal(t, fromKey, fromSecret)

	_, err = Encode(oracle, TypeSecondSignature, &SecondSignature{})
	assert.ErrorIs(t, err, ErrMissingKey)

	_, err = Encode(oracle, TypeSecondSignature, &SecondSignature{SecondPublicKey: []byte{1, 2, 3}})
	assert.ErrorIs(t, err, ErrMissingKey)

	oracleMock := &oracleMock{}
	oracleMock.On("GetKeys", "broken").Return([]byte{}, []byte{}, errors.New("derivation failed"))
	_, err = Encode(oracleMock, TypeSecondSignature, &SecondSignature{SecondSecret: "broken"})
	assert.ErrorIs(t, err, ErrMissingKey)
}

func TestEncodeDelegate(t *testing.T) {
	oracle := crypto.Oracle{}

	encoded, err := Encode(oracle, TypeDelegate, &Delegate{Username: "abc"})
	assert.NoError(t, err)
	assert.Equal(t, []byte{3, 'a', 'b', 'c'}, encoded)

	encoded, err = Encode(oracle, TypeDelegate, &Delegate{Username: "delégate"})
	assert.NoError(t, err)
	assert.Equal(t, uint8(9), encoded[0])
	assert.Len(t, encoded, 10)

	_, err = Encode(oracle, TypeDelegate, &Delegate{Username: strings.Repeat("a", 255)})
	assert.NoError(t, err)

	for _, username := range []string{"", "ab", strings.Repeat("a", 256)} {
		_, err = Encode(oracle, TypeDelegate, &Delegate{Username: username})
		assert.ErrorIs(t, err, ErrInvalidUsername)
	}
}

func TestEncodeVote(t *testing.T) {
	oracle := crypto.Oracle{}

	reference := "01" + testPublicKey
	encoded, err := Encode(oracle, TypeVote, &Vote{DelegatePublicKey: reference})
	assert.NoError(t, err)
	assert.Equal(t, []byte(reference), encoded)

	size, err := Size(oracle, TypeVote, &Vote{DelegatePublicKey: reference})
	assert.NoError(t, err)
	assert.Equal(t, 68, size)

	_, err = Encode(oracle, TypeVote, &Vote{})
	assert.ErrorIs(t, err, ErrMissingVote)
}

func TestEncodeTypeMismatch(t *testing.T) {
	oracle := crypto.Oracle{}

	_, err := Encode(oracle, TypeDelegate, &Vote{DelegatePublicKey: "01"})
	assert.ErrorIs(t, err, ErrPayloadTypeMismatch)

	_, err = Encode(oracle, TypeTransfer, nil)
	assert.ErrorIs(t, err, ErrPayloadTypeMismatch)

	_, err = Encode(oracle, 4, &Vote{DelegatePublicKey: "01"})
	assert.ErrorIs(t, err, ErrUnknownType)

	_, err = Size(oracle, 9, nil)
	assert.ErrorIs(t, err, ErrUnknownType)
}

func TestNew(t *testing.T) {
	for typ := TypeTransfer; typ <= TypeVote; typ++ {
		params, err := New(typ)
		assert.NoError(t, err)
		assert.Equal(t, typ, params.Type())
	}
	_, err := New(4)
	assert.ErrorIs(t, err, ErrUnknownType)
}

func TestDecode(t *testing.T) {
	oracle := crypto.Oracle{}
	cases := []struct {
		typ    uint8
		params Params
	}{
		{typ: TypeTransfer, params: &Transfer{Amount: 100000000, Expiration: 7, RecipientID: testRecipient}},
		{typ: TypeSecondSignature, params: &SecondSignature{SecondPublicKey: mustDecodeHex(testPublicKey)}},
		{typ: TypeDelegate, params: &Delegate{Username: "genesis_1"}},
		{typ: TypeVote, params: &Vote{DelegatePublicKey: "01" + testPublicKey}},
	}
	for _, c := range cases {
		encoded, err := Encode(oracle, c.typ, c.params)
		assert.NoError(t, err)
		decoded, err := Decode(oracle, c.typ, encoded)
		assert.NoError(t, err)
		assert.Equal(t, c.params, decoded)
	}

	_, err := Decode(oracle, TypeTransfer, []byte{1, 2, 3})
	assert.Error(t, err)
	_, err = Decode(oracle, TypeDelegate, []byte{1, 'a', 'b'})
	assert.Error(t, err)
	_, err = Decode(oracle, 9, nil)
	assert.ErrorIs(t, err, ErrUnknownType)
}
