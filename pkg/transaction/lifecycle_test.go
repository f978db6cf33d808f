package transaction

import (
	"crypto/sha256"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ArkHQ/ark-engine/pkg/crypto"
	"github.com/ArkHQ/ark-engine/pkg/payload"
)

const (
	secondPublicKey = "020582dc69de94fa6935fe2f09c9e3a77188a04552b8f0d0a5175fcdb0c56db467"
)

func TestCalculateFee(t *testing.T) {
	fee, err := CalculateFee(2, HeaderLength, 4, DefaultFeePerByte)
	assert.NoError(t, err)
	assert.Equal(t, uint64(560000), fee)

	fee, err = CalculateFee(0, HeaderLength+3, payload.TransferSize, 1)
	assert.NoError(t, err)
	assert.Equal(t, uint64(86), fee)

	_, err = CalculateFee(0, HeaderLength, 4, 1<<63)
	assert.ErrorIs(t, err, ErrFeeOverflow)
}

func TestFinalizeFee(t *testing.T) {
	record := newTestRecord(t, payload.TypeDelegate)
	assert.NoError(t, record.Finalize(&payload.Delegate{Username: "abc"}, nil))
	assert.Equal(t, StateFinalized, record.State())
	assert.Equal(t, uint64((2+HeaderLength+4)*10000), record.Fees())
	assert.Equal(t, []byte{3, 'a', 'b', 'c'}, record.Payload())
	assert.Equal(t, HeaderLength+4, record.Size())

	assert.NoError(t, record.Set(FieldVendorField, "hi"))
	assert.NoError(t, record.Finalize(&payload.Delegate{Username: "abc"}, &FinalizeOptions{FeePerByte: 1}))
	assert.Equal(t, uint64(2+HeaderLength+2+4), record.Fees())
	assert.Equal(t, HeaderLength+2+4, record.Size())
}

func TestFinalizeFeesIncluded(t *testing.T) {
	params := &payload.Transfer{Amount: 100000000, RecipientID: testRecipient}
	fee := uint64((HeaderLength + payload.TransferSize) * 10000)

	record := newTestRecord(t, payload.TypeTransfer)
	assert.NoError(t, record.Finalize(params, &FinalizeOptions{FeesIncluded: true}))
	assert.Equal(t, fee, record.Fees())
	assert.Equal(t, params.Amount-fee, record.Amount())
	assert.Equal(t, uint64(100000000), params.Amount)

	// amount lower than fee is kept as is
	record = newTestRecord(t, payload.TypeTransfer)
	assert.NoError(t, record.Finalize(&payload.Transfer{Amount: 10, RecipientID: testRecipient}, &FinalizeOptions{FeesIncluded: true}))
	assert.Equal(t, uint64(10), record.Amount())
	assert.Equal(t, fee, record.Fees())

	record = newTestRecord(t, payload.TypeTransfer)
	assert.NoError(t, record.Finalize(params, &FinalizeOptions{}))
	assert.Equal(t, params.Amount, record.Amount())
}

func TestFinalizeFailureKeepsRecord(t *testing.T) {
	record := newTestRecord(t, payload.TypeTransfer)
	assert.NoError(t, record.Finalize(&payload.Transfer{Amount: 1, RecipientID: testRecipient}, nil))
	assert.NoError(t, record.Sign(&SignKeys{Secret: "test"}))
	before := record.Bytes()

	err := record.Finalize(&payload.Transfer{Amount: 1, RecipientID: "invalid"}, nil)
	assert.ErrorIs(t, err, payload.ErrInvalidAddress)
	err = record.Finalize(&payload.Delegate{Username: "abc"}, nil)
	assert.ErrorIs(t, err, payload.ErrPayloadTypeMismatch)
	err = record.Finalize(&payload.Transfer{Amount: 1, RecipientID: testRecipient}, &FinalizeOptions{FeePerByte: 1 << 62})
	assert.ErrorIs(t, err, ErrFeeOverflow)

	assert.Equal(t, before, record.Bytes())
	assert.Equal(t, StateSigned, record.State())

	delegate := newTestRecord(t, payload.TypeDelegate)
	assert.ErrorIs(t, delegate.Finalize(&payload.Delegate{Username: "ab"}, nil), payload.ErrInvalidUsername)
	assert.Equal(t, StateBuilt, delegate.State())
	assert.Equal(t, HeaderLength, delegate.Size())

	second := newTestRecord(t, payload.TypeSecondSignature)
	assert.ErrorIs(t, second.Finalize(&payload.SecondSignature{}, nil), payload.ErrMissingKey)
	vote := newTestRecord(t, payload.TypeVote)
	assert.ErrorIs(t, vote.Finalize(&payload.Vote{}, nil), payload.ErrMissingVote)
}

func TestFinalizeRepeated(t *testing.T) {
	params := &payload.Transfer{Amount: 5, RecipientID: testRecipient}
	record := newTestRecord(t, payload.TypeTransfer)
	assert.NoError(t, record.Finalize(params, nil))
	first := record.Bytes()
	assert.NoError(t, record.Sign(&SignKeys{Secret: "test"}))
	assert.NoError(t, record.Identify())
	assert.NoError(t, record.Set(FieldPublicKey, nil))

	assert.NoError(t, record.Finalize(params, nil))
	assert.Equal(t, first, record.Bytes())
	assert.Equal(t, StateFinalized, record.State())
}

func TestSign(t *testing.T) {
	record := newTestRecord(t, payload.TypeTransfer)
	assert.NoError(t, record.Finalize(&payload.Transfer{Amount: 100, RecipientID: testRecipient}, nil))
	signatureStart := record.Size()

	assert.NoError(t, record.Sign(&SignKeys{Secret: "test"}))
	assert.Equal(t, StateSigned, record.State())
	assert.False(t, record.SecondSigned())
	assert.Equal(t, testPublicKey, record.PublicKey().String())
	signatures := record.Signatures()
	assert.Equal(t, byte(0x30), signatures[0])
	assert.Equal(t, signatureStart+len(signatures), record.Size())
	assert.NoError(t, crypto.VerifySignature(mustDecodeHex(testPublicKey), signatures, record.Bytes()[:signatureStart]))
	assert.NoError(t, record.Verify())

	// idempotent
	assert.NoError(t, record.Sign(&SignKeys{Secret: "test"}))
	assert.Equal(t, signatures, record.Signatures())
	assert.Equal(t, signatureStart+len(signatures), record.Size())

	// private key does not touch the public key
	_, privateKey, err := crypto.GetKeys("test")
	assert.NoError(t, err)
	assert.NoError(t, record.Sign(&SignKeys{PrivateKey: privateKey}))
	assert.Equal(t, signatures, record.Signatures())
}

func TestSignSecond(t *testing.T) {
	record := newTestRecord(t, payload.TypeTransfer)
	assert.NoError(t, record.Finalize(&payload.Transfer{Amount: 100, RecipientID: testRecipient}, nil))
	assert.NoError(t, record.Sign(&SignKeys{Secret: "test", SecondSecret: "secret second"}))
	assert.Equal(t, StateSecondSigned, record.State())
	assert.True(t, record.SecondSigned())
	assert.NoError(t, record.Verify())
	assert.NoError(t, record.VerifySecondSignature(mustDecodeHex(secondPublicKey)))
	assert.Error(t, record.VerifySecondSignature(mustDecodeHex(testPublicKey)))
	signatures := record.Signatures()

	_, secondPrivateKey, err := crypto.GetKeys("secret second")
	assert.NoError(t, err)
	assert.NoError(t, record.Sign(&SignKeys{Secret: "test", SecondPrivateKey: secondPrivateKey}))
	assert.Equal(t, signatures, record.Signatures())

	assert.NoError(t, record.Identify())
	assert.Equal(t, StateIdentified, record.State())
	assert.True(t, record.SecondSigned())

	assert.NoError(t, record.Sign(&SignKeys{Secret: "test"}))
	assert.False(t, record.SecondSigned())
	assert.ErrorIs(t, record.VerifySecondSignature(mustDecodeHex(secondPublicKey)), ErrNotFinalized)
}

func TestSignErrors(t *testing.T) {
	record := newTestRecord(t, payload.TypeTransfer)
	assert.ErrorIs(t, record.Sign(&SignKeys{Secret: "test"}), ErrNotFinalized)
	assert.ErrorIs(t, record.Verify(), ErrNotFinalized)

	assert.NoError(t, record.Finalize(&payload.Transfer{Amount: 100, RecipientID: testRecipient}, nil))
	before := record.Bytes()
	assert.ErrorIs(t, record.Sign(nil), ErrNoSigningKey)
	assert.ErrorIs(t, record.Sign(&SignKeys{SecondSecret: "secret second"}), ErrNoSigningKey)
	assert.ErrorIs(t, record.Sign(&SignKeys{PrivateKey: []byte{1, 2, 3}}), crypto.ErrInvalidPrivateKey)
	assert.ErrorIs(t, record.Sign(&SignKeys{Secret: "test", SecondPrivateKey: []byte{1}}), crypto.ErrInvalidPrivateKey)
	assert.Equal(t, before, record.Bytes())
	assert.Equal(t, StateFinalized, record.State())
}

func TestIdentify(t *testing.T) {
	record := newTestRecord(t, payload.TypeTransfer)
	assert.ErrorIs(t, record.Identify(), ErrNotFinalized)
	_, err := record.ID()
	assert.ErrorIs(t, err, ErrNotIdentified)

	assert.NoError(t, record.Finalize(&payload.Transfer{Amount: 100, RecipientID: testRecipient}, nil))
	assert.ErrorIs(t, record.Identify(), ErrNotFinalized)
	assert.NoError(t, record.Sign(&SignKeys{Secret: "test"}))
	signed := record.Bytes()

	assert.NoError(t, record.Identify())
	id, err := record.ID()
	assert.NoError(t, err)
	expected := sha256.Sum256(signed)
	assert.Equal(t, expected[:], []byte(id))
	assert.Equal(t, len(signed)+IDLength, record.Size())

	identified := record.Bytes()
	assert.NoError(t, record.Identify())
	assert.Equal(t, identified, record.Bytes())

	value, err := record.Get(FieldID)
	assert.NoError(t, err)
	assert.Len(t, value.(fmt.Stringer).String(), 64)
}

func TestHeaderWriteAfterSign(t *testing.T) {
	record := newTestRecord(t, payload.TypeTransfer)
	assert.NoError(t, record.Set(FieldVendorField, "memo"))
	assert.NoError(t, record.Finalize(&payload.Transfer{Amount: 100, RecipientID: testRecipient}, nil))
	finalizedPayload := record.Payload()
	assert.NoError(t, record.Sign(&SignKeys{Secret: "test", SecondSecret: "secret second"}))
	assert.NoError(t, record.Identify())

	// public key keeps the payload
	assert.NoError(t, record.Set(FieldPublicKey, secondPublicKey))
	assert.Equal(t, StateFinalized, record.State())
	assert.False(t, record.SecondSigned())
	assert.Equal(t, finalizedPayload, record.Payload())
	assert.Equal(t, HeaderLength+4+payload.TransferSize, record.Size())

	assert.NoError(t, record.Sign(&SignKeys{Secret: "test"}))
	assert.NoError(t, record.Identify())

	// any other field resets to the header
	assert.NoError(t, record.Set(FieldTimestamp, 10))
	assert.Equal(t, StateBuilt, record.State())
	assert.Equal(t, HeaderLength+4, record.Size())
	assert.Nil(t, record.Payload())
	assert.Nil(t, record.Signatures())
	assert.False(t, record.SecondSigned())
	assert.Equal(t, "memo", record.VendorField())
	assert.ErrorIs(t, record.Sign(&SignKeys{Secret: "test"}), ErrNotFinalized)
}

func TestEndToEnd(t *testing.T) {
	record := newTestRecord(t, payload.TypeTransfer)
	assert.NoError(t, record.Finalize(&payload.Transfer{Amount: 100000000, RecipientID: testRecipient}, nil))
	assert.NoError(t, record.Sign(&SignKeys{Secret: "test"}))
	assert.NoError(t, record.Identify())

	id, err := record.Get(FieldID)
	assert.NoError(t, err)
	assert.Len(t, id.(fmt.Stringer).String(), 64)
	typ, err := record.Get(FieldType)
	assert.NoError(t, err)
	assert.Equal(t, uint8(0), typ)
	amount, err := record.Get(FieldAmount)
	assert.NoError(t, err)
	assert.Equal(t, uint64(100000000), amount)

	serialized := record.Serialize()
	assert.NotNil(t, serialized.Payload)
	assert.NotNil(t, serialized.Signatures)
	assert.NotNil(t, serialized.ID)
	assert.Equal(t, record.Signatures(), []byte(serialized.Signatures))
	assert.Equal(t, record.Size(), HeaderLength+len(serialized.Payload)+len(serialized.Signatures)+IDLength)
}

func TestSerialize(t *testing.T) {
	record := newTestRecord(t, payload.TypeTransfer)
	serialized := record.Serialize()
	assert.Nil(t, serialized.Payload)
	assert.Nil(t, serialized.Signatures)
	assert.Nil(t, serialized.ID)
	assert.Equal(t, devnet, serialized.Header.Network)

	assert.NoError(t, record.Set(FieldVendorField, "note"))
	assert.NoError(t, record.Finalize(&payload.Transfer{Amount: 1, RecipientID: testRecipient}, nil))
	before := record.Bytes()
	serialized = record.Serialize()
	assert.Equal(t, record.Payload(), []byte(serialized.Payload))
	assert.Equal(t, &payload.Transfer{Amount: 1, RecipientID: testRecipient}, serialized.Asset)
	assert.Nil(t, serialized.Signatures)
	assert.Equal(t, before, record.Bytes())

	assert.NoError(t, record.Sign(&SignKeys{Secret: "test"}))
	serialized = record.Serialize()
	assert.NotNil(t, serialized.Signatures)
	assert.Nil(t, serialized.ID)

	encoded, err := json.Marshal(serialized)
	assert.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(encoded), `{"header":{"head":255,"version":2,"network":30,"type":0,"timestamp":0,"publicKey":"`+testPublicKey+`","senderPublicKey":"`+testPublicKey+`","fees":`))
	assert.Contains(t, string(encoded), `"lenVF":4,"vendorField":"note"},"payload":"`)
	assert.NotContains(t, string(encoded), `"id"`)

	for _, field := range HeaderFields() {
		expected, err := record.Get(field)
		assert.NoError(t, err)
		value, exist := serialized.Header.Value(field)
		assert.True(t, exist)
		assert.Equal(t, expected, value, field)
	}
	_, exist := serialized.Header.Value("amount")
	assert.False(t, exist)
}

func TestMarshalText(t *testing.T) {
	record := newTestRecord(t, payload.TypeTransfer)
	text, err := record.MarshalText()
	assert.NoError(t, err)
	assert.Equal(t, record.String(), string(text))
	assert.Len(t, text, 2*HeaderLength)
}

type failingOracle struct {
	crypto.Oracle
}

func (failingOracle) Sign(privateKey, message []byte) ([]byte, error) {
	return nil, errors.New("sign failed")
}

func TestSignOracleFailure(t *testing.T) {
	header := DefaultHeader(devnet)
	record, err := NewWithOracle(failingOracle{}, header)
	assert.NoError(t, err)
	assert.NoError(t, record.Finalize(&payload.Transfer{Amount: 1, RecipientID: testRecipient}, nil))
	before := record.Bytes()
	assert.EqualError(t, record.Sign(&SignKeys{Secret: "test"}), "sign failed")
	assert.Equal(t, before, record.Bytes())
	assert.Equal(t, StateFinalized, record.State())
}
