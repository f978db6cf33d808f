// Package transaction implements the mutable binary record of Ark v2 transactions.
//
// A record is a single byte buffer laid out as
//
//	fixed header (50 bytes) | vendor field (lenVF) | payload | signatures | id (32 bytes)
//
// and goes through finalize, sign and identify, each step appending to the buffer.
// A record is not safe for concurrent use.
package transaction

import (
	"encoding/hex"
	"errors"
	"fmt"
	"math"
	"unicode/utf8"

	"github.com/ArkHQ/ark-engine/pkg/codec"
	"github.com/ArkHQ/ark-engine/pkg/collection/bytes"
	"github.com/ArkHQ/ark-engine/pkg/crypto"
	"github.com/ArkHQ/ark-engine/pkg/payload"
	"github.com/ArkHQ/ark-engine/pkg/slots"
)

var (
	ErrUnknownField       = errors.New("unknown field")
	ErrInvalidFieldValue  = errors.New("invalid field value")
	ErrVendorFieldTooLong = errors.New("vendor field too long")
	ErrNoSigningKey       = errors.New("no secret or private key given")
	ErrNotIdentified      = errors.New("transaction is not identified yet")
	ErrNotFinalized       = errors.New("transaction is not finalized")
	ErrFeeOverflow        = errors.New("fee overflow")
)

// Oracle is the set of cryptographic operations used by the record.
type Oracle interface {
	payload.Oracle
	Sign(privateKey, message []byte) ([]byte, error)
	VerifySignature(publicKey, signature, message []byte) error
	Hash(message []byte) []byte
	EncodeAddress(raw []byte) string
}

// Header holds the construction parameters of a record.
type Header struct {
	Head        uint8
	Version     uint8
	Network     uint8
	Type        uint8
	Timestamp   uint32
	PublicKey   codec.Hex
	VendorField string
}

// DefaultHeader returns a transfer header on the network with the current timestamp.
func DefaultHeader(network uint8) *Header {
	return &Header{
		Head:      DefaultHead,
		Version:   DefaultVersion,
		Network:   network,
		Type:      payload.TypeTransfer,
		Timestamp: slots.GetTime(),
	}
}

// InsertDefault fills head and version when they are not set.
func (h *Header) InsertDefault() {
	if h.Head == 0 {
		h.Head = DefaultHead
	}
	if h.Version == 0 {
		h.Version = DefaultVersion
	}
}

// Record is the binary transaction under construction.
type Record struct {
	data           []byte
	state          State
	secondSigned   bool
	payloadStart   int
	signatureStart int
	signatureEnd   int
	oracle         Oracle
}

// New returns a record with the header and an empty payload using the secp256k1 oracle.
func New(header *Header) (*Record, error) {
	return NewWithOracle(crypto.Oracle{}, header)
}

// NewWithOracle returns a record with the header using the oracle given.
func NewWithOracle(oracle Oracle, header *Header) (*Record, error) {
	if header == nil {
		return nil, errors.New("header cannot be nil")
	}
	header.InsertDefault()
	writer := codec.NewWriter()
	writer.WriteUInt8(header.Head)
	writer.WriteUInt8(header.Version)
	writer.WriteUInt8(header.Network)
	writer.WriteUInt8(header.Type)
	writer.WriteUInt32(header.Timestamp)
	r := &Record{
		data:   bytes.PadRight(writer.Result(), HeaderLength),
		state:  StateBuilt,
		oracle: oracle,
	}
	if err := r.Set(FieldVendorField, header.VendorField); err != nil {
		return nil, err
	}
	if err := r.Set(FieldPublicKey, header.PublicKey); err != nil {
		return nil, err
	}
	return r, nil
}

// Set writes the field. Writing any header field other than the public key resets the record to built.
func (r *Record) Set(field string, value interface{}) error {
	if field == FieldVendorField {
		return r.setVendorField(value)
	}
	spec, exist := fieldSpecs[field]
	if !exist {
		return fmt.Errorf("%w: %s", ErrUnknownField, field)
	}
	if field == FieldLenVF {
		return fmt.Errorf("%w: %s is derived from %s", ErrInvalidFieldValue, FieldLenVF, FieldVendorField)
	}
	encoded, err := encodeField(spec, value)
	if err != nil {
		return fmt.Errorf("%w: field %s", err, field)
	}
	r.writeField(spec, encoded)
	if !isPublicKeyField(field) {
		r.reset()
		return nil
	}
	if r.state.finalized() {
		r.data = r.data[:r.signatureStart]
		r.signatureEnd = r.signatureStart
		r.state = StateFinalized
		r.secondSigned = false
	}
	return nil
}

func (r *Record) writeField(spec FieldSpec, encoded []byte) {
	r.data = bytes.PadRight(r.data, spec.End())
	r.data, _ = bytes.Splice(r.data, spec.Offset, spec.End(), encoded)
}

func (r *Record) setVendorField(value interface{}) error {
	var memo []byte
	switch v := value.(type) {
	case string:
		memo = []byte(v)
	case []byte:
		memo = v
	case nil:
		memo = []byte{}
	default:
		return fmt.Errorf("%w: vendor field must be string but received %T", ErrInvalidFieldValue, value)
	}
	if !utf8.Valid(memo) {
		return fmt.Errorf("%w: vendor field must be utf-8", ErrInvalidFieldValue)
	}
	if len(memo) > MaxVendorFieldLength {
		return fmt.Errorf("%w: %d bytes exceeds %d", ErrVendorFieldTooLong, len(memo), MaxVendorFieldLength)
	}
	oldLength := int(r.LenVF())
	var delta int
	r.data, delta = bytes.Splice(r.data, HeaderLength, HeaderLength+oldLength, memo)
	r.data[fieldSpecs[FieldLenVF].Offset] = uint8(len(memo))
	if !r.state.finalized() {
		return nil
	}
	r.payloadStart += delta
	r.signatureStart += delta
	r.signatureEnd += delta
	// signatures and id cover the vendor field
	r.data = r.data[:r.signatureStart]
	r.signatureEnd = r.signatureStart
	r.state = StateFinalized
	r.secondSigned = false
	return nil
}

// reset drops everything after the vendor field.
func (r *Record) reset() {
	r.data = r.data[:r.headerEnd()]
	r.state = StateBuilt
	r.secondSigned = false
	r.payloadStart = 0
	r.signatureStart = 0
	r.signatureEnd = 0
}

func (r *Record) headerEnd() int {
	return HeaderLength + int(r.LenVF())
}

func encodeField(spec FieldSpec, value interface{}) ([]byte, error) {
	if spec.Kind == KindPublicKey {
		key, err := toPublicKey(value)
		if err != nil {
			return nil, err
		}
		if len(key) > spec.Width {
			return nil, fmt.Errorf("%w: public key of %d bytes", ErrInvalidFieldValue, len(key))
		}
		return bytes.PadRight(bytes.Copy(key), spec.Width), nil
	}
	num, err := toUint64(value)
	if err != nil {
		return nil, err
	}
	writer := codec.NewWriter()
	switch spec.Kind {
	case KindUint8:
		if num > math.MaxUint8 {
			return nil, fmt.Errorf("%w: %d does not fit in uint8", ErrInvalidFieldValue, num)
		}
		writer.WriteUInt8(uint8(num))
	case KindUint32:
		if num > math.MaxUint32 {
			return nil, fmt.Errorf("%w: %d does not fit in uint32", ErrInvalidFieldValue, num)
		}
		writer.WriteUInt32(uint32(num))
	case KindUint64:
		writer.WriteUInt64(num)
	default:
		return nil, fmt.Errorf("%w: unsupported kind %d", ErrInvalidFieldValue, spec.Kind)
	}
	return writer.Result(), nil
}

func toPublicKey(value interface{}) ([]byte, error) {
	switch v := value.(type) {
	case nil:
		return []byte{}, nil
	case []byte:
		return v, nil
	case codec.Hex:
		return v, nil
	case string:
		decoded, err := hex.DecodeString(v)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", ErrInvalidFieldValue, err)
		}
		return decoded, nil
	default:
		return nil, fmt.Errorf("%w: public key must be bytes or hex string but received %T", ErrInvalidFieldValue, value)
	}
}

func toUint64(value interface{}) (uint64, error) {
	var signed int64
	switch v := value.(type) {
	case uint8:
		return uint64(v), nil
	case uint16:
		return uint64(v), nil
	case uint32:
		return uint64(v), nil
	case uint64:
		return v, nil
	case uint:
		return uint64(v), nil
	case int8:
		signed = int64(v)
	case int16:
		signed = int64(v)
	case int32:
		signed = int64(v)
	case int64:
		signed = v
	case int:
		signed = int64(v)
	default:
		return 0, fmt.Errorf("%w: expected integer but received %T", ErrInvalidFieldValue, value)
	}
	if signed < 0 {
		return 0, fmt.Errorf("%w: negative value %d", ErrInvalidFieldValue, signed)
	}
	return uint64(signed), nil
}

// Get reads the field.
// recipientId is nil when the record is not a finalized transfer.
func (r *Record) Get(field string) (interface{}, error) {
	switch field {
	case FieldVendorField:
		return r.VendorField(), nil
	case FieldAmount:
		return r.Amount(), nil
	case FieldRecipientID:
		recipient := r.RecipientID()
		if recipient == "" {
			return nil, nil
		}
		return recipient, nil
	case FieldID:
		return r.ID()
	}
	spec, exist := fieldSpecs[field]
	if !exist {
		return nil, fmt.Errorf("%w: %s", ErrUnknownField, field)
	}
	raw := r.fieldBytes(spec)
	switch spec.Kind {
	case KindUint8:
		return raw[0], nil
	case KindUint32:
		return readUint32(raw), nil
	case KindUint64:
		return readUint64(raw), nil
	default:
		return codec.Hex(bytes.Copy(raw)), nil
	}
}

func readUint32(raw []byte) uint32 {
	val, err := codec.NewReader(raw).ReadUInt32()
	if err != nil {
		return 0
	}
	return val
}

func readUint64(raw []byte) uint64 {
	val, err := codec.NewReader(raw).ReadUInt64()
	if err != nil {
		return 0
	}
	return val
}

func (r *Record) fieldBytes(spec FieldSpec) []byte {
	if len(r.data) < spec.End() {
		return make([]byte, spec.Width)
	}
	return r.data[spec.Offset:spec.End()]
}

func (r *Record) Head() uint8 {
	return r.data[fieldSpecs[FieldHead].Offset]
}

func (r *Record) Version() uint8 {
	return r.data[fieldSpecs[FieldVersion].Offset]
}

func (r *Record) Network() uint8 {
	return r.data[fieldSpecs[FieldNetwork].Offset]
}

func (r *Record) Type() uint8 {
	return r.data[fieldSpecs[FieldType].Offset]
}

func (r *Record) Timestamp() uint32 {
	return readUint32(r.fieldBytes(fieldSpecs[FieldTimestamp]))
}

// PublicKey returns the sender public key.
func (r *Record) PublicKey() codec.Hex {
	return bytes.Copy(r.fieldBytes(fieldSpecs[FieldPublicKey]))
}

func (r *Record) Fees() uint64 {
	return readUint64(r.fieldBytes(fieldSpecs[FieldFees]))
}

func (r *Record) LenVF() uint8 {
	return r.data[fieldSpecs[FieldLenVF].Offset]
}

func (r *Record) VendorField() string {
	return string(r.data[HeaderLength:r.headerEnd()])
}

// Amount returns the transferred amount, 0 unless the record is a finalized transfer.
func (r *Record) Amount() uint64 {
	if r.Type() != payload.TypeTransfer || !r.state.finalized() {
		return 0
	}
	return readUint64(r.data[r.payloadStart : r.payloadStart+8])
}

// RecipientID returns the recipient address, empty unless the record is a finalized transfer.
func (r *Record) RecipientID() string {
	if r.Type() != payload.TypeTransfer || !r.state.finalized() {
		return ""
	}
	start := r.payloadStart + payload.RecipientOffset
	return r.oracle.EncodeAddress(r.data[start : r.payloadStart+payload.TransferSize])
}

// ID returns the transaction id.
func (r *Record) ID() (codec.Hex, error) {
	if r.state != StateIdentified {
		return nil, ErrNotIdentified
	}
	return bytes.Copy(r.data[r.signatureEnd:]), nil
}

// Payload returns the payload bytes, nil unless finalized.
func (r *Record) Payload() []byte {
	if !r.state.finalized() {
		return nil
	}
	return bytes.Copy(r.data[r.payloadStart:r.signatureStart])
}

// Signatures returns the signature bytes, nil unless signed.
func (r *Record) Signatures() []byte {
	if !r.state.signed() {
		return nil
	}
	return bytes.Copy(r.data[r.signatureStart:r.signatureEnd])
}

// State returns the lifecycle state.
func (r *Record) State() State {
	return r.state
}

// SecondSigned reports whether the record carries a second signature.
func (r *Record) SecondSigned() bool {
	return r.state.signed() && r.secondSigned
}

// Bytes returns a copy of the buffer.
func (r *Record) Bytes() []byte {
	return bytes.Copy(r.data)
}

// Size returns the length of the buffer.
func (r *Record) Size() int {
	return len(r.data)
}

// String returns hex encoded buffer, the transport form of the record.
func (r *Record) String() string {
	return hex.EncodeToString(r.data)
}

func (r *Record) MarshalText() ([]byte, error) {
	return codec.Hex(r.data).MarshalText()
}
