package transaction

import (
	"github.com/ArkHQ/ark-engine/pkg/codec"
	"github.com/ArkHQ/ark-engine/pkg/payload"
)

// SerializedHeader is the header in serialization order.
type SerializedHeader struct {
	Head            uint8     `json:"head"`
	Version         uint8     `json:"version"`
	Network         uint8     `json:"network"`
	Type            uint8     `json:"type"`
	Timestamp       uint32    `json:"timestamp"`
	PublicKey       codec.Hex `json:"publicKey"`
	SenderPublicKey codec.Hex `json:"senderPublicKey"`
	Fees            uint64    `json:"fees"`
	LenVF           uint8     `json:"lenVF"`
	VendorField     string    `json:"vendorField"`
}

// Serialized is the structured view of a record.
// Payload, Signatures and ID are nil until the record reaches the corresponding state.
type Serialized struct {
	Header     *SerializedHeader `json:"header"`
	Payload    codec.Hex         `json:"payload,omitempty"`
	Signatures codec.Hex         `json:"signatures,omitempty"`
	ID         codec.Hex         `json:"id,omitempty"`
	// Asset is the decoded payload.
	Asset payload.Params `json:"asset,omitempty"`
}

// Serialize returns the structured view of the record. It never mutates the record.
func (r *Record) Serialize() *Serialized {
	publicKey := r.PublicKey()
	serialized := &Serialized{
		Header: &SerializedHeader{
			Head:            r.Head(),
			Version:         r.Version(),
			Network:         r.Network(),
			Type:            r.Type(),
			Timestamp:       r.Timestamp(),
			PublicKey:       publicKey,
			SenderPublicKey: publicKey,
			Fees:            r.Fees(),
			LenVF:           r.LenVF(),
			VendorField:     r.VendorField(),
		},
		Payload:    r.Payload(),
		Signatures: r.Signatures(),
	}
	if id, err := r.ID(); err == nil {
		serialized.ID = id
	}
	if serialized.Payload != nil {
		if asset, err := payload.Decode(r.oracle, r.Type(), serialized.Payload); err == nil {
			serialized.Asset = asset
		}
	}
	return serialized
}

// Value returns the header field by name in the serialized form.
func (h *SerializedHeader) Value(field string) (interface{}, bool) {
	switch field {
	case FieldHead:
		return h.Head, true
	case FieldVersion:
		return h.Version, true
	case FieldNetwork:
		return h.Network, true
	case FieldType:
		return h.Type, true
	case FieldTimestamp:
		return h.Timestamp, true
	case FieldPublicKey:
		return h.PublicKey, true
	case FieldSenderPublicKey:
		return h.SenderPublicKey, true
	case FieldFees:
		return h.Fees, true
	case FieldLenVF:
		return h.LenVF, true
	case FieldVendorField:
		return h.VendorField, true
	default:
		return nil, false
	}
}
