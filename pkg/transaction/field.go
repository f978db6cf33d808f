package transaction

// Field names of the record.
const (
	FieldHead            = "head"
	FieldVersion         = "version"
	FieldNetwork         = "network"
	FieldType            = "type"
	FieldTimestamp       = "timestamp"
	FieldPublicKey       = "publicKey"
	FieldSenderPublicKey = "senderPublicKey"
	FieldFees            = "fees"
	FieldLenVF           = "lenVF"
	FieldVendorField     = "vendorField"
	FieldAmount          = "amount"
	FieldRecipientID     = "recipientId"
	FieldID              = "id"
)

const (
	// HeaderLength is the size of the fixed header, vendor field starts right after.
	HeaderLength         = 50
	MaxVendorFieldLength = 255
	PublicKeyLength      = 33
	IDLength             = 32

	DefaultHead       uint8 = 0xff
	DefaultVersion    uint8 = 0x02
	DefaultFeePerByte       = uint64(10000)
)

type Kind uint8

const (
	KindUint8 Kind = iota
	KindUint32
	KindUint64
	KindPublicKey
)

// FieldSpec locates a fixed header field in the buffer.
type FieldSpec struct {
	Offset int
	Width  int
	Kind   Kind
}

func (f FieldSpec) End() int {
	return f.Offset + f.Width
}

var fieldSpecs = map[string]FieldSpec{
	FieldHead:            {Offset: 0, Width: 1, Kind: KindUint8},
	FieldVersion:         {Offset: 1, Width: 1, Kind: KindUint8},
	FieldNetwork:         {Offset: 2, Width: 1, Kind: KindUint8},
	FieldType:            {Offset: 3, Width: 1, Kind: KindUint8},
	FieldTimestamp:       {Offset: 4, Width: 4, Kind: KindUint32},
	FieldPublicKey:       {Offset: 8, Width: PublicKeyLength, Kind: KindPublicKey},
	FieldSenderPublicKey: {Offset: 8, Width: PublicKeyLength, Kind: KindPublicKey},
	FieldFees:            {Offset: 41, Width: 8, Kind: KindUint64},
	FieldLenVF:           {Offset: 49, Width: 1, Kind: KindUint8},
}

// headerFields is the order of the header in serialized form.
var headerFields = []string{
	FieldHead,
	FieldVersion,
	FieldNetwork,
	FieldType,
	FieldTimestamp,
	FieldPublicKey,
	FieldSenderPublicKey,
	FieldFees,
	FieldLenVF,
	FieldVendorField,
}

// GetFieldSpec returns the spec of a fixed header field.
func GetFieldSpec(field string) (FieldSpec, bool) {
	spec, exist := fieldSpecs[field]
	return spec, exist
}

// HeaderFields returns the header field names in serialization order.
func HeaderFields() []string {
	fields := make([]string, len(headerFields))
	copy(fields, headerFields)
	return fields
}

func isPublicKeyField(field string) bool {
	return field == FieldPublicKey || field == FieldSenderPublicKey
}
