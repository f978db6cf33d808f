package payload

import (
	"github.com/ArkHQ/ark-engine/pkg/codec"
)

const (
	TypeTransfer uint8 = iota
	TypeSecondSignature
	TypeDelegate
	TypeVote
)

const (
	MinUsernameLength = 3
	MaxUsernameLength = 255
	// TransferSize is amount, expiration and raw recipient address.
	TransferSize    = 8 + 4 + recipientLength
	PublicKeyLength = 33
	// RecipientOffset is the position of the recipient in a transfer payload.
	RecipientOffset = 8 + 4

	recipientLength = 21
)

// Params is the typed parameter set of one transaction type.
type Params interface {
	Type() uint8
}

// Transfer moves Amount to RecipientID.
type Transfer struct {
	Amount      uint64 `json:"amount,string"`
	Expiration  uint32 `json:"expiration"`
	RecipientID string `json:"recipientId"`
}

func (p *Transfer) Type() uint8 { return TypeTransfer }

// WithAmount returns a copy of the transfer with the amount replaced.
func (p *Transfer) WithAmount(amount uint64) *Transfer {
	copied := *p
	copied.Amount = amount
	return &copied
}

// SecondSignature registers a second public key, given directly or derived from SecondSecret.
type SecondSignature struct {
	SecondSecret    string    `json:"secondSecret,omitempty"`
	SecondPublicKey codec.Hex `json:"secondPublicKey,omitempty"`
}

func (p *SecondSignature) Type() uint8 { return TypeSecondSignature }

type Delegate struct {
	Username string `json:"username"`
}

func (p *Delegate) Type() uint8 { return TypeDelegate }

// Vote carries an already encoded delegate reference, "01" or "00" followed by the delegate public key hex.
type Vote struct {
	DelegatePublicKey string `json:"delegatePublicKey"`
}

func (p *Vote) Type() uint8 { return TypeVote }

// New returns empty params for the transaction type.
func New(typ uint8) (Params, error) {
	switch typ {
	case TypeTransfer:
		return &Transfer{}, nil
	case TypeSecondSignature:
		return &SecondSignature{}, nil
	case TypeDelegate:
		return &Delegate{}, nil
	case TypeVote:
		return &Vote{}, nil
	default:
		return nil, unknownType(typ)
	}
}
