// Package payload encodes the type specific body of Ark v2 transactions.
package payload

import (
	"errors"
	"fmt"

	"github.com/ArkHQ/ark-engine/pkg/codec"
)

var (
	ErrInvalidAddress      = errors.New("invalid recipient address")
	ErrMissingKey          = errors.New("no second secret or second public key given")
	ErrInvalidUsername     = errors.New("invalid username")
	ErrMissingVote         = errors.New("no delegate vote given")
	ErrPayloadTypeMismatch = errors.New("params do not match transaction type")
	ErrUnknownType         = errors.New("unknown transaction type")
)

// Oracle is the part of the crypto oracle used for encoding.
type Oracle interface {
	GetKeys(secret string) ([]byte, []byte, error)
	DecodeAddress(address string) ([]byte, error)
}

// Encode returns the payload bytes of the transaction type.
// Encode has no side effect and the same input always results in the same bytes.
func Encode(oracle Oracle, typ uint8, params Params) ([]byte, error) {
	if typ > TypeVote {
		return nil, unknownType(typ)
	}
	if params == nil {
		return nil, fmt.Errorf("%w: nil params for type %d", ErrPayloadTypeMismatch, typ)
	}
	if params.Type() != typ {
		return nil, fmt.Errorf("%w: type %d params for type %d", ErrPayloadTypeMismatch, params.Type(), typ)
	}
	writer := codec.NewWriter()
	var err error
	switch p := params.(type) {
	case *Transfer:
		err = encodeTransfer(writer, oracle, p)
	case *SecondSignature:
		err = encodeSecondSignature(writer, oracle, p)
	case *Delegate:
		err = encodeDelegate(writer, p)
	case *Vote:
		err = encodeVote(writer, p)
	default:
		err = fmt.Errorf("%w: %T", ErrPayloadTypeMismatch, params)
	}
	if err != nil {
		return nil, err
	}
	return writer.Result(), nil
}

// Size returns the encoded length of the payload.
func Size(oracle Oracle, typ uint8, params Params) (int, error) {
	encoded, err := Encode(oracle, typ, params)
	if err != nil {
		return 0, err
	}
	return len(encoded), nil
}

func encodeTransfer(writer *codec.Writer, oracle Oracle, p *Transfer) error {
	if p.RecipientID == "" {
		return fmt.Errorf("%w: no recipientId defined", ErrInvalidAddress)
	}
	recipient, err := oracle.DecodeAddress(p.RecipientID)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidAddress, err)
	}
	if len(recipient) != recipientLength {
		return fmt.Errorf("%w: decoded length must be %d but received %d", ErrInvalidAddress, recipientLength, len(recipient))
	}
	writer.WriteUInt64(p.Amount)
	writer.WriteUInt32(p.Expiration)
	writer.WriteBytes(recipient)
	return nil
}

func encodeSecondSignature(writer *codec.Writer, oracle Oracle, p *SecondSignature) error {
	publicKey := p.SecondPublicKey
	if p.SecondSecret != "" {
		derived, _, err := oracle.GetKeys(p.SecondSecret)
		if err != nil {
			return fmt.Errorf("%w: %s", ErrMissingKey, err)
		}
		publicKey = derived
	}
	if len(publicKey) != PublicKeyLength {
		return fmt.Errorf("%w: public key must be %d bytes but received %d", ErrMissingKey, PublicKeyLength, len(publicKey))
	}
	writer.WriteBytes(publicKey)
	return nil
}

func encodeDelegate(writer *codec.Writer, p *Delegate) error {
	username := codec.NormalizeString(p.Username)
	if len(username) < MinUsernameLength || len(username) > MaxUsernameLength {
		return fmt.Errorf("%w: bad username length [%d-%d]: %q", ErrInvalidUsername, MinUsernameLength, MaxUsernameLength, p.Username)
	}
	if err := writer.WriteShortString(username); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidUsername, err)
	}
	return nil
}

func encodeVote(writer *codec.Writer, p *Vote) error {
	if p.DelegatePublicKey == "" {
		return ErrMissingVote
	}
	if err := writer.WriteString(p.DelegatePublicKey); err != nil {
		return fmt.Errorf("%w: %s", ErrMissingVote, err)
	}
	return nil
}

func unknownType(typ uint8) error {
	return fmt.Errorf("%w: %d", ErrUnknownType, typ)
}
