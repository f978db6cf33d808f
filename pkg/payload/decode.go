package payload

import (
	"fmt"

	"github.com/ArkHQ/ark-engine/pkg/codec"
)

type AddressEncoder interface {
	EncodeAddress(raw []byte) string
}

// Decode parses the payload of the transaction type back into params.
// A second signature payload decodes to its public key only.
func Decode(encoder AddressEncoder, typ uint8, data []byte) (Params, error) {
	reader := codec.NewReader(data)
	var params Params
	var err error
	switch typ {
	case TypeTransfer:
		params, err = decodeTransfer(encoder, reader)
	case TypeSecondSignature:
		var publicKey []byte
		publicKey, err = reader.ReadFixedBytes(PublicKeyLength)
		params = &SecondSignature{SecondPublicKey: publicKey}
	case TypeDelegate:
		var username string
		username, err = reader.ReadShortString()
		params = &Delegate{Username: username}
	case TypeVote:
		var vote string
		vote, err = reader.ReadString(len(data))
		params = &Vote{DelegatePublicKey: vote}
	default:
		return nil, unknownType(typ)
	}
	if err != nil {
		return nil, err
	}
	if reader.HasUnreadBytes() {
		return nil, fmt.Errorf("%w: %d trailing bytes", codec.ErrOutOfRange, len(data)-reader.Index())
	}
	return params, nil
}

func decodeTransfer(encoder AddressEncoder, reader *codec.Reader) (*Transfer, error) {
	amount, err := reader.ReadUInt64()
	if err != nil {
		return nil, err
	}
	expiration, err := reader.ReadUInt32()
	if err != nil {
		return nil, err
	}
	recipient, err := reader.ReadFixedBytes(recipientLength)
	if err != nil {
		return nil, err
	}
	return &Transfer{
		Amount:      amount,
		Expiration:  expiration,
		RecipientID: encoder.EncodeAddress(recipient),
	}, nil
}
