package transaction

import (
	"fmt"

	"github.com/ArkHQ/ark-engine/pkg/codec"
	"github.com/ArkHQ/ark-engine/pkg/collection/bytes"
	"github.com/ArkHQ/ark-engine/pkg/math"
	"github.com/ArkHQ/ark-engine/pkg/payload"
)

type FinalizeOptions struct {
	FeePerByte uint64
	// FeesIncluded deducts the fee from the transfer amount.
	FeesIncluded bool
}

func (o *FinalizeOptions) InsertDefault() {
	if o.FeePerByte == 0 {
		o.FeePerByte = DefaultFeePerByte
	}
}

// SignKeys holds the key material for sign. Private keys take precedence over secrets.
type SignKeys struct {
	Secret           string    `json:"secret,omitempty"`
	PrivateKey       codec.Hex `json:"privateKey,omitempty"`
	SecondSecret     string    `json:"secondSecret,omitempty"`
	SecondPrivateKey codec.Hex `json:"secondPrivateKey,omitempty"`
}

func (k *SignKeys) hasSecond() bool {
	return k.SecondSecret != "" || len(k.SecondPrivateKey) != 0
}

// CalculateFee returns the fee of a record of typ with header and payload of the given byte lengths.
// The length is measured on the hex form and halved, which is the byte length.
func CalculateFee(typ uint8, headerLength, payloadLength int, feePerByte uint64) (uint64, error) {
	units := (codec.HexLen(headerLength) + codec.HexLen(payloadLength)) / 2
	fee, err := math.LinearFee(uint64(typ), uint64(units), feePerByte)
	if err != nil {
		return 0, fmt.Errorf("%w: %s", ErrFeeOverflow, err)
	}
	return fee, nil
}

// Finalize encodes the payload, computes the fee and appends the payload.
// The record is left unchanged when it returns an error.
func (r *Record) Finalize(params payload.Params, opts *FinalizeOptions) error {
	if opts == nil {
		opts = &FinalizeOptions{}
	}
	opts.InsertDefault()
	typ := r.Type()
	encoded, err := payload.Encode(r.oracle, typ, params)
	if err != nil {
		return err
	}
	fee, err := CalculateFee(typ, r.headerEnd(), len(encoded), opts.FeePerByte)
	if err != nil {
		return err
	}
	if transfer, ok := params.(*payload.Transfer); ok && opts.FeesIncluded {
		// fee is kept from the original payload length
		if reduced, ok := math.SafeSub(transfer.Amount, fee); ok {
			encoded, err = payload.Encode(r.oracle, typ, transfer.WithAmount(reduced))
			if err != nil {
				return err
			}
		}
	}
	feeBytes, err := encodeField(fieldSpecs[FieldFees], fee)
	if err != nil {
		return err
	}
	r.reset()
	r.writeField(fieldSpecs[FieldFees], feeBytes)
	r.payloadStart = len(r.data)
	r.data = append(r.data, encoded...)
	r.signatureStart = len(r.data)
	r.signatureEnd = r.signatureStart
	r.state = StateFinalized
	return nil
}

// Sign appends the signature of the buffer and the second signature if second key material is given.
// Previous signatures and id are dropped. When signed from the secret, the public key is written.
func (r *Record) Sign(keys *SignKeys) error {
	if !r.state.canSign() {
		return fmt.Errorf("%w: cannot sign %s transaction", ErrNotFinalized, r.state)
	}
	if keys == nil || (keys.Secret == "" && len(keys.PrivateKey) == 0) {
		return ErrNoSigningKey
	}
	var publicKey []byte
	privateKey := []byte(keys.PrivateKey)
	if len(privateKey) == 0 {
		pub, priv, err := r.oracle.GetKeys(keys.Secret)
		if err != nil {
			return err
		}
		publicKey, privateKey = pub, priv
	}
	var secondPrivateKey []byte
	if keys.hasSecond() {
		secondPrivateKey = keys.SecondPrivateKey
		if len(secondPrivateKey) == 0 {
			_, priv, err := r.oracle.GetKeys(keys.SecondSecret)
			if err != nil {
				return err
			}
			secondPrivateKey = priv
		}
	}

	signing := bytes.Copy(r.data[:r.signatureStart])
	if publicKey != nil {
		encoded, err := encodeField(fieldSpecs[FieldPublicKey], publicKey)
		if err != nil {
			return err
		}
		signing, _ = bytes.Splice(signing, fieldSpecs[FieldPublicKey].Offset, fieldSpecs[FieldPublicKey].End(), encoded)
	}
	signature, err := r.oracle.Sign(privateKey, signing)
	if err != nil {
		return err
	}
	signing = append(signing, signature...)
	if secondPrivateKey != nil {
		secondSignature, err := r.oracle.Sign(secondPrivateKey, signing)
		if err != nil {
			return err
		}
		signing = append(signing, secondSignature...)
	}

	r.data = signing
	r.signatureEnd = len(r.data)
	r.secondSigned = secondPrivateKey != nil
	r.state = StateSigned
	if r.secondSigned {
		r.state = StateSecondSigned
	}
	return nil
}

// Identify appends the id, sha256 of the signed buffer. It does nothing once identified.
func (r *Record) Identify() error {
	if !r.state.canIdentify() {
		return fmt.Errorf("%w: cannot identify %s transaction", ErrNotFinalized, r.state)
	}
	if r.state == StateIdentified {
		return nil
	}
	r.data = append(r.data, r.oracle.Hash(r.data)...)
	r.state = StateIdentified
	return nil
}

// Verify checks the first signature against the sender public key.
func (r *Record) Verify() error {
	first, _, err := r.splitSignatures()
	if err != nil {
		return err
	}
	return r.oracle.VerifySignature(r.PublicKey(), first, r.data[:r.signatureStart])
}

// VerifySecondSignature checks the second signature against the public key given.
func (r *Record) VerifySecondSignature(secondPublicKey []byte) error {
	if !r.SecondSigned() {
		return fmt.Errorf("%w: transaction has no second signature", ErrNotFinalized)
	}
	first, second, err := r.splitSignatures()
	if err != nil {
		return err
	}
	return r.oracle.VerifySignature(secondPublicKey, second, r.data[:r.signatureStart+len(first)])
}

// splitSignatures uses the DER length prefix to separate the signatures.
func (r *Record) splitSignatures() ([]byte, []byte, error) {
	if !r.state.signed() {
		return nil, nil, fmt.Errorf("%w: cannot verify %s transaction", ErrNotFinalized, r.state)
	}
	signatures := r.data[r.signatureStart:r.signatureEnd]
	if len(signatures) < 2 {
		return nil, nil, fmt.Errorf("%w: signature region of %d bytes", ErrInvalidFieldValue, len(signatures))
	}
	firstLength := int(signatures[1]) + 2
	if firstLength > len(signatures) {
		return nil, nil, fmt.Errorf("%w: signature length %d exceeds region", ErrInvalidFieldValue, firstLength)
	}
	return signatures[:firstLength], signatures[firstLength:], nil
}
