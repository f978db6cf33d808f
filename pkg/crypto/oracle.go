package crypto

// Oracle bundles the primitives consumed by the payload encoder and transaction record.
type Oracle struct{}

func (Oracle) GetKeys(secret string) ([]byte, []byte, error) {
	return GetKeys(secret)
}

func (Oracle) GetPublicKey(privateKey []byte) ([]byte, error) {
	return GetPublicKey(privateKey)
}

func (Oracle) Sign(privateKey, message []byte) ([]byte, error) {
	return Sign(privateKey, message)
}

func (Oracle) VerifySignature(publicKey, signature, message []byte) error {
	return VerifySignature(publicKey, signature, message)
}

func (Oracle) Hash(message []byte) []byte {
	return Hash(message)
}

func (Oracle) DecodeAddress(address string) ([]byte, error) {
	return DecodeAddress(address)
}

func (Oracle) EncodeAddress(raw []byte) string {
	return EncodeAddress(raw)
}
