package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"errors"
	"fmt"

	"golang.org/x/crypto/argon2"

	"github.com/ArkHQ/ark-engine/pkg/codec"
	"github.com/ArkHQ/ark-engine/pkg/collection/bytes"
)

const (
	CipherAES256GCM = "aes-256-gcm"
	KDFArgon2ID     = "argon2id"

	keystoreVersion = "1"
	gcmTagLength    = 16
)

var ErrWrongPassword = errors.New("wrong password")

type KDFParams struct {
	Parallelism uint32    `json:"parallelism"`
	Iterations  uint32    `json:"iterations"`
	MemorySize  uint32    `json:"memorySize"`
	Salt        codec.Hex `json:"salt"`
}

func (e KDFParams) Validate() error {
	if len(e.Salt) == 0 {
		return errors.New("salt cannot be empty")
	}
	if e.Parallelism == 0 || e.Parallelism > 255 {
		return fmt.Errorf("parallelism must be between 1 and 255 but received %d", e.Parallelism)
	}
	return nil
}

type CipherParams struct {
	IV  codec.Hex `json:"iv"`
	Tag codec.Hex `json:"tag"`
}

func (e CipherParams) Validate() error {
	if len(e.IV) == 0 {
		return errors.New("iv cannot be empty")
	}
	if len(e.Tag) != gcmTagLength {
		return fmt.Errorf("tag must be %d bytes but received %d", gcmTagLength, len(e.Tag))
	}
	return nil
}

// EncryptedPassphrase is the keystore form of a wallet passphrase.
type EncryptedPassphrase struct {
	Version      string        `json:"version"`
	Address      string        `json:"address,omitempty"`
	CipherText   codec.Hex     `json:"cipherText"`
	Mac          codec.Hex     `json:"mac"`
	KDF          string        `json:"kdf"`
	KDFParams    *KDFParams    `json:"kdfparams"`
	Cipher       string        `json:"cipher"`
	CipherParams *CipherParams `json:"cipherparams"`
}

func (e EncryptedPassphrase) Validate() error {
	if e.Version != keystoreVersion {
		return fmt.Errorf("version must be `%s` but received %s", keystoreVersion, e.Version)
	}
	if e.KDF != KDFArgon2ID {
		return fmt.Errorf("only %s is supported for KDF", KDFArgon2ID)
	}
	if e.Cipher != CipherAES256GCM {
		return fmt.Errorf("only %s is supported for Cipher", CipherAES256GCM)
	}
	if e.KDFParams == nil {
		return errors.New("kdfparams cannot be empty")
	}
	if err := e.KDFParams.Validate(); err != nil {
		return err
	}
	if e.CipherParams == nil {
		return errors.New("cipherparams cannot be empty")
	}
	return e.CipherParams.Validate()
}

type EncryptOptions struct {
	Parallelism uint8
	Iterations  uint32
	MemorySize  uint32
}

func DefaultEncryptOptions() *EncryptOptions {
	return &EncryptOptions{
		Parallelism: 4,
		Iterations:  1,
		MemorySize:  2024,
	}
}

// EncryptPassphrase encrypts the passphrase with argon2id derived key and AES-256-GCM.
func EncryptPassphrase(passphrase, password string, options *EncryptOptions) (*EncryptedPassphrase, error) {
	if options == nil {
		options = DefaultEncryptOptions()
	}
	iv := make([]byte, 12)
	if _, err := rand.Read(iv); err != nil {
		return nil, err
	}
	salt := make([]byte, 16)
	if _, err := rand.Read(salt); err != nil {
		return nil, err
	}
	key := argon2.IDKey([]byte(password), salt, options.Iterations, options.MemorySize, options.Parallelism, 32)
	aesgcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}
	cipherTextWithTag := aesgcm.Seal(nil, iv, []byte(passphrase), nil)
	cipherText := cipherTextWithTag[:len(cipherTextWithTag)-gcmTagLength]
	tag := cipherTextWithTag[len(cipherTextWithTag)-gcmTagLength:]
	return &EncryptedPassphrase{
		Version:    keystoreVersion,
		CipherText: cipherText,
		Mac:        calculateMac(key, cipherText),
		KDF:        KDFArgon2ID,
		KDFParams: &KDFParams{
			Parallelism: uint32(options.Parallelism),
			Iterations:  options.Iterations,
			MemorySize:  options.MemorySize,
			Salt:        salt,
		},
		Cipher: CipherAES256GCM,
		CipherParams: &CipherParams{
			IV:  iv,
			Tag: tag,
		},
	}, nil
}

// DecryptPassphrase returns the passphrase. ErrWrongPassword is returned when the mac does not match.
func DecryptPassphrase(encrypted *EncryptedPassphrase, password string) (string, error) {
	if encrypted == nil {
		return "", errors.New("encrypted passphrase cannot be nil")
	}
	if err := encrypted.Validate(); err != nil {
		return "", err
	}
	params := encrypted.KDFParams
	key := argon2.IDKey([]byte(password), params.Salt, params.Iterations, params.MemorySize, uint8(params.Parallelism), 32)
	if subtle.ConstantTimeCompare(calculateMac(key, encrypted.CipherText), encrypted.Mac) != 1 {
		return "", ErrWrongPassword
	}
	aesgcm, err := newGCM(key)
	if err != nil {
		return "", err
	}
	ciphertext := bytes.Join(encrypted.CipherText, encrypted.CipherParams.Tag)
	res, err := aesgcm.Open(nil, encrypted.CipherParams.IV, ciphertext, nil)
	if err != nil {
		return "", err
	}
	return string(res), nil
}

func newGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}

func calculateMac(key, cipherText []byte) []byte {
	hasher := sha256.New()
	hasher.Write(key[16:32])
	hasher.Write(cipherText)
	return hasher.Sum(nil)
}
