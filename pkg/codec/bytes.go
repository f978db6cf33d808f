package codec

import (
	"encoding/hex"
	"encoding/json"
)

// Hex is a byte slice which is represented as hexadecimal string in JSON and text.
type Hex []byte

// HexLen returns the length of the hexadecimal text form of size bytes.
func HexLen(size int) int {
	return hex.EncodedLen(size)
}

func (h *Hex) UnmarshalJSON(b []byte) error {
	str := ""
	if err := json.Unmarshal(b, &str); err != nil {
		return err
	}
	res, err := hex.DecodeString(str)
	if err != nil {
		return err
	}
	*h = res
	return nil
}

func (h Hex) String() string {
	return hex.EncodeToString(h)
}

func (h Hex) MarshalJSON() ([]byte, error) {
	str := hex.EncodeToString(h)
	return json.Marshal(str)
}

func (h Hex) MarshalText() ([]byte, error) {
	result := make([]byte, hex.EncodedLen(len(h)))
	hex.Encode(result, h)
	return result, nil
}

func (h *Hex) UnmarshalText(s []byte) error {
	res := make([]byte, hex.DecodedLen(len(s)))
	n, err := hex.Decode(res, s)
	if err != nil {
		return err
	}
	*h = res[:n]
	return nil
}
