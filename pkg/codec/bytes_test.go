package codec

import (
	"encoding/hex"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

type testHexStruct struct {
	Data Hex `json:"data"`
}

func mustDecodeHex(v string) []byte {
	decoded, err := hex.DecodeString(v)
	if err != nil {
		panic(err)
	}
	return decoded
}

func TestHexJSON(t *testing.T) {
	val := &testHexStruct{
		Data: mustDecodeHex("025f81956d5826bad7d30daed2b5c8c98e72046c1ec8323da336445476183fb7ca"),
	}
	encoded, err := json.Marshal(val)
	assert.NoError(t, err)
	assert.Equal(t, `{"data":"025f81956d5826bad7d30daed2b5c8c98e72046c1ec8323da336445476183fb7ca"}`, string(encoded))

	decoded := &testHexStruct{}
	assert.NoError(t, json.Unmarshal(encoded, decoded))
	assert.Equal(t, val.Data, decoded.Data)

	assert.Error(t, json.Unmarshal([]byte(`{"data":"zz"}`), decoded))
}

func TestHexText(t *testing.T) {
	val := Hex{0xff, 0x02, 0x17}
	text, err := val.MarshalText()
	assert.NoError(t, err)
	assert.Equal(t, "ff0217", string(text))
	assert.Equal(t, "ff0217", val.String())

	var decoded Hex
	assert.NoError(t, decoded.UnmarshalText(text))
	assert.Equal(t, val, decoded)
	assert.Error(t, decoded.UnmarshalText([]byte("f")))

	assert.Equal(t, 66, HexLen(33))
}
