package crypto

import (
	"encoding/hex"
	"os"

	"gopkg.in/yaml.v2"
)

type keyFixture struct {
	Passphrase string `yaml:"passphrase"`
	PrivKey    string `yaml:"privkey"`
	PubKey     string `yaml:"pubkey"`
	Mainnet    string `yaml:"mainnet"`
	Devnet     string `yaml:"devnet"`
}

type verifyFixture struct {
	Input struct {
		PubKey    string `yaml:"pubkey"`
		Message   string `yaml:"message"`
		Signature string `yaml:"signature"`
	} `yaml:"input"`
	Output bool `yaml:"output"`
}

type fixtures struct {
	Keys   []keyFixture    `yaml:"keys"`
	Verify []verifyFixture `yaml:"verify"`
}

func strToHex(str string) []byte {
	if len(str) == 0 {
		return []byte{}
	}
	res, err := hex.DecodeString(str[2:])
	if err != nil {
		panic(err)
	}
	return res
}

func loadYaml(path string, fixture interface{}) {
	file, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}
	if err := yaml.Unmarshal(file, fixture); err != nil {
		panic(err)
	}
}

func loadFixtures() *fixtures {
	result := &fixtures{}
	loadYaml("testdata/keys.yaml", result)
	return result
}
