package client

import (
	"encoding/json"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/ArkHQ/ark-engine/pkg/codec"
	"github.com/ArkHQ/ark-engine/pkg/crypto"
)

type keys struct {
	Passphrase string    `json:"passphrase,omitempty"`
	Address    string    `json:"address"`
	PublicKey  codec.Hex `json:"publicKey"`
	PrivateKey codec.Hex `json:"privateKey,omitempty"`
}

func generateKeys(passphrase string, marker uint8, withPrivate bool) (*keys, error) {
	publicKey, privateKey, err := crypto.GetKeys(passphrase)
	if err != nil {
		return nil, err
	}
	result := &keys{
		Address:   crypto.GetAddress(publicKey, marker),
		PublicKey: publicKey,
	}
	if withPrivate {
		result.Passphrase = passphrase
		result.PrivateKey = privateKey
	}
	return result, nil
}

func GetPassphraseCommand() *cli.Command {
	return &cli.Command{
		Name:  "passphrase",
		Usage: "Create and protect passphrases",
		Subcommands: []*cli.Command{
			{
				Name:  "new",
				Usage: "Generate a new BIP39 passphrase with its keys",
				Action: func(c *cli.Context) error {
					cfg, err := LoadConfig(c)
					if err != nil {
						return err
					}
					network, err := cfg.GetNetwork()
					if err != nil {
						return err
					}
					passphrase, err := crypto.NewPassphrase()
					if err != nil {
						return err
					}
					result, err := generateKeys(passphrase, network.Marker, true)
					if err != nil {
						return err
					}
					return printJSON(c, result)
				},
			},
			{
				Name:  "encrypt",
				Usage: "Encrypt a passphrase with a password",
				Flags: append(secretFlags(),
					&cli.StringFlag{
						Name:     "password",
						Usage:    "Password used to derive the encryption key",
						EnvVars:  []string{"ARK_PASSWORD"},
						Required: true,
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Write the encrypted passphrase to the file",
					},
				),
				Action: func(c *cli.Context) error {
					secret, err := requireSecret(c)
					if err != nil {
						return err
					}
					cfg, err := LoadConfig(c)
					if err != nil {
						return err
					}
					network, err := cfg.GetNetwork()
					if err != nil {
						return err
					}
					encrypted, err := crypto.EncryptPassphrase(secret, c.String("password"), crypto.DefaultEncryptOptions())
					if err != nil {
						return err
					}
					publicKey, _, err := crypto.GetKeys(secret)
					if err != nil {
						return err
					}
					encrypted.Address = crypto.GetAddress(publicKey, network.Marker)
					output := c.String("output")
					if output == "" {
						return printJSON(c, encrypted)
					}
					encoded, err := json.MarshalIndent(encrypted, "", "  ")
					if err != nil {
						return err
					}
					return os.WriteFile(output, encoded, 0600)
				},
			},
			{
				Name:  "decrypt",
				Usage: "Decrypt an encrypted passphrase file",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "input",
						Aliases:  []string{"i"},
						Usage:    "Encrypted passphrase file",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "password",
						Usage:    "Password used to encrypt the passphrase",
						EnvVars:  []string{"ARK_PASSWORD"},
						Required: true,
					},
				},
				Action: func(c *cli.Context) error {
					data, err := os.ReadFile(c.String("input"))
					if err != nil {
						return err
					}
					encrypted := &crypto.EncryptedPassphrase{}
					if err := json.Unmarshal(data, encrypted); err != nil {
						return err
					}
					passphrase, err := crypto.DecryptPassphrase(encrypted, c.String("password"))
					if err != nil {
						return err
					}
					return printJSON(c, map[string]string{"passphrase": passphrase})
				},
			},
		},
	}
}

func GetAddressCommand() *cli.Command {
	return &cli.Command{
		Name:  "address",
		Usage: "Print the address and public key of a passphrase",
		Flags: secretFlags(),
		Action: func(c *cli.Context) error {
			secret, err := requireSecret(c)
			if err != nil {
				return err
			}
			cfg, err := LoadConfig(c)
			if err != nil {
				return err
			}
			network, err := cfg.GetNetwork()
			if err != nil {
				return err
			}
			result, err := generateKeys(secret, network.Marker, false)
			if err != nil {
				return err
			}
			return printJSON(c, result)
		},
	}
}
