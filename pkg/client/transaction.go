package client

import (
	"errors"
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/ArkHQ/ark-engine/pkg/codec"
	"github.com/ArkHQ/ark-engine/pkg/payload"
	"github.com/ArkHQ/ark-engine/pkg/transaction"
	"github.com/ArkHQ/ark-engine/pkg/wallet"
)

var typeNames = map[string]uint8{
	"transfer":        payload.TypeTransfer,
	"secondSignature": payload.TypeSecondSignature,
	"delegate":        payload.TypeDelegate,
	"vote":            payload.TypeVote,
}

func transactionFlags() []cli.Flag {
	return append(secretFlags(),
		&cli.StringFlag{
			Name:    "type",
			Aliases: []string{"t"},
			Usage:   "Transaction type, transfer, secondSignature, delegate or vote",
			Value:   "transfer",
		},
		&cli.Uint64Flag{
			Name:  "amount",
			Usage: "Amount to transfer",
		},
		&cli.StringFlag{
			Name:  "recipient",
			Usage: "Address of the recipient",
		},
		&cli.UintFlag{
			Name:  "expiration",
			Usage: "Expiration of the transfer",
		},
		&cli.StringFlag{
			Name:  "vendor-field",
			Usage: "Memo of the transaction",
		},
		&cli.StringFlag{
			Name:  "username",
			Usage: "Username of the delegate",
		},
		&cli.StringFlag{
			Name:  "vote",
			Usage: "Vote reference, 01 or 00 followed by the delegate public key",
		},
		&cli.StringFlag{
			Name:  "second-public-key",
			Usage: "Second public key to register",
		},
		&cli.UintFlag{
			Name:  "timestamp",
			Usage: "Timestamp in seconds since the network epoch, current time when not set",
		},
	)
}

func bakeParamsFromFlags(c *cli.Context) (*wallet.BakeParams, error) {
	typ, exist := typeNames[c.String("type")]
	if !exist {
		return nil, fmt.Errorf("%w: %s", payload.ErrUnknownType, c.String("type"))
	}
	params := &wallet.BakeParams{
		Type:        typ,
		VendorField: c.String("vendor-field"),
		Keys: &transaction.SignKeys{
			Secret:       c.String("secret"),
			SecondSecret: c.String("second-secret"),
		},
	}
	if c.IsSet("timestamp") {
		timestamp := uint32(c.Uint("timestamp"))
		params.Timestamp = &timestamp
	}
	if c.IsSet("fees-included") {
		feesIncluded := c.Bool("fees-included")
		params.FeesIncluded = &feesIncluded
	}
	switch typ {
	case payload.TypeTransfer:
		params.Payload = &payload.Transfer{
			Amount:      c.Uint64("amount"),
			Expiration:  uint32(c.Uint("expiration")),
			RecipientID: c.String("recipient"),
		}
	case payload.TypeSecondSignature:
		secondPublicKey := codec.Hex{}
		if err := secondPublicKey.UnmarshalText([]byte(c.String("second-public-key"))); err != nil {
			return nil, err
		}
		params.Payload = &payload.SecondSignature{
			SecondSecret:    c.String("second-secret"),
			SecondPublicKey: secondPublicKey,
		}
		// the second secret is registered, not used for signing
		params.Keys.SecondSecret = ""
	case payload.TypeDelegate:
		params.Payload = &payload.Delegate{Username: c.String("username")}
	case payload.TypeVote:
		params.Payload = &payload.Vote{DelegatePublicKey: c.String("vote")}
	}
	return params, nil
}

func GetTransactionCommand() *cli.Command {
	return &cli.Command{
		Name:    "transaction",
		Aliases: []string{"tx"},
		Usage:   "Build and send transactions",
		Subcommands: []*cli.Command{
			{
				Name:  "build",
				Usage: "Bake a transaction and print it without sending",
				Flags: transactionFlags(),
				Action: func(c *cli.Context) error {
					if _, err := requireSecret(c); err != nil {
						return err
					}
					params, err := bakeParamsFromFlags(c)
					if err != nil {
						return err
					}
					return withApp(c, false, func(app *App) error {
						record, err := app.Wallet.Bake(params)
						if err != nil {
							return err
						}
						return printJSON(c, &struct {
							*transaction.Serialized
							Transaction string `json:"transaction"`
						}{
							Serialized:  record.Serialize(),
							Transaction: record.String(),
						})
					})
				},
			},
			{
				Name:  "send",
				Usage: "Bake a transaction and broadcast it to the peers",
				Flags: transactionFlags(),
				Action: func(c *cli.Context) error {
					if _, err := requireSecret(c); err != nil {
						return err
					}
					params, err := bakeParamsFromFlags(c)
					if err != nil {
						return err
					}
					return withApp(c, true, func(app *App) error {
						record, err := app.Wallet.Bake(params)
						if err != nil {
							return err
						}
						result, err := app.Wallet.Send(c.Context, record)
						if err != nil {
							return err
						}
						return printJSON(c, result)
					})
				},
			},
		},
	}
}

func GetSecondPassphraseCommand() *cli.Command {
	return &cli.Command{
		Name:  "second",
		Usage: "Manage the second passphrase",
		Subcommands: []*cli.Command{
			{
				Name:  "register",
				Usage: "Register the public key of the second passphrase",
				Flags: secretFlags(),
				Action: func(c *cli.Context) error {
					secret, err := requireSecret(c)
					if err != nil {
						return err
					}
					secondSecret := c.String("second-secret")
					if secondSecret == "" {
						return errors.New("second secret must be specified")
					}
					return withApp(c, true, func(app *App) error {
						result, err := app.Wallet.RegisterSecondPassphrase(c.Context, secret, secondSecret)
						if err != nil {
							return err
						}
						return printJSON(c, result)
					})
				},
			},
		},
	}
}

func GetDelegateCommand() *cli.Command {
	return &cli.Command{
		Name:  "delegate",
		Usage: "Manage delegate registration",
		Subcommands: []*cli.Command{
			{
				Name:      "register",
				Usage:     "Register the account as delegate",
				ArgsUsage: "<username>",
				Flags:     secretFlags(),
				Action: func(c *cli.Context) error {
					secret, err := requireSecret(c)
					if err != nil {
						return err
					}
					if c.NArg() != 1 {
						return errors.New("username must be specified")
					}
					return withApp(c, true, func(app *App) error {
						result, err := app.Wallet.RegisterDelegate(c.Context, c.Args().First(), secret, c.String("second-secret"))
						if err != nil {
							return err
						}
						return printJSON(c, result)
					})
				},
			},
		},
	}
}

func voteAction(up bool) cli.ActionFunc {
	return func(c *cli.Context) error {
		secret, err := requireSecret(c)
		if err != nil {
			return err
		}
		if c.NArg() != 1 {
			return errors.New("delegate username must be specified")
		}
		return withApp(c, true, func(app *App) error {
			vote := app.Wallet.DownVote
			if up {
				vote = app.Wallet.UpVote
			}
			result, err := vote(c.Context, c.Args().First(), secret, c.String("second-secret"))
			if err != nil {
				return err
			}
			return printJSON(c, result)
		})
	}
}

func GetVoteCommand() *cli.Command {
	return &cli.Command{
		Name:  "vote",
		Usage: "Vote for delegates",
		Subcommands: []*cli.Command{
			{
				Name:      "up",
				Usage:     "Vote for the delegate",
				ArgsUsage: "<username>",
				Flags:     secretFlags(),
				Action:    voteAction(true),
			},
			{
				Name:      "down",
				Usage:     "Remove the vote for the delegate",
				ArgsUsage: "<username>",
				Flags:     secretFlags(),
				Action:    voteAction(false),
			},
		},
	}
}
