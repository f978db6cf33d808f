package client

import (
	"github.com/urfave/cli/v2"
)

func GetOutboxCommand() *cli.Command {
	return &cli.Command{
		Name:  "outbox",
		Usage: "Inspect and retry sent transactions",
		Subcommands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List transactions, newest first",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum number of entries, all when not positive",
						Value: 20,
					},
				},
				Action: func(c *cli.Context) error {
					return withApp(c, true, func(app *App) error {
						limit := c.Int("limit")
						if limit <= 0 {
							limit = -1
						}
						entries, err := app.Outbox.List(limit)
						if err != nil {
							return err
						}
						return printJSON(c, entries)
					})
				},
			},
			{
				Name:  "flush",
				Usage: "Broadcast the transactions not accepted yet",
				Action: func(c *cli.Context) error {
					return withApp(c, true, func(app *App) error {
						entries, err := app.Wallet.Flush(c.Context)
						if err != nil {
							return err
						}
						app.Logger.Infof("Flushed %d transactions", len(entries))
						return printJSON(c, entries)
					})
				},
			},
		},
	}
}
