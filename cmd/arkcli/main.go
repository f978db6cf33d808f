// arkcli bakes Ark v2 transactions and broadcasts them to the network.
package main

import (
	"log"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/ArkHQ/ark-engine/pkg/client"
)

func main() {
	app := cli.App{
		Name:  "arkcli",
		Usage: "Ark v2 transaction builder",
		Flags: client.GlobalFlags(),
		Commands: []*cli.Command{
			client.GetPassphraseCommand(),
			client.GetAddressCommand(),
			client.GetTransactionCommand(),
			client.GetSecondPassphraseCommand(),
			client.GetDelegateCommand(),
			client.GetVoteCommand(),
			client.GetOutboxCommand(),
			client.GetServeCommand(),
		},
	}
	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
