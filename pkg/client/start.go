package client

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"

	"github.com/ArkHQ/ark-engine/pkg/config"
	"github.com/ArkHQ/ark-engine/pkg/rpc"
	"github.com/ArkHQ/ark-engine/pkg/wallet"
)

func GetServeCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Serve the wallet over JSON RPC",
		Flags: []cli.Flag{
			&cli.StringSliceFlag{
				Name:  "rpc",
				Usage: "RPC modes, http and ws",
			},
			&cli.IntFlag{
				Name:  "rpc-port",
				Usage: "RPC port",
			},
			&cli.StringFlag{
				Name:  "rpc-host",
				Usage: "RPC host",
			},
		},
		Action: func(c *cli.Context) error {
			cfg, err := LoadConfig(c)
			if err != nil {
				return err
			}
			cfg.RPC.Merge(&config.RPCConfig{
				Modes: c.StringSlice("rpc"),
				Port:  c.Int("rpc-port"),
				Host:  c.String("rpc-host"),
			})
			if err := cfg.RPC.Validate(); err != nil {
				return err
			}
			app, err := NewApp(cfg, true)
			if err != nil {
				return err
			}
			defer app.Close()

			endpoint := wallet.NewEndpoint(app.Wallet)
			server := rpc.NewRPCServer(app.Logger, cfg.RPC, endpoint)
			endpoint.SetPublisher(server)

			serverChan := make(chan error, 1)
			signalChan := make(chan os.Signal, 1)
			signal.Notify(signalChan, os.Interrupt, syscall.SIGTERM)
			go func() {
				serverChan <- server.ListenAndServe()
			}()
			select {
			case <-signalChan:
				app.Logger.Info("Closing RPC server with SIGTERM")
				return server.Close()
			case err := <-serverChan:
				return err
			}
		},
	}
}
