// Package client provides the commands of the ark CLI.
package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/ArkHQ/ark-engine/pkg/broadcast"
	"github.com/ArkHQ/ark-engine/pkg/config"
	"github.com/ArkHQ/ark-engine/pkg/db"
	"github.com/ArkHQ/ark-engine/pkg/log"
	"github.com/ArkHQ/ark-engine/pkg/outbox"
	"github.com/ArkHQ/ark-engine/pkg/wallet"
)

const outboxDir = "outbox"

var ErrNoSecret = errors.New("secret must be specified")

// GlobalFlags are accepted by every command.
func GlobalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "Path to config file, yaml or json",
			EnvVars: []string{"ARK_CONFIG"},
		},
		&cli.StringFlag{
			Name:    "network",
			Aliases: []string{"n"},
			Usage:   "Network name, mainnet or devnet",
		},
		&cli.StringSliceFlag{
			Name:    "peer",
			Aliases: []string{"p"},
			Usage:   "Peer URL or multiaddr, can be repeated",
		},
		&cli.StringFlag{
			Name:    "data-path",
			Aliases: []string{"d"},
			Usage:   "Directory of the outbox",
		},
		&cli.StringFlag{
			Name:  "log-level",
			Usage: "Log level",
		},
		&cli.Uint64Flag{
			Name:  "fee-per-byte",
			Usage: "Fee per byte of the transaction",
		},
		&cli.BoolFlag{
			Name:  "fees-included",
			Usage: "Deduct the fee from the transferred amount",
		},
	}
}

func secretFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "secret",
			Aliases: []string{"s"},
			Usage:   "Passphrase of the sender",
			EnvVars: []string{"ARK_SECRET"},
		},
		&cli.StringFlag{
			Name:    "second-secret",
			Usage:   "Second passphrase of the sender",
			EnvVars: []string{"ARK_SECOND_SECRET"},
		},
	}
}

// LoadConfig reads the config file and applies the flags on top of it.
func LoadConfig(c *cli.Context) (*config.Config, error) {
	cfg := &config.Config{}
	if configPath := c.String("config"); configPath != "" {
		loaded, err := config.Load(configPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	flagConfig := &config.Config{
		Network: c.String("network"),
		Peers:   c.StringSlice("peer"),
		System: &config.SystemConfig{
			DataPath: c.String("data-path"),
			LogLevel: c.String("log-level"),
		},
		Transaction: &config.TransactionConfig{
			FeePerByte:   c.Uint64("fee-per-byte"),
			FeesIncluded: c.Bool("fees-included"),
		},
	}
	cfg.Merge(flagConfig)
	if err := cfg.InsertDefault(); err != nil {
		return nil, err
	}
	dataPath, err := resolvePath(cfg.System.DataPath)
	if err != nil {
		return nil, err
	}
	cfg.System.DataPath = dataPath
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func resolvePath(originalPath string) (string, error) {
	if strings.HasPrefix(originalPath, "~") {
		userDir, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		originalPath = strings.Replace(originalPath, "~", userDir, 1)
	}
	return filepath.Abs(originalPath)
}

// App holds the components built from the config.
type App struct {
	Config  *config.Config
	Logger  log.Logger
	Network *config.Network
	Wallet  *wallet.Wallet
	Outbox  *outbox.Outbox
	db      *db.DB
}

// NewApp builds the wallet. The outbox database is opened only when withOutbox is true.
func NewApp(cfg *config.Config, withOutbox bool) (*App, error) {
	logger, err := log.NewLogger(&log.Config{Level: cfg.System.LogLevel, Name: "ark"})
	if err != nil {
		return nil, err
	}
	network, err := cfg.GetNetwork()
	if err != nil {
		return nil, err
	}
	app := &App{
		Config:  cfg,
		Logger:  logger,
		Network: network,
	}
	opts := []wallet.Option{}
	if len(cfg.Peers) > 0 {
		peers, err := broadcast.ParsePeers(cfg.Peers, cfg.Broadcast.Transport, cfg.Broadcast.TimeoutDuration())
		if err != nil {
			return nil, err
		}
		opts = append(opts, wallet.WithBroadcaster(broadcast.NewBroadcaster(logger, peers, cfg.Broadcast.RateLimit)))
	}
	if withOutbox {
		database, err := db.NewDB(filepath.Join(cfg.System.DataPath, outboxDir))
		if err != nil {
			return nil, err
		}
		app.db = database
		app.Outbox = outbox.New(database)
		opts = append(opts, wallet.WithOutbox(app.Outbox))
	}
	app.Wallet = wallet.New(logger, network, cfg.Transaction, opts...)
	return app, nil
}

func (a *App) Close() error {
	if err := a.Logger.Sync(); err != nil {
		a.Logger.Debugf("Fail to sync logger with %s", err)
	}
	if a.db != nil {
		return a.db.Close()
	}
	return nil
}

func withApp(c *cli.Context, withOutbox bool, action func(app *App) error) error {
	cfg, err := LoadConfig(c)
	if err != nil {
		return err
	}
	app, err := NewApp(cfg, withOutbox)
	if err != nil {
		return err
	}
	defer app.Close()
	return action(app)
}

func requireSecret(c *cli.Context) (string, error) {
	secret := c.String("secret")
	if secret == "" {
		return "", ErrNoSecret
	}
	return secret, nil
}

func printJSON(c *cli.Context, data interface{}) error {
	encoded, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(c.App.Writer, string(encoded))
	return err
}
