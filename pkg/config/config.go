// Package config provides config structure for the ark client.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v2"

	"github.com/ArkHQ/ark-engine/pkg/collection/strings"
	"github.com/ArkHQ/ark-engine/pkg/slots"
)

var (
	logLevels         = []string{"trace", "debug", "info", "warn", "error", "fatal"}
	rpcModes          = []string{"http", "ws"}
	transports        = []string{"http", "ws"}
	defaultFeePerByte = uint64(10000)
	defaultRateLimit  = 10
	defaultTimeout    = 10
	slotInterval      = uint32(8)
)

// Network is the preset of an Ark network.
type Network struct {
	Name   string
	Marker uint8
	Epoch  time.Time
}

// Clock returns the epoch clock of the network.
func (n *Network) Clock() *slots.Clock {
	return slots.NewClock(n.Epoch, slotInterval)
}

var networks = map[string]*Network{
	"mainnet": {
		Name:   "mainnet",
		Marker: 0x17,
		Epoch:  slots.DefaultEpoch,
	},
	"devnet": {
		Name:   "devnet",
		Marker: 0x1e,
		Epoch:  slots.DefaultEpoch,
	},
}

// GetNetwork returns the preset with the name.
func GetNetwork(name string) (*Network, error) {
	network, exist := networks[name]
	if !exist {
		return nil, fmt.Errorf("network %s is not supported", name)
	}
	copied := *network
	return &copied, nil
}

type Config struct {
	Network     string             `json:"network" yaml:"network"`
	Peers       []string           `json:"peers" yaml:"peers"`
	System      *SystemConfig      `json:"system" yaml:"system"`
	Transaction *TransactionConfig `json:"transaction" yaml:"transaction"`
	Broadcast   *BroadcastConfig   `json:"broadcast" yaml:"broadcast"`
	RPC         *RPCConfig         `json:"rpc" yaml:"rpc"`
}

// Load reads the config file, yaml when the extension is .yaml or .yml, otherwise json.
func Load(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}
	config := &Config{}
	switch filepath.Ext(configPath) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", configPath, err)
		}
	default:
		if err := json.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", configPath, err)
		}
	}
	return config, nil
}

func (c *Config) InsertDefault() error {
	if c.Network == "" {
		c.Network = "devnet"
	}
	if c.Peers == nil {
		c.Peers = []string{}
	}
	if c.System == nil {
		c.System = &SystemConfig{}
	}
	if err := c.System.InsertDefault(); err != nil {
		return err
	}
	if c.Transaction == nil {
		c.Transaction = &TransactionConfig{}
	}
	c.Transaction.InsertDefault()
	if c.Broadcast == nil {
		c.Broadcast = &BroadcastConfig{}
	}
	c.Broadcast.InsertDefault()
	if c.RPC == nil {
		c.RPC = &RPCConfig{}
	}
	c.RPC.InsertDefault()
	return nil
}

// Merge overwrites the values set in config.
func (c *Config) Merge(config *Config) {
	if config == nil {
		return
	}
	if config.Network != "" {
		c.Network = config.Network
	}
	if len(config.Peers) > 0 {
		c.Peers = config.Peers
	}
	if config.System != nil {
		if c.System == nil {
			c.System = config.System
		} else {
			c.System.Merge(config.System)
		}
	}
	if config.Transaction != nil {
		if c.Transaction == nil {
			c.Transaction = config.Transaction
		} else {
			c.Transaction.Merge(config.Transaction)
		}
	}
	if config.Broadcast != nil {
		if c.Broadcast == nil {
			c.Broadcast = config.Broadcast
		} else {
			c.Broadcast.Merge(config.Broadcast)
		}
	}
	if config.RPC != nil {
		if c.RPC == nil {
			c.RPC = config.RPC
		} else {
			c.RPC.Merge(config.RPC)
		}
	}
}

func (c *Config) Validate() error {
	if _, err := GetNetwork(c.Network); err != nil {
		return err
	}
	if c.System == nil || c.Transaction == nil || c.Broadcast == nil || c.RPC == nil {
		return errors.New("config must be initialized with default values")
	}
	if err := c.System.Validate(); err != nil {
		return err
	}
	if err := c.Broadcast.Validate(); err != nil {
		return err
	}
	return c.RPC.Validate()
}

// GetNetwork returns the preset of the configured network.
func (c *Config) GetNetwork() (*Network, error) {
	return GetNetwork(c.Network)
}

type SystemConfig struct {
	DataPath string `json:"dataPath" yaml:"dataPath"`
	LogLevel string `json:"logLevel" yaml:"logLevel"`
}

func (c *SystemConfig) InsertDefault() error {
	if c.DataPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return err
		}
		c.DataPath = path.Join(home, ".ark", "client")
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	return nil
}

func (c *SystemConfig) Merge(config *SystemConfig) {
	if config.DataPath != "" {
		c.DataPath = config.DataPath
	}
	if config.LogLevel != "" {
		c.LogLevel = config.LogLevel
	}
}

func (c SystemConfig) Validate() error {
	if !strings.Contain(logLevels, c.LogLevel) {
		return fmt.Errorf("log level %s is not allowed", c.LogLevel)
	}
	if c.DataPath == "" {
		return errors.New("dataPath cannot be empty")
	}
	return nil
}

type TransactionConfig struct {
	FeePerByte   uint64 `json:"feePerByte,string" yaml:"feePerByte"`
	FeesIncluded bool   `json:"feesIncluded" yaml:"feesIncluded"`
}

func (c *TransactionConfig) InsertDefault() {
	if c.FeePerByte == 0 {
		c.FeePerByte = defaultFeePerByte
	}
}

func (c *TransactionConfig) Merge(config *TransactionConfig) {
	if config.FeePerByte != 0 {
		c.FeePerByte = config.FeePerByte
	}
	if config.FeesIncluded {
		c.FeesIncluded = true
	}
}

type BroadcastConfig struct {
	Transport string `json:"transport" yaml:"transport"`
	// RateLimit is the maximum number of peer requests per second.
	RateLimit int `json:"rateLimit" yaml:"rateLimit"`
	// Timeout of a peer request in seconds.
	Timeout int `json:"timeout" yaml:"timeout"`
}

func (c *BroadcastConfig) InsertDefault() {
	if c.Transport == "" {
		c.Transport = "http"
	}
	if c.RateLimit == 0 {
		c.RateLimit = defaultRateLimit
	}
	if c.Timeout == 0 {
		c.Timeout = defaultTimeout
	}
}

func (c *BroadcastConfig) Merge(config *BroadcastConfig) {
	if config.Transport != "" {
		c.Transport = config.Transport
	}
	if config.RateLimit != 0 {
		c.RateLimit = config.RateLimit
	}
	if config.Timeout != 0 {
		c.Timeout = config.Timeout
	}
}

func (c BroadcastConfig) Validate() error {
	if !strings.Contain(transports, c.Transport) {
		return fmt.Errorf("transport %s is not supported", c.Transport)
	}
	if c.RateLimit < 1 {
		return fmt.Errorf("rate limit must be positive but received %d", c.RateLimit)
	}
	if c.Timeout < 1 {
		return fmt.Errorf("timeout must be positive but received %d", c.Timeout)
	}
	return nil
}

// TimeoutDuration returns the peer request timeout.
func (c BroadcastConfig) TimeoutDuration() time.Duration {
	return time.Duration(c.Timeout) * time.Second
}

type RPCConfig struct {
	Modes []string `json:"modes" yaml:"modes"`
	Port  int      `json:"port" yaml:"port"`
	Host  string   `json:"host" yaml:"host"`
}

func (c *RPCConfig) InsertDefault() {
	if c.Modes == nil {
		c.Modes = []string{"http"}
	}
	if c.Port == 0 {
		c.Port = 7887
	}
	if c.Host == "" {
		c.Host = "127.0.0.1"
	}
}

func (c *RPCConfig) Merge(config *RPCConfig) {
	if len(config.Modes) > 0 {
		c.Modes = config.Modes
	}
	if config.Host != "" {
		c.Host = config.Host
	}
	if config.Port != 0 {
		c.Port = config.Port
	}
}

func (c *RPCConfig) Validate() error {
	if c.Port < 1024 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d for RPC is specified", c.Port)
	}
	for _, mode := range c.Modes {
		if !strings.Contain(rpcModes, mode) {
			return fmt.Errorf("rpc mode %s is not supported", mode)
		}
	}
	return nil
}
