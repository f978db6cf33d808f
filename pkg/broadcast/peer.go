package broadcast

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/multiformats/go-multiaddr"
)

const (
	TransportHTTP = "http"
	TransportWS   = "ws"

	defaultWSPath = "/rpc-ws"
)

var (
	ErrInvalidPeer       = errors.New("invalid peer address")
	ErrDelegateNotFound  = errors.New("delegate was not found")
	ErrUnsupportedMethod = errors.New("method is not supported by the peer")
)

// PeerResponse is the answer of a peer to posted transactions.
type PeerResponse struct {
	Success        bool     `json:"success"`
	Message        string   `json:"message,omitempty"`
	Error          string   `json:"error,omitempty"`
	TransactionIDs []string `json:"transactionIds,omitempty"`
}

// Delegate is the delegate account returned by the peer api.
type Delegate struct {
	Username  string `json:"username"`
	Address   string `json:"address"`
	PublicKey string `json:"publicKey"`
}

// Peer posts hex encoded transactions to a node.
type Peer interface {
	Address() string
	PostTransactions(ctx context.Context, transactions []string) (*PeerResponse, error)
	GetDelegate(ctx context.Context, username string) (*Delegate, error)
}

// ParsePeer returns the peer of the address.
// Address is either an URL with http, https, ws or wss scheme, or a multiaddr such as /ip4/127.0.0.1/tcp/4003
// in which case transport decides the protocol.
func ParsePeer(address, transport string, timeout time.Duration) (Peer, error) {
	if strings.HasPrefix(address, "/") {
		converted, err := multiaddrToURL(address, transport)
		if err != nil {
			return nil, err
		}
		address = converted
	}
	parsed, err := url.Parse(address)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidPeer, err)
	}
	if parsed.Host == "" {
		return nil, fmt.Errorf("%w: %s has no host", ErrInvalidPeer, address)
	}
	switch parsed.Scheme {
	case "http", "https":
		return NewHTTPPeer(strings.TrimRight(address, "/"), timeout), nil
	case "ws", "wss":
		if parsed.Path == "" {
			parsed.Path = defaultWSPath
		}
		return NewWSPeer(parsed.String(), timeout), nil
	default:
		return nil, fmt.Errorf("%w: scheme %s is not supported", ErrInvalidPeer, parsed.Scheme)
	}
}

// ParsePeers parses all the addresses.
func ParsePeers(addresses []string, transport string, timeout time.Duration) ([]Peer, error) {
	peers := make([]Peer, len(addresses))
	for i, address := range addresses {
		peer, err := ParsePeer(address, transport, timeout)
		if err != nil {
			return nil, err
		}
		peers[i] = peer
	}
	return peers, nil
}

func multiaddrToURL(address, transport string) (string, error) {
	addr, err := multiaddr.NewMultiaddr(address)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrInvalidPeer, err)
	}
	host := ""
	for _, code := range []int{multiaddr.P_IP4, multiaddr.P_IP6, multiaddr.P_DNS4, multiaddr.P_DNS6, multiaddr.P_DNS} {
		value, err := addr.ValueForProtocol(code)
		if err == nil {
			host = value
			if code == multiaddr.P_IP6 {
				host = "[" + value + "]"
			}
			break
		}
	}
	if host == "" {
		return "", fmt.Errorf("%w: %s has no host", ErrInvalidPeer, address)
	}
	port, err := addr.ValueForProtocol(multiaddr.P_TCP)
	if err != nil {
		return "", fmt.Errorf("%w: %s has no tcp port", ErrInvalidPeer, address)
	}
	scheme := "http"
	if transport == TransportWS {
		scheme = "ws"
	}
	return fmt.Sprintf("%s://%s:%s", scheme, host, port), nil
}
