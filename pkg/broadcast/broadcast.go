// Package broadcast submits transactions to Ark peers and aggregates their answers.
package broadcast

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"go.uber.org/ratelimit"
	"golang.org/x/sync/errgroup"

	"github.com/ArkHQ/ark-engine/pkg/log"
)

var ErrNoPeers = errors.New("no peer configured")

// Result aggregates the responses of all the peers.
type Result struct {
	Success      string   `json:"success"`
	Transactions []string `json:"transactions"`
	Messages     []string `json:"messages"`
	Accepted     int      `json:"accepted"`
	Peers        int      `json:"peers"`
}

// Ratio returns the fraction of peers which accepted the transactions.
func (r *Result) Ratio() float64 {
	if r.Peers == 0 {
		return 0
	}
	return float64(r.Accepted) / float64(r.Peers)
}

type Broadcaster struct {
	peers   []Peer
	limiter ratelimit.Limiter
	logger  log.Logger
}

// NewBroadcaster returns broadcaster sending at most rate requests per second.
func NewBroadcaster(logger log.Logger, peers []Peer, rate int) *Broadcaster {
	limiter := ratelimit.NewUnlimited()
	if rate > 0 {
		limiter = ratelimit.New(rate)
	}
	return &Broadcaster{
		peers:   peers,
		limiter: limiter,
		logger:  logger,
	}
}

func (b *Broadcaster) Peers() []Peer {
	return b.peers
}

// Broadcast posts the hex encoded transactions to every peer once.
// Peer failures are reported in the messages of the result, only a missing peer set returns an error.
func (b *Broadcaster) Broadcast(ctx context.Context, transactions ...string) (*Result, error) {
	if len(b.peers) == 0 {
		return nil, ErrNoPeers
	}
	mutex := new(sync.Mutex)
	accepted := 0
	messages := map[string]bool{}
	ids := map[string]bool{}

	group, gctx := errgroup.WithContext(ctx)
	for _, peer := range b.peers {
		peer := peer
		group.Go(func() error {
			b.limiter.Take()
			resp, err := peer.PostTransactions(gctx, transactions)
			mutex.Lock()
			defer mutex.Unlock()
			if err != nil {
				b.logger.Warningf("Failed to post transactions to %s with %v", peer.Address(), err)
				messages[fmt.Sprintf("%s: %s", peer.Address(), err)] = true
				return nil
			}
			b.logger.Debugf("Peer %s responded success %t", peer.Address(), resp.Success)
			if resp.Success {
				accepted++
			}
			if resp.Message != "" {
				messages[resp.Message] = true
			}
			if resp.Error != "" {
				messages[resp.Error] = true
			}
			for _, id := range resp.TransactionIDs {
				ids[id] = true
			}
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}
	result := &Result{
		Success:      fmt.Sprintf("%.1f%%", 100*float64(accepted)/float64(len(b.peers))),
		Transactions: sortedKeys(ids),
		Messages:     sortedKeys(messages),
		Accepted:     accepted,
		Peers:        len(b.peers),
	}
	b.logger.Infof("Broadcasted %d transactions to %d peers with success %s", len(transactions), len(b.peers), result.Success)
	return result, nil
}

// GetDelegate asks the peers in order until one knows the delegate.
func (b *Broadcaster) GetDelegate(ctx context.Context, username string) (*Delegate, error) {
	if len(b.peers) == 0 {
		return nil, ErrNoPeers
	}
	var lastErr error
	for _, peer := range b.peers {
		b.limiter.Take()
		delegate, err := peer.GetDelegate(ctx, username)
		if err == nil {
			return delegate, nil
		}
		b.logger.Debugf("Failed to get delegate %s from %s with %v", username, peer.Address(), err)
		lastErr = err
	}
	if errors.Is(lastErr, ErrDelegateNotFound) {
		return nil, lastErr
	}
	return nil, fmt.Errorf("%w: %s, last error %v", ErrDelegateNotFound, username, lastErr)
}

func sortedKeys(set map[string]bool) []string {
	keys := make([]string, 0, len(set))
	for key := range set {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
