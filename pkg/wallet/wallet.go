// Package wallet bakes Ark v2 transactions and sends them to the network.
package wallet

import (
	"context"
	"errors"
	"fmt"

	"github.com/ArkHQ/ark-engine/pkg/broadcast"
	"github.com/ArkHQ/ark-engine/pkg/codec"
	"github.com/ArkHQ/ark-engine/pkg/config"
	"github.com/ArkHQ/ark-engine/pkg/crypto"
	"github.com/ArkHQ/ark-engine/pkg/log"
	"github.com/ArkHQ/ark-engine/pkg/outbox"
	"github.com/ArkHQ/ark-engine/pkg/payload"
	"github.com/ArkHQ/ark-engine/pkg/slots"
	"github.com/ArkHQ/ark-engine/pkg/transaction"
)

const (
	upVotePrefix   = "01"
	downVotePrefix = "00"
)

var (
	ErrNoBroadcaster = errors.New("no broadcaster configured")
	ErrNoOutbox      = errors.New("no outbox configured")
)

type Broadcaster interface {
	Broadcast(ctx context.Context, transactions ...string) (*broadcast.Result, error)
	GetDelegate(ctx context.Context, username string) (*broadcast.Delegate, error)
}

type Wallet struct {
	network     *config.Network
	clock       *slots.Clock
	txConfig    *config.TransactionConfig
	oracle      transaction.Oracle
	broadcaster Broadcaster
	outbox      *outbox.Outbox
	logger      log.Logger
}

type Option func(w *Wallet)

// WithBroadcaster sets the broadcaster used by the send operations.
func WithBroadcaster(broadcaster Broadcaster) Option {
	return func(w *Wallet) {
		w.broadcaster = broadcaster
	}
}

// WithOutbox records every sent transaction in the outbox.
func WithOutbox(box *outbox.Outbox) Option {
	return func(w *Wallet) {
		w.outbox = box
	}
}

func WithClock(clock *slots.Clock) Option {
	return func(w *Wallet) {
		w.clock = clock
	}
}

func New(logger log.Logger, network *config.Network, txConfig *config.TransactionConfig, opts ...Option) *Wallet {
	if txConfig == nil {
		txConfig = &config.TransactionConfig{}
		txConfig.InsertDefault()
	}
	w := &Wallet{
		network:  network,
		clock:    network.Clock(),
		txConfig: txConfig,
		oracle:   crypto.Oracle{},
		logger:   logger,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// BakeParams holds everything needed to build a transaction.
type BakeParams struct {
	Type        uint8
	Timestamp   *uint32
	VendorField string
	PublicKey   codec.Hex
	Payload     payload.Params
	Keys        *transaction.SignKeys
	// FeesIncluded overrides the configured value when set.
	FeesIncluded *bool
}

// Bake builds, finalizes, signs and identifies a transaction.
func (w *Wallet) Bake(params *BakeParams) (*transaction.Record, error) {
	if params == nil {
		return nil, errors.New("bake params cannot be nil")
	}
	timestamp := w.clock.GetTime()
	if params.Timestamp != nil {
		timestamp = *params.Timestamp
	}
	record, err := transaction.NewWithOracle(w.oracle, &transaction.Header{
		Head:        transaction.DefaultHead,
		Version:     transaction.DefaultVersion,
		Network:     w.network.Marker,
		Type:        params.Type,
		Timestamp:   timestamp,
		PublicKey:   params.PublicKey,
		VendorField: params.VendorField,
	})
	if err != nil {
		return nil, err
	}
	feesIncluded := w.txConfig.FeesIncluded
	if params.FeesIncluded != nil {
		feesIncluded = *params.FeesIncluded
	}
	if err := record.Finalize(params.Payload, &transaction.FinalizeOptions{
		FeePerByte:   w.txConfig.FeePerByte,
		FeesIncluded: feesIncluded,
	}); err != nil {
		return nil, err
	}
	if err := record.Sign(params.Keys); err != nil {
		return nil, err
	}
	if err := record.Identify(); err != nil {
		return nil, err
	}
	id, err := record.ID()
	if err != nil {
		return nil, err
	}
	w.logger.Debugf("Baked transaction %s of type %d with fee %d", id, record.Type(), record.Fees())
	return record, nil
}

// SendResult is the outcome of a send operation.
type SendResult struct {
	ID          codec.Hex               `json:"id"`
	Transaction *transaction.Serialized `json:"transaction"`
	Broadcast   *broadcast.Result       `json:"broadcast"`
	OutboxKey   string                  `json:"outboxKey,omitempty"`
}

// Send records the transaction in the outbox and broadcasts it.
func (w *Wallet) Send(ctx context.Context, record *transaction.Record) (*SendResult, error) {
	if w.broadcaster == nil {
		return nil, ErrNoBroadcaster
	}
	id, err := record.ID()
	if err != nil {
		return nil, err
	}
	sendResult := &SendResult{
		ID:          id,
		Transaction: record.Serialize(),
	}
	if w.outbox != nil {
		entry, err := w.outbox.Add(record)
		if err != nil {
			return nil, err
		}
		sendResult.OutboxKey = entry.Key
	}
	result, err := w.broadcaster.Broadcast(ctx, record.String())
	if err != nil {
		return nil, err
	}
	sendResult.Broadcast = result
	if w.outbox != nil {
		if _, err := w.outbox.Complete(sendResult.OutboxKey, result.Accepted > 0, result.Success, result.Messages); err != nil {
			return nil, err
		}
	}
	w.logger.Infof("Sent transaction %s with success %s", id, result.Success)
	return sendResult, nil
}

// Flush broadcasts the transactions of the outbox which were not accepted by any peer yet.
func (w *Wallet) Flush(ctx context.Context) ([]*outbox.Entry, error) {
	if w.broadcaster == nil {
		return nil, ErrNoBroadcaster
	}
	if w.outbox == nil {
		return nil, ErrNoOutbox
	}
	pending, err := w.outbox.Pending()
	if err != nil {
		return nil, err
	}
	flushed := make([]*outbox.Entry, 0, len(pending))
	for _, entry := range pending {
		result, err := w.broadcaster.Broadcast(ctx, entry.Transaction.String())
		if err != nil {
			return flushed, err
		}
		updated, err := w.outbox.Complete(entry.Key, result.Accepted > 0, result.Success, result.Messages)
		if err != nil {
			return flushed, err
		}
		flushed = append(flushed, updated)
	}
	return flushed, nil
}

// Address returns the address of the secret on the wallet network.
func (w *Wallet) Address(secret string) (string, error) {
	publicKey, _, err := w.oracle.GetKeys(secret)
	if err != nil {
		return "", err
	}
	return crypto.GetAddress(publicKey, w.network.Marker), nil
}

func (w *Wallet) bakeAndSend(ctx context.Context, params *BakeParams) (*SendResult, error) {
	record, err := w.Bake(params)
	if err != nil {
		return nil, err
	}
	return w.Send(ctx, record)
}

// SendToken transfers amount to the recipient.
func (w *Wallet) SendToken(ctx context.Context, amount uint64, recipientID, secret, secondSecret, vendorField string) (*SendResult, error) {
	if err := crypto.ValidateAddress(recipientID, w.network.Marker); err != nil {
		return nil, fmt.Errorf("%w: %s", payload.ErrInvalidAddress, err)
	}
	return w.bakeAndSend(ctx, &BakeParams{
		Type:        payload.TypeTransfer,
		VendorField: vendorField,
		Payload: &payload.Transfer{
			Amount:      amount,
			RecipientID: recipientID,
		},
		Keys: &transaction.SignKeys{
			Secret:       secret,
			SecondSecret: secondSecret,
		},
	})
}

// RegisterSecondPublicKey registers the second public key for the account of the secret.
func (w *Wallet) RegisterSecondPublicKey(ctx context.Context, secondPublicKey codec.Hex, secret string) (*SendResult, error) {
	publicKey, privateKey, err := w.oracle.GetKeys(secret)
	if err != nil {
		return nil, err
	}
	return w.bakeAndSend(ctx, &BakeParams{
		Type:      payload.TypeSecondSignature,
		PublicKey: publicKey,
		Payload: &payload.SecondSignature{
			SecondPublicKey: secondPublicKey,
		},
		Keys: &transaction.SignKeys{
			PrivateKey: privateKey,
		},
	})
}

// RegisterSecondPassphrase registers the public key of the second secret.
func (w *Wallet) RegisterSecondPassphrase(ctx context.Context, secret, secondSecret string) (*SendResult, error) {
	secondPublicKey, _, err := w.oracle.GetKeys(secondSecret)
	if err != nil {
		return nil, err
	}
	return w.RegisterSecondPublicKey(ctx, secondPublicKey, secret)
}

func (w *Wallet) RegisterDelegate(ctx context.Context, username, secret, secondSecret string) (*SendResult, error) {
	publicKey, privateKey, err := w.oracle.GetKeys(secret)
	if err != nil {
		return nil, err
	}
	return w.bakeAndSend(ctx, &BakeParams{
		Type:      payload.TypeDelegate,
		PublicKey: publicKey,
		Payload: &payload.Delegate{
			Username: username,
		},
		Keys: &transaction.SignKeys{
			PrivateKey:   privateKey,
			SecondSecret: secondSecret,
		},
	})
}

// UpVote votes for the delegate.
func (w *Wallet) UpVote(ctx context.Context, username, secret, secondSecret string) (*SendResult, error) {
	return w.vote(ctx, upVotePrefix, username, secret, secondSecret)
}

// DownVote removes the vote for the delegate.
func (w *Wallet) DownVote(ctx context.Context, username, secret, secondSecret string) (*SendResult, error) {
	return w.vote(ctx, downVotePrefix, username, secret, secondSecret)
}

func (w *Wallet) vote(ctx context.Context, prefix, username, secret, secondSecret string) (*SendResult, error) {
	if w.broadcaster == nil {
		return nil, ErrNoBroadcaster
	}
	publicKey, privateKey, err := w.oracle.GetKeys(secret)
	if err != nil {
		return nil, err
	}
	delegate, err := w.broadcaster.GetDelegate(ctx, username)
	if err != nil {
		return nil, err
	}
	return w.bakeAndSend(ctx, &BakeParams{
		Type:      payload.TypeVote,
		PublicKey: publicKey,
		Payload: &payload.Vote{
			DelegatePublicKey: prefix + delegate.PublicKey,
		},
		Keys: &transaction.SignKeys{
			PrivateKey:   privateKey,
			SecondSecret: secondSecret,
		},
	})
}
