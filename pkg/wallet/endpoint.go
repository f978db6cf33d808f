package wallet

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ArkHQ/ark-engine/pkg/codec"
	"github.com/ArkHQ/ark-engine/pkg/outbox"
	"github.com/ArkHQ/ark-engine/pkg/payload"
	"github.com/ArkHQ/ark-engine/pkg/rpc"
	"github.com/ArkHQ/ark-engine/pkg/transaction"
)

const (
	EventTransactionSent = "wallet_transactionSent"
)

type Publisher interface {
	Publish(event rpc.EventContent)
}

type handler func(ctx context.Context, data []byte) (interface{}, error)

// Endpoint exposes the wallet operations as RPC methods.
type Endpoint struct {
	wallet    *Wallet
	outbox    *outbox.Outbox
	publisher Publisher
	handlers  map[string]handler
}

func NewEndpoint(w *Wallet) *Endpoint {
	e := &Endpoint{
		wallet: w,
		outbox: w.outbox,
	}
	e.handlers = map[string]handler{
		"wallet_getAddress":               e.getAddress,
		"wallet_bake":                     e.bake,
		"wallet_sendToken":                e.sendToken,
		"wallet_registerSecondPassphrase": e.registerSecondPassphrase,
		"wallet_registerDelegate":         e.registerDelegate,
		"wallet_upVote":                   e.upVote,
		"wallet_downVote":                 e.downVote,
		"outbox_list":                     e.listOutbox,
		"outbox_flush":                    e.flushOutbox,
	}
	return e
}

// SetPublisher registers the destination of the sent transaction events.
func (e *Endpoint) SetPublisher(publisher Publisher) {
	e.publisher = publisher
}

func (e *Endpoint) Methods() []string {
	methods := make([]string, 0, len(e.handlers))
	for method := range e.handlers {
		methods = append(methods, method)
	}
	return methods
}

func (e *Endpoint) Invoke(ctx context.Context, endpoint string, data []byte) rpc.EndpointResponse {
	handle, exist := e.handlers[endpoint]
	if !exist {
		return rpc.NewEndpointResponse(nil, fmt.Errorf("%w: %s", rpc.ErrMethodNotFound, endpoint))
	}
	result, err := handle(ctx, data)
	return rpc.NewEndpointResponse(result, err)
}

func decodeParams(data []byte, params interface{}) error {
	if len(data) == 0 {
		data = []byte("{}")
	}
	if err := json.Unmarshal(data, params); err != nil {
		return fmt.Errorf("%w: %s", rpc.ErrInvalidParams, err)
	}
	return nil
}

type secretParams struct {
	Secret       string `json:"secret"`
	SecondSecret string `json:"secondSecret"`
}

func (e *Endpoint) getAddress(ctx context.Context, data []byte) (interface{}, error) {
	params := &secretParams{}
	if err := decodeParams(data, params); err != nil {
		return nil, err
	}
	address, err := e.wallet.Address(params.Secret)
	if err != nil {
		return nil, err
	}
	return map[string]string{"address": address}, nil
}

type bakeParams struct {
	Type         uint8                 `json:"type"`
	Timestamp    *uint32               `json:"timestamp,omitempty"`
	VendorField  string                `json:"vendorField"`
	PublicKey    codec.Hex             `json:"publicKey"`
	Payload      json.RawMessage       `json:"payload"`
	Keys         *transaction.SignKeys `json:"keys"`
	FeesIncluded *bool                 `json:"feesIncluded,omitempty"`
}

type bakeResponse struct {
	*transaction.Serialized
	Transaction string `json:"transaction"`
}

func (e *Endpoint) bake(ctx context.Context, data []byte) (interface{}, error) {
	params := &bakeParams{}
	if err := decodeParams(data, params); err != nil {
		return nil, err
	}
	txParams, err := payload.New(params.Type)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", rpc.ErrInvalidParams, err)
	}
	if err := decodeParams(params.Payload, txParams); err != nil {
		return nil, err
	}
	if params.Keys == nil {
		params.Keys = &transaction.SignKeys{}
	}
	record, err := e.wallet.Bake(&BakeParams{
		Type:         params.Type,
		Timestamp:    params.Timestamp,
		VendorField:  params.VendorField,
		PublicKey:    params.PublicKey,
		Payload:      txParams,
		Keys:         params.Keys,
		FeesIncluded: params.FeesIncluded,
	})
	if err != nil {
		return nil, err
	}
	return &bakeResponse{
		Serialized:  record.Serialize(),
		Transaction: record.String(),
	}, nil
}

type sendTokenParams struct {
	secretParams
	Amount      uint64 `json:"amount,string"`
	RecipientID string `json:"recipientId"`
	VendorField string `json:"vendorField"`
}

func (e *Endpoint) sendToken(ctx context.Context, data []byte) (interface{}, error) {
	params := &sendTokenParams{}
	if err := decodeParams(data, params); err != nil {
		return nil, err
	}
	return e.sent(e.wallet.SendToken(ctx, params.Amount, params.RecipientID, params.Secret, params.SecondSecret, params.VendorField))
}

func (e *Endpoint) registerSecondPassphrase(ctx context.Context, data []byte) (interface{}, error) {
	params := &secretParams{}
	if err := decodeParams(data, params); err != nil {
		return nil, err
	}
	return e.sent(e.wallet.RegisterSecondPassphrase(ctx, params.Secret, params.SecondSecret))
}

type usernameParams struct {
	secretParams
	Username string `json:"username"`
}

func (e *Endpoint) registerDelegate(ctx context.Context, data []byte) (interface{}, error) {
	params := &usernameParams{}
	if err := decodeParams(data, params); err != nil {
		return nil, err
	}
	return e.sent(e.wallet.RegisterDelegate(ctx, params.Username, params.Secret, params.SecondSecret))
}

func (e *Endpoint) upVote(ctx context.Context, data []byte) (interface{}, error) {
	params := &usernameParams{}
	if err := decodeParams(data, params); err != nil {
		return nil, err
	}
	return e.sent(e.wallet.UpVote(ctx, params.Username, params.Secret, params.SecondSecret))
}

func (e *Endpoint) downVote(ctx context.Context, data []byte) (interface{}, error) {
	params := &usernameParams{}
	if err := decodeParams(data, params); err != nil {
		return nil, err
	}
	return e.sent(e.wallet.DownVote(ctx, params.Username, params.Secret, params.SecondSecret))
}

func (e *Endpoint) sent(result *SendResult, err error) (interface{}, error) {
	if err != nil {
		return nil, err
	}
	if e.publisher != nil {
		e.publisher.Publish(rpc.NewEventContent(EventTransactionSent, result))
	}
	return result, nil
}

type listParams struct {
	Limit int `json:"limit"`
}

func (e *Endpoint) listOutbox(ctx context.Context, data []byte) (interface{}, error) {
	if e.outbox == nil {
		return nil, ErrNoOutbox
	}
	params := &listParams{}
	if err := decodeParams(data, params); err != nil {
		return nil, err
	}
	if params.Limit <= 0 {
		params.Limit = -1
	}
	return e.outbox.List(params.Limit)
}

func (e *Endpoint) flushOutbox(ctx context.Context, data []byte) (interface{}, error) {
	return e.wallet.Flush(ctx)
}
