package broadcast

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
)

const (
	methodPostTransaction = "postTransaction"
)

type jsonRPCRequest struct {
	JSONRPC string      `json:"jsonrpc"`
	Method  string      `json:"method"`
	ID      int         `json:"id,string"`
	Params  interface{} `json:"params"`
}

type jsonRPCError struct {
	Message string `json:"message"`
	Code    int    `json:"code"`
}

type jsonRPCResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      int             `json:"id"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *jsonRPCError   `json:"error,omitempty"`
}

// WSPeer posts transactions as JSON RPC over a websocket connection opened per request.
type WSPeer struct {
	url     string
	timeout time.Duration
	dialer  *websocket.Dialer
	nextID  int32
}

func NewWSPeer(url string, timeout time.Duration) *WSPeer {
	return &WSPeer{
		url:     url,
		timeout: timeout,
		dialer: &websocket.Dialer{
			HandshakeTimeout: timeout,
		},
	}
}

func (p *WSPeer) Address() string {
	return p.url
}

func (p *WSPeer) PostTransactions(ctx context.Context, transactions []string) (*PeerResponse, error) {
	result := &PeerResponse{}
	if err := p.call(ctx, methodPostTransaction, &postTransactionsRequest{Transactions: transactions}, result); err != nil {
		return nil, err
	}
	return result, nil
}

func (p *WSPeer) GetDelegate(ctx context.Context, username string) (*Delegate, error) {
	return nil, fmt.Errorf("%w: get delegate over websocket", ErrUnsupportedMethod)
}

func (p *WSPeer) call(ctx context.Context, method string, params interface{}, result interface{}) error {
	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}
	conn, _, err := p.dialer.DialContext(ctx, p.url, nil)
	if err != nil {
		return err
	}
	defer conn.Close()
	if deadline, ok := ctx.Deadline(); ok {
		if err := conn.SetReadDeadline(deadline); err != nil {
			return err
		}
	}
	id := int(atomic.AddInt32(&p.nextID, 1))
	if err := conn.WriteJSON(&jsonRPCRequest{
		JSONRPC: "2.0",
		Method:  method,
		ID:      id,
		Params:  params,
	}); err != nil {
		return err
	}
	resp := &jsonRPCResponse{}
	if err := conn.ReadJSON(resp); err != nil {
		return err
	}
	if resp.Error != nil {
		return fmt.Errorf("peer %s responded with code %d: %w", p.url, resp.Error.Code, errors.New(resp.Error.Message))
	}
	if resp.ID != id {
		return fmt.Errorf("peer %s responded to id %d for request %d", p.url, resp.ID, id)
	}
	return json.Unmarshal(resp.Result, result)
}
