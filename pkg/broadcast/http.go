package broadcast

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

const (
	postTransactionsPath = "/peer/transactions"
	getDelegatePath      = "/api/delegates/get"
)

type HTTPPeer struct {
	baseURL string
	client  *http.Client
}

func NewHTTPPeer(baseURL string, timeout time.Duration) *HTTPPeer {
	return &HTTPPeer{
		baseURL: baseURL,
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

func (p *HTTPPeer) Address() string {
	return p.baseURL
}

type postTransactionsRequest struct {
	Transactions []string `json:"transactions"`
}

func (p *HTTPPeer) PostTransactions(ctx context.Context, transactions []string) (*PeerResponse, error) {
	body, err := json.Marshal(&postTransactionsRequest{Transactions: transactions})
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+postTransactionsPath, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	resp := &PeerResponse{}
	if err := p.do(req, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

type getDelegateResponse struct {
	Success  bool      `json:"success"`
	Error    string    `json:"error,omitempty"`
	Delegate *Delegate `json:"delegate"`
}

func (p *HTTPPeer) GetDelegate(ctx context.Context, username string) (*Delegate, error) {
	query := url.Values{}
	query.Set("username", username)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+getDelegatePath+"?"+query.Encode(), nil)
	if err != nil {
		return nil, err
	}
	resp := &getDelegateResponse{}
	if err := p.do(req, resp); err != nil {
		return nil, err
	}
	if !resp.Success || resp.Delegate == nil {
		return nil, fmt.Errorf("%w: %s %s", ErrDelegateNotFound, username, resp.Error)
	}
	return resp.Delegate, nil
}

func (p *HTTPPeer) do(req *http.Request, result interface{}) error {
	res, err := p.client.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()
	data, err := io.ReadAll(res.Body)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, result); err != nil {
		return fmt.Errorf("invalid response with status %d from %s: %w", res.StatusCode, p.baseURL, err)
	}
	return nil
}
