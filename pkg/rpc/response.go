package rpc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrInvalidParams should wrap the errors caused by the request params.
var ErrInvalidParams = errors.New("invalid params")

type EndpointResponse interface {
	Err() error
	Data() interface{}
	JSONData() ([]byte, error)
}

type endpointResponse struct {
	data interface{}
	err  error
}

func NewEndpointResponse(data interface{}, err error) EndpointResponse {
	return &endpointResponse{
		data: data,
		err:  err,
	}
}

// NewInvalidParamsResponse returns response for params which cannot be decoded.
func NewInvalidParamsResponse(err error) EndpointResponse {
	return &endpointResponse{
		err: fmt.Errorf("%w: %s", ErrInvalidParams, err),
	}
}

func (a *endpointResponse) Err() error {
	return a.err
}

func (a *endpointResponse) Data() interface{} {
	return a.data
}

func (a *endpointResponse) JSONData() ([]byte, error) {
	return json.Marshal(a.data)
}

func errorCode(err error) int {
	switch {
	case errors.Is(err, ErrMethodNotFound):
		return jsonRPCMethodNotFoundError
	case errors.Is(err, ErrInvalidParams):
		return jsonRPCInvalidParamError
	default:
		return jsonRPCInvalidRequest
	}
}

// invoke calls the endpoint and returns the encoded JSON RPC response.
func invoke(ctx context.Context, invoker Invoker, req *JSONRPCRequest) ([]byte, bool) {
	result := invoker.Invoke(ctx, req.Method, req.Params)
	if err := result.Err(); err != nil {
		return getErrResponse(req.ID, err, errorCode(err)), false
	}
	resultData, err := result.JSONData()
	if err != nil {
		return getErrResponse(req.ID, err, jsonRPCInternalError), false
	}
	return getSuccessResponse(req.ID, resultData), true
}
