// Package rpc exposes the wallet endpoints over JSON RPC on HTTP and WS.
package rpc

import (
	"context"
	"errors"
	"strings"

	stringsUtil "github.com/ArkHQ/ark-engine/pkg/collection/strings"
	"github.com/ArkHQ/ark-engine/pkg/config"
	"github.com/ArkHQ/ark-engine/pkg/log"
)

const (
	RPCTypeHTTP = "http"
	RPCTypeWS   = "ws"

	HTTPPath = "/rpc"
	WSPath   = "/rpc-ws"
)

var ErrMethodNotFound = errors.New("method not found")

type Invoker interface {
	Invoke(ctx context.Context, endpoint string, data []byte) EndpointResponse
}

type RPCServer struct {
	logger     log.Logger
	done       chan bool
	httpServer *httpJSONRPCServer
	wsServer   *wsJSONRPCServer
}

func NewRPCServer(logger log.Logger, cfg *config.RPCConfig, invoker Invoker) *RPCServer {
	server := &RPCServer{
		logger: logger,
		done:   make(chan bool),
	}
	if stringsUtil.Contain(cfg.Modes, RPCTypeHTTP) {
		logger.Infof("Starting HTTP RPC server at %d on %s", cfg.Port, cfg.Host)
		server.httpServer = NewHTTPJSONServer(logger, cfg.Port, cfg.Host, invoker)
	}
	if stringsUtil.Contain(cfg.Modes, RPCTypeWS) {
		logger.Infof("Starting WS RPC server at %d on %s", cfg.Port, cfg.Host)
		if server.httpServer != nil {
			server.wsServer = NewWSJSONRPCServerWithHTTPServer(logger, invoker, server.httpServer.httpMux, server.httpServer.httpServer)
		} else {
			server.wsServer = NewWSJSONRPCServer(logger, cfg.Port, cfg.Host, invoker)
		}
	}
	return server
}

// ListenAndServe blocks until the server is closed.
func (s *RPCServer) ListenAndServe() error {
	// ws server shares the http listener when both modes are enabled
	if s.httpServer != nil {
		go func() {
			if err := s.httpServer.ListenAndServe(); err != nil {
				s.logger.Errorf("HTTP RPC server stopped with %s", err)
				s.Close()
			}
		}()
	} else if s.wsServer != nil {
		go func() {
			if err := s.wsServer.ListenAndServe(); err != nil {
				s.logger.Errorf("WS RPC server stopped with %s", err)
				s.Close()
			}
		}()
	}
	<-s.done
	return nil
}

// Publish sends the event to the ws subscribers of the topic.
func (s *RPCServer) Publish(event EventContent) {
	if s.wsServer == nil {
		return
	}
	data, err := event.JSONData()
	if err != nil {
		s.logger.Errorf("Fail to encode event %s with %s", event.Event(), err)
		return
	}
	s.wsServer.Publish(event.Event(), data)
}

func (s *RPCServer) Close() error {
	select {
	case <-s.done:
		return nil
	default:
		close(s.done)
	}
	errs := []error{}
	if s.wsServer != nil {
		if err := s.wsServer.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if s.httpServer != nil {
		if err := s.httpServer.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) != 0 {
		errStr := make([]string, len(errs))
		for i, err := range errs {
			errStr[i] = err.Error()
		}
		return errors.New(strings.Join(errStr, ","))
	}
	return nil
}
