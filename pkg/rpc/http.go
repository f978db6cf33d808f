package rpc

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/ArkHQ/ark-engine/pkg/log"
)

type httpJSONRPCServer struct {
	invoker    Invoker
	logger     log.Logger
	httpServer *http.Server
	httpMux    *http.ServeMux
}

func NewHTTPJSONServer(logger log.Logger, port int, addr string, invoker Invoker) *httpJSONRPCServer {
	server := &httpJSONRPCServer{
		invoker: invoker,
		logger:  logger,
	}
	mux := http.NewServeMux()
	mux.HandleFunc(HTTPPath, server.HandleRequest)
	bindingAddr := addr
	if addr == "" {
		bindingAddr = "127.0.0.1"
	}

	server.httpServer = &http.Server{
		Addr:              fmt.Sprintf("%s:%d", bindingAddr, port),
		Handler:           mux,
		ReadHeaderTimeout: time.Second * 1,
	}
	server.httpMux = mux

	return server
}

func (s *httpJSONRPCServer) ListenAndServe() error {
	return s.httpServer.ListenAndServe()
}

func (s *httpJSONRPCServer) Close() error {
	return s.httpServer.Close()
}

func (s *httpJSONRPCServer) HandleRequest(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.write(w, http.StatusBadRequest, []byte("Invalid method"))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	body := &JSONRPCRequest{}
	if err := json.NewDecoder(r.Body).Decode(body); err != nil {
		s.write(w, http.StatusBadRequest, getErrResponse(0, err, jsonRPCParseError))
		return
	}
	if err := body.Validate(); err != nil {
		s.write(w, http.StatusBadRequest, getErrResponse(body.ID, err, jsonRPCInvalidRequestError))
		return
	}
	s.logger.Debugf("Received request from %s for method %s", r.RemoteAddr, body.Method)
	result, ok := invoke(r.Context(), s.invoker, body)
	if !ok {
		s.write(w, http.StatusBadRequest, result)
		return
	}
	s.write(w, http.StatusOK, result)
}

func (s *httpJSONRPCServer) write(w http.ResponseWriter, status int, body []byte) {
	w.WriteHeader(status)
	if _, err := w.Write(body); err != nil {
		s.logger.Errorf("Fail to write message with %s", err)
	}
}
