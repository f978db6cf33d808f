package rpc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	stringsUtil "github.com/ArkHQ/ark-engine/pkg/collection/strings"
	"github.com/ArkHQ/ark-engine/pkg/log"
)

const (
	methodSubscribe   = "subscribe"
	methodUnsubscribe = "unsubscribe"
)

var upgrader = websocket.Upgrader{}

type wsJSONRPCServer struct {
	logger      log.Logger
	httpServer  *http.Server
	mutex       *sync.Mutex
	connections map[string]*wsSocket
	invoker     Invoker
}

func NewWSJSONRPCServer(logger log.Logger, port int, addr string, invoker Invoker) *wsJSONRPCServer {
	bindingAddr := addr
	if addr == "" {
		bindingAddr = "127.0.0.1"
	}
	httpServer := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", bindingAddr, port),
		ReadHeaderTimeout: 1 * time.Second,
	}
	return NewWSJSONRPCServerWithHTTPServer(logger, invoker, http.NewServeMux(), httpServer)
}

func NewWSJSONRPCServerWithHTTPServer(logger log.Logger, invoker Invoker, mux *http.ServeMux, httpServer *http.Server) *wsJSONRPCServer {
	server := &wsJSONRPCServer{
		logger:      logger,
		mutex:       new(sync.Mutex),
		connections: make(map[string]*wsSocket),
		invoker:     invoker,
	}
	mux.HandleFunc(WSPath, server.handleUpgrade)

	httpServer.Handler = mux
	server.httpServer = httpServer
	return server
}

func (s *wsJSONRPCServer) Publish(method string, data []byte) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	for _, conn := range s.connections {
		go conn.publish(method, data)
	}
}

func (s *wsJSONRPCServer) ListenAndServe() error {
	return s.httpServer.ListenAndServe()
}

func (s *wsJSONRPCServer) Close() error {
	s.mutex.Lock()
	for addr, conn := range s.connections {
		conn.close()
		delete(s.connections, addr)
	}
	s.mutex.Unlock()

	return s.httpServer.Close()
}

func (s *wsJSONRPCServer) handleUpgrade(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Errorf("Fail to upgrade connection with %s", err)
		return
	}
	socket := newWSSocket(s.logger, conn, s.invoker)
	s.mutex.Lock()
	s.connections[r.RemoteAddr] = socket
	s.mutex.Unlock()
	go func() {
		socket.dispatch()
		s.mutex.Lock()
		delete(s.connections, r.RemoteAddr)
		s.mutex.Unlock()
	}()
}

type wsMessage struct {
	msg *JSONRPCRequest
	err error
}

type wsSocket struct {
	logger    log.Logger
	conn      *websocket.Conn
	invoker   Invoker
	receiver  chan wsMessage
	publisher chan *JSONRPCRequest
	closeOnce *sync.Once
	closeChan chan bool
	mutex     *sync.Mutex
	topics    []string
	// gorilla connections support one concurrent writer
	writeLock *sync.Mutex
}

func newWSSocket(logger log.Logger, conn *websocket.Conn, invoker Invoker) *wsSocket {
	return &wsSocket{
		conn:      conn,
		logger:    logger,
		invoker:   invoker,
		topics:    []string{},
		receiver:  make(chan wsMessage, 1),
		publisher: make(chan *JSONRPCRequest),
		closeOnce: new(sync.Once),
		closeChan: make(chan bool),
		mutex:     new(sync.Mutex),
		writeLock: new(sync.Mutex),
	}
}

func (c *wsSocket) subscribed(method string) bool {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	for _, topic := range c.topics {
		if strings.HasPrefix(method, topic) {
			return true
		}
	}
	return false
}

func (c *wsSocket) publish(method string, data []byte) {
	if !c.subscribed(method) {
		return
	}
	select {
	case c.publisher <- &JSONRPCRequest{
		JSONRPC: "2.0",
		Method:  method,
		Params:  data,
	}:
	case <-c.closeChan:
	}
}

func (c *wsSocket) dispatch() {
	defer c.conn.Close()
	go c.read()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	for {
		select {
		case <-c.closeChan:
			return
		case req := <-c.receiver:
			if req.err != nil {
				c.close()
				return
			}
			c.handleMessage(ctx, req.msg)
		case event := <-c.publisher:
			data, err := json.Marshal(event)
			if err != nil {
				c.logger.Errorf("Fail to encode event with %s", err)
				continue
			}
			c.write(data)
		}
	}
}

func (c *wsSocket) handleMessage(ctx context.Context, req *JSONRPCRequest) {
	switch req.Method {
	case methodSubscribe:
		if err := c.handleSubscribe(req); err != nil {
			c.write(getErrResponse(req.ID, err, jsonRPCInvalidParamError))
			return
		}
		c.write(getSuccessResponse(req.ID, []byte("true")))
	case methodUnsubscribe:
		if err := c.handleUnsubscribe(req); err != nil {
			c.write(getErrResponse(req.ID, err, jsonRPCInvalidParamError))
			return
		}
		c.write(getSuccessResponse(req.ID, []byte("true")))
	default:
		c.logger.Debugf("Received request from %s for method %s", c.conn.RemoteAddr(), req.Method)
		result, _ := invoke(ctx, c.invoker, req)
		c.write(result)
	}
}

type topicParams struct {
	Topics []string `json:"topics"`
}

func (c *wsSocket) handleSubscribe(req *JSONRPCRequest) error {
	params := &topicParams{}
	if err := json.Unmarshal(req.Params, params); err != nil {
		return err
	}
	if len(params.Topics) == 0 {
		return errors.New("topics to subscribe is empty")
	}
	c.mutex.Lock()
	defer c.mutex.Unlock()
	for _, topic := range params.Topics {
		if !stringsUtil.Contain(c.topics, topic) {
			c.topics = append(c.topics, topic)
		}
	}
	return nil
}

func (c *wsSocket) handleUnsubscribe(req *JSONRPCRequest) error {
	params := &topicParams{}
	if err := json.Unmarshal(req.Params, params); err != nil {
		return err
	}
	c.mutex.Lock()
	defer c.mutex.Unlock()
	newTopics := []string{}
	for _, topic := range c.topics {
		if !stringsUtil.Contain(params.Topics, topic) {
			newTopics = append(newTopics, topic)
		}
	}
	c.topics = newTopics
	return nil
}

func (c *wsSocket) read() {
	for {
		_, msg, err := c.conn.ReadMessage()
		if err != nil {
			c.logger.Debugf("Closing connection with %s after %s", c.conn.RemoteAddr(), err)
			c.send(wsMessage{err: err})
			return
		}
		req := &JSONRPCRequest{}
		if err := json.Unmarshal(msg, req); err != nil {
			c.write(getErrResponse(0, err, jsonRPCParseError))
			continue
		}
		if err := req.Validate(); err != nil {
			c.write(getErrResponse(req.ID, err, jsonRPCInvalidRequestError))
			continue
		}
		if !c.send(wsMessage{msg: req}) {
			return
		}
	}
}

func (c *wsSocket) send(msg wsMessage) bool {
	select {
	case c.receiver <- msg:
		return true
	case <-c.closeChan:
		return false
	}
}

func (c *wsSocket) write(body []byte) {
	c.writeLock.Lock()
	defer c.writeLock.Unlock()
	if err := c.conn.WriteMessage(websocket.TextMessage, body); err != nil {
		c.logger.Errorf("Fail to write message with %s", err)
	}
}

func (c *wsSocket) close() {
	c.closeOnce.Do(func() {
		close(c.closeChan)
	})
}
