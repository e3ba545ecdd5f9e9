package server

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/LawrenceCirillo/Alan/internal/chat"
	"github.com/LawrenceCirillo/Alan/pkg/log"
	"github.com/LawrenceCirillo/Alan/pkg/stream"
)

type (
	// Client is a WebSocket connection carrying chat requests. Each
	// inbound message is a chat request body, answered by one outbound
	// text message per stream frame. Requests are served in arrival
	// order while keepalive pings continue
	Client struct {
		server  *Server
		conn    *websocket.Conn
		ctx     context.Context
		cancel  context.CancelFunc
		writeMu sync.Mutex
	}

	socketSink struct {
		client *Client
	}
)

const (
	writeWait          = 10 * time.Second
	defaultPongWait    = 60 * time.Second
	maxMessageSize     = 1 << 20
	wsBufferSize       = 1024
	incomingBufferSize = 16
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  wsBufferSize,
	WriteBufferSize: wsBufferSize,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

var _ stream.Sink = socketSink{}

func (s *Server) handleWebSocket(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		slog.Error("WebSocket upgrade failed",
			log.Error(err))
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	client := &Client{
		server: s,
		conn:   conn,
		ctx:    ctx,
		cancel: cancel,
	}

	s.registerWebSocket(client)
	go client.run()
}

// Close cancels any request in progress and closes the connection
func (c *Client) Close() {
	c.cancel()
	_ = c.conn.Close()
}

func (c *Client) run() {
	defer func() {
		c.server.unregisterWebSocket(c)
		c.Close()
	}()

	pongWait := c.server.pongWait
	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	ticker := time.NewTicker(pongWait * 9 / 10)
	defer ticker.Stop()

	incoming := make(chan []byte, incomingBufferSize)
	go c.readMessages(incoming)
	go c.serveMessages(incoming)

	for {
		select {
		case <-ticker.C:
			if !c.sendPing() {
				return
			}
		case <-c.ctx.Done():
			return
		}
	}
}

func (c *Client) readMessages(incoming chan<- []byte) {
	defer close(incoming)
	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			c.cancel()
			return
		}
		_ = c.conn.SetReadDeadline(time.Now().Add(c.server.pongWait))
		select {
		case incoming <- message:
		case <-c.ctx.Done():
			return
		}
	}
}

func (c *Client) serveMessages(incoming <-chan []byte) {
	for message := range incoming {
		c.serve(message)
	}
}

func (c *Client) serve(message []byte) {
	w := stream.NewWriter(socketSink{client: c})
	c.server.chat.Serve(c.ctx, chat.ParseMessages(message), w)
	if w.Broken() {
		slog.Debug("WebSocket stream broken")
	}
}

func (c *Client) sendPing() bool {
	return c.write(websocket.PingMessage, nil) == nil
}

func (c *Client) write(kind int, data []byte) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.conn.WriteMessage(kind, data)
}

func (s socketSink) WriteFrame(frame []byte) error {
	return s.client.write(websocket.TextMessage, frame)
}
