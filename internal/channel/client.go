package channel

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/gauravmohjay/admin/pkg/interfaces"
)

// Envelope is the wire frame for every event on the channel: a name and
// an opaque payload. Malformed frames are dropped, never propagated.
type Envelope struct {
	Event   string          `json:"event"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Options configures a Client.
type Options struct {
	// URL is the full websocket URL of the room namespace.
	URL string
	// Token is the bearer credential presented on dial.
	Token string

	HandshakeTimeout time.Duration
	WriteTimeout     time.Duration
	ReconnectMin     time.Duration
	ReconnectMax     time.Duration
}

func (o *Options) applyDefaults() {
	if o.HandshakeTimeout <= 0 {
		o.HandshakeTimeout = 10 * time.Second
	}
	if o.WriteTimeout <= 0 {
		o.WriteTimeout = 5 * time.Second
	}
	if o.ReconnectMin <= 0 {
		o.ReconnectMin = 500 * time.Millisecond
	}
	if o.ReconnectMax <= 0 {
		o.ReconnectMax = 15 * time.Second
	}
}

// Client maintains one authenticated websocket connection to the room
// namespace. It owns connect/reconnect and dispatches incoming events to
// subscribers; it holds no domain state. Handlers run serialized on the
// read loop, so subscribers see events in server order.
type Client struct {
	opts     Options
	id       string
	registry *Registry
	writeCh  chan []byte

	ctx    context.Context
	cancel context.CancelFunc

	mu        sync.Mutex
	onConnect func()

	closeOnce sync.Once
	wg        sync.WaitGroup
}

// New creates a client. The connection is not dialed until Start.
func New(opts Options) *Client {
	opts.applyDefaults()
	ctx, cancel := context.WithCancel(context.Background())
	return &Client{
		opts:     opts,
		id:       uuid.New().String(),
		registry: NewRegistry(),
		writeCh:  make(chan []byte, 100),
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Start launches the connect/reconnect loop. Dial failures back off and
// retry; they are never surfaced to callers, matching the transport's
// recover-on-its-own contract.
func (c *Client) Start() {
	c.wg.Add(1)
	go c.run()
}

// OnConnect sets the hook invoked after every successful (re)connect.
// The session uses it to re-issue the join intent for the active scope
// so a dropped connection converges via fresh server snapshots.
func (c *Client) OnConnect(hook func()) {
	c.mu.Lock()
	c.onConnect = hook
	c.mu.Unlock()
}

// On subscribes a handler to a named event and returns its handle.
func (c *Client) On(event string, handler func(payload json.RawMessage)) interfaces.Subscription {
	return c.registry.Subscribe(event, handler)
}

// Emit sends a named intent. Fire-and-forget: delivery is attempted on
// the current connection, queued briefly while reconnecting.
func (c *Client) Emit(event string, payload interface{}) error {
	select {
	case <-c.ctx.Done():
		return ErrChannelClosed
	default:
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return ErrInvalidJSON
	}
	data, err := json.Marshal(Envelope{Event: event, Payload: raw})
	if err != nil {
		return ErrInvalidJSON
	}

	select {
	case c.writeCh <- data:
		return nil
	case <-time.After(c.opts.WriteTimeout):
		return ErrWriteTimeout
	case <-c.ctx.Done():
		return ErrChannelClosed
	}
}

// Close tears down the connection and stops all loops.
func (c *Client) Close() error {
	c.closeOnce.Do(func() {
		c.cancel()
	})
	c.wg.Wait()
	return nil
}

func (c *Client) run() {
	defer c.wg.Done()

	backoff := c.opts.ReconnectMin
	for {
		if c.ctx.Err() != nil {
			return
		}

		conn, err := c.dial()
		if err != nil {
			log.Printf("channel dial failed, retrying in %s: id=%s err=%v", backoff, c.id, err)
			select {
			case <-time.After(backoff):
			case <-c.ctx.Done():
				return
			}
			backoff *= 2
			if backoff > c.opts.ReconnectMax {
				backoff = c.opts.ReconnectMax
			}
			continue
		}

		backoff = c.opts.ReconnectMin
		log.Printf("channel connected: id=%s url=%s", c.id, c.opts.URL)

		c.serve(conn)
		if c.ctx.Err() != nil {
			return
		}
		log.Printf("channel disconnected, reconnecting: id=%s", c.id)
	}
}

func (c *Client) dial() (*websocket.Conn, error) {
	dialer := websocket.Dialer{HandshakeTimeout: c.opts.HandshakeTimeout}
	header := http.Header{}
	if c.opts.Token != "" {
		header.Set("Authorization", "Bearer "+c.opts.Token)
	}
	conn, resp, err := dialer.DialContext(c.ctx, c.opts.URL, header)
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}
	return conn, err
}

// serve runs one connection to completion: a single writer goroutine
// plus the read loop that dispatches envelopes. Returns when the
// connection drops or the client closes.
func (c *Client) serve(conn *websocket.Conn) {
	defer func() { _ = conn.Close() }()

	done := make(chan struct{})
	var writerWG sync.WaitGroup
	writerWG.Add(1)
	go func() {
		defer writerWG.Done()
		c.writeLoop(conn, done)
	}()

	c.mu.Lock()
	hook := c.onConnect
	c.mu.Unlock()
	if hook != nil {
		hook()
	}

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) && c.ctx.Err() == nil {
				log.Printf("channel read error: id=%s err=%v", c.id, err)
			}
			break
		}

		var env Envelope
		if err := json.Unmarshal(data, &env); err != nil || env.Event == "" {
			log.Printf("channel dropped malformed frame: id=%s", c.id)
			continue
		}
		c.registry.dispatch(env.Event, env.Payload)
	}

	close(done)
	writerWG.Wait()
}

// writeLoop is the single writer for one connection. Serializing writes
// through one goroutine keeps gorilla's one-concurrent-writer rule.
func (c *Client) writeLoop(conn *websocket.Conn, done <-chan struct{}) {
	for {
		select {
		case data := <-c.writeCh:
			if err := conn.SetWriteDeadline(time.Now().Add(c.opts.WriteTimeout)); err != nil {
				_ = conn.Close()
				return
			}
			if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
				log.Printf("channel write failed: id=%s err=%v", c.id, err)
				_ = conn.Close()
				return
			}
		case <-done:
			return
		case <-c.ctx.Done():
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(time.Second))
			return
		}
	}
}
