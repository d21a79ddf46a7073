// Package ws connects the client to a world server over a websocket. Each
// text frame carries one or more newline terminated protocol lines.
package ws

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"

	"voxelclient.ai/internal/protocol"
)

type Config struct {
	URL      string
	Username string
	Token    string

	// PositionRateHz caps outbound position updates.
	PositionRateHz float64
	// QueueSize bounds the outbound line queue.
	QueueSize int
}

func (c *Config) applyDefaults() {
	if c.PositionRateHz <= 0 {
		c.PositionRateHz = 10
	}
	if c.QueueSize <= 0 {
		c.QueueSize = 1024
	}
}

type Client struct {
	conn  *websocket.Conn
	log   *log.Logger
	inbox chan<- protocol.Message

	out     chan string
	limiter *rate.Limiter

	posMu   sync.Mutex
	lastPos [5]float32
	sentPos bool

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	once   sync.Once

	errMu   sync.Mutex
	err     error
	dropped atomic.Uint64
}

// Dial connects to cfg.URL, sends the version and login lines, and starts
// forwarding parsed server lines into inbox.
func Dial(ctx context.Context, cfg Config, inbox chan<- protocol.Message, logger *log.Logger) (*Client, error) {
	cfg.applyDefaults()
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, cfg.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", cfg.URL, err)
	}

	cctx, cancel := context.WithCancel(context.Background())
	c := &Client{
		conn:    conn,
		log:     logger,
		inbox:   inbox,
		out:     make(chan string, cfg.QueueSize),
		limiter: rate.NewLimiter(rate.Limit(cfg.PositionRateHz), 1),
		ctx:     cctx,
		cancel:  cancel,
	}
	c.send(protocol.EncodeVersion(protocol.Version))
	if cfg.Username != "" {
		c.send(protocol.EncodeAuth(cfg.Username, cfg.Token))
	}

	c.wg.Add(2)
	go func() {
		defer c.wg.Done()
		c.writeLoop()
	}()
	go func() {
		defer c.wg.Done()
		c.readLoop()
	}()
	return c, nil
}

func (c *Client) writeLoop() {
	for {
		select {
		case <-c.ctx.Done():
			return
		case line := <-c.out:
			_ = c.conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
			if err := c.conn.WriteMessage(websocket.TextMessage, []byte(line)); err != nil {
				c.fail(err)
				return
			}
		}
	}
}

func (c *Client) readLoop() {
	for {
		_, msg, err := c.conn.ReadMessage()
		if err != nil {
			c.fail(err)
			return
		}
		for _, m := range protocol.ParseBuffer(string(msg)) {
			select {
			case c.inbox <- m:
			case <-c.ctx.Done():
				return
			}
		}
	}
}

func (c *Client) fail(err error) {
	if c.ctx.Err() == nil {
		if !websocket.IsCloseError(err, websocket.CloseNormalClosure) {
			c.log.Printf("ws: connection lost: %v", err)
		}
		c.errMu.Lock()
		if c.err == nil {
			c.err = err
		}
		c.errMu.Unlock()
	}
	c.cancel()
}

// Done is closed when the connection ends.
func (c *Client) Done() <-chan struct{} { return c.ctx.Done() }

// Err returns the error that ended the connection, if any.
func (c *Client) Err() error {
	c.errMu.Lock()
	defer c.errMu.Unlock()
	return c.err
}

// Dropped counts outbound lines dropped because the queue was full.
func (c *Client) Dropped() uint64 { return c.dropped.Load() }

// Close says goodbye to the server and waits for the loops to exit.
func (c *Client) Close() error {
	var err error
	c.once.Do(func() {
		_ = c.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(time.Second))
		c.cancel()
		err = c.conn.Close()
		c.wg.Wait()
		if errors.Is(err, websocket.ErrCloseSent) {
			err = nil
		}
	})
	return err
}

// send queues a line without blocking the caller.
func (c *Client) send(line string) {
	if c.ctx.Err() != nil {
		return
	}
	select {
	case c.out <- line:
	default:
		c.dropped.Add(1)
	}
}

func (c *Client) Block(x, y, z, w int) { c.send(protocol.EncodeBlock(x, y, z, w)) }

func (c *Client) Light(x, y, z, w int) { c.send(protocol.EncodeLight(x, y, z, w)) }

func (c *Client) Sign(x, y, z, face int, text string) {
	c.send(protocol.EncodeSign(x, y, z, face, text))
}

func (c *Client) Chunk(p, q, key int) { c.send(protocol.EncodeChunk(p, q, key)) }

func (c *Client) Talk(text string) { c.send(protocol.EncodeTalk(text)) }

// Position sends the local pose, skipping repeats and updates above the
// configured rate.
func (c *Client) Position(x, y, z, rx, ry float32) {
	pos := [5]float32{x, y, z, rx, ry}
	c.posMu.Lock()
	defer c.posMu.Unlock()
	if c.sentPos && pos == c.lastPos {
		return
	}
	if !c.limiter.Allow() {
		return
	}
	c.lastPos = pos
	c.sentPos = true
	c.send(protocol.EncodePosition(x, y, z, rx, ry))
}
