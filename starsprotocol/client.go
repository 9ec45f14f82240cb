package starsprotocol

import (
	"context"
	"errors"
	"io"
	"net"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

// Client is a STARS node connection.
//
// It owns exactly one TCP socket, performs the keyword handshake, and
// delivers incoming frames either through blocking Receive calls or, once
// callback mode is enabled, by pushing them to subscribers from a
// background goroutine.
//
// Thread Safety:
// Send may be called from any goroutine; writes are serialised per
// connection. Concurrent Receive calls are serialised. After callback mode
// is enabled the dispatcher owns the socket for the rest of the connection
// and Receive returns ErrCallbackMode.
type Client struct {
	mu sync.Mutex

	cfg Config
	id  string
	log zerolog.Logger

	conn           net.Conn
	isConnected    bool
	connecting     bool
	connectedAt    time.Time
	defaultTimeout time.Duration

	// rmu serialises everything that reads the socket or the decoder.
	rmu     sync.Mutex
	decoder *Decoder
	readBuf []byte

	// wmu serialises writes.
	wmu     sync.Mutex
	limiter *rate.Limiter

	// listener is non-nil once callback mode has been enabled.
	listener  *dispatcher
	observers observers

	framesSent     atomic.Uint64
	framesReceived atomic.Uint64
}

// Stats is a snapshot of a client's connection counters.
type Stats struct {
	Connected      bool
	CallbackMode   bool
	ConnectedAt    time.Time
	FramesSent     uint64
	FramesReceived uint64
	Subscribers    int
}

// NewClient creates a client that is not yet connected. Zero values in cfg
// are replaced by the defaults of DefaultConfig.
func NewClient(cfg Config) *Client {
	cfg = cfg.withDefaults()
	id := uuid.NewString()
	base := cfg.logger()
	return &Client{
		cfg: cfg,
		id:  id,
		log: base.With().
			Str("component", "stars").
			Str("client", id).
			Str("node", cfg.NodeName).
			Logger(),
		defaultTimeout: cfg.DefaultTimeout,
		decoder:        NewDecoderLimit(cfg.MaxFrameLength),
		readBuf:        make([]byte, ReadBufferSize),
		limiter:        cfg.limiter(),
	}
}

// ID returns the identifier used to correlate this client's log lines.
func (c *Client) ID() string {
	return c.id
}

// Config returns the effective configuration.
func (c *Client) Config() Config {
	return c.cfg
}

// IsConnected returns true between a successful handshake and Disconnect
// or the first read or write failure.
func (c *Client) IsConnected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.isConnected
}

// IsCallbackMode returns true once the dispatcher owns the socket.
func (c *Client) IsCallbackMode() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.listener != nil
}

// RemoteAddr returns the server address, or an empty string when there is
// no socket.
func (c *Client) RemoteAddr() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn == nil {
		return ""
	}
	return c.conn.RemoteAddr().String()
}

// DefaultTimeout returns the timeout used by Receive.
func (c *Client) DefaultTimeout() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.defaultTimeout
}

// SetDefaultTimeout changes the timeout used by Receive. It is truncated
// to whole milliseconds; zero or less means wait forever.
func (c *Client) SetDefaultTimeout(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.defaultTimeout = d.Truncate(time.Millisecond)
}

// Stats returns a snapshot of the connection counters.
func (c *Client) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Stats{
		Connected:      c.isConnected,
		CallbackMode:   c.listener != nil,
		ConnectedAt:    c.connectedAt,
		FramesSent:     c.framesSent.Load(),
		FramesReceived: c.framesReceived.Load(),
		Subscribers:    c.observers.len(),
	}
}

// =============================================================================
// Connection lifecycle
// =============================================================================

// Connect connects to the server and logs in. If callbackMode is true the
// dispatcher is started once the handshake has succeeded.
func (c *Client) Connect(callbackMode bool) error {
	return c.ConnectWithContext(context.Background(), callbackMode)
}

// ConnectWithContext connects and logs in with a context for cancellation.
//
// Failures are never retried. Whatever the failure, the socket is closed
// and the client is left not connected.
func (c *Client) ConnectWithContext(ctx context.Context, callbackMode bool) error {
	c.mu.Lock()
	if c.isConnected || c.connecting {
		c.mu.Unlock()
		return ErrAlreadyConnected
	}
	stale := c.conn
	c.connecting = true
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		c.connecting = false
		c.mu.Unlock()
	}()

	// A socket left over from a lost connection is released first.
	if stale != nil {
		c.Disconnect()
	}

	// Step 1: keyword list.
	keywords, err := LoadKeywords(c.cfg.Keyword, c.cfg.KeywordFile)
	if err != nil {
		return err
	}

	// Step 2: TCP connection.
	addr := c.cfg.Address()
	c.log.Debug().Str("addr", addr).Msg("dialing")
	dialCtx := ctx
	if c.cfg.DialTimeout > 0 {
		var cancel context.CancelFunc
		dialCtx, cancel = context.WithTimeout(ctx, c.cfg.DialTimeout)
		defer cancel()
	}
	var d net.Dialer
	conn, err := d.DialContext(dialCtx, "tcp", addr)
	if err != nil {
		return NewConnectionError("could not establish TCP/IP connection to "+addr, err)
	}

	c.mu.Lock()
	c.conn = conn
	c.mu.Unlock()

	// Steps 3-5: challenge, login, acknowledgement.
	if err := c.handshake(ctx, conn, keywords); err != nil {
		c.log.Debug().Err(err).Msg("handshake failed")
		c.Disconnect()
		return err
	}

	// Step 6: connected.
	c.mu.Lock()
	if c.conn != conn {
		c.mu.Unlock()
		return NewConnectionError("disconnected during handshake", net.ErrClosed)
	}
	c.isConnected = true
	c.connectedAt = time.Now()
	c.mu.Unlock()
	c.log.Info().Str("addr", addr).Msg("connected")

	if callbackMode && !c.EnableCallbackMode() {
		return NewConnectionError("connection lost before callback mode started", ErrNotConnected)
	}
	return nil
}

func (c *Client) handshake(ctx context.Context, conn net.Conn, keywords []string) error {
	c.rmu.Lock()
	defer c.rmu.Unlock()
	c.decoder.Reset()

	challengeMsg, err := c.receiveStep(ctx, conn)
	if err != nil {
		return err
	}
	challenge, err := ParseChallenge(challengeMsg)
	if err != nil {
		return err
	}
	keyword, err := SelectKeyword(keywords, challenge)
	if err != nil {
		return err
	}
	if err := c.writeLine(conn, c.cfg.NodeName+" "+keyword); err != nil {
		return err
	}

	reply, err := c.receiveStep(ctx, conn)
	if err != nil {
		return err
	}
	if reply.Command != AcceptedCommand {
		return newProtocolError("server rejected login", reply.CombinedCommand(), nil)
	}
	return nil
}

func (c *Client) receiveStep(ctx context.Context, conn net.Conn) (Message, error) {
	if timeout := c.DefaultTimeout(); timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	return c.readMessage(ctx, conn)
}

// Disconnect closes the socket. A pending Receive fails with a
// ReceiveError and the dispatcher, if running, exits before Disconnect
// returns. Calling Disconnect more than once is safe.
func (c *Client) Disconnect() {
	c.mu.Lock()
	conn := c.conn
	listener := c.listener
	c.conn = nil
	c.listener = nil
	c.isConnected = false
	c.mu.Unlock()

	if conn == nil {
		return
	}
	conn.Close()

	// Wait for the dispatcher to finish (outside lock to avoid deadlock)
	if listener != nil {
		<-listener.done
	}
	c.log.Debug().Msg("disconnected")
}

// Close implements io.Closer so a client can be released with defer.
func (c *Client) Close() error {
	c.Disconnect()
	return nil
}

// markBroken records that conn failed and closes it. It is a no-op if conn
// has already been replaced or closed by Disconnect.
func (c *Client) markBroken(conn net.Conn, err error) {
	c.mu.Lock()
	if c.conn != conn || !c.isConnected {
		c.mu.Unlock()
		return
	}
	c.isConnected = false
	c.mu.Unlock()

	conn.Close()
	c.log.Warn().Err(err).Msg("connection lost")
}

// =============================================================================
// Sending
// =============================================================================

// Send sends command (with any parameters) from one node to another as
// "from>to command".
func (c *Client) Send(from, to, command string) error {
	return c.SendWithContext(context.Background(), from+string(AddressSeparator)+to+" "+command)
}

// SendTo sends "to command", leaving the sender to the server.
func (c *Client) SendTo(to, command string) error {
	return c.SendWithContext(context.Background(), to+" "+command)
}

// SendRaw sends a pre-formed line. The line must not contain the frame
// terminator; it is appended automatically.
func (c *Client) SendRaw(line string) error {
	return c.SendWithContext(context.Background(), line)
}

// SendMessage sends m in its wire form.
func (c *Client) SendMessage(m Message) error {
	if err := m.Validate(); err != nil {
		return newTransmitError("message cannot be framed", err)
	}
	return c.SendWithContext(context.Background(), m.WireForm())
}

// SendWithContext sends a pre-formed line, waiting for the send rate
// limiter if one is configured.
func (c *Client) SendWithContext(ctx context.Context, line string) error {
	c.mu.Lock()
	if !c.isConnected {
		c.mu.Unlock()
		return ErrNotConnected
	}
	conn := c.conn
	c.mu.Unlock()

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return newTransmitError("send rate wait", err)
		}
	}
	return c.writeLine(conn, line)
}

func (c *Client) writeLine(conn net.Conn, line string) error {
	if strings.ContainsAny(line, "\r\n") {
		return newTransmitError("line contains a frame terminator", ErrInvalidField)
	}

	c.wmu.Lock()
	defer c.wmu.Unlock()

	if _, err := io.WriteString(conn, line+"\n"); err != nil {
		c.markBroken(conn, err)
		return newTransmitError("write failed", err)
	}
	c.framesSent.Add(1)
	return nil
}

// =============================================================================
// Receiving
// =============================================================================

// Receive waits for the next message using the default timeout.
func (c *Client) Receive() (Message, error) {
	return c.ReceiveWithTimeout(c.DefaultTimeout())
}

// ReceiveWithTimeout waits for the next message for at most timeout.
// Zero or less waits until a message arrives or the connection fails.
func (c *Client) ReceiveWithTimeout(timeout time.Duration) (Message, error) {
	ctx := context.Background()
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	return c.ReceiveWithContext(ctx)
}

// ReceiveWithContext waits for the next message until ctx is done.
//
// A context deadline yields a TimeoutError; the partly read frame, if any,
// stays buffered for the next call. A closed socket or I/O failure yields
// a ReceiveError and marks the client not connected.
func (c *Client) ReceiveWithContext(ctx context.Context) (Message, error) {
	c.rmu.Lock()
	defer c.rmu.Unlock()

	c.mu.Lock()
	conn, connected, listening := c.conn, c.isConnected, c.listener != nil
	c.mu.Unlock()

	switch {
	case listening:
		return Message{}, ErrCallbackMode
	case !connected:
		return Message{}, ErrNotConnected
	}
	return c.readMessage(ctx, conn)
}

// readMessage returns the next frame from the decoder, reading the socket
// as needed. The caller must hold rmu.
func (c *Client) readMessage(ctx context.Context, conn net.Conn) (Message, error) {
	if m, ok := c.decoder.Next(); ok {
		c.framesReceived.Add(1)
		return m, nil
	}

	// The deadline is set once: interruptRead moves it into the past on
	// cancellation and nothing may overwrite that.
	deadline, _ := ctx.Deadline()
	conn.SetReadDeadline(deadline)
	stop := interruptRead(ctx, conn)
	defer stop()

	for {
		n, err := conn.Read(c.readBuf)
		if n > 0 {
			if _, werr := c.decoder.Write(c.readBuf[:n]); werr != nil {
				c.markBroken(conn, werr)
				return Message{}, newReceiveError("could not frame input", werr)
			}
			if m, ok := c.decoder.Next(); ok {
				c.framesReceived.Add(1)
				return m, nil
			}
		}
		if err != nil {
			return Message{}, c.readError(ctx, conn, err)
		}
	}
}

func (c *Client) readError(ctx context.Context, conn net.Conn, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		if errors.Is(ctxErr, context.DeadlineExceeded) {
			return newTimeoutError("no message received in time", ctxErr)
		}
		return newReceiveError("receive cancelled", ctxErr)
	}
	if errors.Is(err, os.ErrDeadlineExceeded) {
		return newTimeoutError("no message received in time", err)
	}

	c.decoder.Reset()
	c.markBroken(conn, err)
	switch {
	case errors.Is(err, io.EOF):
		return newReceiveError("connection closed by server", err)
	case errors.Is(err, net.ErrClosed):
		return newReceiveError("connection closed", err)
	default:
		return newReceiveError("read failed", err)
	}
}

var aLongTimeAgo = time.Unix(1, 0)

// interruptRead unblocks a pending read on conn when ctx is cancelled. The
// returned stop function must be called before the next read is issued.
func interruptRead(ctx context.Context, conn net.Conn) (stop func()) {
	if ctx.Done() == nil {
		return func() {}
	}
	done := make(chan struct{})
	finished := make(chan struct{})
	go func() {
		defer close(finished)
		select {
		case <-ctx.Done():
			conn.SetReadDeadline(aLongTimeAgo)
		case <-done:
		}
	}()
	return func() {
		close(done)
		<-finished
	}
}
