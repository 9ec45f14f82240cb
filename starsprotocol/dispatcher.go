package starsprotocol

import (
	"net"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Handler receives messages decoded in callback mode. Handlers run on the
// dispatcher goroutine, one message at a time; a handler that blocks stalls
// delivery to every other subscriber, and a handler must not call
// Disconnect synchronously.
type Handler func(m Message)

// SubscriptionID identifies a registered Handler.
type SubscriptionID uint64

// Subscribe registers h for messages decoded in callback mode and returns
// its id. Handlers are called in registration order. A nil handler is
// ignored and yields id 0.
func (c *Client) Subscribe(h Handler) SubscriptionID {
	if h == nil {
		return 0
	}
	return c.observers.add(h)
}

// Unsubscribe removes a handler. It returns false if id is unknown.
func (c *Client) Unsubscribe(id SubscriptionID) bool {
	return c.observers.remove(id)
}

// EnableCallbackMode hands the socket to a background goroutine that
// decodes every incoming frame and passes it to the subscribers.
//
// The hand-over is permanent for the connection: Receive fails with
// ErrCallbackMode afterwards. When the socket is closed or fails, the
// goroutine stops silently and IsConnected turns false; no error is
// delivered anywhere else.
//
// It returns false if the client is not connected, true if the dispatcher
// was started or is already running.
func (c *Client) EnableCallbackMode() bool {
	// Waits for a pending Receive to finish.
	c.rmu.Lock()
	defer c.rmu.Unlock()

	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.isConnected || c.conn == nil {
		return false
	}
	if c.listener != nil {
		return true
	}

	c.listener = &dispatcher{
		client: c,
		conn:   c.conn,
		done:   make(chan struct{}),
	}
	go c.listener.run()
	c.log.Debug().Msg("callback mode enabled")
	return true
}

// dispatcher is the callback mode receive loop of one connection.
type dispatcher struct {
	client *Client
	conn   net.Conn
	done   chan struct{}
}

func (d *dispatcher) run() {
	defer close(d.done)
	c := d.client

	// Frames that arrived together with the handshake reply are already
	// buffered.
	d.drain()

	d.conn.SetReadDeadline(time.Time{})
	buf := make([]byte, ReadBufferSize)
	for {
		n, err := d.conn.Read(buf)
		if n > 0 {
			if _, werr := c.decoder.Write(buf[:n]); werr != nil {
				d.stop(werr)
				return
			}
			d.drain()
		}
		if err != nil {
			d.stop(err)
			return
		}
	}
}

func (d *dispatcher) drain() {
	c := d.client
	for {
		m, ok := c.decoder.Next()
		if !ok {
			return
		}
		c.framesReceived.Add(1)
		c.observers.notify(m, &c.log)
	}
}

func (d *dispatcher) stop(err error) {
	c := d.client
	c.markBroken(d.conn, err)
	c.log.Debug().Err(err).Msg("callback loop stopped")
}

// observers is an ordered registry of handlers.
type observers struct {
	mu   sync.RWMutex
	next SubscriptionID
	list []observer
}

type observer struct {
	id      SubscriptionID
	handler Handler
}

func (o *observers) add(h Handler) SubscriptionID {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.next++
	o.list = append(o.list, observer{id: o.next, handler: h})
	return o.next
}

func (o *observers) remove(id SubscriptionID) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	for i, ob := range o.list {
		if ob.id == id {
			o.list = append(o.list[:i:i], o.list[i+1:]...)
			return true
		}
	}
	return false
}

func (o *observers) len() int {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return len(o.list)
}

// snapshot returns the current handlers. The returned slice is never
// modified by add or remove.
func (o *observers) snapshot() []observer {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.list
}

func (o *observers) notify(m Message, log *zerolog.Logger) {
	for _, ob := range o.snapshot() {
		ob.call(m, log)
	}
}

func (ob observer) call(m Message, log *zerolog.Logger) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().
				Interface("panic", r).
				Uint64("subscription", uint64(ob.id)).
				Msg("subscriber panicked")
		}
	}()
	ob.handler(m)
}
