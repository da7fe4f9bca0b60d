package core

import "io"

// DefaultQueueSize bounds a client's outbound event queue when no explicit
// size is configured. A full queue drops events instead of blocking the
// producer, so a dead or slow peer cannot stall coordinator calls.
const DefaultQueueSize = 64

// Client is one connected, authenticated player session.
type Client struct {
	Name string
	Addr string

	// Conn is the underlying connection handle, owned by the transport
	// layer. The core only holds it opaquely.
	Conn io.Closer

	// Events is the outbound queue. Exactly one consumer (the session's
	// write loop) drains it; any coordinator call may produce into it.
	Events chan *Event

	// Game is the name of the lobby this client is currently in, or ""
	// if none. Guarded by the registry lock.
	Game string
}

// NewClient constructs a session record with a bounded event queue.
// queueSize <= 0 selects DefaultQueueSize.
func NewClient(name, addr string, conn io.Closer, queueSize int) *Client {
	if queueSize <= 0 {
		queueSize = DefaultQueueSize
	}
	return &Client{
		Name:   name,
		Addr:   addr,
		Conn:   conn,
		Events: make(chan *Event, queueSize),
	}
}

// send enqueues an event without blocking. Returns false if the queue is
// full and the event was dropped.
func (c *Client) send(ev *Event) bool {
	select {
	case c.Events <- ev:
		return true
	default:
		return false
	}
}
