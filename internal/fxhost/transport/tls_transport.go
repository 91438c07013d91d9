// Package transport provides a reference fxhost.Transport over a
// TLS-wrapped net.Conn, adapted from the teacher's internal/svc/tcp
// connection handler's Read/Write loop (stripped of the actor-model
// message envelope, since FilterX's Transport interface is a direct
// synchronous read/write/poll contract, not an actor mailbox).
package transport

import (
	"crypto/tls"
	"errors"
	"io"
	"net"

	"filterx/internal/fxhost"
)

// Conn wraps a TLS connection as an fxhost.Transport. Go's net.Conn has
// no non-blocking read/write primitive and Conn sets no deadline of its
// own; when a Read or Write times out on a deadline the caller set, it
// returns the bytes transferred so far with a nil error instead of
// -1/EAGAIN. It does not report which side needs another attempt:
// PollMask always reports both.
type Conn struct {
	conn *tls.Conn
}

// Dial opens a TLS connection to addr and wraps it as a Transport.
func Dial(network, addr string, cfg *tls.Config) (*Conn, error) {
	c, err := tls.Dial(network, addr, cfg)
	if err != nil {
		return nil, err
	}
	return &Conn{conn: c}, nil
}

// Wrap adapts an already-established TLS connection, e.g. one accepted
// by a tls.Listener.
func Wrap(c *tls.Conn) *Conn { return &Conn{conn: c} }

func (c *Conn) Read(buf []byte) (int, error) {
	n, err := c.conn.Read(buf)
	if err != nil {
		if errors.Is(err, net.ErrClosed) {
			return n, err
		}
		var netErr net.Error
		if errors.As(err, &netErr) && netErr.Timeout() {
			return n, nil
		}
		// spec.md section 4.9: on peer shutdown during a read, reply
		// in kind with our own close_notify before returning.
		if errors.Is(err, io.EOF) {
			_ = c.conn.CloseWrite()
		}
		return n, err
	}
	return n, nil
}

func (c *Conn) Write(buf []byte) (int, error) {
	n, err := c.conn.Write(buf)
	if err != nil {
		var netErr net.Error
		if errors.As(err, &netErr) && netErr.Timeout() {
			return n, nil
		}
		return n, err
	}
	return n, nil
}

// PollMask always reports both directions ready: the underlying
// net.Conn has no cheap way to ask the kernel which side is actually
// ready without attempting the operation, so this reference
// implementation defers that decision to Read/Write's own timeout
// handling above.
func (c *Conn) PollMask() fxhost.PollEvent {
	return fxhost.PollIn | fxhost.PollOut
}

func (c *Conn) Shutdown() error {
	// CloseWrite sends a close_notify alert (spec.md section 4.9's
	// graceful WANT_READ/WANT_WRITE renegotiation, simplified to a
	// single best-effort alert); the socket closes regardless of
	// whether the peer acknowledges it.
	_ = c.conn.CloseWrite()
	return c.conn.Close()
}

var _ fxhost.Transport = (*Conn)(nil)
