// Package feed maintains the telnet session to the skimmer aggregation
// server. It resolves the host, logs in with the operator callsign, and
// hands every received line to a handler. The session reconnects forever;
// only context cancellation stops it.
package feed

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net"
	"sort"
	"strings"
	"time"

	"github.com/ziutek/telnet"
)

const (
	connectTimeout   = 10 * time.Second
	handshakeTimeout = 15 * time.Second
	readTick         = 2 * time.Second
	silenceLimit     = 5 * time.Minute
	retryDelay       = 5 * time.Second
)

// Handler receives one raw feed line with the CRLF stripped. It runs on the
// feed goroutine and must not block.
type Handler func(line string)

// Client is a reconnecting feed connection. The zero value is not usable;
// construct with New.
type Client struct {
	host     string
	port     int
	callsign string
	handler  Handler

	// injection points for tests
	dial   func(ctx context.Context, addr string) (net.Conn, error)
	lookup func(ctx context.Context, host string) ([]net.IPAddr, error)
}

// New creates a client for the given server. handler is called once per
// received line.
func New(host string, port int, callsign string, handler Handler) *Client {
	return &Client{
		host:     host,
		port:     port,
		callsign: strings.ToUpper(strings.TrimSpace(callsign)),
		handler:  handler,
		dial:     dialTCP,
		lookup:   net.DefaultResolver.LookupIPAddr,
	}
}

// dialTCP returns the raw connection. The telnet layer is only installed
// after login; the handshake must see IAC negotiation bytes unfiltered to
// recognize them as a prompt.
func dialTCP(_ context.Context, addr string) (net.Conn, error) {
	return net.DialTimeout("tcp", addr, connectTimeout)
}

// Run resolves, connects and streams until ctx is canceled. Failed sessions
// roll over to the next address candidate; exhausted rounds retry after a
// short delay. The only return value is ctx.Err().
func (c *Client) Run(ctx context.Context) error {
	for {
		candidates, err := c.resolve(ctx)
		if err != nil {
			log.Printf("feed: resolve %s: %v", c.host, err)
		}
		for _, addr := range candidates {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			err := c.session(ctx, addr)
			if ctx.Err() != nil {
				return ctx.Err()
			}
			log.Printf("feed: session with %s ended: %v", addr, err)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(retryDelay):
		}
	}
}

// resolve returns host:port candidates, IPv6 first. The aggregation servers
// publish both families and the v6 path has proven more stable.
func (c *Client) resolve(ctx context.Context) ([]string, error) {
	addrs, err := c.lookup(ctx, c.host)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(addrs, func(i, j int) bool {
		return addrs[i].IP.To4() == nil && addrs[j].IP.To4() != nil
	})
	out := make([]string, 0, len(addrs))
	for _, a := range addrs {
		out = append(out, net.JoinHostPort(a.IP.String(), fmt.Sprintf("%d", c.port)))
	}
	return out, nil
}

func (c *Client) session(ctx context.Context, addr string) error {
	conn, err := c.dial(ctx, addr)
	if err != nil {
		return fmt.Errorf("dial: %w", err)
	}
	defer conn.Close()

	// Closing the conn is what unblocks the deadline reads on cancel.
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-done:
		}
	}()

	log.Printf("feed: connected to %s", addr)
	s := newSession(conn)
	if err := s.login(c.callsign); err != nil {
		return fmt.Errorf("login: %w", err)
	}
	log.Printf("feed: logged in as %s", c.callsign)
	return s.stream(ctx, c.handler)
}

// loginPrompts are the byte sequences that mean the server wants our
// callsign: the telnet IAC WILL ECHO negotiation some servers lead with, or
// the textual prompt.
var loginPrompts = [][]byte{
	{0xff, 0xfb, 0x01},
	[]byte("call: "),
}

// headerEnds mark the end of the post-login banner; spot lines follow.
var headerEnds = [][]byte{
	[]byte("\r\n\r\n"),
	[]byte("Welcome to"),
}

// session reads from r, which starts as the raw connection so the login
// handshake sees telnet negotiation bytes as-is. Deadlines always go to
// conn; r may wrap it.
type session struct {
	conn net.Conn
	r    io.Reader
	buf  []byte
}

func newSession(conn net.Conn) *session {
	return &session{conn: conn, r: conn}
}

func (s *session) login(callsign string) error {
	if err := s.waitFor(loginPrompts); err != nil {
		return fmt.Errorf("prompt: %w", err)
	}
	if _, err := s.conn.Write([]byte(callsign + "\r\n")); err != nil {
		return err
	}
	if err := s.waitFor(headerEnds); err != nil {
		return fmt.Errorf("header: %w", err)
	}
	// From here on the server sends spot traffic with telnet commands
	// possibly interleaved; let the telnet layer strip them.
	tc, err := telnet.NewConn(s.conn)
	if err != nil {
		return fmt.Errorf("telnet: %w", err)
	}
	s.r = tc
	return nil
}

// waitFor reads until one of the markers appears, then discards everything
// through the marker. Anything on the wire after the marker stays buffered.
func (s *session) waitFor(markers [][]byte) error {
	deadline := time.Now().Add(handshakeTimeout)
	for {
		for _, m := range markers {
			if i := bytes.Index(s.buf, m); i >= 0 {
				s.buf = s.buf[i+len(m):]
				return nil
			}
		}
		if time.Now().After(deadline) {
			return errors.New("timed out waiting for remote")
		}
		if err := s.readMore(deadline); err != nil && !isTimeout(err) {
			return err
		}
	}
}

func (s *session) stream(ctx context.Context, handler Handler) error {
	last := time.Now()
	for {
		err := s.readMore(time.Now().Add(readTick))
		for {
			line, ok := s.nextLine()
			if !ok {
				break
			}
			last = time.Now()
			if line != "" {
				handler(line)
			}
		}
		if err != nil && !isTimeout(err) {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		// A healthy feed never goes quiet this long; assume a dead
		// connection the TCP stack has not noticed and force a redial.
		if time.Since(last) > silenceLimit {
			return fmt.Errorf("no traffic for %s", silenceLimit)
		}
	}
}

// readMore appends whatever arrives before the deadline to the buffer.
func (s *session) readMore(deadline time.Time) error {
	if err := s.conn.SetReadDeadline(deadline); err != nil {
		return err
	}
	chunk := make([]byte, 4096)
	n, err := s.r.Read(chunk)
	if n > 0 {
		s.buf = append(s.buf, chunk[:n]...)
	}
	return err
}

func (s *session) nextLine() (string, bool) {
	i := bytes.IndexByte(s.buf, '\n')
	if i < 0 {
		return "", false
	}
	line := strings.TrimRight(string(s.buf[:i]), "\r")
	s.buf = s.buf[i+1:]
	return line, true
}

func isTimeout(err error) bool {
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}
