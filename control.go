package ftp

import (
	"context"
	"fmt"
	"net"
	"strings"
	"sync"
	"time"
)

// controlChannel owns the control TCP socket: it feeds inbound bytes to a
// replyParser from a single reader goroutine and queues completed replies
// in FIFO order (spec.md §4.2).
//
// sendLine, nextReply and command assume the caller already holds the
// channel's lock (do takes it itself); callers serialize a full command — including the
// data-channel window between a transfer's preliminary and final reply —
// by calling Lock, issuing the command(s), and Unlock-ing only once the
// whole exchange is done. This is what guarantees "at most one command in
// flight" (spec.md §5) without another command interleaving mid-transfer.
type controlChannel struct {
	conn    net.Conn
	host    string
	timeout time.Duration

	mu sync.Mutex

	replies chan *Reply // single-producer (readLoop), single-consumer (nextReply)
	readErr chan error  // receives the fatal read error, if any

	closeOnce sync.Once
	closed    chan struct{}
}

// dialControlChannel opens the TCP control connection and starts the
// background reader. It does not itself require the greeting to be 220 —
// that check belongs to the caller (Client.Connect), since only the caller
// knows the operation name to attach to a failure.
func dialControlChannel(ctx context.Context, host, port string, timeout time.Duration) (*controlChannel, error) {
	dialer := &net.Dialer{Timeout: timeout}
	conn, err := dialer.DialContext(ctx, "tcp", net.JoinHostPort(host, port))
	if err != nil {
		return nil, netErr("CONNECT", err)
	}

	cc := &controlChannel{
		conn:    conn,
		host:    host,
		timeout: timeout,
		replies: make(chan *Reply, 16),
		readErr: make(chan error, 1),
		closed:  make(chan struct{}),
	}
	go cc.readLoop()
	return cc, nil
}

// readLoop is the Reply Parser's single producer: it reads whatever bytes
// the kernel hands back, feeds them to the parser, and pushes completed
// replies onto the queue as soon as they're assembled (no polling).
func (cc *controlChannel) readLoop() {
	parser := &replyParser{}
	buf := make([]byte, 4096)
	for {
		n, err := cc.conn.Read(buf)
		if n > 0 {
			replies, perr := parser.feed(buf[:n])
			for _, r := range replies {
				select {
				case cc.replies <- r:
				case <-cc.closed:
					return
				}
			}
			if perr != nil {
				cc.fail(perr)
				return
			}
		}
		if err != nil {
			cc.fail(err)
			return
		}
	}
}

// fail marks the channel destroyed: any reply already queued stays
// deliverable, but nextReply reports the failure once the queue drains, and
// sendLine starts failing immediately.
func (cc *controlChannel) fail(err error) {
	select {
	case cc.readErr <- err:
	default:
	}
	cc.closeOnce.Do(func() { close(cc.closed) })
}

// Lock acquires the in-flight-command lock. Callers must Unlock once their
// whole command/reply/data-channel sequence is complete.
func (cc *controlChannel) Lock() { cc.mu.Lock() }

// Unlock releases the in-flight-command lock.
func (cc *controlChannel) Unlock() { cc.mu.Unlock() }

// sendLine writes a command line (CRLF-terminated) to the control socket.
// Caller must hold the lock.
func (cc *controlChannel) sendLine(line string) error {
	select {
	case <-cc.closed:
		return netErr(firstWord(line), fmt.Errorf("control channel closed"))
	default:
	}

	if cc.timeout > 0 {
		if err := cc.conn.SetWriteDeadline(time.Now().Add(cc.timeout)); err != nil {
			return netErr(firstWord(line), err)
		}
	}
	if _, err := fmt.Fprintf(cc.conn, "%s\r\n", line); err != nil {
		cc.fail(err)
		return netErr(firstWord(line), err)
	}
	return nil
}

// nextReply delivers the next queued reply, waiting up to the configured
// timeout if the queue is empty. Caller must hold the lock.
//
// A queued reply always wins over a pending read error: fail() can send on
// readErr while replies parsed just before the failure are still sitting
// in the channel, and Go's select doesn't prefer either case when both are
// ready, so the queue is drained non-blocking first (and re-checked after
// picking the error case) to honor "any reply already queued stays
// deliverable" (spec.md §8.1).
func (cc *controlChannel) nextReply() (*Reply, error) {
	select {
	case r := <-cc.replies:
		return r, nil
	default:
	}

	var timeoutCh <-chan time.Time
	if cc.timeout > 0 {
		timer := time.NewTimer(cc.timeout)
		defer timer.Stop()
		timeoutCh = timer.C
	}

	select {
	case r := <-cc.replies:
		return r, nil
	case err := <-cc.readErr:
		select {
		case r := <-cc.replies:
			return r, nil
		default:
		}
		return nil, netErr("RECV", err)
	case <-timeoutCh:
		cc.fail(fmt.Errorf("timed out waiting for reply"))
		return nil, timeoutErr("RECV", fmt.Errorf("timed out waiting for reply after %s", cc.timeout))
	}
}

// command sends a command (and optional arguments) and returns its reply.
// Caller must hold the lock.
func (cc *controlChannel) command(name string, args ...string) (*Reply, error) {
	line := name
	if len(args) > 0 {
		line = name + " " + strings.Join(args, " ")
	}
	if err := cc.sendLine(line); err != nil {
		return nil, err
	}
	return cc.nextReply()
}

// do is the common case: acquire the lock, run one command, release it.
func (cc *controlChannel) do(name string, args ...string) (*Reply, error) {
	cc.Lock()
	defer cc.Unlock()
	return cc.command(name, args...)
}

func (cc *controlChannel) close() error {
	cc.closeOnce.Do(func() { close(cc.closed) })
	return cc.conn.Close()
}

func firstWord(s string) string {
	if i := strings.IndexByte(s, ' '); i >= 0 {
		return s[:i]
	}
	return s
}
