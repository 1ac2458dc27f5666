package ftp

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/cactusdev/ftp/internal/ratelimit"
)

// Config holds the parameters used to dial and log into a server. Zero
// values are filled in by NewClient with the defaults noted per field.
type Config struct {
	// Host is the server address. Default: "localhost".
	Host string
	// Port is the control connection port. Default: 21.
	Port int
	// User is the login name. Default: "anonymous".
	User string
	// Password is the login password. Default: "anonymous".
	Password string
	// Timeout bounds dialing and each command's reply wait. Default: 10s.
	Timeout time.Duration
	// KeepAlive is the interval at which a NOOP is sent; the NOOP goes out
	// on that schedule whether or not other commands ran in between. Zero
	// selects the default; a negative value disables the keep-alive
	// goroutine. Default: 10s.
	KeepAlive time.Duration
	// BandwidthLimit caps transfer throughput in bytes/sec. Zero means
	// unlimited.
	BandwidthLimit int64
	// Logger receives debug-level events: the greeting on connect and a
	// failed keep-alive NOOP. Individual commands and replies are not
	// logged. Default: a disabled logger (nothing is emitted).
	Logger *slog.Logger

	parsers []ListingParser
}

func (cfg *Config) setDefaults() {
	if cfg.Host == "" {
		cfg.Host = "localhost"
	}
	if cfg.Port == 0 {
		cfg.Port = 21
	}
	if cfg.User == "" {
		cfg.User = "anonymous"
	}
	if cfg.Password == "" {
		cfg.Password = "anonymous"
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.KeepAlive == 0 {
		cfg.KeepAlive = 10 * time.Second
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
}

// Client is an FTP control connection plus the state negotiated over it
// (login, advertised features, current transfer type). It is not safe for
// concurrent use by multiple goroutines; commands are expected to be issued
// one at a time, matching the protocol's single-command-in-flight model
// (spec.md §5).
type Client struct {
	cfg      Config
	cc       *controlChannel
	features FeatureSet
	limiter  *ratelimit.Limiter

	currentType string

	quitChan chan struct{}
}

// NewClient builds a Client from the given options but does not dial;
// call Connect to open the connection and log in.
func NewClient(opts ...Option) (*Client, error) {
	var cfg Config
	for _, opt := range opts {
		if err := opt(&cfg); err != nil {
			return nil, argErr("NewClient", err.Error())
		}
	}
	cfg.setDefaults()
	return &Client{cfg: cfg, limiter: ratelimit.New(cfg.BandwidthLimit)}, nil
}

// Connect dials the server, reads the greeting, logs in, negotiates
// features via FEAT, enables UTF8 if advertised, and switches to binary
// (TYPE I) transfer mode. It starts the keep-alive goroutine if
// Config.KeepAlive is positive.
func (c *Client) Connect(ctx context.Context) error {
	cc, err := dialControlChannel(ctx, c.cfg.Host, fmt.Sprintf("%d", c.cfg.Port), c.cfg.Timeout)
	if err != nil {
		return err
	}
	c.cc = cc

	cc.Lock()
	greeting, err := cc.nextReply()
	cc.Unlock()
	if err != nil {
		return err
	}
	if greeting.Code != 220 {
		cc.close()
		return protocolErr("CONNECT", greeting)
	}
	c.cfg.Logger.Debug("ftp connected", "host", c.cfg.Host, "port", c.cfg.Port, "greeting", greeting.Text)

	if err := c.login(); err != nil {
		cc.close()
		return err
	}

	if err := c.negotiateFeatures(); err != nil {
		cc.close()
		return err
	}

	if c.features.UTF8 {
		// Best-effort: a server advertising UTF8 but rejecting OPTS is
		// tolerated, since FEAT already told us it understands UTF-8 names.
		_, _ = c.cc.do("OPTS", "UTF8", "ON")
	}

	if err := c.Type("I"); err != nil {
		cc.close()
		return err
	}

	if c.cfg.KeepAlive > 0 {
		c.quitChan = make(chan struct{})
		go c.keepAlive()
	}
	return nil
}

func (c *Client) login() error {
	cc := c.cc
	cc.Lock()
	reply, err := cc.command("USER", c.cfg.User)
	cc.Unlock()
	if err != nil {
		return err
	}
	if reply.Is2xx() {
		return nil
	}
	if !reply.Is3xx() {
		return replyErr("USER", reply, false)
	}

	cc.Lock()
	reply, err = cc.command("PASS", c.cfg.Password)
	cc.Unlock()
	if err != nil {
		return err
	}
	if !reply.Is2xx() {
		return replyErr("PASS", reply, false)
	}
	return nil
}

func (c *Client) negotiateFeatures() error {
	cc := c.cc
	cc.Lock()
	reply, err := cc.command("FEAT")
	cc.Unlock()
	if err != nil {
		return err
	}
	if reply.Code != 211 {
		return protocolErr("FEAT", reply)
	}
	c.features = parseFeatureLines(reply.Lines)
	return nil
}

// Features returns the server's advertised extension support, as
// negotiated during Connect.
func (c *Client) Features() FeatureSet { return c.features }

// Host returns the configured server host.
func (c *Client) Host() string { return c.cfg.Host }

// arg encodes a path argument for the wire, using UTF-8 when the server
// advertised the UTF8 feature and strict Latin-1 otherwise (spec.md §4.2).
func (c *Client) arg(path string) string {
	return encodePathArg(path, c.features.UTF8)
}

// Type switches the transfer type ("I" for binary, "A" for ASCII),
// skipping the round trip if it's already current.
func (c *Client) Type(t string) error {
	if c.currentType == t {
		return nil
	}
	reply, err := c.cc.do("TYPE", t)
	if err != nil {
		return err
	}
	if !reply.Is2xx() {
		return replyErr("TYPE", reply, false)
	}
	c.currentType = t
	return nil
}

// Noop sends NOOP, used both directly and by the keep-alive goroutine.
func (c *Client) Noop() error {
	reply, err := c.cc.do("NOOP")
	if err != nil {
		return err
	}
	if !reply.Is2xx() {
		return replyErr("NOOP", reply, false)
	}
	return nil
}

func (c *Client) keepAlive() {
	ticker := time.NewTicker(c.cfg.KeepAlive)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			if err := c.Noop(); err != nil {
				c.cfg.Logger.Debug("ftp keepalive failed", "err", err)
				return
			}
		case <-c.quitChan:
			return
		}
	}
}

// Quit sends QUIT and closes the control connection.
func (c *Client) Quit() error {
	if c.quitChan != nil {
		close(c.quitChan)
	}
	reply, err := c.cc.do("QUIT")
	closeErr := c.cc.close()
	if err != nil {
		return err
	}
	if reply != nil && !reply.Is2xx() {
		return replyErr("QUIT", reply, false)
	}
	if closeErr != nil {
		return netErr("QUIT", closeErr)
	}
	return nil
}

// beginDataCommand opens a passive data connection, issues cmd, and
// returns the open dataChannel plus the preliminary reply. The caller must
// call endDataCommand once the transfer is finished, whether it succeeded
// or not. The control channel's lock is held from this call through
// endDataCommand, so no other command can interleave on the wire.
func (c *Client) beginDataCommand(cmd string, args ...string) (*dataChannel, *Reply, error) {
	c.cc.Lock()

	conn, err := openPassiveDataConn(c.cc)
	if err != nil {
		c.cc.Unlock()
		return nil, nil, err
	}

	reply, err := c.cc.command(cmd, args...)
	if err != nil {
		conn.Close()
		c.cc.Unlock()
		return nil, nil, err
	}
	if reply.Is4xx() || reply.Is5xx() {
		conn.Close()
		c.cc.Unlock()
		return nil, reply, replyErr(cmd, reply, true)
	}

	return &dataChannel{conn: conn, limiter: c.limiter}, reply, nil
}

// endDataCommand closes the data connection, reads the transfer's final
// reply, and releases the lock taken by beginDataCommand.
func (c *Client) endDataCommand(op string, dc *dataChannel) error {
	defer c.cc.Unlock()

	closeErr := dc.close()
	reply, err := c.cc.nextReply()
	if err != nil {
		return err
	}
	if !reply.Is2xx() {
		return replyErr(op, reply, false)
	}
	if closeErr != nil {
		return netErr(op, closeErr)
	}
	return nil
}
