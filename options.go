package ftp

import (
	"log/slog"
	"time"
)

// Option configures a Config before Connect dials the server.
type Option func(*Config) error

// WithHost sets the server host. Default: "localhost".
func WithHost(host string) Option {
	return func(cfg *Config) error {
		cfg.Host = host
		return nil
	}
}

// WithPort sets the server control port. Default: 21.
func WithPort(port int) Option {
	return func(cfg *Config) error {
		cfg.Port = port
		return nil
	}
}

// WithCredentials sets the login user and password. Default: "anonymous"/"anonymous".
func WithCredentials(user, password string) Option {
	return func(cfg *Config) error {
		cfg.User = user
		cfg.Password = password
		return nil
	}
}

// WithTimeout sets the dial and per-command reply timeout. Default: 10s.
func WithTimeout(timeout time.Duration) Option {
	return func(cfg *Config) error {
		cfg.Timeout = timeout
		return nil
	}
}

// WithKeepAlive sets how often the connection sends NOOP to stay alive; the
// NOOP is sent on that schedule whether or not other commands ran in
// between. Zero selects the default; a negative value disables the
// keep-alive goroutine. Default: 10s.
func WithKeepAlive(interval time.Duration) Option {
	return func(cfg *Config) error {
		cfg.KeepAlive = interval
		return nil
	}
}

// WithBandwidthLimit caps transfer throughput in bytes per second. Zero (the
// default) means unlimited.
func WithBandwidthLimit(bytesPerSecond int64) Option {
	return func(cfg *Config) error {
		cfg.BandwidthLimit = bytesPerSecond
		return nil
	}
}

// WithLogger sets the logger that receives the client's debug-level events
// (the greeting on connect and a failed keep-alive NOOP); individual
// commands and replies are not logged. The default is a no-op logger.
func WithLogger(logger *slog.Logger) Option {
	return func(cfg *Config) error {
		cfg.Logger = logger
		return nil
	}
}

// WithListParser prepends a custom LIST-line parser, tried before the
// built-in EPLF, DOS and Unix parsers. MLSD output is not passed to it.
func WithListParser(parser ListingParser) Option {
	return func(cfg *Config) error {
		cfg.parsers = append([]ListingParser{parser}, cfg.parsers...)
		return nil
	}
}
