package ftp

import (
	"errors"
	"fmt"
)

// Kind classifies the failure mode of an Error, so callers can branch on
// the cause instead of parsing error strings.
type Kind int

const (
	// KindNetwork covers socket I/O failures, short writes, and unexpected EOF.
	KindNetwork Kind = iota
	// KindTimeout covers a dial or reply wait that exceeded its deadline.
	KindTimeout
	// KindAuth covers a login rejected by the server (530 after PASS).
	KindAuth
	// KindProtocol covers an unexpected reply code or malformed reply line.
	KindProtocol
	// KindNotFound covers a missing remote file or directory (550 on
	// DELE/RNFR/SIZE/MDTM).
	KindNotFound
	// KindExists covers a local destination that refuses to be overwritten.
	KindExists
	// KindArgument covers illegal input: empty paths, empty rename operands.
	KindArgument
	// KindFeatureMissing covers a required extension the server never
	// advertised in FEAT (MDTM/SIZE/MFMT).
	KindFeatureMissing
)

// String returns a short, lowercase name for the kind.
func (k Kind) String() string {
	switch k {
	case KindNetwork:
		return "network"
	case KindTimeout:
		return "timeout"
	case KindAuth:
		return "auth"
	case KindProtocol:
		return "protocol"
	case KindNotFound:
		return "not_found"
	case KindExists:
		return "exists"
	case KindArgument:
		return "argument"
	case KindFeatureMissing:
		return "feature_missing"
	default:
		return "unknown"
	}
}

// Error is the single error type returned by this package. It carries the
// failure Kind plus the protocol context (command and reply, when there is
// one) needed to debug a failed operation.
type Error struct {
	// Kind classifies the failure.
	Kind Kind

	// Op is the command or public operation that failed (e.g. "STOR",
	// "DirectoryExists").
	Op string

	// Code is the FTP reply code, or 0 if the failure never reached the
	// wire (e.g. KindArgument).
	Code int

	// Reply is the server's reply text, if any.
	Reply string

	// Err is the underlying cause, if any (e.g. a *net.OpError).
	Err error
}

func (e *Error) Error() string {
	switch {
	case e.Err != nil && e.Code != 0:
		return fmt.Sprintf("ftp: %s: %s (code %d): %v", e.Op, e.Reply, e.Code, e.Err)
	case e.Err != nil:
		return fmt.Sprintf("ftp: %s: %v", e.Op, e.Err)
	case e.Code != 0:
		return fmt.Sprintf("ftp: %s: %s (code %d)", e.Op, e.Reply, e.Code)
	default:
		return fmt.Sprintf("ftp: %s: %s", e.Op, e.Kind)
	}
}

func (e *Error) Unwrap() error { return e.Err }

// IsKind reports whether err is (or wraps) an *Error carrying the given Kind.
func IsKind(err error, kind Kind) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	return e.Kind == kind
}

// protocolErr builds a KindProtocol error from a command and its reply.
func protocolErr(op string, reply *Reply) *Error {
	return &Error{Kind: KindProtocol, Op: op, Code: reply.Code, Reply: reply.Text}
}

// replyErr maps a reply's code to a Kind: 550 -> NotFound when the caller
// passes notFoundOn550, 530 -> Auth for any command, and KindProtocol
// otherwise.
func replyErr(op string, reply *Reply, notFoundOn550 bool) *Error {
	switch {
	case notFoundOn550 && reply.Code == 550:
		return &Error{Kind: KindNotFound, Op: op, Code: reply.Code, Reply: reply.Text}
	case reply.Code == 530:
		return &Error{Kind: KindAuth, Op: op, Code: reply.Code, Reply: reply.Text}
	default:
		return protocolErr(op, reply)
	}
}

func argErr(op, msg string) *Error {
	return &Error{Kind: KindArgument, Op: op, Err: errors.New(msg)}
}

func netErr(op string, err error) *Error {
	return &Error{Kind: KindNetwork, Op: op, Err: err}
}

func timeoutErr(op string, err error) *Error {
	return &Error{Kind: KindTimeout, Op: op, Err: err}
}

func featureErr(op, feature string) *Error {
	return &Error{Kind: KindFeatureMissing, Op: op, Err: fmt.Errorf("server did not advertise %s", feature)}
}
