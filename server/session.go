package server

import (
	"bufio"
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"
)

// maxCommandLength bounds a single command line.
const maxCommandLength = 4096

// session is one client connection: its control socket, login state, and
// the data connection for whichever transfer command is in flight. Only
// passive (EPSV) data connections are supported.
type session struct {
	server *Server
	conn   net.Conn
	reader *bufio.Reader
	writer *bufio.Writer
	mu     sync.Mutex // guards writer/reply ordering

	remoteIP string

	isLoggedIn   bool
	user         string
	host         string
	renameFrom   string
	fs           ClientContext
	transferType string // "A" or "I", default "I"

	pasvList net.Listener
}

// commandHandlers maps FTP commands to handlers. USER, PASS, QUIT, and NOOP
// are special-cased in handleCommand since they don't fit the uniform
// func(*session, string) shape everywhere (QUIT/NOOP take no argument work).
var commandHandlers = map[string]func(*session, string){
	"PWD":  (*session).handlePWD,
	"CWD":  (*session).handleCWD,
	"MKD":  (*session).handleMKD,
	"RMD":  (*session).handleRMD,
	"DELE": (*session).handleDELE,
	"RNFR": (*session).handleRNFR,
	"RNTO": (*session).handleRNTO,
	"SIZE": (*session).handleSIZE,
	"MDTM": (*session).handleMDTM,
	"MFMT": (*session).handleMFMT,
	"FEAT": (*session).handleFEAT,
	"OPTS": (*session).handleOPTS,
	"TYPE": (*session).handleTYPE,
	"EPSV": (*session).handleEPSV,
	"RETR": (*session).handleRETR,
	"STOR": (*session).handleSTOR,
	"MLSD": (*session).handleMLSD,
	"SITE": (*session).handleSITE,
}

func newSession(server *Server, conn net.Conn) *session {
	remoteIP, _, err := net.SplitHostPort(conn.RemoteAddr().String())
	if err != nil {
		remoteIP = conn.RemoteAddr().String()
	}
	return &session{
		server:       server,
		conn:         conn,
		reader:       bufio.NewReader(conn),
		writer:       bufio.NewWriter(conn),
		remoteIP:     remoteIP,
		transferType: "I",
	}
}

// serve reads commands one at a time and dispatches them until the client
// disconnects or sends QUIT.
func (s *session) serve() {
	defer s.close()

	s.reply(220, s.server.welcomeMessage)
	s.server.logger.Debug("session started", "remote_ip", s.remoteIP)

	for {
		if s.server.readTimeout > 0 {
			_ = s.conn.SetReadDeadline(time.Now().Add(s.server.readTimeout))
		} else if s.server.maxIdleTime > 0 {
			_ = s.conn.SetReadDeadline(time.Now().Add(s.server.maxIdleTime))
		}

		line, err := s.readCommand()
		if err != nil {
			return
		}

		if s.server.writeTimeout > 0 {
			_ = s.conn.SetWriteDeadline(time.Now().Add(s.server.writeTimeout))
		}

		if quit := s.handleCommand(line); quit {
			return
		}
	}
}

func (s *session) readCommand() (string, error) {
	var line []byte
	for {
		b, err := s.reader.ReadByte()
		if err != nil {
			return string(line), err
		}
		if len(line) >= maxCommandLength {
			return "", fmt.Errorf("command too long")
		}
		if b == '\n' {
			return strings.TrimRight(string(line), "\r"), nil
		}
		line = append(line, b)
	}
}

func (s *session) close() {
	if s.fs != nil {
		s.fs.Close()
	}
	if s.pasvList != nil {
		s.pasvList.Close()
	}
	s.conn.Close()
	s.server.logger.Debug("session closed", "remote_ip", s.remoteIP, "user", s.user)
}

// handleCommand dispatches one command line, returning true if the session
// should end.
func (s *session) handleCommand(line string) bool {
	if line == "" {
		return false
	}

	parts := strings.SplitN(line, " ", 2)
	cmd := strings.ToUpper(parts[0])
	arg := ""
	if len(parts) > 1 {
		arg = parts[1]
	}

	switch cmd {
	case "USER":
		s.user = arg
		s.reply(331, "User name okay, need password.")
		return false
	case "PASS":
		s.handlePASS(arg)
		return false
	case "QUIT":
		s.reply(221, "Service closing control connection.")
		return true
	case "NOOP":
		s.reply(200, "OK.")
		return false
	}

	if handler, ok := commandHandlers[cmd]; ok {
		handler(s, arg)
		return false
	}
	s.reply(502, "Command not implemented.")
	return false
}

func (s *session) handlePASS(pass string) {
	ctx, err := s.server.driver.Authenticate(s.user, pass, s.host)
	if err != nil {
		s.server.logger.Warn("authentication failed", "remote_ip", s.remoteIP, "user", s.user, "reason", err)
		s.reply(530, "Login incorrect.")
		return
	}
	s.fs = ctx
	s.isLoggedIn = true
	s.reply(230, "User logged in, proceed.")
}

// requireLogin replies 530 and returns false if the session hasn't
// authenticated yet.
func (s *session) requireLogin() bool {
	if s.isLoggedIn {
		return true
	}
	s.reply(530, "Please login with USER and PASS.")
	return false
}

// connData accepts the inbound data connection for the EPSV listener set up
// by the most recent EPSV command.
func (s *session) connData() (net.Conn, error) {
	if s.pasvList == nil {
		return nil, fmt.Errorf("no data connection set up; send EPSV first")
	}
	if t, ok := s.pasvList.(*net.TCPListener); ok {
		_ = t.SetDeadline(time.Now().Add(10 * time.Second))
	}
	conn, err := s.pasvList.Accept()
	if err != nil {
		return nil, err
	}
	s.pasvList.Close()
	s.pasvList = nil
	return conn, nil
}

// replyError maps a ClientContext error to a standard FTP reply.
func (s *session) replyError(err error) {
	switch {
	case os.IsNotExist(err):
		s.reply(550, "File not found.")
	case os.IsPermission(err):
		s.reply(550, "Permission denied.")
	case os.IsExist(err):
		s.reply(550, "File already exists.")
	default:
		s.reply(550, "Action failed: "+err.Error())
	}
}

func (s *session) reply(code int, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprintf(s.writer, "%d %s\r\n", code, message)
	s.writer.Flush()
}

func parsePort(addr string) (int, error) {
	_, portStr, err := net.SplitHostPort(addr)
	if err != nil {
		return 0, err
	}
	return strconv.Atoi(portStr)
}
