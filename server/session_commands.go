package server

import (
	"fmt"
	"io"
	"net"
	"os"
	"strconv"
	"strings"
	"time"
)

func (s *session) handlePWD(_ string) {
	if !s.requireLogin() {
		return
	}
	cwd, err := s.fs.GetWd()
	if err != nil {
		s.replyError(err)
		return
	}
	s.reply(257, fmt.Sprintf("%q is the current directory.", cwd))
}

func (s *session) handleCWD(path string) {
	if !s.requireLogin() {
		return
	}
	if err := s.fs.ChangeDir(path); err != nil {
		s.replyError(err)
		return
	}
	s.reply(250, "Directory successfully changed.")
}

func (s *session) handleMKD(path string) {
	if !s.requireLogin() {
		return
	}
	if err := s.fs.MakeDir(path); err != nil {
		s.replyError(err)
		return
	}
	s.reply(257, fmt.Sprintf("%q created.", path))
}

func (s *session) handleRMD(path string) {
	if !s.requireLogin() {
		return
	}
	if err := s.fs.RemoveDir(path); err != nil {
		s.replyError(err)
		return
	}
	s.reply(250, "Directory removed.")
}

func (s *session) handleDELE(path string) {
	if !s.requireLogin() {
		return
	}
	if err := s.fs.DeleteFile(path); err != nil {
		s.replyError(err)
		return
	}
	s.reply(250, "File deleted.")
}

func (s *session) handleRNFR(path string) {
	if !s.requireLogin() {
		return
	}
	if _, err := s.fs.GetFileInfo(path); err != nil {
		s.reply(550, "File not found.")
		return
	}
	s.renameFrom = path
	s.reply(350, "Requested file action pending further information.")
}

func (s *session) handleRNTO(path string) {
	if !s.requireLogin() {
		return
	}
	if s.renameFrom == "" {
		s.reply(503, "Bad sequence of commands. Send RNFR first.")
		return
	}
	err := s.fs.Rename(s.renameFrom, path)
	s.renameFrom = ""
	if err != nil {
		s.replyError(err)
		return
	}
	s.reply(250, "Requested file action successful, file renamed.")
}

func (s *session) handleSIZE(path string) {
	if !s.requireLogin() {
		return
	}
	info, err := s.fs.GetFileInfo(path)
	if err != nil {
		s.reply(550, "Could not get file size.")
		return
	}
	s.reply(213, fmt.Sprintf("%d", info.Size()))
}

func (s *session) handleMDTM(path string) {
	if !s.requireLogin() {
		return
	}
	info, err := s.fs.GetFileInfo(path)
	if err != nil {
		s.reply(550, "Could not get file modification time.")
		return
	}
	// RFC 3659 §2.3: times are always UTC.
	s.reply(213, info.ModTime().UTC().Format("20060102150405"))
}

func (s *session) handleMFMT(arg string) {
	if !s.requireLogin() {
		return
	}
	parts := strings.SplitN(arg, " ", 2)
	if len(parts) != 2 {
		s.reply(501, "Syntax error in parameters or arguments.")
		return
	}
	timestamp, path := parts[0], parts[1]
	t, err := time.Parse("20060102150405", timestamp)
	if err != nil {
		s.reply(501, "Invalid time format.")
		return
	}
	if err := s.fs.SetTime(path, t); err != nil {
		s.replyError(err)
		return
	}
	s.reply(213, fmt.Sprintf("Modify=%s; %s", timestamp, path))
}

// handleFEAT advertises the extensions this fixture understands. MLSD is
// listed separately from MLST (RFC 3659 permits advertising either without
// the other) so client tests can rely on both being negotiated.
func (s *session) handleFEAT(_ string) {
	features := []string{"SIZE", "MDTM", "EPSV", "UTF8", "MLSD", "MLST type*;size*;modify*;", "MFMT"}

	s.mu.Lock()
	fmt.Fprint(s.writer, "211-Features:\r\n")
	for _, f := range features {
		fmt.Fprintf(s.writer, " %s\r\n", f)
	}
	fmt.Fprint(s.writer, "211 End\r\n")
	s.writer.Flush()
	s.mu.Unlock()
}

func (s *session) handleOPTS(arg string) {
	if strings.HasPrefix(strings.ToUpper(arg), "UTF8 ON") {
		s.reply(200, "Always in UTF8 mode.")
		return
	}
	s.reply(501, "Option not understood.")
}

func (s *session) handleTYPE(arg string) {
	if !s.requireLogin() {
		return
	}
	switch strings.ToUpper(strings.TrimSpace(arg)) {
	case "A", "A N":
		s.transferType = "A"
		s.reply(200, "Type set to A.")
	case "I", "L 8":
		s.transferType = "I"
		s.reply(200, "Type set to I.")
	default:
		s.reply(504, "Type not supported.")
	}
}

func (s *session) handleEPSV(_ string) {
	if !s.requireLogin() {
		return
	}
	if s.pasvList != nil {
		s.pasvList.Close()
	}
	ln, err := net.Listen("tcp", ":0")
	if err != nil {
		s.reply(425, "Can't open passive connection.")
		return
	}
	s.pasvList = ln
	port, err := parsePort(ln.Addr().String())
	if err != nil {
		ln.Close()
		s.pasvList = nil
		s.reply(425, "Can't open passive connection.")
		return
	}
	s.reply(229, fmt.Sprintf("Entering Extended Passive Mode (|||%d|)", port))
}

func (s *session) handleRETR(path string) {
	if !s.requireLogin() {
		return
	}
	file, err := s.fs.OpenFile(path, os.O_RDONLY)
	if err != nil {
		s.replyError(err)
		return
	}
	defer file.Close()

	conn, err := s.connData()
	if err != nil {
		s.reply(425, "Can't open data connection.")
		return
	}
	defer conn.Close()

	s.reply(150, "Opening data connection for RETR.")
	if _, err := io.Copy(conn, file); err != nil {
		s.reply(426, "Connection closed; transfer aborted.")
		return
	}
	s.reply(226, "Transfer complete.")
}

func (s *session) handleSTOR(path string) {
	if !s.requireLogin() {
		return
	}
	file, err := s.fs.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC)
	if err != nil {
		s.replyError(err)
		return
	}
	defer file.Close()

	conn, err := s.connData()
	if err != nil {
		s.reply(425, "Can't open data connection.")
		return
	}
	defer conn.Close()

	s.reply(150, "Opening data connection for STOR.")
	if _, err := io.Copy(file, conn); err != nil {
		s.reply(426, "Connection closed; transfer aborted.")
		return
	}
	s.reply(226, "Transfer complete.")
}

func (s *session) handleMLSD(path string) {
	if !s.requireLogin() {
		return
	}
	entries, err := s.fs.ListDir(path)
	if err != nil {
		s.replyError(err)
		return
	}

	conn, err := s.connData()
	if err != nil {
		s.reply(425, "Can't open data connection.")
		return
	}
	defer conn.Close()

	s.reply(150, "MLSD listing started.")
	for _, entry := range entries {
		writeMLEntry(conn, entry)
	}
	s.reply(226, "MLSD listing complete.")
}

// writeMLEntry writes one RFC 3659 §7 fact line: "type=...;size=...;modify=...; name".
func writeMLEntry(w io.Writer, info os.FileInfo) {
	t := "file"
	if info.IsDir() {
		t = "dir"
	}
	fmt.Fprintf(w, "type=%s;size=%d;modify=%s; %s\r\n",
		t, info.Size(), info.ModTime().UTC().Format("20060102150405"), info.Name())
}

// handleSITE implements SITE CHMOD, the only SITE subcommand this fixture
// supports.
func (s *session) handleSITE(arg string) {
	if !s.requireLogin() {
		return
	}
	parts := strings.Fields(arg)
	if len(parts) < 1 || strings.ToUpper(parts[0]) != "CHMOD" {
		s.reply(502, "SITE command not implemented.")
		return
	}
	if len(parts) < 3 {
		s.reply(501, "Syntax error in parameters or arguments.")
		return
	}

	mode, err := strconv.ParseUint(parts[1], 8, 32)
	if err != nil || mode > 0777 {
		s.reply(501, "Invalid mode.")
		return
	}
	path := strings.Join(parts[2:], " ")

	if err := s.fs.Chmod(path, os.FileMode(mode)); err != nil {
		s.replyError(err)
		return
	}
	s.reply(200, "SITE CHMOD command successful.")
}
