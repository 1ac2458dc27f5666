package ftp

import (
	"fmt"
	"net"
	"regexp"
	"strconv"
)

// epsvRegex matches the EPSV response format: 229 Entering Extended Passive
// Mode (|||port|).
var epsvRegex = regexp.MustCompile(`\(\|\|\|(\d+)\|\)`)

// parseEPSV extracts the port number from an EPSV reply's text.
// Example: "Entering Extended Passive Mode (|||6446|)" -> "6446".
func parseEPSV(text string) (string, error) {
	matches := epsvRegex.FindStringSubmatch(text)
	if len(matches) != 2 {
		return "", fmt.Errorf("invalid EPSV reply: %s", text)
	}
	port, err := strconv.Atoi(matches[1])
	if err != nil || port < 0 || port > 65535 {
		return "", fmt.Errorf("invalid EPSV port: %s", matches[1])
	}
	return matches[1], nil
}

// openPassiveDataConn is the Passive-Mode Negotiator (spec.md §4.4): it
// issues EPSV and dials the returned port on the control connection's host.
// There is deliberately no PASV fallback and no active mode — EPSV-only is
// the documented design decision, not an oversight.
//
// Caller must already hold cc's lock.
func openPassiveDataConn(cc *controlChannel) (net.Conn, error) {
	reply, err := cc.command("EPSV")
	if err != nil {
		return nil, err
	}
	if !reply.Is2xx() {
		return nil, replyErr("EPSV", reply, false)
	}

	port, err := parseEPSV(reply.Text)
	if err != nil {
		return nil, protocolErr("EPSV", reply)
	}

	addr := net.JoinHostPort(cc.host, port)
	dataConn, err := net.DialTimeout("tcp", addr, cc.timeout)
	if err != nil {
		return nil, netErr("EPSV", err)
	}
	return &deadlineConn{Conn: dataConn, timeout: cc.timeout}, nil
}
