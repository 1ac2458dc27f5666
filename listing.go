package ftp

import (
	"bufio"
	"bytes"
	"strconv"
	"strings"
	"time"
)

// EntryKind classifies a DirEntry.
type EntryKind int

const (
	KindFile EntryKind = iota
	KindDir
	KindLink
	KindOther
)

// DirEntry is one row of a directory listing, whether it came from LIST or
// MLSD (spec.md §3).
type DirEntry struct {
	Name   string
	Kind   EntryKind
	Size   int64
	Modify time.Time
	Target string // symlink target, LIST only
	Perm   string // MLSD "perm" fact, if present
	Raw    string
}

// ListingParser parses one line of a LIST reply into a DirEntry.
type ListingParser interface {
	Parse(line string) (*DirEntry, bool)
}

// UnixParser parses Unix-style `ls -l` entries (9- or 8-field, symbolic or
// numeric permissions).
type UnixParser struct{}

func (UnixParser) Parse(line string) (*DirEntry, bool) {
	fields := strings.Fields(line)
	if len(fields) < 8 {
		return nil, false
	}
	entry := &DirEntry{Raw: line}
	if parseUnixEntry(entry, fields) {
		return entry, true
	}
	return nil, false
}

// DOSParser parses DOS/Windows-style IIS listings.
type DOSParser struct{}

func (DOSParser) Parse(line string) (*DirEntry, bool) {
	fields := strings.Fields(line)
	if len(fields) < 4 || !isDOSDate(fields[0]) {
		return nil, false
	}
	entry := &DirEntry{Raw: line}
	if parseDOSEntry(entry, fields) {
		return entry, true
	}
	return nil, false
}

// EPLFParser parses "Easily Parsed List Format" entries.
type EPLFParser struct{}

func (EPLFParser) Parse(line string) (*DirEntry, bool) {
	if !strings.HasPrefix(line, "+") {
		return nil, false
	}
	entry := &DirEntry{Raw: line}
	if parseEPLFEntry(entry, line) {
		return entry, true
	}
	return nil, false
}

func defaultParsers() []ListingParser {
	return []ListingParser{EPLFParser{}, DOSParser{}, UnixParser{}}
}

func parseListLine(line string, parsers []ListingParser) *DirEntry {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return nil
	}
	all := append(append([]ListingParser{}, parsers...), defaultParsers()...)
	for _, p := range all {
		if entry, ok := p.Parse(trimmed); ok {
			return entry
		}
	}
	return &DirEntry{Raw: line, Name: trimmed, Kind: KindOther}
}

func parseUnixEntry(entry *DirEntry, fields []string) bool {
	perms := fields[0]
	isSymbolic := len(perms) >= 1 && strings.ContainsRune("-dlbcps", rune(perms[0]))
	isNumeric := len(perms) >= 3 && len(perms) <= 4
	for _, ch := range perms {
		if ch < '0' || ch > '7' {
			isNumeric = false
			break
		}
	}
	if !isSymbolic && !isNumeric {
		return false
	}

	switch {
	case isSymbolic && perms[0] == 'd':
		entry.Kind = KindDir
	case isSymbolic && perms[0] == 'l':
		entry.Kind = KindLink
	default:
		entry.Kind = KindFile
	}

	var sizeIdx, nameStartIdx int
	switch {
	case len(fields) >= 9:
		if _, err := parseSize(fields[4]); err == nil {
			sizeIdx, nameStartIdx = 4, 8
		} else if _, err := parseSize(fields[3]); err == nil {
			sizeIdx, nameStartIdx = 3, 7
		} else {
			return false
		}
	case len(fields) >= 8:
		if _, err := parseSize(fields[3]); err != nil {
			return false
		}
		sizeIdx, nameStartIdx = 3, 7
	default:
		return false
	}

	size, err := parseSize(fields[sizeIdx])
	if err != nil {
		return false
	}
	entry.Size = size

	fullName := strings.Join(fields[nameStartIdx:], " ")
	if entry.Kind == KindLink {
		if before, after, ok := strings.Cut(fullName, " -> "); ok {
			entry.Name, entry.Target = before, after
			return true
		}
	}
	entry.Name = fullName
	return true
}

func isDOSDate(s string) bool {
	var parts []string
	switch {
	case strings.Contains(s, "-"):
		parts = strings.Split(s, "-")
	case strings.Contains(s, "/"):
		parts = strings.Split(s, "/")
	default:
		return false
	}
	if len(parts) != 3 {
		return false
	}
	for i, part := range parts {
		if len(part) < 1 || len(part) > 4 {
			return false
		}
		if i == 2 && len(part) != 2 && len(part) != 4 {
			return false
		}
		if i < 2 && len(part) > 2 {
			return false
		}
		for _, ch := range part {
			if ch < '0' || ch > '9' {
				return false
			}
		}
	}
	return true
}

func parseDOSEntry(entry *DirEntry, fields []string) bool {
	if len(fields) < 4 {
		return false
	}
	if fields[2] == "<DIR>" {
		entry.Kind = KindDir
		entry.Name = strings.Join(fields[3:], " ")
		return true
	}
	size, err := parseSize(fields[2])
	if err != nil {
		return false
	}
	entry.Kind = KindFile
	entry.Size = size
	entry.Name = strings.Join(fields[3:], " ")
	return true
}

// parseEPLFEntry parses "+facts\tname" or "+facts name".
func parseEPLFEntry(entry *DirEntry, line string) bool {
	line = strings.TrimPrefix(line, "+")
	idx := strings.IndexAny(line, "\t ")
	if idx == -1 {
		return false
	}
	facts := line[:idx]
	name := strings.TrimSpace(line[idx+1:])
	if name == "" {
		return false
	}

	entry.Name = name
	entry.Kind = KindFile
	for _, fact := range strings.Split(facts, ",") {
		if fact == "" {
			continue
		}
		switch fact[0] {
		case '/':
			entry.Kind = KindDir
		case 's':
			if size, err := parseSize(fact[1:]); err == nil {
				entry.Size = size
			}
		}
	}
	return true
}

func parseSize(s string) (int64, error) {
	return strconv.ParseInt(s, 10, 64)
}

// List returns a directory listing parsed from LIST, trying the configured
// listing parsers in order and then the built-in ones.
func (c *Client) List(path string) ([]*DirEntry, error) {
	var dc *dataChannel
	var err error
	if path == "" {
		dc, _, err = c.beginDataCommand("LIST")
	} else {
		dc, _, err = c.beginDataCommand("LIST", c.arg(path))
	}
	if err != nil {
		return nil, err
	}

	data, readErr := dc.readAll()
	if err := c.endDataCommand("LIST", dc); err != nil {
		return nil, err
	}
	if readErr != nil {
		return nil, netErr("LIST", readErr)
	}

	var entries []*DirEntry
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		if entry := parseListLine(scanner.Text(), c.cfg.parsers); entry != nil {
			entries = append(entries, entry)
		}
	}
	return entries, nil
}

// MLList returns a directory listing parsed from MLSD (RFC 3659), gated on
// FeatureSet.MLSD.
func (c *Client) MLList(path string) ([]*DirEntry, error) {
	if !c.features.MLSD {
		return nil, featureErr("MLList", "MLSD")
	}

	var dc *dataChannel
	var err error
	if path == "" {
		dc, _, err = c.beginDataCommand("MLSD")
	} else {
		dc, _, err = c.beginDataCommand("MLSD", c.arg(path))
	}
	if err != nil {
		return nil, err
	}

	data, readErr := dc.readAll()
	if err := c.endDataCommand("MLSD", dc); err != nil {
		return nil, err
	}
	if readErr != nil {
		return nil, netErr("MLSD", readErr)
	}

	var entries []*DirEntry
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if entry, ok := parseMLEntry(line); ok {
			entries = append(entries, entry)
		}
	}
	return entries, nil
}

// MLStat returns a single entry's machine-readable facts via MLST, gated on
// FeatureSet.MLST.
func (c *Client) MLStat(path string) (*DirEntry, error) {
	if !c.features.MLST {
		return nil, featureErr("MLStat", "MLST")
	}

	reply, err := c.cc.do("MLST", c.arg(path))
	if err != nil {
		return nil, err
	}
	if reply.Code != 250 {
		return nil, replyErr("MLST", reply, true)
	}

	for _, line := range reply.Lines {
		trimmed := strings.TrimSpace(line)
		if len(line) >= 4 && (line[3] == '-' || line[3] == ' ') {
			continue // status line, not the entry
		}
		if entry, ok := parseMLEntry(trimmed); ok {
			return entry, nil
		}
	}
	return nil, protocolErr("MLST", reply)
}

// NameList returns the plain names from NLST.
func (c *Client) NameList(path string) ([]string, error) {
	var dc *dataChannel
	var err error
	if path == "" {
		dc, _, err = c.beginDataCommand("NLST")
	} else {
		dc, _, err = c.beginDataCommand("NLST", c.arg(path))
	}
	if err != nil {
		return nil, err
	}

	data, readErr := dc.readAll()
	if err := c.endDataCommand("NLST", dc); err != nil {
		return nil, err
	}
	if readErr != nil {
		return nil, netErr("NLST", readErr)
	}

	var names []string
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		if name := strings.TrimSpace(scanner.Text()); name != "" {
			names = append(names, name)
		}
	}
	return names, nil
}

// GetFiles lists path and returns only file entries (spec.md §4.8).
func (c *Client) GetFiles(path string) ([]*DirEntry, error) {
	entries, err := c.list(path)
	if err != nil {
		return nil, err
	}
	var files []*DirEntry
	for _, e := range entries {
		if e.Name == "." || e.Name == ".." {
			continue
		}
		if e.Kind == KindFile {
			files = append(files, e)
		}
	}
	return files, nil
}

// GetDirectories lists path and returns only directory entries.
func (c *Client) GetDirectories(path string) ([]*DirEntry, error) {
	entries, err := c.list(path)
	if err != nil {
		return nil, err
	}
	var dirs []*DirEntry
	for _, e := range entries {
		if e.Name == "." || e.Name == ".." {
			continue
		}
		if e.Kind == KindDir {
			dirs = append(dirs, e)
		}
	}
	return dirs, nil
}

// list prefers MLSD when the server advertised it, falling back to LIST.
func (c *Client) list(path string) ([]*DirEntry, error) {
	if c.features.MLSD {
		return c.MLList(path)
	}
	return c.List(path)
}

// parseMLEntry parses one "facts name" MLSD/MLST line (RFC 3659 §7).
func parseMLEntry(line string) (*DirEntry, bool) {
	spaceIdx := strings.Index(line, " ")
	if spaceIdx == -1 {
		return nil, false
	}
	factsStr, name := line[:spaceIdx], line[spaceIdx+1:]

	entry := &DirEntry{Name: name, Raw: line}
	for _, pair := range strings.Split(factsStr, ";") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		key, value, ok := strings.Cut(pair, "=")
		if !ok {
			continue
		}
		switch strings.ToLower(key) {
		case "type":
			switch strings.ToLower(value) {
			case "dir", "cdir", "pdir":
				entry.Kind = KindDir
			case "file":
				entry.Kind = KindFile
			default:
				entry.Kind = KindOther
			}
		case "size":
			if size, err := strconv.ParseInt(value, 10, 64); err == nil {
				entry.Size = size
			}
		case "modify":
			timestamp := strings.Split(value, ".")[0]
			if len(timestamp) == 14 {
				if t, err := time.Parse("20060102150405", timestamp); err == nil {
					entry.Modify = t.UTC()
				}
			}
		case "perm":
			entry.Perm = value
		}
	}
	return entry, true
}
