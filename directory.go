package ftp

import (
	"fmt"
	"os"
	"path"
	"sort"
	"strings"
	"time"
)

// ChangeDir changes the current working directory.
func (c *Client) ChangeDir(dir string) error {
	reply, err := c.cc.do("CWD", c.arg(dir))
	if err != nil {
		return err
	}
	if !reply.Is2xx() {
		return replyErr("CWD", reply, true)
	}
	return nil
}

// CurrentDir returns the current working directory via PWD.
func (c *Client) CurrentDir() (string, error) {
	reply, err := c.cc.do("PWD")
	if err != nil {
		return "", err
	}
	if !reply.Is2xx() {
		return "", replyErr("PWD", reply, false)
	}
	// 257 "/home/user" is the current directory
	start := strings.IndexByte(reply.Text, '"')
	if start == -1 {
		return "", protocolErr("PWD", reply)
	}
	end := strings.IndexByte(reply.Text[start+1:], '"')
	if end == -1 {
		return "", protocolErr("PWD", reply)
	}
	return reply.Text[start+1 : start+1+end], nil
}

// MakeDir creates dir. When recursive is true, missing parent directories
// are created first (spec.md §4.6.1): each path component is CWD'd into in
// turn using the full prefix built so far (CWD /a, then CWD /a/b, then CWD
// /a/b/c — matching the wire trace of spec.md's end-to-end scenario 7, not
// a component-relative CWD), and any prefix that doesn't exist (550) is
// MKD'd and then entered, so the walk continues from wherever it left off.
func (c *Client) MakeDir(dir string, recursive bool) error {
	if dir == "" {
		return argErr("MakeDir", "path must not be empty")
	}
	if !recursive {
		reply, err := c.cc.do("MKD", c.arg(dir))
		if err != nil {
			return err
		}
		if !reply.Is2xx() {
			return replyErr("MakeDir", reply, false)
		}
		return nil
	}

	origin, err := c.CurrentDir()
	if err != nil {
		return err
	}
	defer c.ChangeDir(origin)

	prefix := origin
	if strings.HasPrefix(dir, "/") {
		prefix = ""
	}

	for _, component := range strings.Split(strings.Trim(dir, "/"), "/") {
		if component == "" {
			continue
		}
		prefix = strings.TrimRight(prefix, "/") + "/" + component
		if err := c.ChangeDir(prefix); err != nil {
			if !IsKind(err, KindNotFound) {
				return err
			}
			mkReply, mkErr := c.cc.do("MKD", c.arg(prefix))
			if mkErr != nil {
				return mkErr
			}
			if !mkReply.Is2xx() {
				return replyErr("MakeDir", mkReply, false)
			}
			if err := c.ChangeDir(prefix); err != nil {
				return err
			}
		}
	}
	return nil
}

// RemoveDir removes dir. When recursive is true, it walks the tree
// depth-first deleting every file and sub-directory before removing dir
// itself (spec.md §4.6.2).
func (c *Client) RemoveDir(dir string, recursive bool) error {
	if dir == "" {
		return argErr("RemoveDir", "path must not be empty")
	}
	if !recursive {
		return c.rmd(dir)
	}

	entries, err := c.list(dir)
	if err != nil {
		return err
	}
	for _, entry := range entries {
		if entry.Name == "." || entry.Name == ".." {
			continue
		}
		child := path.Join(dir, entry.Name)
		switch entry.Kind {
		case KindDir:
			if err := c.RemoveDir(child, true); err != nil {
				return err
			}
		default:
			if err := c.Delete(child); err != nil {
				return err
			}
		}
	}
	return c.rmd(dir)
}

func (c *Client) rmd(dir string) error {
	reply, err := c.cc.do("RMD", c.arg(dir))
	if err != nil {
		return err
	}
	if !reply.Is2xx() {
		return replyErr("RemoveDir", reply, true)
	}
	return nil
}

// DirectoryExists reports whether dir exists, by saving the current
// directory, attempting to CWD into it, and restoring the original
// directory afterward (spec.md §4.6.3) — there is no dedicated FTP command
// for this.
func (c *Client) DirectoryExists(dir string) (bool, error) {
	if dir == "" {
		return true, nil
	}
	origin, err := c.CurrentDir()
	if err != nil {
		return false, err
	}
	if err := c.ChangeDir(dir); err != nil {
		if IsKind(err, KindNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, c.ChangeDir(origin)
}

// FileExists reports whether path exists, probed with SIZE (spec.md
// §4.6.4): a 550 reply means it doesn't, any other non-2xx reply is
// surfaced as an error since it doesn't tell us either way.
func (c *Client) FileExists(path string) (bool, error) {
	reply, err := c.cc.do("SIZE", c.arg(path))
	if err != nil {
		return false, err
	}
	if reply.Is2xx() {
		return true, nil
	}
	if reply.Code == 550 {
		return false, nil
	}
	return false, replyErr("FileExists", reply, false)
}

// Delete deletes a remote file via DELE.
func (c *Client) Delete(path string) error {
	reply, err := c.cc.do("DELE", c.arg(path))
	if err != nil {
		return err
	}
	if !reply.Is2xx() {
		return replyErr("Delete", reply, true)
	}
	return nil
}

// Rename renames or moves a remote file or directory via RNFR/RNTO.
func (c *Client) Rename(from, to string) error {
	if from == "" || to == "" {
		return argErr("Rename", "from and to must not be empty")
	}

	c.cc.Lock()
	defer c.cc.Unlock()

	reply, err := c.cc.command("RNFR", c.arg(from))
	if err != nil {
		return err
	}
	if reply.Code != 350 {
		return replyErr("Rename", reply, true)
	}

	reply, err = c.cc.command("RNTO", c.arg(to))
	if err != nil {
		return err
	}
	if !reply.Is2xx() {
		return replyErr("Rename", reply, false)
	}
	return nil
}

// Size returns a remote file's size in bytes via SIZE, gated on
// FeatureSet.SIZE.
func (c *Client) Size(path string) (int64, error) {
	if !c.features.SIZE {
		return 0, featureErr("Size", "SIZE")
	}
	reply, err := c.cc.do("SIZE", c.arg(path))
	if err != nil {
		return 0, err
	}
	if !reply.Is2xx() {
		return 0, replyErr("Size", reply, true)
	}
	var size int64
	if _, scanErr := fmt.Sscanf(reply.Text, "%d", &size); scanErr != nil {
		return 0, protocolErr("Size", reply)
	}
	return size, nil
}

// ModTime returns a remote file's modification time via MDTM, gated on
// FeatureSet.MDTM. Per RFC 3659 §2.3, the timestamp is always UTC.
func (c *Client) ModTime(path string) (time.Time, error) {
	if !c.features.MDTM {
		return time.Time{}, featureErr("ModTime", "MDTM")
	}
	reply, err := c.cc.do("MDTM", c.arg(path))
	if err != nil {
		return time.Time{}, err
	}
	if !reply.Is2xx() {
		return time.Time{}, replyErr("ModTime", reply, true)
	}
	timestamp := strings.TrimSpace(reply.Text)
	if len(timestamp) < 14 {
		return time.Time{}, protocolErr("ModTime", reply)
	}
	t, err := time.Parse("20060102150405", timestamp[:14])
	if err != nil {
		return time.Time{}, protocolErr("ModTime", reply)
	}
	return t.UTC(), nil
}

// SetModTime sets a remote file's modification time via MFMT. Per the Open
// Question resolution in SPEC_FULL.md, this is gated on FeatureSet.MFMT,
// not MDTM — a server can support one without the other.
func (c *Client) SetModTime(path string, t time.Time) error {
	if !c.features.MFMT {
		return featureErr("SetModTime", "MFMT")
	}
	timestamp := t.UTC().Format("20060102150405")
	reply, err := c.cc.do("MFMT", timestamp, c.arg(path))
	if err != nil {
		return err
	}
	if !reply.Is2xx() {
		return replyErr("SetModTime", reply, true)
	}
	return nil
}

// Chmod changes a remote file's permission bits via SITE CHMOD.
func (c *Client) Chmod(path string, mode os.FileMode) error {
	octal := fmt.Sprintf("%04o", mode&os.ModePerm)
	reply, err := c.cc.do("SITE", "CHMOD", octal, c.arg(path))
	if err != nil {
		return err
	}
	if !reply.Is2xx() {
		return replyErr("Chmod", reply, true)
	}
	return nil
}

// WalkFunc is called for each entry visited by Walk.
type WalkFunc func(path string, entry *DirEntry, err error) error

// SkipDir, returned by a WalkFunc, causes Walk to skip a directory's
// contents.
var SkipDir = fmt.Errorf("skip this directory")

// Walk walks the remote tree rooted at root, in lexical order, calling
// walkFn for every entry (generalizing the recursive-delete traversal of
// spec.md §4.6.2 into a reusable primitive).
func (c *Client) Walk(root string, walkFn WalkFunc) error {
	entries, err := c.list(root)
	if err != nil {
		return walkFn(root, nil, err)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })
	for _, entry := range entries {
		if entry.Name == "." || entry.Name == ".." {
			continue
		}
		full := path.Join(root, entry.Name)
		if err := walkFn(full, entry, nil); err != nil {
			if err == SkipDir {
				continue
			}
			return err
		}
		if entry.Kind == KindDir {
			if err := c.Walk(full, walkFn); err != nil {
				return err
			}
		}
	}
	return nil
}
