package ftp

import (
	"io"
	"os"
)

// Store uploads everything r produces to remotePath via STOR, in binary
// mode.
func (c *Client) Store(remotePath string, r io.Reader, total int64, progress ProgressFunc) error {
	if err := c.Type("I"); err != nil {
		return err
	}
	dc, _, err := c.beginDataCommand("STOR", c.arg(remotePath))
	if err != nil {
		return err
	}
	_, copyErr := dc.uploadFrom(r, total, progress)
	if err := c.endDataCommand("STOR", dc); err != nil {
		return err
	}
	if copyErr != nil {
		return netErr("STOR", copyErr)
	}
	return nil
}

// Append uploads everything r produces onto the end of remotePath via APPE.
func (c *Client) Append(remotePath string, r io.Reader) error {
	if err := c.Type("I"); err != nil {
		return err
	}
	dc, _, err := c.beginDataCommand("APPE", c.arg(remotePath))
	if err != nil {
		return err
	}
	_, copyErr := dc.uploadFrom(r, -1, nil)
	if err := c.endDataCommand("APPE", dc); err != nil {
		return err
	}
	if copyErr != nil {
		return netErr("APPE", copyErr)
	}
	return nil
}

// Retrieve downloads remotePath via RETR, writing everything to w.
func (c *Client) Retrieve(remotePath string, w io.Writer, progress ProgressFunc) error {
	if err := c.Type("I"); err != nil {
		return err
	}

	total := int64(-1)
	if c.features.SIZE {
		if size, err := c.Size(remotePath); err == nil {
			total = size
		}
	}

	dc, _, err := c.beginDataCommand("RETR", c.arg(remotePath))
	if err != nil {
		return err
	}
	_, copyErr := dc.downloadTo(w, total, progress)
	if err := c.endDataCommand("RETR", dc); err != nil {
		return err
	}
	if copyErr != nil {
		return netErr("RETR", copyErr)
	}
	return nil
}

// Upload sends a local file to remotePath (spec.md §6 "upload").
func (c *Client) Upload(localPath, remotePath string, progress ProgressFunc) error {
	f, err := os.Open(localPath)
	if err != nil {
		if os.IsNotExist(err) {
			return &Error{Kind: KindNotFound, Op: "Upload", Err: err}
		}
		return &Error{Kind: KindNetwork, Op: "Upload", Err: err}
	}
	defer f.Close()

	total := int64(-1)
	if info, err := f.Stat(); err == nil {
		total = info.Size()
	}

	return c.Store(remotePath, f, total, progress)
}

// Download retrieves remotePath to a local file (spec.md §6 "download").
// If overwrite is false and localPath already exists, it fails with
// KindExists rather than truncating it.
func (c *Client) Download(remotePath, localPath string, overwrite bool, progress ProgressFunc) error {
	flags := os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	if !overwrite {
		flags |= os.O_EXCL
	}
	f, err := os.OpenFile(localPath, flags, 0o644)
	if err != nil {
		if os.IsExist(err) {
			return &Error{Kind: KindExists, Op: "Download", Err: err}
		}
		return &Error{Kind: KindNetwork, Op: "Download", Err: err}
	}
	defer f.Close()

	if err := c.Retrieve(remotePath, f, progress); err != nil {
		return err
	}
	return nil
}
