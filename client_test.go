package ftp_test

import (
	"context"
	"net"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/cactusdev/ftp"
	"github.com/cactusdev/ftp/server"
)

// startTestServer starts a real FTP server rooted at a temp directory and
// returns its address, ready for a Client to Connect to.
func startTestServer(t *testing.T) string {
	t.Helper()

	root := t.TempDir()
	driver, err := server.NewFSDriver(root, server.WithDisableAnonymous(false), server.WithAnonWrite(true))
	require.NoError(t, err)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	srv, err := server.NewServer(ln.Addr().String(), server.WithDriver(driver))
	require.NoError(t, err)

	go srv.Serve(ln)
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		srv.Shutdown(ctx)
	})

	return ln.Addr().String()
}

func dialTestClient(t *testing.T, addr string, opts ...ftp.Option) *ftp.Client {
	t.Helper()
	host, portStr, err := net.SplitHostPort(addr)
	require.NoError(t, err)
	port, err := strconv.Atoi(portStr)
	require.NoError(t, err)

	allOpts := append([]ftp.Option{
		ftp.WithHost(host),
		ftp.WithPort(port),
		ftp.WithTimeout(5 * time.Second),
	}, opts...)

	c, err := ftp.NewClient(allOpts...)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, c.Connect(ctx))
	t.Cleanup(func() { c.Quit() })
	return c
}

func TestClient_ConnectNegotiatesFeatures(t *testing.T) {
	addr := startTestServer(t)
	c := dialTestClient(t, addr)

	fs := c.Features()
	require.True(t, fs.SIZE)
	require.True(t, fs.MDTM)
	require.True(t, fs.EPSV)
	require.True(t, fs.MLSD)
}

func TestClient_UploadDownloadRoundTrip(t *testing.T) {
	addr := startTestServer(t)
	c := dialTestClient(t, addr)

	localSrc := filepath.Join(t.TempDir(), "src.txt")
	require.NoError(t, os.WriteFile(localSrc, []byte("hello ftp"), 0o644))

	require.NoError(t, c.Upload(localSrc, "hello.txt", nil))

	exists, err := c.FileExists("hello.txt")
	require.NoError(t, err)
	require.True(t, exists)

	size, err := c.Size("hello.txt")
	require.NoError(t, err)
	require.EqualValues(t, len("hello ftp"), size)

	localDst := filepath.Join(t.TempDir(), "dst.txt")
	require.NoError(t, c.Download("hello.txt", localDst, false, nil))

	got, err := os.ReadFile(localDst)
	require.NoError(t, err)
	require.Equal(t, "hello ftp", string(got))
}

func TestClient_DownloadRefusesOverwriteWithoutFlag(t *testing.T) {
	addr := startTestServer(t)
	c := dialTestClient(t, addr)

	localSrc := filepath.Join(t.TempDir(), "src.txt")
	require.NoError(t, os.WriteFile(localSrc, []byte("data"), 0o644))
	require.NoError(t, c.Upload(localSrc, "remote.txt", nil))

	localDst := filepath.Join(t.TempDir(), "dst.txt")
	require.NoError(t, os.WriteFile(localDst, []byte("existing"), 0o644))

	err := c.Download("remote.txt", localDst, false, nil)
	require.Error(t, err)
	require.True(t, ftp.IsKind(err, ftp.KindExists))
}

func TestClient_MakeDirRecursiveThenRemoveDirRecursive(t *testing.T) {
	addr := startTestServer(t)
	c := dialTestClient(t, addr)

	require.NoError(t, c.MakeDir("a/b/c", true))

	exists, err := c.DirectoryExists("a/b/c")
	require.NoError(t, err)
	require.True(t, exists)

	localSrc := filepath.Join(t.TempDir(), "leaf.txt")
	require.NoError(t, os.WriteFile(localSrc, []byte("leaf"), 0o644))
	require.NoError(t, c.Upload(localSrc, "a/b/c/leaf.txt", nil))

	require.NoError(t, c.RemoveDir("a", true))

	exists, err = c.DirectoryExists("a")
	require.NoError(t, err)
	require.False(t, exists)
}

func TestClient_RenameAndDelete(t *testing.T) {
	addr := startTestServer(t)
	c := dialTestClient(t, addr)

	localSrc := filepath.Join(t.TempDir(), "src.txt")
	require.NoError(t, os.WriteFile(localSrc, []byte("x"), 0o644))
	require.NoError(t, c.Upload(localSrc, "old.txt", nil))

	require.NoError(t, c.Rename("old.txt", "new.txt"))
	exists, err := c.FileExists("new.txt")
	require.NoError(t, err)
	require.True(t, exists)

	require.NoError(t, c.Delete("new.txt"))
	exists, err = c.FileExists("new.txt")
	require.NoError(t, err)
	require.False(t, exists)
}

func TestClient_GetFilesAndGetDirectories(t *testing.T) {
	addr := startTestServer(t)
	c := dialTestClient(t, addr)

	require.NoError(t, c.MakeDir("sub", false))
	localSrc := filepath.Join(t.TempDir(), "f.txt")
	require.NoError(t, os.WriteFile(localSrc, []byte("x"), 0o644))
	require.NoError(t, c.Upload(localSrc, "f.txt", nil))

	files, err := c.GetFiles("")
	require.NoError(t, err)
	require.Len(t, files, 1)
	require.Equal(t, "f.txt", files[0].Name)

	dirs, err := c.GetDirectories("")
	require.NoError(t, err)
	require.Len(t, dirs, 1)
	require.Equal(t, "sub", dirs[0].Name)
}

func TestClient_SetModTimeAndModTime(t *testing.T) {
	addr := startTestServer(t)
	c := dialTestClient(t, addr)

	localSrc := filepath.Join(t.TempDir(), "f.txt")
	require.NoError(t, os.WriteFile(localSrc, []byte("x"), 0o644))
	require.NoError(t, c.Upload(localSrc, "f.txt", nil))

	want := time.Date(2020, 6, 15, 12, 30, 0, 0, time.UTC)
	require.NoError(t, c.SetModTime("f.txt", want))

	got, err := c.ModTime("f.txt")
	require.NoError(t, err)
	require.Equal(t, want, got)
}

func TestClient_ProgressCallbackReportsFullSize(t *testing.T) {
	addr := startTestServer(t)
	c := dialTestClient(t, addr)

	payload := make([]byte, 64*1024)
	for i := range payload {
		payload[i] = byte(i)
	}
	localSrc := filepath.Join(t.TempDir(), "big.bin")
	require.NoError(t, os.WriteFile(localSrc, payload, 0o644))

	var last int64
	err := c.Upload(localSrc, "big.bin", func(current, total int64) {
		last = current
		require.EqualValues(t, len(payload), total)
	})
	require.NoError(t, err)
	require.EqualValues(t, len(payload), last)
}

func TestClient_BandwidthLimitDoesNotCorruptData(t *testing.T) {
	addr := startTestServer(t)
	c := dialTestClient(t, addr, ftp.WithBandwidthLimit(64*1024))

	payload := make([]byte, 32*1024)
	for i := range payload {
		payload[i] = byte(i % 251)
	}
	localSrc := filepath.Join(t.TempDir(), "throttled.bin")
	require.NoError(t, os.WriteFile(localSrc, payload, 0o644))
	require.NoError(t, c.Upload(localSrc, "throttled.bin", nil))

	localDst := filepath.Join(t.TempDir(), "throttled_out.bin")
	require.NoError(t, c.Download("throttled.bin", localDst, false, nil))

	got, err := os.ReadFile(localDst)
	require.NoError(t, err)
	require.Equal(t, payload, got)
}

func TestClient_Chmod(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("chmod semantics don't apply on windows")
	}

	addr := startTestServer(t)
	c := dialTestClient(t, addr)

	localSrc := filepath.Join(t.TempDir(), "f.txt")
	require.NoError(t, os.WriteFile(localSrc, []byte("x"), 0o644))
	require.NoError(t, c.Upload(localSrc, "f.txt", nil))

	require.NoError(t, c.Chmod("f.txt", 0o600))
}
