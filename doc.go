// Package ftp implements an FTP client (RFC 959) over a plain control
// connection, with the EPSV, FEAT, MLSD/MLST, MDTM, MFMT, SIZE, UTF8 and
// OPTS extensions.
//
// # Overview
//
// Connect negotiates the session in one call: dial, greeting, USER/PASS,
// FEAT, OPTS UTF8 (if advertised), and TYPE I.
//
//	c, err := ftp.NewClient(ftp.WithHost("ftp.example.com"), ftp.WithCredentials("user", "pass"))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := c.Connect(context.Background()); err != nil {
//	    log.Fatal(err)
//	}
//	defer c.Quit()
//
//	if err := c.Upload("local.txt", "remote.txt", nil); err != nil {
//	    log.Fatal(err)
//	}
//
// # Scope
//
// Only passive-mode (EPSV) data connections are supported; there is no
// PASV fallback and no active mode (PORT/EPRT). TLS/FTPS, transfer resume
// (REST) and ABOR are out of scope.
//
// # Errors
//
// Every failure is an *Error carrying a Kind (KindNetwork, KindTimeout,
// KindAuth, KindProtocol, KindNotFound, KindExists, KindArgument,
// KindFeatureMissing). Use ftp.IsKind(err, ftp.KindNotFound) rather than
// inspecting reply codes directly.
package ftp
