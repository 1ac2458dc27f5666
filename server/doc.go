// Package server is a small FTP server used to exercise the client package
// in tests. It implements only the command surface client_test.go needs:
// USER/PASS, FEAT/OPTS, TYPE, EPSV, PWD/CWD, MKD/RMD, DELE, RNFR/RNTO, SIZE,
// MDTM/MFMT, STOR/RETR, MLSD, SITE CHMOD, NOOP and QUIT.
//
// It is not a general-purpose FTP server: there is no active mode, no TLS,
// no LIST/NLST, and no connection-limiting or metrics machinery. Storage is
// backed by an FSDriver rooted at a directory, in the style of the driver
// abstraction a production server would use to support multiple backends.
//
//	driver, err := server.NewFSDriver("/tmp/ftp")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	s, err := server.NewServer(":2121", server.WithDriver(driver))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	log.Fatal(s.ListenAndServe())
package server
