// -- cmd/output.go --
package cmd

import "io"

// nopCloser keeps reporters from closing the command's output stream.
type nopCloser struct {
	io.Writer
}

func (nopCloser) Close() error { return nil }
