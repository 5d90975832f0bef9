// Package hashutil computes content hashes used by the cache to detect
// file changes.
package hashutil

import (
	"crypto/sha256"
	"encoding/hex"
	"io"
	"os"
)

// chunkSize bounds how much of a file is held in memory per read, per
// §4.B ("read in ≤8 KiB chunks").
const chunkSize = 8 * 1024

// FileSHA256 returns the lowercase hex SHA-256 digest of the file at
// path, streamed in bounded chunks. A failure to open the file yields
// the empty string, which never matches a real digest and so forces a
// reparse on the next run (§4.B).
func FileSHA256(path string) string {
	f, err := os.Open(path)
	if err != nil {
		return ""
	}
	defer f.Close()

	h := sha256.New()
	buf := make([]byte, chunkSize)
	// Hiding f's WriterTo makes io.CopyBuffer read through buf.
	if _, err := io.CopyBuffer(h, struct{ io.Reader }{f}, buf); err != nil {
		return ""
	}

	return hex.EncodeToString(h.Sum(nil))
}
