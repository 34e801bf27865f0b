package preview

import (
	"crypto/md5" //nolint:gosec // cache naming, not a security boundary
	"encoding/hex"
	"io"
)

// Fingerprint identifies a preview by its source path and transform log.
type Fingerprint [md5.Size]byte

// Digest derives the fingerprint of originalPath transformed by log.
//
// The key is originalPath + ";" followed by every operation rendered as
// method(args); in log order, so identical inputs always produce identical
// fingerprints, across processes as well. A nil or empty log is valid.
func Digest(originalPath string, log *TransformLog) Fingerprint {
	h := md5.New() //nolint:gosec // see import
	_, _ = io.WriteString(h, originalPath)
	_, _ = io.WriteString(h, ";")
	_, _ = io.WriteString(h, log.String())

	var fp Fingerprint
	h.Sum(fp[:0])
	return fp
}

// String returns the fingerprint as 32 lowercase hex characters.
func (f Fingerprint) String() string {
	return hex.EncodeToString(f[:])
}

// Name returns the cache file name for the fingerprint: <hex>.<ext>
func (f Fingerprint) Name(ext string) string {
	return f.String() + "." + ext
}
