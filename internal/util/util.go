package util

import (
	"crypto/sha1"
	"encoding/hex"
	"path/filepath"
)

// Fingerprint returns a stable sha1 hex digest of str.
func Fingerprint(str string) string {
	hasher := sha1.New()
	hasher.Write([]byte(str))

	return hex.EncodeToString(hasher.Sum(nil))
}

func Basename(path string) string {
	return filepath.Base(path)
}
