package util

import (
	"crypto/rand"
	"encoding/hex"
)

// NewID returns a random hex identifier, optionally prefixed. Generated
// feed items get their identifiers from here; identifiers referenced by
// clients are used verbatim.
func NewID(prefix string) string {
	bytes := make([]byte, 8)
	_, _ = rand.Read(bytes)
	if prefix == "" {
		return hex.EncodeToString(bytes)
	}
	return prefix + "_" + hex.EncodeToString(bytes)
}
