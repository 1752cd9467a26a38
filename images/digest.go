package images

import (
	"crypto/sha256"
	"encoding/hex"
	"hash"
	"strings"
)

const algo = "sha256:"

// Digest represents a content-addressable digest in "algorithm:hex" format (e.g., "sha256:abcdef...").
type Digest string

// NewDigest creates a Digest from a raw hex string, prefixing "sha256:".
func NewDigest(hex string) Digest {
	return Digest(algo + hex)
}

// DigestOf hashes data in one shot.
func DigestOf(data []byte) Digest {
	sum := sha256.Sum256(data)
	return NewDigest(hex.EncodeToString(sum[:]))
}

// Hex returns the hex portion of the digest, stripping the algorithm prefix.
func (d Digest) Hex() string {
	return strings.TrimPrefix(string(d), algo)
}

// Short returns the first 12 hex characters, for display.
func (d Digest) Short() string {
	h := d.Hex()
	if len(h) > 12 { //nolint:mnd
		return h[:12]
	}
	return h
}

func (d Digest) String() string {
	return string(d)
}

// Hasher accumulates a Digest while bytes stream through it.
type Hasher struct {
	h hash.Hash
}

// NewHasher returns a sha256 Hasher.
func NewHasher() *Hasher {
	return &Hasher{h: sha256.New()}
}

func (h *Hasher) Write(p []byte) (int, error) {
	return h.h.Write(p)
}

// Digest returns the digest of everything written so far.
func (h *Hasher) Digest() Digest {
	return NewDigest(hex.EncodeToString(h.h.Sum(nil)))
}
