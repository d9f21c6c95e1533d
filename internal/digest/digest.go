// Package digest computes and compares lowercase hex SHA-256 digests.
package digest

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"hash"
	"io"
	"os"
	"strings"
)

// Size is the length of a hex encoded SHA-256 digest.
const Size = sha256.Size * 2

// Compute computes the SHA-256 checksum of data and returns it as a hex string.
func Compute(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// Hasher is an io.Writer that digests everything written through it.
// Use it with io.MultiWriter to hash a stream while it is being copied.
type Hasher struct {
	h hash.Hash
	n int64
}

// NewHasher returns an empty SHA-256 hasher.
func NewHasher() *Hasher {
	return &Hasher{h: sha256.New()}
}

func (w *Hasher) Write(p []byte) (int, error) {
	n, err := w.h.Write(p)
	w.n += int64(n)
	return n, err
}

// Sum returns the hex digest of all bytes written so far.
func (w *Hasher) Sum() string {
	return hex.EncodeToString(w.h.Sum(nil))
}

// Written returns the number of bytes hashed.
func (w *Hasher) Written() int64 {
	return w.n
}

// Reader digests r until EOF.
func Reader(r io.Reader) (string, int64, error) {
	h := NewHasher()
	if _, err := io.Copy(h, r); err != nil {
		return "", h.Written(), err
	}
	return h.Sum(), h.Written(), nil
}

// File digests the file at path without loading it into memory.
func File(path string) (string, int64, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", 0, fmt.Errorf("open file %s: %w", path, err)
	}
	defer f.Close()

	sum, n, err := Reader(f)
	if err != nil {
		return "", n, fmt.Errorf("hash file %s: %w", path, err)
	}
	return sum, n, nil
}

// Normalize lowercases d and strips an optional "sha256:" prefix.
// It reports false when the result is not a 64 character hex string.
func Normalize(d string) (string, bool) {
	d = strings.ToLower(strings.TrimSpace(d))
	d = strings.TrimPrefix(d, "sha256:")
	if len(d) != Size {
		return "", false
	}
	if _, err := hex.DecodeString(d); err != nil {
		return "", false
	}
	return d, true
}

// Equal compares two digests in constant time after normalisation.
func Equal(a, b string) bool {
	na, okA := Normalize(a)
	nb, okB := Normalize(b)
	if !okA || !okB {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(na), []byte(nb)) == 1
}
