// Package keyhash derives fixed-length cache keys from arbitrary byte
// payloads. Memoization wrappers hash their encoded arguments through it so
// cache keys stay short regardless of argument size.
package keyhash

import (
	"encoding/hex"

	"golang.org/x/crypto/blake2b"
)

// digestSize is the blake2b output length in bytes. 16 bytes (128 bit)
// keeps keys compact while making accidental collisions implausible for
// in-process cache lifetimes.
const digestSize = 16

// Digest returns the hex-encoded blake2b digest of data.
func Digest(data []byte) string {
	h, _ := blake2b.New(digestSize, nil)
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// DigestString is Digest over the raw bytes of s.
func DigestString(s string) string {
	return Digest([]byte(s))
}

// DigestParts digests a sequence of byte slices, separating parts with a
// zero byte so that ("ab","c") and ("a","bc") hash differently.
func DigestParts(parts ...[]byte) string {
	h, _ := blake2b.New(digestSize, nil)
	for i, p := range parts {
		if i > 0 {
			h.Write([]byte{0})
		}
		h.Write(p)
	}
	return hex.EncodeToString(h.Sum(nil))
}
