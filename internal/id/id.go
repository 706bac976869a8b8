// Package id generates opaque identifiers for drill sessions.
package id

import "crypto/rand"

const (
	alphabet = "abcdefghijklmnopqrstuvwxyz0123456789"
	Length   = 16

	// largest multiple of len(alphabet) that fits in a byte
	cutoff = 256 - 256%len(alphabet)
)

// New returns a random lower-case alphanumeric id of Length characters.
// Bytes at or above cutoff are discarded so every character is equally likely.
func New() string {
	out := make([]byte, 0, Length)
	buf := make([]byte, Length*2)
	for len(out) < Length {
		if _, err := rand.Read(buf); err != nil {
			panic("crypto/rand failed: " + err.Error())
		}
		for _, b := range buf {
			if int(b) >= cutoff {
				continue
			}
			out = append(out, alphabet[int(b)%len(alphabet)])
			if len(out) == Length {
				break
			}
		}
	}
	return string(out)
}
