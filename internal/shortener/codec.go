package shortener

import (
	"crypto/md5" //nolint:gosec // md5 is selectable for legacy deployments, not used for security
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"
	"fmt"
	"hash"
)

const base62Alphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"

// digestConstructors maps algorithm names to hash constructors. The digest
// is only used as a stable content address, so fast legacy algorithms stay
// selectable alongside the SHA family.
var digestConstructors = map[string]func() hash.Hash{
	"md5":    md5.New,
	"sha1":   sha1.New,
	"sha256": sha256.New,
	"sha512": sha512.New,
}

// DigestFunc produces the full digest for a path. The engine binds salt and
// algorithm at construction; tests can substitute arbitrary functions.
type DigestFunc func(path string) string

// NewDigestFunc returns a DigestFunc computing the named algorithm over
// path+salt, hex encoded. Same (path, salt, algorithm) always yields the
// same digest.
func NewDigestFunc(salt, algorithm string) (DigestFunc, error) {
	newHash, ok := digestConstructors[algorithm]
	if !ok {
		return nil, fmt.Errorf("unknown digest algorithm %q", algorithm)
	}

	return func(path string) string {
		h := newHash()
		h.Write([]byte(path))
		h.Write([]byte(salt))

		return hex.EncodeToString(h.Sum(nil))
	}, nil
}

// EncodeID converts a non-negative row ID to its base62 representation over
// [0-9A-Za-z]. The mapping is bijective and strictly length-increasing with
// magnitude, so codes derived from distinct IDs never collide.
func EncodeID(id int64) string {
	if id == 0 {
		return string(base62Alphabet[0])
	}

	buf := make([]byte, 0, 11) // 64-bit IDs need at most 11 base62 digits
	for id > 0 {
		buf = append(buf, base62Alphabet[id%62])
		id /= 62
	}

	for i, j := 0, len(buf)-1; i < j; i, j = i+1, j-1 {
		buf[i], buf[j] = buf[j], buf[i]
	}

	return string(buf)
}
