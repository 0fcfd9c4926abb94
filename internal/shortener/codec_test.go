package shortener_test

import (
	"crypto/sha256"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/davrd/hashlink/internal/shortener"
)

func TestEncodeID(t *testing.T) {
	t.Run("maps known values", func(t *testing.T) {
		cases := map[int64]string{
			0:    "0",
			1:    "1",
			2:    "2",
			9:    "9",
			10:   "A",
			35:   "Z",
			36:   "a",
			61:   "z",
			62:   "10",
			124:  "20",
			3843: "zz",
			3844: "100",
		}

		for id, want := range cases {
			assert.Equal(t, want, shortener.EncodeID(id), "id %d", id)
		}
	})

	t.Run("is strictly length increasing with magnitude", func(t *testing.T) {
		previous := ""

		for id := int64(0); id < 10_000; id++ {
			code := shortener.EncodeID(id)

			if len(code) < len(previous) {
				t.Fatalf("EncodeID(%d)=%q shorter than EncodeID(%d)=%q", id, code, id-1, previous)
			}

			previous = code
		}
	})

	t.Run("is injective over a range", func(t *testing.T) {
		seen := make(map[string]int64)

		for id := int64(0); id < 10_000; id++ {
			code := shortener.EncodeID(id)

			if other, dup := seen[code]; dup {
				t.Fatalf("EncodeID(%d) and EncodeID(%d) both map to %q", id, other, code)
			}

			seen[code] = id
		}
	})
}

func TestNewDigestFunc(t *testing.T) {
	t.Run("is deterministic", func(t *testing.T) {
		digest, err := shortener.NewDigestFunc("salt", "sha256")
		require.NoError(t, err)

		assert.Equal(t, digest("/bar"), digest("/bar"))
	})

	t.Run("hashes path concatenated with salt", func(t *testing.T) {
		digest, err := shortener.NewDigestFunc("pepper", "sha256")
		require.NoError(t, err)

		sum := sha256.Sum256([]byte("/bar" + "pepper"))
		assert.Equal(t, hex.EncodeToString(sum[:]), digest("/bar"))
	})

	t.Run("different salts give different digests", func(t *testing.T) {
		first, err := shortener.NewDigestFunc("salt-a", "sha256")
		require.NoError(t, err)

		second, err := shortener.NewDigestFunc("salt-b", "sha256")
		require.NoError(t, err)

		assert.NotEqual(t, first("/bar"), second("/bar"))
	})

	t.Run("supports the legacy algorithms", func(t *testing.T) {
		for _, algorithm := range []string{"md5", "sha1", "sha256", "sha512"} {
			digest, err := shortener.NewDigestFunc("salt", algorithm)
			require.NoError(t, err, algorithm)
			assert.NotEmpty(t, digest("/bar"), algorithm)
		}
	})

	t.Run("rejects unknown algorithms", func(t *testing.T) {
		_, err := shortener.NewDigestFunc("salt", "rot13")
		assert.Error(t, err)
	})
}
