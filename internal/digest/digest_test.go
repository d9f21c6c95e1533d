package digest

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const abcDigest = "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad"

func TestCompute_KnownVector(t *testing.T) {
	assert.Equal(t, abcDigest, Compute([]byte("abc")))
}

func TestCompute_Deterministic(t *testing.T) {
	content := bytes.Repeat([]byte("mentat"), 1000)
	assert.Equal(t, Compute(content), Compute(content))
}

func TestCompute_BitFlipChangesDigest(t *testing.T) {
	content := bytes.Repeat([]byte{0x5a}, 4096)
	original := Compute(content)

	for _, pos := range []int{0, 1, 2047, 4095} {
		flipped := bytes.Clone(content)
		flipped[pos] ^= 0x01
		assert.NotEqual(t, original, Compute(flipped), "flip at byte %d", pos)
	}
}

func TestReader_MatchesCompute(t *testing.T) {
	content := []byte(strings.Repeat("streamed ", 10000))

	sum, n, err := Reader(bytes.NewReader(content))

	require.NoError(t, err)
	assert.Equal(t, Compute(content), sum)
	assert.Equal(t, int64(len(content)), n)
}

func TestHasher_TeeWithCopy(t *testing.T) {
	var sink bytes.Buffer
	h := NewHasher()

	_, err := sink.ReadFrom(io.TeeReader(strings.NewReader("abc"), h))

	require.NoError(t, err)
	assert.Equal(t, "abc", sink.String())
	assert.Equal(t, abcDigest, h.Sum())
	assert.Equal(t, int64(3), h.Written())
}

func TestFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "artifact")
	require.NoError(t, os.WriteFile(path, []byte("abc"), 0o644))

	sum, n, err := File(path)

	require.NoError(t, err)
	assert.Equal(t, abcDigest, sum)
	assert.Equal(t, int64(3), n)

	_, _, err = File(filepath.Join(t.TempDir(), "missing"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
		ok    bool
	}{
		{"lowercase", abcDigest, abcDigest, true},
		{"uppercase", strings.ToUpper(abcDigest), abcDigest, true},
		{"prefixed", "sha256:" + abcDigest, abcDigest, true},
		{"padded", "  " + abcDigest + "\n", abcDigest, true},
		{"short", abcDigest[:10], "", false},
		{"not hex", strings.Repeat("z", Size), "", false},
		{"empty", "", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Normalize(tt.input)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEqual(t *testing.T) {
	assert.True(t, Equal(abcDigest, strings.ToUpper(abcDigest)))
	assert.False(t, Equal(abcDigest, Compute([]byte("abd"))))
	assert.False(t, Equal("", ""))
}
