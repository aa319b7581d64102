package manifest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDigest(t *testing.T) {
	assert.Equal(t, Digest([]byte("a"), []byte("b")), Digest([]byte("a"), []byte("b")))
	assert.NotEqual(t, Digest([]byte("ab")), Digest([]byte("a"), []byte("b")))
	assert.NotEqual(t, Digest([]byte("a"), []byte("bc")), Digest([]byte("ab"), []byte("c")))
}

func TestUpToDate(t *testing.T) {
	dir := t.TempDir()
	digest := Digest([]byte("type Query { a: String }"))

	upToDate, err := UpToDate(dir, digest)
	require.NoError(t, err)
	assert.False(t, upToDate, "no manifest")

	require.NoError(t, os.MkdirAll(filepath.Join(dir, "types"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "types", "types.go"), []byte("package types\n"), 0o644))
	require.NoError(t, Write(dir, digest, []string{"types/types.go"}))

	upToDate, err = UpToDate(dir, digest)
	require.NoError(t, err)
	assert.True(t, upToDate)

	upToDate, err = UpToDate(dir, Digest([]byte("changed")))
	require.NoError(t, err)
	assert.False(t, upToDate, "digest changed")

	require.NoError(t, os.Remove(filepath.Join(dir, "types", "types.go")))
	upToDate, err = UpToDate(dir, digest)
	require.NoError(t, err)
	assert.False(t, upToDate, "generated file removed")
}

func TestReadInvalid(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte("digest: [\n"), 0o644))

	_, err := Read(dir)
	assert.ErrorContains(t, err, "invalid manifest")
}

func TestStale(t *testing.T) {
	previous := &Manifest{Files: []string{"client/client.go", "types/types.go"}}
	assert.Equal(t, []string{"client/client.go"}, Stale(previous, []string{"types/types.go"}))
	assert.Nil(t, Stale(nil, []string{"types/types.go"}))
}

func TestReadRejectsFilesOutsideDir(t *testing.T) {
	for _, file := range []string{"../outside.go", "types/../../outside.go", "/etc/passwd", "..", ""} {
		t.Run(file, func(t *testing.T) {
			dir := t.TempDir()
			require.NoError(t, Write(dir, "1", []string{"types/types.go", file}))

			_, err := Read(dir)
			assert.ErrorContains(t, err, "is outside of the output directory")

			_, err = UpToDate(dir, "1")
			assert.ErrorContains(t, err, "is outside of the output directory")
		})
	}

	dir := t.TempDir()
	require.NoError(t, Write(dir, "1", []string{"types/types.go", "client/../client/client.go"}))
	m, err := Read(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"client/../client/client.go", "types/types.go"}, m.Files)
}
