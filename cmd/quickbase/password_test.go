package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadPassword(t *testing.T) {
	open := func(t *testing.T, content string) *os.File {
		t.Helper()
		path := filepath.Join(t.TempDir(), "stdin")
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
		f, err := os.Open(path)
		require.NoError(t, err)
		t.Cleanup(func() { _ = f.Close() })
		return f
	}

	t.Run("piped line", func(t *testing.T) {
		var prompt bytes.Buffer
		pass, err := readPassword(open(t, "s3cret pw\r\nignored\n"), &prompt, "jdoe")
		require.NoError(t, err)
		assert.Equal(t, "s3cret pw", pass)
		assert.Equal(t, "Password for jdoe: ", prompt.String())
	})

	t.Run("no trailing newline", func(t *testing.T) {
		pass, err := readPassword(open(t, "pw"), &bytes.Buffer{}, "jdoe")
		require.NoError(t, err)
		assert.Equal(t, "pw", pass)
	})

	t.Run("empty input", func(t *testing.T) {
		_, err := readPassword(open(t, ""), &bytes.Buffer{}, "jdoe")
		assert.Error(t, err)
	})
}
