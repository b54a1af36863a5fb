package testutil

import (
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
)

// TestFile describes a file to create in a test filesystem.
type TestFile struct {
	Path    string
	Content string
	ModTime time.Time
}

// MakeFS builds an in-memory filesystem with the given directories and files.
// Parent directories of files are created as needed.
func MakeFS(t *testing.T, dirs []string, files ...*TestFile) afero.Fs {
	t.Helper()

	fs := afero.NewMemMapFs()

	for _, dir := range dirs {
		require.NoError(t, fs.MkdirAll(dir, 0o755))
	}

	for _, file := range files {
		require.NoError(t, fs.MkdirAll(filepath.Dir(file.Path), 0o755))
		require.NoError(t, afero.WriteFile(fs, file.Path, []byte(file.Content), 0o644))

		if !file.ModTime.IsZero() {
			require.NoError(t, fs.Chtimes(file.Path, file.ModTime, file.ModTime))
		}
	}

	return fs
}

// DiscardLogger returns a logger that drops everything.
func DiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}
