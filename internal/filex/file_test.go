package filex

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEnsureDir_CreatesNestedDirectory(t *testing.T) {
	target := filepath.Join(t.TempDir(), "resumematch", "data")

	got, err := EnsureDir(target)
	require.NoError(t, err)
	require.Equal(t, target, got)

	fi, err := os.Stat(target)
	require.NoError(t, err)
	require.True(t, fi.IsDir())

	if runtime.GOOS != "windows" {
		require.Equal(t, os.FileMode(0o700), fi.Mode().Perm()&0o700)
	}
}

func TestEnsureDir_Idempotent(t *testing.T) {
	target := filepath.Join(t.TempDir(), "resumematch")

	first, err := EnsureDir(target)
	require.NoError(t, err)
	second, err := EnsureDir(target)
	require.NoError(t, err)
	require.Equal(t, first, second)
}

func TestEnsureDir_FailsIfFileWithSameNameExists(t *testing.T) {
	target := filepath.Join(t.TempDir(), "resumematch")
	require.NoError(t, os.WriteFile(target, []byte("x"), 0o600))

	_, err := EnsureDir(target)
	require.Error(t, err)
}

func TestDefaultDataDir(t *testing.T) {
	orig := userConfigDir
	t.Cleanup(func() { userConfigDir = orig })

	userConfigDir = func() (string, error) { return "/home/u/.config", nil }
	require.Equal(t, filepath.Join("/home/u/.config", "resumematch"), DefaultDataDir("resumematch"))

	userConfigDir = func() (string, error) { return "", errors.New("no home") }
	require.Equal(t, ".resumematch", DefaultDataDir("resumematch"))
}

func TestReadHead(t *testing.T) {
	head, err := ReadHead(strings.NewReader("%PDF-1.7 rest of file"), 5)
	require.NoError(t, err)
	require.Equal(t, "%PDF-", string(head))

	short, err := ReadHead(strings.NewReader("ab"), 10)
	require.NoError(t, err)
	require.Equal(t, "ab", string(short))

	empty, err := ReadHead(strings.NewReader(""), 10)
	require.NoError(t, err)
	require.Empty(t, empty)
}
