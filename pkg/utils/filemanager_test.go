package utils

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func newTestManager(t *testing.T) *FileManager {
	t.Helper()

	root := t.TempDir()
	fm := NewFileManager(filepath.Join(root, "uploads"), filepath.Join(root, "output"))
	assert.NoError(t, fm.EnsureDirectories())
	return fm
}

func TestSanitizeFilename(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"plain name passes through", "invoices.csv", "invoices.csv"},
		{"spaces are stripped", "march invoices.csv", "marchinvoices.csv"},
		{"path separators are stripped", "../../etc/passwd", "....etcpasswd"},
		{"windows separators are stripped", `..\..\boot.ini`, "....boot.ini"},
		{"unicode is stripped", "fakturaček.csv", "fakturaek.csv"},
		{"dashes and underscores survive", "q1_report-final.csv", "q1_report-final.csv"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, SanitizeFilename(tc.in))
		})
	}

	t.Run("fully stripped name falls back to a generated one", func(t *testing.T) {
		got := SanitizeFilename("///")
		assert.True(t, strings.HasPrefix(got, "upload-"))
		assert.True(t, strings.HasSuffix(got, ".csv"))
	})
}

func TestStoreUpload(t *testing.T) {
	fm := newTestManager(t)

	path, size, err := fm.StoreUpload("invoices.csv", strings.NewReader("a,b\n1,2\n"))

	assert.NoError(t, err)
	assert.Equal(t, int64(8), size)
	assert.Equal(t, fm.UploadDir, filepath.Dir(path))
	assert.True(t, strings.HasSuffix(path, "-invoices.csv"))

	data, err := os.ReadFile(path)
	assert.NoError(t, err)
	assert.Equal(t, "a,b\n1,2\n", string(data))
}

func TestStoreUploadUniqueNames(t *testing.T) {
	fm := newTestManager(t)

	first, _, err := fm.StoreUpload("same.csv", strings.NewReader("1"))
	assert.NoError(t, err)
	second, _, err := fm.StoreUpload("same.csv", strings.NewReader("2"))
	assert.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestStoreOutputAndOutputPath(t *testing.T) {
	fm := newTestManager(t)

	name, err := fm.StoreOutput("invoices.csv", []byte("x,y\n"))
	assert.NoError(t, err)
	assert.True(t, strings.HasPrefix(name, "processed-"))
	assert.True(t, strings.HasSuffix(name, "-invoices.csv"))

	path, ok := fm.OutputPath(name)
	assert.True(t, ok)
	data, err := os.ReadFile(path)
	assert.NoError(t, err)
	assert.Equal(t, "x,y\n", string(data))
}

func TestOutputPathRejectsTraversal(t *testing.T) {
	fm := newTestManager(t)

	_, ok := fm.OutputPath("../outside.csv")
	assert.False(t, ok)

	_, ok = fm.OutputPath("missing.csv")
	assert.False(t, ok)
}

func TestCleanOldFiles(t *testing.T) {
	fm := newTestManager(t)

	oldUpload, _, err := fm.StoreUpload("old.csv", strings.NewReader("old"))
	assert.NoError(t, err)
	_, _, err = fm.StoreUpload("fresh.csv", strings.NewReader("fresh"))
	assert.NoError(t, err)

	oldName, err := fm.StoreOutput("old.csv", []byte("old"))
	assert.NoError(t, err)
	oldOutput := filepath.Join(fm.OutputDir, oldName)

	stale := time.Now().Add(-48 * time.Hour)
	assert.NoError(t, os.Chtimes(oldUpload, stale, stale))
	assert.NoError(t, os.Chtimes(oldOutput, stale, stale))

	removed, err := fm.CleanOldFiles(24 * time.Hour)

	assert.NoError(t, err)
	assert.Equal(t, 2, removed)
	assert.NoFileExists(t, oldUpload)
	assert.NoFileExists(t, oldOutput)

	entries, err := os.ReadDir(fm.UploadDir)
	assert.NoError(t, err)
	assert.Len(t, entries, 1)
}
