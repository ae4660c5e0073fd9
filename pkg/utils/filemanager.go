// =============================================================================
// Rebate CSV Formatter - File Manager Utility
// =============================================================================
//
// This module provides file storage for the formatter:
//   - Storing uploaded input files under the upload directory
//   - Storing processed output files under the output directory
//   - Filename sanitization for anything client-supplied
//   - Retention sweeps that delete stored files past their max age
//
// NAMING:
//   Stored files get an 8-hex-character unique prefix so repeated uploads of
//   the same file never collide:
//     uploads/ab12cd34-invoices.csv
//     output/processed-ab12cd34-invoices.csv
//   The processed name doubles as the download identifier.
//
// =============================================================================

package utils

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// FILE MANAGER
// =============================================================================

// FileManager handles stored inputs and outputs for the formatter.
type FileManager struct {
	// UploadDir is the directory where uploaded input files are stored.
	UploadDir string

	// OutputDir is the directory where processed output files are stored.
	OutputDir string
}

// NewFileManager creates a FileManager over the given directories.
func NewFileManager(uploadDir, outputDir string) *FileManager {
	return &FileManager{
		UploadDir: uploadDir,
		OutputDir: outputDir,
	}
}

// EnsureDirectories creates the storage directories if they don't exist.
func (fm *FileManager) EnsureDirectories() error {
	for _, dir := range []string{fm.UploadDir, fm.OutputDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}

// =============================================================================
// FILENAME HANDLING
// =============================================================================

// SanitizeFilename strips everything from a client-supplied name except
// letters, digits, '-', '_' and '.'. A name with nothing left falls back to
// a generated CSV name, so a stored path always exists.
func SanitizeFilename(name string) string {
	var b strings.Builder
	for _, ch := range name {
		switch {
		case ch >= 'a' && ch <= 'z',
			ch >= 'A' && ch <= 'Z',
			ch >= '0' && ch <= '9',
			ch == '-', ch == '_', ch == '.':
			b.WriteRune(ch)
		}
	}

	safe := b.String()
	if safe == "" {
		return fmt.Sprintf("upload-%s.csv", uniquePrefix())
	}
	return safe
}

// uniquePrefix returns the 8-hex-character file name prefix.
func uniquePrefix() string {
	return strings.ReplaceAll(uuid.New().String(), "-", "")[:8]
}

// =============================================================================
// STORAGE
// =============================================================================

// StoreUpload writes an uploaded file's bytes under the upload directory
// and returns the stored path and size.
func (fm *FileManager) StoreUpload(name string, r io.Reader) (string, int64, error) {
	storedName := fmt.Sprintf("%s-%s", uniquePrefix(), SanitizeFilename(name))
	path := filepath.Join(fm.UploadDir, storedName)

	f, err := os.Create(path)
	if err != nil {
		return "", 0, fmt.Errorf("failed to create upload file: %w", err)
	}

	size, err := io.Copy(f, r)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(path)
		return "", 0, fmt.Errorf("failed to store upload: %w", err)
	}

	return path, size, nil
}

// StoreOutput writes processed bytes under the output directory and returns
// the stored file name, which doubles as the download identifier.
func (fm *FileManager) StoreOutput(inputName string, data []byte) (string, error) {
	storedName := fmt.Sprintf("processed-%s-%s", uniquePrefix(), SanitizeFilename(inputName))
	path := filepath.Join(fm.OutputDir, storedName)

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write output file: %w", err)
	}

	return storedName, nil
}

// OutputPath resolves a download identifier to a path inside the output
// directory. The name is re-sanitized so traversal sequences in a request
// can never escape the directory. The second return is false when no such
// file exists.
func (fm *FileManager) OutputPath(name string) (string, bool) {
	path := filepath.Join(fm.OutputDir, SanitizeFilename(name))
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return "", false
	}
	return path, true
}

// =============================================================================
// RETENTION
// =============================================================================

// CleanOldFiles deletes stored uploads and outputs older than maxAge and
// returns the number of files removed. Subdirectories are left alone.
func (fm *FileManager) CleanOldFiles(maxAge time.Duration) (int, error) {
	cutoff := time.Now().Add(-maxAge)
	removed := 0

	for _, dir := range []string{fm.UploadDir, fm.OutputDir} {
		entries, err := os.ReadDir(dir)
		if err != nil {
			return removed, fmt.Errorf("failed to read directory %s: %w", dir, err)
		}

		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}
			info, err := entry.Info()
			if err != nil {
				continue
			}
			if info.ModTime().Before(cutoff) {
				if err := os.Remove(filepath.Join(dir, entry.Name())); err == nil {
					removed++
				}
			}
		}
	}

	return removed, nil
}
