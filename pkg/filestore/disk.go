package filestore

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
)

// Disk stores files under a base directory on the local filesystem.
type Disk struct {
	baseDir string
	logger  zerolog.Logger
}

// NewDisk creates the base directory if needed and returns a disk store.
func NewDisk(baseDir string, logger zerolog.Logger) (*Disk, error) {
	if baseDir == "" {
		return nil, fmt.Errorf("base directory must be provided")
	}

	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}

	return &Disk{
		baseDir: baseDir,
		logger:  logger.With().Str("component", "filestore").Logger(),
	}, nil
}

// Upload writes the blob under the sanitised name and returns its relative path.
func (d *Disk) Upload(_ context.Context, name string, reader io.Reader) (string, error) {
	safe := SanitizeName(name)
	if safe == "" {
		return "", fmt.Errorf("invalid file name %q", name)
	}

	path := filepath.Join(d.baseDir, safe)
	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	if _, err := io.Copy(file, reader); err != nil {
		return "", fmt.Errorf("failed to write file: %w", err)
	}

	d.logger.Info().Str("file", safe).Msg("file stored")

	return safe, nil
}

// Open returns a reader over a previously stored file.
func (d *Disk) Open(_ context.Context, name string) (io.ReadCloser, error) {
	return os.Open(filepath.Join(d.baseDir, SanitizeName(name)))
}

// Exists reports whether the named file has been stored.
func (d *Disk) Exists(_ context.Context, name string) bool {
	info, err := os.Stat(filepath.Join(d.baseDir, SanitizeName(name)))
	return err == nil && !info.IsDir()
}

// SanitizeName flattens a file name to a safe single path element: spaces
// become underscores and every other disallowed rune is percent-encoded.
// Encoding rather than dropping keeps the mapping injective, so names that
// differ only in stripped runes ("Week 1–2" vs "Week 12", "BIO/001" vs
// "BIO001") cannot address the same file.
func SanitizeName(name string) string {
	// Leading dot/separator runs ("../", "./") are traversal noise, but an
	// interior separator is part of the name (matric numbers like BIO/001)
	// and gets encoded below.
	name = strings.TrimLeft(strings.TrimSpace(name), "./\\")

	var b strings.Builder
	for _, r := range name {
		switch {
		case r == ' ':
			b.WriteByte('_')
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		// '%' passes through so sanitising is idempotent: Upload returns
		// the encoded name and Open/Exists sanitise their input again.
		case r == '.' || r == '_' || r == '-' || r == '%':
			b.WriteRune(r)
		default:
			for _, octet := range []byte(string(r)) {
				fmt.Fprintf(&b, "%%%02X", octet)
			}
		}
	}

	return strings.Trim(b.String(), ".")
}
