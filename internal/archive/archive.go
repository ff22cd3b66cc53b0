package archive

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zstd"
)

const (
	logExt     = ".jsonl"
	archiveExt = ".jsonl.zst"
)

// Open returns a reader over the log at path. Paths ending in .zst are
// decompressed as they are read. Errors from os.Open are returned unwrapped
// so callers can test them with errors.Is(err, fs.ErrNotExist).
func Open(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	if !strings.HasSuffix(path, ".zst") {
		return f, nil
	}

	dec, err := zstd.NewReader(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("create zstd decoder: %w", err)
	}
	return &zstdFile{dec: dec, f: f}, nil
}

type zstdFile struct {
	dec *zstd.Decoder
	f   *os.File
}

func (z *zstdFile) Read(p []byte) (int, error) { return z.dec.Read(p) }

func (z *zstdFile) Close() error {
	z.dec.Close()
	return z.f.Close()
}

// Archive compresses srcPath into archiveDir/{session-id}.jsonl.zst and
// returns the archive path. Compressed sources are copied as-is.
func Archive(srcPath, archiveDir string) (string, error) {
	sessionID := SessionID(srcPath)
	if sessionID == "" {
		return "", fmt.Errorf("cannot extract session ID from %s", srcPath)
	}

	destPath := Path(sessionID, archiveDir)

	if err := os.MkdirAll(archiveDir, 0o755); err != nil {
		return "", fmt.Errorf("create archive dir: %w", err)
	}

	src, err := os.Open(srcPath)
	if err != nil {
		return "", fmt.Errorf("open source: %w", err)
	}
	defer src.Close()

	dest, err := os.Create(destPath)
	if err != nil {
		return "", fmt.Errorf("create archive: %w", err)
	}
	defer dest.Close()

	if strings.HasSuffix(srcPath, archiveExt) {
		if _, err := io.Copy(dest, src); err != nil {
			return "", fmt.Errorf("copy archive: %w", err)
		}
		return destPath, dest.Close()
	}

	encoder, err := zstd.NewWriter(dest)
	if err != nil {
		return "", fmt.Errorf("create zstd encoder: %w", err)
	}

	if _, err := io.Copy(encoder, src); err != nil {
		encoder.Close()
		return "", fmt.Errorf("compress: %w", err)
	}

	if err := encoder.Close(); err != nil {
		return "", fmt.Errorf("finalize compression: %w", err)
	}

	if err := dest.Close(); err != nil {
		return "", fmt.Errorf("close archive: %w", err)
	}

	return destPath, nil
}

// Path returns the deterministic archive path for a session ID.
func Path(sessionID, archiveDir string) string {
	return filepath.Join(archiveDir, sessionID+archiveExt)
}

// SessionID derives the session ID from a log filename, or "" when the name
// is neither .jsonl nor .jsonl.zst.
func SessionID(path string) string {
	base := filepath.Base(path)
	if strings.HasSuffix(base, archiveExt) {
		return strings.TrimSuffix(base, archiveExt)
	}
	if strings.HasSuffix(base, logExt) {
		return strings.TrimSuffix(base, logExt)
	}
	return ""
}
