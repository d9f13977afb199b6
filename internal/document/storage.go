// Package document handles the physical side of employee document files.
// Metadata lives in the employee row; this package owns the bytes on disk.
package document

import (
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

type Storage struct {
	Dir string
}

func NewStorage(dir string) *Storage {
	return &Storage{Dir: dir}
}

// Save writes the uploaded file under dir/project/userID and returns the
// stored path plus the metadata to persist. The filename is sanitized and
// prefixed with the doc type so one slot holds one file.
func (s *Storage) Save(projectKey string, userID int64, docType string, header *multipart.FileHeader, file multipart.File) (string, string, int64, error) {
	dir := filepath.Join(s.Dir, projectKey, fmt.Sprintf("%d", userID))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", "", 0, err
	}

	name := docType + "-" + sanitizeFilename(header.Filename)
	path := filepath.Join(dir, name)

	dst, err := os.Create(path)
	if err != nil {
		return "", "", 0, err
	}
	defer dst.Close()

	written, err := io.Copy(dst, file)
	if err != nil {
		_ = os.Remove(path)
		return "", "", 0, err
	}

	mimetype := header.Header.Get("Content-Type")
	if mimetype == "" {
		mimetype = detectMimetype(path)
	}
	return path, mimetype, written, nil
}

// Remove deletes a superseded file best-effort. A missing file is not an
// error; the metadata is already gone.
func (s *Storage) Remove(path string) {
	if path == "" {
		return
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		slog.Warn("remove superseded file failed", "path", path, "err", err)
	}
}

func sanitizeFilename(name string) string {
	name = filepath.Base(name)
	name = strings.ReplaceAll(name, " ", "_")
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '.' || r == '-' || r == '_':
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return "file"
	}
	return b.String()
}

func detectMimetype(path string) string {
	f, err := os.Open(path)
	if err != nil {
		return "application/octet-stream"
	}
	defer f.Close()

	buf := make([]byte, 512)
	n, _ := f.Read(buf)
	return http.DetectContentType(buf[:n])
}
