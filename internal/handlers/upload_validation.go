package handlers

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/epeers/stockdata/internal/services"
	log "github.com/sirupsen/logrus"
)

var (
	// ErrInvalidFileType is returned for uploads that are not CSV
	ErrInvalidFileType = errors.New("only CSV files are allowed")
	// ErrFileTooLarge is returned for uploads over the domain's size ceiling
	ErrFileTooLarge = errors.New("file too large")
)

// allowedClientContentTypes lists client-declared MIME types accepted for CSV uploads
var allowedClientContentTypes = map[string]bool{
	"text/csv":                 true,
	"application/csv":          true,
	"application/vnd.ms-excel": true, // Excel's label for .csv
	"text/plain":               true,
	"application/octet-stream": true,
}


// validateUpload checks extension, declared content type, size and magic bytes.
// The sniffed type must be text/*; only the declared type may be a binary label.
func validateUpload(fh *multipart.FileHeader, maxBytes int64) error {
	if !strings.EqualFold(filepath.Ext(fh.Filename), ".csv") {
		return fmt.Errorf("%w: %q", ErrInvalidFileType, fh.Filename)
	}

	if ct := fh.Header.Get("Content-Type"); ct != "" {
		mediaType, _, err := mime.ParseMediaType(ct)
		if err != nil || !allowedClientContentTypes[strings.ToLower(mediaType)] {
			return fmt.Errorf("%w: content type %q", ErrInvalidFileType, ct)
		}
	}

	if fh.Size > maxBytes {
		return fmt.Errorf("%w: %s exceeds the %s limit", ErrFileTooLarge,
			humanize.IBytes(uint64(fh.Size)), humanize.IBytes(uint64(maxBytes)))
	}

	f, err := fh.Open()
	if err != nil {
		return fmt.Errorf("failed to open upload: %w", err)
	}
	defer f.Close()

	buffer := make([]byte, 512)
	n, err := f.Read(buffer)
	if err != nil && err != io.EOF {
		return fmt.Errorf("failed to read upload: %w", err)
	}
	detected := http.DetectContentType(buffer[:n])
	detected = strings.ToLower(strings.TrimSpace(strings.Split(detected, ";")[0]))
	// sniffed CSV is always text/plain; application/octet-stream means
	// http.DetectContentType found binary bytes
	if !strings.HasPrefix(detected, "text/") {
		log.Warnf("Upload %s rejected, detected content type %s", fh.Filename, detected)
		return fmt.Errorf("%w: content looks like %s", ErrInvalidFileType, detected)
	}
	return nil
}

// saveUpload copies the upload into dir under a unique name and returns its path.
// The import pipeline owns the file from here on and removes it.
func saveUpload(fh *multipart.FileHeader, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return "", fmt.Errorf("failed to create upload dir: %w", err)
	}

	src, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open upload: %w", err)
	}
	defer src.Close()

	dst, err := os.CreateTemp(dir, services.UploadPattern)
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		os.Remove(dst.Name())
		return "", fmt.Errorf("failed to save upload: %w", err)
	}
	if err := dst.Close(); err != nil {
		os.Remove(dst.Name())
		return "", fmt.Errorf("failed to save upload: %w", err)
	}
	return dst.Name(), nil
}
