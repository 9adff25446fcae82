package upload

import (
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

// PDFType is the only content type the form accepts.
const PDFType = "application/pdf"

// MaxFileSize is the largest resume the form accepts.
const MaxFileSize = 10 << 20

// File is a resume candidate for upload.
type File struct {
	Name        string
	ContentType string // declared type, e.g. "application/pdf"
	Size        int64
	Open        func() (io.ReadCloser, error)
}

// Open describes the file at path. The declared type comes from the file
// extension and falls back to sniffing the first bytes.
func Open(path string) (File, error) {
	info, err := os.Stat(path)
	if err != nil {
		return File{}, fmt.Errorf("upload: %w", err)
	}
	if info.IsDir() {
		return File{}, fmt.Errorf("upload: %s is a directory", path)
	}

	contentType := mime.TypeByExtension(strings.ToLower(filepath.Ext(path)))
	if contentType == "" {
		contentType, err = sniff(path)
		if err != nil {
			return File{}, err
		}
	}
	if mediaType, _, err := mime.ParseMediaType(contentType); err == nil {
		contentType = mediaType
	}

	return File{
		Name:        filepath.Base(path),
		ContentType: contentType,
		Size:        info.Size(),
		Open:        func() (io.ReadCloser, error) { return os.Open(path) },
	}, nil
}

func sniff(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("upload: %w", err)
	}
	defer f.Close()

	buf := make([]byte, 512)
	n, err := io.ReadFull(f, buf)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return "", fmt.Errorf("upload: reading %s: %w", path, err)
	}
	return http.DetectContentType(buf[:n]), nil
}
