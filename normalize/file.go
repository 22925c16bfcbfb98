package normalize

import (
	"bytes"
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

// File is a selected audio file. Its content is read only when a request
// is built.
type File struct {
	Name     string
	MIMEType string
	Open     func() (io.ReadCloser, error)
}

// BytesFile wraps in-memory content.
func BytesFile(name, mimeType string, data []byte) *File {
	return &File{
		Name:     name,
		MIMEType: mimeType,
		Open: func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader(data)), nil
		},
	}
}

// OpenFile describes a file on disk. The MIME type comes from the extension,
// or from the leading bytes when the extension is unknown.
func OpenFile(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("normalize: open %s: %w", path, err)
	}
	defer f.Close()

	mimeType := mimeFromExtension(path)
	if mimeType == "" {
		head := make([]byte, 512)
		n, _ := io.ReadFull(f, head)
		mimeType = http.DetectContentType(head[:n])
	}
	return &File{
		Name:     filepath.Base(path),
		MIMEType: mimeType,
		Open: func() (io.ReadCloser, error) {
			return os.Open(path)
		},
	}, nil
}

func mimeFromExtension(path string) string {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == ".mp3" {
		return MIMETypeMP3
	}
	t := mime.TypeByExtension(ext)
	if i := strings.IndexByte(t, ';'); i >= 0 {
		t = t[:i]
	}
	return t
}
