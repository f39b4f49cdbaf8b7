package extractor

import (
	"fmt"
	"path/filepath"
	"strings"
)

type FileType string

const (
	FileTypePDF  FileType = "pdf"
	FileTypeText FileType = "text"
)

// FileTypeOf maps a filename's extension to the extraction path.
func FileTypeOf(filename string) (FileType, error) {
	ext := Extension(filename)
	switch ext {
	case "pdf":
		return FileTypePDF, nil
	case "txt", "text":
		return FileTypeText, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedType, ext)
	}
}

// Extension returns the lower-cased extension without the dot.
func Extension(filename string) string {
	return strings.TrimPrefix(strings.ToLower(filepath.Ext(strings.TrimSpace(filename))), ".")
}
