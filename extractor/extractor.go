package extractor

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
)

var (
	ErrUnsupportedType = errors.New("unsupported file type")
	ErrExtraction      = errors.New("text extraction failed")
)

type fallback struct {
	name     string
	encoding encoding.Encoding
}

// Tried in order when the content is not valid utf-8. Windows-1252 leaves
// five bytes undefined and decodes them to U+FFFD, so it goes first.
// ISO-8859-1 maps every byte and must stay last.
var fallbacks = []fallback{
	{name: "windows-1252", encoding: charmap.Windows1252},
	{name: "iso-8859-1", encoding: charmap.ISO8859_1},
}

// Extract converts a downloaded document into plain text.
func Extract(content []byte, fileType FileType) (string, error) {
	switch fileType {
	case FileTypePDF:
		return extractPDF(content)
	case FileTypeText:
		return extractText(content)
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedType, fileType)
	}
}

func extractPDF(content []byte) (text string, err error) {
	// the pdf reader panics on some malformed inputs
	defer func() {
		if r := recover(); r != nil {
			text = ""
			err = fmt.Errorf("%w: malformed pdf: %v", ErrExtraction, r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrExtraction, err)
	}

	var sb strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		pageText, err := page.GetPlainText(nil)
		if err != nil {
			return "", fmt.Errorf("%w: page %d: %v", ErrExtraction, i, err)
		}
		sb.WriteString(pageText)
		sb.WriteString("\n")
	}

	return strings.TrimSpace(sb.String()), nil
}

func extractText(content []byte) (string, error) {
	if utf8.Valid(content) {
		return string(content), nil
	}

	for _, fb := range fallbacks {
		decoded, err := fb.encoding.NewDecoder().Bytes(content)
		if err != nil || !utf8.Valid(decoded) || bytes.ContainsRune(decoded, utf8.RuneError) {
			continue
		}
		return string(decoded), nil
	}

	return "", fmt.Errorf("%w: unable to decode text with any supported encoding", ErrExtraction)
}
