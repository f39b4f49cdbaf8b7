package extractor

import (
	"bytes"
	"strings"
	"testing"

	"github.com/jung-kurt/gofpdf"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileTypeOf(t *testing.T) {
	tests := []struct {
		filename string
		want     FileType
		wantErr  bool
	}{
		{filename: "refunds.pdf", want: FileTypePDF},
		{filename: "Policy.PDF", want: FileTypePDF},
		{filename: "faq.txt", want: FileTypeText},
		{filename: "notes.text", want: FileTypeText},
		{filename: "sheet.docx", wantErr: true},
		{filename: "noextension", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			got, err := FileTypeOf(tt.filename)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrUnsupportedType)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExtract(t *testing.T) {
	t.Run("ShouldReturnUTF8TextAsIs", func(t *testing.T) {
		text, err := Extract([]byte("Refunds take 5–7 days ✓"), FileTypeText)
		require.NoError(t, err)
		assert.Equal(t, "Refunds take 5–7 days ✓", text)
	})

	t.Run("ShouldFallBackToLatin1", func(t *testing.T) {
		// "café" encoded as ISO-8859-1
		text, err := Extract([]byte{'c', 'a', 'f', 0xe9}, FileTypeText)
		require.NoError(t, err)
		assert.Equal(t, "café", text)
	})

	t.Run("ShouldPreferWindows1252ForSmartQuotes", func(t *testing.T) {
		text, err := Extract([]byte{0x93, 'h', 'i', 0x94, ' ', 0x80, '5'}, FileTypeText)
		require.NoError(t, err)
		assert.Equal(t, "\u201chi\u201d \u20ac5", text)
	})

	t.Run("ShouldFallBackToLatin1ForBytesWindows1252LeavesUndefined", func(t *testing.T) {
		text, err := Extract([]byte{'a', 0x81, 0xe9}, FileTypeText)
		require.NoError(t, err)
		assert.Equal(t, "a\u0081\u00e9", text)
	})

	t.Run("ShouldJoinPDFPagesInOrder", func(t *testing.T) {
		doc := gofpdf.New("P", "mm", "A4", "")
		doc.SetCompression(false)
		for _, line := range []string{"Page one refund policy", "Page two shipping policy"} {
			doc.AddPage()
			doc.SetFont("Helvetica", "", 12)
			doc.Cell(40, 10, line)
		}

		var buf bytes.Buffer
		require.NoError(t, doc.Output(&buf))

		text, err := Extract(buf.Bytes(), FileTypePDF)
		require.NoError(t, err)

		first := strings.Index(text, "Page one refund policy")
		second := strings.Index(text, "Page two shipping policy")
		require.GreaterOrEqual(t, first, 0, text)
		require.Greater(t, second, first, text)
		assert.Contains(t, text[first:second], "\n")
		assert.Equal(t, text, strings.TrimSpace(text))
	})

	t.Run("ShouldRejectUnsupportedType", func(t *testing.T) {
		_, err := Extract([]byte("x"), FileType("docx"))
		require.ErrorIs(t, err, ErrUnsupportedType)
	})

	t.Run("ShouldFailOnInvalidPDF", func(t *testing.T) {
		_, err := Extract([]byte("definitely not a pdf"), FileTypePDF)
		require.ErrorIs(t, err, ErrExtraction)
	})
}
