package extract

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/fumiama/go-docx"
	"github.com/ledongthuc/pdf"
)

// ErrUnsupported is returned for attachment MIME types outside the
// allow-list. Callers skip such attachments rather than failing the message.
var ErrUnsupported = errors.New("unsupported attachment type")

const (
	mimePDF   = "application/pdf"
	mimeDOCX  = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	mimeRTF   = "application/rtf"
	mimeRTFx  = "text/rtf"
	mimePlain = "text/plain"
)

// Extract returns the plain text of an attachment. Only PDF, DOCX, RTF and
// plain text are handled; anything else yields ErrUnsupported. MIME type
// parameters ("; charset=...") are ignored.
func Extract(data []byte, mimeType string) (string, error) {
	mt := strings.ToLower(strings.TrimSpace(mimeType))
	if i := strings.IndexByte(mt, ';'); i >= 0 {
		mt = strings.TrimSpace(mt[:i])
	}

	switch mt {
	case mimePDF:
		return extractPDF(data)
	case mimeDOCX:
		return extractDOCX(data)
	case mimeRTF, mimeRTFx:
		return extractRTF(data), nil
	case mimePlain:
		return string(data), nil
	default:
		return "", fmt.Errorf("%s: %w", mimeType, ErrUnsupported)
	}
}

func extractPDF(data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}

	var b strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			// A single broken page should not discard the rest.
			continue
		}
		b.WriteString(text)
		b.WriteString("\n")
	}
	return b.String(), nil
}

func extractDOCX(data []byte) (string, error) {
	doc, err := docx.Parse(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("open docx: %w", err)
	}

	var b strings.Builder
	for _, item := range doc.Document.Body.Items {
		switch v := item.(type) {
		case *docx.Paragraph:
			b.WriteString(v.String())
			b.WriteString("\n")
		case *docx.Table:
			b.WriteString(v.String())
			b.WriteString("\n")
		}
	}
	return b.String(), nil
}

// extractRTF strips RTF control words and groups, keeping the visible text.
// RTF is rare enough in practice that a full parser is not worth carrying;
// this handles the letters and CVs mail clients actually produce.
func extractRTF(data []byte) string {
	var b strings.Builder
	i := 0
	for i < len(data) {
		c := data[i]
		switch c {
		case '\\':
			i++
			if i >= len(data) {
				break
			}
			switch data[i] {
			case '\\', '{', '}':
				b.WriteByte(data[i])
				i++
			case '\'':
				// Hex-escaped byte, e.g. \'e4. Skip the two hex digits.
				i += 3
			default:
				// Control word: letters, optional numeric parameter,
				// optional single trailing space.
				start := i
				for i < len(data) && isAlpha(data[i]) {
					i++
				}
				word := string(data[start:i])
				for i < len(data) && (data[i] == '-' || isDigit(data[i])) {
					i++
				}
				if i < len(data) && data[i] == ' ' {
					i++
				}
				if word == "par" || word == "line" {
					b.WriteByte('\n')
				}
			}
		case '{', '}':
			i++
		case '\r', '\n':
			i++
		default:
			b.WriteByte(c)
			i++
		}
	}
	return strings.TrimSpace(b.String())
}

func isAlpha(c byte) bool { return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') }
func isDigit(c byte) bool { return c >= '0' && c <= '9' }
