package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractPlainText(t *testing.T) {
	text, err := Extract([]byte("hello world"), "text/plain")
	require.NoError(t, err)
	assert.Equal(t, "hello world", text)
}

func TestExtractStripsMimeParameters(t *testing.T) {
	text, err := Extract([]byte("hallo"), "text/plain; charset=utf-8")
	require.NoError(t, err)
	assert.Equal(t, "hallo", text)
}

func TestExtractUnsupportedType(t *testing.T) {
	tests := []string{
		"image/png",
		"application/zip",
		"application/msword",
		"",
	}
	for _, mimeType := range tests {
		t.Run(mimeType, func(t *testing.T) {
			_, err := Extract([]byte("data"), mimeType)
			assert.ErrorIs(t, err, ErrUnsupported)
		})
	}
}

func TestExtractInvalidPDF(t *testing.T) {
	_, err := Extract([]byte("not a pdf"), "application/pdf")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrUnsupported, "supported type with bad payload is a real error")
}

func TestExtractInvalidDOCX(t *testing.T) {
	_, err := Extract([]byte("not a zip archive"),
		"application/vnd.openxmlformats-officedocument.wordprocessingml.document")
	assert.Error(t, err)
}

func TestExtractRTF(t *testing.T) {
	tests := []struct {
		name string
		rtf  string
		want string
	}{
		{
			name: "plain paragraph",
			rtf:  `{\rtf1\ansi Hello World}`,
			want: "Hello World",
		},
		{
			name: "par becomes newline",
			rtf:  `{\rtf1 First\par Second}`,
			want: "First\nSecond",
		},
		{
			name: "escaped braces and backslash",
			rtf:  `{\rtf1 a\{b\}c\\d}`,
			want: `a{b}c\d`,
		},
		{
			name: "hex escapes skipped",
			rtf:  `{\rtf1 Gr\'fc\'dfe}`,
			want: "Gre",
		},
		{
			name: "formatting control words dropped",
			rtf:  `{\rtf1\b bold\b0  normal}`,
			want: "bold normal",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text, err := Extract([]byte(tt.rtf), "application/rtf")
			require.NoError(t, err)
			assert.Equal(t, tt.want, text)
		})
	}
}

func TestExtractRTFTextVariant(t *testing.T) {
	text, err := Extract([]byte(`{\rtf1 Sehr geehrte Damen und Herren}`), "text/rtf")
	require.NoError(t, err)
	assert.Equal(t, "Sehr geehrte Damen und Herren", text)
}
