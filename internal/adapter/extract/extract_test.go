package extract

import (
	"archive/zip"
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func docxBytes(t *testing.T, body string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("word/document.xml")
	require.NoError(t, err)
	_, err = w.Write([]byte(`<?xml version="1.0" encoding="UTF-8"?>` +
		`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>` +
		body + `</w:body></w:document>`))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func TestSupported(t *testing.T) {
	assert.True(t, Supported("notes.PDF", ""))
	assert.True(t, Supported("notes.docx", "application/octet-stream"))
	assert.True(t, Supported("notes", "text/plain; charset=utf-8"))
	assert.True(t, Supported("readme.md", ""))
	assert.False(t, Supported("slides.pptx", "application/vnd.ms-powerpoint"))
	assert.False(t, Supported("", ""))
}

func TestExtractPlainText(t *testing.T) {
	data := []byte("  Chapter 1\x00\nCells\tdivide.  ")
	text, err := New(1<<20).Extract(bytes.NewReader(data), int64(len(data)), "ch1.txt", "")
	require.NoError(t, err)
	assert.Equal(t, "Chapter 1\nCells\tdivide.", text)
}

func TestExtractDocx(t *testing.T) {
	data := docxBytes(t,
		`<w:p><w:r><w:t>Photosynthesis</w:t></w:r><w:r><w:tab/><w:t xml:space="preserve"> in plants</w:t></w:r></w:p>`+
			`<w:p><w:r><w:t>Light &amp; water</w:t></w:r></w:p>`)
	text, err := New(1<<20).Extract(bytes.NewReader(data), int64(len(data)), "bio.docx", "")
	require.NoError(t, err)
	assert.Equal(t, "Photosynthesis\t in plants\nLight & water", text)
}

func TestExtractErrors(t *testing.T) {
	e := New(16)
	big := []byte(strings.Repeat("a", 17))

	_, err := e.Extract(bytes.NewReader(big), int64(len(big)), "big.txt", "")
	assert.ErrorIs(t, err, ErrTooLarge)

	_, err = e.Extract(bytes.NewReader([]byte("x")), 1, "deck.pptx", "")
	assert.ErrorIs(t, err, ErrUnsupportedType)

	blank := []byte(" \n\t ")
	_, err = e.Extract(bytes.NewReader(blank), int64(len(blank)), "empty.txt", "")
	assert.ErrorIs(t, err, ErrNoText)

	_, err = e.Extract(bytes.NewReader([]byte("not a zip")), 9, "broken.docx", "")
	assert.Error(t, err)
}

func TestSanitize(t *testing.T) {
	assert.Equal(t, "a b", Sanitize("\x01a b\x02"))
	assert.Equal(t, "line\r\nnext", Sanitize("line\r\nnext�"))
	assert.Empty(t, Sanitize(""))
}
