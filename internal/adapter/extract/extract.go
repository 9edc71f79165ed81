package extract

import (
	"archive/zip"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"
)

var (
	ErrUnsupportedType = errors.New("unsupported file type")
	ErrTooLarge        = errors.New("file is too large")
	ErrNoText          = errors.New("no extractable text in file")
)

type kind int

const (
	kindUnknown kind = iota
	kindPDF
	kindDOCX
	kindTXT
)

const docxMIME = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

// Extractor pulls plain text out of uploaded study material.
type Extractor struct {
	MaxBytes int64
}

func New(maxBytes int64) *Extractor {
	return &Extractor{MaxBytes: maxBytes}
}

func detect(fileName, mimeType string) kind {
	switch strings.ToLower(filepath.Ext(fileName)) {
	case ".pdf":
		return kindPDF
	case ".docx":
		return kindDOCX
	case ".txt", ".md":
		return kindTXT
	}
	mt := strings.ToLower(strings.TrimSpace(strings.SplitN(mimeType, ";", 2)[0]))
	switch mt {
	case "application/pdf":
		return kindPDF
	case docxMIME:
		return kindDOCX
	case "text/plain", "text/markdown":
		return kindTXT
	}
	return kindUnknown
}

// Supported reports whether a file of this name and type can be extracted.
func Supported(fileName, mimeType string) bool {
	return detect(fileName, mimeType) != kindUnknown
}

func (e *Extractor) Extract(r io.ReaderAt, size int64, fileName, mimeType string) (string, error) {
	if e.MaxBytes > 0 && size > e.MaxBytes {
		return "", fmt.Errorf("%w: %d bytes (limit %d)", ErrTooLarge, size, e.MaxBytes)
	}
	var (
		text string
		err  error
	)
	switch detect(fileName, mimeType) {
	case kindPDF:
		text, err = pdfText(r, size)
	case kindDOCX:
		text, err = docxText(r, size)
	case kindTXT:
		text, err = plainText(r, size)
	default:
		return "", ErrUnsupportedType
	}
	if err != nil {
		return "", err
	}
	text = Sanitize(text)
	if text == "" {
		return "", ErrNoText
	}
	return text, nil
}

func pdfText(r io.ReaderAt, size int64) (string, error) {
	doc, err := pdf.NewReader(r, size)
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}
	reader, err := doc.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("extract pdf text: %w", err)
	}
	buf := new(strings.Builder)
	if _, err := io.Copy(buf, reader); err != nil {
		return "", fmt.Errorf("read extracted text: %w", err)
	}
	return buf.String(), nil
}

func docxText(r io.ReaderAt, size int64) (string, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return "", fmt.Errorf("open docx: %w", err)
	}
	for _, f := range zr.File {
		if f.Name != "word/document.xml" {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return "", fmt.Errorf("open docx body: %w", err)
		}
		defer rc.Close()
		return wordprocessingText(rc)
	}
	return "", fmt.Errorf("open docx: %w", errors.New("word/document.xml not found"))
}

// wordprocessingText keeps the text runs of a WordprocessingML body, one paragraph per line.
func wordprocessingText(r io.Reader) (string, error) {
	dec := xml.NewDecoder(r)
	var sb strings.Builder
	inText := false
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", fmt.Errorf("parse docx body: %w", err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "t":
				inText = true
			case "tab":
				sb.WriteByte('\t')
			case "br", "cr":
				sb.WriteByte('\n')
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				sb.WriteByte('\n')
			}
		case xml.CharData:
			if inText {
				sb.Write(t)
			}
		}
	}
	return sb.String(), nil
}

func plainText(r io.ReaderAt, size int64) (string, error) {
	buf := make([]byte, size)
	n, err := r.ReadAt(buf, 0)
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read text file: %w", err)
	}
	buf = buf[:n]
	if !utf8.Valid(buf) {
		return strings.ToValidUTF8(string(buf), ""), nil
	}
	return string(buf), nil
}

// Sanitize drops NUL and other control characters except common whitespace.
func Sanitize(s string) string {
	if s == "" {
		return s
	}
	r := make([]rune, 0, len(s))
	for _, ch := range s {
		if ch == '\n' || ch == '\r' || ch == '\t' {
			r = append(r, ch)
			continue
		}
		if ch < 0x20 || ch == utf8.RuneError {
			continue
		}
		r = append(r, ch)
	}
	return strings.TrimSpace(string(r))
}
