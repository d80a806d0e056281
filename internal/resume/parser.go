package resume

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"peerprep/interview/internal/models"
)

const (
	MimePDF  = "application/pdf"
	MimeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

	// DefaultMaxSize bounds uploads before any parsing happens
	DefaultMaxSize = 10 << 20
)

type Kind string

const (
	KindPDF  Kind = "pdf"
	KindDOCX Kind = "docx"
)

// Document is an uploaded resume
type Document struct {
	FileName    string
	ContentType string
	Data        []byte
}

// Parsed holds the extracted text and whichever identity fields were found
type Parsed struct {
	Text  string
	Name  string
	Email string
	Phone string
}

// Parser extracts text and identity fields from PDF and DOCX resumes
type Parser struct {
	maxSize int
}

func NewParser(maxSize int) *Parser {
	if maxSize <= 0 {
		maxSize = DefaultMaxSize
	}
	return &Parser{maxSize: maxSize}
}

// DetectKind decides the document format from its MIME type, then its extension
func DetectKind(fileName, contentType string) (Kind, error) {
	ct := strings.ToLower(strings.TrimSpace(contentType))
	if i := strings.Index(ct, ";"); i >= 0 {
		ct = strings.TrimSpace(ct[:i])
	}
	switch ct {
	case MimePDF:
		return KindPDF, nil
	case MimeDOCX:
		return KindDOCX, nil
	}
	switch strings.ToLower(strings.TrimPrefix(filepath.Ext(fileName), ".")) {
	case "pdf":
		return KindPDF, nil
	case "docx":
		return KindDOCX, nil
	}
	return "", fmt.Errorf("%s (%s): %w", fileName, contentType, models.ErrUnsupportedFormat)
}

func (p *Parser) Parse(ctx context.Context, doc Document) (Parsed, error) {
	kind, err := DetectKind(doc.FileName, doc.ContentType)
	if err != nil {
		return Parsed{}, err
	}
	if len(doc.Data) == 0 {
		return Parsed{}, fmt.Errorf("parse %s: empty: %w", doc.FileName, models.ErrUnreadableDocument)
	}
	if len(doc.Data) > p.maxSize {
		return Parsed{}, fmt.Errorf("parse %s: exceeds %d bytes: %w", doc.FileName, p.maxSize, models.ErrUnreadableDocument)
	}
	if err := ctx.Err(); err != nil {
		return Parsed{}, err
	}

	var text string
	switch kind {
	case KindPDF:
		text, err = pdfText(doc.Data)
	case KindDOCX:
		text, err = docxText(doc.Data)
	}
	if err != nil {
		return Parsed{}, fmt.Errorf("parse %s: %w: %w", doc.FileName, models.ErrUnreadableDocument, err)
	}

	fields := ExtractFields(text)
	fields.Text = text
	return fields, nil
}
