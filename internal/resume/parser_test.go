package resume

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"peerprep/interview/internal/models"
)

func buildDocx(t *testing.T, paragraphs ...string) []byte {
	t.Helper()

	var body strings.Builder
	body.WriteString(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>`)
	body.WriteString(`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>`)
	for _, p := range paragraphs {
		body.WriteString(`<w:p><w:r><w:t xml:space="preserve">`)
		body.WriteString(p)
		body.WriteString(`</w:t></w:r></w:p>`)
	}
	body.WriteString(`</w:body></w:document>`)

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create(docxBody)
	if err != nil {
		t.Fatalf("create zip entry: %v", err)
	}
	if _, err := w.Write([]byte(body.String())); err != nil {
		t.Fatalf("write zip entry: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}
	return buf.Bytes()
}

func TestParseDocx(t *testing.T) {
	data := buildDocx(t,
		"Curriculum Vitae 2024",
		"Ada Lovelace",
		"ada.lovelace@example.com | (555) 123-4567",
		"Senior engineer building Node.js services",
	)

	got, err := NewParser(0).Parse(context.Background(), Document{FileName: "cv.docx", Data: data})
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if got.Name != "Ada Lovelace" {
		t.Fatalf("expected name Ada Lovelace, got %q", got.Name)
	}
	if got.Email != "ada.lovelace@example.com" {
		t.Fatalf("unexpected email %q", got.Email)
	}
	if got.Phone != "+15551234567" {
		t.Fatalf("unexpected phone %q", got.Phone)
	}
	if !strings.Contains(got.Text, "Node.js services") {
		t.Fatalf("expected raw text to be kept, got %q", got.Text)
	}
}

func TestParseUnsupported(t *testing.T) {
	_, err := NewParser(0).Parse(context.Background(), Document{FileName: "cv.txt", ContentType: "text/plain", Data: []byte("hi")})
	if !errors.Is(err, models.ErrUnsupportedFormat) {
		t.Fatalf("expected ErrUnsupportedFormat, got %v", err)
	}
}

func TestParseRejectsBrokenInput(t *testing.T) {
	p := NewParser(16)

	cases := map[string]Document{
		"empty":     {FileName: "cv.pdf"},
		"oversized": {FileName: "cv.pdf", Data: bytes.Repeat([]byte("x"), 17)},
		"bad docx":  {FileName: "cv.docx", Data: []byte("not a zip")},
		"bad pdf":   {FileName: "cv.pdf", Data: []byte("not a pdf")},
	}
	for name, doc := range cases {
		if _, err := p.Parse(context.Background(), doc); !errors.Is(err, models.ErrUnreadableDocument) {
			t.Fatalf("%s: expected ErrUnreadableDocument, got %v", name, err)
		}
	}
}

func TestDetectKind(t *testing.T) {
	cases := []struct {
		name, ct string
		want     Kind
	}{
		{"resume.PDF", "", KindPDF},
		{"resume", MimePDF, KindPDF},
		{"resume.bin", MimeDOCX + "; charset=binary", KindDOCX},
		{"resume.docx", "application/octet-stream", KindDOCX},
	}
	for _, tc := range cases {
		got, err := DetectKind(tc.name, tc.ct)
		if err != nil || got != tc.want {
			t.Fatalf("DetectKind(%q, %q) = %q, %v", tc.name, tc.ct, got, err)
		}
	}
	if _, err := DetectKind("resume.doc", "application/msword"); !errors.Is(err, models.ErrUnsupportedFormat) {
		t.Fatalf("expected unsupported .doc, got %v", err)
	}
}

func TestExtractFields(t *testing.T) {
	t.Run("name skips lines with digits or emails", func(t *testing.T) {
		got := ExtractFields("john@doe.com\nRoom 42\nJohn Ronald Reuel Tolkien\n")
		if got.Name != "John Ronald Reuel Tolkien" {
			t.Fatalf("unexpected name %q", got.Name)
		}
	})

	t.Run("name only searched near the top", func(t *testing.T) {
		text := strings.Repeat("lowercase line\n", 10) + "Grace Hopper\n"
		if got := ExtractFields(text); got.Name != "" {
			t.Fatalf("expected no name, got %q", got.Name)
		}
	})

	t.Run("international phone keeps prefix", func(t *testing.T) {
		got := ExtractFields("call +44 207-946-0958 anytime")
		if got.Phone != "+442079460958" {
			t.Fatalf("unexpected phone %q", got.Phone)
		}
	})

	t.Run("nothing found", func(t *testing.T) {
		got := ExtractFields("experienced engineer")
		if got.Name != "" || got.Email != "" || got.Phone != "" {
			t.Fatalf("expected empty fields, got %+v", got)
		}
	})
}
