package extract

import (
	"archive/zip"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestExtractUnsupportedNeverOpensFile(t *testing.T) {
	ex := &Extractor{
		PDF: func([]byte) (string, error) {
			t.Fatal("pdf decoder must not run")
			return "", nil
		},
		DOCX: func(string) (string, error) {
			t.Fatal("docx decoder must not run")
			return "", nil
		},
	}

	missing := filepath.Join(t.TempDir(), "does-not-exist")
	for _, ext := range []string{".txt", ".doc", ".PDF", "", "pdf", ".docm"} {
		_, err := ex.Extract(context.Background(), missing, ext)
		if !errors.Is(err, ErrUnsupportedFormat) {
			t.Fatalf("ext %q: expected ErrUnsupportedFormat, got %v", ext, err)
		}
		var decodeErr *DecodeError
		if errors.As(err, &decodeErr) {
			t.Fatalf("ext %q: unexpected decode error %v", ext, err)
		}
	}
}

func TestExtractCancelledContext(t *testing.T) {
	ex := &Extractor{
		PDF: func([]byte) (string, error) {
			t.Fatal("pdf decoder must not run")
			return "", nil
		},
		DOCX: func(string) (string, error) {
			t.Fatal("docx decoder must not run")
			return "", nil
		},
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := ex.Extract(ctx, "notes.txt", ".txt"); !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("expected ErrUnsupportedFormat for .txt, got %v", err)
	}
	for _, ext := range []string{ExtPDF, ExtDOCX} {
		_, err := ex.Extract(ctx, filepath.Join("testdata", "abn.pdf"), ext)
		if !errors.Is(err, ErrDecodeFailure) {
			t.Fatalf("ext %q: expected ErrDecodeFailure, got %v", ext, err)
		}
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("ext %q: expected cause context.Canceled, got %v", ext, err)
		}
	}
}

func TestExtractPDF(t *testing.T) {
	text, err := New().Extract(context.Background(), filepath.Join("testdata", "abn.pdf"), ExtPDF)
	if err != nil {
		t.Fatalf("extract pdf: %v", err)
	}
	if !strings.Contains(text, "ContractorReg Pty Ltd") {
		t.Fatalf("expected company name in text, got %q", text)
	}
	if !strings.Contains(text, "51 824 753 556") {
		t.Fatalf("expected ABN in text, got %q", text)
	}
}

func TestExtractCorruptPDFIsDecodeFailure(t *testing.T) {
	_, err := New().Extract(context.Background(), filepath.Join("testdata", "corrupt.pdf"), ExtPDF)
	assertDecodeFailure(t, err, FormatPDF)
}

func TestExtractMissingFileIsDecodeFailure(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "gone.pdf")
	_, err := New().Extract(context.Background(), missing, ExtPDF)
	assertDecodeFailure(t, err, FormatPDF)
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected cause to wrap os.ErrNotExist, got %v", err)
	}
}

func TestExtractPDFPassesBytesVerbatim(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stub.pdf")
	if err := os.WriteFile(path, []byte("%PDF-stub"), 0o644); err != nil {
		t.Fatalf("write stub: %v", err)
	}
	ex := &Extractor{PDF: func(data []byte) (string, error) {
		if string(data) != "%PDF-stub" {
			t.Fatalf("unexpected bytes %q", data)
		}
		return "  verbatim output\n", nil
	}}

	text, err := ex.Extract(context.Background(), path, ExtPDF)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if text != "  verbatim output\n" {
		t.Fatalf("expected decoder output unchanged, got %q", text)
	}
}

func TestExtractDecoderPanicIsDecodeFailure(t *testing.T) {
	ex := &Extractor{DOCX: func(string) (string, error) {
		panic("index out of range")
	}}
	_, err := ex.Extract(context.Background(), "whatever.docx", ExtDOCX)
	assertDecodeFailure(t, err, FormatDOCX)
}

func TestExtractDOCX(t *testing.T) {
	path := writeDocx(t, t.TempDir(), "supplier.docx", documentXML(
		"Supplier registration",
		"ABN 51-824-753-556",
	))

	text, err := New().Extract(context.Background(), path, ExtDOCX)
	if err != nil {
		t.Fatalf("extract docx: %v", err)
	}
	want := "Supplier registration\nABN 51-824-753-556"
	if text != want {
		t.Fatalf("expected %q, got %q", want, text)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("source file must remain in place: %v", err)
	}
}

func TestExtractCorruptDOCXIsDecodeFailure(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.docx")
	if err := os.WriteFile(path, []byte("PK\x03\x04 not really a zip"), 0o644); err != nil {
		t.Fatalf("write broken docx: %v", err)
	}
	_, err := New().Extract(context.Background(), path, ExtDOCX)
	assertDecodeFailure(t, err, FormatDOCX)
}

func TestExtractDOCXWithoutDocumentXML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.docx")
	writeZip(t, path, map[string]string{"notes.txt": "hello"})

	_, err := New().Extract(context.Background(), path, ExtDOCX)
	assertDecodeFailure(t, err, FormatDOCX)
}

func TestStripDocxXML(t *testing.T) {
	raw := `<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>` +
		`<w:p><w:pPr><w:tabs><w:tab w:val="left" w:pos="720"/></w:tabs></w:pPr>` +
		`<w:r><w:t>ABN</w:t></w:r><w:r><w:tab/><w:t>51 824</w:t></w:r><w:r><w:t xml:space="preserve"> 753 556</w:t></w:r></w:p>` +
		`<w:p><w:r><w:instrText>HYPERLINK "x"</w:instrText><w:t>line one</w:t><w:br/><w:t>line two</w:t></w:r></w:p>` +
		`</w:body></w:document>`

	got, err := stripDocxXML(raw)
	if err != nil {
		t.Fatalf("strip: %v", err)
	}
	want := "ABN\t51 824 753 556\nline one\nline two"
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestStripDocxXMLMalformed(t *testing.T) {
	if _, err := stripDocxXML(`<w:document><w:body><w:p>`); err == nil {
		t.Fatal("expected error for truncated xml")
	}
}

func TestDeclaredExtension(t *testing.T) {
	cases := map[string]string{
		"Invoice.PDF":         ".pdf",
		"contract.final.DOCX": ".docx",
		"notes.txt":           ".txt",
		"README":              "",
		" spaced.pdf ":        ".pdf",
	}
	for name, want := range cases {
		if got := DeclaredExtension(name); got != want {
			t.Fatalf("DeclaredExtension(%q) = %q, want %q", name, got, want)
		}
	}
}

func assertDecodeFailure(t *testing.T, err error, format string) {
	t.Helper()
	if err == nil {
		t.Fatal("expected decode failure, got nil")
	}
	if !errors.Is(err, ErrDecodeFailure) {
		t.Fatalf("expected ErrDecodeFailure, got %v", err)
	}
	if errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("decode failure must not match ErrUnsupportedFormat: %v", err)
	}
	var decodeErr *DecodeError
	if !errors.As(err, &decodeErr) {
		t.Fatalf("expected *DecodeError, got %T", err)
	}
	if decodeErr.Format != format {
		t.Fatalf("expected format %s, got %s", format, decodeErr.Format)
	}
	if decodeErr.Err == nil {
		t.Fatal("expected cause to be preserved")
	}
}

func documentXML(paragraphs ...string) string {
	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>`)
	b.WriteString(`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>`)
	for _, p := range paragraphs {
		b.WriteString(`<w:p><w:r><w:t xml:space="preserve">`)
		b.WriteString(p)
		b.WriteString(`</w:t></w:r></w:p>`)
	}
	b.WriteString(`</w:body></w:document>`)
	return b.String()
}

func writeDocx(t *testing.T, dir, name, document string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	writeZip(t, path, map[string]string{
		"[Content_Types].xml":          `<?xml version="1.0" encoding="UTF-8"?><Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types"></Types>`,
		"_rels/.rels":                  `<?xml version="1.0" encoding="UTF-8"?><Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships"></Relationships>`,
		"word/_rels/document.xml.rels": `<?xml version="1.0" encoding="UTF-8"?><Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships"></Relationships>`,
		"word/document.xml":            document,
	})
	return path
}

func writeZip(t *testing.T, path string, files map[string]string) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create zip: %v", err)
	}
	defer f.Close()

	zw := zip.NewWriter(f)
	for name, body := range files {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("create zip entry %s: %v", name, err)
		}
		if _, err := w.Write([]byte(body)); err != nil {
			t.Fatalf("write zip entry %s: %v", name, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}
}
