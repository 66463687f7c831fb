package extract

import (
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"
)

const (
	ExtPDF  = ".pdf"
	ExtDOCX = ".docx"

	FormatPDF  = "pdf"
	FormatDOCX = "docx"
)

// PDFDecoder turns the bytes of a PDF into its text layer.
type PDFDecoder func(data []byte) (string, error)

// DOCXDecoder turns the Word document at path into plain text.
type DOCXDecoder func(path string) (string, error)

// Extractor dispatches a file to the decoder for its declared extension.
// Libraries used: github.com/ledongthuc/pdf (PDF) and github.com/nguyenthenguyen/docx (DOCX).
type Extractor struct {
	PDF  PDFDecoder
	DOCX DOCXDecoder
}

// New returns an Extractor backed by the default decoders.
func New() *Extractor {
	return &Extractor{PDF: DecodePDF, DOCX: DecodeDOCX}
}

// DeclaredExtension lowercases the extension of an original file name, keeping the dot.
func DeclaredExtension(fileName string) string {
	return strings.ToLower(filepath.Ext(strings.TrimSpace(fileName)))
}

// Supported reports whether ext has a decoder.
func Supported(ext string) bool {
	return ext == ExtPDF || ext == ExtDOCX
}

// Extract returns the raw text of filePath decoded as declaredExtension.
// Unsupported extensions fail with ErrUnsupportedFormat before the file is opened, even
// when ctx is already done. Cancellation, read and decode problems fail with *DecodeError.
// The file is never modified.
func (e *Extractor) Extract(ctx context.Context, filePath string, declaredExtension string) (string, error) {
	switch declaredExtension {
	case ExtPDF:
		if err := ctx.Err(); err != nil {
			return "", &DecodeError{Format: FormatPDF, Path: filePath, Err: err}
		}
		data, err := os.ReadFile(filePath)
		if err != nil {
			return "", &DecodeError{Format: FormatPDF, Path: filePath, Err: fmt.Errorf("read: %w", err)}
		}
		return decode(FormatPDF, filePath, func() (string, error) {
			return e.pdfDecoder()(data)
		})
	case ExtDOCX:
		if err := ctx.Err(); err != nil {
			return "", &DecodeError{Format: FormatDOCX, Path: filePath, Err: err}
		}
		return decode(FormatDOCX, filePath, func() (string, error) {
			return e.docxDecoder()(filePath)
		})
	default:
		return "", ErrUnsupportedFormat
	}
}

func (e *Extractor) pdfDecoder() PDFDecoder {
	if e == nil || e.PDF == nil {
		return DecodePDF
	}
	return e.PDF
}

func (e *Extractor) docxDecoder() DOCXDecoder {
	if e == nil || e.DOCX == nil {
		return DecodeDOCX
	}
	return e.DOCX
}

// decode runs fn and converts both errors and panics into *DecodeError.
// The pdf reader panics on some malformed inputs.
func decode(format, path string, fn func() (string, error)) (text string, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			text = ""
			err = &DecodeError{Format: format, Path: path, Err: fmt.Errorf("decoder panic: %v", rec)}
		}
	}()

	text, err = fn()
	if err != nil {
		return "", &DecodeError{Format: format, Path: path, Err: err}
	}
	return text, nil
}

// DecodePDF returns the concatenated plain text of every page in reading order.
func DecodePDF(data []byte) (string, error) {
	if len(data) == 0 {
		return "", errors.New("empty pdf data")
	}
	pdfReader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", err
	}
	plain, err := pdfReader.GetPlainText()
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, plain); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// DecodeDOCX opens the Word document at path and returns its body text without formatting.
func DecodeDOCX(path string) (string, error) {
	doc, err := docx.ReadDocxFile(path)
	if err != nil {
		return "", err
	}
	defer doc.Close()

	return stripDocxXML(doc.Editable().GetContent())
}

// stripDocxXML keeps the character data of w:t runs. Paragraph ends and w:br become
// newlines, w:tab becomes a tab (tab stop definitions under w:tabs are skipped).
func stripDocxXML(raw string) (string, error) {
	if strings.TrimSpace(raw) == "" {
		return "", errors.New("document.xml is empty")
	}

	decoder := xml.NewDecoder(strings.NewReader(raw))
	var buf strings.Builder
	inText, inTabs := false, false
	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("parse document.xml: %w", err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "t":
				inText = true
			case "tabs":
				inTabs = true
			case "tab":
				if !inTabs {
					buf.WriteString("\t")
				}
			case "br", "cr":
				buf.WriteString("\n")
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "tabs":
				inTabs = false
			case "p":
				buf.WriteString("\n")
			}
		case xml.CharData:
			if inText {
				buf.Write(t)
			}
		}
	}
	return strings.TrimSpace(buf.String()), nil
}
