package pipeline

import (
	"context"
	"errors"
	"time"

	"contractorreg-backend/internal/abn"
	"contractorreg-backend/internal/extract"
	"contractorreg-backend/internal/shared/metrics"
	"contractorreg-backend/internal/shared/telemetry"
)

// TextExtractor produces the raw text of a file for its declared extension.
type TextExtractor interface {
	Extract(ctx context.Context, filePath string, declaredExtension string) (string, error)
}

// IdentifierScanner picks the canonical ABN out of raw text.
type IdentifierScanner interface {
	Scan(text string) (string, bool)
}

// Service runs extraction followed by identifier scanning.
type Service struct {
	Extractor TextExtractor
	Scanner   IdentifierScanner
}

// NewService builds a Service with the default ABN scanner.
func NewService(extractor TextExtractor) *Service {
	return &Service{Extractor: extractor, Scanner: abn.Scanner{}}
}

// Process extracts the document text and scans it for an ABN.
// Extraction errors are returned unchanged and the scanner is not called.
func (s *Service) Process(ctx context.Context, doc UploadedDocument) (Result, error) {
	start := time.Now()
	metrics.IncExtractionStarted()

	fields := map[string]any{
		"original_filename": doc.OriginalFilename,
		"extension":         doc.DeclaredExtension,
	}

	text, err := s.Extractor.Extract(ctx, doc.FilePath, doc.DeclaredExtension)
	if err != nil {
		fields["duration_ms"] = elapsedMs(start)
		fields["err"] = err.Error()
		switch {
		case errors.Is(err, extract.ErrUnsupportedFormat):
			metrics.IncExtractionUnsupported()
			telemetry.Warn("extraction.unsupported", fields)
		default:
			metrics.IncExtractionFailed()
			telemetry.Error("extraction.failed", fields)
		}
		return Result{}, err
	}

	scanner := s.Scanner
	if scanner == nil {
		scanner = abn.Scanner{}
	}
	identifier, found := scanner.Scan(text)

	duration := elapsedMs(start)
	metrics.IncExtractionCompleted()
	metrics.ObserveExtractionDurationMs(duration)
	if found {
		metrics.IncABNFound()
	}

	fields["duration_ms"] = duration
	fields["text_length"] = len(text)
	fields["abn_found"] = found
	telemetry.Info("extraction.complete", fields)

	return Result{RawText: text, Identifier: identifier, Found: found}, nil
}

func elapsedMs(start time.Time) float64 {
	return float64(time.Since(start).Microseconds()) / 1000.0
}
