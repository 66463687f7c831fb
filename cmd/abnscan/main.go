// Command abnscan runs the extraction pipeline over local PDF and DOCX files and prints
// one JSON line per file.
//
//	abnscan -workers 4 invoices/*.pdf contracts/*.docx
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"golang.org/x/sync/errgroup"

	"contractorreg-backend/internal/extract"
	"contractorreg-backend/internal/pipeline"
	"contractorreg-backend/internal/shared/telemetry"
)

type processor interface {
	Process(ctx context.Context, doc pipeline.UploadedDocument) (pipeline.Result, error)
}

type fileResult struct {
	Path  string  `json:"path"`
	ABN   *string `json:"abn"`
	Found bool    `json:"found"`
	Text  string  `json:"extractedText,omitempty"`
	Error string  `json:"error,omitempty"`
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	os.Exit(run(ctx, os.Args[1:], os.Stdout, os.Stderr))
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("abnscan", flag.ContinueOnError)
	fs.SetOutput(stderr)
	workers := fs.Int("workers", runtime.NumCPU(), "number of files processed concurrently")
	withText := fs.Bool("text", false, "include extracted text in the output")
	logLevel := fs.String("log-level", "warn", "debug, info, warn or error")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	paths := fs.Args()
	if len(paths) == 0 {
		fmt.Fprintln(stderr, "usage: abnscan [-workers N] [-text] file...")
		return 2
	}

	// Results own stdout.
	telemetry.SetOutput(stderr)
	defer telemetry.SetOutput(nil)
	telemetry.SetLevel(*logLevel)

	results, err := scanFiles(ctx, pipeline.NewService(extract.New()), paths, *workers)
	if err != nil {
		fmt.Fprintf(stderr, "abnscan: %v\n", err)
		return 1
	}

	enc := json.NewEncoder(stdout)
	status := 0
	for _, res := range results {
		if !*withText {
			res.Text = ""
		}
		if res.Error != "" {
			status = 1
		}
		if err := enc.Encode(res); err != nil {
			fmt.Fprintf(stderr, "abnscan: write result: %v\n", err)
			return 1
		}
	}
	return status
}

// scanFiles processes paths with at most workers in flight. Per-file failures are
// reported in the result; only cancellation aborts the batch. Results keep input order.
func scanFiles(ctx context.Context, proc processor, paths []string, workers int) ([]fileResult, error) {
	results := make([]fileResult, len(paths))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, workers))

	for i, path := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res, err := proc.Process(gctx, pipeline.UploadedDocument{
				FilePath:          path,
				DeclaredExtension: extract.DeclaredExtension(path),
				OriginalFilename:  path,
			})
			out := fileResult{Path: path}
			if err != nil {
				out.Error = errorCode(err)
			} else {
				out.ABN = res.IdentifierOrNil()
				out.Found = res.Found
				out.Text = res.RawText
			}
			results[i] = out
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func errorCode(err error) string {
	if errors.Is(err, extract.ErrUnsupportedFormat) {
		return "unsupported_file_type"
	}
	return "extraction_failed"
}
