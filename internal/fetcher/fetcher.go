// Package fetcher reads activity export rows from CSV and XLSX sources,
// local or downloaded over HTTP.
package fetcher

import (
	"context"
	"io"
)

// Fetcher downloads remote exports.
type Fetcher interface {
	// Download fetches the URL and returns the response body.
	Download(ctx context.Context, url string) (io.ReadCloser, error)
}
