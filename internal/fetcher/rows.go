package fetcher

import (
	"context"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
)

// Supported export formats.
const (
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"
)

// Source locates an activity export.
type Source struct {
	Path     string // local file; ignored when URL is set
	URL      string
	Format   string // csv or xlsx; detected from the name when empty
	Sheet    string // xlsx sheet name or zero-based index
	Encoding string // charset of BOM-less CSV input
	SkipRows int

	// Fetcher downloads URL sources. Defaults to an HTTPFetcher.
	Fetcher Fetcher
}

// Label names the source for logs and run records.
func (s Source) Label() string {
	if s.URL != "" {
		return s.URL
	}
	return s.Path
}

// DetectFormat returns the explicit format or infers it from the file
// extension, or the format query parameter of a URL.
func (s Source) DetectFormat() string {
	if s.Format != "" {
		return strings.ToLower(s.Format)
	}
	name := s.Path
	if s.URL != "" {
		u, err := url.Parse(s.URL)
		if err == nil {
			if f := u.Query().Get("format"); f != "" {
				return strings.ToLower(f)
			}
			name = u.Path
		}
	}
	switch strings.ToLower(filepath.Ext(name)) {
	case ".xlsx", ".xlsm":
		return FormatXLSX
	default:
		return FormatCSV
	}
}

func (s Source) xlsxOptions() XLSXOptions {
	opts := XLSXOptions{SkipRows: s.SkipRows}
	if s.Sheet == "" {
		return opts
	}
	if i, err := strconv.Atoi(s.Sheet); err == nil {
		opts.SheetIndex = i
	} else {
		opts.SheetName = s.Sheet
	}
	return opts
}

// ReadRows reads every row of the source in order.
func ReadRows(ctx context.Context, src Source) ([][]string, error) {
	if src.URL == "" && src.Path == "" {
		return nil, eris.New("fetcher: no input path or url")
	}

	format := src.DetectFormat()
	if format != FormatCSV && format != FormatXLSX {
		return nil, eris.Errorf("fetcher: unsupported format %q", format)
	}

	if src.URL == "" && format == FormatXLSX {
		return ReadXLSX(src.Path, src.xlsxOptions())
	}

	body, err := src.open(ctx)
	if err != nil {
		return nil, err
	}
	defer body.Close() //nolint:errcheck

	if format == FormatXLSX {
		return ReadXLSXFrom(body, src.xlsxOptions())
	}
	return readCSV(ctx, body, src)
}

func (s Source) open(ctx context.Context) (io.ReadCloser, error) {
	if s.URL != "" {
		f := s.Fetcher
		if f == nil {
			f = NewHTTPFetcher(HTTPOptions{RateLimiters: DefaultRateLimiters()})
		}
		return f.Download(ctx, s.URL)
	}
	file, err := os.Open(s.Path)
	if err != nil {
		return nil, eris.Wrap(err, "fetcher: open input")
	}
	return file, nil
}

func readCSV(ctx context.Context, r io.Reader, src Source) ([][]string, error) {
	decoded, err := DecodeReader(r, src.Encoding)
	if err != nil {
		return nil, err
	}
	rows, err := Collect(StreamCSV(ctx, decoded, CSVOptions{
		LazyQuotes: true,
		SkipRows:   src.SkipRows,
	}))
	if err != nil {
		return nil, eris.Wrap(err, "fetcher: read csv")
	}
	return rows, nil
}
