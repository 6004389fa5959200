package fetcher

import (
	"io"
	"strings"

	"github.com/rotisserie/eris"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// DecodeReader returns a UTF-8 view of r. A leading UTF-8 or UTF-16 byte
// order mark is honoured and stripped. name selects the charset of BOM-less
// input using WHATWG labels ("windows-1252", "tis-620", "utf-16le"); empty
// means UTF-8.
func DecodeReader(r io.Reader, name string) (io.Reader, error) {
	fallback, err := lookupEncoding(name)
	if err != nil {
		return nil, err
	}
	return transform.NewReader(r, unicode.BOMOverride(fallback.NewDecoder())), nil
}

func lookupEncoding(name string) (encoding.Encoding, error) {
	name = strings.TrimSpace(name)
	if name == "" || strings.EqualFold(name, "utf-8") || strings.EqualFold(name, "utf8") {
		return unicode.UTF8, nil
	}
	enc, err := htmlindex.Get(name)
	if err != nil {
		return nil, eris.Wrapf(err, "decode: unknown encoding %q", name)
	}
	return enc, nil
}
