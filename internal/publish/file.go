package publish

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"

	"github.com/sells-group/eca-cli/internal/model"
)

// Stdout is the JSONFile path that writes to standard output.
const Stdout = "-"

// JSONFile writes the payload to a local file.
type JSONFile struct {
	Path   string
	Indent string

	// stdout is swapped in tests.
	stdout io.Writer
}

// NewJSONFile returns a JSONFile writer. An empty indent defaults to two spaces.
func NewJSONFile(path, indent string) *JSONFile {
	if indent == "" {
		indent = "  "
	}
	return &JSONFile{Path: path, Indent: indent, stdout: os.Stdout}
}

func (f *JSONFile) Name() string {
	if f.Path == Stdout {
		return "stdout"
	}
	return "file:" + f.Path
}

func (f *JSONFile) Publish(_ context.Context, _ string, payload *model.Payload) error {
	data, err := Encode(payload, f.Indent)
	if err != nil {
		return err
	}

	if f.Path == Stdout {
		out := f.stdout
		if out == nil {
			out = os.Stdout
		}
		_, err := out.Write(data)
		return eris.Wrap(err, "publish: write stdout")
	}

	if dir := filepath.Dir(f.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return eris.Wrapf(err, "publish: create dir %s", dir)
		}
	}
	tmp := f.Path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return eris.Wrapf(err, "publish: write %s", tmp)
	}
	return eris.Wrapf(os.Rename(tmp, f.Path), "publish: rename %s", tmp)
}
