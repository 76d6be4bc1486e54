package dataset

import (
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/matzehuels/dgmlkit/pkg/errors"
)

// Format selects the wire format of a dataset file.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// DetectFormat picks a format from a file extension. Unknown extensions
// default to JSON.
func DetectFormat(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// Load reads a list of dataset objects from r. The returned slice preserves
// file order, which the assembler relies on for deterministic output.
func Load(r io.Reader, format Format) ([]any, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "reading dataset")
	}

	var objects []map[string]any
	switch format {
	case FormatJSON:
		if err := json.Unmarshal(data, &objects); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "parsing JSON dataset")
		}
	case FormatYAML:
		if err := yaml.Unmarshal(data, &objects); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "parsing YAML dataset")
		}
	default:
		return nil, errors.New(errors.ErrCodeUnsupported, "unsupported dataset format %q", format)
	}

	out := make([]any, len(objects))
	for i, obj := range objects {
		out[i] = obj
	}
	return out, nil
}

// LoadFile loads a dataset from disk, detecting the format from the file
// extension.
func LoadFile(path string) ([]any, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeNotFound, err, "opening dataset %s", path)
	}
	defer f.Close()
	return Load(f, DetectFormat(path))
}
