package formdef

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/crypto/sha3"
	"gopkg.in/yaml.v3"

	"github.com/nao1215/formprint/internal/model"
)

// Format is the encoding of a form definition file.
type Format string

const (
	// FormatJSON is the designer's native export format.
	FormatJSON Format = "json"

	// FormatYAML is a hand-editable equivalent of the JSON export.
	FormatYAML Format = "yaml"
)

// Definition is a decoded form together with its provenance.
type Definition struct {
	// Form is the decoded form.
	Form *model.Form

	// Source is the file the definition was read from.
	Source string

	// Digest is the hex-encoded SHA3-256 of the raw file contents.
	Digest string
}

// FormatFromPath returns the format implied by a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	}
	return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
}

// Load reads and decodes the form definition at path.
//
// A form without a name takes the file's base name. A form without a start
// page starts at its first page.
func Load(path string) (*Definition, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path) //nolint:gosec // User-provided form path is intentional
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrFormNotFound, path)
		}
		return nil, fmt.Errorf("failed to read form definition: %w", err)
	}

	form, err := Parse(data, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if form.Name == "" {
		form.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}

	return &Definition{
		Form:   form,
		Source: path,
		Digest: Digest(data),
	}, nil
}

// Parse decodes a form definition. Unknown JSON keys are ignored so exports
// from newer designer versions still load.
func Parse(data []byte, format Format) (*model.Form, error) {
	var form model.Form

	switch format {
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		if err := dec.Decode(&form); err != nil {
			return nil, fmt.Errorf("failed to decode JSON form definition: %w", err)
		}
	case FormatYAML:
		if err := yaml.Unmarshal(data, &form); err != nil {
			return nil, fmt.Errorf("failed to decode YAML form definition: %w", err)
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}

	if form.StartPage == "" {
		if len(form.Pages) == 0 {
			return nil, ErrNoStartPage
		}
		form.StartPage = form.Pages[0].Path
	}

	return &form, nil
}

// Digest returns the hex-encoded SHA3-256 hash of a raw definition.
// Two runs over byte-identical files share a digest.
func Digest(data []byte) string {
	sum := sha3.Sum256(data)
	return hex.EncodeToString(sum[:])
}
