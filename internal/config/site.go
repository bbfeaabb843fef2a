package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/nao1215/formprint/internal/hierarchy"
)

// FormConfig holds print settings for a single form.
type FormConfig struct {
	// Prefix overrides the heading number the form is printed under.
	Prefix string `yaml:"prefix,omitempty"`

	// Language overrides the language of generated branch text.
	Language string `yaml:"language,omitempty"`

	// SummaryPath overrides the synthetic summary page path.
	SummaryPath string `yaml:"summaryPath,omitempty"`
}

// File represents the structure of the .formprint configuration file.
type File struct {
	// Forms maps form names to their form-specific configuration.
	// A key may also be the definition's file name without extension.
	Forms map[string]FormConfig `yaml:"forms,omitempty"`

	// Defaults contains configuration applied to all forms unless
	// overridden in the form-specific configuration.
	Defaults FormConfig `yaml:"defaults,omitempty"`
}

// GetFormConfig returns the configuration for a form. The form is looked
// up by name first, then by the base name of its source file. The result
// merges the form-specific configuration with defaults.
func (cf *File) GetFormConfig(name, source string) FormConfig {
	result := cf.Defaults

	formConfig, ok := cf.Forms[name]
	if !ok && source != "" {
		base := filepath.Base(source)
		formConfig, ok = cf.Forms[strings.TrimSuffix(base, filepath.Ext(base))]
	}
	if !ok {
		return result
	}

	if formConfig.Prefix != "" {
		result.Prefix = formConfig.Prefix
	}
	if formConfig.Language != "" {
		result.Language = formConfig.Language
	}
	if formConfig.SummaryPath != "" {
		result.SummaryPath = formConfig.SummaryPath
	}
	return result
}

// Validate checks every prefix in the file.
func (cf *File) Validate() error {
	if cf.Defaults.Prefix != "" && !hierarchy.ValidHeading(cf.Defaults.Prefix) {
		return fmt.Errorf("%w: defaults: %q", ErrInvalidPrefix, cf.Defaults.Prefix)
	}
	for name, fc := range cf.Forms {
		if fc.Prefix != "" && !hierarchy.ValidHeading(fc.Prefix) {
			return fmt.Errorf("%w: form %s: %q", ErrInvalidPrefix, name, fc.Prefix)
		}
	}
	return nil
}
