// Package importer reads and writes run bundles: a portable JSON or YAML
// file holding a run's context, narrative and generated stages.
package importer

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/alexanderramin/kurikula/internal/domain"
	"gopkg.in/yaml.v3"
)

// BundleVersion is written into every exported bundle.
const BundleVersion = 1

// Format selects the bundle encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFromPath picks YAML for .yaml/.yml files and JSON otherwise.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	}
	return FormatJSON
}

// Bundle is the top-level structure of a run file. Level and approach stay
// strings so aliases such as "smp" or "pbl" are accepted on import.
type Bundle struct {
	Version     int           `json:"version" yaml:"version"`
	Narrative   string        `json:"narrative" yaml:"narrative"`
	Context     ContextImport `json:"context" yaml:"context"`
	ActiveStage string        `json:"activeStage,omitempty" yaml:"active_stage,omitempty"`
	Plan        domain.Plan   `json:"plan" yaml:"plan"`
}

// ContextImport mirrors domain.CurriculumContext with loosely typed enums.
type ContextImport struct {
	Level          string `json:"level" yaml:"level"`
	Phase          string `json:"phase" yaml:"phase"`
	Subject        string `json:"subject" yaml:"subject"`
	AcademicYear   string `json:"academicYear" yaml:"academic_year"`
	EffectiveWeeks int    `json:"effectiveWeeks" yaml:"effective_weeks"`
	PeriodsPerWeek int    `json:"jpPerWeek" yaml:"jp_per_week"`
	Approach       string `json:"approach" yaml:"approach"`
}

// LoadBundle reads and parses a bundle file.
func LoadBundle(path string) (*Bundle, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseBundle(data, FormatFromPath(path))
}

// ParseBundle decodes data in the given format. Unknown fields are
// rejected so typos in hand-edited files surface.
func ParseBundle(data []byte, format Format) (*Bundle, error) {
	var b Bundle
	switch format {
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&b); err != nil {
			return nil, fmt.Errorf("parsing bundle: %w", err)
		}
	default:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&b); err != nil {
			return nil, fmt.Errorf("parsing bundle: %w", err)
		}
	}
	return &b, nil
}

// WriteBundle encodes b to w.
func WriteBundle(w io.Writer, b *Bundle, format Format) error {
	if format == FormatYAML {
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(b); err != nil {
			return err
		}
		return enc.Close()
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(b)
}
