// Package fieldio reads and writes displacement fields as YAML documents.
//
// Document layout (JSON input is accepted as well, being valid YAML):
//
//	dimension: 2
//	index: [0, 0]          # optional, defaults to zeros
//	size: [3, 2]
//	spacing: [1, 1]        # optional, defaults to ones
//	origin: [0, 0]         # optional, defaults to zeros
//	vectors: [0, 0, 0.5, -1, 0, 0, 0, 0, 0, 0, 0, 0]
//
// vectors is the flat buffer in storage order: axis 0 fastest and the
// dimension components of one vector contiguous.
package fieldio

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/katalvlaran/fieldreg/field"
)

// ErrBadDocument indicates a document that decodes but does not describe a
// valid field.
var ErrBadDocument = errors.New("fieldio: invalid field document")

// document is the serialized form of a field.
type document struct {
	Dimension int       `yaml:"dimension"`
	Index     []int     `yaml:"index,omitempty,flow"`
	Size      []int     `yaml:"size,flow"`
	Spacing   []float64 `yaml:"spacing,omitempty,flow"`
	Origin    []float64 `yaml:"origin,omitempty,flow"`
	Vectors   []float64 `yaml:"vectors,flow"`
}

// Read decodes one field document from r.
// Stage 1: strict YAML decode (unknown keys are rejected).
// Stage 2: shape and sample checks against the declared region.
// Stage 3: allocate the field, then copy geometry and samples.
// Errors: ErrBadDocument, decode errors, field allocation errors.
func Read(r io.Reader) (*field.Field, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	var doc document
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty document", ErrBadDocument)
		}

		return nil, fmt.Errorf("fieldio: decode: %w", err)
	}

	return doc.build()
}

// ReadFile reads the field document stored at path.
func ReadFile(path string) (*field.Field, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("fieldio: open %s: %w", path, err)
	}
	defer fh.Close()

	f, err := Read(fh)
	if err != nil {
		return nil, fmt.Errorf("fieldio: %s: %w", path, err)
	}

	return f, nil
}

// Write encodes f as a YAML document.
// Errors: field.ErrNilField, field.ErrReleased, encode or write errors.
func Write(w io.Writer, f *field.Field) error {
	if err := field.ValidateNotNil(f); err != nil {
		return err
	}
	r := f.Region()
	doc := document{
		Dimension: f.Dimension(),
		Index:     r.Index,
		Size:      r.Size,
		Spacing:   f.Spacing(),
		Origin:    f.Origin(),
		Vectors:   f.Data(),
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(&doc); err != nil {
		return fmt.Errorf("fieldio: encode: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("fieldio: encode: %w", err)
	}
	if _, err := buf.WriteTo(w); err != nil {
		return fmt.Errorf("fieldio: write: %w", err)
	}

	return nil
}

// WriteFile writes f to path, replacing any existing file.
func WriteFile(path string, f *field.Field) error {
	fh, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("fieldio: create %s: %w", path, err)
	}
	if err := Write(fh, f); err != nil {
		_ = fh.Close()

		return err
	}

	return fh.Close()
}

// build validates the document and builds the field it describes.
func (d document) build() (*field.Field, error) {
	if d.Dimension < 1 || d.Dimension > field.MaxDimension {
		return nil, fmt.Errorf("%w: dimension %d", ErrBadDocument, d.Dimension)
	}
	if len(d.Size) != d.Dimension {
		return nil, fmt.Errorf("%w: %d sizes for dimension %d", ErrBadDocument, len(d.Size), d.Dimension)
	}
	index := d.Index
	if index == nil {
		index = make([]int, d.Dimension)
	}
	region, err := field.NewRegion(index, d.Size)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBadDocument, err)
	}

	if want := region.NumberOfPixels() * d.Dimension; len(d.Vectors) != want {
		return nil, fmt.Errorf("%w: %d vector components, want %d", ErrBadDocument, len(d.Vectors), want)
	}
	for i, v := range d.Vectors {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("%w: component %d is %g", ErrBadDocument, i, v)
		}
	}

	f, err := field.New(region)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBadDocument, err)
	}
	if d.Spacing != nil {
		if err := f.SetSpacing(d.Spacing); err != nil {
			return nil, fmt.Errorf("%w: spacing: %w", ErrBadDocument, err)
		}
	}
	if d.Origin != nil {
		if err := f.SetOrigin(d.Origin); err != nil {
			return nil, fmt.Errorf("%w: origin: %w", ErrBadDocument, err)
		}
	}
	copy(f.Data(), d.Vectors)
	f.Modified()

	return f, nil
}
