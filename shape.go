package dynabuild

import (
	"os"
	"sort"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// FieldKind describes how a declared field holds values.
type FieldKind int

const (
	// KindScalar marks a field holding a single value of any shape.
	KindScalar FieldKind = iota

	// KindSequence marks a field holding an ordered list of values. Only
	// sequence fields gain the generated add/count accessors.
	KindSequence
)

// String returns the kind name.
func (k FieldKind) String() string {
	switch k {
	case KindScalar:
		return "scalar"
	case KindSequence:
		return "sequence"
	default:
		return "unknown"
	}
}

// Shape describes the set of field names a builder accepts and, per field,
// whether it holds a single value or a sequence. The shape is the static
// contract a builder is constructed against: member resolution only generates
// accessors for declared fields.
//
// Example:
//
//	shape := dynabuild.Shape{
//	    "name": dynabuild.KindScalar,
//	    "tags": dynabuild.KindSequence,
//	}
type Shape map[string]FieldKind

// Has reports whether the shape declares the field.
func (s Shape) Has(field string) bool {
	_, ok := s[field]
	return ok
}

// IsSequence reports whether the shape declares the field as a sequence.
func (s Shape) IsSequence(field string) bool {
	return s[field] == KindSequence
}

// Clone returns an independent copy of the shape.
func (s Shape) Clone() Shape {
	out := make(Shape, len(s))
	for name, kind := range s {
		out[name] = kind
	}
	return out
}

// Merge returns the union of s and other as a new shape. When both declare
// the same field, other's kind wins.
func (s Shape) Merge(other Shape) Shape {
	out := s.Clone()
	for name, kind := range other {
		out[name] = kind
	}
	return out
}

// Fields returns the declared field names in sorted order.
func (s Shape) Fields() []string {
	names := make([]string, 0, len(s))
	for name := range s {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// shapeDoc is the YAML document layout accepted by ParseShape.
type shapeDoc struct {
	Fields map[string]string `yaml:"fields"`
}

// scalarLabels is the set of type labels ParseShape accepts, bare for scalar
// fields or behind a "[]" prefix for sequence fields. The labels only select
// the field kind: the builder does no runtime type-checking of values.
var scalarLabels = map[string]bool{
	"string":   true,
	"bool":     true,
	"int":      true,
	"int8":     true,
	"int16":    true,
	"int32":    true,
	"int64":    true,
	"uint":     true,
	"uint8":    true,
	"uint16":   true,
	"uint32":   true,
	"uint64":   true,
	"float32":  true,
	"float64":  true,
	"number":   true,
	"time":     true,
	"duration": true,
	"map":      true,
	"record":   true,
	"any":      true,
}

// ParseShape parses a YAML shape description. The document declares a fields
// mapping from field name to a type label; labels prefixed with "[]" declare
// sequence fields, everything else declares a scalar. Unrecognized labels are
// rejected with a ShapeError.
//
//	fields:
//	  name: string
//	  age: int
//	  tags: "[]string"
func ParseShape(data []byte) (Shape, error) {
	var doc shapeDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, &ShapeError{Message: err.Error()}
	}
	if len(doc.Fields) == 0 {
		return nil, &ShapeError{Message: "document declares no fields"}
	}

	shape := make(Shape, len(doc.Fields))
	for name, label := range doc.Fields {
		if name == "" {
			return nil, &ShapeError{Message: "empty field name"}
		}
		label = strings.TrimSpace(label)
		if label == "" {
			return nil, &ShapeError{Field: name, Message: "missing type label"}
		}
		kind := KindScalar
		if elem, ok := strings.CutPrefix(label, "[]"); ok {
			kind = KindSequence
			label = elem
		}
		if !scalarLabels[label] {
			return nil, &ShapeError{Field: name, Message: "unknown type label " + strconv.Quote(label)}
		}
		shape[name] = kind
	}
	return shape, nil
}

// LoadShape reads and parses a YAML shape description from a file.
func LoadShape(path string) (Shape, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseShape(data)
}
