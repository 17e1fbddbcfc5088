package dynabuild

import (
	"fmt"
	"maps"
	"reflect"
)

// Record is a partial data record: a mapping from field name to value.
// Fields are absent until set.
type Record map[string]any

// Builder holds in-progress working data for one shape and finalizes it
// through the build/validate/transform pipeline.
//
// A builder is exclusively owned by whoever holds its reference; it is not
// safe for concurrent use. The *Builder value itself is the stable public
// handle for the builder's whole lifetime: every self-returning operation
// hands it back for chaining.
//
// Programmer errors (unknown field names, appending to a non-sequence,
// cloning a record that aliases a function value) panic with typed
// BuilderError values. The Invoke surface reports the same conditions as
// ordinary errors instead. Validation failures never panic: they are
// reported through Result.
type Builder struct {
	shape       Shape
	data        Record
	initial     Record
	validator   Validator
	transformer Transformer
	ops         map[string]OpFunc
	handle      any
	logger      StructuredLogger
	debug       bool
}

// New creates a builder for the given shape. The shape must declare at least
// one field. Initial data supplied via WithInitialData is deep-cloned on
// intake and becomes the snapshot Reset restores.
//
// Example:
//
//	b, err := dynabuild.New(dynabuild.Shape{
//	    "name": dynabuild.KindScalar,
//	    "tags": dynabuild.KindSequence,
//	}, dynabuild.WithValidator(dynabuild.RequireFields("name")))
func New(shape Shape, opts ...Option) (*Builder, error) {
	if shape == nil {
		return nil, ErrNilShape
	}
	if len(shape) == 0 {
		return nil, ErrEmptyShape
	}

	cfg := builderConfig{logger: NopLogger{}}
	for _, opt := range opts {
		opt(&cfg)
	}

	// Initial data crosses the same shape contract as every mutation path.
	for k := range cfg.initial {
		if !shape.Has(k) {
			return nil, &MemberError{Member: k, Message: "unknown field"}
		}
	}

	initial, err := cloneRecord(cfg.initial)
	if err != nil {
		return nil, err
	}
	data, err := cloneRecord(initial)
	if err != nil {
		return nil, err
	}

	b := &Builder{
		shape:       shape.Clone(),
		data:        data,
		initial:     initial,
		validator:   cfg.validator,
		transformer: cfg.transformer,
		logger:      cfg.logger,
		debug:       cfg.debug,
	}
	b.handle = b
	return b, nil
}

// derived constructs a builder of the same concrete kind around an already
// cloned working record, carrying over pipeline stages and registered ops.
func (b *Builder) derived(shape Shape, data Record) (*Builder, error) {
	snapshot, err := cloneRecord(data)
	if err != nil {
		return nil, err
	}
	nb := &Builder{
		shape:       shape,
		data:        data,
		initial:     snapshot,
		validator:   b.validator,
		transformer: b.transformer,
		logger:      b.logger,
		debug:       b.debug,
	}
	if b.ops != nil {
		nb.ops = maps.Clone(b.ops)
	}
	nb.handle = nb
	return nb, nil
}

// Shape returns a copy of the shape the builder was constructed against.
func (b *Builder) Shape() Shape {
	return b.shape.Clone()
}

// Get returns the working data snapshot. It is the live record, not a fresh
// clone: the caller must not assume isolation from subsequent mutation.
func (b *Builder) Get() Record {
	return b.data
}

// GetField returns the current value of one field, or nil when absent.
func (b *Builder) GetField(field string) any {
	return b.data[field]
}

// Has reports whether the field currently holds a value.
func (b *Builder) Has(field string) bool {
	_, ok := b.data[field]
	return ok
}

// Set assigns one field of the working data and returns the builder.
// The field must be declared in the shape.
func (b *Builder) Set(field string, value any) *Builder {
	must(b.setField(field, value))
	return b
}

func (b *Builder) setField(field string, value any) error {
	if !b.shape.Has(field) {
		return &MemberError{Member: field, Message: "unknown field"}
	}
	b.data[field] = value
	return nil
}

// SetAll replaces the entire working data with the given record and returns
// the builder. The top-level map is copied, but values are not cloned: the
// caller is responsible for not mutating shared nested containers.
func (b *Builder) SetAll(record Record) *Builder {
	must(b.setAll(record))
	return b
}

func (b *Builder) setAll(record Record) error {
	if err := b.checkFields(record); err != nil {
		return err
	}
	data := make(Record, len(record))
	for k, v := range record {
		data[k] = v
	}
	b.data = data
	return nil
}

// Patch shallow-merges the given fields into the working data, overwriting
// only the named keys, and returns the builder.
func (b *Builder) Patch(partial Record) *Builder {
	must(b.patch(partial))
	return b
}

func (b *Builder) patch(partial Record) error {
	if err := b.checkFields(partial); err != nil {
		return err
	}
	for k, v := range partial {
		b.data[k] = v
	}
	return nil
}

func (b *Builder) checkFields(record Record) error {
	for k := range record {
		if !b.shape.Has(k) {
			return &MemberError{Member: k, Message: "unknown field"}
		}
	}
	return nil
}

// Add appends the given items, in call order, to a sequence field and returns
// the builder. An absent field is initialized to an empty sequence first.
func (b *Builder) Add(field string, items ...any) *Builder {
	must(b.add(field, items))
	return b
}

func (b *Builder) add(field string, items []any) error {
	if !b.shape.Has(field) {
		return &MemberError{Member: field, Message: "unknown field"}
	}
	if !b.shape.IsSequence(field) {
		return &ArgumentError{Op: "add", Message: fmt.Sprintf("field %q is not a sequence", field)}
	}

	var seq []any
	switch current := b.data[field].(type) {
	case nil:
		seq = []any{}
	case []any:
		seq = current
	default:
		rv := reflect.ValueOf(current)
		if rv.Kind() != reflect.Slice {
			return &ArgumentError{Op: "add", Message: fmt.Sprintf("field %q does not hold a sequence", field)}
		}
		seq = make([]any, rv.Len(), rv.Len()+len(items))
		for i := 0; i < rv.Len(); i++ {
			seq[i] = rv.Index(i).Interface()
		}
	}

	b.data[field] = append(seq, items...)
	return nil
}

// Count returns the length of a sequence field, or zero when the field is
// absent or does not hold a sequence.
func (b *Builder) Count(field string) int {
	current, ok := b.data[field]
	if !ok || current == nil {
		return 0
	}
	rv := reflect.ValueOf(current)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return 0
	}
	return rv.Len()
}

// Clone constructs a new builder of the same kind, seeded with a deep clone
// of the current working data and carrying over the validator, transformer,
// and registered ops. The clone's Reset snapshot is its clone-point state.
// Original and clone are fully independent thereafter.
func (b *Builder) Clone() *Builder {
	nb, err := b.cloneBuilder()
	must(err)
	return nb
}

func (b *Builder) cloneBuilder() (*Builder, error) {
	data, err := cloneRecord(b.data)
	if err != nil {
		return nil, err
	}
	nb, err := b.derived(b.shape.Clone(), data)
	if err != nil {
		return nil, err
	}
	if b.debug {
		b.logger.Debug("builder cloned", "fields", len(nb.data))
	}
	return nb, nil
}

// Extend widens the declared shape with the given extra fields and returns a
// new builder accepting the union of both field sets, seeded with a deep
// clone of the current working data. When both shapes declare a field, the
// extension's kind wins.
func (b *Builder) Extend(extra Shape) *Builder {
	nb, err := b.extendBuilder(extra)
	must(err)
	return nb
}

func (b *Builder) extendBuilder(extra Shape) (*Builder, error) {
	data, err := cloneRecord(b.data)
	if err != nil {
		return nil, err
	}
	nb, err := b.derived(b.shape.Merge(extra), data)
	if err != nil {
		return nil, err
	}
	if b.debug {
		b.logger.Debug("builder extended", "declared", len(nb.shape))
	}
	return nb, nil
}

// Reset discards the working data and restores a fresh deep clone of the data
// supplied at construction time (for clones and extensions, their creation
// point state). Returns the builder.
func (b *Builder) Reset() *Builder {
	data, err := cloneRecord(b.initial)
	must(err)
	b.data = data
	return b
}

// UseValidator installs the validation stage of the pipeline, or clears it
// when given nil. Returns the builder.
func (b *Builder) UseValidator(v Validator) *Builder {
	b.validator = v
	return b
}

// UseTransformer installs the transformation stage of the pipeline, or clears
// it when given nil. Returns the builder.
func (b *Builder) UseTransformer(t Transformer) *Builder {
	b.transformer = t
	return b
}

// Build finalizes the working data and returns a Result. Optional override
// records are shallow-merged over the working data first, override winning on
// conflicting keys; the working data itself is left untouched.
//
// The candidate object is the merged record, passed through the transformer
// when one is installed. The validator, when installed, always receives the
// merged pre-transform record. On validation failure Build returns a failed
// Result carrying the candidate and every validator error, in order; it never
// panics for validation failure.
func (b *Builder) Build(overrides ...Record) Result {
	res, err := b.build(overrides)
	must(err)
	return res
}

func (b *Builder) build(overrides []Record) (Result, error) {
	merged := make(Record, len(b.data))
	for k, v := range b.data {
		merged[k] = v
	}
	for _, override := range overrides {
		if err := b.checkFields(override); err != nil {
			return Result{}, err
		}
		for k, v := range override {
			merged[k] = v
		}
	}

	candidate := any(merged)
	if b.transformer != nil {
		candidate = b.transformer(merged)
	}

	if b.validator != nil {
		if errs := b.validator(merged); len(errs) > 0 {
			if b.debug {
				b.logger.Debug("build rejected", "errors", len(errs))
			}
			return NewFailure(candidate, errs), nil
		}
	}

	if b.debug {
		b.logger.Debug("build completed", "fields", len(merged))
	}
	return NewSuccess(candidate), nil
}

// must panics with the given error, which is always a typed programmer error.
func must(err error) {
	if err != nil {
		panic(err)
	}
}
