package dynabuild

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// OpFunc is a builder operation invocable through the dynamic member surface.
// Registered ops receive the builder state; returning the builder itself
// marks the operation as chainable, and dispatch rewrites that return into
// the builder's public handle.
type OpFunc func(b *Builder, args ...any) (any, error)

// AccessorFunc is a member accessor bound to one builder, produced by Resolve.
type AccessorFunc func(args ...any) (any, error)

// accessorPrefixes are the naming patterns for generated field accessors, in
// match order.
var accessorPrefixes = [...]string{"get", "set", "add", "count"}

// Resolve classifies a requested member name and returns the bound accessor:
//
//  1. A built-in operation name (clone, extend, patch, build, reset,
//     useValidator, useTransformer, get, set) or a registered op dispatches
//     to that operation. Operation names are checked before field patterns,
//     so a field literally named "build" is shadowed by the operation; this
//     is a documented limitation, not a bug.
//  2. Otherwise the name is matched against the get/set/add/count prefixes.
//     The target field is the remainder with its first rune lower-cased and
//     must be declared in the shape; add and count additionally resolve only
//     for sequence fields.
//  3. Anything else fails with a *MemberError. Unresolvable names are never
//     silently ignored.
func (b *Builder) Resolve(member string) (AccessorFunc, error) {
	if op, ok := builtinOps[member]; ok {
		return b.bindOp(op), nil
	}
	if op, ok := b.ops[member]; ok {
		return b.bindOp(op), nil
	}
	if acc, ok := b.resolveField(member); ok {
		return acc, nil
	}
	return nil, newUnknownMemberError(member)
}

// Invoke resolves a member name and invokes the accessor in one step. The
// member key must be a string; any other key type fails with a *MemberError
// rather than being silently ignored.
//
// Example:
//
//	handle, err := b.Invoke("setName", "order-7")
//	value, err := b.Invoke("getName")
func (b *Builder) Invoke(member any, args ...any) (any, error) {
	name, ok := member.(string)
	if !ok {
		return nil, newMemberTypeError(member)
	}
	acc, err := b.Resolve(name)
	if err != nil {
		return nil, err
	}
	return acc(args...)
}

// MustInvoke is like Invoke but panics on error, keeping dynamic chains
// fluent:
//
//	b.MustInvoke("addTags", "a", "b")
func (b *Builder) MustInvoke(member any, args ...any) any {
	res, err := b.Invoke(member, args...)
	must(err)
	return res
}

// RegisterOp registers a caller-defined operation under the given name,
// making it reachable through Resolve/Invoke the same way built-in
// operations are. Built-in operation names are reserved. Returns the builder.
//
// An op that returns its *Builder argument is chainable: dispatch hands the
// caller the builder's public handle instead of the bare state object.
func (b *Builder) RegisterOp(name string, fn OpFunc) *Builder {
	if name == "" || fn == nil {
		panic(&ArgumentError{Op: "registerOp", Message: "name and fn are required"})
	}
	if _, ok := builtinOps[name]; ok {
		panic(&ArgumentError{Op: "registerOp", Message: fmt.Sprintf("name %q is reserved", name)})
	}
	if b.ops == nil {
		b.ops = make(map[string]OpFunc)
	}
	b.ops[name] = fn
	return b
}

// SetHandle declares the public object representing this builder whenever a
// chained operation returns "the builder itself". Wrapper types that embed a
// *Builder set their outer value as the handle so chains keep flowing through
// the wrapper's surface. Passing nil restores the builder itself.
func (b *Builder) SetHandle(handle any) {
	if handle == nil {
		b.handle = b
		return
	}
	b.handle = handle
}

// Handle returns the builder's public handle.
func (b *Builder) Handle() any {
	return b.handle
}

// bindOp binds an operation to the builder and rewrites self-returns into the
// public handle. Ownership of "what object represents the builder" is a
// single handle per builder instance, not the bare state object.
func (b *Builder) bindOp(op OpFunc) AccessorFunc {
	return func(args ...any) (any, error) {
		res, err := op(b, args...)
		if err != nil {
			return nil, err
		}
		if rb, ok := res.(*Builder); ok && rb == b {
			return b.handle, nil
		}
		return res, nil
	}
}

// resolveField matches the member name against the four accessor patterns and
// returns the bound accessor when the extracted field is declared.
func (b *Builder) resolveField(member string) (AccessorFunc, bool) {
	for _, prefix := range accessorPrefixes {
		if !strings.HasPrefix(member, prefix) || len(member) == len(prefix) {
			continue
		}
		field := lowerFirst(member[len(prefix):])
		if !b.shape.Has(field) {
			continue
		}

		switch prefix {
		case "get":
			return func(args ...any) (any, error) {
				if len(args) != 0 {
					return nil, &ArgumentError{Op: member, Message: "takes no arguments"}
				}
				return b.data[field], nil
			}, true

		case "set":
			return func(args ...any) (any, error) {
				if len(args) != 1 {
					return nil, &ArgumentError{Op: member, Message: "takes exactly one argument"}
				}
				if err := b.setField(field, args[0]); err != nil {
					return nil, err
				}
				return b.handle, nil
			}, true

		case "add":
			if !b.shape.IsSequence(field) {
				continue
			}
			return func(args ...any) (any, error) {
				if err := b.add(field, args); err != nil {
					return nil, err
				}
				return b.handle, nil
			}, true

		case "count":
			if !b.shape.IsSequence(field) {
				continue
			}
			return func(args ...any) (any, error) {
				if len(args) != 0 {
					return nil, &ArgumentError{Op: member, Message: "takes no arguments"}
				}
				return b.Count(field), nil
			}, true
		}
	}
	return nil, false
}

// lowerFirst lower-cases the first rune of s.
func lowerFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToLower(r)) + s[size:]
}

// builtinOps is the registration table for the fixed operation surface.
var builtinOps = map[string]OpFunc{
	"clone":          opClone,
	"extend":         opExtend,
	"patch":          opPatch,
	"build":          opBuild,
	"reset":          opReset,
	"get":            opGet,
	"set":            opSet,
	"useValidator":   opUseValidator,
	"useTransformer": opUseTransformer,
}

func opClone(b *Builder, args ...any) (any, error) {
	if len(args) != 0 {
		return nil, &ArgumentError{Op: "clone", Message: "takes no arguments"}
	}
	return b.cloneBuilder()
}

func opExtend(b *Builder, args ...any) (any, error) {
	if len(args) != 1 {
		return nil, &ArgumentError{Op: "extend", Message: "takes exactly one shape argument"}
	}
	extra, err := coerceShape("extend", args[0])
	if err != nil {
		return nil, err
	}
	return b.extendBuilder(extra)
}

func opPatch(b *Builder, args ...any) (any, error) {
	if len(args) != 1 {
		return nil, &ArgumentError{Op: "patch", Message: "takes exactly one record argument"}
	}
	partial, err := coerceRecord("patch", args[0])
	if err != nil {
		return nil, err
	}
	if err := b.patch(partial); err != nil {
		return nil, err
	}
	return b, nil
}

func opBuild(b *Builder, args ...any) (any, error) {
	overrides := make([]Record, 0, len(args))
	for _, arg := range args {
		override, err := coerceRecord("build", arg)
		if err != nil {
			return nil, err
		}
		overrides = append(overrides, override)
	}
	return b.build(overrides)
}

func opReset(b *Builder, args ...any) (any, error) {
	if len(args) != 0 {
		return nil, &ArgumentError{Op: "reset", Message: "takes no arguments"}
	}
	data, err := cloneRecord(b.initial)
	if err != nil {
		return nil, err
	}
	b.data = data
	return b, nil
}

func opGet(b *Builder, args ...any) (any, error) {
	switch len(args) {
	case 0:
		return b.data, nil
	case 1:
		field, ok := args[0].(string)
		if !ok {
			return nil, &ArgumentError{Op: "get", Message: "field name must be a string"}
		}
		return b.data[field], nil
	default:
		return nil, &ArgumentError{Op: "get", Message: "takes at most one argument"}
	}
}

func opSet(b *Builder, args ...any) (any, error) {
	switch len(args) {
	case 1:
		record, err := coerceRecord("set", args[0])
		if err != nil {
			return nil, err
		}
		if err := b.setAll(record); err != nil {
			return nil, err
		}
		return b, nil
	case 2:
		field, ok := args[0].(string)
		if !ok {
			return nil, &ArgumentError{Op: "set", Message: "field name must be a string"}
		}
		if err := b.setField(field, args[1]); err != nil {
			return nil, err
		}
		return b, nil
	default:
		return nil, &ArgumentError{Op: "set", Message: "takes a record, or a field name and a value"}
	}
}

func opUseValidator(b *Builder, args ...any) (any, error) {
	switch len(args) {
	case 0:
		b.validator = nil
		return b, nil
	case 1:
		v, err := coerceValidator(args[0])
		if err != nil {
			return nil, err
		}
		b.validator = v
		return b, nil
	default:
		return nil, &ArgumentError{Op: "useValidator", Message: "takes at most one argument"}
	}
}

func opUseTransformer(b *Builder, args ...any) (any, error) {
	switch len(args) {
	case 0:
		b.transformer = nil
		return b, nil
	case 1:
		t, err := coerceTransformer(args[0])
		if err != nil {
			return nil, err
		}
		b.transformer = t
		return b, nil
	default:
		return nil, &ArgumentError{Op: "useTransformer", Message: "takes at most one argument"}
	}
}

func coerceRecord(op string, v any) (Record, error) {
	switch r := v.(type) {
	case Record:
		return r, nil
	case map[string]any:
		return Record(r), nil
	default:
		return nil, &ArgumentError{Op: op, Message: fmt.Sprintf("expected a record, got %T", v)}
	}
}

func coerceShape(op string, v any) (Shape, error) {
	switch s := v.(type) {
	case Shape:
		return s, nil
	case map[string]FieldKind:
		return Shape(s), nil
	default:
		return nil, &ArgumentError{Op: op, Message: fmt.Sprintf("expected a shape, got %T", v)}
	}
}

func coerceValidator(v any) (Validator, error) {
	switch fn := v.(type) {
	case nil:
		return nil, nil
	case Validator:
		return fn, nil
	case func(Record) []error:
		return fn, nil
	case func(Record) error:
		return func(data Record) []error {
			if err := fn(data); err != nil {
				return []error{err}
			}
			return nil
		}, nil
	default:
		return nil, &ArgumentError{Op: "useValidator", Message: fmt.Sprintf("expected a validator func, got %T", v)}
	}
}

func coerceTransformer(v any) (Transformer, error) {
	switch fn := v.(type) {
	case nil:
		return nil, nil
	case Transformer:
		return fn, nil
	case func(Record) any:
		return fn, nil
	default:
		return nil, &ArgumentError{Op: "useTransformer", Message: fmt.Sprintf("expected a transformer func, got %T", v)}
	}
}
