package dynabuild

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestNew(t *testing.T) {
	t.Run("nil shape fails", func(t *testing.T) {
		if _, err := New(nil); err != ErrNilShape {
			t.Errorf("New(nil) error = %v, want ErrNilShape", err)
		}
	})

	t.Run("empty shape fails", func(t *testing.T) {
		if _, err := New(Shape{}); err != ErrEmptyShape {
			t.Errorf("New(Shape{}) error = %v, want ErrEmptyShape", err)
		}
	})

	t.Run("initial data is deep-cloned on intake", func(t *testing.T) {
		seed := Record{"tags": []any{"a"}}
		b, err := New(Shape{"tags": KindSequence}, WithInitialData(seed))
		if err != nil {
			t.Fatal(err)
		}

		seed["tags"].([]any)[0] = "mutated"
		if got := b.GetField("tags").([]any)[0]; got != "a" {
			t.Errorf("intake aliased the caller's record: %v", got)
		}
	})

	t.Run("undeclared initial key fails", func(t *testing.T) {
		_, err := New(Shape{"foo": KindScalar},
			WithInitialData(Record{"foo": 1, "undeclared": "smuggled"}))
		merr, ok := AsMemberError(err)
		if !ok {
			t.Fatalf("New error = %v, want *MemberError", err)
		}
		if merr.Member != "undeclared" {
			t.Errorf("Member = %q, want %q", merr.Member, "undeclared")
		}
	})

	t.Run("uncloneable initial data fails", func(t *testing.T) {
		_, err := New(Shape{"cb": KindScalar}, WithInitialData(Record{"cb": func() {}}))
		if _, ok := AsCloneError(err); !ok {
			t.Errorf("New error = %v, want *CloneError", err)
		}
	})

	t.Run("shape is copied", func(t *testing.T) {
		shape := Shape{"foo": KindScalar}
		b, err := New(shape)
		if err != nil {
			t.Fatal(err)
		}
		shape["late"] = KindScalar
		if b.Shape().Has("late") {
			t.Error("builder shares shape storage with the caller")
		}
	})
}

func TestBuilder_SetGet(t *testing.T) {
	b := newTestBuilder(t)

	b.Set("foo", 1).Set("name", "x")
	if b.GetField("foo") != 1 || b.GetField("name") != "x" {
		t.Errorf("working data = %v", b.Get())
	}

	t.Run("unknown field panics", func(t *testing.T) {
		defer func() {
			if recover() == nil {
				t.Error("Set on an undeclared field should panic")
			}
		}()
		b.Set("nope", 1)
	})
}

func TestBuilder_Patch(t *testing.T) {
	b := newTestBuilder(t)
	b.Set("foo", 1).Set("name", "keep")

	b.Patch(Record{"foo": 2})

	if b.GetField("foo") != 2 {
		t.Errorf("patched key foo = %v, want 2", b.GetField("foo"))
	}
	if b.GetField("name") != "keep" {
		t.Errorf("unrelated key name = %v, want keep", b.GetField("name"))
	}
}

func TestBuilder_Add(t *testing.T) {
	b := newTestBuilder(t)

	b.Add("tags", "x")
	if diff := cmp.Diff([]any{"x"}, b.GetField("tags")); diff != "" {
		t.Errorf("tags mismatch (-want +got):\n%s", diff)
	}
	if b.Count("tags") != 1 {
		t.Errorf("Count = %d, want 1", b.Count("tags"))
	}

	b.Add("tags", "y", "z")
	if b.Count("tags") != 3 {
		t.Errorf("Count = %d, want 3", b.Count("tags"))
	}

	t.Run("appends to a typed slice", func(t *testing.T) {
		b := newTestBuilder(t)
		b.Set("tags", []string{"pre"})
		b.Add("tags", "post")

		tags := b.GetField("tags").([]any)
		if len(tags) != 2 || tags[0] != "pre" || tags[1] != "post" {
			t.Errorf("tags = %v", tags)
		}
	})

	t.Run("non-sequence field panics", func(t *testing.T) {
		defer func() {
			if recover() == nil {
				t.Error("Add on a scalar field should panic")
			}
		}()
		newTestBuilder(t).Add("foo", 1)
	})
}

func TestBuilder_Count(t *testing.T) {
	b := newTestBuilder(t)

	if b.Count("tags") != 0 {
		t.Error("absent sequence should count 0")
	}

	b.Set("tags", "not-a-sequence")
	if b.Count("tags") != 0 {
		t.Error("non-sequence value should count 0")
	}

	b.Set("tags", []int{1, 2, 3})
	if b.Count("tags") != 3 {
		t.Errorf("Count = %d, want 3", b.Count("tags"))
	}
}

func TestBuilder_Clone(t *testing.T) {
	b := newTestBuilder(t)
	b.Set("foo", 1)

	c := b.Clone()
	c.Set("foo", 2)

	if b.GetField("foo") != 1 {
		t.Errorf("original foo = %v, want 1", b.GetField("foo"))
	}
	if c.GetField("foo") != 2 {
		t.Errorf("clone foo = %v, want 2", c.GetField("foo"))
	}

	t.Run("nested containers are independent", func(t *testing.T) {
		b := newTestBuilder(t)
		b.Add("tags", "a")

		c := b.Clone()
		c.Add("tags", "b")

		if b.Count("tags") != 1 {
			t.Errorf("original tags count = %d, want 1", b.Count("tags"))
		}
	})

	t.Run("pipeline stages carry over", func(t *testing.T) {
		b := newTestBuilder(t)
		b.UseValidator(RequireFields("name"))

		res := b.Clone().Build()
		if res.Ok() {
			t.Error("clone should have inherited the validator")
		}
	})
}

func TestBuilder_Extend(t *testing.T) {
	b, err := New(Shape{"foo": KindScalar})
	if err != nil {
		t.Fatal(err)
	}
	b.Set("foo", "bar")

	e := b.Extend(Shape{"bar": KindScalar})
	e.Set("bar", 42)

	want := Record{"foo": "bar", "bar": 42}
	if diff := cmp.Diff(want, e.Get()); diff != "" {
		t.Errorf("extended data mismatch (-want +got):\n%s", diff)
	}

	// Carried data is a copy, not a shared reference.
	e.Set("foo", "changed")
	if b.GetField("foo") != "bar" {
		t.Error("extension shares working data with the original")
	}
}

func TestBuilder_Reset(t *testing.T) {
	t.Run("restores construction data", func(t *testing.T) {
		b := newTestBuilder(t, WithInitialData(Record{"foo": "seed"}))
		b.Set("foo", "changed").Set("name", "extra")

		b.Reset()

		want := Record{"foo": "seed"}
		if diff := cmp.Diff(want, b.Get()); diff != "" {
			t.Errorf("reset data mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("clone resets to its clone point, not the ancestor's seed", func(t *testing.T) {
		b := newTestBuilder(t, WithInitialData(Record{"foo": "seed"}))
		b.Set("foo", "clone-point")

		c := b.Clone()
		c.Set("foo", "drift")
		c.Reset()

		if got := c.GetField("foo"); got != "clone-point" {
			t.Errorf("clone reset foo = %v, want clone-point", got)
		}
	})

	t.Run("restored data is a fresh clone each time", func(t *testing.T) {
		b := newTestBuilder(t, WithInitialData(Record{"tags": []any{"a"}}))
		b.Reset()
		b.Add("tags", "b")
		b.Reset()

		if b.Count("tags") != 1 {
			t.Errorf("tags count after second reset = %d, want 1", b.Count("tags"))
		}
	})
}

func TestBuilder_Build(t *testing.T) {
	t.Run("no validator always succeeds", func(t *testing.T) {
		b := newTestBuilder(t)
		b.Set("foo", "bar")

		obj, err := b.Build().Unwrap()
		if err != nil {
			t.Fatalf("Build error = %v", err)
		}
		if diff := cmp.Diff(Record{"foo": "bar"}, obj); diff != "" {
			t.Errorf("built object mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("override wins without touching working data", func(t *testing.T) {
		b := newTestBuilder(t)
		b.Set("foo", "base").Set("name", "keep")

		obj := b.Build(Record{"foo": "over"}).Must().(Record)
		if obj["foo"] != "over" || obj["name"] != "keep" {
			t.Errorf("built object = %v", obj)
		}
		if b.GetField("foo") != "base" {
			t.Error("override mutated the working data")
		}
	})

	t.Run("single validator error", func(t *testing.T) {
		b := newTestBuilder(t)
		b.UseValidator(func(data Record) []error {
			return []error{NewValidationError("foo", "is required")}
		})

		res := b.Build()
		if res.Ok() {
			t.Fatal("Build should fail")
		}
		failure := res.Failure()
		if len(failure.Errors) != 1 {
			t.Fatalf("failure has %d errors, want 1", len(failure.Errors))
		}
	})

	t.Run("multiple validator errors keep order", func(t *testing.T) {
		b := newTestBuilder(t)
		b.UseValidator(func(data Record) []error {
			return []error{
				NewValidationError("foo", "first"),
				NewValidationError("name", "second"),
				NewValidationError("tags", "third"),
			}
		})

		failure := b.Build().Failure()
		if failure == nil {
			t.Fatal("Build should fail")
		}
		if len(failure.Errors) != 3 {
			t.Fatalf("failure has %d errors, want 3", len(failure.Errors))
		}
		fields := []string{"foo", "name", "tags"}
		for i, err := range failure.Errors {
			vErr, _ := AsValidationError(err)
			if vErr.Field != fields[i] {
				t.Errorf("error %d field = %q, want %q", i, vErr.Field, fields[i])
			}
		}
	})

	t.Run("transformer shapes the candidate", func(t *testing.T) {
		type order struct {
			Name string
		}
		b := newTestBuilder(t)
		b.Set("name", "ada")
		b.UseTransformer(func(data Record) any {
			return order{Name: data["name"].(string)}
		})

		obj := b.Build().Must()
		if got, ok := obj.(order); !ok || got.Name != "ada" {
			t.Errorf("built object = %#v", obj)
		}
	})

	t.Run("validator sees pre-transform data", func(t *testing.T) {
		b := newTestBuilder(t)
		b.Set("name", "ada")
		b.UseTransformer(func(data Record) any {
			return "opaque"
		})

		var seen Record
		b.UseValidator(func(data Record) []error {
			seen = data
			return nil
		})

		b.Build()
		if seen == nil || seen["name"] != "ada" {
			t.Errorf("validator saw %v, want the merged record", seen)
		}
	})

	t.Run("failure carries the transformed candidate", func(t *testing.T) {
		b := newTestBuilder(t)
		b.UseTransformer(func(data Record) any { return "candidate" })
		b.UseValidator(func(data Record) []error {
			return []error{NewValidationError("foo", "bad")}
		})

		failure := b.Build().Failure()
		if failure.Attempted != "candidate" {
			t.Errorf("Attempted = %v, want the transformed candidate", failure.Attempted)
		}
	})

	t.Run("undeclared override key panics", func(t *testing.T) {
		defer func() {
			if recover() == nil {
				t.Error("Build with an undeclared override key should panic")
			}
		}()
		newTestBuilder(t).Build(Record{"nope": 1})
	})
}

func TestBuilder_UseValidator(t *testing.T) {
	b := newTestBuilder(t)
	b.UseValidator(RequireFields("name"))

	if b.Build().Ok() {
		t.Fatal("Build should fail while the validator is installed")
	}

	b.UseValidator(nil)
	if !b.Build().Ok() {
		t.Error("nil should clear the validator")
	}
}

func TestBuilder_Options(t *testing.T) {
	t.Run("WithValidator equals immediate UseValidator", func(t *testing.T) {
		b := newTestBuilder(t, WithValidator(RequireFields("name")))
		if b.Build().Ok() {
			t.Error("construction validator should apply to the first build")
		}
	})

	t.Run("WithTransformer applies", func(t *testing.T) {
		b := newTestBuilder(t, WithTransformer(func(data Record) any { return "fixed" }))
		if got := b.Build().Must(); got != "fixed" {
			t.Errorf("built object = %v, want fixed", got)
		}
	})
}

func TestBuilder_Dump(t *testing.T) {
	b := newTestBuilder(t)
	b.Set("name", "visible")

	dump := b.Dump()
	if !strings.Contains(dump, "visible") {
		t.Errorf("Dump output missing working data:\n%s", dump)
	}
	if !strings.Contains(dump, "Shape") {
		t.Errorf("Dump output missing shape section:\n%s", dump)
	}
}

func TestBuilder_ChainScenario(t *testing.T) {
	// End-to-end: shape {foo: string, tags: []string} built fluently.
	b, err := New(Shape{"foo": KindScalar, "tags": KindSequence})
	if err != nil {
		t.Fatal(err)
	}

	obj, err := b.
		Set("foo", "bar").
		Add("tags", "a", "b").
		Build().
		Unwrap()
	if err != nil {
		t.Fatal(err)
	}

	rec := obj.(Record)
	if rec["foo"] != "bar" {
		t.Errorf("foo = %v, want bar", rec["foo"])
	}
	if len(rec["tags"].([]any)) != 2 {
		t.Errorf("tags = %v, want two elements", rec["tags"])
	}
}
