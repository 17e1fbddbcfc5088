// Package dynabuild provides a generic fluent object-builder: given a data
// shape description, it derives getter, setter, and (for sequence fields)
// append/count accessors per field from naming convention, without the caller
// hand-writing any of them. Builders support cloning, partial patching, shape
// extension, pluggable validation, and pluggable transformation before the
// built object is finalized.
//
// # Quick Start
//
// Declare a shape and build through the typed surface:
//
//	b, err := dynabuild.New(dynabuild.Shape{
//	    "name": dynabuild.KindScalar,
//	    "tags": dynabuild.KindSequence,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	obj, err := b.
//	    Set("name", "order-7").
//	    Add("tags", "urgent", "retail").
//	    Build().
//	    Unwrap()
//
// Or through the dynamic member surface, where accessors are resolved from
// the requested name at use time:
//
//	b.MustInvoke("setName", "order-7")
//	b.MustInvoke("addTags", "urgent", "retail")
//	res := b.MustInvoke("build").(dynabuild.Result)
//
// # Member Resolution
//
// Invoke classifies a requested member name at the moment it is first used:
// built-in operation names (clone, extend, patch, build, reset, get, set,
// useValidator, useTransformer) and registered ops dispatch directly;
// otherwise the name is matched against the get/set/add/count prefixes and
// the remainder, first rune lower-cased, names a declared field. Unknown
// members fail loudly with a *MemberError, and non-string member keys fail
// with a type error rather than being silently ignored.
//
// Since Go cannot intercept arbitrary member access the way a dynamic
// language's proxies can, the shape given at construction is the static
// contract: accessors resolve only for declared fields, and add/count only
// for declared sequence fields.
//
// # Build Pipeline
//
// Build shallow-merges optional override records over the working data,
// passes the merged record through the transformer when one is installed,
// and hands the merged pre-transform record to the validator. The outcome is
// a two-case Result: callers must check which case before accessing the
// payload.
//
//	res := b.UseValidator(dynabuild.RequireFields("name")).Build()
//	if failure := res.Failure(); failure != nil {
//	    for _, err := range failure.Errors {
//	        log.Println(err)
//	    }
//	}
//
// # Error Model
//
// Validation failures are domain errors, reported only through Result and
// never panicking. Programmer errors (unknown member names, non-string
// member keys, cloning a value graph containing a function) panic with
// typed BuilderError values on the fluent surface; the Invoke surface
// returns them as ordinary errors instead.
//
// # Ownership
//
// Working data is never shared by reference between a builder and its clones
// or extensions: construction intake, Clone, Extend, and Reset all cross a
// deep-clone boundary. A builder is exclusively owned by whoever holds its
// reference and is not safe for concurrent use.
package dynabuild
