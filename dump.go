package dynabuild

import (
	"github.com/davecgh/go-spew/spew"
)

// dumpConfig renders deterministic, address-free output suitable for logs and
// test failure messages.
var dumpConfig = spew.ConfigState{
	Indent:                  "  ",
	SortKeys:                true,
	DisablePointerAddresses: true,
	DisableCapacities:       true,
}

// dumpSnapshot is the diagnostic view of a builder.
type dumpSnapshot struct {
	Shape Shape
	Data  Record
}

// Dump returns a human-readable rendering of the builder's declared shape and
// current working data, for diagnostics. The output format is not stable
// across releases; do not parse it.
func (b *Builder) Dump() string {
	return dumpConfig.Sdump(dumpSnapshot{Shape: b.shape, Data: b.data})
}
