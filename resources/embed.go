package resources

import _ "embed"

// PivotRegistry is the default pivot definition document. Its func_ref
// values resolve against the built-in handler namespace.
//
//go:embed pivot_registry.yaml
var PivotRegistry []byte
