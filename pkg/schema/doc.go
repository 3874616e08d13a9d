// Package schema loads the static control schema of a filter form and
// compiles it into the immutable Config consumed by the formquery codec.
//
// A schema document lists every control of the form (id, kind, optional
// group name, native min/max bounds, select options), the alias table used
// to shorten well-known queries, and the known maxima of open-ended range
// fields. Compile derives the flag vocabulary and the range field registry
// once; the resulting Config is safe for concurrent readers.
package schema
