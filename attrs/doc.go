// Package attrs implements the attribute value model used throughout nadi.
//
// An Attribute is a closed tagged union over the literal values the task
// language and attribute files can express: booleans, strings, 64-bit
// integers and floats, dates, times, datetimes, arrays and tables. Tables
// keep their insertion order for display while comparing as unordered maps.
//
// Attributes convert to native Go values along two explicit paths:
//
//   - From requires the attribute variant to match the target type exactly.
//   - FromRelaxed also accepts the declared fallback coercions (numeric
//     truthiness for bool, Bool for integers, Integer and Bool for floats,
//     Date for DateTime).
//
// Usage:
//
//	v, err := attrs.From[[]int64](attrs.Array(attrs.Int(1), attrs.Int(2)))
//	ok, err := attrs.FromRelaxed[bool](attrs.Int(0)) // false, nil
package attrs
