package attrs

// tuple marks the fixed-arity Tuple types. Conversion fills their fields in
// order from an Array's elements.
type tuple interface{ arity() int }

// Tuple1 through Tuple6 receive positional Array elements. Convert with
// From or FromRelaxed, e.g. From[Tuple2[int64, bool]](arr).
type Tuple1[A any] struct{ V1 A }

type Tuple2[A, B any] struct {
	V1 A
	V2 B
}

type Tuple3[A, B, C any] struct {
	V1 A
	V2 B
	V3 C
}

type Tuple4[A, B, C, D any] struct {
	V1 A
	V2 B
	V3 C
	V4 D
}

type Tuple5[A, B, C, D, E any] struct {
	V1 A
	V2 B
	V3 C
	V4 D
	V5 E
}

type Tuple6[A, B, C, D, E, F any] struct {
	V1 A
	V2 B
	V3 C
	V4 D
	V5 E
	V6 F
}

func (Tuple1[A]) arity() int                { return 1 }
func (Tuple2[A, B]) arity() int             { return 2 }
func (Tuple3[A, B, C]) arity() int          { return 3 }
func (Tuple4[A, B, C, D]) arity() int       { return 4 }
func (Tuple5[A, B, C, D, E]) arity() int    { return 5 }
func (Tuple6[A, B, C, D, E, F]) arity() int { return 6 }
