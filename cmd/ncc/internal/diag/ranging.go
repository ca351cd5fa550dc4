package diag

// Ranger wraps the Range method.
type Ranger interface {
	Range() Ranging
}

// Ranging is a byte range [From, To) into a source text.
type Ranging struct {
	From int
	To   int
}

// Range returns the Ranging itself.
func (r Ranging) Range() Ranging { return r }

// PointRanging returns a zero-width Ranging at p.
func PointRanging(p int) Ranging {
	return Ranging{p, p}
}
