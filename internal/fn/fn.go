// Package fn holds small generic helpers shared across packages.
package fn

// T returns trueVal if condition holds, else falseVal.
func T[V any](condition bool, trueVal, falseVal V) V {
	if condition {
		return trueVal
	}
	return falseVal
}

// Default returns v, or def when v is the zero value.
func Default[V comparable](v, def V) V {
	var zero V
	if v == zero {
		return def
	}
	return v
}
