package differ

// Option is a functional option for configuring a Differ.
type Option func(*Differ)

// WithIgnoredFields sets top-level fields to ignore during comparison,
// e.g. "description" or "storeUrl".
func WithIgnoredFields(fields ...string) Option {
	return func(d *Differ) {
		for _, field := range fields {
			d.ignoreFields[field] = true
		}
	}
}

// WithValueLimit truncates reported values to n runes. Zero keeps values whole.
func WithValueLimit(n int) Option {
	return func(d *Differ) {
		d.valueLimit = n
	}
}
