package scoring

// Option applies a configuration option to the Scorer.
type Option func(*Scorer)

// WithScale sets the assumed upper bound of attribute values.
func WithScale(scale float64) Option {
	return func(s *Scorer) {
		if scale > 0 {
			s.scale = scale
		}
	}
}

// WithPrecision sets the number of decimals scores are rounded to.
func WithPrecision(precision int) Option {
	return func(s *Scorer) {
		if precision >= 0 {
			s.precision = precision
		}
	}
}

// WithClamp controls whether scores are bounded to [0,1].
func WithClamp(clamp bool) Option {
	return func(s *Scorer) {
		s.clamp = clamp
	}
}
