package scoring

import "errors"

// Sentinel kinds for scoring errors.
var (
	ErrEmptyTeam        = errors.New("team has no members")
	ErrMissingAttribute = errors.New("attribute missing from team profile")
	ErrNoAttributes     = errors.New("team profile has no attributes")
	ErrInvalidScale     = errors.New("scale must be positive")
	ErrNonFinite        = errors.New("distance is not finite")
)
