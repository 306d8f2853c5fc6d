// Package scoring computes how closely applicants match a team's average
// attribute profile.
//
// An applicant's score is 1 minus its Euclidean distance to the team mean,
// divided by the largest distance possible when every attribute lies in
// [0, scale]. A perfect match scores 1 and the farthest corner scores 0.
package scoring

import (
	"context"
	"fmt"
	"math"

	"github.com/okian/teamfit/internal/domain/model"
	"github.com/okian/teamfit/internal/domain/types"
)

// Default scoring configuration constants.
const (
	defaultScale     = 10
	defaultPrecision = 1
)

// Scorer scores applicants against a team.
type Scorer struct {
	scale     float64
	precision int
	clamp     bool
}

// Result is the outcome of one scoring pass.
type Result struct {
	// Scores holds one entry per applicant, in input order.
	Scores []types.ScoredApplicant
	// Mean is the team profile applicants were compared against.
	Mean model.AttributeVector
	// Clamped counts scores that were pulled back into [0,1].
	Clamped int
}

// New creates a Scorer with scale 10, one decimal of precision and clamping on.
func New(opts ...Option) *Scorer {
	s := &Scorer{
		scale:     defaultScale,
		precision: defaultPrecision,
		clamp:     true,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Scale returns the configured attribute upper bound.
func (s *Scorer) Scale() float64 { return s.scale }

// Precision returns the configured number of decimals.
func (s *Scorer) Precision() int { return s.precision }

// ScoreApplicants computes the team mean once and scores every applicant
// against it. ctx is checked before each applicant.
func (s *Scorer) ScoreApplicants(ctx context.Context, team []model.TeamMember, applicants []model.Applicant) (Result, error) {
	mean, err := Mean(team)
	if err != nil {
		return Result{}, err
	}
	dims := len(mean)

	res := Result{
		Scores: make([]types.ScoredApplicant, 0, len(applicants)),
		Mean:   mean,
	}
	for i, a := range applicants {
		if err := ctx.Err(); err != nil {
			return Result{}, fmt.Errorf("scoring cancelled: %w", err)
		}

		d, err := Distance(a.Attributes, mean)
		if err == nil && (math.IsInf(d, 0) || math.IsNaN(d)) {
			err = fmt.Errorf("%w: attribute values overflow float64", ErrNonFinite)
		}
		if err != nil {
			return Result{}, fmt.Errorf("applicant %d (%q): %w", i, a.Name, err)
		}
		score, err := Normalize(d, dims, s.scale)
		if err != nil {
			return Result{}, err
		}
		if s.clamp && (score < 0 || score > 1) {
			score = math.Max(0, math.Min(1, score))
			res.Clamped++
		}

		res.Scores = append(res.Scores, types.ScoredApplicant{
			Name:  a.Name,
			Score: Round(score, s.precision),
		})
	}
	return res, nil
}

// Mean returns the per-attribute average over the team. Every attribute seen
// on any member is summed and divided by the full team size.
func Mean(team []model.TeamMember) (model.AttributeVector, error) {
	if len(team) == 0 {
		return nil, ErrEmptyTeam
	}

	totals := make(model.AttributeVector)
	for _, m := range team {
		for _, k := range m.Attributes.Keys() {
			totals[k] += m.Attributes[k]
		}
	}

	n := float64(len(team))
	for k, v := range totals {
		totals[k] = v / n
	}
	return totals, nil
}

// Distance returns the Euclidean distance between a and b over a's keys.
// Every key of a must be present in b.
func Distance(a, b model.AttributeVector) (float64, error) {
	var sum float64
	for _, k := range a.Keys() {
		bv, ok := b[k]
		if !ok {
			return 0, fmt.Errorf("%w: %q", ErrMissingAttribute, k)
		}
		diff := a[k] - bv
		sum += diff * diff
	}
	return math.Sqrt(sum), nil
}

// Normalize maps a distance to 1 - distance/sqrt(dims*scale^2). The result
// is not bounded: distances beyond the theoretical maximum go negative.
func Normalize(distance float64, dims int, scale float64) (float64, error) {
	if dims <= 0 {
		return 0, ErrNoAttributes
	}
	if scale <= 0 {
		return 0, fmt.Errorf("%w: got %v", ErrInvalidScale, scale)
	}
	maxDistance := math.Sqrt(float64(dims) * scale * scale)
	return 1 - distance/maxDistance, nil
}

// Round rounds v to precision decimals, half away from zero.
func Round(v float64, precision int) float64 {
	p := math.Pow10(precision)
	r := math.Round(v*p) / p
	if r == 0 {
		// Drop the sign of -0 so it never reaches the report.
		return 0
	}
	return r
}

// RangeViolation is an attribute value outside [0, scale].
type RangeViolation struct {
	Subject   string
	Attribute string
	Value     float64
}

// OutOfRange lists every team or applicant value outside [0, scale].
// Team members are reported as team[i], applicants by name.
func (s *Scorer) OutOfRange(team []model.TeamMember, applicants []model.Applicant) []RangeViolation {
	var out []RangeViolation
	check := func(subject string, v model.AttributeVector) {
		for _, k := range v.Keys() {
			if x := v[k]; x < 0 || x > s.scale {
				out = append(out, RangeViolation{Subject: subject, Attribute: k, Value: x})
			}
		}
	}
	for i, m := range team {
		check(fmt.Sprintf("team[%d]", i), m.Attributes)
	}
	for _, a := range applicants {
		check(a.Name, a.Attributes)
	}
	return out
}
