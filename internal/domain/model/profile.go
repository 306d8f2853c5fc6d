// Package model contains domain models passed between layers.
package model

import (
	"maps"
	"slices"
)

// AttributeVector maps an attribute name to its numeric value.
type AttributeVector map[string]float64

// Keys returns the attribute names in sorted order.
func (v AttributeVector) Keys() []string {
	return slices.Sorted(maps.Keys(v))
}

// Clone returns an independent copy of v.
func (v AttributeVector) Clone() AttributeVector {
	return maps.Clone(v)
}

// TeamMember is a current member of the team.
type TeamMember struct {
	Attributes AttributeVector
}

// Applicant is a candidate scored against the team.
type Applicant struct {
	Name       string
	Attributes AttributeVector
}

// Roster is one scoring request: the team and the applicants to compare.
type Roster struct {
	Team       []TeamMember
	Applicants []Applicant
}
