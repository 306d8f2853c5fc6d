// Package types contains the wire types emitted by a scoring run.
package types

// ScoredApplicant pairs an applicant's name with its compatibility score.
type ScoredApplicant struct {
	Name  string  `json:"name"`
	Score float64 `json:"score"`
}

// Report is the document written for a scoring run.
type Report struct {
	ScoredApplicants []ScoredApplicant `json:"scoredApplicants"`
}
