// Package roster reads scoring requests and writes scoring reports as JSON.
package roster

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"maps"
	"os"
	"slices"

	"github.com/okian/teamfit/internal/domain/model"
	"github.com/okian/teamfit/internal/domain/types"
)

// Pointer fields let the decoder tell a missing key from an empty value.
type document struct {
	Team       *[]memberDoc    `json:"team"`
	Applicants *[]applicantDoc `json:"applicants"`
}

// A nil value pointer marks a JSON null attribute.
type attributesDoc map[string]*float64

type memberDoc struct {
	Attributes *attributesDoc `json:"attributes"`
}

type applicantDoc struct {
	Name       *string        `json:"name"`
	Attributes *attributesDoc `json:"attributes"`
}

// LoadFile reads and validates the roster stored at path.
func LoadFile(ctx context.Context, path string) (model.Roster, error) {
	f, err := os.Open(path)
	if err != nil {
		return model.Roster{}, fmt.Errorf("%w: %w", ErrOpen, err)
	}
	defer func() { _ = f.Close() }()

	return Decode(ctx, f)
}

// Decode reads exactly one roster document from r. Unknown keys are ignored;
// team, applicants, every entry's attributes (and applicant name) and every
// attribute value are required.
func Decode(ctx context.Context, r io.Reader) (model.Roster, error) {
	if err := ctx.Err(); err != nil {
		return model.Roster{}, err
	}

	dec := json.NewDecoder(r)
	var doc document
	if err := dec.Decode(&doc); err != nil {
		return model.Roster{}, fmt.Errorf("%w: %w", ErrDecode, err)
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		if err == nil {
			err = errors.New("unexpected data after top-level value")
		}
		return model.Roster{}, fmt.Errorf("%w: %w", ErrDecode, err)
	}
	return doc.toModel()
}

func (d document) toModel() (model.Roster, error) {
	if d.Team == nil {
		return model.Roster{}, missing("team")
	}
	if d.Applicants == nil {
		return model.Roster{}, missing("applicants")
	}

	out := model.Roster{
		Team:       make([]model.TeamMember, 0, len(*d.Team)),
		Applicants: make([]model.Applicant, 0, len(*d.Applicants)),
	}
	for i, m := range *d.Team {
		if m.Attributes == nil {
			return model.Roster{}, missing(fmt.Sprintf("team[%d].attributes", i))
		}
		attrs, err := m.Attributes.toVector(fmt.Sprintf("team[%d].attributes", i))
		if err != nil {
			return model.Roster{}, err
		}
		out.Team = append(out.Team, model.TeamMember{Attributes: attrs})
	}
	for i, a := range *d.Applicants {
		if a.Name == nil {
			return model.Roster{}, missing(fmt.Sprintf("applicants[%d].name", i))
		}
		if a.Attributes == nil {
			return model.Roster{}, missing(fmt.Sprintf("applicants[%d].attributes", i))
		}
		attrs, err := a.Attributes.toVector(fmt.Sprintf("applicants[%d].attributes", i))
		if err != nil {
			return model.Roster{}, err
		}
		out.Applicants = append(out.Applicants, model.Applicant{Name: *a.Name, Attributes: attrs})
	}
	return out, nil
}

func (a *attributesDoc) toVector(path string) (model.AttributeVector, error) {
	v := make(model.AttributeVector, len(*a))
	for _, k := range slices.Sorted(maps.Keys(*a)) {
		x := (*a)[k]
		if x == nil {
			return nil, missing(path + "." + k)
		}
		v[k] = *x
	}
	return v, nil
}

func missing(path string) error {
	return fmt.Errorf("%w: %s", ErrMissingField, path)
}

// WriteReport writes report to w as two-space indented JSON.
func WriteReport(w io.Writer, report types.Report) error {
	if report.ScoredApplicants == nil {
		report.ScoredApplicants = []types.ScoredApplicant{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(report); err != nil {
		return fmt.Errorf("%w: %w", ErrEncode, err)
	}
	return nil
}
