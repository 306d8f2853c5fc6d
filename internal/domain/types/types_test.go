package types_test

import (
	"encoding/json"
	"testing"

	types "github.com/okian/teamfit/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

func TestReportJSON(t *testing.T) {
	Convey("Given a report", t, func() {
		report := types.Report{ScoredApplicants: []types.ScoredApplicant{
			{Name: "John", Score: 0.8},
			{Name: "Jane", Score: 1},
		}}

		Convey("When encoding it", func() {
			data, err := json.Marshal(report)

			Convey("Then it should use the published field names", func() {
				So(err, ShouldBeNil)
				So(string(data), ShouldEqual, `{"scoredApplicants":[{"name":"John","score":0.8},{"name":"Jane","score":1}]}`)
			})
		})

		Convey("When the report has no applicants", func() {
			empty := types.Report{ScoredApplicants: []types.ScoredApplicant{}}
			data, err := json.Marshal(empty)

			Convey("Then it should encode an empty array, not null", func() {
				So(err, ShouldBeNil)
				So(string(data), ShouldEqual, `{"scoredApplicants":[]}`)
			})
		})
	})
}
