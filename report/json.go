package report

import (
	"encoding/json"

	"github.com/wippyai/modsurfer/validate"
)

type jsonOutcome struct {
	Status         string `json:"status"`
	Property       string `json:"property"`
	Expected       string `json:"expected"`
	Actual         string `json:"actual"`
	Classification string `json:"classification"`
	Severity       int    `json:"severity"`
}

// JSON renders a Report as a JSON array of Outcome objects, field names
// verbatim.
func JSON(r validate.Report) ([]byte, error) {
	out := make([]jsonOutcome, 0, len(r.Outcomes))
	for _, o := range r.Outcomes {
		out = append(out, jsonOutcome{
			Status:         o.Status.String(),
			Property:       o.Property,
			Expected:       o.Expected,
			Actual:         o.Actual,
			Classification: o.Classification.String(),
			Severity:       o.Severity,
		})
	}
	return json.MarshalIndent(out, "", "  ")
}
