// Package summary defines the four-field clinical summary, the fixed
// instruction and schema sent to the model, and the parser that turns the
// model's text into a Summary.
package summary

import (
	"encoding/json"
	"fmt"
	"regexp"

	"github.com/kbukum/medsum/errors"
)

// Summary is the structured clinical summary of one interview.
type Summary struct {
	ChiefComplaint          string `json:"chiefComplaint"`
	HistoryOfPresentIllness string `json:"historyOfPresentIllness"`
	CurrentMedications      string `json:"currentMedications"`
	ImpactOnDailyLife       string `json:"impactOnDailyLife"`
}

// wire mirrors Summary with pointers so absent and null keys are detectable.
type wire struct {
	ChiefComplaint          *string `json:"chiefComplaint"`
	HistoryOfPresentIllness *string `json:"historyOfPresentIllness"`
	CurrentMedications      *string `json:"currentMedications"`
	ImpactOnDailyLife       *string `json:"impactOnDailyLife"`
}

var (
	leadingFence  = regexp.MustCompile("^```json\n?")
	trailingFence = regexp.MustCompile("```$")
)

// StripFences removes a leading "```json" fence (with its optional newline)
// and a "```" at the very end of raw. Other fence styles are left alone.
func StripFences(raw string) string {
	s := leadingFence.ReplaceAllString(raw, "")
	return trailingFence.ReplaceAllString(s, "")
}

// Parse decodes the model's response text. Any decode failure or a missing
// or null field yields a MALFORMED_SUMMARY error; values are otherwise
// returned exactly as the model produced them.
func Parse(raw string) (Summary, error) {
	var w wire
	if err := json.Unmarshal([]byte(StripFences(raw)), &w); err != nil {
		return Summary{}, errors.MalformedSummary(err)
	}

	missing := make([]string, 0, 4)
	if w.ChiefComplaint == nil {
		missing = append(missing, FieldChiefComplaint)
	}
	if w.HistoryOfPresentIllness == nil {
		missing = append(missing, FieldHistoryOfPresentIllness)
	}
	if w.CurrentMedications == nil {
		missing = append(missing, FieldCurrentMedications)
	}
	if w.ImpactOnDailyLife == nil {
		missing = append(missing, FieldImpactOnDailyLife)
	}
	if len(missing) > 0 {
		return Summary{}, errors.MalformedSummary(fmt.Errorf("missing fields %v", missing)).
			WithDetail("missing", missing)
	}

	return Summary{
		ChiefComplaint:          *w.ChiefComplaint,
		HistoryOfPresentIllness: *w.HistoryOfPresentIllness,
		CurrentMedications:      *w.CurrentMedications,
		ImpactOnDailyLife:       *w.ImpactOnDailyLife,
	}, nil
}

// Section is a titled part of a rendered summary.
type Section struct {
	Title string
	Body  string
}

// Sections returns the summary in display order with human titles.
func (s Summary) Sections() []Section {
	return []Section{
		{Title: "Chief Complaint", Body: s.ChiefComplaint},
		{Title: "History of Present Illness", Body: s.HistoryOfPresentIllness},
		{Title: "Current Medications", Body: s.CurrentMedications},
		{Title: "Impact on Daily Life", Body: s.ImpactOnDailyLife},
	}
}
