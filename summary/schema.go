package summary

import "github.com/kbukum/medsum/llm"

// JSON keys of the four summary fields.
const (
	FieldChiefComplaint          = "chiefComplaint"
	FieldHistoryOfPresentIllness = "historyOfPresentIllness"
	FieldCurrentMedications      = "currentMedications"
	FieldImpactOnDailyLife       = "impactOnDailyLife"
)

// Properties lists the schema properties in output order. All are required
// strings.
var Properties = []llm.Property{
	{
		Name:        FieldChiefComplaint,
		Description: "The main reason for the visit, e.g., 'Chronic lower back pain'.",
	},
	{
		Name:        FieldHistoryOfPresentIllness,
		Description: "A detailed paragraph summarizing the history of the pain, including location, duration, quality, severity, timing, context, and modifying factors.",
	},
	{
		Name:        FieldCurrentMedications,
		Description: "A list of current medications the patient mentioned, including dosage and frequency if available. If none mentioned, state 'None mentioned'.",
	},
	{
		Name:        FieldImpactOnDailyLife,
		Description: "How the pain affects the patient's daily life, such as sleep, work, mood, and activities. If none mentioned, state 'None mentioned'.",
	},
}

// Required returns the names of all required properties.
func Required() []string {
	names := make([]string, len(Properties))
	for i, p := range Properties {
		names[i] = p.Name
	}
	return names
}

// ResponseSchema is the schema every summary request is constrained to.
func ResponseSchema() *llm.Schema {
	return &llm.Schema{
		Name:       "clinical_summary",
		Properties: Properties,
		Required:   Required(),
	}
}
