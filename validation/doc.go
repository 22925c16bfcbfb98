// Package validation checks request and config structs against their
// `validate` tags and reports failures as INPUT_MISSING errors.
//
//	type transcriptRequest struct {
//	    Transcript string `json:"transcript" validate:"notblank"`
//	    Language   string `json:"language" validate:"notblank"`
//	}
//	err := validation.Validate(req, errors.MsgTranscriptFieldsMissing)
//
// The custom "notblank" tag rejects whitespace-only strings.
package validation
