package summarizer

import (
	"github.com/kbukum/medsum/errors"
	"github.com/kbukum/medsum/llm"
	"github.com/kbukum/medsum/normalize"
	"github.com/kbukum/medsum/summary"
)

// BuildRequest maps a canonical request onto a generation request with the
// fixed instruction, schema and temperature. Audio becomes an inline part
// followed by the transcribe-then-summarize instruction.
func BuildRequest(req normalize.CanonicalRequest) (llm.Request, error) {
	out := llm.Request{
		SystemInstruction: summary.SystemInstruction(req.Language),
		Schema:            summary.ResponseSchema(),
		Temperature:       summary.Temperature,
		ResponseMIMEType:  summary.ResponseMIMEType,
	}
	switch req.Kind {
	case normalize.KindAudio:
		data, err := req.AudioBytes()
		if err != nil {
			return llm.Request{}, errors.InputMissing(errors.MsgAudioFieldsMissing).WithCause(err)
		}
		mimeType := req.MIMEType
		if mimeType == "" {
			mimeType = normalize.MIMETypeMP3
		}
		out.Parts = []llm.Part{
			llm.InlinePart(data, mimeType),
			llm.TextPart(summary.AudioInstruction),
		}
	default:
		out.Parts = []llm.Part{llm.TextPart(req.Content)}
	}
	return out, nil
}
