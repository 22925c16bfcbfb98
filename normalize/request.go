package normalize

import (
	"encoding/base64"
	"fmt"

	"github.com/kbukum/medsum/errors"
	"github.com/kbukum/medsum/util"
)

// Kind says what a CanonicalRequest carries.
type Kind string

const (
	KindText  Kind = "text"
	KindAudio Kind = "audio"
)

// MIMETypeMP3 is the only accepted upload type.
const MIMETypeMP3 = "audio/mpeg"

// CanonicalRequest is the single shape every input mode is reduced to.
type CanonicalRequest struct {
	Kind Kind
	// Content is the transcript for text requests.
	Content string
	// Audio is the base64-encoded file for audio requests.
	Audio    string
	MIMEType string
	Language string
}

// NewTextRequest builds a text request.
func NewTextRequest(content, language string) CanonicalRequest {
	return CanonicalRequest{Kind: KindText, Content: content, Language: language}
}

// NewAudioRequest builds an audio request, encoding data as base64.
func NewAudioRequest(data []byte, mimeType, language string) CanonicalRequest {
	return CanonicalRequest{
		Kind:     KindAudio,
		Audio:    base64.StdEncoding.EncodeToString(data),
		MIMEType: mimeType,
		Language: language,
	}
}

// AudioBytes decodes the audio payload.
func (r CanonicalRequest) AudioBytes() ([]byte, error) {
	data, err := base64.StdEncoding.DecodeString(r.Audio)
	if err != nil {
		return nil, fmt.Errorf("normalize: decode audio: %w", err)
	}
	return data, nil
}

// Validate reports an INPUT_MISSING error when the content for the request's
// kind or its language is absent.
func (r CanonicalRequest) Validate() error {
	switch r.Kind {
	case KindText:
		if util.IsBlank(r.Content) || util.IsBlank(r.Language) {
			return errors.InputMissing(errors.MsgTranscriptFieldsMissing)
		}
	case KindAudio:
		if r.Audio == "" || util.IsBlank(r.Language) {
			return errors.InputMissing(errors.MsgAudioFieldsMissing)
		}
	default:
		return errors.InputMissing(errors.MsgTranscriptFieldsMissing).WithDetail("kind", string(r.Kind))
	}
	return nil
}
