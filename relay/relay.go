// Package relay exposes the summarizer over HTTP so the downstream
// credential stays on the server.
//
//	POST /api/summarize-transcript  {"transcript": "...", "language": "English"}
//	POST /api/summarize-audio       multipart: audio=<file>, language=<name>
//
// Both reply {"success": true, "summary": {...}} or {"error": "..."}.
package relay

import (
	"io"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/medsum/errors"
	"github.com/kbukum/medsum/logger"
	"github.com/kbukum/medsum/normalize"
	"github.com/kbukum/medsum/resilience"
	"github.com/kbukum/medsum/server"
	"github.com/kbukum/medsum/server/endpoint"
	"github.com/kbukum/medsum/server/middleware"
	"github.com/kbukum/medsum/summarizer"
	"github.com/kbukum/medsum/summary"
	"github.com/kbukum/medsum/util"
	"github.com/kbukum/medsum/validation"
)

// Handler serves the summarize routes.
type Handler struct {
	svc summarizer.Summarizer
	log *logger.Logger
}

// NewHandler creates a handler. log may be nil.
func NewHandler(svc summarizer.Summarizer, log *logger.Logger) *Handler {
	if log == nil {
		log = logger.Nop()
	}
	return &Handler{svc: svc, log: log.WithComponent("relay")}
}

// Mount registers /health, /version and the /api routes on s. A positive
// ratePerMinute limits each client IP on /api.
func Mount(s *server.Server, h *Handler, ratePerMinute int) {
	r := s.Engine()
	r.GET("/health", endpoint.Health(nil))
	r.GET("/version", endpoint.Version())

	api := r.Group("/api")
	if ratePerMinute > 0 {
		limiter := resilience.NewKeyedRateLimiter(resilience.PerMinute("relay-api", ratePerMinute))
		api.Use(middleware.RateLimit(limiter))
	}
	api.POST("/summarize-transcript", h.SummarizeTranscript)
	api.POST("/summarize-audio", h.SummarizeAudio)
}

type transcriptRequest struct {
	Transcript string `json:"transcript" validate:"notblank"`
	Language   string `json:"language" validate:"notblank"`
}

type audioRequest struct {
	Audio    *multipart.FileHeader `form:"audio" validate:"required"`
	Language string                `form:"language" validate:"notblank"`
}

// SummaryResponse is the success body.
type SummaryResponse struct {
	Success bool            `json:"success"`
	Summary summary.Summary `json:"summary"`
}

// SummarizeTranscript handles POST /api/summarize-transcript.
func (h *Handler) SummarizeTranscript(c *gin.Context) {
	var body transcriptRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		if middleware.IsBodyTooLarge(err) {
			h.fail(c, errors.PayloadTooLarge(0).WithCause(err))
			return
		}
		// Validation below reports the missing fields.
		h.log.WithContext(c.Request.Context()).Debug("transcript body did not bind", logger.Fields(
			"path", c.Request.URL.Path,
			logger.FieldError, err.Error(),
		))
	}
	if err := validation.Validate(body, errors.MsgTranscriptFieldsMissing); err != nil {
		h.fail(c, err)
		return
	}

	h.summarize(c, normalize.NewTextRequest(body.Transcript, body.Language))
}

// SummarizeAudio handles POST /api/summarize-audio. The upload's own content
// type is forwarded, defaulting to audio/mpeg.
func (h *Handler) SummarizeAudio(c *gin.Context) {
	var body audioRequest
	file, err := c.FormFile("audio")
	if err != nil && middleware.IsBodyTooLarge(err) {
		h.fail(c, errors.PayloadTooLarge(0).WithCause(err))
		return
	}
	body.Audio = file
	body.Language = c.PostForm("language")
	if err := validation.Validate(body, errors.MsgAudioFieldsMissing); err != nil {
		h.fail(c, err)
		return
	}

	data, err := readUpload(body.Audio)
	if err != nil {
		h.fail(c, errors.Internal(err))
		return
	}
	mimeType := util.Coalesce(body.Audio.Header.Get("Content-Type"), normalize.MIMETypeMP3)

	h.summarize(c, normalize.NewAudioRequest(data, mimeType, body.Language))
}

func (h *Handler) summarize(c *gin.Context, req normalize.CanonicalRequest) {
	result, err := h.svc.Summarize(c.Request.Context(), req)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, SummaryResponse{Success: true, Summary: result})
}

func (h *Handler) fail(c *gin.Context, err error) {
	appErr := errors.Classify(err)
	h.log.WithContext(c.Request.Context()).Warn("summarize request failed", logger.Fields(
		"path", c.Request.URL.Path,
		logger.FieldStatus, appErr.HTTPStatus,
		logger.FieldError, err.Error(),
	))
	server.RespondWithError(c, appErr)
}

func readUpload(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}
