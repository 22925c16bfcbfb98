// Package openai is the OpenAI backend for llm, built on
// github.com/sashabaranov/go-openai. Importing it registers the "openai"
// backend.
//
// Chat models do not accept inline audio, so audio parts are first
// transcribed with Whisper and the transcript is sent as text.
package openai

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"mime"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/kbukum/medsum/errors"
	"github.com/kbukum/medsum/llm"
)

// DefaultModel is the chat model used when none is configured.
const DefaultModel = openai.GPT4oMini

func init() {
	llm.RegisterBackend("openai", func(_ context.Context, cfg llm.Config) (llm.Generator, error) {
		return New(cfg)
	})
}

// Generator talks to the chat completions and audio transcription APIs.
type Generator struct {
	client  *openai.Client
	model   string
	timeout time.Duration
}

// New creates an OpenAI generator.
func New(cfg llm.Config) (*Generator, error) {
	cfg.ApplyDefaults()
	oc := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		oc.BaseURL = cfg.BaseURL
	}
	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}
	return &Generator{
		client:  openai.NewClientWithConfig(oc),
		model:   model,
		timeout: cfg.Timeout,
	}, nil
}

// Generate transcribes any inline audio, then runs one chat completion.
func (g *Generator) Generate(ctx context.Context, req llm.Request) (string, error) {
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}
	model := req.Model
	if model == "" {
		model = g.model
	}

	var content []string
	for _, p := range req.Parts {
		if !p.IsInline() {
			content = append(content, p.Text)
			continue
		}
		text, err := g.transcribe(ctx, p)
		if err != nil {
			return "", err
		}
		content = append(content, "Transcript of the attached audio:\n"+text)
	}

	messages := make([]openai.ChatCompletionMessage, 0, 2)
	if req.SystemInstruction != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: req.SystemInstruction,
		})
	}
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: strings.Join(content, "\n\n"),
	})

	chat := openai.ChatCompletionRequest{
		Model:       model,
		Messages:    messages,
		Temperature: req.Temperature,
	}
	switch {
	case req.Schema != nil:
		name := req.Schema.Name
		if name == "" {
			name = "response"
		}
		chat.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONSchema,
			JSONSchema: &openai.ChatCompletionResponseFormatJSONSchema{
				Name:   name,
				Schema: rawSchema(req.Schema.JSONSchema()),
				Strict: true,
			},
		}
	case req.ResponseMIMEType == "application/json":
		chat.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		}
	}

	resp, err := g.client.CreateChatCompletion(ctx, chat)
	if err != nil {
		return "", classify(err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.TransportFailure("", fmt.Errorf("openai: empty response"))
	}
	return resp.Choices[0].Message.Content, nil
}

func (g *Generator) transcribe(ctx context.Context, p llm.Part) (string, error) {
	resp, err := g.client.CreateTranscription(ctx, openai.AudioRequest{
		Model:    openai.Whisper1,
		FilePath: "audio" + extension(p.MIMEType),
		Reader:   bytes.NewReader(p.Data),
	})
	if err != nil {
		return "", classify(err)
	}
	return resp.Text, nil
}

// extension picks a file name suffix Whisper uses to detect the format.
func extension(mimeType string) string {
	if mimeType == "audio/mpeg" || mimeType == "" {
		return ".mp3"
	}
	if exts, _ := mime.ExtensionsByType(mimeType); len(exts) > 0 {
		return exts[0]
	}
	return ".mp3"
}

type rawSchema map[string]any

func (s rawSchema) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]any(s))
}

func classify(err error) error {
	var apiErr *openai.APIError
	if stderrors.As(err, &apiErr) {
		return llm.ClassifyError(err, apiErr.HTTPStatusCode)
	}
	var reqErr *openai.RequestError
	if stderrors.As(err, &reqErr) {
		return llm.ClassifyError(err, reqErr.HTTPStatusCode)
	}
	return llm.ClassifyError(err, 0)
}
