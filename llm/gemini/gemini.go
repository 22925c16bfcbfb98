// Package gemini is the Google Gemini backend for llm, built on
// google.golang.org/genai. Importing it registers the "gemini" backend.
package gemini

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"
	"time"

	"google.golang.org/genai"

	"github.com/kbukum/medsum/errors"
	"github.com/kbukum/medsum/llm"
)

// DefaultModel is used when neither the config nor the request names a model.
const DefaultModel = "gemini-2.5-flash"

func init() {
	llm.RegisterBackend("gemini", func(ctx context.Context, cfg llm.Config) (llm.Generator, error) {
		return New(ctx, cfg)
	})
}

// Generator calls Models.GenerateContent.
type Generator struct {
	client  *genai.Client
	model   string
	timeout time.Duration
}

// New creates a Gemini generator. The API key must be set.
func New(ctx context.Context, cfg llm.Config) (*Generator, error) {
	cfg.ApplyDefaults()
	cc := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.BaseURL != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}
	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("gemini: create client: %w", err)
	}
	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}
	return &Generator{client: client, model: model, timeout: cfg.Timeout}, nil
}

// Generate sends one request and returns the concatenated text of the first
// candidate.
func (g *Generator) Generate(ctx context.Context, req llm.Request) (string, error) {
	model := req.Model
	if model == "" {
		model = g.model
	}
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	parts := make([]*genai.Part, 0, len(req.Parts))
	for _, p := range req.Parts {
		if p.IsInline() {
			parts = append(parts, genai.NewPartFromBytes(p.Data, p.MIMEType))
			continue
		}
		parts = append(parts, genai.NewPartFromText(p.Text))
	}
	contents := []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}

	result, err := g.client.Models.GenerateContent(ctx, model, contents, buildConfig(req))
	if err != nil {
		return "", classify(err)
	}
	if result == nil || len(result.Candidates) == 0 || result.Candidates[0].Content == nil {
		return "", errors.TransportFailure("", fmt.Errorf("gemini: empty response"))
	}

	var text strings.Builder
	for _, part := range result.Candidates[0].Content.Parts {
		if part.Text != "" {
			text.WriteString(part.Text)
		}
	}
	return text.String(), nil
}

func buildConfig(req llm.Request) *genai.GenerateContentConfig {
	temp := req.Temperature
	cfg := &genai.GenerateContentConfig{
		Temperature:      &temp,
		ResponseMIMEType: req.ResponseMIMEType,
	}
	if req.SystemInstruction != "" {
		cfg.SystemInstruction = genai.NewContentFromText(req.SystemInstruction, genai.RoleUser)
	}
	if req.Schema != nil {
		cfg.ResponseSchema = toSchema(req.Schema)
	}
	return cfg
}

func toSchema(s *llm.Schema) *genai.Schema {
	props := make(map[string]*genai.Schema, len(s.Properties))
	order := make([]string, 0, len(s.Properties))
	for _, p := range s.Properties {
		props[p.Name] = &genai.Schema{Type: genai.TypeString, Description: p.Description}
		order = append(order, p.Name)
	}
	return &genai.Schema{
		Type:             genai.TypeObject,
		Properties:       props,
		Required:         s.Required,
		PropertyOrdering: order,
	}
}

// classify maps genai failures: HTTP 503 or "overloaded" text is
// SERVICE_OVERLOADED, anything else TRANSPORT_FAILURE.
func classify(err error) error {
	var apiErr genai.APIError
	if stderrors.As(err, &apiErr) {
		return llm.ClassifyError(err, apiErr.Code)
	}
	var apiErrPtr *genai.APIError
	if stderrors.As(err, &apiErrPtr) {
		return llm.ClassifyError(err, apiErrPtr.Code)
	}
	return llm.ClassifyError(err, 0)
}
