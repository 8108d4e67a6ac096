// Package engine talks to the generative text backend.
package engine

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// DefaultModel is used when a request names no model.
const DefaultModel = "gemini-2.5-flash"

// ErrEmptyResponse is returned when the backend answers without any text.
var ErrEmptyResponse = errors.New("engine: no content returned from Gemini")

// Request is one completion call: a system instruction, the user content and
// the model to run it on.
type Request struct {
	Model  string
	System string
	Prompt string
}

type Engine struct {
	client *genai.Client
}

func NewEngine(ctx context.Context, apiKey string) (*Engine, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	return &Engine{client: client}, nil
}

func (e *Engine) Close() error {
	return e.client.Close()
}

// Generate sends req and returns the concatenated text of the first candidate.
func (e *Engine) Generate(ctx context.Context, req Request) (string, error) {
	name := req.Model
	if name == "" {
		name = DefaultModel
	}
	model := e.client.GenerativeModel(name)
	if req.System != "" {
		model.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(req.System)}}
	}

	resp, err := model.GenerateContent(ctx, genai.Text(req.Prompt))
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}
	return responseText(resp)
}

func responseText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return "", ErrEmptyResponse
	}
	content := resp.Candidates[0].Content
	if content == nil || len(content.Parts) == 0 {
		return "", ErrEmptyResponse
	}

	var sb strings.Builder
	for _, part := range content.Parts {
		text, ok := part.(genai.Text)
		if !ok {
			return "", fmt.Errorf("engine: unexpected response part %T from Gemini", part)
		}
		sb.WriteString(string(text))
	}
	if strings.TrimSpace(sb.String()) == "" {
		return "", ErrEmptyResponse
	}
	return sb.String(), nil
}
