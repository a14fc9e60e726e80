package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

const (
	defaultModel           = "gemini-2.5-flash"
	defaultTemperature     = 0.2
	defaultMaxOutputTokens = 2048
)

// modelsAPI is the subset of genai.Models used by the generator.
type modelsAPI interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// Options tune generation.
type Options struct {
	Model           string
	Temperature     float32
	MaxOutputTokens int32
}

// Request is a single prompt sent to the model.
type Request struct {
	System string
	Prompt string
	// JSON asks the model for an application/json response.
	JSON bool
}

// Generator wraps the Google GenAI client to provide simple prompt-based interactions.
type Generator struct {
	models          modelsAPI
	modelName       string
	temperature     float32
	maxOutputTokens int32
}

// NewGenerator creates a new Generator configured for the Gemini API backend.
func NewGenerator(ctx context.Context, apiKey string, opts Options) (*Generator, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("gemini api key is required")
	}

	cfg := &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}

	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	return newGenerator(client.Models, opts), nil
}

func newGenerator(models modelsAPI, opts Options) *Generator {
	g := &Generator{
		models:          models,
		modelName:       strings.TrimSpace(opts.Model),
		temperature:     opts.Temperature,
		maxOutputTokens: opts.MaxOutputTokens,
	}
	if g.modelName == "" {
		g.modelName = defaultModel
	}
	if g.temperature <= 0 {
		g.temperature = defaultTemperature
	}
	if g.maxOutputTokens <= 0 {
		g.maxOutputTokens = defaultMaxOutputTokens
	}
	return g
}

// GenerateContent sends the request to Gemini once and returns the concatenated text parts.
func (g *Generator) GenerateContent(ctx context.Context, req Request) (string, error) {
	if g == nil || g.models == nil {
		return "", errors.New("gemini generator is not initialized")
	}

	prompt := strings.TrimSpace(req.Prompt)
	if prompt == "" {
		return "", errors.New("prompt must not be empty")
	}

	temperature := g.temperature
	config := &genai.GenerateContentConfig{
		Temperature:     &temperature,
		MaxOutputTokens: g.maxOutputTokens,
	}
	if system := strings.TrimSpace(req.System); system != "" {
		config.SystemInstruction = &genai.Content{Parts: []*genai.Part{{Text: system}}}
	}
	if req.JSON {
		config.ResponseMIMEType = "application/json"
	}

	resp, err := g.models.GenerateContent(ctx, g.modelName, genai.Text(prompt), config)
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}
	if resp == nil {
		return "", errors.New("gemini api returned no response")
	}

	var builder strings.Builder
	for _, candidate := range resp.Candidates {
		if candidate == nil || candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part == nil {
				continue
			}
			text := strings.TrimSpace(part.Text)
			if text == "" {
				continue
			}
			if builder.Len() > 0 {
				builder.WriteString("\n")
			}
			builder.WriteString(text)
		}
	}

	output := strings.TrimSpace(builder.String())
	if output == "" {
		return "", errors.New("gemini api returned empty response")
	}

	return output, nil
}

func (g *Generator) Model() string {
	if g == nil {
		return ""
	}
	return g.modelName
}
