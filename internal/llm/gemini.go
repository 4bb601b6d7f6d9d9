package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
	grounded "google.golang.org/genai"
)

const (
	DefaultModel       = "gemini-2.5-flash"
	DefaultSearchModel = "gemini-2.5-flash"

	defaultTopP = 0.95
)

// Completer is plain prompt -> text completion.
type Completer interface {
	Complete(ctx context.Context, prompt string, temperature float32, maxTokens int32) (string, error)
}

// SearchCompleter is completion grounded with a web search tool.
type SearchCompleter interface {
	CompleteWithSearch(ctx context.Context, prompt string) (string, error)
}

// Client is the full text-generation boundary.
type Client interface {
	Completer
	SearchCompleter
}

type Config struct {
	APIKey      string
	Model       string
	SearchModel string
}

// GeminiClient talks to Gemini through two SDKs: the generative-ai-go client for
// plain completions and the genai client for Google Search grounding, which the
// older SDK does not expose.
type GeminiClient struct {
	client      *genai.Client
	search      *grounded.Client
	model       string
	searchModel string
}

func NewGeminiClient(ctx context.Context, cfg Config) (*GeminiClient, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("gemini API key is required")
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.SearchModel == "" {
		cfg.SearchModel = DefaultSearchModel
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.APIKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	search, err := grounded.NewClient(ctx, &grounded.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: grounded.BackendGeminiAPI,
	})
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to create Gemini search client: %w", err)
	}

	return &GeminiClient{
		client:      client,
		search:      search,
		model:       cfg.Model,
		searchModel: cfg.SearchModel,
	}, nil
}

func (g *GeminiClient) Close() {
	g.client.Close()
}

// Complete sends one prompt with the given sampling settings. A fresh model
// handle is used per call so concurrent requests never share settings.
func (g *GeminiClient) Complete(ctx context.Context, prompt string, temperature float32, maxTokens int32) (string, error) {
	model := g.client.GenerativeModel(g.model)
	model.SetTemperature(temperature)
	model.SetTopP(defaultTopP)
	model.SetMaxOutputTokens(maxTokens)

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", &GenerationError{Op: OpComplete, Model: g.model, Err: err}
	}

	text, err := responseText(resp)
	if err != nil {
		return "", &GenerationError{Op: OpComplete, Model: g.model, Err: err}
	}
	return text, nil
}

// CompleteWithSearch runs the prompt with the Google Search tool enabled.
func (g *GeminiClient) CompleteWithSearch(ctx context.Context, prompt string) (string, error) {
	resp, err := g.search.Models.GenerateContent(ctx, g.searchModel, grounded.Text(prompt), &grounded.GenerateContentConfig{
		Tools: []*grounded.Tool{{GoogleSearch: &grounded.GoogleSearch{}}},
	})
	if err != nil {
		return "", &GenerationError{Op: OpSearch, Model: g.searchModel, Err: err}
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", &GenerationError{Op: OpSearch, Model: g.searchModel, Err: ErrEmptyResponse}
	}
	return text, nil
}

func responseText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return "", ErrNoCandidates
	}
	content := resp.Candidates[0].Content
	if content == nil || len(content.Parts) == 0 {
		return "", ErrNoCandidates
	}

	var b strings.Builder
	for _, part := range content.Parts {
		if t, ok := part.(genai.Text); ok {
			b.WriteString(string(t))
		}
	}

	text := strings.TrimSpace(b.String())
	if text == "" {
		return "", ErrEmptyResponse
	}
	return text, nil
}
