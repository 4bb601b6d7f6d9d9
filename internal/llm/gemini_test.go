package llm

import (
	"context"
	"errors"
	"testing"

	"github.com/google/generative-ai-go/genai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResponseText(t *testing.T) {
	resp := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Parts: []genai.Part{genai.Text("photo booths, "), genai.Text("smart vending\n")}},
		}},
	}

	text, err := responseText(resp)
	require.NoError(t, err)
	assert.Equal(t, "photo booths, smart vending", text)
}

func TestResponseText_Faults(t *testing.T) {
	tests := []struct {
		name string
		resp *genai.GenerateContentResponse
		want error
	}{
		{"nil response", nil, ErrNoCandidates},
		{"no candidates", &genai.GenerateContentResponse{}, ErrNoCandidates},
		{"nil content", &genai.GenerateContentResponse{Candidates: []*genai.Candidate{{}}}, ErrNoCandidates},
		{"blank text", &genai.GenerateContentResponse{Candidates: []*genai.Candidate{{
			Content: &genai.Content{Parts: []genai.Part{genai.Text("   ")}},
		}}}, ErrEmptyResponse},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := responseText(tt.resp)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestGenerationError_Unwraps(t *testing.T) {
	upstream := context.DeadlineExceeded
	var err error = &GenerationError{Op: OpComplete, Model: "m", Err: upstream}

	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Contains(t, err.Error(), "complete")
	assert.Contains(t, err.Error(), "(m)")

	wrapped := errors.Join(errors.New("stage"), err)
	var genErr *GenerationError
	require.True(t, errors.As(wrapped, &genErr))
	assert.Equal(t, OpComplete, genErr.Op)
}

func TestNewGeminiClient_RequiresAPIKey(t *testing.T) {
	_, err := NewGeminiClient(context.Background(), Config{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "API key is required")
}
