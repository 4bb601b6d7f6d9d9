package ideas

import (
	"context"
	"errors"
	"testing"

	"github.com/BerylCAtieno/event-ideas-agent/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCompleter struct {
	reply       string
	err         error
	calls       int
	prompt      string
	temperature float32
	maxTokens   int32
}

func (f *fakeCompleter) Complete(_ context.Context, prompt string, temperature float32, maxTokens int32) (string, error) {
	f.calls++
	f.prompt = prompt
	f.temperature = temperature
	f.maxTokens = maxTokens
	return f.reply, f.err
}

func sampleRequest() models.IdeaRequest {
	return models.IdeaRequest{
		Paragraph: "A product launch for a sports drink",
		Products: []models.Product{
			{Name: "AI Photo Booth", Description: "Turns guests into artwork."},
			{Name: "Smart Vending", Description: "Dispenses gifts."},
			{Name: "Audio Booth", Description: "Records messages."},
			{Name: "Sticker Station", Description: "Prints stickers."},
		},
		Links: []models.InspirationLink{
			{Title: "Launch ideas", URL: "https://example.com/launch"},
		},
		Keywords:  []string{"hydration", "sports fans"},
		IdeaCount: 6,
	}
}

func TestBuildPrompt(t *testing.T) {
	prompt := BuildPrompt(sampleRequest())

	assert.Contains(t, prompt, "descriptions of 4 randomly selected iboothme products")
	assert.Contains(t, prompt, "**AI Photo Booth**\nTurns guests into artwork.")
	assert.Contains(t, prompt, "**Sticker Station**\nPrints stickers.")
	assert.Contains(t, prompt, "generate 6 unique and diverse")
	assert.Contains(t, prompt, "A product launch for a sports drink")
	assert.Contains(t, prompt, "- Launch ideas: https://example.com/launch")
	assert.Contains(t, prompt, "Studio Ghibli-inspired visuals")
	assert.Contains(t, prompt, "Personalized giveaways")
	assert.Contains(t, prompt, "Avoid AR, VR, holograms, or projection domes")
	assert.Contains(t, prompt, "second paragraph describing the user journey")
	assert.NotContains(t, prompt, gameInstruction)
}

func TestBuildPrompt_GameKeywordAddsInstruction(t *testing.T) {
	req := sampleRequest()
	req.Keywords = []string{"hydration", "quiz games"}

	assert.Contains(t, BuildPrompt(req), gameInstruction)
}

func TestWantsGames(t *testing.T) {
	assert.True(t, WantsGames([]string{"game show"}))
	assert.False(t, WantsGames([]string{"gamified vending"}))
	assert.True(t, WantsGames([]string{"a", "mini game zone"}))
	assert.False(t, WantsGames([]string{"photo booths", "storytelling"}))
	assert.False(t, WantsGames(nil))
}

func TestGenerate(t *testing.T) {
	fake := &fakeCompleter{reply: "### 1. Splash Quest\nConcept.\n\nJourney."}
	g := NewGenerator(fake)

	got, err := g.Generate(context.Background(), sampleRequest())
	require.NoError(t, err)

	assert.Equal(t, "### 1. Splash Quest\nConcept.\n\nJourney.", got)
	assert.Equal(t, float32(0.95), fake.temperature)
	assert.Equal(t, int32(1500), fake.maxTokens)
}

func TestGenerate_Errors(t *testing.T) {
	upstream := errors.New("timeout")
	g := NewGenerator(&fakeCompleter{err: upstream})

	_, err := g.Generate(context.Background(), sampleRequest())
	assert.ErrorIs(t, err, upstream)

	fake := &fakeCompleter{}
	req := sampleRequest()
	req.IdeaCount = 0
	_, err = NewGenerator(fake).Generate(context.Background(), req)
	assert.Error(t, err)
	assert.Zero(t, fake.calls)
}
