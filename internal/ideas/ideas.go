package ideas

import (
	"context"
	"fmt"
	"strings"

	"github.com/BerylCAtieno/event-ideas-agent/internal/catalog"
	"github.com/BerylCAtieno/event-ideas-agent/internal/llm"
	"github.com/BerylCAtieno/event-ideas-agent/internal/models"
)

const (
	temperature = 0.95
	maxTokens   = 1500

	gameInstruction = "Include at least two game-related ideas (e.g., quiz game, vending challenge)."
)

type Generator struct {
	llm llm.Completer
}

func NewGenerator(c llm.Completer) *Generator {
	return &Generator{llm: c}
}

// Generate requests req.IdeaCount idea write-ups. The markdown is returned as
// the model produced it.
func (g *Generator) Generate(ctx context.Context, req models.IdeaRequest) (string, error) {
	if req.IdeaCount <= 0 {
		return "", fmt.Errorf("invalid idea count %d", req.IdeaCount)
	}
	return g.llm.Complete(ctx, BuildPrompt(req), temperature, maxTokens)
}

// WantsGames reports whether any keyword mentions games.
func WantsGames(keywords []models.Keyword) bool {
	for _, kw := range keywords {
		if strings.Contains(kw, "game") {
			return true
		}
	}
	return false
}

func renderLinks(links []models.InspirationLink) string {
	lines := make([]string, 0, len(links))
	for _, l := range links {
		lines = append(lines, fmt.Sprintf("- %s: %s", l.Title, l.URL))
	}
	return strings.Join(lines, "\n")
}

func BuildPrompt(req models.IdeaRequest) string {
	extra := ""
	if WantsGames(req.Keywords) {
		extra = gameInstruction
	}

	return fmt.Sprintf(`You are an expert event strategist for iboothme, a company offering creative experiences like AI photo booths, smart vending machines, audio booths, personalization stations, and immersive visual storytelling.

Below are full descriptions of %d randomly selected iboothme products, to keep all ideas on-brand:
%s

Based on the event description below, generate %d unique and diverse iboothme-powered event ideas.
Make sure that the syntax of the brand is always "iboothme" (all lowercase).

**Event Description:**
%s

**Inspiration from Related Ideas:**
%s

💡 **Your Task:**
Create ideas that are immersive, memorable, and creatively use iboothme's photo, video, and audio-based technologies. Do not use AR, VR, projection mapping, or other tech-heavy elements.

You must include:
- At least two game-related ideas
- Studio Ghibli-inspired visuals in one idea
- Personalized giveaways (e.g., custom t-shirts, stickers, Labibu dolls)
%s

❗ Important:
- Avoid AR, VR, holograms, or projection domes
- Do not repeat photo-booth formats
- Every idea should have a creative title
- Each idea should be described in a paragraph
- Immediately after, write a second paragraph describing the user journey flow

Return **only** the final ideas in markdown format.`,
		len(req.Products), catalog.Describe(req.Products), req.IdeaCount, req.Paragraph, renderLinks(req.Links), extra)
}
