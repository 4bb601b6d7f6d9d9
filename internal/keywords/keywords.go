package keywords

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/BerylCAtieno/event-ideas-agent/internal/llm"
	"github.com/BerylCAtieno/event-ideas-agent/internal/models"
)

const (
	paragraphTemperature = 0.7
	paragraphMaxTokens   = 200
	linkTemperature      = 0.6
	linkMaxTokens        = 150
)

var separators = regexp.MustCompile(`[,\n]`)

type Extractor struct {
	llm llm.Completer
}

func NewExtractor(c llm.Completer) *Extractor {
	return &Extractor{llm: c}
}

// ExtractFromParagraph asks the model for thematic keywords describing an event.
func (e *Extractor) ExtractFromParagraph(ctx context.Context, paragraph string) ([]models.Keyword, error) {
	raw, err := e.llm.Complete(ctx, paragraphPrompt(paragraph), paragraphTemperature, paragraphMaxTokens)
	if err != nil {
		return nil, err
	}
	return Parse(raw), nil
}

// ExtractFromTitleLink asks the model for keywords describing a linked page.
func (e *Extractor) ExtractFromTitleLink(ctx context.Context, title, url string) ([]models.Keyword, error) {
	raw, err := e.llm.Complete(ctx, titleLinkPrompt(title, url), linkTemperature, linkMaxTokens)
	if err != nil {
		return nil, err
	}
	return Parse(raw), nil
}

// Parse splits a model answer on commas and newlines. Tokens are trimmed and
// lower-cased; empty ones are dropped. The count is not checked.
func Parse(raw string) []models.Keyword {
	var out []models.Keyword
	for _, tok := range separators.Split(raw, -1) {
		tok = strings.ToLower(strings.TrimSpace(tok))
		if tok != "" {
			out = append(out, tok)
		}
	}
	return out
}

// Merge unions keyword lists and returns them sorted lexically.
func Merge(lists ...[]models.Keyword) []models.Keyword {
	set := make(map[models.Keyword]struct{})
	for _, list := range lists {
		for _, kw := range list {
			set[kw] = struct{}{}
		}
	}

	out := make([]models.Keyword, 0, len(set))
	for kw := range set {
		out = append(out, kw)
	}
	sort.Strings(out)
	return out
}

func paragraphPrompt(paragraph string) string {
	return fmt.Sprintf(`You are an expert in experiential event planning.

Extract 5-10 short, specific, and thematic keywords or concepts from the event description below. These will be used to inspire immersive, tech-powered event ideas.

Each keyword should be 2-4 words long and describe a concrete idea or theme (e.g., "photo booths", "smart vending", "interactive storytelling").

Event Description:
"%s"

Return the keywords as a comma-separated list.`, paragraph)
}

func titleLinkPrompt(title, url string) string {
	return fmt.Sprintf(`You are an expert in event innovation.

Given the title and link below, extract 3-5 short, specific, and meaningful keywords or themes (2-4 words each) that describe what the page is about.

Title: %s
Link: %s

Return the keywords as a comma-separated list.`, title, url)
}
