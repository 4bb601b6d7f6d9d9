package inspiration

import (
	"context"
	"fmt"
	"strings"

	"github.com/BerylCAtieno/event-ideas-agent/internal/llm"
	"github.com/BerylCAtieno/event-ideas-agent/internal/models"
	"go.uber.org/zap"
)

// MaxLinks caps the links kept from one search.
const MaxLinks = 10

const separator = " - "

type Searcher struct {
	llm llm.SearchCompleter
	log *zap.Logger
}

func NewSearcher(c llm.SearchCompleter, log *zap.Logger) *Searcher {
	if log == nil {
		log = zap.NewNop()
	}
	return &Searcher{llm: c, log: log.Named("inspiration")}
}

// SearchFor asks the search-grounded model for inspiration URLs. It is best
// effort: any failure is logged and yields no links.
func (s *Searcher) SearchFor(ctx context.Context, keywords []models.Keyword) []models.InspirationLink {
	raw, err := s.llm.CompleteWithSearch(ctx, Prompt(keywords))
	if err != nil {
		s.log.Warn("inspiration search failed, continuing without links",
			zap.Strings("keywords", keywords),
			zap.Error(err),
		)
		return []models.InspirationLink{}
	}

	links := ParseLinks(raw)
	if len(links) == 0 {
		s.log.Warn("inspiration search returned no links", zap.Int("response_bytes", len(raw)))
	}
	return links
}

func Prompt(keywords []models.Keyword) string {
	return fmt.Sprintf("Generate 10 useful URLs for experiential event ideas or iboothme.com inspiration related to the keywords: %s",
		strings.Join(keywords, ", "))
}

// ParseLinks keeps lines mentioning "http". "Title - url" lines are split on
// the first separator; any other line is used as both title and url.
func ParseLinks(text string) []models.InspirationLink {
	links := []models.InspirationLink{}
	for _, line := range strings.Split(text, "\n") {
		if !strings.Contains(line, "http") {
			continue
		}

		if title, url, ok := strings.Cut(line, separator); ok {
			links = append(links, models.InspirationLink{
				Title: strings.TrimSpace(title),
				URL:   strings.TrimSpace(url),
			})
		} else {
			url := strings.TrimSpace(line)
			links = append(links, models.InspirationLink{Title: url, URL: url})
		}

		if len(links) == MaxLinks {
			break
		}
	}
	return links
}
