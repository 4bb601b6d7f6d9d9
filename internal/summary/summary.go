package summary

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"github.com/BerylCAtieno/event-ideas-agent/internal/llm"
	"github.com/BerylCAtieno/event-ideas-agent/internal/models"
	"go.uber.org/zap"
)

const (
	temperature = 0.6
	maxTokens   = 60
)

type Summarizer struct {
	llm llm.Completer
	log *zap.Logger
}

func NewSummarizer(c llm.Completer, log *zap.Logger) *Summarizer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Summarizer{llm: c, log: log.Named("summary")}
}

// Summarize returns a markdown bullet describing an event idea for keyword.
// When the call fails the bullet carries only the keyword label.
func (s *Summarizer) Summarize(ctx context.Context, keyword models.Keyword) string {
	bullet, _ := s.summarize(ctx, keyword)
	return bullet
}

// SummarizeAll summarizes each keyword in order, one bullet per keyword, and
// reports how many bullets fell back to a bare label.
func (s *Summarizer) SummarizeAll(ctx context.Context, keywords []models.Keyword) ([]string, int) {
	bullets := make([]string, 0, len(keywords))
	failed := 0
	for _, kw := range keywords {
		bullet, ok := s.summarize(ctx, kw)
		if !ok {
			failed++
		}
		bullets = append(bullets, bullet)
	}
	return bullets, failed
}

func (s *Summarizer) summarize(ctx context.Context, keyword models.Keyword) (string, bool) {
	label := TitleCase(keyword)

	desc, err := s.llm.Complete(ctx, Prompt(keyword), temperature, maxTokens)
	if err != nil {
		s.log.Warn("keyword summary failed", zap.String("keyword", keyword), zap.Error(err))
		return fmt.Sprintf("- **%s**", label), false
	}

	return fmt.Sprintf("- **%s**: %s", label, strings.TrimSpace(desc)), true
}

func Prompt(keyword models.Keyword) string {
	return "Give a short one-line event idea description using the keyword: " + keyword
}

// TitleCase upper-cases the first letter of each run of letters and
// lower-cases the rest, so "3d printing" becomes "3D Printing".
func TitleCase(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	inWord := false
	for _, r := range s {
		if unicode.IsLetter(r) {
			if inWord {
				b.WriteRune(unicode.ToLower(r))
			} else {
				b.WriteRune(unicode.ToTitle(r))
			}
			inWord = true
			continue
		}
		b.WriteRune(r)
		inWord = false
	}
	return b.String()
}
