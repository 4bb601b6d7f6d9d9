package workflow

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strings"
	"sync"
	"time"

	"github.com/BerylCAtieno/event-ideas-agent/internal/catalog"
	"github.com/BerylCAtieno/event-ideas-agent/internal/ideas"
	"github.com/BerylCAtieno/event-ideas-agent/internal/inspiration"
	"github.com/BerylCAtieno/event-ideas-agent/internal/keywords"
	"github.com/BerylCAtieno/event-ideas-agent/internal/llm"
	"github.com/BerylCAtieno/event-ideas-agent/internal/models"
	"github.com/BerylCAtieno/event-ideas-agent/internal/observability"
	"github.com/BerylCAtieno/event-ideas-agent/internal/summary"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	ProductSampleSize = 4
	MaxSummaries      = 10

	DefaultLinkConcurrency = 4

	summaryHeader = "🌐 **Relevant Keywords Summary:**  "
)

// Orchestrator runs the ideation workflow. The catalog and clients are shared
// read-only between requests; only the random source needs a lock.
type Orchestrator struct {
	catalog    *catalog.Catalog
	extractor  *keywords.Extractor
	search     *inspiration.Searcher
	ideas      *ideas.Generator
	summarizer *summary.Summarizer

	rngMu sync.Mutex
	rng   *rand.Rand

	linkConcurrency int
	metrics         *observability.Metrics
	log             *zap.Logger
}

type Option func(*Orchestrator)

// WithSeed makes product sampling and idea counts repeatable.
func WithSeed(seed uint64) Option {
	return func(o *Orchestrator) {
		o.rng = rand.New(rand.NewPCG(seed, seed))
	}
}

// WithLinkConcurrency bounds parallel keyword extraction over inspiration
// links. 1 runs them one after another.
func WithLinkConcurrency(n int) Option {
	return func(o *Orchestrator) {
		if n > 0 {
			o.linkConcurrency = n
		}
	}
}

func WithMetrics(m *observability.Metrics) Option {
	return func(o *Orchestrator) {
		o.metrics = m
	}
}

func WithLogger(l *zap.Logger) Option {
	return func(o *Orchestrator) {
		if l != nil {
			o.log = l
		}
	}
}

func New(cat *catalog.Catalog, client llm.Client, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		catalog:         cat,
		rng:             rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), rand.Uint64())),
		linkConcurrency: DefaultLinkConcurrency,
		log:             zap.NewNop(),
	}
	for _, opt := range opts {
		opt(o)
	}

	o.log = o.log.Named("workflow")
	o.extractor = keywords.NewExtractor(client)
	o.search = inspiration.NewSearcher(client, o.log)
	o.ideas = ideas.NewGenerator(client)
	o.summarizer = summary.NewSummarizer(client, o.log)

	return o
}

// Respond runs the workflow and always returns displayable markdown: either
// the result or a user-facing error message.
func (o *Orchestrator) Respond(ctx context.Context, paragraph string) string {
	out, err := o.Generate(ctx, paragraph)
	if err != nil {
		return Message(err)
	}
	return out
}

// Generate runs every stage for one event description and assembles the
// markdown document.
func (o *Orchestrator) Generate(ctx context.Context, paragraph string) (string, error) {
	log := o.log.With(zap.String("request_id", uuid.NewString()))

	if strings.TrimSpace(paragraph) == "" {
		log.Info("no event description provided")
		return "", ErrEmptyDescription
	}

	start := time.Now()
	log.Info("workflow started", zap.String("paragraph", paragraph))

	out, err := o.run(ctx, log, paragraph)
	if err != nil {
		o.metrics.RecordWorkflow(time.Since(start), observability.OutcomeFailed)
		return "", err
	}

	o.metrics.RecordWorkflow(time.Since(start), observability.OutcomeOK)
	log.Info("workflow completed", zap.Duration("elapsed", time.Since(start)))
	return out, nil
}

func (o *Orchestrator) run(ctx context.Context, log *zap.Logger, paragraph string) (string, error) {
	products, err := o.sample()
	if err != nil {
		return "", o.fail(log, StageSampling, err)
	}
	o.metrics.RecordStage(StageSampling, observability.OutcomeOK)
	log.Info("selected products", zap.Strings("products", productNames(products)))

	links, allKeywords, err := o.enrich(ctx, log, paragraph)
	if err != nil {
		return "", o.fail(log, StageEnrichment, err)
	}

	ideaCount := o.ideaCount()
	log.Info("generating ideas", zap.Int("idea_count", ideaCount))
	ideasMD, err := o.ideas.Generate(ctx, models.IdeaRequest{
		Paragraph: paragraph,
		Products:  products,
		Links:     links,
		Keywords:  allKeywords,
		IdeaCount: ideaCount,
	})
	if err != nil {
		return "", o.fail(log, StageIdeas, err)
	}
	o.metrics.RecordStage(StageIdeas, observability.OutcomeOK)

	top := allKeywords
	if len(top) > MaxSummaries {
		top = top[:MaxSummaries]
	}
	bullets, failed := o.summarizer.SummarizeAll(ctx, top)
	if failed > 0 {
		o.metrics.RecordStage(StageSummarization, observability.OutcomeDegraded)
		log.Warn("some keyword summaries degraded", zap.Int("failed", failed), zap.Int("total", len(top)))
	} else {
		o.metrics.RecordStage(StageSummarization, observability.OutcomeOK)
	}

	return Assemble(bullets, ideasMD), nil
}

// enrich gathers base keywords, inspiration links and per-link keywords.
// Only the search itself is allowed to fail quietly.
func (o *Orchestrator) enrich(ctx context.Context, log *zap.Logger, paragraph string) ([]models.InspirationLink, []models.Keyword, error) {
	base, err := o.extractor.ExtractFromParagraph(ctx, paragraph)
	if err != nil {
		return nil, nil, fmt.Errorf("extract keywords from description: %w", err)
	}
	log.Info("extracted base keywords", zap.Strings("keywords", base))

	links := o.search.SearchFor(ctx, base)
	log.Info("found inspiration links", zap.Int("count", len(links)))

	perLink, err := o.extractPerLink(ctx, links)
	if err != nil {
		return nil, nil, err
	}

	all := keywords.Merge(append([][]models.Keyword{base}, perLink...)...)
	log.Info("merged keywords", zap.Strings("keywords", all))

	outcome := observability.OutcomeOK
	if len(links) == 0 {
		outcome = observability.OutcomeDegraded
	}
	o.metrics.RecordStage(StageEnrichment, outcome)

	return links, all, nil
}

// extractPerLink keeps results in link order whatever the concurrency.
func (o *Orchestrator) extractPerLink(ctx context.Context, links []models.InspirationLink) ([][]models.Keyword, error) {
	results := make([][]models.Keyword, len(links))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.linkConcurrency)
	for i, link := range links {
		g.Go(func() error {
			kws, err := o.extractor.ExtractFromTitleLink(gctx, link.Title, link.URL)
			if err != nil {
				return fmt.Errorf("extract keywords from link %s: %w", link.URL, err)
			}
			results[i] = kws
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return results, nil
}

func (o *Orchestrator) sample() ([]models.Product, error) {
	o.rngMu.Lock()
	defer o.rngMu.Unlock()
	return o.catalog.Sample(o.rng, ProductSampleSize)
}

func (o *Orchestrator) ideaCount() int {
	o.rngMu.Lock()
	defer o.rngMu.Unlock()
	return models.IdeaCounts[o.rng.IntN(len(models.IdeaCounts))]
}

func (o *Orchestrator) fail(log *zap.Logger, stage string, err error) error {
	o.metrics.RecordStage(stage, observability.OutcomeFailed)
	log.Error("workflow stage failed", zap.String("stage", stage), zap.Error(err))
	return &StageError{Stage: stage, Err: err}
}

// Assemble joins the keyword summary bullets and the idea markdown.
func Assemble(bullets []string, ideasMD string) string {
	var b strings.Builder
	b.WriteString(summaryHeader)
	b.WriteString("\n")
	b.WriteString(strings.Join(bullets, "\n"))
	b.WriteString("\n\n")
	b.WriteString(ideasMD)
	b.WriteString("\n")
	return b.String()
}

func productNames(products []models.Product) []string {
	names := make([]string, 0, len(products))
	for _, p := range products {
		names = append(names, p.Name)
	}
	return names
}
