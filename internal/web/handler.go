package web

import (
	"context"
	"embed"
	"html/template"
	"net/http"

	"github.com/BerylCAtieno/event-ideas-agent/internal/workflow"
	"github.com/gin-gonic/gin"
	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
	"go.uber.org/zap"
)

//go:embed templates/*.html
var templateFS embed.FS

// IdeaGenerator runs the ideation workflow for one event description.
type IdeaGenerator interface {
	Generate(ctx context.Context, description string) (string, error)
}

type Handler struct {
	generator IdeaGenerator
	log       *zap.Logger
}

type page struct {
	Description string
	Markdown    string
	HTML        template.HTML
	Failed      bool
}

func NewHandler(generator IdeaGenerator, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{generator: generator, log: log.Named("web")}
}

// Templates parses the embedded page templates for gin's SetHTMLTemplate.
func Templates() *template.Template {
	return template.Must(template.New("").ParseFS(templateFS, "templates/*.html"))
}

// RegisterIndex mounts the empty form. The engine must have Templates() set.
func (h *Handler) RegisterIndex(r gin.IRoutes) {
	r.GET("/", h.Index)
}

// RegisterSubmit mounts the form submission, usually on a group carrying the
// timeout and rate-limit middleware.
func (h *Handler) RegisterSubmit(r gin.IRoutes) {
	r.POST("/ideas", h.Submit)
}

func (h *Handler) Index(c *gin.Context) {
	c.HTML(http.StatusOK, "index.html", page{})
}

// Submit always renders the page with 200; failures show up as the "❌"
// message in the output box.
func (h *Handler) Submit(c *gin.Context) {
	description := c.PostForm("description")

	result, err := h.generator.Generate(c.Request.Context(), description)
	failed := err != nil
	if failed {
		h.log.Warn("workflow failed", zap.Error(err))
		result = workflow.Message(err)
	}

	c.HTML(http.StatusOK, "index.html", page{
		Description: description,
		Markdown:    result,
		HTML:        renderMarkdown(result),
		Failed:      failed,
	})
}

// renderMarkdown converts model output to HTML. Raw HTML in the input is
// dropped.
func renderMarkdown(text string) template.HTML {
	if text == "" {
		return template.HTML("")
	}

	mdParser := parser.NewWithExtensions(parser.CommonExtensions | parser.AutoHeadingIDs)
	renderer := html.NewRenderer(html.RendererOptions{
		Flags: html.CommonFlags | html.HrefTargetBlank | html.SkipHTML,
	})

	return template.HTML(markdown.ToHTML([]byte(text), mdParser, renderer))
}
