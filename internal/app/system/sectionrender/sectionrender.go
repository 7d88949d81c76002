// Package sectionrender turns a landing page's section list into HTML.
//
// Each known section type has one strategy: a template plus the defaults it
// applies. Dispatch is a type switch over the closed sections.Variant set, so
// a new variant without a strategy falls into the default arm and is logged.
// A section that cannot be rendered is skipped; the rest of the page renders.
package sectionrender

import (
	"bytes"
	"context"
	"errors"
	"html/template"
	"net/http"
	"strings"

	"github.com/dalemusser/stratacourse/internal/domain/models"
	"github.com/dalemusser/stratacourse/internal/domain/sections"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.uber.org/zap"
)

// DefaultCTAText is the button label used when a section has a link but no text.
const DefaultCTAText = "Bắt đầu ngay"

var (
	errUnknownType = errors.New("unknown section type")
	errNothing     = errors.New("nothing to render")
)

// Block is one rendered section.
type Block struct {
	Key  string
	Type sections.Type
	HTML template.HTML
}

// Renderer renders sections and full pages through the "sections" template
// set. It is safe for concurrent use.
type Renderer struct {
	logger *zap.Logger
}

// New creates a renderer.
func New(logger *zap.Logger) *Renderer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Renderer{logger: logger}
}

// blockWriter captures one snippet so a failed section can be dropped
// without touching the page response.
type blockWriter struct {
	header http.Header
	status int
	buf    bytes.Buffer
}

func (b *blockWriter) Header() http.Header {
	if b.header == nil {
		b.header = make(http.Header)
	}
	return b.header
}

func (b *blockWriter) Write(p []byte) (int, error) { return b.buf.Write(p) }

func (b *blockWriter) WriteHeader(status int) { b.status = status }

func (b *blockWriter) failed() bool {
	return b.status >= http.StatusBadRequest || strings.TrimSpace(b.buf.String()) == ""
}

// Render renders sections in order. Sections with an unknown type, a payload
// of the wrong shape, or a failing template are skipped and logged.
func (r *Renderer) Render(ctx context.Context, list sections.List) []Block {
	blocks := make([]Block, 0, len(list))
	for i, s := range list {
		if ctx.Err() != nil {
			break
		}

		v, err := s.Variant()
		if err != nil {
			r.skip("invalid section payload", i, s, err)
			continue
		}

		name, data, err := strategy(v)
		switch {
		case errors.Is(err, errUnknownType):
			r.skip("unknown section type", i, s, nil)
			continue
		case errors.Is(err, errNothing):
			continue
		}

		var out blockWriter
		templates.RenderSnippet(&out, name, data)
		if out.failed() {
			r.skip("section render failed", i, s, nil, zap.Int("status", out.status))
			continue
		}
		blocks = append(blocks, Block{
			Key:  s.Key(i),
			Type: s.Type.Canonical(),
			HTML: template.HTML(out.buf.String()),
		})
	}
	return blocks
}

func (r *Renderer) skip(msg string, index int, s sections.Section, err error, extra ...zap.Field) {
	fields := []zap.Field{
		zap.Int("index", index),
		zap.String("id", s.ID),
		zap.String("type", string(s.Type)),
	}
	if err != nil {
		fields = append(fields, zap.Error(err))
	}
	fields = append(fields, extra...)
	r.logger.Warn(msg, fields...)
}

// strategy selects the template and view data for a variant.
func strategy(v sections.Variant) (string, any, error) {
	switch v := v.(type) {
	case sections.Hero:
		return "sections/hero", newHeroView(v), nil
	case sections.Stats:
		return "sections/stats", v, nil
	case sections.Benefits:
		return "sections/benefits", v, nil
	case sections.Testimonials:
		return "sections/testimonials", newTestimonialsView(v), nil
	case sections.Content:
		return "sections/content", newContentView(v), nil
	case sections.CTA:
		return "sections/cta", newCTAView(v), nil
	case sections.Comparison:
		return "sections/comparison", v, nil
	case sections.Process:
		// Absent items hide the section; an explicit empty list renders the heading.
		if v.Items == nil {
			return "", nil, errNothing
		}
		return "sections/process", newProcessView(v), nil
	case sections.StudentProjects:
		return "sections/studentProjects", newProjectsView(v), nil
	case sections.Curriculum:
		return "sections/curriculum", newCurriculumView(v), nil
	case sections.Unknown:
		return "", nil, errUnknownType
	default:
		return "", nil, errUnknownType
	}
}

// pageView is the data for the "sections/page" template.
type pageView struct {
	Title       string
	Description string
	Blocks      []Block
	EditURL     string
}

// RenderPage writes the full HTML document for page. editURL, when set, adds
// an edit link for signed-in admins. The caller sets status and headers.
func (r *Renderer) RenderPage(w http.ResponseWriter, req *http.Request, page models.LandingPage, blocks []Block, editURL string) {
	templates.Render(w, req, "sections/page", pageView{
		Title:       page.Title,
		Description: page.MetaDescription(),
		Blocks:      blocks,
		EditURL:     editURL,
	})
}

// RenderNotFound writes the public not-found document.
func (r *Renderer) RenderNotFound(w http.ResponseWriter, req *http.Request) {
	templates.Render(w, req, "sections/not_found", struct{ Title string }{Title: "Không tìm thấy trang"})
}
