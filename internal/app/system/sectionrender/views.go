package sectionrender

import (
	"fmt"
	"html/template"

	"github.com/dalemusser/stratacourse/internal/app/system/htmlsanitize"
	"github.com/dalemusser/stratacourse/internal/domain/sections"
)

// View models hold template-ready values: links already passed through
// htmlsanitize.SafeURL, author HTML sanitized and defaults applied.

type heroView struct {
	Title     string
	Subtitle  string
	Highlight string
	CTAText   string
	CTALink   string
	Image     string
}

type ctaView struct {
	Title    string
	Subtitle string
	CTAText  string
	CTALink  string
}

type contentView struct {
	Title         string
	Body          template.HTML
	Image         string
	ImagePosition string
}

type quoteView struct {
	Name    string
	Role    string
	Content string
	Avatar  string
	Rating  string
}

type testimonialsView struct {
	Title    string
	Subtitle string
	Quotes   []quoteView
}

type stepView struct {
	Number      string
	Title       string
	Description string
}

type processView struct {
	Title    string
	Subtitle string
	Steps    []stepView
}

type projectView struct {
	Title       string
	Student     string
	Description string
	Image       string
	Link        string
}

type projectsView struct {
	Title    string
	Subtitle string
	Projects []projectView
}

type moduleView struct {
	Number      int
	Title       string
	Description string
	Lessons     []string
}

type curriculumView struct {
	Title    string
	Subtitle string
	Modules  []moduleView
}

func ctaText(text string) string {
	if text == "" {
		return DefaultCTAText
	}
	return text
}

func newHeroView(v sections.Hero) heroView {
	return heroView{
		Title:     v.Title,
		Subtitle:  v.Subtitle,
		Highlight: v.Highlight,
		CTAText:   ctaText(v.CTAText),
		CTALink:   htmlsanitize.SafeURL(v.CTALink),
		Image:     htmlsanitize.SafeURL(v.Image),
	}
}

func newCTAView(v sections.CTA) ctaView {
	return ctaView{
		Title:    v.Title,
		Subtitle: v.Subtitle,
		CTAText:  ctaText(v.CTAText),
		CTALink:  htmlsanitize.SafeURL(v.CTALink),
	}
}

func newContentView(v sections.Content) contentView {
	pos := v.ImagePosition
	if pos != "left" {
		pos = "right"
	}
	return contentView{
		Title:         v.Title,
		Body:          htmlsanitize.PrepareForDisplay(v.Content),
		Image:         htmlsanitize.SafeURL(v.Image),
		ImagePosition: pos,
	}
}

func newTestimonialsView(v sections.Testimonials) testimonialsView {
	out := testimonialsView{Title: v.Title, Subtitle: v.Subtitle}
	for _, t := range v.Items {
		out.Quotes = append(out.Quotes, quoteView{
			Name:    t.Name,
			Role:    t.Role,
			Content: t.Content,
			Avatar:  htmlsanitize.SafeURL(t.Avatar),
			Rating:  t.Rating.String(),
		})
	}
	return out
}

func newProcessView(v sections.Process) processView {
	out := processView{Title: v.Title, Subtitle: v.Subtitle}
	for i, s := range v.Items {
		out.Steps = append(out.Steps, stepView{
			Number:      fmt.Sprintf("%02d", i+1),
			Title:       s.Title,
			Description: s.Description,
		})
	}
	return out
}

func newProjectsView(v sections.StudentProjects) projectsView {
	out := projectsView{Title: v.Title, Subtitle: v.Subtitle}
	for _, p := range v.Items {
		out.Projects = append(out.Projects, projectView{
			Title:       p.Title,
			Student:     p.Student,
			Description: p.Description,
			Image:       htmlsanitize.SafeURL(p.Image),
			Link:        htmlsanitize.SafeURL(p.Link),
		})
	}
	return out
}

func newCurriculumView(v sections.Curriculum) curriculumView {
	v = withCurriculumDefaults(v)
	out := curriculumView{Title: v.Title, Subtitle: v.Subtitle}
	for i, m := range v.Items {
		out.Modules = append(out.Modules, moduleView{
			Number:      i + 1,
			Title:       m.Title,
			Description: m.Description,
			Lessons:     m.Lessons,
		})
	}
	return out
}
