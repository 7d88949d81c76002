// Package landingeditor backs the admin page editor. Operators edit the
// section list as raw text; the editor checks that it parses before anything
// is written and otherwise forwards the whole form to the repository.
package landingeditor

import (
	"context"
	"errors"
	"fmt"

	landingpagestore "github.com/dalemusser/stratacourse/internal/app/store/landingpages"
	"github.com/dalemusser/stratacourse/internal/app/system/normalize"
	"github.com/dalemusser/stratacourse/internal/domain/models"
	"github.com/dalemusser/stratacourse/internal/domain/sections"
)

// MaxSectionsLength bounds the section text accepted from the editor.
const MaxSectionsLength = 200_000

const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// ErrValidation is the sentinel behind every rejected form.
var ErrValidation = errors.New("validation failed")

// ValidationError names the rejected field and why.
type ValidationError struct {
	Field string
	Err   error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %v", e.Field, e.Err)
}

func (e *ValidationError) Unwrap() []error { return []error{ErrValidation, e.Err} }

// Form is the editor's view of a page. Sections holds the raw text.
type Form struct {
	ID          string
	Title       string
	Slug        string
	Description string
	IsActive    bool
	Sections    string
	Format      string
}

// Editor loads and submits editor forms.
type Editor struct {
	repo landingpagestore.Repository
}

// New creates an editor over repo.
func New(repo landingpagestore.Repository) *Editor {
	return &Editor{repo: repo}
}

// NewForm returns a blank form pre-filled with the starter section list.
func (e *Editor) NewForm() Form {
	text, err := DefaultSections().Indent()
	if err != nil {
		text = "[]"
	}
	return Form{IsActive: true, Sections: text, Format: FormatJSON}
}

// Load returns the form for an existing page, sections as indented JSON.
func (e *Editor) Load(ctx context.Context, id string) (Form, error) {
	page, err := e.repo.GetByID(ctx, id)
	if err != nil {
		return Form{}, err
	}
	return FormFromPage(page)
}

// FormFromPage converts a page to its editor form.
func FormFromPage(page models.LandingPage) (Form, error) {
	text, err := page.Sections.Indent()
	if err != nil {
		return Form{}, err
	}
	return Form{
		ID:          page.ID,
		Title:       page.Title,
		Slug:        page.Slug,
		Description: page.Description,
		IsActive:    page.IsActive,
		Sections:    text,
		Format:      FormatJSON,
	}, nil
}

// ParseSections checks the section text of f. It does not look at section
// types or fields beyond the shallow schema.
func ParseSections(f Form) (sections.List, error) {
	if len(f.Sections) > MaxSectionsLength {
		return nil, &ValidationError{
			Field: "sections",
			Err:   fmt.Errorf("section text exceeds %d bytes", MaxSectionsLength),
		}
	}

	var (
		list sections.List
		err  error
	)
	switch normalize.Format(f.Format) {
	case "", FormatJSON:
		list, err = sections.Parse([]byte(f.Sections))
	case FormatYAML:
		list, err = sections.ParseYAML([]byte(f.Sections))
	default:
		return nil, &ValidationError{Field: "format", Err: fmt.Errorf("unsupported format %q", f.Format)}
	}
	if err != nil {
		return nil, &ValidationError{Field: "sections", Err: err}
	}
	return list, nil
}

// Submit validates the section text and saves the form. An empty ID creates a
// page; otherwise every field of the existing page is replaced. A form that
// fails validation never reaches the repository.
func (e *Editor) Submit(ctx context.Context, f Form) (models.LandingPage, error) {
	list, err := ParseSections(f)
	if err != nil {
		return models.LandingPage{}, err
	}

	active := f.IsActive
	if f.ID == "" {
		return e.repo.Create(ctx, landingpagestore.CreateInput{
			Slug:        f.Slug,
			Title:       f.Title,
			Description: f.Description,
			IsActive:    &active,
			Sections:    list,
		})
	}
	return e.repo.Update(ctx, f.ID, landingpagestore.UpdateInput{
		Slug:        &f.Slug,
		Title:       &f.Title,
		Description: &f.Description,
		IsActive:    &active,
		Sections:    &list,
	})
}
