// internal/app/store/landingpages/repository.go
package landingpagestore

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/dalemusser/stratacourse/internal/app/system/normalize"
	"github.com/dalemusser/stratacourse/internal/domain/models"
	"github.com/dalemusser/stratacourse/internal/domain/sections"
)

// Repository is the persistence contract for landing pages. Adapters keep the
// section list as one serialized blob; callers only ever see sections.List.
type Repository interface {
	Create(ctx context.Context, input CreateInput) (models.LandingPage, error)
	GetBySlug(ctx context.Context, slug string) (models.LandingPage, error)
	GetByID(ctx context.Context, id string) (models.LandingPage, error)
	List(ctx context.Context) ([]models.LandingPage, error)
	Update(ctx context.Context, id string, input UpdateInput) (models.LandingPage, error)
	Delete(ctx context.Context, id string) error
}

var (
	// ErrNotFound is returned when no page matches the id or slug.
	ErrNotFound = errors.New("landing page not found")
	// ErrConflict is returned when a write would duplicate a slug.
	ErrConflict = errors.New("landing page slug already in use")
	// ErrInvalid is returned when input fails validation.
	ErrInvalid = errors.New("invalid landing page")
	// ErrInvalidSlug is the ErrInvalid case for slugs.
	ErrInvalidSlug = fmt.Errorf("%w: slug must use lowercase letters, digits and hyphens", ErrInvalid)
	// ErrStore marks backend failures. Use errors.As with *StoreError for detail.
	ErrStore = errors.New("landing page store failure")
)

// StoreError wraps a backend failure with the operation and key involved.
type StoreError struct {
	Op  string
	Key string
	Err error
}

func (e *StoreError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("landing pages %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("landing pages %s %q: %v", e.Op, e.Key, e.Err)
}

func (e *StoreError) Unwrap() []error { return []error{ErrStore, e.Err} }

// NotFound wraps ErrNotFound with the key that missed.
func NotFound(key string) error {
	return fmt.Errorf("landing page %q: %w", key, ErrNotFound)
}

// Conflict wraps ErrConflict with the slug that collided.
func Conflict(slug string) error {
	return fmt.Errorf("slug %q: %w", slug, ErrConflict)
}

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

// ValidSlug reports whether s is a normalized, URL-safe slug.
func ValidSlug(s string) bool {
	return slugPattern.MatchString(s)
}

// Timestamp is the clock used for created/updated times. It is truncated to
// milliseconds so values survive every backend unchanged.
func Timestamp() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}

// CreateInput contains the input for creating a landing page.
// IsActive defaults to true when nil.
type CreateInput struct {
	Slug        string
	Title       string
	Description string
	IsActive    *bool
	Sections    sections.List
}

// Normalize trims the input and checks it, returning the page to insert
// (without ID) or an ErrInvalid error.
func (in CreateInput) Normalize(now time.Time) (models.LandingPage, error) {
	page := models.LandingPage{
		Slug:        normalize.Slug(in.Slug),
		Title:       normalize.Title(in.Title),
		Description: in.Description,
		IsActive:    true,
		Sections:    in.Sections,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if in.IsActive != nil {
		page.IsActive = *in.IsActive
	}
	if page.Sections == nil {
		page.Sections = sections.List{}
	}

	if page.Title == "" {
		return models.LandingPage{}, fmt.Errorf("%w: title is required", ErrInvalid)
	}
	if page.Slug == "" {
		return models.LandingPage{}, fmt.Errorf("%w: slug is required", ErrInvalid)
	}
	if !ValidSlug(page.Slug) {
		return models.LandingPage{}, fmt.Errorf("slug %q: %w", page.Slug, ErrInvalidSlug)
	}
	return page, nil
}

// UpdateInput contains the input for updating a landing page.
// Nil fields are left untouched; non-nil fields overwrite, including empty
// values. Sections, when set, replace the whole list.
type UpdateInput struct {
	Slug        *string
	Title       *string
	Description *string
	IsActive    *bool
	Sections    *sections.List
}

// Normalize trims the present fields and checks them.
func (in UpdateInput) Normalize() (UpdateInput, error) {
	out := in
	if in.Slug != nil {
		slug := normalize.Slug(*in.Slug)
		if !ValidSlug(slug) {
			return UpdateInput{}, fmt.Errorf("slug %q: %w", slug, ErrInvalidSlug)
		}
		out.Slug = &slug
	}
	if in.Title != nil {
		title := normalize.Title(*in.Title)
		if title == "" {
			return UpdateInput{}, fmt.Errorf("%w: title cannot be empty", ErrInvalid)
		}
		out.Title = &title
	}
	if in.Sections != nil && *in.Sections == nil {
		empty := sections.List{}
		out.Sections = &empty
	}
	return out, nil
}

// Apply copies the present fields onto page and bumps UpdatedAt.
func (in UpdateInput) Apply(page *models.LandingPage, now time.Time) {
	if in.Slug != nil {
		page.Slug = *in.Slug
	}
	if in.Title != nil {
		page.Title = *in.Title
	}
	if in.Description != nil {
		page.Description = *in.Description
	}
	if in.IsActive != nil {
		page.IsActive = *in.IsActive
	}
	if in.Sections != nil {
		page.Sections = *in.Sections
	}
	page.UpdatedAt = now
}
