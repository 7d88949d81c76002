// Package memstore is an in-memory landing page repository, used for local
// development (page_store=memory) and tests. Pages are kept in their encoded
// form so reads go through the same decode path as the database adapters.
package memstore

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	landingpagestore "github.com/dalemusser/stratacourse/internal/app/store/landingpages"
	"github.com/dalemusser/stratacourse/internal/app/system/normalize"
	"github.com/dalemusser/stratacourse/internal/domain/models"
)

type record struct {
	page     models.LandingPage // Sections left nil; see blob
	blob     string
	sequence uint64
}

// Store is a mutex-guarded map keyed by id with a slug index.
type Store struct {
	mu     sync.RWMutex
	byID   map[string]*record
	bySlug map[string]string
	seq    uint64
}

var _ landingpagestore.Repository = (*Store)(nil)

// New creates an empty store.
func New() *Store {
	return &Store{
		byID:   make(map[string]*record),
		bySlug: make(map[string]string),
	}
}

// Ping always succeeds.
func (s *Store) Ping(ctx context.Context) error {
	return ctx.Err()
}

// Create adds a new page.
func (s *Store) Create(ctx context.Context, input landingpagestore.CreateInput) (models.LandingPage, error) {
	page, err := input.Normalize(landingpagestore.Timestamp())
	if err != nil {
		return models.LandingPage{}, err
	}
	blob, err := landingpagestore.EncodeSections(page.Sections)
	if err != nil {
		return models.LandingPage{}, &landingpagestore.StoreError{Op: "create", Key: page.Slug, Err: err}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, taken := s.bySlug[page.Slug]; taken {
		return models.LandingPage{}, landingpagestore.Conflict(page.Slug)
	}

	page.ID = uuid.NewString()
	s.seq++
	s.put(&record{page: page, blob: blob, sequence: s.seq})
	return s.load(s.byID[page.ID], "create")
}

// GetBySlug returns the page with the given slug.
func (s *Store) GetBySlug(ctx context.Context, slug string) (models.LandingPage, error) {
	slug = normalize.Slug(slug)

	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.bySlug[slug]
	if !ok {
		return models.LandingPage{}, landingpagestore.NotFound(slug)
	}
	return s.load(s.byID[id], "get")
}

// GetByID returns the page with the given id.
func (s *Store) GetByID(ctx context.Context, id string) (models.LandingPage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.byID[id]
	if !ok {
		return models.LandingPage{}, landingpagestore.NotFound(id)
	}
	return s.load(rec, "get")
}

// List returns every page, newest first.
func (s *Store) List(ctx context.Context) ([]models.LandingPage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	recs := make([]*record, 0, len(s.byID))
	for _, rec := range s.byID {
		recs = append(recs, rec)
	}
	sort.Slice(recs, func(i, j int) bool {
		a, b := recs[i], recs[j]
		if !a.page.CreatedAt.Equal(b.page.CreatedAt) {
			return a.page.CreatedAt.After(b.page.CreatedAt)
		}
		return a.sequence > b.sequence
	})

	pages := make([]models.LandingPage, 0, len(recs))
	for _, rec := range recs {
		page, err := s.load(rec, "list")
		if err != nil {
			return nil, err
		}
		pages = append(pages, page)
	}
	return pages, nil
}

// Update applies a partial update.
func (s *Store) Update(ctx context.Context, id string, input landingpagestore.UpdateInput) (models.LandingPage, error) {
	input, err := input.Normalize()
	if err != nil {
		return models.LandingPage{}, err
	}

	var blob string
	if input.Sections != nil {
		if blob, err = landingpagestore.EncodeSections(*input.Sections); err != nil {
			return models.LandingPage{}, &landingpagestore.StoreError{Op: "update", Key: id, Err: err}
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.byID[id]
	if !ok {
		return models.LandingPage{}, landingpagestore.NotFound(id)
	}
	if input.Slug != nil && *input.Slug != rec.page.Slug {
		if _, taken := s.bySlug[*input.Slug]; taken {
			return models.LandingPage{}, landingpagestore.Conflict(*input.Slug)
		}
	}

	next := *rec
	input.Apply(&next.page, landingpagestore.Timestamp())
	next.page.Sections = nil
	if input.Sections != nil {
		next.blob = blob
	}

	delete(s.bySlug, rec.page.Slug)
	s.put(&next)
	return s.load(&next, "update")
}

// Delete removes a page.
func (s *Store) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.byID[id]
	if !ok {
		return landingpagestore.NotFound(id)
	}
	delete(s.bySlug, rec.page.Slug)
	delete(s.byID, id)
	return nil
}

// put indexes rec. Callers hold the write lock.
func (s *Store) put(rec *record) {
	rec.page.Sections = nil
	s.byID[rec.page.ID] = rec
	s.bySlug[rec.page.Slug] = rec.page.ID
}

func (s *Store) load(rec *record, op string) (models.LandingPage, error) {
	list, err := landingpagestore.DecodeSections(rec.blob)
	if err != nil {
		return models.LandingPage{}, &landingpagestore.StoreError{Op: op, Key: rec.page.Slug, Err: err}
	}
	page := rec.page
	page.Sections = list
	return page, nil
}
