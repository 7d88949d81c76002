// Package repotest is a conformance suite run against every landing page
// repository adapter.
package repotest

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	landingpagestore "github.com/dalemusser/stratacourse/internal/app/store/landingpages"
	"github.com/dalemusser/stratacourse/internal/domain/models"
	"github.com/dalemusser/stratacourse/internal/domain/sections"
)

// Factory returns an empty repository for one subtest.
type Factory func(t *testing.T) landingpagestore.Repository

// Run executes the suite. Each subtest gets a fresh repository from newRepo.
func Run(t *testing.T, newRepo Factory) {
	tests := []struct {
		name string
		fn   func(t *testing.T, repo landingpagestore.Repository)
	}{
		{"CreateRoundTrip", testCreateRoundTrip},
		{"CreateDefaults", testCreateDefaults},
		{"CreateNormalizesSlug", testCreateNormalizesSlug},
		{"CreateRejectsInvalid", testCreateRejectsInvalid},
		{"CreateSlugConflict", testCreateSlugConflict},
		{"GetMissing", testGetMissing},
		{"GetBySlugReturnsInactive", testGetBySlugReturnsInactive},
		{"PartialUpdateKeepsSlug", testPartialUpdateKeepsSlug},
		{"UpdateExplicitEmptyValues", testUpdateExplicitEmptyValues},
		{"UpdateSlug", testUpdateSlug},
		{"UpdateSlugConflict", testUpdateSlugConflict},
		{"UpdateRejectsInvalid", testUpdateRejectsInvalid},
		{"UpdateMissing", testUpdateMissing},
		{"Delete", testDelete},
		{"ListNewestFirst", testListNewestFirst},
		{"ListEmpty", testListEmpty},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.fn(t, newRepo(t))
		})
	}
}

func ctx(t *testing.T) context.Context {
	c, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	t.Cleanup(cancel)
	return c
}

func mustParse(t *testing.T, text string) sections.List {
	t.Helper()
	list, err := sections.Parse([]byte(text))
	require.NoError(t, err)
	return list
}

func sectionsJSON(t *testing.T, list sections.List) string {
	t.Helper()
	body, err := json.Marshal(list)
	require.NoError(t, err)
	return string(body)
}

func boolPtr(b bool) *bool                   { return &b }
func strPtr(s string) *string                { return &s }
func listPtr(l sections.List) *sections.List { return &l }

const richSections = `[
	{"id":"hero","type":"hero","title":"Summer offer","subtitle":"Learn Go","ctaText":"Join","ctaLink":"#pricing"},
	{"type":"stats","items":[{"label":"Students","value":2500},{"label":"Rating","value":"4.9"}]},
	{"type":"unknown_widget","payload":{"nested":[1,2,{"deep":true}]}},
	{"id":"c","type":"content","content":"<p>Xin chào</p>","imagePosition":"right"}
]`

func testCreateRoundTrip(t *testing.T, repo landingpagestore.Repository) {
	c := ctx(t)
	list := mustParse(t, richSections)

	created, err := repo.Create(c, landingpagestore.CreateInput{
		Slug:        "summer-offer",
		Title:       "Summer Offer",
		Description: "Discounted courses",
		IsActive:    boolPtr(true),
		Sections:    list,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.False(t, created.CreatedAt.IsZero())
	assert.Equal(t, created.CreatedAt, created.UpdatedAt)

	bySlug, err := repo.GetBySlug(c, "summer-offer")
	require.NoError(t, err)
	byID, err := repo.GetByID(c, created.ID)
	require.NoError(t, err)

	for _, page := range []models.LandingPage{bySlug, byID} {
		assert.Equal(t, created.ID, page.ID)
		assert.Equal(t, "summer-offer", page.Slug)
		assert.Equal(t, "Summer Offer", page.Title)
		assert.Equal(t, "Discounted courses", page.Description)
	}

	assert.JSONEq(t, richSections, sectionsJSON(t, bySlug.Sections))
	assert.JSONEq(t, richSections, sectionsJSON(t, byID.Sections))
	assert.Equal(t, list.Types(), byID.Sections.Types())
	assert.True(t, byID.IsActive)
	assert.True(t, created.CreatedAt.Equal(byID.CreatedAt))
}

func testCreateDefaults(t *testing.T, repo landingpagestore.Repository) {
	c := ctx(t)

	created, err := repo.Create(c, landingpagestore.CreateInput{Slug: "defaults", Title: "Defaults"})
	require.NoError(t, err)
	assert.True(t, created.IsActive, "isActive defaults to true")

	got, err := repo.GetByID(c, created.ID)
	require.NoError(t, err)
	assert.True(t, got.IsActive)
	assert.Empty(t, got.Sections)
	assert.Equal(t, "[]", sectionsJSON(t, got.Sections))

	draft, err := repo.Create(c, landingpagestore.CreateInput{Slug: "draft", Title: "Draft", IsActive: boolPtr(false)})
	require.NoError(t, err)
	assert.False(t, draft.IsActive)
}

func testCreateNormalizesSlug(t *testing.T, repo landingpagestore.Repository) {
	c := ctx(t)

	created, err := repo.Create(c, landingpagestore.CreateInput{Slug: "  Summer-Offer ", Title: " Summer "})
	require.NoError(t, err)
	assert.Equal(t, "summer-offer", created.Slug)
	assert.Equal(t, "Summer", created.Title)

	got, err := repo.GetBySlug(c, "SUMMER-OFFER")
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
}

func testCreateRejectsInvalid(t *testing.T, repo landingpagestore.Repository) {
	c := ctx(t)

	_, err := repo.Create(c, landingpagestore.CreateInput{Slug: "ok", Title: "  "})
	assert.ErrorIs(t, err, landingpagestore.ErrInvalid)

	_, err = repo.Create(c, landingpagestore.CreateInput{Slug: "", Title: "T"})
	assert.ErrorIs(t, err, landingpagestore.ErrInvalid)

	for _, slug := range []string{"has space", "bad/slug", "-leading", "trailing-", "ưu-đãi"} {
		_, err = repo.Create(c, landingpagestore.CreateInput{Slug: slug, Title: "T"})
		assert.ErrorIs(t, err, landingpagestore.ErrInvalidSlug, "slug %q", slug)
		assert.ErrorIs(t, err, landingpagestore.ErrInvalid, "slug %q", slug)
	}

	pages, err := repo.List(c)
	require.NoError(t, err)
	assert.Empty(t, pages)
}

func testCreateSlugConflict(t *testing.T, repo landingpagestore.Repository) {
	c := ctx(t)

	first, err := repo.Create(c, landingpagestore.CreateInput{Slug: "taken", Title: "First"})
	require.NoError(t, err)

	_, err = repo.Create(c, landingpagestore.CreateInput{Slug: "taken", Title: "Second"})
	require.ErrorIs(t, err, landingpagestore.ErrConflict)
	assert.Contains(t, err.Error(), "taken")

	got, err := repo.GetBySlug(c, "taken")
	require.NoError(t, err)
	assert.Equal(t, first.ID, got.ID)
	assert.Equal(t, "First", got.Title)
}

func testGetMissing(t *testing.T, repo landingpagestore.Repository) {
	c := ctx(t)

	_, err := repo.GetBySlug(c, "nope")
	require.ErrorIs(t, err, landingpagestore.ErrNotFound)
	assert.Contains(t, err.Error(), "nope")

	_, err = repo.GetByID(c, "not-an-id")
	assert.ErrorIs(t, err, landingpagestore.ErrNotFound)

	created, err := repo.Create(c, landingpagestore.CreateInput{Slug: "gone", Title: "Gone"})
	require.NoError(t, err)
	require.NoError(t, repo.Delete(c, created.ID))

	_, err = repo.GetByID(c, created.ID)
	assert.ErrorIs(t, err, landingpagestore.ErrNotFound)
	assert.False(t, errors.Is(err, landingpagestore.ErrStore))
}

func testGetBySlugReturnsInactive(t *testing.T, repo landingpagestore.Repository) {
	c := ctx(t)

	_, err := repo.Create(c, landingpagestore.CreateInput{Slug: "hidden", Title: "Hidden", IsActive: boolPtr(false)})
	require.NoError(t, err)

	got, err := repo.GetBySlug(c, "hidden")
	require.NoError(t, err)
	assert.False(t, got.IsActive)
}

func testPartialUpdateKeepsSlug(t *testing.T, repo landingpagestore.Repository) {
	c := ctx(t)

	created, err := repo.Create(c, landingpagestore.CreateInput{
		Slug:        "keep",
		Title:       "Before",
		Description: "desc",
		Sections:    mustParse(t, richSections),
	})
	require.NoError(t, err)

	time.Sleep(5 * time.Millisecond)
	updated, err := repo.Update(c, created.ID, landingpagestore.UpdateInput{Title: strPtr("After")})
	require.NoError(t, err)

	assert.Equal(t, "After", updated.Title)
	assert.Equal(t, "keep", updated.Slug)
	assert.Equal(t, "desc", updated.Description)
	assert.True(t, updated.IsActive)
	assert.JSONEq(t, richSections, sectionsJSON(t, updated.Sections))
	assert.True(t, updated.CreatedAt.Equal(created.CreatedAt))
	assert.True(t, updated.UpdatedAt.After(created.UpdatedAt), "updatedAt must advance")

	got, err := repo.GetBySlug(c, "keep")
	require.NoError(t, err)
	assert.Equal(t, "After", got.Title)
}

func testUpdateExplicitEmptyValues(t *testing.T, repo landingpagestore.Repository) {
	c := ctx(t)

	created, err := repo.Create(c, landingpagestore.CreateInput{
		Slug:        "emptied",
		Title:       "Title",
		Description: "will be cleared",
		Sections:    mustParse(t, richSections),
	})
	require.NoError(t, err)

	updated, err := repo.Update(c, created.ID, landingpagestore.UpdateInput{
		Description: strPtr(""),
		IsActive:    boolPtr(false),
		Sections:    listPtr(sections.List{}),
	})
	require.NoError(t, err)
	assert.Equal(t, "", updated.Description)
	assert.False(t, updated.IsActive)
	assert.Empty(t, updated.Sections)

	got, err := repo.GetByID(c, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "", got.Description)
	assert.False(t, got.IsActive)
	assert.Equal(t, "[]", sectionsJSON(t, got.Sections))
	assert.Equal(t, "Title", got.Title)
}

func testUpdateSlug(t *testing.T, repo landingpagestore.Repository) {
	c := ctx(t)

	created, err := repo.Create(c, landingpagestore.CreateInput{Slug: "old", Title: "T"})
	require.NoError(t, err)

	updated, err := repo.Update(c, created.ID, landingpagestore.UpdateInput{Slug: strPtr("New")})
	require.NoError(t, err)
	assert.Equal(t, "new", updated.Slug)

	_, err = repo.GetBySlug(c, "old")
	assert.ErrorIs(t, err, landingpagestore.ErrNotFound)
	got, err := repo.GetBySlug(c, "new")
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)

	// Re-saving the same slug is not a conflict with itself.
	_, err = repo.Update(c, created.ID, landingpagestore.UpdateInput{Slug: strPtr("new")})
	assert.NoError(t, err)
}

func testUpdateSlugConflict(t *testing.T, repo landingpagestore.Repository) {
	c := ctx(t)

	_, err := repo.Create(c, landingpagestore.CreateInput{Slug: "a", Title: "A"})
	require.NoError(t, err)
	b, err := repo.Create(c, landingpagestore.CreateInput{Slug: "b", Title: "B"})
	require.NoError(t, err)

	_, err = repo.Update(c, b.ID, landingpagestore.UpdateInput{Slug: strPtr("a"), Title: strPtr("B2")})
	require.ErrorIs(t, err, landingpagestore.ErrConflict)

	got, err := repo.GetByID(c, b.ID)
	require.NoError(t, err)
	assert.Equal(t, "b", got.Slug)
	assert.Equal(t, "B", got.Title)
}

func testUpdateRejectsInvalid(t *testing.T, repo landingpagestore.Repository) {
	c := ctx(t)

	created, err := repo.Create(c, landingpagestore.CreateInput{Slug: "valid", Title: "T"})
	require.NoError(t, err)

	_, err = repo.Update(c, created.ID, landingpagestore.UpdateInput{Title: strPtr(" ")})
	assert.ErrorIs(t, err, landingpagestore.ErrInvalid)

	_, err = repo.Update(c, created.ID, landingpagestore.UpdateInput{Slug: strPtr("no spaces allowed")})
	assert.ErrorIs(t, err, landingpagestore.ErrInvalidSlug)

	got, err := repo.GetByID(c, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "T", got.Title)
	assert.Equal(t, "valid", got.Slug)
}

func testUpdateMissing(t *testing.T, repo landingpagestore.Repository) {
	c := ctx(t)

	created, err := repo.Create(c, landingpagestore.CreateInput{Slug: "x", Title: "X"})
	require.NoError(t, err)
	require.NoError(t, repo.Delete(c, created.ID))

	_, err = repo.Update(c, created.ID, landingpagestore.UpdateInput{Title: strPtr("Y")})
	assert.ErrorIs(t, err, landingpagestore.ErrNotFound)

	_, err = repo.Update(c, "malformed", landingpagestore.UpdateInput{Title: strPtr("Y")})
	assert.ErrorIs(t, err, landingpagestore.ErrNotFound)
}

func testDelete(t *testing.T, repo landingpagestore.Repository) {
	c := ctx(t)

	keep, err := repo.Create(c, landingpagestore.CreateInput{Slug: "keep", Title: "Keep"})
	require.NoError(t, err)
	drop, err := repo.Create(c, landingpagestore.CreateInput{Slug: "drop", Title: "Drop"})
	require.NoError(t, err)

	require.NoError(t, repo.Delete(c, drop.ID))
	assert.ErrorIs(t, repo.Delete(c, drop.ID), landingpagestore.ErrNotFound)
	assert.ErrorIs(t, repo.Delete(c, "malformed"), landingpagestore.ErrNotFound)

	pages, err := repo.List(c)
	require.NoError(t, err)
	require.Len(t, pages, 1)
	assert.Equal(t, keep.ID, pages[0].ID)

	// The slug is free again.
	_, err = repo.Create(c, landingpagestore.CreateInput{Slug: "drop", Title: "Again"})
	assert.NoError(t, err)
}

func testListNewestFirst(t *testing.T, repo landingpagestore.Repository) {
	c := ctx(t)

	var ids []string
	for _, slug := range []string{"first", "second", "third"} {
		p, err := repo.Create(c, landingpagestore.CreateInput{Slug: slug, Title: slug, Sections: mustParse(t, `[{"type":"cta"}]`)})
		require.NoError(t, err)
		ids = append(ids, p.ID)
		time.Sleep(2 * time.Millisecond)
	}

	pages, err := repo.List(c)
	require.NoError(t, err)
	require.Len(t, pages, 3)
	assert.Equal(t, []string{ids[2], ids[1], ids[0]}, []string{pages[0].ID, pages[1].ID, pages[2].ID})
	for _, p := range pages {
		assert.Equal(t, []sections.Type{sections.TypeCTA}, p.Sections.Types())
	}
}

func testListEmpty(t *testing.T, repo landingpagestore.Repository) {
	pages, err := repo.List(ctx(t))
	require.NoError(t, err)
	assert.Empty(t, pages)
}
