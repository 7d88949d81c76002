package seeding

import (
	"context"
	"testing"

	landingpagestore "github.com/dalemusser/stratacourse/internal/app/store/landingpages"
	"github.com/dalemusser/stratacourse/internal/app/store/landingpages/memstore"
	"github.com/dalemusser/stratacourse/internal/domain/sections"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestParseFixture(t *testing.T) {
	in, err := parseFixture(demoLanding)
	require.NoError(t, err)

	assert.Equal(t, "khoa-hoc-lap-trinh-he", in.Slug)
	assert.NotEmpty(t, in.Title)
	assert.Equal(t, []sections.Type{
		sections.TypeHero,
		sections.TypeStats,
		sections.TypeCurriculum,
		sections.TypeStudentProjects,
		sections.TypeCTA,
	}, in.Sections.Types())
}

func TestParseFixture_Malformed(t *testing.T) {
	_, err := parseFixture([]byte("slug: x\ntitle: X\nsections:\n  - title: no type\n"))
	assert.ErrorIs(t, err, sections.ErrMalformed)
}

func TestSeedAll_CreatesDemoPage(t *testing.T) {
	ctx := context.Background()
	repo := memstore.New()
	core, logs := observer.New(zap.InfoLevel)

	require.NoError(t, SeedAll(ctx, repo, zap.New(core)))

	page, err := repo.GetBySlug(ctx, "khoa-hoc-lap-trinh-he")
	require.NoError(t, err)
	assert.True(t, page.IsActive)
	assert.Len(t, page.Sections, 5)
	assert.Equal(t, 1, logs.FilterMessage("seeded demo landing page").Len())
}

func TestSeedAll_LeavesExistingPage(t *testing.T) {
	ctx := context.Background()
	repo := memstore.New()
	inactive := false
	_, err := repo.Create(ctx, landingpagestore.CreateInput{
		Slug:     "khoa-hoc-lap-trinh-he",
		Title:    "Operator copy",
		IsActive: &inactive,
	})
	require.NoError(t, err)

	require.NoError(t, SeedAll(ctx, repo, zap.NewNop()))
	require.NoError(t, SeedAll(ctx, repo, zap.NewNop()))

	pages, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, pages, 1)
	assert.Equal(t, "Operator copy", pages[0].Title)
	assert.False(t, pages[0].IsActive)
}
