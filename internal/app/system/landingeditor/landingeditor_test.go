package landingeditor

import (
	"context"
	"errors"
	"strings"
	"testing"

	landingpagestore "github.com/dalemusser/stratacourse/internal/app/store/landingpages"
	"github.com/dalemusser/stratacourse/internal/app/store/landingpages/memstore"
	"github.com/dalemusser/stratacourse/internal/domain/models"
	"github.com/dalemusser/stratacourse/internal/domain/sections"
)

// spyRepo records writes on top of an in-memory store.
type spyRepo struct {
	*memstore.Store
	creates int
	updates int
}

func (s *spyRepo) Create(ctx context.Context, in landingpagestore.CreateInput) (models.LandingPage, error) {
	s.creates++
	return s.Store.Create(ctx, in)
}

func (s *spyRepo) Update(ctx context.Context, id string, in landingpagestore.UpdateInput) (models.LandingPage, error) {
	s.updates++
	return s.Store.Update(ctx, id, in)
}

func newEditor() (*Editor, *spyRepo) {
	repo := &spyRepo{Store: memstore.New()}
	return New(repo), repo
}

func TestNewForm(t *testing.T) {
	ed, _ := newEditor()
	f := ed.NewForm()

	if !f.IsActive {
		t.Error("new pages should default to active")
	}
	list, err := sections.Parse([]byte(f.Sections))
	if err != nil {
		t.Fatalf("starter sections do not parse: %v", err)
	}
	want := []sections.Type{
		sections.TypeHero, sections.TypeStats, sections.TypeContent, sections.TypeCurriculum,
		sections.TypeBenefits, sections.TypeStudentProjects, sections.TypeTestimonials, sections.TypeCTA,
	}
	got := list.Types()
	if len(got) != len(want) {
		t.Fatalf("Types() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Types()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestSubmit_CreateThenLoad(t *testing.T) {
	ed, repo := newEditor()
	ctx := context.Background()

	page, err := ed.Submit(ctx, Form{
		Title:    "Summer Offer",
		Slug:     "summer-offer",
		IsActive: true,
		Sections: `[{"type":"hero","title":"Hi"},{"type":"cta","ctaLink":"/buy"}]`,
	})
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	if repo.creates != 1 || repo.updates != 0 {
		t.Errorf("creates=%d updates=%d", repo.creates, repo.updates)
	}

	f, err := ed.Load(ctx, page.ID)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if f.ID != page.ID || f.Slug != "summer-offer" || f.Title != "Summer Offer" || !f.IsActive {
		t.Errorf("Load() = %+v", f)
	}
	if !strings.Contains(f.Sections, "\n  {") {
		t.Errorf("sections should be indented:\n%s", f.Sections)
	}
	list, err := sections.Parse([]byte(f.Sections))
	if err != nil || len(list) != 2 {
		t.Errorf("loaded sections = %v, %v", list, err)
	}
}

func TestSubmit_UpdateReplacesEverything(t *testing.T) {
	ed, repo := newEditor()
	ctx := context.Background()

	created, err := ed.Submit(ctx, Form{Title: "T", Slug: "page", Description: "old", IsActive: true, Sections: `[{"type":"hero"}]`})
	if err != nil {
		t.Fatalf("Submit(create) error = %v", err)
	}

	updated, err := ed.Submit(ctx, Form{ID: created.ID, Title: "T2", Slug: "page-2", IsActive: false, Sections: ""})
	if err != nil {
		t.Fatalf("Submit(update) error = %v", err)
	}
	if repo.updates != 1 {
		t.Errorf("updates = %d, want 1", repo.updates)
	}
	if updated.Title != "T2" || updated.Slug != "page-2" || updated.Description != "" || updated.IsActive {
		t.Errorf("updated = %+v", updated)
	}
	if len(updated.Sections) != 0 {
		t.Errorf("sections = %d, want 0", len(updated.Sections))
	}
}

func TestSubmit_MalformedTextNeverWrites(t *testing.T) {
	ed, repo := newEditor()
	ctx := context.Background()

	created, err := ed.Submit(ctx, Form{Title: "Keep", Slug: "keep", IsActive: true, Sections: `[{"type":"hero","title":"Original"}]`})
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	repo.creates, repo.updates = 0, 0

	bad := []Form{
		{Title: "New", Slug: "new", Sections: `[{"type": "hero", "title": "T"`},
		{ID: created.ID, Title: "Keep", Slug: "keep", Sections: `[{"type": "hero", "title": "T"`},
		{ID: created.ID, Title: "Keep", Slug: "keep", Sections: `{"type":"hero"}`},
		{ID: created.ID, Title: "Keep", Slug: "keep", Sections: `[{"title":"no type"}]`},
		{ID: created.ID, Title: "Keep", Slug: "keep", Sections: "- [broken", Format: FormatYAML},
		{ID: created.ID, Title: "Keep", Slug: "keep", Sections: "[]", Format: "xml"},
	}
	for i, f := range bad {
		_, err := ed.Submit(ctx, f)
		if !errors.Is(err, ErrValidation) {
			t.Errorf("form %d: error = %v, want ErrValidation", i, err)
		}
		var ve *ValidationError
		if !errors.As(err, &ve) {
			t.Errorf("form %d: error %T should be *ValidationError", i, err)
		}
	}

	if repo.creates != 0 || repo.updates != 0 {
		t.Errorf("repository touched: creates=%d updates=%d", repo.creates, repo.updates)
	}
	page, err := repo.GetByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if string(page.Sections[0].Raw()) != `{"type":"hero","title":"Original"}` {
		t.Errorf("stored sections changed: %s", page.Sections[0].Raw())
	}
}

func TestSubmit_SyntaxErrorDetail(t *testing.T) {
	ed, _ := newEditor()
	_, err := ed.Submit(context.Background(), Form{Title: "T", Slug: "t", Sections: `[{"type":"hero"}, {"title":"x"}]`})

	if !errors.Is(err, sections.ErrMalformed) {
		t.Errorf("error should wrap sections.ErrMalformed: %v", err)
	}
	var syn *sections.SyntaxError
	if !errors.As(err, &syn) || syn.Index != 1 {
		t.Errorf("SyntaxError = %+v", syn)
	}
}

func TestSubmit_TooLarge(t *testing.T) {
	ed, repo := newEditor()
	big := `[{"type":"content","content":"` + strings.Repeat("x", MaxSectionsLength) + `"}]`

	_, err := ed.Submit(context.Background(), Form{Title: "T", Slug: "big", Sections: big})
	if !errors.Is(err, ErrValidation) {
		t.Errorf("error = %v, want ErrValidation", err)
	}
	if repo.creates != 0 {
		t.Error("oversized text must not be written")
	}
}

func TestSubmit_YAML(t *testing.T) {
	ed, _ := newEditor()
	page, err := ed.Submit(context.Background(), Form{
		Title:    "YAML",
		Slug:     "yaml-page",
		IsActive: true,
		Format:   "YAML",
		Sections: "- type: hero\n  title: From YAML\n- type: unknown_widget\n",
	})
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	if got := page.Sections.Types(); len(got) != 2 || got[0] != sections.TypeHero || got[1] != "unknown_widget" {
		t.Errorf("Types() = %v", got)
	}
}

func TestSubmit_RepositoryErrorsPassThrough(t *testing.T) {
	ed, _ := newEditor()
	ctx := context.Background()

	if _, err := ed.Submit(ctx, Form{Title: "A", Slug: "dup", Sections: "[]"}); err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	_, err := ed.Submit(ctx, Form{Title: "B", Slug: "dup", Sections: "[]"})
	if !errors.Is(err, landingpagestore.ErrConflict) {
		t.Errorf("error = %v, want ErrConflict", err)
	}

	_, err = ed.Load(ctx, "missing")
	if !errors.Is(err, landingpagestore.ErrNotFound) {
		t.Errorf("Load() error = %v, want ErrNotFound", err)
	}
}
