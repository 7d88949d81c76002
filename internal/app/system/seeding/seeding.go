// internal/app/system/seeding/seeding.go
package seeding

import (
	"context"
	_ "embed"
	"errors"
	"fmt"

	landingpagestore "github.com/dalemusser/stratacourse/internal/app/store/landingpages"
	"github.com/dalemusser/stratacourse/internal/domain/sections"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

//go:embed fixtures/demo-landing.yaml
var demoLanding []byte

// SeedAll seeds default data if not already present.
func SeedAll(ctx context.Context, repo landingpagestore.Repository, logger *zap.Logger) error {
	if err := seedLandingPages(ctx, repo, logger); err != nil {
		return err
	}
	return nil
}

// fixture is the on-disk shape of a seeded page. Sections stay a YAML node
// so they go through the same parser the editor uses.
type fixture struct {
	Slug        string    `yaml:"slug"`
	Title       string    `yaml:"title"`
	Description string    `yaml:"description"`
	Sections    yaml.Node `yaml:"sections"`
}

func parseFixture(data []byte) (landingpagestore.CreateInput, error) {
	var f fixture
	if err := yaml.Unmarshal(data, &f); err != nil {
		return landingpagestore.CreateInput{}, fmt.Errorf("decode fixture: %w", err)
	}
	body, err := yaml.Marshal(&f.Sections)
	if err != nil {
		return landingpagestore.CreateInput{}, fmt.Errorf("encode fixture sections: %w", err)
	}
	list, err := sections.ParseYAML(body)
	if err != nil {
		return landingpagestore.CreateInput{}, fmt.Errorf("fixture %q: %w", f.Slug, err)
	}
	return landingpagestore.CreateInput{
		Slug:        f.Slug,
		Title:       f.Title,
		Description: f.Description,
		Sections:    list,
	}, nil
}

// seedLandingPages creates the demo page when its slug is free. An existing
// page, active or not, is left as the operator last saved it.
func seedLandingPages(ctx context.Context, repo landingpagestore.Repository, logger *zap.Logger) error {
	in, err := parseFixture(demoLanding)
	if err != nil {
		logger.Error("failed to parse demo landing page", zap.Error(err))
		return err
	}

	_, err = repo.GetBySlug(ctx, in.Slug)
	switch {
	case err == nil:
		return nil
	case !errors.Is(err, landingpagestore.ErrNotFound):
		logger.Error("failed to check if landing page exists",
			zap.String("slug", in.Slug),
			zap.Error(err))
		return err
	}

	page, err := repo.Create(ctx, in)
	if errors.Is(err, landingpagestore.ErrConflict) {
		// Another instance seeded it first.
		return nil
	}
	if err != nil {
		logger.Error("failed to seed landing page",
			zap.String("slug", in.Slug),
			zap.Error(err))
		return err
	}
	logger.Info("seeded demo landing page",
		zap.String("slug", page.Slug),
		zap.Int("sections", len(page.Sections)))
	return nil
}
