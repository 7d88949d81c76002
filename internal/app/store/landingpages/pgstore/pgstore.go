// Package pgstore is the PostgreSQL landing page repository (page_store=postgres).
package pgstore

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	landingpagestore "github.com/dalemusser/stratacourse/internal/app/store/landingpages"
	"github.com/dalemusser/stratacourse/internal/app/system/normalize"
	"github.com/dalemusser/stratacourse/internal/domain/models"
)

// DBTX is satisfied by *pgxpool.Pool, *pgx.Conn and pgx.Tx.
type DBTX interface {
	Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error)
	Query(context.Context, string, ...interface{}) (pgx.Rows, error)
	QueryRow(context.Context, string, ...interface{}) pgx.Row
}

const schema = `
CREATE TABLE IF NOT EXISTS landing_pages (
	id          UUID PRIMARY KEY,
	slug        TEXT NOT NULL,
	title       TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	is_active   BOOLEAN NOT NULL DEFAULT TRUE,
	sections    TEXT NOT NULL DEFAULT '[]',
	created_at  TIMESTAMPTZ NOT NULL,
	updated_at  TIMESTAMPTZ NOT NULL,
	CONSTRAINT landing_pages_slug_key UNIQUE (slug)
);
CREATE INDEX IF NOT EXISTS landing_pages_created_at_idx ON landing_pages (created_at DESC);
`

const columns = `id::text, slug, title, description, is_active, sections, created_at, updated_at`

// Store implements the landing page repository on PostgreSQL.
type Store struct {
	db DBTX
}

var _ landingpagestore.Repository = (*Store)(nil)

// New creates a store over db.
func New(db DBTX) *Store {
	return &Store{db: db}
}

// Connect opens a pool for dsn and verifies it.
func Connect(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres connect: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres ping: %w", err)
	}
	return pool, nil
}

// EnsureSchema creates the landing_pages table and indexes if missing.
func EnsureSchema(ctx context.Context, db DBTX) error {
	if _, err := db.Exec(ctx, schema); err != nil {
		return fmt.Errorf("landing_pages schema: %w", err)
	}
	return nil
}

// Ping checks the connection with a trivial query.
func (s *Store) Ping(ctx context.Context) error {
	var one int
	return s.db.QueryRow(ctx, "SELECT 1").Scan(&one)
}

// Create inserts a new page.
func (s *Store) Create(ctx context.Context, input landingpagestore.CreateInput) (models.LandingPage, error) {
	page, err := input.Normalize(landingpagestore.Timestamp())
	if err != nil {
		return models.LandingPage{}, err
	}
	blob, err := landingpagestore.EncodeSections(page.Sections)
	if err != nil {
		return models.LandingPage{}, &landingpagestore.StoreError{Op: "create", Key: page.Slug, Err: err}
	}

	query := `
		INSERT INTO landing_pages (id, slug, title, description, is_active, sections, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING ` + columns

	id, err := uuid.NewV7()
	if err != nil {
		return models.LandingPage{}, &landingpagestore.StoreError{Op: "create", Key: page.Slug, Err: err}
	}
	row := s.db.QueryRow(ctx, query,
		id, page.Slug, page.Title, page.Description, page.IsActive, blob,
		page.CreatedAt, page.UpdatedAt,
	)
	created, err := scanPage(row)
	if err != nil {
		return models.LandingPage{}, handlePostgresError("create", page.Slug, err)
	}
	return created, nil
}

// GetBySlug returns the page with the given slug.
func (s *Store) GetBySlug(ctx context.Context, slug string) (models.LandingPage, error) {
	slug = normalize.Slug(slug)
	row := s.db.QueryRow(ctx, `SELECT `+columns+` FROM landing_pages WHERE slug = $1`, slug)
	page, err := scanPage(row)
	if err != nil {
		return models.LandingPage{}, handlePostgresError("get", slug, err)
	}
	return page, nil
}

// GetByID returns the page with the given UUID. Malformed ids are not found.
func (s *Store) GetByID(ctx context.Context, id string) (models.LandingPage, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return models.LandingPage{}, landingpagestore.NotFound(id)
	}
	row := s.db.QueryRow(ctx, `SELECT `+columns+` FROM landing_pages WHERE id = $1`, uid)
	page, err := scanPage(row)
	if err != nil {
		return models.LandingPage{}, handlePostgresError("get", id, err)
	}
	return page, nil
}

// List returns every page, newest first.
func (s *Store) List(ctx context.Context) ([]models.LandingPage, error) {
	rows, err := s.db.Query(ctx, `SELECT `+columns+` FROM landing_pages ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, handlePostgresError("list", "", err)
	}
	defer rows.Close()

	var pages []models.LandingPage
	for rows.Next() {
		page, err := scanPage(rows)
		if err != nil {
			return nil, handlePostgresError("list", "", err)
		}
		pages = append(pages, page)
	}
	if err := rows.Err(); err != nil {
		return nil, handlePostgresError("list", "", err)
	}
	if pages == nil {
		pages = []models.LandingPage{}
	}
	return pages, nil
}

// Update applies a partial update with a single UPDATE statement.
func (s *Store) Update(ctx context.Context, id string, input landingpagestore.UpdateInput) (models.LandingPage, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return models.LandingPage{}, landingpagestore.NotFound(id)
	}
	input, err = input.Normalize()
	if err != nil {
		return models.LandingPage{}, err
	}

	sets := []string{"updated_at = $2"}
	args := []interface{}{uid, landingpagestore.Timestamp()}
	add := func(col string, v interface{}) {
		args = append(args, v)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}
	if input.Slug != nil {
		add("slug", *input.Slug)
	}
	if input.Title != nil {
		add("title", *input.Title)
	}
	if input.Description != nil {
		add("description", *input.Description)
	}
	if input.IsActive != nil {
		add("is_active", *input.IsActive)
	}
	if input.Sections != nil {
		blob, err := landingpagestore.EncodeSections(*input.Sections)
		if err != nil {
			return models.LandingPage{}, &landingpagestore.StoreError{Op: "update", Key: id, Err: err}
		}
		add("sections", blob)
	}

	query := `UPDATE landing_pages SET ` + strings.Join(sets, ", ") + ` WHERE id = $1 RETURNING ` + columns
	page, err := scanPage(s.db.QueryRow(ctx, query, args...))
	if err != nil {
		key := id
		if input.Slug != nil && isUniqueViolation(err) {
			key = *input.Slug
		}
		return models.LandingPage{}, handlePostgresError("update", key, err)
	}
	return page, nil
}

// Delete removes a page.
func (s *Store) Delete(ctx context.Context, id string) error {
	uid, err := uuid.Parse(id)
	if err != nil {
		return landingpagestore.NotFound(id)
	}
	tag, err := s.db.Exec(ctx, `DELETE FROM landing_pages WHERE id = $1`, uid)
	if err != nil {
		return handlePostgresError("delete", id, err)
	}
	if tag.RowsAffected() == 0 {
		return landingpagestore.NotFound(id)
	}
	return nil
}

func scanPage(row pgx.Row) (models.LandingPage, error) {
	var (
		page    models.LandingPage
		blob    string
		created time.Time
		updated time.Time
	)
	if err := row.Scan(&page.ID, &page.Slug, &page.Title, &page.Description, &page.IsActive, &blob, &created, &updated); err != nil {
		return models.LandingPage{}, err
	}
	list, err := landingpagestore.DecodeSections(blob)
	if err != nil {
		return models.LandingPage{}, fmt.Errorf("decode sections: %w", err)
	}
	page.Sections = list
	page.CreatedAt = created.UTC()
	page.UpdatedAt = updated.UTC()
	return page, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// handlePostgresError maps driver errors onto the repository taxonomy.
func handlePostgresError(op, key string, err error) error {
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		return landingpagestore.NotFound(key)
	case isUniqueViolation(err):
		return landingpagestore.Conflict(key)
	}
	return &landingpagestore.StoreError{Op: op, Key: key, Err: err}
}
