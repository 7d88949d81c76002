// internal/app/store/landingpages/store.go
package landingpagestore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/stratacourse/internal/app/system/normalize"
	"github.com/dalemusser/stratacourse/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CollectionName is the MongoDB collection holding landing pages.
const CollectionName = "landing_pages"

// pageDoc is the stored shape. Sections are kept as one JSON text blob.
type pageDoc struct {
	ID          primitive.ObjectID `bson:"_id"`
	Slug        string             `bson:"slug"`
	Title       string             `bson:"title"`
	Description string             `bson:"description"`
	IsActive    bool               `bson:"is_active"`
	Sections    string             `bson:"sections"`
	CreatedAt   time.Time          `bson:"created_at"`
	UpdatedAt   time.Time          `bson:"updated_at"`
}

// Store provides access to the landing_pages collection.
type Store struct {
	c *mongo.Collection
}

var _ Repository = (*Store)(nil)

// New creates a new landing page store.
func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection(CollectionName)}
}

// Ping checks the backing database.
func (s *Store) Ping(ctx context.Context) error {
	return s.c.Database().Client().Ping(ctx, nil)
}

// Create inserts a new page. The slug must be unique.
func (s *Store) Create(ctx context.Context, input CreateInput) (models.LandingPage, error) {
	page, err := input.Normalize(Timestamp())
	if err != nil {
		return models.LandingPage{}, err
	}
	blob, err := EncodeSections(page.Sections)
	if err != nil {
		return models.LandingPage{}, &StoreError{Op: "create", Key: page.Slug, Err: err}
	}

	doc := pageDoc{
		ID:          primitive.NewObjectID(),
		Slug:        page.Slug,
		Title:       page.Title,
		Description: page.Description,
		IsActive:    page.IsActive,
		Sections:    blob,
		CreatedAt:   page.CreatedAt,
		UpdatedAt:   page.UpdatedAt,
	}
	if _, err := s.c.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return models.LandingPage{}, Conflict(page.Slug)
		}
		return models.LandingPage{}, &StoreError{Op: "create", Key: page.Slug, Err: err}
	}

	page.ID = doc.ID.Hex()
	return page, nil
}

// GetBySlug returns the page with the given slug, active or not.
func (s *Store) GetBySlug(ctx context.Context, slug string) (models.LandingPage, error) {
	slug = normalize.Slug(slug)
	var doc pageDoc
	if err := s.c.FindOne(ctx, bson.M{"slug": slug}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.LandingPage{}, NotFound(slug)
		}
		return models.LandingPage{}, &StoreError{Op: "get", Key: slug, Err: err}
	}
	return toModel(doc, "get")
}

// GetByID loads a page by its hex ObjectID. Malformed ids are not found.
func (s *Store) GetByID(ctx context.Context, id string) (models.LandingPage, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return models.LandingPage{}, NotFound(id)
	}
	var doc pageDoc
	if err := s.c.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.LandingPage{}, NotFound(id)
		}
		return models.LandingPage{}, &StoreError{Op: "get", Key: id, Err: err}
	}
	return toModel(doc, "get")
}

// List returns every page, newest first.
func (s *Store) List(ctx context.Context) ([]models.LandingPage, error) {
	opts := options.Find().SetSort(bson.D{
		{Key: "created_at", Value: -1},
		{Key: "_id", Value: -1},
	})
	cur, err := s.c.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, &StoreError{Op: "list", Err: err}
	}
	defer cur.Close(ctx)

	var docs []pageDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, &StoreError{Op: "list", Err: err}
	}

	pages := make([]models.LandingPage, 0, len(docs))
	for _, doc := range docs {
		page, err := toModel(doc, "list")
		if err != nil {
			return nil, err
		}
		pages = append(pages, page)
	}
	return pages, nil
}

// Update applies a partial update and returns the updated page.
func (s *Store) Update(ctx context.Context, id string, input UpdateInput) (models.LandingPage, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return models.LandingPage{}, NotFound(id)
	}
	input, err = input.Normalize()
	if err != nil {
		return models.LandingPage{}, err
	}

	set := bson.M{"updated_at": Timestamp()}
	if input.Slug != nil {
		set["slug"] = *input.Slug
	}
	if input.Title != nil {
		set["title"] = *input.Title
	}
	if input.Description != nil {
		set["description"] = *input.Description
	}
	if input.IsActive != nil {
		set["is_active"] = *input.IsActive
	}
	if input.Sections != nil {
		blob, err := EncodeSections(*input.Sections)
		if err != nil {
			return models.LandingPage{}, &StoreError{Op: "update", Key: id, Err: err}
		}
		set["sections"] = blob
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var doc pageDoc
	err = s.c.FindOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{"$set": set}, opts).Decode(&doc)
	if err != nil {
		switch {
		case errors.Is(err, mongo.ErrNoDocuments):
			return models.LandingPage{}, NotFound(id)
		case mongo.IsDuplicateKeyError(err) && input.Slug != nil:
			return models.LandingPage{}, Conflict(*input.Slug)
		}
		return models.LandingPage{}, &StoreError{Op: "update", Key: id, Err: err}
	}
	return toModel(doc, "update")
}

// Delete removes a page permanently.
func (s *Store) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return NotFound(id)
	}
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return &StoreError{Op: "delete", Key: id, Err: err}
	}
	if res.DeletedCount == 0 {
		return NotFound(id)
	}
	return nil
}

func toModel(doc pageDoc, op string) (models.LandingPage, error) {
	list, err := DecodeSections(doc.Sections)
	if err != nil {
		return models.LandingPage{}, &StoreError{Op: op, Key: doc.Slug, Err: err}
	}
	return models.LandingPage{
		ID:          doc.ID.Hex(),
		Slug:        doc.Slug,
		Title:       doc.Title,
		Description: doc.Description,
		IsActive:    doc.IsActive,
		Sections:    list,
		CreatedAt:   doc.CreatedAt.UTC(),
		UpdatedAt:   doc.UpdatedAt.UTC(),
	}, nil
}
