package landingpagestore_test

import (
	"errors"
	"testing"

	landingpagestore "github.com/dalemusser/stratacourse/internal/app/store/landingpages"
	"github.com/dalemusser/stratacourse/internal/app/store/landingpages/repotest"
	"github.com/dalemusser/stratacourse/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestStore_Conformance(t *testing.T) {
	repotest.Run(t, func(t *testing.T) landingpagestore.Repository {
		return landingpagestore.New(testutil.SetupTestDB(t))
	})
}

func TestStore_SectionsStoredAsText(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := landingpagestore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	list, err := landingpagestore.DecodeSections(`[{"type":"hero","title":"T"}]`)
	if err != nil {
		t.Fatalf("DecodeSections() error = %v", err)
	}
	page, err := store.Create(ctx, landingpagestore.CreateInput{Slug: "blob", Title: "Blob", Sections: list})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	var raw bson.M
	oid, _ := primitive.ObjectIDFromHex(page.ID)
	if err := db.Collection(landingpagestore.CollectionName).FindOne(ctx, bson.M{"_id": oid}).Decode(&raw); err != nil {
		t.Fatalf("FindOne() error = %v", err)
	}
	blob, ok := raw["sections"].(string)
	if !ok {
		t.Fatalf("sections stored as %T, want string", raw["sections"])
	}
	if blob != `[{"type":"hero","title":"T"}]` {
		t.Errorf("sections blob = %s", blob)
	}
	if raw["is_active"] != true {
		t.Errorf("is_active = %v, want true", raw["is_active"])
	}
}

func TestStore_CorruptBlobIsStoreError(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := landingpagestore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	_, err := db.Collection(landingpagestore.CollectionName).InsertOne(ctx, bson.M{
		"_id":         primitive.NewObjectID(),
		"slug":        "corrupt",
		"title":       "Corrupt",
		"description": "",
		"is_active":   true,
		"sections":    `[{"type":`,
	})
	if err != nil {
		t.Fatalf("InsertOne() error = %v", err)
	}

	_, err = store.GetBySlug(ctx, "corrupt")
	if !errors.Is(err, landingpagestore.ErrStore) {
		t.Fatalf("GetBySlug() error = %v, want ErrStore", err)
	}
	var se *landingpagestore.StoreError
	if !errors.As(err, &se) {
		t.Fatalf("error should be *StoreError, got %T", err)
	}
	if se.Op != "get" || se.Key != "corrupt" {
		t.Errorf("StoreError = %+v", se)
	}
	if errors.Is(err, landingpagestore.ErrNotFound) {
		t.Error("corrupt blob must not read as not found")
	}
}

func TestStore_Ping(t *testing.T) {
	store := landingpagestore.New(testutil.SetupTestDB(t))
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := store.Ping(ctx); err != nil {
		t.Errorf("Ping() error = %v", err)
	}
}
