// internal/app/bootstrap/dbdeps.go
package bootstrap

import (
	"context"

	landingpagestore "github.com/dalemusser/stratacourse/internal/app/store/landingpages"
	"github.com/dalemusser/stratacourse/internal/app/system/landingresolve"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.mongodb.org/mongo-driver/mongo"
)

// PageStore is a landing page repository that can also report whether its
// backend is reachable. Every adapter satisfies it.
type PageStore interface {
	landingpagestore.Repository
	Ping(ctx context.Context) error
}

// DBDeps holds database and backend dependencies for this WAFFLE app.
//
// This struct is created in ConnectDB and passed to subsequent lifecycle
// hooks: EnsureSchema, Startup, BuildHandler, and Shutdown. Only the clients
// for the configured page_store are set; the others stay nil.
type DBDeps struct {
	// MongoDB client and database (page_store=mongo)
	MongoClient   *mongo.Client
	MongoDatabase *mongo.Database

	// PostgreSQL pool (page_store=postgres)
	PostgresPool *pgxpool.Pool

	// Pages is the active landing page store; PageStoreName says which one.
	Pages         PageStore
	PageStoreName string

	// Resolver serves published pages through the revalidation cache.
	Resolver *landingresolve.Resolver
}
