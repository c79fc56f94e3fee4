package database

import (
	"context"
	"fmt"
	"time"

	"visit-report-service/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const siteVisitsCollection = "siteVisits"

// DB wraps the document store connection
type DB struct {
	client   *mongo.Client
	database string
	loc      *time.Location
}

// NewDB connects to the document store and verifies the connection
func NewDB(ctx context.Context, uri, dbname string, loc *time.Location) (*DB, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongo: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping mongo: %w", err)
	}

	return &DB{client: client, database: dbname, loc: loc}, nil
}

// Close disconnects from the document store
func (db *DB) Close(ctx context.Context) error {
	return db.client.Disconnect(ctx)
}

// FetchSiteVisits reads the full siteVisits collection and returns it as
// normalized report rows. Row order is whatever the store returns.
func (db *DB) FetchSiteVisits(ctx context.Context) ([]models.VisitRecord, error) {
	coll := db.client.Database(db.database).Collection(siteVisitsCollection)

	cur, err := coll.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", siteVisitsCollection, err)
	}
	defer cur.Close(ctx)

	var docs []models.SiteVisitDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode %s documents: %w", siteVisitsCollection, err)
	}

	records := make([]models.VisitRecord, 0, len(docs))
	for i := range docs {
		records = append(records, docs[i].Normalize(db.loc))
	}

	return records, nil
}
