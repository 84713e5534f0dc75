package repository

import (
	"context"
	"time"

	"visitsync-service/internal/domain/entity"
	"visitsync-service/internal/domain/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoSyncRunRepository implements SyncRunRepository
type MongoSyncRunRepository struct {
	collection *mongo.Collection
}

// NewMongoSyncRunRepository creates a new sync run repository
func NewMongoSyncRunRepository(db *mongo.Database) repository.SyncRunRepository {
	collection := db.Collection("sync_runs")

	// Index for the run-history listing
	ctx := context.Background()
	indexModel := mongo.IndexModel{
		Keys: bson.D{{Key: "kind", Value: 1}, {Key: "startedAt", Value: -1}},
	}
	collection.Indexes().CreateOne(ctx, indexModel)

	return &MongoSyncRunRepository{
		collection: collection,
	}
}

// Record stores one finished run
func (r *MongoSyncRunRepository) Record(ctx context.Context, run *entity.SyncRun) error {
	if run.ID == "" {
		run.ID = primitive.NewObjectID().Hex()
	}
	if run.FinishedAt.IsZero() {
		run.FinishedAt = time.Now()
	}

	_, err := r.collection.InsertOne(ctx, run)
	return err
}

// List returns the most recent runs, newest first
func (r *MongoSyncRunRepository) List(ctx context.Context, kind string, limit int64) ([]entity.SyncRun, error) {
	filter := bson.M{}
	if kind != "" {
		filter["kind"] = kind
	}
	if limit <= 0 {
		limit = 20
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "startedAt", Value: -1}}).
		SetLimit(limit)

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var runs []entity.SyncRun
	if err := cursor.All(ctx, &runs); err != nil {
		return nil, err
	}
	return runs, nil
}
