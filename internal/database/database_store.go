package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/signify-dev/signify-go-backend/internal/logger"
)

// DBStore persists manifests in MongoDB.
type DBStore struct {
	client *mongo.Client
	db     *mongo.Database
}

var (
	DbStore         *DBStore
	LabelEmptyError = errors.New("label is empty")
)

func NewDatabaseStore() *DBStore {
	if DbStore == nil {
		DbStore = &DBStore{client: Client, db: Database}
	}
	return DbStore
}

func (ds *DBStore) SaveClips(clips []ClipRecord) error {
	ctx, cancel := context.WithTimeout(context.Background(), OperationTimeout)
	defer cancel()

	opts := options.Replace().SetUpsert(true)
	startTime := time.Now()

	for _, clip := range clips {
		if clip.Label == "" {
			return LabelEmptyError
		}
		filter := bson.D{
			{Key: "label", Value: clip.Label},
			{Key: "youtube_id", Value: clip.YoutubeID},
			{Key: "start", Value: clip.Start},
		}
		_, err := ds.db.Collection(ManifestCollectionName).ReplaceOne(ctx, filter, clip, opts)
		if err != nil {
			if mongo.IsDuplicateKeyError(err) {
				return fmt.Errorf("unique key conflicts: %w", err)
			}
			return fmt.Errorf("database operation failed: %w", err)
		}
	}

	logger.InfoF("Manifest saved: clips=%d, cost=%v", len(clips), time.Since(startTime))
	return nil
}

func (ds *DBStore) ListClips(label string) ([]ClipRecord, error) {
	ctx, cancel := context.WithTimeout(context.Background(), OperationTimeout)
	defer cancel()

	if label == "" {
		return nil, LabelEmptyError
	}

	filter := bson.D{{Key: "label", Value: label}}

	startTime := time.Now()
	cursor, err := ds.db.Collection(ManifestCollectionName).Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("database operation failed: %w", err)
	}
	defer func() { _ = cursor.Close(ctx) }()

	var clips []ClipRecord
	if err := cursor.All(ctx, &clips); err != nil {
		return nil, fmt.Errorf("database operation failed: %w", err)
	}
	logger.DebugF("manifest query cost: %v", time.Since(startTime))

	return clips, nil
}

func (ds *DBStore) Labels() ([]string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), OperationTimeout)
	defer cancel()

	values, err := ds.db.Collection(ManifestCollectionName).Distinct(ctx, "label", bson.D{})
	if err != nil {
		return nil, fmt.Errorf("database operation failed: %w", err)
	}

	labels := make([]string, 0, len(values))
	for _, v := range values {
		if s, ok := v.(string); ok {
			labels = append(labels, s)
		}
	}
	return labels, nil
}

func (ds *DBStore) DeleteLabel(label string) error {
	ctx, cancel := context.WithTimeout(context.Background(), OperationTimeout)
	defer cancel()

	if label == "" {
		return LabelEmptyError
	}

	filter := bson.D{{Key: "label", Value: label}}
	result, err := ds.db.Collection(ManifestCollectionName).DeleteMany(ctx, filter)
	if err != nil {
		return fmt.Errorf("database operation failed: %w", err)
	}

	logger.InfoF("Manifest label deleted: label=%s, deleted=%d", label, result.DeletedCount)
	return nil
}
