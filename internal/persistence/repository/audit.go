package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/turndownhq/turndown/internal/domain"
	"github.com/turndownhq/turndown/internal/persistence/db"
)

type boardAuditRepository struct {
	db *mongo.Database
}

func NewBoardAuditRepository(db *mongo.Database) domain.BoardAuditRepository {
	return &boardAuditRepository{
		db: db,
	}
}

func (r *boardAuditRepository) Log(ctx context.Context, log *domain.BoardAuditLog) error {
	collection := r.db.Collection(db.BoardAuditLogCollection)

	_, err := collection.InsertOne(ctx, log)
	return err
}

func (r *boardAuditRepository) GetByProperty(ctx context.Context, code string, limit int) ([]domain.BoardAuditLog, error) {
	collection := r.db.Collection(db.BoardAuditLogCollection)

	filter := bson.M{"property_code": code}
	opts := options.Find().
		SetSort(bson.D{{Key: "timestamp", Value: -1}}).
		SetLimit(int64(limit))

	cursor, err := collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var logs []domain.BoardAuditLog
	if err := cursor.All(ctx, &logs); err != nil {
		return nil, err
	}

	return logs, nil
}

func (r *boardAuditRepository) DeleteOlderThan(ctx context.Context, before time.Time) error {
	collection := r.db.Collection(db.BoardAuditLogCollection)

	filter := bson.M{
		"timestamp": bson.M{
			"$lt": before,
		},
	}

	_, err := collection.DeleteMany(ctx, filter)
	return err
}

func (r *boardAuditRepository) EnsureIndexes(ctx context.Context) error {
	collection := r.db.Collection(db.BoardAuditLogCollection)

	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "property_code", Value: 1},
				{Key: "timestamp", Value: -1},
			},
		},
		{
			Keys:    bson.D{{Key: "timestamp", Value: 1}},
			Options: options.Index().SetExpireAfterSeconds(7776000), // 90 days TTL
		},
	}

	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}
