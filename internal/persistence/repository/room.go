package repository

import (
	"context"
	"sort"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/turndownhq/turndown/internal/domain"
	"github.com/turndownhq/turndown/internal/persistence/db"
)

type roomRepository struct {
	db *mongo.Database
}

func NewRoomRepository(db *mongo.Database) domain.RoomRepository {
	return &roomRepository{
		db: db,
	}
}

func (r *roomRepository) Create(ctx context.Context, room *domain.Room) error {
	collection := r.db.Collection(db.RoomsCollection)

	_, err := collection.InsertOne(ctx, room)
	if mongo.IsDuplicateKeyError(err) {
		return domain.ErrRoomAlreadyExists
	}
	return err
}

func (r *roomRepository) ListByDate(ctx context.Context, code string, date string) ([]domain.Room, error) {
	collection := r.db.Collection(db.RoomsCollection)

	filter := bson.M{
		"property_code": code,
		"date":          date,
	}
	cursor, err := collection.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	rooms := []domain.Room{}
	if err := cursor.All(ctx, &rooms); err != nil {
		return nil, err
	}

	// Numbers are stored as strings, so a mongo sort would put "10"
	// before "2". Order in memory instead; boards stay small.
	sort.Slice(rooms, func(i, j int) bool {
		return domain.LessRoomNumber(rooms[i].Number, rooms[j].Number)
	})

	return rooms, nil
}

// UpdateField issues a $set of exactly one field plus a server-side
// $currentDate stamp. Full-document replacement is never used.
func (r *roomRepository) UpdateField(ctx context.Context, code, date, number string, field domain.RoomField, value string) error {
	if !field.Valid() {
		return domain.ErrInvalidInput
	}
	if field == domain.FieldStatus {
		if _, err := domain.ParseStatus(value); err != nil {
			return err
		}
	}

	collection := r.db.Collection(db.RoomsCollection)

	filter := bson.M{
		"property_code": code,
		"date":          date,
		"number":        number,
	}
	update := bson.M{
		"$set":         bson.M{string(field): value},
		"$currentDate": bson.M{"last_updated": true},
	}

	res, err := collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return domain.ErrRoomNotFound
	}

	return nil
}

// EnsureRoomIndexes creates the compound unique key that makes a room
// number unique within its (property, date) scope.
func EnsureRoomIndexes(ctx context.Context, database *mongo.Database) error {
	collection := database.Collection(db.RoomsCollection)

	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "property_code", Value: 1},
				{Key: "date", Value: 1},
				{Key: "number", Value: 1},
			},
			Options: options.Index().SetUnique(true),
		},
	}

	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}
