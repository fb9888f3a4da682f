package repository

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/turndownhq/turndown/internal/domain"
	"github.com/turndownhq/turndown/internal/persistence/db"
)

type propertyRepository struct {
	db *mongo.Database
}

func NewPropertyRepository(db *mongo.Database) domain.PropertyRepository {
	return &propertyRepository{
		db: db,
	}
}

func (r *propertyRepository) Create(ctx context.Context, property *domain.Property) error {
	collection := r.db.Collection(db.PropertiesCollection)

	_, err := collection.InsertOne(ctx, property)
	if mongo.IsDuplicateKeyError(err) {
		return domain.ErrPropertyAlreadyExists
	}
	return err
}

func (r *propertyRepository) GetByCode(ctx context.Context, code string) (*domain.Property, error) {
	collection := r.db.Collection(db.PropertiesCollection)

	var property domain.Property
	err := collection.FindOne(ctx, bson.M{"_id": code}).Decode(&property)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, domain.ErrPropertyNotFound
	}
	if err != nil {
		return nil, err
	}

	return &property, nil
}

// AddEmployee relies on $addToSet for set-union semantics: re-adding an
// existing name leaves the list untouched.
func (r *propertyRepository) AddEmployee(ctx context.Context, code string, name string) error {
	collection := r.db.Collection(db.PropertiesCollection)

	res, err := collection.UpdateOne(ctx,
		bson.M{"_id": code},
		bson.M{"$addToSet": bson.M{"employees": name}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return domain.ErrPropertyNotFound
	}

	return nil
}
