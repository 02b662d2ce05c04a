package store

import (
	"context"
	"errors"

	"civiceye-be/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrDuplicate is returned when an officer with the same email exists.
var ErrDuplicate = errors.New("document already exists")

// OfficerStore holds government officer accounts.
type OfficerStore interface {
	FindByEmail(ctx context.Context, email string) (*models.Officer, error)
	FindByID(ctx context.Context, id string) (*models.Officer, error)
	Insert(ctx context.Context, officer *models.Officer) error
}

type MongoOfficerStore struct {
	coll *mongo.Collection
}

func NewMongoOfficerStore(db *mongo.Database) *MongoOfficerStore {
	return &MongoOfficerStore{coll: db.Collection("officers")}
}

// EnsureIndexes creates a unique index on email.
func (s *MongoOfficerStore) EnsureIndexes(ctx context.Context) error {
	indexModel := mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	}
	_, err := s.coll.Indexes().CreateOne(ctx, indexModel)
	return err
}

func (s *MongoOfficerStore) FindByEmail(ctx context.Context, email string) (*models.Officer, error) {
	return s.findOne(ctx, bson.M{"email": email})
}

func (s *MongoOfficerStore) FindByID(ctx context.Context, id string) (*models.Officer, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}
	return s.findOne(ctx, bson.M{"_id": objectID})
}

func (s *MongoOfficerStore) Insert(ctx context.Context, officer *models.Officer) error {
	if officer.ID.IsZero() {
		officer.ID = primitive.NewObjectID()
	}
	_, err := s.coll.InsertOne(ctx, officer)
	if mongo.IsDuplicateKeyError(err) {
		return ErrDuplicate
	}
	return err
}

func (s *MongoOfficerStore) findOne(ctx context.Context, filter bson.M) (*models.Officer, error) {
	var officer models.Officer
	err := s.coll.FindOne(ctx, filter).Decode(&officer)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &officer, nil
}
