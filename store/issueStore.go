package store

//go:generate mockgen -source=issueStore.go -destination=mocks/issueStore.go -package=mocks

import (
	"context"
	"errors"
	"time"

	"civiceye-be/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrNotFound is returned when no document matches the requested id.
var ErrNotFound = errors.New("document not found")

// IssueStore is the durable collection of issue documents.
type IssueStore interface {
	Insert(ctx context.Context, issue *models.Issue) error
	FindAll(ctx context.Context) ([]models.Issue, error)
	FindByID(ctx context.Context, id string) (*models.Issue, error)
	Update(ctx context.Context, id string, patch models.IssuePatch, now time.Time) (*models.Issue, error)
	Heatmap(ctx context.Context, limit int) ([]models.HeatmapPoint, error)
	Stats(ctx context.Context, now time.Time) (*models.IssueStats, error)
}

// MongoIssueStore keeps issues in a MongoDB collection.
type MongoIssueStore struct {
	coll *mongo.Collection
}

func NewMongoIssueStore(db *mongo.Database) *MongoIssueStore {
	return &MongoIssueStore{coll: db.Collection("issues")}
}

// EnsureIndexes creates the indexes List and Heatmap sort on.
func (s *MongoIssueStore) EnsureIndexes(ctx context.Context) error {
	_, err := s.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}},
	})
	return err
}

func (s *MongoIssueStore) Insert(ctx context.Context, issue *models.Issue) error {
	if issue.ID.IsZero() {
		issue.ID = primitive.NewObjectID()
	}
	_, err := s.coll.InsertOne(ctx, issue)
	return err
}

// FindAll returns every issue, most recent first.
func (s *MongoIssueStore) FindAll(ctx context.Context) ([]models.Issue, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}})

	cursor, err := s.coll.Find(ctx, bson.M{}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	issues := []models.Issue{}
	if err := cursor.All(ctx, &issues); err != nil {
		return nil, err
	}
	return issues, nil
}

func (s *MongoIssueStore) FindByID(ctx context.Context, id string) (*models.Issue, error) {
	issueID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}

	var issue models.Issue
	err = s.coll.FindOne(ctx, bson.M{"_id": issueID}).Decode(&issue)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &issue, nil
}

// Update applies patch with $set and returns the post-update document.
func (s *MongoIssueStore) Update(ctx context.Context, id string, patch models.IssuePatch, now time.Time) (*models.Issue, error) {
	issueID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}

	update := bson.M{"updatedAt": now}
	if patch.Title != nil {
		update["title"] = *patch.Title
	}
	if patch.Description != nil {
		update["description"] = *patch.Description
	}
	if patch.Category != nil {
		update["category"] = *patch.Category
	}
	if patch.Priority != nil {
		update["priority"] = *patch.Priority
	}
	if patch.Status != nil {
		update["status"] = *patch.Status
	}
	if patch.Location != nil {
		update["location"] = patch.Location
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var issue models.Issue
	err = s.coll.FindOneAndUpdate(ctx, bson.M{"_id": issueID}, bson.M{"$set": update}, opts).Decode(&issue)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &issue, nil
}

// Heatmap returns the most recent issues that have both coordinates.
func (s *MongoIssueStore) Heatmap(ctx context.Context, limit int) ([]models.HeatmapPoint, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{
			"location.lat": bson.M{"$exists": true, "$ne": nil},
			"location.lng": bson.M{"$exists": true, "$ne": nil},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}}},
		{{Key: "$limit", Value: int64(limit)}},
		{{Key: "$project", Value: bson.M{
			"_id":       1,
			"title":     1,
			"category":  1,
			"status":    1,
			"priority":  1,
			"lat":       "$location.lat",
			"lng":       "$location.lng",
			"address":   "$location.address",
			"createdAt": 1,
		}}},
	}

	cursor, err := s.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	points := []models.HeatmapPoint{}
	if err := cursor.All(ctx, &points); err != nil {
		return nil, err
	}
	return points, nil
}

// Stats aggregates issue counts for the analytics view. Daily buckets are
// computed in now's location.
func (s *MongoIssueStore) Stats(ctx context.Context, now time.Time) (*models.IssueStats, error) {
	stats := &models.IssueStats{}

	var err error
	if stats.TotalIssues, err = s.coll.CountDocuments(ctx, bson.M{}); err != nil {
		return nil, err
	}
	stats.OpenIssues, err = s.coll.CountDocuments(ctx, bson.M{
		"status": bson.M{"$in": []models.IssueStatus{models.Pending, models.InProgress}},
	})
	if err != nil {
		return nil, err
	}
	if stats.ByStatus, err = s.groupCount(ctx, "status"); err != nil {
		return nil, err
	}
	if stats.ByPriority, err = s.groupCount(ctx, "priority"); err != nil {
		return nil, err
	}
	if stats.ByCategory, err = s.groupCount(ctx, "category"); err != nil {
		return nil, err
	}

	for i := 6; i >= 0; i-- {
		date := now.AddDate(0, 0, -i)
		date = time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
		nextDate := date.AddDate(0, 0, 1)

		count, err := s.coll.CountDocuments(ctx, bson.M{
			"createdAt": bson.M{"$gte": date, "$lt": nextDate},
		})
		if err != nil {
			return nil, err
		}
		stats.Last7Days = append(stats.Last7Days, models.DailyCount{
			Date:  date.Format("2006-01-02"),
			Count: count,
		})
	}

	return stats, nil
}

func (s *MongoIssueStore) groupCount(ctx context.Context, field string) ([]models.NamedCount, error) {
	pipeline := []bson.M{
		{"$group": bson.M{"_id": "$" + field, "count": bson.M{"$sum": 1}}},
		{"$project": bson.M{"name": "$_id", "value": "$count", "_id": 0}},
		{"$sort": bson.D{{Key: "value", Value: -1}, {Key: "name", Value: 1}}},
	}

	cursor, err := s.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	counts := []models.NamedCount{}
	if err := cursor.All(ctx, &counts); err != nil {
		return nil, err
	}
	return counts, nil
}
