package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"hrms-backend/config"
	"hrms-backend/models"
)

type IncrementFilter struct {
	UserID *primitive.ObjectID
	Year   int
	Status string
}

type IncrementRepository interface {
	CreateIncrement(ctx context.Context, inc *models.SalaryIncrement) error
	FindIncrementByID(ctx context.Context, id primitive.ObjectID) (*models.SalaryIncrement, error)
	FindOpenIncrement(ctx context.Context, userID primitive.ObjectID, year int) (*models.SalaryIncrement, error)
	ListIncrements(ctx context.Context, filter IncrementFilter) ([]models.SalaryIncrement, error)
	SaveIncrement(ctx context.Context, inc *models.SalaryIncrement) error
}

type incrementRepository struct {
	collection *mongo.Collection
}

func NewIncrementRepository() IncrementRepository {
	return &incrementRepository{collection: config.GetCollection(config.SalaryIncrementCollection)}
}

func (r *incrementRepository) CreateIncrement(ctx context.Context, inc *models.SalaryIncrement) error {
	now := time.Now()
	inc.ID = primitive.NewObjectID()
	inc.CreatedAt = now
	inc.UpdatedAt = now
	if _, err := r.collection.InsertOne(ctx, inc); err != nil {
		return wrap(err, "failed to create salary increment")
	}
	return nil
}

func (r *incrementRepository) FindIncrementByID(ctx context.Context, id primitive.ObjectID) (*models.SalaryIncrement, error) {
	var inc models.SalaryIncrement
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&inc); err != nil {
		return nil, wrap(err, "failed to find salary increment")
	}
	return &inc, nil
}

// FindOpenIncrement returns the proposed or approved increment for the year, if any.
func (r *incrementRepository) FindOpenIncrement(ctx context.Context, userID primitive.ObjectID, year int) (*models.SalaryIncrement, error) {
	var inc models.SalaryIncrement
	filter := bson.M{
		"user_id": userID,
		"year":    year,
		"status":  bson.M{"$in": []string{models.IncrementProposed, models.IncrementApproved}},
	}
	if err := r.collection.FindOne(ctx, filter).Decode(&inc); err != nil {
		return nil, wrap(err, "failed to find salary increment")
	}
	return &inc, nil
}

func (r *incrementRepository) ListIncrements(ctx context.Context, filter IncrementFilter) ([]models.SalaryIncrement, error) {
	query := bson.M{}
	if filter.UserID != nil {
		query["user_id"] = *filter.UserID
	}
	if filter.Year != 0 {
		query["year"] = filter.Year
	}
	if filter.Status != "" {
		query["status"] = filter.Status
	}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	incs, err := findAll[models.SalaryIncrement](ctx, r.collection, query, opts)
	return incs, wrap(err, "failed to list salary increments")
}

func (r *incrementRepository) SaveIncrement(ctx context.Context, inc *models.SalaryIncrement) error {
	inc.UpdatedAt = time.Now()
	res, err := r.collection.ReplaceOne(ctx, bson.M{"_id": inc.ID}, inc)
	if err != nil {
		return wrap(err, "failed to update salary increment")
	}
	return notFoundIfUnmatched(res)
}
