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

type GrowthRepository interface {
	UpsertGrowth(ctx context.Context, growth *models.CompanyGrowth) error
	FindGrowth(ctx context.Context, year, quarter int) (*models.CompanyGrowth, error)
	FindGrowthForYear(ctx context.Context, year int) ([]models.CompanyGrowth, error)
	ListGrowth(ctx context.Context) ([]models.CompanyGrowth, error)
	DeleteGrowth(ctx context.Context, id primitive.ObjectID) error
}

type growthRepository struct {
	collection *mongo.Collection
}

func NewGrowthRepository() GrowthRepository {
	return &growthRepository{collection: config.GetCollection(config.CompanyGrowthCollection)}
}

func (r *growthRepository) UpsertGrowth(ctx context.Context, growth *models.CompanyGrowth) error {
	now := time.Now()
	filter := bson.M{"year": growth.Year, "quarter": growth.Quarter}
	update := bson.M{
		"$set": bson.M{
			"revenue":        growth.Revenue,
			"expenses":       growth.Expenses,
			"profit":         growth.Profit,
			"target_revenue": growth.TargetRevenue,
			"employee_count": growth.EmployeeCount,
			"new_clients":    growth.NewClients,
			"notes":          growth.Notes,
			"updated_at":     now,
		},
		"$setOnInsert": bson.M{"created_at": now},
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)
	if err := r.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(growth); err != nil {
		return wrap(err, "failed to save company growth")
	}
	return nil
}

func (r *growthRepository) FindGrowth(ctx context.Context, year, quarter int) (*models.CompanyGrowth, error) {
	var growth models.CompanyGrowth
	if err := r.collection.FindOne(ctx, bson.M{"year": year, "quarter": quarter}).Decode(&growth); err != nil {
		return nil, wrap(err, "failed to find company growth")
	}
	return &growth, nil
}

func (r *growthRepository) FindGrowthForYear(ctx context.Context, year int) ([]models.CompanyGrowth, error) {
	opts := options.Find().SetSort(bson.D{{Key: "quarter", Value: 1}})
	records, err := findAll[models.CompanyGrowth](ctx, r.collection, bson.M{"year": year}, opts)
	return records, wrap(err, "failed to find company growth")
}

func (r *growthRepository) ListGrowth(ctx context.Context) ([]models.CompanyGrowth, error) {
	opts := options.Find().SetSort(newestFirst)
	records, err := findAll[models.CompanyGrowth](ctx, r.collection, bson.M{}, opts)
	return records, wrap(err, "failed to list company growth")
}

func (r *growthRepository) DeleteGrowth(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return wrap(err, "failed to delete company growth")
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
