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

type IncentiveFilter struct {
	UserID  *primitive.ObjectID
	Year    int
	Quarter int
	Type    string
	Status  string
}

type IncentiveRepository interface {
	// UpsertIncentive replaces the calculation for (user, year, quarter, type).
	// A paid incentive is never overwritten.
	UpsertIncentive(ctx context.Context, inc *models.Incentive) error
	FindIncentiveByID(ctx context.Context, id primitive.ObjectID) (*models.Incentive, error)
	ListIncentives(ctx context.Context, filter IncentiveFilter) ([]models.Incentive, error)
	SaveIncentive(ctx context.Context, inc *models.Incentive) error
}

type incentiveRepository struct {
	collection *mongo.Collection
}

func NewIncentiveRepository() IncentiveRepository {
	return &incentiveRepository{collection: config.GetCollection(config.IncentiveCollection)}
}

func (r *incentiveRepository) UpsertIncentive(ctx context.Context, inc *models.Incentive) error {
	now := time.Now()
	filter := bson.M{
		"user_id": inc.UserID,
		"year":    inc.Year,
		"quarter": inc.Quarter,
		"type":    inc.Type,
		"status":  bson.M{"$ne": models.IncentivePaid},
	}
	update := bson.M{
		"$set": bson.M{
			"performance_score":  inc.PerformanceScore,
			"target_achievement": inc.TargetAchievement,
			"eligible_amount":    inc.EligibleAmount,
			"performance_factor": inc.PerformanceFactor,
			"company_factor":     inc.CompanyFactor,
			"payout":             inc.Payout,
			"status":             models.IncentiveCalculated,
			"updated_at":         now,
		},
		"$unset":       bson.M{"approved_by": ""},
		"$setOnInsert": bson.M{"created_at": now},
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)
	if err := r.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(inc); err != nil {
		return wrap(err, "failed to save incentive")
	}
	return nil
}

func (r *incentiveRepository) FindIncentiveByID(ctx context.Context, id primitive.ObjectID) (*models.Incentive, error) {
	var inc models.Incentive
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&inc); err != nil {
		return nil, wrap(err, "failed to find incentive")
	}
	return &inc, nil
}

func (r *incentiveRepository) ListIncentives(ctx context.Context, filter IncentiveFilter) ([]models.Incentive, error) {
	query := bson.M{}
	if filter.UserID != nil {
		query["user_id"] = *filter.UserID
	}
	if filter.Year != 0 {
		query["year"] = filter.Year
	}
	if filter.Quarter != 0 {
		query["quarter"] = filter.Quarter
	}
	if filter.Type != "" {
		query["type"] = filter.Type
	}
	if filter.Status != "" {
		query["status"] = filter.Status
	}
	opts := options.Find().SetSort(newestFirst)
	incs, err := findAll[models.Incentive](ctx, r.collection, query, opts)
	return incs, wrap(err, "failed to list incentives")
}

func (r *incentiveRepository) SaveIncentive(ctx context.Context, inc *models.Incentive) error {
	inc.UpdatedAt = time.Now()
	res, err := r.collection.ReplaceOne(ctx, bson.M{"_id": inc.ID}, inc)
	if err != nil {
		return wrap(err, "failed to update incentive")
	}
	return notFoundIfUnmatched(res)
}
