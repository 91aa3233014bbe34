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

type PerformanceRepository interface {
	UpsertScore(ctx context.Context, score *models.PerformanceScore) error
	FindScore(ctx context.Context, userID primitive.ObjectID, period string) (*models.PerformanceScore, error)
	FindScoresByUser(ctx context.Context, userID primitive.ObjectID) ([]models.PerformanceScore, error)
	// FindScoresInPeriods returns a user's monthly snapshots for the given YYYY-MM periods.
	FindScoresInPeriods(ctx context.Context, userID primitive.ObjectID, periods []string) ([]models.PerformanceScore, error)

	CreateReview(ctx context.Context, review *models.PerformanceReview) error
	FindReviewByID(ctx context.Context, id primitive.ObjectID) (*models.PerformanceReview, error)
	FindReview(ctx context.Context, userID primitive.ObjectID, year, quarter int) (*models.PerformanceReview, error)
	FindReviewsByUser(ctx context.Context, userID primitive.ObjectID) ([]models.PerformanceReview, error)
	SaveReview(ctx context.Context, review *models.PerformanceReview) error

	UpsertPerformance(ctx context.Context, perf *models.Performance) error
	FindPerformance(ctx context.Context, userID primitive.ObjectID, year, quarter int) (*models.Performance, error)
	FindPerformancesByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Performance, error)
	FindPerformancesForYear(ctx context.Context, userID primitive.ObjectID, year int) ([]models.Performance, error)
}

type performanceRepository struct {
	scores       *mongo.Collection
	reviews      *mongo.Collection
	performances *mongo.Collection
}

func NewPerformanceRepository() PerformanceRepository {
	return &performanceRepository{
		scores:       config.GetCollection(config.PerformanceScoreCollection),
		reviews:      config.GetCollection(config.PerformanceReviewCollection),
		performances: config.GetCollection(config.PerformanceCollection),
	}
}

var newestFirst = bson.D{{Key: "year", Value: -1}, {Key: "quarter", Value: -1}}

func (r *performanceRepository) UpsertScore(ctx context.Context, score *models.PerformanceScore) error {
	now := time.Now()
	filter := bson.M{"user_id": score.UserID, "period": score.Period}
	update := bson.M{
		"$set": bson.M{
			"metrics":    score.Metrics,
			"grade":      score.Grade,
			"updated_at": now,
		},
		"$setOnInsert": bson.M{"created_at": now},
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)
	if err := r.scores.FindOneAndUpdate(ctx, filter, update, opts).Decode(score); err != nil {
		return wrap(err, "failed to save performance score")
	}
	return nil
}

func (r *performanceRepository) FindScore(ctx context.Context, userID primitive.ObjectID, period string) (*models.PerformanceScore, error) {
	var score models.PerformanceScore
	if err := r.scores.FindOne(ctx, bson.M{"user_id": userID, "period": period}).Decode(&score); err != nil {
		return nil, wrap(err, "failed to find performance score")
	}
	return &score, nil
}

func (r *performanceRepository) FindScoresByUser(ctx context.Context, userID primitive.ObjectID) ([]models.PerformanceScore, error) {
	opts := options.Find().SetSort(bson.D{{Key: "period", Value: -1}})
	scores, err := findAll[models.PerformanceScore](ctx, r.scores, bson.M{"user_id": userID}, opts)
	return scores, wrap(err, "failed to find performance scores")
}

func (r *performanceRepository) FindScoresInPeriods(ctx context.Context, userID primitive.ObjectID, periods []string) ([]models.PerformanceScore, error) {
	filter := bson.M{"user_id": userID, "period": bson.M{"$in": periods}}
	scores, err := findAll[models.PerformanceScore](ctx, r.scores, filter)
	return scores, wrap(err, "failed to find performance scores")
}

func (r *performanceRepository) CreateReview(ctx context.Context, review *models.PerformanceReview) error {
	now := time.Now()
	review.ID = primitive.NewObjectID()
	review.CreatedAt = now
	review.UpdatedAt = now
	if _, err := r.reviews.InsertOne(ctx, review); err != nil {
		return wrap(err, "failed to create performance review")
	}
	return nil
}

func (r *performanceRepository) FindReviewByID(ctx context.Context, id primitive.ObjectID) (*models.PerformanceReview, error) {
	var review models.PerformanceReview
	if err := r.reviews.FindOne(ctx, bson.M{"_id": id}).Decode(&review); err != nil {
		return nil, wrap(err, "failed to find performance review")
	}
	return &review, nil
}

func (r *performanceRepository) FindReview(ctx context.Context, userID primitive.ObjectID, year, quarter int) (*models.PerformanceReview, error) {
	var review models.PerformanceReview
	filter := bson.M{"user_id": userID, "year": year, "quarter": quarter}
	if err := r.reviews.FindOne(ctx, filter).Decode(&review); err != nil {
		return nil, wrap(err, "failed to find performance review")
	}
	return &review, nil
}

func (r *performanceRepository) FindReviewsByUser(ctx context.Context, userID primitive.ObjectID) ([]models.PerformanceReview, error) {
	opts := options.Find().SetSort(newestFirst)
	reviews, err := findAll[models.PerformanceReview](ctx, r.reviews, bson.M{"user_id": userID}, opts)
	return reviews, wrap(err, "failed to find performance reviews")
}

func (r *performanceRepository) SaveReview(ctx context.Context, review *models.PerformanceReview) error {
	review.UpdatedAt = time.Now()
	res, err := r.reviews.ReplaceOne(ctx, bson.M{"_id": review.ID}, review)
	if err != nil {
		return wrap(err, "failed to update performance review")
	}
	return notFoundIfUnmatched(res)
}

func (r *performanceRepository) UpsertPerformance(ctx context.Context, perf *models.Performance) error {
	now := time.Now()
	filter := bson.M{"user_id": perf.UserID, "year": perf.Year, "quarter": perf.Quarter}
	update := bson.M{
		"$set": bson.M{
			"kra_score":     perf.KRAScore,
			"review_rating": perf.ReviewRating,
			"metrics_score": perf.MetricsScore,
			"final_score":   perf.FinalScore,
			"grade":         perf.Grade,
			"updated_at":    now,
		},
		"$setOnInsert": bson.M{"created_at": now},
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)
	if err := r.performances.FindOneAndUpdate(ctx, filter, update, opts).Decode(perf); err != nil {
		return wrap(err, "failed to save performance")
	}
	return nil
}

func (r *performanceRepository) FindPerformance(ctx context.Context, userID primitive.ObjectID, year, quarter int) (*models.Performance, error) {
	var perf models.Performance
	filter := bson.M{"user_id": userID, "year": year, "quarter": quarter}
	if err := r.performances.FindOne(ctx, filter).Decode(&perf); err != nil {
		return nil, wrap(err, "failed to find performance")
	}
	return &perf, nil
}

func (r *performanceRepository) FindPerformancesByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Performance, error) {
	opts := options.Find().SetSort(newestFirst)
	perfs, err := findAll[models.Performance](ctx, r.performances, bson.M{"user_id": userID}, opts)
	return perfs, wrap(err, "failed to find performances")
}

func (r *performanceRepository) FindPerformancesForYear(ctx context.Context, userID primitive.ObjectID, year int) ([]models.Performance, error) {
	opts := options.Find().SetSort(newestFirst)
	perfs, err := findAll[models.Performance](ctx, r.performances, bson.M{"user_id": userID, "year": year}, opts)
	return perfs, wrap(err, "failed to find performances")
}
