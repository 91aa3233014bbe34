package repository

import (
	"context"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"hrms-backend/config"
	"hrms-backend/models"
)

type CandidateFilter struct {
	Status   string
	Position string
	Search   string
}

type CandidateRepository interface {
	CreateCandidate(ctx context.Context, candidate *models.Candidate) error
	FindCandidateByID(ctx context.Context, id primitive.ObjectID) (*models.Candidate, error)
	ListCandidates(ctx context.Context, filter CandidateFilter, page, limit int64) ([]models.Candidate, int64, error)
	SaveCandidate(ctx context.Context, candidate *models.Candidate) error
	DeleteCandidate(ctx context.Context, id primitive.ObjectID) error
	CountOpenCandidates(ctx context.Context) (int64, error)
}

type candidateRepository struct {
	collection *mongo.Collection
}

func NewCandidateRepository() CandidateRepository {
	return &candidateRepository{collection: config.GetCollection(config.CandidateCollection)}
}

func (r *candidateRepository) CreateCandidate(ctx context.Context, candidate *models.Candidate) error {
	now := time.Now()
	candidate.ID = primitive.NewObjectID()
	candidate.CreatedAt = now
	candidate.UpdatedAt = now
	if candidate.Interviews == nil {
		candidate.Interviews = []models.Interview{}
	}
	if _, err := r.collection.InsertOne(ctx, candidate); err != nil {
		return wrap(err, "failed to create candidate")
	}
	return nil
}

func (r *candidateRepository) FindCandidateByID(ctx context.Context, id primitive.ObjectID) (*models.Candidate, error) {
	var candidate models.Candidate
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&candidate); err != nil {
		return nil, wrap(err, "failed to find candidate")
	}
	return &candidate, nil
}

func (r *candidateRepository) ListCandidates(ctx context.Context, filter CandidateFilter, page, limit int64) ([]models.Candidate, int64, error) {
	query := bson.M{}
	if filter.Status != "" {
		query["status"] = filter.Status
	}
	if filter.Position != "" {
		query["position"] = filter.Position
	}
	if filter.Search != "" {
		pattern := primitive.Regex{Pattern: regexp.QuoteMeta(filter.Search), Options: "i"}
		query["$or"] = bson.A{
			bson.M{"name": pattern},
			bson.M{"email": pattern},
			bson.M{"reference": pattern},
		}
	}

	total, err := r.collection.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, wrap(err, "failed to count candidates")
	}
	opts := pageOptions(page, limit).SetSort(bson.D{{Key: "created_at", Value: -1}})
	candidates, err := findAll[models.Candidate](ctx, r.collection, query, opts)
	if err != nil {
		return nil, 0, wrap(err, "failed to list candidates")
	}
	return candidates, total, nil
}

func (r *candidateRepository) SaveCandidate(ctx context.Context, candidate *models.Candidate) error {
	candidate.UpdatedAt = time.Now()
	res, err := r.collection.ReplaceOne(ctx, bson.M{"_id": candidate.ID}, candidate)
	if err != nil {
		return wrap(err, "failed to update candidate")
	}
	return notFoundIfUnmatched(res)
}

func (r *candidateRepository) DeleteCandidate(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return wrap(err, "failed to delete candidate")
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *candidateRepository) CountOpenCandidates(ctx context.Context) (int64, error) {
	filter := bson.M{"status": bson.M{"$nin": []string{models.CandidateHired, models.CandidateRejected}}}
	n, err := r.collection.CountDocuments(ctx, filter)
	return n, wrap(err, "failed to count candidates")
}
