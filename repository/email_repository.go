package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"hrms-backend/config"
	"hrms-backend/models"
)

type EmailRepository interface {
	CreateEmail(ctx context.Context, email *models.Email) error
	ListEmails(ctx context.Context, category string, page, limit int64) ([]models.Email, int64, error)
}

type emailRepository struct {
	collection *mongo.Collection
}

func NewEmailRepository() EmailRepository {
	return &emailRepository{collection: config.GetCollection(config.EmailCollection)}
}

func (r *emailRepository) CreateEmail(ctx context.Context, email *models.Email) error {
	email.ID = primitive.NewObjectID()
	if email.CreatedAt.IsZero() {
		email.CreatedAt = time.Now()
	}
	if _, err := r.collection.InsertOne(ctx, email); err != nil {
		return wrap(err, "failed to record email")
	}
	return nil
}

func (r *emailRepository) ListEmails(ctx context.Context, category string, page, limit int64) ([]models.Email, int64, error) {
	filter := bson.M{}
	if category != "" {
		filter["category"] = category
	}
	total, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, wrap(err, "failed to count emails")
	}
	opts := pageOptions(page, limit).
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetProjection(bson.M{"body": 0})
	emails, err := findAll[models.Email](ctx, r.collection, filter, opts)
	if err != nil {
		return nil, 0, wrap(err, "failed to list emails")
	}
	return emails, total, nil
}
