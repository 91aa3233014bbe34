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

type KRARepository interface {
	CreateKRA(ctx context.Context, kra *models.KRA) error
	FindKRAByID(ctx context.Context, id primitive.ObjectID) (*models.KRA, error)
	FindKRA(ctx context.Context, userID primitive.ObjectID, year, quarter int) (*models.KRA, error)
	FindKRAsByUser(ctx context.Context, userID primitive.ObjectID) ([]models.KRA, error)
	SaveKRA(ctx context.Context, kra *models.KRA) error
	DeleteKRA(ctx context.Context, id primitive.ObjectID) error
}

type kraRepository struct {
	collection *mongo.Collection
}

func NewKRARepository() KRARepository {
	return &kraRepository{collection: config.GetCollection(config.KRACollection)}
}

func (r *kraRepository) CreateKRA(ctx context.Context, kra *models.KRA) error {
	now := time.Now()
	kra.ID = primitive.NewObjectID()
	kra.CreatedAt = now
	kra.UpdatedAt = now
	if _, err := r.collection.InsertOne(ctx, kra); err != nil {
		return wrap(err, "failed to create KRA")
	}
	return nil
}

func (r *kraRepository) FindKRAByID(ctx context.Context, id primitive.ObjectID) (*models.KRA, error) {
	var kra models.KRA
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&kra); err != nil {
		return nil, wrap(err, "failed to find KRA")
	}
	return &kra, nil
}

func (r *kraRepository) FindKRA(ctx context.Context, userID primitive.ObjectID, year, quarter int) (*models.KRA, error) {
	var kra models.KRA
	filter := bson.M{"user_id": userID, "year": year, "quarter": quarter}
	if err := r.collection.FindOne(ctx, filter).Decode(&kra); err != nil {
		return nil, wrap(err, "failed to find KRA")
	}
	return &kra, nil
}

func (r *kraRepository) FindKRAsByUser(ctx context.Context, userID primitive.ObjectID) ([]models.KRA, error) {
	opts := options.Find().SetSort(newestFirst)
	kras, err := findAll[models.KRA](ctx, r.collection, bson.M{"user_id": userID}, opts)
	return kras, wrap(err, "failed to find KRAs")
}

func (r *kraRepository) SaveKRA(ctx context.Context, kra *models.KRA) error {
	kra.UpdatedAt = time.Now()
	res, err := r.collection.ReplaceOne(ctx, bson.M{"_id": kra.ID}, kra)
	if err != nil {
		return wrap(err, "failed to update KRA")
	}
	return notFoundIfUnmatched(res)
}

func (r *kraRepository) DeleteKRA(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return wrap(err, "failed to delete KRA")
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
