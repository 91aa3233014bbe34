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

type OrganizationRepository interface {
	CreateOrganization(ctx context.Context, org *models.Organization) error
	FindOrganizationByID(ctx context.Context, id primitive.ObjectID) (*models.Organization, error)
	FindOrganizationByName(ctx context.Context, name string) (*models.Organization, error)
	FindDefaultOrganization(ctx context.Context) (*models.Organization, error)
	ListOrganizations(ctx context.Context) ([]models.Organization, error)
	SaveOrganization(ctx context.Context, org *models.Organization) error
	DeleteOrganization(ctx context.Context, id primitive.ObjectID) error
}

type organizationRepository struct {
	collection *mongo.Collection
}

func NewOrganizationRepository() OrganizationRepository {
	return &organizationRepository{collection: config.GetCollection(config.OrganizationCollection)}
}

func (r *organizationRepository) CreateOrganization(ctx context.Context, org *models.Organization) error {
	now := time.Now()
	org.ID = primitive.NewObjectID()
	org.CreatedAt = now
	org.UpdatedAt = now
	if _, err := r.collection.InsertOne(ctx, org); err != nil {
		return wrap(err, "failed to create organization")
	}
	return nil
}

func (r *organizationRepository) FindOrganizationByID(ctx context.Context, id primitive.ObjectID) (*models.Organization, error) {
	var org models.Organization
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&org); err != nil {
		return nil, wrap(err, "failed to find organization")
	}
	return &org, nil
}

func (r *organizationRepository) FindOrganizationByName(ctx context.Context, name string) (*models.Organization, error) {
	var org models.Organization
	if err := r.collection.FindOne(ctx, bson.M{"name": name}).Decode(&org); err != nil {
		return nil, wrap(err, "failed to find organization")
	}
	return &org, nil
}

// FindDefaultOrganization returns the oldest organization; users without an
// organization fall back to its settings.
func (r *organizationRepository) FindDefaultOrganization(ctx context.Context) (*models.Organization, error) {
	var org models.Organization
	opts := options.FindOne().SetSort(bson.D{{Key: "created_at", Value: 1}})
	if err := r.collection.FindOne(ctx, bson.M{}, opts).Decode(&org); err != nil {
		return nil, wrap(err, "failed to find default organization")
	}
	return &org, nil
}

func (r *organizationRepository) ListOrganizations(ctx context.Context) ([]models.Organization, error) {
	orgs, err := findAll[models.Organization](ctx, r.collection, bson.M{}, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	return orgs, wrap(err, "failed to list organizations")
}

func (r *organizationRepository) SaveOrganization(ctx context.Context, org *models.Organization) error {
	org.UpdatedAt = time.Now()
	res, err := r.collection.ReplaceOne(ctx, bson.M{"_id": org.ID}, org)
	if err != nil {
		return wrap(err, "failed to update organization")
	}
	return notFoundIfUnmatched(res)
}

func (r *organizationRepository) DeleteOrganization(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return wrap(err, "failed to delete organization")
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
