package repository

import (
	"context"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"hrms-backend/config"
	"hrms-backend/models"
)

type DepartmentRepository interface {
	CreateDepartment(ctx context.Context, department *models.Department) error
	GetAllDepartments(ctx context.Context, orgID *primitive.ObjectID) ([]models.Department, error)
	GetDepartmentByID(ctx context.Context, id primitive.ObjectID) (*models.Department, error)
	SaveDepartment(ctx context.Context, department *models.Department) error
	DeleteDepartment(ctx context.Context, id primitive.ObjectID) error
	FindDepartmentByName(ctx context.Context, orgID *primitive.ObjectID, name string) (*models.Department, error)
	CountDepartments(ctx context.Context) (int64, error)
	CountChildren(ctx context.Context, id primitive.ObjectID) (int64, error)
}

type departmentRepository struct {
	collection *mongo.Collection
}

func NewDepartmentRepository() DepartmentRepository {
	return &departmentRepository{
		collection: config.GetCollection(config.DepartmentCollection),
	}
}

func (r *departmentRepository) CreateDepartment(ctx context.Context, department *models.Department) error {
	department.ID = primitive.NewObjectID()
	department.CreatedAt = time.Now()
	department.UpdatedAt = time.Now()

	if _, err := r.collection.InsertOne(ctx, department); err != nil {
		return wrap(err, "failed to create department")
	}
	return nil
}

func (r *departmentRepository) GetAllDepartments(ctx context.Context, orgID *primitive.ObjectID) ([]models.Department, error) {
	filter := bson.M{}
	if orgID != nil {
		filter["organization_id"] = *orgID
	}
	departments, err := findAll[models.Department](ctx, r.collection, filter, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	return departments, wrap(err, "failed to list departments")
}

func (r *departmentRepository) GetDepartmentByID(ctx context.Context, id primitive.ObjectID) (*models.Department, error) {
	var department models.Department
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&department); err != nil {
		return nil, wrap(err, "failed to find department")
	}
	return &department, nil
}

func (r *departmentRepository) SaveDepartment(ctx context.Context, department *models.Department) error {
	department.UpdatedAt = time.Now()
	res, err := r.collection.ReplaceOne(ctx, bson.M{"_id": department.ID}, department)
	if err != nil {
		return wrap(err, "failed to update department")
	}
	return notFoundIfUnmatched(res)
}

func (r *departmentRepository) DeleteDepartment(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return wrap(err, "failed to delete department")
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *departmentRepository) FindDepartmentByName(ctx context.Context, orgID *primitive.ObjectID, name string) (*models.Department, error) {
	filter := bson.M{"name": primitive.Regex{Pattern: "^" + regexp.QuoteMeta(name) + "$", Options: "i"}}
	if orgID != nil {
		filter["organization_id"] = *orgID
	} else {
		filter["organization_id"] = bson.M{"$exists": false}
	}
	var department models.Department
	if err := r.collection.FindOne(ctx, filter).Decode(&department); err != nil {
		return nil, wrap(err, "failed to find department by name")
	}
	return &department, nil
}

func (r *departmentRepository) CountDepartments(ctx context.Context) (int64, error) {
	n, err := r.collection.CountDocuments(ctx, bson.M{})
	return n, wrap(err, "failed to count departments")
}

func (r *departmentRepository) CountChildren(ctx context.Context, id primitive.ObjectID) (int64, error) {
	n, err := r.collection.CountDocuments(ctx, bson.M{"parent_id": id})
	return n, wrap(err, "failed to count child departments")
}
