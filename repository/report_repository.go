package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"hrms-backend/config"
	"hrms-backend/models"
)

type ReportRepository interface {
	// UpsertReport keeps one report per employee.
	UpsertReport(ctx context.Context, report *models.Report) error
	FindReportByUser(ctx context.Context, userID primitive.ObjectID) (*models.Report, error)
	ListReports(ctx context.Context, department string) ([]models.Report, error)
}

type reportRepository struct {
	collection *mongo.Collection
}

func NewReportRepository() ReportRepository {
	return &reportRepository{collection: config.GetCollection(config.ReportCollection)}
}

func (r *reportRepository) UpsertReport(ctx context.Context, report *models.Report) error {
	doc := *report
	doc.ID = primitive.NilObjectID
	update := bson.M{"$set": doc}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)
	if err := r.collection.FindOneAndUpdate(ctx, bson.M{"user_id": report.UserID}, update, opts).Decode(report); err != nil {
		return wrap(err, "failed to save report")
	}
	return nil
}

func (r *reportRepository) FindReportByUser(ctx context.Context, userID primitive.ObjectID) (*models.Report, error) {
	var report models.Report
	if err := r.collection.FindOne(ctx, bson.M{"user_id": userID}).Decode(&report); err != nil {
		return nil, wrap(err, "failed to find report")
	}
	return &report, nil
}

func (r *reportRepository) ListReports(ctx context.Context, department string) ([]models.Report, error) {
	filter := bson.M{}
	if department != "" {
		filter["department"] = department
	}
	opts := options.Find().SetSort(bson.D{{Key: "employee_id", Value: 1}})
	reports, err := findAll[models.Report](ctx, r.collection, filter, opts)
	return reports, wrap(err, "failed to list reports")
}
