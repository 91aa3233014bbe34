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

type LeaveFilter struct {
	UserID *primitive.ObjectID
	Status string
}

type LeaveRequestRepository interface {
	CreateLeaveRequest(ctx context.Context, req *models.LeaveRequest) error
	FindLeaveRequestByID(ctx context.Context, id primitive.ObjectID) (*models.LeaveRequest, error)
	ListLeaveRequests(ctx context.Context, filter LeaveFilter) ([]models.LeaveRequestWithUser, error)
	UpdateLeaveStatus(ctx context.Context, id primitive.ObjectID, status, note string) error
	// FindOverlapping returns requests in the given statuses that touch [from, to].
	// A nil userID matches every employee.
	FindOverlapping(ctx context.Context, userID *primitive.ObjectID, from, to string, statuses ...string) ([]models.LeaveRequest, error)
	CountPendingRequests(ctx context.Context) (int64, error)
}

type leaveRequestRepository struct {
	collection *mongo.Collection
}

func NewLeaveRequestRepository() LeaveRequestRepository {
	return &leaveRequestRepository{collection: config.GetCollection(config.LeaveRequestCollection)}
}

func (r *leaveRequestRepository) CreateLeaveRequest(ctx context.Context, req *models.LeaveRequest) error {
	now := time.Now()
	req.ID = primitive.NewObjectID()
	req.CreatedAt = now
	req.UpdatedAt = now
	if _, err := r.collection.InsertOne(ctx, req); err != nil {
		return wrap(err, "failed to create leave request")
	}
	return nil
}

func (r *leaveRequestRepository) FindLeaveRequestByID(ctx context.Context, id primitive.ObjectID) (*models.LeaveRequest, error) {
	var req models.LeaveRequest
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&req); err != nil {
		return nil, wrap(err, "failed to find leave request")
	}
	return &req, nil
}

func (r *leaveRequestRepository) ListLeaveRequests(ctx context.Context, filter LeaveFilter) ([]models.LeaveRequestWithUser, error) {
	match := bson.M{}
	if filter.UserID != nil {
		match["user_id"] = *filter.UserID
	}
	if filter.Status != "" {
		match["status"] = filter.Status
	}

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$sort", Value: bson.D{{Key: "created_at", Value: -1}}}},
	}
	pipeline = append(pipeline, withUserStages("user_id")...)

	results, err := aggregateAll[models.LeaveRequestWithUser](ctx, r.collection, pipeline)
	return results, wrap(err, "failed to list leave requests")
}

func (r *leaveRequestRepository) UpdateLeaveStatus(ctx context.Context, id primitive.ObjectID, status, note string) error {
	update := bson.M{"$set": bson.M{"status": status, "note": note, "updated_at": time.Now()}}
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return wrap(err, "failed to update leave request status")
	}
	return notFoundIfUnmatched(res)
}

func (r *leaveRequestRepository) FindOverlapping(ctx context.Context, userID *primitive.ObjectID, from, to string, statuses ...string) ([]models.LeaveRequest, error) {
	filter := bson.M{
		"start_date": bson.M{"$lte": to},
		"end_date":   bson.M{"$gte": from},
	}
	if userID != nil {
		filter["user_id"] = *userID
	}
	if len(statuses) > 0 {
		filter["status"] = bson.M{"$in": statuses}
	}
	results, err := findAll[models.LeaveRequest](ctx, r.collection, filter)
	return results, wrap(err, "failed to find overlapping leave")
}

func (r *leaveRequestRepository) CountPendingRequests(ctx context.Context) (int64, error) {
	n, err := r.collection.CountDocuments(ctx, bson.M{"status": models.LeavePending})
	return n, wrap(err, "failed to count pending leave requests")
}
