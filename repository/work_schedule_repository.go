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

type WorkScheduleRepository interface {
	CreateSchedule(ctx context.Context, schedule *models.WorkSchedule) error
	FindScheduleByID(ctx context.Context, id primitive.ObjectID) (*models.WorkSchedule, error)
	FindSchedulesStartingBy(ctx context.Context, date string) ([]models.WorkSchedule, error)
	SaveSchedule(ctx context.Context, schedule *models.WorkSchedule) error
	DeleteSchedule(ctx context.Context, id primitive.ObjectID) error
}

type workScheduleRepository struct {
	collection *mongo.Collection
}

func NewWorkScheduleRepository() WorkScheduleRepository {
	return &workScheduleRepository{collection: config.GetCollection(config.WorkScheduleCollection)}
}

func (r *workScheduleRepository) CreateSchedule(ctx context.Context, schedule *models.WorkSchedule) error {
	schedule.ID = primitive.NewObjectID()
	schedule.CreatedAt = time.Now()
	schedule.UpdatedAt = time.Now()
	if _, err := r.collection.InsertOne(ctx, schedule); err != nil {
		return wrap(err, "failed to create work schedule")
	}
	return nil
}

func (r *workScheduleRepository) FindScheduleByID(ctx context.Context, id primitive.ObjectID) (*models.WorkSchedule, error) {
	var schedule models.WorkSchedule
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&schedule); err != nil {
		return nil, wrap(err, "failed to find work schedule")
	}
	return &schedule, nil
}

// FindSchedulesStartingBy returns every rule whose first day is on or before date.
func (r *workScheduleRepository) FindSchedulesStartingBy(ctx context.Context, date string) ([]models.WorkSchedule, error) {
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: 1}})
	schedules, err := findAll[models.WorkSchedule](ctx, r.collection, bson.M{"date": bson.M{"$lte": date}}, opts)
	return schedules, wrap(err, "failed to find work schedules")
}

func (r *workScheduleRepository) SaveSchedule(ctx context.Context, schedule *models.WorkSchedule) error {
	schedule.UpdatedAt = time.Now()
	res, err := r.collection.ReplaceOne(ctx, bson.M{"_id": schedule.ID}, schedule)
	if err != nil {
		return wrap(err, "failed to update work schedule")
	}
	return notFoundIfUnmatched(res)
}

func (r *workScheduleRepository) DeleteSchedule(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return wrap(err, "failed to delete work schedule")
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
