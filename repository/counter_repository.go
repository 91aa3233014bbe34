package repository

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"hrms-backend/config"
	"hrms-backend/models"
)

type CounterRepository interface {
	// NextSequence atomically increments and returns the named counter.
	NextSequence(ctx context.Context, name string) (int64, error)
}

type counterRepository struct {
	collection *mongo.Collection
}

func NewCounterRepository() CounterRepository {
	return &counterRepository{collection: config.GetCollection(config.CounterCollection)}
}

func (r *counterRepository) NextSequence(ctx context.Context, name string) (int64, error) {
	var counter models.Counter
	update := bson.M{"$inc": bson.M{"seq": 1}}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)
	if err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": name}, update, opts).Decode(&counter); err != nil {
		return 0, wrap(err, "failed to advance counter "+name)
	}
	return counter.Seq, nil
}

const (
	EmployeeCounter  = "employee_id"
	CandidateCounter = "candidate_ref"
)

func FormatEmployeeID(seq int64) string {
	return fmt.Sprintf("EMP%04d", seq)
}

func FormatCandidateRef(seq int64) string {
	return fmt.Sprintf("CAN%05d", seq)
}
