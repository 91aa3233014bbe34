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

type TaskFilter struct {
	AssignedTo *primitive.ObjectID
	AssignedBy *primitive.ObjectID
	Status     string
}

type TaskRepository interface {
	CreateTask(ctx context.Context, task *models.Task) error
	FindTaskByID(ctx context.Context, id primitive.ObjectID) (*models.Task, error)
	ListTasks(ctx context.Context, filter TaskFilter) ([]models.Task, error)
	// FindTasksDueBetween returns a user's tasks due in [from, to).
	FindTasksDueBetween(ctx context.Context, userID primitive.ObjectID, from, to time.Time) ([]models.Task, error)
	SaveTask(ctx context.Context, task *models.Task) error
	DeleteTask(ctx context.Context, id primitive.ObjectID) error

	CreateResponse(ctx context.Context, resp *models.TaskResponse) error
	FindResponseByID(ctx context.Context, id primitive.ObjectID) (*models.TaskResponse, error)
	FindResponsesByTask(ctx context.Context, taskID primitive.ObjectID) ([]models.TaskResponse, error)
	FindResponsesByTasks(ctx context.Context, taskIDs []primitive.ObjectID) ([]models.TaskResponse, error)
	SaveResponse(ctx context.Context, resp *models.TaskResponse) error
}

type taskRepository struct {
	tasks     *mongo.Collection
	responses *mongo.Collection
}

func NewTaskRepository() TaskRepository {
	return &taskRepository{
		tasks:     config.GetCollection(config.TaskCollection),
		responses: config.GetCollection(config.TaskResponseCollection),
	}
}

func (r *taskRepository) CreateTask(ctx context.Context, task *models.Task) error {
	now := time.Now()
	task.ID = primitive.NewObjectID()
	task.CreatedAt = now
	task.UpdatedAt = now
	if _, err := r.tasks.InsertOne(ctx, task); err != nil {
		return wrap(err, "failed to create task")
	}
	return nil
}

func (r *taskRepository) FindTaskByID(ctx context.Context, id primitive.ObjectID) (*models.Task, error) {
	var task models.Task
	if err := r.tasks.FindOne(ctx, bson.M{"_id": id}).Decode(&task); err != nil {
		return nil, wrap(err, "failed to find task")
	}
	return &task, nil
}

func (r *taskRepository) ListTasks(ctx context.Context, filter TaskFilter) ([]models.Task, error) {
	query := bson.M{}
	if filter.AssignedTo != nil {
		query["assigned_to"] = *filter.AssignedTo
	}
	if filter.AssignedBy != nil {
		query["assigned_by"] = *filter.AssignedBy
	}
	if filter.Status != "" {
		query["status"] = filter.Status
	}
	opts := options.Find().SetSort(bson.D{{Key: "due_date", Value: 1}})
	tasks, err := findAll[models.Task](ctx, r.tasks, query, opts)
	return tasks, wrap(err, "failed to list tasks")
}

func (r *taskRepository) FindTasksDueBetween(ctx context.Context, userID primitive.ObjectID, from, to time.Time) ([]models.Task, error) {
	filter := bson.M{
		"assigned_to": userID,
		"due_date":    bson.M{"$gte": from, "$lt": to},
	}
	tasks, err := findAll[models.Task](ctx, r.tasks, filter)
	return tasks, wrap(err, "failed to find tasks for period")
}

func (r *taskRepository) SaveTask(ctx context.Context, task *models.Task) error {
	task.UpdatedAt = time.Now()
	res, err := r.tasks.ReplaceOne(ctx, bson.M{"_id": task.ID}, task)
	if err != nil {
		return wrap(err, "failed to update task")
	}
	return notFoundIfUnmatched(res)
}

func (r *taskRepository) DeleteTask(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.tasks.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return wrap(err, "failed to delete task")
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	if _, err := r.responses.DeleteMany(ctx, bson.M{"task_id": id}); err != nil {
		return wrap(err, "failed to delete task responses")
	}
	return nil
}

func (r *taskRepository) CreateResponse(ctx context.Context, resp *models.TaskResponse) error {
	resp.ID = primitive.NewObjectID()
	resp.SubmittedAt = time.Now()
	if _, err := r.responses.InsertOne(ctx, resp); err != nil {
		return wrap(err, "failed to create task response")
	}
	return nil
}

func (r *taskRepository) FindResponseByID(ctx context.Context, id primitive.ObjectID) (*models.TaskResponse, error) {
	var resp models.TaskResponse
	if err := r.responses.FindOne(ctx, bson.M{"_id": id}).Decode(&resp); err != nil {
		return nil, wrap(err, "failed to find task response")
	}
	return &resp, nil
}

func (r *taskRepository) FindResponsesByTask(ctx context.Context, taskID primitive.ObjectID) ([]models.TaskResponse, error) {
	opts := options.Find().SetSort(bson.D{{Key: "submitted_at", Value: 1}})
	resps, err := findAll[models.TaskResponse](ctx, r.responses, bson.M{"task_id": taskID}, opts)
	return resps, wrap(err, "failed to find task responses")
}

func (r *taskRepository) FindResponsesByTasks(ctx context.Context, taskIDs []primitive.ObjectID) ([]models.TaskResponse, error) {
	if len(taskIDs) == 0 {
		return []models.TaskResponse{}, nil
	}
	resps, err := findAll[models.TaskResponse](ctx, r.responses, bson.M{"task_id": bson.M{"$in": taskIDs}})
	return resps, wrap(err, "failed to find task responses")
}

func (r *taskRepository) SaveResponse(ctx context.Context, resp *models.TaskResponse) error {
	res, err := r.responses.ReplaceOne(ctx, bson.M{"_id": resp.ID}, resp)
	if err != nil {
		return wrap(err, "failed to update task response")
	}
	return notFoundIfUnmatched(res)
}
