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

type UserFilter struct {
	Search       string
	Role         string
	Status       string
	DepartmentID *primitive.ObjectID
	ManagerID    *primitive.ObjectID
}

func (f UserFilter) bson() bson.M {
	filter := bson.M{}
	if f.Search != "" {
		pattern := primitive.Regex{Pattern: regexp.QuoteMeta(f.Search), Options: "i"}
		filter["$or"] = []bson.M{
			{"name": pattern},
			{"email": pattern},
			{"employee_id": pattern},
		}
	}
	if f.Role != "" {
		filter["role"] = f.Role
	}
	if f.Status != "" {
		filter["status"] = f.Status
	}
	if f.DepartmentID != nil {
		filter["department_id"] = *f.DepartmentID
	}
	if f.ManagerID != nil {
		filter["manager_id"] = *f.ManagerID
	}
	return filter
}

type UserRepository interface {
	CreateUser(ctx context.Context, user *models.User) error
	FindUserByEmail(ctx context.Context, email string) (*models.User, error)
	FindUserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	FindUsersByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.User, error)
	SaveUser(ctx context.Context, user *models.User) error
	DeleteUser(ctx context.Context, id primitive.ObjectID) error
	ListUsers(ctx context.Context, filter UserFilter, page, limit int64) ([]models.User, int64, error)
	FindActiveUsers(ctx context.Context) ([]models.User, error)
	FindByOrganization(ctx context.Context, orgID primitive.ObjectID) ([]models.User, error)
	UpdateUserPassword(ctx context.Context, id primitive.ObjectID, hashedPassword string) error
	GetDashboardStats(ctx context.Context) (*models.DashboardStats, error)
}

type userRepository struct {
	collection *mongo.Collection
}

func NewUserRepository() UserRepository {
	return &userRepository{
		collection: config.GetCollection(config.UserCollection),
	}
}

func (r *userRepository) CreateUser(ctx context.Context, user *models.User) error {
	now := time.Now()
	user.ID = primitive.NewObjectID()
	user.CreatedAt = now
	user.UpdatedAt = now
	if user.Status == "" {
		user.Status = models.UserStatusActive
	}

	if _, err := r.collection.InsertOne(ctx, user); err != nil {
		return wrap(err, "failed to create user")
	}
	return nil
}

func (r *userRepository) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.collection.FindOne(ctx, bson.M{"email": email}).Decode(&user); err != nil {
		return nil, wrap(err, "failed to find user by email")
	}
	return &user, nil
}

func (r *userRepository) FindUserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var user models.User
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&user); err != nil {
		return nil, wrap(err, "failed to find user by ID")
	}
	return &user, nil
}

func (r *userRepository) FindUsersByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.User, error) {
	users, err := findAll[models.User](ctx, r.collection, bson.M{"_id": bson.M{"$in": ids}})
	return users, wrap(err, "failed to find users")
}

// SaveUser overwrites the stored document with the given user.
func (r *userRepository) SaveUser(ctx context.Context, user *models.User) error {
	user.UpdatedAt = time.Now()
	res, err := r.collection.ReplaceOne(ctx, bson.M{"_id": user.ID}, user)
	if err != nil {
		return wrap(err, "failed to update user")
	}
	return notFoundIfUnmatched(res)
}

func (r *userRepository) DeleteUser(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return wrap(err, "failed to delete user")
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *userRepository) ListUsers(ctx context.Context, filter UserFilter, page, limit int64) ([]models.User, int64, error) {
	query := filter.bson()
	opts := pageOptions(page, limit).SetSort(bson.D{{Key: "employee_id", Value: 1}})

	users, err := findAll[models.User](ctx, r.collection, query, opts)
	if err != nil {
		return nil, 0, wrap(err, "failed to list users")
	}
	total, err := r.collection.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, wrap(err, "failed to count users")
	}
	return users, total, nil
}

func (r *userRepository) FindActiveUsers(ctx context.Context) ([]models.User, error) {
	filter := bson.M{"status": bson.M{"$in": []string{models.UserStatusActive, models.UserStatusOnNotice}}}
	users, err := findAll[models.User](ctx, r.collection, filter, options.Find().SetSort(bson.D{{Key: "employee_id", Value: 1}}))
	return users, wrap(err, "failed to find active users")
}

func (r *userRepository) FindByOrganization(ctx context.Context, orgID primitive.ObjectID) ([]models.User, error) {
	users, err := findAll[models.User](ctx, r.collection, bson.M{"organization_id": orgID})
	return users, wrap(err, "failed to find organization users")
}

func (r *userRepository) UpdateUserPassword(ctx context.Context, id primitive.ObjectID, hashedPassword string) error {
	update := bson.M{
		"$set": bson.M{
			"password":       hashedPassword,
			"is_first_login": false,
			"updated_at":     time.Now(),
		},
	}
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return wrap(err, "failed to update password")
	}
	return notFoundIfUnmatched(res)
}

func (r *userRepository) GetDashboardStats(ctx context.Context) (*models.DashboardStats, error) {
	stats := &models.DashboardStats{}
	var err error

	if stats.TotalEmployees, err = r.collection.CountDocuments(ctx, bson.M{}); err != nil {
		return nil, wrap(err, "failed to count employees")
	}
	if stats.ActiveEmployees, err = r.collection.CountDocuments(ctx, bson.M{"status": models.UserStatusActive}); err != nil {
		return nil, wrap(err, "failed to count active employees")
	}
	if stats.OnNoticeEmployees, err = r.collection.CountDocuments(ctx, bson.M{"status": models.UserStatusOnNotice}); err != nil {
		return nil, wrap(err, "failed to count employees on notice")
	}
	thirtyDaysAgo := time.Now().AddDate(0, 0, -30)
	if stats.NewJoinersLast30Days, err = r.collection.CountDocuments(ctx, bson.M{"date_of_joining": bson.M{"$gte": thirtyDaysAgo}}); err != nil {
		return nil, wrap(err, "failed to count new joiners")
	}

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"department_id": bson.M{"$exists": true}, "status": bson.M{"$ne": models.UserStatusExited}}}},
		{{Key: "$group", Value: bson.M{"_id": "$department_id", "count": bson.M{"$sum": 1}}}},
		{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: config.DepartmentCollection},
			{Key: "localField", Value: "_id"},
			{Key: "foreignField", Value: "_id"},
			{Key: "as", Value: "dept"},
		}}},
		{{Key: "$unwind", Value: "$dept"}},
		{{Key: "$project", Value: bson.M{"_id": 0, "department": "$dept.name", "count": 1}}},
		{{Key: "$sort", Value: bson.D{{Key: "count", Value: -1}}}},
	}
	stats.DepartmentDistribution, err = aggregateAll[models.DepartmentCount](ctx, r.collection, pipeline)
	if err != nil {
		return nil, wrap(err, "failed to aggregate department distribution")
	}
	return stats, nil
}
