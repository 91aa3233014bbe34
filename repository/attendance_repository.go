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

type AttendanceFilter struct {
	UserID   *primitive.ObjectID
	FromDate string
	ToDate   string
	Status   string
}

func (f AttendanceFilter) bson() bson.M {
	filter := bson.M{}
	if f.UserID != nil {
		filter["user_id"] = *f.UserID
	}
	dateRange := bson.M{}
	if f.FromDate != "" {
		dateRange["$gte"] = f.FromDate
	}
	if f.ToDate != "" {
		dateRange["$lte"] = f.ToDate
	}
	if len(dateRange) > 0 {
		filter["date"] = dateRange
	}
	if f.Status != "" {
		filter["status"] = f.Status
	}
	return filter
}

type AttendanceRepository interface {
	CreateQRCode(ctx context.Context, qrCode *models.QRCode) error
	FindQRCodeByValue(ctx context.Context, code string) (*models.QRCode, error)
	MarkQRCodeAsUsed(ctx context.Context, qrCodeID primitive.ObjectID, userID primitive.ObjectID) error

	CreateAttendance(ctx context.Context, attendance *models.Attendance) error
	FindAttendanceByID(ctx context.Context, id primitive.ObjectID) (*models.Attendance, error)
	FindAttendanceByUserAndDate(ctx context.Context, userID primitive.ObjectID, date string) (*models.Attendance, error)
	SaveAttendance(ctx context.Context, attendance *models.Attendance) error
	FindAttendances(ctx context.Context, filter AttendanceFilter) ([]models.Attendance, error)
	ListAttendancesWithUser(ctx context.Context, filter AttendanceFilter, page, limit int64) ([]models.AttendanceWithUser, int64, error)
	CountAttendancesOn(ctx context.Context, date string) (int64, error)
}

type attendanceRepository struct {
	qrCodeCollection     *mongo.Collection
	attendanceCollection *mongo.Collection
}

func NewAttendanceRepository() AttendanceRepository {
	return &attendanceRepository{
		qrCodeCollection:     config.GetCollection(config.QRCodeCollection),
		attendanceCollection: config.GetCollection(config.AttendanceCollection),
	}
}

func (r *attendanceRepository) CreateQRCode(ctx context.Context, qrCode *models.QRCode) error {
	qrCode.ID = primitive.NewObjectID()
	qrCode.CreatedAt = time.Now()
	if qrCode.UsedBy == nil {
		qrCode.UsedBy = []primitive.ObjectID{}
	}
	if _, err := r.qrCodeCollection.InsertOne(ctx, qrCode); err != nil {
		return wrap(err, "failed to create QR code")
	}
	return nil
}

func (r *attendanceRepository) FindQRCodeByValue(ctx context.Context, value string) (*models.QRCode, error) {
	var qrCode models.QRCode
	if err := r.qrCodeCollection.FindOne(ctx, bson.M{"code": value}).Decode(&qrCode); err != nil {
		return nil, wrap(err, "failed to find QR code")
	}
	return &qrCode, nil
}

func (r *attendanceRepository) MarkQRCodeAsUsed(ctx context.Context, qrCodeID primitive.ObjectID, userID primitive.ObjectID) error {
	update := bson.M{"$addToSet": bson.M{"used_by": userID}}
	res, err := r.qrCodeCollection.UpdateOne(ctx, bson.M{"_id": qrCodeID}, update)
	if err != nil {
		return wrap(err, "failed to mark QR code as used")
	}
	return notFoundIfUnmatched(res)
}

func (r *attendanceRepository) CreateAttendance(ctx context.Context, attendance *models.Attendance) error {
	now := time.Now()
	attendance.ID = primitive.NewObjectID()
	attendance.CreatedAt = now
	attendance.UpdatedAt = now
	if attendance.Breaks == nil {
		attendance.Breaks = []models.Break{}
	}
	if _, err := r.attendanceCollection.InsertOne(ctx, attendance); err != nil {
		return wrap(err, "failed to create attendance")
	}
	return nil
}

func (r *attendanceRepository) FindAttendanceByID(ctx context.Context, id primitive.ObjectID) (*models.Attendance, error) {
	var attendance models.Attendance
	if err := r.attendanceCollection.FindOne(ctx, bson.M{"_id": id}).Decode(&attendance); err != nil {
		return nil, wrap(err, "failed to find attendance")
	}
	return &attendance, nil
}

func (r *attendanceRepository) FindAttendanceByUserAndDate(ctx context.Context, userID primitive.ObjectID, date string) (*models.Attendance, error) {
	var attendance models.Attendance
	filter := bson.M{"user_id": userID, "date": date}
	if err := r.attendanceCollection.FindOne(ctx, filter).Decode(&attendance); err != nil {
		return nil, wrap(err, "failed to find attendance by user and date")
	}
	return &attendance, nil
}

func (r *attendanceRepository) SaveAttendance(ctx context.Context, attendance *models.Attendance) error {
	attendance.UpdatedAt = time.Now()
	res, err := r.attendanceCollection.ReplaceOne(ctx, bson.M{"_id": attendance.ID}, attendance)
	if err != nil {
		return wrap(err, "failed to update attendance")
	}
	return notFoundIfUnmatched(res)
}

func (r *attendanceRepository) FindAttendances(ctx context.Context, filter AttendanceFilter) ([]models.Attendance, error) {
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: -1}})
	results, err := findAll[models.Attendance](ctx, r.attendanceCollection, filter.bson(), opts)
	return results, wrap(err, "failed to find attendance history")
}

func (r *attendanceRepository) ListAttendancesWithUser(ctx context.Context, filter AttendanceFilter, page, limit int64) ([]models.AttendanceWithUser, int64, error) {
	match := filter.bson()
	total, err := r.attendanceCollection.CountDocuments(ctx, match)
	if err != nil {
		return nil, 0, wrap(err, "failed to count attendance")
	}

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$sort", Value: bson.D{{Key: "date", Value: -1}, {Key: "punch_in", Value: -1}}}},
	}
	if limit > 0 {
		pipeline = append(pipeline,
			bson.D{{Key: "$skip", Value: (page - 1) * limit}},
			bson.D{{Key: "$limit", Value: limit}},
		)
	}
	pipeline = append(pipeline, withUserStages("user_id")...)

	results, err := aggregateAll[models.AttendanceWithUser](ctx, r.attendanceCollection, pipeline)
	if err != nil {
		return nil, 0, wrap(err, "failed to aggregate attendance")
	}
	return results, total, nil
}

func (r *attendanceRepository) CountAttendancesOn(ctx context.Context, date string) (int64, error) {
	filter := bson.M{"date": date, "punch_in": bson.M{"$exists": true}}
	n, err := r.attendanceCollection.CountDocuments(ctx, filter)
	return n, wrap(err, "failed to count attendance")
}

// withUserStages joins the users collection on localField and flattens the
// fields every *WithUser view carries.
func withUserStages(localField string) []bson.D {
	return []bson.D{
		{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: config.UserCollection},
			{Key: "localField", Value: localField},
			{Key: "foreignField", Value: "_id"},
			{Key: "as", Value: "userDetails"},
		}}},
		{{Key: "$unwind", Value: "$userDetails"}},
		{{Key: "$addFields", Value: bson.D{
			{Key: "user_name", Value: "$userDetails.name"},
			{Key: "user_email", Value: "$userDetails.email"},
			{Key: "user_employee_id", Value: "$userDetails.employee_id"},
			{Key: "user_designation", Value: "$userDetails.designation"},
		}}},
		{{Key: "$project", Value: bson.D{{Key: "userDetails", Value: 0}}}},
	}
}
