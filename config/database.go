package config

import (
	"context"
	"fmt"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

var MongoConn *mongo.Client

var DBName = "hrms-db"

const (
	UserCollection               = "users"
	OrganizationCollection       = "organizations"
	DepartmentCollection         = "departments"
	AttendanceCollection         = "attendances"
	QRCodeCollection             = "qr_codes"
	WorkScheduleCollection       = "work_schedules"
	LeaveRequestCollection       = "leave_requests"
	TaskCollection               = "tasks"
	TaskResponseCollection       = "task_responses"
	PerformanceCollection        = "performances"
	PerformanceScoreCollection   = "performance_scores"
	PerformanceReviewCollection  = "performance_reviews"
	KRACollection                = "kras"
	CompanyGrowthCollection      = "company_growth"
	SalaryIncrementCollection    = "salary_increments"
	IncentiveCollection          = "pli_vli"
	PayrollCollection            = "payrolls"
	PayrollPeriodCollection      = "payroll_periods"
	PayrollAdjustmentCollection  = "payroll_adjustments"
	CandidateCollection          = "candidates"
	EmailCollection              = "emails"
	ReportCollection             = "reports"
	CounterCollection            = "counters"
)

func MongoConnect(cfg *AppConfig) error {
	if cfg.MongoString == "" {
		return fmt.Errorf("MONGOSTRING is not set")
	}
	DBName = cfg.MongoDB

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoString))
	if err != nil {
		return fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		return fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	log.Println("Connected to MongoDB!")
	MongoConn = client
	return nil
}

func GetCollection(collectionName string) *mongo.Collection {
	if MongoConn == nil {
		log.Fatal("MongoDB client is not initialized. Call MongoConnect() first")
	}
	return MongoConn.Database(DBName).Collection(collectionName)
}

func DisconnectDB() {
	if MongoConn != nil {
		if err := MongoConn.Disconnect(context.Background()); err != nil {
			log.Printf("Error disconnecting from MongoDB: %v", err)
			return
		}
		log.Println("Disconnected from MongoDB")
	}
}

type indexSpec struct {
	collection string
	keys       bson.D
	unique     bool
}

// Uniqueness invariants that are cheap to enforce at the store as well.
var indexes = []indexSpec{
	{UserCollection, bson.D{{Key: "email", Value: 1}}, true},
	{UserCollection, bson.D{{Key: "employee_id", Value: 1}}, true},
	{OrganizationCollection, bson.D{{Key: "name", Value: 1}}, true},
	{DepartmentCollection, bson.D{{Key: "organization_id", Value: 1}, {Key: "name", Value: 1}}, true},
	{AttendanceCollection, bson.D{{Key: "user_id", Value: 1}, {Key: "date", Value: 1}}, true},
	{QRCodeCollection, bson.D{{Key: "code", Value: 1}}, true},
	{PerformanceScoreCollection, bson.D{{Key: "user_id", Value: 1}, {Key: "period", Value: 1}}, true},
	{PerformanceReviewCollection, bson.D{{Key: "user_id", Value: 1}, {Key: "year", Value: 1}, {Key: "quarter", Value: 1}}, true},
	{PerformanceCollection, bson.D{{Key: "user_id", Value: 1}, {Key: "year", Value: 1}, {Key: "quarter", Value: 1}}, true},
	{KRACollection, bson.D{{Key: "user_id", Value: 1}, {Key: "year", Value: 1}, {Key: "quarter", Value: 1}}, true},
	{CompanyGrowthCollection, bson.D{{Key: "year", Value: 1}, {Key: "quarter", Value: 1}}, true},
	{IncentiveCollection, bson.D{{Key: "user_id", Value: 1}, {Key: "year", Value: 1}, {Key: "quarter", Value: 1}, {Key: "type", Value: 1}}, true},
	{PayrollPeriodCollection, bson.D{{Key: "month", Value: 1}}, true},
	{PayrollCollection, bson.D{{Key: "user_id", Value: 1}, {Key: "period_id", Value: 1}}, true},
	{ReportCollection, bson.D{{Key: "user_id", Value: 1}}, true},
	{TaskCollection, bson.D{{Key: "assigned_to", Value: 1}, {Key: "status", Value: 1}}, false},
	{EmailCollection, bson.D{{Key: "created_at", Value: -1}}, false},
}

// InitDatabase creates the indexes the repositories rely on.
func InitDatabase() error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	for _, spec := range indexes {
		model := mongo.IndexModel{Keys: spec.keys, Options: options.Index().SetUnique(spec.unique)}
		if _, err := GetCollection(spec.collection).Indexes().CreateOne(ctx, model); err != nil {
			return fmt.Errorf("failed to create index on %s: %w", spec.collection, err)
		}
	}
	log.Printf("Ensured %d indexes", len(indexes))
	return nil
}
