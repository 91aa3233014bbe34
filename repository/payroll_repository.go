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

type PayrollRepository interface {
	CreatePeriod(ctx context.Context, period *models.PayrollPeriod) error
	FindPeriodByID(ctx context.Context, id primitive.ObjectID) (*models.PayrollPeriod, error)
	FindPeriodByMonth(ctx context.Context, month string) (*models.PayrollPeriod, error)
	ListPeriods(ctx context.Context) ([]models.PayrollPeriod, error)
	SavePeriod(ctx context.Context, period *models.PayrollPeriod) error

	CreateAdjustment(ctx context.Context, adj *models.PayrollAdjustment) error
	FindAdjustments(ctx context.Context, periodID primitive.ObjectID, userID *primitive.ObjectID) ([]models.PayrollAdjustment, error)
	DeleteAdjustment(ctx context.Context, id primitive.ObjectID) error

	// UpsertPayroll writes the run for (user, period), keeping the original _id.
	UpsertPayroll(ctx context.Context, payroll *models.Payroll) error
	FindPayrollByID(ctx context.Context, id primitive.ObjectID) (*models.Payroll, error)
	FindPayrollsByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Payroll, error)
	ListPayrollsWithUser(ctx context.Context, periodID primitive.ObjectID) ([]models.PayrollWithUser, error)
	FindLatestPayroll(ctx context.Context, userID primitive.ObjectID) (*models.Payroll, error)
	SavePayroll(ctx context.Context, payroll *models.Payroll) error
}

type payrollRepository struct {
	periods     *mongo.Collection
	adjustments *mongo.Collection
	payrolls    *mongo.Collection
}

func NewPayrollRepository() PayrollRepository {
	return &payrollRepository{
		periods:     config.GetCollection(config.PayrollPeriodCollection),
		adjustments: config.GetCollection(config.PayrollAdjustmentCollection),
		payrolls:    config.GetCollection(config.PayrollCollection),
	}
}

func (r *payrollRepository) CreatePeriod(ctx context.Context, period *models.PayrollPeriod) error {
	now := time.Now()
	period.ID = primitive.NewObjectID()
	period.CreatedAt = now
	period.UpdatedAt = now
	if _, err := r.periods.InsertOne(ctx, period); err != nil {
		return wrap(err, "failed to create payroll period")
	}
	return nil
}

func (r *payrollRepository) FindPeriodByID(ctx context.Context, id primitive.ObjectID) (*models.PayrollPeriod, error) {
	var period models.PayrollPeriod
	if err := r.periods.FindOne(ctx, bson.M{"_id": id}).Decode(&period); err != nil {
		return nil, wrap(err, "failed to find payroll period")
	}
	return &period, nil
}

func (r *payrollRepository) FindPeriodByMonth(ctx context.Context, month string) (*models.PayrollPeriod, error) {
	var period models.PayrollPeriod
	if err := r.periods.FindOne(ctx, bson.M{"month": month}).Decode(&period); err != nil {
		return nil, wrap(err, "failed to find payroll period")
	}
	return &period, nil
}

func (r *payrollRepository) ListPeriods(ctx context.Context) ([]models.PayrollPeriod, error) {
	opts := options.Find().SetSort(bson.D{{Key: "month", Value: -1}})
	periods, err := findAll[models.PayrollPeriod](ctx, r.periods, bson.M{}, opts)
	return periods, wrap(err, "failed to list payroll periods")
}

func (r *payrollRepository) SavePeriod(ctx context.Context, period *models.PayrollPeriod) error {
	period.UpdatedAt = time.Now()
	res, err := r.periods.ReplaceOne(ctx, bson.M{"_id": period.ID}, period)
	if err != nil {
		return wrap(err, "failed to update payroll period")
	}
	return notFoundIfUnmatched(res)
}

func (r *payrollRepository) CreateAdjustment(ctx context.Context, adj *models.PayrollAdjustment) error {
	adj.ID = primitive.NewObjectID()
	adj.CreatedAt = time.Now()
	if _, err := r.adjustments.InsertOne(ctx, adj); err != nil {
		return wrap(err, "failed to create payroll adjustment")
	}
	return nil
}

func (r *payrollRepository) FindAdjustments(ctx context.Context, periodID primitive.ObjectID, userID *primitive.ObjectID) ([]models.PayrollAdjustment, error) {
	filter := bson.M{"period_id": periodID}
	if userID != nil {
		filter["user_id"] = *userID
	}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	adjs, err := findAll[models.PayrollAdjustment](ctx, r.adjustments, filter, opts)
	return adjs, wrap(err, "failed to find payroll adjustments")
}

func (r *payrollRepository) DeleteAdjustment(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.adjustments.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return wrap(err, "failed to delete payroll adjustment")
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *payrollRepository) UpsertPayroll(ctx context.Context, payroll *models.Payroll) error {
	now := time.Now()
	filter := bson.M{"user_id": payroll.UserID, "period_id": payroll.PeriodID}
	update := bson.M{
		"$set": bson.M{
			"month":            payroll.Month,
			"monthly_salary":   payroll.MonthlySalary,
			"working_days":     payroll.WorkingDays,
			"paid_days":        payroll.PaidDays,
			"lop_days":         payroll.LOPDays,
			"overtime_hours":   payroll.OvertimeHours,
			"earnings":         payroll.Earnings,
			"deductions":       payroll.Deductions,
			"gross":            payroll.Gross,
			"total_deductions": payroll.TotalDeductions,
			"net_pay":          payroll.NetPay,
			"status":           payroll.Status,
			"updated_at":       now,
		},
		"$setOnInsert": bson.M{"created_at": now},
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)
	if err := r.payrolls.FindOneAndUpdate(ctx, filter, update, opts).Decode(payroll); err != nil {
		return wrap(err, "failed to save payroll")
	}
	return nil
}

func (r *payrollRepository) FindPayrollByID(ctx context.Context, id primitive.ObjectID) (*models.Payroll, error) {
	var payroll models.Payroll
	if err := r.payrolls.FindOne(ctx, bson.M{"_id": id}).Decode(&payroll); err != nil {
		return nil, wrap(err, "failed to find payroll")
	}
	return &payroll, nil
}

func (r *payrollRepository) FindPayrollsByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Payroll, error) {
	opts := options.Find().SetSort(bson.D{{Key: "month", Value: -1}})
	payrolls, err := findAll[models.Payroll](ctx, r.payrolls, bson.M{"user_id": userID}, opts)
	return payrolls, wrap(err, "failed to find payrolls")
}

func (r *payrollRepository) ListPayrollsWithUser(ctx context.Context, periodID primitive.ObjectID) ([]models.PayrollWithUser, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"period_id": periodID}}},
	}
	pipeline = append(pipeline, withUserStages("user_id")...)
	pipeline = append(pipeline, bson.D{{Key: "$sort", Value: bson.D{{Key: "user_employee_id", Value: 1}}}})

	payrolls, err := aggregateAll[models.PayrollWithUser](ctx, r.payrolls, pipeline)
	return payrolls, wrap(err, "failed to list payrolls")
}

func (r *payrollRepository) FindLatestPayroll(ctx context.Context, userID primitive.ObjectID) (*models.Payroll, error) {
	var payroll models.Payroll
	opts := options.FindOne().SetSort(bson.D{{Key: "month", Value: -1}})
	if err := r.payrolls.FindOne(ctx, bson.M{"user_id": userID}, opts).Decode(&payroll); err != nil {
		return nil, wrap(err, "failed to find latest payroll")
	}
	return &payroll, nil
}

func (r *payrollRepository) SavePayroll(ctx context.Context, payroll *models.Payroll) error {
	payroll.UpdatedAt = time.Now()
	res, err := r.payrolls.ReplaceOne(ctx, bson.M{"_id": payroll.ID}, payroll)
	if err != nil {
		return wrap(err, "failed to update payroll")
	}
	return notFoundIfUnmatched(res)
}
