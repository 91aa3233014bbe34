package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"hrms-backend/models"
	util "hrms-backend/pkg/utils"
	"hrms-backend/repository"
)

// The fakes embed the repository interfaces so that only the methods a
// test exercises need an implementation; anything else panics.

type fakeUsers struct {
	repository.UserRepository
	mu    sync.Mutex
	users map[primitive.ObjectID]*models.User
}

func newFakeUsers(users ...*models.User) *fakeUsers {
	f := &fakeUsers{users: make(map[primitive.ObjectID]*models.User)}
	for _, u := range users {
		if u.ID.IsZero() {
			u.ID = primitive.NewObjectID()
		}
		f.users[u.ID] = u
	}
	return f
}

func (f *fakeUsers) FindUserByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUsers) FindUserByEmail(_ context.Context, email string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeUsers) CreateUser(_ context.Context, user *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	user.ID = primitive.NewObjectID()
	cp := *user
	f.users[user.ID] = &cp
	return nil
}

func (f *fakeUsers) SaveUser(_ context.Context, user *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.users[user.ID]; !ok {
		return repository.ErrNotFound
	}
	cp := *user
	f.users[user.ID] = &cp
	return nil
}

func (f *fakeUsers) FindActiveUsers(context.Context) ([]models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.User
	for _, u := range f.users {
		if u.IsActive() {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (f *fakeUsers) FindUsersByIDs(_ context.Context, ids []primitive.ObjectID) ([]models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.User
	for _, id := range ids {
		if u, ok := f.users[id]; ok {
			out = append(out, *u)
		}
	}
	return out, nil
}

type fakeOrgs struct {
	repository.OrganizationRepository
	org *models.Organization
}

func (f *fakeOrgs) FindOrganizationByID(_ context.Context, id primitive.ObjectID) (*models.Organization, error) {
	if f.org == nil || f.org.ID != id {
		return nil, repository.ErrNotFound
	}
	return f.org, nil
}

func (f *fakeOrgs) FindDefaultOrganization(context.Context) (*models.Organization, error) {
	if f.org == nil {
		return nil, repository.ErrNotFound
	}
	return f.org, nil
}

type fakeCounters struct {
	repository.CounterRepository
	mu  sync.Mutex
	seq map[string]int64
}

func (f *fakeCounters) NextSequence(_ context.Context, name string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.seq == nil {
		f.seq = make(map[string]int64)
	}
	f.seq[name]++
	return f.seq[name], nil
}

type fakeLeaves struct {
	repository.LeaveRequestRepository
	existing []models.LeaveRequest
	created  []*models.LeaveRequest
}

func (f *fakeLeaves) FindLeaveRequestByID(_ context.Context, id primitive.ObjectID) (*models.LeaveRequest, error) {
	for _, l := range f.existing {
		if l.ID == id {
			cp := l
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeLeaves) UpdateLeaveStatus(_ context.Context, id primitive.ObjectID, status, note string) error {
	for i := range f.existing {
		if f.existing[i].ID == id {
			f.existing[i].Status = status
			f.existing[i].Note = note
			return nil
		}
	}
	return repository.ErrNotFound
}

func (f *fakeLeaves) FindOverlapping(_ context.Context, userID *primitive.ObjectID, from, to string, statuses ...string) ([]models.LeaveRequest, error) {
	var out []models.LeaveRequest
	for _, l := range f.existing {
		if userID != nil && l.UserID != *userID {
			continue
		}
		if l.StartDate > to || l.EndDate < from {
			continue
		}
		for _, s := range statuses {
			if l.Status == s {
				out = append(out, l)
				break
			}
		}
	}
	return out, nil
}

func (f *fakeLeaves) CreateLeaveRequest(_ context.Context, req *models.LeaveRequest) error {
	req.ID = primitive.NewObjectID()
	f.created = append(f.created, req)
	return nil
}

type fakeAttendance struct {
	repository.AttendanceRepository
	qr      map[string]*models.QRCode
	records map[string]*models.Attendance
}

func newFakeAttendance() *fakeAttendance {
	return &fakeAttendance{qr: make(map[string]*models.QRCode), records: make(map[string]*models.Attendance)}
}

func attendanceKey(userID primitive.ObjectID, date string) string {
	return userID.Hex() + "/" + date
}

func (f *fakeAttendance) FindQRCodeByValue(_ context.Context, code string) (*models.QRCode, error) {
	qr, ok := f.qr[code]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return qr, nil
}

func (f *fakeAttendance) MarkQRCodeAsUsed(_ context.Context, id, userID primitive.ObjectID) error {
	for _, qr := range f.qr {
		if qr.ID == id {
			qr.UsedBy = append(qr.UsedBy, userID)
			return nil
		}
	}
	return repository.ErrNotFound
}

func (f *fakeAttendance) FindAttendanceByUserAndDate(_ context.Context, userID primitive.ObjectID, date string) (*models.Attendance, error) {
	a, ok := f.records[attendanceKey(userID, date)]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *a
	return &cp, nil
}

func (f *fakeAttendance) CreateAttendance(_ context.Context, a *models.Attendance) error {
	key := attendanceKey(a.UserID, a.Date)
	if _, ok := f.records[key]; ok {
		return repository.ErrDuplicate
	}
	a.ID = primitive.NewObjectID()
	cp := *a
	f.records[key] = &cp
	return nil
}

func (f *fakeAttendance) SaveAttendance(_ context.Context, a *models.Attendance) error {
	cp := *a
	f.records[attendanceKey(a.UserID, a.Date)] = &cp
	return nil
}

func (f *fakeAttendance) FindAttendances(_ context.Context, filter repository.AttendanceFilter) ([]models.Attendance, error) {
	var out []models.Attendance
	for _, a := range f.records {
		switch {
		case filter.UserID != nil && a.UserID != *filter.UserID:
		case filter.FromDate != "" && a.Date < filter.FromDate:
		case filter.ToDate != "" && a.Date > filter.ToDate:
		case filter.Status != "" && a.Status != filter.Status:
		default:
			out = append(out, *a)
		}
	}
	return out, nil
}

type fakeKRAs struct {
	repository.KRARepository
	created []*models.KRA
}

func (f *fakeKRAs) FindKRA(_ context.Context, userID primitive.ObjectID, year, quarter int) (*models.KRA, error) {
	for _, k := range f.created {
		if k.UserID == userID && k.Year == year && k.Quarter == quarter {
			return k, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeKRAs) CreateKRA(_ context.Context, kra *models.KRA) error {
	kra.ID = primitive.NewObjectID()
	f.created = append(f.created, kra)
	return nil
}

func (f *fakeKRAs) FindKRAByID(_ context.Context, id primitive.ObjectID) (*models.KRA, error) {
	for _, k := range f.created {
		if k.ID == id {
			cp := *k
			cp.Items = append([]models.KRAItem(nil), k.Items...)
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeKRAs) SaveKRA(_ context.Context, kra *models.KRA) error {
	for i, k := range f.created {
		if k.ID == kra.ID {
			cp := *kra
			f.created[i] = &cp
			return nil
		}
	}
	return repository.ErrNotFound
}

type fakeCandidates struct {
	repository.CandidateRepository
	byID map[primitive.ObjectID]*models.Candidate
}

func newFakeCandidates(cs ...*models.Candidate) *fakeCandidates {
	f := &fakeCandidates{byID: make(map[primitive.ObjectID]*models.Candidate)}
	for _, c := range cs {
		if c.ID.IsZero() {
			c.ID = primitive.NewObjectID()
		}
		f.byID[c.ID] = c
	}
	return f
}

func (f *fakeCandidates) CreateCandidate(_ context.Context, c *models.Candidate) error {
	c.ID = primitive.NewObjectID()
	f.byID[c.ID] = c
	return nil
}

func (f *fakeCandidates) FindCandidateByID(_ context.Context, id primitive.ObjectID) (*models.Candidate, error) {
	c, ok := f.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (f *fakeCandidates) SaveCandidate(_ context.Context, c *models.Candidate) error {
	cp := *c
	f.byID[c.ID] = &cp
	return nil
}

type fakePayrolls struct {
	repository.PayrollRepository
	periods     map[primitive.ObjectID]*models.PayrollPeriod
	adjustments []models.PayrollAdjustment
	payrolls    map[primitive.ObjectID]*models.PayrollWithUser
}

func newFakePayrolls(periods ...*models.PayrollPeriod) *fakePayrolls {
	f := &fakePayrolls{
		periods:  make(map[primitive.ObjectID]*models.PayrollPeriod),
		payrolls: make(map[primitive.ObjectID]*models.PayrollWithUser),
	}
	for _, p := range periods {
		f.periods[p.ID] = p
	}
	return f
}

func (f *fakePayrolls) FindPeriodByID(_ context.Context, id primitive.ObjectID) (*models.PayrollPeriod, error) {
	p, ok := f.periods[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (f *fakePayrolls) SavePeriod(_ context.Context, period *models.PayrollPeriod) error {
	cp := *period
	f.periods[period.ID] = &cp
	return nil
}

func (f *fakePayrolls) FindAdjustments(_ context.Context, periodID primitive.ObjectID, userID *primitive.ObjectID) ([]models.PayrollAdjustment, error) {
	var out []models.PayrollAdjustment
	for _, a := range f.adjustments {
		if a.PeriodID == periodID && (userID == nil || a.UserID == *userID) {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakePayrolls) ListPayrollsWithUser(_ context.Context, periodID primitive.ObjectID) ([]models.PayrollWithUser, error) {
	var out []models.PayrollWithUser
	for _, p := range f.payrolls {
		if p.PeriodID == periodID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (f *fakePayrolls) UpsertPayroll(_ context.Context, payroll *models.Payroll) error {
	if payroll.ID.IsZero() {
		payroll.ID = primitive.NewObjectID()
	}
	f.payrolls[payroll.UserID] = &models.PayrollWithUser{Payroll: *payroll}
	return nil
}

type fakeSchedules struct {
	repository.WorkScheduleRepository
	rules []models.WorkSchedule
}

func (f *fakeSchedules) FindSchedulesStartingBy(_ context.Context, date string) ([]models.WorkSchedule, error) {
	var out []models.WorkSchedule
	for _, r := range f.rules {
		if r.Date <= date {
			out = append(out, r)
		}
	}
	return out, nil
}

type fakeTasks struct {
	repository.TaskRepository
	tasks     map[primitive.ObjectID]*models.Task
	responses map[primitive.ObjectID]*models.TaskResponse
}

func newFakeTasks(tasks ...*models.Task) *fakeTasks {
	f := &fakeTasks{
		tasks:     make(map[primitive.ObjectID]*models.Task),
		responses: make(map[primitive.ObjectID]*models.TaskResponse),
	}
	for _, t := range tasks {
		f.tasks[t.ID] = t
	}
	return f
}

func (f *fakeTasks) FindTaskByID(_ context.Context, id primitive.ObjectID) (*models.Task, error) {
	t, ok := f.tasks[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *t
	return &cp, nil
}

func (f *fakeTasks) SaveTask(_ context.Context, task *models.Task) error {
	cp := *task
	f.tasks[task.ID] = &cp
	return nil
}

func (f *fakeTasks) CreateResponse(_ context.Context, resp *models.TaskResponse) error {
	resp.ID = primitive.NewObjectID()
	resp.SubmittedAt = now()
	cp := *resp
	f.responses[resp.ID] = &cp
	return nil
}

func (f *fakeTasks) FindResponseByID(_ context.Context, id primitive.ObjectID) (*models.TaskResponse, error) {
	r, ok := f.responses[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *r
	return &cp, nil
}

func (f *fakeTasks) SaveResponse(_ context.Context, resp *models.TaskResponse) error {
	cp := *resp
	f.responses[resp.ID] = &cp
	return nil
}

type fakeIncrements struct {
	repository.IncrementRepository
	byID map[primitive.ObjectID]*models.SalaryIncrement
}

func newFakeIncrements(incs ...*models.SalaryIncrement) *fakeIncrements {
	f := &fakeIncrements{byID: make(map[primitive.ObjectID]*models.SalaryIncrement)}
	for _, inc := range incs {
		f.byID[inc.ID] = inc
	}
	return f
}

func (f *fakeIncrements) FindIncrementByID(_ context.Context, id primitive.ObjectID) (*models.SalaryIncrement, error) {
	inc, ok := f.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *inc
	return &cp, nil
}

func (f *fakeIncrements) SaveIncrement(_ context.Context, inc *models.SalaryIncrement) error {
	cp := *inc
	f.byID[inc.ID] = &cp
	return nil
}

type fakeIncentives struct {
	repository.IncentiveRepository
	saved []*models.Incentive
}

func (f *fakeIncentives) UpsertIncentive(_ context.Context, inc *models.Incentive) error {
	inc.ID = primitive.NewObjectID()
	f.saved = append(f.saved, inc)
	return nil
}

// fakePerformance serves consolidated quarterly records only.
type fakePerformance struct {
	repository.PerformanceRepository
	records []models.Performance
}

func (f *fakePerformance) FindPerformance(_ context.Context, userID primitive.ObjectID, year, quarter int) (*models.Performance, error) {
	for _, p := range f.records {
		if p.UserID == userID && p.Year == year && p.Quarter == quarter {
			cp := p
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

type fakeGrowth struct {
	repository.GrowthRepository
	quarters []models.CompanyGrowth
}

func (f *fakeGrowth) FindGrowth(_ context.Context, year, quarter int) (*models.CompanyGrowth, error) {
	for _, g := range f.quarters {
		if g.Year == year && g.Quarter == quarter {
			cp := g
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

type sentMail struct {
	category string
	to       []string
	subject  string
	body     string
}

type fakeMailer struct {
	sent []sentMail
}

func (f *fakeMailer) Send(_ context.Context, category string, to []string, subject, body string) (*models.Email, error) {
	f.sent = append(f.sent, sentMail{category, to, subject, body})
	return &models.Email{To: to, Subject: subject, Body: body, Category: category, Status: models.EmailSkipped}, nil
}

func (f *fakeMailer) Notify(ctx context.Context, category string, to, subject, body string) {
	f.Send(ctx, category, []string{to}, subject, body)
}

// newTestApp returns an app that renders errors like the server does and
// authenticates every request as claims.
func newTestApp(claims *models.Claims) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: util.ErrorHandler})
	app.Use(func(c *fiber.Ctx) error {
		if claims != nil {
			c.Locals("user", claims)
		}
		return c.Next()
	})
	return app
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func doJSON(t *testing.T, app *fiber.App, method, path string, body interface{}) (int, envelope) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()

	var env envelope
	if resp.StatusCode != http.StatusNoContent {
		if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
			t.Fatalf("decode envelope: %v", err)
		}
	}
	return resp.StatusCode, env
}

// freezeClock pins now() for the duration of the test.
func freezeClock(t *testing.T, at time.Time) {
	t.Helper()
	prev := nowFunc
	nowFunc = func() time.Time { return at }
	t.Cleanup(func() { nowFunc = prev })
}
