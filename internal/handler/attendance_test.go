package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/Neon-Gen/finovix-sub000/internal/model"
	"github.com/Neon-Gen/finovix-sub000/internal/payroll"
	"github.com/Neon-Gen/finovix-sub000/internal/repository"
)

/**************
 * FAKES
 **************/

// fakeEmployees is an in-memory EmployeeDirectory that also serves as
// the payroll rate source.
type fakeEmployees struct {
	mu     sync.Mutex
	nextID uint64
	byID   map[uint64]model.Employee
}

func newFakeEmployees() *fakeEmployees {
	return &fakeEmployees{nextID: 1, byID: make(map[uint64]model.Employee)}
}

func (f *fakeEmployees) Create(_ context.Context, e model.Employee) (uint64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	e.ID = f.nextID
	f.nextID++
	f.byID[e.ID] = e
	return e.ID, nil
}

func (f *fakeEmployees) GetByID(_ context.Context, id uint64) (model.Employee, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	e, ok := f.byID[id]
	if !ok {
		return model.Employee{}, repository.ErrNotFound
	}
	return e, nil
}

func (f *fakeEmployees) ListByOwner(_ context.Context, ownerID uint64) ([]model.Employee, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.Employee
	for _, e := range f.byID {
		if e.OwnerID == ownerID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeEmployees) Rates(_ context.Context, employeeID uint64) (float64, float64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	e, ok := f.byID[employeeID]
	if !ok {
		return 0, 0, repository.ErrNotFound
	}
	return e.HourlyRate, e.OvertimeRate, nil
}

// memAttendance is an in-memory payroll.Store.
type memAttendance struct {
	mu   sync.Mutex
	recs map[uint64]map[string]model.AttendanceRecord
}

func newMemAttendance() *memAttendance {
	return &memAttendance{recs: make(map[uint64]map[string]model.AttendanceRecord)}
}

func (m *memAttendance) Upsert(_ context.Context, rec model.AttendanceRecord) (model.AttendanceRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.recs[rec.EmployeeID] == nil {
		m.recs[rec.EmployeeID] = make(map[string]model.AttendanceRecord)
	}
	m.recs[rec.EmployeeID][rec.Date] = rec
	return rec, nil
}

func (m *memAttendance) Get(_ context.Context, employeeID uint64, date string) (model.AttendanceRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.recs[employeeID][date]
	if !ok {
		return model.AttendanceRecord{}, repository.ErrNotFound
	}
	return rec, nil
}

func (m *memAttendance) ListByEmployee(_ context.Context, employeeID uint64) ([]model.AttendanceRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.AttendanceRecord
	for _, rec := range m.recs[employeeID] {
		out = append(out, rec)
	}
	return out, nil
}

type attendanceFixture struct {
	handler    *AttendanceHandler
	store      *memAttendance
	employeeID uint64
}

func newAttendanceFixture(t *testing.T) attendanceFixture {
	t.Helper()
	employees := newFakeEmployees()
	id, err := employees.Create(context.Background(), model.Employee{
		OwnerID: 1, FullName: "Dana", HourlyRate: 100, OvertimeRate: 150,
	})
	if err != nil {
		t.Fatalf("seed employee: %v", err)
	}
	store := newMemAttendance()
	svc := payroll.NewService(store, employees, nil)
	return attendanceFixture{
		handler:    NewAttendanceHandler(svc, employees),
		store:      store,
		employeeID: id,
	}
}

// asUser runs a handler with an authenticated user id in context, the
// way the JWT middleware would provide it.
func asUser(t *testing.T, userID uint64, h echo.HandlerFunc, method, path, body string, params ...string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("user_id", userID)
	for i := 0; i+1 < len(params); i += 2 {
		c.SetParamNames(params[i])
		c.SetParamValues(params[i+1])
	}
	if err := h(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	return rec
}

/**************
 * TESTS
 **************/

func TestAttendanceUpsert(t *testing.T) {
	fx := newAttendanceFixture(t)
	rec := asUser(t, 1, fx.handler.Upsert, http.MethodPost, "/v1/attendance",
		`{"employee_id":1,"date":"2025-03-10","status":"present","check_in":"09:00","check_out":"18:00"}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body %s", rec.Code, rec.Body)
	}
	var resp attendanceResp
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp.RegularHours != 8 || resp.OvertimeHours != 1 || resp.TotalPay != 950 {
		t.Errorf("breakdown = %+v, want 8/1/950", resp)
	}
}

func TestAttendanceUpsertRequiresCheckIn(t *testing.T) {
	fx := newAttendanceFixture(t)
	rec := asUser(t, 1, fx.handler.Upsert, http.MethodPost, "/v1/attendance",
		`{"employee_id":1,"date":"2025-03-10","status":"present"}`)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if _, err := fx.store.Get(context.Background(), fx.employeeID, "2025-03-10"); err == nil {
		t.Error("validation failure must not write a record")
	}
}

func TestAttendanceUpsertForeignEmployee(t *testing.T) {
	fx := newAttendanceFixture(t)
	rec := asUser(t, 99, fx.handler.Upsert, http.MethodPost, "/v1/attendance",
		`{"employee_id":1,"date":"2025-03-10","status":"present","check_in":"09:00"}`)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404 for another owner's employee", rec.Code)
	}
}

func TestAttendanceUpsertBadDate(t *testing.T) {
	fx := newAttendanceFixture(t)
	rec := asUser(t, 1, fx.handler.Upsert, http.MethodPost, "/v1/attendance",
		`{"employee_id":1,"date":"10/03/2025","status":"present","check_in":"09:00"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestMarkAbsentOverwrites(t *testing.T) {
	fx := newAttendanceFixture(t)
	asUser(t, 1, fx.handler.Upsert, http.MethodPost, "/v1/attendance",
		`{"employee_id":1,"date":"2025-03-10","status":"present","check_in":"09:00","check_out":"18:00"}`)

	rec := asUser(t, 1, fx.handler.MarkAbsent, http.MethodPost, "/v1/attendance/absent",
		`{"employee_id":1,"date":"2025-03-10"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body %s", rec.Code, rec.Body)
	}

	stored, err := fx.store.Get(context.Background(), fx.employeeID, "2025-03-10")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if stored.Status != model.StatusAbsent || stored.TotalPay != 0 || stored.CheckIn != "" {
		t.Errorf("absent must fully replace the record, got %+v", stored)
	}
}

func TestAttendanceListAndSummary(t *testing.T) {
	fx := newAttendanceFixture(t)
	for _, body := range []string{
		`{"employee_id":1,"date":"2025-03-10","status":"present","check_in":"09:00","check_out":"18:00"}`,
		`{"employee_id":1,"date":"2025-03-11","status":"late","check_in":"10:00","check_out":"18:00"}`,
	} {
		asUser(t, 1, fx.handler.Upsert, http.MethodPost, "/v1/attendance", body)
	}

	rec := asUser(t, 1, fx.handler.List, http.MethodGet, "/v1/employees/1/attendance", "", "id", "1")
	if rec.Code != http.StatusOK {
		t.Fatalf("list status = %d; body %s", rec.Code, rec.Body)
	}
	var list []attendanceResp
	if err := json.Unmarshal(rec.Body.Bytes(), &list); err != nil {
		t.Fatalf("unmarshal list: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("len(list) = %d, want 2", len(list))
	}

	rec = asUser(t, 1, fx.handler.Summary, http.MethodGet, "/v1/employees/1/summary", "", "id", "1")
	if rec.Code != http.StatusOK {
		t.Fatalf("summary status = %d; body %s", rec.Code, rec.Body)
	}
	var sum payroll.Summary
	if err := json.Unmarshal(rec.Body.Bytes(), &sum); err != nil {
		t.Fatalf("unmarshal summary: %v", err)
	}
	if sum.DaysPresent != 2 || sum.TotalPay != 950+800 {
		t.Errorf("summary = %+v, want 2 days / 1750 pay", sum)
	}
}

func TestEmployeeCreateValidation(t *testing.T) {
	fx := newAttendanceFixture(t)
	emp := NewEmployeeHandler(fx.handler.Employees)

	rec := asUser(t, 1, emp.Create, http.MethodPost, "/v1/employees",
		`{"full_name":"","hourly_rate":10,"overtime_rate":15}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("empty name status = %d, want 400", rec.Code)
	}

	rec = asUser(t, 1, emp.Create, http.MethodPost, "/v1/employees",
		`{"full_name":"Kim","hourly_rate":-1,"overtime_rate":15}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("negative rate status = %d, want 400", rec.Code)
	}

	rec = asUser(t, 1, emp.Create, http.MethodPost, "/v1/employees",
		`{"full_name":"Kim","position":"barista","hourly_rate":12.5,"overtime_rate":18.75}`)
	if rec.Code != http.StatusCreated {
		t.Errorf("create status = %d, want 201; body %s", rec.Code, rec.Body)
	}
}
