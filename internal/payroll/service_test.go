package payroll

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/Neon-Gen/finovix-sub000/internal/model"
)

type recKey struct {
	employeeID uint64
	date       string
}

// memStore is an in-memory Store keyed by (employee, date).
type memStore struct {
	mu   sync.Mutex
	recs map[recKey]model.AttendanceRecord
}

func newMemStore() *memStore {
	return &memStore{recs: make(map[recKey]model.AttendanceRecord)}
}

func key(employeeID uint64, date string) recKey {
	return recKey{employeeID: employeeID, date: date}
}

func (m *memStore) Upsert(_ context.Context, rec model.AttendanceRecord) (model.AttendanceRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.recs[key(rec.EmployeeID, rec.Date)] = rec
	return rec, nil
}

func (m *memStore) Get(_ context.Context, employeeID uint64, date string) (model.AttendanceRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.recs[key(employeeID, date)]
	if !ok {
		return model.AttendanceRecord{}, errors.New("not found")
	}
	return rec, nil
}

func (m *memStore) ListByEmployee(_ context.Context, employeeID uint64) ([]model.AttendanceRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.AttendanceRecord
	for _, rec := range m.recs {
		if rec.EmployeeID == employeeID {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (m *memStore) len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.recs)
}

// fixedRates returns the same rates for every employee.
type fixedRates struct{ hourly, overtime float64 }

func (f fixedRates) Rates(context.Context, uint64) (float64, float64, error) {
	return f.hourly, f.overtime, nil
}

func newTestService(store *memStore) *Service {
	return NewService(store, fixedRates{hourly: 100, overtime: 150}, nil)
}

func TestUpsertComputesPay(t *testing.T) {
	store := newMemStore()
	svc := newTestService(store)

	rec, err := svc.Upsert(context.Background(), UpsertInput{
		EmployeeID: 7, Date: "2025-03-10", Status: model.StatusPresent,
		CheckIn: "09:00", CheckOut: "18:00",
	})
	if err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if rec.RegularHours != 8 || rec.OvertimeHours != 1 || rec.TotalPay != 950 {
		t.Errorf("got %+v, want 8h regular, 1h overtime, 950 pay", rec)
	}
	if rec.Status != model.StatusPresent {
		t.Errorf("Status = %q, want present", rec.Status)
	}
}

func TestUpsertOpenShiftHasZeroHours(t *testing.T) {
	store := newMemStore()
	svc := newTestService(store)

	rec, err := svc.Upsert(context.Background(), UpsertInput{
		EmployeeID: 7, Date: "2025-03-10", Status: model.StatusPresent,
		CheckIn: "09:00",
	})
	if err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if rec.RegularHours != 0 || rec.OvertimeHours != 0 || rec.TotalPay != 0 {
		t.Errorf("open shift should compute zero until checkout, got %+v", rec)
	}
	if rec.CheckIn != "09:00" {
		t.Errorf("CheckIn = %q, want 09:00", rec.CheckIn)
	}
}

func TestUpsertRequiresCheckIn(t *testing.T) {
	store := newMemStore()
	svc := newTestService(store)

	_, err := svc.Upsert(context.Background(), UpsertInput{
		EmployeeID: 7, Date: "2025-03-10", Status: model.StatusPresent,
	})
	if !errors.Is(err, ErrCheckInRequired) {
		t.Fatalf("error = %v, want ErrCheckInRequired", err)
	}
	if store.len() != 0 {
		t.Errorf("no write must happen on validation failure, store has %d records", store.len())
	}
}

func TestUpsertRejectsUnknownStatus(t *testing.T) {
	svc := newTestService(newMemStore())
	_, err := svc.Upsert(context.Background(), UpsertInput{
		EmployeeID: 7, Date: "2025-03-10", Status: "vacationing", CheckIn: "09:00",
	})
	if !errors.Is(err, ErrUnknownStatus) {
		t.Fatalf("error = %v, want ErrUnknownStatus", err)
	}
}

func TestMarkAbsentZeroesEverything(t *testing.T) {
	store := newMemStore()
	svc := newTestService(store)
	ctx := context.Background()

	// A worked record exists first; absent must fully overwrite it.
	if _, err := svc.Upsert(ctx, UpsertInput{
		EmployeeID: 7, Date: "2025-03-10", Status: model.StatusPresent,
		CheckIn: "09:00", CheckOut: "18:00",
	}); err != nil {
		t.Fatalf("seed Upsert: %v", err)
	}

	rec, err := svc.MarkAbsent(ctx, 7, "2025-03-10")
	if err != nil {
		t.Fatalf("MarkAbsent: %v", err)
	}
	if rec.Status != model.StatusAbsent {
		t.Errorf("Status = %q, want absent", rec.Status)
	}
	if rec.RegularHours != 0 || rec.OvertimeHours != 0 || rec.TotalPay != 0 {
		t.Errorf("absent record must be zeroed, got %+v", rec)
	}
	if rec.CheckIn != "" || rec.CheckOut != "" {
		t.Errorf("absent record must have empty times, got in=%q out=%q", rec.CheckIn, rec.CheckOut)
	}

	stored, err := store.Get(ctx, 7, "2025-03-10")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if stored.TotalPay != 0 || stored.CheckIn != "" {
		t.Errorf("stored record not overwritten: %+v", stored)
	}
}

func TestAbsentThenPresentOverwritesEntirely(t *testing.T) {
	store := newMemStore()
	svc := newTestService(store)
	ctx := context.Background()

	if _, err := svc.MarkAbsent(ctx, 7, "2025-03-10"); err != nil {
		t.Fatalf("MarkAbsent: %v", err)
	}
	rec, err := svc.Upsert(ctx, UpsertInput{
		EmployeeID: 7, Date: "2025-03-10", Status: model.StatusLate,
		CheckIn: "10:00", CheckOut: "18:00",
	})
	if err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if rec.Status != model.StatusLate || rec.RegularHours != 8 {
		t.Errorf("re-submission must fully replace the absent record, got %+v", rec)
	}
	if store.len() != 1 {
		t.Errorf("store must hold one record per key, has %d", store.len())
	}
}

func TestUpsertAbsentIgnoresSuppliedTimes(t *testing.T) {
	svc := newTestService(newMemStore())
	rec, err := svc.Upsert(context.Background(), UpsertInput{
		EmployeeID: 7, Date: "2025-03-10", Status: model.StatusAbsent,
		CheckIn: "09:00", CheckOut: "18:00",
	})
	if err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if rec.CheckIn != "" || rec.CheckOut != "" || rec.TotalPay != 0 {
		t.Errorf("absent must ignore supplied times, got %+v", rec)
	}
}

func TestSummarize(t *testing.T) {
	store := newMemStore()
	svc := newTestService(store)
	ctx := context.Background()

	days := []UpsertInput{
		{EmployeeID: 7, Date: "2025-03-10", Status: model.StatusPresent, CheckIn: "09:00", CheckOut: "18:00"},
		{EmployeeID: 7, Date: "2025-03-11", Status: model.StatusPresent, CheckIn: "09:00", CheckOut: "17:00"},
	}
	for _, d := range days {
		if _, err := svc.Upsert(ctx, d); err != nil {
			t.Fatalf("Upsert %s: %v", d.Date, err)
		}
	}
	if _, err := svc.MarkAbsent(ctx, 7, "2025-03-12"); err != nil {
		t.Fatalf("MarkAbsent: %v", err)
	}

	sum, err := svc.Summarize(ctx, 7)
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}
	if sum.DaysPresent != 2 || sum.DaysAbsent != 1 {
		t.Errorf("days = %d present / %d absent, want 2/1", sum.DaysPresent, sum.DaysAbsent)
	}
	if sum.RegularHours != 16 || sum.OvertimeHours != 1 {
		t.Errorf("hours = %v regular / %v overtime, want 16/1", sum.RegularHours, sum.OvertimeHours)
	}
	if sum.TotalPay != 950+800 {
		t.Errorf("TotalPay = %v, want 1750", sum.TotalPay)
	}
}
