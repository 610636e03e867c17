package payroll

import (
	"context"
	"fmt"

	"github.com/Neon-Gen/finovix-sub000/internal/audit"
	"github.com/Neon-Gen/finovix-sub000/internal/model"
)

// Store persists attendance records with keyed upsert semantics: one
// record per (employee, date), last write wins, no history retained.
type Store interface {
	Upsert(ctx context.Context, rec model.AttendanceRecord) (model.AttendanceRecord, error)
	Get(ctx context.Context, employeeID uint64, date string) (model.AttendanceRecord, error)
	ListByEmployee(ctx context.Context, employeeID uint64) ([]model.AttendanceRecord, error)
}

// RateSource resolves an employee's pay rates.
type RateSource interface {
	Rates(ctx context.Context, employeeID uint64) (hourly, overtime float64, err error)
}

// Service applies the attendance rules and writes through the store.
type Service struct {
	store Store
	rates RateSource
	sink  audit.Sink
}

// NewService wires a Service. A nil sink disables auditing.
func NewService(store Store, rates RateSource, sink audit.Sink) *Service {
	if sink == nil {
		sink = audit.Discard{}
	}
	return &Service{store: store, rates: rates, sink: sink}
}

// UpsertInput is one "mark attendance" submission.
type UpsertInput struct {
	EmployeeID uint64
	Date       string // YYYY-MM-DD
	Status     string
	CheckIn    string // "HH:MM", "" allowed only for absent
	CheckOut   string // "HH:MM" or "" while the shift is open
}

// Upsert validates the submission, computes hours and pay, and replaces
// any prior record for the (employee, date) key. An absent status
// ignores any supplied times and produces a zeroed record; every other
// status requires a check-in and fails with ErrCheckInRequired (and no
// write) without one.
func (s *Service) Upsert(ctx context.Context, in UpsertInput) (model.AttendanceRecord, error) {
	if !model.ValidStatus(in.Status) {
		return model.AttendanceRecord{}, fmt.Errorf("%w: %q", ErrUnknownStatus, in.Status)
	}
	if in.Status == model.StatusAbsent {
		return s.MarkAbsent(ctx, in.EmployeeID, in.Date)
	}
	if in.CheckIn == "" {
		return model.AttendanceRecord{}, ErrCheckInRequired
	}

	hourly, overtime, err := s.rates.Rates(ctx, in.EmployeeID)
	if err != nil {
		return model.AttendanceRecord{}, fmt.Errorf("load rates: %w", err)
	}
	bd, err := ComputeHoursAndPay(in.CheckIn, in.CheckOut, hourly, overtime)
	if err != nil {
		return model.AttendanceRecord{}, err
	}

	rec := model.AttendanceRecord{
		EmployeeID:    in.EmployeeID,
		Date:          in.Date,
		CheckIn:       in.CheckIn,
		CheckOut:      in.CheckOut,
		RegularHours:  bd.RegularHours,
		OvertimeHours: bd.OvertimeHours,
		TotalPay:      bd.TotalPay,
		Status:        in.Status,
	}
	saved, err := s.store.Upsert(ctx, rec)
	if err != nil {
		return model.AttendanceRecord{}, fmt.Errorf("store attendance: %w", err)
	}
	s.sink.Record(in.EmployeeID, audit.TypeAttendanceRecorded, map[string]string{
		"date":   in.Date,
		"status": in.Status,
	})
	return saved, nil
}

// MarkAbsent writes the terminal absent record for the key: empty
// times, zero hours, zero pay. Idempotent overwrite of whatever was
// stored before.
func (s *Service) MarkAbsent(ctx context.Context, employeeID uint64, date string) (model.AttendanceRecord, error) {
	rec := model.AttendanceRecord{
		EmployeeID: employeeID,
		Date:       date,
		Status:     model.StatusAbsent,
	}
	saved, err := s.store.Upsert(ctx, rec)
	if err != nil {
		return model.AttendanceRecord{}, fmt.Errorf("store attendance: %w", err)
	}
	s.sink.Record(employeeID, audit.TypeAttendanceMarkAbsent, map[string]string{"date": date})
	return saved, nil
}

// List returns all stored records for an employee.
func (s *Service) List(ctx context.Context, employeeID uint64) ([]model.AttendanceRecord, error) {
	recs, err := s.store.ListByEmployee(ctx, employeeID)
	if err != nil {
		return nil, fmt.Errorf("list attendance: %w", err)
	}
	return recs, nil
}

// Summary aggregates an employee's stored records.
type Summary struct {
	EmployeeID    uint64  `json:"employee_id"`
	DaysPresent   int     `json:"days_present"`
	DaysAbsent    int     `json:"days_absent"`
	RegularHours  float64 `json:"regular_hours"`
	OvertimeHours float64 `json:"overtime_hours"`
	TotalPay      float64 `json:"total_pay"`
}

// Summarize folds all records for an employee into totals for the
// reporting views.
func (s *Service) Summarize(ctx context.Context, employeeID uint64) (Summary, error) {
	recs, err := s.store.ListByEmployee(ctx, employeeID)
	if err != nil {
		return Summary{}, fmt.Errorf("list attendance: %w", err)
	}
	sum := Summary{EmployeeID: employeeID}
	for _, r := range recs {
		if r.Status == model.StatusAbsent {
			sum.DaysAbsent++
			continue
		}
		sum.DaysPresent++
		sum.RegularHours += r.RegularHours
		sum.OvertimeHours += r.OvertimeHours
		sum.TotalPay += r.TotalPay
	}
	return sum, nil
}
