package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Neon-Gen/finovix-sub000/internal/model"
)

// AttendanceRepo stores one record per (employee, date). Upsert uses
// ON DUPLICATE KEY UPDATE so a new submission fully replaces the prior
// record: last write wins, no history retained.
type AttendanceRepo struct{ DB *sql.DB }

func NewAttendanceRepo(db *sql.DB) *AttendanceRepo { return &AttendanceRepo{DB: db} }

const attendanceColumns = "id,employee_id,work_date,check_in,check_out,regular_hours,overtime_hours,total_pay,status,created_at,updated_at"

// Upsert writes rec, replacing any existing record with the same
// (employee_id, work_date) key, and returns the stored row.
func (r *AttendanceRepo) Upsert(ctx context.Context, rec model.AttendanceRecord) (model.AttendanceRecord, error) {
	_, err := r.DB.ExecContext(ctx,
		`INSERT INTO attendance_records
		   (employee_id, work_date, check_in, check_out, regular_hours, overtime_hours, total_pay, status)
		 VALUES (?,?,?,?,?,?,?,?)
		 ON DUPLICATE KEY UPDATE
		   check_in=VALUES(check_in), check_out=VALUES(check_out),
		   regular_hours=VALUES(regular_hours), overtime_hours=VALUES(overtime_hours),
		   total_pay=VALUES(total_pay), status=VALUES(status)`,
		rec.EmployeeID, rec.Date, rec.CheckIn, rec.CheckOut,
		rec.RegularHours, rec.OvertimeHours, rec.TotalPay, rec.Status)
	if err != nil {
		return model.AttendanceRecord{}, err
	}
	return r.Get(ctx, rec.EmployeeID, rec.Date)
}

// Get fetches the record for one (employee, date) key.
func (r *AttendanceRepo) Get(ctx context.Context, employeeID uint64, date string) (model.AttendanceRecord, error) {
	var rec model.AttendanceRecord
	err := r.DB.QueryRowContext(ctx,
		"SELECT "+attendanceColumns+" FROM attendance_records WHERE employee_id=? AND work_date=? LIMIT 1",
		employeeID, date).Scan(&rec.ID, &rec.EmployeeID, &rec.Date, &rec.CheckIn, &rec.CheckOut,
		&rec.RegularHours, &rec.OvertimeHours, &rec.TotalPay, &rec.Status, &rec.CreatedAt, &rec.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.AttendanceRecord{}, ErrNotFound
	}
	return rec, err
}

// ListByEmployee returns all records for an employee, newest date first.
func (r *AttendanceRepo) ListByEmployee(ctx context.Context, employeeID uint64) ([]model.AttendanceRecord, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+attendanceColumns+" FROM attendance_records WHERE employee_id=? ORDER BY work_date DESC",
		employeeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.AttendanceRecord
	for rows.Next() {
		var rec model.AttendanceRecord
		if err := rows.Scan(&rec.ID, &rec.EmployeeID, &rec.Date, &rec.CheckIn, &rec.CheckOut,
			&rec.RegularHours, &rec.OvertimeHours, &rec.TotalPay, &rec.Status, &rec.CreatedAt, &rec.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}
