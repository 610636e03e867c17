package model

import "time"

// Attendance status values. An absent record carries no times and no pay;
// late and half_day are caller-selected variants of a worked day.
const (
	StatusPresent = "present"
	StatusAbsent  = "absent"
	StatusLate    = "late"
	StatusHalfDay = "half_day"
)

// ValidStatus reports whether s is one of the recognised attendance
// statuses.
func ValidStatus(s string) bool {
	switch s {
	case StatusPresent, StatusAbsent, StatusLate, StatusHalfDay:
		return true
	}
	return false
}

// AttendanceRecord mirrors the `attendance_records` table. One record
// exists per (employee, date); a new submission for the same key replaces
// the prior record. CheckIn and CheckOut are time-of-day strings in
// "HH:MM" form; CheckOut is empty while a shift is still open.
type AttendanceRecord struct {
	ID            uint64    // attendance_records.id
	EmployeeID    uint64    // attendance_records.employee_id
	Date          string    // attendance_records.work_date (YYYY-MM-DD)
	CheckIn       string    // attendance_records.check_in ("" when absent)
	CheckOut      string    // attendance_records.check_out ("" while open)
	RegularHours  float64   // attendance_records.regular_hours
	OvertimeHours float64   // attendance_records.overtime_hours
	TotalPay      float64   // attendance_records.total_pay
	Status        string    // attendance_records.status
	CreatedAt     time.Time // attendance_records.created_at
	UpdatedAt     time.Time // attendance_records.updated_at
}
