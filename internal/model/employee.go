package model

import "time"

// Employee mirrors the `employees` table. Employees belong to the user
// (business owner) that created them; pay rates are per hour and must be
// non-negative.
type Employee struct {
	ID           uint64    // employees.id
	OwnerID      uint64    // employees.owner_id (references users.id)
	FullName     string    // employees.full_name
	Position     string    // employees.position
	HourlyRate   float64   // employees.hourly_rate
	OvertimeRate float64   // employees.overtime_rate
	IsActive     bool      // employees.is_active
	CreatedAt    time.Time // employees.created_at
	UpdatedAt    time.Time // employees.updated_at
}
