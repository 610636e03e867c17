package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Neon-Gen/finovix-sub000/internal/model"
)

type EmployeeRepo struct{ DB *sql.DB }

func NewEmployeeRepo(db *sql.DB) *EmployeeRepo { return &EmployeeRepo{DB: db} }

const employeeColumns = "id,owner_id,full_name,position,hourly_rate,overtime_rate,is_active,created_at,updated_at"

// Create inserts an employee under the given owner and returns its ID.
func (r *EmployeeRepo) Create(ctx context.Context, e model.Employee) (uint64, error) {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO employees (owner_id, full_name, position, hourly_rate, overtime_rate) VALUES (?,?,?,?,?)",
		e.OwnerID, e.FullName, e.Position, e.HourlyRate, e.OvertimeRate)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetByID fetches one employee.
func (r *EmployeeRepo) GetByID(ctx context.Context, id uint64) (model.Employee, error) {
	var e model.Employee
	err := r.DB.QueryRowContext(ctx,
		"SELECT "+employeeColumns+" FROM employees WHERE id=? LIMIT 1",
		id).Scan(&e.ID, &e.OwnerID, &e.FullName, &e.Position, &e.HourlyRate, &e.OvertimeRate, &e.IsActive, &e.CreatedAt, &e.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Employee{}, ErrNotFound
	}
	return e, err
}

// ListByOwner returns all employees belonging to a user.
func (r *EmployeeRepo) ListByOwner(ctx context.Context, ownerID uint64) ([]model.Employee, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+employeeColumns+" FROM employees WHERE owner_id=? ORDER BY id",
		ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Employee
	for rows.Next() {
		var e model.Employee
		if err := rows.Scan(&e.ID, &e.OwnerID, &e.FullName, &e.Position, &e.HourlyRate, &e.OvertimeRate, &e.IsActive, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// Rates implements payroll.RateSource.
func (r *EmployeeRepo) Rates(ctx context.Context, employeeID uint64) (float64, float64, error) {
	var hourly, overtime float64
	err := r.DB.QueryRowContext(ctx,
		"SELECT hourly_rate, overtime_rate FROM employees WHERE id=? LIMIT 1",
		employeeID).Scan(&hourly, &overtime)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, 0, ErrNotFound
	}
	return hourly, overtime, err
}
