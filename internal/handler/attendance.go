package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Neon-Gen/finovix-sub000/internal/middleware"
	"github.com/Neon-Gen/finovix-sub000/internal/model"
	"github.com/Neon-Gen/finovix-sub000/internal/payroll"
	"github.com/Neon-Gen/finovix-sub000/internal/repository"
)

// EmployeeDirectory is the slice of the employee repository the
// attendance endpoints need.
type EmployeeDirectory interface {
	GetByID(ctx context.Context, id uint64) (model.Employee, error)
	Create(ctx context.Context, e model.Employee) (uint64, error)
	ListByOwner(ctx context.Context, ownerID uint64) ([]model.Employee, error)
}

// AttendanceHandler exposes mark-attendance, mark-absent and the
// reporting reads.
type AttendanceHandler struct {
	Payroll   *payroll.Service
	Employees EmployeeDirectory
}

func NewAttendanceHandler(svc *payroll.Service, employees EmployeeDirectory) *AttendanceHandler {
	return &AttendanceHandler{Payroll: svc, Employees: employees}
}

type attendanceReq struct {
	EmployeeID uint64 `json:"employee_id"`
	Date       string `json:"date"` // YYYY-MM-DD
	Status     string `json:"status"`
	CheckIn    string `json:"check_in"`
	CheckOut   string `json:"check_out"`
}

type absentReq struct {
	EmployeeID uint64 `json:"employee_id"`
	Date       string `json:"date"`
}

type attendanceResp struct {
	EmployeeID    uint64  `json:"employee_id"`
	Date          string  `json:"date"`
	CheckIn       string  `json:"check_in"`
	CheckOut      string  `json:"check_out"`
	RegularHours  float64 `json:"regular_hours"`
	OvertimeHours float64 `json:"overtime_hours"`
	TotalPay      float64 `json:"total_pay"`
	Status        string  `json:"status"`
}

func toAttendanceResp(r model.AttendanceRecord) attendanceResp {
	return attendanceResp{
		EmployeeID:    r.EmployeeID,
		Date:          r.Date,
		CheckIn:       r.CheckIn,
		CheckOut:      r.CheckOut,
		RegularHours:  r.RegularHours,
		OvertimeHours: r.OvertimeHours,
		TotalPay:      r.TotalPay,
		Status:        r.Status,
	}
}

// ownedEmployee loads the employee and checks it belongs to the caller.
// Foreign employees read as not found so ids cannot be probed.
func (h *AttendanceHandler) ownedEmployee(c echo.Context, employeeID uint64) (model.Employee, error) {
	e, err := h.Employees.GetByID(c.Request().Context(), employeeID)
	if err != nil {
		return model.Employee{}, err
	}
	if e.OwnerID != middleware.UserID(c) {
		return model.Employee{}, repository.ErrNotFound
	}
	return e, nil
}

func validDate(s string) bool {
	_, err := time.Parse("2006-01-02", s)
	return err == nil
}

// Upsert handles the "mark attendance" action: one record per
// (employee, date), replaced wholesale on resubmission.
func (h *AttendanceHandler) Upsert(c echo.Context) error {
	var req attendanceReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.EmployeeID == 0 || !validDate(req.Date) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "employee_id and date (YYYY-MM-DD) required"})
	}
	if _, err := h.ownedEmployee(c, req.EmployeeID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "employee not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load employee failed"})
	}

	rec, err := h.Payroll.Upsert(c.Request().Context(), payroll.UpsertInput{
		EmployeeID: req.EmployeeID,
		Date:       req.Date,
		Status:     req.Status,
		CheckIn:    req.CheckIn,
		CheckOut:   req.CheckOut,
	})
	switch {
	case err == nil:
		return c.JSON(http.StatusOK, toAttendanceResp(rec))
	case errors.Is(err, payroll.ErrCheckInRequired):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "check_in required"})
	case errors.Is(err, payroll.ErrUnknownStatus), errors.Is(err, payroll.ErrBadTimeFormat):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "save attendance failed"})
	}
}

// MarkAbsent is the terminal shortcut: zeroed hours and pay, empty
// times, idempotent overwrite.
func (h *AttendanceHandler) MarkAbsent(c echo.Context) error {
	var req absentReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.EmployeeID == 0 || !validDate(req.Date) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "employee_id and date (YYYY-MM-DD) required"})
	}
	if _, err := h.ownedEmployee(c, req.EmployeeID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "employee not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load employee failed"})
	}

	rec, err := h.Payroll.MarkAbsent(c.Request().Context(), req.EmployeeID, req.Date)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "save attendance failed"})
	}
	return c.JSON(http.StatusOK, toAttendanceResp(rec))
}

// List returns all records for one employee, newest first.
func (h *AttendanceHandler) List(c echo.Context) error {
	employeeID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || employeeID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid employee id"})
	}
	if _, err := h.ownedEmployee(c, employeeID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "employee not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load employee failed"})
	}

	recs, err := h.Payroll.List(c.Request().Context(), employeeID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load attendance failed"})
	}
	out := make([]attendanceResp, 0, len(recs))
	for _, r := range recs {
		out = append(out, toAttendanceResp(r))
	}
	return c.JSON(http.StatusOK, out)
}

// Summary returns the per-employee totals the reporting views chart.
func (h *AttendanceHandler) Summary(c echo.Context) error {
	employeeID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || employeeID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid employee id"})
	}
	if _, err := h.ownedEmployee(c, employeeID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "employee not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load employee failed"})
	}

	sum, err := h.Payroll.Summarize(c.Request().Context(), employeeID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load summary failed"})
	}
	return c.JSON(http.StatusOK, sum)
}
