package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/Neon-Gen/finovix-sub000/internal/middleware"
	"github.com/Neon-Gen/finovix-sub000/internal/model"
	"github.com/Neon-Gen/finovix-sub000/internal/repository"
)

// EmployeeHandler exposes the employee CRUD the attendance flows hang
// off.
type EmployeeHandler struct {
	Employees EmployeeDirectory
}

func NewEmployeeHandler(employees EmployeeDirectory) *EmployeeHandler {
	return &EmployeeHandler{Employees: employees}
}

type employeeReq struct {
	FullName     string  `json:"full_name"`
	Position     string  `json:"position"`
	HourlyRate   float64 `json:"hourly_rate"`
	OvertimeRate float64 `json:"overtime_rate"`
}

type employeeResp struct {
	ID           uint64  `json:"id"`
	FullName     string  `json:"full_name"`
	Position     string  `json:"position"`
	HourlyRate   float64 `json:"hourly_rate"`
	OvertimeRate float64 `json:"overtime_rate"`
}

func toEmployeeResp(e model.Employee) employeeResp {
	return employeeResp{
		ID:           e.ID,
		FullName:     e.FullName,
		Position:     e.Position,
		HourlyRate:   e.HourlyRate,
		OvertimeRate: e.OvertimeRate,
	}
}

// Create adds an employee under the authenticated owner. Rates must be
// non-negative.
func (h *EmployeeHandler) Create(c echo.Context) error {
	var req employeeReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.FullName = strings.TrimSpace(req.FullName)
	if req.FullName == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "full_name required"})
	}
	if req.HourlyRate < 0 || req.OvertimeRate < 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "rates must be non-negative"})
	}

	e := model.Employee{
		OwnerID:      middleware.UserID(c),
		FullName:     req.FullName,
		Position:     strings.TrimSpace(req.Position),
		HourlyRate:   req.HourlyRate,
		OvertimeRate: req.OvertimeRate,
	}
	id, err := h.Employees.Create(c.Request().Context(), e)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create employee failed"})
	}
	e.ID = id
	return c.JSON(http.StatusCreated, toEmployeeResp(e))
}

// List returns the caller's employees.
func (h *EmployeeHandler) List(c echo.Context) error {
	employees, err := h.Employees.ListByOwner(c.Request().Context(), middleware.UserID(c))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load employees failed"})
	}
	out := make([]employeeResp, 0, len(employees))
	for _, e := range employees {
		out = append(out, toEmployeeResp(e))
	}
	return c.JSON(http.StatusOK, out)
}

// Get returns one employee, owner-scoped.
func (h *EmployeeHandler) Get(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid employee id"})
	}
	e, err := h.Employees.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "employee not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load employee failed"})
	}
	if e.OwnerID != middleware.UserID(c) {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "employee not found"})
	}
	return c.JSON(http.StatusOK, toEmployeeResp(e))
}
