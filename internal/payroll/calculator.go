// Package payroll converts check-in/check-out pairs plus an employee's
// rate schedule into deterministic hours and pay breakdowns, and owns
// the attendance upsert rules around them.
package payroll

import (
	"fmt"
	"time"
)

// RegularShiftHours is the fixed regular-shift threshold. Hours beyond
// it are overtime. Policy constant, not configurable.
const RegularShiftHours = 8.0

// timeLayout is the accepted time-of-day form for check-in/check-out.
const timeLayout = "15:04"

// Breakdown is the computed hours/pay result. No rounding is applied
// here; presentation rounding is a display concern.
type Breakdown struct {
	RegularHours  float64
	OvertimeHours float64
	TotalPay      float64
}

// ComputeHoursAndPay computes the breakdown for one shift. An empty
// check-in or check-out yields an all-zero result: a missing checkout
// means the shift is not yet closed, not an error. A checkout earlier
// than the check-in is an overnight shift and gains 24 hours.
func ComputeHoursAndPay(checkIn, checkOut string, hourlyRate, overtimeRate float64) (Breakdown, error) {
	if checkIn == "" || checkOut == "" {
		return Breakdown{}, nil
	}
	in, err := time.Parse(timeLayout, checkIn)
	if err != nil {
		return Breakdown{}, fmt.Errorf("%w: check_in %q", ErrBadTimeFormat, checkIn)
	}
	out, err := time.Parse(timeLayout, checkOut)
	if err != nil {
		return Breakdown{}, fmt.Errorf("%w: check_out %q", ErrBadTimeFormat, checkOut)
	}

	elapsed := out.Sub(in)
	if elapsed < 0 {
		elapsed += 24 * time.Hour // crossed midnight
	}

	totalHours := elapsed.Minutes() / 60
	regular := totalHours
	overtime := 0.0
	if totalHours > RegularShiftHours {
		regular = RegularShiftHours
		overtime = totalHours - RegularShiftHours
	}

	return Breakdown{
		RegularHours:  regular,
		OvertimeHours: overtime,
		TotalPay:      regular*hourlyRate + overtime*overtimeRate,
	}, nil
}
