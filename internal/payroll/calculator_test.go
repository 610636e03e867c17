package payroll

import (
	"errors"
	"math"
	"testing"
)

const eps = 1e-9

func almostEqual(a, b float64) bool { return math.Abs(a-b) < eps }

func TestComputeHoursAndPay(t *testing.T) {
	tests := []struct {
		name         string
		in, out      string
		hourly, ot   float64
		wantRegular  float64
		wantOvertime float64
		wantPay      float64
	}{
		{
			name: "nine hour shift splits one hour of overtime",
			in:   "09:00", out: "18:00", hourly: 100, ot: 150,
			wantRegular: 8, wantOvertime: 1, wantPay: 950,
		},
		{
			name: "overnight shift crosses midnight",
			in:   "22:00", out: "06:00", hourly: 100, ot: 150,
			wantRegular: 8, wantOvertime: 0, wantPay: 800,
		},
		{
			name: "short shift is all regular",
			in:   "09:00", out: "13:00", hourly: 50, ot: 75,
			wantRegular: 4, wantOvertime: 0, wantPay: 200,
		},
		{
			name: "exactly eight hours has no overtime",
			in:   "08:00", out: "16:00", hourly: 10, ot: 20,
			wantRegular: 8, wantOvertime: 0, wantPay: 80,
		},
		{
			name: "fractional hours are not rounded",
			in:   "09:00", out: "17:45", hourly: 100, ot: 150,
			wantRegular: 8, wantOvertime: 0.75, wantPay: 912.5,
		},
		{
			name: "missing checkout means open shift",
			in:   "09:00", out: "", hourly: 100, ot: 150,
			wantRegular: 0, wantOvertime: 0, wantPay: 0,
		},
		{
			name: "missing check-in yields zero",
			in:   "", out: "17:00", hourly: 100, ot: 150,
			wantRegular: 0, wantOvertime: 0, wantPay: 0,
		},
		{
			name: "zero rates pay nothing",
			in:   "09:00", out: "19:00", hourly: 0, ot: 0,
			wantRegular: 8, wantOvertime: 2, wantPay: 0,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ComputeHoursAndPay(tt.in, tt.out, tt.hourly, tt.ot)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !almostEqual(got.RegularHours, tt.wantRegular) {
				t.Errorf("RegularHours = %v, want %v", got.RegularHours, tt.wantRegular)
			}
			if !almostEqual(got.OvertimeHours, tt.wantOvertime) {
				t.Errorf("OvertimeHours = %v, want %v", got.OvertimeHours, tt.wantOvertime)
			}
			if !almostEqual(got.TotalPay, tt.wantPay) {
				t.Errorf("TotalPay = %v, want %v", got.TotalPay, tt.wantPay)
			}
			if !almostEqual(got.RegularHours+got.OvertimeHours, tt.wantRegular+tt.wantOvertime) {
				t.Errorf("hours do not add up: %v + %v", got.RegularHours, got.OvertimeHours)
			}
		})
	}
}

func TestComputeHoursAndPayBadFormat(t *testing.T) {
	for _, pair := range [][2]string{
		{"9am", "17:00"},
		{"09:00", "25:99"},
		{"0900", "1700"},
	} {
		_, err := ComputeHoursAndPay(pair[0], pair[1], 10, 15)
		if !errors.Is(err, ErrBadTimeFormat) {
			t.Errorf("ComputeHoursAndPay(%q, %q) error = %v, want ErrBadTimeFormat", pair[0], pair[1], err)
		}
	}
}
