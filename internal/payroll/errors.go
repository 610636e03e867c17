package payroll

import "errors"

// ErrCheckInRequired is returned when a non-absent record is submitted
// without a check-in time. No write happens in that case.
var ErrCheckInRequired = errors.New("check_in required")

// ErrBadTimeFormat marks a check-in/check-out value that is not a valid
// "HH:MM" time of day.
var ErrBadTimeFormat = errors.New("invalid time of day")

// ErrUnknownStatus marks a status outside the recognised set.
var ErrUnknownStatus = errors.New("unknown attendance status")
