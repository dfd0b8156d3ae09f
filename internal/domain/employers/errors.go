package employers

import "errors"

var (
	ErrNotFound            = errors.New("employer not found")
	ErrInvalidPeriodLength = errors.New("payroll period length must be a positive number of days")
	ErrInvalidPeriodType   = errors.New("the only supported payroll period type is DAYS")
	ErrInvalidStartingTime = errors.New("payroll period starting time must be HH:MM:SS")
	ErrNothingToUpdate     = errors.New("no updatable fields provided")
)
