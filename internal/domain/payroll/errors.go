package payroll

import "errors"

var (
	ErrUnsupportedPeriodType = errors.New("the only supported payroll period type is DAYS")
	ErrMissingParameter      = errors.New("missing required parameter")
	ErrPeriodNotFound        = errors.New("payroll period not found")
	ErrEmployerNotFound      = errors.New("employer not found")
)
