package employers

import "time"

type Employer struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	PeriodLength  int       `json:"payrollPeriodLength"`
	PeriodType    string    `json:"payrollPeriodType"`
	PeriodStartAt string    `json:"payrollPeriodStartingTime"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// UpdateInput carries the payroll settings an admin may change. Nil fields
// are left untouched.
type UpdateInput struct {
	Name          *string `json:"name"`
	PeriodLength  *int    `json:"payrollPeriodLength"`
	PeriodType    *string `json:"payrollPeriodType"`
	PeriodStartAt *string `json:"payrollPeriodStartingTime"`
}
