package payroll

import (
	"time"

	"github.com/shopspring/decimal"
)

type Employer struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	PeriodLength  int       `json:"payrollPeriodLength"`
	PeriodType    string    `json:"payrollPeriodType"`
	PeriodStartAt string    `json:"payrollPeriodStartingTime"`
	CreatedAt     time.Time `json:"createdAt"`
}

type Period struct {
	ID         string    `json:"id"`
	EmployerID string    `json:"employerId"`
	StartingAt time.Time `json:"startingAt"`
	EndingAt   time.Time `json:"endingAt"`
	Length     int       `json:"length"`
	LengthType string    `json:"lengthType"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"createdAt"`
}

type Payment struct {
	ID           string          `json:"id"`
	PeriodID     string          `json:"periodId"`
	EmployeeID   string          `json:"employeeId"`
	ShiftID      string          `json:"shiftId"`
	RegularHours decimal.Decimal `json:"regularHours"`
	OverTime     decimal.Decimal `json:"overTime"`
	HourlyRate   decimal.Decimal `json:"hourlyRate"`
	TotalAmount  decimal.Decimal `json:"totalAmount"`
	Splitted     bool            `json:"splittedPayment"`
}

// ScheduledShift is the planned window a clock record was worked against. It
// is owned by the scheduling subsystem; this package only reads it.
type ScheduledShift struct {
	StartingAt        time.Time       `json:"startingAt"`
	EndingAt          time.Time       `json:"endingAt"`
	MinimumHourlyRate decimal.Decimal `json:"minimumHourlyRate"`
}

// ClockRecord is an actual worked interval. Open-ended records (no check-out
// yet) are excluded by the store queries.
type ClockRecord struct {
	ID         string         `json:"id"`
	EmployeeID string         `json:"employeeId"`
	ShiftID    string         `json:"shiftId"`
	StartedAt  time.Time      `json:"startedAt"`
	EndedAt    time.Time      `json:"endedAt"`
	Shift      ScheduledShift `json:"shift"`
}

type PeriodWithPayments struct {
	Period
	Payments []Payment `json:"payments"`
}

type ProjectionDay struct {
	Date           string        `json:"date"`
	Clockins       []ClockRecord `json:"clockins"`
	BetweenPeriods []ClockRecord `json:"betweenPeriods"`
}

type PeriodFilter struct {
	EmployerID string
	Status     string
}
