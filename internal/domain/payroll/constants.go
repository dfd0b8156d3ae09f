package payroll

const (
	PeriodTypeDays = "DAYS"

	PeriodStatusOpen      = "OPEN"
	PeriodStatusFinalized = "FINALIZED"
	PeriodStatusPaid      = "PAID"

	DefaultProjectionDays = 7

	dateLayout  = "2006-01-02"
	clockLayout = "15:04:05"
)
