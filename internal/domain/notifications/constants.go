package notifications

const (
	TypePeriodGenerated  = "payroll_period_generated"
	TypeGenerationFailed = "payroll_generation_failed"
	TypeSettingsUpdated  = "payroll_settings_updated"
	TypeRegisterExported = "payroll_register_exported"
)
