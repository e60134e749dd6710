package constants

const (
	// EscalationBusinessDays is the age, in business days, past which
	// an unresolved issue is flagged as prioritized.
	EscalationBusinessDays = 3

	// DefaultEscalationSchedule runs the prioritization sweep every
	// six hours.
	DefaultEscalationSchedule = "0 */6 * * *"

	DefaultPageSize = 10
	MaxPageSize     = 100

	// ExportDateFormat is the human-facing date layout in CSV exports.
	ExportDateFormat = "02-Jan-06"

	// ReportCodeLength is the length of generated report codes.
	ReportCodeLength = 8

	// AuthTokenTTLHours is the JWT lifetime issued at login.
	AuthTokenTTLHours = 24 * 7
)
