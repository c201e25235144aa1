package constants

const (
	OrganizationName = "CampusKey Housing"

	// DefaultFromPhone is used when TWILIO_FROM_PHONE is unset; it is a
	// Twilio magic number that always succeeds in test credentials mode.
	DefaultFromPhone = "+15005550006"
	DefaultFromEmail = "no-reply@campuskey.io"

	// LeaseMaintenanceCronSpec runs shortly after midnight UTC so
	// date-driven transitions land on the calendar day they belong to.
	LeaseMaintenanceCronSpec = "5 0 * * *"
)
