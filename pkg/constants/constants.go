package constants

const (
	AppName      = "klinik"
	ConfigName   = "config"
	ConfigFormat = "yaml"
	EnvPrefix    = "KLINIK"
)

// Date layouts used on the wire and as cache key parts.
const (
	DateLayout      = "2006-01-02"
	TimeOfDayLayout = "15:04"
)

// NATS subjects. The trailing token is the clinic id.
const (
	SubjectAppointmentChanged = "klinik.appointment.changed"
	SubjectPaymentChanged     = "klinik.payment.changed"
	SubjectScheduleChanged    = "klinik.schedule.changed"
)
