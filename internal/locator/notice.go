package locator

// Level is the severity of a notice.
type Level string

const (
	LevelInfo    Level = "info"
	LevelSuccess Level = "success"
	LevelError   Level = "error"
)

// Notice is a transient message for the user, shown as a toast by the form.
type Notice struct {
	Level   Level  `json:"level"`
	Message string `json:"message"`
}

// Notifier receives notices emitted by a Field.
type Notifier interface {
	Notify(n Notice)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(n Notice)

// Notify calls f(n).
func (f NotifierFunc) Notify(n Notice) { f(n) }

// Messages shown on the report form.
const (
	msgFetchingLocation = "Fetching your location..."
	msgLocationDetected = "Location detected"
	msgUsingCoordinates = "Location detected, address lookup unavailable: using coordinates"
	msgLocationFailed   = "Unable to fetch location"
	msgNotSupported     = "Geolocation not supported"
)
