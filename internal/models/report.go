package models

import "time"

// Severity is the injury severity chosen on the rescue report form.
type Severity string

const (
	SeverityLow      Severity = "Low"
	SeverityMedium   Severity = "Medium"
	SeverityHigh     Severity = "High"
	SeverityCritical Severity = "Critical"
)

// Report is an accepted rescue report. It only lives for the duration of the acknowledgement.
type Report struct {
	ID           string    `json:"id"`           // ID is the acknowledgement identifier.
	Description  string    `json:"description"`  // Description of the situation.
	Severity     Severity  `json:"severity"`     // Severity of the animal's injuries.
	ContactName  string    `json:"contactName"`  // ContactName of the reporter.
	ContactPhone string    `json:"contactPhone"` // ContactPhone in E.164 when it could be normalised.
	Location     string    `json:"location"`     // Location is the resolved location of the field.
	SubmittedAt  time.Time `json:"submittedAt"`  // SubmittedAt is the acknowledgement time.
}
