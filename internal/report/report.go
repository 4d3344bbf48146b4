// Package report accepts rescue report submissions carrying the resolved location.
package report

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/UnknownOlympus/nivaran/internal/models"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/nyaruka/phonenumbers"
)

// Messages shown to the reporter.
const (
	MessageImageRequired = "Please upload an image"
	MessageSubmitted     = "Rescue report submitted successfully!"
)

var (
	// ErrImageRequired is returned when the report has no image attached.
	ErrImageRequired = errors.New("image is required")
	// ErrLocationRequired is returned when the location field resolved to nothing.
	ErrLocationRequired = errors.New("location is required")
	// ErrInvalidReport is returned when a required field is missing or malformed.
	ErrInvalidReport = errors.New("invalid report")
)

// Submission is the report form content besides the location.
type Submission struct {
	Description   string          `json:"description"   validate:"required,max=2000"`
	Severity      models.Severity `json:"severity"      validate:"required,oneof=Low Medium High Critical"`
	ContactName   string          `json:"contactName"   validate:"required,max=120"`
	ContactPhone  string          `json:"contactPhone"  validate:"required,max=32"`
	ImageAttached bool            `json:"imageAttached"`
}

// Acknowledgement is returned for an accepted report.
type Acknowledgement struct {
	Message string        `json:"message"`
	Report  models.Report `json:"report"`
}

// Service validates submissions and acknowledges them. Reports are not stored.
type Service struct {
	log    *slog.Logger
	val    *validator.Validate
	region string // default region for phone numbers without a country code
	now    func() time.Time
}

// NewService creates a report service. Phone numbers without an international
// prefix are parsed as numbers of country (ISO 3166-1 alpha-2).
func NewService(log *slog.Logger, country string) *Service {
	return &Service{
		log:    log,
		val:    validator.New(),
		region: strings.ToUpper(strings.TrimSpace(country)),
		now:    time.Now,
	}
}

// Submit validates the submission and returns the acknowledgement.
func (s *Service) Submit(ctx context.Context, sub Submission, location string) (*Acknowledgement, error) {
	if !sub.ImageAttached {
		return nil, ErrImageRequired
	}

	sub.Description = strings.TrimSpace(sub.Description)
	sub.ContactName = strings.TrimSpace(sub.ContactName)
	if err := s.val.Struct(sub); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidReport, err)
	}

	location = strings.TrimSpace(location)
	if location == "" {
		return nil, ErrLocationRequired
	}

	phone, err := s.normalizePhone(sub.ContactPhone)
	if err != nil {
		return nil, err
	}

	report := models.Report{
		ID:           uuid.NewString(),
		Description:  sub.Description,
		Severity:     sub.Severity,
		ContactName:  sub.ContactName,
		ContactPhone: phone,
		Location:     location,
		SubmittedAt:  s.now().UTC(),
	}

	s.log.InfoContext(ctx, "Rescue report submitted", "report", report.ID, "severity", report.Severity)

	return &Acknowledgement{Message: MessageSubmitted, Report: report}, nil
}

// normalizePhone formats the contact phone to E.164.
func (s *Service) normalizePhone(input string) (string, error) {
	number, err := phonenumbers.Parse(strings.TrimSpace(input), s.region)
	if err != nil {
		return "", fmt.Errorf("%w: contact phone: %w", ErrInvalidReport, err)
	}
	if !phonenumbers.IsValidNumber(number) {
		return "", fmt.Errorf("%w: contact phone is not a valid number", ErrInvalidReport)
	}

	return phonenumbers.Format(number, phonenumbers.E164), nil
}
