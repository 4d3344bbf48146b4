package report_test

import (
	"log/slog"
	"testing"

	"github.com/UnknownOlympus/nivaran/internal/models"
	"github.com/UnknownOlympus/nivaran/internal/report"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validSubmission() report.Submission {
	return report.Submission{
		Description:   "Stray dog limping on front left leg near the bus stop",
		Severity:      models.SeverityHigh,
		ContactName:   "Asha",
		ContactPhone:  "98200 12345",
		ImageAttached: true,
	}
}

func TestService_Submit(t *testing.T) {
	ctx := t.Context()
	service := report.NewService(slog.Default(), "in")

	t.Run("accepted report", func(t *testing.T) {
		ack, err := service.Submit(ctx, validSubmission(), " Bandra West, Mumbai, Maharashtra ")

		require.NoError(t, err)
		assert.Equal(t, report.MessageSubmitted, ack.Message)
		assert.Equal(t, "Bandra West, Mumbai, Maharashtra", ack.Report.Location)
		assert.Equal(t, "+919820012345", ack.Report.ContactPhone)
		assert.Equal(t, models.SeverityHigh, ack.Report.Severity)
		assert.False(t, ack.Report.SubmittedAt.IsZero())
		_, err = uuid.Parse(ack.Report.ID)
		require.NoError(t, err)
	})

	t.Run("raw coordinates are a valid location", func(t *testing.T) {
		ack, err := service.Submit(ctx, validSubmission(), "19.076000, 72.877700")

		require.NoError(t, err)
		assert.Equal(t, "19.076000, 72.877700", ack.Report.Location)
	})

	t.Run("international number", func(t *testing.T) {
		sub := validSubmission()
		sub.ContactPhone = "+1 650-253-0000"

		ack, err := service.Submit(ctx, sub, "Andheri East, Mumbai")

		require.NoError(t, err)
		assert.Equal(t, "+16502530000", ack.Report.ContactPhone)
	})

	t.Run("missing image", func(t *testing.T) {
		sub := validSubmission()
		sub.ImageAttached = false

		_, err := service.Submit(ctx, sub, "Andheri East, Mumbai")

		require.ErrorIs(t, err, report.ErrImageRequired)
	})

	t.Run("missing location", func(t *testing.T) {
		_, err := service.Submit(ctx, validSubmission(), "   ")

		require.ErrorIs(t, err, report.ErrLocationRequired)
	})

	t.Run("invalid fields", func(t *testing.T) {
		tests := map[string]func(*report.Submission){
			"blank description": func(s *report.Submission) { s.Description = "  " },
			"unknown severity":  func(s *report.Submission) { s.Severity = "Severe" },
			"missing name":      func(s *report.Submission) { s.ContactName = "" },
			"missing phone":     func(s *report.Submission) { s.ContactPhone = "" },
			"invalid phone":     func(s *report.Submission) { s.ContactPhone = "12345" },
			"garbage phone":     func(s *report.Submission) { s.ContactPhone = "call me" },
		}

		for name, mutate := range tests {
			t.Run(name, func(t *testing.T) {
				sub := validSubmission()
				mutate(&sub)

				_, err := service.Submit(ctx, sub, "Andheri East, Mumbai")

				require.ErrorIs(t, err, report.ErrInvalidReport)
			})
		}
	})
}
