// Package validation holds the task field rules shared by the API service and
// the planner, so both reject the same input with the same messages.
package validation

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/yukikurage/study-planner-api/internal/constants"
	apierrors "github.com/yukikurage/study-planner-api/internal/errors"
)

var validate = validator.New()

// Fields is the validated form of a task's client-controlled fields.
// Field order determines message order; max values mirror constants.Max*.
type Fields struct {
	Title       string     `validate:"required,max=100"`
	Subject     string     `validate:"required,max=50"`
	Description string     `validate:"max=500"`
	DueDate     *time.Time `validate:"required"`
}

var fieldLabels = map[string]string{
	"Title":       "Title",
	"Subject":     "Subject",
	"Description": "Description",
	"DueDate":     "Due Date",
}

// Validate returns a *ValidationError listing every violated constraint.
// badDueDate marks a due date that was supplied but could not be parsed.
func Validate(fields Fields, badDueDate bool) error {
	err := validate.Struct(fields)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("validate task: %w", err)
	}

	messages := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		label := fieldLabels[fe.Field()]
		switch fe.Tag() {
		case "required":
			if fe.Field() == "DueDate" && badDueDate {
				messages = append(messages, label+" is invalid")
			} else {
				messages = append(messages, label+" is required")
			}
		case "max":
			messages = append(messages, fmt.Sprintf("%s cannot be more than %s characters", label, fe.Param()))
		default:
			messages = append(messages, label+" is invalid")
		}
	}
	return apierrors.NewValidationError(messages)
}

// New trims and validates the raw fields of a new task
func New(title, subject, description, dueDate string) (Fields, error) {
	due, badDue := DueDateFrom(dueDate)
	fields := Fields{
		Title:       strings.TrimSpace(title),
		Subject:     strings.TrimSpace(subject),
		Description: description,
		DueDate:     due,
	}
	return fields, Validate(fields, badDue)
}

// ParseDueDate accepts a calendar date (2006-01-02, read as UTC midnight)
// or an RFC 3339 timestamp.
func ParseDueDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if t, err := time.Parse(constants.DueDateLayout, raw); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, raw)
}

// DueDateFrom parses raw, reporting whether it was present but malformed.
func DueDateFrom(raw string) (due *time.Time, bad bool) {
	if strings.TrimSpace(raw) == "" {
		return nil, false
	}
	t, err := ParseDueDate(raw)
	if err != nil {
		return nil, true
	}
	return &t, false
}
