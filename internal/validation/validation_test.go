package validation

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/study-planner-api/internal/constants"
	apierrors "github.com/yukikurage/study-planner-api/internal/errors"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name        string
		title       string
		subject     string
		description string
		dueDate     string
		want        []string
	}{
		{
			name: "everything missing",
			want: []string{"Title is required", "Subject is required", "Due Date is required"},
		},
		{
			name:    "whitespace title and bad date",
			title:   "   ",
			subject: "Art",
			dueDate: "soon",
			want:    []string{"Title is required", "Due Date is invalid"},
		},
		{
			name:        "over the limits",
			title:       strings.Repeat("t", constants.MaxTitleLength+1),
			subject:     strings.Repeat("s", constants.MaxSubjectLength+1),
			description: strings.Repeat("d", constants.MaxDescriptionLength+1),
			dueDate:     "2024-01-15",
			want: []string{
				"Title cannot be more than 100 characters",
				"Subject cannot be more than 50 characters",
				"Description cannot be more than 500 characters",
			},
		},
		{
			name:        "limits are inclusive and count runes",
			title:       strings.Repeat("é", constants.MaxTitleLength),
			subject:     strings.Repeat("s", constants.MaxSubjectLength),
			description: strings.Repeat("d", constants.MaxDescriptionLength),
			dueDate:     "2024-01-15",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.title, tt.subject, tt.description, tt.dueDate)
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}

			var verr *apierrors.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.want, verr.Messages)
		})
	}
}

func TestNew_TrimsAndParses(t *testing.T) {
	fields, err := New("  Essay ", " English ", "draft", "2024-01-10")

	require.NoError(t, err)
	assert.Equal(t, "Essay", fields.Title)
	assert.Equal(t, "English", fields.Subject)
	require.NotNil(t, fields.DueDate)
	assert.Equal(t, time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC), *fields.DueDate)
}

func TestParseDueDate(t *testing.T) {
	d, err := ParseDueDate("2024-01-10")
	assert.NoError(t, err)
	assert.Equal(t, time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC), d)

	d, err = ParseDueDate("2024-01-10T09:30:00+02:00")
	assert.NoError(t, err)
	assert.True(t, d.Equal(time.Date(2024, 1, 10, 7, 30, 0, 0, time.UTC)))

	_, err = ParseDueDate("10/01/2024")
	assert.Error(t, err)
}
