package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type submission struct {
	Email  string `validate:"omitempty,email"`
	Rating *int   `validate:"omitempty,gte=0,lte=5"`
	Status string `validate:"required,oneof=pending public hidden"`
}

func intPtr(v int) *int { return &v }

func TestValidate_OK(t *testing.T) {
	assert.NoError(t, Validate(submission{
		Email:  "jane@example.com",
		Rating: intPtr(4),
		Status: "public",
	}))
}

func TestValidate_OmitemptySkipsAbsentFields(t *testing.T) {
	assert.NoError(t, Validate(submission{Status: "pending"}))
}

func TestValidate_FieldErrors(t *testing.T) {
	err := Validate(submission{
		Email:  "not-an-email",
		Rating: intPtr(7),
		Status: "archived",
	})
	require.Error(t, err)

	var valErr *ValidationError
	require.ErrorAs(t, err, &valErr)

	fields := valErr.Fields()
	assert.Contains(t, fields["Email"], "valid email")
	assert.Contains(t, fields["Rating"], "less than or equal to 5")
	assert.Contains(t, fields["Status"], "must be one of")
}

func TestValidationError_Message(t *testing.T) {
	err := Validate(submission{Status: ""})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "field 'Status' is required")
}
