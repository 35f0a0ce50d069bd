package validator

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleRequest struct {
	ProductID int    `validate:"required,gt=0"`
	Code      string `validate:"required"`
	Quantity  int    `validate:"gte=0,lte=100"`
}

func TestValidate_OK(t *testing.T) {
	err := Validate(sampleRequest{ProductID: 3, Code: "MOBIVERSITE", Quantity: 2})
	assert.NoError(t, err)
}

func TestValidate_MissingFields(t *testing.T) {
	err := Validate(sampleRequest{})
	require.Error(t, err)

	var valErr *ValidationError
	require.True(t, errors.As(err, &valErr))

	fields := valErr.Fields()
	assert.Contains(t, fields, "ProductID")
	assert.Contains(t, fields, "Code")
	assert.Equal(t, "is required", fields["Code"])
}

func TestValidate_RangeViolation(t *testing.T) {
	err := Validate(sampleRequest{ProductID: 3, Code: "X", Quantity: 500})
	require.Error(t, err)

	var valErr *ValidationError
	require.True(t, errors.As(err, &valErr))
	assert.Contains(t, valErr.Fields()["Quantity"], "less than or equal to 100")
}
