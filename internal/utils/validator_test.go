// internal/utils/validator_test.go
package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type codeHolder struct {
	Code string `validate:"required,warranty_code"`
}

type phoneHolder struct {
	Phone string `validate:"required,phone"`
}

func TestWarrantyCodeValidation(t *testing.T) {
	valid := []string{"WR-2026-A7K3M9X2PQ", "ABCDEFGHIJ", "1234567890-AB"}
	for _, code := range valid {
		assert.NoError(t, ValidateStruct(&codeHolder{Code: code}), code)
	}

	invalid := []string{"short", "wr-2026-lowercase", "WITH SPACES HERE", "WAY-TOO-LONG-FOR-A-WARRANTY-CODE"}
	for _, code := range invalid {
		assert.Error(t, ValidateStruct(&codeHolder{Code: code}), code)
	}
}

func TestPhoneValidation(t *testing.T) {
	valid := []string{"+919876543210", "9876543210", "09876543210"}
	for _, phone := range valid {
		assert.NoError(t, ValidateStruct(&phoneHolder{Phone: phone}), phone)
	}

	invalid := []string{"12345", "phone-number", "+1 987 654 3210", "98765432109876"}
	for _, phone := range invalid {
		assert.Error(t, ValidateStruct(&phoneHolder{Phone: phone}), phone)
	}
}

func TestGetValidationErrors(t *testing.T) {
	err := ValidateStruct(&phoneHolder{Phone: "bad"})
	require.Error(t, err)

	errs := GetValidationErrors(err)
	require.Len(t, errs, 1)
	assert.Equal(t, "phone", errs[0].Field)
	assert.Equal(t, "phone", errs[0].Tag)
	assert.Contains(t, errs[0].Message, "10-13 digits")
}
