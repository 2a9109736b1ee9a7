package http

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestValidateAirportCode tests the IATA code validation helper.
func TestValidateAirportCode(t *testing.T) {
	tests := []struct {
		name          string
		code          string
		required      bool
		expectedError bool
		normalized    string
	}{
		{name: "valid uppercase", code: "DFW", required: true, expectedError: false, normalized: "DFW"},
		{name: "lowercase normalized", code: "lis", required: true, expectedError: false, normalized: "LIS"},
		{name: "mixed case normalized", code: "Opo", required: true, expectedError: false, normalized: "OPO"},
		{name: "missing required", code: "", required: true, expectedError: true},
		{name: "missing optional", code: "", required: false, expectedError: false},
		{name: "too short", code: "DF", required: true, expectedError: true},
		{name: "too long", code: "DFWX", required: true, expectedError: true},
		{name: "digits", code: "DF1", required: true, expectedError: true},
		{name: "whitespace", code: "DF ", required: true, expectedError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code := tt.code
			errs := &ValidationErrors{}
			validateAirportCode(errs, "origin", &code, tt.required)

			if tt.expectedError {
				assert.True(t, errs.HasErrors(), "expected validation errors for %q", tt.code)
				errorMap := make(map[string]bool)
				for _, err := range errs.Errors {
					errorMap[err.Field] = true
				}
				assert.True(t, errorMap["origin"], "expected error for field origin")
			} else {
				assert.False(t, errs.HasErrors(), "expected no validation errors for %q", tt.code)
				assert.Equal(t, tt.normalized, code)
			}
		})
	}
}

// TestValidateRegionName tests region name validation.
func TestValidateRegionName(t *testing.T) {
	tests := []struct {
		name          string
		region        string
		expectedError bool
	}{
		{name: "empty means anywhere", region: "", expectedError: false},
		{name: "europe", region: "europe", expectedError: false},
		{name: "display name", region: "South America", expectedError: false},
		{name: "kebab case", region: "central-america", expectedError: false},
		{name: "unknown region", region: "atlantis", expectedError: true},
		{name: "garbage", region: "???", expectedError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := &ValidationErrors{}
			validateRegionName(errs, "region", tt.region)

			if tt.expectedError {
				assert.True(t, errs.HasErrors(), "expected validation errors for %q", tt.region)
			} else {
				assert.False(t, errs.HasErrors(), "expected no validation errors for %q", tt.region)
			}
		})
	}
}

// TestValidateDate tests travel date validation.
func TestValidateDate(t *testing.T) {
	tests := []struct {
		name          string
		date          string
		expectedError bool
	}{
		{name: "valid date", date: "2026-03-10", expectedError: false},
		{name: "leap day", date: "2028-02-29", expectedError: false},
		{name: "missing", date: "", expectedError: true},
		{name: "us format", date: "03/10/2026", expectedError: true},
		{name: "no padding", date: "2026-3-1", expectedError: true},
		{name: "impossible day", date: "2026-02-30", expectedError: true},
		{name: "month thirteen", date: "2026-13-01", expectedError: true},
		{name: "text", date: "tomorrow", expectedError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := &ValidationErrors{}
			validateDate(errs, "referenceStart", tt.date)

			if tt.expectedError {
				assert.True(t, errs.HasErrors(), "expected validation errors for %q", tt.date)
			} else {
				assert.False(t, errs.HasErrors(), "expected no validation errors for %q", tt.date)
			}
		})
	}
}

// TestValidateThreshold tests the similarity threshold validation.
func TestValidateThreshold(t *testing.T) {
	tests := []struct {
		name          string
		threshold     float64
		expectedError bool
	}{
		{name: "zero means default", threshold: 0, expectedError: false},
		{name: "ten percent", threshold: 0.10, expectedError: false},
		{name: "just under one", threshold: 0.99, expectedError: false},
		{name: "negative", threshold: -0.1, expectedError: true},
		{name: "exactly one", threshold: 1.0, expectedError: true},
		{name: "above one", threshold: 1.5, expectedError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := &ValidationErrors{}
			validateThreshold(errs, tt.threshold)

			if tt.expectedError {
				assert.True(t, errs.HasErrors(), "expected validation errors for %v", tt.threshold)
			} else {
				assert.False(t, errs.HasErrors(), "expected no validation errors for %v", tt.threshold)
			}
		})
	}
}

// TestRunRequestValidate tests whole-request validation for batch runs.
func TestRunRequestValidate(t *testing.T) {
	t.Run("valid request", func(t *testing.T) {
		req := RunRequest{Origins: []string{"DFW", "aus"}, Region: "europe", Threshold: 0.12, TopK: 4}
		require.NoError(t, req.Validate())
		assert.Equal(t, []string{"DFW", "AUS"}, req.Origins, "codes are normalized in place")
	})

	t.Run("origins capped", func(t *testing.T) {
		origins := make([]string, maxRunOrigins+1)
		for i := range origins {
			origins[i] = "DFW"
		}
		req := RunRequest{Origins: origins}

		err := req.Validate()
		require.Error(t, err)

		var errs *ValidationErrors
		require.ErrorAs(t, err, &errs)
		assert.Contains(t, errs.ToMap(), "origins")
	})

	t.Run("per-origin errors are indexed", func(t *testing.T) {
		req := RunRequest{Origins: []string{"DFW", "bad1", "AUS"}}

		err := req.Validate()
		require.Error(t, err)

		var errs *ValidationErrors
		require.ErrorAs(t, err, &errs)
		assert.Contains(t, errs.ToMap(), "origins[1]")
	})
}

// TestValidationErrorsError tests the Error() method.
func TestValidationErrorsError(t *testing.T) {
	errs := &ValidationErrors{}
	errs.Add("field1", "error1")
	errs.Add("field2", "error2")

	errorMsg := errs.Error()
	require.NotEmpty(t, errorMsg)
	// Error() returns the first error's message
	assert.Equal(t, "error1", errorMsg)

	// Test empty errors
	emptyErrs := &ValidationErrors{}
	assert.Equal(t, "validation failed", emptyErrs.Error())
}
