package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAnonymizeSender(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "regular address", input: "recruiter@example.com"},
		{name: "bare name", input: "HR Team"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AnonymizeSender(tt.input)
			assert.NotEqual(t, tt.input, got)
			assert.Contains(t, got, "sender:")
			// Same input must hash to the same value for correlation.
			assert.Equal(t, got, AnonymizeSender(tt.input))
		})
	}
}

func TestAnonymizeSenderEmpty(t *testing.T) {
	assert.Equal(t, "", AnonymizeSender(""))
}

func TestErrNilIsOmitted(t *testing.T) {
	attr := Err(nil)
	assert.Equal(t, "", attr.Key)
}

func TestErrNonNil(t *testing.T) {
	attr := Err(assert.AnError)
	assert.Equal(t, KeyError, attr.Key)
	assert.Equal(t, assert.AnError.Error(), attr.Value.String())
}
