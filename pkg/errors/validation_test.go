package errors

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateDuration(t *testing.T) {
	tests := []struct {
		name    string
		input   float64
		wantErr bool
	}{
		{"zero", 0, false},
		{"positive", 100, false},
		{"fractional", 0.5, false},

		{"negative", -1, true},
		{"NaN", math.NaN(), true},
		{"positive infinity", math.Inf(1), true},
		{"negative infinity", math.Inf(-1), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDuration("duration", tt.input)
			assert.Equal(t, tt.wantErr, err != nil, "ValidateDuration(%v): %v", tt.input, err)
			if err != nil {
				assert.Equal(t, ErrCodeInvalidDuration, GetCode(err))
			}
		})
	}
}

func TestValidateServiceName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"simple", "DB", false},
		{"with spaces", "Same Datacenter", false},
		{"with dash", "api-gateway", false},

		{"empty", "", true},
		{"whitespace only", "   ", true},
		{"too long", string(make([]byte, 200)), true},
		{"newline", "api\nserver", true},
		{"null byte", "api\x00", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateServiceName(tt.input)
			assert.Equal(t, tt.wantErr, err != nil, "ValidateServiceName(%q): %v", tt.input, err)
		})
	}
}

func TestValidateModelName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"simple", "pageload", false},
		{"kebab", "page-load", false},
		{"digits", "fanout-3", false},

		{"empty", "", true},
		{"uppercase", "PageLoad", true},
		{"leading dash", "-page", true},
		{"trailing dash", "page-", true},
		{"slash", "page/load", true},
		{"too long", "a" + string(make([]byte, 70)), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateModelName(tt.input)
			assert.Equal(t, tt.wantErr, err != nil, "ValidateModelName(%q): %v", tt.input, err)
		})
	}
}

func TestValidatePath(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"relative file", "model.toml", false},
		{"nested", "examples/models/page-load.yaml", false},
		{"absolute", "/tmp/model.json", false},
		{"dotted name", "my..model.toml", false},

		{"empty", "", true},
		{"traversal", "../secret.toml", true},
		{"nested traversal", "models/../../etc/passwd", true},
		{"null byte", "model\x00.toml", true},
		{"too long", string(make([]byte, 600)), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePath(tt.input)
			assert.Equal(t, tt.wantErr, err != nil, "ValidatePath(%q): %v", tt.input, err)
		})
	}
}

func TestValidateScale(t *testing.T) {
	tests := []struct {
		name    string
		input   float64
		wantErr bool
	}{
		{"one", 1, false},
		{"small", 0.1, false},
		{"max", 100, false},

		{"zero", 0, true},
		{"negative", -1, true},
		{"too large", 101, true},
		{"NaN", math.NaN(), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateScale(tt.input)
			assert.Equal(t, tt.wantErr, err != nil, "ValidateScale(%v): %v", tt.input, err)
		})
	}
}
