package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateID(t *testing.T) {
	tests := []struct {
		name    string
		id      string
		wantErr bool
		errMsg  string
	}{
		{
			name:    "valid simple ID",
			id:      "surface",
			wantErr: false,
		},
		{
			name:    "valid complex ID",
			id:      "bedmachine_v3.bed-2020",
			wantErr: false,
		},
		{
			name:    "empty ID",
			id:      "",
			wantErr: true,
			errMsg:  "id cannot be empty",
		},
		{
			name:    "ID too long",
			id:      strings.Repeat("a", 101),
			wantErr: true,
			errMsg:  "id too long (max 100 characters)",
		},
		{
			name:    "ID with invalid characters",
			id:      "bed;DROP TABLE layers",
			wantErr: true,
			errMsg:  "id contains invalid characters",
		},
		{
			name:    "ID with path traversal",
			id:      "../etc/passwd",
			wantErr: true,
			errMsg:  "id contains invalid characters",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateID(tt.id)
			if tt.wantErr {
				assert.Error(t, err)
				assert.Equal(t, tt.errMsg, err.Error())
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateNum(t *testing.T) {
	assert.NoError(t, ValidateNum(0))
	assert.NoError(t, ValidateNum(1000))
	assert.Error(t, ValidateNum(-1))
	assert.Error(t, ValidateNum(MaxProfilePoints+1))
}

func TestValidateDistanceBounds(t *testing.T) {
	f := func(v float64) *float64 { return &v }

	tests := []struct {
		name     string
		min, max *float64
		wantErr  bool
	}{
		{name: "no bounds"},
		{name: "only max", max: f(10)},
		{name: "both ordered", min: f(1), max: f(10)},
		{name: "negative min", min: f(-1), wantErr: true},
		{name: "inverted", min: f(10), max: f(1), wantErr: true},
		{name: "equal", min: f(5), max: f(5), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDistanceBounds(tt.min, tt.max)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateProfileParams(t *testing.T) {
	f := func(v float64) *float64 { return &v }

	errs := ValidateProfileParams(100, []string{"surface", "bed"}, nil, nil)
	assert.Empty(t, errs)

	errs = ValidateProfileParams(-5, []string{"bad name"}, f(3), f(1))
	assert.Contains(t, errs, "num")
	assert.Contains(t, errs, "layers")
	assert.Contains(t, errs, "dist")
}
