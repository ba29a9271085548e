package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComputeBMI(t *testing.T) {
	assert.InDelta(t, 25.0, ComputeBMI(180, 81), 0.001)
	assert.InDelta(t, 22.49, ComputeBMI(170, 65), 0.01)
	assert.InDelta(t, 17.3, ComputeBMI(170, 50), 0.01)
}

func TestBMISuggestionTiers(t *testing.T) {
	tests := []struct {
		name string
		bmi  float64
		want string
	}{
		{"underweight", 17.0, "high-protein and calorie-rich"},
		{"just under healthy boundary", 18.49, "high-protein and calorie-rich"},
		{"healthy boundary is inclusive", 18.5, "balanced diet"},
		{"healthy", 22.0, "balanced diet"},
		{"just under overweight boundary", 24.99, "balanced diet"},
		{"overweight boundary is inclusive", 25.0, "low-calorie and healthy"},
		{"overweight", 31.0, "low-calorie and healthy"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Contains(t, BMISuggestion(tt.bmi), tt.want)
		})
	}
}
