package metrics

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCalculateMetricStatus_HigherIsBetter(t *testing.T) {
	tests := []struct {
		name    string
		current float64
		status  string
		message string
	}{
		{"exceeding", 120, StatusOnTrack, "Exceeding target"},
		{"exactly target", 100, StatusOnTrack, "Exceeding target"},
		{"ninety percent", 90, StatusOnTrack, "On track"},
		{"warning boundary", 80, StatusOnTrack, "On track"},
		{"just under warning", 79.9, StatusWarning, "Below target"},
		{"critical boundary", 60, StatusWarning, "Below target"},
		{"just under critical", 59.9, StatusCritical, "Well below target"},
		{"half", 50, StatusCritical, "Well below target"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := CalculateMetricStatus(tt.current, 100, true)
			assert.Equal(t, tt.status, s.Status)
			assert.Equal(t, tt.message, s.Message)
			assert.InDelta(t, tt.current, s.Percentage, 1e-9)
		})
	}
}

func TestCalculateMetricStatus_LowerIsBetter(t *testing.T) {
	assert.Equal(t, StatusOnTrack, CalculateMetricStatus(30, 45, false).Status)
	assert.Equal(t, StatusOnTrack, CalculateMetricStatus(45, 45, false).Status)
	assert.Equal(t, StatusWarning, CalculateMetricStatus(56, 45, false).Status)
	assert.Equal(t, StatusWarning, CalculateMetricStatus(125, 100, false).Status)
	assert.Equal(t, StatusCritical, CalculateMetricStatus(126, 100, false).Status)
}

func TestCalculateMetricStatus_ZeroTarget(t *testing.T) {
	s := CalculateMetricStatus(10, 0, true)
	assert.Zero(t, s.Percentage)
	assert.Equal(t, StatusCritical, s.Status)

	s = CalculateMetricStatus(10, 0, false)
	assert.Zero(t, s.Percentage)
	assert.Equal(t, StatusOnTrack, s.Status)
}

func TestCalculateMetricStatus_CustomThresholds(t *testing.T) {
	assert.Equal(t, StatusWarning, CalculateMetricStatus(85, 100, true, WithThresholds(0.9, 0.5)).Status)
	assert.Equal(t, StatusWarning, CalculateMetricStatus(55, 100, true, WithThresholds(0.9, 0.5)).Status)
	assert.Equal(t, StatusCritical, CalculateMetricStatus(45, 100, true, WithThresholds(0.9, 0.5)).Status)

	// Zero thresholds fall back to the defaults.
	assert.Equal(t, StatusOnTrack, CalculateMetricStatus(85, 100, true, WithThresholds(0, 0)).Status)
}
