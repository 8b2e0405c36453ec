// ABOUTME: Metric status classification against a target
// ABOUTME: Shared by the sales, client, and developer status panels
package metrics

import "github.com/harperreed/bizdash/models"

// Status values.
const (
	StatusOnTrack  = "onTrack"
	StatusWarning  = "warning"
	StatusCritical = "critical"
)

type MetricStatus struct {
	Status     string  `json:"status"`
	Percentage float64 `json:"percentage"`
	Message    string  `json:"message"`
}

type statusOptions struct {
	warning  float64
	critical float64
}

// StatusOption adjusts classification thresholds.
type StatusOption func(*statusOptions)

// WithThresholds overrides the warning and critical fractions of target.
// Non-positive values keep the defaults.
func WithThresholds(warning, critical float64) StatusOption {
	return func(o *statusOptions) {
		if warning > 0 {
			o.warning = warning
		}
		if critical > 0 {
			o.critical = critical
		}
	}
}

// CalculateMetricStatus classifies current against target. For lower-is-better
// metrics, anything at or under target is on track and the warning band ends
// at target divided by the warning threshold.
func CalculateMetricStatus(current, target float64, higherIsBetter bool, opts ...StatusOption) MetricStatus {
	o := statusOptions{
		warning:  models.DefaultWarningThreshold,
		critical: models.DefaultCriticalThreshold,
	}
	for _, opt := range opts {
		opt(&o)
	}

	ratio := 0.0
	if target > 0 {
		ratio = current / target
	}
	result := MetricStatus{Percentage: ratio * 100}

	if higherIsBetter {
		switch {
		case ratio >= 1:
			result.Status, result.Message = StatusOnTrack, "Exceeding target"
		case ratio >= o.warning:
			result.Status, result.Message = StatusOnTrack, "On track"
		case ratio >= o.critical:
			result.Status, result.Message = StatusWarning, "Below target"
		default:
			result.Status, result.Message = StatusCritical, "Well below target"
		}
		return result
	}

	switch {
	case ratio <= 1:
		result.Status, result.Message = StatusOnTrack, "Within target"
	case ratio <= 1/o.warning:
		result.Status, result.Message = StatusWarning, "Above target"
	default:
		result.Status, result.Message = StatusCritical, "Well above target"
	}
	return result
}

// NamedStatus is one row of a status panel.
type NamedStatus struct {
	Name           string       `json:"name"`
	Current        float64      `json:"current"`
	Target         float64      `json:"target"`
	HigherIsBetter bool         `json:"higherIsBetter"`
	Status         MetricStatus `json:"status"`
}

func named(name string, current, target float64, higherIsBetter bool, opts ...StatusOption) NamedStatus {
	return NamedStatus{
		Name:           name,
		Current:        current,
		Target:         target,
		HigherIsBetter: higherIsBetter,
		Status:         CalculateMetricStatus(current, target, higherIsBetter, opts...),
	}
}
