// ABOUTME: Developer productivity aggregation
// ABOUTME: Utilization, velocity, satisfaction, delivery, and kickback ratios
package metrics

import "github.com/harperreed/bizdash/models"

type DeveloperSummary struct {
	Developers            int     `json:"developers"`
	Projects              int     `json:"projects"`
	TotalBillableHours    float64 `json:"totalBillableHours"`
	TotalAvailableHours   float64 `json:"totalAvailableHours"`
	BillableUtilization   float64 `json:"billableUtilization"`
	TotalTasksCompleted   int     `json:"totalTasksCompleted"`
	AverageTasksCompleted float64 `json:"averageTasksCompleted"`
	AverageVelocity       float64 `json:"averageVelocity"`
	TotalKickbacks        int     `json:"totalKickbacks"`
	KickbackRatio         float64 `json:"kickbackRatio"`
	AverageSatisfaction   float64 `json:"averageSatisfaction"`
	OnTimeDeliveryRate    float64 `json:"onTimeDeliveryRate"`
	ReferralPotential     float64 `json:"referralPotential"`
}

// AggregateDevelopers rolls developer and project records up into team figures.
func AggregateDevelopers(dm models.DeveloperMetrics) DeveloperSummary {
	s := DeveloperSummary{
		Developers: len(dm.Developers),
		Projects:   len(dm.Projects),
	}

	var velocity float64
	for _, d := range dm.Developers {
		s.TotalBillableHours += d.BillableHours
		s.TotalAvailableHours += d.AvailableHours
		s.TotalTasksCompleted += d.TasksCompleted
		s.TotalKickbacks += d.Kickbacks
		velocity += d.Velocity
	}

	var satisfaction float64
	onTime := 0
	for _, p := range dm.Projects {
		satisfaction += p.Satisfaction
		if p.OnTime {
			onTime++
		}
	}

	s.BillableUtilization = ratio(s.TotalBillableHours, s.TotalAvailableHours) * 100
	s.AverageVelocity = ratio(velocity, float64(s.Developers))
	s.AverageTasksCompleted = ratio(float64(s.TotalTasksCompleted), float64(s.Developers))
	s.KickbackRatio = ratio(float64(s.TotalKickbacks), float64(s.TotalTasksCompleted)) * 100
	s.AverageSatisfaction = ratio(satisfaction, float64(s.Projects))
	s.OnTimeDeliveryRate = ratio(float64(onTime), float64(s.Projects)) * 100
	s.ReferralPotential = (s.AverageSatisfaction / 5) * (s.OnTimeDeliveryRate / 100) * 100
	return s
}

// DeveloperStatusPanel classifies team figures against developer targets.
func DeveloperStatusPanel(s DeveloperSummary, targets models.DeveloperTargets) []NamedStatus {
	return []NamedStatus{
		named("Billable Utilization %", s.BillableUtilization, targets.BillableUtilization, true),
		named("Average Velocity", s.AverageVelocity, targets.Velocity, true),
		named("Client Satisfaction", s.AverageSatisfaction, targets.Satisfaction, true),
		named("On-Time Delivery %", s.OnTimeDeliveryRate, targets.OnTimeDeliveryRate, true),
		named("Kickback Ratio %", s.KickbackRatio, targets.KickbackRatio, false),
	}
}
