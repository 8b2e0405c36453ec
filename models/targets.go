// ABOUTME: Sales targets and developer productivity records
// ABOUTME: Configuration snapshots the metrics aggregator compares against
package models

// Default classification thresholds, as fractions of target.
const (
	DefaultWarningThreshold  = 0.8
	DefaultCriticalThreshold = 0.6
)

type SalesTargets struct {
	NewLeadsPerMonth        float64 `json:"newLeadsPerMonth"`
	LeadConversionRate      float64 `json:"leadConversionRate"`
	PipelineValue           float64 `json:"pipelineValue"`
	WinRate                 float64 `json:"winRate"`
	AverageDealSize         float64 `json:"averageDealSize"`
	SalesCycleDays          float64 `json:"salesCycleDays"`
	MonthlyRecurringRevenue float64 `json:"monthlyRecurringRevenue"`
	ActiveClients           float64 `json:"activeClients"`
	ClientRetentionRate     float64 `json:"clientRetentionRate"`
	WarningThreshold        float64 `json:"warningThreshold,omitempty"`
	CriticalThreshold       float64 `json:"criticalThreshold,omitempty"`
}

func DefaultSalesTargets() SalesTargets {
	return SalesTargets{
		NewLeadsPerMonth:        10,
		LeadConversionRate:      25,
		PipelineValue:           250000,
		WinRate:                 30,
		AverageDealSize:         25000,
		SalesCycleDays:          45,
		MonthlyRecurringRevenue: 20000,
		ActiveClients:           8,
		ClientRetentionRate:     85,
		WarningThreshold:        DefaultWarningThreshold,
		CriticalThreshold:       DefaultCriticalThreshold,
	}
}

type Developer struct {
	ID             int64   `json:"id"`
	Name           string  `json:"name"`
	Role           string  `json:"role,omitempty"`
	BillableHours  float64 `json:"billableHours"`
	AvailableHours float64 `json:"availableHours"`
	TasksCompleted int     `json:"tasksCompleted"`
	Velocity       float64 `json:"velocity"`
	Kickbacks      int     `json:"kickbacks"`
}

type ProjectRecord struct {
	ID             int64   `json:"id"`
	Name           string  `json:"name"`
	Client         string  `json:"client,omitempty"`
	Satisfaction   float64 `json:"satisfaction"`
	OnTime         bool    `json:"onTime"`
	Kickbacks      int     `json:"kickbacks"`
	TasksDelivered int     `json:"tasksDelivered"`
	HoursBilled    float64 `json:"hoursBilled"`
}

type DeveloperTargets struct {
	BillableUtilization float64 `json:"billableUtilization"`
	Velocity            float64 `json:"velocity"`
	Satisfaction        float64 `json:"satisfaction"`
	OnTimeDeliveryRate  float64 `json:"onTimeDeliveryRate"`
	KickbackRatio       float64 `json:"kickbackRatio"`
}

func DefaultDeveloperTargets() DeveloperTargets {
	return DeveloperTargets{
		BillableUtilization: 75,
		Velocity:            30,
		Satisfaction:        4.5,
		OnTimeDeliveryRate:  90,
		KickbackRatio:       10,
	}
}

type DeveloperMetrics struct {
	Developers []Developer      `json:"developers"`
	Projects   []ProjectRecord  `json:"projects"`
	Targets    DeveloperTargets `json:"targets"`
}
