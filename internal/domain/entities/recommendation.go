package entities

// RecommendationCategory groups recommendations by concern.
type RecommendationCategory string

const (
	CategorySecurity      RecommendationCategory = "security"
	CategoryMaintenance   RecommendationCategory = "maintenance"
	CategoryPerformance   RecommendationCategory = "performance"
	CategoryLicense       RecommendationCategory = "license"
	CategoryCompatibility RecommendationCategory = "compatibility"
)

// Priority is the urgency of a recommendation.
type Priority string

const (
	PriorityCritical Priority = "critical"
	PriorityHigh     Priority = "high"
	PriorityMedium   Priority = "medium"
	PriorityLow      Priority = "low"
)

// Rank orders priorities: critical 4, high 3, medium 2, low 1.
func (p Priority) Rank() int {
	switch p {
	case PriorityCritical:
		return 4
	case PriorityHigh:
		return 3
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 1
	default:
		return 0
	}
}

// Recommendation is a human-actionable suggestion derived from an analysis.
type Recommendation struct {
	Category     RecommendationCategory `json:"category"     yaml:"category"`
	Priority     Priority               `json:"priority"     yaml:"priority"`
	Dependencies []string               `json:"dependencies" yaml:"dependencies"`
	Action       string                 `json:"action"       yaml:"action"`
	AutoFixable  bool                   `json:"autoFixable"  yaml:"autoFixable"`
	Impact       string                 `json:"impact"       yaml:"impact"`
	Effort       string                 `json:"effort"       yaml:"effort"`
}
