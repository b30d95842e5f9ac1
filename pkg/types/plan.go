package types

type PlanInterval string

const (
	PlanIntervalMonth PlanInterval = "month"
	PlanIntervalYear  PlanInterval = "year"
)

// SubscriptionPlan is a catalog entry. The catalog lives in config and is
// immutable at runtime.
type SubscriptionPlan struct {
	ID          string       `json:"id" mapstructure:"id"`
	Name        string       `json:"name" mapstructure:"name"`
	Description string       `json:"description" mapstructure:"description"`
	// Price is in the smallest currency unit (centavos).
	Price     int64        `json:"price" mapstructure:"price"`
	Currency  string       `json:"currency" mapstructure:"currency"`
	Interval  PlanInterval `json:"interval" mapstructure:"interval"`
	Features  []string     `json:"features" mapstructure:"features"`
	TrialDays int          `json:"trial_days" mapstructure:"trial_days"`
	IsPopular bool         `json:"is_popular" mapstructure:"is_popular"`
	IsActive  bool         `json:"is_active" mapstructure:"is_active"`
}

func (p *SubscriptionPlan) Monthly() bool {
	return p.Interval == PlanIntervalMonth
}
