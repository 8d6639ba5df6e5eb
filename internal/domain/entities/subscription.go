package entities

import (
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
)

// SubscriptionPlan identifies a billing plan
type SubscriptionPlan string

const (
	PlanMonthly SubscriptionPlan = "monthly"
	PlanYearly  SubscriptionPlan = "yearly"
)

// SubscriptionStatus represents the lifecycle state of a subscription
type SubscriptionStatus string

const (
	SubscriptionActive   SubscriptionStatus = "active"
	SubscriptionCanceled SubscriptionStatus = "canceled"
	SubscriptionExpired  SubscriptionStatus = "expired"
)

// Subscription represents a user's subscription
type Subscription struct {
	ID                 uuid.UUID          `json:"id"`
	UserID             uuid.UUID          `json:"user_id"`
	Plan               SubscriptionPlan   `json:"plan"`
	Status             SubscriptionStatus `json:"status"`
	CurrentPeriodStart null.Time          `json:"current_period_start,omitempty"`
	CurrentPeriodEnd   null.Time          `json:"current_period_end,omitempty"`
	CreatedAt          time.Time          `json:"created_at"`
	UpdatedAt          time.Time          `json:"updated_at"`
}

// IsActive reports whether the subscription currently grants access
func (s *Subscription) IsActive(now time.Time) bool {
	if s.Status != SubscriptionActive {
		return false
	}
	if s.CurrentPeriodEnd.Valid && s.CurrentPeriodEnd.Time.Before(now) {
		return false
	}
	return true
}

// PlanInfo describes a purchasable plan
type PlanInfo struct {
	ID       SubscriptionPlan `json:"id"`
	Name     string           `json:"name"`
	Price    float64          `json:"price"`
	Currency string           `json:"currency"`
	Interval string           `json:"interval"`
	Features []string         `json:"features"`
	Savings  string           `json:"savings,omitempty"`
}

// SubscriptionStatusInfo is the status-endpoint projection of a
// user's subscription
type SubscriptionStatusInfo struct {
	Active          bool      `json:"active"`
	Plan            string    `json:"plan,omitempty"`
	Status          string    `json:"status"`
	NextBillingDate null.Time `json:"next_billing_date,omitempty"`
}

// CheckoutInput represents input for activating a plan
type CheckoutInput struct {
	Plan SubscriptionPlan `json:"plan" binding:"required"`
}

// AvailablePlans is the plan catalog served by the plans endpoint
func AvailablePlans() []PlanInfo {
	return []PlanInfo{
		{
			ID:       PlanMonthly,
			Name:     "Monthly Plan",
			Price:    29.99,
			Currency: "USD",
			Interval: "month",
			Features: []string{
				"Unlimited Bitcoin wills",
				"Secure document generation",
				"Beneficiary management",
				"Legal template library",
				"Email support",
			},
		},
		{
			ID:       PlanYearly,
			Name:     "Yearly Plan",
			Price:    299.99,
			Currency: "USD",
			Interval: "year",
			Features: []string{
				"Unlimited Bitcoin wills",
				"Secure document generation",
				"Beneficiary management",
				"Legal template library",
				"Priority support",
			},
			Savings: "17% savings",
		},
	}
}

// PeriodFor returns the subscription period for a plan starting at now
func PeriodFor(plan SubscriptionPlan, now time.Time) (time.Time, time.Time) {
	switch plan {
	case PlanYearly:
		return now, now.AddDate(1, 0, 0)
	default:
		return now, now.AddDate(0, 1, 0)
	}
}
