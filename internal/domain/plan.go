package domain

import (
	"fmt"
	"math"
	"time"
)

type PlanID string

const (
	PlanMonthly PlanID = "monthly"
	PlanAnnual  PlanID = "annual"
)

// Plan is a brand subscription offer. Prices are in whole rupees.
type Plan struct {
	ID            PlanID   `json:"id"`
	Name          string   `json:"name"`
	Price         int64    `json:"price"`
	OriginalPrice int64    `json:"originalPrice"`
	Description   string   `json:"description"`
	Features      []string `json:"features"`
	Popular       bool     `json:"popular,omitempty"`
	TermDays      int      `json:"termDays"`
}

// DiscountPercent is the rounded saving against the original price.
func (p Plan) DiscountPercent() int {
	if p.OriginalPrice <= 0 {
		return 0
	}
	return int(math.Round((1 - float64(p.Price)/float64(p.OriginalPrice)) * 100))
}

// RenewalDate is when a subscription bought at from runs out.
func (p Plan) RenewalDate(from time.Time) time.Time {
	return from.Add(time.Duration(p.TermDays) * 24 * time.Hour)
}

var plans = []Plan{
	{
		ID:            PlanMonthly,
		Name:          "Monthly Plan",
		Price:         2999,
		OriginalPrice: 3999,
		Description:   "Perfect for testing the waters",
		TermDays:      30,
		Features: []string{
			"Unlimited influencer discovery",
			"Up to 10 active campaigns",
			"Basic analytics & reporting",
			"Email support",
			"Campaign management tools",
			"Secure payment processing",
		},
	},
	{
		ID:            PlanAnnual,
		Name:          "Annual Plan",
		Price:         29999,
		OriginalPrice: 47999,
		Description:   "Best value for serious brands",
		Popular:       true,
		TermDays:      365,
		Features: []string{
			"Everything in Monthly Plan",
			"Unlimited active campaigns",
			"Advanced analytics & insights",
			"Priority phone support",
			"Dedicated account manager",
			"Custom campaign templates",
			"Bulk operations",
			"API access",
		},
	},
}

// Plans returns the subscription catalog.
func Plans() []Plan {
	out := make([]Plan, len(plans))
	copy(out, plans)
	return out
}

func LookupPlan(id PlanID) (Plan, error) {
	for _, p := range plans {
		if p.ID == id {
			return p, nil
		}
	}
	return Plan{}, fmt.Errorf("unknown plan %q", id)
}

// PopularTags are the suggested niches offered by profile creation.
var PopularTags = []string{
	"Fitness", "Gaming", "Beauty", "Lifestyle", "Fashion", "Food", "Travel",
	"Technology", "Health", "Music", "Comedy", "Education", "Business",
	"Parenting", "DIY", "Sports", "Photography", "Art", "Books", "Movies",
}
