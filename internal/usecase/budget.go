package usecase

import (
	"math"

	"github.com/samber/lo"

	"github.com/tripweaver/backend/internal/domain"
)

// Spending categories, in presentation order.
var budgetCategories = []string{"transportation", "accommodation", "dining", "activities"}

// planAllocations maps a plan type to its category percentage split.
// Splits must sum to 1.
var planAllocations = map[string]map[string]float64{
	"economic": {
		"transportation": 0.32,
		"accommodation":  0.38,
		"dining":         0.18,
		"activities":     0.12,
	},
	"balanced": {
		"transportation": 0.30,
		"accommodation":  0.35,
		"dining":         0.20,
		"activities":     0.15,
	},
	"comfort": {
		"transportation": 0.28,
		"accommodation":  0.32,
		"dining":         0.22,
		"activities":     0.18,
	},
	"luxury": {
		"transportation": 0.25,
		"accommodation":  0.30,
		"dining":         0.25,
		"activities":     0.20,
	},
}

// BudgetPlanner splits a total trip budget across spending categories
// according to the selected plan type.
type BudgetPlanner struct{}

func NewBudgetPlanner() *BudgetPlanner {
	return &BudgetPlanner{}
}

// Allocate returns per-category amounts for the given plan type. Unknown
// plan types get the balanced split. Days below one are treated as one.
func (b *BudgetPlanner) Allocate(totalBudget float64, days int, planType string) []domain.BudgetAllocation {
	if days < 1 {
		days = 1
	}

	split, ok := planAllocations[planType]
	if !ok {
		split = planAllocations["balanced"]
	}

	return lo.Map(budgetCategories, func(category string, _ int) domain.BudgetAllocation {
		pct := split[category]
		amount := totalBudget * pct
		return domain.BudgetAllocation{
			Category:    category,
			Amount:      round2(amount),
			Percentage:  round2(pct * 100),
			DailyAmount: round2(amount / float64(days)),
		}
	})
}

// DailyAmount picks one category's daily amount out of an allocation.
func DailyAmount(allocations []domain.BudgetAllocation, category string) float64 {
	alloc, ok := lo.Find(allocations, func(a domain.BudgetAllocation) bool {
		return a.Category == category
	})
	if !ok {
		return 0
	}
	return alloc.DailyAmount
}

// ValidSplit reports whether a plan type's percentages sum to 1.
func ValidSplit(planType string) bool {
	split, ok := planAllocations[planType]
	if !ok {
		return false
	}
	sum := lo.Sum(lo.Values(split))
	return math.Abs(sum-1.0) < 1e-9
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
