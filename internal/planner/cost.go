package planner

import "github.com/sells-group/eca-cli/internal/model"

// Breakdown is the cost of a child's selection.
type Breakdown struct {
	FreeUsed   int `json:"freeUsed" yaml:"free_used"`
	ExtraCount int `json:"extraFreeCount" yaml:"extra_free_count"`
	FixedCost  int `json:"fixedCost" yaml:"fixed_cost"`
	ExtraCost  int `json:"extraCost" yaml:"extra_cost"`
	EALCost    int `json:"ealCost" yaml:"eal_cost"`
	TotalCost  int `json:"totalCost" yaml:"total_cost"`
}

// Calculator prices selections.
type Calculator struct {
	rates Rates
}

// NewCalculator creates a Calculator with the given rates.
func NewCalculator(rates Rates) *Calculator {
	return &Calculator{rates: rates}
}

// Rates returns the calculator's pricing.
func (c *Calculator) Rates() Rates { return c.rates }

// Cost prices the selected activities. EAL is a flat course fee however many
// EAL sessions are picked and never takes a free slot. AEN is assigned by the
// school: a fee is passed through but no slot is used.
func (c *Calculator) Cost(selected []model.Activity) Breakdown {
	var b Breakdown
	hasEAL := false

	for _, a := range selected {
		switch EffectiveCategory(a) {
		case model.CategoryEAL:
			hasEAL = true
			continue
		case model.CategoryAEN:
			if !a.IsFree {
				b.FixedCost += a.Fee
			}
			continue
		}

		switch {
		case !a.IsFree:
			b.FixedCost += a.Fee
		case b.FreeUsed < c.rates.FreeSlots:
			b.FreeUsed++
		default:
			b.ExtraCount++
		}
	}

	if hasEAL {
		b.EALCost = c.rates.EALFee
	}
	b.ExtraCost = b.ExtraCount * c.rates.ExtraFee
	b.TotalCost = b.FixedCost + b.ExtraCost + b.EALCost
	return b
}
