// Package planner applies the family-facing selection rules to parsed
// activities: year matching, time slots, EAL blocking, conflicts and cost.
package planner

// Rates holds the school's pricing for a child's selection, in baht.
type Rates struct {
	// FreeSlots is how many free activities are included per child.
	FreeSlots int `yaml:"free_slots" mapstructure:"free_slots" json:"freeSlots"`
	// ExtraFee is charged for each free activity beyond FreeSlots.
	ExtraFee int `yaml:"extra_fee" mapstructure:"extra_fee" json:"extraFee"`
	// EALFee is the flat fee for the whole EAL course.
	EALFee int `yaml:"eal_fee" mapstructure:"eal_fee" json:"ealFee"`
}

// DefaultRates returns the published term rates.
func DefaultRates() Rates {
	return Rates{
		FreeSlots: 3,
		ExtraFee:  6750,
		EALFee:    25000,
	}
}
