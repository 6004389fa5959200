package planner

// Request is a child's profile with the activity IDs they picked.
type Request struct {
	Child    Child    `json:"child" yaml:"child"`
	Selected []string `json:"selected" yaml:"selected"`
}

// Plan is the evaluated selection.
type Plan struct {
	Child      Child     `json:"child" yaml:"child"`
	Selected   []string  `json:"selected" yaml:"selected"`
	Cost       Breakdown `json:"cost" yaml:"cost"`
	Conflicts  []string  `json:"conflicts" yaml:"conflicts"`
	EALBlocked []string  `json:"ealBlocked" yaml:"eal_blocked"`
	Mismatched []string  `json:"genderMismatch" yaml:"gender_mismatch"`
	WrongYear  []string  `json:"wrongYear" yaml:"wrong_year"`
	Unknown    []string  `json:"unknown" yaml:"unknown"`
}

// Evaluate prices a request and flags selections the rules would not allow.
// Unknown IDs are reported and left out of the cost.
func (c *Calculator) Evaluate(cat *Catalog, req Request) Plan {
	selected, unknown := cat.Resolve(req.Selected)
	p := Plan{
		Child:      req.Child,
		Selected:   []string{},
		Cost:       c.Cost(selected),
		Conflicts:  []string{},
		EALBlocked: []string{},
		Mismatched: []string{},
		WrongYear:  []string{},
		Unknown:    unknown,
	}

	for _, a := range selected {
		p.Selected = append(p.Selected, a.ID)
		if HasConflict(a, selected) {
			p.Conflicts = append(p.Conflicts, a.ID)
		}
		if EALBlocked(a, req.Child) {
			p.EALBlocked = append(p.EALBlocked, a.ID)
		}
		if GenderMismatch(a, req.Child) {
			p.Mismatched = append(p.Mismatched, a.ID)
		}
		if req.Child.Year != "" && !MatchesYear(a, req.Child.Year) {
			p.WrongYear = append(p.WrongYear, a.ID)
		}
	}
	return p
}

// Valid reports whether the plan has no rule violations.
func (p Plan) Valid() bool {
	return len(p.Conflicts) == 0 && len(p.EALBlocked) == 0 &&
		len(p.Mismatched) == 0 && len(p.WrongYear) == 0 && len(p.Unknown) == 0
}
