package models

import "fmt"

// Plan maps a purchasable bundle to its credit grant and its price
// in whole currency units.
type Plan struct {
	ID      string `json:"id"`
	Desc    string `json:"desc"`
	Credits int    `json:"credits"`
	Amount  int64  `json:"price"`
}

// Plans is the fixed plan table. Kept as data (not a switch in the
// handler) so it can be listed publicly and validated at startup.
var Plans = []Plan{
	{ID: "Basic", Desc: "Best for personal use.", Credits: 100, Amount: 10},
	{ID: "Advanced", Desc: "Best for business use.", Credits: 500, Amount: 50},
	{ID: "Business", Desc: "Best for enterprise use.", Credits: 5000, Amount: 250},
}

// PlanByID looks up a plan by its identifier.
func PlanByID(id string) (Plan, bool) {
	for _, p := range Plans {
		if p.ID == id {
			return p, true
		}
	}
	return Plan{}, false
}

// ValidatePlans sanity-checks the plan table. main() calls this at
// startup so a bad edit fails fast instead of minting free credits.
func ValidatePlans() error {
	seen := make(map[string]bool, len(Plans))
	for _, p := range Plans {
		if p.ID == "" {
			return fmt.Errorf("plan with empty id")
		}
		if seen[p.ID] {
			return fmt.Errorf("duplicate plan id %q", p.ID)
		}
		seen[p.ID] = true
		if p.Credits <= 0 || p.Amount <= 0 {
			return fmt.Errorf("plan %q has non-positive credits or price", p.ID)
		}
	}
	return nil
}
