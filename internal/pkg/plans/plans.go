package plans

import "strings"

// Plan is one entry of the static demo subscription catalog. Prices are
// decimal amounts of the demo token mint; the billing interval is shown to
// the user but does not influence the mandate's validity window.
type Plan struct {
	ID           string
	Label        string
	Price        float64
	IntervalDays int
	Description  string
}

var catalog = []Plan{
	{
		ID:           "basic",
		Label:        "Basic",
		Price:        0.05,
		IntervalDays: 30,
		Description:  "Entry tier. Good for trying out pre-authorized payments.",
	},
	{
		ID:           "pro",
		Label:        "Pro",
		Price:        0.25,
		IntervalDays: 30,
		Description:  "Mid tier with a higher monthly charge.",
	},
	{
		ID:           "max",
		Label:        "Max",
		Price:        1.0,
		IntervalDays: 90,
		Description:  "Quarterly tier billed at a longer interval.",
	},
}

// All returns the demo plan catalog in display order.
func All() []Plan {
	out := make([]Plan, len(catalog))
	copy(out, catalog)
	return out
}

// ByID looks up a plan by its identifier.
func ByID(id string) (Plan, bool) {
	key := strings.ToLower(strings.TrimSpace(id))
	for _, p := range catalog {
		if p.ID == key {
			return p, true
		}
	}
	return Plan{}, false
}
