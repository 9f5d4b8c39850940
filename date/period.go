package date

import (
	"fmt"
	"strings"
)

// Period is a standard calendar span used to group days: a week starts on
// Monday, quarters start in January, April, July and October.
type Period int

const (
	Daily Period = iota
	Weekly
	Monthly
	Quarterly
	Yearly
)

// periodNames are the canonical names, indexed by Period.
var periodNames = [...]string{"daily", "weekly", "monthly", "quarterly", "yearly"}

func (p Period) String() string {
	if p < Daily || p > Yearly {
		return fmt.Sprintf("Period(%d)", int(p))
	}
	return periodNames[p]
}

// ParsePeriod parses a period from its name ("monthly") or its unit
// ("month"), case insensitive.
func ParsePeriod(s string) (Period, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for p, canonical := range periodNames {
		if name == canonical || name+"ly" == canonical || name == "day" && canonical == "daily" {
			return Period(p), nil
		}
	}
	return Daily, fmt.Errorf("unknown period %q", s)
}
