package types

import "strings"

type Fixability int

var (
	// Fixabilities is a list of COMPUTED_FIXABILITY values found in Snyk exports.
	// Anything else is treated as unknown.
	Fixabilities = []string{
		"unknown",
		"fixable",
		"partially fixable",
		"no fix available",
	}
)

const (
	FixabilityUnknown Fixability = iota
	FixabilityFixable
	FixabilityPartiallyFixable
	FixabilityNotFixable
)

func NewFixability(fixability string) Fixability {
	fixability = strings.ToLower(strings.TrimSpace(fixability))
	for i, f := range Fixabilities {
		if fixability == f {
			return Fixability(i)
		}
	}
	return FixabilityUnknown
}

func (f Fixability) String() string {
	if f < 0 || int(f) >= len(Fixabilities) {
		return Fixabilities[0]
	}
	return Fixabilities[f]
}

func (f Fixability) Index() int {
	return int(f)
}
