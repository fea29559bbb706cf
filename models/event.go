package models

// EventName identifies one of the four scored disciplines.
type EventName string

const (
	EventKnockdowns EventName = "knockdowns"
	EventDistance   EventName = "distance"
	EventSpeed      EventName = "speed"
	EventWoods      EventName = "woods"
)

// AllEvents lists the disciplines in their canonical display order.
var AllEvents = []EventName{EventKnockdowns, EventDistance, EventSpeed, EventWoods}

// DefaultTotalPoints is the per-event maximum used when a tournament
// does not override it.
const DefaultTotalPoints = 120.0

func ValidEvent(name EventName) bool {
	for _, e := range AllEvents {
		if e == name {
			return true
		}
	}
	return false
}
