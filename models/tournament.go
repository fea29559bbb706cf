package models

import "time"

// Tournament is a single competition day. Name is optional; Date is
// mandatory. The pair (Date, Name-or-empty) is unique.
type Tournament struct {
	ID   int       `json:"id" db:"id"`
	Name *string   `json:"name,omitempty" db:"name"`
	Date time.Time `json:"date" db:"date"`

	HasKnockdowns bool `json:"has_knockdowns" db:"has_knockdowns"`
	HasDistance   bool `json:"has_distance" db:"has_distance"`
	HasSpeed      bool `json:"has_speed" db:"has_speed"`
	HasWoods      bool `json:"has_woods" db:"has_woods"`

	TotalPointsKnockdowns float64 `json:"total_points_knockdowns" db:"total_points_knockdowns"`
	TotalPointsDistance   float64 `json:"total_points_distance" db:"total_points_distance"`
	TotalPointsSpeed      float64 `json:"total_points_speed" db:"total_points_speed"`
	TotalPointsWoods      float64 `json:"total_points_woods" db:"total_points_woods"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// HasEvent reports whether the given discipline was held at this tournament.
func (t *Tournament) HasEvent(event EventName) bool {
	switch event {
	case EventKnockdowns:
		return t.HasKnockdowns
	case EventDistance:
		return t.HasDistance
	case EventSpeed:
		return t.HasSpeed
	case EventWoods:
		return t.HasWoods
	}
	return false
}

// TotalPoints returns the configured maximum for the given discipline.
func (t *Tournament) TotalPoints(event EventName) float64 {
	switch event {
	case EventKnockdowns:
		return t.TotalPointsKnockdowns
	case EventDistance:
		return t.TotalPointsDistance
	case EventSpeed:
		return t.TotalPointsSpeed
	case EventWoods:
		return t.TotalPointsWoods
	}
	return 0
}

// SetEvent configures one discipline's held flag and maximum.
func (t *Tournament) SetEvent(event EventName, held bool, totalPoints float64) {
	switch event {
	case EventKnockdowns:
		t.HasKnockdowns = held
		t.TotalPointsKnockdowns = totalPoints
	case EventDistance:
		t.HasDistance = held
		t.TotalPointsDistance = totalPoints
	case EventSpeed:
		t.HasSpeed = held
		t.TotalPointsSpeed = totalPoints
	case EventWoods:
		t.HasWoods = held
		t.TotalPointsWoods = totalPoints
	}
}
