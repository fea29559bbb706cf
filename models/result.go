package models

// TournamentResult links one competitor to one tournament, one row per
// pair. A nil earned value means the discipline was not part of that
// tournament; 0 means it was held and the competitor scored nothing.
// The two must never be collapsed.
type TournamentResult struct {
	ID           int `json:"id" db:"id"`
	CompetitorID int `json:"competitor_id" db:"competitor_id"`
	TournamentID int `json:"tournament_id" db:"tournament_id"`

	KnockdownsEarned *float64 `json:"knockdowns_earned" db:"knockdowns_earned"`
	DistanceEarned   *float64 `json:"distance_earned" db:"distance_earned"`
	SpeedEarned      *float64 `json:"speed_earned" db:"speed_earned"`
	WoodsEarned      *float64 `json:"woods_earned" db:"woods_earned"`
}

// Earned returns the raw points for one discipline, nil if not held.
func (r *TournamentResult) Earned(event EventName) *float64 {
	switch event {
	case EventKnockdowns:
		return r.KnockdownsEarned
	case EventDistance:
		return r.DistanceEarned
	case EventSpeed:
		return r.SpeedEarned
	case EventWoods:
		return r.WoodsEarned
	}
	return nil
}

// SetEarned stores the raw points for one discipline.
func (r *TournamentResult) SetEarned(event EventName, value *float64) {
	switch event {
	case EventKnockdowns:
		r.KnockdownsEarned = value
	case EventDistance:
		r.DistanceEarned = value
	case EventSpeed:
		r.SpeedEarned = value
	case EventWoods:
		r.WoodsEarned = value
	}
}

// ResultWithTournament is a result row joined to its tournament, the
// unit the score engine consumes.
type ResultWithTournament struct {
	Result     TournamentResult `json:"result"`
	Tournament Tournament       `json:"tournament"`
}
