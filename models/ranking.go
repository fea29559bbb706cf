package models

import "time"

// RankedCompetitor is one row of the competition ranking table.
type RankedCompetitor struct {
	Competitor  Competitor             `json:"competitor"`
	EventScores map[EventName]*float64 `json:"event_scores"`
	Total       float64                `json:"total"`
	Rank        int                    `json:"rank"`
}

// HistoryRow is one tournament a competitor took part in, with the
// per-discipline percentage scored there (nil when not held).
type HistoryRow struct {
	TournamentID   int                    `json:"tournament_id"`
	TournamentName *string                `json:"tournament_name,omitempty"`
	Date           time.Time              `json:"date"`
	EventPercents  map[EventName]*float64 `json:"event_percents"`
}
