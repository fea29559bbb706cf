package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/timbersport/ranking-system/models"
	"github.com/timbersport/ranking-system/repositories"
)

// ScoringService is the score engine. Scores are always recomputed from
// the full persisted history on every read; nothing is cached, so a
// re-run over the stored rows reproduces every number bit for bit.
type ScoringService interface {
	CompetitorScores(ctx context.Context, competitorID int) (map[models.EventName]*float64, float64, error)
	CompetitorHistory(ctx context.Context, competitorID int) ([]models.HistoryRow, error)
}

type scoringService struct {
	competitorRepo repositories.CompetitorRepository
	resultRepo     repositories.ResultRepository
}

func NewScoringService(
	competitorRepo repositories.CompetitorRepository,
	resultRepo repositories.ResultRepository,
) ScoringService {
	return &scoringService{
		competitorRepo: competitorRepo,
		resultRepo:     resultRepo,
	}
}

// EventScore computes a competitor's mean percentage for one discipline
// over every tournament where the discipline was held and the earned
// value is non-nil. It returns nil when no tournament qualifies. This is
// a direct average over the full set, not a running average: the two are
// numerically different and only the former is correct here.
func EventScore(results []models.ResultWithTournament, event models.EventName) *float64 {
	var sum float64
	count := 0
	for _, rt := range results {
		if !rt.Tournament.HasEvent(event) {
			continue
		}
		earned := rt.Result.Earned(event)
		if earned == nil {
			continue
		}
		total := rt.Tournament.TotalPoints(event)
		if total <= 0 {
			continue
		}
		sum += *earned / total * 100
		count++
	}
	if count == 0 {
		return nil
	}
	score := sum / float64(count)
	return &score
}

// TotalScore is the mean of the four event scores with missing events
// counted as 0, always divided by 4. A competitor with no history has a
// defined total of 0.
func TotalScore(results []models.ResultWithTournament) float64 {
	var sum float64
	for _, event := range models.AllEvents {
		if score := EventScore(results, event); score != nil {
			sum += *score
		}
	}
	return sum / float64(len(models.AllEvents))
}

func (s *scoringService) CompetitorScores(ctx context.Context, competitorID int) (map[models.EventName]*float64, float64, error) {
	if _, err := s.competitorRepo.GetByID(ctx, competitorID); err != nil {
		if errors.Is(err, repositories.ErrCompetitorNotFound) {
			return nil, 0, ErrCompetitorNotFound
		}
		return nil, 0, fmt.Errorf("failed to load competitor %d: %w", competitorID, err)
	}

	results, err := s.resultRepo.ListByCompetitor(ctx, competitorID)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to load results for competitor %d: %w", competitorID, err)
	}

	scores := make(map[models.EventName]*float64, len(models.AllEvents))
	for _, event := range models.AllEvents {
		scores[event] = EventScore(results, event)
	}
	return scores, TotalScore(results), nil
}

func (s *scoringService) CompetitorHistory(ctx context.Context, competitorID int) ([]models.HistoryRow, error) {
	if _, err := s.competitorRepo.GetByID(ctx, competitorID); err != nil {
		if errors.Is(err, repositories.ErrCompetitorNotFound) {
			return nil, ErrCompetitorNotFound
		}
		return nil, fmt.Errorf("failed to load competitor %d: %w", competitorID, err)
	}

	results, err := s.resultRepo.ListByCompetitor(ctx, competitorID)
	if err != nil {
		return nil, fmt.Errorf("failed to load results for competitor %d: %w", competitorID, err)
	}

	// Repository returns rows oldest first already.
	history := make([]models.HistoryRow, 0, len(results))
	for _, rt := range results {
		row := models.HistoryRow{
			TournamentID:   rt.Tournament.ID,
			TournamentName: rt.Tournament.Name,
			Date:           rt.Tournament.Date,
			EventPercents:  make(map[models.EventName]*float64, len(models.AllEvents)),
		}
		for _, event := range models.AllEvents {
			row.EventPercents[event] = eventPercent(rt, event)
		}
		history = append(history, row)
	}
	return history, nil
}

// eventPercent is the percentage scored at a single tournament, nil when
// the discipline was not held there or no value was recorded.
func eventPercent(rt models.ResultWithTournament, event models.EventName) *float64 {
	if !rt.Tournament.HasEvent(event) {
		return nil
	}
	earned := rt.Result.Earned(event)
	if earned == nil {
		return nil
	}
	total := rt.Tournament.TotalPoints(event)
	if total <= 0 {
		return nil
	}
	pct := *earned / total * 100
	return &pct
}
