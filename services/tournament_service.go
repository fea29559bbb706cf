package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/timbersport/ranking-system/models"
	"github.com/timbersport/ranking-system/repositories"
)

// ManualResultInput is a single hand-entered result row. Values for
// disciplines the tournament did not hold are discarded; values for held
// disciplines default to 0 when omitted.
type ManualResultInput struct {
	Earned map[models.EventName]*float64 `json:"earned"`
}

type TournamentService interface {
	GetByID(ctx context.Context, id int) (*models.Tournament, error)
	List(ctx context.Context, limit, offset int) ([]models.Tournament, error)
	Delete(ctx context.Context, id int) error
	UpsertResult(ctx context.Context, tournamentID, competitorID int, input ManualResultInput) (*models.TournamentResult, error)
}

type tournamentService struct {
	tournamentRepo repositories.TournamentRepository
	competitorRepo repositories.CompetitorRepository
	resultRepo     repositories.ResultRepository
}

func NewTournamentService(
	tournamentRepo repositories.TournamentRepository,
	competitorRepo repositories.CompetitorRepository,
	resultRepo repositories.ResultRepository,
) TournamentService {
	return &tournamentService{
		tournamentRepo: tournamentRepo,
		competitorRepo: competitorRepo,
		resultRepo:     resultRepo,
	}
}

func (s *tournamentService) GetByID(ctx context.Context, id int) (*models.Tournament, error) {
	tournament, err := s.tournamentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, err
	}
	return tournament, nil
}

func (s *tournamentService) List(ctx context.Context, limit, offset int) ([]models.Tournament, error) {
	return s.tournamentRepo.List(ctx, limit, offset)
}

// Delete removes a tournament; its result rows cascade in the database.
func (s *tournamentService) Delete(ctx context.Context, id int) error {
	err := s.tournamentRepo.Delete(ctx, id)
	if errors.Is(err, repositories.ErrTournamentNotFound) {
		return ErrTournamentNotFound
	}
	return err
}

// UpsertResult stores one manually entered result row. The null/zero
// rule is enforced here the same way the commit coordinator enforces it:
// disciplines the tournament did not hold are stored as null no matter
// what the caller sent.
func (s *tournamentService) UpsertResult(ctx context.Context, tournamentID, competitorID int, input ManualResultInput) (*models.TournamentResult, error) {
	tournament, err := s.GetByID(ctx, tournamentID)
	if err != nil {
		return nil, err
	}
	if _, err := s.competitorRepo.GetByID(ctx, competitorID); err != nil {
		if errors.Is(err, repositories.ErrCompetitorNotFound) {
			return nil, ErrCompetitorNotFound
		}
		return nil, err
	}
	for event := range input.Earned {
		if !models.ValidEvent(event) {
			return nil, fmt.Errorf("%w: %q", ErrInvalidEvent, event)
		}
	}

	row := &models.TournamentResult{
		CompetitorID: competitorID,
		TournamentID: tournamentID,
	}
	for _, event := range models.AllEvents {
		if !tournament.HasEvent(event) {
			row.SetEarned(event, nil)
			continue
		}
		earned := input.Earned[event]
		if earned == nil {
			zero := 0.0
			earned = &zero
		}
		if *earned < 0 {
			return nil, fmt.Errorf("%w: %s earned value must not be negative", ErrValidationFailed, event)
		}
		row.SetEarned(event, earned)
	}

	if err := s.resultRepo.Upsert(ctx, nil, row); err != nil {
		return nil, fmt.Errorf("failed to upsert result: %w", err)
	}
	return row, nil
}
