package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/timbersport/ranking-system/models"
	"github.com/timbersport/ranking-system/repositories"
)

type CreateCompetitorInput struct {
	Name  string  `json:"name"`
	Email *string `json:"email,omitempty"`
}

type UpdateCompetitorInput struct {
	Name  *string `json:"name,omitempty"`
	Email *string `json:"email,omitempty"`
}

type CompetitorService interface {
	Create(ctx context.Context, input CreateCompetitorInput) (*models.Competitor, error)
	GetByID(ctx context.Context, id int) (*models.Competitor, error)
	List(ctx context.Context) ([]models.Competitor, error)
	Update(ctx context.Context, id int, input UpdateCompetitorInput) (*models.Competitor, error)
	Delete(ctx context.Context, id int) error
}

type competitorService struct {
	competitorRepo repositories.CompetitorRepository
}

func NewCompetitorService(competitorRepo repositories.CompetitorRepository) CompetitorService {
	return &competitorService{competitorRepo: competitorRepo}
}

func (s *competitorService) Create(ctx context.Context, input CreateCompetitorInput) (*models.Competitor, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrCompetitorNameRequired
	}

	competitor := &models.Competitor{Name: name, Email: normalizeEmail(input.Email)}
	if err := s.competitorRepo.Create(ctx, nil, competitor); err != nil {
		return nil, mapCompetitorRepoError(err)
	}
	return competitor, nil
}

func (s *competitorService) GetByID(ctx context.Context, id int) (*models.Competitor, error) {
	competitor, err := s.competitorRepo.GetByID(ctx, id)
	if err != nil {
		return nil, mapCompetitorRepoError(err)
	}
	return competitor, nil
}

func (s *competitorService) List(ctx context.Context) ([]models.Competitor, error) {
	return s.competitorRepo.List(ctx)
}

func (s *competitorService) Update(ctx context.Context, id int, input UpdateCompetitorInput) (*models.Competitor, error) {
	competitor, err := s.competitorRepo.GetByID(ctx, id)
	if err != nil {
		return nil, mapCompetitorRepoError(err)
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, ErrCompetitorNameRequired
		}
		competitor.Name = name
	}
	if input.Email != nil {
		competitor.Email = normalizeEmail(input.Email)
	}

	if err := s.competitorRepo.Update(ctx, competitor); err != nil {
		return nil, mapCompetitorRepoError(err)
	}
	return competitor, nil
}

// Delete removes a competitor; their results cascade in the database.
func (s *competitorService) Delete(ctx context.Context, id int) error {
	if err := s.competitorRepo.Delete(ctx, id); err != nil {
		return mapCompetitorRepoError(err)
	}
	return nil
}

func normalizeEmail(email *string) *string {
	if email == nil {
		return nil
	}
	trimmed := strings.TrimSpace(strings.ToLower(*email))
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func mapCompetitorRepoError(err error) error {
	switch {
	case errors.Is(err, repositories.ErrCompetitorNotFound):
		return ErrCompetitorNotFound
	case errors.Is(err, repositories.ErrCompetitorNameConflict):
		return ErrCompetitorNameConflict
	case errors.Is(err, repositories.ErrCompetitorEmailConflict):
		return ErrCompetitorEmailConflict
	}
	return fmt.Errorf("competitor repository error: %w", err)
}
