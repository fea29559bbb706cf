package services

import (
	"context"
	"fmt"

	"github.com/timbersport/ranking-system/models"
	"github.com/timbersport/ranking-system/repositories"
	"golang.org/x/sync/errgroup"
)

// DashboardStats is a small aggregate view for the admin landing page.
type DashboardStats struct {
	CompetitorsTotal int                      `json:"competitors_total"`
	TournamentsTotal int                      `json:"tournaments_total"`
	ResultsTotal     int                      `json:"results_total"`
	Leader           *models.RankedCompetitor `json:"leader,omitempty"`
}

type DashboardService interface {
	GetStats(ctx context.Context) (DashboardStats, error)
}

type dashboardService struct {
	competitorRepo repositories.CompetitorRepository
	tournamentRepo repositories.TournamentRepository
	resultRepo     repositories.ResultRepository
	ranking        RankingService
}

func NewDashboardService(
	competitorRepo repositories.CompetitorRepository,
	tournamentRepo repositories.TournamentRepository,
	resultRepo repositories.ResultRepository,
	ranking RankingService,
) DashboardService {
	return &dashboardService{
		competitorRepo: competitorRepo,
		tournamentRepo: tournamentRepo,
		resultRepo:     resultRepo,
		ranking:        ranking,
	}
}

func (s *dashboardService) GetStats(ctx context.Context) (DashboardStats, error) {
	var stats DashboardStats

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		count, err := s.competitorRepo.Count(gCtx)
		if err != nil {
			return fmt.Errorf("failed to count competitors: %w", err)
		}
		stats.CompetitorsTotal = count
		return nil
	})
	g.Go(func() error {
		count, err := s.tournamentRepo.Count(gCtx)
		if err != nil {
			return fmt.Errorf("failed to count tournaments: %w", err)
		}
		stats.TournamentsTotal = count
		return nil
	})
	g.Go(func() error {
		count, err := s.resultRepo.Count(gCtx)
		if err != nil {
			return fmt.Errorf("failed to count results: %w", err)
		}
		stats.ResultsTotal = count
		return nil
	})
	g.Go(func() error {
		ranked, err := s.ranking.RankAll(gCtx)
		if err != nil {
			return err
		}
		if len(ranked) > 0 {
			stats.Leader = &ranked[0]
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return DashboardStats{}, err
	}
	return stats, nil
}
