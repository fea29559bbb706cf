package services

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/timbersport/ranking-system/models"
	"github.com/timbersport/ranking-system/repositories"
)

// RankingService produces the competition ranking table.
type RankingService interface {
	RankAll(ctx context.Context) ([]models.RankedCompetitor, error)
}

type rankingService struct {
	competitorRepo repositories.CompetitorRepository
	resultRepo     repositories.ResultRepository
}

func NewRankingService(
	competitorRepo repositories.CompetitorRepository,
	resultRepo repositories.ResultRepository,
) RankingService {
	return &rankingService{
		competitorRepo: competitorRepo,
		resultRepo:     resultRepo,
	}
}

// RankAll scores every competitor from the full result history, sorts by
// total descending and assigns standard competition ranks: competitors
// with exactly equal totals share a rank, and ties use up rank slots, so
// a three-way tie at rank 1 is followed by rank 4. Totals are derived
// deterministically from stored inputs, so tie detection is exact float
// equality, never an epsilon.
func (s *rankingService) RankAll(ctx context.Context) ([]models.RankedCompetitor, error) {
	competitors, err := s.competitorRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list competitors: %w", err)
	}

	// One snapshot query for all results so concurrent commits cannot be
	// half-observed across competitors.
	allResults, err := s.resultRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list results: %w", err)
	}
	byCompetitor := make(map[int][]models.ResultWithTournament)
	for _, rt := range allResults {
		byCompetitor[rt.Result.CompetitorID] = append(byCompetitor[rt.Result.CompetitorID], rt)
	}

	ranked := make([]models.RankedCompetitor, 0, len(competitors))
	for _, competitor := range competitors {
		results := byCompetitor[competitor.ID]
		scores := make(map[models.EventName]*float64, len(models.AllEvents))
		for _, event := range models.AllEvents {
			scores[event] = EventScore(results, event)
		}
		// Competitors with no history rank with a total of 0; they are
		// listed, never excluded.
		ranked = append(ranked, models.RankedCompetitor{
			Competitor:  competitor,
			EventScores: scores,
			Total:       TotalScore(results),
		})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Total != ranked[j].Total {
			return ranked[i].Total > ranked[j].Total
		}
		ni := strings.ToLower(ranked[i].Competitor.Name)
		nj := strings.ToLower(ranked[j].Competitor.Name)
		if ni != nj {
			return ni < nj
		}
		return ranked[i].Competitor.ID < ranked[j].Competitor.ID
	})

	for i := range ranked {
		if i > 0 && ranked[i].Total == ranked[i-1].Total {
			ranked[i].Rank = ranked[i-1].Rank
			continue
		}
		ranked[i].Rank = i + 1
	}
	return ranked, nil
}
