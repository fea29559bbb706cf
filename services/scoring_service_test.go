package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/timbersport/ranking-system/models"
)

func ptr(v float64) *float64 { return &v }

// resultRow builds one joined row with a single discipline configured.
func resultRow(event models.EventName, held bool, totalPoints float64, earned *float64) models.ResultWithTournament {
	rt := models.ResultWithTournament{}
	rt.Tournament.SetEvent(event, held, totalPoints)
	rt.Result.SetEarned(event, earned)
	return rt
}

func TestEventScore_DirectMeanOverAllTournaments(t *testing.T) {
	// 80/100, 120/200, 120/150 -> 80%, 60%, 80%. The direct mean is
	// 73.33; a running average of the same sequence would give 75.
	results := []models.ResultWithTournament{
		resultRow(models.EventKnockdowns, true, 100, ptr(80)),
		resultRow(models.EventKnockdowns, true, 200, ptr(120)),
		resultRow(models.EventKnockdowns, true, 150, ptr(120)),
	}

	score := EventScore(results, models.EventKnockdowns)
	require.NotNil(t, score)
	assert.InDelta(t, 220.0/3.0, *score, 1e-9)
	assert.NotEqual(t, 75.0, *score)
}

func TestEventScore_ZeroAndNilAreDifferent(t *testing.T) {
	// A recorded 0 drags the mean down; a nil (event not held for that
	// competitor) is excluded entirely.
	withZero := []models.ResultWithTournament{
		resultRow(models.EventSpeed, true, 100, ptr(100)),
		resultRow(models.EventSpeed, true, 100, ptr(0)),
	}
	withNil := []models.ResultWithTournament{
		resultRow(models.EventSpeed, true, 100, ptr(100)),
		resultRow(models.EventSpeed, true, 100, nil),
	}

	zeroScore := EventScore(withZero, models.EventSpeed)
	require.NotNil(t, zeroScore)
	assert.InDelta(t, 50.0, *zeroScore, 1e-9)

	nilScore := EventScore(withNil, models.EventSpeed)
	require.NotNil(t, nilScore)
	assert.InDelta(t, 100.0, *nilScore, 1e-9)
}

func TestEventScore_SkipsTournamentsWhereEventNotHeld(t *testing.T) {
	results := []models.ResultWithTournament{
		resultRow(models.EventWoods, true, 100, ptr(40)),
		resultRow(models.EventWoods, false, 100, nil),
	}

	score := EventScore(results, models.EventWoods)
	require.NotNil(t, score)
	assert.InDelta(t, 40.0, *score, 1e-9)
}

func TestEventScore_NoQualifyingTournaments(t *testing.T) {
	assert.Nil(t, EventScore(nil, models.EventDistance))

	notHeld := []models.ResultWithTournament{
		resultRow(models.EventDistance, false, 100, nil),
	}
	assert.Nil(t, EventScore(notHeld, models.EventDistance))
}

func TestTotalScore_AlwaysDividedByFour(t *testing.T) {
	// Only one discipline has history at 80%; the other three count as
	// 0, so the total is 20, not 80.
	results := []models.ResultWithTournament{
		resultRow(models.EventKnockdowns, true, 100, ptr(80)),
	}
	assert.InDelta(t, 20.0, TotalScore(results), 1e-9)
}

func TestTotalScore_EmptyHistory(t *testing.T) {
	assert.Equal(t, 0.0, TotalScore(nil))
}

func TestScoringService_CompetitorScores(t *testing.T) {
	store := newFakeStore()
	competitorRepo := &fakeCompetitorRepo{store: store}
	resultRepo := &fakeResultRepo{store: store}
	svc := NewScoringService(competitorRepo, resultRepo)
	ctx := context.Background()

	alice := &models.Competitor{Name: "Alice"}
	require.NoError(t, competitorRepo.Create(ctx, nil, alice))

	tournament := models.Tournament{ID: 1, Date: time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)}
	tournament.SetEvent(models.EventKnockdowns, true, 100)
	tournament.SetEvent(models.EventDistance, true, 200)
	store.tournaments = append(store.tournaments, tournament)

	row := models.TournamentResult{CompetitorID: alice.ID, TournamentID: 1}
	row.SetEarned(models.EventKnockdowns, ptr(80))
	row.SetEarned(models.EventDistance, ptr(100))
	store.results = append(store.results, row)

	scores, total, err := svc.CompetitorScores(ctx, alice.ID)
	require.NoError(t, err)

	require.NotNil(t, scores[models.EventKnockdowns])
	assert.InDelta(t, 80.0, *scores[models.EventKnockdowns], 1e-9)
	require.NotNil(t, scores[models.EventDistance])
	assert.InDelta(t, 50.0, *scores[models.EventDistance], 1e-9)
	assert.Nil(t, scores[models.EventSpeed])
	assert.Nil(t, scores[models.EventWoods])
	assert.InDelta(t, (80.0+50.0)/4.0, total, 1e-9)
}

func TestScoringService_CompetitorScores_NotFound(t *testing.T) {
	store := newFakeStore()
	svc := NewScoringService(&fakeCompetitorRepo{store: store}, &fakeResultRepo{store: store})

	_, _, err := svc.CompetitorScores(context.Background(), 42)
	assert.ErrorIs(t, err, ErrCompetitorNotFound)
}

func TestScoringService_CompetitorHistory(t *testing.T) {
	store := newFakeStore()
	competitorRepo := &fakeCompetitorRepo{store: store}
	resultRepo := &fakeResultRepo{store: store}
	svc := NewScoringService(competitorRepo, resultRepo)
	ctx := context.Background()

	alice := &models.Competitor{Name: "Alice"}
	require.NoError(t, competitorRepo.Create(ctx, nil, alice))

	name := "Spring Cup"
	first := models.Tournament{ID: 1, Name: &name, Date: time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)}
	first.SetEvent(models.EventSpeed, true, 100)
	second := models.Tournament{ID: 2, Date: time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)}
	second.SetEvent(models.EventSpeed, true, 100)
	second.SetEvent(models.EventWoods, true, 100)
	store.tournaments = append(store.tournaments, first, second)

	row1 := models.TournamentResult{CompetitorID: alice.ID, TournamentID: 1}
	row1.SetEarned(models.EventSpeed, ptr(50))
	row2 := models.TournamentResult{CompetitorID: alice.ID, TournamentID: 2}
	row2.SetEarned(models.EventSpeed, ptr(75))
	row2.SetEarned(models.EventWoods, ptr(0))
	store.results = append(store.results, row1, row2)

	history, err := svc.CompetitorHistory(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, history, 2)

	// Oldest first.
	assert.Equal(t, 1, history[0].TournamentID)
	require.NotNil(t, history[0].TournamentName)
	assert.Equal(t, "Spring Cup", *history[0].TournamentName)
	assert.InDelta(t, 50.0, *history[0].EventPercents[models.EventSpeed], 1e-9)
	assert.Nil(t, history[0].EventPercents[models.EventWoods])

	assert.Equal(t, 2, history[1].TournamentID)
	assert.InDelta(t, 75.0, *history[1].EventPercents[models.EventSpeed], 1e-9)
	// Held and scored zero is a real 0%, not a missing value.
	require.NotNil(t, history[1].EventPercents[models.EventWoods])
	assert.Equal(t, 0.0, *history[1].EventPercents[models.EventWoods])
}
