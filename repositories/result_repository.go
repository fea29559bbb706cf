package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"
	"github.com/timbersport/ranking-system/models"
)

var (
	ErrResultNotFound          = errors.New("tournament result not found")
	ErrResultDuplicate         = errors.New("result already exists for this competitor and tournament")
	ErrResultCompetitorInvalid = errors.New("result references an unknown competitor")
	ErrResultTournamentInvalid = errors.New("result references an unknown tournament")
)

type ResultRepository interface {
	Create(ctx context.Context, exec SQLExecutor, result *models.TournamentResult) error
	Upsert(ctx context.Context, exec SQLExecutor, result *models.TournamentResult) error
	ListByCompetitor(ctx context.Context, competitorID int) ([]models.ResultWithTournament, error)
	ListAll(ctx context.Context) ([]models.ResultWithTournament, error)
	Count(ctx context.Context) (int, error)
}

type postgresResultRepository struct {
	db *sql.DB
}

func NewPostgresResultRepository(db *sql.DB) ResultRepository {
	return &postgresResultRepository{db: db}
}

func (r *postgresResultRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresResultRepository) Create(ctx context.Context, exec SQLExecutor, res *models.TournamentResult) error {
	executor := r.getExecutor(exec)
	query := `
		INSERT INTO tournament_results (
			competitor_id, tournament_id,
			knockdowns_earned, distance_earned, speed_earned, woods_earned
		) VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`

	err := executor.QueryRowContext(ctx, query,
		res.CompetitorID, res.TournamentID,
		res.KnockdownsEarned, res.DistanceEarned, res.SpeedEarned, res.WoodsEarned,
	).Scan(&res.ID)
	return mapResultError(err)
}

func (r *postgresResultRepository) Upsert(ctx context.Context, exec SQLExecutor, res *models.TournamentResult) error {
	executor := r.getExecutor(exec)
	query := `
		INSERT INTO tournament_results (
			competitor_id, tournament_id,
			knockdowns_earned, distance_earned, speed_earned, woods_earned
		) VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (competitor_id, tournament_id) DO UPDATE SET
			knockdowns_earned = EXCLUDED.knockdowns_earned,
			distance_earned   = EXCLUDED.distance_earned,
			speed_earned      = EXCLUDED.speed_earned,
			woods_earned      = EXCLUDED.woods_earned
		RETURNING id`

	err := executor.QueryRowContext(ctx, query,
		res.CompetitorID, res.TournamentID,
		res.KnockdownsEarned, res.DistanceEarned, res.SpeedEarned, res.WoodsEarned,
	).Scan(&res.ID)
	return mapResultError(err)
}

const resultJoinQuery = `
	SELECT
		r.id, r.competitor_id, r.tournament_id,
		r.knockdowns_earned, r.distance_earned, r.speed_earned, r.woods_earned,
		t.id, t.name, t.date,
		t.has_knockdowns, t.has_distance, t.has_speed, t.has_woods,
		t.total_points_knockdowns, t.total_points_distance, t.total_points_speed, t.total_points_woods,
		t.created_at
	FROM tournament_results r
	JOIN tournaments t ON t.id = r.tournament_id`

func (r *postgresResultRepository) ListByCompetitor(ctx context.Context, competitorID int) ([]models.ResultWithTournament, error) {
	// Oldest first, the order competitor history is presented in.
	query := resultJoinQuery + ` WHERE r.competitor_id = $1 ORDER BY t.date ASC, t.id ASC`

	rows, err := r.db.QueryContext(ctx, query, competitorID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectResultRows(rows)
}

func (r *postgresResultRepository) ListAll(ctx context.Context) ([]models.ResultWithTournament, error) {
	query := resultJoinQuery + ` ORDER BY t.date ASC, t.id ASC, r.competitor_id ASC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectResultRows(rows)
}

func (r *postgresResultRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM tournament_results`).Scan(&count)
	return count, err
}

func collectResultRows(rows *sql.Rows) ([]models.ResultWithTournament, error) {
	results := []models.ResultWithTournament{}
	for rows.Next() {
		var rt models.ResultWithTournament
		err := rows.Scan(
			&rt.Result.ID, &rt.Result.CompetitorID, &rt.Result.TournamentID,
			&rt.Result.KnockdownsEarned, &rt.Result.DistanceEarned, &rt.Result.SpeedEarned, &rt.Result.WoodsEarned,
			&rt.Tournament.ID, &rt.Tournament.Name, &rt.Tournament.Date,
			&rt.Tournament.HasKnockdowns, &rt.Tournament.HasDistance, &rt.Tournament.HasSpeed, &rt.Tournament.HasWoods,
			&rt.Tournament.TotalPointsKnockdowns, &rt.Tournament.TotalPointsDistance,
			&rt.Tournament.TotalPointsSpeed, &rt.Tournament.TotalPointsWoods,
			&rt.Tournament.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		results = append(results, rt)
	}
	return results, rows.Err()
}

func mapResultError(err error) error {
	if err == nil {
		return nil
	}
	if pqErr, ok := err.(*pq.Error); ok {
		switch pqErr.Code {
		case "23505":
			if pqErr.Constraint == "tournament_results_competitor_tournament_key" {
				return ErrResultDuplicate
			}
		case "23503":
			switch pqErr.Constraint {
			case "tournament_results_competitor_id_fkey":
				return ErrResultCompetitorInvalid
			case "tournament_results_tournament_id_fkey":
				return ErrResultTournamentInvalid
			}
		}
	}
	return err
}
