package repositories

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/lib/pq"
	"github.com/timbersport/ranking-system/models"
)

var (
	ErrTournamentNotFound = errors.New("tournament not found")
	// ErrTournamentDuplicate means another tournament already exists with
	// the same date and the same (possibly null) name. The unique index on
	// (date, COALESCE(name, '')) is the final authority.
	ErrTournamentDuplicate = errors.New("tournament with this name and date already exists")
)

type TournamentRepository interface {
	Create(ctx context.Context, exec SQLExecutor, tournament *models.Tournament) error
	GetByID(ctx context.Context, id int) (*models.Tournament, error)
	FindByNameAndDate(ctx context.Context, exec SQLExecutor, name *string, date time.Time) (*models.Tournament, error)
	List(ctx context.Context, limit, offset int) ([]models.Tournament, error)
	Count(ctx context.Context) (int, error)
	Delete(ctx context.Context, id int) error
}

type postgresTournamentRepository struct {
	db *sql.DB
}

func NewPostgresTournamentRepository(db *sql.DB) TournamentRepository {
	return &postgresTournamentRepository{db: db}
}

func (r *postgresTournamentRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

const tournamentColumns = `
	id, name, date,
	has_knockdowns, has_distance, has_speed, has_woods,
	total_points_knockdowns, total_points_distance, total_points_speed, total_points_woods,
	created_at`

func scanTournament(row interface{ Scan(...interface{}) error }, t *models.Tournament) error {
	return row.Scan(
		&t.ID, &t.Name, &t.Date,
		&t.HasKnockdowns, &t.HasDistance, &t.HasSpeed, &t.HasWoods,
		&t.TotalPointsKnockdowns, &t.TotalPointsDistance, &t.TotalPointsSpeed, &t.TotalPointsWoods,
		&t.CreatedAt,
	)
}

func (r *postgresTournamentRepository) Create(ctx context.Context, exec SQLExecutor, t *models.Tournament) error {
	executor := r.getExecutor(exec)
	query := `
		INSERT INTO tournaments (
			name, date,
			has_knockdowns, has_distance, has_speed, has_woods,
			total_points_knockdowns, total_points_distance, total_points_speed, total_points_woods
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at`

	err := executor.QueryRowContext(ctx, query,
		t.Name, t.Date,
		t.HasKnockdowns, t.HasDistance, t.HasSpeed, t.HasWoods,
		t.TotalPointsKnockdowns, t.TotalPointsDistance, t.TotalPointsSpeed, t.TotalPointsWoods,
	).Scan(&t.ID, &t.CreatedAt)

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			if pqErr.Constraint == "tournaments_date_name_key" {
				return ErrTournamentDuplicate
			}
		}
		return err
	}
	return nil
}

func (r *postgresTournamentRepository) GetByID(ctx context.Context, id int) (*models.Tournament, error) {
	query := `SELECT ` + tournamentColumns + ` FROM tournaments WHERE id = $1`

	t := &models.Tournament{}
	err := scanTournament(r.db.QueryRowContext(ctx, query, id), t)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTournamentNotFound
		}
		return nil, err
	}
	return t, nil
}

func (r *postgresTournamentRepository) FindByNameAndDate(ctx context.Context, exec SQLExecutor, name *string, date time.Time) (*models.Tournament, error) {
	executor := r.getExecutor(exec)
	query := `
		SELECT ` + tournamentColumns + `
		FROM tournaments
		WHERE date = $1 AND COALESCE(name, '') = COALESCE($2, '')`

	t := &models.Tournament{}
	err := scanTournament(executor.QueryRowContext(ctx, query, date, name), t)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTournamentNotFound
		}
		return nil, err
	}
	return t, nil
}

func (r *postgresTournamentRepository) List(ctx context.Context, limit, offset int) ([]models.Tournament, error) {
	query := `SELECT ` + tournamentColumns + ` FROM tournaments ORDER BY date DESC, id DESC`

	args := []interface{}{}
	if limit > 0 {
		query += ` LIMIT $1`
		args = append(args, limit)
		if offset > 0 {
			query += ` OFFSET $2`
			args = append(args, offset)
		}
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tournaments := []models.Tournament{}
	for rows.Next() {
		var t models.Tournament
		if err := scanTournament(rows, &t); err != nil {
			return nil, err
		}
		tournaments = append(tournaments, t)
	}
	return tournaments, rows.Err()
}

func (r *postgresTournamentRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM tournaments`).Scan(&count)
	return count, err
}

func (r *postgresTournamentRepository) Delete(ctx context.Context, id int) error {
	query := `DELETE FROM tournaments WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrTournamentNotFound)
}
