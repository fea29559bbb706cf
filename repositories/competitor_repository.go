package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"
	"github.com/timbersport/ranking-system/models"
)

var (
	ErrCompetitorNotFound      = errors.New("competitor not found")
	ErrCompetitorNameConflict  = errors.New("competitor name is already in use")
	ErrCompetitorEmailConflict = errors.New("competitor email is already in use")
)

type CompetitorRepository interface {
	Create(ctx context.Context, exec SQLExecutor, competitor *models.Competitor) error
	GetByID(ctx context.Context, id int) (*models.Competitor, error)
	FindByEmail(ctx context.Context, exec SQLExecutor, email string) (*models.Competitor, error)
	FindByName(ctx context.Context, exec SQLExecutor, name string) (*models.Competitor, error)
	List(ctx context.Context) ([]models.Competitor, error)
	Count(ctx context.Context) (int, error)
	UpdateName(ctx context.Context, exec SQLExecutor, id int, name string) error
	Update(ctx context.Context, competitor *models.Competitor) error
	Delete(ctx context.Context, id int) error
}

type postgresCompetitorRepository struct {
	db *sql.DB
}

func NewPostgresCompetitorRepository(db *sql.DB) CompetitorRepository {
	return &postgresCompetitorRepository{db: db}
}

func (r *postgresCompetitorRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresCompetitorRepository) Create(ctx context.Context, exec SQLExecutor, c *models.Competitor) error {
	executor := r.getExecutor(exec)
	query := `
		INSERT INTO competitors (name, email)
		VALUES ($1, $2)
		RETURNING id, created_at`

	err := executor.QueryRowContext(ctx, query, c.Name, c.Email).Scan(&c.ID, &c.CreatedAt)
	return mapCompetitorError(err)
}

func (r *postgresCompetitorRepository) GetByID(ctx context.Context, id int) (*models.Competitor, error) {
	query := `SELECT id, name, email, created_at FROM competitors WHERE id = $1`

	c := &models.Competitor{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(&c.ID, &c.Name, &c.Email, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCompetitorNotFound
		}
		return nil, err
	}
	return c, nil
}

func (r *postgresCompetitorRepository) FindByEmail(ctx context.Context, exec SQLExecutor, email string) (*models.Competitor, error) {
	executor := r.getExecutor(exec)
	query := `SELECT id, name, email, created_at FROM competitors WHERE LOWER(email) = LOWER($1)`

	c := &models.Competitor{}
	err := executor.QueryRowContext(ctx, query, email).Scan(&c.ID, &c.Name, &c.Email, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCompetitorNotFound
		}
		return nil, err
	}
	return c, nil
}

func (r *postgresCompetitorRepository) FindByName(ctx context.Context, exec SQLExecutor, name string) (*models.Competitor, error) {
	executor := r.getExecutor(exec)
	query := `SELECT id, name, email, created_at FROM competitors WHERE LOWER(name) = LOWER($1)`

	c := &models.Competitor{}
	err := executor.QueryRowContext(ctx, query, name).Scan(&c.ID, &c.Name, &c.Email, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCompetitorNotFound
		}
		return nil, err
	}
	return c, nil
}

func (r *postgresCompetitorRepository) List(ctx context.Context) ([]models.Competitor, error) {
	query := `SELECT id, name, email, created_at FROM competitors ORDER BY LOWER(name), id`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	competitors := []models.Competitor{}
	for rows.Next() {
		var c models.Competitor
		if err := rows.Scan(&c.ID, &c.Name, &c.Email, &c.CreatedAt); err != nil {
			return nil, err
		}
		competitors = append(competitors, c)
	}
	return competitors, rows.Err()
}

func (r *postgresCompetitorRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM competitors`).Scan(&count)
	return count, err
}

func (r *postgresCompetitorRepository) UpdateName(ctx context.Context, exec SQLExecutor, id int, name string) error {
	executor := r.getExecutor(exec)
	query := `UPDATE competitors SET name = $1 WHERE id = $2`

	result, err := executor.ExecContext(ctx, query, name, id)
	if err != nil {
		return mapCompetitorError(err)
	}
	return checkAffectedRows(result, ErrCompetitorNotFound)
}

func (r *postgresCompetitorRepository) Update(ctx context.Context, c *models.Competitor) error {
	query := `UPDATE competitors SET name = $1, email = $2 WHERE id = $3`

	result, err := r.db.ExecContext(ctx, query, c.Name, c.Email, c.ID)
	if err != nil {
		return mapCompetitorError(err)
	}
	return checkAffectedRows(result, ErrCompetitorNotFound)
}

func (r *postgresCompetitorRepository) Delete(ctx context.Context, id int) error {
	query := `DELETE FROM competitors WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrCompetitorNotFound)
}

func mapCompetitorError(err error) error {
	if err == nil {
		return nil
	}
	if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
		switch pqErr.Constraint {
		case "competitors_name_lower_key":
			return ErrCompetitorNameConflict
		case "competitors_email_lower_key":
			return ErrCompetitorEmailConflict
		}
	}
	return err
}
