package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"algoclub/internal/common"
	"algoclub/internal/domain/model"

	"github.com/jackc/pgx/v5/pgconn"
)

type ProblemRepository interface {
	Create(ctx context.Context, problem *model.Problem) error
	FindByID(ctx context.Context, id string) (*model.Problem, error)
	FindLatest(ctx context.Context) (*model.Problem, error)
	List(ctx context.Context, limit, offset int) ([]model.Problem, int, error)
}

type pgProblemRepository struct {
	db *sql.DB
}

func NewPgProblemRepository(db *sql.DB) ProblemRepository {
	return &pgProblemRepository{db: db}
}

func (r *pgProblemRepository) Create(ctx context.Context, p *model.Problem) error {
	tags, err := json.Marshal(p.Tags)
	if err != nil {
		return fmt.Errorf("pgProblemRepository.Create: marshal tags: %w", err)
	}

	query := `INSERT INTO problems (id, contest_id, problem_index, name, slug, rating, tags, assigned_date, created_by)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err = r.db.ExecContext(ctx, query,
		p.ID, p.ContestID, p.Index, p.Name, p.Slug, p.Rating, tags, p.AssignedDate, p.CreatedByID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // Unique on assigned_date or slug
			return fmt.Errorf("a problem of the day already exists for this date: %w", common.ErrConflict)
		}
		return fmt.Errorf("pgProblemRepository.Create: %w", err)
	}
	return nil
}

const problemColumns = `id, contest_id, problem_index, name, slug, rating, tags, assigned_date, created_by, created_at`

func scanProblem(row interface{ Scan(...any) error }) (*model.Problem, error) {
	p := &model.Problem{}
	var tags []byte
	err := row.Scan(
		&p.ID, &p.ContestID, &p.Index, &p.Name, &p.Slug, &p.Rating, &tags,
		&p.AssignedDate, &p.CreatedByID, &p.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if len(tags) > 0 {
		if err := json.Unmarshal(tags, &p.Tags); err != nil {
			return nil, fmt.Errorf("unmarshal tags: %w", err)
		}
	}
	return p, nil
}

func (r *pgProblemRepository) FindByID(ctx context.Context, id string) (*model.Problem, error) {
	query := `SELECT ` + problemColumns + ` FROM problems WHERE id = $1`
	p, err := scanProblem(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgProblemRepository.FindByID: %w", err)
	}
	return p, nil
}

// FindLatest returns the most recently assigned problem of the day.
func (r *pgProblemRepository) FindLatest(ctx context.Context) (*model.Problem, error) {
	query := `SELECT ` + problemColumns + ` FROM problems ORDER BY assigned_date DESC LIMIT 1`
	p, err := scanProblem(r.db.QueryRowContext(ctx, query))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgProblemRepository.FindLatest: %w", err)
	}
	return p, nil
}

func (r *pgProblemRepository) List(ctx context.Context, limit, offset int) ([]model.Problem, int, error) {
	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM problems`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("pgProblemRepository.List: count: %w", err)
	}

	query := `SELECT ` + problemColumns + ` FROM problems ORDER BY assigned_date DESC LIMIT $1 OFFSET $2`
	rows, err := r.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("pgProblemRepository.List: %w", err)
	}
	defer rows.Close()

	problems := []model.Problem{}
	for rows.Next() {
		p, err := scanProblem(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("pgProblemRepository.List: scan: %w", err)
		}
		problems = append(problems, *p)
	}
	return problems, total, rows.Err()
}
