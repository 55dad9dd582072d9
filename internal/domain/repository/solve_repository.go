package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"algoclub/internal/common"
	"algoclub/internal/domain/model"

	"github.com/jackc/pgx/v5/pgconn"
)

type SolveRepository interface {
	// Insert appends a solve record. Returns common.ErrConflict when a
	// record for the same (member, problem) already exists; callers treat
	// that as "already confirmed", never as a failure.
	Insert(ctx context.Context, solve *model.Solve) error
	Exists(ctx context.Context, memberID, problemID string) (bool, error)
	ListByMember(ctx context.Context, memberID string) ([]model.SolveWithRating, error)
	ListAll(ctx context.Context) ([]model.Solve, error)
	CountByMember(ctx context.Context, memberID string) (int, error)
}

type pgSolveRepository struct {
	db *sql.DB
}

func NewPgSolveRepository(db *sql.DB) SolveRepository {
	return &pgSolveRepository{db: db}
}

func (r *pgSolveRepository) Insert(ctx context.Context, s *model.Solve) error {
	query := `INSERT INTO solves (id, member_id, problem_id, solved_at) VALUES ($1, $2, $3, $4)`
	_, err := r.db.ExecContext(ctx, query, s.ID, s.MemberID, s.ProblemID, s.SolvedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique (member_id, problem_id)
			return fmt.Errorf("solve already recorded: %w", common.ErrConflict)
		}
		return fmt.Errorf("pgSolveRepository.Insert: %w", err)
	}
	return nil
}

func (r *pgSolveRepository) Exists(ctx context.Context, memberID, problemID string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM solves WHERE member_id = $1 AND problem_id = $2)`
	var exists bool
	if err := r.db.QueryRowContext(ctx, query, memberID, problemID).Scan(&exists); err != nil {
		return false, fmt.Errorf("pgSolveRepository.Exists: %w", err)
	}
	return exists, nil
}

func (r *pgSolveRepository) ListByMember(ctx context.Context, memberID string) ([]model.SolveWithRating, error) {
	query := `SELECT s.id, s.member_id, s.problem_id, s.solved_at, p.rating
	          FROM solves s
	          JOIN problems p ON s.problem_id = p.id
	          WHERE s.member_id = $1
	          ORDER BY s.solved_at DESC`
	rows, err := r.db.QueryContext(ctx, query, memberID)
	if err != nil {
		return nil, fmt.Errorf("pgSolveRepository.ListByMember: %w", err)
	}
	defer rows.Close()

	solves := []model.SolveWithRating{}
	for rows.Next() {
		var s model.SolveWithRating
		if err := rows.Scan(&s.ID, &s.MemberID, &s.ProblemID, &s.SolvedAt, &s.ProblemRating); err != nil {
			return nil, fmt.Errorf("pgSolveRepository.ListByMember: scan: %w", err)
		}
		solves = append(solves, s)
	}
	return solves, rows.Err()
}

func (r *pgSolveRepository) ListAll(ctx context.Context) ([]model.Solve, error) {
	query := `SELECT id, member_id, problem_id, solved_at FROM solves`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("pgSolveRepository.ListAll: %w", err)
	}
	defer rows.Close()

	solves := []model.Solve{}
	for rows.Next() {
		var s model.Solve
		if err := rows.Scan(&s.ID, &s.MemberID, &s.ProblemID, &s.SolvedAt); err != nil {
			return nil, fmt.Errorf("pgSolveRepository.ListAll: scan: %w", err)
		}
		solves = append(solves, s)
	}
	return solves, rows.Err()
}

func (r *pgSolveRepository) CountByMember(ctx context.Context, memberID string) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM solves WHERE member_id = $1`, memberID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("pgSolveRepository.CountByMember: %w", err)
	}
	return count, nil
}
