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

type MemberRepository interface {
	Create(ctx context.Context, member *model.Member) error
	FindByEmail(ctx context.Context, email string) (*model.Member, error)
	FindByHandle(ctx context.Context, cfHandle string) (*model.Member, error)
	FindByID(ctx context.Context, id string) (*model.Member, error)
	ListByStatus(ctx context.Context, status model.Status) ([]model.Member, error)
	ListAll(ctx context.Context) ([]model.Member, error)
	UpdateStatus(ctx context.Context, id string, status model.Status) (*model.Member, error)
	UpdateCFProfile(ctx context.Context, id string, rating, maxRating *int, rank *string, avatarURL *string) error
}

type pgMemberRepository struct {
	db *sql.DB
}

func NewPgMemberRepository(db *sql.DB) MemberRepository {
	return &pgMemberRepository{db: db}
}

const memberColumns = `id, name, email, hashed_password, cf_handle, role, status,
	       cf_rating, cf_max_rating, cf_rank, cf_avatar_url, created_at, updated_at`

func scanMember(row interface{ Scan(...any) error }) (*model.Member, error) {
	m := &model.Member{}
	err := row.Scan(
		&m.ID, &m.Name, &m.Email, &m.HashedPassword, &m.CFHandle, &m.Role, &m.Status,
		&m.CFRating, &m.CFMaxRating, &m.CFRank, &m.CFAvatarURL, &m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return m, nil
}

func (r *pgMemberRepository) Create(ctx context.Context, m *model.Member) error {
	query := `INSERT INTO members (id, name, email, hashed_password, cf_handle, role, status)
	          VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.db.ExecContext(ctx, query, m.ID, m.Name, m.Email, m.HashedPassword, m.CFHandle, m.Role, m.Status)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // Unique constraint violation
			return fmt.Errorf("member with given email or handle already exists: %w", common.ErrConflict)
		}
		return fmt.Errorf("pgMemberRepository.Create: %w", err)
	}
	return nil
}

func (r *pgMemberRepository) FindByEmail(ctx context.Context, email string) (*model.Member, error) {
	query := `SELECT ` + memberColumns + ` FROM members WHERE email = $1`
	m, err := scanMember(r.db.QueryRowContext(ctx, query, email))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgMemberRepository.FindByEmail: %w", err)
	}
	return m, nil
}

func (r *pgMemberRepository) FindByHandle(ctx context.Context, cfHandle string) (*model.Member, error) {
	query := `SELECT ` + memberColumns + ` FROM members WHERE cf_handle = $1`
	m, err := scanMember(r.db.QueryRowContext(ctx, query, cfHandle))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgMemberRepository.FindByHandle: %w", err)
	}
	return m, nil
}

func (r *pgMemberRepository) FindByID(ctx context.Context, id string) (*model.Member, error) {
	query := `SELECT ` + memberColumns + ` FROM members WHERE id = $1`
	m, err := scanMember(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgMemberRepository.FindByID: %w", err)
	}
	return m, nil
}

func (r *pgMemberRepository) ListByStatus(ctx context.Context, status model.Status) ([]model.Member, error) {
	query := `SELECT ` + memberColumns + ` FROM members WHERE status = $1 ORDER BY created_at`
	rows, err := r.db.QueryContext(ctx, query, status)
	if err != nil {
		return nil, fmt.Errorf("pgMemberRepository.ListByStatus: %w", err)
	}
	defer rows.Close()

	return collectMembers(rows)
}

func (r *pgMemberRepository) ListAll(ctx context.Context) ([]model.Member, error) {
	query := `SELECT ` + memberColumns + ` FROM members ORDER BY created_at`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("pgMemberRepository.ListAll: %w", err)
	}
	defer rows.Close()

	return collectMembers(rows)
}

func collectMembers(rows *sql.Rows) ([]model.Member, error) {
	members := []model.Member{}
	for rows.Next() {
		m, err := scanMember(rows)
		if err != nil {
			return nil, fmt.Errorf("scan member row: %w", err)
		}
		members = append(members, *m)
	}
	return members, rows.Err()
}

func (r *pgMemberRepository) UpdateStatus(ctx context.Context, id string, status model.Status) (*model.Member, error) {
	query := `UPDATE members SET status = $1, updated_at = CURRENT_TIMESTAMP
	          WHERE id = $2
	          RETURNING ` + memberColumns
	m, err := scanMember(r.db.QueryRowContext(ctx, query, status, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgMemberRepository.UpdateStatus: %w", err)
	}
	return m, nil
}

func (r *pgMemberRepository) UpdateCFProfile(ctx context.Context, id string, rating, maxRating *int, rank *string, avatarURL *string) error {
	query := `UPDATE members SET cf_rating = $1, cf_max_rating = $2, cf_rank = $3,
	              cf_avatar_url = $4, updated_at = CURRENT_TIMESTAMP
	          WHERE id = $5`
	_, err := r.db.ExecContext(ctx, query, rating, maxRating, rank, avatarURL, id)
	if err != nil {
		return fmt.Errorf("pgMemberRepository.UpdateCFProfile: %w", err)
	}
	return nil
}
