package contribution

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// Repository persists contributions. Records are insert-only; there is no
// update or delete path.
type Repository interface {
	Insert(ctx context.Context, c Contribution) error
	ListByMember(ctx context.Context, memberID string) ([]Contribution, error)
	ListByMemberPeriod(ctx context.Context, memberID, period string) ([]Contribution, error)
}

// PostgresRepository implements Repository using PostgreSQL.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository builds a Postgres-backed contribution repository.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Insert records a single contribution.
func (r *PostgresRepository) Insert(ctx context.Context, c Contribution) error {
	contributionID, err := uuid.Parse(c.ID)
	if err != nil {
		return err
	}
	memberID, err := uuid.Parse(c.MemberID)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(ctx, `INSERT INTO contributions (id, member_id, amount, period, category, created_at)
        VALUES ($1, $2, $3, $4, $5, $6)`,
		contributionID, memberID, c.Amount, c.Period, c.Category, c.CreatedAt.UTC())
	return err
}

// ListByMember returns every contribution a member has ever made.
func (r *PostgresRepository) ListByMember(ctx context.Context, memberID string) ([]Contribution, error) {
	rows, err := r.db.Query(ctx, `SELECT id, member_id, amount, period, category, created_at
        FROM contributions WHERE member_id = $1 ORDER BY created_at`, memberID)
	if err != nil {
		return nil, err
	}
	return collect(rows)
}

// ListByMemberPeriod returns a member's contributions within one period.
func (r *PostgresRepository) ListByMemberPeriod(ctx context.Context, memberID, period string) ([]Contribution, error) {
	rows, err := r.db.Query(ctx, `SELECT id, member_id, amount, period, category, created_at
        FROM contributions WHERE member_id = $1 AND period = $2 ORDER BY created_at`, memberID, period)
	if err != nil {
		return nil, err
	}
	return collect(rows)
}

func collect(rows pgx.Rows) ([]Contribution, error) {
	defer rows.Close()

	var contributions []Contribution
	for rows.Next() {
		var (
			id        uuid.UUID
			memberID  uuid.UUID
			amount    decimal.Decimal
			createdAt time.Time
			c         Contribution
		)
		if err := rows.Scan(&id, &memberID, &amount, &c.Period, &c.Category, &createdAt); err != nil {
			return nil, err
		}
		c.ID = id.String()
		c.MemberID = memberID.String()
		c.Amount = amount
		c.CreatedAt = createdAt.UTC()
		contributions = append(contributions, c)
	}
	return contributions, rows.Err()
}
