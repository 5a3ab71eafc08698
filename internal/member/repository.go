package member

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	// ErrNotFound indicates no member exists for the given phone number.
	ErrNotFound = errors.New("member not found")

	// ErrDuplicatePhone indicates a registration raced with another for the
	// same phone; the store's unique constraint is the arbiter.
	ErrDuplicatePhone = errors.New("phone already registered")

	// ErrMalformedRecord indicates a stored row is missing required fields.
	ErrMalformedRecord = errors.New("malformed member record")
)

// Repository persists members and exposes the read-only admin set.
type Repository interface {
	Create(ctx context.Context, m Member) error
	FindByPhone(ctx context.Context, phone string) (Member, error)
	List(ctx context.Context) ([]Member, error)
	IsAdmin(ctx context.Context, phone string) (bool, error)
}

// PostgresRepository implements Repository using PostgreSQL.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository builds a Postgres-backed member repository.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts a new member.
func (r *PostgresRepository) Create(ctx context.Context, m Member) error {
	memberID, err := uuid.Parse(m.ID)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(ctx, `INSERT INTO members (id, name, phone, created_at)
        VALUES ($1, $2, $3, $4)`, memberID, m.Name, m.Phone, m.CreatedAt.UTC())
	if err != nil && isUniqueViolation(err) {
		return ErrDuplicatePhone
	}
	return err
}

// FindByPhone fetches a member by phone number.
func (r *PostgresRepository) FindByPhone(ctx context.Context, phone string) (Member, error) {
	row := r.db.QueryRow(ctx, `SELECT id, name, phone, created_at FROM members WHERE phone = $1`, phone)
	m, err := scanMember(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Member{}, ErrNotFound
	}
	return m, err
}

// List returns every registered member.
func (r *PostgresRepository) List(ctx context.Context) ([]Member, error) {
	rows, err := r.db.Query(ctx, `SELECT id, name, phone, created_at FROM members ORDER BY created_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var members []Member
	for rows.Next() {
		m, err := scanMember(rows)
		if err != nil {
			return nil, err
		}
		members = append(members, m)
	}
	return members, rows.Err()
}

// IsAdmin reports whether the phone belongs to the admin set.
func (r *PostgresRepository) IsAdmin(ctx context.Context, phone string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM admins WHERE phone = $1)`, phone).Scan(&exists)
	return exists, err
}

func scanMember(row pgx.Row) (Member, error) {
	var (
		id        uuid.UUID
		createdAt time.Time
		m         Member
	)
	if err := row.Scan(&id, &m.Name, &m.Phone, &createdAt); err != nil {
		return Member{}, err
	}
	m.ID = id.String()
	m.CreatedAt = createdAt.UTC()
	return m, validate(m)
}

func validate(m Member) error {
	if m.Name == "" || m.Phone == "" {
		return ErrMalformedRecord
	}
	return nil
}

func isUniqueViolation(err error) bool {
	// 23505 is the Postgres unique_violation SQLSTATE.
	type sqlState interface{ SQLState() string }
	var state sqlState
	return errors.As(err, &state) && state.SQLState() == "23505"
}
