package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"url-shortener/internal/entities"
)

var (
	ErrNotFound      = errors.New("link not found")
	ErrDuplicateCode = errors.New("short code already exists")
)

// uniqueViolation is the Postgres SQLSTATE for a unique constraint failure
const uniqueViolation = "23505"

// LinkRepository defines the interface for link storage operations.
// Implementations must be safe for concurrent use.
type LinkRepository interface {
	Exists(ctx context.Context, code string) (bool, error)
	// FindByCode returns ErrNotFound when no link has the code.
	FindByCode(ctx context.Context, code string) (*entities.Link, error)
	// Create returns ErrDuplicateCode when the code is already stored.
	Create(ctx context.Context, code, targetURL string, expiresAt *time.Time) (*entities.Link, error)
	// IncrementHitCount adds one to the stored counter in a single atomic
	// operation and returns the new value.
	IncrementHitCount(ctx context.Context, code string) (int64, error)
}

type postgresLinkRepository struct {
	db           *sql.DB
	queryTimeout time.Duration
}

// NewPostgresLinkRepository creates a link repository backed by the links table.
// A zero queryTimeout leaves deadlines to the caller's context.
func NewPostgresLinkRepository(db *sql.DB, queryTimeout time.Duration) LinkRepository {
	return &postgresLinkRepository{db: db, queryTimeout: queryTimeout}
}

func (r *postgresLinkRepository) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if r.queryTimeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, r.queryTimeout)
}

func (r *postgresLinkRepository) Exists(ctx context.Context, code string) (bool, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	var exists bool
	err := r.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM links WHERE code = $1)`, code).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check code: %w", err)
	}
	return exists, nil
}

func (r *postgresLinkRepository) FindByCode(ctx context.Context, code string) (*entities.Link, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	query := `
		SELECT id, code, target_url, created_at, expires_at, hit_count
		FROM links
		WHERE code = $1
	`

	link, err := scanLink(r.db.QueryRowContext(ctx, query, code))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find link: %w", err)
	}
	return link, nil
}

func (r *postgresLinkRepository) Create(ctx context.Context, code, targetURL string, expiresAt *time.Time) (*entities.Link, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	// Store expiry in UTC
	var expiresAtValue interface{}
	if expiresAt != nil {
		expiresAtValue = expiresAt.UTC()
	}

	query := `
		INSERT INTO links (code, target_url, expires_at)
		VALUES ($1, $2, $3)
		RETURNING id, code, target_url, created_at, expires_at, hit_count
	`

	link, err := scanLink(r.db.QueryRowContext(ctx, query, code, targetURL, expiresAtValue))
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return nil, ErrDuplicateCode
		}
		return nil, fmt.Errorf("failed to create link: %w", err)
	}
	return link, nil
}

func (r *postgresLinkRepository) IncrementHitCount(ctx context.Context, code string) (int64, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	query := `
		UPDATE links
		SET hit_count = hit_count + 1
		WHERE code = $1
		RETURNING hit_count
	`

	var hitCount int64
	err := r.db.QueryRowContext(ctx, query, code).Scan(&hitCount)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("failed to increment hit count: %w", err)
	}
	return hitCount, nil
}

func scanLink(row *sql.Row) (*entities.Link, error) {
	var link entities.Link
	var expiresAt sql.NullTime
	err := row.Scan(
		&link.ID,
		&link.Code,
		&link.TargetURL,
		&link.CreatedAt,
		&expiresAt,
		&link.HitCount,
	)
	if err != nil {
		return nil, err
	}

	link.CreatedAt = link.CreatedAt.UTC()
	if expiresAt.Valid {
		t := expiresAt.Time.UTC()
		link.ExpiresAt = &t
	}
	return &link, nil
}
