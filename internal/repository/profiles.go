package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/zamontech/yaqinbot/internal/entity"
)

// ErrProfileNotFound is returned when no profile matches the lookup criteria.
var ErrProfileNotFound = errors.New("profile not found")

// ProfilesRepository persists user registration data keyed by Telegram id.
type ProfilesRepository interface {
	Upsert(ctx context.Context, profile entity.Profile) (*entity.Profile, error)
	FindByID(ctx context.Context, userID int64) (*entity.Profile, error)
}

// pgxPool captures the pool operations the repository needs, so tests can
// substitute a stub.
type pgxPool interface {
	QueryRow(ctx context.Context, query string, args ...any) pgx.Row
	Exec(ctx context.Context, query string, args ...any) (pgconn.CommandTag, error)
}

var _ pgxPool = (*pgxpool.Pool)(nil)

// PGXProfilesRepository implements ProfilesRepository with pgx.
type PGXProfilesRepository struct {
	pool pgxPool
}

// NewPGXProfilesRepository instantiates a profiles repository.
func NewPGXProfilesRepository(pool *pgxpool.Pool) *PGXProfilesRepository {
	return &PGXProfilesRepository{pool: pool}
}

// Upsert inserts or updates a profile. The language always takes the new
// value; name and phone are written only while still unset, keeping identity
// fields immutable after onboarding.
func (r *PGXProfilesRepository) Upsert(ctx context.Context, profile entity.Profile) (*entity.Profile, error) {
	row := r.pool.QueryRow(ctx, `
        INSERT INTO profiles (user_id, language, first_name, last_name, phone)
        VALUES ($1, $2, $3, $4, $5)
        ON CONFLICT (user_id) DO UPDATE
        SET language = EXCLUDED.language,
            first_name = CASE WHEN profiles.first_name = '' THEN EXCLUDED.first_name ELSE profiles.first_name END,
            last_name = CASE WHEN profiles.last_name = '' THEN EXCLUDED.last_name ELSE profiles.last_name END,
            phone = CASE WHEN profiles.phone = '' THEN EXCLUDED.phone ELSE profiles.phone END,
            updated_at = NOW()
        RETURNING user_id, language, first_name, last_name, phone, created_at, updated_at
    `, profile.UserID, profile.Language, profile.FirstName, profile.LastName, profile.Phone)

	var saved entity.Profile
	if err := row.Scan(&saved.UserID, &saved.Language, &saved.FirstName, &saved.LastName, &saved.Phone, &saved.CreatedAt, &saved.UpdatedAt); err != nil {
		return nil, fmt.Errorf("upsert profile: %w", err)
	}
	return &saved, nil
}

// FindByID retrieves a profile by Telegram user id.
func (r *PGXProfilesRepository) FindByID(ctx context.Context, userID int64) (*entity.Profile, error) {
	row := r.pool.QueryRow(ctx, `SELECT user_id, language, first_name, last_name, phone, created_at, updated_at FROM profiles WHERE user_id = $1`, userID)

	var profile entity.Profile
	if err := row.Scan(&profile.UserID, &profile.Language, &profile.FirstName, &profile.LastName, &profile.Phone, &profile.CreatedAt, &profile.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("query profile by id: %w", err)
	}
	return &profile, nil
}
