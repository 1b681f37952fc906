package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/zamontech/yaqinbot/internal/entity"
)

type stubPool struct {
	queryRowFunc func(ctx context.Context, query string, args ...any) pgx.Row
	execFunc     func(ctx context.Context, query string, args ...any) (pgconn.CommandTag, error)
}

func (s *stubPool) QueryRow(ctx context.Context, query string, args ...any) pgx.Row {
	if s.queryRowFunc != nil {
		return s.queryRowFunc(ctx, query, args...)
	}
	return &stubRow{scan: func(dest ...any) error { return nil }}
}

func (s *stubPool) Exec(ctx context.Context, query string, args ...any) (pgconn.CommandTag, error) {
	if s.execFunc != nil {
		return s.execFunc(ctx, query, args...)
	}
	return pgconn.CommandTag{}, errors.New("exec not implemented")
}

type stubRow struct {
	scan func(dest ...any) error
}

func (s *stubRow) Scan(dest ...any) error {
	if s.scan != nil {
		return s.scan(dest...)
	}
	return nil
}

func profileRow(p entity.Profile) pgx.Row {
	return &stubRow{scan: func(dest ...any) error {
		*dest[0].(*int64) = p.UserID
		*dest[1].(*string) = p.Language
		*dest[2].(*string) = p.FirstName
		*dest[3].(*string) = p.LastName
		*dest[4].(*string) = p.Phone
		*dest[5].(*time.Time) = p.CreatedAt
		*dest[6].(*time.Time) = p.UpdatedAt
		return nil
	}}
}

func TestPGXProfilesRepository_Upsert(t *testing.T) {
	var capturedArgs []any
	repo := &PGXProfilesRepository{pool: &stubPool{
		queryRowFunc: func(ctx context.Context, query string, args ...any) pgx.Row {
			capturedArgs = args
			return profileRow(entity.Profile{
				UserID:    42,
				Language:  "en",
				FirstName: "Alice",
				LastName:  "Doe",
				Phone:     "+15550100123",
				CreatedAt: time.Now(),
				UpdatedAt: time.Now(),
			})
		},
	}}

	saved, err := repo.Upsert(context.Background(), entity.Profile{
		UserID:    42,
		Language:  "en",
		FirstName: "Alice",
		LastName:  "Doe",
		Phone:     "+15550100123",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if saved.UserID != 42 || saved.FirstName != "Alice" || saved.Phone != "+15550100123" {
		t.Fatalf("unexpected profile: %+v", saved)
	}
	if len(capturedArgs) != 5 || capturedArgs[0].(int64) != 42 {
		t.Fatalf("unexpected query args: %+v", capturedArgs)
	}

	repo.pool = &stubPool{
		queryRowFunc: func(ctx context.Context, query string, args ...any) pgx.Row {
			return &stubRow{scan: func(dest ...any) error { return errors.New("connection reset") }}
		},
	}
	if _, err := repo.Upsert(context.Background(), entity.Profile{UserID: 42}); err == nil {
		t.Fatalf("expected wrapped error on scan failure")
	}
}

func TestPGXProfilesRepository_FindByID(t *testing.T) {
	repo := &PGXProfilesRepository{pool: &stubPool{
		queryRowFunc: func(ctx context.Context, query string, args ...any) pgx.Row {
			if args[0].(int64) != 7 {
				t.Fatalf("unexpected lookup id: %v", args[0])
			}
			return profileRow(entity.Profile{UserID: 7, Language: "ru", FirstName: "Boris", LastName: "Ivanov", Phone: "+79001234567"})
		},
	}}

	profile, err := repo.FindByID(context.Background(), 7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if profile.Language != "ru" || !profile.Complete() {
		t.Fatalf("unexpected profile: %+v", profile)
	}

	repo.pool = &stubPool{
		queryRowFunc: func(ctx context.Context, query string, args ...any) pgx.Row {
			return &stubRow{scan: func(dest ...any) error { return pgx.ErrNoRows }}
		},
	}
	if _, err := repo.FindByID(context.Background(), 7); !errors.Is(err, ErrProfileNotFound) {
		t.Fatalf("expected ErrProfileNotFound, got %v", err)
	}
}

func TestProfileRoundTrip(t *testing.T) {
	// A profile written through Upsert and read back by id keeps identical
	// field values.
	stored := make(map[int64]entity.Profile)
	repo := &PGXProfilesRepository{pool: &stubPool{
		queryRowFunc: func(ctx context.Context, query string, args ...any) pgx.Row {
			if len(args) == 5 {
				p := entity.Profile{
					UserID:    args[0].(int64),
					Language:  args[1].(string),
					FirstName: args[2].(string),
					LastName:  args[3].(string),
					Phone:     args[4].(string),
				}
				stored[p.UserID] = p
				return profileRow(p)
			}
			p, ok := stored[args[0].(int64)]
			if !ok {
				return &stubRow{scan: func(dest ...any) error { return pgx.ErrNoRows }}
			}
			return profileRow(p)
		},
	}}

	in := entity.Profile{UserID: 99, Language: "uz", FirstName: "Aziz", LastName: "Karimov", Phone: "+998901234567"}
	if _, err := repo.Upsert(context.Background(), in); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out, err := repo.FindByID(context.Background(), 99)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Language != in.Language || out.FirstName != in.FirstName || out.LastName != in.LastName || out.Phone != in.Phone {
		t.Fatalf("round trip mismatch: in=%+v out=%+v", in, out)
	}
}
