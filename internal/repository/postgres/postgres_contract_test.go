package postgres

import (
	"context"
	"fmt"
	"os"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/maxviazov/campaign-site/internal/model"
	"github.com/maxviazov/campaign-site/internal/repository"
	"github.com/maxviazov/campaign-site/internal/repository/contract"
)

var (
	pool   *pgxpool.Pool
	skippy bool
)

func TestMain(m *testing.M) {
	if os.Getenv("CONTRACT_TESTS") != "1" {
		// contract tests need a live database; opt in explicitly
		skippy = true
		os.Exit(m.Run())
	}

	dsn := buildDSNFromEnv()
	if dsn == "" {
		fmt.Println("[contract] DATABASE_URL or APP_POSTGRES_* env not set; skipping")
		skippy = true
		os.Exit(m.Run())
	}

	ctx := context.Background()
	var err error
	pool, err = pgxpool.New(ctx, dsn)
	if err != nil {
		fmt.Println("[contract] pgxpool new error:", err)
		os.Exit(1)
	}
	if err := Migrate(ctx, pool); err != nil {
		fmt.Println("[contract] migrate error:", err)
		os.Exit(1)
	}

	code := m.Run()
	pool.Close()
	os.Exit(code)
}

func skipIfNeeded(t *testing.T) {
	if skippy {
		t.Skip("contract tests skipped; set CONTRACT_TESTS=1 and provide DB env")
	}
}

func buildDSNFromEnv() string {
	if v := os.Getenv("DATABASE_URL"); v != "" {
		return v
	}
	user := firstNonEmpty(os.Getenv("APP_POSTGRES_USER"), os.Getenv("POSTGRES_USER"))
	pass := firstNonEmpty(os.Getenv("APP_POSTGRES_PASSWORD"), os.Getenv("POSTGRES_PASSWORD"))
	host := firstNonEmpty(os.Getenv("APP_POSTGRES_HOST"), os.Getenv("POSTGRES_HOST"), "localhost")
	port := firstNonEmpty(os.Getenv("APP_POSTGRES_PORT"), os.Getenv("POSTGRES_PORT"), "5432")
	db := firstNonEmpty(os.Getenv("APP_POSTGRES_DB"), os.Getenv("POSTGRES_DB"))
	ssl := firstNonEmpty(os.Getenv("APP_POSTGRES_SSLMODE"), "disable")
	if user == "" || pass == "" || db == "" {
		return ""
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s", user, pass, host, port, db, ssl)
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

func truncateAll(t *testing.T) {
	t.Helper()
	_, err := pool.Exec(context.Background(),
		`TRUNCATE TABLE photos, videos, press_articles, contact_messages, visitor_counter`)
	if err != nil {
		t.Fatalf("truncate failed: %v", err)
	}
}

func TestContentRepository_PostgresContract(t *testing.T) {
	contract.RunContentRepositoryContract(t, func(t *testing.T) (repository.ContentRepository[model.Photo], func()) {
		skipIfNeeded(t)
		truncateAll(t)
		return NewPhotoRepository(pool), func() { truncateAll(t) }
	})
}

func TestContactRepository_PostgresContract(t *testing.T) {
	contract.RunContactRepositoryContract(t, func(t *testing.T) (repository.ContactRepository, func()) {
		skipIfNeeded(t)
		truncateAll(t)
		return NewContactRepository(pool), func() { truncateAll(t) }
	})
}

func TestVisitorRepository_PostgresContract(t *testing.T) {
	contract.RunVisitorRepositoryContract(t, func(t *testing.T) (repository.VisitorRepository, func()) {
		skipIfNeeded(t)
		truncateAll(t)
		return NewVisitorRepository(pool), func() { truncateAll(t) }
	})
}

func TestPinger_PostgresContract(t *testing.T) {
	contract.RunPingerContract(t, func(t *testing.T) (repository.Pinger, func()) {
		skipIfNeeded(t)
		return NewPinger(pool), func() {}
	})
}

func TestTxManager_RollbackOnError(t *testing.T) {
	skipIfNeeded(t)
	truncateAll(t)
	t.Cleanup(func() { truncateAll(t) })
	ctx := context.Background()
	tx := NewTxManager(pool)
	visitors := NewVisitorRepository(pool)

	boom := fmt.Errorf("boom")
	err := tx.WithinTx(ctx, func(ctx context.Context) error {
		if _, err := visitors.Increment(ctx); err != nil {
			return err
		}
		return boom
	})
	if err != boom {
		t.Fatalf("expected boom, got %v", err)
	}
	if n, _ := visitors.Count(ctx); n != 0 {
		t.Fatalf("expected rollback to keep count 0, got %d", n)
	}
}

func TestBuildWhere(t *testing.T) {
	where, args := buildWhere(model.ListFilter{Query: model.ListQuery{Category: "healthcare", Search: "50%_off"}})
	want := " WHERE published AND category = $1 AND (title ILIKE $2 OR description ILIKE $2)"
	if where != want {
		t.Fatalf("where:\n got %q\nwant %q", where, want)
	}
	if len(args) != 2 || args[1] != `%50\%\_off%` {
		t.Fatalf("unexpected args: %#v", args)
	}
	where, args = buildWhere(model.ListFilter{IncludeUnpublished: true})
	if where != "" || len(args) != 0 {
		t.Fatalf("expected no clause, got %q %v", where, args)
	}
}

func TestOrderBy_UnknownFallsBackToDefault(t *testing.T) {
	got := orderBy(model.ListQuery{SortBy: "id; DROP TABLE photos", SortOrder: model.SortAsc})
	if got != " ORDER BY created_at ASC, id ASC" {
		t.Fatalf("unexpected order clause %q", got)
	}
}
