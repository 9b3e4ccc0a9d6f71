package postgres_test

import (
	"context"
	"math"
	"os"
	"sync"
	"testing"
	"time"

	"fxresolver/internal/adapters"
	"fxresolver/internal/adapters/postgres"
	"fxresolver/internal/domain"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/require"
	tcpg "github.com/testcontainers/testcontainers-go/modules/postgres"
)

const migrationsDir = "../../platform/db/migrations"

var _ adapters.BatchRateStore = (*postgres.RateRepository)(nil)

var (
	pgSetupOnce sync.Once

	pgContainer *tcpg.PostgresContainer
	pgConnStr   string
)

func TestMain(m *testing.M) {
	code := m.Run()
	if pgContainer != nil {
		_ = pgContainer.Terminate(context.Background())
	}
	os.Exit(code)
}

func setupPostgres(t *testing.T) *pgxpool.Pool {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping postgres container test in short mode")
	}

	pgSetupOnce.Do(func() {
		startPostgres(t)
	})

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, pgConnStr)
	require.NoError(t, err)
	t.Cleanup(func() { pool.Close() })

	require.NoError(t, resetDatabase(ctx, pool))

	return pool
}

func startPostgres(t *testing.T) {
	ctx := context.Background()
	pg, err := tcpg.Run(ctx,
		"postgres:16-alpine",
		tcpg.WithDatabase("postgres"),
		tcpg.WithUsername("postgres"),
		tcpg.WithPassword("postgres"),
	)
	require.NoError(t, err)

	dsn, err := pg.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := goose.OpenDBWithDriver("pgx", dsn)
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	require.Eventually(t, func() bool {
		pingCtx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		return db.PingContext(pingCtx) == nil
	}, 15*time.Second, 500*time.Millisecond)

	require.NoError(t, goose.SetDialect("postgres"))
	require.NoError(t, goose.UpContext(ctx, db, migrationsDir))

	pgContainer = pg
	pgConnStr = dsn
}

func resetDatabase(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, `truncate table exchange_rates`)
	return err
}

// ---------- Get ----------

func TestRateRepository_Get_NotFound(t *testing.T) {
	pool := setupPostgres(t)
	repo := postgres.NewRateRepository(pool)

	_, err := repo.Get(context.Background(), domain.RatePair{Base: "USD", Quote: "EUR"})
	require.ErrorIs(t, err, domain.ErrRateNotFound)
}

func TestRateRepository_Get_Success(t *testing.T) {
	pool := setupPostgres(t)
	repo := postgres.NewRateRepository(pool)
	ctx := context.Background()

	at := time.Date(2025, 1, 2, 15, 4, 5, 0, time.UTC)
	_, err := pool.Exec(ctx,
		`insert into exchange_rates(from_currency, to_currency, rate, source, last_updated) values ($1,$2,$3,$4,$5)`,
		"USD", "AED", 3.6725, "Fixer.io", at)
	require.NoError(t, err)

	rec, err := repo.Get(ctx, domain.RatePair{Base: "USD", Quote: "AED"})
	require.NoError(t, err)
	require.Equal(t, domain.RatePair{Base: "USD", Quote: "AED"}, rec.Pair)
	require.InDelta(t, 3.6725, rec.Rate, 1e-9)
	require.Equal(t, "Fixer.io", rec.Source)
	require.True(t, rec.LastUpdated.Equal(at))
}

func TestRateRepository_Get_DBError(t *testing.T) {
	pool := setupPostgres(t)
	repo := postgres.NewRateRepository(pool)

	// Use a canceled context to force an error path distinct from ErrRateNotFound.
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := repo.Get(ctx, domain.RatePair{Base: "USD", Quote: "EUR"})
	require.Error(t, err)
	require.NotErrorIs(t, err, domain.ErrRateNotFound)
}

// ---------- Upsert ----------

func TestRateRepository_Upsert_InsertThenUpdate(t *testing.T) {
	pool := setupPostgres(t)
	repo := postgres.NewRateRepository(pool)
	ctx := context.Background()
	pair := domain.RatePair{Base: "EUR", Quote: "SAR"}
	t0 := time.Date(2025, 2, 1, 8, 0, 0, 0, time.UTC)

	require.NoError(t, repo.Upsert(ctx, domain.RateRecord{Pair: pair, Rate: 4.41, Source: "a", LastUpdated: t0}))
	require.NoError(t, repo.Upsert(ctx, domain.RateRecord{Pair: pair, Rate: 4.42, Source: "b", LastUpdated: t0.Add(time.Minute)}))

	var count int
	require.NoError(t, pool.QueryRow(ctx, `select count(*) from exchange_rates`).Scan(&count))
	require.Equal(t, 1, count)

	rec, err := repo.Get(ctx, pair)
	require.NoError(t, err)
	require.InDelta(t, 4.42, rec.Rate, 1e-9)
	require.Equal(t, "b", rec.Source)
	require.True(t, rec.LastUpdated.Equal(t0.Add(time.Minute)))
}

func TestRateRepository_Upsert_LastUpdatedNeverMovesBack(t *testing.T) {
	pool := setupPostgres(t)
	repo := postgres.NewRateRepository(pool)
	ctx := context.Background()
	pair := domain.RatePair{Base: "GBP", Quote: "USD"}
	t0 := time.Date(2025, 2, 1, 8, 0, 0, 0, time.UTC)

	require.NoError(t, repo.Upsert(ctx, domain.RateRecord{Pair: pair, Rate: 1.37, LastUpdated: t0}))
	require.NoError(t, repo.Upsert(ctx, domain.RateRecord{Pair: pair, Rate: 1.38, LastUpdated: t0.Add(-time.Hour)}))

	rec, err := repo.Get(ctx, pair)
	require.NoError(t, err)
	require.InDelta(t, 1.38, rec.Rate, 1e-9)
	require.True(t, rec.LastUpdated.Equal(t0))
}

func TestRateRepository_Upsert_InvalidRate(t *testing.T) {
	pool := setupPostgres(t)
	repo := postgres.NewRateRepository(pool)

	err := repo.Upsert(context.Background(), domain.RateRecord{Pair: domain.RatePair{Base: "USD", Quote: "EUR"}, Rate: -1})
	require.ErrorIs(t, err, domain.ErrInvalidRate)
}

func TestRateRepository_Upsert_DBError(t *testing.T) {
	pool := setupPostgres(t)
	repo := postgres.NewRateRepository(pool)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := repo.Upsert(ctx, domain.RateRecord{Pair: domain.RatePair{Base: "USD", Quote: "EUR"}, Rate: 0.92, LastUpdated: time.Now()})
	require.Error(t, err)
}

// ---------- UpsertBatch ----------

func TestRateRepository_UpsertBatch_EmptyNoop(t *testing.T) {
	pool := setupPostgres(t)
	repo := postgres.NewRateRepository(pool)
	ctx := context.Background()

	require.NoError(t, repo.UpsertBatch(ctx, nil))
	require.NoError(t, repo.UpsertBatch(ctx, make([]domain.RateRecord, 0)))
}

func TestRateRepository_UpsertBatch_InsertsAndUpdates(t *testing.T) {
	pool := setupPostgres(t)
	repo := postgres.NewRateRepository(pool)
	ctx := context.Background()
	now := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)

	usdaed := domain.RatePair{Base: "USD", Quote: "AED"}
	aedusd := domain.RatePair{Base: "AED", Quote: "USD"}
	require.NoError(t, repo.Upsert(ctx, domain.RateRecord{Pair: usdaed, Rate: 3.6, LastUpdated: now.Add(-time.Hour)}))

	err := repo.UpsertBatch(ctx, []domain.RateRecord{
		{Pair: usdaed, Rate: 3.6725, Source: "Fixer.io", LastUpdated: now},
		{Pair: aedusd, Rate: 0.2723, Source: "Fixer.io", LastUpdated: now},
	})
	require.NoError(t, err)

	rec, err := repo.Get(ctx, usdaed)
	require.NoError(t, err)
	require.InDelta(t, 3.6725, rec.Rate, 1e-9)
	require.True(t, rec.LastUpdated.Equal(now))

	rec, err = repo.Get(ctx, aedusd)
	require.NoError(t, err)
	require.InDelta(t, 0.2723, rec.Rate, 1e-9)
}

func TestRateRepository_UpsertBatch_InvalidRate_NaN(t *testing.T) {
	pool := setupPostgres(t)
	repo := postgres.NewRateRepository(pool)

	err := repo.UpsertBatch(context.Background(), []domain.RateRecord{
		{Pair: domain.RatePair{Base: "USD", Quote: "GBP"}, Rate: math.NaN()},
	})
	require.ErrorIs(t, err, domain.ErrInvalidRate)
}

func TestRateRepository_UpsertBatch_DBError_BeginTx(t *testing.T) {
	pool := setupPostgres(t)
	repo := postgres.NewRateRepository(pool)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := repo.UpsertBatch(ctx, []domain.RateRecord{{Pair: domain.RatePair{Base: "USD", Quote: "EUR"}, Rate: 1.0}})
	require.Error(t, err)
}
