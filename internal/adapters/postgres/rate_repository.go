package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"fxresolver/internal/domain"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type RateRepository struct {
	pool *pgxpool.Pool
}

func (r *RateRepository) Get(ctx context.Context, pair domain.RatePair) (domain.RateRecord, error) {
	const q = `
        select from_currency, to_currency, rate, source, last_updated
        from exchange_rates
        where from_currency = $1 and to_currency = $2;
    `

	var rec domain.RateRecord
	if err := r.pool.QueryRow(ctx, q, pair.Base, pair.Quote).Scan(
		&rec.Pair.Base,
		&rec.Pair.Quote,
		&rec.Rate,
		&rec.Source,
		&rec.LastUpdated,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.RateRecord{}, domain.ErrRateNotFound
		}
		return domain.RateRecord{}, fmt.Errorf("failed to select rate for pair %q/%q: %w", pair.Base, pair.Quote, err)
	}
	rec.LastUpdated = rec.LastUpdated.UTC()
	return rec, nil
}

func (r *RateRepository) Upsert(ctx context.Context, rec domain.RateRecord) error {
	if !domain.ValidRate(rec.Rate) {
		return fmt.Errorf("failed to upsert rate for pair %q/%q: %w", rec.Pair.Base, rec.Pair.Quote, domain.ErrInvalidRate)
	}

	const q = `
		insert into exchange_rates (from_currency, to_currency, rate, source, last_updated)
		values ($1, $2, $3, $4, $5)
		on conflict (from_currency, to_currency) do update
		set rate = excluded.rate,
		    source = excluded.source,
		    last_updated = greatest(exchange_rates.last_updated, excluded.last_updated);
	`

	if _, err := r.pool.Exec(ctx, q, rec.Pair.Base, rec.Pair.Quote, rec.Rate, rec.Source, rec.LastUpdated.UTC()); err != nil {
		return fmt.Errorf("failed to upsert rate for pair %q/%q: %w", rec.Pair.Base, rec.Pair.Quote, err)
	}
	return nil
}

type batchRow struct {
	FromCurrency string    `json:"from_currency"`
	ToCurrency   string    `json:"to_currency"`
	Rate         float64   `json:"rate"`
	Source       string    `json:"source"`
	LastUpdated  time.Time `json:"last_updated"`
}

// UpsertBatch writes all records in one statement. Pairs must be unique within the batch.
func (r *RateRepository) UpsertBatch(ctx context.Context, recs []domain.RateRecord) error {
	if len(recs) == 0 {
		return nil
	}
	payload := make([]batchRow, 0, len(recs))
	for _, rec := range recs {
		if !domain.ValidRate(rec.Rate) {
			return fmt.Errorf("failed to upsert rate for pair %q/%q: %w", rec.Pair.Base, rec.Pair.Quote, domain.ErrInvalidRate)
		}
		payload = append(payload, batchRow{rec.Pair.Base, rec.Pair.Quote, rec.Rate, rec.Source, rec.LastUpdated.UTC()})
	}

	payloadJSON, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal rates: %w", err)
	}

	const q = `
		with

		-- step 1: parsing input
		input_rows as (
		  select * from json_to_recordset($1::json)
		  as r(from_currency text, to_currency text, rate numeric, source text, last_updated timestamptz)
		)

		-- step 2: upserting exchange_rates records
		insert into exchange_rates (from_currency, to_currency, rate, source, last_updated)
		select from_currency, to_currency, rate, source, last_updated from input_rows
		on conflict (from_currency, to_currency) do update
		set rate = excluded.rate,
		    source = excluded.source,
		    last_updated = greatest(exchange_rates.last_updated, excluded.last_updated);
	`

	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err = tx.Exec(ctx, q, json.RawMessage(payloadJSON)); err != nil {
		return fmt.Errorf("failed to execute query: %w", err)
	}
	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func NewRateRepository(pool *pgxpool.Pool) *RateRepository {
	return &RateRepository{pool: pool}
}
