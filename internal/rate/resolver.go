package rate

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"fxresolver/internal/adapters"
	"fxresolver/internal/domain"

	"golang.org/x/sync/errgroup"
)

const (
	defaultRefreshBatchSize = 5
	defaultRefreshPause     = 500 * time.Millisecond
)

// Tier names the layer that produced a rate.
type Tier string

const (
	TierIdentity   Tier = "identity"
	TierCache      Tier = "cache"
	TierStore      Tier = "store"
	TierProvider   Tier = "provider"
	TierStaleCache Tier = "stale_cache"
	TierStaleStore Tier = "stale_store"
)

// Quote is a resolved rate together with where it came from.
type Quote struct {
	Pair   domain.RatePair
	Rate   float64
	Tier   Tier
	Source string
	AsOf   time.Time
}

type PairFailure struct {
	Pair  string `json:"pair"`
	Error string `json:"error"`
}

type RefreshSummary struct {
	Attempted     int           `json:"attempted"`
	Updated       int           `json:"updated"`
	PersistFailed int           `json:"persist_failed"`
	Failed        []PairFailure `json:"failed,omitempty"`
	StartedAt     time.Time     `json:"started_at"`
	Duration      time.Duration `json:"-"`
}

type ProviderStatus struct {
	Name       string `json:"name"`
	Configured bool   `json:"configured"`
}

type Option func(*Resolver)

// WithClock replaces time.Now, mostly for tests.
func WithClock(now func() time.Time) Option {
	return func(r *Resolver) {
		if now != nil {
			r.now = now
		}
	}
}

func WithObserver(o Observer) Option {
	return func(r *Resolver) {
		if o != nil {
			r.obs = o
		}
	}
}

// WithRefreshBatch caps in-flight provider calls during RefreshAll and sets the
// pause between batches. A size below 1 keeps the default.
func WithRefreshBatch(size int, pause time.Duration) Option {
	return func(r *Resolver) {
		if size > 0 {
			r.batchSize = size
		}
		if pause >= 0 {
			r.pause = pause
		}
	}
}

// WithUnconfiguredProviders lists providers left out of the chain for lack of
// credentials, so Providers can report them.
func WithUnconfiguredProviders(names ...string) Option {
	return func(r *Resolver) {
		r.unconfigured = append(r.unconfigured, names...)
	}
}

// Resolver answers "what is the from->to rate" through tiered fallback:
// fresh cache, fresh store record, providers in order, stale cache, stale store.
// Each direction of a pair is resolved on its own; B->A is never derived from A->B.
type Resolver struct {
	store     adapters.RateStore
	cache     adapters.RateCache
	providers []adapters.RateProvider
	ttl       time.Duration

	obs          Observer
	now          func() time.Time
	batchSize    int
	pause        time.Duration
	unconfigured []string
}

func (r *Resolver) Resolve(ctx context.Context, from, to string) (float64, error) {
	q, err := r.ResolveDetailed(ctx, from, to)
	if err != nil {
		return 0, err
	}
	return q.Rate, nil
}

// ResolveDetailed is Resolve plus the tier and source of the answer.
// The only error it returns wraps domain.ErrRateUnavailable.
func (r *Resolver) ResolveDetailed(ctx context.Context, from, to string) (Quote, error) {
	pair := domain.NewRatePair(from, to)
	if pair.Base == "" || pair.Quote == "" {
		err := fmt.Errorf("%w for %s: currency code is empty", domain.ErrRateUnavailable, pair)
		r.obs.ResolveFailed(pair, err)
		return Quote{}, err
	}

	q, err := r.resolve(ctx, pair)
	if err != nil {
		r.obs.ResolveFailed(pair, err)
		return Quote{}, err
	}
	r.obs.Resolved(q)
	return q, nil
}

func (r *Resolver) resolve(ctx context.Context, pair domain.RatePair) (Quote, error) {
	now := r.now()

	// STEP 1: a currency always converts to itself at 1
	if pair.IsReflexive() {
		return Quote{Pair: pair, Rate: 1, Tier: TierIdentity, AsOf: now}, nil
	}

	// STEP 2: fresh cache entry
	entry, cached := r.cache.Get(pair)
	if cached && domain.IsFresh(entry.CachedAt, now, r.ttl) {
		return Quote{Pair: pair, Rate: entry.Rate, Tier: TierCache, AsOf: entry.CachedAt}, nil
	}

	// STEP 3: fresh persisted record. A failing store counts as a miss.
	record, stored := r.lookupStore(ctx, pair)
	if stored && domain.IsFresh(record.LastUpdated, now, r.ttl) {
		r.remember(pair, record.Rate, record.LastUpdated)
		return Quote{Pair: pair, Rate: record.Rate, Tier: TierStore, Source: record.Source, AsOf: record.LastUpdated}, nil
	}

	// STEP 4: providers in priority order, first valid rate wins
	rate, source, fetchErr := r.fetch(ctx, pair)
	if fetchErr == nil {
		rec := domain.RateRecord{Pair: pair, Rate: rate, LastUpdated: now, Source: source}
		r.persist(ctx, rec)
		r.remember(pair, rate, now)
		r.obs.RateUpdated(rec)
		return Quote{Pair: pair, Rate: rate, Tier: TierProvider, Source: source, AsOf: now}, nil
	}

	// STEP 5: whatever we knew last, cache before store
	if cached {
		return Quote{Pair: pair, Rate: entry.Rate, Tier: TierStaleCache, AsOf: entry.CachedAt}, nil
	}
	if stored {
		return Quote{Pair: pair, Rate: record.Rate, Tier: TierStaleStore, Source: record.Source, AsOf: record.LastUpdated}, nil
	}

	return Quote{}, fmt.Errorf("%w for %s: %v", domain.ErrRateUnavailable, pair, fetchErr)
}

func (r *Resolver) lookupStore(ctx context.Context, pair domain.RatePair) (domain.RateRecord, bool) {
	record, err := r.store.Get(ctx, pair)
	switch {
	case err == nil:
		return record, domain.ValidRate(record.Rate)
	case errors.Is(err, domain.ErrRateNotFound):
		return domain.RateRecord{}, false
	default:
		r.obs.PersistFailed(pair, fmt.Errorf("%w: failed to read rate: %w", domain.ErrPersistence, err))
		return domain.RateRecord{}, false
	}
}

// fetch walks the provider chain and returns the first valid rate with the
// provider's name.
func (r *Resolver) fetch(ctx context.Context, pair domain.RatePair) (float64, string, error) {
	if len(r.providers) == 0 {
		return 0, "", fmt.Errorf("%w: no providers configured", domain.ErrProviderUnavailable)
	}

	errs := make([]error, 0, len(r.providers))
	for _, p := range r.providers {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}

		rate, err := p.FetchRate(ctx, pair)
		if err == nil && !domain.ValidRate(rate) {
			err = fmt.Errorf("%w: %s returned %v: %w", domain.ErrProviderUnavailable, p.Name(), rate, domain.ErrInvalidRate)
		}
		if err != nil {
			r.obs.ProviderFailed(p.Name(), pair, err)
			errs = append(errs, err)
			continue
		}
		return rate, p.Name(), nil
	}
	return 0, "", errors.Join(errs...)
}

// persist reports a failed write but never fails the caller.
func (r *Resolver) persist(ctx context.Context, rec domain.RateRecord) bool {
	if err := r.store.Upsert(ctx, rec); err != nil {
		r.obs.PersistFailed(rec.Pair, fmt.Errorf("%w: failed to write rate: %w", domain.ErrPersistence, err))
		return false
	}
	return true
}

// remember caches rate for pair without letting CachedAt move backwards.
func (r *Resolver) remember(pair domain.RatePair, rate float64, at time.Time) {
	if prev, ok := r.cache.Get(pair); ok && prev.CachedAt.After(at) {
		at = prev.CachedAt
	}
	r.cache.Set(domain.CacheEntry{Pair: pair, Rate: rate, CachedAt: at})
}

// Convert returns amount * Resolve(from, to).
func (r *Resolver) Convert(ctx context.Context, amount float64, from, to string) (float64, error) {
	rate, err := r.Resolve(ctx, from, to)
	if err != nil {
		return 0, err
	}
	return amount * rate, nil
}

// RatesFrom resolves base->quote for every quote concurrently. Quotes that
// cannot be resolved are left out of the result.
func (r *Resolver) RatesFrom(ctx context.Context, base string, quotes []string) map[string]float64 {
	var (
		mu  sync.Mutex
		out = make(map[string]float64, len(quotes))
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.batchSize)
	for _, quote := range uniqueCodes(quotes) {
		g.Go(func() error {
			rate, err := r.Resolve(gctx, base, quote)
			if err != nil {
				return nil // already reported through the observer
			}
			mu.Lock()
			out[quote] = rate
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()
	return out
}

type refreshResult struct {
	pair   domain.RatePair
	rate   float64
	source string
	err    error
}

// RefreshAll forces a provider fetch for every ordered pair a != b drawn from
// currencies, ignoring cache and store freshness. Pairs run in batches of at
// most batchSize concurrent fetches with a pause between batches. Individual
// failures are collected in the summary; RefreshAll itself never fails.
func (r *Resolver) RefreshAll(ctx context.Context, currencies []string) RefreshSummary {
	started := r.now()
	codes := uniqueCodes(currencies)

	pairs := make([]domain.RatePair, 0, len(codes)*len(codes))
	for _, base := range codes {
		for _, quote := range codes {
			if base != quote {
				pairs = append(pairs, domain.RatePair{Base: base, Quote: quote})
			}
		}
	}

	summary := RefreshSummary{Attempted: len(pairs), StartedAt: started}
	for start := 0; start < len(pairs); start += r.batchSize {
		if start > 0 && !r.sleep(ctx) {
			for _, pair := range pairs[start:] {
				summary.Failed = append(summary.Failed, PairFailure{Pair: pair.String(), Error: ctx.Err().Error()})
			}
			break
		}

		end := min(start+r.batchSize, len(pairs))
		r.refreshBatch(ctx, pairs[start:end], &summary)
	}

	summary.Duration = r.now().Sub(started)
	r.obs.RefreshCompleted(summary)
	return summary
}

func (r *Resolver) refreshBatch(ctx context.Context, batch []domain.RatePair, summary *RefreshSummary) {
	// STEP 1: fetch the whole batch in parallel, one goroutine per pair
	results := make([]refreshResult, len(batch))
	var g errgroup.Group
	for i, pair := range batch {
		g.Go(func() error {
			rate, source, err := r.fetch(ctx, pair)
			results[i] = refreshResult{pair: pair, rate: rate, source: source, err: err}
			return nil
		})
	}
	_ = g.Wait()

	// STEP 2: collect successes, record failures
	now := r.now()
	records := make([]domain.RateRecord, 0, len(results))
	for _, res := range results {
		if res.err != nil {
			summary.Failed = append(summary.Failed, PairFailure{Pair: res.pair.String(), Error: res.err.Error()})
			continue
		}
		records = append(records, domain.RateRecord{Pair: res.pair, Rate: res.rate, LastUpdated: now, Source: res.source})
	}
	if len(records) == 0 {
		return
	}

	// STEP 3: persist in one round trip when the store supports it, then cache
	summary.PersistFailed += r.persistAll(ctx, records)
	for _, rec := range records {
		r.remember(rec.Pair, rec.Rate, rec.LastUpdated)
		r.obs.RateUpdated(rec)
	}
	summary.Updated += len(records)
}

// persistAll returns how many records failed to persist.
func (r *Resolver) persistAll(ctx context.Context, records []domain.RateRecord) int {
	if batch, ok := r.store.(adapters.BatchRateStore); ok {
		if err := batch.UpsertBatch(ctx, records); err != nil {
			for _, rec := range records {
				r.obs.PersistFailed(rec.Pair, fmt.Errorf("%w: failed to write rate batch: %w", domain.ErrPersistence, err))
			}
			return len(records)
		}
		return 0
	}

	failed := 0
	for _, rec := range records {
		if !r.persist(ctx, rec) {
			failed++
		}
	}
	return failed
}

// sleep waits for the inter-batch pause and reports false if ctx ended first.
func (r *Resolver) sleep(ctx context.Context) bool {
	if r.pause <= 0 {
		return ctx.Err() == nil
	}
	t := time.NewTimer(r.pause)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

// CacheStats partitions the cache by freshness. It never touches the store.
func (r *Resolver) CacheStats() domain.CacheStats {
	now := r.now()
	stats := domain.CacheStats{CacheDuration: r.ttl}
	for _, entry := range r.cache.Entries() {
		stats.Total++
		if domain.IsFresh(entry.CachedAt, now, r.ttl) {
			stats.Valid++
		} else {
			stats.Expired++
		}
	}
	return stats
}

// EvictExpired drops every cache entry with now - CachedAt >= ttl and returns
// how many were removed.
func (r *Resolver) EvictExpired() int {
	now := r.now()
	var expired []domain.RatePair
	for _, entry := range r.cache.Entries() {
		if !domain.IsFresh(entry.CachedAt, now, r.ttl) {
			expired = append(expired, entry.Pair)
		}
	}
	if len(expired) > 0 {
		r.cache.Delete(expired...)
	}
	return len(expired)
}

// Providers reports the chain in priority order followed by providers that
// were left out for lack of configuration.
func (r *Resolver) Providers() []ProviderStatus {
	out := make([]ProviderStatus, 0, len(r.providers)+len(r.unconfigured))
	for _, p := range r.providers {
		out = append(out, ProviderStatus{Name: p.Name(), Configured: true})
	}
	for _, name := range r.unconfigured {
		out = append(out, ProviderStatus{Name: name, Configured: false})
	}
	return out
}

func (r *Resolver) CacheDuration() time.Duration { return r.ttl }

func uniqueCodes(codes []string) []string {
	seen := make(map[string]struct{}, len(codes))
	out := make([]string, 0, len(codes))
	for _, code := range codes {
		code = domain.NormalizeCode(code)
		if code == "" {
			continue
		}
		if _, ok := seen[code]; ok {
			continue
		}
		seen[code] = struct{}{}
		out = append(out, code)
	}
	return out
}

// NewResolver wires a resolver over store, cache and the provider chain (in
// priority order). cacheDuration is the freshness window for both cache
// entries and store records and must be positive.
func NewResolver(store adapters.RateStore, cache adapters.RateCache, providers []adapters.RateProvider, cacheDuration time.Duration, opts ...Option) (*Resolver, error) {
	if store == nil || cache == nil {
		return nil, errors.New("failed to create resolver: store and cache are required")
	}
	if cacheDuration <= 0 {
		return nil, fmt.Errorf("failed to create resolver: cache duration must be positive, got %s", cacheDuration)
	}

	r := &Resolver{
		store:     store,
		cache:     cache,
		providers: append([]adapters.RateProvider(nil), providers...),
		ttl:       cacheDuration,
		obs:       NopObserver{},
		now:       time.Now,
		batchSize: defaultRefreshBatchSize,
		pause:     defaultRefreshPause,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}
