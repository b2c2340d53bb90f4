package lookup

import (
	"context"
	"errors"
	"log/slog"
	"math/rand"
	"strings"
	"sync"
	"time"

	"reprise/internal/config"
	"reprise/internal/logging"
	"reprise/internal/lookupcache"
	"reprise/internal/matching"
	"reprise/internal/services"
	"reprise/internal/works"
)

// Database is the primary works database surface: identifier and title
// search. The MLC client satisfies it.
type Database interface {
	SearchByCode(ctx context.Context, code string) ([]works.Work, error)
	SearchByTitle(ctx context.Context, title, artist string) ([]works.Work, error)
}

// TitleSearcher is a supplementary title-only source.
type TitleSearcher interface {
	SearchByTitle(ctx context.Context, title, artist string) ([]works.Work, error)
}

// Store is the response cache consulted before any network search.
type Store interface {
	Lookup(key string) ([]works.Work, bool)
	Store(key string, found []works.Work) error
}

// Params carries politeness and retry tuning. Zero values disable the
// corresponding behavior, so Params{} is an impolite single-shot resolver
// suitable for tests.
type Params struct {
	RequestDelay  time.Duration
	RequestJitter time.Duration
	MaxRetries    int
	Backoff       time.Duration
}

// ParamsFromConfig maps the config knobs onto lookup parameters.
func ParamsFromConfig(cfg config.Lookup) Params {
	return Params{
		RequestDelay:  time.Duration(cfg.RequestDelayMS) * time.Millisecond,
		RequestJitter: time.Duration(cfg.RequestJitterMS) * time.Millisecond,
		MaxRetries:    cfg.MaxRetries,
		Backoff:       time.Duration(cfg.BackoffMS) * time.Millisecond,
	}
}

// Resolver answers the matcher's lookups. Every search goes cache first,
// then the network behind a polite request gap, with exponential backoff on
// transient failures. Failures never propagate: a source that cannot answer
// contributes an empty candidate set, which the matcher treats as "no
// registrations found".
type Resolver struct {
	db       Database
	songview TitleSearcher
	cache    Store
	params   Params
	logger   *slog.Logger

	mu   sync.Mutex
	last time.Time
}

var _ matching.Lookup = (*Resolver)(nil)

// NewResolver wires the works sources into a resolver. The songview source
// and the cache are optional.
func NewResolver(db Database, songview TitleSearcher, cache Store, params Params, logger *slog.Logger) (*Resolver, error) {
	if db == nil {
		return nil, errors.New("works database required")
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Resolver{
		db:       db,
		songview: songview,
		cache:    cache,
		params:   params,
		logger:   logging.NewComponentLogger(logger, "lookup"),
	}, nil
}

// ByCode resolves candidates registered under a recording identifier.
func (r *Resolver) ByCode(ctx context.Context, code string) []works.Work {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil
	}
	key := lookupcache.Key(works.SourceMLC, "code", code)
	if found, ok := r.cached(key); ok {
		return found
	}
	found, err := r.withRetry(ctx, "code search", func(ctx context.Context) ([]works.Work, error) {
		return r.db.SearchByCode(ctx, code)
	})
	if err != nil {
		logging.WarnWithContext(r.logger, "code lookup degraded", "lookup_failed",
			logging.String("code", code),
			logging.Error(err))
		return nil
	}
	r.store(key, found)
	return found
}

// ByTitle resolves candidates whose registered titles resemble the query.
// The primary database answers first; the supplementary source, when
// configured, appends its candidates after.
func (r *Resolver) ByTitle(ctx context.Context, title, artist string) []works.Work {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil
	}
	found := r.titleFrom(ctx, works.SourceMLC, title, artist, r.db.SearchByTitle)
	if r.songview != nil {
		found = append(found, r.titleFrom(ctx, works.SourceSongview, title, artist, r.songview.SearchByTitle)...)
	}
	return found
}

func (r *Resolver) titleFrom(ctx context.Context, source, title, artist string, search func(context.Context, string, string) ([]works.Work, error)) []works.Work {
	key := lookupcache.Key(source, "title", title+"|"+artist)
	if found, ok := r.cached(key); ok {
		return found
	}
	found, err := r.withRetry(ctx, source+" title search", func(ctx context.Context) ([]works.Work, error) {
		return search(ctx, title, artist)
	})
	if err != nil {
		logging.WarnWithContext(r.logger, "title lookup degraded", "lookup_failed",
			logging.String(logging.FieldSource, source),
			logging.String("title", title),
			logging.Error(err))
		return nil
	}
	r.store(key, found)
	return found
}

func (r *Resolver) withRetry(ctx context.Context, op string, fn func(context.Context) ([]works.Work, error)) ([]works.Work, error) {
	attempts := r.params.MaxRetries
	if attempts < 1 {
		attempts = 1
	}
	backoff := r.params.Backoff
	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if err := r.politeWait(ctx); err != nil {
			return nil, err
		}
		found, err := fn(ctx)
		if err == nil {
			return found, nil
		}
		lastErr = err
		if ctx.Err() != nil || !services.Retryable(err) {
			return nil, err
		}
		if attempt == attempts {
			break
		}
		r.logger.Debug("retrying lookup",
			logging.String("operation", op),
			logging.Int("attempt", attempt),
			logging.Duration("backoff", backoff),
			logging.Error(err))
		if backoff > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff):
			}
			backoff *= 2
		}
	}
	return nil, lastErr
}

// politeWait spaces network requests by the configured gap, jittered so the
// traffic does not look mechanical. Cache hits never get here.
func (r *Resolver) politeWait(ctx context.Context) error {
	if r.params.RequestDelay <= 0 {
		return nil
	}
	gap := r.params.RequestDelay
	if r.params.RequestJitter > 0 {
		gap += time.Duration(rand.Int63n(int64(2*r.params.RequestJitter))) - r.params.RequestJitter
	}
	now := time.Now()
	r.mu.Lock()
	wait := gap - now.Sub(r.last)
	if wait > 0 {
		r.mu.Unlock()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
		r.mu.Lock()
	}
	r.last = time.Now()
	r.mu.Unlock()
	return nil
}

func (r *Resolver) cached(key string) ([]works.Work, bool) {
	if r.cache == nil {
		return nil, false
	}
	return r.cache.Lookup(key)
}

func (r *Resolver) store(key string, found []works.Work) {
	if r.cache == nil {
		return
	}
	if err := r.cache.Store(key, found); err != nil {
		r.logger.Debug("cache store failed", logging.Error(err))
	}
}
