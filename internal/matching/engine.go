package matching

import (
	"context"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"

	"reprise/internal/catalog"
	"reprise/internal/logging"
	"reprise/internal/works"
)

// Lookup resolves candidate works from the rights databases. Implementations
// absorb transport and data-quality failures and return empty slices instead
// of errors so a flaky source degrades a run rather than aborting it.
type Lookup interface {
	// ByCode returns works the databases register under the given recording code.
	ByCode(ctx context.Context, code string) []works.Work
	// ByTitle returns works whose registered titles resemble the given title.
	ByTitle(ctx context.Context, title, artist string) []works.Work
}

// Result aggregates the match records for a whole catalog. Records keep
// recording order from the input; Works maps work ID to the first observed
// copy of every work any record references.
type Result struct {
	Records []MatchRecord
	Works   map[string]works.Work
}

func newResult() Result {
	return Result{Works: make(map[string]works.Work)}
}

func (r *Result) merge(set MatchSet) {
	r.Records = append(r.Records, set.Records...)
	for id, work := range set.Works {
		if _, ok := r.Works[id]; !ok {
			r.Works[id] = work
		}
	}
}

// Engine drives matching for whole catalogs: identifier search first, title
// search only when identifier results leave a recording under-matched.
type Engine struct {
	lookup Lookup
	params Params
	logger *slog.Logger
}

// NewEngine wires a lookup into an engine. A nil logger disables logging.
func NewEngine(lookup Lookup, params Params, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Engine{
		lookup: lookup,
		params: params.withDefaults(),
		logger: logging.NewComponentLogger(logger, "matcher"),
	}
}

// Run matches every recording in order. When the context is canceled it
// returns the records accumulated so far together with the context error.
// With Parallelism above one, recordings are matched concurrently while the
// returned records still follow input order.
func (e *Engine) Run(ctx context.Context, recordings []catalog.Recording) (Result, error) {
	e.logger.Info("matching catalog",
		logging.Int("recordings", len(recordings)),
		logging.Int("parallelism", e.params.Parallelism))
	var (
		res Result
		err error
	)
	if e.params.Parallelism > 1 && len(recordings) > 1 {
		res, err = e.runParallel(ctx, recordings)
	} else {
		res, err = e.runSequential(ctx, recordings)
	}
	if err != nil {
		e.logger.Warn("matching interrupted",
			logging.Int("records", len(res.Records)),
			logging.Error(err))
		return res, err
	}
	e.logger.Info("matching complete",
		logging.Int("records", len(res.Records)),
		logging.Int("works", len(res.Works)))
	return res, nil
}

func (e *Engine) runSequential(ctx context.Context, recordings []catalog.Recording) (Result, error) {
	res := newResult()
	for _, rec := range recordings {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		res.merge(e.matchRecording(ctx, rec))
	}
	return res, nil
}

func (e *Engine) runParallel(ctx context.Context, recordings []catalog.Recording) (Result, error) {
	sets := make([]MatchSet, len(recordings))
	done := make([]bool, len(recordings))
	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(e.params.Parallelism)
	for i, rec := range recordings {
		i, rec := i, rec
		group.Go(func() error {
			if err := groupCtx.Err(); err != nil {
				return err
			}
			sets[i] = e.matchRecording(groupCtx, rec)
			done[i] = true
			return nil
		})
	}
	err := group.Wait()
	res := newResult()
	for i := range sets {
		if err != nil && !done[i] {
			break
		}
		res.merge(sets[i])
	}
	return res, err
}

// matchRecording runs both strategies for one recording. The title search is
// issued only after identifier results are known and only when they fall
// short of the sufficiency count.
func (e *Engine) matchRecording(ctx context.Context, rec catalog.Recording) MatchSet {
	cands := Candidates{}
	if code := strings.TrimSpace(rec.ISRC); code != "" {
		for _, work := range e.lookup.ByCode(ctx, code) {
			cands.ByCode = append(cands.ByCode, CodeCandidate{Work: work, Code: code})
		}
	}
	set := Aggregate(rec, cands, e.params)
	if set.ExactCount() >= e.params.ExactMatchSufficiency {
		e.logger.Debug("identifier matches sufficient",
			logging.String(logging.FieldRecording, rec.Title),
			logging.Int("matches", set.ExactCount()))
		return set
	}
	cands.ByTitle = e.lookup.ByTitle(ctx, rec.Title, rec.PrimaryArtist())
	if len(cands.ByTitle) == 0 {
		return set
	}
	set = Aggregate(rec, cands, e.params)
	e.logger.Debug("recording matched",
		logging.String(logging.FieldRecording, rec.Title),
		logging.Int("candidates", len(cands.ByCode)+len(cands.ByTitle)),
		logging.Int("matches", len(set.Records)))
	return set
}
