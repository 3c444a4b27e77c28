package autoadvance

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"

	"github.com/mkelleher/rinkdraft/go/internal/draft/draft"
)

const (
	defaultInterval   = 5 * time.Second
	defaultBatchSize  = 50
	defaultNumWorkers = 4
)

// DraftAdvancer is the slice of the draft app the worker drives.
type DraftAdvancer interface {
	ListDueDrafts(ctx context.Context, limit int) ([]draft.DueDraft, error)
	AdvancePick(ctx context.Context, draftID uuid.UUID) (draft.AdvanceResult, error)
}

// Worker polls for drafts whose current pick has run out of time and
// advances them. Advancing is idempotent at the store level, so multiple
// instances can run the loop concurrently without double-skipping a turn.
type Worker struct {
	app        DraftAdvancer
	clock      clockwork.Clock
	interval   time.Duration
	batchSize  int
	numWorkers int
}

// Option configures a Worker.
type Option func(*Worker)

// WithInterval sets the poll interval.
func WithInterval(d time.Duration) Option {
	return func(w *Worker) { w.interval = d }
}

// WithBatchSize caps how many due drafts one poll handles.
func WithBatchSize(n int) Option {
	return func(w *Worker) { w.batchSize = n }
}

// WithNumWorkers sets the advance worker pool size.
func WithNumWorkers(n int) Option {
	return func(w *Worker) { w.numWorkers = n }
}

func NewWorker(app DraftAdvancer, clock clockwork.Clock, opts ...Option) *Worker {
	w := &Worker{
		app:        app,
		clock:      clock,
		interval:   defaultInterval,
		batchSize:  defaultBatchSize,
		numWorkers: defaultNumWorkers,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Run polls until the context is cancelled. It always returns ctx.Err().
func (w *Worker) Run(ctx context.Context) error {
	log.Info().
		Dur("interval", w.interval).
		Int("workers", w.numWorkers).
		Msg("autoadvance worker started")

	workCh := make(chan uuid.UUID)

	var wg sync.WaitGroup
	for i := 0; i < w.numWorkers; i++ {
		wg.Add(1)
		go w.advanceLoop(ctx, &wg, i, workCh)
	}

	ticker := w.clock.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			close(workCh)
			wg.Wait()
			log.Info().Msg("autoadvance worker stopped")
			return ctx.Err()
		case <-ticker.Chan():
			w.dispatch(ctx, workCh)
		}
	}
}

func (w *Worker) dispatch(ctx context.Context, workCh chan<- uuid.UUID) {
	due, err := w.app.ListDueDrafts(ctx, w.batchSize)
	if err != nil {
		log.Error().Err(err).Msg("failed to list due drafts")
		return
	}
	for _, d := range due {
		select {
		case workCh <- d.DraftID:
		case <-ctx.Done():
			return
		}
	}
}

func (w *Worker) advanceLoop(ctx context.Context, wg *sync.WaitGroup, workerID int, workCh <-chan uuid.UUID) {
	defer wg.Done()

	for draftID := range workCh {
		result, err := w.app.AdvancePick(ctx, draftID)
		if err != nil {
			// Another instance may have advanced or finished the draft
			// between the poll and this call.
			if errors.Is(err, draft.ErrDraftNotActive) || errors.Is(err, draft.ErrDraftNotFound) {
				log.Debug().
					Str("draft_id", draftID.String()).
					Msg("draft no longer due, skipping")
				continue
			}
			log.Error().Err(err).
				Str("draft_id", draftID.String()).
				Int("worker_id", workerID).
				Msg("failed to advance pick")
			continue
		}

		log.Info().
			Str("draft_id", draftID.String()).
			Int("pick_num", result.PickNum).
			Bool("completed", result.Completed).
			Int("worker_id", workerID).
			Msg("advanced timed-out pick")
	}
}
