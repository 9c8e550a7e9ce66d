package store

import (
	"context"
	"time"

	"github.com/xkilldash9x/boxlayout/internal/reporting"
)

// Reporter collects results and saves them as one run when closed.
type Reporter struct {
	ctx     context.Context
	store   *Store
	started time.Time
	runID   string
	failed  int
	docs    []*reporting.Document
}

var _ reporting.Reporter = (*Reporter)(nil)

// NewReporter creates a Reporter that saves through s using ctx.
func NewReporter(ctx context.Context, s *Store) *Reporter {
	return &Reporter{ctx: ctx, store: s, started: time.Now()}
}

func (r *Reporter) Write(result *reporting.Result) error {
	doc, err := reporting.NewDocument(result)
	if err != nil {
		return err
	}
	if doc.Error != "" {
		r.failed++
	}
	r.runID = result.RunID
	r.docs = append(r.docs, doc)
	return nil
}

// Close saves the collected run. Nothing is written for an empty batch.
func (r *Reporter) Close() error {
	if len(r.docs) == 0 {
		return nil
	}
	run := Run{RunID: r.runID, StartedAt: r.started, Fixtures: len(r.docs), Failed: r.failed}
	return r.store.SaveRun(r.ctx, run, r.docs)
}
