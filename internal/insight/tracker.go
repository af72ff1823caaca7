package insight

import (
	"context"
	"sync"

	"tacklepos/internal/domain"
)

// Placeholder is shown until the first trend summary lands.
const Placeholder = "Analyzing sales data..."

type Summarizer interface {
	SummarizeTrend(ctx context.Context, recent []domain.Transaction) string
}

// TrendTracker runs trend summaries in the background and keeps the newest
// one. Each refresh carries a generation (the ledger version); results of an
// older generation than the latest requested one are dropped.
type TrendTracker struct {
	sum Summarizer

	root context.Context
	stop context.CancelFunc
	wg   sync.WaitGroup

	mu      sync.Mutex
	latest  uint64
	applied uint64
	running bool
	cancel  context.CancelFunc
	text    string
	have    bool
	closed  bool
}

func NewTrendTracker(s Summarizer) *TrendTracker {
	root, stop := context.WithCancel(context.Background())
	return &TrendTracker{sum: s, root: root, stop: stop}
}

// Refresh starts a summary for generation gen unless that generation is
// already done, running, or older than one already requested. It reports
// whether a new run was started.
func (t *TrendTracker) Refresh(gen uint64, recent []domain.Transaction) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed || gen < t.latest {
		return false
	}
	if gen == t.latest && (t.running || (t.have && t.applied == gen)) {
		return false
	}
	if t.cancel != nil {
		t.cancel()
	}
	ctx, cancel := context.WithCancel(t.root)
	t.latest = gen
	t.running = true
	t.cancel = cancel

	snapshot := append([]domain.Transaction(nil), recent...)
	t.wg.Add(1)
	go func() {
		defer t.wg.Done()
		defer cancel()
		text := t.sum.SummarizeTrend(ctx, snapshot)
		t.finish(ctx, gen, text)
	}()
	return true
}

func (t *TrendTracker) finish(ctx context.Context, gen uint64, text string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if gen != t.latest || ctx.Err() != nil {
		return
	}
	t.text = text
	t.have = true
	t.applied = gen
	t.running = false
	t.cancel = nil
}

// Current returns the latest summary and whether a newer one is on its way.
func (t *TrendTracker) Current() (text string, pending bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	pending = t.running
	if !t.have {
		return Placeholder, pending
	}
	return t.text, pending
}

// Generation is the generation of the text returned by Current.
func (t *TrendTracker) Generation() uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.applied
}

// Wait blocks until every started refresh has returned.
func (t *TrendTracker) Wait() { t.wg.Wait() }

// Close cancels in-flight work, waits for it and refuses further refreshes.
func (t *TrendTracker) Close() {
	t.mu.Lock()
	t.closed = true
	t.mu.Unlock()
	t.stop()
	t.wg.Wait()
}
