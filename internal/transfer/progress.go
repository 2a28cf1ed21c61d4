package transfer

import (
	"context"
	"sync/atomic"
	"time"
)

// Progress counts mapped pixels against a known total.
//
// Progress is safe for concurrent use.
type Progress struct {
	done  atomic.Uint64
	total uint64
}

// NewProgress creates a counter expecting total pixels.
func NewProgress(total int) *Progress {
	return &Progress{total: uint64(max(total, 0))}
}

// Add advances the counter by n.
func (p *Progress) Add(n int) {
	p.done.Add(uint64(n))
}

// Done returns the number of pixels counted so far.
func (p *Progress) Done() uint64 {
	return p.done.Load()
}

// Total returns the expected number of pixels.
func (p *Progress) Total() uint64 {
	return p.total
}

// Fraction returns progress in [0, 1]. An empty job is complete.
func (p *Progress) Fraction() float64 {
	if p.total == 0 {
		return 1
	}
	return min(float64(p.Done())/float64(p.total), 1)
}

// Complete reports whether the counter has reached the total.
func (p *Progress) Complete() bool {
	return p.Done() >= p.total
}

// Watch calls report every interval until the counter reaches its total or
// ctx ends, then calls report once more with the final count.
func (p *Progress) Watch(ctx context.Context, interval time.Duration, report func(done, total uint64)) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for !p.Complete() {
		select {
		case <-ctx.Done():
			report(p.Done(), p.total)
			return
		case <-ticker.C:
			report(p.Done(), p.total)
		}
	}
	report(p.Done(), p.total)
}
