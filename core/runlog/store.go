// Package runlog persists balancing runs so they can be queried later.
package runlog

import (
	"context"
	"sync"
	"time"

	"github.com/kilianp07/phasebal/core/model"
)

// RunRecord captures one balancing request and its outcome.
type RunRecord struct {
	RunID          string                    `json:"run_id"`
	Timestamp      time.Time                 `json:"timestamp"`
	Circuits       []model.CircuitLoad       `json:"circuits"`
	Result         model.LoadBalancingResult `json:"result"`
	NeutralCurrent float64                   `json:"neutral_current"`
}

// RunQuery defines filters for retrieving records.
type RunQuery struct {
	Start time.Time
	End   time.Time

	// Compliant keeps only runs with the given compliance when set.
	Compliant *bool

	// Limit keeps the most recent records when positive.
	Limit int
}

// Store persists RunRecords and supports querying. Query returns records
// in chronological order.
type Store interface {
	Append(ctx context.Context, rec RunRecord) error
	Query(ctx context.Context, q RunQuery) ([]RunRecord, error)
	Close() error
}

func (q RunQuery) matches(r RunRecord) bool {
	if !q.Start.IsZero() && r.Timestamp.Before(q.Start) {
		return false
	}
	if !q.End.IsZero() && r.Timestamp.After(q.End) {
		return false
	}
	if q.Compliant != nil && r.Result.Compliant != *q.Compliant {
		return false
	}
	return true
}

func (q RunQuery) limit(recs []RunRecord) []RunRecord {
	if q.Limit > 0 && len(recs) > q.Limit {
		return recs[len(recs)-q.Limit:]
	}
	return recs
}

// MemoryStore keeps records in memory.
type MemoryStore struct {
	mu   sync.RWMutex
	recs []RunRecord
}

func NewMemoryStore() *MemoryStore { return &MemoryStore{} }

func (s *MemoryStore) Append(_ context.Context, rec RunRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recs = append(s.recs, rec)
	return nil
}

func (s *MemoryStore) Query(_ context.Context, q RunQuery) ([]RunRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var res []RunRecord
	for _, r := range s.recs {
		if q.matches(r) {
			res = append(res, r)
		}
	}
	return q.limit(res), nil
}

func (s *MemoryStore) Close() error { return nil }
