package history

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mind-engage/examprep/internal/evaluation"
)

type memoryStore struct {
	mu      sync.RWMutex
	now     Clock
	records map[string]Record
}

func NewMemoryStore(now Clock) Store {
	if now == nil {
		now = time.Now
	}
	return &memoryStore{now: now, records: map[string]Record{}}
}

func (m *memoryStore) Save(_ context.Context, userID string, res evaluation.Result) (Record, error) {
	rec := newRecord(uuid.NewString(), userID, res, m.now())
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[rec.ID] = rec
	return rec, nil
}

func (m *memoryStore) Get(_ context.Context, id string) (Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	rec, ok := m.records[id]
	if !ok {
		return Record{}, ErrNotFound
	}
	return rec, nil
}

func (m *memoryStore) List(_ context.Context, opts ListOpts) ([]Record, error) {
	m.mu.RLock()
	out := make([]Record, 0, len(m.records))
	for _, r := range m.records {
		if opts.UserID != "" && r.UserID != opts.UserID {
			continue
		}
		if opts.QuestionType != "" && r.QuestionType != opts.QuestionType {
			continue
		}
		out = append(out, r)
	}
	m.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	if opts.Offset >= len(out) {
		return []Record{}, nil
	}
	out = out[max(opts.Offset, 0):]
	if limit := normalizeLimit(opts.Limit); len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *memoryStore) Summary(_ context.Context, userID string) ([]TypeSummary, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	byType := map[string]*TypeSummary{}
	sums := map[string]float64{}
	for _, r := range m.records {
		if r.UserID != userID {
			continue
		}
		s, ok := byType[r.QuestionType]
		if !ok {
			s = &TypeSummary{QuestionType: r.QuestionType, BestPercentage: r.Percentage}
			byType[r.QuestionType] = s
		}
		s.Count++
		sums[r.QuestionType] += r.Percentage
		if r.Percentage > s.BestPercentage {
			s.BestPercentage = r.Percentage
		}
		if r.CreatedAt.After(s.LastEvaluatedAt) {
			s.LastEvaluatedAt = r.CreatedAt
		}
	}
	out := make([]TypeSummary, 0, len(byType))
	for qt, s := range byType {
		s.AveragePercentage = sums[qt] / float64(s.Count)
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].QuestionType < out[j].QuestionType })
	return out, nil
}
