package web

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/nao1215/tablediff"
)

// resultStore keeps finished comparison results in memory so workbooks
// can be downloaded after the compare request returns. The store is
// bounded; the oldest result is evicted when it fills up. Nothing is
// persisted across restarts.
type resultStore struct {
	mu      sync.Mutex
	max     int
	order   []string
	results map[string]*storedResult
}

// storedResult is one finished comparison with its download metadata.
type storedResult struct {
	id        string
	result    *tablediff.Result
	createdAt time.Time
}

// newResultStore creates a store that keeps at most max results.
func newResultStore(max int) *resultStore {
	return &resultStore{
		max:     max,
		results: make(map[string]*storedResult, max),
	}
}

// Put stores a result and returns its download ID.
func (s *resultStore) Put(result *tablediff.Result) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := uuid.NewString()
	for len(s.order) >= s.max {
		oldest := s.order[0]
		s.order = s.order[1:]
		delete(s.results, oldest)
	}
	s.order = append(s.order, id)
	s.results[id] = &storedResult{
		id:        id,
		result:    result,
		createdAt: time.Now(),
	}
	return id
}

// Get returns the stored result for an ID, or nil when it is unknown or
// already evicted.
func (s *resultStore) Get(id string) *tablediff.Result {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.results[id]
	if !ok {
		return nil
	}
	return stored.result
}

// Len returns the number of stored results.
func (s *resultStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.results)
}
