// Package memory implements the default embedded similarity index: a
// brute-force cosine store over the handful of feature vectors this system
// indexes. Created fresh per process, never persisted.
package memory

import (
	"sort"
	"sync"

	"github.com/pkg/errors"

	"georag/internal/domain"
)

// Storage is an in-memory vector store using brute-force cosine similarity.
// Safe for concurrent reads after the one-time fill.
type Storage struct {
	mu        sync.RWMutex
	dimension int
	vectors   [][]float64
	entries   []domain.Entry
}

// NewStorage creates an empty store.
func NewStorage() *Storage { return &Storage{} }

// Init fixes the vector dimension and drops any previous contents.
func (s *Storage) Init(dimension int) error {
	if dimension <= 0 {
		return errors.New("invalid dimension")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dimension = dimension
	s.vectors = nil
	s.entries = nil
	return nil
}

// Upsert appends entries with their vectors. Vectors must match the
// dimension given to Init.
func (s *Storage) Upsert(entries []domain.Entry, vectors [][]float64) error {
	if len(entries) != len(vectors) {
		return errors.New("entries and vectors length mismatch")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, v := range vectors {
		if len(v) != s.dimension {
			return errors.New("vector dimension mismatch")
		}
	}
	s.entries = append(s.entries, entries...)
	s.vectors = append(s.vectors, vectors...)
	return nil
}

// Search returns up to topK entries ranked by cosine similarity, closest
// first. Searching an empty store returns an empty result, not an error.
func (s *Storage) Search(vector []float64, topK int) ([]domain.SearchHit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if topK < 1 {
		topK = 1
	}

	// Stored vectors are L2-normalized, so the dot product is the cosine.
	hits := make([]domain.SearchHit, len(s.vectors))
	for i := range s.vectors {
		hits[i] = domain.SearchHit{Entry: s.entries[i], Score: dot(s.vectors[i], vector)}
	}
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].Score > hits[j].Score })

	if topK > len(hits) {
		topK = len(hits)
	}
	return hits[:topK], nil
}

// Clear drops all stored entries and vectors.
func (s *Storage) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.vectors = nil
	s.entries = nil
	return nil
}

func dot(a, b []float64) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	sum := 0.0
	for i := 0; i < n; i++ {
		sum += a[i] * b[i]
	}
	return sum
}
