package vectorstore

import "georag/internal/domain"

// Storage is an in-process or remote similarity index over feature entries.
// It is filled once at startup and only queried afterwards.
type Storage interface {
	Init(dimension int) error
	Upsert(entries []domain.Entry, vectors [][]float64) error
	Search(vector []float64, topK int) ([]domain.SearchHit, error)
	Clear() error
}
