package memory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"georag/internal/domain"
)

func entry(id, doc string) domain.Entry {
	return domain.Entry{ID: id, Document: doc}
}

func TestInitRejectsInvalidDimension(t *testing.T) {
	s := NewStorage()
	assert.Error(t, s.Init(0))
	assert.Error(t, s.Init(-1))
	assert.NoError(t, s.Init(3))
}

func TestUpsertValidatesInput(t *testing.T) {
	s := NewStorage()
	require.NoError(t, s.Init(2))

	err := s.Upsert([]domain.Entry{entry("0", "a")}, nil)
	assert.Error(t, err)

	err = s.Upsert([]domain.Entry{entry("0", "a")}, [][]float64{{1, 0, 0}})
	assert.Error(t, err)
}

func TestSearchRanksByCosineSimilarity(t *testing.T) {
	s := NewStorage()
	require.NoError(t, s.Init(2))
	require.NoError(t, s.Upsert(
		[]domain.Entry{entry("0", "east"), entry("1", "north"), entry("2", "northeast")},
		[][]float64{{1, 0}, {0, 1}, {0.7071, 0.7071}},
	))

	hits, err := s.Search([]float64{1, 0}, 3)
	require.NoError(t, err)
	require.Len(t, hits, 3)
	assert.Equal(t, "east", hits[0].Entry.Document)
	assert.Equal(t, "northeast", hits[1].Entry.Document)
	assert.Equal(t, "north", hits[2].Entry.Document)
	assert.Greater(t, hits[0].Score, hits[1].Score)
}

func TestSearchTopKBounds(t *testing.T) {
	s := NewStorage()
	require.NoError(t, s.Init(2))
	require.NoError(t, s.Upsert(
		[]domain.Entry{entry("0", "a"), entry("1", "b")},
		[][]float64{{1, 0}, {0, 1}},
	))

	hits, err := s.Search([]float64{1, 0}, 10)
	require.NoError(t, err)
	assert.Len(t, hits, 2)

	hits, err = s.Search([]float64{1, 0}, 0)
	require.NoError(t, err)
	assert.Len(t, hits, 1)
}

func TestSearchEmptyStoreReturnsNoHits(t *testing.T) {
	s := NewStorage()
	require.NoError(t, s.Init(2))

	hits, err := s.Search([]float64{1, 0}, 5)
	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestClearDropsContents(t *testing.T) {
	s := NewStorage()
	require.NoError(t, s.Init(2))
	require.NoError(t, s.Upsert([]domain.Entry{entry("0", "a")}, [][]float64{{1, 0}}))
	require.NoError(t, s.Clear())

	hits, err := s.Search([]float64{1, 0}, 5)
	require.NoError(t, err)
	assert.Empty(t, hits)
}
