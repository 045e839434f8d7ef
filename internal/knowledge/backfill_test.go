package knowledge

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type backfillStore struct {
	pending []Entry
	set     map[int64][]float32
}

func (s *backfillStore) ListUnembedded(ctx context.Context, limit int) ([]Entry, error) {
	if limit > len(s.pending) {
		limit = len(s.pending)
	}
	return append([]Entry(nil), s.pending[:limit]...), nil
}

func (s *backfillStore) SetEmbedding(ctx context.Context, id int64, embedding []float32) error {
	if s.set == nil {
		s.set = make(map[int64][]float32)
	}
	s.set[id] = embedding

	for i, e := range s.pending {
		if e.ID == id {
			s.pending = append(s.pending[:i], s.pending[i+1:]...)
			break
		}
	}
	return nil
}

type batchEmbedderFunc func(ctx context.Context, texts []string) ([][]float32, error)

func (f batchEmbedderFunc) GenerateEmbeddings(ctx context.Context, texts []string) ([][]float32, error) {
	return f(ctx, texts)
}

func lengths(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, t := range texts {
		out[i] = []float32{float32(len(t))}
	}
	return out, nil
}

func TestBackfill_EmbedsAllBatches(t *testing.T) {
	store := &backfillStore{pending: []Entry{
		{ID: 1, Category: "Hours", Content: "Open late"},
		{ID: 2, Category: "Parking", Content: "Street only"},
		{ID: 3, Category: "Dress", Content: "Relaxed"},
	}}

	n, err := Backfill(context.Background(), store, batchEmbedderFunc(lengths), 2, false)

	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Empty(t, store.pending)
	assert.Equal(t, []float32{float32(len("Hours: Open late"))}, store.set[1])
}

func TestBackfill_DryRunWritesNothing(t *testing.T) {
	store := &backfillStore{pending: []Entry{{ID: 1, Category: "Hours", Content: "Open late"}}}

	embed := batchEmbedderFunc(func(ctx context.Context, texts []string) ([][]float32, error) {
		t.Fatal("dry run must not call the embedder")
		return nil, nil
	})

	n, err := Backfill(context.Background(), store, embed, 10, true)

	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Nil(t, store.set)
}

func TestBackfill_Errors(t *testing.T) {
	t.Run("embedder failure", func(t *testing.T) {
		store := &backfillStore{pending: []Entry{{ID: 1}}}
		embed := batchEmbedderFunc(func(ctx context.Context, texts []string) ([][]float32, error) {
			return nil, errors.New("quota exceeded")
		})

		_, err := Backfill(context.Background(), store, embed, 10, false)
		assert.ErrorContains(t, err, "quota exceeded")
	})

	t.Run("vector count mismatch", func(t *testing.T) {
		store := &backfillStore{pending: []Entry{{ID: 1}, {ID: 2}}}
		embed := batchEmbedderFunc(func(ctx context.Context, texts []string) ([][]float32, error) {
			return [][]float32{{1}}, nil
		})

		_, err := Backfill(context.Background(), store, embed, 10, false)
		assert.ErrorContains(t, err, "1 vectors for 2 rows")
	})
}
