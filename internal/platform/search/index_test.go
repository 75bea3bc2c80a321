package search

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memoryRedis is an in-memory stand-in for the hash and set commands.
type memoryRedis struct {
	hashes map[string]map[string]string
	sets   map[string]map[string]bool
	err    error
}

func newMemoryRedis() *memoryRedis {
	return &memoryRedis{
		hashes: make(map[string]map[string]string),
		sets:   make(map[string]map[string]bool),
	}
}

func (m *memoryRedis) HSet(_ context.Context, key string, values ...interface{}) *redis.IntCmd {
	if m.err != nil {
		return redis.NewIntResult(0, m.err)
	}
	h, ok := m.hashes[key]
	if !ok {
		h = make(map[string]string)
		m.hashes[key] = h
	}
	for n := 0; n+1 < len(values); n += 2 {
		h[fmt.Sprint(values[n])] = fmt.Sprint(values[n+1])
	}
	return redis.NewIntResult(int64(len(values)/2), nil)
}

func (m *memoryRedis) HGetAll(_ context.Context, key string) *redis.MapStringStringCmd {
	if m.err != nil {
		return redis.NewMapStringStringResult(nil, m.err)
	}
	out := make(map[string]string)
	for k, v := range m.hashes[key] {
		out[k] = v
	}
	return redis.NewMapStringStringResult(out, nil)
}

func (m *memoryRedis) SAdd(_ context.Context, key string, members ...interface{}) *redis.IntCmd {
	if m.err != nil {
		return redis.NewIntResult(0, m.err)
	}
	s, ok := m.sets[key]
	if !ok {
		s = make(map[string]bool)
		m.sets[key] = s
	}
	for _, member := range members {
		s[fmt.Sprint(member)] = true
	}
	return redis.NewIntResult(int64(len(members)), nil)
}

func (m *memoryRedis) SInter(_ context.Context, keys ...string) *redis.StringSliceCmd {
	if m.err != nil {
		return redis.NewStringSliceResult(nil, m.err)
	}
	var out []string
	for member := range m.sets[keys[0]] {
		inAll := true
		for _, key := range keys[1:] {
			if !m.sets[key][member] {
				inAll = false
				break
			}
		}
		if inAll {
			out = append(out, member)
		}
	}
	return redis.NewStringSliceResult(out, nil)
}

func (m *memoryRedis) Close() error { return nil }

func seedIndex(t *testing.T, idx *Index) {
	t.Helper()
	docs := []ModuleDocument{
		{ID: 3, StudyPathID: 1, Topic: "Bases de datos", Title: "Introducción a SQL", Description: "Consultas básicas", Subtopics: []string{"SELECT", "JOIN"}},
		{ID: 1, StudyPathID: 1, Topic: "Bases de datos", Title: "Modelado relacional", Description: "Tablas y relaciones", Subtopics: []string{"Normalización"}},
		{ID: 7, StudyPathID: 2, Topic: "Python", Title: "Listas en Python", Description: "Colecciones", Subtopics: []string{"Slicing"}},
	}
	for _, d := range docs {
		require.NoError(t, idx.IndexModule(context.Background(), d))
	}
}

func TestIndexModuleStoresHashAndTokens(t *testing.T) {
	mem := newMemoryRedis()
	idx := newIndex(mem, "test", nil)

	err := idx.IndexModule(context.Background(), ModuleDocument{
		ID: 42, StudyPathID: 9, Topic: "Go", Title: "Canales y goroutines",
		Description: "Concurrencia", Subtopics: []string{"select"},
	})
	require.NoError(t, err)

	h := mem.hashes["test:module:42"]
	require.NotNil(t, h)
	assert.Equal(t, "Canales y goroutines", h["title"])
	assert.Equal(t, "9", h["study_path_id"])
	assert.Equal(t, `["select"]`, h["subtopics"])

	assert.True(t, mem.sets["test:token:canales"]["42"])
	assert.True(t, mem.sets["test:token:concurrencia"]["42"])
	assert.True(t, mem.sets["test:token:select"]["42"])
	assert.NotContains(t, mem.sets, "test:token:y", "stopwords are not indexed")
}

func TestSearch(t *testing.T) {
	idx := newIndex(newMemoryRedis(), "test", nil)
	seedIndex(t, idx)

	t.Run("matches all words, ordered by id", func(t *testing.T) {
		results, err := idx.Search(context.Background(), "bases de datos", 10)
		require.NoError(t, err)
		require.Len(t, results, 2)
		assert.Equal(t, int64(1), results[0].ID)
		assert.Equal(t, int64(3), results[1].ID)
		assert.Equal(t, []string{"SELECT", "JOIN"}, results[1].Subtopics)
	})

	t.Run("accent-insensitive", func(t *testing.T) {
		results, err := idx.Search(context.Background(), "introduccion", 10)
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, "Introducción a SQL", results[0].Title)
	})

	t.Run("narrowing query", func(t *testing.T) {
		results, err := idx.Search(context.Background(), "datos sql", 10)
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, int64(3), results[0].ID)
	})

	t.Run("limit", func(t *testing.T) {
		results, err := idx.Search(context.Background(), "datos", 1)
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, int64(1), results[0].ID)
	})

	t.Run("no searchable words", func(t *testing.T) {
		results, err := idx.Search(context.Background(), "de la", 10)
		require.NoError(t, err)
		assert.Empty(t, results)
	})

	t.Run("no match", func(t *testing.T) {
		results, err := idx.Search(context.Background(), "rust", 10)
		require.NoError(t, err)
		assert.Empty(t, results)
	})
}

func TestIndexErrors(t *testing.T) {
	mem := newMemoryRedis()
	mem.err = errors.New("connection refused")
	idx := newIndex(mem, "test", nil)

	err := idx.IndexModule(context.Background(), ModuleDocument{ID: 1, Title: "x"})
	assert.ErrorIs(t, err, ErrIndexUnavailable)

	_, err = idx.Search(context.Background(), "python", 10)
	assert.ErrorIs(t, err, ErrIndexUnavailable)
}
