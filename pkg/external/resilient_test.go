package external

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medlit-search-server/internal/domain"
)

type flakySource struct {
	calls int
	fail  bool
}

func (f *flakySource) SearchQuery(context.Context, string) ([]domain.Record, error) {
	f.calls++
	if f.fail {
		return nil, domain.NewUpstreamStatusError(domain.SourceS2, 500)
	}
	return []domain.Record{{ID: "ok"}}, nil
}

func TestResilientQuerySearcherPassesThrough(t *testing.T) {
	registry := NewBreakerRegistry()
	wrapped := WrapQuerySearcher("s2", &flakySource{}, registry, testLogger())

	records, err := wrapped.SearchQuery(context.Background(), "anything")
	require.NoError(t, err)
	assert.Equal(t, "ok", records[0].ID)

	assert.Equal(t, map[string]string{"s2": "closed"}, registry.States())
}

func TestResilientQuerySearcherOpensAfterFailures(t *testing.T) {
	registry := NewBreakerRegistry()
	inner := &flakySource{fail: true}
	wrapped := WrapQuerySearcher("s2", inner, registry, testLogger())

	for i := 0; i < 5; i++ {
		_, err := wrapped.SearchQuery(context.Background(), "q")
		require.Error(t, err)
	}
	assert.Equal(t, "open", registry.States()["s2"])

	// Open breaker rejects without calling the source.
	before := inner.calls
	_, err := wrapped.SearchQuery(context.Background(), "q")
	require.Error(t, err)
	assert.Equal(t, before, inner.calls)
}

func TestBreakerRegistryTracksAllSources(t *testing.T) {
	registry := NewBreakerRegistry()
	WrapQuerySearcher("jstage", &flakySource{}, registry, testLogger())
	WrapPartsSearcher("pubmed", &fakeParts{}, registry, testLogger())

	states := registry.States()
	assert.Len(t, states, 2)
	assert.Equal(t, "closed", states["jstage"])
	assert.Equal(t, "closed", states["pubmed"])
}

type fakeParts struct{}

func (fakeParts) SearchParts(context.Context, []string) ([]domain.Record, error) {
	return nil, nil
}
