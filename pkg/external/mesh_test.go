package external

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/medlit-search-server/internal/domain"
)

func TestMeSHLookup(t *testing.T) {
	var calls int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		assert.Equal(t, "stroke", r.URL.Query().Get("terms"))
		w.Write([]byte(`[3,["D020521","D020765","D000083242"],null,[["Stroke"],["Stroke, Lacunar"],["Ischemic Stroke"]]]`))
	}))
	defer ts.Close()

	client := NewMeSHClient(domain.MeSHConfig{BaseURL: ts.URL, Timeout: 2 * time.Second, CacheTTL: time.Minute}, testLogger())

	labels := client.Lookup(context.Background(), "stroke")
	assert.Equal(t, []string{"Stroke", "Stroke, Lacunar", "Ischemic Stroke"}, labels)

	// Second lookup hits the cache; case-insensitive key.
	client.Lookup(context.Background(), "STROKE")
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestMeSHLookupDegradesToEmpty(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer ts.Close()

	client := NewMeSHClient(domain.MeSHConfig{BaseURL: ts.URL, Timeout: time.Second}, testLogger())
	assert.Empty(t, client.Lookup(context.Background(), "stroke"))
	assert.Empty(t, client.Lookup(context.Background(), "   "))
}

func TestParseMeSH(t *testing.T) {
	assert.Empty(t, parseMeSH([]byte(`not json`)))
	assert.Empty(t, parseMeSH([]byte(`[1,[],null]`)))
	assert.Empty(t, parseMeSH([]byte(`[1,[],null,"bad"]`)))
	assert.Equal(t, []string{"Stroke"}, parseMeSH([]byte(`[1,["D1"],null,[["Stroke"],[""]]]`)))
}
