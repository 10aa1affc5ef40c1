package health

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakePinger struct{ err error }

func (f fakePinger) Ping(context.Context) error { return f.err }

type fakeCache struct{ ok bool }

func (fakeCache) Backend() string                  { return "memory" }
func (f fakeCache) IsHealthy(context.Context) bool { return f.ok }

func TestCheckBasic(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name   string
		db     Pinger
		cache  CacheProbe
		want   string
		wantDB string
	}{
		{"memory store", nil, fakeCache{ok: true}, "healthy", "not_configured"},
		{"postgres up", fakePinger{}, fakeCache{ok: true}, "healthy", "healthy"},
		{"postgres down", fakePinger{err: errors.New("refused")}, fakeCache{ok: true}, "unhealthy", "unhealthy"},
		{"cache down", fakePinger{}, fakeCache{ok: false}, "degraded", "healthy"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewHealthChecker(tt.db, tt.cache, "test").CheckBasic(ctx)
			assert.Equal(t, tt.want, got.Status)
			assert.Equal(t, tt.wantDB, got.Database.Status)
		})
	}
}

func TestCheckDetailedReportsRuntime(t *testing.T) {
	d := NewHealthChecker(nil, nil, "memory").CheckDetailed(context.Background())
	assert.Equal(t, "healthy", d.Status)
	assert.Positive(t, d.System.Goroutines)
	assert.Nil(t, d.Cache)
}

func TestLiveness(t *testing.T) {
	assert.Equal(t, "none", NewHealthChecker(nil, nil, "memory").Liveness().CacheBackend)

	l := NewHealthChecker(fakePinger{}, fakeCache{ok: true}, "postgres").Liveness()
	assert.Equal(t, "ok", l.Status)
	assert.Equal(t, "postgres", l.Store)
	assert.Equal(t, "memory", l.CacheBackend)
}
