package versions

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/sketch/internal/testutil"
)

func TestNPM_Latest(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.EscapedPath()
		switch gotPath {
		case "/typescript/latest":
			w.Write([]byte(`{"name":"typescript","version":"5.0.0"}`))
		case "/@types%2Fnode/latest":
			w.Write([]byte(`{"name":"@types/node","version":"22.1.0"}`))
		case "/broken/latest":
			w.Write([]byte(`{"name":"broken"}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	npm := NewNPM(srv.URL + "/")
	ctx := context.Background()

	t.Run("plain", func(t *testing.T) {
		v, err := npm.Latest(ctx, "typescript")
		require.NoError(t, err)
		assert.Equal(t, "5.0.0", v)
	})

	t.Run("scoped", func(t *testing.T) {
		v, err := npm.Latest(ctx, "@types/node")
		require.NoError(t, err)
		assert.Equal(t, "22.1.0", v)
		assert.Equal(t, "/@types%2Fnode/latest", gotPath)
	})

	t.Run("not found", func(t *testing.T) {
		_, err := npm.Latest(ctx, "nope")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("no version", func(t *testing.T) {
		_, err := npm.Latest(ctx, "broken")
		assert.ErrorContains(t, err, "no version")
	})
}

func TestNPM_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := NewNPM(srv.URL).Latest(context.Background(), "x")
	assert.ErrorContains(t, err, "500")
}

func TestPinner_AppliesPrefix(t *testing.T) {
	tests := []struct {
		prefix Prefix
		want   string
	}{
		{"", "5.0.0"},
		{"=", "=5.0.0"},
		{"~", "~5.0.0"},
		{"^", "^5.0.0"},
	}
	for _, tt := range tests {
		t.Run(string(tt.prefix), func(t *testing.T) {
			p := &Pinner{Registry: Static{"typescript": "5.0.0"}, Prefix: tt.prefix}
			pins, err := p.Pin(context.Background(), []string{"typescript", "typescript"})
			require.NoError(t, err)
			assert.Equal(t, map[string]string{"typescript": tt.want}, pins)
		})
	}
}

func TestPinner_FailureDiscardsAll(t *testing.T) {
	p := &Pinner{Registry: Static{"a": "1.0.0"}, Prefix: "^"}
	pins, err := p.Pin(context.Background(), []string{"a", "missing"})
	require.Error(t, err)
	assert.Nil(t, pins)

	var pe *PinError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "missing", pe.Package)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.True(t, IsPinError(err))
}

func TestPinner_Timeout(t *testing.T) {
	slow := RegistryFunc(func(ctx context.Context, name string) (string, error) {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(5 * time.Second):
			return "1.0.0", nil
		}
	})
	p := &Pinner{Registry: slow, Timeout: 20 * time.Millisecond}

	_, err := p.Pin(context.Background(), []string{"a"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
}

func TestPinner_Empty(t *testing.T) {
	p := &Pinner{Registry: Static{}}
	pins, err := p.Pin(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, pins)
}

func TestParsePrefix(t *testing.T) {
	for _, s := range []string{"", "=", "~", "^"} {
		p, err := ParsePrefix(s)
		require.NoError(t, err)
		assert.Equal(t, Prefix(s), p)
	}
	_, err := ParsePrefix(">=")
	assert.Error(t, err)
}

func TestCache_HitMissExpiry(t *testing.T) {
	var calls atomic.Int32
	inner := RegistryFunc(func(ctx context.Context, name string) (string, error) {
		n := calls.Add(1)
		if n == 1 {
			return "1.0.0", nil
		}
		return "2.0.0", nil
	})
	clock := testutil.NewClock(time.Unix(1_700_000_000, 0))

	path := filepath.Join(t.TempDir(), "cache", "npm.db")
	c, err := OpenCache(path, DefaultNPMRegistry, inner, time.Hour, WithClock(clock.Now))
	require.NoError(t, err)
	defer c.Close()

	ctx := context.Background()
	v, err := c.Latest(ctx, "react")
	require.NoError(t, err)
	assert.Equal(t, "1.0.0", v)

	v, err = c.Latest(ctx, "react")
	require.NoError(t, err)
	assert.Equal(t, "1.0.0", v)
	assert.Equal(t, int32(1), calls.Load())

	clock.Advance(2 * time.Hour)
	v, err = c.Latest(ctx, "react")
	require.NoError(t, err)
	assert.Equal(t, "2.0.0", v)
	assert.Equal(t, int32(2), calls.Load())
}

func TestCache_PersistsAcrossOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "npm.db")
	ctx := context.Background()

	c1, err := OpenCache(path, "r", Static{"vite": "6.0.0"}, time.Hour)
	require.NoError(t, err)
	_, err = c1.Latest(ctx, "vite")
	require.NoError(t, err)
	require.NoError(t, c1.Close())

	c2, err := OpenCache(path, "r", Static{}, time.Hour)
	require.NoError(t, err)
	defer c2.Close()
	v, err := c2.Latest(ctx, "vite")
	require.NoError(t, err)
	assert.Equal(t, "6.0.0", v)
}

func TestCache_ErrorsAreNotCached(t *testing.T) {
	path := filepath.Join(t.TempDir(), "npm.db")
	c, err := OpenCache(path, "r", Static{}, time.Hour)
	require.NoError(t, err)
	defer c.Close()

	_, err = c.Latest(context.Background(), "ghost")
	assert.ErrorIs(t, err, ErrNotFound)

	var count int
	require.NoError(t, c.db.QueryRow("SELECT COUNT(*) FROM versions").Scan(&count))
	assert.Zero(t, count)
}
