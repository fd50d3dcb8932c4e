package catalog

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestLoader_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(sampleSheet))
	}))
	defer srv.Close()

	snap := NewSnapshot()
	loader := NewLoader(srv.URL, snap, discardLogger())

	products, err := loader.Load(context.Background())
	require.NoError(t, err)
	assert.Len(t, products, 3)
	assert.Equal(t, 3, snap.Len())
	assert.True(t, snap.WaitReady(context.Background(), time.Second))
}

func TestLoader_HTMLResponseDegradesToEmpty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<!doctype html><html>not shared</html>"))
	}))
	defer srv.Close()

	snap := NewSnapshot()
	loader := NewLoader(srv.URL, snap, discardLogger())

	_, err := loader.Load(context.Background())
	require.ErrorIs(t, err, ErrHTMLResponse)

	// failure still marks the snapshot ready so consumers stop waiting
	assert.True(t, snap.WaitReady(context.Background(), 50*time.Millisecond))
	assert.Equal(t, 0, snap.Len())
}

func TestLoader_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	snap := NewSnapshot()
	loader := NewLoader(srv.URL, snap, discardLogger())

	_, err := loader.Load(context.Background())
	assert.Error(t, err)
	assert.Equal(t, 0, snap.Len())
}

func TestLoader_FailureKeepsPreviousSnapshot(t *testing.T) {
	fail := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if fail {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(sampleSheet))
	}))
	defer srv.Close()

	snap := NewSnapshot()
	loader := NewLoader(srv.URL, snap, discardLogger())

	_, err := loader.Load(context.Background())
	require.NoError(t, err)
	require.Equal(t, 3, snap.Len())

	fail = true
	_, err = loader.Load(context.Background())
	require.Error(t, err)
	assert.Equal(t, 3, snap.Len(), "failed reload must not clobber loaded data")
}
