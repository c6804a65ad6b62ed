package practicumclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	pkgerrors "hwbot/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetStatusesSendsTokenAndCursor(t *testing.T) {
	t.Parallel()
	var gotAuth, gotFrom string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotFrom = r.URL.Query().Get("from_date")
		_, _ = w.Write([]byte(`{"homeworks":[],"current_date":2000}`))
	}))
	defer srv.Close()

	client := New(Config{Endpoint: srv.URL, Token: "secret"})
	payload, err := client.GetStatuses(context.Background(), 1500)
	require.NoError(t, err)

	assert.Equal(t, "OAuth secret", gotAuth)
	assert.Equal(t, "1500", gotFrom)
	body, ok := payload.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, json.Number("2000"), body["current_date"])
}

func TestGetStatusesZeroCursorUsesClock(t *testing.T) {
	t.Parallel()
	var gotFrom string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotFrom = r.URL.Query().Get("from_date")
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	client := New(Config{Endpoint: srv.URL}).WithClock(func() time.Time { return time.Unix(4242, 0) })
	_, err := client.GetStatuses(context.Background(), 0)
	require.NoError(t, err)
	assert.Equal(t, "4242", gotFrom)
}

func TestGetStatusesNonOKSkipsDecoding(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("<html>oops"))
	}))
	defer srv.Close()

	_, err := New(Config{Endpoint: srv.URL}).GetStatuses(context.Background(), 1)
	require.Error(t, err)
	assert.True(t, pkgerrors.Is(err, pkgerrors.APIUnexpectedStatus))
	assert.False(t, pkgerrors.Is(err, pkgerrors.APIDecodeFailed))

	appErr := pkgerrors.GetError(err)
	assert.Equal(t, http.StatusInternalServerError, appErr.Details["status_code"])
	assert.Equal(t, "<html>oops", appErr.Details["body"])
}

func TestGetStatusesInvalidJSON(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("not json"))
	}))
	defer srv.Close()

	_, err := New(Config{Endpoint: srv.URL}).GetStatuses(context.Background(), 1)
	assert.True(t, pkgerrors.Is(err, pkgerrors.APIDecodeFailed))
}

func TestGetStatusesTransportFailure(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	_, err := New(Config{Endpoint: url}).GetStatuses(context.Background(), 1)
	assert.True(t, pkgerrors.Is(err, pkgerrors.APIRequestFailed))
}

func TestGetStatusesHonoursContext(t *testing.T) {
	t.Parallel()
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err := New(Config{Endpoint: srv.URL}).GetStatuses(ctx, 1)
	assert.True(t, pkgerrors.Is(err, pkgerrors.APIRequestFailed))
}

func TestGetStatusesCapsBodySize(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"homeworks":[],"current_date":2000}`))
	}))
	defer srv.Close()

	client := New(Config{Endpoint: srv.URL})
	client.maxBody = 10
	_, err := client.GetStatuses(context.Background(), 1)
	assert.True(t, pkgerrors.Is(err, pkgerrors.APIDecodeFailed))
}

func TestSnippetTruncates(t *testing.T) {
	t.Parallel()
	long := strings.Repeat("x", maxBodySnippet+10)
	assert.Len(t, snippet([]byte(long)), maxBodySnippet+3)
}
