package events

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestWebhookSinkPostsEventJSON(t *testing.T) {
	var received Event
	hits := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
	}))
	defer server.Close()

	sink := NewWebhookSink(server.URL, time.Second)
	event := Event{ID: "evt-1", Name: EntryCreate, CreatedAt: time.Now(), Payload: map[string]any{"id": "user-1"}}
	require.NoError(t, sink.Deliver(context.Background(), event))

	require.Equal(t, 1, hits)
	require.Equal(t, "evt-1", received.ID)
	require.Equal(t, EntryCreate, received.Name)
}

func TestWebhookSinkAllowlistFilters(t *testing.T) {
	hits := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
	}))
	defer server.Close()

	sink := NewWebhookSink(server.URL, time.Second, EntryCreate)

	require.NoError(t, sink.Deliver(context.Background(), Event{ID: "evt-1", Name: AuthSuccess}))
	require.Equal(t, 0, hits, "events outside the allowlist stay inside the process")

	require.NoError(t, sink.Deliver(context.Background(), Event{ID: "evt-2", Name: EntryCreate}))
	require.Equal(t, 1, hits)
}

func TestWebhookSinkUpstreamFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	sink := NewWebhookSink(server.URL, time.Second)
	err := sink.Deliver(context.Background(), Event{ID: "evt-1", Name: EntryCreate})
	require.ErrorContains(t, err, "status 500")
}
