package handler_test

import (
	"bufio"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/novaasia/ordering-service/internal/handler"
	"github.com/novaasia/ordering-service/internal/realtime"
)

func TestEventsHandler_DeliversEventsPublishedAfterConnect(t *testing.T) {
	hub := realtime.NewHub()
	r := chi.NewRouter()
	handler.NewEventsHandler(hub).RegisterRoutes(r)

	srv := httptest.NewServer(r)
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/events")
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	// The subscription is registered before the response headers are written,
	// so a client that has the headers cannot miss this publish.
	hub.Publish(realtime.Event{Type: "new_order", Data: "AB12CD34"})

	lines := make(chan string, 1)
	readErrs := make(chan error, 1)
	go func() {
		reader := bufio.NewReader(resp.Body)
		for {
			line, err := reader.ReadString('\n')
			if err != nil {
				readErrs <- err
				return
			}
			if strings.HasPrefix(line, "data: ") {
				lines <- strings.TrimSpace(strings.TrimPrefix(line, "data: "))
				return
			}
		}
	}()

	select {
	case line := <-lines:
		var ev realtime.Event
		require.NoError(t, json.Unmarshal([]byte(line), &ev))
		assert.Equal(t, "new_order", ev.Type)
		assert.Equal(t, "AB12CD34", ev.Data)
	case err := <-readErrs:
		t.Fatalf("stream ended before delivering the event: %v", err)
	case <-time.After(2 * time.Second):
		t.Fatal("no event received on the stream")
	}
}
